// ABOUTME: Storage maintenance commands
// ABOUTME: Loads, saves, clears, and snapshots a namespace's dataset on the configured tier
package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/gosuri/uitable"
	"github.com/harperreed/fomo/models"
	"github.com/harperreed/fomo/storage"
	"github.com/spf13/cobra"
)

func addStorage(topLevel *cobra.Command, opts *rootOptions) {
	cmd := &cobra.Command{
		Use:   "storage",
		Short: "Inspect and maintain stored datasets",
	}

	load := &cobra.Command{
		Use:   "load",
		Short: "Print the dataset",
		RunE: withRuntime(opts, func(cmd *cobra.Command, args []string, rt *runtime) error {
			ds := rt.store.LoadData(cmd.Context(), rt.user(opts))
			return printValue(cmd.OutOrStdout(), opts.output, ds, func(tbl *uitable.Table) {
				header(tbl, "COLLECTION", "RECORDS")
				for _, c := range models.Collections {
					tbl.AddRow(c, len(ds.Get(c)))
				}
			})
		}),
	}

	var file string
	save := &cobra.Command{
		Use:   "save",
		Short: "Replace the dataset with a JSON document",
		Example: `
fomo storage save --file backup.json
cat backup.json | fomo storage save
`,
		RunE: withRuntime(opts, func(cmd *cobra.Command, args []string, rt *runtime) error {
			var r io.Reader = cmd.InOrStdin()
			if file != "" && file != "-" {
				f, err := os.Open(file)
				if err != nil {
					return fmt.Errorf("failed to open %s: %w", file, err)
				}
				defer func() { _ = f.Close() }()
				r = f
			}
			raw, err := io.ReadAll(r)
			if err != nil {
				return fmt.Errorf("failed to read dataset: %w", err)
			}
			ds, err := models.DecodeDataset(raw)
			if err != nil {
				return fmt.Errorf("invalid dataset: %w", err)
			}
			rt.store.SaveData(cmd.Context(), ds, rt.user(opts))
			success(cmd.OutOrStdout(), "Saved dataset for %s", models.Namespace(rt.user(opts)))
			return nil
		}),
	}
	save.Flags().StringVarP(&file, "file", "f", "-", "JSON dataset file, or - for stdin")

	clearCmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete the dataset",
		RunE: withRuntime(opts, func(cmd *cobra.Command, args []string, rt *runtime) error {
			rt.store.ClearData(cmd.Context(), rt.user(opts))
			success(cmd.OutOrStdout(), "Cleared dataset for %s", models.Namespace(rt.user(opts)))
			return nil
		}),
	}

	restore := &cobra.Command{
		Use:   "restore",
		Short: "Restore the dataset from the copy taken by clear",
		RunE: withRuntime(opts, func(cmd *cobra.Command, args []string, rt *runtime) error {
			if err := requireSnapshots(rt); err != nil {
				return err
			}
			rt.store.RestoreData(cmd.Context(), rt.user(opts))
			success(cmd.OutOrStdout(), "Restored dataset for %s", models.Namespace(rt.user(opts)))
			return nil
		}),
	}

	backup := &cobra.Command{
		Use:   "backup",
		Short: "Snapshot every stored dataset",
		RunE: withRuntime(opts, func(cmd *cobra.Command, args []string, rt *runtime) error {
			if err := requireSnapshots(rt); err != nil {
				return err
			}
			rt.store.BackupAll(cmd.Context())
			success(cmd.OutOrStdout(), "Backed up all datasets")
			return nil
		}),
	}

	restoreAll := &cobra.Command{
		Use:   "restore-all",
		Short: "Restore every dataset from the last backup",
		RunE: withRuntime(opts, func(cmd *cobra.Command, args []string, rt *runtime) error {
			if err := requireSnapshots(rt); err != nil {
				return err
			}
			rt.store.RestoreAll(cmd.Context())
			success(cmd.OutOrStdout(), "Restored all datasets")
			return nil
		}),
	}

	namespaces := &cobra.Command{
		Use:   "namespaces",
		Short: "List stored namespaces",
		RunE: withRuntime(opts, func(cmd *cobra.Command, args []string, rt *runtime) error {
			lister, ok := rt.store.Backend().(storage.Lister)
			if !ok {
				return fmt.Errorf("storage tier %q cannot list namespaces", rt.cfg.Storage.Tier)
			}
			names, err := lister.Namespaces(cmd.Context())
			if err != nil {
				return err
			}

			stamper, stamped := rt.store.Backend().(storage.Stamper)
			infos := make([]namespaceInfo, 0, len(names))
			for _, n := range names {
				info := namespaceInfo{Namespace: n}
				if stamped {
					ts, err := stamper.UpdatedAt(cmd.Context(), n)
					if err != nil && !errors.Is(err, storage.ErrNotFound) {
						return err
					}
					if !ts.IsZero() {
						info.UpdatedAt = &ts
					}
				}
				infos = append(infos, info)
			}

			return printValue(cmd.OutOrStdout(), opts.output, infos, func(tbl *uitable.Table) {
				header(tbl, "NAMESPACE", "UPDATED")
				for _, info := range infos {
					updated := "-"
					if info.UpdatedAt != nil {
						updated = info.UpdatedAt.Local().Format(time.RFC3339)
					}
					tbl.AddRow(info.Namespace, updated)
				}
			})
		}),
	}

	cmd.AddCommand(load, save, clearCmd, restore, backup, restoreAll, namespaces)
	topLevel.AddCommand(cmd)
}

type namespaceInfo struct {
	Namespace string     `json:"namespace"`
	UpdatedAt *time.Time `json:"updatedAt,omitempty"`
}

func requireSnapshots(rt *runtime) error {
	if _, ok := rt.store.Backend().(storage.Snapshotter); !ok {
		return fmt.Errorf("storage tier %q has no snapshots", rt.cfg.Storage.Tier)
	}
	return nil
}
