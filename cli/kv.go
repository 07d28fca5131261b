// ABOUTME: KV tier maintenance commands
// ABOUTME: Syncs with the Charm server, reports status, and wipes the local store
package cli

import (
	"bytes"
	"fmt"

	"github.com/gosuri/uitable"
	"github.com/harperreed/fomo/charm"
	"github.com/harperreed/fomo/config"
	"github.com/harperreed/fomo/storage"
	"github.com/spf13/cobra"
)

type kvStatus struct {
	Host     string   `json:"host"`
	Synced   bool     `json:"synced"`
	AutoSync bool     `json:"autoSync"`
	UserID   string   `json:"userId,omitempty"`
	Datasets []string `json:"datasets"`
}

// withKV opens only the KV client, so it works whatever tier is configured.
func withKV(opts *rootOptions, fn func(cmd *cobra.Command, client *charm.Client) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(opts.configFile)
		if err != nil {
			return err
		}
		client, err := storage.OpenKV(cfg.Storage)
		if err != nil {
			return err
		}
		defer func() { _ = client.Close() }()
		return fn(cmd, client)
	}
}

func addKV(topLevel *cobra.Command, opts *rootOptions) {
	cmd := &cobra.Command{
		Use:   "kv",
		Short: "Maintain the local key/value store",
	}

	sync := &cobra.Command{
		Use:   "sync",
		Short: "Sync the KV store with the Charm server",
		RunE: withKV(opts, func(cmd *cobra.Command, client *charm.Client) error {
			if !client.Synced() {
				return fmt.Errorf("kv store is local only; set storage.kv_sync to enable Charm sync")
			}
			if err := client.Sync(); err != nil {
				return fmt.Errorf("sync failed: %w", err)
			}
			success(cmd.OutOrStdout(), "Synced with %s", client.Config().Host)
			return nil
		}),
	}

	status := &cobra.Command{
		Use:   "status",
		Short: "Show KV connection and stored datasets",
		RunE: withKV(opts, func(cmd *cobra.Command, client *charm.Client) error {
			keys, err := client.KeysWithPrefix([]byte(storage.KeyPrefix))
			if err != nil {
				return err
			}
			st := kvStatus{
				Host:     client.Config().Host,
				Synced:   client.Synced(),
				AutoSync: client.Config().AutoSync,
				Datasets: make([]string, 0, len(keys)),
			}
			for _, k := range keys {
				st.Datasets = append(st.Datasets, string(bytes.TrimPrefix(k, []byte(storage.KeyPrefix+"_"))))
			}
			if st.Synced {
				st.UserID, _ = client.ID()
			}
			return printValue(cmd.OutOrStdout(), opts.output, st, func(tbl *uitable.Table) {
				tbl.AddRow(bold.Sprint("Host"), st.Host)
				tbl.AddRow(bold.Sprint("Synced"), st.Synced)
				tbl.AddRow(bold.Sprint("Auto sync"), st.AutoSync)
				if st.UserID != "" {
					tbl.AddRow(bold.Sprint("Charm ID"), st.UserID)
				}
				tbl.AddRow(bold.Sprint("Datasets"), len(st.Datasets))
			})
		}),
	}

	var confirm bool
	wipe := &cobra.Command{
		Use:   "wipe",
		Short: "Delete every key in the KV store",
		RunE: withKV(opts, func(cmd *cobra.Command, client *charm.Client) error {
			if !confirm {
				return fmt.Errorf("refusing to wipe without --confirm")
			}
			if err := client.Reset(); err != nil {
				return fmt.Errorf("wipe failed: %w", err)
			}
			success(cmd.OutOrStdout(), "KV store wiped")
			return nil
		}),
	}
	wipe.Flags().BoolVar(&confirm, "confirm", false, "Really delete everything")

	cmd.AddCommand(sync, status, wipe)
	topLevel.AddCommand(cmd)
}
