// ABOUTME: Migration utility for copying datasets between storage tiers.
// ABOUTME: Provides dry-run and backup capabilities for safe tier moves.

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/harperreed/fomo/config"
	"github.com/harperreed/fomo/logging"
	"github.com/harperreed/fomo/models"
	"github.com/harperreed/fomo/storage"
	"go.uber.org/zap"
)

type options struct {
	users     []string
	dryRun    bool
	backup    bool
	backupDir string
	force     bool
}

type result struct {
	Copied  []string
	Skipped []string
	Backups []string
}

func main() {
	configFile := flag.String("config", "", "Config file (default: ./fomo.yaml)")
	from := flag.String("from", "", "Source tier: file, kv, remote, database, redis (required)")
	to := flag.String("to", "", "Destination tier (required)")
	users := flag.String("users", "", "Comma-separated namespaces to copy (default: every namespace in the source)")
	dryRun := flag.Bool("dry-run", false, "Show what would happen without making changes")
	backup := flag.Bool("backup", true, "Write the destination dataset to a JSON file before overwriting it")
	backupDir := flag.String("backup-dir", ".", "Directory for backup files")
	force := flag.Bool("force", false, "Overwrite destination datasets that already hold data")
	flag.Parse()

	if *from == "" || *to == "" {
		fmt.Fprintln(os.Stderr, "Error: -from and -to are required")
		os.Exit(2)
	}

	cfg, err := config.Load(*configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	log, err := logging.New(cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	opts := options{
		dryRun:    *dryRun,
		backup:    *backup,
		backupDir: *backupDir,
		force:     *force,
	}
	for _, u := range strings.Split(*users, ",") {
		if u = strings.TrimSpace(u); u != "" {
			opts.users = append(opts.users, u)
		}
	}

	ctx := context.Background()
	res, err := run(ctx, cfg.Storage, *from, *to, opts, log)
	if err != nil {
		log.Fatalw("migration failed", "error", err)
	}
	log.Infow("migration completed", "copied", len(res.Copied), "skipped", len(res.Skipped), "backups", res.Backups, "dry_run", opts.dryRun)
}

func run(ctx context.Context, base config.StorageConfig, from, to string, opts options, log *zap.SugaredLogger) (*result, error) {
	if from == to {
		return nil, fmt.Errorf("source and destination are both %q", from)
	}

	srcCfg, dstCfg := base, base
	srcCfg.Tier, dstCfg.Tier = from, to

	src, closeSrc, err := storage.Open(ctx, srcCfg, log)
	if err != nil {
		return nil, fmt.Errorf("failed to open source: %w", err)
	}
	defer func() { _ = closeSrc() }()

	dst, closeDst, err := storage.Open(ctx, dstCfg, log)
	if err != nil {
		return nil, fmt.Errorf("failed to open destination: %w", err)
	}
	defer func() { _ = closeDst() }()

	return migrate(ctx, src, dst, opts, log)
}

func migrate(ctx context.Context, src, dst storage.Backend, opts options, log *zap.SugaredLogger) (*result, error) {
	namespaces := opts.users
	if len(namespaces) == 0 {
		lister, ok := src.(storage.Lister)
		if !ok {
			return nil, errors.New("source tier cannot list namespaces; pass -users")
		}
		var err error
		if namespaces, err = lister.Namespaces(ctx); err != nil {
			return nil, fmt.Errorf("failed to list namespaces: %w", err)
		}
	}
	log.Infow("namespaces to migrate", "count", len(namespaces))

	res := &result{}
	stamp := time.Now().Format("20060102-150405")

	for _, ns := range namespaces {
		ds, err := src.Load(ctx, ns)
		if errors.Is(err, storage.ErrNotFound) {
			log.Infow("source has no dataset", "namespace", ns)
			res.Skipped = append(res.Skipped, ns)
			continue
		}
		if err != nil {
			return res, fmt.Errorf("failed to load %s: %w", ns, err)
		}

		existing, err := dst.Load(ctx, ns)
		if err != nil && !errors.Is(err, storage.ErrNotFound) {
			return res, fmt.Errorf("failed to read destination %s: %w", ns, err)
		}
		if existing != nil && !isEmpty(existing) {
			if !opts.force {
				log.Warnw("destination already has data, skipping (use -force)", "namespace", ns)
				res.Skipped = append(res.Skipped, ns)
				continue
			}
			if opts.backup && !opts.dryRun {
				path, err := writeBackup(opts.backupDir, ns, stamp, existing)
				if err != nil {
					return res, err
				}
				log.Infow("backup created", "namespace", ns, "path", path)
				res.Backups = append(res.Backups, path)
			}
		}

		if opts.dryRun {
			log.Infow("would copy", "namespace", ns, "tasks", len(ds.Tasks), "projects", len(ds.Projects), "people", len(ds.People))
			res.Copied = append(res.Copied, ns)
			continue
		}
		if err := dst.Save(ctx, ns, ds); err != nil {
			return res, fmt.Errorf("failed to save %s: %w", ns, err)
		}
		log.Infow("copied", "namespace", ns)
		res.Copied = append(res.Copied, ns)
	}
	return res, nil
}

func isEmpty(ds *models.Dataset) bool {
	for _, c := range models.Collections {
		if len(ds.Get(c)) > 0 {
			return false
		}
	}
	return true
}

func writeBackup(dir, namespace, stamp string, ds *models.Dataset) (string, error) {
	raw, err := models.EncodeDataset(ds, true)
	if err != nil {
		return "", fmt.Errorf("failed to encode backup: %w", err)
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create backup dir: %w", err)
	}
	name := fmt.Sprintf("%s.backup.%s.json", strings.ReplaceAll(namespace, string(filepath.Separator), "_"), stamp)
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, raw, 0644); err != nil {
		return "", fmt.Errorf("failed to create backup: %w", err)
	}
	return path, nil
}
