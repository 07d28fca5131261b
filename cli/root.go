// ABOUTME: Root command and shared runtime for the fomo CLI
// ABOUTME: Loads config, builds the logger, and opens the configured storage tier for subcommands
package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/harperreed/fomo/config"
	"github.com/harperreed/fomo/data"
	"github.com/harperreed/fomo/logging"
	"github.com/harperreed/fomo/storage"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// Build information, set with -ldflags.
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

type rootOptions struct {
	configFile string
	userID     string
	output     string
}

// runtime is what a subcommand needs to touch the dataset.
type runtime struct {
	cfg   *config.Config
	log   *zap.SugaredLogger
	store *storage.Store
	data  *data.Service
	close func() error
}

// user resolves the namespace owner: --user, then user_id, then the auth
// default user.
func (r *runtime) user(opts *rootOptions) string {
	if opts.userID != "" {
		return opts.userID
	}
	if r.cfg.UserID != "" {
		return r.cfg.UserID
	}
	return r.cfg.Auth.DefaultUserID
}

func openRuntime(ctx context.Context, opts *rootOptions) (*runtime, error) {
	cfg, err := config.Load(opts.configFile)
	if err != nil {
		return nil, err
	}

	log, err := logging.New(cfg.Log)
	if err != nil {
		return nil, err
	}

	backend, closeBackend, err := storage.Open(ctx, cfg.Storage, log)
	if err != nil {
		_ = log.Sync()
		return nil, err
	}
	log.Debugw("storage opened", "tier", cfg.Storage.Tier)

	store := storage.New(backend, log)
	return &runtime{
		cfg:   cfg,
		log:   log,
		store: store,
		data:  data.NewService(store, log),
		close: func() error {
			err := closeBackend()
			_ = log.Sync()
			return err
		},
	}, nil
}

// withRuntime adapts a runtime-consuming function into a cobra RunE.
func withRuntime(opts *rootOptions, fn func(cmd *cobra.Command, args []string, rt *runtime) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		rt, err := openRuntime(cmd.Context(), opts)
		if err != nil {
			return err
		}
		defer func() { _ = rt.close() }()
		return fn(cmd, args, rt)
	}
}

// NewRootCommand builds the command tree.
func NewRootCommand() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:           "fomo",
		Short:         "Per-user task, project, dream, and people store.",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cmd.PersistentFlags().StringVarP(&opts.configFile, "config", "c", "", "Config file (default: ./fomo.yaml or $XDG_CONFIG_HOME/fomo/fomo.yaml)")
	cmd.PersistentFlags().StringVarP(&opts.userID, "user", "u", "", "Dataset owner (default: user_id or auth.default_user_id)")
	cmd.PersistentFlags().StringVarP(&opts.output, "output", "o", outputJSON, "Output format. One of 'json', 'yaml', or 'table'.")

	addServe(cmd, opts)
	addMCP(cmd, opts)
	addStorage(cmd, opts)
	addRecords(cmd, opts)
	addPeople(cmd, opts)
	addContacts(cmd, opts)
	addKV(cmd, opts)
	addAuth(cmd, opts)
	addVersion(cmd, opts)
	return cmd
}

// Execute runs the CLI and exits non-zero on error.
func Execute() {
	if err := NewRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
