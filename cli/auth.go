// ABOUTME: Auth helper commands
// ABOUTME: Mints access tokens for the supabase auth mode and the remote storage tier
package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/harperreed/fomo/config"
	"github.com/harperreed/fomo/web"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

func addAuth(topLevel *cobra.Command, opts *rootOptions) {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Authentication helpers",
	}

	var name string
	var ttl time.Duration
	token := &cobra.Command{
		Use:   "token",
		Short: "Sign an access token for a user",
		Long: `Sign an HS256 access token the server accepts in supabase auth mode.
The secret comes from auth.jwt_secret; when unset you are prompted for it.
The token also works as storage.remote_token for the remote tier.`,
		Example: `
fomo auth token --user alice
FOMO_STORAGE_REMOTE_TOKEN=$(fomo auth token --user alice) fomo records list tasks
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(opts.configFile)
			if err != nil {
				return err
			}
			secret := cfg.Auth.JWTSecret
			if secret == "" {
				if secret, err = readSecret(cmd); err != nil {
					return err
				}
			}

			user := opts.userID
			if user == "" {
				user = cfg.Auth.DefaultUserID
			}
			signed, err := web.IssueToken(secret, user, name, ttl)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), signed)
			return err
		},
	}
	token.Flags().StringVar(&name, "name", "", "Display name carried in the token")
	token.Flags().DurationVar(&ttl, "ttl", 24*time.Hour, "Token lifetime")

	cmd.AddCommand(token)
	topLevel.AddCommand(cmd)
}

// readSecret prompts without echo on a terminal and reads a line otherwise.
func readSecret(cmd *cobra.Command) (string, error) {
	if f, ok := cmd.InOrStdin().(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		fmt.Fprint(cmd.ErrOrStderr(), "JWT secret: ")
		raw, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(cmd.ErrOrStderr())
		if err != nil {
			return "", fmt.Errorf("failed to read secret: %w", err)
		}
		return strings.TrimSpace(string(raw)), nil
	}

	line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("no jwt secret configured and none given on stdin")
	}
	return strings.TrimSpace(line), nil
}
