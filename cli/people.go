// ABOUTME: People CLI commands
// ABOUTME: Rename, delete, and notification defaults, each fanning out to tasks
package cli

import (
	"fmt"
	"strconv"

	"github.com/harperreed/fomo/app"
	"github.com/spf13/cobra"
)

func addPeople(topLevel *cobra.Command, opts *rootOptions) {
	cmd := &cobra.Command{
		Use:   "people",
		Short: "Manage people and their task references",
	}

	rename := &cobra.Command{
		Use:   "rename <id> <name>",
		Short: "Rename a person and every task reference",
		Args:  cobra.ExactArgs(2),
		RunE: withRuntime(opts, func(cmd *cobra.Command, args []string, rt *runtime) error {
			st := app.NewState(rt.data, rt.user(opts), rt.log)
			st.Load(cmd.Context())
			updated, err := st.RenamePerson(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}
			if updated == nil {
				return fmt.Errorf("person %s not found", args[0])
			}
			return printValue(cmd.OutOrStdout(), opts.output, updated, fieldTable(updated))
		}),
	}

	del := &cobra.Command{
		Use:     "delete <id>",
		Aliases: []string{"rm"},
		Short:   "Delete a person and remove them from every task",
		Args:    cobra.ExactArgs(1),
		RunE: withRuntime(opts, func(cmd *cobra.Command, args []string, rt *runtime) error {
			st := app.NewState(rt.data, rt.user(opts), rt.log)
			st.Load(cmd.Context())
			removed, err := st.DeletePerson(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if !removed {
				return fmt.Errorf("person %s not found", args[0])
			}
			success(cmd.OutOrStdout(), "Deleted person %s", args[0])
			return nil
		}),
	}

	method := &cobra.Command{
		Use:   "method <id> <discord|sms|whatsapp> <on|off>",
		Short: "Set a person's default for a notification method",
		Example: `
fomo people method 3f2a... sms on
`,
		Args: cobra.ExactArgs(3),
		RunE: withRuntime(opts, func(cmd *cobra.Command, args []string, rt *runtime) error {
			enabled, err := parseSwitch(args[2])
			if err != nil {
				return err
			}
			st := app.NewState(rt.data, rt.user(opts), rt.log)
			st.Load(cmd.Context())
			updated, err := st.SetPersonMethod(cmd.Context(), args[0], args[1], enabled)
			if err != nil {
				return err
			}
			if updated == nil {
				return fmt.Errorf("person %s not found", args[0])
			}
			return printValue(cmd.OutOrStdout(), opts.output, updated, fieldTable(updated))
		}),
	}

	cmd.AddCommand(rename, del, method)
	topLevel.AddCommand(cmd)
}

func parseSwitch(s string) (bool, error) {
	switch s {
	case "on":
		return true, nil
	case "off":
		return false, nil
	}
	b, err := strconv.ParseBool(s)
	if err != nil {
		return false, fmt.Errorf("expected on or off, got %q", s)
	}
	return b, nil
}
