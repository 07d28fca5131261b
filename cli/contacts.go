// ABOUTME: Contact CLI commands
// ABOUTME: Human-friendly commands for the contact directory and invite links
package cli

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"
	"github.com/harperreed/fomo/contacts"
	"github.com/harperreed/fomo/models"
	"github.com/spf13/cobra"
)

var statusColors = map[string]*color.Color{
	models.ContactStatusNone:     color.New(color.Faint),
	models.ContactStatusInvited:  color.New(color.FgYellow),
	models.ContactStatusAccepted: color.New(color.FgGreen),
}

func contactTable(list []models.Contact) func(*uitable.Table) {
	return func(tbl *uitable.Table) {
		header(tbl, "ID", "NAME", "LOGIN", "STATUS")
		for _, c := range list {
			status := c.Status
			if col, ok := statusColors[status]; ok {
				status = col.Sprint(status)
			}
			tbl.AddRow(c.ID, c.Name, c.Login, status)
		}
	}
}

func addContacts(topLevel *cobra.Command, opts *rootOptions) {
	cmd := &cobra.Command{
		Use:   "contacts",
		Short: "Manage the contact directory",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List contacts",
		RunE: withRuntime(opts, func(cmd *cobra.Command, args []string, rt *runtime) error {
			all, err := contacts.NewService(rt.data, rt.log).List(cmd.Context(), rt.user(opts))
			if err != nil {
				return err
			}
			return printValue(cmd.OutOrStdout(), opts.output, all, contactTable(all))
		}),
	}

	var name, login, token string
	add := &cobra.Command{
		Use:   "add",
		Short: "Add a contact",
		RunE: withRuntime(opts, func(cmd *cobra.Command, args []string, rt *runtime) error {
			c, err := contacts.NewService(rt.data, rt.log).Create(cmd.Context(), rt.user(opts), name, login, token)
			if err != nil {
				return err
			}
			return printValue(cmd.OutOrStdout(), opts.output, c, contactTable([]models.Contact{*c}))
		}),
	}
	add.Flags().StringVar(&name, "name", "", "Contact name (required)")
	add.Flags().StringVar(&login, "login", "", "Login of the contact's account")
	add.Flags().StringVar(&token, "token", "", "Existing invite token")
	_ = add.MarkFlagRequired("name")

	var origin string
	invite := &cobra.Command{
		Use:   "invite <id>",
		Short: "Issue a fresh invite link",
		Args:  cobra.ExactArgs(1),
		RunE: withRuntime(opts, func(cmd *cobra.Command, args []string, rt *runtime) error {
			link, c, err := contacts.NewService(rt.data, rt.log).Invite(cmd.Context(), rt.user(opts), args[0], origin)
			if err != nil {
				return err
			}
			if c == nil {
				return fmt.Errorf("contact %s not found", args[0])
			}
			if opts.output == outputTable {
				success(cmd.OutOrStdout(), "Invite for %s: %s", c.Name, link)
				return nil
			}
			return printValue(cmd.OutOrStdout(), opts.output, map[string]interface{}{"link": link, "contact": c}, nil)
		}),
	}
	invite.Flags().StringVar(&origin, "origin", "http://localhost:8080", "Origin the invite link points at")

	var owner string
	accept := &cobra.Command{
		Use:   "accept <link|token>",
		Short: "Accept an invite issued by another user",
		Args:  cobra.ExactArgs(1),
		RunE: withRuntime(opts, func(cmd *cobra.Command, args []string, rt *runtime) error {
			t := strings.TrimSpace(args[0])
			if !contacts.ValidInviteToken(t) {
				t = contacts.ParseInviteToken(args[0])
			}
			if t == "" {
				return contacts.ErrInvalidInviteToken
			}
			c, err := contacts.NewService(rt.data, rt.log).Accept(cmd.Context(), owner, t, rt.user(opts))
			if err != nil {
				return err
			}
			if c == nil {
				return fmt.Errorf("no pending invite for that token")
			}
			return printValue(cmd.OutOrStdout(), opts.output, c, contactTable([]models.Contact{*c}))
		}),
	}
	accept.Flags().StringVar(&owner, "owner", "", "User id that issued the invite (required)")
	_ = accept.MarkFlagRequired("owner")

	del := &cobra.Command{
		Use:     "delete <id>",
		Aliases: []string{"rm"},
		Short:   "Delete a contact",
		Args:    cobra.ExactArgs(1),
		RunE: withRuntime(opts, func(cmd *cobra.Command, args []string, rt *runtime) error {
			removed, err := contacts.NewService(rt.data, rt.log).Delete(cmd.Context(), rt.user(opts), args[0])
			if err != nil {
				return err
			}
			if !removed {
				return fmt.Errorf("contact %s not found", args[0])
			}
			success(cmd.OutOrStdout(), "Deleted contact %s", args[0])
			return nil
		}),
	}

	cmd.AddCommand(list, add, invite, accept, del)
	topLevel.AddCommand(cmd)
}
