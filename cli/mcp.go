// ABOUTME: MCP server subcommand
// ABOUTME: Starts the MCP server on stdio for desktop assistant integration
package cli

import (
	"strings"

	"github.com/harperreed/fomo/contacts"
	"github.com/harperreed/fomo/handlers"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"
)

func addMCP(topLevel *cobra.Command, opts *rootOptions) {
	var origin string

	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Start the Model Context Protocol server on stdio",
		RunE: withRuntime(opts, func(cmd *cobra.Command, args []string, rt *runtime) error {
			rt.log.Infow("starting MCP server", "user", rt.user(opts), "tier", rt.cfg.Storage.Tier)
			server := newMCPServer(rt, rt.user(opts), origin)
			return server.Run(cmd.Context(), &mcp.StdioTransport{})
		}),
	}

	cmd.Flags().StringVar(&origin, "origin", "http://localhost:8080", "Origin used to build invite links")
	topLevel.AddCommand(cmd)
}

// newMCPServer registers every tool, resource, and prompt for userID.
func newMCPServer(rt *runtime, userID, origin string) *mcp.Server {
	recordHandlers := handlers.NewRecordHandlers(rt.data, userID, rt.log)
	contactHandlers := handlers.NewContactHandlers(contacts.NewService(rt.data, rt.log), userID, strings.TrimSpace(origin))
	resourceHandlers := handlers.NewResourceHandlers(rt.data, userID)
	promptHandlers := handlers.NewPromptHandlers(rt.data, userID)

	server := mcp.NewServer(&mcp.Implementation{
		Name:    "fomo",
		Version: Version,
	}, nil)

	// Records
	mcp.AddTool(server, &mcp.Tool{
		Name:        "list_records",
		Description: "List records in a collection; tasks can be filtered by completed, overdue, upcoming, starred, or a text query",
	}, recordHandlers.ListRecords)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_record",
		Description: "Get one record by collection and id",
	}, recordHandlers.GetRecord)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "create_record",
		Description: "Create a record in a collection; projects get a colour and a project-level subproject",
	}, recordHandlers.CreateRecord)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "update_record",
		Description: "Merge changes into an existing record; renaming a person updates their tasks",
	}, recordHandlers.UpdateRecord)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "delete_record",
		Description: "Delete a record; deleting a person removes them from every task",
	}, recordHandlers.DeleteRecord)

	// People
	mcp.AddTool(server, &mcp.Tool{
		Name:        "rename_person",
		Description: "Rename a person and update every task that references them",
	}, recordHandlers.RenamePerson)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "delete_person",
		Description: "Delete a person and remove them from every task",
	}, recordHandlers.DeletePerson)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "set_person_method",
		Description: "Set a person's default for discord, sms, or whatsapp notifications and carry it into their tasks",
	}, recordHandlers.SetPersonMethod)

	// Contacts
	mcp.AddTool(server, &mcp.Tool{
		Name:        "list_contacts",
		Description: "List contacts, optionally by status",
	}, contactHandlers.ListContacts)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "add_contact",
		Description: "Add a contact to the directory",
	}, contactHandlers.AddContact)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "invite_contact",
		Description: "Issue a fresh invite link for a contact",
	}, contactHandlers.InviteContact)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "accept_invite",
		Description: "Accept an invite link issued by another user",
	}, contactHandlers.AcceptInvite)

	for _, r := range handlers.Resources() {
		server.AddResource(r, resourceHandlers.ReadResource)
	}
	server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: handlers.URIScheme + "{collection}/{id}",
		Name:        "record",
		Description: "One record by collection and id",
		MIMEType:    "application/json",
	}, resourceHandlers.ReadResource)

	for _, p := range handlers.Prompts() {
		server.AddPrompt(p, promptHandlers.GetPrompt)
	}

	return server
}
