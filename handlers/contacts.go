// ABOUTME: Contact MCP tool handlers
// ABOUTME: Implements list_contacts, add_contact, invite_contact, and accept_invite tools
package handlers

import (
	"context"
	"fmt"
	"strings"

	"github.com/harperreed/fomo/contacts"
	"github.com/harperreed/fomo/models"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type ContactHandlers struct {
	contacts *contacts.Service
	userID   string
	origin   string
}

// NewContactHandlers serves userID's contact directory. Invite links are
// built against origin.
func NewContactHandlers(svc *contacts.Service, userID, origin string) *ContactHandlers {
	return &ContactHandlers{contacts: svc, userID: userID, origin: origin}
}

type ListContactsInput struct {
	Status string `json:"status,omitempty" jsonschema:"Only return contacts with this status: none, invited, or accepted"`
}

type ListContactsOutput struct {
	Contacts []models.Contact `json:"contacts"`
	Count    int              `json:"count"`
}

func (h *ContactHandlers) ListContacts(ctx context.Context, request *mcp.CallToolRequest, input ListContactsInput) (*mcp.CallToolResult, ListContactsOutput, error) {
	all, err := h.contacts.List(ctx, h.userID)
	if err != nil {
		return nil, ListContactsOutput{}, fmt.Errorf("failed to list contacts: %w", err)
	}

	out := make([]models.Contact, 0, len(all))
	for _, c := range all {
		if input.Status == "" || c.Status == input.Status {
			out = append(out, c)
		}
	}
	return nil, ListContactsOutput{Contacts: out, Count: len(out)}, nil
}

type AddContactInput struct {
	Name        string `json:"name" jsonschema:"Contact name (required)"`
	Login       string `json:"login,omitempty" jsonschema:"Login of the contact's own account"`
	InviteToken string `json:"invite_token,omitempty" jsonschema:"Existing invite token; the contact starts as invited"`
}

type ContactOutput struct {
	Contact *models.Contact `json:"contact"`
}

func (h *ContactHandlers) AddContact(ctx context.Context, request *mcp.CallToolRequest, input AddContactInput) (*mcp.CallToolResult, ContactOutput, error) {
	c, err := h.contacts.Create(ctx, h.userID, input.Name, input.Login, input.InviteToken)
	if err != nil {
		return nil, ContactOutput{}, err
	}
	return nil, ContactOutput{Contact: c}, nil
}

type InviteContactInput struct {
	ID string `json:"id" jsonschema:"Contact id (required)"`
}

type InviteContactOutput struct {
	Link    string          `json:"link"`
	Contact *models.Contact `json:"contact"`
}

func (h *ContactHandlers) InviteContact(ctx context.Context, request *mcp.CallToolRequest, input InviteContactInput) (*mcp.CallToolResult, InviteContactOutput, error) {
	link, c, err := h.contacts.Invite(ctx, h.userID, input.ID, h.origin)
	if err != nil {
		return nil, InviteContactOutput{}, fmt.Errorf("failed to invite contact: %w", err)
	}
	if c == nil {
		return nil, InviteContactOutput{}, fmt.Errorf("contact %s not found", input.ID)
	}
	return nil, InviteContactOutput{Link: link, Contact: c}, nil
}

type AcceptInviteInput struct {
	Owner string `json:"owner" jsonschema:"User id that issued the invite (required)"`
	Link  string `json:"link" jsonschema:"Invite link or bare token (required)"`
}

// AcceptInvite accepts an invite issued by another user on behalf of the
// server's user.
func (h *ContactHandlers) AcceptInvite(ctx context.Context, request *mcp.CallToolRequest, input AcceptInviteInput) (*mcp.CallToolResult, ContactOutput, error) {
	if input.Owner == "" {
		return nil, ContactOutput{}, fmt.Errorf("owner is required")
	}
	token := strings.TrimSpace(input.Link)
	if !contacts.ValidInviteToken(token) {
		token = contacts.ParseInviteToken(input.Link)
	}
	if token == "" {
		return nil, ContactOutput{}, contacts.ErrInvalidInviteToken
	}

	c, err := h.contacts.Accept(ctx, input.Owner, token, h.userID)
	if err != nil {
		return nil, ContactOutput{}, err
	}
	if c == nil {
		return nil, ContactOutput{}, fmt.Errorf("no pending invite for that token")
	}
	return nil, ContactOutput{Contact: c}, nil
}
