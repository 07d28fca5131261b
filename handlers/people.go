// ABOUTME: People MCP tool handlers
// ABOUTME: Renames, deletes, and sets notification defaults with task fan-out
package handlers

import (
	"context"
	"fmt"

	"github.com/harperreed/fomo/models"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type RenamePersonInput struct {
	ID   string `json:"id" jsonschema:"Person id (required)"`
	Name string `json:"name" jsonschema:"New display name (required)"`
}

type PersonOutput struct {
	Person models.Record `json:"person"`
}

func (h *RecordHandlers) RenamePerson(ctx context.Context, request *mcp.CallToolRequest, input RenamePersonInput) (*mcp.CallToolResult, PersonOutput, error) {
	updated, err := h.state(ctx).RenamePerson(ctx, input.ID, input.Name)
	if err != nil {
		return nil, PersonOutput{}, fmt.Errorf("failed to rename person: %w", err)
	}
	if updated == nil {
		return nil, PersonOutput{}, fmt.Errorf("person %s not found", input.ID)
	}
	return nil, PersonOutput{Person: updated}, nil
}

type DeletePersonInput struct {
	ID string `json:"id" jsonschema:"Person id (required)"`
}

func (h *RecordHandlers) DeletePerson(ctx context.Context, request *mcp.CallToolRequest, input DeletePersonInput) (*mcp.CallToolResult, DeleteRecordOutput, error) {
	deleted, err := h.state(ctx).DeletePerson(ctx, input.ID)
	if err != nil {
		return nil, DeleteRecordOutput{}, fmt.Errorf("failed to delete person: %w", err)
	}
	return nil, DeleteRecordOutput{Deleted: deleted}, nil
}

type SetPersonMethodInput struct {
	ID      string `json:"id" jsonschema:"Person id (required)"`
	Method  string `json:"method" jsonschema:"Notification method: discord, sms, or whatsapp (required)"`
	Enabled bool   `json:"enabled" jsonschema:"New default for the method"`
}

func (h *RecordHandlers) SetPersonMethod(ctx context.Context, request *mcp.CallToolRequest, input SetPersonMethodInput) (*mcp.CallToolResult, PersonOutput, error) {
	updated, err := h.state(ctx).SetPersonMethod(ctx, input.ID, input.Method, input.Enabled)
	if err != nil {
		return nil, PersonOutput{}, err
	}
	if updated == nil {
		return nil, PersonOutput{}, fmt.Errorf("person %s not found", input.ID)
	}
	return nil, PersonOutput{Person: updated}, nil
}
