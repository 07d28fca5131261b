// ABOUTME: Record MCP tool handlers
// ABOUTME: Implements list_records, get_record, create_record, update_record, and delete_record tools
package handlers

import (
	"context"
	"fmt"
	"time"

	"github.com/harperreed/fomo/app"
	"github.com/harperreed/fomo/data"
	"github.com/harperreed/fomo/models"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"
)

// RecordHandlers serves one user's dataset over MCP.
type RecordHandlers struct {
	data   *data.Service
	userID string
	log    *zap.SugaredLogger
	now    func() time.Time
}

func NewRecordHandlers(svc *data.Service, userID string, log *zap.SugaredLogger) *RecordHandlers {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &RecordHandlers{data: svc, userID: userID, log: log, now: time.Now}
}

// state loads a fresh App state so cross-entity fixups run on every mutation.
func (h *RecordHandlers) state(ctx context.Context) *app.State {
	st := app.NewState(h.data, h.userID, h.log)
	st.Load(ctx)
	return st
}

type ListRecordsInput struct {
	Collection string   `json:"collection" jsonschema:"Collection to list: tasks, projects, dreams, people, or contacts (required)"`
	Filters    []string `json:"filters,omitempty" jsonschema:"Task filters to AND together: completed, overdue, upcoming, starred"`
	Query      string   `json:"query,omitempty" jsonschema:"Case-insensitive text search over task text"`
	Limit      int      `json:"limit,omitempty" jsonschema:"Maximum number of records to return (default 100)"`
}

type ListRecordsOutput struct {
	Collection string          `json:"collection"`
	Records    []models.Record `json:"records"`
	Count      int             `json:"count"`
}

func (h *RecordHandlers) ListRecords(ctx context.Context, request *mcp.CallToolRequest, input ListRecordsInput) (*mcp.CallToolResult, ListRecordsOutput, error) {
	coll, err := models.ParseCollection(input.Collection)
	if err != nil {
		return nil, ListRecordsOutput{}, err
	}

	records, err := h.data.GetAll(ctx, coll, h.userID)
	if err != nil {
		return nil, ListRecordsOutput{}, fmt.Errorf("failed to list %s: %w", coll, err)
	}

	if len(input.Filters) > 0 || input.Query != "" {
		if coll != models.CollectionTasks {
			return nil, ListRecordsOutput{}, fmt.Errorf("filters and query only apply to tasks")
		}
		filters, err := app.ParseFilters(input.Filters)
		if err != nil {
			return nil, ListRecordsOutput{}, err
		}
		records = app.FilterTasks(records, filters, input.Query, h.now())
	}

	limit := input.Limit
	if limit <= 0 {
		limit = 100
	}
	if len(records) > limit {
		records = records[:limit]
	}

	return nil, ListRecordsOutput{Collection: string(coll), Records: records, Count: len(records)}, nil
}

type RecordInput struct {
	Collection string `json:"collection" jsonschema:"Collection name (required)"`
	ID         string `json:"id" jsonschema:"Record id (required)"`
}

type RecordOutput struct {
	Record models.Record `json:"record"`
}

func (h *RecordHandlers) GetRecord(ctx context.Context, request *mcp.CallToolRequest, input RecordInput) (*mcp.CallToolResult, RecordOutput, error) {
	coll, err := models.ParseCollection(input.Collection)
	if err != nil {
		return nil, RecordOutput{}, err
	}
	if input.ID == "" {
		return nil, RecordOutput{}, fmt.Errorf("id is required")
	}

	record, err := h.data.GetByID(ctx, coll, input.ID, h.userID)
	if err != nil {
		return nil, RecordOutput{}, err
	}
	if record == nil {
		return nil, RecordOutput{}, fmt.Errorf("%s record %s not found", coll, input.ID)
	}
	return nil, RecordOutput{Record: record}, nil
}

type CreateRecordInput struct {
	Collection string                 `json:"collection" jsonschema:"Collection name (required)"`
	Fields     map[string]interface{} `json:"fields" jsonschema:"Record fields; an id is generated when omitted"`
}

func (h *RecordHandlers) CreateRecord(ctx context.Context, request *mcp.CallToolRequest, input CreateRecordInput) (*mcp.CallToolResult, RecordOutput, error) {
	coll, err := models.ParseCollection(input.Collection)
	if err != nil {
		return nil, RecordOutput{}, err
	}

	created, err := h.state(ctx).Add(ctx, coll, models.Record(input.Fields))
	if err != nil {
		return nil, RecordOutput{}, fmt.Errorf("failed to create %s record: %w", coll, err)
	}
	return nil, RecordOutput{Record: created}, nil
}

type UpdateRecordInput struct {
	Collection string                 `json:"collection" jsonschema:"Collection name (required)"`
	ID         string                 `json:"id" jsonschema:"Record id (required)"`
	Changes    map[string]interface{} `json:"changes" jsonschema:"Fields to merge into the record; the id cannot change"`
}

func (h *RecordHandlers) UpdateRecord(ctx context.Context, request *mcp.CallToolRequest, input UpdateRecordInput) (*mcp.CallToolResult, RecordOutput, error) {
	coll, err := models.ParseCollection(input.Collection)
	if err != nil {
		return nil, RecordOutput{}, err
	}
	if input.ID == "" {
		return nil, RecordOutput{}, fmt.Errorf("id is required")
	}

	updated, err := h.state(ctx).Edit(ctx, coll, input.ID, models.Record(input.Changes))
	if err != nil {
		return nil, RecordOutput{}, fmt.Errorf("failed to update %s record: %w", coll, err)
	}
	if updated == nil {
		return nil, RecordOutput{}, fmt.Errorf("%s record %s not found", coll, input.ID)
	}
	return nil, RecordOutput{Record: updated}, nil
}

type DeleteRecordOutput struct {
	Deleted bool `json:"deleted"`
}

func (h *RecordHandlers) DeleteRecord(ctx context.Context, request *mcp.CallToolRequest, input RecordInput) (*mcp.CallToolResult, DeleteRecordOutput, error) {
	coll, err := models.ParseCollection(input.Collection)
	if err != nil {
		return nil, DeleteRecordOutput{}, err
	}

	deleted, err := h.state(ctx).Delete(ctx, coll, input.ID)
	if err != nil {
		return nil, DeleteRecordOutput{}, fmt.Errorf("failed to delete %s record: %w", coll, err)
	}
	return nil, DeleteRecordOutput{Deleted: deleted}, nil
}
