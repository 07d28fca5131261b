// ABOUTME: MCP resource handlers for exposing the dataset
// ABOUTME: Provides read-only access to the whole dataset, a collection, or a record via fomo:// URIs
package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/harperreed/fomo/data"
	"github.com/harperreed/fomo/models"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// URIScheme prefixes every resource URI.
const URIScheme = "fomo://"

type ResourceHandlers struct {
	data   *data.Service
	userID string
}

func NewResourceHandlers(svc *data.Service, userID string) *ResourceHandlers {
	return &ResourceHandlers{data: svc, userID: userID}
}

// ReadResource handles resource read requests for fomo://dataset,
// fomo://<collection>, and fomo://<collection>/<id>.
func (h *ResourceHandlers) ReadResource(ctx context.Context, request *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	uri := request.Params.URI
	if !strings.HasPrefix(uri, URIScheme) {
		return nil, fmt.Errorf("invalid URI scheme: expected %s", URIScheme)
	}

	parts := strings.Split(strings.TrimPrefix(uri, URIScheme), "/")
	if parts[0] == "dataset" {
		return jsonResource(uri, h.data.LoadData(ctx, h.userID))
	}

	coll, err := models.ParseCollection(parts[0])
	if err != nil {
		return nil, fmt.Errorf("unknown resource: %s", parts[0])
	}

	if len(parts) == 1 || parts[1] == "" {
		records, err := h.data.GetAll(ctx, coll, h.userID)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch %s: %w", coll, err)
		}
		return jsonResource(uri, records)
	}

	record, err := h.data.GetByID(ctx, coll, parts[1], h.userID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s record: %w", coll, err)
	}
	if record == nil {
		return nil, fmt.Errorf("resource not found: %s", uri)
	}
	return jsonResource(uri, record)
}

func jsonResource(uri string, v interface{}) (*mcp.ReadResourceResult, error) {
	raw, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal resource: %w", err)
	}
	return &mcp.ReadResourceResult{Contents: []*mcp.ResourceContents{
		{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(raw),
		},
	}}, nil
}

// Resources lists the fixed resources; per-record URIs are served through
// the fomo://{collection}/{id} template.
func Resources() []*mcp.Resource {
	out := []*mcp.Resource{{
		URI:         URIScheme + "dataset",
		Name:        "dataset",
		Description: "The full dataset document",
		MIMEType:    "application/json",
	}}
	for _, c := range models.Collections {
		out = append(out, &mcp.Resource{
			URI:         URIScheme + string(c),
			Name:        string(c),
			Description: fmt.Sprintf("All %s records", c),
			MIMEType:    "application/json",
		})
	}
	return out
}
