// ABOUTME: MCP prompt handlers for reusable planning workflow templates
// ABOUTME: Provides daily-review and person-followup prompts built from the dataset
package handlers

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/harperreed/fomo/app"
	"github.com/harperreed/fomo/data"
	"github.com/harperreed/fomo/models"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type PromptHandlers struct {
	data   *data.Service
	userID string
	now    func() time.Time
}

func NewPromptHandlers(svc *data.Service, userID string) *PromptHandlers {
	return &PromptHandlers{data: svc, userID: userID, now: time.Now}
}

// Prompts describes the prompts served by GetPrompt.
func Prompts() []*mcp.Prompt {
	return []*mcp.Prompt{
		{
			Name:        "daily-review",
			Description: "Review overdue and upcoming tasks and plan the day",
		},
		{
			Name:        "person-followup",
			Description: "Summarise open tasks shared with one person",
			Arguments: []*mcp.PromptArgument{
				{Name: "name", Description: "Person name", Required: true},
			},
		},
	}
}

// GetPrompt generates the prompt message based on the template
func (h *PromptHandlers) GetPrompt(ctx context.Context, request *mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	switch request.Params.Name {
	case "daily-review":
		return h.getDailyReviewPrompt(ctx)
	case "person-followup":
		return h.getPersonFollowupPrompt(ctx, request.Params.Arguments)
	default:
		return nil, fmt.Errorf("unknown prompt: %s", request.Params.Name)
	}
}

func (h *PromptHandlers) getDailyReviewPrompt(ctx context.Context) (*mcp.GetPromptResult, error) {
	tasks, err := h.data.GetAll(ctx, models.CollectionTasks, h.userID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch tasks: %w", err)
	}
	now := h.now()
	overdue := app.FilterTasks(tasks, []app.Filter{app.FilterOverdue}, "", now)
	upcoming := app.FilterTasks(tasks, []app.Filter{app.FilterUpcoming}, "", now)

	var promptText strings.Builder
	promptText.WriteString(fmt.Sprintf("Here is my task list for %s.\n\n", now.Format("Monday, 2006-01-02")))
	writeTaskSection(&promptText, "Overdue", overdue)
	writeTaskSection(&promptText, fmt.Sprintf("Due in the next %d days", app.UpcomingDays), upcoming)

	promptText.WriteString("\nPlease provide:")
	promptText.WriteString("\n1. The three tasks I should do first today")
	promptText.WriteString("\n2. Overdue tasks that should be rescheduled or dropped")
	promptText.WriteString("\n3. Anyone I should notify about slipping work")

	return &mcp.GetPromptResult{
		Description: "Daily task review",
		Messages: []*mcp.PromptMessage{
			{
				Role:    "user",
				Content: &mcp.TextContent{Text: promptText.String()},
			},
		},
	}, nil
}

func (h *PromptHandlers) getPersonFollowupPrompt(ctx context.Context, args map[string]string) (*mcp.GetPromptResult, error) {
	name := strings.TrimSpace(args["name"])
	if name == "" {
		return nil, fmt.Errorf("name is required")
	}

	tasks, err := h.data.GetAll(ctx, models.CollectionTasks, h.userID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch tasks: %w", err)
	}

	var shared []models.Record
	for _, t := range tasks {
		var task models.Task
		if err := models.Decode(t, &task); err != nil || task.Done {
			continue
		}
		for _, p := range task.People {
			if p.Name == name {
				shared = append(shared, t)
				break
			}
		}
	}

	var promptText strings.Builder
	promptText.WriteString(fmt.Sprintf("I share these open tasks with %s:\n\n", name))
	writeTaskSection(&promptText, "Open", shared)
	promptText.WriteString("\nDraft a short, friendly follow-up message covering these tasks.")

	return &mcp.GetPromptResult{
		Description: fmt.Sprintf("Follow-up for %s", name),
		Messages: []*mcp.PromptMessage{
			{
				Role:    "user",
				Content: &mcp.TextContent{Text: promptText.String()},
			},
		},
	}, nil
}

func writeTaskSection(b *strings.Builder, title string, tasks []models.Record) {
	b.WriteString(fmt.Sprintf("%s (%d):\n", title, len(tasks)))
	if len(tasks) == 0 {
		b.WriteString("  (none)\n")
	}
	for _, t := range tasks {
		text, _ := t["text"].(string)
		if due, ok := t["dueDate"].(string); ok && due != "" {
			b.WriteString(fmt.Sprintf("  - %s (due %s)\n", text, due))
			continue
		}
		b.WriteString(fmt.Sprintf("  - %s\n", text))
	}
}
