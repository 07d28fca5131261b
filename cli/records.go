// ABOUTME: Record CLI commands
// ABOUTME: Generic list, get, create, update, and delete over any collection
package cli

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/gosuri/uitable"
	"github.com/harperreed/fomo/app"
	"github.com/harperreed/fomo/models"
	"github.com/spf13/cobra"
)

func collectionArg(args []string) (models.Collection, error) {
	return models.ParseCollection(args[0])
}

func parseFields(raw string) (models.Record, error) {
	if raw == "" {
		return models.Record{}, nil
	}
	var r models.Record
	if err := json.Unmarshal([]byte(raw), &r); err != nil {
		return nil, fmt.Errorf("--data must be a JSON object: %w", err)
	}
	return r, nil
}

func recordTable(records []models.Record) func(*uitable.Table) {
	return func(tbl *uitable.Table) {
		header(tbl, "ID", "TEXT", "DETAIL")
		for _, r := range records {
			text, _ := r["text"].(string)
			if text == "" {
				text, _ = r["name"].(string)
			}
			var detail string
			if due, ok := r["dueDate"].(string); ok && due != "" {
				detail = "due " + due
			}
			if done, _ := r["done"].(bool); done {
				detail = "done " + detail
			}
			if status, ok := r["status"].(string); ok {
				detail = status
			}
			tbl.AddRow(r.ID(), text, detail)
		}
	}
}

func fieldTable(r models.Record) func(*uitable.Table) {
	return func(tbl *uitable.Table) {
		header(tbl, "FIELD", "VALUE")
		for _, k := range sortedKeys(r) {
			v := r[k]
			if _, scalar := v.(string); !scalar {
				raw, _ := json.Marshal(v)
				v = string(raw)
			}
			tbl.AddRow(k, v)
		}
	}
}

func addRecords(topLevel *cobra.Command, opts *rootOptions) {
	cmd := &cobra.Command{
		Use:     "records",
		Aliases: []string{"r"},
		Short:   "Work with tasks, projects, dreams, people, and contacts",
	}

	var filters []string
	var query string
	list := &cobra.Command{
		Use:   "list <collection>",
		Short: "List a collection",
		Example: `
fomo records list tasks --filter overdue
fomo records list tasks --filter upcoming --filter starred -o table
fomo records list people
`,
		Args: cobra.ExactArgs(1),
		RunE: withRuntime(opts, func(cmd *cobra.Command, args []string, rt *runtime) error {
			coll, err := collectionArg(args)
			if err != nil {
				return err
			}
			records, err := rt.data.GetAll(cmd.Context(), coll, rt.user(opts))
			if err != nil {
				return err
			}
			if len(filters) > 0 || query != "" {
				if coll != models.CollectionTasks {
					return fmt.Errorf("--filter and --query only apply to tasks")
				}
				parsed, err := app.ParseFilters(filters)
				if err != nil {
					return err
				}
				records = app.FilterTasks(records, parsed, query, time.Now())
			}
			return printValue(cmd.OutOrStdout(), opts.output, records, recordTable(records))
		}),
	}
	list.Flags().StringSliceVar(&filters, "filter", nil, "Task filter: completed, overdue, upcoming, starred (repeatable)")
	list.Flags().StringVarP(&query, "query", "q", "", "Case-insensitive task text search")

	get := &cobra.Command{
		Use:   "get <collection> <id>",
		Short: "Show one record",
		Args:  cobra.ExactArgs(2),
		RunE: withRuntime(opts, func(cmd *cobra.Command, args []string, rt *runtime) error {
			coll, err := collectionArg(args)
			if err != nil {
				return err
			}
			record, err := rt.data.GetByID(cmd.Context(), coll, args[1], rt.user(opts))
			if err != nil {
				return err
			}
			if record == nil {
				return fmt.Errorf("%s record %s not found", coll, args[1])
			}
			return printValue(cmd.OutOrStdout(), opts.output, record, fieldTable(record))
		}),
	}

	var createData string
	create := &cobra.Command{
		Use:   "create <collection>",
		Short: "Create a record from JSON",
		Example: `
fomo records create tasks --data '{"text":"water plants","dueDate":"2024-03-12"}'
fomo records create projects --data '{"text":"Garden"}'
`,
		Args: cobra.ExactArgs(1),
		RunE: withRuntime(opts, func(cmd *cobra.Command, args []string, rt *runtime) error {
			coll, err := collectionArg(args)
			if err != nil {
				return err
			}
			fields, err := parseFields(createData)
			if err != nil {
				return err
			}
			st := app.NewState(rt.data, rt.user(opts), rt.log)
			st.Load(cmd.Context())
			created, err := st.Add(cmd.Context(), coll, fields)
			if err != nil {
				return err
			}
			return printValue(cmd.OutOrStdout(), opts.output, created, fieldTable(created))
		}),
	}
	create.Flags().StringVarP(&createData, "data", "d", "", "Record fields as a JSON object")

	var updateData string
	update := &cobra.Command{
		Use:   "update <collection> <id>",
		Short: "Merge JSON changes into a record",
		Args:  cobra.ExactArgs(2),
		RunE: withRuntime(opts, func(cmd *cobra.Command, args []string, rt *runtime) error {
			coll, err := collectionArg(args)
			if err != nil {
				return err
			}
			changes, err := parseFields(updateData)
			if err != nil {
				return err
			}
			st := app.NewState(rt.data, rt.user(opts), rt.log)
			st.Load(cmd.Context())
			updated, err := st.Edit(cmd.Context(), coll, args[1], changes)
			if err != nil {
				return err
			}
			if updated == nil {
				return fmt.Errorf("%s record %s not found", coll, args[1])
			}
			return printValue(cmd.OutOrStdout(), opts.output, updated, fieldTable(updated))
		}),
	}
	update.Flags().StringVarP(&updateData, "data", "d", "", "Changes as a JSON object")
	_ = update.MarkFlagRequired("data")

	del := &cobra.Command{
		Use:     "delete <collection> <id>",
		Aliases: []string{"rm"},
		Short:   "Delete a record",
		Args:    cobra.ExactArgs(2),
		RunE: withRuntime(opts, func(cmd *cobra.Command, args []string, rt *runtime) error {
			coll, err := collectionArg(args)
			if err != nil {
				return err
			}
			st := app.NewState(rt.data, rt.user(opts), rt.log)
			st.Load(cmd.Context())
			removed, err := st.Delete(cmd.Context(), coll, args[1])
			if err != nil {
				return err
			}
			if !removed {
				return fmt.Errorf("%s record %s not found", coll, args[1])
			}
			success(cmd.OutOrStdout(), "Deleted %s %s", coll, args[1])
			return nil
		}),
	}

	cmd.AddCommand(list, get, create, update, del)
	topLevel.AddCommand(cmd)
}
