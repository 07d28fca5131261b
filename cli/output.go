// ABOUTME: Output formatting for CLI commands
// ABOUTME: Prints values as JSON, YAML, or an aligned table
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"
	"gopkg.in/yaml.v3"
)

const (
	outputJSON  = "json"
	outputYAML  = "yaml"
	outputTable = "table"
)

// printValue writes v in the requested format. Table output needs a row
// function; without one it falls back to JSON.
func printValue(w io.Writer, format string, v interface{}, table func(*uitable.Table)) error {
	switch format {
	case outputJSON, "":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)

	case outputYAML:
		// round-trip through JSON so the keys match the JSON field names
		raw, err := json.Marshal(v)
		if err != nil {
			return err
		}
		var generic interface{}
		if err := json.Unmarshal(raw, &generic); err != nil {
			return err
		}
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(generic); err != nil {
			return err
		}
		return enc.Close()

	case outputTable:
		if table == nil {
			return printValue(w, outputJSON, v, nil)
		}
		tbl := uitable.New()
		tbl.Separator = "  "
		tbl.MaxColWidth = 60
		table(tbl)
		_, err := fmt.Fprintln(w, tbl)
		return err
	}

	return fmt.Errorf("unknown output format %q (valid: json, yaml, table)", format)
}

var bold = color.New(color.Bold)

func header(tbl *uitable.Table, cols ...interface{}) {
	row := make([]interface{}, len(cols))
	for i, c := range cols {
		row[i] = bold.Sprint(c)
	}
	tbl.AddRow(row...)
}

// sortedKeys returns map keys in a stable order for table rows.
func sortedKeys(m map[string]interface{}) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func success(w io.Writer, format string, args ...interface{}) {
	_, _ = fmt.Fprintf(w, "✓ "+format+"\n", args...)
}
