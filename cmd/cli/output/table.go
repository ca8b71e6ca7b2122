package output

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/guregu/null/v5"
	"github.com/jedib0t/go-pretty/v6/table"
)

// RenderTable prints a pretty table to stdout
func RenderTable(headers []string, rows [][]interface{}) {
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetStyle(table.StyleLight)

	headerRow := table.Row{}
	for _, h := range headers {
		headerRow = append(headerRow, h)
	}
	t.AppendHeader(headerRow)

	for _, row := range rows {
		t.AppendRow(table.Row(row))
	}

	t.Render()
}

// PrintJSON writes v as indented JSON to stdout.
func PrintJSON(v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(b))
	return nil
}

// Str renders a nullable string, "-" when null.
func Str(s null.String) string {
	if !s.Valid || s.String == "" {
		return "-"
	}
	return s.String
}

// Date renders a nullable time as YYYY-MM-DD, "-" when null.
func Date(t null.Time) string {
	if !t.Valid {
		return "-"
	}
	return t.Time.Format("2006-01-02")
}
