package cli

import (
	"fmt"
	"io"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/leapstack-labs/processdata/internal/frame"
)

// RenderPreview writes the first n rows of t as a table.
func RenderPreview(w io.Writer, t *frame.Table, n int) error {
	if t.Len() == 0 {
		_, _ = fmt.Fprintln(w, "(0 rows)")
		return nil
	}

	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.SetStyle(table.StyleLight)
	// Category names are lower case; keep headers as they are stored.
	tw.Style().Format.Header = text.FormatDefault

	header := make(table.Row, t.Width())
	for i, c := range t.Columns {
		header[i] = c.Name
	}
	tw.AppendHeader(header)

	shown := min(n, t.Len())
	for _, r := range t.Rows[:shown] {
		row := make(table.Row, len(r))
		for i, v := range r {
			row[i] = formatValue(v)
		}
		tw.AppendRow(row)
	}

	tw.Render()
	_, _ = fmt.Fprintf(w, "(%d of %d rows)\n", shown, t.Len())
	return nil
}

func formatValue(v any) string {
	switch x := v.(type) {
	case nil:
		return "NULL"
	case int64:
		return strconv.FormatInt(x, 10)
	case float64:
		return strconv.FormatFloat(x, 'g', -1, 64)
	case string:
		return x
	default:
		return fmt.Sprint(x)
	}
}
