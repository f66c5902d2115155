package adapter

import (
	"strings"

	"github.com/leapstack-labs/processdata/internal/frame"
)

// Dialect maps frame column kinds onto a target's SQL types.
type Dialect struct {
	Name      string
	IntType   string
	FloatType string
	TextType  string
}

// ColumnType returns the SQL type for a column kind.
func (d *Dialect) ColumnType(k frame.Kind) string {
	switch k {
	case frame.KindInt:
		return d.IntType
	case frame.KindFloat:
		return d.FloatType
	default:
		return d.TextType
	}
}

// QuoteIdent quotes an identifier with double quotes, doubling embedded quotes.
func (d *Dialect) QuoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

// Placeholder returns the bind parameter marker for the nth argument (1-based).
func (d *Dialect) Placeholder(int) string {
	return "?"
}
