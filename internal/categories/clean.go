// Package categories expands the packed disaster category labels into integer columns.
//
// A packed value looks like "related-1;request-0;offer-0". The names of the first row
// become the column names for every row; each column holds the integer after the dash.
package categories

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/leapstack-labs/processdata/internal/frame"
)

// ErrDuplicatesRemain is returned when deduplication left a repeated row behind.
// It signals a bug, not bad input.
var ErrDuplicatesRemain = errors.New("duplicate rows remain after deduplication")

// Default option values.
const (
	DefaultColumn    = "categories"
	DefaultItemSep   = ";"
	DefaultPairSep   = "-"
	RelatedColumn    = "related"
	relatedNoisy     = "related-2"
	relatedCollapsed = "related-1"
)

// Coercion rewrites a raw token in one category column before its value is parsed.
type Coercion struct {
	Column string
	From   string
	To     string
}

// DefaultCoercions collapses the noisy related-2 label into related-1.
func DefaultCoercions() []Coercion {
	return []Coercion{{Column: RelatedColumn, From: relatedNoisy, To: relatedCollapsed}}
}

// Options configures Clean. The zero value is filled with defaults.
type Options struct {
	Column    string
	ItemSep   string
	PairSep   string
	Coercions []Coercion
	// Strict rejects rows whose category names differ from the first row.
	Strict bool
	Logger *slog.Logger
}

func (o Options) withDefaults() Options {
	if o.Column == "" {
		o.Column = DefaultColumn
	}
	if o.ItemSep == "" {
		o.ItemSep = DefaultItemSep
	}
	if o.PairSep == "" {
		o.PairSep = DefaultPairSep
	}
	if o.Coercions == nil {
		o.Coercions = DefaultCoercions()
	}
	if o.Logger == nil {
		o.Logger = slog.New(slog.DiscardHandler)
	}
	return o
}

// Clean expands the packed category column of merged into one integer column per
// category, drops the packed column, and removes exact duplicate rows.
func Clean(merged *frame.Table, opts Options) (*frame.Table, error) {
	opts = opts.withDefaults()

	expanded, err := Expand(merged, opts)
	if err != nil {
		return nil, err
	}

	base, err := merged.Drop(opts.Column)
	if err != nil {
		return nil, err
	}

	joined, err := base.Concat(expanded)
	if err != nil {
		return nil, fmt.Errorf("failed to join category columns: %w", err)
	}

	cleaned := joined.DropDuplicates()
	opts.Logger.Debug("dropped duplicate rows",
		"before", joined.Len(),
		"after", cleaned.Len(),
		"categories", expanded.Width(),
	)

	if n := cleaned.CountDuplicates(); n != 0 {
		return nil, fmt.Errorf("%w: %d", ErrDuplicatesRemain, n)
	}
	return cleaned, nil
}

// Expand splits the packed column of t into a table of integer category columns, one
// row per row of t. Column names come from the first row.
func Expand(t *frame.Table, opts Options) (*frame.Table, error) {
	opts = opts.withDefaults()

	idx := t.Index(opts.Column)
	if idx < 0 {
		return nil, &frame.MissingColumnError{Column: opts.Column, Available: t.Names()}
	}
	if t.Len() == 0 {
		return nil, fmt.Errorf("cannot infer category names: %q column has no rows", opts.Column)
	}

	first, err := tokens(t.Rows[0][idx], opts.ItemSep)
	if err != nil {
		return nil, fmt.Errorf("row 0: %w", err)
	}
	names := make([]string, len(first))
	for i, tok := range first {
		names[i] = strings.Split(tok, opts.PairSep)[0]
	}

	coerce := make(map[int][]Coercion)
	for _, c := range opts.Coercions {
		for i, name := range names {
			if name == c.Column {
				coerce[i] = append(coerce[i], c)
			}
		}
	}

	cols := make([]frame.Column, len(names))
	for i, name := range names {
		cols[i] = frame.Column{Name: name, Kind: frame.KindInt}
	}
	out := frame.New(cols...)
	out.Rows = make([][]any, 0, t.Len())

	for r, row := range t.Rows {
		toks, err := tokens(row[idx], opts.ItemSep)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", r, err)
		}
		if len(toks) != len(names) {
			return nil, fmt.Errorf("row %d: expected %d categories, got %d", r, len(names), len(toks))
		}

		values := make([]any, len(names))
		for c, tok := range toks {
			for _, co := range coerce[c] {
				if tok == co.From {
					tok = co.To
				}
			}

			parts := strings.Split(tok, opts.PairSep)
			if opts.Strict && parts[0] != names[c] {
				return nil, fmt.Errorf("row %d: category %d is %q, first row has %q", r, c, parts[0], names[c])
			}
			if len(parts) < 2 {
				return nil, fmt.Errorf("row %d, column %q: token %q has no value", r, names[c], tok)
			}
			v, err := strconv.ParseInt(parts[1], 10, 64)
			if err != nil {
				return nil, fmt.Errorf("row %d, column %q: invalid value in %q: %w", r, names[c], tok, err)
			}
			values[c] = v
		}
		out.Rows = append(out.Rows, values)
	}
	return out, nil
}

func tokens(cell any, sep string) ([]string, error) {
	s, ok := cell.(string)
	if !ok {
		return nil, fmt.Errorf("packed categories must be text, got %T", cell)
	}
	return strings.Split(s, sep), nil
}
