package frame

import (
	"fmt"
	"math"
	"strconv"
)

// Merge inner-joins left and right on the named key column.
//
// Output rows follow the order of left; a key matching several right rows produces one
// output row per match, in right order. Rows whose key is missing never match. The key
// column appears once, taken from left. Other columns present on both sides are
// suffixed with _x (left) and _y (right).
func Merge(left, right *Table, on string) (*Table, error) {
	li := left.Index(on)
	if li < 0 {
		return nil, fmt.Errorf("left table: %w", &MissingColumnError{Column: on, Available: left.Names()})
	}
	ri := right.Index(on)
	if ri < 0 {
		return nil, fmt.Errorf("right table: %w", &MissingColumnError{Column: on, Available: right.Names()})
	}

	lk, rk := left.Columns[li].Kind, right.Columns[ri].Kind
	if lk.Numeric() != rk.Numeric() {
		return nil, fmt.Errorf("cannot merge on %q: %s and %s columns are not comparable", on, lk, rk)
	}

	out := &Table{Columns: mergedColumns(left, li, right, ri)}

	matches := make(map[string][]int, right.Len())
	for i, row := range right.Rows {
		key, ok := joinKey(row[ri])
		if !ok {
			continue
		}
		matches[key] = append(matches[key], i)
	}

	for _, lrow := range left.Rows {
		key, ok := joinKey(lrow[li])
		if !ok {
			continue
		}
		for _, j := range matches[key] {
			row := make([]any, 0, len(out.Columns))
			row = append(row, lrow...)
			for c, v := range right.Rows[j] {
				if c != ri {
					row = append(row, v)
				}
			}
			out.Rows = append(out.Rows, row)
		}
	}
	return out, nil
}

func mergedColumns(left *Table, li int, right *Table, ri int) []Column {
	inRight := make(map[string]bool, right.Width())
	for c, col := range right.Columns {
		if c != ri {
			inRight[col.Name] = true
		}
	}
	inLeft := make(map[string]bool, left.Width())
	for c, col := range left.Columns {
		if c != li {
			inLeft[col.Name] = true
		}
	}

	cols := make([]Column, 0, left.Width()+right.Width()-1)
	for c, col := range left.Columns {
		if c != li && inRight[col.Name] {
			col.Name += "_x"
		}
		cols = append(cols, col)
	}
	for c, col := range right.Columns {
		if c == ri {
			continue
		}
		if inLeft[col.Name] {
			col.Name += "_y"
		}
		cols = append(cols, col)
	}
	return cols
}

// joinKey normalizes a key cell so int and float keys with the same value match.
// Integral floats in int64 range share the integer form; NaN never matches.
func joinKey(v any) (string, bool) {
	switch x := v.(type) {
	case nil:
		return "", false
	case int64:
		return "i" + strconv.FormatInt(x, 10), true
	case float64:
		if math.IsNaN(x) {
			return "", false
		}
		if x == math.Trunc(x) && x >= -(1<<63) && x < 1<<63 {
			return "i" + strconv.FormatInt(int64(x), 10), true
		}
		return "f" + strconv.FormatFloat(x, 'g', -1, 64), true
	case string:
		return "s" + x, true
	default:
		return "v" + fmt.Sprint(x), true
	}
}
