package frame

import (
	"fmt"
	"strconv"
	"strings"
)

// Duplicated marks every row that repeats an earlier row exactly.
func (t *Table) Duplicated() []bool {
	seen := make(map[string]struct{}, len(t.Rows))
	dup := make([]bool, len(t.Rows))
	for i, row := range t.Rows {
		k := rowKey(row)
		if _, ok := seen[k]; ok {
			dup[i] = true
			continue
		}
		seen[k] = struct{}{}
	}
	return dup
}

// CountDuplicates returns the number of rows that repeat an earlier row.
func (t *Table) CountDuplicates() int {
	n := 0
	for _, d := range t.Duplicated() {
		if d {
			n++
		}
	}
	return n
}

// DropDuplicates returns a table keeping only the first occurrence of each row.
func (t *Table) DropDuplicates() *Table {
	out := New(t.Columns...)
	for i, d := range t.Duplicated() {
		if !d {
			out.Rows = append(out.Rows, t.Rows[i])
		}
	}
	return out
}

// rowKey encodes a row so that two rows share a key only if every cell is equal.
func rowKey(row []any) string {
	var b strings.Builder
	for _, v := range row {
		switch x := v.(type) {
		case nil:
			b.WriteString("n;")
		case int64:
			b.WriteString("i")
			b.WriteString(strconv.FormatInt(x, 10))
			b.WriteByte(';')
		case float64:
			if x == 0 {
				x = 0 // -0 and 0 are the same value
			}
			b.WriteString("f")
			b.WriteString(strconv.FormatFloat(x, 'g', -1, 64))
			b.WriteByte(';')
		case string:
			b.WriteString("s")
			b.WriteString(strconv.Itoa(len(x)))
			b.WriteByte(':')
			b.WriteString(x)
		default:
			b.WriteString("v")
			b.WriteString(strconv.Quote(fmt.Sprint(x)))
			b.WriteByte(';')
		}
	}
	return b.String()
}
