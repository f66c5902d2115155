package categories

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/processdata/internal/frame"
	"github.com/leapstack-labs/processdata/internal/testutil"
)

func merged(t *testing.T, csv string) *frame.Table {
	t.Helper()
	tbl, err := frame.DecodeCSV(strings.NewReader(csv))
	require.NoError(t, err)
	return tbl
}

func TestClean_ExpandsAndCoerces(t *testing.T) {
	in := merged(t, "id,message,categories\n1,flood,related-1;offer-0\n2,help,related-2;offer-1\n")

	out, err := Clean(in, Options{Logger: testutil.NewTestLogger(t)})
	require.NoError(t, err)

	assert.Equal(t, []frame.Column{
		{Name: "id", Kind: frame.KindInt},
		{Name: "message", Kind: frame.KindText},
		{Name: "related", Kind: frame.KindInt},
		{Name: "offer", Kind: frame.KindInt},
	}, out.Columns)
	require.Equal(t, 2, out.Len())
	assert.Equal(t, []any{int64(1), "flood", int64(1), int64(0)}, out.Rows[0])
	assert.Equal(t, []any{int64(2), "help", int64(1), int64(1)}, out.Rows[1])
}

func TestClean_RemovesDuplicates(t *testing.T) {
	in := merged(t, "id,message,categories\n"+
		"1,flood,related-1;offer-0\n"+
		"1,flood,related-1;offer-0\n"+
		"1,flood,related-2;offer-0\n"+
		"2,help,related-0;offer-1\n")

	out, err := Clean(in, Options{})
	require.NoError(t, err)

	require.Equal(t, 2, out.Len(), "related-2 collapses into related-1 so the third row is a duplicate too")
	assert.Zero(t, out.CountDuplicates())
	assert.Equal(t, []any{int64(2), "help", int64(0), int64(1)}, out.Rows[1])
}

// repack folds the named integer columns of a cleaned table back into a packed
// categories column, producing input that Clean accepts again.
func repack(t *testing.T, cleaned *frame.Table, names ...string) *frame.Table {
	t.Helper()
	base := cleaned
	for _, name := range names {
		var err error
		base, err = base.Drop(name)
		require.NoError(t, err)
	}

	packed := frame.New(frame.Column{Name: DefaultColumn, Kind: frame.KindText})
	for _, row := range cleaned.Rows {
		parts := make([]string, len(names))
		for i, name := range names {
			parts[i] = fmt.Sprintf("%s-%d", name, row[cleaned.Index(name)])
		}
		require.NoError(t, packed.Append(strings.Join(parts, DefaultItemSep)))
	}

	out, err := base.Concat(packed)
	require.NoError(t, err)
	return out
}

func TestClean_Idempotent(t *testing.T) {
	in := merged(t, "id,message,categories\n"+
		"1,a,related-1;offer-0\n"+
		"1,a,related-2;offer-0\n"+
		"1,a,related-1;offer-0\n"+
		"2,b,related-0;offer-1\n")

	first, err := Clean(in, Options{})
	require.NoError(t, err)
	require.Equal(t, 2, first.Len())

	second, err := Clean(repack(t, first, "related", "offer"), Options{})
	require.NoError(t, err)
	assert.Equal(t, first, second, "cleaning already clean data changes nothing")
}

func TestClean_RelatedNeverTwo(t *testing.T) {
	in := merged(t, "id,message,categories\n1,a,related-2;offer-0\n2,b,related-2;offer-1\n3,c,related-0;offer-2\n")

	out, err := Clean(in, Options{})
	require.NoError(t, err)

	idx := out.Index("related")
	require.GreaterOrEqual(t, idx, 0)
	for _, row := range out.Rows {
		assert.Contains(t, []any{int64(0), int64(1)}, row[idx])
	}
	assert.Equal(t, int64(2), out.Rows[2][out.Index("offer")], "only related is coerced")
}

func TestExpand_Errors(t *testing.T) {
	tests := []struct {
		name      string
		csv       string
		opts      Options
		errSubstr string
	}{
		{
			name:      "missing column",
			csv:       "id,message\n1,a\n",
			errSubstr: `column "categories" not found`,
		},
		{
			name:      "no rows",
			csv:       "id,categories\n",
			errSubstr: "has no rows",
		},
		{
			name:      "token count differs from first row",
			csv:       "id,categories\n1,related-1;offer-0\n2,related-1\n",
			errSubstr: "row 1: expected 2 categories, got 1",
		},
		{
			name:      "token without value",
			csv:       "id,categories\n1,related\n",
			errSubstr: "has no value",
		},
		{
			name:      "non integer value",
			csv:       "id,categories\n1,related-x\n",
			errSubstr: "invalid value",
		},
		{
			name:      "missing packed value",
			csv:       "id,categories\n1,related-1\n2,\n",
			errSubstr: "must be text",
		},
		{
			name:      "strict rejects reordered names",
			csv:       "id,categories\n1,related-1;offer-0\n2,offer-0;related-1\n",
			opts:      Options{Strict: true},
			errSubstr: `first row has "related"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Expand(merged(t, tt.csv), tt.opts)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errSubstr)
		})
	}
}

func TestExpand_PositionalWithoutStrict(t *testing.T) {
	in := merged(t, "id,categories\n1,related-1;offer-0\n2,offer-1;related-0\n")

	out, err := Expand(in, Options{})
	require.NoError(t, err)

	assert.Equal(t, []string{"related", "offer"}, out.Names())
	assert.Equal(t, []any{int64(1), int64(0)}, out.Rows[1], "names follow the first row, values follow position")
}

func TestExpand_CustomSeparatorsAndCoercions(t *testing.T) {
	in := merged(t, "id,labels\n1,related:2|aid:9\n")

	out, err := Expand(in, Options{
		Column:    "labels",
		ItemSep:   "|",
		PairSep:   ":",
		Coercions: []Coercion{{Column: "aid", From: "aid:9", To: "aid:1"}},
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"related", "aid"}, out.Names())
	assert.Equal(t, []any{int64(2), int64(1)}, out.Rows[0])
}
