package frame

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustDecode(t *testing.T, s string) *Table {
	t.Helper()
	tbl, err := DecodeCSV(strings.NewReader(s))
	require.NoError(t, err)
	return tbl
}

func TestMerge_InnerJoin(t *testing.T) {
	messages := mustDecode(t, "id,message\n1,flood\n2,help\n3,orphan\n")
	categories := mustDecode(t, "id,categories\n2,related-0\n1,related-1\n4,related-1\n")

	merged, err := Merge(messages, categories, "id")
	require.NoError(t, err)

	assert.Equal(t, []string{"id", "message", "categories"}, merged.Names())
	require.Equal(t, 2, merged.Len(), "only ids present on both sides survive")
	assert.Equal(t, []any{int64(1), "flood", "related-1"}, merged.Rows[0])
	assert.Equal(t, []any{int64(2), "help", "related-0"}, merged.Rows[1])
}

func TestMerge_DuplicateKeysCrossProduct(t *testing.T) {
	messages := mustDecode(t, "id,message\n1,a\n1,b\n")
	categories := mustDecode(t, "id,categories\n1,x\n1,y\n")

	merged, err := Merge(messages, categories, "id")
	require.NoError(t, err)

	require.Equal(t, 4, merged.Len())
	assert.Equal(t, []any{int64(1), "a", "x"}, merged.Rows[0])
	assert.Equal(t, []any{int64(1), "a", "y"}, merged.Rows[1])
	assert.Equal(t, []any{int64(1), "b", "x"}, merged.Rows[2])
	assert.Equal(t, []any{int64(1), "b", "y"}, merged.Rows[3])
}

func TestMerge_OverlappingColumnsSuffixed(t *testing.T) {
	left := mustDecode(t, "id,note,message\n1,l,m\n")
	right := mustDecode(t, "id,note,categories\n1,r,c\n")

	merged, err := Merge(left, right, "id")
	require.NoError(t, err)
	assert.Equal(t, []string{"id", "note_x", "message", "note_y", "categories"}, merged.Names())
}

func TestMerge_MixedNumericKeys(t *testing.T) {
	left := mustDecode(t, "id,message\n1,a\n2,b\n")
	right := mustDecode(t, "id,categories\n1.0,x\n2.5,y\n")

	merged, err := Merge(left, right, "id")
	require.NoError(t, err)
	require.Equal(t, 1, merged.Len())
	assert.Equal(t, "x", merged.Rows[0][2])
}

func TestMerge_LargeIntegerKeysStayDistinct(t *testing.T) {
	left := mustDecode(t, "id,message\n9007199254740992,a\n9007199254740993,b\n")
	right := mustDecode(t, "id,categories\n9007199254740993,related-1\n")

	merged, err := Merge(left, right, "id")
	require.NoError(t, err)
	require.Equal(t, 1, merged.Len(), "ids above 2^53 must not collapse onto each other")
	assert.Equal(t, []any{int64(9007199254740993), "b", "related-1"}, merged.Rows[0])
}

func TestMerge_NegativeZeroFloatKey(t *testing.T) {
	left := mustDecode(t, "id,message\n-0.0,a\n1.5,b\n")
	right := mustDecode(t, "id,categories\n0,x\n1.5,y\n")

	merged, err := Merge(left, right, "id")
	require.NoError(t, err)
	require.Equal(t, 2, merged.Len())
	assert.Equal(t, "x", merged.Rows[0][2])
	assert.Equal(t, "y", merged.Rows[1][2])
}

func TestMerge_MissingKeysNeverMatch(t *testing.T) {
	left := mustDecode(t, "id,message\n,a\n1,b\n")
	right := mustDecode(t, "id,categories\n,x\n1,y\n")

	merged, err := Merge(left, right, "id")
	require.NoError(t, err)
	require.Equal(t, 1, merged.Len())
	assert.Equal(t, "b", merged.Rows[0][1])
}

func TestMerge_Errors(t *testing.T) {
	tests := []struct {
		name      string
		left      string
		right     string
		errSubstr string
	}{
		{
			name:      "missing key on left",
			left:      "key,message\n1,a\n",
			right:     "id,categories\n1,x\n",
			errSubstr: "left table",
		},
		{
			name:      "missing key on right",
			left:      "id,message\n1,a\n",
			right:     "key,categories\n1,x\n",
			errSubstr: "right table",
		},
		{
			name:      "incomparable key kinds",
			left:      "id,message\n1,a\n",
			right:     "id,categories\nabc,x\n",
			errSubstr: "not comparable",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Merge(mustDecode(t, tt.left), mustDecode(t, tt.right), "id")
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errSubstr)
		})
	}
}
