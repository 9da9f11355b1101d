package sqlite

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/ukaji3/xlsql-go/pkg/xlsql/parser"
	"github.com/ukaji3/xlsql-go/pkg/xlsql/providers"
	"github.com/ukaji3/xlsql-go/pkg/xlsql/vtab"
)

func cellsTable(t *testing.T) vtab.Table {
	t.Helper()
	table, err := vtab.NewGatedModule(providers.NewCells(parser.DefaultOpenOptions()), nil, nil).Connect(nil)
	require.NoError(t, err)
	return table
}

func TestBestIndexPermutation(t *testing.T) {
	// xl_cells(row, column, value, workbook HIDDEN, range HIDDEN); the range
	// constraint arrives first.
	p, err := bestIndex(cellsTable(t), []vtab.Constraint{
		{Column: 4, Op: vtab.OpEQ, Usable: true},
		{Column: 0, Op: vtab.OpGT, Usable: true},
		{Column: 3, Op: vtab.OpEQ, Usable: true},
	})
	require.NoError(t, err)
	require.Equal(t, []bool{true, false, true}, p.used)
	require.Equal(t, "2,1;", p.idxStr)
	require.Equal(t, 0b11, p.idxNum)

	// The host numbers used constraints in order: range, then workbook.
	argv, inner, err := reorder(p.idxStr, []any{"A1:B2", []byte("book")})
	require.NoError(t, err)
	require.Equal(t, []any{[]byte("book"), "A1:B2"}, argv)
	require.Equal(t, "", inner)
}

func TestBestIndexRejectsUnusable(t *testing.T) {
	p, err := bestIndex(cellsTable(t), []vtab.Constraint{
		{Column: 3, Op: vtab.OpEQ, Usable: false},
		{Column: 4, Op: vtab.OpEQ, Usable: true},
	})
	require.NoError(t, err)
	require.Equal(t, -1, p.idxNum)
	require.Equal(t, []bool{false, false}, p.used)
	require.Equal(t, float64(rejectedCost), p.estimatedCost)
}

func TestBestIndexErrors(t *testing.T) {
	_, err := bestIndex(cellsTable(t), []vtab.Constraint{{Column: 3, Op: vtab.OpEQ, Usable: true}})
	require.ErrorIs(t, err, vtab.ErrMissingConstraint)

	_, err = bestIndex(cellsTable(t), []vtab.Constraint{
		{Column: 3, Op: vtab.OpEQ, Usable: true},
		{Column: 4, Op: vtab.OpLike, Usable: true},
	})
	require.ErrorIs(t, err, vtab.ErrUnsupportedOperator)
}

func TestReorder(t *testing.T) {
	tests := []struct {
		idxStr   string
		vals     []any
		expected []any
		inner    string
		fails    bool
	}{
		{idxStr: ";", vals: nil, expected: nil},
		{idxStr: "1;x", vals: []any{"a"}, expected: []any{"a"}, inner: "x"},
		{idxStr: "2,1;", vals: []any{"a", "b"}, expected: []any{"b", "a"}},
		{idxStr: "", fails: true},
		{idxStr: "1,2;", vals: []any{"a"}, fails: true},
		{idxStr: "3;", vals: []any{"a"}, fails: true},
		{idxStr: "z;", vals: []any{"a"}, fails: true},
	}
	for _, tt := range tests {
		argv, inner, err := reorder(tt.idxStr, tt.vals)
		if tt.fails {
			require.Error(t, err, tt.idxStr)
			continue
		}
		require.NoError(t, err, tt.idxStr)
		require.Equal(t, tt.expected, argv, tt.idxStr)
		require.Equal(t, tt.inner, inner, tt.idxStr)
	}
}
