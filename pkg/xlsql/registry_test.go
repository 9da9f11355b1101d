package xlsql

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
	"github.com/ukaji3/xlsql-go/pkg/xlsql/vtab"
	"github.com/xuri/excelize/v2"
)

func TestNewRegistry(t *testing.T) {
	r, err := NewRegistry(DefaultOptions())
	require.NoError(t, err)

	var tables []string
	for _, entry := range r.Tables {
		tables = append(tables, entry.Name)
	}
	require.Equal(t, []string{"xl_sheets", "xl_cells", "xl_rows"}, tables)

	version, ok := r.Function("xl_version", 0)
	require.True(t, ok)
	v, err := version(nil)
	require.NoError(t, err)
	require.Equal(t, "v"+Version, v)

	_, ok = r.Function("xl_at", 2)
	require.True(t, ok)
}

func TestVersionOverride(t *testing.T) {
	opts := DefaultOptions()
	opts.Version = "9.9.9"
	r, err := NewRegistry(opts)
	require.NoError(t, err)
	version, _ := r.Function("xl_version", 0)
	v, _ := version(nil)
	require.Equal(t, "v9.9.9", v)
}

func TestRegistryEndToEnd(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()
	f.SetCellValue("Sheet1", "A1", "x")
	f.SetCellValue("Sheet1", "B1", 42)
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	reg := prometheus.NewRegistry()
	opts := DefaultOptions()
	opts.Registerer = reg
	r, err := NewRegistry(opts)
	require.NoError(t, err)

	sheets, _ := r.Table("xl_sheets")
	result, err := vtab.Scan(sheets, map[string]any{"workbook": buf.Bytes()})
	require.NoError(t, err)
	require.Equal(t, []string{"name", "visible", "visibility"}, result.Columns)
	require.Equal(t, [][]any{{"Sheet1", true, "visible"}}, result.Rows)

	cells, _ := r.Table("xl_cells")
	result, err = vtab.Scan(cells, map[string]any{"workbook": buf.Bytes(), "range": "A1:B1"})
	require.NoError(t, err)
	require.Equal(t, [][]any{{int64(0), int64(0), "x"}, {int64(0), int64(1), int64(42)}}, result.Rows)

	_, err = vtab.Scan(cells, map[string]any{"workbook": buf.Bytes(), "range": "A1"})
	var pe *ParseError
	require.True(t, errors.As(err, &pe))
	require.ErrorIs(t, err, ErrSyntax)

	_, err = vtab.Scan(cells, map[string]any{"workbook": buf.Bytes()})
	require.ErrorIs(t, err, ErrMissingConstraint)

	metrics, err := testutil.GatherAndCount(reg, "xlsql_filters_total")
	require.NoError(t, err)
	require.Equal(t, 3, metrics, "one series per table and outcome")
}
