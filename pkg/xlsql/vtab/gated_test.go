package vtab

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// listProvider materializes args["n"] rows whose single visible column holds
// args["prefix"] and the row index.
type listProvider struct {
	closed    int
	positions []int
	fail      error
}

func (p *listProvider) Name() string { return "list" }

func (p *listProvider) Schema() Schema {
	return Schema{Columns: []Column{
		{Name: "value"},
		{Name: "n", Hidden: true},
		{Name: "prefix", Hidden: true},
	}}
}

func (p *listProvider) Params() []Param {
	return []Param{{Name: "n", Required: true}, {Name: "prefix"}}
}

func (p *listProvider) Materialize(args Args) (RowSet, error) {
	if p.fail != nil {
		return nil, p.fail
	}
	n, _ := args["n"].(int64)
	prefix, ok := args["prefix"].(string)
	if !ok {
		prefix = "row"
	}
	return &listRows{p: p, n: int(n), prefix: prefix}, nil
}

type listRows struct {
	p      *listProvider
	n      int
	prefix string
}

func (r *listRows) Len() int { return r.n }

func (r *listRows) Value(row, col int) (any, error) {
	return r.prefix + string(rune('0'+row)), nil
}

func (r *listRows) Close() error {
	r.p.closed++
	return nil
}

func (r *listRows) Position(row int) { r.p.positions = append(r.p.positions, row) }

func connect(t *testing.T, p Provider, metrics *Metrics) Table {
	t.Helper()
	table, err := NewGatedModule(p, nil, metrics).Connect(nil)
	require.NoError(t, err)
	return table
}

func TestDeclareSQL(t *testing.T) {
	schema := (&listProvider{}).Schema()
	require.Equal(t, "CREATE TABLE x(value, n HIDDEN, prefix HIDDEN)", schema.DeclareSQL())
}

func TestConnectRejectsVisibleParam(t *testing.T) {
	_, err := NewGatedModule(&badProvider{}, nil, nil).Connect(nil)
	require.Error(t, err)
}

type badProvider struct{ listProvider }

func (badProvider) Schema() Schema {
	return Schema{Columns: []Column{{Name: "value"}, {Name: "n"}}}
}

func (badProvider) Params() []Param { return []Param{{Name: "n", Required: true}} }

func TestBestIndex(t *testing.T) {
	tests := []struct {
		name        string
		constraints []Constraint
		usage       []ConstraintUsage
		idxNum      int
		cost        float64
		err         error
	}{
		{
			name:        "required only",
			constraints: []Constraint{{Column: 1, Op: OpEQ, Usable: true}},
			usage:       []ConstraintUsage{{ArgvIndex: 1, Omit: true}},
			idxNum:      0b01,
		},
		{
			name: "declaration order wins over constraint order",
			constraints: []Constraint{
				{Column: 2, Op: OpEQ, Usable: true},
				{Column: 1, Op: OpEQ, Usable: true},
			},
			usage:  []ConstraintUsage{{ArgvIndex: 2, Omit: true}, {ArgvIndex: 1, Omit: true}},
			idxNum: 0b11,
		},
		{
			name: "visible column constraints are left to the engine",
			constraints: []Constraint{
				{Column: 0, Op: OpGT, Usable: true},
				{Column: 1, Op: OpEQ, Usable: true},
			},
			usage:  []ConstraintUsage{{}, {ArgvIndex: 1, Omit: true}},
			idxNum: 0b01,
		},
		{
			name:        "missing required parameter",
			constraints: []Constraint{{Column: 2, Op: OpEQ, Usable: true}},
			err:         ErrMissingConstraint,
		},
		{
			name:        "no constraints",
			constraints: nil,
			err:         ErrMissingConstraint,
		},
		{
			name:        "non-equality on parameter",
			constraints: []Constraint{{Column: 1, Op: OpGT, Usable: true}},
			err:         ErrUnsupportedOperator,
		},
		{
			name:        "non-equality on optional parameter",
			constraints: []Constraint{{Column: 1, Op: OpEQ, Usable: true}, {Column: 2, Op: OpLike, Usable: true}},
			err:         ErrUnsupportedOperator,
		},
		{
			name:        "unusable required parameter",
			constraints: []Constraint{{Column: 1, Op: OpEQ, Usable: false}},
			err:         ErrUnusableConstraint,
		},
		{
			name: "unusable duplicate is ignored",
			constraints: []Constraint{
				{Column: 1, Op: OpEQ, Usable: false},
				{Column: 1, Op: OpEQ, Usable: true},
			},
			usage:  []ConstraintUsage{{}, {ArgvIndex: 1, Omit: true}},
			idxNum: 0b01,
		},
		{
			name: "unusable optional parameter raises the cost",
			constraints: []Constraint{
				{Column: 1, Op: OpEQ, Usable: true},
				{Column: 2, Op: OpEQ, Usable: false},
			},
			usage:  []ConstraintUsage{{ArgvIndex: 1, Omit: true}, {}},
			idxNum: 0b01,
			cost:   DefaultEstimatedCost * unboundParamPenalty,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table := connect(t, &listProvider{}, nil)
			info := &IndexInfo{Constraints: tt.constraints}
			err := table.BestIndex(info)
			if tt.err != nil {
				require.ErrorIs(t, err, tt.err)
				var pe *PlanningError
				require.ErrorAs(t, err, &pe)
				assert.Equal(t, "list", pe.Table)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.usage, info.Usage)
			assert.Equal(t, tt.idxNum, info.IdxNum)
			cost := tt.cost
			if cost == 0 {
				cost = DefaultEstimatedCost
			}
			assert.Equal(t, cost, info.EstimatedCost)
			assert.Equal(t, int64(DefaultEstimatedRows), info.EstimatedRows)
		})
	}
}

func TestCursorLifecycle(t *testing.T) {
	p := &listProvider{}
	table := connect(t, p, nil)
	cursor, err := table.Open()
	require.NoError(t, err)

	rowid, err := cursor.RowID()
	require.NoError(t, err)
	require.Equal(t, int64(0), rowid)
	require.True(t, cursor.EOF(), "an unfiltered cursor has no rows")

	require.NoError(t, cursor.Filter(0b11, "", []any{int64(3), "r"}))
	var values []any
	for !cursor.EOF() {
		v, err := cursor.Column(0)
		require.NoError(t, err)
		values = append(values, v)

		hidden, err := cursor.Column(1)
		require.NoError(t, err)
		require.Equal(t, int64(3), hidden)

		require.NoError(t, cursor.Next())
	}
	require.Equal(t, []any{"r0", "r1", "r2"}, values)
	require.Equal(t, []int{0, 1, 2, 3}, p.positions)

	rowid, err = cursor.RowID()
	require.NoError(t, err)
	require.Equal(t, int64(3), rowid)

	// A second Filter restarts at row 0 and releases the first result.
	require.NoError(t, cursor.Filter(0b01, "", []any{int64(1)}))
	require.Equal(t, 1, p.closed)
	rowid, _ = cursor.RowID()
	require.Equal(t, int64(0), rowid)
	v, err := cursor.Column(0)
	require.NoError(t, err)
	require.Equal(t, "row0", v)
	prefix, err := cursor.Column(2)
	require.NoError(t, err)
	require.Nil(t, prefix, "an unbound parameter reads back NULL")

	require.NoError(t, cursor.Close())
	require.Equal(t, 2, p.closed)
	require.True(t, cursor.EOF())

	_, err = cursor.Column(5)
	require.Error(t, err)
}

func TestFilterFailureLeavesCursorEmpty(t *testing.T) {
	boom := errors.New("boom")
	p := &listProvider{}
	table := connect(t, p, nil)
	cursor, err := table.Open()
	require.NoError(t, err)

	require.NoError(t, cursor.Filter(0b01, "", []any{int64(2)}))
	p.fail = boom
	require.ErrorIs(t, cursor.Filter(0b01, "", []any{int64(2)}), boom)
	require.True(t, cursor.EOF())
	require.Equal(t, 1, p.closed)

	require.ErrorIs(t, cursor.Filter(-1, "", nil), ErrUnusableConstraint)
	require.ErrorIs(t, cursor.Filter(0b10, "", []any{"x"}), ErrMissingConstraint)
}

func TestFilterMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := NewMetrics(reg)
	p := &listProvider{}
	table := connect(t, p, metrics)
	cursor, err := table.Open()
	require.NoError(t, err)

	require.NoError(t, cursor.Filter(0b01, "", []any{int64(4)}))
	require.NoError(t, cursor.Filter(0b01, "", []any{int64(2)}))
	require.Error(t, cursor.Filter(0, "", nil))

	require.Equal(t, float64(2), testutil.ToFloat64(metrics.Filters.WithLabelValues("list", OutcomeOK)))
	require.Equal(t, float64(1), testutil.ToFloat64(metrics.Filters.WithLabelValues("list", OutcomeError)))
	require.Equal(t, float64(6), testutil.ToFloat64(metrics.RowsMaterialized.WithLabelValues("list")))

	metricFamilies, err := reg.Gather()
	require.NoError(t, err)
	names := make(map[string]bool)
	for _, mf := range metricFamilies {
		names[mf.GetName()] = true
	}
	require.True(t, names["xlsql_filters_total"])
	require.True(t, names["xlsql_filter_duration_seconds"])
	require.True(t, names["xlsql_rows_materialized_total"])
}

func TestFindFunctionWithoutOverloads(t *testing.T) {
	table := connect(t, &listProvider{}, nil)
	overloader, ok := table.(Overloader)
	require.True(t, ok)
	_, found := overloader.FindFunction(2, "->>")
	require.False(t, found)
}

func TestScan(t *testing.T) {
	m := NewGatedModule(&listProvider{}, nil, nil)
	result, err := Scan(m, map[string]any{"prefix": "p", "n": int64(2)})
	require.NoError(t, err)
	require.Equal(t, []string{"value"}, result.Columns)
	require.Equal(t, [][]any{{"p0"}, {"p1"}}, result.Rows)

	_, err = Scan(m, map[string]any{"prefix": "p"})
	require.ErrorIs(t, err, ErrMissingConstraint)

	_, err = Scan(m, map[string]any{"nope": 1})
	require.Error(t, err)
}

func TestRegistry(t *testing.T) {
	var r Registry
	m := NewGatedModule(&listProvider{}, nil, nil)
	require.NoError(t, r.AddTable("list", m))
	require.Error(t, r.AddTable("list", m))

	fn := func(args []any) (any, error) { return len(args), nil }
	require.NoError(t, r.AddFunction(FunctionEntry{Name: "f", NArgs: 1, Func: fn}))
	require.Error(t, r.AddFunction(FunctionEntry{Name: "f", NArgs: 1, Func: fn}))
	require.NoError(t, r.AddFunction(FunctionEntry{Name: "f", NArgs: 2, Func: fn}))

	got, ok := r.Table("list")
	require.True(t, ok)
	require.Same(t, m, got)
	_, ok = r.Table("missing")
	require.False(t, ok)

	f, ok := r.Function("f", 2)
	require.True(t, ok)
	v, err := f([]any{1, 2})
	require.NoError(t, err)
	require.Equal(t, 2, v)
}
