package vtab

import (
	"fmt"
	"time"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
)

// Estimates reported for every accepted plan. They are constant because the
// row count is unknown until the workbook is decoded.
const (
	DefaultEstimatedCost = 100000
	DefaultEstimatedRows = 100000
)

// unboundParamPenalty multiplies the cost of a plan for every optional
// parameter that has an equality constraint the plan cannot use, so that the
// engine prefers a join order that binds it.
const unboundParamPenalty = 1000

// Param is a hidden column that supplies an input to the provider.
type Param struct {
	Name     string
	Required bool
}

// Args holds the parameter values bound for one Filter, keyed by parameter
// name. Unbound optional parameters are absent.
type Args map[string]any

// RowSet is a fully materialized result.
type RowSet interface {
	Len() int
	// Value returns the value of visible column col at row.
	Value(row int, col int) (any, error)
	// Close releases the rows. It is called once, before the next Filter or
	// when the cursor closes.
	Close() error
}

// Positioner is implemented by row sets that track the cursor position.
type Positioner interface {
	Position(row int)
}

// Provider supplies the schema and the rows of a gated table.
type Provider interface {
	// Name is the table name used in errors, logs and metrics.
	Name() string
	// Schema lists the visible columns followed by the parameter columns.
	Schema() Schema
	// Params lists the hidden parameter columns in declaration order. Each
	// must appear in Schema as a hidden column.
	Params() []Param
	// Materialize produces every row for the given parameter values.
	Materialize(args Args) (RowSet, error)
}

// FunctionFinder is implemented by providers that overload SQL functions.
type FunctionFinder interface {
	FindFunction(nArg int, name string) (ScalarFunc, bool)
}

// GatedModule serves a Provider through the Module contract. A gated table
// produces no rows unless every required parameter is bound by an equality
// predicate, and pushes all rows through a single eager Filter.
type GatedModule struct {
	provider Provider
	logger   log.Logger
	metrics  *Metrics
}

// NewGatedModule creates a module for p. A nil logger discards logs and nil
// metrics are created unregistered.
func NewGatedModule(p Provider, logger log.Logger, metrics *Metrics) *GatedModule {
	if logger == nil {
		logger = log.NewNopLogger()
	}
	if metrics == nil {
		metrics = NewMetrics(nil)
	}
	return &GatedModule{
		provider: p,
		logger:   log.With(logger, "table", p.Name()),
		metrics:  metrics,
	}
}

// Connect declares the provider's schema.
func (m *GatedModule) Connect(args []string) (Table, error) {
	schema := m.provider.Schema()
	params := m.provider.Params()
	columns := make([]int, len(params))
	for i, p := range params {
		idx := schema.Index(p.Name)
		if idx < 0 || !schema.Columns[idx].Hidden {
			return nil, fmt.Errorf("table %s: parameter %q is not a hidden column", m.provider.Name(), p.Name)
		}
		columns[i] = idx
	}
	return &gatedTable{module: m, schema: schema, params: params, paramColumns: columns}, nil
}

type gatedTable struct {
	module       *GatedModule
	schema       Schema
	params       []Param
	paramColumns []int // schema index of each param
}

func (t *gatedTable) Schema() Schema { return t.schema }

func (t *gatedTable) paramAt(column int) int {
	for p, c := range t.paramColumns {
		if c == column {
			return p
		}
	}
	return -1
}

func (t *gatedTable) planningError(p int, op Op, err error) error {
	var column string
	if p >= 0 && p < len(t.params) {
		column = t.params[p].Name
	}
	return NewPlanningError(t.module.provider.Name(), column, op, err)
}

// BestIndex consumes one usable equality constraint per parameter and
// assigns argv positions in parameter declaration order.
func (t *gatedTable) BestIndex(info *IndexInfo) error {
	info.Usage = make([]ConstraintUsage, len(info.Constraints))
	bound := make([]int, len(t.params)) // constraint index + 1, 0 when unbound
	unusable := make([]bool, len(t.params))

	for i, c := range info.Constraints {
		p := t.paramAt(c.Column)
		if p < 0 {
			continue
		}
		if c.Op != OpEQ {
			return t.planningError(p, c.Op, ErrUnsupportedOperator)
		}
		if !c.Usable {
			unusable[p] = true
			continue
		}
		if bound[p] == 0 {
			bound[p] = i + 1
		}
	}

	for p, param := range t.params {
		if !param.Required || bound[p] != 0 {
			continue
		}
		if unusable[p] {
			return t.planningError(p, OpEQ, ErrUnusableConstraint)
		}
		return t.planningError(p, 0, ErrMissingConstraint)
	}

	argv, mask := 1, 0
	cost := float64(DefaultEstimatedCost)
	for p := range t.params {
		if bound[p] == 0 {
			if unusable[p] {
				cost *= unboundParamPenalty
			}
			continue
		}
		info.Usage[bound[p]-1] = ConstraintUsage{ArgvIndex: argv, Omit: true}
		argv++
		mask |= 1 << p
	}
	info.IdxNum = mask
	info.EstimatedCost = cost
	info.EstimatedRows = DefaultEstimatedRows
	return nil
}

func (t *gatedTable) Open() (Cursor, error) {
	return &gatedCursor{table: t}, nil
}

func (t *gatedTable) Disconnect() error { return nil }

func (t *gatedTable) Destroy() error { return nil }

// FindFunction delegates to the provider when it overloads functions.
func (t *gatedTable) FindFunction(nArg int, name string) (ScalarFunc, bool) {
	if f, ok := t.module.provider.(FunctionFinder); ok {
		return f.FindFunction(nArg, name)
	}
	return nil, false
}

// bind maps argv to parameters using the bitmask chosen by BestIndex.
func (t *gatedTable) bind(idxNum int, argv []any) (Args, error) {
	if idxNum < 0 {
		return nil, t.planningError(0, OpEQ, ErrUnusableConstraint)
	}
	args := make(Args, len(t.params))
	next := 0
	for p, param := range t.params {
		if idxNum&(1<<p) == 0 {
			if param.Required {
				return nil, t.planningError(p, 0, ErrMissingConstraint)
			}
			continue
		}
		if next >= len(argv) {
			return nil, fmt.Errorf("table %s: argv has %d values, plan expects more", t.module.provider.Name(), len(argv))
		}
		args[param.Name] = argv[next]
		next++
	}
	return args, nil
}

type gatedCursor struct {
	table *gatedTable
	args  Args
	rows  RowSet
	rowid int64
}

func (c *gatedCursor) release() error {
	if c.rows == nil {
		return nil
	}
	err := c.rows.Close()
	c.rows = nil
	return err
}

func (c *gatedCursor) position() {
	if p, ok := c.rows.(Positioner); ok {
		p.Position(int(c.rowid))
	}
}

func (c *gatedCursor) Filter(idxNum int, idxStr string, argv []any) error {
	m := c.table.module
	name := m.provider.Name()

	c.rowid = 0
	c.args = nil
	if err := c.release(); err != nil {
		level.Warn(m.logger).Log("msg", "failed to release previous rows", "err", err)
	}

	start := time.Now()
	args, err := c.table.bind(idxNum, argv)
	if err == nil {
		c.rows, err = m.provider.Materialize(args)
		c.args = args
	}
	m.metrics.FilterDuration.WithLabelValues(name).Observe(time.Since(start).Seconds())
	if err != nil {
		c.rows = nil
		c.args = nil
		m.metrics.Filters.WithLabelValues(name, OutcomeError).Inc()
		level.Debug(m.logger).Log("msg", "filter failed", "err", err)
		return err
	}

	m.metrics.Filters.WithLabelValues(name, OutcomeOK).Inc()
	m.metrics.RowsMaterialized.WithLabelValues(name).Add(float64(c.rows.Len()))
	level.Debug(m.logger).Log("msg", "filter", "rows", c.rows.Len(), "duration", time.Since(start))
	c.position()
	return nil
}

func (c *gatedCursor) Next() error {
	c.rowid++
	if c.rows != nil {
		c.position()
	}
	return nil
}

func (c *gatedCursor) EOF() bool {
	return c.rows == nil || c.rowid >= int64(c.rows.Len())
}

func (c *gatedCursor) Column(i int) (any, error) {
	schema := c.table.schema
	if i < 0 || i >= len(schema.Columns) {
		return nil, fmt.Errorf("table %s: column %d out of range", c.table.module.provider.Name(), i)
	}
	// Parameter columns read back the bound value so that the engine can
	// still check constraints it did not hand to BestIndex.
	if schema.Columns[i].Hidden {
		return c.args[schema.Columns[i].Name], nil
	}
	if c.EOF() {
		return nil, fmt.Errorf("table %s: no current row", c.table.module.provider.Name())
	}
	return c.rows.Value(int(c.rowid), i)
}

func (c *gatedCursor) RowID() (int64, error) {
	return c.rowid, nil
}

func (c *gatedCursor) Close() error {
	return c.release()
}
