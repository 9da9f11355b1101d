//go:build sqlite_vtable || vtable

package sqlite

import (
	"fmt"

	"github.com/mattn/go-sqlite3"
	"github.com/ukaji3/xlsql-go/pkg/xlsql/vtab"
)

// Register installs every table and function of r on conn. It is meant to be
// called from a go-sqlite3 ConnectHook.
func Register(conn *sqlite3.SQLiteConn, r *vtab.Registry) error {
	for _, t := range r.Tables {
		if err := conn.CreateModule(t.Name, &module{name: t.Name, m: t.Module}); err != nil {
			return fmt.Errorf("create module %s: %w", t.Name, err)
		}
	}
	for _, f := range r.Functions {
		if err := conn.RegisterFunc(f.Name, adapt(f), f.Deterministic); err != nil {
			return fmt.Errorf("register function %s: %w", f.Name, err)
		}
	}
	return nil
}

// adapt gives f a Go signature go-sqlite3 can reflect on. Fixed arities get
// a fixed signature so SQLite checks the argument count.
func adapt(f vtab.FunctionEntry) any {
	switch f.NArgs {
	case 0:
		return func() (any, error) { return f.Func(nil) }
	case 1:
		return func(a any) (any, error) { return f.Func([]any{a}) }
	case 2:
		return func(a, b any) (any, error) { return f.Func([]any{a, b}) }
	default:
		return func(args ...any) (any, error) { return f.Func(args) }
	}
}

// module adapts a vtab.Module. The tables are eponymous: they exist on every
// connection without CREATE VIRTUAL TABLE.
type module struct {
	name string
	m    vtab.Module
}

func (m *module) EponymousOnlyModule() {}

func (m *module) Create(c *sqlite3.SQLiteConn, args []string) (sqlite3.VTab, error) {
	return m.Connect(c, args)
}

func (m *module) Connect(c *sqlite3.SQLiteConn, args []string) (sqlite3.VTab, error) {
	table, err := m.m.Connect(args)
	if err != nil {
		return nil, err
	}
	if err := c.DeclareVTab(table.Schema().DeclareSQL()); err != nil {
		return nil, fmt.Errorf("declare %s: %w", m.name, err)
	}
	return &vTable{table: table}, nil
}

func (m *module) DestroyModule() {}

type vTable struct {
	table vtab.Table
}

func (t *vTable) BestIndex(cst []sqlite3.InfoConstraint, ob []sqlite3.InfoOrderBy) (*sqlite3.IndexResult, error) {
	constraints := make([]vtab.Constraint, len(cst))
	for i, c := range cst {
		constraints[i] = vtab.Constraint{Column: c.Column, Op: vtab.Op(c.Op), Usable: c.Usable}
	}
	p, err := bestIndex(t.table, constraints)
	if err != nil {
		return nil, err
	}
	return &sqlite3.IndexResult{
		Used:          p.used,
		IdxNum:        p.idxNum,
		IdxStr:        p.idxStr,
		EstimatedCost: p.estimatedCost,
		EstimatedRows: p.estimatedRows,
	}, nil
}

func (t *vTable) Disconnect() error { return t.table.Disconnect() }

func (t *vTable) Destroy() error { return t.table.Destroy() }

func (t *vTable) Open() (sqlite3.VTabCursor, error) {
	cursor, err := t.table.Open()
	if err != nil {
		return nil, err
	}
	return &vCursor{cursor: cursor}, nil
}

type vCursor struct {
	cursor vtab.Cursor
}

func (c *vCursor) Filter(idxNum int, idxStr string, vals []any) error {
	argv, inner, err := reorder(idxStr, vals)
	if err != nil {
		return err
	}
	return c.cursor.Filter(idxNum, inner, argv)
}

func (c *vCursor) Next() error { return c.cursor.Next() }

func (c *vCursor) EOF() bool { return c.cursor.EOF() }

func (c *vCursor) Column(ctx *sqlite3.SQLiteContext, col int) error {
	v, err := c.cursor.Column(col)
	if err != nil {
		return err
	}
	switch val := v.(type) {
	case nil:
		ctx.ResultNull()
	case int64:
		ctx.ResultInt64(val)
	case int:
		ctx.ResultInt64(int64(val))
	case float64:
		ctx.ResultDouble(val)
	case string:
		ctx.ResultText(val)
	case bool:
		ctx.ResultBool(val)
	case []byte:
		ctx.ResultBlob(val)
	default:
		return fmt.Errorf("column %d: unsupported value type %T", col, v)
	}
	return nil
}

func (c *vCursor) Rowid() (int64, error) { return c.cursor.RowID() }

func (c *vCursor) Close() error { return c.cursor.Close() }
