package providers

import (
	"github.com/ukaji3/xlsql-go/pkg/xlsql/models"
	"github.com/ukaji3/xlsql-go/pkg/xlsql/parser"
	"github.com/ukaji3/xlsql-go/pkg/xlsql/vtab"
)

// TableRows is the name of the row table.
const TableRows = "xl_rows"

// Rows yields one row per row of a sheet's used range. The row column is a
// handle for xl_at:
//
//	SELECT row_number, xl_at(row, 'A') FROM xl_rows WHERE workbook = ?
//
// The optional sheet parameter selects a sheet by name; the first sheet is
// used otherwise.
type Rows struct {
	opts  parser.OpenOptions
	arena *Arena
}

// NewRows creates the xl_rows provider. Handles are issued from arena.
func NewRows(opts parser.OpenOptions, arena *Arena) *Rows {
	return &Rows{opts: opts, arena: arena}
}

func (p *Rows) Name() string { return TableRows }

func (p *Rows) Schema() vtab.Schema {
	return vtab.Schema{Columns: []vtab.Column{
		{Name: "row_number"},
		{Name: "row"},
		{Name: ParamWorkbook, Hidden: true},
		{Name: ParamSheet, Hidden: true},
	}}
}

func (p *Rows) Params() []vtab.Param {
	return []vtab.Param{
		{Name: ParamWorkbook, Required: true},
		{Name: ParamSheet},
	}
}

func (p *Rows) Materialize(args vtab.Args) (vtab.RowSet, error) {
	name, _, err := textArg(args, ParamSheet)
	if err != nil {
		return nil, err
	}
	sheet, err := loadSheet(args, p.opts, name)
	if err != nil {
		return nil, err
	}
	return &sheetRowSet{arena: p.arena, id: p.arena.alloc(sheet), sheet: sheet}, nil
}

// FindFunction overloads "->>" so that row ->> 'B' reads column B.
func (p *Rows) FindFunction(nArg int, name string) (vtab.ScalarFunc, bool) {
	if name == OpExtract && nArg == 2 {
		return p.arena.At, true
	}
	return nil, false
}

type sheetRowSet struct {
	arena *Arena
	id    uint64
	sheet *models.Sheet
}

func (r *sheetRowSet) Len() int { return r.sheet.Height() }

func (r *sheetRowSet) Value(row, col int) (any, error) {
	if col == 0 {
		return int64(r.sheet.Origin.Row) + int64(row) + 1, nil
	}
	return r.arena.handle(r.id, row), nil
}

func (r *sheetRowSet) Position(row int) { r.arena.position(r.id, row) }

func (r *sheetRowSet) Close() error {
	r.arena.release(r.id)
	return nil
}
