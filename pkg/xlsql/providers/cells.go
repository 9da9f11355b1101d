package providers

import (
	"fmt"

	"github.com/ukaji3/xlsql-go/pkg/xlsql/models"
	"github.com/ukaji3/xlsql-go/pkg/xlsql/parser"
	"github.com/ukaji3/xlsql-go/pkg/xlsql/vtab"
)

// TableCells is the name of the cell table.
const TableCells = "xl_cells"

// Cells yields the cells of a range, row by row:
//
//	SELECT row, column, value FROM xl_cells WHERE workbook = ? AND range = 'A1:C10'
//
// row and column are absolute zero-based sheet coordinates. The range may be
// qualified with a sheet name; the first sheet is used otherwise. Cells
// outside the sheet's used area are not emitted.
type Cells struct {
	opts parser.OpenOptions
}

// NewCells creates the xl_cells provider.
func NewCells(opts parser.OpenOptions) *Cells {
	return &Cells{opts: opts}
}

func (p *Cells) Name() string { return TableCells }

func (p *Cells) Schema() vtab.Schema {
	return vtab.Schema{Columns: []vtab.Column{
		{Name: "row"},
		{Name: "column"},
		{Name: "value"},
		{Name: ParamWorkbook, Hidden: true},
		{Name: ParamRange, Hidden: true},
	}}
}

func (p *Cells) Params() []vtab.Param {
	return []vtab.Param{
		{Name: ParamWorkbook, Required: true},
		{Name: ParamRange, Required: true},
	}
}

func (p *Cells) Materialize(args vtab.Args) (vtab.RowSet, error) {
	text, ok, err := textArg(args, ParamRange)
	if err != nil {
		return nil, &parser.ParseError{Input: fmt.Sprint(args[ParamRange]), Reason: err.Error(), Err: parser.ErrSyntax}
	}
	if !ok {
		return nil, &parser.ParseError{Err: parser.ErrEmpty}
	}
	rng, err := parser.ParseRangeReference(text)
	if err != nil {
		return nil, err
	}

	sheet, err := loadSheet(args, p.opts, rng.Sheet)
	if err != nil {
		return nil, err
	}

	var cells cellRows
	for coord, v := range sheet.Cells() {
		if rng.Contains(coord) {
			cells = append(cells, cellRow{coord: coord, value: v})
		}
	}
	return cells, nil
}

type cellRow struct {
	coord models.CellCoordinate
	value models.CellValue
}

type cellRows []cellRow

func (r cellRows) Len() int { return len(r) }

func (r cellRows) Value(row, col int) (any, error) {
	c := r[row]
	switch col {
	case 0:
		return int64(c.coord.Row), nil
	case 1:
		return int64(c.coord.Column), nil
	default:
		return c.value.Native(), nil
	}
}

func (r cellRows) Close() error { return nil }
