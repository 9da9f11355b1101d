package providers

import (
	"github.com/ukaji3/xlsql-go/pkg/xlsql/models"
	"github.com/ukaji3/xlsql-go/pkg/xlsql/parser"
	"github.com/ukaji3/xlsql-go/pkg/xlsql/vtab"
)

// TableSheets is the name of the sheet metadata table.
const TableSheets = "xl_sheets"

// Sheets lists the sheets of a workbook:
//
//	SELECT name, visible, visibility FROM xl_sheets WHERE workbook = ?
type Sheets struct {
	opts parser.OpenOptions
}

// NewSheets creates the xl_sheets provider.
func NewSheets(opts parser.OpenOptions) *Sheets {
	return &Sheets{opts: opts}
}

func (p *Sheets) Name() string { return TableSheets }

func (p *Sheets) Schema() vtab.Schema {
	return vtab.Schema{Columns: []vtab.Column{
		{Name: "name"},
		{Name: "visible"},
		{Name: "visibility"},
		{Name: ParamWorkbook, Hidden: true},
	}}
}

func (p *Sheets) Params() []vtab.Param {
	return []vtab.Param{{Name: ParamWorkbook, Required: true}}
}

func (p *Sheets) Materialize(args vtab.Args) (vtab.RowSet, error) {
	wb, err := openWorkbook(args, p.opts)
	if err != nil {
		return nil, err
	}
	defer wb.Close()
	return sheetRows(wb.Sheets()), nil
}

type sheetRows []models.SheetMetadata

func (r sheetRows) Len() int { return len(r) }

func (r sheetRows) Value(row, col int) (any, error) {
	s := r[row]
	switch col {
	case 0:
		return s.Name, nil
	case 1:
		return s.Visible(), nil
	default:
		return s.Visibility.String(), nil
	}
}

func (r sheetRows) Close() error { return nil }
