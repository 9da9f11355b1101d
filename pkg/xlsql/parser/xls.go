package parser

import (
	"bytes"
	"fmt"
	"time"

	"github.com/extrame/xls"
	"github.com/ukaji3/xlsql-go/pkg/xlsql/models"
)

// xlsWorkbook decodes legacy BIFF8 workbooks. The reader hands back display
// text, so values are typed the same way as raw xlsx numbers: integers,
// then floats, else text.
type xlsWorkbook struct {
	wb     *xls.WorkBook
	sheets []models.SheetMetadata
	index  map[string]int
}

func openXLS(data []byte, opts OpenOptions) (wb *xlsWorkbook, err error) {
	// The BIFF reader panics on some truncated streams.
	defer func() {
		if r := recover(); r != nil {
			wb, err = nil, NewDecodeError(models.FormatXLS, "", fmt.Errorf("corrupt workbook: %v", r))
		}
	}()

	charset := opts.XLSCharset
	if charset == "" {
		charset = "utf-8"
	}
	book, err := xls.OpenReader(bytes.NewReader(data), charset)
	if err != nil {
		return nil, NewDecodeError(models.FormatXLS, "", err)
	}

	var sheets []models.SheetMetadata
	for i := 0; i < book.NumSheets(); i++ {
		ws := book.GetSheet(i)
		if ws == nil {
			continue
		}
		// Visibility is not exposed by the reader.
		sheets = append(sheets, models.SheetMetadata{Name: ws.Name, Visibility: models.SheetVisible})
	}
	return &xlsWorkbook{wb: book, sheets: sheets, index: indexSheets(sheets)}, nil
}

func (w *xlsWorkbook) Format() models.Format { return models.FormatXLS }

func (w *xlsWorkbook) Sheets() []models.SheetMetadata { return w.sheets }

func (w *xlsWorkbook) Sheet(name string) (sheet *models.Sheet, err error) {
	defer func() {
		if r := recover(); r != nil {
			sheet, err = nil, NewDecodeError(models.FormatXLS, name, fmt.Errorf("corrupt sheet: %v", r))
		}
	}()

	if _, ok := w.index[name]; !ok {
		return nil, NewDecodeError(models.FormatXLS, name, ErrSheetNotFound)
	}
	var ws *xls.WorkSheet
	for i := 0; i < w.wb.NumSheets(); i++ {
		if s := w.wb.GetSheet(i); s != nil && s.Name == name {
			ws = s
			break
		}
	}
	if ws == nil {
		return nil, NewDecodeError(models.FormatXLS, name, ErrSheetNotFound)
	}

	raw := make([][]string, 0, int(ws.MaxRow)+1)
	for r := 0; r <= int(ws.MaxRow); r++ {
		row := xlsRow(ws, r)
		if row == nil {
			raw = append(raw, nil)
			continue
		}
		cells := make([]string, row.LastCol()+1)
		for c := row.FirstCol(); c <= row.LastCol(); c++ {
			if text := row.Col(c); text != xlsFormulaPlaceholder {
				cells[c] = text
			}
		}
		raw = append(raw, cells)
	}
	return buildSheet(name, raw, xlsCell)
}

// xlsFormulaPlaceholder is the text the reader returns for every formula
// cell; it does not decode cached formula results.
const xlsFormulaPlaceholder = "FormulaCol"

// xlsRow returns row r of ws, or nil when the sheet has no record for it.
// WorkSheet.Row dereferences the missing row before returning.
func xlsRow(ws *xls.WorkSheet, r int) (row *xls.Row) {
	defer func() {
		if recover() != nil {
			row = nil
		}
	}()
	return ws.Row(r)
}

func xlsCell(_, _ int, raw string) (models.CellValue, error) {
	switch v := parseValue(raw).(type) {
	case int64:
		return models.Int(v), nil
	case float64:
		return models.Float(v), nil
	}
	// Cells with a date-like format arrive as RFC 3339 text.
	if _, err := time.Parse(time.RFC3339, raw); err == nil {
		return models.DateTimeISO(raw), nil
	}
	return models.String(raw), nil
}

// Close is a no-op: the reader holds the whole stream in memory.
func (w *xlsWorkbook) Close() error { return nil }
