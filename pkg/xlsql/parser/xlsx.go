package parser

import (
	"bytes"

	"github.com/go-kit/log/level"
	"github.com/ukaji3/xlsql-go/pkg/xlsql/models"
	"github.com/xuri/excelize/v2"
)

// xlsxWorkbook decodes Office Open XML workbooks with excelize.
type xlsxWorkbook struct {
	f      *excelize.File
	sheets []models.SheetMetadata
	index  map[string]int
}

func openXLSX(data []byte, opts OpenOptions) (*xlsxWorkbook, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data), excelize.Options{
		UnzipSizeLimit: opts.UnzipSizeLimit,
	})
	if err != nil {
		return nil, NewDecodeError(models.FormatXLSX, "", err)
	}

	// excelize only reports hidden or not; the raw workbook part tells
	// hidden from very hidden. Without it hidden sheets stay plain hidden.
	states, err := sheetStates(data, opts.UnzipSizeLimit)
	if err != nil {
		level.Debug(opts.logger()).Log("msg", "failed to read sheet states", "err", err)
	}

	var sheets []models.SheetMetadata
	for _, name := range f.GetSheetList() {
		visible, err := f.GetSheetVisible(name)
		if err != nil {
			f.Close()
			return nil, NewDecodeError(models.FormatXLSX, name, err)
		}
		meta := models.SheetMetadata{Name: name, Visibility: models.SheetVisible}
		if !visible {
			meta.Visibility = models.SheetHidden
			if states[name] == "veryHidden" {
				meta.Visibility = models.SheetVeryHidden
			}
		}
		sheets = append(sheets, meta)
	}

	return &xlsxWorkbook{f: f, sheets: sheets, index: indexSheets(sheets)}, nil
}

func (w *xlsxWorkbook) Format() models.Format { return models.FormatXLSX }

func (w *xlsxWorkbook) Sheets() []models.SheetMetadata { return w.sheets }

func (w *xlsxWorkbook) Sheet(name string) (*models.Sheet, error) {
	if _, ok := w.index[name]; !ok {
		return nil, NewDecodeError(models.FormatXLSX, name, ErrSheetNotFound)
	}
	raw, err := readRawRows(w.f, name)
	if err != nil {
		return nil, NewDecodeError(models.FormatXLSX, name, err)
	}
	sheet, err := buildSheet(name, raw, newCellExtractor(w.f, name).ExtractCell)
	if err != nil {
		return nil, NewDecodeError(models.FormatXLSX, name, err)
	}
	return sheet, nil
}

func (w *xlsxWorkbook) Close() error { return w.f.Close() }
