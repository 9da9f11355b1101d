package parser

import (
	"errors"
	"os"
	"testing"

	"github.com/extrame/xls"
	"github.com/ukaji3/xlsql-go/pkg/xlsql/models"
	"github.com/xuri/excelize/v2"
)

func openSample(t *testing.T) Workbook {
	t.Helper()
	data, err := os.ReadFile("testdata/sample.xls")
	if err != nil {
		t.Fatalf("Failed to read fixture: %v", err)
	}
	wb, err := OpenWorkbook(data, DefaultOpenOptions())
	if err != nil {
		t.Fatalf("OpenWorkbook failed: %v", err)
	}
	t.Cleanup(func() { wb.Close() })
	return wb
}

func TestXLSSheets(t *testing.T) {
	wb := openSample(t)

	if wb.Format() != models.FormatXLS {
		t.Errorf("Format() = %q, expected xls", wb.Format())
	}

	expected := []string{"Test sheet 1", "Test sheet 2", "Sheet3"}
	sheets := wb.Sheets()
	if len(sheets) != len(expected) {
		t.Fatalf("Expected %d sheets, got %d", len(expected), len(sheets))
	}
	for i, name := range expected {
		if sheets[i].Name != name {
			t.Errorf("sheet %d: name = %q, expected %q", i, sheets[i].Name, name)
		}
		if !sheets[i].Visible() {
			t.Errorf("sheet %q: expected visible", name)
		}
	}
}

func TestXLSCells(t *testing.T) {
	wb := openSample(t)

	sheet, err := wb.Sheet("Test sheet 1")
	if err != nil {
		t.Fatalf("Sheet failed: %v", err)
	}

	// The last row holds only formulas, whose results the reader does not
	// decode, so the used range ends at row 3.
	if sheet.Height() != 3 || sheet.Width() != 3 {
		t.Fatalf("Expected 3x3 used range, got %dx%d", sheet.Height(), sheet.Width())
	}
	if sheet.Origin != (models.CellCoordinate{}) {
		t.Errorf("Expected origin A1, got %+v", sheet.Origin)
	}

	tests := []struct {
		cell     string
		kind     models.Kind
		expected any
	}{
		{"A1", models.KindString, "Test1"},
		{"B1", models.KindString, "Lorem"},
		{"C1", models.KindString, "Ipsum"},
		{"A2", models.KindString, "Avocado"},
		{"B2", models.KindDateTimeISO, "1899-12-31T00:00:00Z"},
		{"C2", models.KindDateTimeISO, "1900-01-01T00:00:00Z"},
		{"A3", models.KindEmpty, nil},
		{"B3", models.KindDateTimeISO, "1900-01-02T00:00:00Z"},
		{"C3", models.KindDateTimeISO, "1900-01-04T00:00:00Z"},
	}
	for _, tt := range tests {
		col, row, err := excelize.CellNameToCoordinates(tt.cell)
		if err != nil {
			t.Fatalf("CellNameToCoordinates(%s): %v", tt.cell, err)
		}
		v := sheet.At(models.CellCoordinate{Column: uint32(col - 1), Row: uint32(row - 1)})
		if v.Kind() != tt.kind {
			t.Errorf("%s: kind = %v, expected %v", tt.cell, v.Kind(), tt.kind)
		}
		if v.Native() != tt.expected {
			t.Errorf("%s: value = %v, expected %v", tt.cell, v.Native(), tt.expected)
		}
	}

	single, err := wb.Sheet("Test sheet 2")
	if err != nil {
		t.Fatalf("Sheet failed: %v", err)
	}
	if single.Height() != 1 || single.At(models.CellCoordinate{}).Native() != "Test2" {
		t.Errorf("Test sheet 2: expected the single cell Test2, got %d rows", single.Height())
	}
}

func TestXLSEmptySheet(t *testing.T) {
	wb := openSample(t)

	sheet, err := wb.Sheet("Sheet3")
	if err != nil {
		t.Fatalf("Sheet failed: %v", err)
	}
	if sheet.Height() != 0 {
		t.Errorf("Expected no rows, got %d", sheet.Height())
	}

	if _, err := wb.Sheet("Missing"); !errors.Is(err, ErrSheetNotFound) {
		t.Errorf("Sheet(Missing) error = %v, expected ErrSheetNotFound", err)
	}
}

func TestXLSMissingRow(t *testing.T) {
	// A sheet without a record for a row, as for blank rows between data.
	if row := xlsRow(&xls.WorkSheet{}, 3); row != nil {
		t.Errorf("xlsRow() = %v, expected nil", row)
	}
}

func TestXLSCell(t *testing.T) {
	tests := []struct {
		raw      string
		kind     models.Kind
		expected any
	}{
		{"42", models.KindInt, int64(42)},
		{"2.5", models.KindFloat, 2.5},
		{"text", models.KindString, "text"},
		{"2024-03-01T12:30:00Z", models.KindDateTimeISO, "2024-03-01T12:30:00Z"},
		{"2024-03-01", models.KindString, "2024-03-01"},
	}
	for _, tt := range tests {
		v, err := xlsCell(0, 0, tt.raw)
		if err != nil {
			t.Fatalf("xlsCell(%q): %v", tt.raw, err)
		}
		if v.Kind() != tt.kind || v.Native() != tt.expected {
			t.Errorf("xlsCell(%q) = %v (%v), expected %v (%v)", tt.raw, v.Native(), v.Kind(), tt.expected, tt.kind)
		}
	}
}

func TestSheetStatesLimit(t *testing.T) {
	data := buildWorkbook(t, func(f *excelize.File) {
		f.NewSheet("Secret")
		f.SetSheetVisible("Secret", false, true)
	})

	states, err := sheetStates(data, 0)
	if err != nil {
		t.Fatalf("sheetStates failed: %v", err)
	}
	if states["Secret"] != "veryHidden" {
		t.Errorf("Secret state = %q, expected veryHidden", states["Secret"])
	}

	if _, err := sheetStates(data, 16); !errors.Is(err, ErrPartTooLarge) {
		t.Errorf("sheetStates with limit 16: error = %v, expected ErrPartTooLarge", err)
	}
}
