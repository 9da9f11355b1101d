package parser

import (
	"strconv"
	"strings"

	"github.com/ukaji3/xlsql-go/pkg/xlsql/models"
	"github.com/xuri/excelize/v2"
)

// readRawRows returns every row of the sheet as raw, unformatted cell text.
// Row i of the result is sheet row i+1 and column j is column j+1.
func readRawRows(f *excelize.File, sheetName string) ([][]string, error) {
	rows, err := f.Rows(sheetName)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result [][]string
	for rows.Next() {
		cols, err := rows.Columns(excelize.Options{RawCellValue: true})
		if err != nil {
			return nil, err
		}
		result = append(result, cols)
	}
	if err := rows.Error(); err != nil {
		return nil, err
	}
	return result, nil
}

// cellExtractor types xlsx cells using each cell's stored type and number
// format. Style lookups are cached per extractor.
type cellExtractor struct {
	f       *excelize.File
	sheet   string
	formats map[int]numberFormat
}

func newCellExtractor(f *excelize.File, sheetName string) *cellExtractor {
	return &cellExtractor{f: f, sheet: sheetName, formats: make(map[int]numberFormat)}
}

// ExtractCell converts the raw value at zero-based (row, col) to a CellValue.
func (e *cellExtractor) ExtractCell(row, col int, raw string) (models.CellValue, error) {
	cellName, err := excelize.CoordinatesToCellName(col+1, row+1)
	if err != nil {
		return models.CellValue{}, err
	}
	cellType, err := e.f.GetCellType(e.sheet, cellName)
	if err != nil {
		return models.CellValue{}, err
	}

	switch cellType {
	case excelize.CellTypeBool:
		return models.Bool(raw == "1" || strings.EqualFold(raw, "true")), nil
	case excelize.CellTypeError:
		return models.ErrorValue(raw), nil
	case excelize.CellTypeDate:
		return models.DateTimeISO(raw), nil
	case excelize.CellTypeSharedString, excelize.CellTypeInlineString, excelize.CellTypeFormula:
		return models.String(raw), nil
	}

	format, err := e.numberFormat(cellName)
	if err != nil {
		return models.CellValue{}, err
	}
	return numericValue(raw, format), nil
}

func (e *cellExtractor) numberFormat(cellName string) (numberFormat, error) {
	styleID, err := e.f.GetCellStyle(e.sheet, cellName)
	if err != nil || styleID == 0 {
		return formatGeneral, err
	}
	if format, ok := e.formats[styleID]; ok {
		return format, nil
	}
	style, err := e.f.GetStyle(styleID)
	if err != nil {
		return formatGeneral, err
	}
	format := classifyNumFmt(style.NumFmt, style.CustomNumFmt)
	e.formats[styleID] = format
	return format, nil
}

// numericValue types a numeric cell. Text that does not parse as a number is
// kept as a string.
func numericValue(raw string, format numberFormat) models.CellValue {
	var number float64
	switch v := parseValue(raw).(type) {
	case int64:
		if format == formatGeneral {
			return models.Int(v)
		}
		number = float64(v)
	case float64:
		if format == formatGeneral {
			return models.Float(v)
		}
		number = v
	default:
		return models.String(raw)
	}
	if format == formatDuration {
		return models.Duration(number)
	}
	return models.DateTime(number)
}

// parseValue attempts to parse a string value as a number.
// Returns int64 for integers, float64 for decimals, or the original string.
func parseValue(s string) interface{} {
	// Try integer first
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i
	}
	// Try float
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	// Return as string
	return s
}
