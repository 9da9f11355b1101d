package parser

import (
	"github.com/ukaji3/xlsql-go/pkg/xlsql/models"
)

// cellConverter types the raw text found at zero-based (row, col).
type cellConverter func(row, col int, raw string) (models.CellValue, error)

// findDataBounds finds the bounding box of non-empty cells.
// All results are -1 when every cell is empty.
func findDataBounds(rows [][]string) (minRow, maxRow, minCol, maxCol int) {
	minRow, maxRow = -1, -1
	minCol, maxCol = -1, -1

	for rowIdx, row := range rows {
		for colIdx, cell := range row {
			if cell != "" {
				if minRow < 0 || rowIdx < minRow {
					minRow = rowIdx
				}
				if maxRow < 0 || rowIdx > maxRow {
					maxRow = rowIdx
				}
				if minCol < 0 || colIdx < minCol {
					minCol = colIdx
				}
				if maxCol < 0 || colIdx > maxCol {
					maxCol = colIdx
				}
			}
		}
	}

	return
}

// buildSheet crops raw to its used range and types every non-empty cell.
func buildSheet(name string, raw [][]string, convert cellConverter) (*models.Sheet, error) {
	sheet := &models.Sheet{Name: name}

	minRow, maxRow, minCol, maxCol := findDataBounds(raw)
	if minRow < 0 {
		return sheet, nil
	}

	sheet.Origin = models.CellCoordinate{Column: uint32(minCol), Row: uint32(minRow)}
	width := maxCol - minCol + 1
	sheet.Rows = make([][]models.CellValue, 0, maxRow-minRow+1)
	for rowIdx := minRow; rowIdx <= maxRow; rowIdx++ {
		out := make([]models.CellValue, width)
		row := raw[rowIdx]
		for colIdx := minCol; colIdx <= maxCol && colIdx < len(row); colIdx++ {
			if row[colIdx] == "" {
				continue
			}
			v, err := convert(rowIdx, colIdx, row[colIdx])
			if err != nil {
				return nil, err
			}
			out[colIdx-minCol] = v
		}
		sheet.Rows = append(sheet.Rows, out)
	}
	return sheet, nil
}
