package models

import "iter"

// SheetVisibility is the visibility state recorded for a sheet.
type SheetVisibility uint8

const (
	// SheetVisible is a normal sheet.
	SheetVisible SheetVisibility = iota
	// SheetHidden is hidden but can be unhidden from the application UI.
	SheetHidden
	// SheetVeryHidden can only be unhidden programmatically.
	SheetVeryHidden
)

func (v SheetVisibility) String() string {
	switch v {
	case SheetHidden:
		return "hidden"
	case SheetVeryHidden:
		return "veryhidden"
	default:
		return "visible"
	}
}

// SheetMetadata describes one sheet of a workbook.
type SheetMetadata struct {
	// Name is the sheet name as shown on its tab.
	Name string `json:"name"`
	// Visibility is the sheet's visibility state.
	Visibility SheetVisibility `json:"visibility"`
}

// Visible reports whether the sheet is shown to users.
func (m SheetMetadata) Visible() bool {
	return m.Visibility == SheetVisible
}

// Sheet is the decoded used range of a worksheet.
//
// Rows holds a dense grid relative to Origin: Rows[0][0] is the cell at
// Origin. Every row has the same length. An empty sheet has no rows.
type Sheet struct {
	// Name is the sheet name.
	Name string `json:"name"`
	// Origin is the absolute coordinate of the top-left used cell.
	Origin CellCoordinate `json:"origin"`
	// Rows is the cell grid.
	Rows [][]CellValue `json:"-"`
}

// Height returns the number of rows in the used range.
func (s *Sheet) Height() int { return len(s.Rows) }

// Width returns the number of columns in the used range.
func (s *Sheet) Width() int {
	if len(s.Rows) == 0 {
		return 0
	}
	return len(s.Rows[0])
}

// End returns the absolute coordinate of the bottom-right used cell. The
// second result is false for an empty sheet.
func (s *Sheet) End() (CellCoordinate, bool) {
	if s.Height() == 0 || s.Width() == 0 {
		return CellCoordinate{}, false
	}
	return CellCoordinate{
		Column: s.Origin.Column + uint32(s.Width()) - 1,
		Row:    s.Origin.Row + uint32(s.Height()) - 1,
	}, true
}

// At returns the cell at the absolute coordinate c. Cells outside the used
// range are empty.
func (s *Sheet) At(c CellCoordinate) CellValue {
	if c.Row < s.Origin.Row || c.Column < s.Origin.Column {
		return CellValue{}
	}
	r, col := int(c.Row-s.Origin.Row), int(c.Column-s.Origin.Column)
	if r >= len(s.Rows) || col >= len(s.Rows[r]) {
		return CellValue{}
	}
	return s.Rows[r][col]
}

// Row returns the i-th row of the used range re-anchored at column A, so
// that index 0 of the result is always column A.
func (s *Sheet) Row(i int) RowRecord {
	if i < 0 || i >= len(s.Rows) {
		return nil
	}
	pad := int(s.Origin.Column)
	out := make(RowRecord, pad+len(s.Rows[i]))
	copy(out[pad:], s.Rows[i])
	return out
}

// Cells yields every cell of the used range with its absolute coordinate in
// row-major order.
func (s *Sheet) Cells() iter.Seq2[CellCoordinate, CellValue] {
	return func(yield func(CellCoordinate, CellValue) bool) {
		for r, row := range s.Rows {
			for c, v := range row {
				coord := CellCoordinate{
					Column: s.Origin.Column + uint32(c),
					Row:    s.Origin.Row + uint32(r),
				}
				if !yield(coord, v) {
					return
				}
			}
		}
	}
}
