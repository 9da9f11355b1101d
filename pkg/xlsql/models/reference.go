package models

// CellCoordinate is a zero-based cell position.
type CellCoordinate struct {
	// Column is the zero-based column index (A = 0).
	Column uint32 `json:"column"`
	// Row is the zero-based row index (row 1 = 0).
	Row uint32 `json:"row"`
}

// RangeReference is a rectangular block of cells, both corners inclusive.
// Start is expected to be above and left of End; this is not validated.
type RangeReference struct {
	// Sheet is the sheet qualifier, empty when the reference had none.
	Sheet string `json:"sheet,omitempty"`
	// Start is the top-left corner.
	Start CellCoordinate `json:"start"`
	// End is the bottom-right corner.
	End CellCoordinate `json:"end"`
}

// Contains reports whether c lies within the inclusive bounds of r.
func (r RangeReference) Contains(c CellCoordinate) bool {
	return c.Row >= r.Start.Row && c.Row <= r.End.Row &&
		c.Column >= r.Start.Column && c.Column <= r.End.Column
}
