package models

// Format is a spreadsheet container format.
type Format string

const (
	// FormatUnknown is returned when the bytes match no supported container.
	FormatUnknown Format = ""
	// FormatXLSX is the zip/XML Office Open XML workbook (.xlsx, .xlsm).
	FormatXLSX Format = "xlsx"
	// FormatXLS is the legacy OLE2/BIFF8 workbook (.xls).
	FormatXLS Format = "xls"
)

