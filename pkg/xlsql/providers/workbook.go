// Package providers implements the xl_sheets, xl_rows and xl_cells tables and
// the functions that accompany them.
package providers

import (
	"fmt"

	"github.com/ukaji3/xlsql-go/pkg/xlsql/models"
	"github.com/ukaji3/xlsql-go/pkg/xlsql/parser"
	"github.com/ukaji3/xlsql-go/pkg/xlsql/vtab"
)

// Parameter column names shared by the tables.
const (
	ParamWorkbook = "workbook"
	ParamSheet    = "sheet"
	ParamRange    = "range"
)

// openWorkbook decodes the workbook parameter, which must be a blob.
func openWorkbook(args vtab.Args, opts parser.OpenOptions) (parser.Workbook, error) {
	data, ok := args[ParamWorkbook].([]byte)
	if !ok {
		return nil, parser.NewDecodeError(models.FormatUnknown, "",
			fmt.Errorf("%w (got %T)", parser.ErrNotBlob, args[ParamWorkbook]))
	}
	return parser.OpenWorkbook(data, opts)
}

// loadSheet decodes one sheet and closes the workbook. name selects the
// sheet; empty means the first sheet.
func loadSheet(args vtab.Args, opts parser.OpenOptions, name string) (*models.Sheet, error) {
	wb, err := openWorkbook(args, opts)
	if err != nil {
		return nil, err
	}
	defer wb.Close()

	name, err = parser.ResolveSheet(wb, name)
	if err != nil {
		return nil, err
	}
	return wb.Sheet(name)
}

// textArg returns an optional text parameter.
func textArg(args vtab.Args, name string) (string, bool, error) {
	v, ok := args[name]
	if !ok || v == nil {
		return "", false, nil
	}
	switch s := v.(type) {
	case string:
		return s, true, nil
	case []byte:
		return string(s), true, nil
	default:
		return "", false, fmt.Errorf("%s parameter must be text, got %T", name, v)
	}
}
