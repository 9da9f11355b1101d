package providers

import (
	"errors"
	"fmt"
	"math"

	"github.com/ukaji3/xlsql-go/pkg/xlsql/parser"
	"github.com/ukaji3/xlsql-go/pkg/xlsql/vtab"
)

// Function names.
const (
	FuncAt      = "xl_at"
	FuncVersion = "xl_version"
	// OpExtract is the operator xl_rows overloads with xl_at.
	OpExtract = "->>"
)

// At implements xl_at(row, locator). The locator is a zero-based column index
// or column letters ("A", "bc").
func (a *Arena) At(args []any) (any, error) {
	if len(args) != 2 {
		return nil, fmt.Errorf("%s: expected 2 arguments, got %d", FuncAt, len(args))
	}
	record, err := a.Resolve(args[0])
	if err != nil {
		return nil, err
	}
	col, err := columnLocator(args[1])
	if err != nil {
		return nil, err
	}
	if col >= uint64(len(record)) {
		return nil, NewLookupError(fmt.Sprint(args[1]), ErrColumnOutOfRange)
	}
	return record[col].Native(), nil
}

func columnLocator(v any) (uint64, error) {
	locator := fmt.Sprint(v)
	switch l := v.(type) {
	case int64:
		if l >= 0 {
			return uint64(l), nil
		}
	case float64:
		if l >= 0 && l == math.Trunc(l) && l <= math.MaxUint32 {
			return uint64(l), nil
		}
	case string:
		idx, err := parser.ColumnNameToIdx(l)
		if err != nil {
			return 0, NewLookupError(locator, errors.Join(ErrBadLocator, err))
		}
		return uint64(idx), nil
	case []byte:
		return columnLocator(string(l))
	}
	return 0, NewLookupError(locator, ErrBadLocator)
}

// VersionFunc implements xl_version(), returning "v" followed by version.
func VersionFunc(version string) vtab.ScalarFunc {
	return func(args []any) (any, error) {
		return "v" + version, nil
	}
}
