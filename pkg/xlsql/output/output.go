// Package output renders query results as JSON, CSV or a text table.
package output

import (
	"encoding/hex"
	"fmt"
	"io"
	"slices"
	"strings"
)

// Result is a query result: column names and rows of engine values.
type Result struct {
	Header []string
	Rows   [][]any
}

// Formatter writes a Result in one format.
type Formatter interface {
	Name() string
	Format(result Result, writer io.Writer) error
}

// Formatters lists every formatter by name.
func Formatters(pretty bool) []Formatter {
	return []Formatter{NewJSON(pretty), NewCSV(), NewTable()}
}

// ByName returns the formatter called name.
func ByName(name string, pretty bool) (Formatter, error) {
	var names []string
	for _, f := range Formatters(pretty) {
		if f.Name() == name {
			return f, nil
		}
		names = append(names, f.Name())
	}
	slices.Sort(names)
	return nil, fmt.Errorf("unknown format %q (must be one of %s)", name, strings.Join(names, ", "))
}

// displayValue renders blobs as SQL hex literals and NULL as empty text.
func displayValue(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case []byte:
		return "x'" + hex.EncodeToString(val) + "'"
	default:
		return fmt.Sprint(val)
	}
}
