package output

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

var (
	_ Formatter = (*JSON)(nil)
	_ Formatter = (*CSV)(nil)
	_ Formatter = (*Table)(nil)
)

// JSON writes an array of objects keyed by column name.
type JSON struct {
	pretty bool
}

func NewJSON(pretty bool) *JSON {
	return &JSON{pretty: pretty}
}

func (jf *JSON) Name() string {
	return "json"
}

func (jf *JSON) records(result Result) []map[string]any {
	data := make([]map[string]any, 0, len(result.Rows))
	for _, row := range result.Rows {
		record := make(map[string]any, len(row))
		for i, val := range row {
			var h string
			if i < len(result.Header) {
				h = result.Header[i]
			} else {
				h = fmt.Sprintf("<unknown-field-%d>", i)
			}
			if b, ok := val.([]byte); ok {
				val = displayValue(b)
			}
			record[h] = val
		}
		data = append(data, record)
	}
	return data
}

func (jf *JSON) Format(result Result, writer io.Writer) error {
	var (
		out []byte
		err error
	)
	if jf.pretty {
		out, err = json.MarshalIndent(jf.records(result), "", "  ")
	} else {
		out, err = json.Marshal(jf.records(result))
	}
	if err != nil {
		return fmt.Errorf("json.Marshal: %w", err)
	}
	out = append(out, '\n')
	_, err = writer.Write(out)
	return err
}

// CSV writes a header line followed by one line per row.
type CSV struct{}

func NewCSV() *CSV {
	return &CSV{}
}

func (cf *CSV) Name() string {
	return "csv"
}

func (cf *CSV) Format(result Result, writer io.Writer) error {
	data := [][]string{result.Header}
	for _, row := range result.Rows {
		var csvRow []string
		for _, rec := range row {
			csvRow = append(csvRow, displayValue(rec))
		}
		data = append(data, csvRow)
	}

	w := csv.NewWriter(writer)
	if err := w.WriteAll(data); err != nil {
		return err
	}
	return w.Error()
}

// Table writes a borderless text table.
type Table struct{}

func NewTable() *Table {
	return &Table{}
}

func (tf *Table) Name() string {
	return "table"
}

func (tf *Table) Format(result Result, writer io.Writer) error {
	var tableHeaders table.Row
	for _, k := range result.Header {
		tableHeaders = append(tableHeaders, k)
	}

	var tableRows []table.Row
	for _, row := range result.Rows {
		tableRow := make(table.Row, len(row))
		for i, v := range row {
			if v == nil {
				tableRow[i] = "NULL"
				continue
			}
			tableRow[i] = displayValue(v)
		}
		tableRows = append(tableRows, tableRow)
	}

	t := table.NewWriter()
	t.AppendHeader(tableHeaders)
	t.AppendRows(tableRows)
	t.SetStyle(table.StyleLight)
	t.Style().Format = table.FormatOptions{
		Footer: text.FormatDefault,
		Header: text.FormatDefault,
		Row:    text.FormatDefault,
	}
	t.Style().Options.DrawBorder = false

	_, err := io.WriteString(writer, t.Render()+"\n")
	return err
}
