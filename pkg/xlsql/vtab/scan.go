package vtab

import (
	"fmt"
	"slices"
)

// Result is the outcome of Scan: the visible column names and the rows.
type Result struct {
	Columns []string
	Rows    [][]any
}

// Scan drives m the way a SQL engine would for
//
//	SELECT <visible columns> FROM m WHERE p1 = v1 AND p2 = v2 ...
//
// with one equality constraint per entry of params. It is used by tools that
// read a table without a host engine.
func Scan(m Module, params map[string]any) (*Result, error) {
	table, err := m.Connect(nil)
	if err != nil {
		return nil, err
	}
	defer table.Disconnect()

	schema := table.Schema()
	names := make([]string, 0, len(params))
	for name := range params {
		names = append(names, name)
	}
	slices.Sort(names)

	info := &IndexInfo{}
	for _, name := range names {
		idx := schema.Index(name)
		if idx < 0 {
			return nil, fmt.Errorf("no column named %q", name)
		}
		info.Constraints = append(info.Constraints, Constraint{Column: idx, Op: OpEQ, Usable: true})
	}
	if err := table.BestIndex(info); err != nil {
		return nil, err
	}

	var argv []any
	for i, u := range info.Usage {
		if u.ArgvIndex == 0 {
			continue
		}
		for len(argv) < u.ArgvIndex {
			argv = append(argv, nil)
		}
		argv[u.ArgvIndex-1] = params[names[i]]
	}

	cursor, err := table.Open()
	if err != nil {
		return nil, err
	}
	defer cursor.Close()

	if err := cursor.Filter(info.IdxNum, info.IdxStr, argv); err != nil {
		return nil, err
	}

	result := &Result{}
	var visible []int
	for i, c := range schema.Columns {
		if !c.Hidden {
			visible = append(visible, i)
			result.Columns = append(result.Columns, c.Name)
		}
	}
	for ; !cursor.EOF(); cursor.Next() {
		row := make([]any, len(visible))
		for j, col := range visible {
			v, err := cursor.Column(col)
			if err != nil {
				return nil, err
			}
			row[j] = v
		}
		result.Rows = append(result.Rows, row)
	}
	return result, nil
}
