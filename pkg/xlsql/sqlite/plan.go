package sqlite

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/ukaji3/xlsql-go/pkg/xlsql/vtab"
)

// rejectedCost steers the planner away from plans whose parameter values are
// not yet available, such as the outer side of a join.
const rejectedCost = 1e300

// plan is a BestIndex answer in the host's terms. The host numbers argv in
// constraint order, so idxStr carries the permutation to the table's order.
type plan struct {
	used          []bool
	idxNum        int
	idxStr        string
	estimatedCost float64
	estimatedRows float64
}

func bestIndex(table vtab.Table, constraints []vtab.Constraint) (*plan, error) {
	info := &vtab.IndexInfo{Constraints: constraints}
	if err := table.BestIndex(info); err != nil {
		if errors.Is(err, vtab.ErrUnusableConstraint) {
			return &plan{
				used:          make([]bool, len(constraints)),
				idxNum:        -1,
				estimatedCost: rejectedCost,
				estimatedRows: rejectedCost,
			}, nil
		}
		return nil, err
	}

	p := &plan{
		used:          make([]bool, len(constraints)),
		idxNum:        info.IdxNum,
		estimatedCost: info.EstimatedCost,
		estimatedRows: float64(info.EstimatedRows),
	}
	var order []string
	for i, u := range info.Usage {
		if u.ArgvIndex > 0 {
			p.used[i] = true
			order = append(order, strconv.Itoa(u.ArgvIndex))
		}
	}
	p.idxStr = strings.Join(order, ",") + ";" + info.IdxStr
	return p, nil
}

// reorder undoes the host's argv numbering using the permutation stored in
// idxStr, returning the argv in the table's order and the table's own idxStr.
func reorder(idxStr string, vals []any) ([]any, string, error) {
	perm, inner, ok := strings.Cut(idxStr, ";")
	if !ok {
		return nil, "", fmt.Errorf("malformed index string %q", idxStr)
	}
	if perm == "" {
		return vals, inner, nil
	}
	positions := strings.Split(perm, ",")
	if len(positions) != len(vals) {
		return nil, "", fmt.Errorf("index string %q expects %d values, got %d", idxStr, len(positions), len(vals))
	}
	argv := make([]any, len(vals))
	for k, s := range positions {
		pos, err := strconv.Atoi(s)
		if err != nil || pos < 1 || pos > len(vals) {
			return nil, "", fmt.Errorf("malformed index string %q", idxStr)
		}
		argv[pos-1] = vals[k]
	}
	return argv, inner, nil
}
