// Package vtab defines the table-provider contract a SQL engine drives to
// read rows from an external source, and a generic table whose rows are
// produced only once every required parameter is bound by an equality
// predicate.
package vtab

import (
	"strconv"
	"strings"
)

// Op is a constraint operator. Values match SQLite's SQLITE_INDEX_CONSTRAINT_*
// codes.
type Op uint8

const (
	OpEQ        Op = 2
	OpGT        Op = 4
	OpLE        Op = 8
	OpLT        Op = 16
	OpGE        Op = 32
	OpMatch     Op = 64
	OpLike      Op = 65
	OpGlob      Op = 66
	OpRegexp    Op = 67
	OpNE        Op = 68
	OpIsNot     Op = 69
	OpIsNotNull Op = 70
	OpIsNull    Op = 71
	OpIs        Op = 72
	OpLimit     Op = 73
	OpOffset    Op = 74
	OpFunction  Op = 150
)

var opNames = map[Op]string{
	OpEQ:        "=",
	OpGT:        ">",
	OpLE:        "<=",
	OpLT:        "<",
	OpGE:        ">=",
	OpMatch:     "MATCH",
	OpLike:      "LIKE",
	OpGlob:      "GLOB",
	OpRegexp:    "REGEXP",
	OpNE:        "!=",
	OpIsNot:     "IS NOT",
	OpIsNotNull: "IS NOT NULL",
	OpIsNull:    "IS NULL",
	OpIs:        "IS",
	OpLimit:     "LIMIT",
	OpOffset:    "OFFSET",
	OpFunction:  "FUNCTION",
}

func (o Op) String() string {
	if s, ok := opNames[o]; ok {
		return s
	}
	return "op(" + strconv.Itoa(int(o)) + ")"
}

// Column is one declared column of a table.
type Column struct {
	Name string
	// Hidden columns are not returned by SELECT * and act as parameters.
	Hidden bool
}

// Schema is the fixed column list a table declares when connected.
type Schema struct {
	Columns []Column
}

// DeclareSQL renders the schema as the CREATE TABLE statement a host engine
// expects, for example "CREATE TABLE x(name, visible, workbook HIDDEN)".
func (s Schema) DeclareSQL() string {
	var b strings.Builder
	b.WriteString("CREATE TABLE x(")
	for i, c := range s.Columns {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(c.Name)
		if c.Hidden {
			b.WriteString(" HIDDEN")
		}
	}
	b.WriteString(")")
	return b.String()
}

// Index returns the position of the named column, or -1.
func (s Schema) Index(name string) int {
	for i, c := range s.Columns {
		if c.Name == name {
			return i
		}
	}
	return -1
}

// Constraint is one WHERE-clause term offered to BestIndex.
type Constraint struct {
	Column int
	Op     Op
	// Usable is false when the right-hand side is not available for this
	// plan, such as a column of a table later in a join.
	Usable bool
}

// ConstraintUsage is the table's answer for the constraint at the same
// position.
type ConstraintUsage struct {
	// ArgvIndex is the 1-based position of the constraint's value in the
	// argv passed to Filter; 0 means the constraint is not consumed.
	ArgvIndex int
	// Omit tells the engine it need not re-check the constraint.
	Omit bool
}

// IndexInfo carries one planning round between the engine and a table.
type IndexInfo struct {
	Constraints []Constraint
	// Usage is filled in by BestIndex, one entry per constraint.
	Usage         []ConstraintUsage
	IdxNum        int
	IdxStr        string
	EstimatedCost float64
	EstimatedRows int64
}

// Module creates table instances.
type Module interface {
	// Connect declares the table's schema. It has no side effects and may be
	// called any number of times.
	Connect(args []string) (Table, error)
}

// Table is a connected table.
type Table interface {
	Schema() Schema
	BestIndex(info *IndexInfo) error
	Open() (Cursor, error)
	Disconnect() error
	Destroy() error
}

// Cursor iterates the rows of one query.
type Cursor interface {
	// Filter starts a scan with the argv selected by BestIndex. It releases
	// any rows produced by an earlier Filter on the same cursor.
	Filter(idxNum int, idxStr string, argv []any) error
	Next() error
	EOF() bool
	// Column returns the value of column i of the current row.
	Column(i int) (any, error)
	RowID() (int64, error)
	Close() error
}

// ScalarFunc is an SQL function implementation.
type ScalarFunc func(args []any) (any, error)

// Overloader is implemented by tables that overload SQL functions on their
// columns, such as the "->>" operator.
type Overloader interface {
	FindFunction(nArg int, name string) (ScalarFunc, bool)
}
