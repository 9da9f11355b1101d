package xlsql

import (
	"github.com/ukaji3/xlsql-go/pkg/xlsql/parser"
	"github.com/ukaji3/xlsql-go/pkg/xlsql/providers"
	"github.com/ukaji3/xlsql-go/pkg/xlsql/vtab"
)

// Error types returned by the tables and functions. Use errors.As to inspect
// them and errors.Is with the sentinels below.
type (
	// ParseError is a malformed cell or range reference.
	ParseError = parser.ParseError
	// DecodeError is a workbook that could not be opened or read.
	DecodeError = parser.DecodeError
	// PlanningError is a query shape a table cannot serve.
	PlanningError = vtab.PlanningError
	// LookupError is a failed xl_at call.
	LookupError = providers.LookupError
)

// Reference parsing.
var (
	ErrEmpty  = parser.ErrEmpty
	ErrSyntax = parser.ErrSyntax
)

// Workbook decoding.
var (
	ErrUnknownFormat = parser.ErrUnknownFormat
	ErrSheetNotFound = parser.ErrSheetNotFound
	ErrNotBlob       = parser.ErrNotBlob
)

// Query planning.
var (
	ErrMissingConstraint   = vtab.ErrMissingConstraint
	ErrUnsupportedOperator = vtab.ErrUnsupportedOperator
	ErrUnusableConstraint  = vtab.ErrUnusableConstraint
)

// Row access.
var (
	ErrForeignHandle    = providers.ErrForeignHandle
	ErrStaleHandle      = providers.ErrStaleHandle
	ErrColumnOutOfRange = providers.ErrColumnOutOfRange
	ErrBadLocator       = providers.ErrBadLocator
)
