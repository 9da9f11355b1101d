// Package models defines data structures shared by the workbook loader, the
// reference parser and the table providers.
package models

import (
	"fmt"
	"strconv"
)

// Kind identifies which variant a CellValue holds.
type Kind uint8

const (
	// KindEmpty is an unset cell. It is the zero Kind.
	KindEmpty Kind = iota
	// KindInt is a whole number.
	KindInt
	// KindFloat is a floating point number.
	KindFloat
	// KindString is text.
	KindString
	// KindBool is a boolean.
	KindBool
	// KindDateTime is a date serial number formatted as a date by the workbook.
	KindDateTime
	// KindDuration is a serial number formatted as an elapsed time.
	KindDuration
	// KindDateTimeISO is a date stored by the workbook as ISO 8601 text.
	KindDateTimeISO
	// KindDurationISO is a duration stored by the workbook as ISO 8601 text.
	KindDurationISO
	// KindError is a formula error token such as #DIV/0!.
	KindError
)

var kindNames = [...]string{
	KindEmpty:       "empty",
	KindInt:         "int",
	KindFloat:       "float",
	KindString:      "string",
	KindBool:        "bool",
	KindDateTime:    "datetime",
	KindDuration:    "duration",
	KindDateTimeISO: "datetime_iso",
	KindDurationISO: "duration_iso",
	KindError:       "error",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "kind(" + strconv.Itoa(int(k)) + ")"
}

// CellValue is the decoded content of one worksheet cell. The zero value is
// an empty cell. Values are immutable once constructed.
type CellValue struct {
	kind Kind
	i    int64
	f    float64
	s    string
	b    bool
}

// Int returns an integer cell.
func Int(v int64) CellValue { return CellValue{kind: KindInt, i: v} }

// Float returns a floating point cell.
func Float(v float64) CellValue { return CellValue{kind: KindFloat, f: v} }

// String returns a text cell.
func String(v string) CellValue { return CellValue{kind: KindString, s: v} }

// Bool returns a boolean cell.
func Bool(v bool) CellValue { return CellValue{kind: KindBool, b: v} }

// DateTime returns a date cell holding the raw serial number.
func DateTime(serial float64) CellValue { return CellValue{kind: KindDateTime, f: serial} }

// Duration returns an elapsed time cell holding the raw serial number.
func Duration(serial float64) CellValue { return CellValue{kind: KindDuration, f: serial} }

// DateTimeISO returns a date cell stored as ISO 8601 text.
func DateTimeISO(v string) CellValue { return CellValue{kind: KindDateTimeISO, s: v} }

// DurationISO returns a duration cell stored as ISO 8601 text.
func DurationISO(v string) CellValue { return CellValue{kind: KindDurationISO, s: v} }

// ErrorValue returns a cell holding a formula error token.
func ErrorValue(token string) CellValue { return CellValue{kind: KindError, s: token} }

// Empty returns an empty cell.
func Empty() CellValue { return CellValue{} }

// Kind reports the variant held by v.
func (v CellValue) Kind() Kind { return v.kind }

// IsEmpty reports whether v is an empty cell.
func (v CellValue) IsEmpty() bool { return v.kind == KindEmpty }

// Int64 returns the integer payload. It is only meaningful for KindInt.
func (v CellValue) Int64() int64 { return v.i }

// Float64 returns the numeric payload of KindFloat, KindDateTime and
// KindDuration cells.
func (v CellValue) Float64() float64 { return v.f }

// Text returns the text payload of string, ISO and error cells.
func (v CellValue) Text() string { return v.s }

// Boolean returns the payload of a KindBool cell.
func (v CellValue) Boolean() bool { return v.b }

// String renders the value for diagnostics.
func (v CellValue) String() string {
	switch v.kind {
	case KindInt:
		return strconv.FormatInt(v.i, 10)
	case KindFloat, KindDateTime, KindDuration:
		return strconv.FormatFloat(v.f, 'g', -1, 64)
	case KindBool:
		if v.b {
			return "TRUE"
		}
		return "FALSE"
	case KindString, KindDateTimeISO, KindDurationISO, KindError:
		return v.s
	case KindEmpty:
		return ""
	default:
		return fmt.Sprintf("<%s>", v.kind)
	}
}

// RowRecord is one materialized sheet row. Index 0 is column A.
type RowRecord []CellValue
