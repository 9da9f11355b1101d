package parser

import (
	"strings"
)

// numberFormat classifies how a workbook displays a numeric cell.
type numberFormat int

const (
	formatGeneral numberFormat = iota
	formatDate
	formatDuration
)

// builtinDurationFormat is "[h]:mm:ss".
const builtinDurationFormat = 46

// isBuiltinDateFormat reports whether a built-in number format id renders
// dates or times.
func isBuiltinDateFormat(id int) bool {
	switch {
	case id >= 14 && id <= 22,
		id >= 27 && id <= 36,
		id >= 45 && id <= 47,
		id >= 50 && id <= 58,
		id >= 71 && id <= 81:
		return true
	}
	return false
}

// classifyNumFmt classifies a cell style's number format. custom is the
// format code of a user-defined format, nil for built-in ones.
func classifyNumFmt(id int, custom *string) numberFormat {
	if custom != nil && *custom != "" {
		return classifyFormatCode(*custom)
	}
	if id == builtinDurationFormat {
		return formatDuration
	}
	if isBuiltinDateFormat(id) {
		return formatDate
	}
	return formatGeneral
}

// classifyFormatCode inspects a custom format code. Quoted literals, escaped
// characters and bracketed colors or conditions are ignored; an elapsed-time
// token such as [h] makes the format a duration.
func classifyFormatCode(code string) numberFormat {
	// Only the first section (positive numbers) decides.
	if idx := strings.IndexByte(code, ';'); idx >= 0 {
		code = code[:idx]
	}
	result := formatGeneral
	for i := 0; i < len(code); i++ {
		switch c := code[i]; c {
		case '"':
			end := strings.IndexByte(code[i+1:], '"')
			if end < 0 {
				return result
			}
			i += end + 1
		case '\\', '_', '*':
			i++
		case '[':
			end := strings.IndexByte(code[i+1:], ']')
			if end < 0 {
				return result
			}
			token := strings.ToLower(code[i+1 : i+1+end])
			if token != "" && strings.Trim(token, "hms") == "" {
				return formatDuration
			}
			i += end + 1
		case 'y', 'Y', 'd', 'D', 'h', 'H', 's', 'S', 'm', 'M':
			result = formatDate
		}
	}
	return result
}
