package parser

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode"

	"github.com/ukaji3/xlsql-go/pkg/xlsql/models"
)

// ErrEmpty indicates a reference with nothing to parse.
var ErrEmpty = errors.New("empty input")

// ErrSyntax indicates a reference whose tokens do not match the grammar.
var ErrSyntax = errors.New("syntax error")

// ParseError describes a cell or range reference that could not be parsed.
type ParseError struct {
	Input  string
	Reason string
	Err    error // ErrEmpty or ErrSyntax
}

func (e *ParseError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("parse reference %q: %v", e.Input, e.Err)
	}
	return fmt.Sprintf("parse reference %q: %v: %s", e.Input, e.Err, e.Reason)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

func emptyError(input string) *ParseError {
	return &ParseError{Input: input, Err: ErrEmpty}
}

func syntaxError(input, reason string) *ParseError {
	return &ParseError{Input: input, Reason: reason, Err: ErrSyntax}
}

// TokenKind classifies a reference token.
type TokenKind int

const (
	// TokenIdentifier is a run of letters.
	TokenIdentifier TokenKind = iota
	// TokenNumber is a run of ASCII digits.
	TokenNumber
	// TokenRangeOperator is ':'.
	TokenRangeOperator
	// TokenSheetSeparator is '!'.
	TokenSheetSeparator
)

func (k TokenKind) String() string {
	switch k {
	case TokenIdentifier:
		return "identifier"
	case TokenNumber:
		return "number"
	case TokenRangeOperator:
		return "':'"
	case TokenSheetSeparator:
		return "'!'"
	default:
		return "token(" + strconv.Itoa(int(k)) + ")"
	}
}

// Token is one lexical element of a reference.
type Token struct {
	Kind TokenKind
	Text string
}

const (
	charColon   = ':'
	charExclaim = '!'
	charQuote   = '\''
)

func isDigit(r rune) bool { return r >= '0' && r <= '9' }

// Tokenize splits a reference into tokens:
//
//	"A1"         => [A 1]
//	"AA123"      => [AA 123]
//	"A1:B2"      => [A 1 : B 2]
//	"Sheet1!A:A" => [Sheet 1 ! A : A]
//
// Characters that start no token (spaces, '$', '.') are skipped.
func Tokenize(input string) []Token {
	var tokens []Token
	runes := []rune(input)
	for i := 0; i < len(runes); {
		r := runes[i]
		switch {
		case unicode.IsLetter(r):
			j := i + 1
			for j < len(runes) && unicode.IsLetter(runes[j]) {
				j++
			}
			tokens = append(tokens, Token{Kind: TokenIdentifier, Text: string(runes[i:j])})
			i = j
		case isDigit(r):
			j := i + 1
			for j < len(runes) && isDigit(runes[j]) {
				j++
			}
			tokens = append(tokens, Token{Kind: TokenNumber, Text: string(runes[i:j])})
			i = j
		case r == charColon:
			tokens = append(tokens, Token{Kind: TokenRangeOperator, Text: ":"})
			i++
		case r == charExclaim:
			tokens = append(tokens, Token{Kind: TokenSheetSeparator, Text: "!"})
			i++
		default:
			i++
		}
	}
	return tokens
}

// ColumnNameToIdx converts column letters to a zero-based column index,
// reading them as a bijective base-26 numeral: A=0, Z=25, AA=26, ZFD=17735.
// Letters are case-insensitive.
func ColumnNameToIdx(name string) (uint32, error) {
	if name == "" {
		return 0, syntaxError(name, "empty column name")
	}
	var value uint64
	for _, c := range name {
		var digit uint64
		switch {
		case c >= 'a' && c <= 'z':
			digit = uint64(c-'a') + 1
		case c >= 'A' && c <= 'Z':
			digit = uint64(c-'A') + 1
		default:
			return 0, syntaxError(name, fmt.Sprintf("invalid column letter %q", c))
		}
		value = value*26 + digit
		if value-1 > math.MaxUint32 {
			return 0, syntaxError(name, "column out of range")
		}
	}
	return uint32(value - 1), nil
}

// ColumnIdxToName is the inverse of ColumnNameToIdx and returns upper case
// letters.
func ColumnIdxToName(idx uint32) string {
	var buf []byte
	n := uint64(idx) + 1
	for n > 0 {
		n--
		buf = append(buf, byte('A'+n%26))
		n /= 26
	}
	for i, j := 0, len(buf)-1; i < j; i, j = i+1, j-1 {
		buf[i], buf[j] = buf[j], buf[i]
	}
	return string(buf)
}

// FormatCellReference renders c in A1 notation.
func FormatCellReference(c models.CellCoordinate) string {
	return ColumnIdxToName(c.Column) + strconv.FormatUint(uint64(c.Row)+1, 10)
}

// splitSheetQualifier separates an optional sheet qualifier from the address.
// Format: 'Sheet Name'!A1:B2 or SheetName!A1:B2
func splitSheetQualifier(input string) (sheet, address string, qualified bool) {
	idx := strings.LastIndexByte(input, charExclaim)
	if idx < 0 {
		return "", input, false
	}
	sheet = strings.TrimSpace(input[:idx])
	if len(sheet) >= 2 && sheet[0] == charQuote && sheet[len(sheet)-1] == charQuote {
		sheet = strings.ReplaceAll(sheet[1:len(sheet)-1], "''", "'")
	}
	return sheet, input[idx+1:], true
}

type tokenStream struct {
	input  string
	tokens []Token
	pos    int
}

func (s *tokenStream) expect(kind TokenKind, what string) (Token, error) {
	if s.pos >= len(s.tokens) {
		return Token{}, syntaxError(s.input, "expected "+what)
	}
	tok := s.tokens[s.pos]
	if tok.Kind != kind {
		return Token{}, syntaxError(s.input, fmt.Sprintf("expected %s, found %s %q", what, tok.Kind, tok.Text))
	}
	s.pos++
	return tok, nil
}

func (s *tokenStream) cell() (models.CellCoordinate, error) {
	col, err := s.expect(TokenIdentifier, "column letters")
	if err != nil {
		return models.CellCoordinate{}, err
	}
	row, err := s.expect(TokenNumber, "a number for row value")
	if err != nil {
		return models.CellCoordinate{}, err
	}
	return cellLocation(s.input, col.Text, row.Text)
}

func (s *tokenStream) end() error {
	if s.pos < len(s.tokens) {
		tok := s.tokens[s.pos]
		return syntaxError(s.input, fmt.Sprintf("unexpected %s %q", tok.Kind, tok.Text))
	}
	return nil
}

func cellLocation(input, column, row string) (models.CellCoordinate, error) {
	colIdx, err := ColumnNameToIdx(column)
	if err != nil {
		var pe *ParseError
		if errors.As(err, &pe) {
			return models.CellCoordinate{}, syntaxError(input, pe.Reason)
		}
		return models.CellCoordinate{}, err
	}
	n, err := strconv.ParseUint(row, 10, 32)
	if err != nil {
		return models.CellCoordinate{}, syntaxError(input, "row out of range")
	}
	if n == 0 {
		return models.CellCoordinate{}, syntaxError(input, "row numbers start at 1")
	}
	return models.CellCoordinate{Column: colIdx, Row: uint32(n - 1)}, nil
}

func newStream(input, address string) (*tokenStream, error) {
	tokens := Tokenize(address)
	if len(tokens) == 0 {
		return nil, emptyError(input)
	}
	return &tokenStream{input: input, tokens: tokens}, nil
}

// ParseCellReference parses a single cell address such as "B2" into a
// zero-based coordinate. A sheet qualifier, if present, is ignored.
func ParseCellReference(input string) (models.CellCoordinate, error) {
	_, c, err := ParseQualifiedCellReference(input)
	return c, err
}

// ParseQualifiedCellReference parses "[sheet!]A1" and returns the sheet
// qualifier (empty when absent) and the coordinate.
func ParseQualifiedCellReference(input string) (string, models.CellCoordinate, error) {
	sheet, address, qualified := splitSheetQualifier(input)
	if qualified && sheet == "" {
		return "", models.CellCoordinate{}, syntaxError(input, "empty sheet name")
	}
	s, err := newStream(input, address)
	if err != nil {
		return "", models.CellCoordinate{}, err
	}
	c, err := s.cell()
	if err != nil {
		return "", models.CellCoordinate{}, err
	}
	if err := s.end(); err != nil {
		return "", models.CellCoordinate{}, err
	}
	return sheet, c, nil
}

// ParseRangeReference parses "[sheet!]A1:B5" into a range. Parsing is
// all-or-nothing: any deviation from the grammar is an error.
func ParseRangeReference(input string) (models.RangeReference, error) {
	sheet, address, qualified := splitSheetQualifier(input)
	if qualified && sheet == "" {
		return models.RangeReference{}, syntaxError(input, "empty sheet name")
	}
	s, err := newStream(input, address)
	if err != nil {
		return models.RangeReference{}, err
	}
	start, err := s.cell()
	if err != nil {
		return models.RangeReference{}, err
	}
	if _, err := s.expect(TokenRangeOperator, "':' between range corners"); err != nil {
		return models.RangeReference{}, err
	}
	end, err := s.cell()
	if err != nil {
		return models.RangeReference{}, err
	}
	if err := s.end(); err != nil {
		return models.RangeReference{}, err
	}
	return models.RangeReference{Sheet: sheet, Start: start, End: end}, nil
}
