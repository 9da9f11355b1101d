package parser

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/go-kit/log"
	"github.com/ukaji3/xlsql-go/pkg/xlsql/models"
)

// ErrUnknownFormat indicates bytes that match no supported workbook container.
var ErrUnknownFormat = errors.New("unknown workbook format")

// ErrSheetNotFound indicates a sheet name absent from the workbook.
var ErrSheetNotFound = errors.New("sheet not found")

// ErrNotBlob indicates a workbook argument that is not raw bytes.
var ErrNotBlob = errors.New("workbook argument is not a blob")

// DecodeError represents a failure to open or read a workbook.
type DecodeError struct {
	Format models.Format
	Sheet  string
	Err    error
}

func (e *DecodeError) Error() string {
	format := string(e.Format)
	if format == "" {
		format = "workbook"
	}
	if e.Sheet != "" {
		return fmt.Sprintf("decode %s sheet %q: %v", format, e.Sheet, e.Err)
	}
	return fmt.Sprintf("decode %s: %v", format, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// NewDecodeError creates a new DecodeError.
func NewDecodeError(format models.Format, sheet string, err error) *DecodeError {
	return &DecodeError{
		Format: format,
		Sheet:  sheet,
		Err:    err,
	}
}

// Workbook is an opened workbook. Implementations are not safe for concurrent
// use and must be closed by their single owner.
type Workbook interface {
	// Format reports the detected container format.
	Format() models.Format
	// Sheets lists the sheets in workbook order.
	Sheets() []models.SheetMetadata
	// Sheet decodes the used range of the named sheet.
	Sheet(name string) (*models.Sheet, error)
	// Close releases the decoder's resources.
	Close() error
}

// OpenOptions configures workbook decoding.
type OpenOptions struct {
	// XLSCharset is the code page used for legacy .xls strings.
	XLSCharset string
	// UnzipSizeLimit caps the decompressed size of .xlsx parts. Zero keeps
	// the decoder's default.
	UnzipSizeLimit int64
	// Logger receives debug logs about recoverable decoding problems. Nil
	// discards them.
	Logger log.Logger
}

// DefaultOpenOptions returns the decoding defaults.
func DefaultOpenOptions() OpenOptions {
	return OpenOptions{XLSCharset: "utf-8", Logger: log.NewNopLogger()}
}

func (o OpenOptions) logger() log.Logger {
	if o.Logger == nil {
		return log.NewNopLogger()
	}
	return o.Logger
}

var (
	zipMagic  = []byte{'P', 'K', 0x03, 0x04}
	ole2Magic = []byte{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1}
)

// DetectFormat sniffs the container format from the leading bytes.
func DetectFormat(data []byte) models.Format {
	switch {
	case bytes.HasPrefix(data, zipMagic):
		return models.FormatXLSX
	case bytes.HasPrefix(data, ole2Magic):
		return models.FormatXLS
	default:
		return models.FormatUnknown
	}
}

// OpenWorkbook decodes raw workbook bytes.
func OpenWorkbook(data []byte, opts OpenOptions) (Workbook, error) {
	switch DetectFormat(data) {
	case models.FormatXLSX:
		return openXLSX(data, opts)
	case models.FormatXLS:
		return openXLS(data, opts)
	default:
		return nil, NewDecodeError(models.FormatUnknown, "", ErrUnknownFormat)
	}
}

// FirstSheet returns the name of the first sheet in workbook order.
func FirstSheet(wb Workbook) (string, error) {
	sheets := wb.Sheets()
	if len(sheets) == 0 {
		return "", NewDecodeError(wb.Format(), "", fmt.Errorf("workbook has no sheets: %w", ErrSheetNotFound))
	}
	return sheets[0].Name, nil
}

// ResolveSheet returns name when set and present, or the first sheet when
// name is empty.
func ResolveSheet(wb Workbook, name string) (string, error) {
	if name == "" {
		return FirstSheet(wb)
	}
	for _, s := range wb.Sheets() {
		if s.Name == name {
			return name, nil
		}
	}
	return "", NewDecodeError(wb.Format(), name, ErrSheetNotFound)
}

func indexSheets(sheets []models.SheetMetadata) map[string]int {
	index := make(map[string]int, len(sheets))
	for i, s := range sheets {
		index[s.Name] = i
	}
	return index
}
