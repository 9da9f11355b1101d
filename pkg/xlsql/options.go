// Package xlsql exposes spreadsheet workbooks to SQL engines as the tables
// xl_sheets, xl_rows and xl_cells plus the functions xl_at and xl_version.
package xlsql

import (
	"github.com/go-kit/log"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/ukaji3/xlsql-go/pkg/xlsql/parser"
)

// Version is the library version reported by xl_version().
const Version = "0.1.0"

// Options configures the registry.
type Options struct {
	// Logger receives debug logs for every Filter. Defaults to a no-op logger.
	Logger log.Logger
	// Registerer receives the table metrics. If nil, metrics are kept
	// but not registered.
	Registerer prometheus.Registerer
	// XLSCharset is the code page used to decode legacy .xls strings.
	XLSCharset string
	// UnzipSizeLimit caps the decompressed size of .xlsx parts. Zero keeps
	// the decoder's default.
	UnzipSizeLimit int64
	// Version overrides the string reported by xl_version().
	Version string
}

// DefaultOptions returns default registry options.
func DefaultOptions() Options {
	return Options{
		Logger:     log.NewNopLogger(),
		XLSCharset: "utf-8",
		Version:    Version,
	}
}

// logger returns the configured logger or a no-op logger.
func (o Options) logger() log.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return log.NewNopLogger()
}

// version returns the reported version.
func (o Options) version() string {
	if o.Version != "" {
		return o.Version
	}
	return Version
}

// openOptions returns the decoder settings.
func (o Options) openOptions() parser.OpenOptions {
	opts := parser.DefaultOpenOptions()
	if o.XLSCharset != "" {
		opts.XLSCharset = o.XLSCharset
	}
	opts.UnzipSizeLimit = o.UnzipSizeLimit
	opts.Logger = o.logger()
	return opts
}
