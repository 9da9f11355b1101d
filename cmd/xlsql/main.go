// Package main provides the CLI entry point for xlsql.
package main

import (
	"bytes"
	"database/sql"
	"fmt"
	"os"
	"strings"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"github.com/ukaji3/xlsql-go/pkg/xlsql"
	"github.com/ukaji3/xlsql-go/pkg/xlsql/output"
	"github.com/ukaji3/xlsql-go/pkg/xlsql/providers"
	"github.com/ukaji3/xlsql-go/pkg/xlsql/sqlite"
	"github.com/ukaji3/xlsql-go/pkg/xlsql/vtab"
)

const driverName = "xlsql"

var (
	outputPath string
	format     string
	pretty     bool
	logLevel   string
	sheetName  string
	workbooks  []string
	showStats  bool
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "xlsql",
		Short: "Query spreadsheet workbooks with SQL",
		Long: `xlsql exposes .xlsx and .xls workbooks as the SQL tables xl_sheets,
xl_rows and xl_cells and prints query results as JSON, CSV or a text table.`,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVarP(&outputPath, "output", "o", "", "Output file path (default: stdout)")
	rootCmd.PersistentFlags().StringVar(&format, "format", "table", "Output format: json, csv, table")
	rootCmd.PersistentFlags().BoolVar(&pretty, "pretty", false, "Pretty-print JSON output")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().BoolVar(&showStats, "stats", false, "Log table metrics when done")

	queryCmd := &cobra.Command{
		Use:   "query SQL",
		Short: "Run a SQL statement; each --workbook is bound to ?1, ?2, ...",
		Example: `  xlsql query -w book.xlsx "SELECT name FROM xl_sheets WHERE workbook = ?1"
  xlsql query -w book.xlsx "SELECT * FROM xl_cells(?1, 'Sheet1!A1:C10')"`,
		Args: cobra.ExactArgs(1),
		RunE: runQuery,
	}
	queryCmd.Flags().StringArrayVarP(&workbooks, "workbook", "w", nil, "Workbook file bound as the next positional parameter")

	sheetsCmd := &cobra.Command{
		Use:   "sheets FILE",
		Short: "List the sheets of a workbook",
		Args:  cobra.ExactArgs(1),
		RunE:  runSheets,
	}

	cellsCmd := &cobra.Command{
		Use:   "cells FILE RANGE",
		Short: "List the cells of a range such as A1:C10",
		Args:  cobra.ExactArgs(2),
		RunE:  runCells,
	}
	cellsCmd.Flags().StringVar(&sheetName, "sheet", "", "Sheet to read when RANGE has no sheet qualifier")

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "xlsql v%s\n", xlsql.Version)
			return err
		},
	}

	rootCmd.AddCommand(queryCmd, sheetsCmd, cellsCmd, versionCmd)
	return rootCmd
}

func newLogger() (log.Logger, error) {
	logger := log.NewLogfmtLogger(log.NewSyncWriter(os.Stderr))
	logger = log.With(logger, "ts", log.DefaultTimestampUTC)

	var option level.Option
	switch strings.ToLower(logLevel) {
	case "debug":
		option = level.AllowDebug()
	case "info":
		option = level.AllowInfo()
	case "warn":
		option = level.AllowWarn()
	case "error":
		option = level.AllowError()
	default:
		return nil, fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", logLevel)
	}
	return level.NewFilter(logger, option), nil
}

// session holds what every command needs: a logger, a registry and the
// metrics it reports to.
type session struct {
	logger   log.Logger
	gatherer *prometheus.Registry
	registry *vtab.Registry
}

func newSession() (*session, error) {
	logger, err := newLogger()
	if err != nil {
		return nil, err
	}
	reg := prometheus.NewRegistry()

	opts := xlsql.DefaultOptions()
	opts.Logger = logger
	opts.Registerer = reg
	registry, err := xlsql.NewRegistry(opts)
	if err != nil {
		return nil, err
	}
	return &session{logger: logger, gatherer: reg, registry: registry}, nil
}

// close logs the collected metrics when --stats is set.
func (s *session) close() {
	if !showStats {
		return
	}
	families, err := s.gatherer.Gather()
	if err != nil {
		level.Warn(s.logger).Log("msg", "failed to gather metrics", "err", err)
		return
	}
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			keyvals := []any{"msg", "metric", "name", mf.GetName()}
			for _, lp := range m.GetLabel() {
				keyvals = append(keyvals, lp.GetName(), lp.GetValue())
			}
			switch {
			case m.GetCounter() != nil:
				keyvals = append(keyvals, "value", m.GetCounter().GetValue())
			case m.GetHistogram() != nil:
				keyvals = append(keyvals, "count", m.GetHistogram().GetSampleCount(), "sum", m.GetHistogram().GetSampleSum())
			}
			level.Info(s.logger).Log(keyvals...)
		}
	}
}

func (s *session) scan(table string, params map[string]any) error {
	m, ok := s.registry.Table(table)
	if !ok {
		return fmt.Errorf("table %s is not registered", table)
	}
	result, err := vtab.Scan(m, params)
	if err != nil {
		return err
	}
	return write(output.Result{Header: result.Columns, Rows: result.Rows})
}

func readWorkbook(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("file not found: %s", path)
	}
	return data, err
}

func runSheets(cmd *cobra.Command, args []string) error {
	s, err := newSession()
	if err != nil {
		return err
	}
	defer s.close()

	data, err := readWorkbook(args[0])
	if err != nil {
		return err
	}
	return s.scan(providers.TableSheets, map[string]any{providers.ParamWorkbook: data})
}

func runCells(cmd *cobra.Command, args []string) error {
	s, err := newSession()
	if err != nil {
		return err
	}
	defer s.close()

	data, err := readWorkbook(args[0])
	if err != nil {
		return err
	}
	rng := args[1]
	if sheetName != "" && !strings.Contains(rng, "!") {
		rng = "'" + strings.ReplaceAll(sheetName, "'", "''") + "'!" + rng
	}
	return s.scan(providers.TableCells, map[string]any{
		providers.ParamWorkbook: data,
		providers.ParamRange:    rng,
	})
}

func runQuery(cmd *cobra.Command, args []string) error {
	s, err := newSession()
	if err != nil {
		return err
	}
	defer s.close()

	var params []any
	for _, path := range workbooks {
		data, err := readWorkbook(path)
		if err != nil {
			return err
		}
		params = append(params, data)
	}

	sqlite.RegisterDriver(driverName, s.registry)
	db, err := sql.Open(driverName, ":memory:")
	if err != nil {
		return err
	}
	defer db.Close()

	level.Debug(s.logger).Log("msg", "running query", "workbooks", len(params))
	rows, err := db.QueryContext(cmd.Context(), args[0], params...)
	if err != nil {
		return fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return err
	}
	result := output.Result{Header: columns}
	for rows.Next() {
		values := make([]any, len(columns))
		ptrs := make([]any, len(columns))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return err
		}
		result.Rows = append(result.Rows, values)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("query failed: %w", err)
	}
	return write(result)
}

func write(result output.Result) error {
	formatter, err := output.ByName(format, pretty)
	if err != nil {
		return err
	}

	if outputPath == "" {
		return formatter.Format(result, os.Stdout)
	}

	var buf bytes.Buffer
	if err := formatter.Format(result, &buf); err != nil {
		return fmt.Errorf("serialization failed: %w", err)
	}
	if err := os.WriteFile(outputPath, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}
