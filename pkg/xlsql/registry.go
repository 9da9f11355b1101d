package xlsql

import (
	"github.com/ukaji3/xlsql-go/pkg/xlsql/providers"
	"github.com/ukaji3/xlsql-go/pkg/xlsql/vtab"
)

// NewRegistry builds the registry of the workbook tables and functions. Hand
// it to a host binding such as the sqlite package.
func NewRegistry(opts Options) (*vtab.Registry, error) {
	logger := opts.logger()
	metrics := vtab.NewMetrics(opts.Registerer)
	open := opts.openOptions()
	arena := providers.NewArena()

	r := &vtab.Registry{}
	tables := []vtab.Provider{
		providers.NewSheets(open),
		providers.NewCells(open),
		providers.NewRows(open, arena),
	}
	for _, p := range tables {
		if err := r.AddTable(p.Name(), vtab.NewGatedModule(p, logger, metrics)); err != nil {
			return nil, err
		}
	}

	functions := []vtab.FunctionEntry{
		{Name: providers.FuncAt, NArgs: 2, Func: arena.At},
		{Name: providers.FuncVersion, NArgs: 0, Deterministic: true, Func: providers.VersionFunc(opts.version())},
	}
	for _, f := range functions {
		if err := r.AddFunction(f); err != nil {
			return nil, err
		}
	}
	return r, nil
}
