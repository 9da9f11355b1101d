// Package sqlite installs a vtab.Registry on SQLite connections opened through
// github.com/mattn/go-sqlite3.
//
// Virtual tables are only compiled into go-sqlite3 with the sqlite_vtable
// build tag:
//
//	go build -tags sqlite_vtable ./...
//
// Without it Register returns ErrUnsupported.
//
// The tables are eponymous, so they are queried directly or as table-valued
// functions whose arguments bind the hidden columns in order:
//
//	SELECT name FROM xl_sheets WHERE workbook = readfile('book.xlsx');
//	SELECT * FROM xl_cells(?, 'Sheet1!A1:C10');
//
// go-sqlite3 does not expose xFindFunction, so the "->>" overload offered by
// xl_rows is not installed; call xl_at(row, column) instead.
package sqlite
