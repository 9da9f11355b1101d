package sqlite

import (
	"database/sql"
	"errors"

	"github.com/mattn/go-sqlite3"
	"github.com/ukaji3/xlsql-go/pkg/xlsql/vtab"
)

// ErrUnsupported is returned by Register when go-sqlite3 was compiled without
// virtual table support.
var ErrUnsupported = errors.New("sqlite: virtual tables require the sqlite_vtable build tag")

// RegisterDriver registers a database/sql driver called name whose
// connections have r installed. Like sql.Register it panics if name is
// already taken.
func RegisterDriver(name string, r *vtab.Registry) {
	sql.Register(name, &sqlite3.SQLiteDriver{
		ConnectHook: func(conn *sqlite3.SQLiteConn) error {
			return Register(conn, r)
		},
	})
}
