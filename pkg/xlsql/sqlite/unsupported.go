//go:build !sqlite_vtable && !vtable

package sqlite

import (
	"github.com/mattn/go-sqlite3"
	"github.com/ukaji3/xlsql-go/pkg/xlsql/vtab"
)

// Register reports ErrUnsupported: this binary was built without the
// sqlite_vtable tag.
func Register(conn *sqlite3.SQLiteConn, r *vtab.Registry) error {
	return ErrUnsupported
}
