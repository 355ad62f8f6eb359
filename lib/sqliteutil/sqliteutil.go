package sqliteutil

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "github.com/tursodatabase/libsql-client-go/libsql"
	_ "modernc.org/sqlite"
)

// OpenDB opens the deals database and applies the schema. `target` is
// either a local file path or a libsql:// url pointing at a hosted
// replica. The schema is idempotent (CREATE TABLE IF NOT EXISTS) so
// re-applying it on an existing database is fine.
func OpenDB(schema, target string) (*sql.DB, error) {
	var db *sql.DB
	var err error

	if strings.HasPrefix(target, "libsql://") ||
		strings.HasPrefix(target, "http://") ||
		strings.HasPrefix(target, "https://") {
		db, err = sql.Open("libsql", target)
	} else {
		if target != ":memory:" {
			err = os.MkdirAll(filepath.Dir(target), 0755)
			if err != nil {
				return nil, err
			}
			target = fmt.Sprintf("file:%s", target)
		}
		db, err = sql.Open("sqlite", target)
	}
	if err != nil {
		return nil, err
	}

	_, err = db.Exec(schema)
	if err != nil && !strings.Contains(err.Error(), "already exists") {
		db.Close()
		return nil, err
	}
	return db, nil
}
