package sqlite

import (
	"database/sql"
	_ "embed"
	"strings"
)

//go:embed schema.sql
var ddlFile string

// EnsureSchema applies the embedded CREATE TABLE / INDEX statements. All
// statements are idempotent, so it is safe to call on every open.
func EnsureSchema(db *sql.DB) error {
	for _, stmt := range strings.Split(ddlFile, ";") {
		stmt = strings.TrimSpace(stmt)
		if stmt == "" {
			continue
		}
		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}
