package datastore

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/go-sql-driver/mysql" // MySQL driver
	_ "github.com/jackc/pgx/v5/stdlib" // PostgreSQL driver
	_ "modernc.org/sqlite"             // SQLite driver

	"github.com/mlevkov/glucodip/internal/contract"
	"github.com/mlevkov/glucodip/schema"
)

// openSQLDB opens and verifies a database handle for the backend. The none
// backend never reaches this point; callers treat it as disabled storage.
func openSQLDB(backend schema.DatabaseBackend, connStr string) (*sql.DB, error) {
	var db *sql.DB
	var err error

	switch backend {
	case schema.SQLiteBackend:
		dbPath := connStr
		if dbPath == "" {
			dbPath = contract.GetStoreDBFilePath()
		}
		db, err = sql.Open("sqlite", dbPath)
		if err != nil {
			return nil, fmt.Errorf("failed to open SQLite store at %q: %w. Check that the directory is writable", dbPath, err)
		}
		// Limit SQLite to a single open connection to avoid "database is locked" errors
		db.SetMaxOpenConns(1)

	case schema.MySQLBackend:
		db, err = sql.Open("mysql", connStr)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to MySQL store: %w. Check connection format: user:password@tcp(host:port)/dbname", err)
		}

	case schema.PostgreSQLBackend:
		db, err = sql.Open("pgx", connStr)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to PostgreSQL store: %w. Check connection format: host=localhost port=5432 user=postgres dbname=mydb", err)
		}

	default:
		return nil, fmt.Errorf("unsupported store backend: %s. Must be sqlite, mysql, postgresql, or none", backend)
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to connect to %s database. Check that the server is running and connection parameters are valid: %w", backend, err)
	}

	return db, nil
}

// rebind converts ? placeholders to PostgreSQL's numbered form. SQLite and
// MySQL take the query unchanged.
func rebind(backend schema.DatabaseBackend, query string) string {
	if backend != schema.PostgreSQLBackend {
		return query
	}

	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			fmt.Fprintf(&b, "$%d", n)
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// formatTime renders a timestamp the way the backend stores it. SQLite has
// no time type, so timestamps are kept as RFC3339Nano text normalized to
// UTC; MySQL and PostgreSQL take native values.
func formatTime(t time.Time, backend schema.DatabaseBackend) any {
	if backend == schema.SQLiteBackend {
		return t.UTC().Format(time.RFC3339Nano)
	}
	return t
}

// storedTimeLayouts are the textual forms a timestamp column can come back
// in: our own SQLite encoding, and MySQL datetime text when the DSN does not
// set parseTime=true.
var storedTimeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999",
	"2006-01-02 15:04:05",
}

// storedTime scans a timestamp column regardless of whether the driver
// returns a native time.Time, text or raw bytes. NULL scans to the zero
// time, which is how aggregate queries over empty tables report "nothing".
type storedTime struct {
	time.Time
}

func (st *storedTime) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		st.Time = time.Time{}
		return nil
	case time.Time:
		st.Time = v
		return nil
	case string:
		return st.parse(v)
	case []byte:
		return st.parse(string(v))
	default:
		return fmt.Errorf("unsupported timestamp type %T", src)
	}
}

func (st *storedTime) parse(raw string) error {
	for _, layout := range storedTimeLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			st.Time = t
			return nil
		}
	}
	return fmt.Errorf("invalid stored timestamp %q", raw)
}

// ensureTables creates every store table that does not exist yet.
func ensureTables(db *sql.DB, backend schema.DatabaseBackend) error {
	queries := []struct {
		table string
		query string
	}{
		{readingsTable, createReadingsTableQuery(backend)},
		{foodsTable, createFoodsTableQuery(backend)},
		{crashesTable, createCrashesTableQuery(backend)},
		{assessmentsTable, createAssessmentsTableQuery(backend)},
		{importsTable, createImportsTableQuery(backend)},
		{cacheTable, createCacheTableQuery(backend)},
	}

	for _, q := range queries {
		if _, err := db.Exec(q.query); err != nil {
			return fmt.Errorf("failed to create table %s: %w", q.table, err)
		}
	}
	return nil
}
