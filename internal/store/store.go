package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	_ "github.com/doug-martin/goqu/v9/dialect/sqlite3"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"github.com/dshills/intake/internal/logger"
)

// Supported values for the database.driver setting.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

var (
	// ErrNotFound is returned when a lookup matches no row.
	ErrNotFound = errors.New("not found")
	// ErrUnsupportedDriver is returned by Open for unknown drivers.
	ErrUnsupportedDriver = errors.New("unsupported database driver")
)

var (
	countiesTable      = goqu.T("counties")
	organizationsTable = goqu.T("organizations")
	applicantsTable    = goqu.T("applicants")
	eventsTable        = goqu.T("application_events")
	submissionsTable   = goqu.T("form_submissions")
	subCountiesTable   = goqu.T("form_submission_counties")
	subOrgsTable       = goqu.T("form_submission_organizations")
	migrationsTable    = goqu.T("schema_migrations")
)

// Store persists applicants, their events and form submissions.
type Store struct {
	db     *sql.DB
	goquDb *goqu.Database
	driver string
	lggr   logger.Logger
	now    func() time.Time
}

// Open connects to the database named by driver and dsn. SQLite databases
// are limited to one connection so that ":memory:" databases are shared.
func Open(driver, dsn string, lggr logger.Logger) (*Store, error) {
	var dialect string
	switch driver {
	case DriverSQLite:
		dialect = "sqlite3"
		dsn = sqliteDSN(dsn)
	case DriverPostgres:
		dialect = "postgres"
	default:
		return nil, fmt.Errorf("%q: %w", driver, ErrUnsupportedDriver)
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("opening %s database: %w", driver, err)
	}
	if driver == DriverSQLite {
		db.SetMaxOpenConns(1)
		if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
			db.Close()
			return nil, fmt.Errorf("enabling WAL: %w", err)
		}
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("connecting to %s database: %w", driver, err)
	}

	return &Store{
		db:     db,
		goquDb: goqu.New(dialect, db),
		driver: driver,
		lggr:   lggr.Named("store"),
		now:    time.Now,
	}, nil
}

// sqliteDSN makes the driver write timestamps in a sortable layout and
// enables foreign keys.
func sqliteDSN(dsn string) string {
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	if !strings.Contains(dsn, "_time_format") {
		dsn += sep + "_time_format=sqlite"
		sep = "&"
	}
	return dsn + sep + "_pragma=foreign_keys(1)"
}

// Close releases the underlying connection pool.
func (s *Store) Close() error { return s.db.Close() }

// Driver returns the configured driver name.
func (s *Store) Driver() string { return s.driver }

func (s *Store) timestamp() time.Time { return normalizeTime(s.now()) }

// normalizeTime keeps stored timestamps comparable as text on SQLite.
func normalizeTime(t time.Time) time.Time { return t.UTC().Truncate(time.Microsecond) }

// insertID runs an insert and returns the generated id. The sqlite3 dialect
// has no RETURNING support in goqu, so it falls back to LastInsertId.
func (s *Store) insertID(ctx context.Context, ds *goqu.InsertDataset) (int64, error) {
	if s.driver == DriverPostgres {
		var id int64
		if _, err := ds.Returning(goqu.C("id")).Executor().ScanValContext(ctx, &id); err != nil {
			return 0, err
		}
		return id, nil
	}
	res, err := ds.Executor().ExecContext(ctx)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}
