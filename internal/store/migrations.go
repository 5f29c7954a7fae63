package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/doug-martin/goqu/v9"

	"github.com/dshills/intake/internal/county"
	"github.com/dshills/intake/internal/fixture"
)

type migration struct {
	version int64
	name    string
	up      func(ctx context.Context, s *Store, tx *goqu.TxDatabase) error
	down    func(ctx context.Context, s *Store, tx *goqu.TxDatabase) error
}

var migrations = []migration{
	{1, "initial", createInitialTables, dropInitialTables},
	{2, "add_default_counties", addDefaultCounties, removeDefaultCounties},
	{3, "organizations", createOrganizations, dropOrganizations},
}

var (
	sqliteTypes = strings.NewReplacer(
		"{{pk}}", "INTEGER PRIMARY KEY AUTOINCREMENT",
		"{{ts}}", "TIMESTAMP",
	)
	postgresTypes = strings.NewReplacer(
		"{{pk}}", "BIGSERIAL PRIMARY KEY",
		"{{ts}}", "TIMESTAMPTZ",
	)
)

func (s *Store) exec(ctx context.Context, tx *goqu.TxDatabase, stmts ...string) error {
	types := sqliteTypes
	if s.driver == DriverPostgres {
		types = postgresTypes
	}
	for _, stmt := range stmts {
		if _, err := tx.ExecContext(ctx, types.Replace(stmt)); err != nil {
			return fmt.Errorf("%s: %w", firstLine(stmt), err)
		}
	}
	return nil
}

func firstLine(stmt string) string {
	stmt = strings.TrimSpace(stmt)
	if i := strings.IndexByte(stmt, '\n'); i >= 0 {
		return stmt[:i]
	}
	return stmt
}

func createInitialTables(ctx context.Context, s *Store, tx *goqu.TxDatabase) error {
	return s.exec(ctx, tx,
		`CREATE TABLE counties (
			id {{pk}},
			slug TEXT NOT NULL UNIQUE,
			name TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '')`,
		`CREATE TABLE applicants (
			id {{pk}},
			visitor_id TEXT NOT NULL UNIQUE,
			created_at {{ts}} NOT NULL)`,
		`CREATE TABLE application_events (
			id {{pk}},
			applicant_id BIGINT NOT NULL REFERENCES applicants(id) ON DELETE CASCADE,
			name TEXT NOT NULL,
			data TEXT NOT NULL DEFAULT '{}',
			created_at {{ts}} NOT NULL)`,
		`CREATE INDEX idx_application_events_applicant ON application_events (applicant_id, name)`,
		`CREATE TABLE form_submissions (
			id {{pk}},
			public_id TEXT NOT NULL UNIQUE,
			applicant_id BIGINT REFERENCES applicants(id) ON DELETE SET NULL,
			answers TEXT NOT NULL,
			date_received {{ts}} NOT NULL)`,
		`CREATE INDEX idx_form_submissions_date_received ON form_submissions (date_received)`,
		`CREATE TABLE form_submission_counties (
			form_submission_id BIGINT NOT NULL REFERENCES form_submissions(id) ON DELETE CASCADE,
			county_id BIGINT NOT NULL REFERENCES counties(id) ON DELETE CASCADE,
			position INTEGER NOT NULL DEFAULT 0,
			PRIMARY KEY (form_submission_id, county_id))`,
	)
}

func dropInitialTables(ctx context.Context, s *Store, tx *goqu.TxDatabase) error {
	return s.exec(ctx, tx,
		`DROP TABLE form_submission_counties`,
		`DROP TABLE form_submissions`,
		`DROP TABLE application_events`,
		`DROP TABLE applicants`,
		`DROP TABLE counties`,
	)
}

// addDefaultCounties loads the counties fixture and files every submission
// that has no county under San Francisco, the only county served before
// counties were tracked.
func addDefaultCounties(ctx context.Context, s *Store, tx *goqu.TxDatabase) error {
	rows, f, err := fixture.Counties()
	if err != nil {
		return err
	}
	s.lggr.Infow("loading fixture", "file", f.Name, "hash", f.Hash, "rows", len(rows))
	records := make([]any, 0, len(rows))
	for _, row := range rows {
		records = append(records, goqu.Record{
			"slug":        row.Slug,
			"name":        row.Name,
			"description": row.Description,
		})
	}
	if _, err := tx.Insert(countiesTable).Rows(records...).Executor().ExecContext(ctx); err != nil {
		return fmt.Errorf("loading counties fixture: %w", err)
	}

	var sfID int64
	found, err := tx.From(countiesTable).
		Select("id").
		Where(goqu.C("slug").Eq(string(county.SanFrancisco))).
		ScanValContext(ctx, &sfID)
	if err != nil {
		return err
	}
	if !found {
		return fmt.Errorf("counties fixture has no %s: %w", county.SanFrancisco, ErrNotFound)
	}

	var orphans []int64
	err = tx.From(submissionsTable).
		Select("id").
		Where(goqu.C("id").NotIn(tx.From(subCountiesTable).Select("form_submission_id"))).
		ScanValsContext(ctx, &orphans)
	if err != nil {
		return err
	}
	if len(orphans) == 0 {
		return nil
	}
	links := make([]any, 0, len(orphans))
	for _, id := range orphans {
		links = append(links, goqu.Record{"form_submission_id": id, "county_id": sfID})
	}
	_, err = tx.Insert(subCountiesTable).Rows(links...).Executor().ExecContext(ctx)
	return err
}

// removeDefaultCounties clears every submission's counties and removes the
// fixture rows.
func removeDefaultCounties(ctx context.Context, s *Store, tx *goqu.TxDatabase) error {
	rows, _, err := fixture.Counties()
	if err != nil {
		return err
	}
	slugs := make([]string, 0, len(rows))
	for _, row := range rows {
		slugs = append(slugs, row.Slug)
	}
	if _, err := tx.Delete(subCountiesTable).Executor().ExecContext(ctx); err != nil {
		return err
	}
	_, err = tx.Delete(countiesTable).Where(goqu.C("slug").In(slugs)).Executor().ExecContext(ctx)
	return err
}

func createOrganizations(ctx context.Context, s *Store, tx *goqu.TxDatabase) error {
	err := s.exec(ctx, tx,
		`CREATE TABLE organizations (
			id {{pk}},
			slug TEXT NOT NULL UNIQUE,
			name TEXT NOT NULL,
			county_id BIGINT NOT NULL REFERENCES counties(id),
			is_receiving_agency BOOLEAN NOT NULL DEFAULT FALSE)`,
		`CREATE TABLE form_submission_organizations (
			form_submission_id BIGINT NOT NULL REFERENCES form_submissions(id) ON DELETE CASCADE,
			organization_id BIGINT NOT NULL REFERENCES organizations(id) ON DELETE CASCADE,
			position INTEGER NOT NULL DEFAULT 0,
			PRIMARY KEY (form_submission_id, organization_id))`,
	)
	if err != nil {
		return err
	}

	rows, f, err := fixture.Organizations()
	if err != nil {
		return err
	}
	s.lggr.Infow("loading fixture", "file", f.Name, "hash", f.Hash, "rows", len(rows))
	for _, row := range rows {
		var countyID int64
		found, err := tx.From(countiesTable).
			Select("id").
			Where(goqu.C("slug").Eq(row.County)).
			ScanValContext(ctx, &countyID)
		if err != nil {
			return err
		}
		if !found {
			return fmt.Errorf("organization %s: county %s: %w", row.Slug, row.County, ErrNotFound)
		}
		_, err = tx.Insert(organizationsTable).Rows(goqu.Record{
			"slug":                row.Slug,
			"name":                row.Name,
			"county_id":           countyID,
			"is_receiving_agency": row.IsReceivingAgency,
		}).Executor().ExecContext(ctx)
		if err != nil {
			return fmt.Errorf("loading organization %s: %w", row.Slug, err)
		}
	}
	return nil
}

func dropOrganizations(ctx context.Context, s *Store, tx *goqu.TxDatabase) error {
	return s.exec(ctx, tx,
		`DROP TABLE form_submission_organizations`,
		`DROP TABLE organizations`,
	)
}

func (s *Store) inTx(ctx context.Context, fn func(tx *goqu.TxDatabase) error) error {
	tx, err := s.goquDb.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	return tx.Wrap(func() error { return fn(tx) })
}

func (s *Store) appliedVersions(ctx context.Context) (map[int64]bool, error) {
	types := sqliteTypes
	if s.driver == DriverPostgres {
		types = postgresTypes
	}
	_, err := s.db.ExecContext(ctx, types.Replace(`CREATE TABLE IF NOT EXISTS schema_migrations (
		version BIGINT PRIMARY KEY,
		name TEXT NOT NULL,
		applied_at {{ts}} NOT NULL)`))
	if err != nil {
		return nil, fmt.Errorf("creating schema_migrations: %w", err)
	}
	var versions []int64
	if err := s.goquDb.From(migrationsTable).Select("version").ScanValsContext(ctx, &versions); err != nil {
		return nil, err
	}
	applied := make(map[int64]bool, len(versions))
	for _, v := range versions {
		applied[v] = true
	}
	return applied, nil
}

// Migrate applies every pending migration in order and returns the names of
// those it applied.
func (s *Store) Migrate(ctx context.Context) ([]string, error) {
	applied, err := s.appliedVersions(ctx)
	if err != nil {
		return nil, err
	}
	var names []string
	for _, m := range migrations {
		if applied[m.version] {
			continue
		}
		err := s.inTx(ctx, func(tx *goqu.TxDatabase) error {
			if err := m.up(ctx, s, tx); err != nil {
				return err
			}
			_, err := tx.Insert(migrationsTable).Rows(goqu.Record{
				"version":    m.version,
				"name":       m.name,
				"applied_at": s.timestamp(),
			}).Prepared(true).Executor().ExecContext(ctx)
			return err
		})
		if err != nil {
			return names, fmt.Errorf("migration %d %s: %w", m.version, m.name, err)
		}
		s.lggr.Infow("applied migration", "version", m.version, "name", m.name)
		names = append(names, m.name)
	}
	return names, nil
}

// Rollback reverts the most recently applied migration and returns its name,
// or "" when nothing is applied.
func (s *Store) Rollback(ctx context.Context) (string, error) {
	applied, err := s.appliedVersions(ctx)
	if err != nil {
		return "", err
	}
	for i := len(migrations) - 1; i >= 0; i-- {
		m := migrations[i]
		if !applied[m.version] {
			continue
		}
		err := s.inTx(ctx, func(tx *goqu.TxDatabase) error {
			if err := m.down(ctx, s, tx); err != nil {
				return err
			}
			_, err := tx.Delete(migrationsTable).
				Where(goqu.C("version").Eq(m.version)).
				Executor().ExecContext(ctx)
			return err
		})
		if err != nil {
			return "", fmt.Errorf("reverting migration %d %s: %w", m.version, m.name, err)
		}
		s.lggr.Infow("reverted migration", "version", m.version, "name", m.name)
		return m.name, nil
	}
	return "", nil
}
