package store

import (
	"context"
	"fmt"

	"github.com/doug-martin/goqu/v9"
	"github.com/doug-martin/goqu/v9/exp"
)

// County is a county row loaded from the counties fixture.
type County struct {
	ID          int64  `db:"id"`
	Slug        string `db:"slug"`
	Name        string `db:"name"`
	Description string `db:"description"`
}

// Organization is a partner organization row.
type Organization struct {
	ID                int64  `db:"id"`
	Slug              string `db:"slug"`
	Name              string `db:"name"`
	CountyID          int64  `db:"county_id"`
	IsReceivingAgency bool   `db:"is_receiving_agency"`
}

// Counties returns every county ordered by id.
func (s *Store) Counties(ctx context.Context) ([]County, error) {
	var out []County
	err := s.goquDb.From(countiesTable).
		Order(goqu.C("id").Asc()).
		ScanStructsContext(ctx, &out)
	if err != nil {
		return nil, fmt.Errorf("listing counties: %w", err)
	}
	return out, nil
}

// CountyBySlug looks up one county.
func (s *Store) CountyBySlug(ctx context.Context, slug string) (*County, error) {
	var c County
	found, err := s.goquDb.From(countiesTable).
		Where(goqu.C("slug").Eq(slug)).
		Prepared(true).
		ScanStructContext(ctx, &c)
	if err != nil {
		return nil, fmt.Errorf("county %s: %w", slug, err)
	}
	if !found {
		return nil, fmt.Errorf("county %s: %w", slug, ErrNotFound)
	}
	return &c, nil
}

// Organizations returns every organization ordered by id.
func (s *Store) Organizations(ctx context.Context) ([]Organization, error) {
	var out []Organization
	err := s.goquDb.From(organizationsTable).
		Order(goqu.C("id").Asc()).
		ScanStructsContext(ctx, &out)
	if err != nil {
		return nil, fmt.Errorf("listing organizations: %w", err)
	}
	return out, nil
}

// slugIDs resolves slugs in table to ids, failing on the first unknown slug.
func slugIDs(ctx context.Context, tx *goqu.TxDatabase, table exp.IdentifierExpression, slugs []string) ([]int64, error) {
	if len(slugs) == 0 {
		return nil, nil
	}
	var rows []struct {
		ID   int64  `db:"id"`
		Slug string `db:"slug"`
	}
	err := tx.From(table).
		Select("id", "slug").
		Where(goqu.C("slug").In(slugs)).
		Prepared(true).
		ScanStructsContext(ctx, &rows)
	if err != nil {
		return nil, err
	}
	bySlug := make(map[string]int64, len(rows))
	for _, r := range rows {
		bySlug[r.Slug] = r.ID
	}
	ids := make([]int64, 0, len(slugs))
	for _, slug := range slugs {
		id, ok := bySlug[slug]
		if !ok {
			return nil, fmt.Errorf("%s: %w", slug, ErrNotFound)
		}
		ids = append(ids, id)
	}
	return ids, nil
}
