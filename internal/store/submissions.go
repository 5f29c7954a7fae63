package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/doug-martin/goqu/v9"
	"github.com/doug-martin/goqu/v9/exp"
	"github.com/google/uuid"

	"github.com/dshills/intake/internal/county"
	"github.com/dshills/intake/internal/field"
)

// Submission is one completed application.
type Submission struct {
	ID            int64
	PublicID      string
	ApplicantID   int64 // 0 when not yet linked to an applicant
	Answers       field.Answers
	DateReceived  time.Time
	Counties      []county.County
	Organizations []county.Organization
}

type submissionRow struct {
	ID           int64         `db:"id"`
	PublicID     string        `db:"public_id"`
	ApplicantID  sql.NullInt64 `db:"applicant_id"`
	Answers      string        `db:"answers"`
	DateReceived time.Time     `db:"date_received"`
}

type linkRow struct {
	SubmissionID int64  `db:"submission_id"`
	Slug         string `db:"slug"`
}

func nullableID(id int64) sql.NullInt64 {
	return sql.NullInt64{Int64: id, Valid: id != 0}
}

// CreateSubmission stores sub with its county and organization links and
// fills in its id. A missing public id or receipt date is generated.
func (s *Store) CreateSubmission(ctx context.Context, sub *Submission) error {
	if sub.PublicID == "" {
		sub.PublicID = uuid.NewString()
	}
	if sub.DateReceived.IsZero() {
		sub.DateReceived = s.timestamp()
	} else {
		sub.DateReceived = normalizeTime(sub.DateReceived)
	}
	raw, err := json.Marshal(sub.Answers)
	if err != nil {
		return fmt.Errorf("encoding answers: %w", err)
	}

	return s.inTx(ctx, func(tx *goqu.TxDatabase) error {
		id, err := s.insertID(ctx, tx.Insert(submissionsTable).Rows(goqu.Record{
			"public_id":     sub.PublicID,
			"applicant_id":  nullableID(sub.ApplicantID),
			"answers":       string(raw),
			"date_received": sub.DateReceived,
		}).Prepared(true))
		if err != nil {
			return fmt.Errorf("creating submission: %w", err)
		}
		sub.ID = id

		countyIDs, err := slugIDs(ctx, tx, countiesTable, county.Strings(sub.Counties))
		if err != nil {
			return fmt.Errorf("submission counties: %w", err)
		}
		if err := link(ctx, tx, subCountiesTable, "county_id", id, countyIDs); err != nil {
			return err
		}
		orgIDs, err := slugIDs(ctx, tx, organizationsTable, organizationSlugs(sub.Organizations))
		if err != nil {
			return fmt.Errorf("submission organizations: %w", err)
		}
		return link(ctx, tx, subOrgsTable, "organization_id", id, orgIDs)
	})
}

func link(ctx context.Context, tx *goqu.TxDatabase, table exp.IdentifierExpression, column string, submissionID int64, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}
	rows := make([]any, 0, len(ids))
	for i, id := range ids {
		rows = append(rows, goqu.Record{"form_submission_id": submissionID, column: id, "position": i})
	}
	_, err := tx.Insert(table).Rows(rows...).Prepared(true).Executor().ExecContext(ctx)
	return err
}

func organizationSlugs(orgs []county.Organization) []string {
	out := make([]string, len(orgs))
	for i, o := range orgs {
		out[i] = string(o)
	}
	return out
}

// GetSubmission loads a submission by id.
func (s *Store) GetSubmission(ctx context.Context, id int64) (*Submission, error) {
	return s.getSubmission(ctx, goqu.C("id").Eq(id), fmt.Sprint(id))
}

// GetSubmissionByPublicID loads a submission by the id shown to applicants.
func (s *Store) GetSubmissionByPublicID(ctx context.Context, publicID string) (*Submission, error) {
	return s.getSubmission(ctx, goqu.C("public_id").Eq(publicID), publicID)
}

func (s *Store) getSubmission(ctx context.Context, where exp.Expression, label string) (*Submission, error) {
	var row submissionRow
	found, err := s.goquDb.From(submissionsTable).
		Where(where).
		Prepared(true).
		ScanStructContext(ctx, &row)
	if err != nil {
		return nil, fmt.Errorf("submission %s: %w", label, err)
	}
	if !found {
		return nil, fmt.Errorf("submission %s: %w", label, ErrNotFound)
	}
	subs, err := s.hydrate(ctx, []submissionRow{row})
	if err != nil {
		return nil, err
	}
	return subs[0], nil
}

// hydrate decodes rows and attaches their counties and organizations.
func (s *Store) hydrate(ctx context.Context, rows []submissionRow) ([]*Submission, error) {
	subs := make([]*Submission, 0, len(rows))
	byID := make(map[int64]*Submission, len(rows))
	ids := make([]int64, 0, len(rows))
	for _, row := range rows {
		sub := &Submission{
			ID:           row.ID,
			PublicID:     row.PublicID,
			ApplicantID:  row.ApplicantID.Int64,
			DateReceived: row.DateReceived,
		}
		if err := json.Unmarshal([]byte(row.Answers), &sub.Answers); err != nil {
			return nil, fmt.Errorf("decoding answers for submission %d: %w", row.ID, err)
		}
		subs = append(subs, sub)
		byID[row.ID] = sub
		ids = append(ids, row.ID)
	}
	if len(ids) == 0 {
		return subs, nil
	}

	counties, err := s.links(ctx, subCountiesTable, countiesTable, "county_id", ids)
	if err != nil {
		return nil, fmt.Errorf("loading submission counties: %w", err)
	}
	for _, l := range counties {
		c, err := county.Parse(l.Slug)
		if err != nil {
			return nil, err
		}
		byID[l.SubmissionID].Counties = append(byID[l.SubmissionID].Counties, c)
	}

	orgs, err := s.links(ctx, subOrgsTable, organizationsTable, "organization_id", ids)
	if err != nil {
		return nil, fmt.Errorf("loading submission organizations: %w", err)
	}
	for _, l := range orgs {
		o, err := county.ParseOrganization(l.Slug)
		if err != nil {
			return nil, err
		}
		byID[l.SubmissionID].Organizations = append(byID[l.SubmissionID].Organizations, o)
	}
	return subs, nil
}

// links returns the slugs joined to each submission through a link table, in
// the order they were selected.
func (s *Store) links(ctx context.Context, linkTable, target exp.IdentifierExpression, column string, ids []int64) ([]linkRow, error) {
	linkName := linkTable.GetTable()
	targetName := target.GetTable()
	var rows []linkRow
	err := s.goquDb.From(linkTable).
		Join(target, goqu.On(goqu.I(targetName+".id").Eq(goqu.I(linkName+"."+column)))).
		Select(
			goqu.I(linkName+".form_submission_id").As("submission_id"),
			goqu.I(targetName+".slug").As("slug"),
		).
		Where(goqu.I(linkName + ".form_submission_id").In(ids)).
		Order(
			goqu.I(linkName+".form_submission_id").Asc(),
			goqu.I(linkName+".position").Asc(),
			goqu.I(targetName+".id").Asc(),
		).
		Prepared(true).
		ScanStructsContext(ctx, &rows)
	return rows, err
}

// SubmissionCounties returns the counties a submission applied to.
func (s *Store) SubmissionCounties(ctx context.Context, submissionID int64) ([]county.County, error) {
	rows, err := s.links(ctx, subCountiesTable, countiesTable, "county_id", []int64{submissionID})
	if err != nil {
		return nil, fmt.Errorf("counties for submission %d: %w", submissionID, err)
	}
	out := make([]county.County, 0, len(rows))
	for _, r := range rows {
		c, err := county.Parse(r.Slug)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

// UpdateAnswers replaces a submission's answers.
func (s *Store) UpdateAnswers(ctx context.Context, submissionID int64, answers field.Answers) error {
	raw, err := json.Marshal(answers)
	if err != nil {
		return fmt.Errorf("encoding answers: %w", err)
	}
	return s.update(ctx, submissionID, goqu.Record{"answers": string(raw)})
}

// SetApplicant links a submission to an applicant.
func (s *Store) SetApplicant(ctx context.Context, submissionID, applicantID int64) error {
	return s.update(ctx, submissionID, goqu.Record{"applicant_id": nullableID(applicantID)})
}

func (s *Store) update(ctx context.Context, submissionID int64, rec goqu.Record) error {
	res, err := s.goquDb.Update(submissionsTable).
		Set(rec).
		Where(goqu.C("id").Eq(submissionID)).
		Prepared(true).
		Executor().ExecContext(ctx)
	if err != nil {
		return fmt.Errorf("updating submission %d: %w", submissionID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("submission %d: %w", submissionID, ErrNotFound)
	}
	return nil
}

// SubmissionsDueForFollowups returns submissions received at or before
// cutoff whose applicant has not been sent a followup, oldest first. A
// non-zero afterID also drops submissions received before that submission.
func (s *Store) SubmissionsDueForFollowups(ctx context.Context, cutoff time.Time, afterID int64) ([]*Submission, error) {
	followedUp := s.goquDb.From(eventsTable).
		Select("applicant_id").
		Where(goqu.C("name").Eq(EventFollowupSent))

	ds := s.goquDb.From(submissionsTable).
		Where(
			goqu.C("date_received").Lte(normalizeTime(cutoff)),
			goqu.Or(
				goqu.C("applicant_id").IsNull(),
				goqu.C("applicant_id").NotIn(followedUp),
			),
		)

	if afterID != 0 {
		var start time.Time
		found, err := s.goquDb.From(submissionsTable).
			Select("date_received").
			Where(goqu.C("id").Eq(afterID)).
			Prepared(true).
			ScanValContext(ctx, &start)
		if err != nil {
			return nil, fmt.Errorf("followup start submission %d: %w", afterID, err)
		}
		if !found {
			return nil, fmt.Errorf("followup start submission %d: %w", afterID, ErrNotFound)
		}
		ds = ds.Where(goqu.C("date_received").Gte(normalizeTime(start)))
	}

	var rows []submissionRow
	err := ds.Order(goqu.C("date_received").Asc(), goqu.C("id").Asc()).
		Prepared(true).
		ScanStructsContext(ctx, &rows)
	if err != nil {
		return nil, fmt.Errorf("submissions due for followups: %w", err)
	}
	return s.hydrate(ctx, rows)
}
