package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/doug-martin/goqu/v9"
	"github.com/google/uuid"
)

// Application event names.
const (
	EventApplicationStarted         = "application_started"
	EventApplicationErrors          = "application_errors"
	EventApplicationSubmitted       = "application_submitted"
	EventDeclarationLetterSubmitted = "declaration_letter_submitted"
	EventDeclarationLetterReviewed  = "declaration_letter_reviewed"
	EventFollowupSent               = "followup_sent"
)

// Applicant is a person moving through the application, identified across
// requests by a visitor id.
type Applicant struct {
	ID        int64     `db:"id"`
	VisitorID string    `db:"visitor_id"`
	CreatedAt time.Time `db:"created_at"`
}

// Event records something an applicant did or that was done for them.
type Event struct {
	ID          int64
	ApplicantID int64
	Name        string
	Data        map[string]any
	CreatedAt   time.Time
}

type eventRow struct {
	ID          int64     `db:"id"`
	ApplicantID int64     `db:"applicant_id"`
	Name        string    `db:"name"`
	Data        string    `db:"data"`
	CreatedAt   time.Time `db:"created_at"`
}

// CreateApplicant stores a new applicant. An empty visitorID is replaced by
// a fresh UUID.
func (s *Store) CreateApplicant(ctx context.Context, visitorID string) (*Applicant, error) {
	if visitorID == "" {
		visitorID = uuid.NewString()
	}
	a := &Applicant{VisitorID: visitorID, CreatedAt: s.timestamp()}
	id, err := s.insertID(ctx, s.goquDb.Insert(applicantsTable).Rows(goqu.Record{
		"visitor_id": a.VisitorID,
		"created_at": a.CreatedAt,
	}).Prepared(true))
	if err != nil {
		return nil, fmt.Errorf("creating applicant: %w", err)
	}
	a.ID = id
	return a, nil
}

// ApplicantByVisitor looks up the applicant for a visitor id.
func (s *Store) ApplicantByVisitor(ctx context.Context, visitorID string) (*Applicant, error) {
	var a Applicant
	found, err := s.goquDb.From(applicantsTable).
		Where(goqu.C("visitor_id").Eq(visitorID)).
		Prepared(true).
		ScanStructContext(ctx, &a)
	if err != nil {
		return nil, fmt.Errorf("applicant %s: %w", visitorID, err)
	}
	if !found {
		return nil, fmt.Errorf("applicant %s: %w", visitorID, ErrNotFound)
	}
	return &a, nil
}

// LogEvent records a named event with optional data for an applicant.
func (s *Store) LogEvent(ctx context.Context, applicantID int64, name string, data map[string]any) (*Event, error) {
	if data == nil {
		data = map[string]any{}
	}
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("encoding %s event: %w", name, err)
	}
	e := &Event{ApplicantID: applicantID, Name: name, Data: data, CreatedAt: s.timestamp()}
	id, err := s.insertID(ctx, s.goquDb.Insert(eventsTable).Rows(goqu.Record{
		"applicant_id": applicantID,
		"name":         name,
		"data":         string(raw),
		"created_at":   e.CreatedAt,
	}).Prepared(true))
	if err != nil {
		return nil, fmt.Errorf("logging %s for applicant %d: %w", name, applicantID, err)
	}
	e.ID = id
	s.lggr.Debugw("logged event", "applicant_id", applicantID, "event", name)
	return e, nil
}

// LogFollowupSent records that a followup message went to the given contact
// channels.
func (s *Store) LogFollowupSent(ctx context.Context, applicantID int64, contactInfo map[string]string, message string) (*Event, error) {
	return s.LogEvent(ctx, applicantID, EventFollowupSent, map[string]any{
		"contact_info": contactInfo,
		"message":      message,
	})
}

// EventsFor returns an applicant's events, oldest first.
func (s *Store) EventsFor(ctx context.Context, applicantID int64) ([]Event, error) {
	var rows []eventRow
	err := s.goquDb.From(eventsTable).
		Where(goqu.C("applicant_id").Eq(applicantID)).
		Order(goqu.C("created_at").Asc(), goqu.C("id").Asc()).
		Prepared(true).
		ScanStructsContext(ctx, &rows)
	if err != nil {
		return nil, fmt.Errorf("events for applicant %d: %w", applicantID, err)
	}
	events := make([]Event, 0, len(rows))
	for _, row := range rows {
		e := Event{ID: row.ID, ApplicantID: row.ApplicantID, Name: row.Name, CreatedAt: row.CreatedAt}
		if err := json.Unmarshal([]byte(row.Data), &e.Data); err != nil {
			return nil, fmt.Errorf("decoding event %d: %w", row.ID, err)
		}
		events = append(events, e)
	}
	return events, nil
}
