package followup

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"text/template"
	"time"

	"github.com/hashicorp/go-multierror"

	"github.com/dshills/intake/internal/county"
	"github.com/dshills/intake/internal/field"
	"github.com/dshills/intake/internal/logger"
	"github.com/dshills/intake/internal/store"
)

// DefaultAfterDays is how long after an application a followup is due.
const DefaultAfterDays = 30

// Contact channels.
const (
	ChannelEmail = "email"
	ChannelSMS   = "sms"
)

// ErrDelivery marks failures to hand a followup to a Notifier.
var ErrDelivery = errors.New("followup delivery failed")

// Store is the persistence the followup service needs.
type Store interface {
	SubmissionsDueForFollowups(ctx context.Context, cutoff time.Time, afterID int64) ([]*store.Submission, error)
	CreateApplicant(ctx context.Context, visitorID string) (*store.Applicant, error)
	SetApplicant(ctx context.Context, submissionID, applicantID int64) error
	LogFollowupSent(ctx context.Context, applicantID int64, contactInfo map[string]string, message string) (*store.Event, error)
}

// Message is one followup addressed to one contact channel.
type Message struct {
	SubmissionID int64  `json:"submission_id"`
	Channel      string `json:"channel"`
	To           string `json:"to"`
	Body         string `json:"body"`
}

// Notifier delivers followup messages.
type Notifier interface {
	Notify(ctx context.Context, m Message) error
}

// Result describes what happened to one due submission. Messages lists
// what was addressed; Delivered and Failed split it after sending.
type Result struct {
	SubmissionID int64
	Messages     []Message
	Delivered    []Message
	Failed       []Message
	Skipped      string // reason nothing was sent, if any
}

// Service finds submissions due for a followup and sends them.
type Service struct {
	store     Store
	notifier  Notifier
	afterDays int
	lggr      logger.Logger
	now       func() time.Time
}

// NewService returns a Service. A non-positive afterDays uses
// DefaultAfterDays.
func NewService(st Store, n Notifier, afterDays int, lggr logger.Logger) *Service {
	if afterDays <= 0 {
		afterDays = DefaultAfterDays
	}
	return &Service{
		store:     st,
		notifier:  n,
		afterDays: afterDays,
		lggr:      lggr.Named("followup"),
		now:       time.Now,
	}
}

// Cutoff is the latest receipt time of a submission that is due.
func (s *Service) Cutoff() time.Time { return s.now().AddDate(0, 0, -s.afterDays) }

// Due returns submissions old enough for a followup that have not had one,
// oldest first. A non-zero afterID skips submissions received before it.
func (s *Service) Due(ctx context.Context, afterID int64) ([]*store.Submission, error) {
	return s.store.SubmissionsDueForFollowups(ctx, s.Cutoff(), afterID)
}

// Send messages every due submission on its preferred channels and records
// the followup against its applicant. With dryRun nothing is sent or
// recorded. Delivery failures do not stop the run; they are returned
// together, wrapping ErrDelivery.
func (s *Service) Send(ctx context.Context, afterID int64, dryRun bool) ([]Result, error) {
	due, err := s.Due(ctx, afterID)
	if err != nil {
		return nil, err
	}
	s.lggr.Infow("followups due", "count", len(due), "after_id", afterID, "dry_run", dryRun)

	var errs *multierror.Error
	results := make([]Result, 0, len(due))
	for _, sub := range due {
		res, err := s.sendOne(ctx, sub, dryRun)
		if err != nil {
			errs = multierror.Append(errs, err)
		}
		results = append(results, res)
	}
	return results, errs.ErrorOrNil()
}

func (s *Service) sendOne(ctx context.Context, sub *store.Submission, dryRun bool) (Result, error) {
	res := Result{SubmissionID: sub.ID}
	body, err := Body(sub)
	if err != nil {
		return res, err
	}
	res.Messages = Messages(sub, body)
	if len(res.Messages) == 0 {
		res.Skipped = "no contact information"
		s.lggr.Warnw("followup skipped", "submission_id", sub.ID, "reason", res.Skipped)
		return res, nil
	}
	if dryRun {
		return res, nil
	}

	var errs *multierror.Error
	contactInfo := map[string]string{}
	for _, m := range res.Messages {
		if err := s.notifier.Notify(ctx, m); err != nil {
			res.Failed = append(res.Failed, m)
			errs = multierror.Append(errs, fmt.Errorf("submission %d via %s: %w: %w", sub.ID, m.Channel, ErrDelivery, err))
			continue
		}
		res.Delivered = append(res.Delivered, m)
		contactInfo[m.Channel] = m.To
	}
	if len(res.Delivered) == 0 {
		return res, errs.ErrorOrNil()
	}

	// Any delivery counts as the followup so later runs do not repeat it.
	applicantID := sub.ApplicantID
	if applicantID == 0 {
		a, err := s.store.CreateApplicant(ctx, "")
		if err != nil {
			return res, multierror.Append(errs, err).ErrorOrNil()
		}
		if err := s.store.SetApplicant(ctx, sub.ID, a.ID); err != nil {
			return res, multierror.Append(errs, err).ErrorOrNil()
		}
		applicantID = a.ID
	}
	if _, err := s.store.LogFollowupSent(ctx, applicantID, contactInfo, body); err != nil {
		return res, multierror.Append(errs, err).ErrorOrNil()
	}
	s.lggr.Infow("followup sent", "submission_id", sub.ID, "channels", len(contactInfo), "failed", len(res.Failed))
	return res, errs.ErrorOrNil()
}

// Messages addresses body to each contact channel the applicant prefers and
// gave details for. Without a usable preference it falls back to email, then
// text message.
func Messages(sub *store.Submission, body string) []Message {
	a := sub.Answers
	email := a.String(field.EmailField.Name)
	phone := a.String(field.PhoneNumberField.Name)

	var out []Message
	add := func(channel, to string) {
		out = append(out, Message{SubmissionID: sub.ID, Channel: channel, To: to, Body: body})
	}
	if email != "" && a.Contains(field.ContactPreferences.Name, field.PrefersEmail) {
		add(ChannelEmail, email)
	}
	if phone != "" && a.Contains(field.ContactPreferences.Name, field.PrefersSMS) {
		add(ChannelSMS, phone)
	}
	if len(out) > 0 {
		return out
	}
	switch {
	case email != "":
		add(ChannelEmail, email)
	case phone != "":
		add(ChannelSMS, phone)
	}
	return out
}

var bodyTemplate = template.Must(template.New("followup").Parse(
	`Hi{{with .FirstName}} {{.}}{{end}}, we're checking in on the application you sent us on {{.Date}}` +
		`{{with .Counties}} for help in {{.}}{{end}}. ` +
		`Has a public defender contacted you yet? ` +
		`Reply to this message if you have questions or need help with your case.`))

// Body renders the followup text for a submission.
func Body(sub *store.Submission) (string, error) {
	var names []string
	for _, c := range sub.Counties {
		if c == county.Other {
			continue
		}
		names = append(names, c.DisplayName()+" County")
	}
	var b strings.Builder
	err := bodyTemplate.Execute(&b, struct {
		FirstName string
		Date      string
		Counties  string
	}{
		FirstName: sub.Answers.String(field.FirstName.Name),
		Date:      sub.DateReceived.Format("January 2, 2006"),
		Counties:  county.OxfordComma(names),
	})
	if err != nil {
		return "", fmt.Errorf("rendering followup for submission %d: %w", sub.ID, err)
	}
	return b.String(), nil
}
