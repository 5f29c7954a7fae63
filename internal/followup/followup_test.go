package followup

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/intake/internal/county"
	"github.com/dshills/intake/internal/field"
	"github.com/dshills/intake/internal/logger"
	"github.com/dshills/intake/internal/store"
)

type recordingNotifier struct {
	sent []Message
	fail map[string]bool
}

func (r *recordingNotifier) Notify(_ context.Context, m Message) error {
	if r.fail[m.Channel] {
		return errors.New("channel down")
	}
	r.sent = append(r.sent, m)
	return nil
}

func newTestService(t *testing.T) (*Service, *store.Store, *recordingNotifier) {
	t.Helper()
	lggr := logger.Test(t)
	st, err := store.Open(store.DriverSQLite, ":memory:", lggr)
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	_, err = st.Migrate(context.Background())
	require.NoError(t, err)
	n := &recordingNotifier{}
	return NewService(st, n, 0, lggr), st, n
}

func oldDate() time.Time   { return time.Now().AddDate(0, 0, -40) }
func newerDate() time.Time { return time.Now().AddDate(0, 0, -7) }

func submit(t *testing.T, st *store.Store, received time.Time, answers field.Answers) *store.Submission {
	t.Helper()
	sub := &store.Submission{
		Answers:      answers,
		DateReceived: received,
		Counties:     []county.County{county.SanFrancisco},
	}
	require.NoError(t, st.CreateSubmission(context.Background(), sub))
	return sub
}

func emailAnswers() field.Answers {
	return field.Answers{
		"first_name":          "Ana",
		"email":               "ana@example.org",
		"phone_number":        "4155551234",
		"contact_preferences": []string{field.PrefersEmail, field.PrefersSMS},
	}
}

func TestNewService_DefaultAfterDays(t *testing.T) {
	svc, _, _ := newTestService(t)
	assert.Equal(t, DefaultAfterDays, svc.afterDays)
	fixed := time.Date(2026, 5, 31, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return fixed }
	assert.Equal(t, time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC), svc.Cutoff())
}

func TestDue_FiltersOutNewSubmissions(t *testing.T) {
	svc, st, _ := newTestService(t)
	old := submit(t, st, oldDate(), emailAnswers())
	newer := submit(t, st, newerDate(), emailAnswers())

	due, err := svc.Due(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, due, 1)
	assert.Equal(t, old.ID, due[0].ID)
	assert.NotEqual(t, newer.ID, due[0].ID)
}

func TestSend_SendsOnPreferredChannelsAndRecords(t *testing.T) {
	ctx := context.Background()
	svc, st, n := newTestService(t)
	sub := submit(t, st, oldDate(), emailAnswers())

	results, err := svc.Send(ctx, 0, false)
	require.NoError(t, err)
	require.Len(t, results, 1)
	require.Len(t, n.sent, 2)
	assert.Equal(t, ChannelEmail, n.sent[0].Channel)
	assert.Equal(t, "ana@example.org", n.sent[0].To)
	assert.Equal(t, ChannelSMS, n.sent[1].Channel)
	assert.True(t, strings.HasPrefix(n.sent[0].Body, "Hi Ana,"), n.sent[0].Body)
	assert.Contains(t, n.sent[0].Body, "San Francisco County")

	got, err := st.GetSubmission(ctx, sub.ID)
	require.NoError(t, err)
	require.NotZero(t, got.ApplicantID, "an applicant is created for the followup")
	events, err := st.EventsFor(ctx, got.ApplicantID)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, store.EventFollowupSent, events[0].Name)
	assert.Equal(t, n.sent[0].Body, events[0].Data["message"])

	// a second run finds nothing left to do
	results, err = svc.Send(ctx, 0, false)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestSend_DryRunSendsNothing(t *testing.T) {
	ctx := context.Background()
	svc, st, n := newTestService(t)
	submit(t, st, oldDate(), emailAnswers())

	results, err := svc.Send(ctx, 0, true)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Len(t, results[0].Messages, 2)
	assert.Empty(t, n.sent)

	due, err := svc.Due(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, due, 1)
}

func TestSend_DeliveryFailureContinues(t *testing.T) {
	ctx := context.Background()
	svc, st, n := newTestService(t)
	n.fail = map[string]bool{ChannelSMS: true}
	submit(t, st, oldDate(), field.Answers{"phone_number": "4155551234"})
	emailOnly := submit(t, st, oldDate().Add(time.Hour), field.Answers{"email": "b@example.org"})

	results, err := svc.Send(ctx, 0, false)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDelivery)
	assert.Len(t, results, 2)
	require.Len(t, n.sent, 1)
	assert.Equal(t, emailOnly.ID, n.sent[0].SubmissionID)

	due, err := svc.Due(ctx, 0)
	require.NoError(t, err)
	require.Len(t, due, 1, "failed submission stays due")
}

func TestSend_PartialDeliveryIsNotRepeated(t *testing.T) {
	ctx := context.Background()
	svc, st, n := newTestService(t)
	sub := submit(t, st, oldDate(), emailAnswers())

	n.fail = map[string]bool{ChannelSMS: true}
	results, err := svc.Send(ctx, 0, false)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDelivery)
	require.Len(t, results, 1)
	require.Len(t, results[0].Delivered, 1)
	assert.Equal(t, ChannelEmail, results[0].Delivered[0].Channel)
	require.Len(t, results[0].Failed, 1)
	assert.Equal(t, ChannelSMS, results[0].Failed[0].Channel)

	got, err := st.GetSubmission(ctx, sub.ID)
	require.NoError(t, err)
	events, err := st.EventsFor(ctx, got.ApplicantID)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, map[string]any{ChannelEmail: "ana@example.org"}, events[0].Data["contact_info"])

	// sms is back; the email already went out and must not go again
	n.fail = nil
	results, err = svc.Send(ctx, 0, false)
	require.NoError(t, err)
	assert.Empty(t, results)

	var emails int
	for _, m := range n.sent {
		if m.Channel == ChannelEmail {
			emails++
		}
	}
	assert.Equal(t, 1, emails)
}

func TestSend_SkipsWithoutContactInfo(t *testing.T) {
	svc, st, n := newTestService(t)
	submit(t, st, oldDate(), field.Answers{"first_name": "Ana"})

	results, err := svc.Send(context.Background(), 0, false)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "no contact information", results[0].Skipped)
	assert.Empty(t, n.sent)
}

func TestMessages_FallsBackWithoutPreference(t *testing.T) {
	sub := &store.Submission{ID: 3, Answers: field.Answers{
		"phone_number":        "4155551234",
		"contact_preferences": []string{field.PrefersVoicemail},
	}}
	msgs := Messages(sub, "hi")
	require.Len(t, msgs, 1)
	assert.Equal(t, ChannelSMS, msgs[0].Channel)
	assert.Equal(t, int64(3), msgs[0].SubmissionID)
}

func TestBody_OmitsMissingParts(t *testing.T) {
	sub := &store.Submission{
		Answers:      field.Answers{},
		DateReceived: time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC),
		Counties:     []county.County{county.Other},
	}
	body, err := Body(sub)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(body, "Hi, we're checking in on the application you sent us on January 5, 2026. "), body)
}
