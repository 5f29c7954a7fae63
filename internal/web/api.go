package web

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/dshills/intake/internal/county"
	"github.com/dshills/intake/internal/field"
	"github.com/dshills/intake/internal/form"
	"github.com/dshills/intake/internal/formspec"
	"github.com/dshills/intake/internal/render"
	"github.com/dshills/intake/internal/store"
)

var contentTypes = map[string]string{
	"":     "application/json",
	"json": "application/json",
	"md":   "text/markdown; charset=utf-8",
	"yaml": "application/yaml",
}

// apiForms renders the combined form for ?counties=a,b or ?orgs=x,y in the
// requested ?format.
func (s *Server) apiForms(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	var (
		def *form.Definition
		err error
	)
	if len(q["orgs"]) > 0 {
		var orgs []county.Organization
		if orgs, err = county.ParseOrganizations(q["orgs"]); err == nil {
			def, err = s.orgs.Combined(formspec.Criteria{Organizations: orgs})
		}
	} else {
		var counties []county.County
		if counties, err = county.ParseList(q["counties"]); err == nil {
			def, err = s.counties.Combined(formspec.Criteria{Counties: counties})
		}
	}
	switch {
	case errors.Is(err, county.ErrUnknown):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	case errors.Is(err, formspec.ErrNoMatchingSpec):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
		return
	case err != nil:
		s.serverError(w, r, err)
		return
	}

	format := q.Get("format")
	renderer, err := render.NewRenderer(format)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	out, err := renderer.Render(def)
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", contentTypes[format])
	if _, err := w.Write(out); err != nil {
		s.lggr.Warnw("write error", "err", err)
	}
}

type submissionJSON struct {
	ID            int64                 `json:"id"`
	PublicID      string                `json:"public_id"`
	ApplicantID   int64                 `json:"applicant_id,omitempty"`
	DateReceived  time.Time             `json:"date_received"`
	Counties      []county.County       `json:"counties"`
	Organizations []county.Organization `json:"organizations,omitempty"`
	Answers       field.Answers         `json:"answers"`
}

// submission loads the submission whose numeric id is in the path.
func (s *Server) submission(w http.ResponseWriter, r *http.Request) (*store.Submission, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid submission id"})
		return nil, false
	}
	sub, err := s.store.GetSubmission(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
		return nil, false
	}
	if err != nil {
		s.serverError(w, r, err)
		return nil, false
	}
	return sub, true
}

func (s *Server) apiSubmission(w http.ResponseWriter, r *http.Request) {
	sub, ok := s.submission(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, submissionJSON{
		ID:            sub.ID,
		PublicID:      sub.PublicID,
		ApplicantID:   sub.ApplicantID,
		DateReceived:  sub.DateReceived,
		Counties:      sub.Counties,
		Organizations: sub.Organizations,
		Answers:       sub.Answers,
	})
}

type displayJSON struct {
	Rows              []form.Row `json:"rows"`
	Declaration       []form.Row `json:"declaration,omitempty"`
	DeclarationLetter string     `json:"declaration_letter,omitempty"`
}

// apiSubmissionDisplay renders a submission the way staff read it: the
// combined display form of its counties, then its declaration letter.
func (s *Server) apiSubmissionDisplay(w http.ResponseWriter, r *http.Request) {
	sub, ok := s.submission(w, r)
	if !ok {
		return
	}
	out := displayJSON{Rows: []form.Row{}}
	def, err := s.display.Combined(formspec.Criteria{Counties: sub.Counties})
	switch {
	case err == nil:
		out.Rows = def.Display(sub.Answers, sub.DateReceived)
	case !errors.Is(err, formspec.ErrNoMatchingSpec):
		s.serverError(w, r, err)
		return
	}
	if sub.Answers.Has(field.DeclarationLetterIntro.Name) {
		out.Declaration = formspec.DeclarationLetterDisplay().Display(sub.Answers, sub.DateReceived)
		if out.DeclarationLetter, err = form.DeclarationLetter(sub.Answers, sub.DateReceived); err != nil {
			s.serverError(w, r, err)
			return
		}
	}
	writeJSON(w, http.StatusOK, out)
}

// apiDeclarationReview records whether a declaration letter was approved or
// sent back for edits.
func (s *Server) apiDeclarationReview(w http.ResponseWriter, r *http.Request) {
	sub, ok := s.submission(w, r)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	def := formspec.DeclarationLetterReview()
	f := def.Bind(r.PostForm)
	if !f.IsValid() {
		s.metrics.recordValidationError(def.Name)
		writeJSON(w, http.StatusBadRequest, map[string]any{"errors": f.Errors()})
		return
	}
	action := f.Answers().String(field.DeclarationLetterReviewActions.Name)

	applicantID := sub.ApplicantID
	if applicantID == 0 {
		a, err := s.store.CreateApplicant(r.Context(), "")
		if err != nil {
			s.serverError(w, r, err)
			return
		}
		if err := s.store.SetApplicant(r.Context(), sub.ID, a.ID); err != nil {
			s.serverError(w, r, err)
			return
		}
		applicantID = a.ID
	}
	s.logEvent(r.Context(), applicantID, store.EventDeclarationLetterReviewed, map[string]any{
		"submission_id": sub.PublicID,
		"action":        action,
	})
	writeJSON(w, http.StatusOK, map[string]any{"submission_id": sub.ID, "action": action})
}
