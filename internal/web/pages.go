package web

import (
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/dshills/intake/internal/county"
	"github.com/dshills/intake/internal/field"
	"github.com/dshills/intake/internal/form"
	"github.com/dshills/intake/internal/formspec"
	"github.com/dshills/intake/internal/redact"
	"github.com/dshills/intake/internal/store"
	"github.com/dshills/intake/internal/validate"
)

const selectCountyTitle = "Apply for help clearing your record"

func (s *Server) selectCounty(w http.ResponseWriter, r *http.Request) {
	p := formPage(selectCountyTitle, "/apply", formspec.SelectCounty(), nil)
	p.Intro = "Pick every county where you were arrested or convicted."
	s.render(w, r, http.StatusOK, "select_county.html", p)
}

func (s *Server) apply(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	def := formspec.SelectCounty()
	f := def.Bind(r.PostForm)
	if !f.IsValid() {
		s.metrics.recordValidationError(def.Name)
		s.render(w, r, http.StatusBadRequest, "select_county.html", formPage(selectCountyTitle, "/apply", def, f))
		return
	}

	counties := f.Answers().Strings(field.Counties.Name)
	a, err := s.applicant(w, r)
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	s.logEvent(r.Context(), a.ID, store.EventApplicationStarted, map[string]any{"counties": counties})
	http.Redirect(w, r, applicationURL(counties), http.StatusSeeOther)
}

func applicationURL(counties []string) string {
	return "/application?" + url.Values{"counties": {strings.Join(counties, ",")}}.Encode()
}

// applicationForm resolves the counties in the query string to a combined
// form. ok is false when the visitor must pick counties again.
func (s *Server) applicationForm(r *http.Request) (def *form.Definition, counties []county.County, ok bool, err error) {
	counties, err = county.ParseList(r.URL.Query()["counties"])
	if err != nil || len(counties) == 0 {
		return nil, nil, false, nil
	}
	def, err = s.counties.Combined(formspec.Criteria{Counties: counties})
	if errors.Is(err, formspec.ErrNoMatchingSpec) {
		return nil, nil, false, nil
	}
	if err != nil {
		return nil, nil, false, err
	}
	return def, counties, true, nil
}

func applicationPage(def *form.Definition, counties []county.County, f *form.Form) page {
	p := formPage("Your application", applicationURL(county.Strings(counties)), def, f)
	p.Counties = countyNames(counties)
	p.Submit = "Apply"
	return p
}

func (s *Server) application(w http.ResponseWriter, r *http.Request) {
	def, counties, ok, err := s.applicationForm(r)
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	if !ok {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	s.render(w, r, http.StatusOK, "application.html", applicationPage(def, counties, nil))
}

func (s *Server) submitApplication(w http.ResponseWriter, r *http.Request) {
	def, counties, ok, err := s.applicationForm(r)
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	if !ok {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	a, err := s.applicant(w, r)
	if err != nil {
		s.serverError(w, r, err)
		return
	}

	f := def.Bind(r.PostForm)
	if !f.IsValid() {
		s.metrics.recordValidationError("application")
		keys := errorKeys(f.Errors())
		s.logEvent(r.Context(), a.ID, store.EventApplicationErrors, map[string]any{"errors": keys})
		s.lggr.Debugw("application invalid", "applicant_id", a.ID, "errors", keys, "answers", redact.Answers(f.Answers()))
		s.render(w, r, http.StatusBadRequest, "application.html", applicationPage(def, counties, f))
		return
	}

	sub := &store.Submission{
		ApplicantID: a.ID,
		Answers:     f.Answers(),
		Counties:    counties,
	}
	if err := s.store.CreateSubmission(r.Context(), sub); err != nil {
		s.serverError(w, r, err)
		return
	}
	s.logEvent(r.Context(), a.ID, store.EventApplicationSubmitted, map[string]any{"submission_id": sub.PublicID})
	s.metrics.recordSubmission(county.Strings(counties))
	s.lggr.Infow("application submitted", "submission_id", sub.ID, "counties", county.Strings(counties))
	http.Redirect(w, r, "/application/"+sub.PublicID+"/declaration", http.StatusSeeOther)
}

func errorKeys(errs validate.Errors) []string {
	keys := make([]string, 0, len(errs))
	for k := range errs {
		keys = append(keys, k)
	}
	return keys
}

// submissionForVisitor loads the submission named in the path, writing a
// 404 when there is none.
func (s *Server) submissionForVisitor(w http.ResponseWriter, r *http.Request) (*store.Submission, bool) {
	sub, err := s.store.GetSubmissionByPublicID(r.Context(), chi.URLParam(r, "publicID"))
	if errors.Is(err, store.ErrNotFound) {
		http.NotFound(w, r)
		return nil, false
	}
	if err != nil {
		s.serverError(w, r, err)
		return nil, false
	}
	return sub, true
}

func declarationPage(sub *store.Submission, f *form.Form) page {
	p := formPage("Write your declaration letter", "/application/"+sub.PublicID+"/declaration",
		formspec.DeclarationLetter(), f)
	p.Intro = "A declaration letter tells the judge about you and why clearing your record matters."
	p.Submit = "Finish"
	return p
}

func (s *Server) declaration(w http.ResponseWriter, r *http.Request) {
	sub, ok := s.submissionForVisitor(w, r)
	if !ok {
		return
	}
	s.render(w, r, http.StatusOK, "declaration.html", declarationPage(sub, nil))
}

func (s *Server) submitDeclaration(w http.ResponseWriter, r *http.Request) {
	sub, ok := s.submissionForVisitor(w, r)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	def := formspec.DeclarationLetter()
	f := def.Bind(r.PostForm)
	if !f.IsValid() {
		s.metrics.recordValidationError(def.Name)
		s.render(w, r, http.StatusBadRequest, "declaration.html", declarationPage(sub, f))
		return
	}

	if sub.Answers == nil {
		sub.Answers = field.Answers{}
	}
	for k, v := range f.Answers() {
		sub.Answers[k] = v
	}
	if err := s.store.UpdateAnswers(r.Context(), sub.ID, sub.Answers); err != nil {
		s.serverError(w, r, err)
		return
	}
	applicantID, err := s.ensureApplicant(w, r, sub)
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	s.logEvent(r.Context(), applicantID, store.EventDeclarationLetterSubmitted, map[string]any{"submission_id": sub.PublicID})
	http.Redirect(w, r, "/thanks/"+sub.PublicID, http.StatusSeeOther)
}

// ensureApplicant returns the submission's applicant, linking the current
// visitor when the submission has none.
func (s *Server) ensureApplicant(w http.ResponseWriter, r *http.Request, sub *store.Submission) (int64, error) {
	if sub.ApplicantID != 0 {
		return sub.ApplicantID, nil
	}
	a, err := s.applicant(w, r)
	if err != nil {
		return 0, err
	}
	if err := s.store.SetApplicant(r.Context(), sub.ID, a.ID); err != nil {
		return 0, err
	}
	sub.ApplicantID = a.ID
	return a.ID, nil
}

func (s *Server) thanks(w http.ResponseWriter, r *http.Request) {
	sub, ok := s.submissionForVisitor(w, r)
	if !ok {
		return
	}
	p := page{
		Title:    "Thank you",
		PublicID: sub.PublicID,
		Counties: countyNames(sub.Counties),
	}
	if sub.Answers.Has(field.DeclarationLetterIntro.Name) {
		letter, err := form.DeclarationLetter(sub.Answers, sub.DateReceived)
		if err != nil {
			s.serverError(w, r, err)
			return
		}
		p.Letter = letter
	}
	s.render(w, r, http.StatusOK, "thanks.html", p)
}

// countyNames lists counties for applicants, e.g. "Fresno County and
// another county".
func countyNames(counties []county.County) string {
	names := make([]string, 0, len(counties))
	for _, c := range counties {
		if c == county.Other {
			names = append(names, "another county")
			continue
		}
		names = append(names, c.DisplayName()+" County")
	}
	return county.OxfordComma(names)
}
