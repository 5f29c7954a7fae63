package web

import (
	"bytes"
	"embed"
	"encoding/json"
	"html/template"
	"net/http"
	"net/url"
	"slices"
	"strings"

	"github.com/dshills/intake/internal/field"
	"github.com/dshills/intake/internal/form"
	"github.com/dshills/intake/internal/validate"
)

//go:embed templates/*.html
var templateFS embed.FS

var pages = template.Must(template.ParseFS(templateFS, "templates/*.html"))

// fieldView is one field of a rendered form with the visitor's raw input.
type fieldView struct {
	field.Field
	Raw      url.Values
	Errors   []string
	Warnings []string
	Required bool
}

// Input names the form input for the field, or for one of its parts
// ("street", "month", ...).
func (v fieldView) Input(part string) string {
	if part == "" {
		return v.Name
	}
	return v.Name + "." + part
}

// Value returns what the visitor last entered into an input.
func (v fieldView) Value(part string) string { return v.Raw.Get(v.Input(part)) }

// Checked reports whether choice was selected.
func (v fieldView) Checked(choice string) bool {
	for _, raw := range v.Raw[v.Name] {
		if slices.Contains(strings.Split(raw, ","), choice) {
			return true
		}
	}
	return false
}

type page struct {
	Title          string
	Intro          string
	Action         string
	Submit         string
	Fields         []fieldView
	NonFieldErrors []string
	PublicID       string
	Counties       string
	Letter         string
}

// formPage builds a page for def. f is nil before the first post.
func formPage(title, action string, def *form.Definition, f *form.Form) page {
	p := page{Title: title, Action: action, Submit: "Continue"}
	raw := url.Values{}
	errs, warnings := validate.Errors{}, validate.Errors{}
	if f != nil {
		raw, errs, warnings = f.Raw(), f.Errors(), f.Warnings()
		p.NonFieldErrors = errs[validate.NonField]
	}
	for _, fld := range def.Fields {
		if fld.Kind == field.KindDateTime {
			continue
		}
		p.Fields = append(p.Fields, fieldView{
			Field:    fld,
			Raw:      raw,
			Errors:   errs[fld.Name],
			Warnings: warnings[fld.Name],
			Required: def.IsRequired(fld.Name),
		})
	}
	return p
}

func (s *Server) render(w http.ResponseWriter, r *http.Request, status int, name string, p page) {
	var buf bytes.Buffer
	if err := pages.ExecuteTemplate(&buf, name, p); err != nil {
		s.serverError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		s.lggr.Warnw("write error", "err", err)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}
