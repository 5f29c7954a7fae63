package form

import (
	"bytes"
	"fmt"
	"text/template"
	"time"

	"github.com/dshills/intake/internal/field"
)

// Row is one answered question in a read-only view.
type Row struct {
	Name  string `json:"name"`
	Label string `json:"label"`
	Value string `json:"value"`
}

// Display lists every answered, displayable field of the form in order.
// dateReceived fills the date received row when the definition includes it.
func (d *Definition) Display(a field.Answers, dateReceived time.Time) []Row {
	rows := make([]Row, 0, len(d.Fields))
	for _, f := range d.Fields {
		var v any
		switch {
		case f.Name == field.DateReceived.Name:
			if dateReceived.IsZero() {
				continue
			}
			v = dateReceived
		case f.Name == field.Counties.Name && !a.Has(f.Name):
			if len(d.Counties) == 0 {
				continue
			}
			slugs := make([]string, len(d.Counties))
			for i, c := range d.Counties {
				slugs[i] = string(c)
			}
			v = slugs
		case !f.IsInput():
			continue
		case !a.Has(f.Name):
			continue
		default:
			v = a[f.Name]
		}
		rows = append(rows, Row{Name: f.Name, Label: f.Label, Value: f.Format(v)})
	}
	return rows
}

var letterTemplate = template.Must(template.New("declaration").Parse(`{{ .Date }}

To: Honorable Judge

I, {{ .FullName }}, hope to have my record cleared for the following reasons.

{{ .Intro }}

{{ .LifeChanges }}

{{ .Activities }}

{{ .Goals }}

{{ .Why }}

Thank you for your consideration.

Sincerely,
{{ .FullName }}
`))

type letter struct {
	Date        string
	FullName    string
	Intro       string
	LifeChanges string
	Activities  string
	Goals       string
	Why         string
}

// DeclarationLetter renders the applicant's declaration letter as plain text.
func DeclarationLetter(a field.Answers, dateReceived time.Time) (string, error) {
	name := a.String(field.FirstName.Name)
	if m := a.String(field.MiddleName.Name); m != "" {
		name += " " + m
	}
	if l := a.String(field.LastName.Name); l != "" {
		name += " " + l
	}
	data := letter{
		Date:        dateReceived.Format("January 2, 2006"),
		FullName:    name,
		Intro:       a.String(field.DeclarationLetterIntro.Name),
		LifeChanges: a.String(field.DeclarationLetterLifeChanges.Name),
		Activities:  a.String(field.DeclarationLetterActivities.Name),
		Goals:       a.String(field.DeclarationLetterGoals.Name),
		Why:         a.String(field.DeclarationLetterWhy.Name),
	}
	var buf bytes.Buffer
	if err := letterTemplate.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("rendering declaration letter: %w", err)
	}
	return buf.String(), nil
}
