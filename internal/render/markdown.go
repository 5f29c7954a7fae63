package render

import (
	"bytes"
	"fmt"
	"text/template"

	"github.com/dshills/intake/internal/form"
)

type markdownRenderer struct{}

var mdTemplate = template.Must(template.New("form").Parse(`# Form: {{ .Name }}
{{ if .Counties }}
**Counties:** {{ range $i, $c := .Counties }}{{ if $i }}, {{ end }}{{ $c }}{{ end }}
{{ end }}{{ if .Organizations }}
**Organizations:** {{ range $i, $o := .Organizations }}{{ if $i }}, {{ end }}{{ $o }}{{ end }}
{{ end }}
---

## Fields
{{ range .Fields }}
### {{ .Name }} · {{ .Kind }} · {{ .Requirement }}
{{ .Label }}
{{ if .HelpText }}
*{{ .HelpText }}*
{{ end }}{{ if .Choices }}
{{ range .Choices }}- ` + "`" + `{{ .Value }}` + "`" + `: {{ .Label }}
{{ end }}{{ end }}{{ if .NoMailingAddress }}
- [ ] I don't have a stable mailing address
{{ end }}{{ end }}{{ if .Validators }}
---

## Validators
{{ range .Validators }}
- {{ . }}{{ end }}
{{ end }}`))

func (r *markdownRenderer) Render(def *form.Definition) ([]byte, error) {
	var buf bytes.Buffer
	if err := mdTemplate.Execute(&buf, NewDocument(def)); err != nil {
		return nil, fmt.Errorf("rendering markdown: %w", err)
	}
	return buf.Bytes(), nil
}
