package render

import (
	"fmt"

	"github.com/dshills/intake/internal/county"
	"github.com/dshills/intake/internal/field"
	"github.com/dshills/intake/internal/form"
	"github.com/dshills/intake/internal/validate"
)

// Renderer formats a form definition into bytes for output.
type Renderer interface {
	Render(def *form.Definition) ([]byte, error)
}

// NewRenderer returns a Renderer for the given format string.
// Supported formats: "json" (default), "md", "yaml".
func NewRenderer(format string) (Renderer, error) {
	switch format {
	case "json", "":
		return &jsonRenderer{}, nil
	case "md":
		return &markdownRenderer{}, nil
	case "yaml":
		return &yamlRenderer{}, nil
	default:
		return nil, fmt.Errorf("unknown format %q: supported formats are json, md, yaml", format)
	}
}

// Requirement levels reported per field.
const (
	Required    = "required"
	Recommended = "recommended"
	Optional    = "optional"
	Asked       = "asked"
	DisplayOnly = "display"
)

// Document is the serializable view of a form definition.
type Document struct {
	Name          string     `json:"name" yaml:"name"`
	Counties      []string   `json:"counties" yaml:"counties"`
	Organizations []string   `json:"organizations" yaml:"organizations"`
	Fields        []FieldDoc `json:"fields" yaml:"fields"`
	Validators    []string   `json:"validators" yaml:"validators"`
}

// FieldDoc describes one question and how strongly it is asked.
type FieldDoc struct {
	field.Field `yaml:",inline"`
	Requirement string `json:"requirement" yaml:"requirement"`
}

// NewDocument builds the serializable view of def.
func NewDocument(def *form.Definition) *Document {
	doc := &Document{
		Name:          def.Name,
		Counties:      county.Strings(def.Counties),
		Organizations: make([]string, len(def.Organizations)),
		Fields:        make([]FieldDoc, len(def.Fields)),
		Validators:    validate.Names(def.Validators),
	}
	for i, o := range def.Organizations {
		doc.Organizations[i] = string(o)
	}
	for i, f := range def.Fields {
		doc.Fields[i] = FieldDoc{Field: f, Requirement: requirement(def, f)}
	}
	return doc
}

func requirement(def *form.Definition, f field.Field) string {
	switch {
	case !f.IsInput():
		return DisplayOnly
	case def.IsRequired(f.Name):
		return Required
	case def.IsRecommended(f.Name):
		return Recommended
	case def.IsOptional(f.Name):
		return Optional
	}
	return Asked
}
