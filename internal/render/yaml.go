package render

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/dshills/intake/internal/form"
)

type yamlRenderer struct{}

func (r *yamlRenderer) Render(def *form.Definition) ([]byte, error) {
	out, err := yaml.Marshal(NewDocument(def))
	if err != nil {
		return nil, fmt.Errorf("rendering yaml: %w", err)
	}
	return out, nil
}
