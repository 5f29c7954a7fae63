package render

import (
	"encoding/json"

	"github.com/dshills/intake/internal/form"
)

type jsonRenderer struct{}

func (r *jsonRenderer) Render(def *form.Definition) ([]byte, error) {
	return json.MarshalIndent(NewDocument(def), "", "  ")
}
