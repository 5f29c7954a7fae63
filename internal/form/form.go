package form

import (
	"fmt"
	"net/url"
	"sort"

	"github.com/hashicorp/go-multierror"

	"github.com/dshills/intake/internal/county"
	"github.com/dshills/intake/internal/field"
	"github.com/dshills/intake/internal/validate"
)

const (
	requiredMessage    = "This field is required."
	recommendedMessage = "We recommend answering this question. It helps an attorney review your application faster."
)

// Definition is a concrete form: an ordered list of fields plus the rules
// for which of them must, should, or may be answered.
type Definition struct {
	Name          string
	Fields        []field.Field
	Required      field.Set
	Recommended   field.Set
	Optional      field.Set
	Validators    []validate.Validator
	Counties      []county.County
	Organizations []county.Organization
}

// Field returns the definition's field named name.
func (d *Definition) Field(name string) (field.Field, bool) {
	for _, f := range d.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return field.Field{}, false
}

// Has reports whether the form asks for name.
func (d *Definition) Has(name string) bool {
	_, ok := d.Field(name)
	return ok
}

func (d *Definition) IsRequired(name string) bool { return d.Required.Has(name) }
func (d *Definition) IsRecommended(name string) bool { return d.Recommended.Has(name) }
func (d *Definition) IsOptional(name string) bool { return d.Optional.Has(name) }

// Form is a Definition bound to one submission of raw input.
type Form struct {
	def      *Definition
	raw      url.Values
	answers  field.Answers
	errors   validate.Errors
	warnings validate.Errors
}

// Bind cleans values against every field, checks required and recommended
// fields, then runs the form-level validators.
func (d *Definition) Bind(values url.Values) *Form {
	f := &Form{
		def:      d,
		raw:      values,
		answers:  field.Answers{},
		errors:   validate.Errors{},
		warnings: validate.Errors{},
	}
	for _, fld := range d.Fields {
		if !fld.IsInput() {
			continue
		}
		v, empty, err := fld.Clean(values)
		switch {
		case err != nil:
			f.errors.Add(fld.Name, err.Error())
		case empty && d.Required.Has(fld.Name):
			f.errors.Add(fld.Name, requiredMessage)
		case empty && d.Recommended.Has(fld.Name):
			f.warnings.Add(fld.Name, recommendedMessage)
		case !empty:
			f.answers[fld.Name] = v
		}
	}
	for k, msgs := range validate.Run(d.Validators, f.answers) {
		if _, already := f.errors[k]; already && k != validate.NonField {
			continue
		}
		f.errors[k] = append(f.errors[k], msgs...)
	}
	return f
}

func (f *Form) Definition() *Definition { return f.def }
func (f *Form) Raw() url.Values { return f.raw }
func (f *Form) Answers() field.Answers { return f.answers }
func (f *Form) Errors() validate.Errors { return f.errors }
func (f *Form) Warnings() validate.Errors { return f.warnings }
func (f *Form) IsValid() bool { return len(f.errors) == 0 }
func (f *Form) FieldErrors(name string) []string { return f.errors[name] }

// Err flattens every validation problem into one error, or nil when valid.
func (f *Form) Err() error {
	if f.IsValid() {
		return nil
	}
	keys := make([]string, 0, len(f.errors))
	for k := range f.errors {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var result *multierror.Error
	for _, k := range keys {
		for _, msg := range f.errors[k] {
			result = multierror.Append(result, fmt.Errorf("%s: %s", k, msg))
		}
	}
	return result.ErrorOrNil()
}
