package formspec

import (
	"errors"
	"strings"

	"github.com/dshills/intake/internal/county"
	"github.com/dshills/intake/internal/field"
	"github.com/dshills/intake/internal/form"
	"github.com/dshills/intake/internal/validate"
)

// ErrNoMatchingSpec is returned when no registered spec applies to the criteria.
var ErrNoMatchingSpec = errors.New("no form spec matches the selected counties or organizations")

// Criteria is what the applicant selected.
type Criteria struct {
	Counties      []county.County
	Organizations []county.Organization
}

// Key is a stable identifier for the criteria. Selection order is significant
// because it determines the order of names in generated labels.
func (c Criteria) Key() string {
	orgs := make([]string, len(c.Organizations))
	for i, o := range c.Organizations {
		orgs[i] = string(o)
	}
	return "counties=" + strings.Join(county.Strings(c.Counties), ",") + ";orgs=" + strings.Join(orgs, ",")
}

// Spec declares the questions one county or organization asks.
type Spec struct {
	Name         string
	County       county.County
	Organization county.Organization
	// Always makes the spec match any criteria.
	Always bool

	Fields      field.Set
	Required    field.Set
	Recommended field.Set
	Optional    field.Set
	Validators  []validate.Validator
}

// Matches reports whether the spec applies to c.
func (s *Spec) Matches(c Criteria) bool {
	switch {
	case s.Always:
		return true
	case s.County != "":
		return county.Contains(c.Counties, s.County)
	case s.Organization != "":
		for _, o := range c.Organizations {
			if o == s.Organization {
				return true
			}
		}
	}
	return false
}

// derive copies s under a new name. Sets are immutable, so sharing them with
// the parent is safe.
func (s *Spec) derive(name string) *Spec {
	out := *s
	out.Name = name
	out.Validators = append([]validate.Validator(nil), s.Validators...)
	return &out
}

// Combine merges specs into one:
//   - fields and required fields are unions;
//   - recommended fields are the union minus anything required;
//   - a field is optional only if every spec that asks it marks it optional
//     and no spec requires or recommends it;
//   - validators are an ordered union by name.
//
// Every subset is clipped to the combined fields.
func Combine(name string, specs ...*Spec) *Spec {
	out := &Spec{Name: name}
	var validatorLists [][]validate.Validator
	var optionalCandidates field.Set
	for _, s := range specs {
		out.Fields = out.Fields.Union(s.Fields)
		out.Required = out.Required.Union(s.Required)
		out.Recommended = out.Recommended.Union(s.Recommended)
		optionalCandidates = optionalCandidates.Union(s.Optional)
		validatorLists = append(validatorLists, s.Validators)
	}
	out.Required = out.Required.Intersect(out.Fields)
	out.Recommended = out.Recommended.Minus(out.Required).Intersect(out.Fields)

	var notOptional field.Set
	for _, s := range specs {
		notOptional = notOptional.Union(s.Fields.Minus(s.Optional))
	}
	out.Optional = optionalCandidates.
		Minus(notOptional).
		Minus(out.Required).
		Minus(out.Recommended).
		Intersect(out.Fields)
	out.Validators = validate.Merge(validatorLists...)
	return out
}

// Definition turns the spec into a bindable form definition.
func (s *Spec) Definition(c Criteria) *form.Definition {
	return &form.Definition{
		Name:          s.Name,
		Fields:        s.Fields.Ordered(),
		Required:      s.Required,
		Recommended:   s.Recommended,
		Optional:      s.Optional,
		Validators:    append([]validate.Validator(nil), s.Validators...),
		Counties:      append([]county.County(nil), c.Counties...),
		Organizations: append([]county.Organization(nil), c.Organizations...),
	}
}

func set(fs ...field.Field) field.Set { return field.NewSet(fs...) }
