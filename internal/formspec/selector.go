package formspec

import (
	"fmt"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/dshills/intake/internal/county"
	"github.com/dshills/intake/internal/field"
	"github.com/dshills/intake/internal/form"
)

// DefaultCacheTTL bounds how long a combined definition is reused.
const DefaultCacheTTL = 10 * time.Minute

// Selector picks the specs matching a Criteria and combines them. Returned
// definitions are shared between callers and must not be modified.
type Selector struct {
	name           string
	specs          []*Spec
	countyAdjusted bool
	cache          *cache.Cache
}

func newSelector(name string, specs []*Spec, countyAdjusted bool, ttl time.Duration) *Selector {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &Selector{
		name:           name,
		specs:          specs,
		countyAdjusted: countyAdjusted,
		cache:          cache.New(ttl, 2*ttl),
	}
}

// NewCountySelector combines county intake specs.
func NewCountySelector(ttl time.Duration) *Selector {
	return newSelector("county", InputSpecs(), true, ttl)
}

// NewDisplaySelector combines county specs for staff display, always
// including the date received and county list.
func NewDisplaySelector(ttl time.Duration) *Selector {
	return newSelector("display", DisplaySpecs(), true, ttl)
}

// NewOrganizationSelector combines organization intake specs.
func NewOrganizationSelector(ttl time.Duration) *Selector {
	return newSelector("organization", OrgSpecs(), false, ttl)
}

// Matching returns the specs that apply to c in registration order.
func (s *Selector) Matching(c Criteria) []*Spec {
	var out []*Spec
	for _, spec := range s.specs {
		if spec.Matches(c) {
			out = append(out, spec)
		}
	}
	return out
}

// Combined returns the merged form definition for c.
func (s *Selector) Combined(c Criteria) (*form.Definition, error) {
	key := s.name + "|" + c.Key()
	if v, ok := s.cache.Get(key); ok {
		return v.(*form.Definition), nil
	}
	matching := s.Matching(c)
	if !anySpecific(matching) {
		return nil, fmt.Errorf("%s form for %s: %w", s.name, c.Key(), ErrNoMatchingSpec)
	}
	combined := Combine("combined_"+s.name, matching...)
	if s.countyAdjusted {
		adjustForCounties(combined, c.Counties)
	}
	def := combined.Definition(c)
	s.cache.Set(key, def, cache.DefaultExpiration)
	return def, nil
}

// adjustForCounties applies the label and checkbox changes that depend on the
// whole set of selected counties.
func adjustForCounties(s *Spec, counties []county.County) {
	consent := field.ConsentToCourtAppearanceFor(consentCountyNames(counties))
	s.Fields = s.Fields.With(consent)
	s.Required = s.Required.With(consent)

	address := field.AddressFieldWith(!anyRequireAddress(counties))
	s.Fields = s.Fields.With(address)
	s.Required = s.Required.With(address)
	s.Recommended = s.Recommended.With(address)
	s.Optional = s.Optional.With(address)
}

// consentCountyNames lists the selected counties for the court appearance
// consent. Santa Barbara asks its own court question and is left out.
func consentCountyNames(counties []county.County) string {
	var names []string
	for _, c := range counties {
		if c == county.SantaBarbara || c == county.Other {
			continue
		}
		names = append(names, c.DisplayName()+" County")
	}
	return county.OxfordComma(names)
}

// anySpecific reports whether a county or organization spec matched, as
// opposed to only specs that match everything.
func anySpecific(specs []*Spec) bool {
	for _, s := range specs {
		if !s.Always {
			return true
		}
	}
	return false
}

func anyRequireAddress(counties []county.County) bool {
	for _, c := range counties {
		if c.RequiresAddress() {
			return true
		}
	}
	return false
}
