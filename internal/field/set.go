package field

import "sort"

// Set is an unordered collection of fields keyed by name. The zero value is an
// empty set. Operations never modify their receiver.
type Set struct {
	m map[string]Field
}

// NewSet returns a set holding fs. A later field replaces an earlier one with
// the same name.
func NewSet(fs ...Field) Set {
	s := Set{m: make(map[string]Field, len(fs))}
	for _, f := range fs {
		s.m[f.Name] = f
	}
	return s
}

func (s Set) Len() int { return len(s.m) }

// Has reports whether a field named name is a member.
func (s Set) Has(name string) bool {
	_, ok := s.m[name]
	return ok
}

// Get returns the member named name.
func (s Set) Get(name string) (Field, bool) {
	f, ok := s.m[name]
	return f, ok
}

func (s Set) clone(extra int) Set {
	out := Set{m: make(map[string]Field, len(s.m)+extra)}
	for k, v := range s.m {
		out.m[k] = v
	}
	return out
}

// Union returns s ∪ o. Members of s win on name collisions.
func (s Set) Union(o Set) Set {
	out := s.clone(len(o.m))
	for k, v := range o.m {
		if _, ok := out.m[k]; !ok {
			out.m[k] = v
		}
	}
	return out
}

// Minus returns the members of s not named in o.
func (s Set) Minus(o Set) Set {
	out := Set{m: make(map[string]Field, len(s.m))}
	for k, v := range s.m {
		if _, ok := o.m[k]; !ok {
			out.m[k] = v
		}
	}
	return out
}

// Intersect returns the members of s also named in o.
func (s Set) Intersect(o Set) Set {
	out := Set{m: make(map[string]Field)}
	for k, v := range s.m {
		if _, ok := o.m[k]; ok {
			out.m[k] = v
		}
	}
	return out
}

// With returns a copy of s in which f replaces the member of the same name.
// f is added only if such a member exists.
func (s Set) With(f Field) Set {
	if !s.Has(f.Name) {
		return s
	}
	out := s.clone(0)
	out.m[f.Name] = f
	return out
}

// Equal reports whether both sets hold the same names.
func (s Set) Equal(o Set) bool {
	if len(s.m) != len(o.m) {
		return false
	}
	for k := range s.m {
		if _, ok := o.m[k]; !ok {
			return false
		}
	}
	return true
}

// Ordered returns the members in catalog order. Fields missing from the
// catalog sort last by name.
func (s Set) Ordered() []Field {
	out := make([]Field, 0, len(s.m))
	for _, f := range s.m {
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool {
		pi, pj := position(out[i].Name), position(out[j].Name)
		if pi != pj {
			return pi < pj
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// Names returns member names in catalog order.
func (s Set) Names() []string {
	ordered := s.Ordered()
	out := make([]string, len(ordered))
	for i, f := range ordered {
		out[i] = f.Name
	}
	return out
}
