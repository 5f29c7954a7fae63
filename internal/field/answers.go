package field

// Answers holds cleaned values keyed by field name. Blank fields are absent.
type Answers map[string]any

// String returns the string value of name, or "".
func (a Answers) String(name string) string {
	s, _ := a[name].(string)
	return s
}

// Strings returns the multichoice value of name.
func (a Answers) Strings(name string) []string {
	vals, _ := stringSlice(a[name])
	return vals
}

// Address returns the address value of name. Answers decoded from JSON hold a
// map rather than an Address; both are accepted.
func (a Answers) Address(name string) (Address, bool) {
	switch v := a[name].(type) {
	case Address:
		return v, true
	case map[string]any:
		s := func(k string) string {
			x, _ := v[k].(string)
			return x
		}
		nm, _ := v["no_mailing_address"].(bool)
		return Address{Street: s("street"), City: s("city"), State: s("state"), Zip: s("zip"), NoMailingAddress: nm}, true
	}
	return Address{}, false
}

// Has reports whether the applicant answered name.
func (a Answers) Has(name string) bool {
	v, ok := a[name]
	if !ok || v == nil {
		return false
	}
	switch x := v.(type) {
	case string:
		return x != ""
	case []string:
		return len(x) > 0
	case Address:
		return !x.IsEmpty()
	}
	if addr, ok := a.Address(name); ok {
		return !addr.IsEmpty()
	}
	return true
}

// Contains reports whether the multichoice value of name includes v.
func (a Answers) Contains(name, v string) bool {
	for _, x := range a.Strings(name) {
		if x == v {
			return true
		}
	}
	return false
}
