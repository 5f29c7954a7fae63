package field

import (
	"fmt"
	"net/mail"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Kind selects how a field parses and displays its input.
type Kind string

const (
	KindText        Kind = "text"
	KindTextArea    Kind = "textarea"
	KindChoice      Kind = "choice"
	KindMultiChoice Kind = "multichoice"
	KindYesNo       Kind = "yesno"
	KindConsent     Kind = "consent"
	KindMoney       Kind = "money"
	KindInteger     Kind = "integer"
	KindPhone       Kind = "phone"
	KindEmail       Kind = "email"
	KindAddress     Kind = "address"
	KindDate        Kind = "date"
	KindSSN         Kind = "ssn"
	KindLastFour    Kind = "lastfour"
	KindNote        Kind = "note"
	KindDateTime    Kind = "datetime"
)

// Choice is one option of a choice or multichoice field.
type Choice struct {
	Value string `json:"value" yaml:"value"`
	Label string `json:"label" yaml:"label"`
}

// Field describes a single question on an intake form. Catalog entries are
// values; variants are produced by copying, never by mutating a catalog entry.
type Field struct {
	Name     string   `json:"name" yaml:"name"`
	Label    string   `json:"label" yaml:"label"`
	HelpText string   `json:"help_text,omitempty" yaml:"help_text,omitempty"`
	Kind     Kind     `json:"kind" yaml:"kind"`
	Choices  []Choice `json:"choices,omitempty" yaml:"choices,omitempty"`
	// NoMailingAddress offers the "I don't have a stable mailing address"
	// checkbox on address fields.
	NoMailingAddress bool `json:"no_mailing_address,omitempty" yaml:"no_mailing_address,omitempty"`
}

// Address is the cleaned value of an address field.
type Address struct {
	Street           string `json:"street"`
	City             string `json:"city"`
	State            string `json:"state"`
	Zip              string `json:"zip"`
	NoMailingAddress bool   `json:"no_mailing_address,omitempty"`
}

// IsEmpty reports whether no part of the street address was given.
func (a Address) IsEmpty() bool {
	return a.Street == "" && a.City == "" && a.State == "" && a.Zip == ""
}

func (a Address) String() string {
	if a.IsEmpty() {
		if a.NoMailingAddress {
			return "No stable mailing address"
		}
		return ""
	}
	return fmt.Sprintf("%s\n%s, %s %s", a.Street, a.City, a.State, a.Zip)
}

// Date is the cleaned value of a date field.
type Date struct {
	Year  int `json:"year"`
	Month int `json:"month"`
	Day   int `json:"day"`
}

func (d Date) String() string { return fmt.Sprintf("%d/%d/%d", d.Month, d.Day, d.Year) }

// Time converts d to midnight UTC.
func (d Date) Time() time.Time {
	return time.Date(d.Year, time.Month(d.Month), d.Day, 0, 0, 0, 0, time.UTC)
}

const (
	minBirthYear = 1900
)

var (
	digitsOnly = regexp.MustCompile(`\D`)
	zipPattern = regexp.MustCompile(`^\d{5}(-\d{4})?$`)
)

// Sub-keys used by multi-part fields.
func subKey(name, part string) string { return name + "." + part }

// Clean parses the field's raw input. empty is true when the applicant left the
// field blank; err carries a message suitable for showing to the applicant.
func (f Field) Clean(values url.Values) (value any, empty bool, err error) {
	switch f.Kind {
	case KindNote, KindDateTime:
		return nil, true, nil
	case KindAddress:
		return f.cleanAddress(values)
	case KindDate:
		return f.cleanDate(values)
	case KindMultiChoice:
		return f.cleanMultiChoice(values)
	}

	raw := strings.TrimSpace(values.Get(f.Name))
	if raw == "" {
		return nil, true, nil
	}

	switch f.Kind {
	case KindText, KindTextArea:
		return raw, false, nil
	case KindChoice, KindYesNo:
		if !f.hasChoice(raw) {
			return nil, false, fmt.Errorf("'%s' is not a valid choice", raw)
		}
		return raw, false, nil
	case KindConsent:
		switch strings.ToLower(raw) {
		case "yes", "on", "true":
			return "yes", false, nil
		}
		return nil, false, fmt.Errorf("Please check the box to continue")
	case KindMoney:
		cleaned := strings.NewReplacer("$", "", ",", "").Replace(raw)
		if i := strings.Index(cleaned, "."); i >= 0 {
			cleaned = cleaned[:i]
		}
		n, convErr := strconv.Atoi(strings.TrimSpace(cleaned))
		if convErr != nil || n < 0 {
			return nil, false, fmt.Errorf("You entered '%s', which doesn't look like a dollar amount", raw)
		}
		return n, false, nil
	case KindInteger:
		n, convErr := strconv.Atoi(raw)
		if convErr != nil || n < 0 {
			return nil, false, fmt.Errorf("You entered '%s', which doesn't look like a number", raw)
		}
		return n, false, nil
	case KindPhone:
		d := digitsOnly.ReplaceAllString(raw, "")
		if len(d) == 11 && d[0] == '1' {
			d = d[1:]
		}
		if len(d) != 10 {
			return nil, false, fmt.Errorf("'%s' doesn't look like a valid 10-digit phone number", raw)
		}
		return d, false, nil
	case KindEmail:
		addr, parseErr := mail.ParseAddress(raw)
		if parseErr != nil || addr.Address != raw {
			return nil, false, fmt.Errorf("'%s' doesn't look like a valid email address", raw)
		}
		return strings.ToLower(addr.Address), false, nil
	case KindSSN:
		d := digitsOnly.ReplaceAllString(raw, "")
		if len(d) != 9 {
			return nil, false, fmt.Errorf("Please enter a valid 9-digit Social Security number")
		}
		return d, false, nil
	case KindLastFour:
		d := digitsOnly.ReplaceAllString(raw, "")
		if len(d) != 4 {
			return nil, false, fmt.Errorf("Please enter exactly four digits")
		}
		return d, false, nil
	}
	return nil, false, fmt.Errorf("field %s has unsupported kind %q", f.Name, f.Kind)
}

func (f Field) hasChoice(v string) bool {
	for _, c := range f.Choices {
		if c.Value == v {
			return true
		}
	}
	return false
}

func (f Field) cleanMultiChoice(values url.Values) (any, bool, error) {
	var out []string
	seen := map[string]bool{}
	for _, raw := range values[f.Name] {
		for _, v := range strings.Split(raw, ",") {
			v = strings.TrimSpace(v)
			if v == "" || seen[v] {
				continue
			}
			if !f.hasChoice(v) {
				return nil, false, fmt.Errorf("'%s' is not a valid choice", v)
			}
			seen[v] = true
			out = append(out, v)
		}
	}
	if len(out) == 0 {
		return nil, true, nil
	}
	return out, false, nil
}

func (f Field) cleanAddress(values url.Values) (any, bool, error) {
	a := Address{
		Street: strings.TrimSpace(values.Get(subKey(f.Name, "street"))),
		City:   strings.TrimSpace(values.Get(subKey(f.Name, "city"))),
		State:  strings.ToUpper(strings.TrimSpace(values.Get(subKey(f.Name, "state")))),
		Zip:    strings.TrimSpace(values.Get(subKey(f.Name, "zip"))),
	}
	if f.NoMailingAddress {
		switch strings.ToLower(values.Get(subKey(f.Name, "no_mailing_address"))) {
		case "yes", "on", "true":
			a.NoMailingAddress = true
		}
	}
	if a.IsEmpty() {
		if a.NoMailingAddress {
			return a, false, nil
		}
		return nil, true, nil
	}
	if a.Street == "" || a.City == "" || a.State == "" || a.Zip == "" {
		return nil, false, fmt.Errorf("Please enter a complete address: street, city, state, and zip code")
	}
	if !zipPattern.MatchString(a.Zip) {
		return nil, false, fmt.Errorf("'%s' doesn't look like a valid zip code", a.Zip)
	}
	return a, false, nil
}

func (f Field) cleanDate(values url.Values) (any, bool, error) {
	parts := [3]string{
		strings.TrimSpace(values.Get(subKey(f.Name, "month"))),
		strings.TrimSpace(values.Get(subKey(f.Name, "day"))),
		strings.TrimSpace(values.Get(subKey(f.Name, "year"))),
	}
	if parts[0] == "" && parts[1] == "" && parts[2] == "" {
		return nil, true, nil
	}
	var nums [3]int
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil {
			return nil, false, fmt.Errorf("Please enter a valid date as month, day, and year")
		}
		nums[i] = n
	}
	d := Date{Month: nums[0], Day: nums[1], Year: nums[2]}
	t := d.Time()
	if d.Year < minBirthYear || t.Month() != time.Month(d.Month) || t.Day() != d.Day || t.After(time.Now()) {
		return nil, false, fmt.Errorf("'%s' is not a valid date", d)
	}
	return d, false, nil
}

// Format renders a cleaned value for read-only display.
func (f Field) Format(v any) string {
	if v == nil {
		return ""
	}
	switch f.Kind {
	case KindChoice, KindYesNo:
		if s, ok := v.(string); ok {
			return f.choiceLabel(s)
		}
	case KindMultiChoice:
		if vals, ok := stringSlice(v); ok {
			labels := make([]string, len(vals))
			for i, s := range vals {
				labels[i] = f.choiceLabel(s)
			}
			return strings.Join(labels, ", ")
		}
	case KindMoney:
		if n, ok := toInt(v); ok {
			return fmt.Sprintf("$%d", n)
		}
	case KindPhone:
		if s, ok := v.(string); ok && len(s) == 10 {
			return fmt.Sprintf("(%s) %s-%s", s[:3], s[3:6], s[6:])
		}
	case KindDateTime:
		if t, ok := v.(time.Time); ok {
			return t.Format("1/2/2006")
		}
	case KindAddress:
		if a, ok := (Answers{f.Name: v}).Address(f.Name); ok {
			return a.String()
		}
	case KindDate:
		if d, ok := asDate(v); ok {
			return d.String()
		}
	}
	return fmt.Sprint(v)
}

func asDate(v any) (Date, bool) {
	switch d := v.(type) {
	case Date:
		return d, true
	case map[string]any:
		y, okY := toInt(d["year"])
		m, okM := toInt(d["month"])
		day, okD := toInt(d["day"])
		if okY && okM && okD {
			return Date{Year: y, Month: m, Day: day}, true
		}
	}
	return Date{}, false
}

func (f Field) choiceLabel(v string) string {
	for _, c := range f.Choices {
		if c.Value == v {
			return c.Label
		}
	}
	return v
}

// IsInput reports whether the applicant enters a value for this field.
func (f Field) IsInput() bool {
	return f.Kind != KindNote && f.Kind != KindDateTime
}

func stringSlice(v any) ([]string, bool) {
	switch vals := v.(type) {
	case []string:
		return vals, true
	case []any:
		out := make([]string, 0, len(vals))
		for _, x := range vals {
			s, ok := x.(string)
			if !ok {
				return nil, false
			}
			out = append(out, s)
		}
		return out, true
	}
	return nil, false
}

func toInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		return int(n), true
	}
	return 0, false
}
