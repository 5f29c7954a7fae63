package validate

import (
	"fmt"

	"github.com/dshills/intake/internal/field"
)

// NonField is the error key for problems not tied to a single field.
const NonField = "__all__"

// Errors maps a field name (or NonField) to messages.
type Errors map[string][]string

// Add appends msg under key.
func (e Errors) Add(key, msg string) { e[key] = append(e[key], msg) }

// Validator is a named form-level check run after every field has cleaned.
type Validator struct {
	Name  string
	Check func(field.Answers) Errors
}

// Run executes each validator in order and merges their errors.
func Run(validators []Validator, answers field.Answers) Errors {
	out := Errors{}
	for _, v := range validators {
		for k, msgs := range v.Check(answers) {
			out[k] = append(out[k], msgs...)
		}
	}
	return out
}

// Merge returns the ordered union of the lists by validator name, keeping the
// first occurrence of each.
func Merge(lists ...[]Validator) []Validator {
	seen := map[string]bool{}
	var out []Validator
	for _, l := range lists {
		for _, v := range l {
			if seen[v.Name] {
				continue
			}
			seen[v.Name] = true
			out = append(out, v)
		}
	}
	return out
}

// Names returns validator names in order.
func Names(vs []Validator) []string {
	out := make([]string, len(vs))
	for i, v := range vs {
		out[i] = v.Name
	}
	return out
}

var contactMethods = []struct {
	pref   string
	method string
	key    string
	noun   string
}{
	{field.PrefersSMS, "text message", field.PhoneNumberField.Name, "a phone number"},
	{field.PrefersVoicemail, "voicemail", field.PhoneNumberField.Name, "a phone number"},
	{field.PrefersEmail, "email", field.EmailField.Name, "an email"},
	{field.PrefersSnailmail, "paper mail", field.AddressField.Name, "an address"},
}

// GavePreferredContactMethods requires contact details for every method the
// applicant said they prefer.
var GavePreferredContactMethods = Validator{
	Name: "gave_preferred_contact_methods",
	Check: func(a field.Answers) Errors {
		errs := Errors{}
		for _, m := range contactMethods {
			if !a.Contains(field.ContactPreferences.Name, m.pref) {
				continue
			}
			if m.key == field.AddressField.Name {
				if addr, ok := a.Address(m.key); ok && !addr.IsEmpty() {
					continue
				}
			} else if a.Has(m.key) {
				continue
			}
			errs.Add(m.key, fmt.Sprintf("You said you wanted to be contacted by %s, but you didn't give %s.", m.method, m.noun))
		}
		return errs
	},
}

// AtLeastEmailOrPhone requires one way of reaching the applicant electronically.
var AtLeastEmailOrPhone = Validator{
	Name: "at_least_email_or_phone",
	Check: func(a field.Answers) Errors {
		errs := Errors{}
		if !a.Has(field.EmailField.Name) && !a.Has(field.PhoneNumberField.Name) {
			errs.Add(NonField, "Please provide a phone number or an email address so an attorney can reach you.")
		}
		return errs
	},
}

// AtLeastAddressOrChoseNoMailingAddress requires an address unless the applicant
// checked the "no stable mailing address" box.
var AtLeastAddressOrChoseNoMailingAddress = Validator{
	Name: "at_least_address_or_chose_no_mailing_address",
	Check: func(a field.Answers) Errors {
		errs := Errors{}
		addr, ok := a.Address(field.AddressField.Name)
		if ok && (!addr.IsEmpty() || addr.NoMailingAddress) {
			return errs
		}
		errs.Add(field.AddressField.Name, "Please enter an address, or check the box if you don't have a stable mailing address.")
		return errs
	},
}
