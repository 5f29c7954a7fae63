package field

import (
	"net/url"
	"strings"
	"testing"
)

func TestClean_Blank(t *testing.T) {
	for _, f := range []Field{FirstName, MonthlyIncome, PhoneNumberField, AddressField, DateOfBirthField, ContactPreferences} {
		v, empty, err := f.Clean(url.Values{})
		if err != nil || !empty || v != nil {
			t.Errorf("%s: expected blank, got value=%v empty=%v err=%v", f.Name, v, empty, err)
		}
	}
}

func TestClean_Text(t *testing.T) {
	v, empty, err := FirstName.Clean(url.Values{"first_name": {"  Ana  "}})
	if err != nil || empty {
		t.Fatalf("unexpected: empty=%v err=%v", empty, err)
	}
	if v != "Ana" {
		t.Errorf("expected trimmed value, got %q", v)
	}
}

func TestClean_Phone(t *testing.T) {
	cases := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"(415) 555-1234", "4155551234", false},
		{"1-415-555-1234", "4155551234", false},
		{"555-1234", "", true},
	}
	for _, tc := range cases {
		v, _, err := PhoneNumberField.Clean(url.Values{"phone_number": {tc.in}})
		if tc.wantErr {
			if err == nil {
				t.Errorf("%q: expected error", tc.in)
			}
			continue
		}
		if err != nil {
			t.Errorf("%q: %v", tc.in, err)
			continue
		}
		if v != tc.want {
			t.Errorf("%q: got %v want %s", tc.in, v, tc.want)
		}
	}
}

func TestClean_Email(t *testing.T) {
	if _, _, err := EmailField.Clean(url.Values{"email": {"someone@example.com"}}); err != nil {
		t.Errorf("valid email rejected: %v", err)
	}
	if _, _, err := EmailField.Clean(url.Values{"email": {"not an email"}}); err == nil {
		t.Error("expected error for invalid email")
	}
}

func TestClean_Money(t *testing.T) {
	v, _, err := MonthlyIncome.Clean(url.Values{"monthly_income": {"$1,200.50"}})
	if err != nil {
		t.Fatalf("Clean: %v", err)
	}
	if v != 1200 {
		t.Errorf("expected 1200, got %v", v)
	}
	_, _, err = MonthlyIncome.Clean(url.Values{"monthly_income": {"lots"}})
	if err == nil || !strings.Contains(err.Error(), "dollar amount") {
		t.Errorf("expected dollar amount error, got %v", err)
	}
}

func TestClean_Choice(t *testing.T) {
	if _, _, err := USCitizen.Clean(url.Values{"us_citizen": {"yes"}}); err != nil {
		t.Errorf("yes rejected: %v", err)
	}
	if _, _, err := USCitizen.Clean(url.Values{"us_citizen": {"maybe"}}); err == nil {
		t.Error("expected invalid choice error")
	}
}

func TestClean_MultiChoice(t *testing.T) {
	v, _, err := ContactPreferences.Clean(url.Values{"contact_preferences": {"prefers_sms", "prefers_email,prefers_sms"}})
	if err != nil {
		t.Fatalf("Clean: %v", err)
	}
	got := v.([]string)
	if len(got) != 2 || got[0] != PrefersSMS || got[1] != PrefersEmail {
		t.Errorf("unexpected preferences %v", got)
	}
}

func TestClean_Consent(t *testing.T) {
	v, _, err := ConsentToRepresent.Clean(url.Values{"consent_to_represent": {"on"}})
	if err != nil || v != "yes" {
		t.Errorf("expected yes, got %v %v", v, err)
	}
	if _, _, err := ConsentToRepresent.Clean(url.Values{"consent_to_represent": {"no"}}); err == nil {
		t.Error("expected error for declined consent")
	}
}

func TestClean_Address(t *testing.T) {
	vals := url.Values{
		"address.street": {"1 Main St"},
		"address.city":   {"Oakland"},
		"address.state":  {"ca"},
		"address.zip":    {"94612"},
	}
	v, _, err := AddressField.Clean(vals)
	if err != nil {
		t.Fatalf("Clean: %v", err)
	}
	a := v.(Address)
	if a.State != "CA" {
		t.Errorf("state not normalized: %q", a.State)
	}

	vals.Del("address.city")
	if _, _, err := AddressField.Clean(vals); err == nil {
		t.Error("expected error for incomplete address")
	}
}

func TestClean_AddressNoMailingCheckbox(t *testing.T) {
	vals := url.Values{"address.no_mailing_address": {"yes"}}

	_, empty, _ := AddressField.Clean(vals)
	if !empty {
		t.Error("checkbox should be ignored when the field does not offer it")
	}

	v, empty, err := AddressFieldWith(true).Clean(vals)
	if err != nil || empty {
		t.Fatalf("unexpected: empty=%v err=%v", empty, err)
	}
	if !v.(Address).NoMailingAddress {
		t.Error("expected NoMailingAddress to be set")
	}
}

func TestClean_Date(t *testing.T) {
	v, _, err := DateOfBirthField.Clean(url.Values{"dob.month": {"2"}, "dob.day": {"28"}, "dob.year": {"1980"}})
	if err != nil {
		t.Fatalf("Clean: %v", err)
	}
	if v.(Date).String() != "2/28/1980" {
		t.Errorf("unexpected date %v", v)
	}
	if _, _, err := DateOfBirthField.Clean(url.Values{"dob.month": {"2"}, "dob.day": {"30"}, "dob.year": {"1980"}}); err == nil {
		t.Error("expected error for Feb 30")
	}
}

func TestFormat(t *testing.T) {
	if got := PhoneNumberField.Format("4155551234"); got != "(415) 555-1234" {
		t.Errorf("phone format: %q", got)
	}
	if got := MonthlyIncome.Format(900); got != "$900" {
		t.Errorf("money format: %q", got)
	}
	if got := ContactPreferences.Format([]string{PrefersSMS, PrefersEmail}); got != "Text Message, Email" {
		t.Errorf("multichoice format: %q", got)
	}
	if got := USCitizen.Format("no"); got != "No" {
		t.Errorf("choice format: %q", got)
	}
}

func TestConsentToCourtAppearanceFor(t *testing.T) {
	f := ConsentToCourtAppearanceFor("Fresno County and Solano County")
	want := "In Fresno County and Solano County, do you understand that attorneys need to attend court on your behalf, even if you aren't there?"
	if f.Label != want {
		t.Errorf("got %q", f.Label)
	}
	if ConsentToCourtAppearance.Label != defaultCourtAppearanceLabel {
		t.Error("catalog entry must not be modified")
	}
	if got := ConsentToCourtAppearanceFor("").Label; got != defaultCourtAppearanceLabel {
		t.Errorf("expected generic label, got %q", got)
	}
}

func TestLookup(t *testing.T) {
	f, ok := Lookup("first_name")
	if !ok || f.Label != FirstName.Label {
		t.Errorf("Lookup(first_name) = %v, %v", f, ok)
	}
	if _, ok := Lookup("favorite_color"); ok {
		t.Error("expected unknown field to be missing")
	}
}

func TestCatalog_UniqueNames(t *testing.T) {
	seen := map[string]bool{}
	for _, f := range Catalog {
		if seen[f.Name] {
			t.Errorf("duplicate field name %q", f.Name)
		}
		seen[f.Name] = true
	}
}
