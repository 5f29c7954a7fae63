package formspec

import (
	"errors"
	"strings"
	"testing"

	"github.com/dshills/intake/internal/county"
	"github.com/dshills/intake/internal/field"
	"github.com/dshills/intake/internal/form"
	"github.com/dshills/intake/internal/validate"
)

func combined(t *testing.T, counties ...county.County) *form.Definition {
	t.Helper()
	def, err := NewCountySelector(0).Combined(Criteria{Counties: counties})
	if err != nil {
		t.Fatalf("Combined(%v): %v", counties, err)
	}
	return def
}

func TestCombined_Validators(t *testing.T) {
	def := combined(t, county.SanFrancisco, county.ContraCosta)
	names := validate.Names(def.Validators)
	if len(names) != 1 || names[0] != "gave_preferred_contact_methods" {
		t.Errorf("expected only gave_preferred_contact_methods, got %v", names)
	}
}

func TestCombined_ValidatorsUnionInOrder(t *testing.T) {
	def := combined(t, county.SanFrancisco, county.SanDiego, county.SantaCruz)
	names := validate.Names(def.Validators)
	want := []string{
		"gave_preferred_contact_methods",
		"at_least_email_or_phone",
		"at_least_address_or_chose_no_mailing_address",
	}
	if len(names) != len(want) {
		t.Fatalf("expected %v, got %v", want, names)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("index %d: expected %s, got %s", i, want[i], names[i])
		}
	}
}

func TestCombined_OptionalFields(t *testing.T) {
	def := combined(t, county.SanFrancisco, county.ContraCosta)
	want := field.NewSet(field.HowDidYouHear, field.AdditionalInformation)
	if !def.Optional.Equal(want) {
		t.Errorf("expected optional %v, got %v", want.Names(), def.Optional.Names())
	}
}

func TestCombined_RequiredIsUnion(t *testing.T) {
	def := combined(t, county.SanFrancisco, county.ContraCosta)
	for _, name := range []string{"first_name", "address", "us_citizen", "monthly_income", "consent_to_court"} {
		if !def.IsRequired(name) {
			t.Errorf("expected %s to be required", name)
		}
	}
	// SF recommends dob, but Contra Costa requires it.
	if def.IsRecommended("dob") {
		t.Error("required fields must not also be recommended")
	}
	if !def.IsRecommended("ssn") {
		t.Error("expected ssn to stay recommended")
	}
}

func TestCombined_SubsetsWithinFields(t *testing.T) {
	for _, spec := range InputSpecs() {
		def, err := NewCountySelector(0).Combined(Criteria{Counties: []county.County{spec.County}})
		if err != nil {
			t.Fatalf("%s: %v", spec.Name, err)
		}
		for _, sub := range []field.Set{def.Required, def.Recommended, def.Optional} {
			for _, name := range sub.Names() {
				if !def.Has(name) {
					t.Errorf("%s: %s is in a subset but not a field", spec.Name, name)
				}
			}
		}
	}
}

func TestCombined_VenturaClipsHouseholdSize(t *testing.T) {
	def := combined(t, county.Ventura)
	if def.Has("household_size") || def.IsRequired("household_size") {
		t.Error("Ventura does not ask household size")
	}
}

func TestCombined_ConsentLabelListsCounties(t *testing.T) {
	def := combined(t, county.ContraCosta, county.Fresno, county.SanDiego, county.SanFrancisco)
	f, ok := def.Field("consent_to_court")
	if !ok {
		t.Fatal("expected consent_to_court field")
	}
	want := "In Contra Costa County, Fresno County, San Diego County, " +
		"and San Francisco County, do you understand that attorneys " +
		"need to attend court on your behalf, even if you aren't there?"
	if f.Label != want {
		t.Errorf("label mismatch:\ngot:  %q\nwant: %q", f.Label, want)
	}
}

func TestCombined_ConsentLabelExcludesSantaBarbara(t *testing.T) {
	def := combined(t, county.SantaBarbara, county.SanFrancisco, county.ContraCosta)
	f, ok := def.Field("consent_to_court")
	if !ok {
		t.Fatal("expected consent_to_court field")
	}
	want := "In San Francisco County and Contra Costa County, " +
		"do you understand that attorneys need to attend " +
		"court on your behalf, even if you aren't there?"
	if f.Label != want {
		t.Errorf("label mismatch:\ngot:  %q\nwant: %q", f.Label, want)
	}
}

func TestCombined_ConsentLabelExcludesOther(t *testing.T) {
	def := combined(t, county.Other, county.SanFrancisco, county.ContraCosta)
	f, ok := def.Field("consent_to_court")
	if !ok {
		t.Fatal("expected consent_to_court field")
	}
	if strings.Contains(f.Label, "Other County") {
		t.Errorf("label should not name the Other placeholder: %q", f.Label)
	}
	if !strings.HasPrefix(f.Label, "In San Francisco County and Contra Costa County, ") {
		t.Errorf("unexpected label %q", f.Label)
	}
}

func TestCombined_DoesNotModifyCatalog(t *testing.T) {
	combined(t, county.Fresno, county.Solano)
	if field.ConsentToCourtAppearance.Label != field.ConsentToCourtAppearanceFor("").Label {
		t.Errorf("catalog label was modified: %q", field.ConsentToCourtAppearance.Label)
	}
	if field.AddressField.NoMailingAddress {
		t.Error("catalog address field was modified")
	}
}

func TestCombined_SantaBarbaraOwnCourtQuestion(t *testing.T) {
	def := combined(t, county.SantaBarbara)
	if def.Has("consent_to_court") {
		t.Error("Santa Barbara should not ask the shared court consent")
	}
	if !def.IsRequired("santa_barbara_court_appearance") {
		t.Error("expected Santa Barbara court question to be required")
	}
}

func TestCombined_MailingAddressCheckboxAbsentIfAddressRequired(t *testing.T) {
	def := combined(t, county.SantaBarbara, county.SanFrancisco, county.ContraCosta)
	f, _ := def.Field("address")
	if f.NoMailingAddress {
		t.Error("checkbox must be absent when a selected county requires an address")
	}
	req, _ := def.Required.Get("address")
	if req.NoMailingAddress {
		t.Error("required set should carry the same address variant")
	}
}

func TestCombined_MailingAddressCheckboxPresentIfNoCountyRequiresAddress(t *testing.T) {
	def := combined(t, county.SantaClara, county.SanDiego)
	f, _ := def.Field("address")
	if !f.NoMailingAddress {
		t.Error("checkbox should be offered when no county requires an address")
	}
}

func TestCombined_CacheReturnsSameDefinition(t *testing.T) {
	sel := NewCountySelector(0)
	c := Criteria{Counties: []county.County{county.Fresno, county.Tulare}}
	a, err := sel.Combined(c)
	if err != nil {
		t.Fatal(err)
	}
	b, err := sel.Combined(c)
	if err != nil {
		t.Fatal(err)
	}
	if a != b {
		t.Error("expected cached definition on second call")
	}
	reordered, err := sel.Combined(Criteria{Counties: []county.County{county.Tulare, county.Fresno}})
	if err != nil {
		t.Fatal(err)
	}
	if reordered == a {
		t.Error("selection order changes labels and must not share a cache entry")
	}
}

func TestCombined_NoMatch(t *testing.T) {
	_, err := NewCountySelector(0).Combined(Criteria{})
	if !errors.Is(err, ErrNoMatchingSpec) {
		t.Errorf("expected ErrNoMatchingSpec, got %v", err)
	}
	_, err = NewDisplaySelector(0).Combined(Criteria{})
	if !errors.Is(err, ErrNoMatchingSpec) {
		t.Errorf("display selector should not match on the supplementary spec alone, got %v", err)
	}
}

func TestDisplaySelector_AddsSupplementaryFields(t *testing.T) {
	def, err := NewDisplaySelector(0).Combined(Criteria{Counties: []county.County{county.Alameda}})
	if err != nil {
		t.Fatal(err)
	}
	if !def.Has("date_received") || !def.Has("counties") {
		t.Error("display form should include date received and counties")
	}
	if def.Fields[0].Name != "date_received" {
		t.Errorf("expected date_received first, got %s", def.Fields[0].Name)
	}
}

func TestOrganizationSelector(t *testing.T) {
	sel := NewOrganizationSelector(0)
	def, err := sel.Combined(Criteria{Organizations: []county.Organization{county.AlamedaPubDef, county.EBCLC}})
	if err != nil {
		t.Fatal(err)
	}
	if !def.Has("preferred_pronouns") || !def.Has("has_suspended_license") {
		t.Error("expected EBCLC fields in combined organization form")
	}
	if !def.IsRequired("on_public_benefits") {
		t.Error("EBCLC requires on_public_benefits")
	}
	if len(def.Validators) != 0 {
		t.Errorf("organization specs declare no validators, got %v", validate.Names(def.Validators))
	}
	if _, err := sel.Combined(Criteria{Counties: []county.County{county.Alameda}}); !errors.Is(err, ErrNoMatchingSpec) {
		t.Errorf("counties should not match organization specs, got %v", err)
	}
}

func TestDerivedSpecs(t *testing.T) {
	fr := fresno()
	if fr.Fields.Has("owes_court_fees") || fr.Required.Has("owes_court_fees") {
		t.Error("Fresno drops owes_court_fees")
	}
	if !fr.Fields.Has("last_four") || !fr.Optional.Has("aliases") {
		t.Error("Fresno adds last_four and optional aliases")
	}
	sd := sanDiego()
	if sd.Fields.Has("us_citizen") || !sd.Optional.Has("case_number") {
		t.Error("San Diego drops us_citizen and adds optional case_number")
	}
	sc := santaClara()
	if !sc.Required.Has("household_size") || sc.Fields.Has("us_citizen") {
		t.Error("Santa Clara requires household size and drops us_citizen")
	}
	if !solano().Fields.Has("us_citizen") {
		t.Error("deriving must not change the parent")
	}
}

func TestInputSpecs_CoverEveryCounty(t *testing.T) {
	seen := map[county.County]bool{}
	for _, s := range InputSpecs() {
		if seen[s.County] {
			t.Errorf("duplicate spec for %s", s.County)
		}
		seen[s.County] = true
	}
	for _, c := range county.All() {
		if !seen[c] {
			t.Errorf("no spec for %s", c)
		}
	}
}

func TestStandaloneForms(t *testing.T) {
	if got := len(DeclarationLetter().Required.Names()); got != 5 {
		t.Errorf("declaration letter: expected 5 required fields, got %d", got)
	}
	if !SelectCounty().IsRequired("confirm_county_selection") {
		t.Error("select county requires the affirmation")
	}
	if DeclarationLetterDisplay().Fields[0].Name != "date_received" {
		t.Error("declaration display starts with date received")
	}
	if !DeclarationLetterReview().IsRequired("declaration_letter_review_actions") {
		t.Error("review action is required")
	}
}
