package formspec

import (
	"github.com/dshills/intake/internal/county"
	F "github.com/dshills/intake/internal/field"
)

func alamedaPublicDefender() *Spec {
	return &Spec{
		Name:         "a_pubdef",
		Organization: county.AlamedaPubDef,
		Fields: set(
			F.ContactPreferences,
			F.FirstName,
			F.MiddleName,
			F.LastName,
			F.PhoneNumberField,
			F.AlternatePhoneNumberField,
			F.EmailField,
			F.AddressField,
			F.FinancialScreeningNote,
			F.MonthlyIncome,
			F.OwnsHome,
			F.HouseholdSize,
			F.DateOfBirthField,
			F.USCitizen,
			F.OnProbationParole,
			F.FinishedHalfProbation,
			F.ReducedProbation,
			F.ServingSentence,
			F.BeingCharged,
			F.HowDidYouHear,
			F.AdditionalInformation,
			F.ConsentToCourtAppearance,
		),
		Required: set(
			F.FirstName,
			F.LastName,
			F.AddressField,
			F.DateOfBirthField,
			F.MonthlyIncome,
			F.OwnsHome,
			F.HouseholdSize,
			F.OnProbationParole,
			F.FinishedHalfProbation,
			F.ReducedProbation,
			F.ServingSentence,
			F.BeingCharged,
			F.ConsentToCourtAppearance,
		),
		Optional: set(F.AlternatePhoneNumberField, F.HowDidYouHear, F.AdditionalInformation),
	}
}

func ebclcIntake() *Spec {
	return &Spec{
		Name:         "ebclc",
		Organization: county.EBCLC,
		Fields: set(
			F.ContactPreferences,
			F.FirstName,
			F.MiddleName,
			F.LastName,
			F.PreferredPronouns,
			F.PhoneNumberField,
			F.AlternatePhoneNumberField,
			F.EmailField,
			F.AddressField,
			F.FinancialScreeningNote,
			F.MonthlyIncome,
			F.OnPublicBenefits,
			F.OwnsHome,
			F.HouseholdSize,
			F.DateOfBirthField,
			F.USCitizen,
			F.OnProbationParole,
			F.FinishedHalfProbation,
			F.ReducedProbation,
			F.ServingSentence,
			F.BeingCharged,
			F.RAPOutsideSF,
			F.WhenWhereOutsideSF,
			F.HasSuspendedLicense,
			F.OwesCourtFees,
			F.HowDidYouHear,
			F.AdditionalInformation,
			F.ConsentToCourtAppearance,
		),
		Required: set(
			F.FirstName,
			F.LastName,
			F.AddressField,
			F.DateOfBirthField,
			F.MonthlyIncome,
			F.OnPublicBenefits,
			F.OwnsHome,
			F.HouseholdSize,
			F.OnProbationParole,
			F.FinishedHalfProbation,
			F.ReducedProbation,
			F.ServingSentence,
			F.BeingCharged,
			F.ConsentToCourtAppearance,
		),
		Optional: set(F.AlternatePhoneNumberField, F.HowDidYouHear, F.AdditionalInformation),
	}
}

// OrgSpecs returns the organization intake specs.
func OrgSpecs() []*Spec {
	return []*Spec{
		alamedaPublicDefender(),
		ebclcIntake(),
	}
}
