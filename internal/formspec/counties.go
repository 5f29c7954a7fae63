package formspec

import (
	"github.com/dshills/intake/internal/county"
	F "github.com/dshills/intake/internal/field"
	"github.com/dshills/intake/internal/validate"
)

var (
	contactValidators = []validate.Validator{validate.GavePreferredContactMethods}
)

// supplementaryDisplay is added to every display form.
func supplementaryDisplay() *Spec {
	return &Spec{
		Name:   "supplementary_display",
		Always: true,
		Fields: set(F.DateReceived, F.Counties),
	}
}

// otherCounty collects enough to send applicants information on services in
// other counties or states.
func otherCounty() *Spec {
	return &Spec{
		Name:   "other",
		County: county.Other,
		Fields: set(
			F.ContactPreferences,
			F.FirstName,
			F.PhoneNumberField,
			F.EmailField,
			F.AddressField,
			F.HowDidYouHear,
		),
		Required:   set(F.ContactPreferences, F.FirstName),
		Optional:   set(F.HowDidYouHear),
		Validators: contactValidators,
	}
}

func sanFrancisco() *Spec {
	return &Spec{
		Name:   "sanfrancisco",
		County: county.SanFrancisco,
		Fields: set(
			F.ContactPreferences,
			F.FirstName,
			F.MiddleName,
			F.LastName,
			F.PhoneNumberField,
			F.EmailField,
			F.AddressField,
			F.DateOfBirthField,
			F.SocialSecurityNumberField,
			F.USCitizen,
			F.ServingSentence,
			F.OnProbationParole,
			F.WhereProbationParole,
			F.WhenProbationParole,
			F.BeingCharged,
			F.RAPOutsideSF,
			F.WhenWhereOutsideSF,
			F.FinancialScreeningNote,
			F.CurrentlyEmployed,
			F.MonthlyIncome,
			F.MonthlyExpenses,
			F.HowDidYouHear,
			F.AdditionalInformation,
			F.UnderstandsLimits,
			F.ConsentToRepresent,
			F.ConsentToCourtAppearance,
		),
		Required: set(
			F.FirstName,
			F.LastName,
			F.AddressField,
			F.UnderstandsLimits,
			F.ConsentToRepresent,
			F.ConsentToCourtAppearance,
		),
		Recommended: set(F.DateOfBirthField, F.SocialSecurityNumberField),
		Optional:    set(F.HowDidYouHear, F.MiddleName, F.AdditionalInformation),
		Validators:  contactValidators,
	}
}

func contraCosta() *Spec {
	return &Spec{
		Name:   "contracosta",
		County: county.ContraCosta,
		Fields: set(
			F.ContactPreferences,
			F.FirstName,
			F.MiddleName,
			F.LastName,
			F.PhoneNumberField,
			F.EmailField,
			F.AddressField,
			F.DateOfBirthField,
			F.USCitizen,
			F.ServingSentence,
			F.OnProbationParole,
			F.FinancialScreeningNote,
			F.CurrentlyEmployed,
			F.MonthlyIncome,
			F.IncomeSource,
			F.MonthlyExpenses,
			F.HowDidYouHear,
			F.UnderstandsLimits,
			F.ConsentToRepresent,
			F.AdditionalInformation,
			F.ConsentToCourtAppearance,
		),
		Required: set(
			F.FirstName,
			F.LastName,
			F.AddressField,
			F.USCitizen,
			F.CurrentlyEmployed,
			F.DateOfBirthField,
			F.MonthlyIncome,
			F.IncomeSource,
			F.MonthlyExpenses,
			F.ServingSentence,
			F.OnProbationParole,
			F.UnderstandsLimits,
			F.ConsentToRepresent,
			F.ConsentToCourtAppearance,
		),
		Optional:   set(F.HowDidYouHear, F.AdditionalInformation),
		Validators: contactValidators,
	}
}

func alameda() *Spec {
	return &Spec{
		Name:   "alameda",
		County: county.Alameda,
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
			F.HasSuspendedLicense,
			F.OwesCourtFees,
			F.RAPOutsideSF,
			F.WhenWhereOutsideSF,
			F.HowDidYouHear,
			F.AdditionalInformation,
			F.UnderstandsLimits,
			F.ConsentToRepresent,
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
			F.UnderstandsLimits,
			F.ConsentToRepresent,
			F.ConsentToCourtAppearance,
		),
		Optional:   set(F.AlternatePhoneNumberField, F.HowDidYouHear, F.AdditionalInformation),
		Validators: contactValidators,
	}
}

func monterey() *Spec {
	return &Spec{
		Name:   "monterey",
		County: county.Monterey,
		Fields: set(
			F.ContactPreferences,
			F.FirstName,
			F.MiddleName,
			F.LastName,
			F.PhoneNumberField,
			F.EmailField,
			F.AddressField,
			F.FinancialScreeningNote,
			F.MonthlyIncome,
			F.OnPublicBenefits,
			F.HouseholdSize,
			F.DateOfBirthField,
			F.USCitizen,
			F.IsVeteran,
			F.IsStudent,
			F.OnProbationParole,
			F.WhereProbationParole,
			F.WhenProbationParole,
			F.ServingSentence,
			F.BeingCharged,
			F.RAPOutsideSF,
			F.WhenWhereOutsideSF,
			F.HowDidYouHear,
			F.AdditionalInformation,
			F.UnderstandsLimits,
			F.ConsentToRepresent,
			F.ConsentToCourtAppearance,
		),
		Required: set(
			F.FirstName,
			F.LastName,
			F.AddressField,
			F.DateOfBirthField,
			F.MonthlyIncome,
			F.OnPublicBenefits,
			F.HouseholdSize,
			F.OnProbationParole,
			F.ServingSentence,
			F.BeingCharged,
			F.UnderstandsLimits,
			F.ConsentToRepresent,
			F.ConsentToCourtAppearance,
		),
		Optional:   set(F.HowDidYouHear, F.AdditionalInformation),
		Validators: contactValidators,
	}
}

func solano() *Spec {
	return &Spec{
		Name:   "solano",
		County: county.Solano,
		Fields: set(
			F.ContactPreferences,
			F.FirstName,
			F.MiddleName,
			F.LastName,
			F.PhoneNumberField,
			F.AlternatePhoneNumberField,
			F.EmailField,
			F.AddressField,
			F.DateOfBirthField,
			F.USCitizen,
			F.OnProbationParole,
			F.WhereProbationParole,
			F.WhenProbationParole,
			F.OwesCourtFees,
			F.ServingSentence,
			F.BeingCharged,
			F.RAPOutsideSF,
			F.WhenWhereOutsideSF,
			F.HowDidYouHear,
			F.AdditionalInformation,
			F.UnderstandsLimits,
			F.ConsentToRepresent,
			F.ConsentToCourtAppearance,
		),
		Required: set(
			F.FirstName,
			F.LastName,
			F.AddressField,
			F.DateOfBirthField,
			F.OnProbationParole,
			F.OwesCourtFees,
			F.ServingSentence,
			F.BeingCharged,
			F.UnderstandsLimits,
			F.ConsentToRepresent,
			F.ConsentToCourtAppearance,
		),
		Optional: set(
			F.MiddleName,
			F.AlternatePhoneNumberField,
			F.HowDidYouHear,
			F.AdditionalInformation,
		),
		Validators: []validate.Validator{
			validate.GavePreferredContactMethods,
			validate.AtLeastEmailOrPhone,
		},
	}
}

func sanDiego() *Spec {
	parent := solano()
	s := parent.derive("sandiego")
	s.County = county.SanDiego
	s.Fields = parent.Fields.Union(set(F.CaseNumber)).Minus(set(F.USCitizen))
	s.Optional = parent.Optional.Union(set(F.CaseNumber))
	s.Validators = []validate.Validator{
		validate.GavePreferredContactMethods,
		validate.AtLeastEmailOrPhone,
		validate.AtLeastAddressOrChoseNoMailingAddress,
	}
	return s
}

func sanJoaquin() *Spec {
	s := solano().derive("sanjoaquin")
	s.County = county.SanJoaquin
	s.Validators = contactValidators
	return s
}

func fresno() *Spec {
	parent := solano()
	s := parent.derive("fresno")
	s.County = county.Fresno
	s.Fields = parent.Fields.Union(set(
		F.Aliases,
		F.CaseNumber,
		F.ReasonsForApplying,
		F.FinancialScreeningNote,
		F.MonthlyIncome,
		F.HowManyDependents,
		F.LastFourOfSocial,
		F.DriverLicenseOrIDNumber,
	)).Minus(set(F.OwesCourtFees, F.RAPOutsideSF, F.WhenWhereOutsideSF))
	s.Optional = parent.Optional.Union(set(F.Aliases))
	s.Required = parent.Required.Minus(set(F.OwesCourtFees))
	s.Validators = contactValidators
	return s
}

func santaClara() *Spec {
	parent := solano()
	s := parent.derive("santaclara")
	s.County = county.SantaClara
	s.Fields = parent.Fields.Union(set(
		F.FinancialScreeningNote,
		F.CurrentlyEmployed,
		F.MonthlyIncome,
		F.IncomeSource,
		F.MonthlyExpenses,
		F.OnPublicBenefits,
		F.HouseholdSize,
		F.IsMarried,
		F.HasChildren,
		F.IsVeteran,
		F.ReducedProbation,
		F.ReasonsForApplying,
		F.PFNNumber,
		F.PreferredPronouns,
	)).Minus(set(F.USCitizen))
	s.Required = parent.Required.Union(set(
		F.CurrentlyEmployed,
		F.MonthlyIncome,
		F.IncomeSource,
		F.MonthlyExpenses,
		F.OnPublicBenefits,
		F.HouseholdSize,
	)).Minus(set(F.PhoneNumberField))
	s.Validators = []validate.Validator{
		validate.GavePreferredContactMethods,
		validate.AtLeastAddressOrChoseNoMailingAddress,
	}
	return s
}

func santaCruz() *Spec {
	parent := solano()
	s := parent.derive("santacruz")
	s.County = county.SantaCruz
	s.Fields = parent.Fields.Union(set(
		F.FinancialScreeningNote,
		F.MonthlyIncome,
		F.ReasonsForApplying,
	)).Minus(set(F.OwesCourtFees, F.RAPOutsideSF, F.WhenWhereOutsideSF))
	s.Required = parent.Required.Minus(set(F.OwesCourtFees))
	s.Validators = []validate.Validator{validate.AtLeastAddressOrChoseNoMailingAddress}
	return s
}

func sonoma() *Spec {
	s := solano().derive("sonoma")
	s.County = county.Sonoma
	s.Validators = []validate.Validator{
		validate.GavePreferredContactMethods,
		validate.AtLeastAddressOrChoseNoMailingAddress,
	}
	return s
}

func tulare() *Spec {
	s := solano().derive("tulare")
	s.County = county.Tulare
	s.Validators = contactValidators
	return s
}

func ventura() *Spec {
	return &Spec{
		Name:   "ventura",
		County: county.Ventura,
		Fields: set(
			F.ContactPreferences,
			F.FirstName,
			F.MiddleName,
			F.LastName,
			F.PhoneNumberField,
			F.AlternatePhoneNumberField,
			F.EmailField,
			F.AddressField,
			F.OwnsHome,
			F.FinancialScreeningNote,
			F.CurrentlyEmployed,
			F.MonthlyIncome,
			F.IncomeSource,
			F.OnPublicBenefits,
			F.MonthlyExpenses,
			F.HowManyDependents,
			F.IsVeteran,
			F.DateOfBirthField,
			F.LastFourOfSocial,
			F.DriverLicenseOrIDNumber,
			F.OnProbationParole,
			F.WhereProbationParole,
			F.OwesCourtFees,
			F.ServingSentence,
			F.BeingCharged,
			F.RAPOutsideSF,
			F.WhenWhereOutsideSF,
			F.CaseNumber,
			F.HowDidYouHear,
			F.AdditionalInformation,
			F.UnderstandsLimits,
			F.ConsentToRepresent,
			F.ConsentToCourtAppearance,
		),
		// household_size is not asked in Ventura; Combine clips it.
		Required: set(
			F.CurrentlyEmployed,
			F.MonthlyIncome,
			F.IncomeSource,
			F.MonthlyExpenses,
			F.OnPublicBenefits,
			F.HouseholdSize,
			F.DateOfBirthField,
			F.OnProbationParole,
			F.OwesCourtFees,
			F.ServingSentence,
			F.BeingCharged,
			F.UnderstandsLimits,
			F.ConsentToRepresent,
			F.ConsentToCourtAppearance,
		),
		Validators: []validate.Validator{
			validate.GavePreferredContactMethods,
			validate.AtLeastEmailOrPhone,
			validate.AtLeastAddressOrChoseNoMailingAddress,
		},
	}
}

// santaBarbara asks its own court appearance question instead of the
// shared consent.
func santaBarbara() *Spec {
	parent := ventura()
	s := parent.derive("santabarbara")
	s.County = county.SantaBarbara
	s.Fields = parent.Fields.Union(set(
		F.Aliases,
		F.ReasonsForApplying,
		F.IsMarried,
		F.WhenProbationParole,
		F.HouseholdSize,
		F.HasChildren,
		F.SantaBarbaraCourtAppearanceChoice,
	)).Minus(set(
		F.LastFourOfSocial,
		F.DriverLicenseOrIDNumber,
		F.IsVeteran,
		F.HowManyDependents,
		F.ConsentToCourtAppearance,
	))
	s.Required = set(F.IsMarried, F.HouseholdSize, F.SantaBarbaraCourtAppearanceChoice)
	return s
}

// InputSpecs returns the county intake specs.
func InputSpecs() []*Spec {
	return []*Spec{
		otherCounty(),
		sanFrancisco(),
		contraCosta(),
		alameda(),
		monterey(),
		solano(),
		sanDiego(),
		sanJoaquin(),
		santaClara(),
		santaCruz(),
		fresno(),
		sonoma(),
		tulare(),
		ventura(),
		santaBarbara(),
	}
}

// DisplaySpecs returns the county specs plus the supplementary display spec.
func DisplaySpecs() []*Spec {
	return append(InputSpecs(), supplementaryDisplay())
}
