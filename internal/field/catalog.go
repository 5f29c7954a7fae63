package field

import "github.com/dshills/intake/internal/county"

// Contact preference choice values.
const (
	PrefersSMS       = "prefers_sms"
	PrefersEmail     = "prefers_email"
	PrefersVoicemail = "prefers_voicemail"
	PrefersSnailmail = "prefers_snailmail"
)

// Yes / no choice values.
const (
	Yes = "yes"
	No  = "no"
)

var yesNo = []Choice{{Yes, "Yes"}, {No, "No"}}

// Contact and identity.
var (
	ContactPreferences = Field{
		Name:  "contact_preferences",
		Label: "How would you like us to contact you?",
		HelpText: "An attorney will need to contact you to follow up on your " +
			"application. Pick the ways that work best for you.",
		Kind: KindMultiChoice,
		Choices: []Choice{
			{PrefersSMS, "Text Message"},
			{PrefersEmail, "Email"},
			{PrefersVoicemail, "Voicemail"},
			{PrefersSnailmail, "Paper mail"},
		},
	}
	FirstName         = Field{Name: "first_name", Label: "What is your first name?", Kind: KindText}
	MiddleName        = Field{Name: "middle_name", Label: "What is your middle name?", Kind: KindText}
	LastName          = Field{Name: "last_name", Label: "What is your last name?", Kind: KindText}
	Aliases           = Field{Name: "aliases", Label: "Any other names that might be on your record?", Kind: KindText}
	PreferredPronouns = Field{Name: "preferred_pronouns", Label: "What are your preferred pronouns?", Kind: KindText}
	PhoneNumberField  = Field{
		Name:     "phone_number",
		Label:    "What is your phone number?",
		HelpText: "An attorney will need to call or text you to follow up.",
		Kind:     KindPhone,
	}
	AlternatePhoneNumberField = Field{
		Name:  "alternate_phone_number",
		Label: "Is there another phone number we can reach you at?",
		Kind:  KindPhone,
	}
	EmailField   = Field{Name: "email", Label: "What is your email?", Kind: KindEmail}
	AddressField = Field{
		Name:     "address",
		Label:    "What is your mailing address?",
		HelpText: "Attorneys may need to send you letters about your case.",
		Kind:     KindAddress,
	}
	DateOfBirthField          = Field{Name: "dob", Label: "What is your date of birth?", Kind: KindDate}
	SocialSecurityNumberField = Field{
		Name:     "ssn",
		Label:    "What is your Social Security Number?",
		HelpText: "The public defender's office will use this to get your record from the state.",
		Kind:     KindSSN,
	}
	LastFourOfSocial        = Field{Name: "last_four", Label: "What are the last 4 digits of your Social Security Number?", Kind: KindLastFour}
	DriverLicenseOrIDNumber = Field{Name: "driver_license_or_id", Label: "What is your California driver's license or ID number?", Kind: KindText}
	USCitizen               = Field{
		Name:     "us_citizen",
		Label:    "Are you a U.S. citizen?",
		HelpText: "It is important for your attorney to know if you are a citizen so they can protect you from immigration consequences.",
		Kind:     KindYesNo,
		Choices:  yesNo,
	}
	IsVeteran   = Field{Name: "is_veteran", Label: "Have you ever served in the armed forces?", Kind: KindYesNo, Choices: yesNo}
	IsStudent   = Field{Name: "is_student", Label: "Are you currently a student?", Kind: KindYesNo, Choices: yesNo}
	IsMarried   = Field{Name: "is_married", Label: "Are you married?", Kind: KindYesNo, Choices: yesNo}
	HasChildren = Field{Name: "has_children", Label: "Do you have children?", Kind: KindYesNo, Choices: yesNo}
)

// Criminal justice status.
var (
	ServingSentence   = Field{Name: "serving_sentence", Label: "Are you currently serving a sentence?", Kind: KindYesNo, Choices: yesNo}
	OnProbationParole = Field{Name: "on_probation_parole", Label: "Are you on probation or parole?", Kind: KindYesNo, Choices: yesNo}
	WhereProbationParole = Field{
		Name:  "where_probation_or_parole",
		Label: "Where is your probation or parole?",
		Kind:  KindText,
	}
	WhenProbationParole = Field{
		Name:  "when_probation_or_parole",
		Label: "When does your probation or parole end?",
		Kind:  KindText,
	}
	FinishedHalfProbation = Field{
		Name:    "finished_half_probation",
		Label:   "If you're on probation, have you finished half of your probation time?",
		Kind:    KindYesNo,
		Choices: yesNo,
	}
	ReducedProbation = Field{
		Name:    "reduced_probation",
		Label:   "If you're on probation, would you like to have your probation reduced?",
		Kind:    KindYesNo,
		Choices: yesNo,
	}
	BeingCharged = Field{Name: "being_charged", Label: "Are you currently being charged with a crime?", Kind: KindYesNo, Choices: yesNo}
	RAPOutsideSF = Field{
		Name:    "rap_outside_sf",
		Label:   "Have you ever been arrested or convicted outside of this county?",
		Kind:    KindYesNo,
		Choices: yesNo,
	}
	WhenWhereOutsideSF = Field{
		Name:  "when_where_outside_sf",
		Label: "If you were arrested or convicted in other counties, where and when?",
		Kind:  KindText,
	}
	HasSuspendedLicense = Field{Name: "has_suspended_license", Label: "Is your driver's license suspended?", Kind: KindYesNo, Choices: yesNo}
	OwesCourtFees       = Field{Name: "owes_court_fees", Label: "Do you owe any court fines or fees?", Kind: KindYesNo, Choices: yesNo}
	CaseNumber          = Field{
		Name:     "case_number",
		Label:    "What is your case number, if you know it?",
		HelpText: "This helps the attorney find your record faster.",
		Kind:     KindText,
	}
	PFNNumber = Field{
		Name:     "pfn_number",
		Label:    "What is your personal file number (PFN), if you know it?",
		HelpText: "This number is on any paperwork from the Santa Clara County jail.",
		Kind:     KindText,
	}
	ReasonsForApplying = Field{
		Name:  "reasons_for_applying",
		Label: "Why are you applying to clear your record?",
		Kind:  KindMultiChoice,
		Choices: []Choice{
			{"background_check", "I can't pass a background check"},
			{"lost_job", "I lost a job because of my record"},
			{"homeless", "I am homeless or need housing"},
			{"lost_housing", "I lost housing because of my record"},
			{"school", "I want to go back to school"},
			{"other", "Something else"},
		},
	}
)

// Finances.
var (
	FinancialScreeningNote = Field{
		Name:  "financial_screening_note",
		Label: "The Clean Slate program is free for you, but the public defender uses your information to get you other benefits.",
		Kind:  KindNote,
	}
	CurrentlyEmployed = Field{Name: "currently_employed", Label: "Are you currently employed?", Kind: KindYesNo, Choices: yesNo}
	MonthlyIncome     = Field{
		Name:     "monthly_income",
		Label:    "What is your monthly income?",
		HelpText: "Include money from any job, benefits, or anyone who supports you.",
		Kind:     KindMoney,
	}
	IncomeSource    = Field{Name: "income_source", Label: "Where does your income come from?", Kind: KindText}
	MonthlyExpenses = Field{
		Name:  "monthly_expenses",
		Label: "How much do you spend each month on things like rent, groceries, utilities, medical expenses, or childcare expenses?",
		Kind:  KindMoney,
	}
	OnPublicBenefits = Field{
		Name:     "on_public_benefits",
		Label:    "Are you on any government benefits?",
		HelpText: "Such as CalFresh, Medi-Cal, SSI, SSDI, or General Assistance.",
		Kind:     KindYesNo,
		Choices:  yesNo,
	}
	OwnsHome          = Field{Name: "owns_home", Label: "Do you own your home?", Kind: KindYesNo, Choices: yesNo}
	HouseholdSize     = Field{Name: "household_size", Label: "How many people live with you?", Kind: KindInteger}
	HowManyDependents = Field{Name: "dependents", Label: "How many people depend on you financially?", Kind: KindInteger}
)

// Closing questions and consents.
var (
	HowDidYouHear         = Field{Name: "how_did_you_hear", Label: "How did you hear about this program or website?", Kind: KindText}
	AdditionalInformation = Field{Name: "additional_information", Label: "Is there anything else you want to say?", Kind: KindTextArea}
	UnderstandsLimits     = Field{
		Name:  "understands_limits",
		Label: "This application does not guarantee that you will be helped or represented by an attorney.",
		Kind:  KindConsent,
	}
	ConsentToRepresent = Field{
		Name:  "consent_to_represent",
		Label: "Do you agree to let the public defender's office represent you for the purpose of clearing your record?",
		Kind:  KindConsent,
	}
	ConsentToCourtAppearance = Field{
		Name:  "consent_to_court",
		Label: defaultCourtAppearanceLabel,
		Kind:  KindConsent,
	}
	SantaBarbaraCourtAppearanceChoice = Field{
		Name:  "santa_barbara_court_appearance",
		Label: "In Santa Barbara County, you may need to attend court in person. Will you be able to attend?",
		Kind:  KindChoice,
		Choices: []Choice{
			{"yes", "Yes, I can attend court"},
			{"no", "No, I cannot attend court"},
			{"not_sure", "I'm not sure"},
		},
	}
)

// Declaration letter.
var (
	DeclarationLetterNote = Field{
		Name:  "declaration_letter_note",
		Label: "The judge will read this letter when deciding whether to clear your record.",
		Kind:  KindNote,
	}
	DeclarationLetterIntro = Field{
		Name:  "declaration_letter_intro",
		Label: "Introduce yourself.",
		Kind:  KindTextArea,
	}
	DeclarationLetterLifeChanges = Field{
		Name:  "declaration_letter_life_changes",
		Label: "How has your life changed since your conviction?",
		Kind:  KindTextArea,
	}
	DeclarationLetterActivities = Field{
		Name:  "declaration_letter_activities",
		Label: "What are you doing now, such as work, school, or volunteering?",
		Kind:  KindTextArea,
	}
	DeclarationLetterGoals = Field{
		Name:  "declaration_letter_goals",
		Label: "What are your goals?",
		Kind:  KindTextArea,
	}
	DeclarationLetterWhy = Field{
		Name:  "declaration_letter_why",
		Label: "Why do you want to clear your record?",
		Kind:  KindTextArea,
	}
	DeclarationLetterReviewActions = Field{
		Name:  "declaration_letter_review_actions",
		Label: "How does this letter look?",
		Kind:  KindChoice,
		Choices: []Choice{
			{ApproveLetter, "Looks good"},
			{EditLetter, "I want to edit it"},
		},
	}
)

// Declaration letter review choices.
const (
	ApproveLetter = "approve_letter"
	EditLetter    = "edit_letter"
)

// County selection and display-only fields.
var (
	Counties = Field{
		Name:    "counties",
		Label:   "Which counties were you arrested or convicted in?",
		Kind:    KindMultiChoice,
		Choices: countyChoices(),
	}
	AffirmCountySelection = Field{
		Name:  "confirm_county_selection",
		Label: "I understand that this service can only help with records in the counties I selected.",
		Kind:  KindConsent,
	}
	DateReceived = Field{Name: "date_received", Label: "Date received", Kind: KindDateTime}
)

func countyChoices() []Choice {
	all := county.All()
	out := make([]Choice, len(all))
	for i, c := range all {
		out[i] = Choice{Value: string(c), Label: c.DisplayName()}
	}
	return out
}

// Catalog lists every field in the order forms present them.
var Catalog = []Field{
	DateReceived,
	Counties,
	AffirmCountySelection,
	ContactPreferences,
	FirstName,
	MiddleName,
	LastName,
	Aliases,
	PreferredPronouns,
	PhoneNumberField,
	AlternatePhoneNumberField,
	EmailField,
	AddressField,
	DateOfBirthField,
	SocialSecurityNumberField,
	LastFourOfSocial,
	DriverLicenseOrIDNumber,
	USCitizen,
	IsVeteran,
	IsStudent,
	IsMarried,
	HasChildren,
	ReasonsForApplying,
	ServingSentence,
	OnProbationParole,
	WhereProbationParole,
	WhenProbationParole,
	FinishedHalfProbation,
	ReducedProbation,
	BeingCharged,
	RAPOutsideSF,
	WhenWhereOutsideSF,
	HasSuspendedLicense,
	OwesCourtFees,
	CaseNumber,
	PFNNumber,
	FinancialScreeningNote,
	CurrentlyEmployed,
	MonthlyIncome,
	IncomeSource,
	MonthlyExpenses,
	OnPublicBenefits,
	OwnsHome,
	HouseholdSize,
	HowManyDependents,
	HowDidYouHear,
	AdditionalInformation,
	UnderstandsLimits,
	ConsentToRepresent,
	ConsentToCourtAppearance,
	SantaBarbaraCourtAppearanceChoice,
	DeclarationLetterNote,
	DeclarationLetterIntro,
	DeclarationLetterLifeChanges,
	DeclarationLetterActivities,
	DeclarationLetterGoals,
	DeclarationLetterWhy,
	DeclarationLetterReviewActions,
}

var catalogIndex = indexCatalog(Catalog)

func indexCatalog(fs []Field) map[string]int {
	idx := make(map[string]int, len(fs))
	for i, f := range fs {
		idx[f.Name] = i
	}
	return idx
}

func position(name string) int {
	if i, ok := catalogIndex[name]; ok {
		return i
	}
	return len(catalogIndex)
}

// Lookup returns the catalog field named name.
func Lookup(name string) (Field, bool) {
	i, ok := catalogIndex[name]
	if !ok {
		return Field{}, false
	}
	return Catalog[i], true
}
