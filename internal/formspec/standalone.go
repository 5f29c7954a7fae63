package formspec

import (
	F "github.com/dshills/intake/internal/field"
	"github.com/dshills/intake/internal/form"
)

func declarationLetter() *Spec {
	return &Spec{
		Name:   "declaration_letter",
		Always: true,
		Fields: set(
			F.DeclarationLetterNote,
			F.DeclarationLetterIntro,
			F.DeclarationLetterLifeChanges,
			F.DeclarationLetterActivities,
			F.DeclarationLetterGoals,
			F.DeclarationLetterWhy,
		),
		Required: set(
			F.DeclarationLetterIntro,
			F.DeclarationLetterLifeChanges,
			F.DeclarationLetterActivities,
			F.DeclarationLetterGoals,
			F.DeclarationLetterWhy,
		),
	}
}

// DeclarationLetter is the form applicants use to write a letter to the judge.
func DeclarationLetter() *form.Definition {
	return declarationLetter().Definition(Criteria{})
}

// DeclarationLetterDisplay lists the fields shown when staff read a letter,
// in display order.
func DeclarationLetterDisplay() *form.Definition {
	return &form.Definition{
		Name: "declaration_letter_display",
		Fields: []F.Field{
			F.DateReceived,
			F.DeclarationLetterIntro,
			F.DeclarationLetterLifeChanges,
			F.DeclarationLetterActivities,
			F.DeclarationLetterGoals,
			F.DeclarationLetterWhy,
			F.FirstName,
			F.MiddleName,
			F.LastName,
		},
	}
}

// DeclarationLetterReview asks the applicant to approve or edit their letter.
func DeclarationLetterReview() *form.Definition {
	return &form.Definition{
		Name:     "declaration_letter_review",
		Fields:   []F.Field{F.DeclarationLetterReviewActions},
		Required: set(F.DeclarationLetterReviewActions),
	}
}

// SelectCounty is the first page of the application.
func SelectCounty() *form.Definition {
	return &form.Definition{
		Name:     "select_county",
		Fields:   []F.Field{F.Counties, F.AffirmCountySelection},
		Required: set(F.Counties, F.AffirmCountySelection),
	}
}
