package field

import "fmt"

const defaultCourtAppearanceLabel = "Do you understand that attorneys need to attend court on your behalf, even if you aren't there?"

// ConsentToCourtAppearanceFor returns the court appearance consent naming
// the given counties, e.g. "In Fresno County and Solano County, do you ...".
// An empty names string yields the generic question.
func ConsentToCourtAppearanceFor(names string) Field {
	f := ConsentToCourtAppearance
	if names == "" {
		f.Label = defaultCourtAppearanceLabel
		return f
	}
	f.Label = fmt.Sprintf("In %s, do you understand that attorneys need to attend court on your behalf, even if you aren't there?", names)
	return f
}

// AddressFieldWith returns the mailing address field with or without the
// "no stable mailing address" checkbox.
func AddressFieldWith(noMailingAddress bool) Field {
	f := AddressField
	f.NoMailingAddress = noMailingAddress
	return f
}
