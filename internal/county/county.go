package county

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknown is returned when a county or organization slug is not recognised.
var ErrUnknown = errors.New("unknown slug")

// County identifies a California county by its slug.
type County string

const (
	SanFrancisco County = "sanfrancisco"
	ContraCosta  County = "contracosta"
	Alameda      County = "alameda"
	Monterey     County = "monterey"
	Solano       County = "solano"
	SanDiego     County = "sandiego"
	SanJoaquin   County = "sanjoaquin"
	SantaClara   County = "santaclara"
	SantaCruz    County = "santacruz"
	Fresno       County = "fresno"
	Sonoma       County = "sonoma"
	Tulare       County = "tulare"
	Ventura      County = "ventura"
	SantaBarbara County = "santabarbara"
	Other        County = "other"
)

// all is the canonical ordering used for choice lists.
var all = []County{
	SanFrancisco, ContraCosta, Alameda, Monterey, Solano, SanDiego,
	SanJoaquin, SantaClara, SantaCruz, Fresno, Sonoma, Tulare, Ventura,
	SantaBarbara, Other,
}

var displayNames = map[County]string{
	SanFrancisco: "San Francisco",
	ContraCosta:  "Contra Costa",
	Alameda:      "Alameda",
	Monterey:     "Monterey",
	Solano:       "Solano",
	SanDiego:     "San Diego",
	SanJoaquin:   "San Joaquin",
	SantaClara:   "Santa Clara",
	SantaCruz:    "Santa Cruz",
	Fresno:       "Fresno",
	Sonoma:       "Sonoma",
	Tulare:       "Tulare",
	Ventura:      "Ventura",
	SantaBarbara: "Santa Barbara",
	Other:        "Other",
}

// requiringAddress lists counties whose public defenders must be able to
// mail the applicant.
var requiringAddress = map[County]bool{
	SanFrancisco: true,
	ContraCosta:  true,
	Alameda:      true,
	Monterey:     true,
	Solano:       true,
	SanJoaquin:   true,
	Fresno:       true,
	Tulare:       true,
}

// All returns every county in display order.
func All() []County {
	out := make([]County, len(all))
	copy(out, all)
	return out
}

// Parse returns the County for slug.
func Parse(slug string) (County, error) {
	c := County(strings.TrimSpace(strings.ToLower(slug)))
	if _, ok := displayNames[c]; !ok {
		return "", fmt.Errorf("county %q: %w", slug, ErrUnknown)
	}
	return c, nil
}

// ParseList parses every slug, keeping input order and dropping duplicates.
func ParseList(slugs []string) ([]County, error) {
	seen := make(map[County]bool, len(slugs))
	out := make([]County, 0, len(slugs))
	for _, s := range slugs {
		for _, part := range strings.Split(s, ",") {
			if strings.TrimSpace(part) == "" {
				continue
			}
			c, err := Parse(part)
			if err != nil {
				return nil, err
			}
			if seen[c] {
				continue
			}
			seen[c] = true
			out = append(out, c)
		}
	}
	return out, nil
}

// DisplayName returns the human-readable name, e.g. "Contra Costa".
func (c County) DisplayName() string {
	if n, ok := displayNames[c]; ok {
		return n
	}
	return string(c)
}

// RequiresAddress reports whether applicants to c must give a mailing address.
func (c County) RequiresAddress() bool { return requiringAddress[c] }

// Contains reports whether list includes c.
func Contains(list []County, c County) bool {
	for _, x := range list {
		if x == c {
			return true
		}
	}
	return false
}

// Strings converts counties back to slugs.
func Strings(list []County) []string {
	out := make([]string, len(list))
	for i, c := range list {
		out[i] = string(c)
	}
	return out
}

// OxfordComma joins items as "A", "A and B" or "A, B, and C".
func OxfordComma(items []string) string {
	switch len(items) {
	case 0:
		return ""
	case 1:
		return items[0]
	case 2:
		return items[0] + " and " + items[1]
	}
	return strings.Join(items[:len(items)-1], ", ") + ", and " + items[len(items)-1]
}
