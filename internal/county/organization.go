package county

import (
	"fmt"
	"strings"
)

// Organization identifies a partner legal-services organization.
type Organization string

const (
	SanFranciscoPubDef Organization = "sf_pubdef"
	ContraCostaPubDef  Organization = "cc_pubdef"
	AlamedaPubDef      Organization = "a_pubdef"
	EBCLC              Organization = "ebclc"
	CodeForAmerica     Organization = "cfa"
)

type orgInfo struct {
	name   string
	county County
}

var organizations = map[Organization]orgInfo{
	SanFranciscoPubDef: {"San Francisco Public Defender", SanFrancisco},
	ContraCostaPubDef:  {"Contra Costa Public Defender", ContraCosta},
	AlamedaPubDef:      {"Alameda County Public Defender's Office", Alameda},
	EBCLC:              {"East Bay Community Law Center", Alameda},
	CodeForAmerica:     {"Code for America", Other},
}

// ParseOrganization returns the Organization for slug.
func ParseOrganization(slug string) (Organization, error) {
	o := Organization(strings.TrimSpace(strings.ToLower(slug)))
	if _, ok := organizations[o]; !ok {
		return "", fmt.Errorf("organization %q: %w", slug, ErrUnknown)
	}
	return o, nil
}

// ParseOrganizations parses every slug, keeping input order and dropping duplicates.
func ParseOrganizations(slugs []string) ([]Organization, error) {
	seen := make(map[Organization]bool, len(slugs))
	out := make([]Organization, 0, len(slugs))
	for _, s := range slugs {
		for _, part := range strings.Split(s, ",") {
			if strings.TrimSpace(part) == "" {
				continue
			}
			o, err := ParseOrganization(part)
			if err != nil {
				return nil, err
			}
			if seen[o] {
				continue
			}
			seen[o] = true
			out = append(out, o)
		}
	}
	return out, nil
}

func (o Organization) DisplayName() string {
	if info, ok := organizations[o]; ok {
		return info.name
	}
	return string(o)
}

// County returns the county the organization serves.
func (o Organization) County() County { return organizations[o].county }
