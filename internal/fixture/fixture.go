package fixture

import (
	"bytes"
	"crypto/sha256"
	"embed"
	"encoding/json"
	"fmt"
	"path"
)

//go:embed data/*.json
var embedded embed.FS

const (
	CountiesFile      = "counties.json"
	OrganizationsFile = "organizations.json"
)

// Fixture holds a loaded fixture file with derived metadata.
type Fixture struct {
	Name string
	Hash string // "sha256:<hex>"
	Raw  []byte
}

// County is one row of the counties fixture.
type County struct {
	Slug        string `json:"slug"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Organization is one row of the organizations fixture.
type Organization struct {
	Slug              string `json:"slug"`
	Name              string `json:"name"`
	County            string `json:"county"`
	IsReceivingAgency bool   `json:"is_receiving_agency"`
}

// Parse wraps raw fixture bytes and computes their hash.
func Parse(name string, data []byte) *Fixture {
	sum := sha256.Sum256(data)
	return &Fixture{
		Name: name,
		Hash: fmt.Sprintf("sha256:%x", sum),
		Raw:  data,
	}
}

// Embedded returns one of the fixtures shipped with the binary.
func Embedded(name string) (*Fixture, error) {
	data, err := embedded.ReadFile(path.Join("data", name))
	if err != nil {
		return nil, fmt.Errorf("embedded fixture %s: %w", name, err)
	}
	return Parse(name, data), nil
}

// Decode unmarshals the fixture into v, rejecting unknown keys.
func (f *Fixture) Decode(v any) error {
	dec := json.NewDecoder(bytes.NewReader(f.Raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("decoding fixture %s: %w", f.Name, err)
	}
	return nil
}

// Counties returns the rows of the default counties fixture and the fixture
// they were decoded from.
func Counties() ([]County, *Fixture, error) {
	f, err := Embedded(CountiesFile)
	if err != nil {
		return nil, nil, err
	}
	var out []County
	if err := f.Decode(&out); err != nil {
		return nil, nil, err
	}
	return out, f, nil
}

// Organizations returns the rows of the default organizations fixture and
// the fixture they were decoded from.
func Organizations() ([]Organization, *Fixture, error) {
	f, err := Embedded(OrganizationsFile)
	if err != nil {
		return nil, nil, err
	}
	var out []Organization
	if err := f.Decode(&out); err != nil {
		return nil, nil, err
	}
	return out, f, nil
}
