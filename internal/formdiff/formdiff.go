package formdiff

import (
	"fmt"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"

	"github.com/dshills/intake/internal/form"
	"github.com/dshills/intake/internal/render"
)

// Diff returns patch text turning before into after, or "" when the two are
// the same after normalization. Both sides are normalized first so trailing
// whitespace and line endings do not show up as changes.
func Diff(before, after string) string {
	before, after = normalize(before), normalize(after)
	if before == after {
		return ""
	}
	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMain(before, after, false)
	diffs = dmp.DiffCleanupSemantic(diffs)
	return dmp.PatchToText(dmp.PatchMake(before, diffs))
}

// Definitions renders both definitions as markdown and diffs them, with a
// header naming each side.
func Definitions(before, after *form.Definition) (string, error) {
	r, err := render.NewRenderer("md")
	if err != nil {
		return "", err
	}
	a, err := r.Render(before)
	if err != nil {
		return "", fmt.Errorf("rendering %s: %w", before.Name, err)
	}
	b, err := r.Render(after)
	if err != nil {
		return "", fmt.Errorf("rendering %s: %w", after.Name, err)
	}
	text := Diff(string(a), string(b))
	if text == "" {
		return "", nil
	}
	var out strings.Builder
	out.WriteString(fmt.Sprintf("# from %s\n", describe(before)))
	out.WriteString(fmt.Sprintf("# to %s\n", describe(after)))
	out.WriteString(text)
	return out.String(), nil
}

// Changes summarises which fields were added or removed, and which changed
// their label or requirement level.
type Changes struct {
	Added   []string
	Removed []string
	Changed []string
}

// Compare lists field-level changes between two definitions.
func Compare(before, after *form.Definition) Changes {
	var c Changes
	beforeDoc, afterDoc := render.NewDocument(before), render.NewDocument(after)
	old := make(map[string]render.FieldDoc, len(beforeDoc.Fields))
	for _, f := range beforeDoc.Fields {
		old[f.Name] = f
	}
	for _, f := range afterDoc.Fields {
		prev, ok := old[f.Name]
		if !ok {
			c.Added = append(c.Added, f.Name)
			continue
		}
		if prev.Label != f.Label || prev.Requirement != f.Requirement || prev.NoMailingAddress != f.NoMailingAddress {
			c.Changed = append(c.Changed, f.Name)
		}
		delete(old, f.Name)
	}
	for _, f := range beforeDoc.Fields {
		if _, ok := old[f.Name]; ok {
			c.Removed = append(c.Removed, f.Name)
		}
	}
	return c
}

func describe(def *form.Definition) string {
	if len(def.Counties) > 0 {
		names := make([]string, len(def.Counties))
		for i, c := range def.Counties {
			names[i] = string(c)
		}
		return strings.Join(names, ",")
	}
	return def.Name
}

// normalize trims trailing whitespace from each line and converts CRLF to LF.
func normalize(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t")
	}
	return strings.Join(lines, "\n")
}
