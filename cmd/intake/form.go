package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dshills/intake/internal/county"
	"github.com/dshills/intake/internal/form"
	"github.com/dshills/intake/internal/formdiff"
	"github.com/dshills/intake/internal/formspec"
	"github.com/dshills/intake/internal/render"
)

// formFlags holds the parsed flags for the form commands.
type formFlags struct {
	counties []string
	orgs     []string
	format   string
	from     []string
	to       []string
}

func newFormCmd() *cobra.Command {
	var flags formFlags
	cmd := &cobra.Command{
		Use:   "form",
		Short: "Inspect combined form definitions",
	}

	show := &cobra.Command{
		Use:   "show",
		Short: "Print the combined form for a set of counties or organizations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runShow(cmd.OutOrStdout(), flags)
		},
	}
	f := show.Flags()
	f.StringSliceVar(&flags.counties, "counties", nil, "County slugs, in selection order")
	f.StringSliceVar(&flags.orgs, "orgs", nil, "Organization slugs")
	f.StringVar(&flags.format, "format", "json", "Output format: json, md, or yaml")

	diff := &cobra.Command{
		Use:   "diff",
		Short: "Show how the combined form changes between two county selections",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runDiff(cmd.OutOrStdout(), flags)
		},
	}
	d := diff.Flags()
	d.StringSliceVar(&flags.from, "from", nil, "County slugs before the change")
	d.StringSliceVar(&flags.to, "to", nil, "County slugs after the change")
	_ = diff.MarkFlagRequired("from")
	_ = diff.MarkFlagRequired("to")

	cmd.AddCommand(show, diff)
	return cmd
}

func runShow(w io.Writer, flags formFlags) error {
	if len(flags.counties) > 0 && len(flags.orgs) > 0 {
		return codeError(exitInput, "--counties and --orgs cannot be combined")
	}
	if len(flags.counties) == 0 && len(flags.orgs) == 0 {
		return codeError(exitInput, "one of --counties or --orgs is required")
	}
	renderer, err := render.NewRenderer(flags.format)
	if err != nil {
		return codeError(exitInput, "invalid format: %s", err)
	}

	var def *form.Definition
	if len(flags.orgs) > 0 {
		orgs, perr := county.ParseOrganizations(flags.orgs)
		if perr != nil {
			return codeError(exitInput, "%s", perr)
		}
		def, err = formspec.NewOrganizationSelector(0).Combined(formspec.Criteria{Organizations: orgs})
	} else {
		def, err = combinedFor(flags.counties)
	}
	if err != nil {
		return formError(err)
	}

	out, err := renderer.Render(def)
	if err != nil {
		return codeError(exitInput, "rendering form: %s", err)
	}
	if _, err := w.Write(out); err != nil {
		return codeError(exitInput, "writing output: %s", err)
	}
	if len(out) > 0 && out[len(out)-1] != '\n' {
		fmt.Fprintln(w)
	}
	return nil
}

func runDiff(w io.Writer, flags formFlags) error {
	before, err := combinedFor(flags.from)
	if err != nil {
		return formError(err)
	}
	after, err := combinedFor(flags.to)
	if err != nil {
		return formError(err)
	}
	text, err := formdiff.Definitions(before, after)
	if err != nil {
		return codeError(exitInput, "diffing forms: %s", err)
	}
	if text == "" {
		_, err = fmt.Fprintln(w, "no changes")
		return err
	}

	changes := formdiff.Compare(before, after)
	for _, line := range []struct {
		label string
		names []string
	}{
		{"added", changes.Added},
		{"removed", changes.Removed},
		{"changed", changes.Changed},
	} {
		if len(line.names) > 0 {
			fmt.Fprintf(w, "# %s: %s\n", line.label, strings.Join(line.names, ", "))
		}
	}
	_, err = io.WriteString(w, text)
	return err
}

func combinedFor(slugs []string) (*form.Definition, error) {
	counties, err := county.ParseList(slugs)
	if err != nil {
		return nil, err
	}
	return formspec.NewCountySelector(0).Combined(formspec.Criteria{Counties: counties})
}

// formError maps selection failures to exit codes.
func formError(err error) error {
	switch {
	case errors.Is(err, county.ErrUnknown):
		return codeError(exitInput, "%s", err)
	case errors.Is(err, formspec.ErrNoMatchingSpec):
		return codeError(exitValidation, "%s", err)
	default:
		return codeError(exitInput, "combining forms: %s", err)
	}
}
