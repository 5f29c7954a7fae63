package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/dshills/intake/internal/county"
	"github.com/dshills/intake/internal/field"
	"github.com/dshills/intake/internal/followup"
	"github.com/dshills/intake/internal/logger"
	"github.com/dshills/intake/internal/render"
	"github.com/dshills/intake/internal/store"
)

// writeConfig writes a config file pointing at a fresh sqlite database and
// returns its path along with the database path.
func writeConfig(t *testing.T, extra string) (string, string) {
	t.Helper()
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "intake.db")
	cfg := fmt.Sprintf("database:\n  driver: sqlite\n  dsn: %s\nlog:\n  level: error\n%s", dbPath, extra)
	cfgPath := filepath.Join(dir, "intake.yaml")
	if err := os.WriteFile(cfgPath, []byte(cfg), 0o600); err != nil {
		t.Fatalf("writing config: %v", err)
	}
	return cfgPath, dbPath
}

// execute runs the root command with args and returns what it printed.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func exitCode(t *testing.T, err error) int {
	t.Helper()
	var ee *exitErr
	if !errors.As(err, &ee) {
		t.Fatalf("expected exitErr, got %T: %v", err, err)
	}
	return ee.code
}

// seedOldSubmission stores a submission received long enough ago to be due
// for a followup.
func seedOldSubmission(t *testing.T, dbPath string) *store.Submission {
	t.Helper()
	st, err := store.Open(store.DriverSQLite, dbPath, logger.Nop())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer st.Close()
	ctx := context.Background()
	if _, err := st.Migrate(ctx); err != nil {
		t.Fatalf("Migrate: %v", err)
	}
	sub := &store.Submission{
		Answers: field.Answers{
			"first_name":          "Ana",
			"email":               "ana@example.org",
			"contact_preferences": []string{field.PrefersEmail},
		},
		DateReceived: time.Now().AddDate(0, 0, -45),
		Counties:     []county.County{county.SanFrancisco},
	}
	if err := st.CreateSubmission(ctx, sub); err != nil {
		t.Fatalf("CreateSubmission: %v", err)
	}
	return sub
}

// --- form show / form diff ---

func TestRunShow_JSON(t *testing.T) {
	var out bytes.Buffer
	err := runShow(&out, formFlags{counties: []string{"sanfrancisco", "contracosta"}, format: "json"})
	if err != nil {
		t.Fatalf("runShow: %v", err)
	}
	var doc render.Document
	if err := json.Unmarshal(out.Bytes(), &doc); err != nil {
		t.Fatalf("output is not valid JSON: %v\n%s", err, out.String())
	}
	if len(doc.Counties) != 2 || doc.Counties[1] != "contracosta" {
		t.Errorf("counties mismatch: %v", doc.Counties)
	}
	if !strings.HasSuffix(out.String(), "\n") {
		t.Error("output should end with a newline")
	}
}

func TestRunShow_OrganizationsYAML(t *testing.T) {
	var out bytes.Buffer
	err := runShow(&out, formFlags{orgs: []string{"ebclc"}, format: "yaml"})
	if err != nil {
		t.Fatalf("runShow: %v", err)
	}
	var doc render.Document
	if err := yaml.Unmarshal(out.Bytes(), &doc); err != nil {
		t.Fatalf("output is not valid YAML: %v", err)
	}
	if len(doc.Organizations) != 1 || doc.Organizations[0] != "ebclc" {
		t.Errorf("organizations mismatch: %v", doc.Organizations)
	}
}

func TestRunShow_InputErrors(t *testing.T) {
	tests := []struct {
		name  string
		flags formFlags
		code  int
	}{
		{"nothing selected", formFlags{format: "json"}, exitInput},
		{"both selected", formFlags{counties: []string{"fresno"}, orgs: []string{"ebclc"}, format: "json"}, exitInput},
		{"unknown county", formFlags{counties: []string{"atlantis"}, format: "json"}, exitInput},
		{"unknown organization", formFlags{orgs: []string{"nobody"}, format: "json"}, exitInput},
		{"bad format", formFlags{counties: []string{"fresno"}, format: "xml"}, exitInput},
		{"no matching spec", formFlags{orgs: []string{"cfa"}, format: "json"}, exitValidation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			err := runShow(&out, tt.flags)
			if err == nil {
				t.Fatal("expected error")
			}
			if got := exitCode(t, err); got != tt.code {
				t.Errorf("expected exit code %d, got %d (%v)", tt.code, got, err)
			}
		})
	}
}

func TestRunDiff_AddingCounty(t *testing.T) {
	var out bytes.Buffer
	err := runDiff(&out, formFlags{from: []string{"sanfrancisco"}, to: []string{"sanfrancisco", "fresno"}})
	if err != nil {
		t.Fatalf("runDiff: %v", err)
	}
	s := out.String()
	if !strings.Contains(s, "# added: ") || !strings.Contains(s, "last_four") {
		t.Errorf("expected added fields summary, got:\n%s", s)
	}
	if !strings.Contains(s, "# from sanfrancisco\n# to sanfrancisco,fresno\n") {
		t.Errorf("missing diff header:\n%s", s)
	}
}

func TestRunDiff_NoChanges(t *testing.T) {
	var out bytes.Buffer
	if err := runDiff(&out, formFlags{from: []string{"tulare"}, to: []string{"tulare"}}); err != nil {
		t.Fatalf("runDiff: %v", err)
	}
	if out.String() != "no changes\n" {
		t.Errorf("unexpected output %q", out.String())
	}
}

func TestRunDiff_UnknownCounty(t *testing.T) {
	err := runDiff(&bytes.Buffer{}, formFlags{from: []string{"fresno"}, to: []string{"gotham"}})
	if got := exitCode(t, err); got != exitInput {
		t.Errorf("expected exit code %d, got %d", exitInput, got)
	}
}

func TestFormShowCommand(t *testing.T) {
	out, err := execute(t, "form", "show", "--counties", "santaclara,sandiego", "--format", "md")
	if err != nil {
		t.Fatalf("form show: %v", err)
	}
	if !strings.Contains(out, "santaclara") {
		t.Errorf("markdown should name the counties:\n%s", out)
	}
}

// --- migrate / followups ---

func TestMigrateCommands(t *testing.T) {
	cfgPath, _ := writeConfig(t, "")

	out, err := execute(t, "--config", cfgPath, "migrate", "up")
	if err != nil {
		t.Fatalf("migrate up: %v", err)
	}
	for _, name := range []string{"applied initial", "applied add_default_counties", "applied organizations"} {
		if !strings.Contains(out, name) {
			t.Errorf("expected %q in output:\n%s", name, out)
		}
	}

	out, err = execute(t, "--config", cfgPath, "migrate", "up")
	if err != nil {
		t.Fatalf("second migrate up: %v", err)
	}
	if out != "nothing to do\n" {
		t.Errorf("expected nothing to do, got %q", out)
	}

	out, err = execute(t, "--config", cfgPath, "migrate", "down")
	if err != nil {
		t.Fatalf("migrate down: %v", err)
	}
	if out != "reverted organizations\n" {
		t.Errorf("unexpected output %q", out)
	}
}

func TestInvalidConfig(t *testing.T) {
	cfgPath, _ := writeConfig(t, "followups:\n  after_days: -1\n")
	_, err := execute(t, "--config", cfgPath, "migrate", "up")
	if got := exitCode(t, err); got != exitInput {
		t.Errorf("expected exit code %d, got %d", exitInput, got)
	}
}

func TestFollowupsList(t *testing.T) {
	cfgPath, dbPath := writeConfig(t, "")
	sub := seedOldSubmission(t, dbPath)

	out, err := execute(t, "--config", cfgPath, "followups", "list")
	if err != nil {
		t.Fatalf("followups list: %v", err)
	}
	want := fmt.Sprintf("%d\t%s\t%s\n", sub.ID, sub.DateReceived.Format(time.DateOnly), sub.PublicID)
	if out != want {
		t.Errorf("expected %q, got %q", want, out)
	}
}

func TestFollowupsList_UnknownAfterID(t *testing.T) {
	cfgPath, dbPath := writeConfig(t, "")
	seedOldSubmission(t, dbPath)

	_, err := execute(t, "--config", cfgPath, "followups", "list", "--after-id", "999")
	if got := exitCode(t, err); got != exitInput {
		t.Errorf("expected exit code %d, got %d", exitInput, got)
	}
}

func TestFollowupsSend_DryRun(t *testing.T) {
	cfgPath, dbPath := writeConfig(t, "")
	sub := seedOldSubmission(t, dbPath)

	out, err := execute(t, "--config", cfgPath, "followups", "send", "--dry-run")
	if err != nil {
		t.Fatalf("followups send: %v", err)
	}
	want := fmt.Sprintf("%d\twould send email to ana@example.org\n", sub.ID)
	if out != want {
		t.Errorf("expected %q, got %q", want, out)
	}

	// A dry run records nothing, so the submission is still due.
	out, err = execute(t, "--config", cfgPath, "followups", "list")
	if err != nil {
		t.Fatalf("followups list: %v", err)
	}
	if !strings.HasPrefix(out, fmt.Sprintf("%d\t", sub.ID)) {
		t.Errorf("submission should still be due, got %q", out)
	}
}

func TestFollowupsSend_RecordsAndRedacts(t *testing.T) {
	cfgPath, dbPath := writeConfig(t, "")
	sub := seedOldSubmission(t, dbPath)

	out, err := execute(t, "--config", cfgPath, "followups", "send")
	if err != nil {
		t.Fatalf("followups send: %v", err)
	}
	want := fmt.Sprintf("%d\tsent email to [REDACTED]\n", sub.ID)
	if out != want {
		t.Errorf("expected %q, got %q", want, out)
	}

	out, err = execute(t, "--config", cfgPath, "followups", "list")
	if err != nil {
		t.Fatalf("followups list: %v", err)
	}
	if out != "no followups due\n" {
		t.Errorf("expected no followups due after sending, got %q", out)
	}
}

func TestPrintResults_Skipped(t *testing.T) {
	var out bytes.Buffer
	err := printResults(&out, []followup.Result{{SubmissionID: 7, Skipped: "no contact information"}}, false)
	if err != nil {
		t.Fatal(err)
	}
	if out.String() != "7\tskipped: no contact information\n" {
		t.Errorf("unexpected output %q", out.String())
	}
}

func TestPrintResults_PartialDelivery(t *testing.T) {
	var out bytes.Buffer
	res := followup.Result{
		SubmissionID: 9,
		Messages: []followup.Message{
			{SubmissionID: 9, Channel: followup.ChannelEmail, To: "ana@example.org"},
			{SubmissionID: 9, Channel: followup.ChannelSMS, To: "4155551234"},
		},
	}
	res.Delivered = res.Messages[:1]
	res.Failed = res.Messages[1:]
	if err := printResults(&out, []followup.Result{res}, false); err != nil {
		t.Fatal(err)
	}
	want := "9\tsent email to [REDACTED]\n9\tfailed sms to [REDACTED]\n"
	if out.String() != want {
		t.Errorf("expected %q, got %q", want, out.String())
	}
}
