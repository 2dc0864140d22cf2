package transform

import (
	"context"
	"reflect"
	"testing"
	"time"

	"ferry/internal/authoring"
	"ferry/internal/errs"
	"ferry/internal/revision"
)

var testAuthor = mustAuthor("Ferry Bot", "bot@example.com")

func mustAuthor(name, email string) authoring.Author {
	a, err := authoring.New(name, email)
	if err != nil {
		panic(err)
	}
	return a
}

// failingRevision simulates an origin that cannot be queried.
type failingRevision struct{ revision.Literal }

func (failingRevision) ReadTimestamp(context.Context) (*time.Time, error) {
	return nil, errs.Wrap(errs.ErrRepoAccess, "origin unreachable")
}

func fixedTime(s string) *time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		panic(err)
	}
	return &t
}

func newResult(t *testing.T, current, requested revision.Revision) *Result {
	t.Helper()
	r, err := New(context.Background(), "/tmp/work", current, testAuthor, "Fix bug", requested, "default")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return r
}

func TestNew_AccessorRoundTrip(t *testing.T) {
	current := revision.Literal{ID: "abc123", Time: fixedTime("2024-01-01T00:00:00Z")}
	requested := revision.Literal{ID: "def456", CtxRef: "main"}
	r := newResult(t, current, requested)

	if r.Path() != "/tmp/work" {
		t.Errorf("Path() = %q", r.Path())
	}
	if r.Author() != testAuthor {
		t.Errorf("Author() = %v", r.Author())
	}
	if r.Summary() != "Fix bug" {
		t.Errorf("Summary() = %q", r.Summary())
	}
	if r.CurrentRevision().String() != "abc123" {
		t.Errorf("CurrentRevision() = %v", r.CurrentRevision())
	}
	if r.RequestedRevision().String() != "def456" || r.RequestedRevision().ContextReference() != "main" {
		t.Errorf("RequestedRevision() = %v", r.RequestedRevision())
	}
	if r.WorkflowName() != "default" {
		t.Errorf("WorkflowName() = %q", r.WorkflowName())
	}
	if _, ok := r.Baseline(); ok {
		t.Error("Baseline() should be absent on a fresh result")
	}
	if _, ok := r.ChangeIdentity(); ok {
		t.Error("ChangeIdentity() should be absent on a fresh result")
	}
	if r.AskForConfirmation() {
		t.Error("AskForConfirmation() should default to false")
	}
}

func TestNew_UsesRevisionTimestamp(t *testing.T) {
	want := fixedTime("2024-01-01T00:00:00Z")
	r := newResult(t, revision.Literal{ID: "abc", Time: want}, revision.Literal{ID: "abc"})
	if !r.Timestamp().Equal(*want) {
		t.Fatalf("Timestamp() = %v, want %v", r.Timestamp(), want)
	}
}

func TestNew_FallsBackToClock(t *testing.T) {
	fixed := *fixedTime("2025-06-15T12:30:00Z")
	orig := now
	now = func() time.Time { return fixed }
	defer func() { now = orig }()

	r := newResult(t, revision.Literal{ID: "abc"}, revision.Literal{ID: "abc"})
	if !r.Timestamp().Equal(fixed) {
		t.Fatalf("Timestamp() = %v, want injected clock %v", r.Timestamp(), fixed)
	}
}

func TestNew_TimestampFailurePropagates(t *testing.T) {
	r, err := New(context.Background(), "/tmp/work", failingRevision{}, testAuthor,
		"Fix bug", revision.Literal{ID: "abc"}, "default")
	if r != nil {
		t.Fatal("no instance should be produced on a failed timestamp read")
	}
	if !errs.Is(err, errs.ErrRepoAccess) {
		t.Fatalf("expected repository-access kind, got %v", err)
	}
}

func TestNew_RejectsAbsentRequiredArgs(t *testing.T) {
	rev := revision.Revision(revision.Literal{ID: "abc"})
	cases := []struct {
		name      string
		path      string
		current   revision.Revision
		author    authoring.Author
		summary   string
		requested revision.Revision
		workflow  string
	}{
		{"path", "", rev, testAuthor, "s", rev, "w"},
		{"current", "/p", nil, testAuthor, "s", rev, "w"},
		{"author", "/p", rev, authoring.Author{}, "s", rev, "w"},
		{"summary", "/p", rev, testAuthor, "", rev, "w"},
		{"requested", "/p", rev, testAuthor, "s", nil, "w"},
		{"workflow", "/p", rev, testAuthor, "s", rev, ""},
	}
	for _, tc := range cases {
		r, err := New(context.Background(), tc.path, tc.current, tc.author, tc.summary, tc.requested, tc.workflow)
		if r != nil {
			t.Errorf("%s absent: instance produced", tc.name)
		}
		if !errs.Is(err, errs.ErrInvalidArgument) {
			t.Errorf("%s absent: expected invalid-argument, got %v", tc.name, err)
		}
	}
}

func TestWithBaseline_NoCrossFieldMutation(t *testing.T) {
	r := newResult(t, revision.Literal{ID: "abc", Time: fixedTime("2024-01-01T00:00:00Z")}, revision.Literal{ID: "abc"})
	saved := *r

	d, err := r.WithBaseline("base-42")
	if err != nil {
		t.Fatalf("WithBaseline: %v", err)
	}
	if b, ok := d.Baseline(); !ok || b != "base-42" {
		t.Fatalf("Baseline() = %q, %v", b, ok)
	}
	if d.Path() != r.Path() || d.Summary() != r.Summary() || !d.Timestamp().Equal(r.Timestamp()) ||
		d.Author() != r.Author() || d.WorkflowName() != r.WorkflowName() ||
		d.CurrentRevision().String() != r.CurrentRevision().String() ||
		d.RequestedRevision().String() != r.RequestedRevision().String() ||
		d.AskForConfirmation() != r.AskForConfirmation() {
		t.Fatal("WithBaseline changed an unrelated field")
	}
	if !reflect.DeepEqual(saved, *r) {
		t.Fatal("original mutated by WithBaseline")
	}
}

func TestWithBaseline_EmptyRejected(t *testing.T) {
	r := newResult(t, revision.Literal{ID: "abc"}, revision.Literal{ID: "abc"})
	if _, err := r.WithBaseline(""); !errs.Is(err, errs.ErrInvalidArgument) {
		t.Fatalf("expected invalid-argument, got %v", err)
	}
}

func TestWithSummary_ReplacesOnlySummary(t *testing.T) {
	r := newResult(t, revision.Literal{ID: "abc"}, revision.Literal{ID: "abc"})
	saved := *r

	d, err := r.WithSummary("Rewritten\n\nBUG=1")
	if err != nil {
		t.Fatalf("WithSummary: %v", err)
	}
	if d.Summary() != "Rewritten\n\nBUG=1" {
		t.Fatalf("Summary() = %q", d.Summary())
	}
	if !d.Timestamp().Equal(r.Timestamp()) {
		t.Fatal("timestamp recomputed by WithSummary")
	}
	if !reflect.DeepEqual(saved, *r) {
		t.Fatal("original mutated by WithSummary")
	}

	if _, err := r.WithSummary(""); !errs.Is(err, errs.ErrInvalidArgument) {
		t.Fatalf("empty summary: expected invalid-argument, got %v", err)
	}
}

func TestWithIdentity_SetAndClear(t *testing.T) {
	r := newResult(t, revision.Literal{ID: "abc"}, revision.Literal{ID: "abc"})
	saved := *r

	d := r.WithIdentity("workflows/default/1234")
	if id, ok := d.ChangeIdentity(); !ok || id != "workflows/default/1234" {
		t.Fatalf("ChangeIdentity() = %q, %v", id, ok)
	}
	if cleared := d.WithIdentity(""); func() bool { _, ok := cleared.ChangeIdentity(); return ok }() {
		t.Fatal("WithIdentity(\"\") should clear the identity")
	}
	if !reflect.DeepEqual(saved, *r) {
		t.Fatal("original mutated by WithIdentity")
	}
}

func TestWithAskForConfirmation_Toggles(t *testing.T) {
	r := newResult(t, revision.Literal{ID: "abc"}, revision.Literal{ID: "abc"})
	saved := *r

	on := r.WithAskForConfirmation(true)
	if !on.AskForConfirmation() {
		t.Fatal("flag not set")
	}
	off := on.WithAskForConfirmation(false)
	if off.AskForConfirmation() {
		t.Fatal("flag not cleared")
	}
	if !reflect.DeepEqual(saved, *r) {
		t.Fatal("original mutated by WithAskForConfirmation")
	}
}

func TestDerivationChain_Scenario(t *testing.T) {
	want := fixedTime("2024-01-01T00:00:00Z")
	r := newResult(t, revision.Literal{ID: "abc", Time: want}, revision.Literal{ID: "abc"})

	d, err := r.WithBaseline("abc")
	if err != nil {
		t.Fatalf("WithBaseline: %v", err)
	}
	d = d.WithAskForConfirmation(true)

	if !d.Timestamp().Equal(*want) {
		t.Errorf("Timestamp() = %v, want %v", d.Timestamp(), want)
	}
	if b, _ := d.Baseline(); b != "abc" {
		t.Errorf("Baseline() = %q", b)
	}
	if !d.AskForConfirmation() {
		t.Error("AskForConfirmation() = false")
	}
	if d.Path() != r.Path() || d.Summary() != r.Summary() || d.WorkflowName() != r.WorkflowName() ||
		d.Author() != r.Author() {
		t.Error("chain changed an unrelated field")
	}
}

func TestFindAllLabels(t *testing.T) {
	r := newResult(t, revision.Literal{ID: "abc"}, revision.Literal{ID: "abc"})

	if got := r.FindAllLabels(); len(got) != 0 {
		t.Fatalf("plain summary: expected no labels, got %v", got)
	}

	d, err := r.WithSummary("Fix bug\n\nPiperOrigin-RevId: 12345")
	if err != nil {
		t.Fatalf("WithSummary: %v", err)
	}
	got := d.FindAllLabels()
	if len(got) != 1 || got[0].Name() != "PiperOrigin-RevId" || got[0].Value() != "12345" {
		t.Fatalf("FindAllLabels() = %v", got)
	}

	// pure in summary: repeated calls agree
	if !reflect.DeepEqual(got, d.FindAllLabels()) {
		t.Fatal("repeated extraction differs")
	}
}
