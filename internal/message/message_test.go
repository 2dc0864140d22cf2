package message

import (
	"reflect"
	"testing"
)

func TestParseMessage_NoLabels(t *testing.T) {
	m := ParseMessage("Fix bug\n\nJust prose here.")
	if got := m.Labels(); len(got) != 0 {
		t.Fatalf("expected no labels, got %v", got)
	}
}

func TestParseMessage_SingleTrailingLabel(t *testing.T) {
	m := ParseMessage("Fix bug\n\nPiperOrigin-RevId: 12345")
	got := m.Labels()
	if len(got) != 1 {
		t.Fatalf("expected 1 label, got %d", len(got))
	}
	if got[0].Name() != "PiperOrigin-RevId" || got[0].Value() != "12345" {
		t.Fatalf("unexpected label: %q=%q", got[0].Name(), got[0].Value())
	}
}

func TestParseMessage_EqualsSeparatorAndOrder(t *testing.T) {
	m := ParseMessage("Subject\n\nBUG=1234\nReviewed-by: someone\nBUG=5678")
	got := m.Labels()
	want := []struct{ name, value string }{
		{"BUG", "1234"},
		{"Reviewed-by", "someone"},
		{"BUG", "5678"},
	}
	if len(got) != len(want) {
		t.Fatalf("expected %d labels, got %d: %v", len(want), len(got), got)
	}
	for i, w := range want {
		if got[i].Name() != w.name || got[i].Value() != w.value {
			t.Errorf("label %d: got %q=%q, want %q=%q", i, got[i].Name(), got[i].Value(), w.name, w.value)
		}
	}
}

func TestParseMessage_TextRoundTrip(t *testing.T) {
	in := "Subject line\n\nBody text.\n\nBUG=1234\nChange-Id: Iabc\n"
	if got := ParseMessage(in).Text(); got != in {
		t.Fatalf("Text() = %q, want %q", got, in)
	}
}

func TestAddOrReplaceLabel_ReplacesLastKeepingSeparator(t *testing.T) {
	m := ParseMessage("Subject\n\nBUG=1\nBUG=2")
	out := m.AddOrReplaceLabel("BUG", "9")
	if got := out.Text(); got != "Subject\n\nBUG=1\nBUG=9" {
		t.Fatalf("Text() = %q", got)
	}
	// receiver untouched
	if got := m.Text(); got != "Subject\n\nBUG=1\nBUG=2" {
		t.Fatalf("original mutated: %q", got)
	}
}

func TestAddOrReplaceLabel_AppendsWithBlankSeparator(t *testing.T) {
	out := ParseMessage("Fix bug").AddOrReplaceLabel("Change-Id", "Iabc")
	if got := out.Text(); got != "Fix bug\n\nChange-Id: Iabc" {
		t.Fatalf("Text() = %q", got)
	}
}

func TestFirstLabel(t *testing.T) {
	m := ParseMessage("s\n\nA: 1\nB: 2\nA: 3")
	l, ok := m.FirstLabel("A")
	if !ok || l.Value() != "1" {
		t.Fatalf("FirstLabel(A) = %v %v", l, ok)
	}
	if _, ok := m.FirstLabel("C"); ok {
		t.Fatal("FirstLabel(C) should not match")
	}
}

func TestLabel_String(t *testing.T) {
	if got := NewLabel("Change-Id", "Iabc").String(); got != "Change-Id: Iabc" {
		t.Fatalf("String() = %q", got)
	}
	labels := ParseMessage("BUG=7").Labels()
	if !reflect.DeepEqual(labels[0].String(), "BUG=7") {
		t.Fatalf("separator not preserved: %q", labels[0].String())
	}
}
