// Package message parses change descriptions into plain text and
// structured label lines, and rebuilds the text after edits.
package message

import (
	"regexp"
	"strings"
)

// A label line is a bare name followed by ":" or "=" and the value on
// the same line, e.g. "PiperOrigin-RevId: 12345" or "BUG=1234".
var labelRe = regexp.MustCompile(`^([A-Za-z0-9][A-Za-z0-9_-]*)( *[:=] ?)(.*)$`)

// Label is one structured key/value line found in a change message.
type Label struct {
	name      string
	separator string
	value     string
}

func NewLabel(name, value string) Label {
	return Label{name: name, separator: ": ", value: value}
}

func (l Label) Name() string  { return l.name }
func (l Label) Value() string { return l.value }

// String reconstructs the line as it appeared (or would appear) in the
// message.
func (l Label) String() string { return l.name + l.separator + l.value }

type line struct {
	text  string
	label *Label
}

// Message is a parsed change description: text and label lines in their
// original order. The zero value is an empty message.
type Message struct {
	lines []line
}

// ParseMessage splits text into lines and recognizes the label lines.
// Everything else is kept verbatim so Text reassembles the input.
func ParseMessage(text string) Message {
	var m Message
	for _, raw := range strings.Split(text, "\n") {
		if g := labelRe.FindStringSubmatch(raw); g != nil {
			l := Label{name: g[1], separator: g[2], value: g[3]}
			m.lines = append(m.lines, line{text: raw, label: &l})
			continue
		}
		m.lines = append(m.lines, line{text: raw})
	}
	return m
}

// Labels returns every label in the order it appears. Duplicate names
// are preserved.
func (m Message) Labels() []Label {
	var out []Label
	for _, ln := range m.lines {
		if ln.label != nil {
			out = append(out, *ln.label)
		}
	}
	return out
}

// FirstLabel returns the first label with the given name.
func (m Message) FirstLabel(name string) (Label, bool) {
	for _, ln := range m.lines {
		if ln.label != nil && ln.label.name == name {
			return *ln.label, true
		}
	}
	return Label{}, false
}

// AddOrReplaceLabel sets name to value: the last existing occurrence is
// rewritten in place (keeping its separator), otherwise a new "name:
// value" line is appended after a blank separator line. The receiver is
// unchanged; the edited message is returned.
func (m Message) AddOrReplaceLabel(name, value string) Message {
	out := Message{lines: append([]line(nil), m.lines...)}
	for i := len(out.lines) - 1; i >= 0; i-- {
		if out.lines[i].label != nil && out.lines[i].label.name == name {
			l := Label{name: name, separator: out.lines[i].label.separator, value: value}
			out.lines[i] = line{text: l.String(), label: &l}
			return out
		}
	}
	l := NewLabel(name, value)
	if n := len(out.lines); n > 0 && strings.TrimSpace(out.lines[n-1].text) != "" {
		out.lines = append(out.lines, line{})
	}
	out.lines = append(out.lines, line{text: l.String(), label: &l})
	return out
}

// Text reassembles the message.
func (m Message) Text() string {
	parts := make([]string, len(m.lines))
	for i, ln := range m.lines {
		parts[i] = ln.text
	}
	return strings.Join(parts, "\n")
}
