package workflow

import (
	"regexp"
	"strings"

	"ferry/internal/errs"
	"ferry/internal/message"
	"ferry/internal/spec"
)

// Transformation rewrites the change summary between origin and
// destination.
type Transformation interface {
	Name() string
	Apply(summary string) (string, error)
}

type addLabel struct {
	name  string
	value string
}

func (t addLabel) Name() string { return "add_label " + t.name }

func (t addLabel) Apply(summary string) (string, error) {
	return message.ParseMessage(summary).AddOrReplaceLabel(t.name, t.value).Text(), nil
}

type scrub struct {
	re          *regexp.Regexp
	replacement string
}

func (t scrub) Name() string { return "scrub " + t.re.String() }

func (t scrub) Apply(summary string) (string, error) {
	out := t.re.ReplaceAllString(summary, t.replacement)
	if strings.TrimSpace(out) == "" {
		return "", errs.Newf("scrub %s removed the whole summary", t.re)
	}
	return out, nil
}

func compileTransformations(specs []spec.TransformationSpec) ([]Transformation, error) {
	var out []Transformation
	for _, s := range specs {
		switch s.Type {
		case "add_label":
			if s.Name == "" {
				return nil, errs.Newf("add_label: name is required")
			}
			out = append(out, addLabel{name: s.Name, value: s.Value})
		case "scrub":
			re, err := regexp.Compile(s.Pattern)
			if err != nil {
				return nil, errs.Wrapf(err, "scrub %q", s.Pattern)
			}
			out = append(out, scrub{re: re, replacement: s.Replacement})
		default:
			return nil, errs.Newf("unsupported transformation type %q", s.Type)
		}
	}
	return out, nil
}
