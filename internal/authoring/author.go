// Package authoring holds the identity a migrated change is attributed
// to in the destination.
package authoring

import (
	"fmt"
	"strings"

	"ferry/internal/errs"
)

// Author is a destination-side identity: display name plus contact
// address. The rest of the codebase treats it as an atomic value.
type Author struct {
	name  string
	email string
}

// New validates both parts and returns the author.
func New(name, email string) (Author, error) {
	if strings.TrimSpace(name) == "" {
		return Author{}, errs.Wrap(errs.ErrInvalidArgument, "author name is empty")
	}
	if strings.TrimSpace(email) == "" {
		return Author{}, errs.Wrap(errs.ErrInvalidArgument, "author email is empty")
	}
	return Author{name: name, email: email}, nil
}

// Parse reads the conventional "Name <email>" form.
func Parse(s string) (Author, error) {
	open := strings.LastIndex(s, "<")
	if open < 0 || !strings.HasSuffix(s, ">") {
		return Author{}, errs.Wrapf(errs.ErrInvalidArgument, "author %q not in 'Name <email>' form", s)
	}
	return New(strings.TrimSpace(s[:open]), strings.TrimSpace(s[open+1:len(s)-1]))
}

func (a Author) Name() string  { return a.name }
func (a Author) Email() string { return a.email }

// IsZero reports whether the author carries no identity at all.
func (a Author) IsZero() bool { return a == Author{} }

func (a Author) String() string { return fmt.Sprintf("%s <%s>", a.name, a.email) }
