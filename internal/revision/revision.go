// Package revision defines the origin revision capability the
// transform core and the workflow runner consume.
package revision

import (
	"context"
	"time"
)

// Revision is an opaque handle into the origin system's history.
type Revision interface {
	// ReadTimestamp returns the authoritative time of the revision, or
	// nil when the origin does not track one. A failure to query the
	// origin surfaces as an errs.ErrRepoAccess kind.
	ReadTimestamp(ctx context.Context) (*time.Time, error)

	// String returns the stable identifier of the revision.
	String() string

	// ContextReference returns the free-form reference the revision was
	// resolved from (branch, tag, change id), or "" when none exists.
	ContextReference() string

	// AssociatedLabels returns label metadata the origin attaches to the
	// revision. Callers must not mutate the returned map.
	AssociatedLabels() map[string][]string
}

// Literal is a fixed, in-memory revision. Origins without real history
// (the folder origin) and tests use it.
type Literal struct {
	ID     string
	Time   *time.Time
	CtxRef string
	Labels map[string][]string
}

func (l Literal) ReadTimestamp(context.Context) (*time.Time, error) { return l.Time, nil }

func (l Literal) String() string { return l.ID }

func (l Literal) ContextReference() string { return l.CtxRef }

func (l Literal) AssociatedLabels() map[string][]string { return l.Labels }
