// Package transform holds the final outcome of running a workflow over
// origin content: the immutable record a destination writer reads to
// commit the migrated change.
package transform

import (
	"context"
	"time"

	"ferry/internal/authoring"
	"ferry/internal/errs"
	"ferry/internal/message"
	"ferry/internal/revision"
)

// now is the construction clock; tests swap it for a fixed one.
var now = time.Now

// Result is the immutable outcome of transforming one unit of origin
// content for a destination. Every derivation method returns a fresh
// copy and leaves the receiver untouched, so instances are safe to
// share across goroutines without synchronization.
type Result struct {
	path               string
	author             authoring.Author
	timestamp          time.Time
	summary            string
	baseline           *string
	askForConfirmation bool
	currentRevision    revision.Revision
	requestedRevision  revision.Revision
	changeIdentity     *string
	workflowName       string
}

// New builds the base result for one migrated unit of work. The
// timestamp is the revision's own when it has one, otherwise the wall
// clock; it is fixed here and never recomputed by a derivation. A
// failing timestamp read aborts construction and surfaces to the
// caller.
func New(
	ctx context.Context,
	path string,
	current revision.Revision,
	author authoring.Author,
	summary string,
	requested revision.Revision,
	workflowName string,
) (*Result, error) {
	switch {
	case path == "":
		return nil, errs.Wrap(errs.ErrInvalidArgument, "transform result: path is empty")
	case current == nil:
		return nil, errs.Wrap(errs.ErrInvalidArgument, "transform result: current revision is nil")
	case author.IsZero():
		return nil, errs.Wrap(errs.ErrInvalidArgument, "transform result: author is empty")
	case summary == "":
		return nil, errs.Wrap(errs.ErrInvalidArgument, "transform result: summary is empty")
	case requested == nil:
		return nil, errs.Wrap(errs.ErrInvalidArgument, "transform result: requested revision is nil")
	case workflowName == "":
		return nil, errs.Wrap(errs.ErrInvalidArgument, "transform result: workflow name is empty")
	}
	ts, err := current.ReadTimestamp(ctx)
	if err != nil {
		return nil, errs.Wrapf(err, "reading timestamp of %s", current)
	}
	t := now()
	if ts != nil {
		t = *ts
	}
	return &Result{
		path:              path,
		author:            author,
		timestamp:         t,
		summary:           summary,
		currentRevision:   current,
		requestedRevision: requested,
		workflowName:      workflowName,
	}, nil
}

func (r *Result) derive() *Result {
	c := *r
	return &c
}

// WithBaseline derives a copy pinned to the given destination baseline.
func (r *Result) WithBaseline(baseline string) (*Result, error) {
	if baseline == "" {
		return nil, errs.Wrap(errs.ErrInvalidArgument, "baseline is empty")
	}
	c := r.derive()
	c.baseline = &baseline
	return c, nil
}

// WithSummary derives a copy carrying the rewritten change description.
func (r *Result) WithSummary(summary string) (*Result, error) {
	if summary == "" {
		return nil, errs.Wrap(errs.ErrInvalidArgument, "summary is empty")
	}
	c := r.derive()
	c.summary = summary
	return c, nil
}

// WithIdentity derives a copy with the given stable change identity.
// Empty clears it; identity is optional throughout, destinations fall
// back to their own correlation when it is absent.
func (r *Result) WithIdentity(identity string) *Result {
	c := r.derive()
	if identity == "" {
		c.changeIdentity = nil
	} else {
		c.changeIdentity = &identity
	}
	return c
}

// WithAskForConfirmation derives a copy with the confirmation flag set.
func (r *Result) WithAskForConfirmation(ask bool) *Result {
	c := r.derive()
	c.askForConfirmation = ask
	return c
}

// Path is the root of the transformed content tree to put in the
// destination.
func (r *Result) Path() string { return r.path }

// Author is the destination author to attribute the change to.
func (r *Result) Author() authoring.Author { return r.author }

// Timestamp is when the content was submitted to the origin, or the
// construction time when the origin does not track one.
func (r *Result) Timestamp() time.Time { return r.timestamp }

// Summary is the change description for the destination. Destinations
// may add their own boilerplate or metadata around it.
func (r *Result) Summary() string { return r.summary }

// Baseline is the destination revision to sync against before applying
// the change. Absent means the destination assumes head.
func (r *Result) Baseline() (string, bool) {
	if r.baseline == nil {
		return "", false
	}
	return *r.baseline, true
}

// AskForConfirmation reports whether the destination should ask before
// committing. Destinations that can damage a repository must not
// ignore a true value.
func (r *Result) AskForConfirmation() bool { return r.askForConfirmation }

// CurrentRevision is the revision actually being migrated.
func (r *Result) CurrentRevision() revision.Revision { return r.currentRevision }

// RequestedRevision is the revision the user asked to migrate. It may
// carry a context reference and label metadata from the origin.
func (r *Result) RequestedRevision() revision.Revision { return r.requestedRevision }

// ChangeIdentity is a stable identifier correlating this change with an
// origin-side entity, e.g. a review record.
func (r *Result) ChangeIdentity() (string, bool) {
	if r.changeIdentity == nil {
		return "", false
	}
	return *r.changeIdentity, true
}

// WorkflowName identifies the workflow, which together with its config
// location uniquely names a migration definition.
func (r *Result) WorkflowName() string { return r.workflowName }

// FindAllLabels extracts the structured labels embedded in the summary,
// in the order they appear.
func (r *Result) FindAllLabels() []message.Label {
	return message.ParseMessage(r.summary).Labels()
}
