// Package workflow runs one configured migration end to end: resolve
// the requested origin revision, check its content out, build the
// transform result, and hand it to the destination writer.
package workflow

import (
	"context"
	"fmt"
	"hash/fnv"
	"io"
	"os"
	"time"

	"ferry/destination"
	"ferry/internal/authoring"
	"ferry/internal/errs"
	"ferry/internal/events"
	"ferry/internal/logging"
	"ferry/internal/revision"
	"ferry/internal/telemetry"
	"ferry/internal/transform"
	"ferry/origin"
)

type Runner struct {
	name     string
	specPath string
	author   authoring.Author

	origin     origin.Adapter
	dest       destination.Writer
	transforms []Transformation

	defaultRef string
	summary    string
	baseline   string
	ask        bool

	events *events.Publisher
}

// SetEvents attaches the audit publisher; nil disables publishing.
func (r *Runner) SetEvents(p *events.Publisher) { r.events = p }

// Run migrates the given reference ("" means the workflow's default)
// and reports the outcome to metrics and the event stream.
func (r *Runner) Run(ctx context.Context, ref string) error {
	start := time.Now()
	res, err := r.run(ctx, ref)

	status := "ok"
	switch {
	case errs.Is(err, destination.ErrEmptyChange):
		status = "empty"
	case err != nil:
		status = "error"
	}
	telemetry.MigrationsTotal.WithLabelValues(r.name, status).Inc()
	telemetry.MigrationDuration.WithLabelValues(r.name).Observe(time.Since(start).Seconds())

	ev := events.MigrationEvent{Workflow: r.name, Status: status}
	if err != nil {
		ev.Error = err.Error()
	}
	if res != nil {
		ev.RequestedRevision = res.RequestedRevision().String()
		ev.CurrentRevision = res.CurrentRevision().String()
	}
	if perr := r.events.Publish(ev); perr != nil {
		logging.L().Warn("publish migration event", "workflow", r.name, "error", perr)
	}

	if err != nil {
		return err
	}
	logging.L().Info("migration complete",
		"workflow", r.name,
		"revision", res.CurrentRevision().String(),
		"took", time.Since(start))
	return nil
}

func (r *Runner) run(ctx context.Context, ref string) (*transform.Result, error) {
	if ref == "" {
		ref = r.defaultRef
	}
	requested, err := r.origin.Resolve(ctx, ref)
	if err != nil {
		return nil, err
	}
	// One-shot run: the revision being migrated is the one requested.
	current := requested

	dir, err := os.MkdirTemp("", "ferry-*")
	if err != nil {
		return nil, err
	}
	defer os.RemoveAll(dir)
	if err := r.origin.Checkout(ctx, current, dir); err != nil {
		return nil, err
	}

	res, err := transform.New(ctx, dir, current, r.author, r.baseSummary(current), requested, r.name)
	if err != nil {
		return nil, err
	}
	for _, t := range r.transforms {
		sum, aerr := t.Apply(res.Summary())
		if aerr != nil {
			return res, errs.Wrapf(aerr, "transformation %q", t.Name())
		}
		if res, err = res.WithSummary(sum); err != nil {
			return res, errs.Wrapf(err, "transformation %q", t.Name())
		}
	}
	if r.baseline != "" {
		if res, err = res.WithBaseline(r.baseline); err != nil {
			return res, err
		}
	}
	res = res.WithAskForConfirmation(r.ask).WithIdentity(r.changeIdentity(requested))

	if err := r.dest.Write(ctx, res); err != nil {
		return res, err
	}
	return res, nil
}

func (r *Runner) baseSummary(rev revision.Revision) string {
	if r.summary != "" {
		return r.summary
	}
	return fmt.Sprintf("Import of %s\n\nMigrated by the %s workflow.\n", rev, r.name)
}

// changeIdentity derives a stable identifier from the workflow's own
// identity (spec location + name) and the revision's context reference,
// so re-runs of the same requested change correlate across systems. No
// context reference means no stable entity to correlate with.
func (r *Runner) changeIdentity(rev revision.Revision) string {
	ctxRef := rev.ContextReference()
	if ctxRef == "" {
		return ""
	}
	h := fnv.New64a()
	io.WriteString(h, r.specPath)
	io.WriteString(h, "\x00")
	io.WriteString(h, r.name)
	io.WriteString(h, "\x00")
	io.WriteString(h, ctxRef)
	return fmt.Sprintf("%016x", h.Sum64())
}

func (r *Runner) Close() error {
	err := r.origin.Close()
	if cerr := r.dest.Close(); err == nil {
		err = cerr
	}
	return err
}
