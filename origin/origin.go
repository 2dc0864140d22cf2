// Package origin defines the adapters that expose an origin system's
// content and history to workflows.
package origin

import (
	"context"

	"ferry/internal/errs"
	"ferry/internal/revision"
)

// Adapter is the common behaviour every origin exposes.
type Adapter interface {
	Configure(any) error // driver-specific YAML ⇒ struct

	// Resolve maps a user-supplied reference ("" means the adapter's
	// default) to a concrete revision.
	Resolve(ctx context.Context, ref string) (revision.Revision, error)

	// Checkout materializes the revision's content tree under dir.
	Checkout(ctx context.Context, rev revision.Revision, dir string) error

	Close() error // idempotent
}

/*──────── registry ───────*/

// Factory builds an Adapter (e.g. the git or folder driver).
type Factory func() Adapter

var registry = map[string]Factory{}

// Register is called from each driver's init().
func Register(name string, f Factory) { registry[name] = f }

// NewAdapter returns a driver by kind ("git", "folder", …).
func NewAdapter(name string) (Adapter, error) {
	if f, ok := registry[name]; ok {
		return f(), nil
	}
	return nil, errs.Newf("origin: unsupported kind %q", name)
}
