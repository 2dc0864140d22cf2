// Package destination defines the writer contract: the component that
// reads a final transform result and commits the migrated change.
package destination

import (
	"context"

	"ferry/internal/errs"
	"ferry/internal/transform"
)

// ErrEmptyChange is returned by writers when the transformed content is
// identical to what the destination already holds.
var ErrEmptyChange = errs.New("nothing to write to the destination")

// Writer is the common behaviour every destination exposes. Write reads
// the full accessor surface of the result, including the confirmation
// flag and the optional baseline (absent means head).
type Writer interface {
	Configure(any) error // driver-specific YAML ⇒ struct
	Write(ctx context.Context, res *transform.Result) error
	Close() error // idempotent
}

// Confirmer is *optional*; writers that honor AskForConfirmation
// implement it and the compiler wires the prompt if present.
type Confirmer interface {
	BindConfirm(func(prompt string) bool)
}

/*──────── registry ───────*/

type Factory func() Writer

var registry = map[string]Factory{}

func Register(name string, f Factory) { registry[name] = f }

func NewWriter(name string) (Writer, error) {
	if f, ok := registry[name]; ok {
		return f(), nil
	}
	return nil, errs.Newf("destination: unsupported kind %q", name)
}
