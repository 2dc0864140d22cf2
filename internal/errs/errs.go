// Package errs centralizes error construction for ferry.
//
// It re-exports github.com/cockroachdb/errors so call sites get stack
// traces and wrapping without importing two error packages, and it
// defines the sentinel kinds shared across the codebase. Check kinds
// with errs.Is.
package errs

import crdb "github.com/cockroachdb/errors"

var (
	New    = crdb.New
	Newf   = crdb.Newf
	Wrap   = crdb.Wrap
	Wrapf  = crdb.Wrapf
	Mark   = crdb.Mark
	Is     = crdb.Is
	As     = crdb.As
	Unwrap = crdb.Unwrap
)

// Sentinel kinds. Wrap or Mark these to add context while keeping the
// kind checkable with Is.
var (
	// ErrRepoAccess indicates an origin or destination repository could
	// not be queried.
	ErrRepoAccess = New("repository access")

	// ErrInvalidArgument indicates a required value was absent or
	// malformed at a construction or derivation boundary.
	ErrInvalidArgument = New("invalid argument")
)
