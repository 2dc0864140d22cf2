package errs

import "testing"

func TestSentinelSurvivesWrap(t *testing.T) {
	err := Wrapf(ErrRepoAccess, "resolving %q", "HEAD")
	if !Is(err, ErrRepoAccess) {
		t.Fatalf("wrapped error lost its kind: %v", err)
	}
	if Is(err, ErrInvalidArgument) {
		t.Fatalf("error matches the wrong kind: %v", err)
	}
}

func TestMarkAttachesKind(t *testing.T) {
	cause := New("dial tcp: connection refused")
	err := Mark(Wrap(cause, "git-origin: open repo"), ErrRepoAccess)
	if !Is(err, ErrRepoAccess) {
		t.Fatalf("marked error does not match kind: %v", err)
	}
}
