// Package git reads migration content out of a local git repository.
package git

import (
	"context"
	"os"
	"path/filepath"
	"time"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/filemode"
	"github.com/go-git/go-git/v5/plumbing/object"

	"ferry/internal/errs"
	"ferry/internal/revision"
	"ferry/origin"
)

// RevIDLabel carries the origin commit hash on revisions produced here.
const RevIDLabel = "GitOrigin-RevId"

// Revision is a resolved commit. ReadTimestamp consults the repository
// again, so a repo that has gone away surfaces as ErrRepoAccess.
type Revision struct {
	repo   *gogit.Repository
	hash   plumbing.Hash
	ctxRef string
}

func (r *Revision) ReadTimestamp(ctx context.Context) (*time.Time, error) {
	c, err := r.repo.CommitObject(r.hash)
	if err != nil {
		return nil, errs.Mark(errs.Wrapf(err, "git-origin: commit %s", r.hash), errs.ErrRepoAccess)
	}
	t := c.Committer.When
	return &t, nil
}

func (r *Revision) String() string { return r.hash.String() }

func (r *Revision) ContextReference() string { return r.ctxRef }

func (r *Revision) AssociatedLabels() map[string][]string {
	return map[string][]string{RevIDLabel: {r.hash.String()}}
}

/*──────── driver ───────*/

type driver struct {
	cfg  Config
	repo *gogit.Repository
}

func (d *driver) Configure(raw any) error {
	c, ok := raw.(Config)
	if !ok {
		return errs.Newf("git-origin: expected Config, got %T", raw)
	}
	d.cfg = c

	repo, err := gogit.PlainOpen(c.Repo)
	if err != nil {
		return errs.Mark(errs.Wrapf(err, "git-origin: open %s", c.Repo), errs.ErrRepoAccess)
	}
	d.repo = repo
	return nil
}

func (d *driver) Resolve(ctx context.Context, ref string) (revision.Revision, error) {
	if ref == "" {
		ref = d.cfg.DefaultRef
	}
	h, err := d.repo.ResolveRevision(plumbing.Revision(ref))
	if err != nil {
		return nil, errs.Mark(errs.Wrapf(err, "git-origin: resolve %q", ref), errs.ErrRepoAccess)
	}
	return &Revision{repo: d.repo, hash: *h, ctxRef: ref}, nil
}

func (d *driver) Checkout(ctx context.Context, rev revision.Revision, dir string) error {
	grev, ok := rev.(*Revision)
	if !ok {
		return errs.Newf("git-origin: expected git revision, got %T", rev)
	}
	commit, err := d.repo.CommitObject(grev.hash)
	if err != nil {
		return errs.Mark(errs.Wrapf(err, "git-origin: commit %s", grev.hash), errs.ErrRepoAccess)
	}
	tree, err := commit.Tree()
	if err != nil {
		return errs.Mark(errs.Wrapf(err, "git-origin: tree of %s", grev.hash), errs.ErrRepoAccess)
	}
	return tree.Files().ForEach(func(f *object.File) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		return writeBlob(f, dir)
	})
}

func (d *driver) Close() error { return nil }

func writeBlob(f *object.File, dir string) error {
	target := filepath.Join(dir, filepath.FromSlash(f.Name))
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return err
	}
	contents, err := f.Contents()
	if err != nil {
		return errs.Mark(errs.Wrapf(err, "git-origin: read %s", f.Name), errs.ErrRepoAccess)
	}
	perm := os.FileMode(0o644)
	if f.Mode == filemode.Executable {
		perm = 0o755
	}
	return os.WriteFile(target, []byte(contents), perm)
}

func init() { origin.Register("git", func() origin.Adapter { return &driver{} }) }
