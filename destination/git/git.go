// Package git commits migrated content into a local git repository's
// worktree, attributed to the result's author and timestamp.
package git

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"ferry/destination"
	"ferry/internal/errs"
	"ferry/internal/fsutil"
	"ferry/internal/logging"
	"ferry/internal/message"
	"ferry/internal/transform"
)

// RevIDLabel records the origin revision on every commit written here.
const RevIDLabel = "GitOrigin-RevId"

type Config struct {
	// Repo is the path of the local repository to commit into.
	Repo string `koanf:"repo"`
}

// LoadConfig merges YAML (if present) with env-vars
// (prefix `FERRY_GIT_DESTINATION__`, delimiter `__`).
func LoadConfig(path string) (Config, error) {
	k := koanf.New(".")
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil &&
			!errors.Is(err, fs.ErrNotExist) {
			return Config{}, err
		}
	}
	_ = k.Load(env.Provider("FERRY_GIT_DESTINATION__", "__", nil), nil)

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

type writer struct {
	cfg     Config
	repo    *gogit.Repository
	confirm func(string) bool
}

func (w *writer) Configure(raw any) error {
	c, ok := raw.(Config)
	if !ok {
		return errs.Newf("git-destination: expected Config, got %T", raw)
	}
	w.cfg = c

	repo, err := gogit.PlainOpen(c.Repo)
	if err != nil {
		return errs.Mark(errs.Wrapf(err, "git-destination: open %s", c.Repo), errs.ErrRepoAccess)
	}
	w.repo = repo
	return nil
}

func (w *writer) Write(ctx context.Context, res *transform.Result) error {
	if res.AskForConfirmation() {
		if w.confirm == nil {
			return errs.Newf("git-destination: confirmation required but no prompt bound")
		}
		if !w.confirm(fmt.Sprintf("commit %s to %s?", res.CurrentRevision(), w.cfg.Repo)) {
			return errs.Newf("git-destination: write declined")
		}
	}

	if baseline, ok := res.Baseline(); ok {
		if err := w.checkBaseline(baseline); err != nil {
			return err
		}
	}

	wt, err := w.repo.Worktree()
	if err != nil {
		return errs.Mark(errs.Wrap(err, "git-destination: worktree"), errs.ErrRepoAccess)
	}
	root := wt.Filesystem.Root()
	if err := clearWorktree(root); err != nil {
		return errs.Wrapf(err, "git-destination: clear %s", root)
	}
	if err := fsutil.CopyTree(res.Path(), root); err != nil {
		return errs.Wrapf(err, "git-destination: copy into %s", root)
	}
	if err := wt.AddWithOptions(&gogit.AddOptions{All: true}); err != nil {
		return errs.Mark(errs.Wrap(err, "git-destination: stage"), errs.ErrRepoAccess)
	}
	status, err := wt.Status()
	if err != nil {
		return errs.Mark(errs.Wrap(err, "git-destination: status"), errs.ErrRepoAccess)
	}
	if status.IsClean() {
		return errs.Wrapf(destination.ErrEmptyChange, "revision %s", res.CurrentRevision())
	}

	msg := message.ParseMessage(res.Summary()).
		AddOrReplaceLabel(RevIDLabel, res.CurrentRevision().String()).Text()
	sig := &object.Signature{
		Name:  res.Author().Name(),
		Email: res.Author().Email(),
		When:  res.Timestamp(),
	}
	hash, err := wt.Commit(msg, &gogit.CommitOptions{Author: sig, Committer: sig})
	if err != nil {
		return errs.Mark(errs.Wrap(err, "git-destination: commit"), errs.ErrRepoAccess)
	}
	logging.L().Info("committed migration",
		"workflow", res.WorkflowName(), "commit", hash.String())
	return nil
}

// checkBaseline requires the baseline to resolve in this repo and to be
// an ancestor of head: conflicts against newer work are left to the
// repo's own merge tooling.
func (w *writer) checkBaseline(baseline string) error {
	h, err := w.repo.ResolveRevision(plumbing.Revision(baseline))
	if err != nil {
		return errs.Mark(errs.Wrapf(err, "git-destination: baseline %q", baseline), errs.ErrRepoAccess)
	}
	base, err := w.repo.CommitObject(*h)
	if err != nil {
		return errs.Mark(errs.Wrapf(err, "git-destination: baseline commit %s", h), errs.ErrRepoAccess)
	}
	headRef, err := w.repo.Head()
	if err != nil {
		return errs.Mark(errs.Wrap(err, "git-destination: head"), errs.ErrRepoAccess)
	}
	head, err := w.repo.CommitObject(headRef.Hash())
	if err != nil {
		return errs.Mark(errs.Wrap(err, "git-destination: head commit"), errs.ErrRepoAccess)
	}
	ancestor, err := base.IsAncestor(head)
	if err != nil {
		return errs.Mark(errs.Wrapf(err, "git-destination: baseline %q", baseline), errs.ErrRepoAccess)
	}
	if !ancestor {
		return errs.Newf("git-destination: baseline %q is not an ancestor of head", baseline)
	}
	return nil
}

func clearWorktree(root string) error {
	entries, err := os.ReadDir(root)
	if err != nil {
		return err
	}
	for _, e := range entries {
		if e.Name() == ".git" {
			continue
		}
		if err := os.RemoveAll(filepath.Join(root, e.Name())); err != nil {
			return err
		}
	}
	return nil
}

func (w *writer) Close() error { return nil }

func (w *writer) BindConfirm(fn func(string) bool) { w.confirm = fn }

func init() { destination.Register("git", func() destination.Writer { return &writer{} }) }
