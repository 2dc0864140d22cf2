// Package folder serves migration content from a plain directory. The
// revision it produces has no timestamp of its own, so results built
// from it carry the construction-time clock.
package folder

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"ferry/internal/errs"
	"ferry/internal/fsutil"
	"ferry/internal/revision"
	"ferry/origin"
)

type Config struct {
	// Root is the directory whose tree is migrated.
	Root string `koanf:"root"`
}

// LoadConfig merges YAML (if present) with env-vars
// (prefix `FERRY_FOLDER_ORIGIN__`, delimiter `__`).
func LoadConfig(path string) (Config, error) {
	k := koanf.New(".")
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil &&
			!errors.Is(err, fs.ErrNotExist) {
			return Config{}, err
		}
	}
	_ = k.Load(env.Provider("FERRY_FOLDER_ORIGIN__", "__", nil), nil)

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

type driver struct {
	cfg Config
}

func (d *driver) Configure(raw any) error {
	c, ok := raw.(Config)
	if !ok {
		return errs.Newf("folder-origin: expected Config, got %T", raw)
	}
	if c.Root == "" {
		return errs.Wrap(errs.ErrInvalidArgument, "folder-origin: root is empty")
	}
	abs, err := filepath.Abs(c.Root)
	if err != nil {
		return err
	}
	if _, err := os.Stat(abs); err != nil {
		return errs.Mark(errs.Wrapf(err, "folder-origin: stat %s", abs), errs.ErrRepoAccess)
	}
	c.Root = abs
	d.cfg = c
	return nil
}

func (d *driver) Resolve(ctx context.Context, ref string) (revision.Revision, error) {
	return revision.Literal{ID: d.cfg.Root, CtxRef: ref}, nil
}

func (d *driver) Checkout(ctx context.Context, rev revision.Revision, dir string) error {
	return fsutil.CopyTree(rev.String(), dir)
}

func (d *driver) Close() error { return nil }

func init() { origin.Register("folder", func() origin.Adapter { return &driver{} }) }
