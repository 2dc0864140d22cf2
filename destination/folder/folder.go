// Package folder writes migrated content to a plain directory, with a
// metadata file describing the change next to the content.
package folder

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	goyaml "gopkg.in/yaml.v3"

	"ferry/destination"
	"ferry/internal/errs"
	"ferry/internal/fsutil"
	"ferry/internal/transform"
)

type Config struct {
	// Root is the directory the content tree is copied into.
	Root string `koanf:"root"`
	// MetadataFile is written under Root; defaults to ".ferry.yml".
	MetadataFile string `koanf:"metadata_file"`
}

// LoadConfig merges YAML (if present) with env-vars
// (prefix `FERRY_FOLDER_DESTINATION__`, delimiter `__`).
func LoadConfig(path string) (Config, error) {
	k := koanf.New(".")
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil &&
			!errors.Is(err, fs.ErrNotExist) {
			return Config{}, err
		}
	}
	_ = k.Load(env.Provider("FERRY_FOLDER_DESTINATION__", "__", nil), nil)

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return cfg, err
	}
	if cfg.MetadataFile == "" {
		cfg.MetadataFile = ".ferry.yml"
	}
	return cfg, nil
}

/*──────── metadata ───────*/

type metadataLabel struct {
	Name  string `yaml:"name"`
	Value string `yaml:"value"`
}

type metadata struct {
	Workflow          string          `yaml:"workflow"`
	Summary           string          `yaml:"summary"`
	Author            string          `yaml:"author"`
	Timestamp         time.Time       `yaml:"timestamp"`
	CurrentRevision   string          `yaml:"current_revision"`
	RequestedRevision string          `yaml:"requested_revision"`
	Baseline          string          `yaml:"baseline,omitempty"`
	ChangeIdentity    string          `yaml:"change_identity,omitempty"`
	Labels            []metadataLabel `yaml:"labels,omitempty"`
}

/*──────── writer ───────*/

type writer struct {
	cfg     Config
	confirm func(string) bool
}

func (w *writer) Configure(raw any) error {
	c, ok := raw.(Config)
	if !ok {
		return errs.Newf("folder-destination: expected Config, got %T", raw)
	}
	if c.Root == "" {
		return errs.Wrap(errs.ErrInvalidArgument, "folder-destination: root is empty")
	}
	if c.MetadataFile == "" {
		c.MetadataFile = ".ferry.yml"
	}
	w.cfg = c
	return nil
}

func (w *writer) Write(ctx context.Context, res *transform.Result) error {
	if res.AskForConfirmation() {
		if w.confirm == nil {
			return errs.Newf("folder-destination: confirmation required but no prompt bound")
		}
		if !w.confirm(fmt.Sprintf("write %s to %s?", res.CurrentRevision(), w.cfg.Root)) {
			return errs.Newf("folder-destination: write declined")
		}
	}

	if err := os.MkdirAll(w.cfg.Root, 0o755); err != nil {
		return err
	}
	if err := fsutil.CopyTree(res.Path(), w.cfg.Root); err != nil {
		return errs.Wrapf(err, "folder-destination: copy into %s", w.cfg.Root)
	}

	md := metadata{
		Workflow:          res.WorkflowName(),
		Summary:           res.Summary(),
		Author:            res.Author().String(),
		Timestamp:         res.Timestamp(),
		CurrentRevision:   res.CurrentRevision().String(),
		RequestedRevision: res.RequestedRevision().String(),
	}
	if b, ok := res.Baseline(); ok {
		md.Baseline = b
	}
	if id, ok := res.ChangeIdentity(); ok {
		md.ChangeIdentity = id
	}
	for _, l := range res.FindAllLabels() {
		md.Labels = append(md.Labels, metadataLabel{Name: l.Name(), Value: l.Value()})
	}
	raw, err := goyaml.Marshal(md)
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(w.cfg.Root, w.cfg.MetadataFile), raw, 0o644)
}

func (w *writer) Close() error { return nil }

func (w *writer) BindConfirm(fn func(string) bool) { w.confirm = fn }

func init() { destination.Register("folder", func() destination.Writer { return &writer{} }) }
