package git

import (
	"errors"
	"io/fs"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

type Config struct {
	// Repo is the path of the local repository to read from.
	Repo string `koanf:"repo"`
	// DefaultRef is resolved when the caller supplies none.
	DefaultRef string `koanf:"default_ref"`
}

// LoadConfig merges YAML (if present) with env-vars
// (prefix `FERRY_GIT_ORIGIN__`, delimiter `__`).
func LoadConfig(path string) (Config, error) {
	k := koanf.New(".")
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil &&
			!errors.Is(err, fs.ErrNotExist) {
			return Config{}, err
		}
	}
	_ = k.Load(env.Provider("FERRY_GIT_ORIGIN__", "__", nil), nil)

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return cfg, err
	}
	if cfg.DefaultRef == "" {
		cfg.DefaultRef = "HEAD"
	}
	return cfg, nil
}
