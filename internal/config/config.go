package config

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"ferry/internal/errs"
	"ferry/internal/spec"
)

const SupportedSchema = "v1"

// LoadFile parses a workflow YAML and validates schema_version.
func LoadFile(path string) (spec.File, error) {
	var cfg spec.File
	raw, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return cfg, err
	}
	if cfg.SchemaVersion == "" {
		cfg.SchemaVersion = SupportedSchema
	}
	if cfg.SchemaVersion != SupportedSchema {
		return cfg, errs.Newf("workflow schema_version %q not supported (want %q)", cfg.SchemaVersion, SupportedSchema)
	}
	return cfg, nil
}

// LoadWorkflowSpec returns the named workflow from a workflow YAML,
// with adapter config paths resolved relative to the file.
func LoadWorkflowSpec(path, name string) (spec.WorkflowSpec, error) {
	cfg, err := LoadFile(path)
	if err != nil {
		return spec.WorkflowSpec{}, err
	}
	for _, wf := range cfg.Workflows {
		if wf.Name != name {
			continue
		}
		dir := filepath.Dir(path)
		wf.Origin.Config = absolutize(dir, wf.Origin.Config)
		wf.Destination.Config = absolutize(dir, wf.Destination.Config)
		return wf, nil
	}
	return spec.WorkflowSpec{}, errs.Newf("workflow %q not found in %s", name, path)
}

func absolutize(dir, p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(dir, p)
}
