package spec

// TransformationSpec is one message rewrite applied between origin and
// destination.
type TransformationSpec struct {
	Type        string `yaml:"type"` // "add_label", "scrub"
	Name        string `yaml:"name"`
	Value       string `yaml:"value"`
	Pattern     string `yaml:"pattern"`
	Replacement string `yaml:"replacement"`
}

// WorkflowSpec names one configured migration: where content comes
// from, where it goes, and how its description is rewritten on the way.
type WorkflowSpec struct {
	Name string `yaml:"name"`

	Origin struct {
		Kind   string `yaml:"kind"`   // "git", "folder"
		Config string `yaml:"config"` // path to the adapter config, relative to this file
	} `yaml:"origin"`

	Destination struct {
		Kind   string `yaml:"kind"` // "git", "folder"
		Config string `yaml:"config"`
	} `yaml:"destination"`

	Author             string `yaml:"author"` // "Name <email>"
	DefaultRef         string `yaml:"default_ref"`
	Summary            string `yaml:"summary"` // override for the generated description
	Baseline           string `yaml:"baseline"`
	AskForConfirmation bool   `yaml:"ask_for_confirmation"`

	// Ordered list of message transformations applied before writing.
	Transformations []TransformationSpec `yaml:"transformations"`
}

type File struct {
	SchemaVersion string         `yaml:"schema_version"`
	Workflows     []WorkflowSpec `yaml:"workflows"`
}
