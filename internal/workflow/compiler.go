package workflow

import (
	"ferry/destination"
	folderdest "ferry/destination/folder"
	gitdest "ferry/destination/git"
	"ferry/internal/authoring"
	"ferry/internal/config"
	"ferry/internal/errs"
	"ferry/origin"
	folderorigin "ferry/origin/folder"
	gitorigin "ferry/origin/git"
)

// Compile loads the named workflow from a spec file and wires its
// origin, destination, and transformations into a Runner. confirm is
// bound to destinations that honor AskForConfirmation; nil leaves
// confirmation unbound.
func Compile(path, name string, confirm func(string) bool) (*Runner, error) {
	wf, err := config.LoadWorkflowSpec(path, name)
	if err != nil {
		return nil, err
	}
	if wf.Author == "" {
		return nil, errs.Newf("workflow %q: author is required", name)
	}
	author, err := authoring.Parse(wf.Author)
	if err != nil {
		return nil, errs.Wrapf(err, "workflow %q", name)
	}

	src, err := origin.NewAdapter(wf.Origin.Kind)
	if err != nil {
		return nil, err
	}
	var ocfg any
	switch wf.Origin.Kind {
	case "git":
		ocfg, err = gitorigin.LoadConfig(wf.Origin.Config)
	case "folder":
		ocfg, err = folderorigin.LoadConfig(wf.Origin.Config)
	}
	if err != nil {
		return nil, errs.Wrapf(err, "origin %q config", wf.Origin.Kind)
	}
	if err := src.Configure(ocfg); err != nil {
		return nil, errs.Wrapf(err, "origin %q", wf.Origin.Kind)
	}

	dst, err := destination.NewWriter(wf.Destination.Kind)
	if err != nil {
		return nil, err
	}
	var dcfg any
	switch wf.Destination.Kind {
	case "git":
		dcfg, err = gitdest.LoadConfig(wf.Destination.Config)
	case "folder":
		dcfg, err = folderdest.LoadConfig(wf.Destination.Config)
	}
	if err != nil {
		return nil, errs.Wrapf(err, "destination %q config", wf.Destination.Kind)
	}
	if err := dst.Configure(dcfg); err != nil {
		return nil, errs.Wrapf(err, "destination %q", wf.Destination.Kind)
	}
	if cw, ok := dst.(destination.Confirmer); ok && confirm != nil {
		cw.BindConfirm(confirm)
	}

	transforms, err := compileTransformations(wf.Transformations)
	if err != nil {
		return nil, errs.Wrapf(err, "workflow %q", name)
	}

	return &Runner{
		name:       name,
		specPath:   path,
		author:     author,
		origin:     src,
		dest:       dst,
		transforms: transforms,
		defaultRef: wf.DefaultRef,
		summary:    wf.Summary,
		baseline:   wf.Baseline,
		ask:        wf.AskForConfirmation,
	}, nil
}
