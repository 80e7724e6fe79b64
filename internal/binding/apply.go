package binding

import (
	"errors"
	"fmt"
	"path/filepath"

	oerrors "github.com/IBM/generator-ibm-cloud-assets/internal/errors"
	"github.com/IBM/generator-ibm-cloud-assets/internal/fsutil"
	"github.com/IBM/generator-ibm-cloud-assets/internal/output"
	"github.com/IBM/generator-ibm-cloud-assets/internal/patch"
)

// FileResult describes what happened to one output file.
type FileResult struct {
	Path   string
	Status string
	// Added lists new keys, env var names or service ids.
	Added  []string
	Before []byte
	After  []byte
}

// Changed reports whether the content differs.
func (r FileResult) Changed() bool {
	return r.Before == nil || string(r.Before) != string(r.After)
}

// Report is the outcome of Apply.
type Report struct {
	Mappings FileResult
	LocalDev FileResult
	Patches  []patch.Result
}

// Changes returns every file whose content Apply changed, or would change
// in a dry run.
func (r *Report) Changes() []output.FileChange {
	var changes []output.FileChange
	for _, f := range []FileResult{r.Mappings, r.LocalDev} {
		if f.Path != "" && f.Changed() {
			changes = append(changes, output.FileChange{Path: f.Path, Before: f.Before, After: f.After})
		}
	}
	for _, p := range r.Patches {
		if p.Changed() {
			changes = append(changes, output.FileChange{Path: p.Path, Before: p.Before, After: p.After})
		}
	}
	return changes
}

// Apply writes plan. The mappings and local-dev files are merged into any
// existing content; a failure writing either aborts. Dependency and
// artifact failures are collected and returned together after every
// artifact has been attempted.
func (o *Orchestrator) Apply(plan *Plan) (*Report, error) {
	report := &Report{}

	mappingsPath := filepath.Join(o.cfg.Dir, o.paths.Mappings)
	res, err := mergeFileEntries(o, mappingsPath, plan.Mappings)
	if err != nil {
		return report, fmt.Errorf("%w: %s: %v", oerrors.ErrMappingFileWrite, mappingsPath, err)
	}
	report.Mappings = res

	localDevPath := filepath.Join(o.cfg.Dir, o.paths.LocalDev)
	res, err = mergeFileEntries(o, localDevPath, plan.LocalDev)
	if err != nil {
		return report, fmt.Errorf("%w: %s: %v", oerrors.ErrLocalDevFileWrite, localDevPath, err)
	}
	report.LocalDev = res

	var errs []error
	if !o.cfg.DryRun {
		for _, d := range plan.Descriptors {
			if err := o.cfg.Updater.Update(d); err != nil {
				errs = append(errs, fmt.Errorf("recording dependency %q: %w", d, err))
			}
		}
	}

	patcher := patch.NewPatcher(o.cfg.Fs, patch.WithDryRun(o.cfg.DryRun), patch.WithLogger(o.log))
	for _, job := range plan.Jobs {
		if job.Empty() {
			continue
		}
		r, err := patcher.Apply(job)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		report.Patches = append(report.Patches, r)
	}

	return report, errors.Join(errs...)
}

// mergeFileEntries merges entries into the JSON object at path.
func mergeFileEntries[V any](o *Orchestrator, path string, entries map[string]V) (FileResult, error) {
	res := FileResult{Path: path}

	before, ok, err := fsutil.ReadIfExists(o.cfg.Fs, path)
	if err != nil {
		return res, err
	}
	if ok {
		res.Before = before
	}

	after, added, err := mergeJSON(before, entries)
	if err != nil {
		return res, err
	}
	res.After = after
	res.Added = added

	switch {
	case !res.Changed():
		res.Status = output.StatusUnchanged
		o.log.Debug("no new keys", "path", path)
		return res, nil
	case o.cfg.DryRun:
		res.Status = output.StatusWritten
		return res, nil
	}

	if err := fsutil.WriteAtomic(o.cfg.Fs, path, after); err != nil {
		return res, err
	}
	res.Status = output.StatusWritten
	o.log.Info("wrote file", "path", path, "added", len(added))
	return res, nil
}
