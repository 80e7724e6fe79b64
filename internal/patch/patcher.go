package patch

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/spf13/afero"

	oerrors "github.com/IBM/generator-ibm-cloud-assets/internal/errors"
	"github.com/IBM/generator-ibm-cloud-assets/internal/fsutil"
	"github.com/IBM/generator-ibm-cloud-assets/internal/output"
)

// Patcher applies Jobs to artifacts on a filesystem.
type Patcher struct {
	fs     afero.Fs
	dryRun bool
	log    *log.Logger
}

// Option configures a Patcher.
type Option func(*Patcher)

// WithDryRun computes results without writing.
func WithDryRun(dryRun bool) Option {
	return func(p *Patcher) { p.dryRun = dryRun }
}

// WithLogger sets the logger. The package logger is used otherwise.
func WithLogger(l *log.Logger) Option {
	return func(p *Patcher) { p.log = l }
}

// NewPatcher returns a Patcher rooted at fsys.
func NewPatcher(fsys afero.Fs, opts ...Option) *Patcher {
	p := &Patcher{fs: fsys}
	for _, opt := range opts {
		opt(p)
	}
	if p.log == nil {
		p.log = output.Logger
	}
	return p
}

// Apply runs job against its artifact. A missing artifact yields
// StatusNotFound and no error. The artifact is either fully rewritten or
// left untouched.
func (p *Patcher) Apply(job Job) (Result, error) {
	res := Result{Path: job.Path, Kind: job.Kind}

	before, err := p.read(job.Path)
	if err != nil {
		if errors.Is(err, oerrors.ErrArtifactNotFound) {
			p.log.Info("artifact not found, skipping", "path", job.Path)
			res.Status = StatusNotFound
			return res, nil
		}
		return res, err
	}
	res.Before = before

	var (
		after []byte
		added []string
	)
	switch job.Kind {
	case KindDeployment:
		after, res.Status, added = PatchDeploymentEnv(before, job.Env)
	case KindValues:
		after, res.Status, added = PatchValues(before, job.Services)
	case KindKnative:
		after, res.Status, added, err = PatchKnativeEnv(before, job.Env)
		if err != nil {
			return res, fmt.Errorf("%s: %w", job.Path, err)
		}
	default:
		return res, fmt.Errorf("unknown patch kind %q", job.Kind)
	}
	res.After = after
	res.Added = added

	switch res.Status {
	case StatusAnchorMissing:
		p.log.Warn("no insertion point found, artifact left unchanged", "path", job.Path, "kind", job.Kind)
		return res, nil
	case StatusEnvExists:
		p.log.Info("env already exists, not overwriting", "path", job.Path)
		return res, nil
	case StatusUnchanged:
		p.log.Debug("bindings already present", "path", job.Path)
		return res, nil
	}

	if p.dryRun {
		p.log.Debug("dry run, not writing", "path", job.Path, "added", added)
		return res, nil
	}
	if err := fsutil.WriteAtomic(p.fs, job.Path, after); err != nil {
		return res, fmt.Errorf("writing %s: %w", job.Path, err)
	}
	p.log.Info("patched artifact", "path", job.Path, "added", added)
	return res, nil
}

// PatchDeploymentEnv applies a deployment job for path.
func (p *Patcher) PatchDeploymentEnv(path string, bindings []EnvBinding) (Result, error) {
	return p.Apply(Job{Path: path, Kind: KindDeployment, Env: bindings})
}

func (p *Patcher) read(path string) ([]byte, error) {
	data, ok, err := fsutil.ReadIfExists(p.fs, path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	if !ok {
		return nil, fmt.Errorf("%s: %w", path, oerrors.ErrArtifactNotFound)
	}
	return data, nil
}
