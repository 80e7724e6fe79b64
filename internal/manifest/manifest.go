// Package manifest builds Cloud Foundry manifest.yml and .cfignore files.
package manifest

import (
	"bytes"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"

	oerrors "github.com/IBM/generator-ibm-cloud-assets/internal/errors"
	"github.com/IBM/generator-ibm-cloud-assets/internal/fsutil"
	"github.com/IBM/generator-ibm-cloud-assets/internal/language"
	"github.com/IBM/generator-ibm-cloud-assets/internal/naming"
	"github.com/IBM/generator-ibm-cloud-assets/internal/quantity"
)

const (
	// FileName is the manifest file name.
	FileName = "manifest.yml"
	// IgnoreFileName is the push ignore file name.
	IgnoreFileName = ".cfignore"

	goPackageEnv = "GOPACKAGENAME"
)

// Manifest is a Cloud Foundry application manifest.
type Manifest struct {
	Applications []Application `yaml:"applications"`
}

// Application is one entry of a manifest.
type Application struct {
	Name      string            `yaml:"name"`
	Instances int               `yaml:"instances,omitempty"`
	Buildpack string            `yaml:"buildpack,omitempty"`
	Command   string            `yaml:"command,omitempty"`
	Memory    string            `yaml:"memory,omitempty"`
	Env       map[string]string `yaml:"env,omitempty"`
	Services  []string          `yaml:"services,omitempty"`
}

// Options are the inputs to Build.
type Options struct {
	Language language.Language
	AppName  string
	// Memory is the user-declared memory.
	Memory string
	// MinMemory is the caller-supplied floor, used where the language
	// allows one.
	MinMemory string
	// Instances defaults to 1.
	Instances int
	// Services are the bound service instance names.
	Services    []string
	Env         map[string]string
	IgnorePaths []string
}

// Result is a built manifest and its ignore list.
type Result struct {
	Manifest Manifest
	CFIgnore []string
}

// Build computes the manifest for opts. existing is the current
// manifest.yml, if any; its command (and GOPACKAGENAME for GO) survive for
// languages that keep them.
func Build(opts Options, existing *Manifest) (Result, error) {
	defaults, ok := language.CloudFoundry(opts.Language)
	if !ok {
		return Result{}, oerrors.NewValidationError(
			fmt.Sprintf("no Cloud Foundry defaults for language %q", opts.Language),
			"", "language", "",
		)
	}

	memory, err := resolveMemory(defaults, opts)
	if err != nil {
		return Result{}, err
	}

	app := Application{
		Name:      naming.SanitizeAlphaNumDash(opts.AppName),
		Instances: opts.Instances,
		Buildpack: defaults.Buildpack,
		Command:   defaults.Command,
		Memory:    memory,
		Env:       map[string]string{},
	}
	if app.Instances <= 0 {
		app.Instances = 1
	}
	for k, v := range defaults.Env {
		app.Env[k] = v
	}

	prev := existing.first()
	switch opts.Language {
	case language.Swift:
		if opts.AppName != "" {
			app.Command = "'" + opts.AppName + "'"
		}
	case language.Django:
		app.Command = fmt.Sprintf("gunicorn --env DJANGO_SETTINGS_MODULE=%[1]s.settings.production %[1]s.wsgi -b 0.0.0.0:$PORT", opts.AppName)
	case language.Go:
		app.Env[goPackageEnv] = app.Name
		if prev != nil && prev.Env[goPackageEnv] != "" {
			app.Env[goPackageEnv] = prev.Env[goPackageEnv]
		}
	}
	if defaults.PreserveCommand && prev != nil && prev.Command != "" {
		app.Command = prev.Command
	}

	for k, v := range opts.Env {
		app.Env[k] = v
	}
	if len(app.Env) == 0 {
		app.Env = nil
	}

	app.Services = uniqueSorted(opts.Services)

	ignore := append([]string(nil), defaults.CFIgnore...)
	ignore = append(ignore, opts.IgnorePaths...)

	return Result{
		Manifest: Manifest{Applications: []Application{app}},
		CFIgnore: ignore,
	}, nil
}

func resolveMemory(defaults language.CFDefaults, opts Options) (string, error) {
	switch {
	case defaults.MinMemoryFromOption:
		if opts.Memory == "" && opts.MinMemory == "" {
			return "", nil
		}
		return quantity.Max(opts.Memory, opts.MinMemory)
	case defaults.MinMemory != "":
		return quantity.Max(opts.Memory, defaults.MinMemory)
	case opts.Memory != "":
		if _, err := quantity.Parse(opts.Memory); err != nil {
			return "", err
		}
		return opts.Memory, nil
	default:
		return defaults.DefaultMemory, nil
	}
}

func (m *Manifest) first() *Application {
	if m == nil || len(m.Applications) == 0 {
		return nil
	}
	return &m.Applications[0]
}

func uniqueSorted(in []string) []string {
	if len(in) == 0 {
		return nil
	}
	seen := make(map[string]bool, len(in))
	var out []string
	for _, s := range in {
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}

// Encode renders m as YAML.
func Encode(m Manifest) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(m); err != nil {
		return nil, fmt.Errorf("encoding manifest: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("encoding manifest: %w", err)
	}
	return buf.Bytes(), nil
}

// EncodeIgnore renders the .cfignore content.
func EncodeIgnore(entries []string) []byte {
	if len(entries) == 0 {
		return nil
	}
	return []byte(strings.Join(entries, "\n") + "\n")
}

// ReadExisting loads dir/manifest.yml. A missing or unparseable file
// yields nil.
func ReadExisting(fsys afero.Fs, dir string) *Manifest {
	data, ok, err := fsutil.ReadIfExists(fsys, filepath.Join(dir, FileName))
	if err != nil || !ok {
		return nil
	}
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil
	}
	return &m
}

// File is one rendered output.
type File struct {
	Path   string
	Before []byte
	After  []byte
}

// Render returns the files Build's result produces under dir, with their
// current content for diffing.
func Render(fsys afero.Fs, dir string, res Result) ([]File, error) {
	manifestData, err := Encode(res.Manifest)
	if err != nil {
		return nil, err
	}

	outputs := []File{{Path: filepath.Join(dir, FileName), After: manifestData}}
	if ignore := EncodeIgnore(res.CFIgnore); ignore != nil {
		outputs = append(outputs, File{Path: filepath.Join(dir, IgnoreFileName), After: ignore})
	}

	for i := range outputs {
		before, ok, err := fsutil.ReadIfExists(fsys, outputs[i].Path)
		if err != nil {
			return nil, err
		}
		if ok {
			outputs[i].Before = before
		}
	}
	return outputs, nil
}

// Write writes files atomically.
func Write(fsys afero.Fs, files []File) error {
	for _, f := range files {
		if err := fsutil.WriteAtomic(fsys, f.Path, f.After); err != nil {
			return fmt.Errorf("writing %s: %w", f.Path, err)
		}
	}
	return nil
}
