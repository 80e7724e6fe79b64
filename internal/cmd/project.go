package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/IBM/generator-ibm-cloud-assets/internal/cmdtypes"
	"github.com/IBM/generator-ibm-cloud-assets/internal/cmdutil"
	"github.com/IBM/generator-ibm-cloud-assets/internal/config"
	oerrors "github.com/IBM/generator-ibm-cloud-assets/internal/errors"
	"github.com/IBM/generator-ibm-cloud-assets/internal/language"
	"github.com/IBM/generator-ibm-cloud-assets/internal/output"
)

// project is the resolved context shared by bind and manifest.
type project struct {
	cfg      *config.Config
	language language.Language
	dir      string
	appName  string
}

func resolveProject(gc *cmdtypes.GlobalConfig, flags *cmdutil.ProjectFlags) (*project, error) {
	cfg, err := gc.Load()
	if err != nil {
		return nil, fmt.Errorf("loading config %s: %w", gc.ConfigPath, err)
	}

	lang, langValue, err := cmdutil.ResolveLanguage(flags.Language, cfg)
	if err != nil {
		return nil, err
	}
	config.LogResolvedValues(output.Logger, langValue)

	dir := flags.Dir
	if dir == "" {
		dir = "."
	}
	appName := flags.AppName
	if appName == "" {
		abs, err := filepath.Abs(dir)
		if err != nil {
			return nil, fmt.Errorf("resolving project directory: %w", err)
		}
		appName = filepath.Base(abs)
	}

	return &project{cfg: cfg, language: lang, dir: dir, appName: appName}, nil
}

// exitError wraps err with the exit code its kind maps to.
func exitError(err error, printed bool) error {
	if err == nil {
		return nil
	}
	return &oerrors.ExitError{Code: oerrors.ExitCodeFromError(err), Err: err, Printed: printed}
}
