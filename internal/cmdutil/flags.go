// Package cmdutil provides shared command utilities for the bind and
// manifest commands. It centralizes flag group management, flag > env >
// config > default resolution, and summary output helpers.
package cmdutil

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/IBM/generator-ibm-cloud-assets/internal/config"
	"github.com/IBM/generator-ibm-cloud-assets/internal/language"
	"github.com/IBM/generator-ibm-cloud-assets/internal/target"
)

// Environment variables consulted after flags.
const (
	EnvTarget   = "CLOUD_ASSETS_TARGET"
	EnvLanguage = "CLOUD_ASSETS_LANGUAGE"
)

// ProjectFlags holds flags locating and describing the project
// (bind, manifest).
type ProjectFlags struct {
	Dir      string
	AppName  string
	Language string
}

// AddTo registers the project flags on the given cobra command.
func (f *ProjectFlags) AddTo(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.Dir, "dir", "d", ".",
		"Project directory")
	cmd.Flags().StringVar(&f.AppName, "app-name", "",
		"Application name (default: project directory name)")
	cmd.Flags().StringVarP(&f.Language, "language", "l", "",
		"Application language: NODE, PYTHON, DJANGO, JAVA, SPRING, SWIFT, GO (env: "+EnvLanguage+")")
}

// CredentialFlags holds the credential source flag (bind, manifest).
type CredentialFlags struct {
	Source string
}

// AddTo registers the credential flags on the given cobra command.
func (f *CredentialFlags) AddTo(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.Source, "credentials", "",
		"Service credentials: file:<path>, secretsmanager:<id>, or inline JSON")
}

// ResolveLanguage resolves the language with flag > env > config > default
// precedence.
func ResolveLanguage(flagValue string, cfg *config.Config) (language.Language, config.ResolvedValue, error) {
	rv := config.Resolve(config.ResolveOptions{
		Key:         "language",
		FlagValue:   flagValue,
		EnvVar:      EnvLanguage,
		ConfigValue: cfg.Defaults.Language,
		Default:     string(language.Node),
	})
	l, err := language.Parse(rv.Value)
	if err != nil {
		return "", rv, fmt.Errorf("%s from %s: %w", rv.Key, rv.Source, err)
	}
	return l, rv, nil
}

// ResolveTarget resolves the deployment target with flag > env > config
// precedence. No value means no deployment target.
func ResolveTarget(flagValue string, cfg *config.Config) (target.DeploymentTarget, config.ResolvedValue, error) {
	rv := config.Resolve(config.ResolveOptions{
		Key:         "target",
		FlagValue:   flagValue,
		EnvVar:      EnvTarget,
		ConfigValue: cfg.Defaults.Target,
	})
	t, err := target.Parse(rv.Value)
	if err != nil {
		return "", rv, fmt.Errorf("%s from %s: %w", rv.Key, rv.Source, err)
	}
	return t, rv, nil
}
