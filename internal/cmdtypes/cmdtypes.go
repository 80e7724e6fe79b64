// Package cmdtypes provides shared types for the cmd package and its sub-packages.
// It is separate from internal/cmd to avoid import cycles between internal/cmd
// and its sub-packages (internal/cmd/config).
package cmdtypes

import (
	"github.com/IBM/generator-ibm-cloud-assets/internal/config"
	oerrors "github.com/IBM/generator-ibm-cloud-assets/internal/errors"
)

// GlobalConfig holds CLI-wide configuration resolved during PersistentPreRunE.
// It is populated once at startup and passed explicitly into every sub-command
// constructor.
type GlobalConfig struct {
	Config     *config.Config
	ConfigPath string // resolved --config path
	Verbose    bool
	// LoadErr is set when the config file could not be loaded or failed
	// validation. Commands that need configuration report it.
	LoadErr error
}

// Exit codes, aliased from internal/errors.
const (
	ExitSuccess         = oerrors.ExitSuccess
	ExitGeneralError    = oerrors.ExitGeneralError
	ExitValidationError = oerrors.ExitValidationError
	ExitNotFound        = oerrors.ExitNotFound
)

// ExitError is a type alias to internal/errors.ExitError.
type ExitError = oerrors.ExitError

// Settings returns the loaded configuration, or defaults when none was
// loaded.
func (g *GlobalConfig) Settings() *config.Config {
	if g == nil || g.Config == nil {
		return config.DefaultConfig()
	}
	return g.Config
}

// Load returns the settings, or LoadErr when loading failed.
func (g *GlobalConfig) Load() (*config.Config, error) {
	if g != nil && g.LoadErr != nil {
		return nil, g.LoadErr
	}
	return g.Settings(), nil
}
