package config

import (
	"os"

	"github.com/charmbracelet/log"

	"github.com/IBM/generator-ibm-cloud-assets/internal/output"
)

// ConfigSource indicates where a configuration value came from.
type ConfigSource string

const (
	// SourceFlag indicates value came from command-line flag.
	SourceFlag ConfigSource = "flag"
	// SourceEnv indicates value came from environment variable.
	SourceEnv ConfigSource = "env"
	// SourceConfig indicates value came from config file.
	SourceConfig ConfigSource = "config"
	// SourceDefault indicates value is the built-in default.
	SourceDefault ConfigSource = "default"
)

// ResolveOptions describes the candidate values for one setting.
type ResolveOptions struct {
	// Key names the setting in logs (e.g. "target").
	Key string
	// FlagValue is the flag value, empty if not set.
	FlagValue string
	// EnvVar is the environment variable consulted after the flag.
	EnvVar string
	// ConfigValue is the config file value, empty if not set.
	ConfigValue string
	// Default applies when nothing else is set.
	Default string
}

// ResolvedValue is a setting after precedence was applied.
type ResolvedValue struct {
	Key    string
	Value  string
	Source ConfigSource
	// Shadowed contains values overridden by higher precedence.
	Shadowed map[ConfigSource]string
}

// Resolve applies flag > env > config > default precedence.
func Resolve(opts ResolveOptions) ResolvedValue {
	res := ResolvedValue{Key: opts.Key, Shadowed: make(map[ConfigSource]string)}

	var envValue string
	if opts.EnvVar != "" {
		envValue = os.Getenv(opts.EnvVar)
	}

	candidates := []struct {
		source ConfigSource
		value  string
	}{
		{SourceFlag, opts.FlagValue},
		{SourceEnv, envValue},
		{SourceConfig, opts.ConfigValue},
		{SourceDefault, opts.Default},
	}
	for _, c := range candidates {
		if c.value == "" {
			continue
		}
		if res.Source == "" {
			res.Value, res.Source = c.value, c.source
			continue
		}
		// The loader folds env into config values; an equal value is not shadowed.
		if c.value != res.Value {
			res.Shadowed[c.source] = c.value
		}
	}
	return res
}

// ResolveConfigPath resolves the config file path using precedence:
// (1) --config flag, (2) CLOUD_ASSETS_CONFIG env, (3) ~/.cloud-assets/config.yaml
func ResolveConfigPath(flagValue string) (ResolvedValue, error) {
	paths, err := DefaultPaths()
	if err != nil {
		return ResolvedValue{}, err
	}
	return Resolve(ResolveOptions{
		Key:       "config",
		FlagValue: flagValue,
		EnvVar:    configEnvVar,
		Default:   paths.ConfigFile,
	}), nil
}

// LogResolvedValues logs configuration resolution at debug level.
func LogResolvedValues(logger *log.Logger, values ...ResolvedValue) {
	if logger == nil {
		logger = output.Logger
	}
	for _, v := range values {
		logger.Debug("config value resolved", "key", v.Key, "value", v.Value, "source", v.Source)
		for source, shadowed := range v.Shadowed {
			logger.Debug("  shadowed by higher precedence",
				"key", v.Key,
				"shadowed_source", source,
				"shadowed_value", shadowed,
			)
		}
	}
}
