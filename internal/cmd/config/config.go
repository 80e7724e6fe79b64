// Package config provides CLI command implementations for the config command group.
package config

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/IBM/generator-ibm-cloud-assets/internal/cmdtypes"
	"github.com/IBM/generator-ibm-cloud-assets/internal/config"
)

// NewConfigCmd creates the config command group.
func NewConfigCmd(gc *cmdtypes.GlobalConfig) *cobra.Command {
	c := &cobra.Command{
		Use:   "config",
		Short: "Configuration management",
		Long:  `Configuration management for the cloud-assets CLI.`,
	}

	c.AddCommand(NewConfigInitCmd(gc))
	c.AddCommand(NewConfigVetCmd(gc))

	return c
}

// configPath returns the --config path resolved by the root command, or
// the default location when run standalone.
func configPath(gc *cmdtypes.GlobalConfig) (string, error) {
	path := ""
	if gc != nil {
		path = gc.ConfigPath
	}
	if path == "" {
		var err error
		path, err = config.GetConfigFile()
		if err != nil {
			return "", fmt.Errorf("getting config file path: %w", err)
		}
	}
	return config.ExpandPath(path)
}
