// Package cmd provides CLI command implementations.
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	configcmd "github.com/IBM/generator-ibm-cloud-assets/internal/cmd/config"
	"github.com/IBM/generator-ibm-cloud-assets/internal/cmdtypes"
	"github.com/IBM/generator-ibm-cloud-assets/internal/config"
	"github.com/IBM/generator-ibm-cloud-assets/internal/output"
)

// globalFlags are the persistent flags shared by every command.
type globalFlags struct {
	config     string
	verbose    bool
	timestamps bool
}

// NewRootCmd creates the root command for the cloud-assets CLI.
func NewRootCmd() *cobra.Command {
	flags := &globalFlags{}
	gc := &cmdtypes.GlobalConfig{}

	rootCmd := &cobra.Command{
		Use:   "cloud-assets",
		Short: "Bind IBM Cloud services to an application",
		Long: `cloud-assets wires bound cloud services into an application project.

It writes the runtime lookup configuration (mappings.json) and the local
development credentials file, and patches the generated deployment
artifacts for Cloud Foundry, Helm or Knative.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(c *cobra.Command, _ []string) error {
			return initializeGlobals(c, flags, gc)
		},
	}

	rootCmd.PersistentFlags().StringVar(&flags.config, "config", "", "Path to config file (env: CLOUD_ASSETS_CONFIG)")
	rootCmd.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().BoolVar(&flags.timestamps, "timestamps", true, "Show timestamps in log output")

	rootCmd.AddCommand(NewBindCmd(gc))
	rootCmd.AddCommand(NewManifestCmd(gc))
	rootCmd.AddCommand(configcmd.NewConfigCmd(gc))
	rootCmd.AddCommand(NewVersionCmd(gc))

	return rootCmd
}

// initializeGlobals loads configuration into gc and sets up logging.
// A config that fails to load is not fatal here; commands that need it
// report gc.LoadErr.
func initializeGlobals(c *cobra.Command, flags *globalFlags, gc *cmdtypes.GlobalConfig) error {
	configPath, err := config.ResolveConfigPath(flags.config)
	if err != nil {
		return fmt.Errorf("resolving config path: %w", err)
	}
	gc.ConfigPath = configPath.Value
	gc.Verbose = flags.verbose

	cfg, err := config.NewLoader().Load(configPath.Value)
	if err == nil {
		err = validateConfig(cfg)
	}
	if err != nil {
		gc.LoadErr = err
	} else {
		gc.Config = cfg
	}

	// Timestamps: flag (if explicitly set) > config > default.
	logCfg := output.LogConfig{Verbose: flags.verbose}
	if c.Flags().Changed("timestamps") {
		logCfg.Timestamps = output.BoolPtr(flags.timestamps)
	} else if cfg != nil && cfg.Log.Timestamps != nil {
		logCfg.Timestamps = cfg.Log.Timestamps
	}
	output.SetupLogging(logCfg)

	if gc.LoadErr != nil {
		output.Debug("config load error", "config", gc.ConfigPath, "err", gc.LoadErr)
	}
	config.LogResolvedValues(output.Logger, configPath)
	return nil
}

func validateConfig(cfg *config.Config) error {
	v, err := config.NewValidator()
	if err != nil {
		return fmt.Errorf("creating validator: %w", err)
	}
	return v.Validate(cfg)
}
