package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/IBM/generator-ibm-cloud-assets/internal/binding"
	"github.com/IBM/generator-ibm-cloud-assets/internal/cmdtypes"
	"github.com/IBM/generator-ibm-cloud-assets/internal/cmdutil"
	"github.com/IBM/generator-ibm-cloud-assets/internal/config"
	"github.com/IBM/generator-ibm-cloud-assets/internal/credsource"
	"github.com/IBM/generator-ibm-cloud-assets/internal/dependency"
	"github.com/IBM/generator-ibm-cloud-assets/internal/output"
)

// bindOptions holds the flags for the bind command.
type bindOptions struct {
	project cmdutil.ProjectFlags
	creds   cmdutil.CredentialFlags
	target  string
	dryRun  bool

	fs      afero.Fs
	sources []credsource.Option
}

// NewBindCmd creates the bind command.
func NewBindCmd(gc *cmdtypes.GlobalConfig) *cobra.Command {
	return newBindCmd(gc, &bindOptions{fs: afero.NewOsFs()})
}

func newBindCmd(gc *cmdtypes.GlobalConfig, opts *bindOptions) *cobra.Command {
	c := &cobra.Command{
		Use:   "bind",
		Short: "Bind cloud services to the project",
		Long: `Bind cloud services to the project.

Writes the mappings file the runtime uses to look up credentials, merges
the credentials into the local development config, appends dependency
descriptors, and patches the deployment artifacts of the target.

Existing entries in the mappings and local-dev files are kept; running
bind twice with the same input changes nothing.

Examples:
  # Bind services for a Helm deployment
  cloud-assets bind --target kubernetes-helm --credentials file:creds.json

  # Read credentials from AWS Secrets Manager and preview the changes
  cloud-assets bind --credentials secretsmanager:my-app/creds --dry-run`,
		Args: cobra.NoArgs,
		RunE: func(c *cobra.Command, _ []string) error {
			return runBind(c.Context(), c.OutOrStdout(), gc, opts)
		},
	}

	opts.project.AddTo(c)
	opts.creds.AddTo(c)
	c.Flags().StringVarP(&opts.target, "target", "t", "",
		"Deployment target: none, cloud_foundry, kubernetes-helm, kubernetes-knative (env: "+cmdutil.EnvTarget+")")
	c.Flags().BoolVar(&opts.dryRun, "dry-run", false, "Show the changes without writing them")

	return c
}

func runBind(ctx context.Context, out io.Writer, gc *cmdtypes.GlobalConfig, opts *bindOptions) error {
	if ctx == nil {
		ctx = context.Background()
	}

	proj, err := resolveProject(gc, &opts.project)
	if err != nil {
		return exitError(err, false)
	}

	tgt, tgtValue, err := cmdutil.ResolveTarget(opts.target, proj.cfg)
	if err != nil {
		return exitError(err, false)
	}
	config.LogResolvedValues(output.Logger, tgtValue)

	paths, err := proj.cfg.PathTable()
	if err != nil {
		return exitError(err, false)
	}

	services, err := credsource.NewLoader(opts.fs, opts.sources...).Load(ctx, opts.creds.Source)
	if err != nil {
		return exitError(err, false)
	}

	orch, err := binding.New(binding.Config{
		Fs:           opts.fs,
		Dir:          proj.dir,
		Target:       tgt,
		Language:     proj.language,
		Paths:        paths,
		Labels:       proj.cfg.Labels(),
		AppName:      proj.appName,
		Dependencies: proj.cfg.DependencyDescriptors(proj.language),
		Updater:      dependency.ForLanguage(opts.fs, proj.dir, proj.language),
		Logger:       output.Logger,
		DryRun:       opts.dryRun,
	})
	if err != nil {
		return exitError(err, false)
	}

	output.Debug("binding services",
		"services", len(services),
		"target", tgt,
		"language", proj.language,
		"dir", proj.dir,
	)

	plan, report, runErr := orch.Run(services)
	if report == nil {
		return exitError(runErr, false)
	}

	if opts.dryRun {
		cmdutil.WriteChanges(out, report.Changes())
	} else {
		cmdutil.WriteBindSummary(out, proj.dir, report)
		if gc.Verbose {
			cmdutil.WriteBindTree(out, proj.appName, proj.dir, report)
		}
	}

	if runErr != nil {
		output.Error("bind finished with errors", "bound", len(plan.Services), "failed", len(plan.Errors))
		return exitError(runErr, false)
	}

	msg := fmt.Sprintf("Bound %d service(s)", len(plan.Services))
	if opts.dryRun {
		msg += " (dry run)"
	}
	fmt.Fprintln(out, output.FormatCheckmark(msg))
	return nil
}
