package cmd

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sort"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/IBM/generator-ibm-cloud-assets/internal/cmdtypes"
	"github.com/IBM/generator-ibm-cloud-assets/internal/cmdutil"
	"github.com/IBM/generator-ibm-cloud-assets/internal/credential"
	"github.com/IBM/generator-ibm-cloud-assets/internal/credsource"
	oerrors "github.com/IBM/generator-ibm-cloud-assets/internal/errors"
	"github.com/IBM/generator-ibm-cloud-assets/internal/manifest"
	"github.com/IBM/generator-ibm-cloud-assets/internal/output"
)

// manifestOptions holds the flags for the manifest command.
type manifestOptions struct {
	project   cmdutil.ProjectFlags
	creds     cmdutil.CredentialFlags
	memory    string
	minMemory string
	instances int
	env       map[string]string
	ignore    []string
	dryRun    bool

	fs      afero.Fs
	sources []credsource.Option
}

// NewManifestCmd creates the manifest command.
func NewManifestCmd(gc *cmdtypes.GlobalConfig) *cobra.Command {
	return newManifestCmd(gc, &manifestOptions{fs: afero.NewOsFs()})
}

func newManifestCmd(gc *cmdtypes.GlobalConfig, opts *manifestOptions) *cobra.Command {
	c := &cobra.Command{
		Use:   "manifest",
		Short: "Generate the Cloud Foundry manifest",
		Long: `Generate manifest.yml and .cfignore for a Cloud Foundry push.

Buildpack, command and memory follow the project language. Services named
in --credentials are listed by instance name. The command of an existing
manifest is kept for languages that allow it.

Examples:
  cloud-assets manifest --language JAVA --memory 1G --instances 2
  cloud-assets manifest --credentials file:creds.json --dry-run`,
		Args: cobra.NoArgs,
		RunE: func(c *cobra.Command, _ []string) error {
			return runManifest(c.Context(), c.OutOrStdout(), gc, opts)
		},
	}

	opts.project.AddTo(c)
	opts.creds.AddTo(c)
	c.Flags().StringVar(&opts.memory, "memory", "", "Application memory (e.g. 256M, 1G)")
	c.Flags().StringVar(&opts.minMemory, "min-memory", "", "Memory floor for languages that accept one")
	c.Flags().IntVar(&opts.instances, "instances", 1, "Number of instances")
	c.Flags().StringToStringVar(&opts.env, "env", nil, "Extra environment variables (KEY=VALUE)")
	c.Flags().StringSliceVar(&opts.ignore, "ignore", nil, "Extra .cfignore entries")
	c.Flags().BoolVar(&opts.dryRun, "dry-run", false, "Show the changes without writing them")

	return c
}

func runManifest(ctx context.Context, out io.Writer, gc *cmdtypes.GlobalConfig, opts *manifestOptions) error {
	if ctx == nil {
		ctx = context.Background()
	}

	proj, err := resolveProject(gc, &opts.project)
	if err != nil {
		return exitError(err, false)
	}

	services, err := credsource.NewLoader(opts.fs, opts.sources...).Load(ctx, opts.creds.Source)
	if err != nil {
		return exitError(err, false)
	}
	names, errs := serviceNames(services)
	cmdutil.PrintServiceErrors(errs)

	res, err := manifest.Build(manifest.Options{
		Language:    proj.language,
		AppName:     proj.appName,
		Memory:      opts.memory,
		MinMemory:   opts.minMemory,
		Instances:   opts.instances,
		Services:    names,
		Env:         opts.env,
		IgnorePaths: opts.ignore,
	}, manifest.ReadExisting(opts.fs, proj.dir))
	if err != nil {
		return exitError(err, false)
	}

	files, err := manifest.Render(opts.fs, proj.dir, res)
	if err != nil {
		return exitError(err, false)
	}

	if opts.dryRun {
		var changes []output.FileChange
		for _, f := range files {
			if !bytes.Equal(f.Before, f.After) {
				changes = append(changes, output.FileChange{Path: f.Path, Before: f.Before, After: f.After})
			}
		}
		cmdutil.WriteChanges(out, changes)
		return nil
	}

	if err := manifest.Write(opts.fs, files); err != nil {
		return exitError(err, false)
	}
	for _, f := range files {
		status := output.StatusWritten
		if bytes.Equal(f.Before, f.After) {
			status = output.StatusUnchanged
		}
		fmt.Fprintln(out, output.FormatFileLine(cmdutil.RelPath(proj.dir, f.Path), status))
	}
	return nil
}

// serviceNames returns the instance name of each service, falling back to
// its id. Services whose credentials cannot be read are reported and left
// out.
func serviceNames(services credsource.Services) ([]string, []error) {
	var (
		names []string
		errs  []error
	)
	for _, id := range services.IDs() {
		flat, err := credential.Flatten(id, services[id])
		if err != nil {
			errs = append(errs, oerrors.ForService(id, err))
			continue
		}
		name := flat.Info.Name
		if name == "" {
			name = id
		}
		names = append(names, name)
	}
	sort.Strings(names)
	return names, errs
}
