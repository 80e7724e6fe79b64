// Package binding turns a set of bound services into runtime lookup
// configuration and deployment artifact patches.
//
// Bind is pure computation over the credential documents (plus a look at
// which generated artifacts exist). Apply writes the mappings and local-dev
// files, hands dependency descriptors to the updater, then patches every
// artifact once.
package binding

import (
	"fmt"
	"sort"

	"github.com/charmbracelet/log"
	"github.com/spf13/afero"
	"k8s.io/apimachinery/pkg/util/validation"

	"github.com/IBM/generator-ibm-cloud-assets/internal/credential"
	"github.com/IBM/generator-ibm-cloud-assets/internal/dependency"
	oerrors "github.com/IBM/generator-ibm-cloud-assets/internal/errors"
	"github.com/IBM/generator-ibm-cloud-assets/internal/language"
	"github.com/IBM/generator-ibm-cloud-assets/internal/naming"
	"github.com/IBM/generator-ibm-cloud-assets/internal/output"
	"github.com/IBM/generator-ibm-cloud-assets/internal/patch"
	"github.com/IBM/generator-ibm-cloud-assets/internal/pattern"
	"github.com/IBM/generator-ibm-cloud-assets/internal/target"
)

// SecretKey is the key inside a binding secret that holds the credential
// document.
const SecretKey = "binding"

// Config is everything the Orchestrator needs. Nothing is read from
// process-wide state.
type Config struct {
	// Fs is the project filesystem. Defaults to the OS filesystem.
	Fs afero.Fs
	// Dir is the project root all paths are relative to.
	Dir      string
	Target   target.DeploymentTarget
	Language language.Language
	// Paths resolves the mappings and local-dev file locations.
	Paths language.PathTable
	// Labels resolves Cloud Foundry labels. Service metadata and the
	// service id itself are consulted after it.
	Labels pattern.LabelResolver
	// AppName locates the Helm chart directory.
	AppName string
	// Dependencies maps service ids to dependency descriptors.
	Dependencies map[string]string
	// Updater receives the descriptors of bound services.
	Updater dependency.Updater
	Logger  *log.Logger
	DryRun  bool
}

// Orchestrator binds services for one project, target and language.
type Orchestrator struct {
	cfg    Config
	paths  language.Paths
	mapper pattern.Mapper
	log    *log.Logger
}

// New validates cfg and returns an Orchestrator.
func New(cfg Config) (*Orchestrator, error) {
	if cfg.Fs == nil {
		cfg.Fs = afero.NewOsFs()
	}
	if cfg.Dir == "" {
		cfg.Dir = "."
	}
	if cfg.Updater == nil {
		cfg.Updater = dependency.Nop{}
	}
	if cfg.Logger == nil {
		cfg.Logger = output.Logger
	}

	paths, err := cfg.Paths.Resolve(cfg.Language)
	if err != nil {
		return nil, err
	}

	return &Orchestrator{
		cfg:    cfg,
		paths:  paths,
		mapper: pattern.Mapper{Target: cfg.Target, LocalDevPath: paths.LocalDev},
		log:    cfg.Logger,
	}, nil
}

// Paths returns the resolved mappings and local-dev file locations.
func (o *Orchestrator) Paths() language.Paths {
	return o.paths
}

// ServiceBinding is the per-service outcome of Bind.
type ServiceBinding struct {
	ServiceID  string
	Info       credential.ServiceInfo
	EnvVarName string
	// SecretName is the Kubernetes secret the credentials are bound from.
	SecretName string
	// CFLabel is set for Cloud Foundry targets.
	CFLabel string
	// Keys are the mapping keys contributed by this service.
	Keys []string
}

// Plan is the computed, not yet applied, result of binding services.
type Plan struct {
	// Mappings maps keys to their search patterns.
	Mappings map[string]pattern.Entry
	// LocalDev maps compound keys to credential values.
	LocalDev credential.FlatMap
	Services []ServiceBinding
	// Descriptors are dependency descriptors, in service order.
	Descriptors []string
	// Jobs are the artifact patches, one per artifact.
	Jobs []patch.Job
	// Errors holds one *errors.ServiceError per service that was skipped.
	Errors []error
}

// Bind processes services in id order. A service whose credentials cannot
// be flattened is recorded in Plan.Errors and the rest continue.
func (o *Orchestrator) Bind(services map[string]any) (*Plan, error) {
	plan := &Plan{
		Mappings: map[string]pattern.Entry{
			pattern.ApplicationNameKey: {SearchPatterns: pattern.ApplicationName()},
		},
		LocalDev: credential.FlatMap{},
	}

	ids := make([]string, 0, len(services))
	for id := range services {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	owner := map[string]string{pattern.ApplicationNameKey: ""}
	for _, id := range ids {
		svcLog := output.ServiceLogger(o.log, id)

		sb, err := o.bindService(id, services[id], plan, owner, svcLog)
		if err != nil {
			svcLog.Error("skipping service", "err", err)
			plan.Errors = append(plan.Errors, oerrors.ForService(id, err))
			continue
		}
		plan.Services = append(plan.Services, sb)

		if d := o.cfg.Dependencies[id]; d != "" {
			plan.Descriptors = append(plan.Descriptors, d)
		}
	}

	jobs, err := o.jobs(plan.Services)
	if err != nil {
		return nil, err
	}
	plan.Jobs = jobs
	return plan, nil
}

func (o *Orchestrator) bindService(id string, cred any, plan *Plan, owner map[string]string, svcLog *log.Logger) (ServiceBinding, error) {
	envName := naming.EnvVarName(id)
	if errs := validation.IsEnvVarName(envName); len(errs) > 0 {
		return ServiceBinding{}, oerrors.NewValidationError(
			fmt.Sprintf("service id %q does not yield a valid environment variable name: %s", id, errs[0]),
			"", "serviceId", "service ids may contain letters, digits, '-', '_' and '.'",
		)
	}

	flat, err := credential.Flatten(id, cred)
	if err != nil {
		return ServiceBinding{}, err
	}

	sb := ServiceBinding{
		ServiceID:  id,
		Info:       flat.Info,
		EnvVarName: envName,
	}

	b := pattern.Binding{}
	switch {
	case o.cfg.Target == target.CloudFoundry:
		label, _ := o.labels(flat.Info).Label(id)
		sb.CFLabel = label
		b.CFLabel = label
	case o.cfg.Target.IsKubernetes():
		sb.SecretName = secretName(id, flat.Info)
		b.SecretName = sb.SecretName
		if errs := validation.IsDNS1123Subdomain(sb.SecretName); len(errs) > 0 {
			svcLog.Warn("secret name is not a valid Kubernetes name", "secret", sb.SecretName, "reason", errs[0])
		}
	}

	alias, aliased := language.AliasFor(o.cfg.Language, id)
	for _, e := range flat.Entries {
		key := e.Key
		if aliased {
			key = alias.Key(e.Field)
		}
		if prev, taken := owner[key]; taken {
			svcLog.Warn("mapping key already bound, keeping first", "key", key, "owner", prev)
		} else {
			owner[key] = id
			plan.Mappings[key] = pattern.Entry{SearchPatterns: o.mapper.Build(e.Key, id, b)}
			sb.Keys = append(sb.Keys, key)
		}
		if _, taken := plan.LocalDev[e.Key]; !taken {
			plan.LocalDev[e.Key] = e.Value
		}
	}

	svcLog.Debug("bound service", "keys", len(sb.Keys), "secret", sb.SecretName, "label", sb.CFLabel)
	return sb, nil
}

func (o *Orchestrator) labels(info credential.ServiceInfo) pattern.Chain {
	return pattern.Chain{
		o.cfg.Labels,
		pattern.LabelResolverFunc(func(string) (string, bool) { return info.Label, info.Label != "" }),
		pattern.IdentityLabels,
	}
}

// secretName is the instance name when known, otherwise the service id.
func secretName(id string, info credential.ServiceInfo) string {
	if info.Name != "" {
		return naming.SecretName(info.Name)
	}
	return naming.SecretName(id)
}
