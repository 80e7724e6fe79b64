package binding

import (
	"fmt"
	"path/filepath"
	"sort"

	"github.com/spf13/afero"

	"github.com/IBM/generator-ibm-cloud-assets/internal/fsutil"
	"github.com/IBM/generator-ibm-cloud-assets/internal/naming"
	"github.com/IBM/generator-ibm-cloud-assets/internal/patch"
	"github.com/IBM/generator-ibm-cloud-assets/internal/target"
)

const (
	chartDir           = "chart"
	deploymentTemplate = "templates/deployment.yaml"
	valuesFile         = "values.yaml"
	knativeFile        = "service.yaml"
)

// jobs builds one patch job per artifact the target uses.
func (o *Orchestrator) jobs(services []ServiceBinding) ([]patch.Job, error) {
	if len(services) == 0 {
		return nil, nil
	}

	switch o.cfg.Target {
	case target.KubernetesHelm:
		chart, err := o.findChart()
		if err != nil {
			return nil, err
		}
		if chart == "" {
			o.log.Info("no Helm chart found, deployment artifacts will not be patched", "dir", filepath.Join(o.cfg.Dir, chartDir))
			return nil, nil
		}

		deployment := patch.Job{Path: filepath.Join(chart, deploymentTemplate), Kind: patch.KindDeployment}
		values := patch.Job{Path: filepath.Join(chart, valuesFile), Kind: patch.KindValues}
		for _, s := range services {
			deployment.Env = append(deployment.Env, patch.EnvBinding{
				EnvVarName:    s.EnvVarName,
				SecretRefName: naming.HelmSecretRef(s.ServiceID),
				SecretKey:     SecretKey,
			})
			values.Services = append(values.Services, patch.ServiceRef{
				ServiceID:  s.ServiceID,
				SecretName: s.SecretName,
			})
		}
		return []patch.Job{deployment, values}, nil

	case target.Knative:
		job := patch.Job{Path: filepath.Join(o.cfg.Dir, knativeFile), Kind: patch.KindKnative}
		for _, s := range services {
			job.Env = append(job.Env, patch.EnvBinding{
				EnvVarName:    s.EnvVarName,
				SecretRefName: s.SecretName,
				SecretKey:     SecretKey,
			})
		}
		return []patch.Job{job}, nil

	default:
		return nil, nil
	}
}

// findChart returns the chart directory holding templates/deployment.yaml.
// The directory named after the application wins; otherwise the first
// chart, by name, that has the template. "" means there is none.
func (o *Orchestrator) findChart() (string, error) {
	root := filepath.Join(o.cfg.Dir, chartDir)
	ok, err := fsutil.Exists(o.cfg.Fs, root)
	if err != nil || !ok {
		return "", err
	}

	if o.cfg.AppName != "" {
		preferred := filepath.Join(root, naming.SanitizeAlphaNumLowerCase(o.cfg.AppName))
		ok, err := fsutil.Exists(o.cfg.Fs, filepath.Join(preferred, deploymentTemplate))
		if err != nil {
			return "", err
		}
		if ok {
			return preferred, nil
		}
		o.log.Debug("chart not at expected location, scanning", "expected", preferred)
	}

	entries, err := afero.ReadDir(o.cfg.Fs, root)
	if err != nil {
		return "", fmt.Errorf("listing %s: %w", root, err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	for _, name := range names {
		dir := filepath.Join(root, name)
		ok, err := fsutil.Exists(o.cfg.Fs, filepath.Join(dir, deploymentTemplate))
		if err != nil {
			return "", err
		}
		if ok {
			return dir, nil
		}
	}
	return "", nil
}
