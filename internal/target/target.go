// Package target enumerates the deployment targets bindings are generated for.
package target

import (
	"fmt"
	"strings"

	oerrors "github.com/IBM/generator-ibm-cloud-assets/internal/errors"
)

// DeploymentTarget is the platform manifests are generated for.
// The zero value means no deployment assets were scaffolded.
type DeploymentTarget string

const (
	None           DeploymentTarget = ""
	CloudFoundry   DeploymentTarget = "cloud_foundry"
	KubernetesHelm DeploymentTarget = "kubernetes-helm"
	Knative        DeploymentTarget = "kubernetes-knative"
)

// Parse resolves a target identifier. "none" and "" both yield None.
// Underscores and dashes are interchangeable.
func Parse(s string) (DeploymentTarget, error) {
	norm := strings.ToLower(strings.TrimSpace(s))
	switch strings.ReplaceAll(norm, "_", "-") {
	case "", "none":
		return None, nil
	case "cloud-foundry", "cf":
		return CloudFoundry, nil
	case "kubernetes-helm", "helm", "kubernetes", "kube":
		return KubernetesHelm, nil
	case "kubernetes-knative", "knative":
		return Knative, nil
	}
	return None, oerrors.NewValidationError(
		fmt.Sprintf("unknown deployment target %q", s),
		"", "target",
		"valid targets: cloud_foundry, kubernetes-helm, kubernetes-knative, none",
	)
}

// IsKubernetes reports whether t deploys to a Kubernetes cluster.
func (t DeploymentTarget) IsKubernetes() bool {
	return t == KubernetesHelm || t == Knative
}

// String returns the identifier, or "none".
func (t DeploymentTarget) String() string {
	if t == None {
		return "none"
	}
	return string(t)
}
