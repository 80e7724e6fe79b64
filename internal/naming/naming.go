// Package naming derives the identifiers shared by the mappings file, the
// generated deployment artifacts, and the chart layout.
package naming

import (
	"regexp"
	"strings"
)

// DefaultAppName is used when sanitizing leaves nothing behind.
const DefaultAppName = "APP"

var (
	leadingNonAlpha = regexp.MustCompile(`^[^a-zA-Z]*`)
	nonAlphaNum     = regexp.MustCompile(`[^a-zA-Z0-9]`)
	nonAlphaNumDash = regexp.MustCompile(`[^a-zA-Z0-9-]`)
	templateIdent   = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)
)

// SanitizeAlphaNum strips leading non-letters and every non-alphanumeric
// character. An empty result becomes DefaultAppName.
func SanitizeAlphaNum(name string) string {
	clean := nonAlphaNum.ReplaceAllString(leadingNonAlpha.ReplaceAllString(name, ""), "")
	if clean == "" {
		return DefaultAppName
	}
	return clean
}

// SanitizeAlphaNumLowerCase is SanitizeAlphaNum folded to lower case.
// Chart directories are named this way.
func SanitizeAlphaNumLowerCase(name string) string {
	return strings.ToLower(SanitizeAlphaNum(name))
}

// SanitizeAlphaNumDash lower-cases name, turns spaces into dashes, and keeps
// only letters, digits and dashes.
func SanitizeAlphaNumDash(name string) string {
	if name == "" {
		name = "appname"
	}
	name = strings.ToLower(name)
	name = leadingNonAlpha.ReplaceAllString(name, "")
	name = strings.ReplaceAll(name, " ", "-")
	return nonAlphaNumDash.ReplaceAllString(name, "")
}

// NormalizeServiceID replaces dashes with underscores so the id can prefix
// compound keys and environment variable names.
func NormalizeServiceID(serviceID string) string {
	return strings.ReplaceAll(serviceID, "-", "_")
}

// CompoundKey joins the normalized service id and a field path with underscores.
func CompoundKey(serviceID string, path ...string) string {
	parts := make([]string, 0, len(path)+1)
	parts = append(parts, NormalizeServiceID(serviceID))
	parts = append(parts, path...)
	return strings.Join(parts, "_")
}

// EnvVarName is the environment variable a bound service's whole credential
// document is exposed under in Kubernetes deployments.
func EnvVarName(serviceID string) string {
	return "service_" + NormalizeServiceID(serviceID)
}

// HelmSecretRef is the Helm expression resolving a service's secret name
// from values.yaml. Ids that are not template identifiers use the index form.
func HelmSecretRef(serviceID string) string {
	if templateIdent.MatchString(serviceID) {
		return "{{ .Values.services." + serviceID + ".secretKeyRef }}"
	}
	return `{{ (index .Values.services "` + serviceID + `").secretKeyRef }}`
}

// SecretName lower-cases a service instance name for use as a Kubernetes
// secret reference.
func SecretName(instanceName string) string {
	return strings.ToLower(instanceName)
}
