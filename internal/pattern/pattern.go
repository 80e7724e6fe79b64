// Package pattern builds the ordered runtime lookup strategies ("search
// patterns") written to the mappings file.
package pattern

import (
	"fmt"
	"strings"

	"github.com/IBM/generator-ibm-cloud-assets/internal/naming"
	"github.com/IBM/generator-ibm-cloud-assets/internal/target"
)

// ApplicationNameKey is the pseudo-key always present in a mappings file.
const ApplicationNameKey = "application_name"

// Set is an ordered list of search patterns. Consumers try them in order.
type Set []string

// Entry is the mappings-file value for one key.
type Entry struct {
	SearchPatterns Set `json:"searchPatterns"`
}

// Binding is what is known about how a service is bound on the platform.
type Binding struct {
	// CFLabel is the Cloud Foundry service label, "" if unknown.
	CFLabel string
	// SecretName is the Kubernetes secret holding the credentials, "" if unknown.
	SecretName string
}

// Mapper produces search patterns for one deployment target.
type Mapper struct {
	Target target.DeploymentTarget
	// LocalDevPath is the local-dev config file, relative to the project root.
	LocalDevPath string
}

// Build returns the patterns for compoundKey, which belongs to serviceID.
// Platform patterns come first; the local-dev file pattern is always last.
func (m Mapper) Build(compoundKey, serviceID string, b Binding) Set {
	field := FieldName(compoundKey, serviceID)

	var set Set
	switch {
	case m.Target == target.CloudFoundry && b.CFLabel != "":
		set = append(set, fmt.Sprintf("cloudfoundry:$['%s'][0].credentials.%s", b.CFLabel, field))
	case m.Target.IsKubernetes() && b.SecretName != "":
		set = append(set, fmt.Sprintf("env:%s:$.%s", naming.EnvVarName(serviceID), field))
	}
	return append(set, m.LocalFile(compoundKey))
}

// LocalFile is the local-development fallback pattern for key.
func (m Mapper) LocalFile(key string) string {
	return "file:/" + strings.TrimPrefix(m.LocalDevPath, "/") + ":$." + key
}

// ApplicationName returns the patterns for ApplicationNameKey. They do not
// depend on the target.
func ApplicationName() Set {
	return Set{"cloudfoundry:$.application_name", "env:K_SERVICE"}
}

// FieldName strips the normalized service id prefix from compoundKey.
func FieldName(compoundKey, serviceID string) string {
	return strings.TrimPrefix(compoundKey, naming.NormalizeServiceID(serviceID)+"_")
}
