// Package patch edits generated deployment artifacts to inject service
// credential bindings.
//
// Files that still carry Helm placeholders are edited line by line and
// every byte outside the inserted block is preserved. Placeholder-free
// Knative descriptors are edited as a YAML node tree.
package patch

// EnvBinding is one environment variable sourced from a secret key.
type EnvBinding struct {
	EnvVarName    string
	SecretRefName string
	SecretKey     string
}

// ServiceRef is one entry of the values.yaml services section.
type ServiceRef struct {
	ServiceID  string
	SecretName string
}

// Kind selects the edit procedure for a Job.
type Kind string

const (
	// KindDeployment is a Helm templates/deployment.yaml.
	KindDeployment Kind = "deployment"
	// KindValues is a Helm values.yaml.
	KindValues Kind = "values"
	// KindKnative is a Knative service.yaml.
	KindKnative Kind = "knative"
)

// Job is a deferred edit against one artifact. Jobs are built while services
// are processed and applied once, after all services are known.
type Job struct {
	Path     string
	Kind     Kind
	Env      []EnvBinding
	Services []ServiceRef
}

// Empty reports whether the job has nothing to insert.
func (j Job) Empty() bool {
	switch j.Kind {
	case KindValues:
		return len(j.Services) == 0
	default:
		return len(j.Env) == 0
	}
}

// Status describes what applying a Job did.
type Status string

const (
	// StatusPatched means new entries were inserted.
	StatusPatched Status = "patched"
	// StatusUnchanged means every entry was already present.
	StatusUnchanged Status = "unchanged"
	// StatusAnchorMissing means no insertion point was found.
	StatusAnchorMissing Status = "anchor-missing"
	// StatusNotFound means the artifact does not exist.
	StatusNotFound Status = "not-found"
	// StatusEnvExists means a Knative container already declares env.
	StatusEnvExists Status = "env-exists"
)

// Result is the outcome of applying one Job.
type Result struct {
	Path   string
	Kind   Kind
	Status Status
	// Added lists the inserted env var names or service ids.
	Added  []string
	Before []byte
	After  []byte
}

// Changed reports whether the artifact content differs after the job.
func (r Result) Changed() bool {
	return r.Status == StatusPatched
}
