// Package credsource loads service credential documents.
//
// A source is one of:
//
//	file:<path>             a JSON file
//	secretsmanager:<id>     an AWS Secrets Manager secret
//	{...}                   inline JSON
//	<path>                  shorthand for file:<path>
//
// The document is either a bare {serviceId: credential} map or
// {"service_credentials": {...}, "service_bindings": {...}}. Bindings carry
// per-service metadata (instance name, label, plan) and are merged into
// each credential's serviceInfo unless it already has one.
package credsource

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/afero"

	"github.com/IBM/generator-ibm-cloud-assets/internal/credential"
	oerrors "github.com/IBM/generator-ibm-cloud-assets/internal/errors"
	"github.com/IBM/generator-ibm-cloud-assets/internal/output"
)

const (
	filePrefix           = "file:"
	secretsManagerPrefix = "secretsmanager:"

	credentialsField = "service_credentials"
	bindingsField    = "service_bindings"

	fetchTimeout = 30 * time.Second
)

// Services maps service ids to raw credential documents.
type Services map[string]any

// IDs returns the service ids in no particular order.
func (s Services) IDs() []string {
	ids := make([]string, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}
	return ids
}

// Loader resolves credential sources.
type Loader struct {
	fs      afero.Fs
	secrets func(ctx context.Context) (SecretGetter, error)
	log     *log.Logger
}

// Option configures a Loader.
type Option func(*Loader)

// WithSecretGetter sets the Secrets Manager client. By default one is built
// from the ambient AWS configuration on first use.
func WithSecretGetter(g SecretGetter) Option {
	return func(l *Loader) {
		l.secrets = func(context.Context) (SecretGetter, error) { return g, nil }
	}
}

// WithLogger sets the logger.
func WithLogger(logger *log.Logger) Option {
	return func(l *Loader) { l.log = logger }
}

// NewLoader returns a Loader reading files from fsys.
func NewLoader(fsys afero.Fs, opts ...Option) *Loader {
	l := &Loader{
		fs: fsys,
		secrets: func(ctx context.Context) (SecretGetter, error) {
			cfg, err := LoadAWSConfig(ctx)
			if err != nil {
				return nil, fmt.Errorf("loading AWS config: %w", err)
			}
			return NewSecretsManagerClient(cfg), nil
		},
	}
	for _, opt := range opts {
		opt(l)
	}
	if l.log == nil {
		l.log = output.Logger
	}
	return l
}

// Load resolves src into a service map. An empty source yields no services.
func (l *Loader) Load(ctx context.Context, src string) (Services, error) {
	src = strings.TrimSpace(src)
	switch {
	case src == "":
		return Services{}, nil
	case strings.HasPrefix(src, secretsManagerPrefix):
		return l.loadSecret(ctx, strings.TrimPrefix(src, secretsManagerPrefix))
	case strings.HasPrefix(src, filePrefix):
		return l.loadFile(strings.TrimPrefix(src, filePrefix))
	case looksLikeJSON([]byte(src)):
		return Parse([]byte(src))
	default:
		return l.loadFile(src)
	}
}

func (l *Loader) loadFile(path string) (Services, error) {
	data, err := afero.ReadFile(l.fs, path)
	if err != nil {
		return nil, oerrors.NewNotFoundError(
			fmt.Sprintf("reading credentials: %v", err),
			path,
			"pass --credentials file:<path>, secretsmanager:<id> or inline JSON",
		)
	}
	l.log.Debug("loaded credentials", "file", path)
	return Parse(data)
}

func (l *Loader) loadSecret(ctx context.Context, id string) (Services, error) {
	if id == "" {
		return nil, oerrors.NewValidationError("secret id is empty", secretsManagerPrefix, "credentials", "")
	}

	var raw string
	err := output.RunWithSpinner(ctx, func(ctx context.Context) error {
		getter, err := l.secrets(ctx)
		if err != nil {
			return err
		}
		raw, err = getter.GetSecret(ctx, id)
		return err
	}, output.WithTitle("Fetching credentials from Secrets Manager..."), output.WithTimeout(fetchTimeout))
	if err != nil {
		return nil, err
	}
	l.log.Debug("loaded credentials", "secret", id)
	return Parse([]byte(raw))
}

// Parse decodes a credentials document. Numbers keep their literal form.
func Parse(data []byte) (Services, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var doc map[string]any
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: decoding credentials document: %v", oerrors.ErrInvalidCredentialShape, err)
	}
	if doc == nil {
		return Services{}, nil
	}

	creds, hasCreds := doc[credentialsField]
	bindings, hasBindings := doc[bindingsField]
	if !hasCreds && !hasBindings {
		return Services(doc), nil
	}

	services := Services{}
	if hasCreds && creds != nil {
		m, ok := creds.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("%w: %s is %T, want object", oerrors.ErrInvalidCredentialShape, credentialsField, creds)
		}
		for id, c := range m {
			services[id] = c
		}
	}
	if hasBindings && bindings != nil {
		m, ok := bindings.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("%w: %s is %T, want object", oerrors.ErrInvalidCredentialShape, bindingsField, bindings)
		}
		for id, info := range m {
			services[id] = withServiceInfo(services[id], info)
		}
	}
	return services, nil
}

// withServiceInfo attaches info to cred unless it already carries one.
// Services that are bound but have no credentials get an empty object.
func withServiceInfo(cred, info any) any {
	switch c := cred.(type) {
	case nil:
		return map[string]any{credential.ServiceInfoField: info}
	case map[string]any:
		if _, ok := c[credential.ServiceInfoField]; ok {
			return c
		}
		out := make(map[string]any, len(c)+1)
		for k, v := range c {
			out[k] = v
		}
		out[credential.ServiceInfoField] = info
		return out
	case []any:
		out := make([]any, len(c))
		for i, elem := range c {
			out[i] = withServiceInfo(elem, info)
		}
		return out
	default:
		return cred
	}
}

func looksLikeJSON(data []byte) bool {
	trimmed := bytes.TrimSpace(data)
	return len(trimmed) > 0 && trimmed[0] == '{'
}
