package credsource

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/IBM/generator-ibm-cloud-assets/internal/credential"
	oerrors "github.com/IBM/generator-ibm-cloud-assets/internal/errors"
)

type fakeSecrets map[string]string

func (f fakeSecrets) GetSecret(_ context.Context, id string) (string, error) {
	v, ok := f[id]
	if !ok {
		return "", ErrGetSecret
	}
	return v, nil
}

func quietLogger() *log.Logger {
	l := log.New(nil)
	l.SetLevel(log.FatalLevel)
	return l
}

func TestParseBareMap(t *testing.T) {
	services, err := Parse([]byte(`{"cloudant": {"apikey": "k1", "port": 443}}`))
	require.NoError(t, err)

	require.Contains(t, services, "cloudant")
	cred := services["cloudant"].(map[string]any)
	assert.Equal(t, "k1", cred["apikey"])
	assert.Equal(t, json.Number("443"), cred["port"])
}

func TestParseMergesBindings(t *testing.T) {
	doc := `{
		"service_credentials": {
			"cloudant": [{"url": "http://x"}],
			"appid": {"secret": "s1", "serviceInfo": {"name": "kept"}}
		},
		"service_bindings": {
			"cloudant": {"name": "my-cloudant", "label": "cloudantNoSQLDB"},
			"appid": {"name": "ignored"},
			"redis": "my-redis"
		}
	}`
	services, err := Parse([]byte(doc))
	require.NoError(t, err)
	assert.Len(t, services, 3)

	flat, err := credential.Flatten("cloudant", services["cloudant"])
	require.NoError(t, err)
	assert.Equal(t, "my-cloudant", flat.Info.Name)
	assert.Equal(t, "cloudantNoSQLDB", flat.Info.Label)
	assert.Equal(t, credential.FlatMap{"cloudant_url": "http://x"}, flat.Map())

	flat, err = credential.Flatten("appid", services["appid"])
	require.NoError(t, err)
	assert.Equal(t, "kept", flat.Info.Name)

	flat, err = credential.Flatten("redis", services["redis"])
	require.NoError(t, err)
	assert.Equal(t, "my-redis", flat.Info.Name)
	assert.Empty(t, flat.Entries)
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"not json", `cloudant=1`},
		{"credentials not object", `{"service_credentials": []}`},
		{"bindings not object", `{"service_bindings": "x"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.doc))
			assert.ErrorIs(t, err, oerrors.ErrInvalidCredentialShape)
		})
	}
}

func TestParseNull(t *testing.T) {
	services, err := Parse([]byte(`null`))
	require.NoError(t, err)
	assert.Empty(t, services)
}

func TestLoaderSources(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "creds.json", []byte(`{"appid": {"secret": "s1"}}`), 0o644))

	l := NewLoader(fs,
		WithLogger(quietLogger()),
		WithSecretGetter(fakeSecrets{"prod/app": `{"cos": {"apikey": "c1"}}`}),
	)
	ctx := context.Background()

	tests := []struct {
		name string
		src  string
		want string
	}{
		{"file prefix", "file:creds.json", "appid"},
		{"bare path", "creds.json", "appid"},
		{"inline", ` {"cloudant": {"url": "u"}}`, "cloudant"},
		{"secrets manager", "secretsmanager:prod/app", "cos"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			services, err := l.Load(ctx, tt.src)
			require.NoError(t, err)
			assert.Equal(t, []string{tt.want}, services.IDs())
		})
	}
}

func TestLoaderEmptySource(t *testing.T) {
	services, err := NewLoader(afero.NewMemMapFs(), WithLogger(quietLogger())).Load(context.Background(), "  ")
	require.NoError(t, err)
	assert.Empty(t, services)
}

func TestLoaderMissingFile(t *testing.T) {
	_, err := NewLoader(afero.NewMemMapFs(), WithLogger(quietLogger())).Load(context.Background(), "file:nope.json")
	require.Error(t, err)
	assert.True(t, errors.Is(err, oerrors.ErrNotFound))
}

func TestLoaderSecretErrors(t *testing.T) {
	l := NewLoader(afero.NewMemMapFs(), WithLogger(quietLogger()), WithSecretGetter(fakeSecrets{}))

	_, err := l.Load(context.Background(), "secretsmanager:")
	assert.ErrorIs(t, err, oerrors.ErrValidation)

	_, err = l.Load(context.Background(), "secretsmanager:missing")
	assert.ErrorIs(t, err, ErrGetSecret)
}
