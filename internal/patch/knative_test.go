package patch

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

const knativeService = `apiVersion: serving.knative.dev/v1
kind: Service
metadata:
  name: myapp
spec:
  template:
    spec:
      containers:
        - image: us.icr.io/ns/myapp:latest
          ports:
            - containerPort: 8080
`

var knativeBindings = []EnvBinding{
	{EnvVarName: "service_cloudant", SecretRefName: "my-cloudant", SecretKey: "binding"},
	{EnvVarName: "service_appid", SecretRefName: "my-appid", SecretKey: "binding"},
}

type knativeDoc struct {
	Spec struct {
		Template struct {
			Spec struct {
				Containers []struct {
					Image string `yaml:"image"`
					Env   []struct {
						Name      string `yaml:"name"`
						ValueFrom struct {
							SecretKeyRef struct {
								Name string `yaml:"name"`
								Key  string `yaml:"key"`
							} `yaml:"secretKeyRef"`
						} `yaml:"valueFrom"`
					} `yaml:"env"`
				} `yaml:"containers"`
			} `yaml:"spec"`
		} `yaml:"template"`
	} `yaml:"spec"`
}

func TestPatchKnativeEnv(t *testing.T) {
	out, status, added, err := PatchKnativeEnv([]byte(knativeService), knativeBindings)
	require.NoError(t, err)
	require.Equal(t, StatusPatched, status)
	assert.Equal(t, []string{"service_cloudant", "service_appid"}, added)

	var doc knativeDoc
	require.NoError(t, yaml.Unmarshal(out, &doc))
	c := doc.Spec.Template.Spec.Containers[0]
	assert.Equal(t, "us.icr.io/ns/myapp:latest", c.Image)
	require.Len(t, c.Env, 2)
	assert.Equal(t, "service_cloudant", c.Env[0].Name)
	assert.Equal(t, "my-cloudant", c.Env[0].ValueFrom.SecretKeyRef.Name)
	assert.Equal(t, "binding", c.Env[0].ValueFrom.SecretKeyRef.Key)
	assert.Equal(t, "service_appid", c.Env[1].Name)
}

func TestPatchKnativeEnvNeverOverwrites(t *testing.T) {
	patched, _, _, err := PatchKnativeEnv([]byte(knativeService), knativeBindings[:1])
	require.NoError(t, err)

	out, status, added, err := PatchKnativeEnv(patched, knativeBindings)
	require.NoError(t, err)
	assert.Equal(t, StatusEnvExists, status)
	assert.Empty(t, added)
	assert.Equal(t, string(patched), string(out))
}

func TestPatchKnativeEnvNullEnvIsReplaced(t *testing.T) {
	content := knativeService + "          env: null\n"
	_, status, _, err := PatchKnativeEnv([]byte(content), knativeBindings)
	require.NoError(t, err)
	assert.Equal(t, StatusPatched, status)
}

func TestPatchKnativeEnvNoContainers(t *testing.T) {
	content := "apiVersion: v1\nkind: ConfigMap\ndata: {}\n"
	out, status, _, err := PatchKnativeEnv([]byte(content), knativeBindings)
	require.NoError(t, err)
	assert.Equal(t, StatusAnchorMissing, status)
	assert.Equal(t, content, string(out))
}

func TestPatchKnativeEnvKeepsOtherDocuments(t *testing.T) {
	content := "apiVersion: v1\nkind: ConfigMap\ndata:\n  a: b\n---\n" + knativeService
	out, status, _, err := PatchKnativeEnv([]byte(content), knativeBindings)
	require.NoError(t, err)
	require.Equal(t, StatusPatched, status)

	dec := yaml.NewDecoder(bytes.NewReader(out))
	var first map[string]any
	require.NoError(t, dec.Decode(&first))
	assert.Equal(t, "ConfigMap", first["kind"])
	var second knativeDoc
	require.NoError(t, dec.Decode(&second))
	assert.Len(t, second.Spec.Template.Spec.Containers[0].Env, 2)
}

func TestPatchKnativeEnvInvalidYAML(t *testing.T) {
	_, _, _, err := PatchKnativeEnv([]byte("spec: [unclosed"), knativeBindings)
	assert.Error(t, err)
}
