package patch

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const deploymentTemplate = `apiVersion: apps/v1
kind: Deployment
metadata:
  name: "{{  .Chart.Name }}-deployment"
  labels:
    chart: '{{ .Chart.Name }}-{{ .Chart.Version | replace "+" "_" }}'
spec:
  replicas: {{ .Values.replicaCount }}
  template:
    spec:
      containers:
      - name: "{{  .Chart.Name  }}"
        image: "{{ .Values.image.repository }}:{{ .Values.image.tag }}"
        env:
          - name: PORT
            value: "{{ .Values.service.servicePort }}"
          - name: APPLICATION_NAME
            value: "{{ .Release.Name }}"
`

var twoBindings = []EnvBinding{
	{EnvVarName: "service_cloudant", SecretRefName: "{{ .Values.services.cloudant.secretKeyRef }}", SecretKey: "binding"},
	{EnvVarName: "service_appid", SecretRefName: "{{ .Values.services.appid.secretKeyRef }}", SecretKey: "binding"},
}

func TestPatchDeploymentEnvInsertsAbovePort(t *testing.T) {
	out, status, added := PatchDeploymentEnv([]byte(deploymentTemplate), twoBindings)

	require.Equal(t, StatusPatched, status)
	assert.Equal(t, []string{"service_cloudant", "service_appid"}, added)

	want := strings.Replace(deploymentTemplate, "          - name: PORT\n", `          - name: service_cloudant
            valueFrom:
              secretKeyRef:
                name: {{ .Values.services.cloudant.secretKeyRef }}
                key: binding
                optional: true
          - name: service_appid
            valueFrom:
              secretKeyRef:
                name: {{ .Values.services.appid.secretKeyRef }}
                key: binding
                optional: true
          - name: PORT
`, 1)
	assert.Equal(t, want, string(out))
}

func TestPatchDeploymentEnvIdempotent(t *testing.T) {
	once, status, _ := PatchDeploymentEnv([]byte(deploymentTemplate), twoBindings)
	require.Equal(t, StatusPatched, status)

	twice, status, added := PatchDeploymentEnv(once, twoBindings)
	assert.Equal(t, StatusUnchanged, status)
	assert.Empty(t, added)
	assert.Equal(t, string(once), string(twice))
}

func TestPatchDeploymentEnvAddsOnlyMissing(t *testing.T) {
	once, _, _ := PatchDeploymentEnv([]byte(deploymentTemplate), twoBindings[:1])

	out, status, added := PatchDeploymentEnv(once, twoBindings)
	require.Equal(t, StatusPatched, status)
	assert.Equal(t, []string{"service_appid"}, added)
	assert.Equal(t, 1, strings.Count(string(out), "- name: service_cloudant"))
	assert.Equal(t, 1, strings.Count(string(out), "- name: service_appid"))
}

func TestPatchDeploymentEnvAnchorMissing(t *testing.T) {
	noPort := strings.Replace(deploymentTemplate, "- name: PORT", "- name: LISTEN_PORT", 1)

	out, status, added := PatchDeploymentEnv([]byte(noPort), twoBindings)
	assert.Equal(t, StatusAnchorMissing, status)
	assert.Nil(t, added)
	assert.Equal(t, noPort, string(out))
}

func TestPatchDeploymentEnvPortOutsideEnvIgnored(t *testing.T) {
	content := "ports:\n  - name: PORT\n    containerPort: 3000\n"
	out, status, _ := PatchDeploymentEnv([]byte(content), twoBindings)
	assert.Equal(t, StatusAnchorMissing, status)
	assert.Equal(t, content, string(out))
}

func TestPatchDeploymentEnvEveryEnvBlock(t *testing.T) {
	content := `containers:
- name: app
  env:
  - name: PORT
    value: "3000"
- name: sidecar
  env:
  - name: PORT
    value: "9000"
`
	out, status, added := PatchDeploymentEnv([]byte(content), twoBindings[:1])
	require.Equal(t, StatusPatched, status)
	assert.Equal(t, []string{"service_cloudant", "service_cloudant"}, added)
	assert.Equal(t, 2, strings.Count(string(out), "- name: service_cloudant"))
}

func TestPatchDeploymentEnvPreservesCRLF(t *testing.T) {
	content := "env:\r\n  - name: PORT\r\n    value: \"3000\"\r\n"
	out, status, _ := PatchDeploymentEnv([]byte(content), twoBindings[:1])
	require.Equal(t, StatusPatched, status)
	assert.NotContains(t, strings.ReplaceAll(string(out), "\r\n", ""), "\n")
	assert.True(t, strings.HasSuffix(string(out), content[len("env:\r\n"):]))
}

func TestPatchDeploymentEnvNoTrailingNewline(t *testing.T) {
	content := "env:\n  - name: PORT"
	out, status, _ := PatchDeploymentEnv([]byte(content), twoBindings[:1])
	require.Equal(t, StatusPatched, status)
	assert.True(t, strings.HasSuffix(string(out), "optional: true\n  - name: PORT"))
}

func TestPatchDeploymentEnvExistingBelowPort(t *testing.T) {
	content := "env:\n  - name: PORT\n    value: \"3000\"\n  - name: service_cloudant\n    value: y\n"

	out, status, added := PatchDeploymentEnv([]byte(content), twoBindings)
	require.Equal(t, StatusPatched, status)
	assert.Equal(t, []string{"service_appid"}, added)
	assert.Equal(t, 1, strings.Count(string(out), "- name: service_cloudant"))

	out, status, added = PatchDeploymentEnv([]byte(content), twoBindings[:1])
	assert.Equal(t, StatusUnchanged, status)
	assert.Empty(t, added)
	assert.Equal(t, content, string(out))
}

func TestPatchDeploymentEnvPortWithComment(t *testing.T) {
	content := "env:\n  - name: PORT # http port\n    value: \"3000\"\n"

	out, status, added := PatchDeploymentEnv([]byte(content), twoBindings[:1])
	require.Equal(t, StatusPatched, status)
	assert.Equal(t, []string{"service_cloudant"}, added)
	assert.True(t, strings.HasPrefix(string(out), "env:\n  - name: service_cloudant\n"))
	assert.Contains(t, string(out), "optional: true\n  - name: PORT # http port\n")
}

func TestPatchDeploymentEnvBlockEndsOnDedent(t *testing.T) {
	content := `containers:
- name: app
  env:
  - name: LOG_LEVEL
    value: debug
  ports:
  - name: PORT
    containerPort: 3000
`
	out, status, added := PatchDeploymentEnv([]byte(content), twoBindings[:1])
	assert.Equal(t, StatusAnchorMissing, status)
	assert.Nil(t, added)
	assert.Equal(t, content, string(out))
}

func TestPatchDeploymentEnvNamesOutsideBlockIgnored(t *testing.T) {
	content := `containers:
- name: service_cloudant
  env:
  - name: PORT
    value: "3000"
`
	out, status, added := PatchDeploymentEnv([]byte(content), twoBindings[:1])
	require.Equal(t, StatusPatched, status)
	assert.Equal(t, []string{"service_cloudant"}, added)
	assert.Equal(t, 2, strings.Count(string(out), "- name: service_cloudant"))
}

func TestEnvBlocks(t *testing.T) {
	lines := splitLines("spec:\n  env:\n  - name: A\n\n    value: x\n  image: app\nenv:\n  - name: B\n")

	assert.Equal(t, []envBlock{{start: 2, end: 5}, {start: 7, end: 8}}, envBlocks(lines))
}
