package cmd

import (
	"bytes"
	"io"
	"testing"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"

	"github.com/IBM/generator-ibm-cloud-assets/internal/output"
)

const helmDeployment = `apiVersion: apps/v1
kind: Deployment
spec:
  template:
    spec:
      containers:
      - name: "{{  .Chart.Name  }}"
        env:
          - name: PORT
            value: "{{ .Values.service.servicePort }}"
`

// quietCLI silences the shared logger and clears the environment the
// commands consult.
func quietCLI(t *testing.T) {
	t.Helper()
	t.Setenv("CLOUD_ASSETS_TARGET", "")
	t.Setenv("CLOUD_ASSETS_LANGUAGE", "")
	output.SetupLogging(output.LogConfig{})
	output.Logger.SetOutput(io.Discard)
	t.Cleanup(func() { output.SetupLogging(output.LogConfig{}) })
}

func helmFs(t *testing.T) afero.Fs {
	t.Helper()
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/app/chart/myapp/templates/deployment.yaml", []byte(helmDeployment), 0o644))
	require.NoError(t, afero.WriteFile(fs, "/app/chart/myapp/values.yaml", []byte("replicaCount: 1\n"), 0o644))
	return fs
}

func run(c *cobra.Command, args ...string) (string, error) {
	var out bytes.Buffer
	c.SetOut(&out)
	c.SetErr(&bytes.Buffer{})
	c.SetArgs(args)
	err := c.Execute()
	return out.String(), err
}
