package naming

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeAlphaNum(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"MyApp", "MyApp"},
		{"123my-app!", "myapp"},
		{"  hello world ", "helloworld"},
		{"", DefaultAppName},
		{"9999", DefaultAppName},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, SanitizeAlphaNum(tt.in))
		})
	}
}

func TestSanitizeAlphaNumLowerCase(t *testing.T) {
	assert.Equal(t, "myapp", SanitizeAlphaNumLowerCase("My-App"))
	assert.Equal(t, "app", SanitizeAlphaNumLowerCase(""))
}

func TestSanitizeAlphaNumDash(t *testing.T) {
	assert.Equal(t, "my-cool-app", SanitizeAlphaNumDash("1 My Cool App"))
	assert.Equal(t, "appname", SanitizeAlphaNumDash(""))
	assert.Equal(t, "a-b", SanitizeAlphaNumDash("a-b!?"))
}

func TestCompoundKey(t *testing.T) {
	assert.Equal(t, "cloud_object_storage_apikey", CompoundKey("cloud-object-storage", "apikey"))
	assert.Equal(t, "db_conn_uri", CompoundKey("db", "conn", "uri"))
	assert.Equal(t, "appid", CompoundKey("appid"))
}

func TestEnvVarName(t *testing.T) {
	assert.Equal(t, "service_cloudant", EnvVarName("cloudant"))
	assert.Equal(t, "service_cloud_object_storage", EnvVarName("cloud-object-storage"))
}

func TestHelmSecretRef(t *testing.T) {
	assert.Equal(t, "{{ .Values.services.cloudant.secretKeyRef }}", HelmSecretRef("cloudant"))
	assert.Equal(t,
		`{{ (index .Values.services "cloud-object-storage").secretKeyRef }}`,
		HelmSecretRef("cloud-object-storage"))
}

func TestSecretName(t *testing.T) {
	assert.Equal(t, "my-cloudant", SecretName("My-Cloudant"))
}
