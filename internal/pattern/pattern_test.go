package pattern

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/IBM/generator-ibm-cloud-assets/internal/target"
)

func TestBuildCloudFoundry(t *testing.T) {
	m := Mapper{Target: target.CloudFoundry, LocalDevPath: "server/localdev-config.json"}

	got := m.Build("cloudant_apikey", "cloudant", Binding{CFLabel: "cloudantNoSQLDB", SecretName: "my-cloudant"})
	assert.Equal(t, Set{
		"cloudfoundry:$['cloudantNoSQLDB'][0].credentials.apikey",
		"file:/server/localdev-config.json:$.cloudant_apikey",
	}, got)

	got = m.Build("cloudant_apikey", "cloudant", Binding{})
	assert.Equal(t, Set{"file:/server/localdev-config.json:$.cloudant_apikey"}, got)
}

func TestBuildKubernetes(t *testing.T) {
	for _, tgt := range []target.DeploymentTarget{target.KubernetesHelm, target.Knative} {
		t.Run(tgt.String(), func(t *testing.T) {
			m := Mapper{Target: tgt, LocalDevPath: "/server/localdev-config.json"}
			got := m.Build("cloud_object_storage_apikey", "cloud-object-storage",
				Binding{CFLabel: "cloud-object-storage", SecretName: "my-cos"})
			assert.Equal(t, Set{
				"env:service_cloud_object_storage:$.apikey",
				"file:/server/localdev-config.json:$.cloud_object_storage_apikey",
			}, got)
		})
	}
}

func TestBuildNoTarget(t *testing.T) {
	m := Mapper{Target: target.None, LocalDevPath: "config/localdev-config.json"}
	got := m.Build("appid_secret", "appid", Binding{CFLabel: "AppID", SecretName: "appid"})
	assert.Equal(t, Set{"file:/config/localdev-config.json:$.appid_secret"}, got)
}

func TestLocalFileAlwaysLast(t *testing.T) {
	for _, tgt := range []target.DeploymentTarget{target.None, target.CloudFoundry, target.KubernetesHelm, target.Knative} {
		m := Mapper{Target: tgt, LocalDevPath: "server/localdev-config.json"}
		got := m.Build("svc_a", "svc", Binding{CFLabel: "svc", SecretName: "svc"})
		assert.Equal(t, "file:/server/localdev-config.json:$.svc_a", got[len(got)-1], tgt.String())
	}
}

func TestApplicationName(t *testing.T) {
	assert.Equal(t, Set{"cloudfoundry:$.application_name", "env:K_SERVICE"}, ApplicationName())
}

func TestFieldName(t *testing.T) {
	assert.Equal(t, "connection_uri", FieldName("my_db_connection_uri", "my-db"))
}

func TestChain(t *testing.T) {
	c := Chain{
		StaticLabels{"cloudant": "cloudantNoSQLDB", "blank": ""},
		nil,
		IdentityLabels,
	}

	l, ok := c.Label("cloudant")
	assert.True(t, ok)
	assert.Equal(t, "cloudantNoSQLDB", l)

	l, ok = c.Label("blank")
	assert.True(t, ok)
	assert.Equal(t, "blank", l)

	_, ok = Chain{StaticLabels{}}.Label("x")
	assert.False(t, ok)
}
