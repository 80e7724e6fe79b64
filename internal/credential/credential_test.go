package credential

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	oerrors "github.com/IBM/generator-ibm-cloud-assets/internal/errors"
)

func decode(t *testing.T, s string) any {
	t.Helper()
	dec := json.NewDecoder(strings.NewReader(s))
	dec.UseNumber()
	var v any
	require.NoError(t, dec.Decode(&v))
	return v
}

func TestFlattenNested(t *testing.T) {
	cred := decode(t, `{
		"apikey": "k1",
		"url": "http://x",
		"connection": {"postgres": {"hosts": [{"hostname": "h", "port": 5432}]}},
		"serviceInfo": {"name": "my-db", "label": "databases-for-postgresql", "plan": "standard"}
	}`)

	f, err := Flatten("my-db", cred)
	require.NoError(t, err)

	assert.Equal(t, FlatMap{
		"my_db_apikey": "k1",
		"my_db_url":    "http://x",
		"my_db_connection_postgres_hosts_0_hostname": "h",
		"my_db_connection_postgres_hosts_0_port":     json.Number("5432"),
	}, f.Map())
	assert.Equal(t, ServiceInfo{Name: "my-db", Label: "databases-for-postgresql", Plan: "standard"}, f.Info)

	for i := 1; i < len(f.Entries); i++ {
		assert.Less(t, f.Entries[i-1].Key, f.Entries[i].Key)
	}
	for _, e := range f.Entries {
		assert.Equal(t, "my_db_"+e.Field, e.Key)
		assert.Equal(t, e.Field, strings.Join(e.Path, "_"))
	}
}

func TestFlattenArrayObjectEquivalence(t *testing.T) {
	obj, err := Flatten("svc", decode(t, `{"a": 1}`))
	require.NoError(t, err)
	arr, err := Flatten("svc", decode(t, `[{"a": 1}]`))
	require.NoError(t, err)
	same, err := Flatten("svc", decode(t, `[{"a": 1}, {"a": 1}]`))
	require.NoError(t, err)

	assert.Equal(t, obj.Map(), arr.Map())
	assert.Equal(t, obj.Map(), same.Map())
}

func TestFlattenSkipsEmptyKeepsFalsy(t *testing.T) {
	f, err := Flatten("svc", decode(t, `{
		"empty": "",
		"missing": null,
		"zero": 0,
		"off": false,
		"nested": {"blank": "", "n": null}
	}`))
	require.NoError(t, err)

	assert.Equal(t, FlatMap{
		"svc_zero": json.Number("0"),
		"svc_off":  false,
	}, f.Map())
}

func TestFlattenExcludesServiceInfoAtAnyDepth(t *testing.T) {
	f, err := Flatten("svc", decode(t, `{
		"a": {"serviceInfo": {"name": "inner"}, "b": "x"},
		"serviceInfo": {"name": "outer"}
	}`))
	require.NoError(t, err)

	assert.Equal(t, FlatMap{"svc_a_b": "x"}, f.Map())
	assert.Equal(t, "outer", f.Info.Name)
}

func TestFlattenTotality(t *testing.T) {
	cred := map[string]any{
		"l1": "a",
		"l2": map[string]any{"l3": "b", "l4": map[string]any{"l5": true}},
		"l6": []any{"c", "d"},
		"l7": 3.5,
	}
	f, err := Flatten("svc", cred)
	require.NoError(t, err)
	assert.Len(t, f.Entries, 6)
}

func TestFlattenErrors(t *testing.T) {
	tests := []struct {
		name string
		cred any
	}{
		{"empty list", []any{}},
		{"differing list", []any{map[string]any{"a": "1"}, map[string]any{"a": "2"}}},
		{"list of scalars", []any{"x"}},
		{"scalar", "just-a-string"},
		{"null", nil},
		{"collision", map[string]any{"a_b": "1", "a": map[string]any{"b": "2"}}},
		{"bad service info", map[string]any{"serviceInfo": map[string]any{"name": 3}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Flatten("svc", tt.cred)
			require.Error(t, err)
			assert.ErrorIs(t, err, oerrors.ErrInvalidCredentialShape)
		})
	}
}

func TestFlattenServiceInfoString(t *testing.T) {
	f, err := Flatten("appid", decode(t, `{"secret": "s1", "serviceInfo": "my-appid"}`))
	require.NoError(t, err)
	assert.Equal(t, "my-appid", f.Info.Name)
	assert.Equal(t, FlatMap{"appid_secret": "s1"}, f.Map())
}
