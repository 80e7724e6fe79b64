package language

// KeyAlias rewrites the mapping-file key of one service's credentials.
// Spring Boot starters expect their own property names.
type KeyAlias struct {
	ServiceKey string
	Separator  string
	Fields     map[string]string
}

var springAliases = map[string]KeyAlias{
	"cloud-object-storage": {
		ServiceKey: "cos",
		Separator:  ".",
		Fields: map[string]string{
			"apikey":               "api-key",
			"resource_instance_id": "service_instance_id",
		},
	},
}

// AliasFor returns the alias for serviceID under l, if any.
func AliasFor(l Language, serviceID string) (KeyAlias, bool) {
	if l != Spring {
		return KeyAlias{}, false
	}
	a, ok := springAliases[serviceID]
	return a, ok
}

// Key builds the aliased mapping key for a field path.
func (a KeyAlias) Key(field string) string {
	if renamed, ok := a.Fields[field]; ok {
		field = renamed
	}
	return a.ServiceKey + a.Separator + field
}
