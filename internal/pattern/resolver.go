package pattern

// LabelResolver finds the Cloud Foundry label for a service id.
type LabelResolver interface {
	Label(serviceID string) (string, bool)
}

// LabelResolverFunc adapts a function to LabelResolver.
type LabelResolverFunc func(serviceID string) (string, bool)

// Label implements LabelResolver.
func (f LabelResolverFunc) Label(serviceID string) (string, bool) {
	return f(serviceID)
}

// StaticLabels resolves labels from a fixed table.
type StaticLabels map[string]string

// Label implements LabelResolver.
func (s StaticLabels) Label(serviceID string) (string, bool) {
	l, ok := s[serviceID]
	return l, ok && l != ""
}

// IdentityLabels resolves every service id to itself.
var IdentityLabels = LabelResolverFunc(func(serviceID string) (string, bool) {
	return serviceID, serviceID != ""
})

// Chain consults resolvers in order and returns the first hit.
type Chain []LabelResolver

// Label implements LabelResolver.
func (c Chain) Label(serviceID string) (string, bool) {
	for _, r := range c {
		if r == nil {
			continue
		}
		if l, ok := r.Label(serviceID); ok {
			return l, true
		}
	}
	return "", false
}
