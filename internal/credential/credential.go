// Package credential flattens service credential documents into compound
// keys.
package credential

import (
	"encoding/json"
	"fmt"
	"reflect"
	"sort"
	"strconv"
	"strings"

	oerrors "github.com/IBM/generator-ibm-cloud-assets/internal/errors"
	"github.com/IBM/generator-ibm-cloud-assets/internal/naming"
)

// ServiceInfoField holds binding metadata and is never flattened.
const ServiceInfoField = "serviceInfo"

// ServiceInfo is the binding metadata carried next to the credentials.
type ServiceInfo struct {
	// Name is the service instance name. Kubernetes secrets are named after it.
	Name string `json:"name,omitempty"`
	// Label is the Cloud Foundry service label (e.g. "cloudantNoSQLDB").
	Label string `json:"label,omitempty"`
	Plan  string `json:"plan,omitempty"`
}

// Entry is one flattened leaf.
type Entry struct {
	// Key is the compound key, normalized service id first.
	Key string
	// Field is Key without the service id prefix.
	Field string
	// Path is the source path of the leaf below the credential root.
	Path  []string
	Value any
}

// FlatMap maps compound keys to leaf scalars.
type FlatMap map[string]any

// Flattened is the result of flattening one service's credentials.
type Flattened struct {
	ServiceID string
	Entries   []Entry
	Info      ServiceInfo
}

// Map returns the entries as a FlatMap.
func (f Flattened) Map() FlatMap {
	m := make(FlatMap, len(f.Entries))
	for _, e := range f.Entries {
		m[e.Key] = e.Value
	}
	return m
}

// Flatten converts credential into compound-keyed leaves for serviceID.
//
// credential may be an object or a list of objects. A one-element list is
// unwrapped; a longer list is accepted only if every element is identical.
// Null and empty-string leaves are skipped, other scalars (including 0 and
// false) are kept. Entries are sorted by key.
func Flatten(serviceID string, credential any) (Flattened, error) {
	root, err := normalize(credential)
	if err != nil {
		return Flattened{}, err
	}

	out := Flattened{ServiceID: serviceID}
	if raw, ok := root[ServiceInfoField]; ok {
		info, err := decodeServiceInfo(raw)
		if err != nil {
			return Flattened{}, err
		}
		out.Info = info
	}

	seen := make(map[string][]string)
	if err := walk(root, nil, func(path []string, v any) error {
		path = append([]string(nil), path...)
		field := strings.Join(path, "_")
		key := naming.CompoundKey(serviceID, field)
		if prev, dup := seen[key]; dup {
			return fmt.Errorf("%w: %q and %q both flatten to %q",
				oerrors.ErrInvalidCredentialShape, strings.Join(prev, "."), strings.Join(path, "."), key)
		}
		seen[key] = path
		out.Entries = append(out.Entries, Entry{
			Key:   key,
			Field: field,
			Path:  path,
			Value: v,
		})
		return nil
	}); err != nil {
		return Flattened{}, err
	}

	sort.Slice(out.Entries, func(i, j int) bool { return out.Entries[i].Key < out.Entries[j].Key })
	return out, nil
}

// normalize reduces the object-or-list forms to a single object.
func normalize(credential any) (map[string]any, error) {
	switch c := credential.(type) {
	case map[string]any:
		return c, nil
	case []any:
		switch len(c) {
		case 0:
			return nil, fmt.Errorf("%w: credential list is empty", oerrors.ErrInvalidCredentialShape)
		case 1:
		default:
			for i := 1; i < len(c); i++ {
				if !reflect.DeepEqual(c[0], c[i]) {
					return nil, fmt.Errorf("%w: credential list has %d differing elements",
						oerrors.ErrInvalidCredentialShape, len(c))
				}
			}
		}
		obj, ok := c[0].(map[string]any)
		if !ok {
			return nil, fmt.Errorf("%w: credential list element is %T, want object",
				oerrors.ErrInvalidCredentialShape, c[0])
		}
		return obj, nil
	case nil:
		return nil, fmt.Errorf("%w: credential is null", oerrors.ErrInvalidCredentialShape)
	default:
		return nil, fmt.Errorf("%w: credential is %T, want object or list",
			oerrors.ErrInvalidCredentialShape, credential)
	}
}

func walk(node map[string]any, prefix []string, emit func([]string, any) error) error {
	keys := make([]string, 0, len(node))
	for k := range node {
		if k != ServiceInfoField {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	for _, k := range keys {
		if err := walkValue(node[k], append(prefix, k), emit); err != nil {
			return err
		}
	}
	return nil
}

func walkValue(v any, path []string, emit func([]string, any) error) error {
	switch val := v.(type) {
	case nil:
		return nil
	case string:
		if val == "" {
			return nil
		}
		return emit(path, val)
	case bool, json.Number, float64, float32, int, int32, int64, uint, uint32, uint64:
		return emit(path, val)
	case map[string]any:
		return walk(val, path, emit)
	case []any:
		for i, elem := range val {
			if err := walkValue(elem, append(path, strconv.Itoa(i)), emit); err != nil {
				return err
			}
		}
		return nil
	default:
		return fmt.Errorf("%w: unsupported value %T at %s",
			oerrors.ErrInvalidCredentialShape, v, strings.Join(path, "."))
	}
}

func decodeServiceInfo(raw any) (ServiceInfo, error) {
	switch v := raw.(type) {
	case nil:
		return ServiceInfo{}, nil
	case string:
		// A bare string is the instance name.
		return ServiceInfo{Name: v}, nil
	}
	data, err := json.Marshal(raw)
	if err != nil {
		return ServiceInfo{}, fmt.Errorf("encoding %s: %w", ServiceInfoField, err)
	}
	var info ServiceInfo
	if err := json.Unmarshal(data, &info); err != nil {
		return ServiceInfo{}, fmt.Errorf("%w: %s: %v", oerrors.ErrInvalidCredentialShape, ServiceInfoField, err)
	}
	return info, nil
}
