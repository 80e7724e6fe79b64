package binding

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
)

// mergeJSON adds the keys of entries that existing does not have yet.
// Existing keys keep their values and existing content is returned as is
// when nothing is added. Output keys are sorted, indented with two
// spaces and newline terminated. added lists the new keys in order.
func mergeJSON[V any](existing []byte, entries map[string]V) (merged []byte, added []string, err error) {
	doc := map[string]json.RawMessage{}
	if len(bytes.TrimSpace(existing)) > 0 {
		if err := json.Unmarshal(existing, &doc); err != nil {
			return nil, nil, fmt.Errorf("parsing existing content: %w", err)
		}
		if doc == nil {
			doc = map[string]json.RawMessage{}
		}
	}

	for key, value := range entries {
		if _, ok := doc[key]; ok {
			continue
		}
		raw, err := marshal(value)
		if err != nil {
			return nil, nil, fmt.Errorf("encoding %s: %w", key, err)
		}
		doc[key] = raw
		added = append(added, key)
	}
	sort.Strings(added)
	if len(added) == 0 && existing != nil {
		return existing, nil, nil
	}

	out, err := marshalIndent(doc)
	if err != nil {
		return nil, nil, err
	}
	return out, added, nil
}

func marshal(v any) (json.RawMessage, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

func marshalIndent(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
