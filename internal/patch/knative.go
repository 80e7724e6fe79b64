package patch

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
	corev1 "k8s.io/api/core/v1"
	sigsyaml "sigs.k8s.io/yaml"
)

// PatchKnativeEnv sets the env list of the first container of the first
// document carrying spec.template.spec.containers. An existing env list is
// never replaced.
func PatchKnativeEnv(content []byte, bindings []EnvBinding) ([]byte, Status, []string, error) {
	docs, err := decodeDocuments(content)
	if err != nil {
		return content, "", nil, err
	}

	var container *yaml.Node
	for _, doc := range docs {
		if container = firstContainer(doc); container != nil {
			break
		}
	}
	if container == nil {
		return content, StatusAnchorMissing, nil, nil
	}
	if env := mappingValue(container, "env"); env != nil && !isNull(env) {
		return content, StatusEnvExists, nil, nil
	}

	envNode, names, err := envListNode(bindings)
	if err != nil {
		return content, "", nil, err
	}
	setMappingValue(container, "env", envNode)

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	for _, doc := range docs {
		if err := enc.Encode(doc); err != nil {
			return content, "", nil, fmt.Errorf("encoding knative service: %w", err)
		}
	}
	if err := enc.Close(); err != nil {
		return content, "", nil, fmt.Errorf("encoding knative service: %w", err)
	}
	return buf.Bytes(), StatusPatched, names, nil
}

func decodeDocuments(content []byte) ([]*yaml.Node, error) {
	dec := yaml.NewDecoder(bytes.NewReader(content))
	var docs []*yaml.Node
	for {
		var doc yaml.Node
		err := dec.Decode(&doc)
		if errors.Is(err, io.EOF) {
			return docs, nil
		}
		if err != nil {
			return nil, fmt.Errorf("parsing knative service: %w", err)
		}
		docs = append(docs, &doc)
	}
}

// envListNode renders bindings as typed container env entries. Duplicate
// names keep their first occurrence.
func envListNode(bindings []EnvBinding) (*yaml.Node, []string, error) {
	seen := make(map[string]bool)
	env := make([]corev1.EnvVar, 0, len(bindings))
	names := make([]string, 0, len(bindings))
	for _, b := range bindings {
		if seen[b.EnvVarName] {
			continue
		}
		seen[b.EnvVarName] = true
		env = append(env, corev1.EnvVar{
			Name: b.EnvVarName,
			ValueFrom: &corev1.EnvVarSource{
				SecretKeyRef: &corev1.SecretKeySelector{
					LocalObjectReference: corev1.LocalObjectReference{Name: b.SecretRefName},
					Key:                  b.SecretKey,
				},
			},
		})
		names = append(names, b.EnvVarName)
	}

	data, err := sigsyaml.Marshal(env)
	if err != nil {
		return nil, nil, fmt.Errorf("encoding env: %w", err)
	}
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, nil, fmt.Errorf("decoding env: %w", err)
	}
	if len(doc.Content) == 0 {
		return &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}, names, nil
	}
	return doc.Content[0], names, nil
}

func firstContainer(doc *yaml.Node) *yaml.Node {
	node := doc
	if node.Kind == yaml.DocumentNode {
		if len(node.Content) == 0 {
			return nil
		}
		node = node.Content[0]
	}
	for _, key := range []string{"spec", "template", "spec", "containers"} {
		node = mappingValue(node, key)
		if node == nil {
			return nil
		}
	}
	if node.Kind != yaml.SequenceNode || len(node.Content) == 0 {
		return nil
	}
	if c := node.Content[0]; c.Kind == yaml.MappingNode {
		return c
	}
	return nil
}

func mappingValue(node *yaml.Node, key string) *yaml.Node {
	if node == nil || node.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		if node.Content[i].Value == key {
			return node.Content[i+1]
		}
	}
	return nil
}

func setMappingValue(node *yaml.Node, key string, value *yaml.Node) {
	for i := 0; i+1 < len(node.Content); i += 2 {
		if node.Content[i].Value == key {
			node.Content[i+1] = value
			return
		}
	}
	node.Content = append(node.Content,
		&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: key},
		value,
	)
}

func isNull(node *yaml.Node) bool {
	return node.Kind == yaml.ScalarNode && node.Tag == "!!null"
}
