package patch

import (
	"regexp"
	"strings"
)

var (
	envKey      = regexp.MustCompile(`^(\s*)env:\s*(#.*)?$`)
	portAnchor  = regexp.MustCompile(`^(\s*)- name: ["']?PORT["']?\s*(#.*)?$`)
	envListName = regexp.MustCompile(`^\s*- name: ["']?([^"'\s#]+)["']?\s*(#.*)?$`)
)

// envBlock is the line range [start, end) of the entries below one env: key.
type envBlock struct {
	start, end int
}

// PatchDeploymentEnv inserts one secretKeyRef entry per binding directly
// above the "- name: PORT" entry of every env block in content, at the
// anchor's indentation. Bindings whose name already appears anywhere in the
// block are skipped so repeated application is a no-op.
func PatchDeploymentEnv(content []byte, bindings []EnvBinding) ([]byte, Status, []string) {
	lines := splitLines(string(content))

	var (
		anchored bool
		added    []string
	)
	inserts := make(map[int][]EnvBinding)
	for _, block := range envBlocks(lines) {
		existing := make(map[string]bool)
		anchor := -1
		for i := block.start; i < block.end; i++ {
			bare := trimEnding(lines[i])
			if anchor < 0 && portAnchor.MatchString(bare) {
				anchor = i
			}
			if m := envListName.FindStringSubmatch(bare); m != nil {
				existing[m[1]] = true
			}
		}
		if anchor < 0 {
			continue
		}
		anchored = true
		for _, b := range bindings {
			if existing[b.EnvVarName] {
				continue
			}
			existing[b.EnvVarName] = true
			inserts[anchor] = append(inserts[anchor], b)
			added = append(added, b.EnvVarName)
		}
	}

	switch {
	case !anchored:
		return content, StatusAnchorMissing, nil
	case len(added) == 0:
		return content, StatusUnchanged, nil
	}

	var out strings.Builder
	out.Grow(len(content))
	for i, line := range lines {
		if envs := inserts[i]; len(envs) > 0 {
			indent := portAnchor.FindStringSubmatch(trimEnding(line))[1]
			eol := lineEnding(line)
			for _, b := range envs {
				writeEnvEntry(&out, indent, eol, b)
			}
		}
		out.WriteString(line)
	}
	return []byte(out.String()), StatusPatched, added
}

// envBlocks finds every env: key and the lines that belong to it. A block
// ends at the first non-blank line indented left of the key, or at the
// key's indentation unless it is a list item.
func envBlocks(lines []string) []envBlock {
	var blocks []envBlock
	for i := 0; i < len(lines); i++ {
		m := envKey.FindStringSubmatch(trimEnding(lines[i]))
		if m == nil {
			continue
		}
		keyIndent := len(m[1])
		end := i + 1
		for ; end < len(lines); end++ {
			bare := trimEnding(lines[end])
			body := strings.TrimLeft(bare, " \t")
			if body == "" {
				continue
			}
			indent := len(bare) - len(body)
			if indent < keyIndent || (indent == keyIndent && !strings.HasPrefix(body, "- ")) {
				break
			}
		}
		blocks = append(blocks, envBlock{start: i + 1, end: end})
		i = end - 1
	}
	return blocks
}

func writeEnvEntry(b *strings.Builder, indent, eol string, env EnvBinding) {
	b.WriteString(indent + "- name: " + env.EnvVarName + eol)
	b.WriteString(indent + "  valueFrom:" + eol)
	b.WriteString(indent + "    secretKeyRef:" + eol)
	b.WriteString(indent + "      name: " + env.SecretRefName + eol)
	b.WriteString(indent + "      key: " + env.SecretKey + eol)
	b.WriteString(indent + "      optional: true" + eol)
}
