package patch

import (
	"regexp"
	"strings"
)

var (
	servicesMarker = regexp.MustCompile(`^services:[ \t]*(\{\}|null|~)?[ \t]*(#.*)?$`)
	valuesChild    = regexp.MustCompile(`^[ \t]+["']?([^"'\s:#]+)["']?:`)
)

// PatchValues adds a "<id>: secretKeyRef: <secret>" entry under the
// top-level services: key of a Helm values file, appending a services:
// section at the end when there is none. Ids already listed are skipped.
func PatchValues(content []byte, refs []ServiceRef) ([]byte, Status, []string) {
	lines := splitLines(string(content))

	marker := -1
	for i, line := range lines {
		if servicesMarker.MatchString(trimEnding(line)) {
			marker = i
			break
		}
	}

	eol := "\n"
	if len(lines) > 0 {
		eol = lineEnding(lines[0])
	}

	existing := make(map[string]bool)
	if marker >= 0 {
		childIndent := ""
		for _, line := range lines[marker+1:] {
			bare := trimEnding(line)
			trimmed := strings.TrimSpace(bare)
			if trimmed == "" || strings.HasPrefix(trimmed, "#") {
				continue
			}
			indent := bare[:len(bare)-len(strings.TrimLeft(bare, " \t"))]
			if indent == "" {
				break
			}
			if childIndent == "" {
				childIndent = indent
			}
			if indent != childIndent {
				continue
			}
			if m := valuesChild.FindStringSubmatch(bare); m != nil {
				existing[m[1]] = true
			}
		}
	}

	var (
		block strings.Builder
		added []string
	)
	for _, ref := range refs {
		if existing[ref.ServiceID] {
			continue
		}
		existing[ref.ServiceID] = true
		block.WriteString("  " + ref.ServiceID + ":" + eol)
		block.WriteString("    secretKeyRef: " + ref.SecretName + eol)
		added = append(added, ref.ServiceID)
	}
	if len(added) == 0 {
		return content, StatusUnchanged, nil
	}

	var out strings.Builder
	out.Grow(len(content) + block.Len() + len("services:\n"))
	if marker < 0 {
		out.Write(content)
		terminate(&out, eol)
		out.WriteString("services:" + eol)
		out.WriteString(block.String())
		return []byte(out.String()), StatusPatched, added
	}

	for i, line := range lines {
		if i != marker {
			out.WriteString(line)
			continue
		}
		// "services: {}" becomes a block mapping.
		if bare := trimEnding(line); strings.TrimSpace(strings.SplitN(bare, "#", 2)[0]) != "services:" {
			out.WriteString("services:" + lineEnding(line))
		} else {
			out.WriteString(line)
			terminate(&out, eol)
		}
		out.WriteString(block.String())
	}
	return []byte(out.String()), StatusPatched, added
}
