package output

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/gonvenience/ytbx"
	"github.com/homeport/dyff/pkg/dyff"
	"github.com/k14s/difflib"
)

// FileChange is one file a dry run would create or modify.
type FileChange struct {
	Path   string
	Before []byte
	After  []byte
}

// Created reports whether the file does not exist yet.
func (c FileChange) Created() bool {
	return c.Before == nil
}

// DiffFile renders the difference between before and after. Documents that
// parse as YAML or JSON get a structural dyff report; anything else (Helm
// templates with placeholders) falls back to a line diff.
func DiffFile(path string, before, after []byte, useColor bool) string {
	if bytes.Equal(before, after) {
		return ""
	}
	if out, err := structuralDiff(path, before, after, useColor); err == nil && out != "" {
		return out
	}
	return lineDiff(before, after)
}

func structuralDiff(path string, before, after []byte, useColor bool) (string, error) {
	from, err := yamlInput(path, before)
	if err != nil {
		return "", err
	}
	to, err := yamlInput(path, after)
	if err != nil {
		return "", err
	}

	report, err := dyff.CompareInputFiles(from, to)
	if err != nil {
		return "", fmt.Errorf("comparing %s: %w", path, err)
	}
	if len(report.Diffs) == 0 {
		return "", nil
	}

	var buf bytes.Buffer
	writer := &dyff.HumanReport{
		Report:            report,
		DoNotInspectCerts: true,
		NoTableStyle:      !useColor,
		OmitHeader:        true,
	}
	if err := writer.WriteReport(&buf); err != nil {
		return "", fmt.Errorf("writing report: %w", err)
	}
	return strings.TrimSpace(buf.String()), nil
}

func yamlInput(path string, data []byte) (ytbx.InputFile, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return ytbx.InputFile{Location: path}, nil
	}
	docs, err := ytbx.LoadYAMLDocuments(data)
	if err != nil {
		return ytbx.InputFile{}, err
	}
	return ytbx.InputFile{Location: path, Documents: docs}, nil
}

func lineDiff(before, after []byte) string {
	return strings.TrimRight(difflib.PPDiff(
		strings.Split(string(before), "\n"),
		strings.Split(string(after), "\n"),
	), "\n")
}

// RenderChanges renders a dry-run report for changes.
func RenderChanges(changes []FileChange, useColor bool) string {
	var created, modified []FileChange
	for _, c := range changes {
		if bytes.Equal(c.Before, c.After) {
			continue
		}
		if c.Created() {
			created = append(created, c)
		} else {
			modified = append(modified, c)
		}
	}
	if len(created) == 0 && len(modified) == 0 {
		return "No changes detected."
	}

	var sb strings.Builder
	if len(created) > 0 {
		sb.WriteString(StyleAdded.Render("Created:"))
		sb.WriteString("\n")
		for _, c := range created {
			sb.WriteString("  + ")
			sb.WriteString(StyleNoun.Render(c.Path))
			sb.WriteString("\n")
			sb.WriteString(indent(string(c.After), "      "))
		}
		sb.WriteString("\n")
	}
	if len(modified) > 0 {
		sb.WriteString(StyleBold.Render("Modified:"))
		sb.WriteString("\n")
		for _, c := range modified {
			sb.WriteString("  ~ ")
			sb.WriteString(StyleNoun.Render(c.Path))
			sb.WriteString("\n")
			sb.WriteString(indent(DiffFile(c.Path, c.Before, c.After, useColor), "    "))
			sb.WriteString("\n")
		}
	}

	sb.WriteString("Summary: ")
	sb.WriteString(summary(len(created), len(modified)))
	sb.WriteString("\n")
	return sb.String()
}

func summary(created, modified int) string {
	parts := make([]string, 0, 2)
	if created > 0 {
		parts = append(parts, strconv.Itoa(created)+" created")
	}
	if modified > 0 {
		parts = append(parts, strconv.Itoa(modified)+" modified")
	}
	return strings.Join(parts, ", ")
}

func indent(s, prefix string) string {
	if s == "" {
		return ""
	}
	var sb strings.Builder
	for _, line := range strings.Split(s, "\n") {
		if line != "" {
			sb.WriteString(prefix)
			sb.WriteString(line)
			sb.WriteString("\n")
		}
	}
	return sb.String()
}
