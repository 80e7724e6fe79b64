// Package language holds the per-language tables the binding pipeline
// consumes: config file locations, dependency files, Spring key aliases and
// Cloud Foundry defaults.
package language

import (
	"fmt"
	"sort"
	"strings"

	oerrors "github.com/IBM/generator-ibm-cloud-assets/internal/errors"
)

// Language identifies the runtime an application is scaffolded for.
type Language string

// Supported languages.
const (
	Node   Language = "NODE"
	Python Language = "PYTHON"
	Django Language = "DJANGO"
	Java   Language = "JAVA"
	Spring Language = "SPRING"
	Swift  Language = "SWIFT"
	Go     Language = "GO"
)

// All returns every supported language in sorted order.
func All() []Language {
	all := []Language{Node, Python, Django, Java, Spring, Swift, Go}
	sort.Slice(all, func(i, j int) bool { return all[i] < all[j] })
	return all
}

// Parse resolves a case-insensitive language name.
func Parse(s string) (Language, error) {
	l := Language(strings.ToUpper(strings.TrimSpace(s)))
	for _, known := range All() {
		if l == known {
			return l, nil
		}
	}
	return "", oerrors.NewValidationError(
		fmt.Sprintf("unknown language %q", s),
		"", "language",
		"valid languages: "+strings.Join(names(), ", "),
	)
}

func names() []string {
	all := All()
	out := make([]string, len(all))
	for i, l := range all {
		out[i] = string(l)
	}
	return out
}

// String returns the canonical upper-case name.
func (l Language) String() string {
	return string(l)
}

// Paths locates the two JSON files the binding pipeline writes.
type Paths struct {
	Mappings string `json:"mappings" mapstructure:"mappings"`
	LocalDev string `json:"localDev" mapstructure:"localDev"`
}

var defaultPaths = map[Language]Paths{
	Node:   {Mappings: "server/config/mappings.json", LocalDev: "server/localdev-config.json"},
	Python: {Mappings: "server/config/mappings.json", LocalDev: "server/localdev-config.json"},
	Django: {Mappings: "server/config/mappings.json", LocalDev: "server/localdev-config.json"},
	Go:     {Mappings: "server/config/mappings.json", LocalDev: "server/localdev-config.json"},
	Java:   {Mappings: "src/main/resources/mappings.json", LocalDev: "src/main/resources/localdev-config.json"},
	Spring: {Mappings: "src/main/resources/mappings.json", LocalDev: "src/main/resources/localdev-config.json"},
	Swift:  {Mappings: "config/mappings.json", LocalDev: "config/localdev-config.json"},
}

// PathTable resolves config file locations per language. Entries in
// Overrides win over the built-in defaults; an override may set just one of
// the two paths.
type PathTable struct {
	Overrides map[Language]Paths
}

// Resolve returns the paths for l.
func (t PathTable) Resolve(l Language) (Paths, error) {
	p, ok := defaultPaths[l]
	if !ok {
		return Paths{}, fmt.Errorf("no path table entry for language %q: %w", l, oerrors.ErrValidation)
	}
	if o, ok := t.Overrides[l]; ok {
		if o.Mappings != "" {
			p.Mappings = o.Mappings
		}
		if o.LocalDev != "" {
			p.LocalDev = o.LocalDev
		}
	}
	return p, nil
}

// DependencyFile returns the file dependency descriptors are appended to,
// or "" when the language has none handled here.
func DependencyFile(l Language) string {
	switch l {
	case Go:
		return "Gopkg.toml"
	case Python, Django:
		return "requirements.txt"
	default:
		return ""
	}
}
