// Package quantity compares Cloud Foundry memory sizes such as "256M" or "1G".
package quantity

import (
	"fmt"
	"regexp"
	"strings"

	"k8s.io/apimachinery/pkg/api/resource"

	oerrors "github.com/IBM/generator-ibm-cloud-assets/internal/errors"
)

var memoryPattern = regexp.MustCompile(`^([0-9]+)([KkMmGg])$`)

// Parse converts a "<int><K|M|G>" string into a binary-suffixed quantity
// (K = 1024 bytes).
func Parse(s string) (resource.Quantity, error) {
	m := memoryPattern.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return resource.Quantity{}, fmt.Errorf("%q: %w", s, oerrors.ErrInvalidQuantityFormat)
	}
	q, err := resource.ParseQuantity(m[1] + strings.ToUpper(m[2]) + "i")
	if err != nil {
		return resource.Quantity{}, fmt.Errorf("%q: %w: %v", s, oerrors.ErrInvalidQuantityFormat, err)
	}
	return q, nil
}

// Max returns whichever of a and b is the larger memory size, as the
// caller wrote it. An empty string is absent; if both are absent Max fails
// with ErrMissingQuantity. Ties return a.
func Max(a, b string) (string, error) {
	switch {
	case a == "" && b == "":
		return "", oerrors.ErrMissingQuantity
	case a == "":
		if _, err := Parse(b); err != nil {
			return "", err
		}
		return b, nil
	case b == "":
		if _, err := Parse(a); err != nil {
			return "", err
		}
		return a, nil
	}

	qa, err := Parse(a)
	if err != nil {
		return "", err
	}
	qb, err := Parse(b)
	if err != nil {
		return "", err
	}
	if qb.Cmp(qa) > 0 {
		return b, nil
	}
	return a, nil
}
