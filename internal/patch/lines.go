package patch

import "strings"

// splitLines splits s after every newline so that joining the parts
// reproduces s exactly.
func splitLines(s string) []string {
	if s == "" {
		return nil
	}
	return strings.SplitAfter(s, "\n")
}

// lineEnding returns the terminator of line, defaulting to "\n" for a final
// unterminated line.
func lineEnding(line string) string {
	if strings.HasSuffix(line, "\r\n") {
		return "\r\n"
	}
	return "\n"
}

func trimEnding(line string) string {
	return strings.TrimRight(line, "\r\n")
}

// terminate makes sure the last line of b ends with a newline before more
// lines are appended.
func terminate(b *strings.Builder, eol string) {
	s := b.String()
	if s != "" && !strings.HasSuffix(s, "\n") {
		b.WriteString(eol)
	}
}
