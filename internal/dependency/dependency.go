// Package dependency records dependency descriptors in a language's
// dependency file.
package dependency

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"

	"github.com/IBM/generator-ibm-cloud-assets/internal/fsutil"
	"github.com/IBM/generator-ibm-cloud-assets/internal/language"
)

// Updater receives raw dependency descriptors.
type Updater interface {
	Update(descriptor string) error
}

// UpdaterFunc adapts a function to Updater.
type UpdaterFunc func(descriptor string) error

// Update calls f.
func (f UpdaterFunc) Update(descriptor string) error { return f(descriptor) }

// Nop ignores every descriptor.
type Nop struct{}

// Update does nothing.
func (Nop) Update(string) error { return nil }

// FileAppender appends descriptors to a text file, once each.
type FileAppender struct {
	Fs   afero.Fs
	Path string
}

// Update appends descriptor unless the file already contains it. A missing
// file is created.
func (a FileAppender) Update(descriptor string) error {
	descriptor = strings.TrimRight(descriptor, "\r\n")
	if strings.TrimSpace(descriptor) == "" {
		return nil
	}

	existing, _, err := fsutil.ReadIfExists(a.Fs, a.Path)
	if err != nil {
		return err
	}
	if bytes.Contains(existing, []byte(descriptor)) {
		return nil
	}

	var buf bytes.Buffer
	buf.Write(existing)
	if len(existing) > 0 && !bytes.HasSuffix(existing, []byte("\n")) {
		buf.WriteByte('\n')
	}
	buf.WriteString(descriptor)
	buf.WriteByte('\n')

	if err := fsutil.WriteAtomic(a.Fs, a.Path, buf.Bytes()); err != nil {
		return fmt.Errorf("updating %s: %w", a.Path, err)
	}
	return nil
}

// ForLanguage returns the updater for l's dependency file under dir, or Nop
// when l has none.
func ForLanguage(fsys afero.Fs, dir string, l language.Language) Updater {
	name := language.DependencyFile(l)
	if name == "" {
		return Nop{}
	}
	return FileAppender{Fs: fsys, Path: filepath.Join(dir, name)}
}
