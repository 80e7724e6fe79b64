package cmdutil

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"

	"github.com/IBM/generator-ibm-cloud-assets/internal/binding"
	oerrors "github.com/IBM/generator-ibm-cloud-assets/internal/errors"
	"github.com/IBM/generator-ibm-cloud-assets/internal/output"
	"github.com/IBM/generator-ibm-cloud-assets/internal/patch"
)

// PrintServiceErrors logs each skipped service with its id.
func PrintServiceErrors(errs []error) {
	for _, err := range errs {
		var svcErr *oerrors.ServiceError
		if errors.As(err, &svcErr) {
			output.ServiceLogger(output.Logger, svcErr.ServiceID).Error("service not bound", "err", svcErr.Err)
			continue
		}
		output.Error(err.Error())
	}
}

// WriteBindSummary writes one line per output file of a bind run. Paths are
// shown relative to dir.
func WriteBindSummary(w io.Writer, dir string, report *binding.Report) {
	for _, f := range []binding.FileResult{report.Mappings, report.LocalDev} {
		if f.Path == "" {
			continue
		}
		fmt.Fprintln(w, output.FormatFileLine(RelPath(dir, f.Path), f.Status))
	}
	for _, p := range report.Patches {
		fmt.Fprintln(w, output.FormatFileLine(RelPath(dir, p.Path), PatchStatusWord(p.Status)))
	}
}

// WriteBindTree writes the files of a bind run as a tree under root.
func WriteBindTree(w io.Writer, root, dir string, report *binding.Report) {
	files := map[string]string{}
	for _, f := range []binding.FileResult{report.Mappings, report.LocalDev} {
		if f.Path != "" {
			files[RelPath(dir, f.Path)] = f.Status
		}
	}
	for _, p := range report.Patches {
		files[RelPath(dir, p.Path)] = PatchStatusWord(p.Status)
	}
	fmt.Fprint(w, output.RenderFileTree(root, files))
}

// PatchStatusWord maps a patch status to a summary status word.
func PatchStatusWord(s patch.Status) string {
	switch s {
	case patch.StatusPatched:
		return output.StatusPatched
	case patch.StatusUnchanged:
		return output.StatusUnchanged
	default:
		return output.StatusSkipped
	}
}

// WriteChanges writes a dry-run change report.
func WriteChanges(w io.Writer, changes []output.FileChange) {
	fmt.Fprintln(w, output.RenderChanges(changes, output.IsTTY()))
}

// RelPath returns path relative to dir, or path itself when it has none.
func RelPath(dir, path string) string {
	if rel, err := filepath.Rel(dir, path); err == nil {
		return rel
	}
	return path
}
