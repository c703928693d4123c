// Package archive handles submission zips: extracting and validating a
// submitted archive, and creating one from a student source tree.
package archive

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/zip"

	"github.com/amitnovick/compilation-ex4-testers/internal/models"
)

// StructureError reports a malformed submission archive. It is fatal to the
// run: nothing can be built from a submission that is missing a required
// structural element.
type StructureError struct {
	Archive string
	// Missing names the first required element that was not found.
	Missing string
	Detail  string
}

func (e *StructureError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("invalid submission %s: %s (%s)", e.Archive, e.Missing, e.Detail)
	}
	return fmt.Sprintf("invalid submission %s: missing %s", e.Archive, e.Missing)
}

// SourceRoot is an extracted, structurally valid submission. It owns a unique
// temporary directory which Close removes unless the root is retained.
type SourceRoot struct {
	// Dir is the extraction root holding the manifest and source dir.
	Dir string
	// SourceDir is the absolute path of the source subdirectory.
	SourceDir string
	// IDs are the non-empty identifier lines from the manifest.
	IDs []string

	retained bool
}

// Retain keeps the extraction directory on Close, for debugging failed builds.
func (s *SourceRoot) Retain() { s.retained = true }

// Close removes the extraction directory unless Retain was called.
func (s *SourceRoot) Close() error {
	if s.retained || s.Dir == "" {
		return nil
	}
	return os.RemoveAll(s.Dir)
}

// Inspect extracts archivePath into a freshly created temporary directory and
// validates the submission structure: the identifier manifest, the source
// subdirectory, and the build descriptor inside it, in that order. The first
// missing element yields a *StructureError; no partial recovery is attempted.
// On any error the temporary directory is removed before returning.
func Inspect(archivePath string, spec *models.SuiteSpec) (*SourceRoot, error) {
	if _, err := os.Stat(archivePath); err != nil {
		return nil, fmt.Errorf("submission archive: %w", err)
	}

	reader, err := zip.OpenReader(archivePath)
	if err != nil {
		return nil, &StructureError{
			Archive: filepath.Base(archivePath),
			Missing: "zip structure",
			Detail:  err.Error(),
		}
	}
	defer reader.Close()

	tempDir, err := os.MkdirTemp("", "ex4-submission-*")
	if err != nil {
		return nil, fmt.Errorf("creating extraction directory: %w", err)
	}

	root, err := inspectInto(tempDir, archivePath, &reader.Reader, spec)
	if err != nil {
		os.RemoveAll(tempDir)
		return nil, err
	}
	return root, nil
}

func inspectInto(tempDir, archivePath string, reader *zip.Reader, spec *models.SuiteSpec) (*SourceRoot, error) {
	name := filepath.Base(archivePath)

	if err := extractAll(tempDir, reader); err != nil {
		return nil, err
	}

	// Identifier manifest with at least one non-empty line.
	manifestPath := filepath.Join(tempDir, spec.ManifestName)
	ids, err := readManifest(manifestPath)
	if err != nil {
		return nil, &StructureError{Archive: name, Missing: spec.ManifestName, Detail: err.Error()}
	}
	if len(ids) == 0 {
		return nil, &StructureError{
			Archive: name,
			Missing: spec.ManifestName,
			Detail:  "no identifier lines",
		}
	}

	// Source subdirectory.
	sourceDir := filepath.Join(tempDir, spec.SourceDir)
	info, err := os.Stat(sourceDir)
	if err != nil || !info.IsDir() {
		return nil, &StructureError{Archive: name, Missing: spec.SourceDir + "/"}
	}

	// Build descriptor inside it.
	descriptor := filepath.Join(sourceDir, spec.BuildDescriptor)
	if info, err := os.Stat(descriptor); err != nil || info.IsDir() {
		return nil, &StructureError{
			Archive: name,
			Missing: spec.SourceDir + "/" + spec.BuildDescriptor,
		}
	}

	return &SourceRoot{Dir: tempDir, SourceDir: sourceDir, IDs: ids}, nil
}

// extractAll writes every archive entry under destDir, rejecting entries whose
// resolved path would escape it.
func extractAll(destDir string, reader *zip.Reader) error {
	baseWithSep := filepath.Clean(destDir) + string(os.PathSeparator)

	for _, f := range reader.File {
		target := filepath.Join(destDir, filepath.Clean(f.Name))
		if target != filepath.Clean(destDir) && !strings.HasPrefix(target, baseWithSep) {
			return fmt.Errorf("archive entry %q escapes extraction directory", f.Name)
		}

		if f.FileInfo().IsDir() {
			if err := os.MkdirAll(target, 0o755); err != nil {
				return fmt.Errorf("creating directory %q: %w", f.Name, err)
			}
			continue
		}

		if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
			return fmt.Errorf("creating directory for %q: %w", f.Name, err)
		}

		if err := extractFile(target, f); err != nil {
			return err
		}
	}
	return nil
}

func extractFile(target string, f *zip.File) error {
	src, err := f.Open()
	if err != nil {
		return fmt.Errorf("opening archive entry %q: %w", f.Name, err)
	}
	defer src.Close()

	dst, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, f.Mode().Perm()|0o600)
	if err != nil {
		return fmt.Errorf("writing archive entry %q: %w", f.Name, err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return fmt.Errorf("extracting %q: %w", f.Name, err)
	}
	return nil
}

// readManifest returns the trimmed non-empty lines of the identifier manifest.
func readManifest(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var ids []string
	for _, line := range strings.Split(string(data), "\n") {
		if line = strings.TrimSpace(line); line != "" {
			ids = append(ids, line)
		}
	}
	return ids, nil
}
