package archive

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/zip"

	"github.com/amitnovick/compilation-ex4-testers/internal/models"
)

// requiredPaths are the source-tree entries the Makefile needs to build; the
// pack command copies nothing else into the archive (whitelist approach).
var requiredPaths = []string{
	"Makefile",
	"manifest",
	"jflex",
	"cup",
	"external_jars",
	"src",
}

// ignoredNames are generated or editor files skipped even inside required
// directories.
var ignoredNames = map[string]bool{
	"__pycache__": true,
	".git":        true,
	".gitignore":  true,
	".DS_Store":   true,
}

var ignoredSuffixes = []string{".class", ".o", ".so", ".a", ".swp", ".swo"}

// CreateOptions controls submission archive creation.
type CreateOptions struct {
	// SourceDir is the student source tree (the ex4 directory).
	SourceDir string
	// IDs are the student identifiers, one per manifest line. The first ID
	// names the archive: <id>.zip.
	IDs []string
	// OutputDir receives the archive; empty means the current directory.
	OutputDir string
	// Force overwrites an existing archive.
	Force bool
}

// Create writes a submission archive containing the identifier manifest and
// the whitelisted contents of the source tree under the source subdirectory
// name, then re-validates the written zip against the same structural contract
// Inspect enforces. Returns the archive path.
func Create(opts CreateOptions, spec *models.SuiteSpec) (string, error) {
	ids, err := validIDs(opts.IDs)
	if err != nil {
		return "", err
	}

	if info, err := os.Stat(opts.SourceDir); err != nil {
		return "", fmt.Errorf("source directory: %w", err)
	} else if !info.IsDir() {
		return "", fmt.Errorf("source path %s is not a directory", opts.SourceDir)
	}
	if _, err := os.Stat(filepath.Join(opts.SourceDir, spec.BuildDescriptor)); err != nil {
		return "", fmt.Errorf("%s not found in %s", spec.BuildDescriptor, opts.SourceDir)
	}

	outDir := opts.OutputDir
	if outDir == "" {
		outDir = "."
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return "", fmt.Errorf("creating output directory: %w", err)
	}

	zipPath := filepath.Join(outDir, ids[0]+".zip")
	if !opts.Force {
		if _, err := os.Stat(zipPath); err == nil {
			return "", fmt.Errorf("archive %s already exists (use --force to overwrite)", zipPath)
		}
	}

	if err := writeArchive(zipPath, opts.SourceDir, ids, spec); err != nil {
		os.Remove(zipPath)
		return "", err
	}

	if err := verifyArchive(zipPath, spec); err != nil {
		os.Remove(zipPath)
		return "", fmt.Errorf("verifying %s: %w", zipPath, err)
	}

	return zipPath, nil
}

func writeArchive(zipPath, sourceDir string, ids []string, spec *models.SuiteSpec) error {
	out, err := os.Create(zipPath)
	if err != nil {
		return fmt.Errorf("creating archive: %w", err)
	}
	defer out.Close()

	zw := zip.NewWriter(out)
	defer zw.Close()

	manifest := strings.Join(ids, "\n") + "\n"
	if err := writeEntry(zw, spec.ManifestName, strings.NewReader(manifest)); err != nil {
		return err
	}

	for _, rel := range requiredPaths {
		src := filepath.Join(sourceDir, rel)
		info, err := os.Stat(src)
		if err != nil {
			continue // whitelist entries are optional except the descriptor, checked earlier
		}

		if !info.IsDir() {
			if err := addFile(zw, src, spec.SourceDir+"/"+rel); err != nil {
				return err
			}
			continue
		}

		err = filepath.WalkDir(src, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				if ignoredNames[d.Name()] {
					return fs.SkipDir
				}
				return nil
			}
			if skipFile(d.Name(), spec.ExecutableName) {
				return nil
			}
			relPath, err := filepath.Rel(sourceDir, path)
			if err != nil {
				return err
			}
			return addFile(zw, path, spec.SourceDir+"/"+filepath.ToSlash(relPath))
		})
		if err != nil {
			return fmt.Errorf("archiving %s: %w", rel, err)
		}
	}

	return nil
}

func skipFile(name, executableName string) bool {
	if ignoredNames[name] || name == executableName {
		return true
	}
	for _, suffix := range ignoredSuffixes {
		if strings.HasSuffix(name, suffix) {
			return true
		}
	}
	return false
}

func addFile(zw *zip.Writer, path, entryName string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}
	defer f.Close()
	return writeEntry(zw, entryName, f)
}

func writeEntry(zw *zip.Writer, name string, src io.Reader) error {
	w, err := zw.Create(name)
	if err != nil {
		return fmt.Errorf("creating archive entry %s: %w", name, err)
	}
	if _, err := io.Copy(w, src); err != nil {
		return fmt.Errorf("writing archive entry %s: %w", name, err)
	}
	return nil
}

// verifyArchive re-opens the written zip and checks the structural elements a
// grader-side Inspect will demand.
func verifyArchive(zipPath string, spec *models.SuiteSpec) error {
	r, err := zip.OpenReader(zipPath)
	if err != nil {
		return err
	}
	defer r.Close()

	var hasManifest, hasDescriptor, hasSource bool
	sourcePrefix := spec.SourceDir + "/"
	for _, f := range r.File {
		switch {
		case f.Name == spec.ManifestName:
			hasManifest = true
		case f.Name == sourcePrefix+spec.BuildDescriptor:
			hasDescriptor = true
			hasSource = true
		case strings.HasPrefix(f.Name, sourcePrefix):
			hasSource = true
		}
	}

	switch {
	case !hasManifest:
		return fmt.Errorf("%s missing", spec.ManifestName)
	case !hasSource:
		return fmt.Errorf("%s/ missing", spec.SourceDir)
	case !hasDescriptor:
		return fmt.Errorf("%s missing", sourcePrefix+spec.BuildDescriptor)
	}
	return nil
}

// validIDs filters to numeric, non-empty identifiers; at least one must
// remain.
func validIDs(ids []string) ([]string, error) {
	var valid []string
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if !isNumeric(id) {
			return nil, fmt.Errorf("student ID %q is not numeric", id)
		}
		valid = append(valid, id)
	}
	if len(valid) == 0 {
		return nil, fmt.Errorf("at least one student ID is required")
	}
	return valid, nil
}

func isNumeric(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
