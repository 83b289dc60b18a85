package generator

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/erraggy/oasconnect/internal/fileutil"
	"github.com/erraggy/oasconnect/oaserrors"
)

// CheckDestination fails when dir is a file or a non-empty directory.
func CheckDestination(dir string) error {
	exists, isDir, empty, err := fileutil.DirState(dir)
	if err != nil {
		return fmt.Errorf("generator: inspect destination: %w", err)
	}
	if !exists {
		return nil
	}
	if !isDir {
		return &oaserrors.DestinationExistsError{Path: dir, NotDir: true}
	}
	if !empty {
		return &oaserrors.DestinationExistsError{Path: dir}
	}
	return nil
}

// WriteFiles writes all generated files under outputDir and returns its
// absolute path.
//
// Files are written into a temporary sibling directory that is renamed into
// place once complete, so outputDir either receives the whole tree or is left
// as it was. An existing empty directory is replaced; anything else fails
// with a DestinationExistsError before any file is written.
func (r *GenerateResult) WriteFiles(outputDir string) (string, error) {
	abs, err := filepath.Abs(outputDir)
	if err != nil {
		return "", fmt.Errorf("generator: resolve output directory: %w", err)
	}
	if err := CheckDestination(abs); err != nil {
		return "", err
	}
	for _, f := range r.Files {
		if !filepath.IsLocal(filepath.FromSlash(f.Name)) {
			return "", fmt.Errorf("generator: invalid file name %q: must be a relative path inside the package", f.Name)
		}
	}

	parent := filepath.Dir(abs)
	created, err := fileutil.MkdirAllTracked(parent, fileutil.DirReadableByAll)
	if err != nil {
		return "", fmt.Errorf("generator: create parent directory: %w", err)
	}
	tmp, err := os.MkdirTemp(parent, "."+filepath.Base(abs)+".tmp-")
	if err != nil {
		fileutil.RemoveCreated(created)
		return "", fmt.Errorf("generator: create staging directory: %w", err)
	}
	done := false
	defer func() {
		if !done {
			_ = os.RemoveAll(tmp)
			fileutil.RemoveCreated(created)
		}
	}()

	for _, f := range r.Files {
		if err := f.WriteFile(filepath.Join(tmp, filepath.FromSlash(f.Name))); err != nil {
			return "", fmt.Errorf("generator: %s: %w", f.Name, err)
		}
	}
	if err := os.Chmod(tmp, fileutil.DirReadableByAll); err != nil {
		return "", fmt.Errorf("generator: %w", err)
	}

	// The destination may have appeared while files were being written.
	if err := CheckDestination(abs); err != nil {
		return "", err
	}
	if err := os.Remove(abs); err != nil && !os.IsNotExist(err) {
		return "", fmt.Errorf("generator: replace empty destination: %w", err)
	}
	if err := os.Rename(tmp, abs); err != nil {
		return "", fmt.Errorf("generator: move output into place: %w", err)
	}
	done = true
	return abs, nil
}

// WriteFile writes a single generated file to the specified path.
func (f *GeneratedFile) WriteFile(path string) error {
	// Ensure parent directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, fileutil.DirReadableByAll); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	if err := os.WriteFile(path, f.Content, fileutil.ReadableByAll); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}

	return nil
}
