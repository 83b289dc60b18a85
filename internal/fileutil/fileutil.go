// Package fileutil holds file permission constants and small filesystem
// helpers shared by the writers.
package fileutil

import (
	"errors"
	"io"
	"os"
	"path/filepath"
)

// OwnerReadWrite is the file permission mode for downloaded documents
// containing potentially sensitive API data (owner read/write only).
const OwnerReadWrite os.FileMode = 0o600

// ReadableByAll is the file permission mode for generated source code
// files intended to be read by build tools and other users.
const ReadableByAll os.FileMode = 0o644

// DirReadableByAll is the permission mode for generated directories.
const DirReadableByAll os.FileMode = 0o755

// DirState reports whether path exists, whether it is a directory, and
// whether that directory is empty.
func DirState(path string) (exists, isDir, empty bool, err error) {
	info, err := os.Stat(path)
	if errors.Is(err, os.ErrNotExist) {
		return false, false, false, nil
	}
	if err != nil {
		return false, false, false, err
	}
	if !info.IsDir() {
		return true, false, false, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return true, true, false, err
	}
	defer func() { _ = f.Close() }()
	_, err = f.Readdirnames(1)
	if errors.Is(err, io.EOF) {
		return true, true, true, nil
	}
	return true, true, false, err
}

// MkdirAllTracked is os.MkdirAll that also returns the directories it
// created, deepest first, for RemoveCreated to undo.
func MkdirAllTracked(dir string, perm os.FileMode) ([]string, error) {
	var missing []string
	for p := filepath.Clean(dir); ; p = filepath.Dir(p) {
		if _, err := os.Stat(p); err == nil {
			break
		} else if !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
		missing = append(missing, p)
		if filepath.Dir(p) == p {
			break
		}
	}
	if err := os.MkdirAll(dir, perm); err != nil {
		RemoveCreated(missing)
		return nil, err
	}
	return missing, nil
}

// RemoveCreated removes directories returned by MkdirAllTracked. Directories
// that are no longer empty are left in place.
func RemoveCreated(dirs []string) {
	for _, d := range dirs {
		_ = os.Remove(d)
	}
}
