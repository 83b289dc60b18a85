package publish

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/erraggy/oasconnect/internal/fileutil"
)

// GitRunner runs one git command in dir with extra environment entries.
type GitRunner interface {
	Git(ctx context.Context, dir string, env []string, args ...string) error
}

// ExecGit runs the git binary.
type ExecGit struct {
	// Path is the git executable. Default: "git" from PATH
	Path string
	// Output receives git's standard output. Default: discarded
	Output io.Writer
}

// Git implements GitRunner. Standard error is folded into the returned
// error.
func (e ExecGit) Git(ctx context.Context, dir string, env []string, args ...string) error {
	bin := e.Path
	if bin == "" {
		bin = "git"
	}
	cmd := exec.CommandContext(ctx, bin, args...)
	cmd.Dir = dir
	cmd.Env = append(os.Environ(), env...)
	cmd.Stdout = e.Output
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			return fmt.Errorf("publish: git %s: %w", args[0], err)
		}
		return fmt.Errorf("publish: git %s: %w: %s", args[0], err, msg)
	}
	return nil
}

// sshCommand builds the GIT_SSH_COMMAND value for identityFile.
func sshCommand(identityFile string) string {
	return strings.Join([]string{
		"ssh", "-i", shellQuote(identityFile), "-l", "git", "-o", "StrictHostKeyChecking=no",
	}, " ")
}

// shellQuote quotes s for a POSIX shell.
func shellQuote(s string) string {
	if s != "" && strings.IndexFunc(s, func(r rune) bool {
		return !(r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9' || strings.ContainsRune("-_./=:@", r))
	}) < 0 {
		return s
	}
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}

// copyTree copies src into dst, skipping any .git entry and keeping file
// modes and modification times.
func copyTree(src, dst string) error {
	return filepath.WalkDir(src, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.Name() == ".git" {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)
		info, err := d.Info()
		if err != nil {
			return err
		}
		if d.IsDir() {
			return os.MkdirAll(target, fileutil.DirReadableByAll)
		}
		if !info.Mode().IsRegular() {
			return nil
		}
		if err := copyFile(path, target, info.Mode().Perm()); err != nil {
			return err
		}
		return os.Chtimes(target, info.ModTime(), info.ModTime())
	})
}

func copyFile(src, dst string, perm fs.FileMode) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer func() { _ = in.Close() }()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, perm)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}
