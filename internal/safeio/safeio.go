package safeio

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

// SafeFS resolves every path relative to a fixed root directory and rejects
// anything that escapes it. The store binds one SafeFS to its base directory
// and performs all reads and writes through it.
type SafeFS struct {
	absRoot string // absolute root with symlinks resolved
}

// NewSafeFS locks all future operations to the given root directory.
// The root is created if it does not exist yet.
func NewSafeFS(root string) (*SafeFS, error) {
	if root == "" {
		return nil, errors.New("safeio: empty root")
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, err
	}
	abs, err = filepath.EvalSymlinks(abs)
	if err != nil {
		return nil, err
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, errors.New("safeio: root is not a directory")
	}
	return &SafeFS{absRoot: abs}, nil
}

// Root returns the absolute root directory bound to this SafeFS.
func (s *SafeFS) Root() string {
	if s == nil {
		return ""
	}
	return s.absRoot
}

// ReadFile reads a file relative to the root.
func (s *SafeFS) ReadFile(userPath string) ([]byte, error) {
	p, err := s.resolve(userPath, false)
	if err != nil {
		return nil, err
	}
	info, err := os.Stat(p)
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return nil, errors.New("safeio: path is a directory")
	}
	return os.ReadFile(p)
}

// Stat returns metadata for a file or directory under the root.
func (s *SafeFS) Stat(userPath string) (fs.FileInfo, error) {
	p, err := s.resolve(userPath, false)
	if err != nil {
		return nil, err
	}
	return os.Stat(p)
}

// ReadDir lists entries for a directory relative to the root.
func (s *SafeFS) ReadDir(userPath string) ([]fs.DirEntry, error) {
	dir, err := s.resolve(userPath, false)
	if err != nil {
		return nil, err
	}
	info, err := os.Stat(dir)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, errors.New("safeio: path is not a directory")
	}
	return os.ReadDir(dir)
}

// Exists reports whether the path resolves to an existing entry under the root.
func (s *SafeFS) Exists(userPath string) bool {
	p, err := s.resolve(userPath, true)
	if err != nil {
		return false
	}
	_, err = os.Stat(p)
	return err == nil
}

// WriteFileAtomic writes data to path so that a crash mid-write leaves either
// the previous content or the new content, never a truncated mix: the data is
// written to a temp file in the target's directory, synced, then renamed over
// the target.
func (s *SafeFS) WriteFileAtomic(userPath string, data []byte, perm fs.FileMode) error {
	p, err := s.resolve(userPath, true)
	if err != nil {
		return err
	}
	dir := filepath.Dir(p)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(p)+".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer func() {
		// No-op once the rename succeeded.
		_ = os.Remove(tmpName)
	}()
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpName, perm); err != nil {
		return err
	}
	return os.Rename(tmpName, p)
}

// StageDir creates a hidden staging directory beside target. Callers populate
// it and then either CommitDir or DiscardDir it; the rename in CommitDir is the
// single commit point for multi-file directory creation.
func (s *SafeFS) StageDir(targetPath string) (string, error) {
	p, err := s.resolve(targetPath, true)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return "", err
	}
	return os.MkdirTemp(filepath.Dir(p), "."+filepath.Base(p)+".stage-*")
}

// CommitDir renames a staging directory into its final place. The target must
// not exist.
func (s *SafeFS) CommitDir(stageDir, targetPath string) error {
	p, err := s.resolve(targetPath, true)
	if err != nil {
		return err
	}
	if _, err := os.Stat(p); err == nil {
		return fmt.Errorf("safeio: commit target already exists: %s", targetPath)
	}
	return os.Rename(stageDir, p)
}

// DiscardDir removes a staging directory and everything under it.
func (s *SafeFS) DiscardDir(stageDir string) {
	_ = os.RemoveAll(stageDir)
}

// resolve maps a user path to an absolute path under the root. When forWrite
// is true the final element may not exist yet; only its parent chain is
// resolved for the escape check.
func (s *SafeFS) resolve(userPath string, forWrite bool) (string, error) {
	if s == nil {
		return "", errors.New("safeio: filesystem not configured")
	}
	if userPath == "" {
		return "", errors.New("safeio: empty path")
	}
	clean := filepath.Clean(userPath)
	if clean == "." {
		return s.absRoot, nil
	}

	isAbs := filepath.IsAbs(clean) || (runtime.GOOS == "windows" && filepath.VolumeName(clean) != "")
	if !isAbs {
		if clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
			return "", errors.New("safeio: path traversal not allowed")
		}
	}

	var joined string
	if isAbs {
		joined = clean
	} else {
		joined = filepath.Join(s.absRoot, clean)
	}

	resolved, err := filepath.EvalSymlinks(joined)
	if err != nil {
		if !forWrite || !errors.Is(err, fs.ErrNotExist) {
			return "", err
		}
		// The tail of a write target may not exist yet: resolve the nearest
		// existing ancestor and re-append the missing elements.
		dir, missing := joined, ""
		for {
			parent, base := filepath.Dir(dir), filepath.Base(dir)
			if parent == dir {
				return "", err
			}
			missing = filepath.Join(base, missing)
			if r, perr := filepath.EvalSymlinks(parent); perr == nil {
				resolved = filepath.Join(r, missing)
				break
			} else if !errors.Is(perr, fs.ErrNotExist) {
				return "", perr
			}
			dir = parent
		}
	}
	if !hasPathPrefix(resolved, s.absRoot) {
		return "", fmt.Errorf("safeio: resolved outside root (root=%s, path=%s)", s.absRoot, resolved)
	}
	return resolved, nil
}

func hasPathPrefix(path, root string) bool {
	path = filepath.Clean(path)
	root = filepath.Clean(root)
	if runtime.GOOS == "windows" {
		path = strings.ToLower(path)
		root = strings.ToLower(root)
	}
	if len(root) == 0 {
		return true
	}
	if path == root {
		return true
	}
	sep := string(os.PathSeparator)
	if !strings.HasSuffix(root, sep) {
		root += sep
	}
	if !strings.HasSuffix(path, sep) {
		path += sep
	}
	return strings.HasPrefix(path, root)
}
