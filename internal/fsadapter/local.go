package fsadapter

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"unicode/utf8"

	ignore "github.com/sabhiram/go-gitignore"
)

// ErrFileNotFound / ErrFileTooLarge / ErrInvalidUTF8 / ErrTargetExists back
// the file-API error codes of spec.md §7.
var (
	ErrFileNotFound  = errors.New("file not found")
	ErrFileTooLarge  = errors.New("file exceeds 1MiB limit")
	ErrInvalidUTF8   = errors.New("file is not valid UTF-8")
	ErrTargetExists  = errors.New("target already exists")
	ErrMoveIntoSelf  = errors.New("cannot move a directory into itself")
)

// defaultIgnoreLines seeds FileIndex's walk with the watcher's ignore-dir
// set (internal/watcher.ignoreDirs) plus the whole .git/ directory, of which
// the watcher skips only .git/objects and .git/logs; the entries are
// gitignore patterns layered under any project .gitignore — grounded in the
// sabhiram/go-gitignore usage pattern from the re-cinq-detergent example's
// internal/engine/ignore_test.go.
var defaultIgnoreLines = []string{
	".git/",
	"node_modules/",
	"target/",
	"build/",
	"dist/",
	".next/",
	".nuxt/",
	"__pycache__/",
	".pytest_cache/",
	".mypy_cache/",
	"venv/",
	".venv/",
	"vendor/",
	".cargo/",
}

// Local is the os/filepath-backed Adapter implementation.
type Local struct{}

// New returns a ready-to-use Local adapter.
func New() *Local { return &Local{} }

func (l *Local) List(ctx context.Context, root, relPath string) ([]FileEntry, error) {
	dir := root
	if relPath != "" && relPath != "." {
		resolved, err := resolveSafePath(root, relPath)
		if err != nil {
			return nil, err
		}
		dir = resolved
	}

	raw, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrFileNotFound
		}
		return nil, err
	}

	entries := make([]FileEntry, 0, len(raw))
	for _, d := range raw {
		if strings.HasPrefix(d.Name(), ".") {
			continue
		}
		var size int64
		if info, err := d.Info(); err == nil && !d.IsDir() {
			size = info.Size()
		}
		entries = append(entries, FileEntry{Name: d.Name(), IsDir: d.IsDir(), Size: size})
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].IsDir != entries[j].IsDir {
			return entries[i].IsDir
		}
		return strings.ToLower(entries[i].Name) < strings.ToLower(entries[j].Name)
	})
	return entries, nil
}

func (l *Local) Read(ctx context.Context, root, relPath string) ([]byte, error) {
	path, err := resolveSafePath(root, relPath)
	if err != nil {
		return nil, err
	}

	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrFileNotFound
		}
		return nil, err
	}
	if info.Size() > MaxFileSize {
		return nil, ErrFileTooLarge
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if !utf8.Valid(content) {
		return nil, ErrInvalidUTF8
	}
	return content, nil
}

func (l *Local) Write(ctx context.Context, root, relPath string, content []byte) error {
	if len(content) > MaxFileSize {
		return ErrFileTooLarge
	}
	path, err := resolveSafePath(root, relPath)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, content, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

func (l *Local) Index(ctx context.Context, root string, limit int) ([]string, bool, error) {
	if limit <= 0 || limit > MaxIndexEntries {
		limit = MaxIndexEntries
	}

	lines := append([]string(nil), defaultIgnoreLines...)
	if data, err := os.ReadFile(filepath.Join(root, ".gitignore")); err == nil {
		lines = append(lines, strings.Split(string(data), "\n")...)
	}
	matcher := ignore.CompileIgnoreLines(lines...)

	var paths []string
	truncated := false
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if path == root {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return nil
		}
		rel = filepath.ToSlash(rel)
		if matcher.MatchesPath(rel) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}
		if len(paths) >= limit {
			truncated = true
			return filepath.SkipAll
		}
		paths = append(paths, rel)
		return nil
	})
	if err != nil && !errors.Is(err, context.Canceled) {
		return paths, truncated, nil
	}
	return paths, truncated, err
}

func (l *Local) Rename(ctx context.Context, root, oldPath, newName string) (string, error) {
	src, err := resolveSafePath(root, oldPath)
	if err != nil {
		return "", err
	}
	dst := filepath.Join(filepath.Dir(src), newName)
	if _, err := os.Stat(dst); err == nil {
		return "", ErrTargetExists
	}
	if err := os.Rename(src, dst); err != nil {
		return "", err
	}
	newRel, err := filepath.Rel(root, dst)
	if err != nil {
		return "", err
	}
	return filepath.ToSlash(newRel), nil
}

func (l *Local) Delete(ctx context.Context, root, relPath string) error {
	path, err := resolveSafePath(root, relPath)
	if err != nil {
		return err
	}
	if err := os.RemoveAll(path); err != nil {
		if os.IsNotExist(err) {
			return ErrFileNotFound
		}
		return err
	}
	return nil
}

func (l *Local) Copy(ctx context.Context, srcAbsPath, destRoot, destDir string) (string, error) {
	destParent, err := resolveSafePath(destRoot, destDir)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(destParent, 0o755); err != nil {
		return "", err
	}

	dest := filepath.Join(destParent, filepath.Base(srcAbsPath))
	info, err := os.Stat(srcAbsPath)
	if err != nil {
		if os.IsNotExist(err) {
			return "", ErrFileNotFound
		}
		return "", err
	}
	if info.IsDir() {
		if err := copyDir(srcAbsPath, dest); err != nil {
			return "", err
		}
	} else {
		if err := copyFile(srcAbsPath, dest); err != nil {
			return "", err
		}
	}

	rel, err := filepath.Rel(destRoot, dest)
	if err != nil {
		return "", err
	}
	return filepath.ToSlash(rel), nil
}

func (l *Local) Move(ctx context.Context, root, oldPath, newDir string) (string, error) {
	src, err := resolveSafePath(root, oldPath)
	if err != nil {
		return "", err
	}
	destParent, err := resolveSafePath(root, newDir)
	if err != nil {
		return "", err
	}
	if strings.HasPrefix(destParent+string(filepath.Separator), src+string(filepath.Separator)) || destParent == src {
		return "", ErrMoveIntoSelf
	}

	dest := filepath.Join(destParent, filepath.Base(src))
	if _, err := os.Stat(dest); err == nil {
		return "", ErrTargetExists
	}
	if err := os.MkdirAll(destParent, 0o755); err != nil {
		return "", err
	}
	if err := os.Rename(src, dest); err != nil {
		return "", err
	}
	rel, err := filepath.Rel(root, dest)
	if err != nil {
		return "", err
	}
	return filepath.ToSlash(rel), nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()
	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()
	_, err = io.Copy(out, in)
	return err
}

func copyDir(src, dst string) error {
	return filepath.WalkDir(src, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)
		if d.IsDir() {
			return os.MkdirAll(target, 0o755)
		}
		return copyFile(path, target)
	})
}
