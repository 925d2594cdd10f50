package fs

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"series-go/internal/series"
)

// IgnoreFileName is read from the top of every copied template directory.
const IgnoreFileName = ".seriesignore"

// OSFilesystem implements series.Filesystem using the os package.
type OSFilesystem struct {
	ignore           []string
	preserveSymlinks bool
}

// NewOSFilesystem creates an OSFilesystem. ignore patterns are skipped when
// copying directories; with preserveSymlinks links are recreated instead of
// followed.
func NewOSFilesystem(ignore []string, preserveSymlinks bool) *OSFilesystem {
	return &OSFilesystem{
		ignore:           ignore,
		preserveSymlinks: preserveSymlinks,
	}
}

// Stat returns file info for path, following symlinks.
func (f *OSFilesystem) Stat(path string) (fs.FileInfo, error) {
	return os.Stat(path)
}

// ReadFile reads the whole file.
func (f *OSFilesystem) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

// Remove deletes a single file. A missing file is not an error.
func (f *OSFilesystem) Remove(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

// RemoveAll deletes path and everything below it.
func (f *OSFilesystem) RemoveAll(path string) error {
	return os.RemoveAll(path)
}

// WriteFile replaces path atomically (temp file + rename).
func (f *OSFilesystem) WriteFile(path string, data []byte, perm fs.FileMode) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating directory: %w", err)
	}

	// Temp file in the same directory so the rename stays on one filesystem
	tmpFile, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	success := false
	defer func() {
		if !success {
			os.Remove(tmpPath)
		}
	}()

	if _, err := tmpFile.Write(data); err != nil {
		tmpFile.Close()
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err := tmpFile.Chmod(perm); err != nil {
		tmpFile.Close()
		return fmt.Errorf("setting mode: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("closing temp file: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("renaming temp file: %w", err)
	}

	success = true
	return nil
}

// Copy copies a regular file or a directory tree from src to dst.
// File modes are kept. Directory copies skip ignored paths and non-regular files.
func (f *OSFilesystem) Copy(src, dst string) error {
	info, err := os.Stat(src)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
			return fmt.Errorf("creating directory: %w", err)
		}
		return copyFile(src, dst, info.Mode().Perm())
	}

	filePatterns, err := ParseIgnoreFile(filepath.Join(src, IgnoreFileName))
	if err != nil {
		return err
	}
	patterns := append([]string{IgnoreFileName}, f.ignore...)
	matcher := NewIgnoreMatcher(append(patterns, filePatterns...))

	return filepath.WalkDir(src, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(src, p)
		if err != nil {
			return fmt.Errorf("calculating relative path: %w", err)
		}
		target := filepath.Join(dst, rel)

		if rel == "." {
			return os.MkdirAll(target, info.Mode().Perm())
		}
		if matcher.Match(rel, d.IsDir()) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		switch {
		case d.Type()&fs.ModeSymlink != 0:
			return f.copySymlink(p, target)
		case d.IsDir():
			dirInfo, err := d.Info()
			if err != nil {
				return fmt.Errorf("stat %s: %w", p, err)
			}
			return os.MkdirAll(target, dirInfo.Mode().Perm())
		case d.Type().IsRegular():
			fileInfo, err := d.Info()
			if err != nil {
				return fmt.Errorf("stat %s: %w", p, err)
			}
			return copyFile(p, target, fileInfo.Mode().Perm())
		default:
			return nil
		}
	})
}

func (f *OSFilesystem) copySymlink(src, dst string) error {
	if f.preserveSymlinks {
		link, err := os.Readlink(src)
		if err != nil {
			return fmt.Errorf("reading link %s: %w", src, err)
		}
		return os.Symlink(link, dst)
	}
	if _, err := os.Stat(src); errors.Is(err, fs.ErrNotExist) {
		// Dangling link, nothing to copy
		return nil
	}
	return f.Copy(src, dst)
}

func copyFile(src, dst string, perm fs.FileMode) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, perm)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return fmt.Errorf("copying %s: %w", src, err)
	}
	return out.Close()
}

// Compile-time check that OSFilesystem implements series.Filesystem
var _ series.Filesystem = (*OSFilesystem)(nil)
