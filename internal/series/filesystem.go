package series

import "io/fs"

// Filesystem provides the file operations needed to materialize cases.
// All paths are absolute.
type Filesystem interface {
	// Stat returns file info, following symlinks.
	Stat(path string) (fs.FileInfo, error)

	// Copy copies a regular file or a directory tree from src to dst.
	Copy(src, dst string) error

	ReadFile(path string) ([]byte, error)

	// WriteFile replaces the contents of path atomically.
	WriteFile(path string, data []byte, perm fs.FileMode) error

	// Remove deletes a single file. A missing file is not an error.
	Remove(path string) error

	// RemoveAll deletes path recursively.
	RemoveAll(path string) error
}

// Runner executes a run file inside its directory.
type Runner interface {
	Run(dir, name string) error
}
