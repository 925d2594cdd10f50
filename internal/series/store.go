package series

import (
	"time"

	"series-go/internal/model"
)

// Store provides persistence for the series metadata.
// Finders return nil, nil when no record matches.
type Store interface {
	// Option operations

	// CreateOption inserts an option and returns it with its id set.
	CreateOption(opt *model.Option) (*model.Option, error)

	// FindOptionByName looks up an option case-insensitively.
	FindOptionByName(name string) (*model.Option, error)

	FindOptionByID(id int64) (*model.Option, error)

	// ListOptions returns all options ordered by name.
	ListOptions() ([]*model.Option, error)

	// UpdateOption persists name, default and file list of opt.
	UpdateOption(opt *model.Option) error

	DeleteOption(id int64) error

	// File operations

	// CreateFile inserts a file and returns it with its id set.
	CreateFile(file *model.File) (*model.File, error)

	// FindFileByName looks up a file case-insensitively.
	FindFileByName(name string) (*model.File, error)

	FindFileByID(id int64) (*model.File, error)

	// ListFiles returns all files ordered by id.
	ListFiles() ([]*model.File, error)

	DeleteFile(id int64) error

	// Case operations

	CreateCase(name string, versionID int64) (*model.Case, error)

	// FindCaseByName looks up a case case-insensitively.
	FindCaseByName(name string) (*model.Case, error)

	// FindCaseByVersion returns the case whose current version is versionID.
	FindCaseByVersion(versionID int64) (*model.Case, error)

	// ListCases returns all cases ordered by name.
	ListCases() ([]*model.Case, error)

	UpdateCaseVersion(name string, versionID int64) error
	RenameCase(name, newName string) error
	DeleteCase(name string) error

	// Version operations

	// CreateVersion allocates a new version. Ids are never reused.
	CreateVersion(parentID int64, overrides model.Overrides, createdAt time.Time) (*model.CaseVersion, error)

	FindVersion(id int64) (*model.CaseVersion, error)

	// ListVersions returns every version ordered by id.
	ListVersions() ([]*model.CaseVersion, error)

	// ListChildVersions returns the versions whose parent is parentID, ordered by id.
	ListChildVersions(parentID int64) ([]*model.CaseVersion, error)

	UpdateVersionOverrides(id int64, overrides model.Overrides) error

	// RecordBuild sets the last build time and increments the build count.
	RecordBuild(id int64, at time.Time) error

	DeleteVersion(id int64) error

	// Reset removes every case, version, file and non-series option.
	Reset() error
}
