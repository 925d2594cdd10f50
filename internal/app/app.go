package app

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"series-go/internal/config"
	"series-go/internal/database"
	"series-go/internal/fs"
	"series-go/internal/model"
	"series-go/internal/series"
)

// SeriesApp is the application layer between the CLI and series.Service.
// It constructs all dependencies from config, exposes high-level operations
// that accept case and option names, and manages the DB lifecycle on Close.
type SeriesApp struct {
	cfg       *config.Config
	db        *database.SQLiteDatabase
	service   *series.Service
	clock     series.Clock
	confirmer series.Confirmer
	op        *Operation
	logger    *slog.Logger
	logFile   *os.File
}

// NewSeriesApp creates a fully wired SeriesApp from the given config.
// operation identifies the CLI command being run (e.g. "CreateCase", "Build")
// and parameters its arguments. The caller must call Close when done.
func NewSeriesApp(cfg *config.Config, operation, parameters string) (*SeriesApp, error) {
	return openSeriesApp(cfg, operation, parameters, series.RealClock{}, series.UUIDGenerator{})
}

// openSeriesApp is NewSeriesApp with an explicit clock and source of
// invocation ids.
func openSeriesApp(cfg *config.Config, operation, parameters string, clock series.Clock, ids series.IDGenerator) (*SeriesApp, error) {
	db, err := database.NewDatabaseFromConfig(cfg.Database, cfg.RootDir)
	if err != nil {
		return nil, fmt.Errorf("creating database: %w", err)
	}

	// An in-memory database starts empty on every run.
	if cfg.Database.Type == "memory" {
		err = db.Migrate()
	} else {
		err = db.CheckMigrations()
	}
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("database schema out of date: %w", err)
	}

	invocationID := ids.New()
	logger, logFile, err := newLogger(config.ResolvePath(cfg.RootDir, cfg.LogDir), invocationID, cfg.Log.Level)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating logger: %w", err)
	}

	return newSeriesApp(cfg, db, logger, logFile, clock, NewOperation(invocationID, operation, parameters)), nil
}

func newSeriesApp(cfg *config.Config, db *database.SQLiteDatabase, logger *slog.Logger, logFile *os.File, clock series.Clock, op *Operation) *SeriesApp {
	fsys := fs.NewOSFilesystem(cfg.Filesystem.Ignore, cfg.Build.PreserveSymlinks)
	runner := &ExecRunner{Stdout: os.Stdout, Stderr: os.Stderr}
	settings := series.Settings{
		Root:       cfg.RootDir,
		MarkerName: cfg.Build.MarkerName,
		Prune:      series.PrunePolicy{MaxAncestors: cfg.Store.PruneAncestors},
	}
	svc := series.NewService(db, fsys, runner, &slogAdapter{l: logger}, clock, settings)

	return &SeriesApp{
		cfg:       cfg,
		db:        db,
		service:   svc,
		clock:     clock,
		confirmer: NewPromptConfirmer(),
		op:        op,
		logger:    logger,
		logFile:   logFile,
	}
}

// InitSeries writes a new config for the series name at configPath, creates
// its database and seeds the series options.
func InitSeries(configPath, name string) (*config.Config, error) {
	cfg := config.NewConfig(name)
	if err := config.Init(configPath, cfg); err != nil {
		return nil, err
	}
	cfg, err := config.ReadFromFile(configPath)
	if err != nil {
		return nil, err
	}

	if cfg.Database.Type == "sqlite" {
		db, err := database.NewDatabaseFromConfig(cfg.Database, cfg.RootDir)
		if err != nil {
			return nil, fmt.Errorf("creating database: %w", err)
		}
		if err := db.Migrate(); err != nil {
			db.Close()
			return nil, fmt.Errorf("migrating database: %w", err)
		}
		if err := db.Close(); err != nil {
			return nil, fmt.Errorf("closing database: %w", err)
		}
	}

	a, err := NewSeriesApp(cfg, "Init", name)
	if err != nil {
		return nil, err
	}
	err = a.mutate(func() error { return a.service.Init(name) })
	if cerr := a.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

// SetConfirmer replaces the interactive prompt used for destructive steps.
func (a *SeriesApp) SetConfirmer(c series.Confirmer) {
	a.confirmer = c
}

// Config returns the configuration the app was created from.
func (a *SeriesApp) Config() *config.Config {
	return a.cfg
}

// InvocationID identifies this run in the log file and the operation history.
func (a *SeriesApp) InvocationID() string {
	return a.op.InvocationID
}

func (a *SeriesApp) confirm(force bool) series.Confirmer {
	if force {
		return series.Force
	}
	return a.confirmer
}

// persistOperation saves the operation to the database and starts the
// transaction its changes are made in.
// This should only be called for DB-mutating commands.
func (a *SeriesApp) persistOperation() error {
	if a.op.Persisted() {
		return nil
	}
	dbOp, err := a.db.CreateOperation(a.op.InvocationID, a.op.Operation, a.op.Parameters, a.clock.Now())
	if err != nil {
		return fmt.Errorf("persisting operation: %w", err)
	}
	a.op.ID = dbOp.ID

	if err := a.db.Begin(); err != nil {
		return err
	}
	return nil
}

// mutate runs fn as part of the persisted operation and records its outcome.
func (a *SeriesApp) mutate(fn func() error) error {
	if err := a.persistOperation(); err != nil {
		return err
	}
	err := fn()
	a.op.Record(err)
	return err
}

func (a *SeriesApp) currentVersion(caseName string) (int64, error) {
	c, err := a.service.LookupCase(caseName)
	if err != nil {
		return 0, err
	}
	return c.CurrentVersionID, nil
}

// Templates and files

// AddTemplate resolves rawPath against the working directory and registers it as a template.
func (a *SeriesApp) AddTemplate(rawPath string) (*model.File, error) {
	p, err := filepath.Abs(rawPath)
	if err != nil {
		return nil, fmt.Errorf("resolving path: %w", err)
	}
	var f *model.File
	err = a.mutate(func() error {
		f, err = a.service.RegisterTemplate(p)
		return err
	})
	return f, err
}

// AddFile registers a file found inside one of the template directories.
func (a *SeriesApp) AddFile(name string) (*model.File, error) {
	var f *model.File
	err := a.mutate(func() (err error) {
		f, err = a.service.RegisterFile(name)
		return err
	})
	return f, err
}

// RemoveFile forgets a file and strips it from all options.
func (a *SeriesApp) RemoveFile(name string, force bool) error {
	return a.mutate(func() error { return a.service.RemoveFile(name, a.confirm(force)) })
}

// FileEntry is a registered file with the template directory it lives in.
type FileEntry struct {
	File     *model.File
	Template string // empty for template roots
	Options  []string
}

// ListFiles returns every registered file with the options that apply to it.
func (a *SeriesApp) ListFiles() ([]FileEntry, error) {
	files, err := a.service.ListFiles()
	if err != nil {
		return nil, err
	}
	opts, err := a.service.ListOptions()
	if err != nil {
		return nil, err
	}
	names := make(map[int64]string, len(files))
	for _, f := range files {
		names[f.ID] = f.Name
	}

	out := make([]FileEntry, 0, len(files))
	for _, f := range files {
		e := FileEntry{File: f, Template: names[f.TemplateID]}
		for _, opt := range opts {
			if opt.HasFile(f.ID) {
				e.Options = append(e.Options, opt.Name)
			}
		}
		out = append(out, e)
	}
	return out, nil
}

// Options

// CreateOption defines a new option of the named kind.
func (a *SeriesApp) CreateOption(name, kind, defaultValue, fileName string) (*model.Option, error) {
	k, err := model.ParseOptionKind(kind)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", err, series.ErrValidation)
	}
	var opt *model.Option
	err = a.mutate(func() error {
		opt, err = a.service.CreateOption(name, k, defaultValue, fileName)
		return err
	})
	return opt, err
}

// DeleteOption removes an option and all its overrides.
func (a *SeriesApp) DeleteOption(name string, force bool) error {
	return a.mutate(func() error { return a.service.DeleteOption(name, a.confirm(force)) })
}

// RenameOption renames a case option.
func (a *SeriesApp) RenameOption(name, newName string) error {
	return a.mutate(func() error { return a.service.RenameOption(name, newName) })
}

// SetOptionDefault changes the default value of an option.
func (a *SeriesApp) SetOptionDefault(name, value string) error {
	return a.mutate(func() error { return a.service.SetOptionDefault(name, value) })
}

// AddFileToOption associates a file with an option.
func (a *SeriesApp) AddFileToOption(optName, fileName string) error {
	return a.mutate(func() error { return a.service.AddFileToOption(optName, fileName) })
}

// RemoveFileFromOption drops a file from an option.
func (a *SeriesApp) RemoveFileFromOption(optName, fileName string) error {
	return a.mutate(func() error { return a.service.RemoveFileFromOption(optName, fileName) })
}

// OptionEntry is an option with the names of the files it applies to.
type OptionEntry struct {
	Option *model.Option
	Files  []string
}

// ListOptions returns the options of the named kinds, or all of them.
func (a *SeriesApp) ListOptions(kinds ...string) ([]OptionEntry, error) {
	parsed := make([]model.OptionKind, 0, len(kinds))
	for _, k := range kinds {
		kind, err := model.ParseOptionKind(k)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", err, series.ErrValidation)
		}
		parsed = append(parsed, kind)
	}
	opts, err := a.service.ListOptions(parsed...)
	if err != nil {
		return nil, err
	}
	files, err := a.service.ListFiles()
	if err != nil {
		return nil, err
	}
	names := make(map[int64]string, len(files))
	for _, f := range files {
		names[f.ID] = f.Name
	}

	out := make([]OptionEntry, 0, len(opts))
	for _, opt := range opts {
		e := OptionEntry{Option: opt}
		for _, id := range opt.FileIDs {
			e.Files = append(e.Files, names[id])
		}
		out = append(out, e)
	}
	return out, nil
}

// Cases

// CreateCase creates a case, branched from another case if from is not empty.
func (a *SeriesApp) CreateCase(name, from string) (int64, error) {
	var id int64
	err := a.mutate(func() (err error) {
		if from != "" {
			id, err = a.service.BranchCase(name, from)
		} else {
			id, err = a.service.CreateCase(name)
		}
		return err
	})
	return id, err
}

// DeleteCase removes a case.
func (a *SeriesApp) DeleteCase(name string, force bool) error {
	return a.mutate(func() error { return a.service.DeleteCase(name, a.confirm(force)) })
}

// RenameCase gives a case a new name.
func (a *SeriesApp) RenameCase(name, newName string) error {
	return a.mutate(func() error {
		id, err := a.currentVersion(name)
		if err != nil {
			return err
		}
		return a.service.Rename(id, newName)
	})
}

// CaseEntry is a case with its current version.
type CaseEntry struct {
	Case    *model.Case
	Version *model.CaseVersion
}

// ListCases returns every case with its current version.
func (a *SeriesApp) ListCases() ([]CaseEntry, error) {
	cases, err := a.service.ListCases()
	if err != nil {
		return nil, err
	}
	out := make([]CaseEntry, 0, len(cases))
	for _, c := range cases {
		v, err := a.service.Version(c.CurrentVersionID)
		if err != nil {
			return nil, err
		}
		out = append(out, CaseEntry{Case: c, Version: v})
	}
	return out, nil
}

// ShowCase resolves every case and meta option for the current version of a case.
func (a *SeriesApp) ShowCase(name string) (int64, []series.ResolvedOption, error) {
	id, err := a.currentVersion(name)
	if err != nil {
		return 0, nil, err
	}
	resolved, err := a.service.ResolveAll(id)
	return id, resolved, err
}

// CaseHistory returns the version chain of a case, newest first.
func (a *SeriesApp) CaseHistory(name string) ([]*model.CaseVersion, error) {
	id, err := a.currentVersion(name)
	if err != nil {
		return nil, err
	}
	return a.service.History(id)
}

// Overrides

// SetOption overrides an option for a case in a new version.
func (a *SeriesApp) SetOption(caseName, optName, value string) (int64, error) {
	return a.override(caseName, optName, func(vid, oid int64) (int64, error) {
		return a.service.SetOverride(vid, oid, value, true)
	})
}

// ModifyOption changes or sets an override for a case in a new version.
func (a *SeriesApp) ModifyOption(caseName, optName, value string) (int64, error) {
	return a.override(caseName, optName, func(vid, oid int64) (int64, error) {
		return a.service.ModifyOverride(vid, oid, value)
	})
}

// UnsetOption drops the override of an option for a case.
func (a *SeriesApp) UnsetOption(caseName, optName string) (int64, error) {
	return a.override(caseName, optName, func(vid, oid int64) (int64, error) {
		return a.service.UnsetOverride(vid, oid, true)
	})
}

func (a *SeriesApp) override(caseName, optName string, fn func(versionID, optionID int64) (int64, error)) (int64, error) {
	var id int64
	err := a.mutate(func() error {
		vid, err := a.currentVersion(caseName)
		if err != nil {
			return err
		}
		opt, err := a.service.LookupOption(optName)
		if err != nil {
			return err
		}
		id, err = fn(vid, opt.ID)
		return err
	})
	return id, err
}

// GetOption resolves an option for the current version of a case.
func (a *SeriesApp) GetOption(caseName, optName string) (string, error) {
	vid, err := a.currentVersion(caseName)
	if err != nil {
		return "", err
	}
	opt, err := a.service.LookupOption(optName)
	if err != nil {
		return "", err
	}
	return a.service.Resolve(opt.ID, vid)
}

// Builds

// Build materializes a case. auto selects automatic mode regardless of the
// configured mode; force replaces existing artifacts without asking.
func (a *SeriesApp) Build(caseName string, auto, force bool) (*series.BuildResult, error) {
	mode := series.ModeInteractive
	if auto || a.cfg.Build.Mode == config.ModeAutomatic {
		mode = series.ModeAutomatic
	}
	var result *series.BuildResult
	err := a.mutate(func() error {
		vid, err := a.currentVersion(caseName)
		if err != nil {
			return err
		}
		result, err = a.service.Materialize(vid, series.BuildOptions{Mode: mode, Force: force, Confirmer: a.confirmer})
		return err
	})
	return result, err
}

// Status reports the artifacts of a case.
func (a *SeriesApp) Status(caseName string) ([]series.ArtifactStatus, error) {
	vid, err := a.currentVersion(caseName)
	if err != nil {
		return nil, err
	}
	return a.service.Status(vid)
}

// Clean removes the artifacts of a case.
func (a *SeriesApp) Clean(caseName string, force bool) ([]string, error) {
	var removed []string
	err := a.mutate(func() error {
		vid, err := a.currentVersion(caseName)
		if err != nil {
			return err
		}
		removed, err = a.service.Clean(vid, a.confirm(force))
		return err
	})
	return removed, err
}

// Run builds a case in automatic mode and executes its run files.
func (a *SeriesApp) Run(caseName string) (*series.BuildResult, error) {
	var result *series.BuildResult
	err := a.mutate(func() error {
		vid, err := a.currentVersion(caseName)
		if err != nil {
			return err
		}
		result, err = a.service.Run(vid)
		return err
	})
	return result, err
}

// Maintenance

// GetHistory returns the most recent operations.
func (a *SeriesApp) GetHistory(limit int) ([]*model.Operation, error) {
	return a.db.ListOperations(limit)
}

// BackupDatabase writes a snapshot of the series database to dest.
func (a *SeriesApp) BackupDatabase(dest string) error {
	p, err := filepath.Abs(dest)
	if err != nil {
		return fmt.Errorf("resolving path: %w", err)
	}
	if _, err := os.Stat(p); err == nil {
		return fmt.Errorf("%s already exists: %w", p, series.ErrConflict)
	}
	if err := a.db.BackupTo(p); err != nil {
		return err
	}
	a.logger.Info("database backed up", "path", p)
	return nil
}

// Reset removes all cases, options and files.
func (a *SeriesApp) Reset(force bool) error {
	return a.mutate(func() error { return a.service.Reset(a.confirm(force)) })
}

// Close finalizes the operation and closes all resources.
// For persisted operations the transaction is committed if every step
// succeeded and rolled back otherwise, then the operation record is finished.
func (a *SeriesApp) Close() error {
	var errs []error

	if a.op.Persisted() {
		if a.op.Committable() {
			if err := a.db.Commit(); err != nil {
				errs = append(errs, err)
				a.op.Status = StatusError
			}
		} else if err := a.db.Rollback(); err != nil {
			errs = append(errs, err)
		}

		if err := a.db.FinishOperation(a.op.ID, a.op.Status, a.clock.Now()); err != nil {
			errs = append(errs, fmt.Errorf("finishing operation: %w", err))
		}
		a.logger.Debug("operation finished", "operation", a.op.Operation, "status", a.op.Status)
	}

	if err := a.db.Close(); err != nil {
		errs = append(errs, fmt.Errorf("closing database: %w", err))
	}

	if a.logFile != nil {
		if err := a.logFile.Close(); err != nil {
			errs = append(errs, fmt.Errorf("closing log file: %w", err))
		}
	}

	return errors.Join(errs...)
}

// JoinArgs formats command arguments for the operation record.
func JoinArgs(args []string) string {
	return strings.Join(args, " ")
}
