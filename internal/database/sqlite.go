package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"series-go/internal/database/migrations"
	"series-go/internal/database/sqlc"
	"series-go/internal/model"
	"series-go/internal/series"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// SQLiteDatabase implements series.Store using SQLite.
type SQLiteDatabase struct {
	db      *sql.DB
	tx      *sql.Tx
	queries *sqlc.Queries
	path    string
}

// NewSQLiteDatabase creates a new SQLite database connection.
// path can be a file path or ":memory:" for in-memory database.
func NewSQLiteDatabase(path string) (*SQLiteDatabase, error) {
	db, err := OpenConnection(path)
	if err != nil {
		return nil, err
	}

	return &SQLiteDatabase{
		db:      db,
		queries: sqlc.New(db),
		path:    path,
	}, nil
}

// NewSQLiteDatabaseFromDB wraps an existing database connection.
// The caller is responsible for ensuring the connection is properly configured.
func NewSQLiteDatabaseFromDB(db *sql.DB) *SQLiteDatabase {
	return &SQLiteDatabase{
		db:      db,
		queries: sqlc.New(db),
	}
}

// OpenConnection opens and configures a SQLite database connection with appropriate PRAGMAs.
// This is exported for use in tools and tests that need a properly configured SQLite connection.
// path can be a file path or ":memory:" for in-memory database.
func OpenConnection(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// One connection: an in-memory database exists per connection, and a
	// series is only ever used by one operator.
	db.SetMaxOpenConns(1)

	// Enable foreign key constraints (SQLite default is OFF for backward compatibility)
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	return db, nil
}

// Transactions

// Begin starts the transaction that all following calls run in until
// Commit or Rollback.
func (s *SQLiteDatabase) Begin() error {
	if s.tx != nil {
		return fmt.Errorf("transaction already active")
	}
	tx, err := s.db.BeginTx(context.Background(), nil)
	if err != nil {
		return fmt.Errorf("starting transaction: %w", err)
	}
	s.tx = tx
	s.queries = sqlc.New(s.db).WithTx(tx)
	return nil
}

// Commit commits the active transaction.
func (s *SQLiteDatabase) Commit() error {
	if s.tx == nil {
		return fmt.Errorf("no active transaction")
	}
	err := s.tx.Commit()
	s.endTx()
	if err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// Rollback discards the active transaction. It is a no-op without one.
func (s *SQLiteDatabase) Rollback() error {
	if s.tx == nil {
		return nil
	}
	err := s.tx.Rollback()
	s.endTx()
	if err != nil {
		return fmt.Errorf("rolling back transaction: %w", err)
	}
	return nil
}

func (s *SQLiteDatabase) endTx() {
	s.tx = nil
	s.queries = sqlc.New(s.db)
}

// withTx runs fn atomically, joining the active transaction if there is one.
func (s *SQLiteDatabase) withTx(fn func(q *sqlc.Queries) error) error {
	if s.tx != nil {
		return fn(s.queries)
	}

	tx, err := s.db.BeginTx(context.Background(), nil)
	if err != nil {
		return fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(s.queries.WithTx(tx)); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// Option operations

func (s *SQLiteDatabase) CreateOption(opt *model.Option) (*model.Option, error) {
	row, err := s.queries.InsertOption(context.Background(), sqlc.InsertOptionParams{
		Name:         opt.Name,
		Kind:         opt.Kind.String(),
		DefaultValue: opt.Default,
		FileIds:      encodeIDs(opt.FileIDs),
	})
	if err != nil {
		return nil, fmt.Errorf("inserting option: %w", err)
	}
	return toOption(row)
}

func (s *SQLiteDatabase) FindOptionByName(name string) (*model.Option, error) {
	row, err := s.queries.GetOptionByName(context.Background(), name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil // Not found
		}
		return nil, fmt.Errorf("finding option by name: %w", err)
	}
	return toOption(row)
}

func (s *SQLiteDatabase) FindOptionByID(id int64) (*model.Option, error) {
	row, err := s.queries.GetOptionByID(context.Background(), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil // Not found
		}
		return nil, fmt.Errorf("finding option by id: %w", err)
	}
	return toOption(row)
}

func (s *SQLiteDatabase) ListOptions() ([]*model.Option, error) {
	rows, err := s.queries.ListOptions(context.Background())
	if err != nil {
		return nil, fmt.Errorf("listing options: %w", err)
	}
	result := make([]*model.Option, 0, len(rows))
	for _, row := range rows {
		opt, err := toOption(row)
		if err != nil {
			return nil, err
		}
		result = append(result, opt)
	}
	return result, nil
}

func (s *SQLiteDatabase) UpdateOption(opt *model.Option) error {
	err := s.queries.UpdateOption(context.Background(), sqlc.UpdateOptionParams{
		Name:         opt.Name,
		DefaultValue: opt.Default,
		FileIds:      encodeIDs(opt.FileIDs),
		ID:           opt.ID,
	})
	if err != nil {
		return fmt.Errorf("updating option: %w", err)
	}
	return nil
}

func (s *SQLiteDatabase) DeleteOption(id int64) error {
	if err := s.queries.DeleteOptionByID(context.Background(), id); err != nil {
		return fmt.Errorf("deleting option: %w", err)
	}
	return nil
}

func toOption(row sqlc.Option) (*model.Option, error) {
	kind, err := model.ParseOptionKind(row.Kind)
	if err != nil {
		return nil, fmt.Errorf("option %s: %w", row.Name, err)
	}
	fileIDs, err := decodeIDs(row.FileIds)
	if err != nil {
		return nil, fmt.Errorf("option %s: %w", row.Name, err)
	}
	return &model.Option{
		ID:      row.ID,
		Name:    row.Name,
		Kind:    kind,
		Default: row.DefaultValue,
		FileIDs: fileIDs,
	}, nil
}

// File operations

func (s *SQLiteDatabase) CreateFile(file *model.File) (*model.File, error) {
	row, err := s.queries.InsertFile(context.Background(), sqlc.InsertFileParams{
		Path:        file.Name,
		TemplateID:  file.TemplateID,
		IsDirectory: file.IsTemplateDirectory,
	})
	if err != nil {
		return nil, fmt.Errorf("inserting file: %w", err)
	}
	return toFile(row), nil
}

func (s *SQLiteDatabase) FindFileByName(name string) (*model.File, error) {
	row, err := s.queries.GetFileByPath(context.Background(), name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil // Not found
		}
		return nil, fmt.Errorf("finding file by path: %w", err)
	}
	return toFile(row), nil
}

func (s *SQLiteDatabase) FindFileByID(id int64) (*model.File, error) {
	row, err := s.queries.GetFileByID(context.Background(), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil // Not found
		}
		return nil, fmt.Errorf("finding file by id: %w", err)
	}
	return toFile(row), nil
}

func (s *SQLiteDatabase) ListFiles() ([]*model.File, error) {
	rows, err := s.queries.ListFiles(context.Background())
	if err != nil {
		return nil, fmt.Errorf("listing files: %w", err)
	}
	result := make([]*model.File, len(rows))
	for i := range rows {
		result[i] = toFile(rows[i])
	}
	return result, nil
}

func (s *SQLiteDatabase) DeleteFile(id int64) error {
	if err := s.queries.DeleteFileByID(context.Background(), id); err != nil {
		return fmt.Errorf("deleting file: %w", err)
	}
	return nil
}

func toFile(row sqlc.File) *model.File {
	return &model.File{
		ID:                  row.ID,
		Name:                row.Path,
		IsTemplateDirectory: row.IsDirectory,
		TemplateID:          row.TemplateID,
	}
}

// Case operations

func (s *SQLiteDatabase) CreateCase(name string, versionID int64) (*model.Case, error) {
	row, err := s.queries.InsertCase(context.Background(), sqlc.InsertCaseParams{
		Name:             name,
		CurrentVersionID: versionID,
	})
	if err != nil {
		return nil, fmt.Errorf("inserting case: %w", err)
	}
	return toCase(row), nil
}

func (s *SQLiteDatabase) FindCaseByName(name string) (*model.Case, error) {
	row, err := s.queries.GetCaseByName(context.Background(), name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil // Not found
		}
		return nil, fmt.Errorf("finding case by name: %w", err)
	}
	return toCase(row), nil
}

func (s *SQLiteDatabase) FindCaseByVersion(versionID int64) (*model.Case, error) {
	row, err := s.queries.GetCaseByVersion(context.Background(), versionID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil // Not found
		}
		return nil, fmt.Errorf("finding case by version: %w", err)
	}
	return toCase(row), nil
}

func (s *SQLiteDatabase) ListCases() ([]*model.Case, error) {
	rows, err := s.queries.ListCases(context.Background())
	if err != nil {
		return nil, fmt.Errorf("listing cases: %w", err)
	}
	result := make([]*model.Case, len(rows))
	for i := range rows {
		result[i] = toCase(rows[i])
	}
	return result, nil
}

func (s *SQLiteDatabase) UpdateCaseVersion(name string, versionID int64) error {
	err := s.queries.UpdateCaseVersion(context.Background(), sqlc.UpdateCaseVersionParams{
		CurrentVersionID: versionID,
		Name:             name,
	})
	if err != nil {
		return fmt.Errorf("updating case version: %w", err)
	}
	return nil
}

func (s *SQLiteDatabase) RenameCase(name, newName string) error {
	err := s.queries.UpdateCaseName(context.Background(), sqlc.UpdateCaseNameParams{
		NewName: newName,
		Name:    name,
	})
	if err != nil {
		return fmt.Errorf("renaming case: %w", err)
	}
	return nil
}

func (s *SQLiteDatabase) DeleteCase(name string) error {
	if err := s.queries.DeleteCaseByName(context.Background(), name); err != nil {
		return fmt.Errorf("deleting case: %w", err)
	}
	return nil
}

func toCase(row sqlc.Case) *model.Case {
	return &model.Case{Name: row.Name, CurrentVersionID: row.CurrentVersionID}
}

// Version operations

func (s *SQLiteDatabase) CreateVersion(parentID int64, overrides model.Overrides, createdAt time.Time) (*model.CaseVersion, error) {
	ids, values := encodeOverrides(overrides)
	row, err := s.queries.InsertCaseVersion(context.Background(), sqlc.InsertCaseVersionParams{
		ParentID:     parentID,
		CreatedAt:    createdAt,
		OptionIds:    ids,
		OptionValues: values,
	})
	if err != nil {
		return nil, fmt.Errorf("inserting case version: %w", err)
	}
	return toVersion(row)
}

func (s *SQLiteDatabase) FindVersion(id int64) (*model.CaseVersion, error) {
	row, err := s.queries.GetCaseVersionByID(context.Background(), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil // Not found
		}
		return nil, fmt.Errorf("finding case version: %w", err)
	}
	return toVersion(row)
}

func (s *SQLiteDatabase) ListVersions() ([]*model.CaseVersion, error) {
	rows, err := s.queries.ListCaseVersions(context.Background())
	if err != nil {
		return nil, fmt.Errorf("listing case versions: %w", err)
	}
	return toVersions(rows)
}

func (s *SQLiteDatabase) ListChildVersions(parentID int64) ([]*model.CaseVersion, error) {
	rows, err := s.queries.ListChildCaseVersions(context.Background(), parentID)
	if err != nil {
		return nil, fmt.Errorf("listing child case versions: %w", err)
	}
	return toVersions(rows)
}

func (s *SQLiteDatabase) UpdateVersionOverrides(id int64, overrides model.Overrides) error {
	ids, values := encodeOverrides(overrides)
	err := s.queries.UpdateCaseVersionOverrides(context.Background(), sqlc.UpdateCaseVersionOverridesParams{
		OptionIds:    ids,
		OptionValues: values,
		ID:           id,
	})
	if err != nil {
		return fmt.Errorf("updating case version overrides: %w", err)
	}
	return nil
}

func (s *SQLiteDatabase) RecordBuild(id int64, at time.Time) error {
	err := s.queries.RecordCaseVersionBuild(context.Background(), sqlc.RecordCaseVersionBuildParams{
		LastBuildAt: sql.NullTime{Time: at, Valid: true},
		ID:          id,
	})
	if err != nil {
		return fmt.Errorf("recording build: %w", err)
	}
	return nil
}

func (s *SQLiteDatabase) DeleteVersion(id int64) error {
	if err := s.queries.DeleteCaseVersionByID(context.Background(), id); err != nil {
		return fmt.Errorf("deleting case version: %w", err)
	}
	return nil
}

func toVersion(row sqlc.CaseVersion) (*model.CaseVersion, error) {
	overrides, err := decodeOverrides(row.OptionIds, row.OptionValues)
	if err != nil {
		return nil, fmt.Errorf("case version %d: %w", row.ID, err)
	}
	v := &model.CaseVersion{
		ID:         row.ID,
		ParentID:   row.ParentID,
		CreatedAt:  row.CreatedAt,
		BuildCount: row.BuildCount,
		Overrides:  overrides,
	}
	if row.LastBuildAt.Valid {
		v.LastBuildAt = row.LastBuildAt.Time
	}
	return v, nil
}

func toVersions(rows []sqlc.CaseVersion) ([]*model.CaseVersion, error) {
	result := make([]*model.CaseVersion, 0, len(rows))
	for _, row := range rows {
		v, err := toVersion(row)
		if err != nil {
			return nil, err
		}
		result = append(result, v)
	}
	return result, nil
}

// Reset removes every case, version, file and non-series option. Series
// options keep their values but lose their file lists.
func (s *SQLiteDatabase) Reset() error {
	ctx := context.Background()
	return s.withTx(func(q *sqlc.Queries) error {
		steps := []struct {
			name string
			fn   func(context.Context) error
		}{
			{"cases", q.DeleteAllCases},
			{"case versions", q.DeleteAllCaseVersions},
			{"options", q.DeleteNonSeriesOptions},
			{"series option files", q.ClearSeriesOptionFiles},
			{"files", q.DeleteAllFiles},
		}
		for _, step := range steps {
			if err := step.fn(ctx); err != nil {
				return fmt.Errorf("resetting %s: %w", step.name, err)
			}
		}
		return nil
	})
}

// Operation tracking

func (s *SQLiteDatabase) CreateOperation(invocationID, operation, parameters string, startedAt time.Time) (*model.Operation, error) {
	row, err := s.queries.InsertOperation(context.Background(), sqlc.InsertOperationParams{
		InvocationID: invocationID,
		Operation:    operation,
		Parameters:   parameters,
		StartedAt:    startedAt,
	})
	if err != nil {
		return nil, fmt.Errorf("creating operation: %w", err)
	}
	return toOperation(row), nil
}

func (s *SQLiteDatabase) FinishOperation(id int64, status string, finishedAt time.Time) error {
	err := s.queries.UpdateOperationFinished(context.Background(), sqlc.UpdateOperationFinishedParams{
		FinishedAt: sql.NullTime{Time: finishedAt, Valid: true},
		Status:     status,
		ID:         id,
	})
	if err != nil {
		return fmt.Errorf("finishing operation: %w", err)
	}
	return nil
}

func (s *SQLiteDatabase) ListOperations(limit int) ([]*model.Operation, error) {
	rows, err := s.queries.ListOperations(context.Background(), int64(limit))
	if err != nil {
		return nil, fmt.Errorf("listing operations: %w", err)
	}
	result := make([]*model.Operation, len(rows))
	for i := range rows {
		result[i] = toOperation(rows[i])
	}
	return result, nil
}

func toOperation(row sqlc.Operation) *model.Operation {
	op := &model.Operation{
		ID:           row.ID,
		InvocationID: row.InvocationID,
		Operation:    row.Operation,
		Parameters:   row.Parameters,
		StartedAt:    row.StartedAt,
		Status:       row.Status,
	}
	if row.FinishedAt.Valid {
		op.FinishedAt = row.FinishedAt.Time
	}
	return op
}

// Path returns the database file path (or ":memory:" for in-memory databases).
func (s *SQLiteDatabase) Path() string {
	return s.path
}

// CheckMigrations verifies the database schema is up-to-date.
func (s *SQLiteDatabase) CheckMigrations() error {
	return migrations.CheckDBMigrationStatus(s.db)
}

// Migrate applies all pending migrations.
func (s *SQLiteDatabase) Migrate() error {
	return migrations.MigrateUp(s.db)
}

// BackupTo creates a complete copy of the database at destPath using VACUUM INTO.
func (s *SQLiteDatabase) BackupTo(destPath string) error {
	if s.tx != nil {
		return fmt.Errorf("cannot back up inside a transaction")
	}
	_, err := s.db.Exec("VACUUM INTO ?", destPath)
	if err != nil {
		return fmt.Errorf("backing up database: %w", err)
	}
	return nil
}

// Close rolls back any open transaction and closes the database connection.
func (s *SQLiteDatabase) Close() error {
	if s.db == nil {
		return nil
	}
	if err := s.Rollback(); err != nil {
		s.db.Close()
		return err
	}
	return s.db.Close()
}

// Compile-time check that SQLiteDatabase implements series.Store
var _ series.Store = (*SQLiteDatabase)(nil)
