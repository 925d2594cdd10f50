package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"series-go/internal/database"
	"series-go/internal/fs"
	"series-go/internal/model"
	"series-go/internal/series"
)

// Harness bundles a Service with the store, clock and root directory behind it.
type Harness struct {
	Service *series.Service
	Store   *database.SQLiteDatabase
	Clock   *StubClock
	Runner  *RecordingRunner
	Root    string
}

// NewHarness creates a Service over an in-memory store and a temporary root,
// initialized as the series "exp".
func NewHarness(t *testing.T, settings series.Settings) *Harness {
	t.Helper()

	h := &Harness{
		Store:  NewTestDatabase(t),
		Clock:  FixedClock(),
		Runner: &RecordingRunner{},
		Root:   t.TempDir(),
	}
	settings.Root = h.Root
	h.Service = series.NewService(h.Store, fs.NewOSFilesystem(nil, false), h.Runner, series.NewNopLogger(), h.Clock, settings)

	if err := h.Service.Init("exp"); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	return h
}

// RegisterTemplate registers a template and fails the test on error.
func (h *Harness) RegisterTemplate(t *testing.T, name string) *model.File {
	t.Helper()
	file, err := h.Service.RegisterTemplate(name)
	if err != nil {
		t.Fatalf("RegisterTemplate(%q) error = %v", name, err)
	}
	return file
}

// CreateOption creates an option and fails the test on error.
func (h *Harness) CreateOption(t *testing.T, name string, kind model.OptionKind, defaultValue, fileName string) *model.Option {
	t.Helper()
	opt, err := h.Service.CreateOption(name, kind, defaultValue, fileName)
	if err != nil {
		t.Fatalf("CreateOption(%q) error = %v", name, err)
	}
	return opt
}

// LookupOption returns an existing option and fails the test otherwise.
func (h *Harness) LookupOption(t *testing.T, name string) *model.Option {
	t.Helper()
	opt, err := h.Service.LookupOption(name)
	if err != nil || opt == nil {
		t.Fatalf("LookupOption(%q) = %v, %v", name, opt, err)
	}
	return opt
}

// LookupFile returns an existing file and fails the test otherwise.
func (h *Harness) LookupFile(t *testing.T, name string) *model.File {
	t.Helper()
	file, err := h.Service.LookupFile(name)
	if err != nil || file == nil {
		t.Fatalf("LookupFile(%q) = %v, %v", name, file, err)
	}
	return file
}

// CreateCase creates a case and returns its root version.
func (h *Harness) CreateCase(t *testing.T, name string) int64 {
	t.Helper()
	id, err := h.Service.CreateCase(name)
	if err != nil {
		t.Fatalf("CreateCase(%q) error = %v", name, err)
	}
	return id
}

// BranchCase copies the current version of from into a new case.
func (h *Harness) BranchCase(t *testing.T, name, from string) int64 {
	t.Helper()
	id, err := h.Service.BranchCase(name, from)
	if err != nil {
		t.Fatalf("BranchCase(%q, %q) error = %v", name, from, err)
	}
	return id
}

// SetOverride overrides an option and fails the test on error.
func (h *Harness) SetOverride(t *testing.T, versionID, optionID int64, value string, createNewVersion bool) int64 {
	t.Helper()
	id, err := h.Service.SetOverride(versionID, optionID, value, createNewVersion)
	if err != nil {
		t.Fatalf("SetOverride(%d, %d, %q) error = %v", versionID, optionID, value, err)
	}
	return id
}

// Version returns an existing version and fails the test otherwise.
func (h *Harness) Version(t *testing.T, id int64) *model.CaseVersion {
	t.Helper()
	v, err := h.Service.Version(id)
	if err != nil || v == nil {
		t.Fatalf("Version(%d) = %v, %v", id, v, err)
	}
	return v
}

// WriteFile creates a file below the harness root.
func (h *Harness) WriteFile(t *testing.T, rel, content string) {
	t.Helper()
	path := filepath.Join(h.Root, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("creating directory: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("writing %s: %v", rel, err)
	}
}

// ReadFile returns the content of a file below the harness root.
func (h *Harness) ReadFile(t *testing.T, rel string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(h.Root, filepath.FromSlash(rel)))
	if err != nil {
		t.Fatalf("reading %s: %v", rel, err)
	}
	return string(data)
}

// Exists reports whether rel exists below the harness root.
func (h *Harness) Exists(rel string) bool {
	_, err := os.Stat(filepath.Join(h.Root, filepath.FromSlash(rel)))
	return err == nil
}

// RecordingRunner records run requests instead of executing them.
type RecordingRunner struct {
	Runs []Run
	Err  error
}

// Run is one recorded run request.
type Run struct {
	Dir  string
	Name string
}

func (r *RecordingRunner) Run(dir, name string) error {
	r.Runs = append(r.Runs, Run{Dir: dir, Name: name})
	return r.Err
}
