package series

import (
	"fmt"
	"path/filepath"
	"strings"

	"series-go/internal/model"
)

// PrunePolicy bounds how far PruneChain walks up a deleted case's ancestry.
// Zero prunes only the version itself, n > 0 allows up to n ancestors,
// and a negative value removes every eligible ancestor.
type PrunePolicy struct {
	MaxAncestors int
}

// Settings holds the series-wide parameters of a Service.
type Settings struct {
	// Root is the absolute directory all file names are relative to.
	Root string
	// MarkerName is the base name of build markers, without the leading dot.
	MarkerName string
	Prune      PrunePolicy
}

// DefaultMarkerName is used when Settings.MarkerName is empty.
const DefaultMarkerName = "build"

// Service implements the series operations on top of a Store and a Filesystem.
type Service struct {
	store    Store
	fsys     Filesystem
	runner   Runner
	logger   Logger
	clock    Clock
	settings Settings
}

// NewService creates a new Service with the provided dependencies.
// runner may be nil when cases are never run.
func NewService(store Store, fsys Filesystem, runner Runner, logger Logger, clock Clock, settings Settings) *Service {
	if settings.MarkerName == "" {
		settings.MarkerName = DefaultMarkerName
	}
	return &Service{
		store:    store,
		fsys:     fsys,
		runner:   runner,
		logger:   logger,
		clock:    clock,
		settings: settings,
	}
}

// Init seeds the series options of a new series named name.
func (s *Service) Init(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("series name must not be empty: %w", ErrValidation)
	}
	existing, err := s.store.FindOptionByName(model.SeriesName)
	if err != nil {
		return fmt.Errorf("checking for existing series: %w", err)
	}
	if existing != nil {
		return fmt.Errorf("series %q already initialized: %w", existing.Default, ErrConflict)
	}

	defaults := []struct{ name, value string }{
		{model.SeriesName, name},
		{model.SeriesTemplateString, "template"},
		{model.SeriesTemplateFiles, ""},
		{model.SeriesRunFiles, ""},
	}
	for _, d := range defaults {
		if _, err := s.store.CreateOption(&model.Option{Name: d.name, Kind: model.KindSeries, Default: d.value}); err != nil {
			return fmt.Errorf("creating series option %s: %w", d.name, err)
		}
	}

	s.logger.Info("series initialized", "name", name)
	return nil
}

// Reset removes every case, version, file and non-series option.
// The series options survive with their file lists cleared.
func (s *Service) Reset(c Confirmer) error {
	if !c.Confirm("This deletes all cases, options and files of the series. Proceed?") {
		return ErrAborted
	}
	if err := s.store.Reset(); err != nil {
		return fmt.Errorf("resetting store: %w", err)
	}
	s.logger.Info("series reset")
	return nil
}

// SeriesName returns the resolved name of the series.
func (s *Service) SeriesName() (string, error) {
	return s.seriesValue(model.SeriesName)
}

func (s *Service) abs(rel string) string {
	return filepath.Join(s.settings.Root, filepath.FromSlash(rel))
}

// seriesOption returns a series option, which must exist once Init has run.
func (s *Service) seriesOption(name string) (*model.Option, error) {
	opt, err := s.store.FindOptionByName(name)
	if err != nil {
		return nil, fmt.Errorf("finding series option %s: %w", name, err)
	}
	if opt == nil || opt.Kind != model.KindSeries {
		return nil, fmt.Errorf("series option %s (series not initialized?): %w", name, ErrNotFound)
	}
	return opt, nil
}

func (s *Service) seriesValue(name string) (string, error) {
	opt, err := s.seriesOption(name)
	if err != nil {
		return "", err
	}
	return opt.Default, nil
}

func (s *Service) version(id int64) (*model.CaseVersion, error) {
	v, err := s.store.FindVersion(id)
	if err != nil {
		return nil, fmt.Errorf("finding version %d: %w", id, err)
	}
	if v == nil {
		return nil, fmt.Errorf("version %d: %w", id, ErrNotFound)
	}
	return v, nil
}

func (s *Service) option(id int64) (*model.Option, error) {
	opt, err := s.store.FindOptionByID(id)
	if err != nil {
		return nil, fmt.Errorf("finding option %d: %w", id, err)
	}
	if opt == nil {
		return nil, fmt.Errorf("option %d: %w", id, ErrNotFound)
	}
	return opt, nil
}
