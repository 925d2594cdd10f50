package series

import (
	"fmt"

	"series-go/internal/model"
)

// ResolvedOption is an option together with its value for one version.
type ResolvedOption struct {
	Option     *model.Option
	Value      string
	Overridden bool
}

// Resolve returns the value of optionID as seen by versionID.
func (s *Service) Resolve(optionID, versionID int64) (string, error) {
	v, err := s.version(versionID)
	if err != nil {
		return "", err
	}
	opt, err := s.option(optionID)
	if err != nil {
		return "", err
	}
	return s.resolve(opt, v)
}

// ResolveAll returns every case and meta option resolved for versionID.
func (s *Service) ResolveAll(versionID int64) ([]ResolvedOption, error) {
	v, err := s.version(versionID)
	if err != nil {
		return nil, err
	}
	opts, err := s.ListOptions(model.KindCase, model.KindMeta)
	if err != nil {
		return nil, err
	}
	out := make([]ResolvedOption, 0, len(opts))
	for _, opt := range opts {
		value, err := s.resolve(opt, v)
		if err != nil {
			return nil, err
		}
		out = append(out, ResolvedOption{Option: opt, Value: value, Overridden: v.Overrides.Has(opt.ID)})
	}
	return out, nil
}

func (s *Service) resolve(opt *model.Option, v *model.CaseVersion) (string, error) {
	if value, ok := v.Overrides.Get(opt.ID); ok {
		return value, nil
	}

	switch opt.Kind {
	case model.KindMeta:
		switch opt.Name {
		case model.MetaCaseName:
			return s.caseName(v.ID)
		case model.MetaSeriesName:
			return s.seriesValue(model.SeriesName)
		default:
			return "", fmt.Errorf("unknown meta option %s: %w", opt.Name, ErrValidation)
		}
	case model.KindCase, model.KindSeries:
		return opt.Default, nil
	default:
		return "", fmt.Errorf("option %s has kind %v: %w", opt.Name, opt.Kind, ErrValidation)
	}
}

// caseName returns the name of the case pointing at versionID or, failing
// that, at the first descendant reached by following first children.
func (s *Service) caseName(versionID int64) (string, error) {
	id := versionID
	for {
		owner, err := s.store.FindCaseByVersion(id)
		if err != nil {
			return "", fmt.Errorf("finding case of version %d: %w", id, err)
		}
		if owner != nil {
			return owner.Name, nil
		}
		children, err := s.store.ListChildVersions(id)
		if err != nil {
			return "", fmt.Errorf("listing children of version %d: %w", id, err)
		}
		if len(children) == 0 {
			return "", fmt.Errorf("case for version %d: %w", versionID, ErrNotFound)
		}
		id = children[0].ID
	}
}
