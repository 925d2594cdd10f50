package series

import (
	"fmt"
	"slices"
	"strings"

	"series-go/internal/model"
)

// CreateOption defines a new option. Case options need a file to apply to;
// meta and series options are restricted to their predefined names.
func (s *Service) CreateOption(name string, kind model.OptionKind, defaultValue, fileName string) (*model.Option, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("option name must not be empty: %w", ErrValidation)
	}

	switch kind {
	case model.KindCase:
		if strings.TrimSpace(fileName) == "" {
			return nil, fmt.Errorf("case option %s needs a file: %w", name, ErrValidation)
		}
	case model.KindMeta:
		if !slices.Contains(model.MetaOptionNames, name) {
			return nil, fmt.Errorf("unknown meta option %s (valid: %s): %w", name, strings.Join(model.MetaOptionNames, ", "), ErrValidation)
		}
		defaultValue = ""
	case model.KindSeries:
		if !slices.Contains(model.SeriesOptionNames, name) {
			return nil, fmt.Errorf("unknown series option %s (valid: %s): %w", name, strings.Join(model.SeriesOptionNames, ", "), ErrValidation)
		}
	default:
		return nil, fmt.Errorf("option kind %v: %w", kind, ErrValidation)
	}

	existing, err := s.store.FindOptionByName(name)
	if err != nil {
		return nil, fmt.Errorf("checking for existing option: %w", err)
	}
	if existing != nil {
		return nil, fmt.Errorf("option %s already exists: %w", existing.Name, ErrConflict)
	}

	opt := &model.Option{Name: name, Kind: kind, Default: defaultValue}
	if strings.TrimSpace(fileName) != "" {
		file, err := s.findOrRegisterFile(fileName)
		if err != nil {
			return nil, err
		}
		opt.FileIDs = []int64{file.ID}
	}

	opt, err = s.store.CreateOption(opt)
	if err != nil {
		return nil, fmt.Errorf("creating option: %w", err)
	}

	s.logger.Info("option created", "name", opt.Name, "kind", opt.Kind.String())
	return opt, nil
}

// LookupOption returns the option with the given name.
func (s *Service) LookupOption(name string) (*model.Option, error) {
	opt, err := s.store.FindOptionByName(strings.TrimSpace(name))
	if err != nil {
		return nil, fmt.Errorf("finding option %s: %w", name, err)
	}
	if opt == nil {
		return nil, fmt.Errorf("option %s: %w", name, ErrNotFound)
	}
	return opt, nil
}

// ListOptions returns the options of the given kinds, or all options if none are given.
func (s *Service) ListOptions(kinds ...model.OptionKind) ([]*model.Option, error) {
	all, err := s.store.ListOptions()
	if err != nil {
		return nil, fmt.Errorf("listing options: %w", err)
	}
	if len(kinds) == 0 {
		return all, nil
	}
	var out []*model.Option
	for _, opt := range all {
		if slices.Contains(kinds, opt.Kind) {
			out = append(out, opt)
		}
	}
	return out, nil
}

// AddFileToOption associates a file with an option. Adding a file twice is a no-op.
func (s *Service) AddFileToOption(optName, fileName string) error {
	opt, err := s.LookupOption(optName)
	if err != nil {
		return err
	}
	if opt.Name == model.SeriesTemplateFiles {
		return fmt.Errorf("templates are added with RegisterTemplate: %w", ErrValidation)
	}

	file, err := s.findOrRegisterFile(fileName)
	if err != nil {
		return err
	}
	if opt.HasFile(file.ID) {
		return nil
	}

	opt.FileIDs = append(opt.FileIDs, file.ID)
	if err := s.store.UpdateOption(opt); err != nil {
		return fmt.Errorf("updating option %s: %w", opt.Name, err)
	}
	s.logger.Info("file added to option", "option", opt.Name, "file", file.Name)
	return nil
}

// RemoveFileFromOption drops the association between a file and an option.
// It is a no-op when the file is not associated.
func (s *Service) RemoveFileFromOption(optName, fileName string) error {
	opt, err := s.LookupOption(optName)
	if err != nil {
		return err
	}
	file, err := s.LookupFile(fileName)
	if err != nil {
		return err
	}
	if file == nil || !opt.HasFile(file.ID) {
		return nil
	}

	opt.FileIDs = removeID(opt.FileIDs, file.ID)
	if err := s.store.UpdateOption(opt); err != nil {
		return fmt.Errorf("updating option %s: %w", opt.Name, err)
	}
	s.logger.Info("file removed from option", "option", opt.Name, "file", file.Name)
	return nil
}

// RenameOption changes the name of a case option. Placeholders in the
// templates are not rewritten.
func (s *Service) RenameOption(name, newName string) error {
	newName = strings.TrimSpace(newName)
	if newName == "" {
		return fmt.Errorf("option name must not be empty: %w", ErrValidation)
	}
	opt, err := s.LookupOption(name)
	if err != nil {
		return err
	}
	if opt.Kind != model.KindCase {
		return fmt.Errorf("%s option %s cannot be renamed: %w", opt.Kind, opt.Name, ErrValidation)
	}

	existing, err := s.store.FindOptionByName(newName)
	if err != nil {
		return fmt.Errorf("checking for existing option: %w", err)
	}
	if existing != nil && existing.ID != opt.ID {
		return fmt.Errorf("option %s already exists: %w", existing.Name, ErrConflict)
	}

	oldName := opt.Name
	opt.Name = newName
	if err := s.store.UpdateOption(opt); err != nil {
		return fmt.Errorf("renaming option: %w", err)
	}
	s.logger.Info("option renamed", "from", oldName, "to", newName)
	return nil
}

// SetOptionDefault changes the default of an option. For case options the
// old default is first pinned into every version that relies on it, so
// existing versions keep resolving to the same value. Pinning updates
// versions in place, including versions with children, since no resolved
// value changes.
func (s *Service) SetOptionDefault(name, value string) error {
	opt, err := s.LookupOption(name)
	if err != nil {
		return err
	}

	switch opt.Kind {
	case model.KindMeta:
		return fmt.Errorf("meta option %s has no default: %w", opt.Name, ErrValidation)
	case model.KindCase:
		if err := s.pinDefault(opt); err != nil {
			return err
		}
	case model.KindSeries:
	default:
		return fmt.Errorf("option kind %v: %w", opt.Kind, ErrValidation)
	}

	old := opt.Default
	opt.Default = value
	if err := s.store.UpdateOption(opt); err != nil {
		return fmt.Errorf("updating option %s: %w", opt.Name, err)
	}
	s.logger.Info("option default changed", "name", opt.Name, "from", old, "to", value)
	return nil
}

// pinDefault stores the current default of opt in every version that does
// not override it. Resolution results are unchanged, so versions are
// updated in place.
func (s *Service) pinDefault(opt *model.Option) error {
	versions, err := s.store.ListVersions()
	if err != nil {
		return fmt.Errorf("listing versions: %w", err)
	}
	for _, v := range versions {
		if v.Overrides.Has(opt.ID) {
			continue
		}
		ov, err := v.Overrides.With(opt.ID, opt.Default)
		if err != nil {
			return err
		}
		if err := s.store.UpdateVersionOverrides(v.ID, ov); err != nil {
			return fmt.Errorf("pinning %s in version %d: %w", opt.Name, v.ID, err)
		}
	}
	return nil
}

// DeleteOption removes an option and every override of it.
func (s *Service) DeleteOption(name string, c Confirmer) error {
	opt, err := s.LookupOption(name)
	if err != nil {
		return err
	}
	if opt.Kind == model.KindSeries {
		return fmt.Errorf("series option %s cannot be deleted: %w", opt.Name, ErrValidation)
	}

	if !c.Confirm(fmt.Sprintf("Deleting option %s discards its value in every case. Proceed?", opt.Name)) {
		return ErrAborted
	}

	versions, err := s.store.ListVersions()
	if err != nil {
		return fmt.Errorf("listing versions: %w", err)
	}
	for _, v := range versions {
		if !v.Overrides.Has(opt.ID) {
			continue
		}
		if err := s.store.UpdateVersionOverrides(v.ID, v.Overrides.Without(opt.ID)); err != nil {
			return fmt.Errorf("stripping %s from version %d: %w", opt.Name, v.ID, err)
		}
	}

	if err := s.store.DeleteOption(opt.ID); err != nil {
		return fmt.Errorf("deleting option %s: %w", opt.Name, err)
	}
	s.logger.Info("option deleted", "name", opt.Name)
	return nil
}

// findOrRegisterFile returns a known file (template roots included) or
// registers it from the template directories.
func (s *Service) findOrRegisterFile(name string) (*model.File, error) {
	file, err := s.LookupFile(name)
	if err != nil {
		return nil, err
	}
	if file != nil {
		return file, nil
	}
	return s.RegisterFile(name)
}
