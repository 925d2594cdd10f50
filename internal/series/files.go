package series

import (
	"errors"
	"fmt"
	"io/fs"
	"path"
	"path/filepath"
	"strings"

	"series-go/internal/model"
)

// RegisterTemplate records a template root and adds it to the templateFiles
// series option. The path must contain the templateString marker so that
// every case gets its own copy.
func (s *Service) RegisterTemplate(name string) (*model.File, error) {
	name, err := s.relName(name)
	if err != nil {
		return nil, err
	}

	existing, err := s.store.FindFileByName(name)
	if err != nil {
		return nil, fmt.Errorf("checking for existing file: %w", err)
	}
	if existing != nil {
		return nil, fmt.Errorf("file %s already registered: %w", name, ErrConflict)
	}

	templateString, err := s.seriesValue(model.SeriesTemplateString)
	if err != nil {
		return nil, err
	}
	if templateString == "" || !strings.Contains(name, templateString) {
		return nil, fmt.Errorf("template %s does not contain %q: %w", name, templateString, ErrValidation)
	}

	info, err := s.fsys.Stat(s.abs(name))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("template %s: %w", name, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("checking template %s: %w", name, err)
	}

	file, err := s.store.CreateFile(&model.File{Name: name, IsTemplateDirectory: info.IsDir()})
	if err != nil {
		return nil, fmt.Errorf("creating file: %w", err)
	}

	templates, err := s.seriesOption(model.SeriesTemplateFiles)
	if err != nil {
		return nil, err
	}
	templates.FileIDs = append(templates.FileIDs, file.ID)
	if err := s.store.UpdateOption(templates); err != nil {
		return nil, fmt.Errorf("updating %s: %w", model.SeriesTemplateFiles, err)
	}

	s.logger.Info("template registered", "name", name, "directory", info.IsDir())
	return file, nil
}

// RegisterFile records a regular file located inside one of the template
// directories. Known files are returned as they are. The file must be found
// in exactly one template directory.
func (s *Service) RegisterFile(name string) (*model.File, error) {
	name, err := s.relName(name)
	if err != nil {
		return nil, err
	}

	existing, err := s.store.FindFileByName(name)
	if err != nil {
		return nil, fmt.Errorf("checking for existing file: %w", err)
	}
	if existing != nil {
		return existing, nil
	}

	dirs, err := s.templateDirectories()
	if err != nil {
		return nil, err
	}

	var hits []*model.File
	for _, dir := range dirs {
		info, err := s.fsys.Stat(s.abs(path.Join(dir.Name, name)))
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("checking %s in %s: %w", name, dir.Name, err)
		}
		if info.Mode().IsRegular() {
			hits = append(hits, dir)
		}
	}

	switch len(hits) {
	case 0:
		return nil, fmt.Errorf("file %s in any template directory: %w", name, ErrNotFound)
	case 1:
	default:
		dirNames := make([]string, len(hits))
		for i, h := range hits {
			dirNames[i] = h.Name
		}
		return nil, fmt.Errorf("%s (%s): %w", name, strings.Join(dirNames, ", "), ErrAmbiguousFile)
	}

	file, err := s.store.CreateFile(&model.File{Name: name, TemplateID: hits[0].ID})
	if err != nil {
		return nil, fmt.Errorf("creating file: %w", err)
	}

	s.logger.Info("file registered", "name", name, "template", hits[0].Name)
	return file, nil
}

// LookupFile returns the file with the given name, or nil if it is unknown.
func (s *Service) LookupFile(name string) (*model.File, error) {
	name, err := s.relName(name)
	if err != nil {
		return nil, err
	}
	file, err := s.store.FindFileByName(name)
	if err != nil {
		return nil, fmt.Errorf("finding file %s: %w", name, err)
	}
	return file, nil
}

// IsDirectory reports whether the file with the given id is a template directory.
func (s *Service) IsDirectory(id int64) (bool, error) {
	file, err := s.file(id)
	if err != nil {
		return false, err
	}
	return file.IsTemplateDirectory, nil
}

// ListFiles returns every registered file.
func (s *Service) ListFiles() ([]*model.File, error) {
	return s.store.ListFiles()
}

// RemoveFile forgets a file and strips it from every option. Removing a
// template directory also removes the files registered inside it.
func (s *Service) RemoveFile(name string, c Confirmer) error {
	file, err := s.LookupFile(name)
	if err != nil {
		return err
	}
	if file == nil {
		return fmt.Errorf("file %s: %w", name, ErrNotFound)
	}

	doomed := []*model.File{file}
	if file.IsTemplateDirectory {
		all, err := s.store.ListFiles()
		if err != nil {
			return fmt.Errorf("listing files: %w", err)
		}
		for _, f := range all {
			if f.TemplateID == file.ID {
				doomed = append(doomed, f)
			}
		}
	}

	if !c.Confirm(fmt.Sprintf("Remove %s (%d file(s)) from all options?", file.Name, len(doomed))) {
		return ErrAborted
	}

	opts, err := s.store.ListOptions()
	if err != nil {
		return fmt.Errorf("listing options: %w", err)
	}
	for _, f := range doomed {
		for _, opt := range opts {
			if !opt.HasFile(f.ID) {
				continue
			}
			opt.FileIDs = removeID(opt.FileIDs, f.ID)
			if err := s.store.UpdateOption(opt); err != nil {
				return fmt.Errorf("updating option %s: %w", opt.Name, err)
			}
		}
		if err := s.store.DeleteFile(f.ID); err != nil {
			return fmt.Errorf("deleting file %s: %w", f.Name, err)
		}
		s.logger.Info("file removed", "name", f.Name)
	}
	return nil
}

func (s *Service) file(id int64) (*model.File, error) {
	file, err := s.store.FindFileByID(id)
	if err != nil {
		return nil, fmt.Errorf("finding file %d: %w", id, err)
	}
	if file == nil {
		return nil, fmt.Errorf("file %d: %w", id, ErrNotFound)
	}
	return file, nil
}

func (s *Service) templateDirectories() ([]*model.File, error) {
	all, err := s.store.ListFiles()
	if err != nil {
		return nil, fmt.Errorf("listing files: %w", err)
	}
	var dirs []*model.File
	for _, f := range all {
		if f.IsTemplate() && f.IsTemplateDirectory {
			dirs = append(dirs, f)
		}
	}
	return dirs, nil
}

// relName normalizes a user-supplied path to a clean slash-separated path
// relative to the series root.
func (s *Service) relName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", fmt.Errorf("file name must not be empty: %w", ErrValidation)
	}
	if filepath.IsAbs(name) {
		rel, err := filepath.Rel(s.settings.Root, name)
		if err != nil {
			return "", fmt.Errorf("%s is not below %s: %w", name, s.settings.Root, ErrValidation)
		}
		name = rel
	}
	name = path.Clean(filepath.ToSlash(name))
	if name == "." || name == ".." || strings.HasPrefix(name, "../") {
		return "", fmt.Errorf("%s is not below the series root: %w", name, ErrValidation)
	}
	return name, nil
}

func removeID(ids []int64, id int64) []int64 {
	out := make([]int64, 0, len(ids))
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}
