package series

import (
	"errors"
	"fmt"
	"io/fs"
	"path"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"

	"series-go/internal/model"
)

// BuildMode selects how existing artifacts are handled.
type BuildMode int

const (
	// ModeInteractive asks before replacing any existing artifact.
	ModeInteractive BuildMode = iota
	// ModeAutomatic keeps up-to-date artifacts and replaces stale ones.
	ModeAutomatic
)

// BuildOptions controls a Materialize run.
type BuildOptions struct {
	Mode BuildMode
	// Force replaces existing artifacts without asking.
	Force     bool
	Confirmer Confirmer
}

// BuildStateKind classifies an artifact destination.
type BuildStateKind int

const (
	BuildAbsent BuildStateKind = iota
	BuildMarked
	BuildUnmarked
)

func (k BuildStateKind) String() string {
	switch k {
	case BuildAbsent:
		return "absent"
	case BuildMarked:
		return "marked"
	case BuildUnmarked:
		return "unmarked"
	default:
		return fmt.Sprintf("BuildStateKind(%d)", int(k))
	}
}

// BuildState is the result of CheckExisting. VersionID is set for BuildMarked.
type BuildState struct {
	Kind      BuildStateKind
	VersionID int64
}

// ArtifactAction tells what Materialize did with one artifact.
type ArtifactAction string

const (
	ActionBuilt    ArtifactAction = "built"
	ActionRebuilt  ArtifactAction = "rebuilt"
	ActionUpToDate ArtifactAction = "up to date"
)

// Artifact is one template copy of a case.
type Artifact struct {
	Template string // Root-relative template path
	Path     string // Root-relative case path
	Action   ArtifactAction
}

// Warning reports options configured for a file whose placeholders were not found in it.
type Warning struct {
	File    string
	Options []string
}

func (w Warning) String() string {
	return fmt.Sprintf("options not found in %s (%s)", w.File, strings.Join(w.Options, ", "))
}

// BuildResult summarizes a Materialize run.
type BuildResult struct {
	VersionID int64
	CaseName  string
	Artifacts []Artifact
	Warnings  []Warning
	// UpToDate is true when every artifact was already built from VersionID.
	UpToDate bool
}

// Materialize copies every template to its case path, writes build markers,
// and substitutes option placeholders in the copies.
func (s *Service) Materialize(versionID int64, opts BuildOptions) (*BuildResult, error) {
	v, err := s.version(versionID)
	if err != nil {
		return nil, err
	}
	caseName, err := s.caseName(v.ID)
	if err != nil {
		return nil, err
	}
	templates, err := s.templates()
	if err != nil {
		return nil, err
	}
	if len(templates) == 0 {
		return nil, fmt.Errorf("no templates registered: %w", ErrValidation)
	}

	result := &BuildResult{VersionID: v.ID, CaseName: caseName}
	built := false

	for _, t := range templates {
		dest, err := s.casePath(t.Name, caseName)
		if err != nil {
			return nil, err
		}
		action, err := s.prepareDestination(v, dest, opts)
		if err != nil {
			return nil, err
		}
		result.Artifacts = append(result.Artifacts, Artifact{Template: t.Name, Path: dest, Action: action})
		if action == ActionUpToDate {
			s.logger.Info("artifact already up to date", "path", dest, "version", v.ID)
			continue
		}

		warnings, err := s.buildArtifact(v, caseName, t, dest)
		if err != nil {
			s.discard(dest)
			return nil, err
		}
		result.Warnings = append(result.Warnings, warnings...)
		built = true
		s.logger.Info("artifact "+string(action), "path", dest, "version", v.ID)
	}

	if !built {
		result.UpToDate = true
		return result, nil
	}

	if err := s.store.RecordBuild(v.ID, s.clock.Now()); err != nil {
		return nil, fmt.Errorf("recording build of version %d: %w", v.ID, err)
	}
	return result, nil
}

// buildArtifact copies one template to dest, substitutes options in the copy
// and marks it. The marker is written last, so an artifact that failed
// midway never claims to be up to date.
func (s *Service) buildArtifact(v *model.CaseVersion, caseName string, t *model.File, dest string) ([]Warning, error) {
	if err := s.fsys.Copy(s.abs(t.Name), s.abs(dest)); err != nil {
		return nil, fmt.Errorf("copying %s to %s: %w", t.Name, dest, err)
	}
	warnings, err := s.applyOptions(v, caseName, t)
	if err != nil {
		return nil, err
	}
	if err := s.writeMarker(dest, t.IsTemplateDirectory, v.ID); err != nil {
		return nil, err
	}
	return warnings, nil
}

// discard removes whatever a failed build left at dest.
func (s *Service) discard(dest string) {
	if err := s.fsys.RemoveAll(s.abs(dest)); err != nil {
		s.logger.Error("removing partial artifact", "path", dest, "error", err)
		return
	}
	s.logger.Warn("partial artifact removed", "path", dest)
}

// prepareDestination decides what to do with an existing artifact and
// removes it when it is to be rebuilt.
func (s *Service) prepareDestination(v *model.CaseVersion, dest string, opts BuildOptions) (ArtifactAction, error) {
	state, err := s.CheckExisting(dest)
	if err != nil {
		return "", err
	}

	switch state.Kind {
	case BuildAbsent:
		return ActionBuilt, nil
	case BuildUnmarked:
		return "", fmt.Errorf("%s: %w", dest, ErrUnmarkedArtifact)
	case BuildMarked:
	default:
		return "", fmt.Errorf("unknown build state %v for %s", state.Kind, dest)
	}

	switch opts.Mode {
	case ModeAutomatic:
		if state.VersionID == v.ID {
			return ActionUpToDate, nil
		}
	case ModeInteractive:
		builtAt := "unknown"
		if marked, err := s.store.FindVersion(state.VersionID); err != nil {
			return "", fmt.Errorf("finding version %d: %w", state.VersionID, err)
		} else if marked != nil && marked.Built() {
			builtAt = marked.LastBuildAt.Format(time.DateTime)
		}
		s.logger.Info("artifact exists", "path", dest, "built_version", state.VersionID, "built_at", builtAt, "current_version", v.ID)

		if !opts.Force {
			c := opts.Confirmer
			if c == nil {
				c = Refuse
			}
			prompt := fmt.Sprintf("%s was built from version %d (last build %s), current version is %d. Delete and rebuild?",
				dest, state.VersionID, builtAt, v.ID)
			if !c.Confirm(prompt) {
				return "", ErrAborted
			}
		}
	default:
		return "", fmt.Errorf("unknown build mode %d", opts.Mode)
	}

	if err := s.RemoveArtifact(dest); err != nil {
		return "", err
	}
	return ActionRebuilt, nil
}

// applyOptions rewrites every file of the template tmpl that has case or
// meta options associated with it.
func (s *Service) applyOptions(v *model.CaseVersion, caseName string, tmpl *model.File) ([]Warning, error) {
	opts, err := s.ListOptions(model.KindCase, model.KindMeta)
	if err != nil {
		return nil, err
	}
	files, err := s.store.ListFiles()
	if err != nil {
		return nil, fmt.Errorf("listing files: %w", err)
	}

	var warnings []Warning
	for _, f := range files {
		var used []*model.Option
		for _, opt := range opts {
			if opt.HasFile(f.ID) {
				used = append(used, opt)
			}
		}
		if len(used) == 0 {
			continue
		}
		root := f.TemplateID
		if f.IsTemplate() {
			root = f.ID
		}
		if root != tmpl.ID {
			continue
		}
		if f.IsTemplateDirectory {
			s.logger.Warn("options associated with a directory are ignored", "file", f.Name)
			continue
		}

		dest, err := s.artifactPath(f, caseName)
		if err != nil {
			return nil, err
		}
		missing, err := s.rewriteFile(dest, newApplier(s, v, used))
		if err != nil {
			return nil, err
		}
		if len(missing) > 0 {
			w := Warning{File: dest, Options: missing}
			s.logger.Warn("options not found in file", "file", dest, "options", strings.Join(missing, ","))
			warnings = append(warnings, w)
		}
	}
	return warnings, nil
}

// rewriteFile substitutes placeholders line by line and returns the names
// of the options that were not found.
func (s *Service) rewriteFile(dest string, a *applier) ([]string, error) {
	abs := s.abs(dest)
	info, err := s.fsys.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("checking %s: %w", dest, err)
	}
	data, err := s.fsys.ReadFile(abs)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", dest, err)
	}

	found := make(map[string]bool)
	var b strings.Builder
	b.Grow(len(data))
	for _, line := range strings.SplitAfter(string(data), "\n") {
		out, applied, err := a.apply(line)
		if err != nil {
			return nil, fmt.Errorf("applying options to %s: %w", dest, err)
		}
		for _, name := range applied {
			found[name] = true
		}
		b.WriteString(out)
	}

	if len(found) > 0 {
		if err := s.fsys.WriteFile(abs, []byte(b.String()), info.Mode().Perm()); err != nil {
			return nil, fmt.Errorf("writing %s: %w", dest, err)
		}
	}

	var missing []string
	for _, name := range a.names {
		if !found[name] {
			missing = append(missing, name)
		}
	}
	slices.Sort(missing)
	return missing, nil
}

// CheckExisting inspects a root-relative artifact path. A marker that cannot
// be read or parsed makes the artifact unmarked.
func (s *Service) CheckExisting(dest string) (BuildState, error) {
	info, err := s.fsys.Stat(s.abs(dest))
	if errors.Is(err, fs.ErrNotExist) {
		return BuildState{Kind: BuildAbsent}, nil
	}
	if err != nil {
		return BuildState{}, fmt.Errorf("checking %s: %w", dest, err)
	}

	data, err := s.fsys.ReadFile(s.abs(s.markerPath(dest, info.IsDir())))
	if err != nil {
		s.logger.Debug("build marker unreadable", "path", dest, "error", err)
		return BuildState{Kind: BuildUnmarked}, nil
	}
	id, err := strconv.ParseInt(strings.TrimSpace(string(data)), 10, 64)
	if err != nil || id <= 0 {
		s.logger.Debug("build marker invalid", "path", dest, "content", string(data))
		return BuildState{Kind: BuildUnmarked}, nil
	}
	return BuildState{Kind: BuildMarked, VersionID: id}, nil
}

// RemoveArtifact deletes a root-relative artifact and its build marker.
// The artifact must exist; a missing marker is ignored.
func (s *Service) RemoveArtifact(dest string) error {
	info, err := s.fsys.Stat(s.abs(dest))
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("artifact %s: %w", dest, ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("checking %s: %w", dest, err)
	}

	if info.IsDir() {
		if err := s.fsys.RemoveAll(s.abs(dest)); err != nil {
			return fmt.Errorf("removing %s: %w", dest, err)
		}
	} else {
		if err := s.fsys.Remove(s.abs(dest)); err != nil {
			return fmt.Errorf("removing %s: %w", dest, err)
		}
		if err := s.fsys.Remove(s.abs(s.markerPath(dest, false))); err != nil {
			return fmt.Errorf("removing marker of %s: %w", dest, err)
		}
	}
	s.logger.Debug("artifact removed", "path", dest)
	return nil
}

// markerPath returns the root-relative build marker of an artifact.
func (s *Service) markerPath(dest string, isDir bool) string {
	if isDir {
		return path.Join(dest, "."+s.settings.MarkerName)
	}
	dir, base := path.Split(dest)
	return path.Join(dir, "."+s.settings.MarkerName+"-"+base)
}

func (s *Service) writeMarker(dest string, isDir bool, versionID int64) error {
	marker := s.markerPath(dest, isDir)
	if err := s.fsys.WriteFile(s.abs(marker), []byte(strconv.FormatInt(versionID, 10)), 0o644); err != nil {
		return fmt.Errorf("writing build marker %s: %w", marker, err)
	}
	return nil
}

// casePath maps a template-relative path to the path of caseName's copy.
func (s *Service) casePath(templatePath, caseName string) (string, error) {
	templateString, err := s.seriesValue(model.SeriesTemplateString)
	if err != nil {
		return "", err
	}
	seriesName, err := s.seriesValue(model.SeriesName)
	if err != nil {
		return "", err
	}
	if templateString == "" || !strings.Contains(templatePath, templateString) {
		return "", fmt.Errorf("template %s does not contain %q: %w", templatePath, templateString, ErrValidation)
	}
	return strings.ReplaceAll(templatePath, templateString, seriesName+"-"+caseName), nil
}

// artifactPath returns the path of caseName's copy of a registered file.
// Only the template root is renamed; files inside a template directory keep
// their names.
func (s *Service) artifactPath(f *model.File, caseName string) (string, error) {
	if f.IsTemplate() {
		return s.casePath(f.Name, caseName)
	}
	dir, err := s.file(f.TemplateID)
	if err != nil {
		return "", fmt.Errorf("template of %s: %w", f.Name, err)
	}
	root, err := s.casePath(dir.Name, caseName)
	if err != nil {
		return "", err
	}
	return path.Join(root, f.Name), nil
}

// templates returns the members of the templateFiles series option in order.
func (s *Service) templates() ([]*model.File, error) {
	return s.optionFiles(model.SeriesTemplateFiles)
}

func (s *Service) optionFiles(name string) ([]*model.File, error) {
	opt, err := s.seriesOption(name)
	if err != nil {
		return nil, err
	}
	files := make([]*model.File, 0, len(opt.FileIDs))
	for _, id := range opt.FileIDs {
		f, err := s.file(id)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		files = append(files, f)
	}
	return files, nil
}

// ArtifactStatus describes the state of one artifact of a case.
type ArtifactStatus struct {
	Template  string
	Path      string
	State     string
	VersionID int64 // Version named by the marker, if any
}

// Artifact states reported by Status.
const (
	StatusUpToDate = "up to date"
	StatusStale    = "stale"
	StatusUnmarked = "unmarked"
	StatusAbsent   = "absent"
)

// Status reports, per template, whether the case copy is current for versionID.
func (s *Service) Status(versionID int64) ([]ArtifactStatus, error) {
	v, err := s.version(versionID)
	if err != nil {
		return nil, err
	}
	caseName, err := s.caseName(v.ID)
	if err != nil {
		return nil, err
	}
	templates, err := s.templates()
	if err != nil {
		return nil, err
	}

	out := make([]ArtifactStatus, 0, len(templates))
	for _, t := range templates {
		dest, err := s.casePath(t.Name, caseName)
		if err != nil {
			return nil, err
		}
		state, err := s.CheckExisting(dest)
		if err != nil {
			return nil, err
		}
		st := ArtifactStatus{Template: t.Name, Path: dest, VersionID: state.VersionID}
		switch state.Kind {
		case BuildAbsent:
			st.State = StatusAbsent
		case BuildUnmarked:
			st.State = StatusUnmarked
		case BuildMarked:
			st.State = StatusStale
			if state.VersionID == v.ID {
				st.State = StatusUpToDate
			}
		}
		out = append(out, st)
	}
	return out, nil
}

// Clean removes every built artifact of the case at versionID. Unmarked
// artifacts are left alone and reported as a conflict.
func (s *Service) Clean(versionID int64, c Confirmer) ([]string, error) {
	statuses, err := s.Status(versionID)
	if err != nil {
		return nil, err
	}

	var doomed []string
	for _, st := range statuses {
		switch st.State {
		case StatusAbsent:
		case StatusUnmarked:
			return nil, fmt.Errorf("%s: %w", st.Path, ErrUnmarkedArtifact)
		default:
			doomed = append(doomed, st.Path)
		}
	}
	if len(doomed) == 0 {
		return nil, nil
	}

	if !c.Confirm(fmt.Sprintf("You are about to delete %s. Proceed?", strings.Join(doomed, ", "))) {
		return nil, ErrAborted
	}
	for _, dest := range doomed {
		if err := s.RemoveArtifact(dest); err != nil {
			return nil, err
		}
		s.logger.Info("artifact removed", "path", dest)
	}
	return doomed, nil
}

// Run builds the case at versionID in automatic mode and executes every
// file of the runFiles series option inside its directory.
func (s *Service) Run(versionID int64) (*BuildResult, error) {
	if s.runner == nil {
		return nil, fmt.Errorf("no runner configured")
	}
	runFiles, err := s.optionFiles(model.SeriesRunFiles)
	if err != nil {
		return nil, err
	}
	if len(runFiles) == 0 {
		return nil, fmt.Errorf("no run files defined: %w", ErrValidation)
	}

	result, err := s.Materialize(versionID, BuildOptions{Mode: ModeAutomatic})
	if err != nil {
		return nil, err
	}

	for _, f := range runFiles {
		dest, err := s.artifactPath(f, result.CaseName)
		if err != nil {
			return nil, err
		}
		abs := s.abs(dest)
		s.logger.Info("running", "file", dest)
		if err := s.runner.Run(filepath.Dir(abs), filepath.Base(abs)); err != nil {
			return nil, fmt.Errorf("running %s: %w", dest, err)
		}
	}
	return result, nil
}
