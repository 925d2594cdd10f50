package series

import (
	"fmt"
	"strings"

	"series-go/internal/model"
)

// CreateCase creates a case with an empty root version and returns the version id.
func (s *Service) CreateCase(name string) (int64, error) {
	name = strings.TrimSpace(name)
	if err := s.checkNewCaseName(name); err != nil {
		return 0, err
	}

	v, err := s.store.CreateVersion(0, model.Overrides{}, s.clock.Now())
	if err != nil {
		return 0, fmt.Errorf("creating version: %w", err)
	}
	if _, err := s.store.CreateCase(name, v.ID); err != nil {
		return 0, fmt.Errorf("creating case: %w", err)
	}

	s.logger.Info("case created", "name", name, "version", v.ID)
	return v.ID, nil
}

// BranchCase creates newName from the current version of fromName. The new
// version is a child of the source version and starts with its overrides.
func (s *Service) BranchCase(newName, fromName string) (int64, error) {
	newName = strings.TrimSpace(newName)
	if err := s.checkNewCaseName(newName); err != nil {
		return 0, err
	}
	from, err := s.LookupCase(fromName)
	if err != nil {
		return 0, err
	}
	source, err := s.version(from.CurrentVersionID)
	if err != nil {
		return 0, err
	}

	v, err := s.store.CreateVersion(source.ID, source.Overrides, s.clock.Now())
	if err != nil {
		return 0, fmt.Errorf("creating version: %w", err)
	}
	if _, err := s.store.CreateCase(newName, v.ID); err != nil {
		return 0, fmt.Errorf("creating case: %w", err)
	}

	s.logger.Info("case branched", "name", newName, "from", from.Name, "version", v.ID, "parent", source.ID)
	return v.ID, nil
}

// LookupCase returns the case with the given name.
func (s *Service) LookupCase(name string) (*model.Case, error) {
	c, err := s.store.FindCaseByName(strings.TrimSpace(name))
	if err != nil {
		return nil, fmt.Errorf("finding case %s: %w", name, err)
	}
	if c == nil {
		return nil, fmt.Errorf("case %s: %w", name, ErrNotFound)
	}
	return c, nil
}

// ListCases returns every case ordered by name.
func (s *Service) ListCases() ([]*model.Case, error) {
	return s.store.ListCases()
}

// Version returns the version with the given id.
func (s *Service) Version(id int64) (*model.CaseVersion, error) {
	return s.version(id)
}

// SetOverride pins optionID to value in versionID. An option that is already
// overridden must be changed with ModifyOverride. With createNewVersion the
// change goes into a child version and the owning case moves to it;
// otherwise the version is changed in place, which requires that nothing
// was branched from it.
func (s *Service) SetOverride(versionID, optionID int64, value string, createNewVersion bool) (int64, error) {
	v, err := s.version(versionID)
	if err != nil {
		return 0, err
	}
	opt, err := s.option(optionID)
	if err != nil {
		return 0, err
	}
	if opt.Kind == model.KindSeries {
		return 0, fmt.Errorf("series option %s cannot be set per case: %w", opt.Name, ErrValidation)
	}
	if v.Overrides.Has(opt.ID) {
		return 0, fmt.Errorf("option %s already set in version %d, use modify: %w", opt.Name, v.ID, ErrConflict)
	}

	ov, err := v.Overrides.With(opt.ID, value)
	if err != nil {
		return 0, err
	}
	id, err := s.applyOverrides(v, ov, createNewVersion)
	if err != nil {
		return 0, err
	}
	s.logger.Info("option set", "option", opt.Name, "value", value, "version", id)
	return id, nil
}

// UnsetOverride removes the override of optionID. It returns versionID
// unchanged when the option is not overridden.
func (s *Service) UnsetOverride(versionID, optionID int64, createNewVersion bool) (int64, error) {
	v, err := s.version(versionID)
	if err != nil {
		return 0, err
	}
	opt, err := s.option(optionID)
	if err != nil {
		return 0, err
	}
	if !v.Overrides.Has(opt.ID) {
		return v.ID, nil
	}

	id, err := s.applyOverrides(v, v.Overrides.Without(opt.ID), createNewVersion)
	if err != nil {
		return 0, err
	}
	s.logger.Info("option unset", "option", opt.Name, "version", id)
	return id, nil
}

// ModifyOverride changes the value of optionID in a new child version.
// Options that are not overridden yet are set instead.
func (s *Service) ModifyOverride(versionID, optionID int64, value string) (int64, error) {
	v, err := s.version(versionID)
	if err != nil {
		return 0, err
	}
	if !v.Overrides.Has(optionID) {
		return s.SetOverride(versionID, optionID, value, true)
	}
	opt, err := s.option(optionID)
	if err != nil {
		return 0, err
	}

	ov, err := v.Overrides.Replace(opt.ID, value)
	if err != nil {
		return 0, err
	}
	id, err := s.applyOverrides(v, ov, true)
	if err != nil {
		return 0, err
	}
	s.logger.Info("option modified", "option", opt.Name, "value", value, "version", id)
	return id, nil
}

func (s *Service) applyOverrides(v *model.CaseVersion, ov model.Overrides, createNewVersion bool) (int64, error) {
	if !createNewVersion {
		children, err := s.store.ListChildVersions(v.ID)
		if err != nil {
			return 0, fmt.Errorf("listing children of version %d: %w", v.ID, err)
		}
		if len(children) > 0 {
			return 0, fmt.Errorf("version %d is shared by %d child version(s): %w", v.ID, len(children), ErrConflict)
		}
		if err := s.store.UpdateVersionOverrides(v.ID, ov); err != nil {
			return 0, fmt.Errorf("updating version %d: %w", v.ID, err)
		}
		return v.ID, nil
	}

	owner, err := s.store.FindCaseByVersion(v.ID)
	if err != nil {
		return 0, fmt.Errorf("finding case of version %d: %w", v.ID, err)
	}
	if owner == nil {
		return 0, fmt.Errorf("version %d is not the current version of any case: %w", v.ID, ErrConflict)
	}

	child, err := s.store.CreateVersion(v.ID, ov, s.clock.Now())
	if err != nil {
		return 0, fmt.Errorf("creating version: %w", err)
	}
	if err := s.store.UpdateCaseVersion(owner.Name, child.ID); err != nil {
		return 0, fmt.Errorf("moving case %s to version %d: %w", owner.Name, child.ID, err)
	}
	return child.ID, nil
}

// DeleteCase removes a case after confirmation. The version chain is pruned
// only when nothing was branched from the current version.
func (s *Service) DeleteCase(name string, c Confirmer) error {
	cs, err := s.LookupCase(name)
	if err != nil {
		return err
	}
	if !c.Confirm(fmt.Sprintf("You are about to delete case %s. Proceed?", cs.Name)) {
		return ErrAborted
	}

	children, err := s.store.ListChildVersions(cs.CurrentVersionID)
	if err != nil {
		return fmt.Errorf("listing children of version %d: %w", cs.CurrentVersionID, err)
	}
	if err := s.store.DeleteCase(cs.Name); err != nil {
		return fmt.Errorf("deleting case %s: %w", cs.Name, err)
	}
	if len(children) == 0 {
		if err := s.PruneChain(cs.CurrentVersionID); err != nil {
			return err
		}
	}

	s.logger.Info("case deleted", "name", cs.Name, "version", cs.CurrentVersionID, "kept_chain", len(children) > 0)
	return nil
}

// PruneChain deletes a leaf version and then walks up its ancestry as long
// as canPruneParent holds and the prune policy allows.
func (s *Service) PruneChain(versionID int64) error {
	v, err := s.version(versionID)
	if err != nil {
		return err
	}
	children, err := s.store.ListChildVersions(v.ID)
	if err != nil {
		return fmt.Errorf("listing children of version %d: %w", v.ID, err)
	}
	if len(children) > 0 {
		return fmt.Errorf("version %d has child versions: %w", v.ID, ErrConflict)
	}
	if owner, err := s.store.FindCaseByVersion(v.ID); err != nil {
		return fmt.Errorf("finding case of version %d: %w", v.ID, err)
	} else if owner != nil {
		return fmt.Errorf("version %d is the current version of case %s: %w", v.ID, owner.Name, ErrConflict)
	}

	limit := s.settings.Prune.MaxAncestors
	for depth := 0; ; depth++ {
		parent, ok, err := s.canPruneParent(v)
		if err != nil {
			return err
		}
		if err := s.store.DeleteVersion(v.ID); err != nil {
			return fmt.Errorf("deleting version %d: %w", v.ID, err)
		}
		s.logger.Debug("version pruned", "version", v.ID)

		if !ok || (limit >= 0 && depth >= limit) {
			return nil
		}
		v = parent
	}
}

// canPruneParent reports whether v's parent becomes unreachable once v is
// gone: it exists, v has no siblings, and no case points at it.
func (s *Service) canPruneParent(v *model.CaseVersion) (*model.CaseVersion, bool, error) {
	if v.ParentID == 0 {
		return nil, false, nil
	}
	parent, err := s.store.FindVersion(v.ParentID)
	if err != nil {
		return nil, false, fmt.Errorf("finding version %d: %w", v.ParentID, err)
	}
	if parent == nil {
		return nil, false, nil
	}
	siblings, err := s.Siblings(v.ID)
	if err != nil {
		return nil, false, err
	}
	if len(siblings) > 0 {
		return nil, false, nil
	}
	owner, err := s.store.FindCaseByVersion(parent.ID)
	if err != nil {
		return nil, false, fmt.Errorf("finding case of version %d: %w", parent.ID, err)
	}
	return parent, owner == nil, nil
}

// Children returns the versions branched from versionID, ordered by id.
func (s *Service) Children(versionID int64) ([]*model.CaseVersion, error) {
	if _, err := s.version(versionID); err != nil {
		return nil, err
	}
	children, err := s.store.ListChildVersions(versionID)
	if err != nil {
		return nil, fmt.Errorf("listing children of version %d: %w", versionID, err)
	}
	return children, nil
}

// Siblings returns the other versions sharing versionID's parent.
// Root versions have no siblings.
func (s *Service) Siblings(versionID int64) ([]*model.CaseVersion, error) {
	v, err := s.version(versionID)
	if err != nil {
		return nil, err
	}
	if v.ParentID == 0 {
		return nil, nil
	}
	all, err := s.store.ListChildVersions(v.ParentID)
	if err != nil {
		return nil, fmt.Errorf("listing children of version %d: %w", v.ParentID, err)
	}
	var out []*model.CaseVersion
	for _, sib := range all {
		if sib.ID != v.ID {
			out = append(out, sib)
		}
	}
	return out, nil
}

// Parent returns the parent of versionID, or nil for a root version.
func (s *Service) Parent(versionID int64) (*model.CaseVersion, error) {
	v, err := s.version(versionID)
	if err != nil {
		return nil, err
	}
	if v.ParentID == 0 {
		return nil, nil
	}
	return s.store.FindVersion(v.ParentID)
}

// YoungestDescendant follows the first child of versionID down to a leaf.
func (s *Service) YoungestDescendant(versionID int64) (*model.CaseVersion, error) {
	v, err := s.version(versionID)
	if err != nil {
		return nil, err
	}
	for {
		children, err := s.store.ListChildVersions(v.ID)
		if err != nil {
			return nil, fmt.Errorf("listing children of version %d: %w", v.ID, err)
		}
		if len(children) == 0 {
			return v, nil
		}
		v = children[0]
	}
}

// History returns the chain from versionID up to its root, newest first.
func (s *Service) History(versionID int64) ([]*model.CaseVersion, error) {
	v, err := s.version(versionID)
	if err != nil {
		return nil, err
	}
	chain := []*model.CaseVersion{v}
	for v.ParentID != 0 {
		parent, err := s.store.FindVersion(v.ParentID)
		if err != nil {
			return nil, fmt.Errorf("finding version %d: %w", v.ParentID, err)
		}
		if parent == nil {
			break
		}
		chain = append(chain, parent)
		v = parent
	}
	return chain, nil
}

// Rename gives the case currently pointing at versionID a new name.
func (s *Service) Rename(versionID int64, newName string) error {
	newName = strings.TrimSpace(newName)
	if newName == "" {
		return fmt.Errorf("case name must not be empty: %w", ErrValidation)
	}
	owner, err := s.store.FindCaseByVersion(versionID)
	if err != nil {
		return fmt.Errorf("finding case of version %d: %w", versionID, err)
	}
	if owner == nil {
		return fmt.Errorf("case with version %d: %w", versionID, ErrNotFound)
	}

	existing, err := s.store.FindCaseByName(newName)
	if err != nil {
		return fmt.Errorf("checking for existing case: %w", err)
	}
	if existing != nil && !strings.EqualFold(existing.Name, owner.Name) {
		return fmt.Errorf("case %s already exists: %w", existing.Name, ErrConflict)
	}

	if err := s.store.RenameCase(owner.Name, newName); err != nil {
		return fmt.Errorf("renaming case: %w", err)
	}
	s.logger.Info("case renamed", "from", owner.Name, "to", newName)
	return nil
}

func (s *Service) checkNewCaseName(name string) error {
	if name == "" {
		return fmt.Errorf("case name must not be empty: %w", ErrValidation)
	}
	existing, err := s.store.FindCaseByName(name)
	if err != nil {
		return fmt.Errorf("checking for existing case: %w", err)
	}
	if existing != nil {
		return fmt.Errorf("case %s already exists: %w", existing.Name, ErrConflict)
	}
	return nil
}
