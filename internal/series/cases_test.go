package series_test

import (
	"errors"
	"testing"

	"series-go/internal/model"
	"series-go/internal/series"
	"series-go/internal/testutil"
)

// newColorHarness registers template.txt and a case option color="red" on it.
func newColorHarness(t *testing.T, settings series.Settings) (*testutil.Harness, *model.Option) {
	t.Helper()
	h := testutil.NewHarness(t, settings)
	h.WriteFile(t, "template.txt", "color=OPT_COLOR\n")
	if _, err := h.Service.RegisterTemplate("template.txt"); err != nil {
		t.Fatalf("RegisterTemplate() error = %v", err)
	}
	color, err := h.Service.CreateOption("color", model.KindCase, "red", "template.txt")
	if err != nil {
		t.Fatalf("CreateOption() error = %v", err)
	}
	return h, color
}

func currentVersion(t *testing.T, svc *series.Service, name string) int64 {
	t.Helper()
	c, err := svc.LookupCase(name)
	if err != nil {
		t.Fatalf("LookupCase(%s) error = %v", name, err)
	}
	return c.CurrentVersionID
}

func resolve(t *testing.T, svc *series.Service, optionID, versionID int64) string {
	t.Helper()
	v, err := svc.Resolve(optionID, versionID)
	if err != nil {
		t.Fatalf("Resolve(%d, %d) error = %v", optionID, versionID, err)
	}
	return v
}

func TestService_CreateCase(t *testing.T) {
	t.Run("resolves the default of a fresh case", func(t *testing.T) {
		h, color := newColorHarness(t, series.Settings{})

		vid, err := h.Service.CreateCase("alpha")
		if err != nil {
			t.Fatalf("CreateCase() error = %v", err)
		}
		if got := resolve(t, h.Service, color.ID, vid); got != "red" {
			t.Errorf("Resolve() = %q, want red", got)
		}

		v, err := h.Service.Version(vid)
		if err != nil {
			t.Fatalf("Version() error = %v", err)
		}
		if v.ParentID != 0 || v.Overrides.Len() != 0 {
			t.Errorf("new version parent=%d overrides=%d, want root with no overrides", v.ParentID, v.Overrides.Len())
		}
	})

	t.Run("rejects duplicate names case-insensitively", func(t *testing.T) {
		h := testutil.NewHarness(t, series.Settings{})
		if _, err := h.Service.CreateCase("alpha"); err != nil {
			t.Fatalf("CreateCase() error = %v", err)
		}
		_, err := h.Service.CreateCase("ALPHA")
		if !errors.Is(err, series.ErrConflict) {
			t.Errorf("CreateCase() error = %v, want ErrConflict", err)
		}
	})

	t.Run("rejects empty names", func(t *testing.T) {
		h := testutil.NewHarness(t, series.Settings{})
		_, err := h.Service.CreateCase("  ")
		if !errors.Is(err, series.ErrValidation) {
			t.Errorf("CreateCase() error = %v, want ErrValidation", err)
		}
	})
}

func TestService_SetOverride(t *testing.T) {
	t.Run("copies on write", func(t *testing.T) {
		h, color := newColorHarness(t, series.Settings{})
		v1 := h.CreateCase(t, "alpha")

		v2, err := h.Service.SetOverride(v1, color.ID, "blue", true)
		if err != nil {
			t.Fatalf("SetOverride() error = %v", err)
		}
		if v2 == v1 {
			t.Fatal("SetOverride() did not create a new version")
		}
		if got := currentVersion(t, h.Service, "alpha"); got != v2 {
			t.Errorf("case points at %d, want %d", got, v2)
		}
		if got := resolve(t, h.Service, color.ID, v2); got != "blue" {
			t.Errorf("Resolve(v2) = %q, want blue", got)
		}
		if got := resolve(t, h.Service, color.ID, v1); got != "red" {
			t.Errorf("Resolve(v1) = %q, want red", got)
		}

		orig := h.Version(t, v1)
		if orig.Overrides.Len() != 0 {
			t.Errorf("original version modified: %v", orig.Overrides.Entries())
		}
		child := h.Version(t, v2)
		if child.ParentID != v1 {
			t.Errorf("child.ParentID = %d, want %d", child.ParentID, v1)
		}
	})

	t.Run("fails when already overridden", func(t *testing.T) {
		h, color := newColorHarness(t, series.Settings{})
		v1 := h.CreateCase(t, "alpha")
		v2 := h.SetOverride(t, v1, color.ID, "blue", true)

		_, err := h.Service.SetOverride(v2, color.ID, "green", true)
		if !errors.Is(err, series.ErrConflict) {
			t.Errorf("SetOverride() error = %v, want ErrConflict", err)
		}
	})

	t.Run("rejects series options", func(t *testing.T) {
		h := testutil.NewHarness(t, series.Settings{})
		v1 := h.CreateCase(t, "alpha")
		opt := h.LookupOption(t, model.SeriesName)

		_, err := h.Service.SetOverride(v1, opt.ID, "x", true)
		if !errors.Is(err, series.ErrValidation) {
			t.Errorf("SetOverride() error = %v, want ErrValidation", err)
		}
	})

	t.Run("in place only without children", func(t *testing.T) {
		h, color := newColorHarness(t, series.Settings{})
		v1 := h.CreateCase(t, "alpha")

		got, err := h.Service.SetOverride(v1, color.ID, "blue", false)
		if err != nil {
			t.Fatalf("SetOverride() error = %v", err)
		}
		if got != v1 {
			t.Errorf("SetOverride() = %d, want in-place %d", got, v1)
		}

		if _, err := h.Service.BranchCase("beta", "alpha"); err != nil {
			t.Fatalf("BranchCase() error = %v", err)
		}
		_, err = h.Service.UnsetOverride(v1, color.ID, false)
		if !errors.Is(err, series.ErrConflict) {
			t.Errorf("UnsetOverride() on shared version error = %v, want ErrConflict", err)
		}
	})

	t.Run("fails for unknown version", func(t *testing.T) {
		h, color := newColorHarness(t, series.Settings{})
		_, err := h.Service.SetOverride(999, color.ID, "blue", true)
		if !errors.Is(err, series.ErrNotFound) {
			t.Errorf("SetOverride() error = %v, want ErrNotFound", err)
		}
	})
}

func TestService_UnsetAndModifyOverride(t *testing.T) {
	h, color := newColorHarness(t, series.Settings{})
	v1 := h.CreateCase(t, "alpha")

	same, err := h.Service.UnsetOverride(v1, color.ID, true)
	if err != nil {
		t.Fatalf("UnsetOverride() error = %v", err)
	}
	if same != v1 {
		t.Errorf("UnsetOverride() of absent override = %d, want %d", same, v1)
	}

	v2, err := h.Service.ModifyOverride(v1, color.ID, "blue")
	if err != nil {
		t.Fatalf("ModifyOverride() error = %v", err)
	}
	if got := resolve(t, h.Service, color.ID, v2); got != "blue" {
		t.Errorf("Resolve(v2) = %q, want blue", got)
	}

	v3, err := h.Service.ModifyOverride(v2, color.ID, "green")
	if err != nil {
		t.Fatalf("ModifyOverride() error = %v", err)
	}
	if got := resolve(t, h.Service, color.ID, v3); got != "green" {
		t.Errorf("Resolve(v3) = %q, want green", got)
	}
	if got := resolve(t, h.Service, color.ID, v2); got != "blue" {
		t.Errorf("Resolve(v2) after modify = %q, want blue", got)
	}

	v4, err := h.Service.UnsetOverride(v3, color.ID, true)
	if err != nil {
		t.Fatalf("UnsetOverride() error = %v", err)
	}
	if got := resolve(t, h.Service, color.ID, v4); got != "red" {
		t.Errorf("Resolve(v4) = %q, want red", got)
	}

	history, err := h.Service.History(v4)
	if err != nil {
		t.Fatalf("History() error = %v", err)
	}
	want := []int64{v4, v3, v2, v1}
	if len(history) != len(want) {
		t.Fatalf("History() len = %d, want %d", len(history), len(want))
	}
	for i, v := range history {
		if v.ID != want[i] {
			t.Errorf("History()[%d] = %d, want %d", i, v.ID, want[i])
		}
	}
}

func TestService_BranchCase(t *testing.T) {
	h, color := newColorHarness(t, series.Settings{})
	size, err := h.Service.CreateOption("size", model.KindCase, "10", "template.txt")
	if err != nil {
		t.Fatalf("CreateOption() error = %v", err)
	}
	caseName, err := h.Service.CreateOption(model.MetaCaseName, model.KindMeta, "", "template.txt")
	if err != nil {
		t.Fatalf("CreateOption() error = %v", err)
	}

	v1 := h.CreateCase(t, "alpha")
	v2 := h.SetOverride(t, v1, color.ID, "blue", true)

	b1, err := h.Service.BranchCase("beta", "alpha")
	if err != nil {
		t.Fatalf("BranchCase() error = %v", err)
	}
	branch := h.Version(t, b1)
	if branch.ParentID != v2 {
		t.Errorf("branch.ParentID = %d, want %d", branch.ParentID, v2)
	}

	for _, opt := range []*model.Option{color, size} {
		if a, b := resolve(t, h.Service, opt.ID, v2), resolve(t, h.Service, opt.ID, b1); a != b {
			t.Errorf("Resolve(%s): alpha=%q beta=%q, want equal", opt.Name, a, b)
		}
	}
	if got := resolve(t, h.Service, caseName.ID, b1); got != "beta" {
		t.Errorf("Resolve(_caseName, beta) = %q, want beta", got)
	}

	if _, err := h.Service.BranchCase("gamma", "missing"); !errors.Is(err, series.ErrNotFound) {
		t.Errorf("BranchCase() from unknown case error = %v, want ErrNotFound", err)
	}
}

func TestService_Resolve(t *testing.T) {
	h, color := newColorHarness(t, series.Settings{})
	caseName := h.CreateOption(t, model.MetaCaseName, model.KindMeta, "ignored", "template.txt")
	seriesName := h.CreateOption(t, model.MetaSeriesName, model.KindMeta, "", "template.txt")

	if caseName.Default != "" {
		t.Errorf("meta option default = %q, want empty", caseName.Default)
	}

	v1 := h.CreateCase(t, "alpha")
	v2 := h.SetOverride(t, v1, caseName.ID, "pinned", true)

	tests := []struct {
		name    string
		option  int64
		version int64
		want    string
	}{
		{name: "default", option: color.ID, version: v1, want: "red"},
		{name: "meta case name of old version", option: caseName.ID, version: v1, want: "alpha"},
		{name: "meta override wins", option: caseName.ID, version: v2, want: "pinned"},
		{name: "meta series name", option: seriesName.ID, version: v1, want: "exp"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := resolve(t, h.Service, tt.option, tt.version); got != tt.want {
				t.Errorf("Resolve() = %q, want %q", got, tt.want)
			}
		})
	}

	all, err := h.Service.ResolveAll(v2)
	if err != nil {
		t.Fatalf("ResolveAll() error = %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("ResolveAll() len = %d, want 3", len(all))
	}
	for _, r := range all {
		if r.Option.ID == caseName.ID && !r.Overridden {
			t.Error("ResolveAll() did not mark _caseName as overridden")
		}
		if r.Option.ID == color.ID && r.Overridden {
			t.Error("ResolveAll() marked color as overridden")
		}
	}
}

func TestService_DeleteCase(t *testing.T) {
	t.Run("prunes an unshared version", func(t *testing.T) {
		h, _ := newColorHarness(t, series.Settings{})
		v1 := h.CreateCase(t, "alpha")

		if err := h.Service.DeleteCase("alpha", series.Force); err != nil {
			t.Fatalf("DeleteCase() error = %v", err)
		}
		if _, err := h.Service.LookupCase("alpha"); !errors.Is(err, series.ErrNotFound) {
			t.Errorf("LookupCase() error = %v, want ErrNotFound", err)
		}
		if _, err := h.Service.Version(v1); !errors.Is(err, series.ErrNotFound) {
			t.Errorf("Version() error = %v, want ErrNotFound", err)
		}
	})

	t.Run("keeps the chain of a branched version", func(t *testing.T) {
		h, color := newColorHarness(t, series.Settings{})
		v1 := h.CreateCase(t, "alpha")
		v2 := h.SetOverride(t, v1, color.ID, "blue", true)
		b1 := h.BranchCase(t, "beta", "alpha")

		if err := h.Service.DeleteCase("alpha", series.Force); err != nil {
			t.Fatalf("DeleteCase() error = %v", err)
		}
		if _, err := h.Service.LookupCase("alpha"); !errors.Is(err, series.ErrNotFound) {
			t.Errorf("LookupCase() error = %v, want ErrNotFound", err)
		}

		history, err := h.Service.History(b1)
		if err != nil {
			t.Fatalf("History() error = %v", err)
		}
		if len(history) != 3 || history[1].ID != v2 || history[2].ID != v1 {
			t.Errorf("History(beta) lost shared ancestry: %d versions", len(history))
		}
		if got := resolve(t, h.Service, color.ID, v2); got != "blue" {
			t.Errorf("Resolve(v2) = %q, want blue", got)
		}
	})

	t.Run("aborts without confirmation", func(t *testing.T) {
		h := testutil.NewHarness(t, series.Settings{})
		h.CreateCase(t, "alpha")
		c := &testutil.RecordingConfirmer{Answer: false}

		err := h.Service.DeleteCase("alpha", c)
		if !errors.Is(err, series.ErrAborted) {
			t.Errorf("DeleteCase() error = %v, want ErrAborted", err)
		}
		if len(c.Prompts) != 1 {
			t.Errorf("prompts = %d, want 1", len(c.Prompts))
		}
		if _, err := h.Service.LookupCase("alpha"); err != nil {
			t.Errorf("case deleted despite refusal: %v", err)
		}
	})
}

func TestService_PruneChain(t *testing.T) {
	// builds alpha: v1 -> v2 -> v3 and returns the ids.
	build := func(t *testing.T, prune series.PrunePolicy) (*testutil.Harness, []int64) {
		t.Helper()
		h, color := newColorHarness(t, series.Settings{Prune: prune})
		size := h.CreateOption(t, "size", model.KindCase, "1", "template.txt")
		v1 := h.CreateCase(t, "alpha")
		v2 := h.SetOverride(t, v1, color.ID, "blue", true)
		v3 := h.SetOverride(t, v2, size.ID, "2", true)
		return h, []int64{v1, v2, v3}
	}
	exists := func(h *testutil.Harness, id int64) bool {
		_, err := h.Service.Version(id)
		return err == nil
	}

	tests := []struct {
		name string
		max  int
		want []bool
	}{
		{name: "default removes only the version", max: 0, want: []bool{true, true, false}},
		{name: "one ancestor", max: 1, want: []bool{true, false, false}},
		{name: "unlimited", max: -1, want: []bool{false, false, false}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, ids := build(t, series.PrunePolicy{MaxAncestors: tt.max})
			if err := h.Service.DeleteCase("alpha", series.Force); err != nil {
				t.Fatalf("DeleteCase() error = %v", err)
			}
			for i, id := range ids {
				if got := exists(h, id); got != tt.want[i] {
					t.Errorf("version %d exists = %v, want %v", id, got, tt.want[i])
				}
			}
		})
	}

	t.Run("never removes a shared ancestor", func(t *testing.T) {
		h, color := newColorHarness(t, series.Settings{Prune: series.PrunePolicy{MaxAncestors: -1}})
		v1 := h.CreateCase(t, "alpha")
		h.BranchCase(t, "beta", "alpha")
		v2 := h.SetOverride(t, v1, color.ID, "blue", true)

		if err := h.Service.DeleteCase("alpha", series.Force); err != nil {
			t.Fatalf("DeleteCase() error = %v", err)
		}
		if exists(h, v2) {
			t.Errorf("version %d not pruned", v2)
		}
		if !exists(h, v1) {
			t.Errorf("shared ancestor %d was pruned", v1)
		}
	})

	t.Run("stops at a version owned by a case", func(t *testing.T) {
		h, color := newColorHarness(t, series.Settings{Prune: series.PrunePolicy{MaxAncestors: -1}})
		v1 := h.CreateCase(t, "alpha")
		b1 := h.BranchCase(t, "beta", "alpha")
		b2 := h.SetOverride(t, b1, color.ID, "blue", true)

		if err := h.Service.DeleteCase("beta", series.Force); err != nil {
			t.Fatalf("DeleteCase() error = %v", err)
		}
		if exists(h, b2) || exists(h, b1) {
			t.Error("beta's chain not pruned")
		}
		if !exists(h, v1) {
			t.Error("alpha's current version was pruned")
		}
	})

	t.Run("refuses live versions", func(t *testing.T) {
		h, ids := build(t, series.PrunePolicy{})
		if err := h.Service.PruneChain(ids[2]); !errors.Is(err, series.ErrConflict) {
			t.Errorf("PruneChain(current) error = %v, want ErrConflict", err)
		}
		if err := h.Service.PruneChain(ids[1]); !errors.Is(err, series.ErrConflict) {
			t.Errorf("PruneChain(parent) error = %v, want ErrConflict", err)
		}
	})
}

func TestService_Traversal(t *testing.T) {
	h, color := newColorHarness(t, series.Settings{})
	v1 := h.CreateCase(t, "alpha")
	b1 := h.BranchCase(t, "beta", "alpha")
	c1 := h.BranchCase(t, "gamma", "alpha")
	b2 := h.SetOverride(t, b1, color.ID, "blue", true)

	children, err := h.Service.Children(v1)
	if err != nil {
		t.Fatalf("Children() error = %v", err)
	}
	if len(children) != 2 || children[0].ID != b1 || children[1].ID != c1 {
		t.Errorf("Children() = %v, want [%d %d]", children, b1, c1)
	}

	siblings, err := h.Service.Siblings(b1)
	if err != nil {
		t.Fatalf("Siblings() error = %v", err)
	}
	if len(siblings) != 1 || siblings[0].ID != c1 {
		t.Errorf("Siblings() = %v, want [%d]", siblings, c1)
	}
	if roots, err := h.Service.Siblings(v1); err != nil || len(roots) != 0 {
		t.Errorf("Siblings(root) = %v, %v, want none", roots, err)
	}

	parent, err := h.Service.Parent(b2)
	if err != nil || parent == nil || parent.ID != b1 {
		t.Errorf("Parent() = %v, %v, want %d", parent, err, b1)
	}
	if root, err := h.Service.Parent(v1); err != nil || root != nil {
		t.Errorf("Parent(root) = %v, %v, want nil", root, err)
	}

	young, err := h.Service.YoungestDescendant(v1)
	if err != nil {
		t.Fatalf("YoungestDescendant() error = %v", err)
	}
	if young.ID != b2 {
		t.Errorf("YoungestDescendant() = %d, want %d", young.ID, b2)
	}
}

func TestService_Rename(t *testing.T) {
	h := testutil.NewHarness(t, series.Settings{})
	v1 := h.CreateCase(t, "alpha")
	h.CreateCase(t, "beta")

	if err := h.Service.Rename(v1, "beta"); !errors.Is(err, series.ErrConflict) {
		t.Errorf("Rename() to existing name error = %v, want ErrConflict", err)
	}
	if err := h.Service.Rename(v1, "Alpha"); err != nil {
		t.Errorf("Rename() changing case only error = %v", err)
	}
	if err := h.Service.Rename(v1, "delta"); err != nil {
		t.Fatalf("Rename() error = %v", err)
	}
	if got := currentVersion(t, h.Service, "delta"); got != v1 {
		t.Errorf("renamed case points at %d, want %d", got, v1)
	}
	if err := h.Service.Rename(999, "omega"); !errors.Is(err, series.ErrNotFound) {
		t.Errorf("Rename() of unowned version error = %v, want ErrNotFound", err)
	}
}
