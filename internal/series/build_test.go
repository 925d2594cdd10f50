package series_test

import (
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"series-go/internal/model"
	"series-go/internal/series"
	"series-go/internal/testutil"
)

var automatic = series.BuildOptions{Mode: series.ModeAutomatic}

func materialize(t *testing.T, h *testutil.Harness, versionID int64, opts series.BuildOptions) *series.BuildResult {
	t.Helper()
	result, err := h.Service.Materialize(versionID, opts)
	if err != nil {
		t.Fatalf("Materialize() error = %v", err)
	}
	return result
}

func TestService_Materialize(t *testing.T) {
	t.Run("substitutes overrides", func(t *testing.T) {
		h, color := newColorHarness(t, series.Settings{})
		v1 := h.CreateCase(t, "alpha")
		v2 := h.SetOverride(t, v1, color.ID, "blue", true)

		result := materialize(t, h, v2, automatic)

		if got := h.ReadFile(t, "exp-alpha.txt"); got != "color=blue\n" {
			t.Errorf("artifact = %q, want %q", got, "color=blue\n")
		}
		if len(result.Warnings) != 0 {
			t.Errorf("Warnings = %v, want none", result.Warnings)
		}
		if result.CaseName != "alpha" || len(result.Artifacts) != 1 {
			t.Fatalf("result = %+v", result)
		}
		if a := result.Artifacts[0]; a.Path != "exp-alpha.txt" || a.Action != series.ActionBuilt {
			t.Errorf("artifact = %+v, want exp-alpha.txt built", a)
		}
		if got := h.ReadFile(t, ".build-exp-alpha.txt"); strings.TrimSpace(got) != itoa(v2) {
			t.Errorf("marker = %q, want %d", got, v2)
		}

		v := h.Version(t, v2)
		if !v.Built() || v.BuildCount != 1 {
			t.Errorf("build not recorded: built=%v count=%d", v.Built(), v.BuildCount)
		}
		if h.ReadFile(t, "template.txt") != "color=OPT_COLOR\n" {
			t.Error("template was modified")
		}
	})

	t.Run("warns about options missing from a file", func(t *testing.T) {
		h := testutil.NewHarness(t, series.Settings{})
		h.WriteFile(t, "template.txt", "no placeholders here\n")
		h.RegisterTemplate(t, "template.txt")
		h.CreateOption(t, "color", model.KindCase, "red", "template.txt")
		v1 := h.CreateCase(t, "alpha")

		result := materialize(t, h, v1, automatic)

		if len(result.Warnings) != 1 {
			t.Fatalf("Warnings = %v, want 1", result.Warnings)
		}
		w := result.Warnings[0]
		if w.File != "exp-alpha.txt" || len(w.Options) != 1 || w.Options[0] != "color" {
			t.Errorf("warning = %+v, want color in exp-alpha.txt", w)
		}
		if h.ReadFile(t, "exp-alpha.txt") != "no placeholders here\n" {
			t.Error("artifact changed without placeholders")
		}
	})

	t.Run("copies template directories", func(t *testing.T) {
		h := testutil.NewHarness(t, series.Settings{})
		h.WriteFile(t, "template/input.txt", "name=OPT__CASENAME series=OPT__SERIESNAME size=OPT_SIZE\n")
		h.WriteFile(t, "template/data/raw.dat", "OPT_SIZE")
		h.RegisterTemplate(t, "template")
		h.CreateOption(t, model.MetaCaseName, model.KindMeta, "", "input.txt")
		h.CreateOption(t, model.MetaSeriesName, model.KindMeta, "", "input.txt")
		h.CreateOption(t, "size", model.KindCase, "10", "input.txt")
		v1 := h.CreateCase(t, "alpha")

		materialize(t, h, v1, automatic)

		if got := h.ReadFile(t, "exp-alpha/input.txt"); got != "name=alpha series=exp size=10\n" {
			t.Errorf("input.txt = %q", got)
		}
		if got := h.ReadFile(t, "exp-alpha/data/raw.dat"); got != "OPT_SIZE" {
			t.Errorf("unassociated file rewritten: %q", got)
		}
		if got := h.ReadFile(t, "exp-alpha/.build"); strings.TrimSpace(got) != itoa(v1) {
			t.Errorf("directory marker = %q, want %d", got, v1)
		}
	})

	t.Run("keeps file permissions", func(t *testing.T) {
		h := testutil.NewHarness(t, series.Settings{})
		h.WriteFile(t, "template/run.sh", "echo OPT_COLOR\n")
		if err := os.Chmod(filepath.Join(h.Root, "template", "run.sh"), 0755); err != nil {
			t.Fatalf("Chmod() error = %v", err)
		}
		h.RegisterTemplate(t, "template")
		h.CreateOption(t, "color", model.KindCase, "red", "run.sh")
		v1 := h.CreateCase(t, "alpha")

		materialize(t, h, v1, automatic)

		info, err := os.Stat(filepath.Join(h.Root, "exp-alpha", "run.sh"))
		if err != nil {
			t.Fatalf("Stat() error = %v", err)
		}
		if info.Mode().Perm() != 0755 {
			t.Errorf("mode = %v, want 0755", info.Mode().Perm())
		}
	})

	t.Run("fails without templates", func(t *testing.T) {
		h := testutil.NewHarness(t, series.Settings{})
		v1 := h.CreateCase(t, "alpha")
		if _, err := h.Service.Materialize(v1, automatic); !errors.Is(err, series.ErrValidation) {
			t.Errorf("Materialize() error = %v, want ErrValidation", err)
		}
	})
}

func TestService_Materialize_Automatic(t *testing.T) {
	h, color := newColorHarness(t, series.Settings{})
	v1 := h.CreateCase(t, "alpha")
	materialize(t, h, v1, automatic)

	again := materialize(t, h, v1, automatic)
	if !again.UpToDate || again.Artifacts[0].Action != series.ActionUpToDate {
		t.Errorf("rebuild of current version = %+v, want up to date", again)
	}
	if v := h.Version(t, v1); v.BuildCount != 1 {
		t.Errorf("BuildCount = %d, want 1", v.BuildCount)
	}

	v2 := h.SetOverride(t, v1, color.ID, "blue", true)
	rebuilt := materialize(t, h, v2, automatic)
	if rebuilt.UpToDate || rebuilt.Artifacts[0].Action != series.ActionRebuilt {
		t.Errorf("rebuild of stale artifact = %+v, want rebuilt", rebuilt)
	}
	if got := h.ReadFile(t, "exp-alpha.txt"); got != "color=blue\n" {
		t.Errorf("artifact = %q, want color=blue", got)
	}
}

func TestService_Materialize_Interactive(t *testing.T) {
	setup := func(t *testing.T) (*testutil.Harness, int64) {
		t.Helper()
		h, color := newColorHarness(t, series.Settings{})
		v1 := h.CreateCase(t, "alpha")
		materialize(t, h, v1, automatic)
		v2 := h.SetOverride(t, v1, color.ID, "blue", true)
		return h, v2
	}

	t.Run("aborts when refused", func(t *testing.T) {
		h, v2 := setup(t)
		c := &testutil.RecordingConfirmer{Answer: false}

		_, err := h.Service.Materialize(v2, series.BuildOptions{Confirmer: c})
		if !errors.Is(err, series.ErrAborted) {
			t.Fatalf("Materialize() error = %v, want ErrAborted", err)
		}
		if len(c.Prompts) != 1 || !strings.Contains(c.Prompts[0], "exp-alpha.txt") {
			t.Errorf("prompts = %v", c.Prompts)
		}
		if got := h.ReadFile(t, "exp-alpha.txt"); got != "color=red\n" {
			t.Errorf("artifact changed after refusal: %q", got)
		}
	})

	t.Run("nil confirmer refuses", func(t *testing.T) {
		h, v2 := setup(t)
		_, err := h.Service.Materialize(v2, series.BuildOptions{})
		if !errors.Is(err, series.ErrAborted) {
			t.Errorf("Materialize() error = %v, want ErrAborted", err)
		}
	})

	t.Run("rebuilds when confirmed", func(t *testing.T) {
		h, v2 := setup(t)
		c := &testutil.RecordingConfirmer{Answer: true}
		materialize(t, h, v2, series.BuildOptions{Confirmer: c})
		if got := h.ReadFile(t, "exp-alpha.txt"); got != "color=blue\n" {
			t.Errorf("artifact = %q, want color=blue", got)
		}
	})

	t.Run("force skips the prompt", func(t *testing.T) {
		h, v2 := setup(t)
		c := &testutil.RecordingConfirmer{}
		materialize(t, h, v2, series.BuildOptions{Force: true, Confirmer: c})
		if len(c.Prompts) != 0 {
			t.Errorf("prompts = %v, want none", c.Prompts)
		}
	})

	t.Run("asks even when up to date", func(t *testing.T) {
		h, _ := newColorHarness(t, series.Settings{})
		v1 := h.CreateCase(t, "alpha")
		materialize(t, h, v1, automatic)
		c := &testutil.RecordingConfirmer{Answer: true}

		result := materialize(t, h, v1, series.BuildOptions{Confirmer: c})
		if len(c.Prompts) != 1 || result.Artifacts[0].Action != series.ActionRebuilt {
			t.Errorf("prompts = %d action = %s, want one prompt and a rebuild", len(c.Prompts), result.Artifacts[0].Action)
		}
	})
}

func TestService_Materialize_Unmarked(t *testing.T) {
	h, _ := newColorHarness(t, series.Settings{})
	v1 := h.CreateCase(t, "alpha")
	h.WriteFile(t, "exp-alpha.txt", "hand made")

	_, err := h.Service.Materialize(v1, series.BuildOptions{Mode: series.ModeAutomatic, Force: true})
	if !errors.Is(err, series.ErrUnmarkedArtifact) || !errors.Is(err, series.ErrConflict) {
		t.Fatalf("Materialize() error = %v, want ErrUnmarkedArtifact", err)
	}
	if h.ReadFile(t, "exp-alpha.txt") != "hand made" {
		t.Error("unmarked artifact overwritten")
	}

	h.WriteFile(t, ".build-exp-alpha.txt", "garbage")
	state, err := h.Service.CheckExisting("exp-alpha.txt")
	if err != nil {
		t.Fatalf("CheckExisting() error = %v", err)
	}
	if state.Kind != series.BuildUnmarked {
		t.Errorf("CheckExisting() = %v, want unmarked for invalid marker", state.Kind)
	}
}

func TestService_Materialize_InnerFileNamedLikeTemplate(t *testing.T) {
	h := testutil.NewHarness(t, series.Settings{})
	h.WriteFile(t, "case_template/template.cfg", "c=OPT_COLOR\n")
	h.RegisterTemplate(t, "case_template")
	h.CreateOption(t, "color", model.KindCase, "red", "template.cfg")
	v1 := h.CreateCase(t, "alpha")

	materialize(t, h, v1, automatic)

	if got := h.ReadFile(t, "case_exp-alpha/template.cfg"); got != "c=red\n" {
		t.Errorf("inner file = %q, want %q", got, "c=red\n")
	}
	if h.Exists("case_exp-alpha/exp-alpha.cfg") {
		t.Error("inner file was renamed")
	}

	result := materialize(t, h, v1, automatic)
	if !result.UpToDate {
		t.Errorf("second build = %+v, want up to date", result)
	}
	if got := h.ReadFile(t, "case_exp-alpha/template.cfg"); got != "c=red\n" {
		t.Errorf("inner file after second build = %q", got)
	}
}

func TestService_Materialize_FailedBuildLeavesNoMarker(t *testing.T) {
	h := testutil.NewHarness(t, series.Settings{})
	h.WriteFile(t, "template/in.txt", "c=OPT_COLOR\n")
	h.RegisterTemplate(t, "template")
	h.CreateOption(t, "color", model.KindCase, "red", "in.txt")
	v1 := h.CreateCase(t, "alpha")

	if err := os.Remove(filepath.Join(h.Root, "template", "in.txt")); err != nil {
		t.Fatalf("removing in.txt: %v", err)
	}
	if _, err := h.Service.Materialize(v1, automatic); err == nil {
		t.Fatal("Materialize() with a missing option file succeeded")
	}

	state, err := h.Service.CheckExisting("exp-alpha")
	if err != nil {
		t.Fatalf("CheckExisting() error = %v", err)
	}
	if state.Kind == series.BuildMarked {
		t.Fatalf("failed build left a marker for version %d", state.VersionID)
	}
	if v := h.Version(t, v1); v.Built() {
		t.Error("failed build was recorded")
	}

	h.WriteFile(t, "template/in.txt", "c=OPT_COLOR\n")
	result := materialize(t, h, v1, automatic)
	if result.UpToDate {
		t.Error("rebuild after failure reported up to date")
	}
	if got := h.ReadFile(t, "exp-alpha/in.txt"); got != "c=red\n" {
		t.Errorf("in.txt = %q, want %q", got, "c=red\n")
	}
	if got := h.ReadFile(t, "exp-alpha/.build"); strings.TrimSpace(got) != itoa(v1) {
		t.Errorf("marker = %q, want %d", got, v1)
	}
}

func TestService_CheckExisting(t *testing.T) {
	h, _ := newColorHarness(t, series.Settings{MarkerName: "made"})
	v1 := h.CreateCase(t, "alpha")

	state, err := h.Service.CheckExisting("exp-alpha.txt")
	if err != nil || state.Kind != series.BuildAbsent {
		t.Errorf("CheckExisting() = %v, %v, want absent", state, err)
	}

	materialize(t, h, v1, automatic)
	if !h.Exists(".made-exp-alpha.txt") {
		t.Error("custom marker name not used")
	}
	state, err = h.Service.CheckExisting("exp-alpha.txt")
	if err != nil || state.Kind != series.BuildMarked || state.VersionID != v1 {
		t.Errorf("CheckExisting() = %+v, %v, want marked by %d", state, err, v1)
	}
}

func TestService_RemoveArtifact(t *testing.T) {
	t.Run("removes file and marker", func(t *testing.T) {
		h, _ := newColorHarness(t, series.Settings{})
		v1 := h.CreateCase(t, "alpha")
		materialize(t, h, v1, automatic)

		if err := h.Service.RemoveArtifact("exp-alpha.txt"); err != nil {
			t.Fatalf("RemoveArtifact() error = %v", err)
		}
		if h.Exists("exp-alpha.txt") || h.Exists(".build-exp-alpha.txt") {
			t.Error("artifact or marker left behind")
		}
	})

	t.Run("tolerates a missing marker", func(t *testing.T) {
		h := testutil.NewHarness(t, series.Settings{})
		h.WriteFile(t, "exp-alpha/file.txt", "x")
		if err := h.Service.RemoveArtifact("exp-alpha"); err != nil {
			t.Fatalf("RemoveArtifact() error = %v", err)
		}
		if h.Exists("exp-alpha") {
			t.Error("directory left behind")
		}
	})

	t.Run("fails for a missing artifact", func(t *testing.T) {
		h := testutil.NewHarness(t, series.Settings{})
		if err := h.Service.RemoveArtifact("exp-alpha"); !errors.Is(err, series.ErrNotFound) {
			t.Errorf("RemoveArtifact() error = %v, want ErrNotFound", err)
		}
	})
}

func TestService_Status(t *testing.T) {
	h, color := newColorHarness(t, series.Settings{})
	h.WriteFile(t, "template-b.txt", "b")
	h.RegisterTemplate(t, "template-b.txt")
	v1 := h.CreateCase(t, "alpha")

	statuses, err := h.Service.Status(v1)
	if err != nil {
		t.Fatalf("Status() error = %v", err)
	}
	for _, st := range statuses {
		if st.State != series.StatusAbsent {
			t.Errorf("%s = %s, want absent", st.Path, st.State)
		}
	}

	materialize(t, h, v1, automatic)
	v2 := h.SetOverride(t, v1, color.ID, "blue", true)
	if err := os.Remove(filepath.Join(h.Root, ".build-exp-alpha-b.txt")); err != nil {
		t.Fatalf("removing marker: %v", err)
	}

	statuses, err = h.Service.Status(v2)
	if err != nil {
		t.Fatalf("Status() error = %v", err)
	}
	want := map[string]string{
		"exp-alpha.txt":   series.StatusStale,
		"exp-alpha-b.txt": series.StatusUnmarked,
	}
	for _, st := range statuses {
		if st.State != want[st.Path] {
			t.Errorf("%s = %s, want %s", st.Path, st.State, want[st.Path])
		}
	}

	statuses, err = h.Service.Status(v1)
	if err != nil {
		t.Fatalf("Status(v1) error = %v", err)
	}
	if statuses[0].State != series.StatusUpToDate {
		t.Errorf("Status(v1) = %s, want up to date", statuses[0].State)
	}
}

func TestService_Clean(t *testing.T) {
	t.Run("removes built artifacts", func(t *testing.T) {
		h, _ := newColorHarness(t, series.Settings{})
		v1 := h.CreateCase(t, "alpha")
		materialize(t, h, v1, automatic)

		c := &testutil.RecordingConfirmer{Answer: true}
		removed, err := h.Service.Clean(v1, c)
		if err != nil {
			t.Fatalf("Clean() error = %v", err)
		}
		if len(removed) != 1 || removed[0] != "exp-alpha.txt" || h.Exists("exp-alpha.txt") {
			t.Errorf("Clean() = %v", removed)
		}
		if len(c.Prompts) != 1 {
			t.Errorf("prompts = %d, want 1", len(c.Prompts))
		}

		removed, err = h.Service.Clean(v1, c)
		if err != nil || len(removed) != 0 || len(c.Prompts) != 1 {
			t.Errorf("Clean() of clean case = %v, %v, prompts %d", removed, err, len(c.Prompts))
		}
	})

	t.Run("leaves unmarked artifacts", func(t *testing.T) {
		h, _ := newColorHarness(t, series.Settings{})
		v1 := h.CreateCase(t, "alpha")
		h.WriteFile(t, "exp-alpha.txt", "mine")

		if _, err := h.Service.Clean(v1, series.Force); !errors.Is(err, series.ErrUnmarkedArtifact) {
			t.Errorf("Clean() error = %v, want ErrUnmarkedArtifact", err)
		}
		if !h.Exists("exp-alpha.txt") {
			t.Error("unmarked artifact removed")
		}
	})
}

func TestService_Run(t *testing.T) {
	h := testutil.NewHarness(t, series.Settings{})
	h.WriteFile(t, "template/run.sh", "echo OPT_COLOR\n")
	h.RegisterTemplate(t, "template")
	h.CreateOption(t, "color", model.KindCase, "red", "run.sh")
	v1 := h.CreateCase(t, "alpha")

	if _, err := h.Service.Run(v1); !errors.Is(err, series.ErrValidation) {
		t.Fatalf("Run() without run files error = %v, want ErrValidation", err)
	}

	if err := h.Service.AddFileToOption(model.SeriesRunFiles, "run.sh"); err != nil {
		t.Fatalf("AddFileToOption() error = %v", err)
	}
	result, err := h.Service.Run(v1)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if result.CaseName != "alpha" {
		t.Errorf("CaseName = %q, want alpha", result.CaseName)
	}
	if len(h.Runner.Runs) != 1 {
		t.Fatalf("runs = %d, want 1", len(h.Runner.Runs))
	}
	run := h.Runner.Runs[0]
	if run.Dir != filepath.Join(h.Root, "exp-alpha") || run.Name != "run.sh" {
		t.Errorf("run = %+v", run)
	}
	if got := h.ReadFile(t, "exp-alpha/run.sh"); got != "echo red\n" {
		t.Errorf("run file = %q, want echo red", got)
	}

	h.Runner.Err = errors.New("exit status 1")
	if _, err := h.Service.Run(v1); err == nil {
		t.Error("Run() expected error from runner")
	}
	if len(h.Runner.Runs) != 2 {
		t.Errorf("up-to-date case not run again: runs = %d", len(h.Runner.Runs))
	}
}

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}
