package output

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"series-go/internal/app"
	"series-go/internal/model"
	"series-go/internal/series"
)

const timeLayout = time.DateTime

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format(timeLayout)
}

func formatID(id int64) string {
	if id == 0 {
		return "-"
	}
	return strconv.FormatInt(id, 10)
}

// RenderOptions renders options with their kind, default and files.
func RenderOptions(entries []app.OptionEntry) string {
	t := NewTable("NAME", "KIND", "DEFAULT", "FILES")
	for _, e := range entries {
		def := e.Option.Default
		if e.Option.Kind == model.KindMeta {
			def = StyleDim.Render("computed")
		}
		t.Row(StyleNoun.Render(e.Option.Name), e.Option.Kind.String(), def, strings.Join(e.Files, ", "))
	}
	return t.String()
}

// RenderFiles renders registered files and the options that use them.
func RenderFiles(entries []app.FileEntry) string {
	t := NewTable("ID", "NAME", "TYPE", "TEMPLATE", "OPTIONS")
	for _, e := range entries {
		kind := "file"
		switch {
		case e.File.IsTemplate() && e.File.IsTemplateDirectory:
			kind = "template dir"
		case e.File.IsTemplate():
			kind = "template"
		}
		tmpl := e.Template
		if tmpl == "" {
			tmpl = "-"
		}
		t.Row(strconv.FormatInt(e.File.ID, 10), StyleNoun.Render(e.File.Name), kind, tmpl, strings.Join(e.Options, ", "))
	}
	return t.String()
}

// RenderCases renders cases with their current version.
func RenderCases(entries []app.CaseEntry) string {
	t := NewTable("CASE", "VERSION", "PARENT", "OVERRIDES", "LAST BUILD", "BUILDS")
	for _, e := range entries {
		v := e.Version
		t.Row(
			StyleNoun.Render(e.Case.Name),
			strconv.FormatInt(v.ID, 10),
			formatID(v.ParentID),
			strconv.Itoa(v.Overrides.Len()),
			formatTime(v.LastBuildAt),
			strconv.FormatInt(v.BuildCount, 10),
		)
	}
	return t.String()
}

// RenderResolved renders the resolved options of a case version.
func RenderResolved(resolved []series.ResolvedOption) string {
	t := NewTable("OPTION", "VALUE", "SOURCE")
	for _, r := range resolved {
		source := "default"
		switch {
		case r.Overridden:
			source = "case"
		case r.Option.Kind == model.KindMeta:
			source = "computed"
		}
		t.Row(StyleNoun.Render(r.Option.Name), r.Value, source)
	}
	return t.String()
}

// RenderVersions renders a version chain, newest first. names maps option
// ids to names for the override column.
func RenderVersions(versions []*model.CaseVersion, names map[int64]string) string {
	t := NewTable("VERSION", "PARENT", "CREATED", "LAST BUILD", "BUILDS", "OVERRIDES")
	for _, v := range versions {
		var ov []string
		for _, o := range v.Overrides.Entries() {
			name, ok := names[o.OptionID]
			if !ok {
				name = fmt.Sprintf("#%d", o.OptionID)
			}
			ov = append(ov, name+"="+o.Value)
		}
		t.Row(
			strconv.FormatInt(v.ID, 10),
			formatID(v.ParentID),
			formatTime(v.CreatedAt),
			formatTime(v.LastBuildAt),
			strconv.FormatInt(v.BuildCount, 10),
			strings.Join(ov, " "),
		)
	}
	return t.String()
}

// RenderStatus renders the artifact states of a case.
func RenderStatus(statuses []series.ArtifactStatus) string {
	t := NewTable("TEMPLATE", "ARTIFACT", "STATE", "BUILT FROM")
	for _, s := range statuses {
		t.Row(s.Template, StyleNoun.Render(s.Path), StateStyle(s.State).Render(s.State), formatID(s.VersionID))
	}
	return t.String()
}

// RenderBuild renders the outcome of a build with its warnings.
func RenderBuild(result *series.BuildResult) string {
	var b strings.Builder
	for _, a := range result.Artifacts {
		fmt.Fprintf(&b, "%s %s\n", StateStyle(string(a.Action)).Render(fmt.Sprintf("%-10s", a.Action)), StyleNoun.Render(a.Path))
	}
	for _, w := range result.Warnings {
		fmt.Fprintf(&b, "%s %s\n", StyleWarning.Render("warning:"), w.String())
	}
	if result.UpToDate {
		fmt.Fprintf(&b, "Case %s already up to date (version %d)\n", result.CaseName, result.VersionID)
	}
	return b.String()
}

// RenderOperations renders the operation history.
func RenderOperations(ops []*model.Operation) string {
	t := NewTable("ID", "OPERATION", "PARAMETERS", "STARTED", "FINISHED", "STATUS")
	for _, op := range ops {
		t.Row(
			strconv.FormatInt(op.ID, 10),
			op.Operation,
			op.Parameters,
			formatTime(op.StartedAt),
			formatTime(op.FinishedAt),
			op.Status,
		)
	}
	return t.String()
}
