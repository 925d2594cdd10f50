package model

import (
	"fmt"
	"strings"
	"time"
)

// OptionKind classifies an option. The set of kinds is closed.
type OptionKind int

const (
	// KindCase options carry a literal default and may be overridden per case version.
	KindCase OptionKind = iota + 1
	// KindMeta options are computed at resolution time (e.g. the current case name).
	KindMeta
	// KindSeries options describe the whole series rather than a single case.
	KindSeries
)

// String returns the persisted name of the kind.
func (k OptionKind) String() string {
	switch k {
	case KindCase:
		return "case"
	case KindMeta:
		return "meta"
	case KindSeries:
		return "series"
	default:
		return fmt.Sprintf("OptionKind(%d)", int(k))
	}
}

// Valid reports whether k is one of the defined kinds.
func (k OptionKind) Valid() bool {
	switch k {
	case KindCase, KindMeta, KindSeries:
		return true
	default:
		return false
	}
}

// ParseOptionKind converts a persisted or user-supplied kind name.
func ParseOptionKind(s string) (OptionKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "case":
		return KindCase, nil
	case "meta":
		return KindMeta, nil
	case "series":
		return KindSeries, nil
	default:
		return 0, fmt.Errorf("unknown option kind %q", s)
	}
}

// Meta option names.
const (
	MetaCaseName   = "_caseName"
	MetaSeriesName = "_seriesName"
)

// Series option names.
const (
	SeriesName           = "seriesName"
	SeriesTemplateString = "templateString"
	SeriesTemplateFiles  = "templateFiles"
	SeriesRunFiles       = "runFiles"
)

// MetaOptionNames lists the computed options that may be defined.
var MetaOptionNames = []string{MetaCaseName, MetaSeriesName}

// SeriesOptionNames lists the series-wide options that may be defined.
var SeriesOptionNames = []string{SeriesRunFiles, SeriesName, SeriesTemplateFiles, SeriesTemplateString}

// Option is a named, typed configurable parameter.
type Option struct {
	ID      int64
	Name    string // Unique, compared case-insensitively
	Kind    OptionKind
	Default string  // Unused for KindMeta
	FileIDs []int64 // Ordered set of files the option applies to
}

// HasFile reports whether the option applies to the given file.
func (o *Option) HasFile(fileID int64) bool {
	for _, id := range o.FileIDs {
		if id == fileID {
			return true
		}
	}
	return false
}

// File is a path known to the series, relative to the series root.
type File struct {
	ID                  int64
	Name                string // Relative path; for non-template files relative to the template directory
	IsTemplateDirectory bool
	TemplateID          int64 // 0 if the file is itself a template root
}

// IsTemplate reports whether the file is a template root (file or directory).
func (f *File) IsTemplate() bool {
	return f.TemplateID == 0
}

// Case is a named pointer to its current version.
type Case struct {
	Name             string
	CurrentVersionID int64
}

// CaseVersion is an immutable snapshot of a case's overrides.
type CaseVersion struct {
	ID          int64
	ParentID    int64 // 0 for roots
	CreatedAt   time.Time
	LastBuildAt time.Time // Zero if never built
	BuildCount  int64
	Overrides   Overrides
}

// Built reports whether the version was ever materialized.
func (v *CaseVersion) Built() bool {
	return !v.LastBuildAt.IsZero()
}

// Operation is an audit record of a mutating CLI invocation.
type Operation struct {
	ID           int64
	InvocationID string
	Operation    string
	Parameters   string
	StartedAt    time.Time
	FinishedAt   time.Time // Zero while running
	Status       string
}
