package series

import (
	"sort"
	"strings"

	"series-go/internal/model"
)

// PlaceholderPrefix starts every placeholder token in a template.
const PlaceholderPrefix = "OPT_"

// PlaceholderFor returns the token that stands for the named option.
func PlaceholderFor(name string) string {
	return PlaceholderPrefix + strings.ToUpper(name)
}

// Placeholder binds an option name to the value that replaces its token.
type Placeholder struct {
	Name  string
	Value string
}

// Substitute replaces every placeholder token in text with its value and
// returns the names of the placeholders found. Options are applied in
// descending order of name, so a token is never consumed by a shorter one
// that is its prefix.
func Substitute(text string, placeholders []Placeholder) (string, []string) {
	names := make([]string, len(placeholders))
	values := make(map[string]string, len(placeholders))
	for i, p := range placeholders {
		names[i] = p.Name
		values[p.Name] = p.Value
	}
	out, applied, _ := substitute(text, names, func(name string) (string, error) {
		return values[name], nil
	})
	return out, applied
}

// ApplyToString substitutes the placeholders of candidates in text with
// their values for versionID. Only options whose token occurs are resolved.
func (s *Service) ApplyToString(versionID int64, candidates []*model.Option, text string) (string, []string, error) {
	v, err := s.version(versionID)
	if err != nil {
		return "", nil, err
	}
	return newApplier(s, v, candidates).apply(text)
}

// applier substitutes a fixed option set for one version and caches
// resolved values across calls.
type applier struct {
	svc     *Service
	version *model.CaseVersion
	byName  map[string]*model.Option
	names   []string
	values  map[string]string
}

func newApplier(s *Service, v *model.CaseVersion, candidates []*model.Option) *applier {
	a := &applier{
		svc:     s,
		version: v,
		byName:  make(map[string]*model.Option, len(candidates)),
		values:  make(map[string]string, len(candidates)),
	}
	for _, opt := range candidates {
		a.byName[opt.Name] = opt
		a.names = append(a.names, opt.Name)
	}
	return a
}

func (a *applier) apply(text string) (string, []string, error) {
	return substitute(text, a.names, a.value)
}

func (a *applier) value(name string) (string, error) {
	if v, ok := a.values[name]; ok {
		return v, nil
	}
	v, err := a.svc.resolve(a.byName[name], a.version)
	if err != nil {
		return "", err
	}
	a.values[name] = v
	return v, nil
}

func substitute(text string, names []string, value func(name string) (string, error)) (string, []string, error) {
	ordered := make([]string, len(names))
	copy(ordered, names)
	sort.Sort(sort.Reverse(sort.StringSlice(ordered)))

	var applied []string
	for _, name := range ordered {
		token := PlaceholderFor(name)
		if !strings.Contains(text, token) {
			continue
		}
		v, err := value(name)
		if err != nil {
			return "", nil, err
		}
		text = strings.ReplaceAll(text, token, v)
		applied = append(applied, name)
	}
	return text, applied, nil
}
