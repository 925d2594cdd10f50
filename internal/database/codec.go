package database

import (
	"fmt"
	"strconv"
	"strings"

	"series-go/internal/model"
)

// Lists are stored as comma-joined text. A backslash escapes a literal
// comma or backslash inside an element.
const (
	listSeparator = ','
	listEscape    = '\\'
)

func escapeElement(s string) string {
	if !strings.ContainsAny(s, `,\`) {
		return s
	}
	var b strings.Builder
	b.Grow(len(s) + 2)
	for _, r := range s {
		if r == listSeparator || r == listEscape {
			b.WriteRune(listEscape)
		}
		b.WriteRune(r)
	}
	return b.String()
}

// encodeList joins values. An empty slice and a single empty value both
// encode to "", so decoding needs the element count from elsewhere.
func encodeList(values []string) string {
	escaped := make([]string, len(values))
	for i, v := range values {
		escaped[i] = escapeElement(v)
	}
	return strings.Join(escaped, string(listSeparator))
}

// splitList reverses encodeList for a non-empty element count.
func splitList(s string) ([]string, error) {
	var (
		out     []string
		cur     strings.Builder
		escaped bool
	)
	for _, r := range s {
		switch {
		case escaped:
			if r != listSeparator && r != listEscape {
				return nil, fmt.Errorf("invalid escape sequence %q", string(listEscape)+string(r))
			}
			cur.WriteRune(r)
			escaped = false
		case r == listEscape:
			escaped = true
		case r == listSeparator:
			out = append(out, cur.String())
			cur.Reset()
		default:
			cur.WriteRune(r)
		}
	}
	if escaped {
		return nil, fmt.Errorf("dangling escape at end of %q", s)
	}
	return append(out, cur.String()), nil
}

func encodeIDs(ids []int64) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.FormatInt(id, 10)
	}
	return strings.Join(parts, string(listSeparator))
}

func decodeIDs(s string) ([]int64, error) {
	if s == "" {
		return nil, nil
	}
	parts := strings.Split(s, string(listSeparator))
	ids := make([]int64, len(parts))
	for i, p := range parts {
		id, err := strconv.ParseInt(strings.TrimSpace(p), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("parsing id list %q: %w", s, err)
		}
		ids[i] = id
	}
	return ids, nil
}

// encodeOverrides returns the parallel id and value columns of a version.
func encodeOverrides(o model.Overrides) (ids, values string) {
	entries := o.Entries()
	idList := make([]int64, len(entries))
	valueList := make([]string, len(entries))
	for i, e := range entries {
		idList[i] = e.OptionID
		valueList[i] = e.Value
	}
	return encodeIDs(idList), encodeList(valueList)
}

func decodeOverrides(ids, values string) (model.Overrides, error) {
	idList, err := decodeIDs(ids)
	if err != nil {
		return model.Overrides{}, err
	}
	if len(idList) == 0 {
		if values != "" {
			return model.Overrides{}, fmt.Errorf("values %q without option ids", values)
		}
		return model.Overrides{}, nil
	}

	valueList, err := splitList(values)
	if err != nil {
		return model.Overrides{}, fmt.Errorf("parsing value list: %w", err)
	}
	if len(valueList) != len(idList) {
		return model.Overrides{}, fmt.Errorf("%d option ids but %d values", len(idList), len(valueList))
	}

	entries := make([]model.Override, len(idList))
	for i := range idList {
		entries[i] = model.Override{OptionID: idList[i], Value: valueList[i]}
	}
	return model.NewOverrides(entries...)
}
