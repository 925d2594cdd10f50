package model

import "fmt"

// Override is a single option value pinned by a case version.
type Override struct {
	OptionID int64
	Value    string
}

// Overrides is an ordered mapping from option id to value with unique keys.
// Insertion order is kept for display only. The zero value is an empty map.
//
// Overrides is immutable: every mutating method returns a new value and
// leaves the receiver untouched, so versions never share backing arrays.
type Overrides struct {
	entries []Override
}

// NewOverrides builds an Overrides from entries, rejecting duplicate keys.
func NewOverrides(entries ...Override) (Overrides, error) {
	seen := make(map[int64]bool, len(entries))
	out := make([]Override, 0, len(entries))
	for _, e := range entries {
		if seen[e.OptionID] {
			return Overrides{}, fmt.Errorf("duplicate override for option %d", e.OptionID)
		}
		seen[e.OptionID] = true
		out = append(out, e)
	}
	return Overrides{entries: out}, nil
}

// Len returns the number of overrides.
func (o Overrides) Len() int { return len(o.entries) }

// Get returns the value for optionID and whether it is set.
func (o Overrides) Get(optionID int64) (string, bool) {
	if i := o.index(optionID); i >= 0 {
		return o.entries[i].Value, true
	}
	return "", false
}

// Has reports whether optionID is overridden.
func (o Overrides) Has(optionID int64) bool {
	return o.index(optionID) >= 0
}

// Entries returns a copy of the entries in insertion order.
func (o Overrides) Entries() []Override {
	out := make([]Override, len(o.entries))
	copy(out, o.entries)
	return out
}

// With returns a copy with (optionID, value) appended.
// It fails if optionID is already present.
func (o Overrides) With(optionID int64, value string) (Overrides, error) {
	if o.Has(optionID) {
		return o, fmt.Errorf("option %d already overridden", optionID)
	}
	out := make([]Override, len(o.entries), len(o.entries)+1)
	copy(out, o.entries)
	out = append(out, Override{OptionID: optionID, Value: value})
	return Overrides{entries: out}, nil
}

// Replace returns a copy with the value of optionID replaced in place.
// It fails if optionID is not present.
func (o Overrides) Replace(optionID int64, value string) (Overrides, error) {
	i := o.index(optionID)
	if i < 0 {
		return o, fmt.Errorf("option %d not overridden", optionID)
	}
	out := o.Entries()
	out[i].Value = value
	return Overrides{entries: out}, nil
}

// Without returns a copy with optionID removed. Removing an absent key is a no-op.
func (o Overrides) Without(optionID int64) Overrides {
	i := o.index(optionID)
	if i < 0 {
		return o
	}
	out := make([]Override, 0, len(o.entries)-1)
	out = append(out, o.entries[:i]...)
	out = append(out, o.entries[i+1:]...)
	return Overrides{entries: out}
}

// Equal reports whether both maps hold the same entries in the same order.
func (o Overrides) Equal(other Overrides) bool {
	if len(o.entries) != len(other.entries) {
		return false
	}
	for i := range o.entries {
		if o.entries[i] != other.entries[i] {
			return false
		}
	}
	return true
}

func (o Overrides) index(optionID int64) int {
	for i, e := range o.entries {
		if e.OptionID == optionID {
			return i
		}
	}
	return -1
}
