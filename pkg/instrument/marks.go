package instrument

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/matzehuels/sliderule/pkg/errors"
	"github.com/matzehuels/sliderule/pkg/scale"
)

// MarkList is the marks key of a scale: the string "auto" or an array of
// numbers and constant names. A missing key means auto.
type MarkList struct {
	entries []scale.MarkEntry
	set     bool
}

// Marks returns the scale marks described by l.
func (l MarkList) Marks() scale.Marks {
	if !l.set {
		return scale.Auto()
	}
	return scale.Explicit(l.entries...)
}

// MarkListOf returns an explicit mark list.
func MarkListOf(entries ...scale.MarkEntry) MarkList {
	return MarkList{entries: entries, set: true}
}

// UnmarshalTOML implements toml.Unmarshaler.
func (l *MarkList) UnmarshalTOML(v any) error {
	switch v := v.(type) {
	case string:
		if strings.EqualFold(strings.TrimSpace(v), "auto") {
			*l = MarkList{}
			return nil
		}
		return errors.New(errors.ErrCodeInvalidInstrument, "marks must be \"auto\" or an array, got %q", v)
	case []any:
		entries := make([]scale.MarkEntry, 0, len(v))
		for i, item := range v {
			e, err := markEntry(item)
			if err != nil {
				return fmt.Errorf("marks[%d]: %w", i, err)
			}
			entries = append(entries, e)
		}
		*l = MarkListOf(entries...)
		return nil
	}
	return errors.New(errors.ErrCodeInvalidInstrument, "marks must be \"auto\" or an array, got %T", v)
}

func markEntry(v any) (scale.MarkEntry, error) {
	switch v := v.(type) {
	case int64:
		return scale.Number(float64(v)), nil
	case float64:
		return scale.Number(v), nil
	case string:
		return scale.ParseMarkEntry(v)
	}
	return scale.MarkEntry{}, errors.New(errors.ErrCodeInvalidInstrument, "mark must be a number or constant name, got %T", v)
}

// MarshalTOML implements toml.Marshaler.
func (l MarkList) MarshalTOML() ([]byte, error) {
	if !l.set {
		return []byte(`"auto"`), nil
	}
	parts := make([]string, len(l.entries))
	for i, e := range l.entries {
		if e.IsNamed() {
			parts[i] = strconv.Quote(e.String())
		} else {
			parts[i] = e.String()
		}
	}
	return []byte("[" + strings.Join(parts, ", ") + "]"), nil
}
