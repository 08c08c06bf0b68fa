package event

import (
	"sort"
	"strings"
)

var nameToType = func() map[string]EventType {
	m := make(map[string]EventType, len(typeNames))
	for t, name := range typeNames {
		m[name] = t
	}
	return m
}()

// ParseType resolves a wire name such as "weapon_hit"; case-insensitive
func ParseType(name string) (EventType, bool) {
	t, ok := nameToType[strings.ToLower(strings.TrimSpace(name))]
	return t, ok
}

// Types returns every known event type in declaration order
func Types() []EventType {
	out := make([]EventType, 0, len(typeNames))
	for t := range typeNames {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// TypeSet is a membership filter over event types; nil accepts everything
type TypeSet map[EventType]struct{}

// ParseTypeSet builds a filter from comma-separated names, skipping unknown ones
func ParseTypeSet(csv string) TypeSet {
	if strings.TrimSpace(csv) == "" {
		return nil
	}
	set := make(TypeSet)
	for _, name := range strings.Split(csv, ",") {
		if t, ok := ParseType(name); ok {
			set[t] = struct{}{}
		}
	}
	return set
}

func (s TypeSet) Accepts(t EventType) bool {
	if s == nil {
		return true
	}
	_, ok := s[t]
	return ok
}
