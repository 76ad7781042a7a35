package ast

import "strings"

// EffectSet is an ordered set of declared effect names. Insertion
// order is preserved so generated documentation stays stable, and
// duplicates collapse. Membership in the fixed vocabulary is the
// checker's concern, not the set's.
type EffectSet struct {
	names []string
	seen  map[string]struct{}
}

func NewEffectSet(names ...string) *EffectSet {
	s := &EffectSet{seen: make(map[string]struct{})}
	for _, name := range names {
		s.Add(name)
	}
	return s
}

// Add appends name unless it is already present.
func (s *EffectSet) Add(name string) {
	if _, ok := s.seen[name]; ok {
		return
	}
	s.seen[name] = struct{}{}
	s.names = append(s.names, name)
}

func (s *EffectSet) Contains(name string) bool {
	if s == nil {
		return false
	}
	_, ok := s.seen[name]
	return ok
}

// Names returns the effect names in insertion order.
func (s *EffectSet) Names() []string {
	if s == nil {
		return nil
	}
	names := make([]string, len(s.names))
	copy(names, s.names)
	return names
}

func (s *EffectSet) Empty() bool {
	return s == nil || len(s.names) == 0
}

func (s *EffectSet) Len() int {
	if s == nil {
		return 0
	}
	return len(s.names)
}

func (s *EffectSet) String() string {
	return "[" + strings.Join(s.Names(), ", ") + "]"
}
