package drawtypes

import "strings"

// IconSet is a named collection of labels, looked up by workspace/icon id
// with exact, fuzzy, or workspace-prefix matching.
type IconSet struct {
	icons map[string]*Label
	order []string // insertion order, so fuzzy/prefix scans are deterministic
}

// NewIconSet returns an empty IconSet.
func NewIconSet() *IconSet {
	return &IconSet{icons: make(map[string]*Label)}
}

// Add registers icon under id, overwriting any existing entry for id.
func (s *IconSet) Add(id string, icon *Label) {
	if _, exists := s.icons[id]; !exists {
		s.order = append(s.order, id)
	}
	s.icons[id] = icon
}

// Has reports whether id is registered.
func (s *IconSet) Has(id string) bool {
	_, ok := s.icons[id]
	return ok
}

// IsSet reports whether any icon has been added.
func (s *IconSet) IsSet() bool { return len(s.icons) > 0 }

// Get resolves id to a label. With neither fuzzy nor prefix matching, id
// must match a registered icon exactly. With fuzzyMatch, the registered
// icon id that is both a substring of id and the longest such match wins
// (ties broken by insertion order), so a more specific id like "10" is
// preferred over a looser one like "1" when both occur in id. With
// prefixMatch, id is split on its first ':' and the first registered icon
// id (in insertion order) that starts with that prefix wins; this is the workspace-number
// matching mode. Either matching mode falls back to fallbackID on a miss.
func (s *IconSet) Get(id, fallbackID string, fuzzyMatch, prefixMatch bool) *Label {
	if prefixMatch {
		prefix := id
		if i := strings.IndexByte(id, ':'); i != -1 {
			prefix = id[:i]
		}
		for _, known := range s.order {
			if strings.HasPrefix(known, prefix) {
				return s.icons[known]
			}
		}
		return s.icons[fallbackID]
	}

	if fuzzyMatch {
		best := ""
		for _, known := range s.order {
			if strings.Contains(id, known) && len(known) > len(best) {
				best = known
			}
		}
		if best != "" {
			return s.icons[best]
		}
		return s.icons[fallbackID]
	}

	if icon, ok := s.icons[id]; ok {
		return icon
	}
	return s.icons[fallbackID]
}
