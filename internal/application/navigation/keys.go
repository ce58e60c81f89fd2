package navigation

import "plotnav/internal/domain"

// KeyMap names the two raw key codes that drive navigation
type KeyMap struct {
	Next     string
	Previous string
}

// DefaultKeyMap returns the conventional j/k bindings
func DefaultKeyMap() KeyMap {
	return KeyMap{Next: "j", Previous: "k"}
}

// EventFor translates a raw key code. Any code other than the two
// configured ones yields ok == false.
func (k KeyMap) EventFor(code string) (domain.Event, bool) {
	switch {
	case code == "":
		return domain.Event{}, false
	case code == k.Next:
		return domain.Next(), true
	case code == k.Previous:
		return domain.Previous(), true
	default:
		return domain.Event{}, false
	}
}

// WithDefaults fills empty bindings from DefaultKeyMap
func (k KeyMap) WithDefaults() KeyMap {
	def := DefaultKeyMap()
	if k.Next == "" {
		k.Next = def.Next
	}
	if k.Previous == "" {
		k.Previous = def.Previous
	}
	return k
}
