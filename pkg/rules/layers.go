package rules

import "github.com/OpenTraceLab/librarian/pkg/layout"

// LayerMap provides lookup of physical layer names by tag
type LayerMap struct {
	byTag map[layout.LayerTag]string
}

// NewLayerMap creates a LayerMap from tag to name bindings.
// Empty names are treated as unbound.
func NewLayerMap(bindings map[layout.LayerTag]string) LayerMap {
	lm := LayerMap{byTag: make(map[layout.LayerTag]string, len(bindings))}
	for tag, name := range bindings {
		if name != "" {
			lm.byTag[tag] = name
		}
	}
	return lm
}

// Name returns the physical layer bound to tag
func (lm LayerMap) Name(tag layout.LayerTag) (string, bool) {
	name, ok := lm.byTag[tag]
	return name, ok
}

// With returns a copy of the map with tag bound to name.
// The receiver is left untouched so technologies can be shared.
func (lm LayerMap) With(tag layout.LayerTag, name string) LayerMap {
	bindings := make(map[layout.LayerTag]string, len(lm.byTag)+1)
	for t, n := range lm.byTag {
		bindings[t] = n
	}
	bindings[tag] = name
	return NewLayerMap(bindings)
}
