package rules

import (
	"errors"
	"fmt"
	"strings"

	"github.com/OpenTraceLab/librarian/pkg/layout"
)

var (
	// ErrUnknownTechnology is returned by Lookup for technologies without a rule table
	ErrUnknownTechnology = errors.New("unknown technology")

	// ErrUnboundLayer is returned when a layer needed by the rules has no physical layer
	ErrUnboundLayer = errors.New("layer has no physical binding")

	// ErrInvalidRule is returned for negative rule values
	ErrInvalidRule = errors.New("invalid design rule")
)

// DesignRuleSet holds the spacing and sizing rules of one technology.
// All values are in lambda (grid units).
type DesignRuleSet struct {
	ContactSize       int // contact cut size (techfile shrinks it by 0.5um each side)
	ContactSpacing    int // contact to contact
	ContactToChannel  int // contact to gate, ignored on the drain side of ESD devices
	ContactToDiffEdge int // contact to diffusion edge
	PolyOverlap       int // poly extension past the channel ends
	WellClearance     int // well edge to everything

	ESDContactToBlock int // ESD: drain contact to silicide block
	ESDBlockWidth     int // ESD: silicide block width in the drain, 0 disables the block
	ESDBlockToChannel int // ESD: silicide block to channel
	ESDBlockOverhang  int // ESD: silicide block extension past the diffusion
}

// MinWidth is the narrowest transistor that the finger layout supports.
// Narrower devices would need a dogbone layout.
func (r DesignRuleSet) MinWidth() int {
	return 2*r.ContactToDiffEdge + r.ContactSize
}

// ESDDrainExtension is the diffusion length between a drain contact and the
// gate of an ESD device.
func (r DesignRuleSet) ESDDrainExtension() int {
	return r.ESDContactToBlock + r.ESDBlockWidth + r.ESDBlockToChannel
}

// Validate checks that every rule is non-negative and contacts have a size
func (r DesignRuleSet) Validate() error {
	values := []struct {
		name  string
		value int
	}{
		{"contact size", r.ContactSize},
		{"contact spacing", r.ContactSpacing},
		{"contact to channel", r.ContactToChannel},
		{"contact to diffusion edge", r.ContactToDiffEdge},
		{"poly overlap", r.PolyOverlap},
		{"well clearance", r.WellClearance},
		{"ESD contact to block", r.ESDContactToBlock},
		{"ESD block width", r.ESDBlockWidth},
		{"ESD block to channel", r.ESDBlockToChannel},
		{"ESD block overhang", r.ESDBlockOverhang},
	}
	for _, v := range values {
		if v.value < 0 {
			return fmt.Errorf("%w: %s is %d", ErrInvalidRule, v.name, v.value)
		}
	}
	if r.ContactSize == 0 {
		return fmt.Errorf("%w: contact size must be positive", ErrInvalidRule)
	}
	return nil
}

// Technology bundles a rule set with its layer names and grid scale
type Technology struct {
	Name          string
	GridPerMicron int // real size [um] = size [lambda] / GridPerMicron
	Rules         DesignRuleSet
	Layers        LayerMap
}

// SCMOS returns the scmos technology at 2 lambda per micron
func SCMOS() Technology {
	return Technology{
		Name:          "scmos",
		GridPerMicron: 2,
		Rules: DesignRuleSet{
			ContactSize:       5,
			ContactSpacing:    1,
			ContactToChannel:  3,
			ContactToDiffEdge: 2,
			PolyOverlap:       3,
			WellClearance:     6,
			ESDContactToBlock: 1,
			ESDBlockWidth:     0,
			ESDBlockToChannel: 18,
			ESDBlockOverhang:  3,
		},
		Layers: NewLayerMap(map[layout.LayerTag]string{
			layout.NDiffusion:  "ndiffusion",
			layout.PDiffusion:  "pdiffusion",
			layout.NContact:    "ndcontact",
			layout.PContact:    "pdcontact",
			layout.NTransistor: "ntransistor",
			layout.PTransistor: "ptransistor",
			layout.Metal:       "metal1",
			layout.Poly:        "polysilicon",
			layout.NWell:       "nwell",
			layout.PWell:       "pwell",
			layout.Checkpaint:  "checkpaint",
			// silicide-block stays unbound, the magic techfile has no such layer
		}),
	}
}

// Lookup returns the technology with the given name.
// Only scmos is defined.
func Lookup(name string) (Technology, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "scmos":
		return SCMOS(), nil
	default:
		return Technology{}, fmt.Errorf("%w: %q", ErrUnknownTechnology, name)
	}
}

// Names lists the technologies known to Lookup
func Names() []string {
	return []string{"scmos"}
}

// WithSilicideBlock returns a copy of the technology with the ESD silicide
// block enabled at the given width and drawn on the given physical layer.
func (t Technology) WithSilicideBlock(width int, layer string) Technology {
	t.Rules.ESDBlockWidth = width
	t.Layers = t.Layers.With(layout.SilicideBlock, layer)
	return t
}

// Validate checks the rules, the grid scale, and that every layer the rules
// can draw is bound to a physical layer.
func (t Technology) Validate() error {
	if t.GridPerMicron <= 0 {
		return fmt.Errorf("%s: %w: grid scale must be positive", t.Name, ErrInvalidRule)
	}
	if err := t.Rules.Validate(); err != nil {
		return fmt.Errorf("%s: %w", t.Name, err)
	}
	for _, tag := range layout.AllLayerTags() {
		if tag == layout.SilicideBlock && t.Rules.ESDBlockWidth == 0 {
			continue
		}
		if _, ok := t.Layers.Name(tag); !ok {
			if tag == layout.SilicideBlock {
				return fmt.Errorf("%s: %w: %s (silicide block width is %d)",
					t.Name, ErrUnboundLayer, tag, t.Rules.ESDBlockWidth)
			}
			return fmt.Errorf("%s: %w: %s", t.Name, ErrUnboundLayer, tag)
		}
	}
	return nil
}
