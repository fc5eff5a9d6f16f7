package layout

// LayerTag is the symbolic name of a drawing layer.
// Technologies map tags to concrete layer names (see package rules).
type LayerTag int

const (
	NDiffusion LayerTag = iota
	PDiffusion
	NContact
	PContact
	NTransistor
	PTransistor
	Metal
	Poly
	NWell
	PWell
	SilicideBlock
	Checkpaint

	numLayerTags
)

var layerTagNames = [...]string{
	NDiffusion:    "n-diffusion",
	PDiffusion:    "p-diffusion",
	NContact:      "n-contact",
	PContact:      "p-contact",
	NTransistor:   "n-transistor",
	PTransistor:   "p-transistor",
	Metal:         "metal",
	Poly:          "poly",
	NWell:         "n-well",
	PWell:         "p-well",
	SilicideBlock: "silicide-block",
	Checkpaint:    "checkpaint",
}

func (t LayerTag) String() string {
	if t < 0 || t >= numLayerTags {
		return "unknown-layer"
	}
	return layerTagNames[t]
}

// AllLayerTags returns every defined tag in declaration order
func AllLayerTags() []LayerTag {
	tags := make([]LayerTag, 0, numLayerTags)
	for t := LayerTag(0); t < numLayerTags; t++ {
		tags = append(tags, t)
	}
	return tags
}

// LayerSet groups the polarity dependent layers of one device
type LayerSet struct {
	Diffusion  LayerTag
	Contact    LayerTag
	Transistor LayerTag
	Well       LayerTag
}

// LayersFor returns the layer set for a polarity.
// N-channel devices sit in a p-well, P-channel devices in an n-well.
func LayersFor(p Polarity) LayerSet {
	if p == NChannel {
		return LayerSet{
			Diffusion:  NDiffusion,
			Contact:    NContact,
			Transistor: NTransistor,
			Well:       PWell,
		}
	}
	return LayerSet{
		Diffusion:  PDiffusion,
		Contact:    PContact,
		Transistor: PTransistor,
		Well:       NWell,
	}
}
