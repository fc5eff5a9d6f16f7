// Package cellgen synthesizes MOSFET layout cells from a transistor
// description and a design rule set.
//
// # Overview
//
// A cell is built by walking a cursor along the horizontal axis and placing
// alternating features, while the transistor width spans the vertical axis:
//
//	spacer | contact | channel end | gate | channel end | contact | ... | contact | spacer
//
// Every contact site is a column of contact cuts produced by ContactArray.
// The cuts are placed greedily from the bottom of the diffusion strip while a
// full cut plus its edge clearance still fits; the space that remains is
// filled with diffusion and metal.
//
// A device with N fingers has N gates and N+1 contact sites, with source and
// drain contacts alternating.
//
// # ESD devices
//
// ESD protection transistors move the drain contacts away from the gate so the
// device survives high discharge currents. The channel end on the drain side
// of every gate is replaced by
//
//	contact-to-block | silicide block (optional) | block-to-channel
//
// Drains sit after odd fingers and before even fingers, so the elongation is
// always on the same terminal. The silicide block is only drawn when the rule
// set gives it a non-zero width; its layer must then be bound by the
// technology (see rules.Technology.Validate).
//
// # Usage
//
//	tech := rules.SCMOS()
//	grid, err := cellgen.ToGrid(spec, tech)
//	if errors.Is(err, cellgen.ErrTooNarrow) {
//		// skip, the finger layout cannot represent this device
//	}
//	cell, err := cellgen.Transistor(grid, tech.Rules)
//
// Generation is a pure function of its inputs: the same spec and rules always
// produce the same rectangle stream, so cells may be generated concurrently.
package cellgen
