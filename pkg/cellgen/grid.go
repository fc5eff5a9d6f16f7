package cellgen

import (
	"errors"
	"fmt"

	"fortio.org/safecast"

	"github.com/OpenTraceLab/librarian/pkg/layout"
	"github.com/OpenTraceLab/librarian/pkg/rules"
)

// ErrTooNarrow marks devices narrower than the finger layout supports.
// Such devices are skipped rather than failing the batch.
var ErrTooNarrow = errors.New("transistor too narrow (dogbone layout not supported)")

// RejectError reports a device rejected by layout policy
type RejectError struct {
	GridWidth int
	MinWidth  int
}

func (e *RejectError) Error() string {
	return fmt.Sprintf("w must be at least (2*contact-to-edge)+contact = %d lambda, got %d lambda",
		e.MinWidth, e.GridWidth)
}

func (e *RejectError) Unwrap() error {
	return ErrTooNarrow
}

// ToGrid converts a physical spec to grid units, truncating toward zero,
// and checks that the finger layout can represent it.
func ToGrid(spec layout.Spec, tech rules.Technology) (layout.GridSpec, error) {
	scale := float64(tech.GridPerMicron)

	w, err := safecast.Truncate[int](spec.Width * scale)
	if err != nil {
		return layout.GridSpec{}, fmt.Errorf("width %g um: %w", spec.Width, err)
	}
	l, err := safecast.Truncate[int](spec.Length * scale)
	if err != nil {
		return layout.GridSpec{}, fmt.Errorf("length %g um: %w", spec.Length, err)
	}

	grid := layout.GridSpec{
		Width:    w,
		Length:   l,
		Fingers:  spec.Fingers,
		Polarity: spec.Polarity,
		ESD:      spec.ESD,
	}

	// a too narrow device is skipped even when it is malformed otherwise
	if minWidth := tech.Rules.MinWidth(); grid.Width < minWidth {
		return grid, &RejectError{GridWidth: grid.Width, MinWidth: minWidth}
	}
	if grid.Fingers < 1 {
		return grid, fmt.Errorf("%w: got %d", ErrNoFingers, grid.Fingers)
	}
	if grid.Length < 1 {
		return grid, fmt.Errorf("%w: L= %g um", ErrTooShort, spec.Length)
	}
	return grid, nil
}

// Generate converts spec to grid units and generates its cell
func Generate(spec layout.Spec, tech rules.Technology) (*Cell, error) {
	grid, err := ToGrid(spec, tech)
	if err != nil {
		return nil, err
	}
	return Transistor(grid, tech.Rules)
}
