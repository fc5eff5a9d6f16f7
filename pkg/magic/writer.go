// Package magic writes layout cells in the text format of the Magic VLSI
// layout editor (.mag files).
package magic

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/OpenTraceLab/librarian/pkg/layout"
	"github.com/OpenTraceLab/librarian/pkg/rules"
)

// Extension is the file extension of Magic cells
const Extension = ".mag"

// Encode writes one cell: header, one layer marker and rect record per
// rectangle, then the end marker. Rectangles are not grouped by layer.
func Encode(w io.Writer, tech rules.Technology, stream *layout.Stream, timestamp time.Time) error {
	bw := bufio.NewWriter(w)

	fmt.Fprintf(bw, "magic\n")
	fmt.Fprintf(bw, "tech %s\n", tech.Name)
	fmt.Fprintf(bw, "timestamp %d\n", timestamp.Unix())

	for _, r := range stream.Rects() {
		name, ok := tech.Layers.Name(r.Layer)
		if !ok {
			return fmt.Errorf("%w: %s in technology %s", rules.ErrUnboundLayer, r.Layer, tech.Name)
		}
		fmt.Fprintf(bw, "<< %s >>\nrect %d %d %d %d\n", name, r.X1, r.Y1, r.X2, r.Y2)
	}

	fmt.Fprintf(bw, "<< end >>\n")
	return bw.Flush()
}

// WriteFile creates path and writes the cell into it
func WriteFile(path string, tech rules.Technology, stream *layout.Stream, timestamp time.Time) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("cannot open output file %s: %w", path, err)
	}

	if err := Encode(file, tech, stream, timestamp); err != nil {
		file.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}

	if err := file.Close(); err != nil {
		return fmt.Errorf("cannot close output file %s: %w", path, err)
	}
	return nil
}
