package magic

import (
	"fmt"
	"strings"

	"github.com/OpenTraceLab/librarian/pkg/layout"
)

// CellName derives the library cell name from a device's parameters,
// e.g. LIB_NMOS_W2P5_L0P5_F2. Decimal points become P so the name is
// usable as a file and cell name.
func CellName(spec layout.Spec) string {
	name := fmt.Sprintf("LIB_%s_W%g_L%g_F%d", spec.Kind(), spec.Width, spec.Length, spec.Fingers)
	return strings.ReplaceAll(name, ".", "P")
}

// FileName returns the .mag file name for a device
func FileName(spec layout.Spec) string {
	return CellName(spec) + Extension
}
