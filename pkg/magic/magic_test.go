package magic

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/OpenTraceLab/librarian/pkg/layout"
	"github.com/OpenTraceLab/librarian/pkg/rules"
)

func TestEncode(t *testing.T) {
	var s layout.Stream
	if err := s.Add(layout.NDiffusion, 2, 10, 0, 0); err != nil {
		t.Fatal(err)
	}
	if err := s.Add(layout.Metal, 0, 0, 2, 10); err != nil {
		t.Fatal(err)
	}
	if err := s.Add(layout.NDiffusion, 2, 0, 7, 2); err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	ts := time.Unix(1700000000, 0)
	if err := Encode(&buf, rules.SCMOS(), &s, ts); err != nil {
		t.Fatalf("Encode failed: %v", err)
	}

	want := `magic
tech scmos
timestamp 1700000000
<< ndiffusion >>
rect 0 0 2 10
<< metal1 >>
rect 0 0 2 10
<< ndiffusion >>
rect 2 0 7 2
<< end >>
`
	if buf.String() != want {
		t.Errorf("Unexpected output:\n%s\nwant:\n%s", buf.String(), want)
	}
}

func TestEncodeUnboundLayer(t *testing.T) {
	var s layout.Stream
	if err := s.Add(layout.SilicideBlock, 0, -3, 4, 13); err != nil {
		t.Fatal(err)
	}

	err := Encode(&bytes.Buffer{}, rules.SCMOS(), &s, time.Unix(0, 0))
	if !errors.Is(err, rules.ErrUnboundLayer) {
		t.Errorf("Expected ErrUnboundLayer, got %v", err)
	}

	tech := rules.SCMOS().WithSilicideBlock(4, "silicideblock")
	var buf bytes.Buffer
	if err := Encode(&buf, tech, &s, time.Unix(0, 0)); err != nil {
		t.Fatalf("Encode with bound layer failed: %v", err)
	}
	if !strings.Contains(buf.String(), "<< silicideblock >>\nrect 0 -3 4 13\n") {
		t.Errorf("Missing silicide block record:\n%s", buf.String())
	}
}

func TestWriteFile(t *testing.T) {
	var s layout.Stream
	_ = s.Add(layout.Poly, 0, 0, 1, 1)

	path := filepath.Join(t.TempDir(), "cell.mag")
	if err := WriteFile(path, rules.SCMOS(), &s, time.Unix(42, 0)); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(data), "magic\ntech scmos\ntimestamp 42\n") {
		t.Errorf("Unexpected header:\n%s", data)
	}
	if !strings.HasSuffix(string(data), "<< polysilicon >>\nrect 0 0 1 1\n<< end >>\n") {
		t.Errorf("Unexpected body:\n%s", data)
	}

	bad := filepath.Join(t.TempDir(), "missing", "cell.mag")
	if err := WriteFile(bad, rules.SCMOS(), &s, time.Unix(42, 0)); err == nil {
		t.Error("Expected error writing into a missing directory")
	}
}

func TestCellName(t *testing.T) {
	tests := []struct {
		spec layout.Spec
		want string
	}{
		{layout.Spec{Width: 5, Length: 1, Fingers: 2, Polarity: layout.NChannel}, "LIB_NMOS_W5_L1_F2"},
		{layout.Spec{Width: 2.5, Length: 0.5, Fingers: 1}, "LIB_PMOS_W2P5_L0P5_F1"},
		{layout.Spec{Width: 40, Length: 1.5, Fingers: 8, Polarity: layout.NChannel, ESD: true}, "LIB_NESD_W40_L1P5_F8"},
		{layout.Spec{Width: 12.25, Length: 2, Fingers: 3, ESD: true}, "LIB_PESD_W12P25_L2_F3"},
	}
	for _, tt := range tests {
		if got := CellName(tt.spec); got != tt.want {
			t.Errorf("CellName(%+v) = %s, want %s", tt.spec, got, tt.want)
		}
	}

	if got := FileName(tests[1].spec); got != "LIB_PMOS_W2P5_L0P5_F1.mag" {
		t.Errorf("Unexpected file name %s", got)
	}
}
