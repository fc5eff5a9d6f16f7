package netlist

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"fortio.org/safecast"
	"github.com/alecthomas/participle/v2"

	"github.com/OpenTraceLab/librarian/pkg/layout"
)

// Parameter keys recognized on MOSFET instance lines
const (
	KeyWidth   = "W"
	KeyLength  = "L"
	KeyFingers = "M"
)

var (
	ErrSyntax         = errors.New("malformed instance line")
	ErrUnknownModel   = errors.New("unrecognized device model")
	ErrMissingParam   = errors.New("incomplete transistor definition")
	ErrDuplicateParam = errors.New("duplicate parameter")
	ErrBadUnit        = errors.New("parameter shall end in U")
	ErrBadValue       = errors.New("parameter cannot be parsed")
)

// Model maps a device model name to its polarity and variant
type Model struct {
	Name     string
	Polarity layout.Polarity
	ESD      bool
}

// Models lists the recognized model names (values of model-name in gschem)
var Models = []Model{
	{Name: "NMOS4", Polarity: layout.NChannel},
	{Name: "PMOS4", Polarity: layout.PChannel},
	{Name: "NESD", Polarity: layout.NChannel, ESD: true},
	{Name: "PESD", Polarity: layout.PChannel, ESD: true},
}

// LookupModel finds a model by name, ignoring case
func LookupModel(name string) (Model, bool) {
	for _, m := range Models {
		if strings.EqualFold(m.Name, name) {
			return m, true
		}
	}
	return Model{}, false
}

// Device is one MOSFET instance found in a netlist
type Device struct {
	Name  string // reference designator
	Line  int    // line of the instance in the netlist, 1-based
	Nodes []string
	Model string
	Spec  layout.Spec
}

// Warning is a non-fatal remark about an instance
type Warning struct {
	Line    int
	Device  string
	Message string
}

func (w Warning) String() string {
	return fmt.Sprintf("line %d: %s: %s", w.Line, w.Device, w.Message)
}

// LineError reports a malformed instance line
type LineError struct {
	Line   int
	Device string
	Err    error
}

func (e *LineError) Error() string {
	if e.Device == "" {
		return fmt.Sprintf("line %d: %v", e.Line, e.Err)
	}
	return fmt.Sprintf("line %d: %s: %v", e.Line, e.Device, e.Err)
}

func (e *LineError) Unwrap() error {
	return e.Err
}

// Netlist holds the devices of a parsed netlist in file order
type Netlist struct {
	Devices  []Device
	Warnings []Warning
}

// Parser reads MOSFET instances from SPICE netlists.
// Lines starting with M are instances, lines starting with + continue the
// previous line, everything else is ignored.
type Parser struct {
	parser *participle.Parser[instanceLine]

	// KeepGoing collects malformed lines instead of stopping at the first.
	// Parse then returns the valid devices together with the joined errors.
	KeepGoing bool
}

// NewParser creates a new netlist parser instance
func NewParser() (*Parser, error) {
	parser, err := participle.Build[instanceLine](
		participle.Lexer(InstanceLexer),
		participle.Elide("Whitespace"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to build parser: %w", err)
	}

	return &Parser{parser: parser}, nil
}

// ParseFile parses a netlist from a file path
func (p *Parser) ParseFile(filename string) (*Netlist, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("cannot open netlist file: %w", err)
	}
	defer file.Close()

	return p.Parse(file)
}

// ParseString parses a netlist held in a string
func (p *Parser) ParseString(input string) (*Netlist, error) {
	return p.Parse(strings.NewReader(input))
}

type pendingLine struct {
	text string
	line int
}

// Parse parses a netlist from a reader
func (p *Parser) Parse(r io.Reader) (*Netlist, error) {
	nl := &Netlist{}
	var errs []error
	var pending *pendingLine

	flush := func() error {
		if pending == nil {
			return nil
		}
		dev, warnings, err := p.ParseInstance(pending.text, pending.line)
		pending = nil
		if err != nil {
			if !p.KeepGoing {
				return err
			}
			errs = append(errs, err)
			return nil
		}
		nl.Devices = append(nl.Devices, *dev)
		nl.Warnings = append(nl.Warnings, warnings...)
		return nil
	}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		text := scanner.Text()

		if strings.HasPrefix(text, "+") {
			if pending != nil {
				pending.text += " " + text[1:]
			}
			continue
		}

		if err := flush(); err != nil {
			return nil, err
		}
		if len(text) > 0 && (text[0] == 'M' || text[0] == 'm') {
			pending = &pendingLine{text: text, line: lineNo}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading netlist: %w", err)
	}
	if err := flush(); err != nil {
		return nil, err
	}

	if len(errs) > 0 {
		return nl, errors.Join(errs...)
	}
	return nl, nil
}

// ParseInstance parses a single MOSFET instance line.
// line is only used for diagnostics.
func (p *Parser) ParseInstance(text string, line int) (*Device, []Warning, error) {
	inst, err := p.parser.ParseString("", text)
	if err != nil {
		return nil, nil, &LineError{Line: line, Err: fmt.Errorf("%w: %v", ErrSyntax, err)}
	}

	dev := &Device{
		Name:  inst.Name,
		Line:  line,
		Nodes: inst.Nodes,
		Model: inst.Model,
	}
	fail := func(err error) (*Device, []Warning, error) {
		return nil, nil, &LineError{Line: line, Device: inst.Name, Err: err}
	}

	model, ok := LookupModel(inst.Model)
	if !ok {
		return fail(fmt.Errorf("%w %s", ErrUnknownModel, inst.Model))
	}
	dev.Spec.Polarity = model.Polarity
	dev.Spec.ESD = model.ESD

	seen := make(map[string]bool)
	for _, prm := range inst.Params {
		key := strings.ToUpper(prm.Key)
		switch key {
		case KeyWidth, KeyLength, KeyFingers:
		default:
			continue
		}
		if prm.Value == nil {
			return fail(fmt.Errorf("%w: parameter %s has no value", ErrBadValue, key))
		}
		if seen[key] {
			return fail(fmt.Errorf("%w %s", ErrDuplicateParam, key))
		}
		seen[key] = true

		switch key {
		case KeyWidth:
			dev.Spec.Width, err = parseMicrons(key, *prm.Value)
		case KeyLength:
			dev.Spec.Length, err = parseMicrons(key, *prm.Value)
		case KeyFingers:
			dev.Spec.Fingers, err = parseFingers(*prm.Value)
		}
		if err != nil {
			return fail(err)
		}
	}

	var missing []string
	for _, key := range []string{KeyWidth, KeyLength} {
		if !seen[key] {
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		return fail(fmt.Errorf("%w: missing %s", ErrMissingParam, strings.Join(missing, ", ")))
	}

	var warnings []Warning
	if !seen[KeyFingers] {
		dev.Spec.Fingers = 1
		warnings = append(warnings, Warning{
			Line:    line,
			Device:  inst.Name,
			Message: "implicitly assuming single-finger transistor",
		})
	}

	return dev, warnings, nil
}

// parseMicrons decodes a length such as 1.5U into micrometers.
// strconv is locale independent, so "1,5U" is rejected rather than misread.
func parseMicrons(key, value string) (float64, error) {
	if !strings.HasSuffix(strings.ToUpper(value), "U") {
		return 0, fmt.Errorf("%w: %s=%s", ErrBadUnit, key, value)
	}
	number := value[:len(value)-1]
	v, err := strconv.ParseFloat(number, 64)
	if err != nil || math.IsInf(v, 0) || math.IsNaN(v) {
		return 0, fmt.Errorf("%w: %s=%s", ErrBadValue, key, value)
	}
	if v <= 0 {
		return 0, fmt.Errorf("%w: %s=%s must be positive", ErrBadValue, key, value)
	}
	return v, nil
}

func parseFingers(value string) (int, error) {
	n, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %s=%s", ErrBadValue, KeyFingers, value)
	}
	f, err := safecast.Conv[int](n)
	if err != nil {
		return 0, fmt.Errorf("%w: %s=%s: %v", ErrBadValue, KeyFingers, value, err)
	}
	if f < 1 {
		return 0, fmt.Errorf("%w: %s=%s must be at least 1", ErrBadValue, KeyFingers, value)
	}
	return f, nil
}
