package netlist

import (
	"github.com/alecthomas/participle/v2/lexer"
)

// InstanceLexer tokenizes one MOSFET instance line after continuation
// lines have been joined. SPICE separates fields by whitespace; parameters
// are KEY=VALUE pairs, optionally with spaces around the equals sign.
var InstanceLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Whitespace", Pattern: `[ \t\r\n]+`},
	{Name: "Equals", Pattern: `=`},
	{Name: "Word", Pattern: `[^\s=]+`},
})

// instanceLine is the grammar of a MOSFET instance:
//
//	Mname drain gate source bulk model [KEY=VALUE ...]
type instanceLine struct {
	Name   string   `parser:"@Word"`
	Nodes  []string `parser:"@Word @Word @Word @Word"`
	Model  string   `parser:"@Word"`
	Params []*param `parser:"@@*"`
}

// param is a KEY=VALUE token. Bare flags such as OFF have no value.
type param struct {
	Key   string  `parser:"@Word"`
	Value *string `parser:"( Equals @Word )?"`
}
