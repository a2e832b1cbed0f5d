package geom

import (
	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// Transform attribute grammar. Only matrix, translate and scale are
// recognized; any other function contributes identity. Arguments may be
// separated by commas, whitespace or both, per the SVG attribute syntax.
var (
	transformLexer = lexer.MustSimple([]lexer.SimpleRule{
		{Name: "Whitespace", Pattern: `[ \t\r\n]+`},
		{Name: "Number", Pattern: `[-+]?(?:\d+\.\d*|\.\d+|\d+)(?:[eE][-+]?\d+)?`},
		{Name: "Ident", Pattern: `[A-Za-z_][A-Za-z0-9_-]*`},
		{Name: "Punct", Pattern: `[(),]`},
	})

	transformParser = participle.MustBuild[transformList](
		participle.Lexer(transformLexer),
		participle.Elide("Whitespace"),
	)
)

type transformList struct {
	Calls []*transformCall `parser:"( @@ ','? )*"`
}

type transformCall struct {
	Name string    `parser:"@Ident"`
	Args []float64 `parser:"'(' ( @Number ( ','? @Number )* )? ')'"`
}

// ParseTransform parses a transform attribute value into a single matrix.
// Malformed input and unrecognized functions yield identity contributions.
func ParseTransform(attr string) Matrix {
	if attr == "" {
		return Identity()
	}
	list, err := transformParser.ParseString("", attr)
	if err != nil {
		return Identity()
	}
	m := Identity()
	for _, call := range list.Calls {
		m = m.Mul(callMatrix(call))
	}
	return m
}

func callMatrix(c *transformCall) Matrix {
	switch c.Name {
	case "matrix":
		if len(c.Args) == 6 {
			return Matrix{A: c.Args[0], B: c.Args[1], C: c.Args[2], D: c.Args[3], E: c.Args[4], F: c.Args[5]}
		}
	case "translate":
		switch len(c.Args) {
		case 1:
			return Translate(c.Args[0], 0)
		case 2:
			return Translate(c.Args[0], c.Args[1])
		}
	case "scale":
		switch len(c.Args) {
		case 1:
			return Scale(c.Args[0], c.Args[0])
		case 2:
			return Scale(c.Args[0], c.Args[1])
		}
	}
	return Identity()
}
