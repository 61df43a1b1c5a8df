package parser

import "github.com/Nadi-System/nadi-core-sub000/attrs"

// Path is a directed edge between two named nodes.
type Path struct {
	Start string
	End   string
}

func (p Path) String() string {
	return quoteName(p.Start) + " -> " + quoteName(p.End)
}

// NetworkFile is the parsed form of a network topology file.
type NetworkFile struct {
	Paths []Path   // edges in file order
	Nodes []string // every node name in order of first mention
}

type netState int

const (
	netLineStart netState = iota
	netStart              // read a start name
	netArrow              // read start and ->
	netEnd                // read a full edge
)

// ParseNetwork parses lines of `a -> b` edges and bare `a` node declarations.
// Names are identifiers or quoted strings. Blank lines and comments are ignored.
func ParseNetwork(src string) (*NetworkFile, error) {
	toks, err := Tokenize(src)
	if err != nil {
		return nil, err
	}
	cur := NewTokens(toks)
	out := &NetworkFile{}
	seen := make(map[string]bool)
	mention := func(name string) {
		if !seen[name] {
			seen[name] = true
			out.Nodes = append(out.Nodes, name)
		}
	}

	state := netLineStart
	var start string
	endLine := func() error {
		switch state {
		case netStart:
			mention(start)
		case netArrow:
			return cur.Error(SyntaxError)
		}
		state = netLineStart
		return nil
	}

	for {
		tok, ok := cur.NextNoWS(false)
		if !ok {
			if err := endLine(); err != nil {
				return nil, err
			}
			return out, nil
		}
		switch tok.Kind {
		case TokenNewLine:
			if err := endLine(); err != nil {
				return nil, err
			}
		case TokenVariable, TokenString, TokenKeyword:
			switch state {
			case netLineStart:
				start = tok.Value
				state = netStart
			case netArrow:
				mention(start)
				mention(tok.Value)
				out.Paths = append(out.Paths, Path{Start: start, End: tok.Value})
				state = netEnd
			default:
				return nil, cur.Error(SyntaxError)
			}
		case TokenPathSep:
			if state != netStart {
				return nil, cur.Error(SyntaxError)
			}
			state = netArrow
		default:
			return nil, cur.Error(SyntaxError)
		}
	}
}

// quoteName renders a node or attribute name, quoting it when it would not
// read back as a bare identifier.
func quoteName(name string) string {
	return attrs.TableKey(name)
}
