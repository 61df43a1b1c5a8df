package parser

import (
	"github.com/Nadi-System/nadi-core-sub000/attrs"
)

// ParseAttribute parses a single attribute literal such as `1.5`,
// `[1, "a"]` or `{x = 2022-01-01}`. Only blanks and comments may follow it.
func ParseAttribute(src string) (attrs.Attribute, error) {
	toks, err := Tokenize(src)
	if err != nil {
		return attrs.Attribute{}, err
	}
	cur := NewTokens(toks)
	first, ok := cur.NextNoWS(true)
	if !ok {
		return attrs.Attribute{}, cur.Error(Unclosed)
	}
	val, err := readAttribute(first, cur)
	if err != nil {
		return attrs.Attribute{}, err
	}
	if _, ok := cur.NextNoWS(true); ok {
		return attrs.Attribute{}, cur.Error(SyntaxError)
	}
	return val, nil
}

// readAttribute reads one literal starting at first, descending into arrays
// and tables. Newlines are allowed between the elements of an aggregate.
func readAttribute(first Token, cur *Tokens) (attrs.Attribute, error) {
	switch first.Kind {
	case TokenNewLine:
		return attrs.Attribute{}, cur.Error(Unclosed)
	case TokenBracketStart:
		return readArray(cur)
	case TokenBraceStart:
		return readTable(cur)
	}
	if !first.Kind.IsLiteral() {
		return attrs.Attribute{}, cur.ValueError(first.Kind.String()+" is not a value", nil)
	}
	val, err := first.Attribute()
	if err != nil {
		return attrs.Attribute{}, cur.ValueError(err.Error(), err)
	}
	return val, nil
}

func readArray(cur *Tokens) (attrs.Attribute, error) {
	vals := []attrs.Attribute{}
	wantComma := false
	for {
		tok, ok := cur.NextNoWS(true)
		if !ok {
			return attrs.Attribute{}, cur.Error(Unclosed)
		}
		if tok.Kind == TokenBracketEnd {
			return attrs.Array(vals...), nil
		}
		if wantComma {
			if tok.Kind != TokenComma {
				return attrs.Attribute{}, cur.Error(SyntaxError)
			}
			wantComma = false
			continue
		}
		val, err := readAttribute(tok, cur)
		if err != nil {
			return attrs.Attribute{}, err
		}
		vals = append(vals, val)
		wantComma = true
	}
}

func readTable(cur *Tokens) (attrs.Attribute, error) {
	tbl := attrs.NewTable()
	wantComma := false
	for {
		tok, ok := cur.NextNoWS(true)
		if !ok {
			return attrs.Attribute{}, cur.Error(Unclosed)
		}
		if tok.Kind == TokenBraceEnd {
			return attrs.TableValue(tbl), nil
		}
		if wantComma {
			if tok.Kind != TokenComma {
				return attrs.Attribute{}, cur.Error(SyntaxError)
			}
			wantComma = false
			continue
		}

		var key string
		switch tok.Kind {
		case TokenVariable, TokenString, TokenKeyword:
			key = tok.Value
		default:
			return attrs.Attribute{}, cur.ValueError(tok.Kind.String()+" is not a valid key", nil)
		}
		if _, ok := cur.NextNoWSIf(true, TokenAssignment); !ok {
			if _, more := cur.NextNoWS(true); !more {
				return attrs.Attribute{}, cur.Error(Unclosed)
			}
			return attrs.Attribute{}, cur.Error(SyntaxError)
		}
		valTok, ok := cur.NextNoWS(true)
		if !ok {
			return attrs.Attribute{}, cur.Error(Unclosed)
		}
		val, err := readAttribute(valTok, cur)
		if err != nil {
			return attrs.Attribute{}, err
		}
		tbl.Set(key, val)
		wantComma = true
	}
}

// ParseAttrFile parses TOML-like attribute text: `key = value` lines grouped
// under optional `[group.sub]` headers. Headers and dotted keys create the
// nested tables they name.
func ParseAttrFile(src string) (*attrs.Table, error) {
	toks, err := Tokenize(src)
	if err != nil {
		return nil, err
	}
	cur := NewTokens(toks)
	root := attrs.NewTable()
	group := root

	for {
		tok, ok := cur.NextNoWS(true)
		if !ok {
			return root, nil
		}
		switch tok.Kind {
		case TokenBracketStart:
			first, ok := cur.NextNoWS(false)
			if !ok {
				return nil, cur.Error(Unclosed)
			}
			path, err := readKeyPath(cur, first, TokenBracketEnd)
			if err != nil {
				return nil, err
			}
			if group, err = moveIn(cur, root, path); err != nil {
				return nil, err
			}
		case TokenVariable, TokenString, TokenKeyword:
			path, err := readKeyPath(cur, tok, TokenAssignment)
			if err != nil {
				return nil, err
			}
			valTok, ok := cur.NextNoWS(false)
			if !ok {
				return nil, cur.Error(Unclosed)
			}
			val, err := readAttribute(valTok, cur)
			if err != nil {
				return nil, err
			}
			parent, err := moveIn(cur, group, path[:len(path)-1])
			if err != nil {
				return nil, err
			}
			parent.Set(path[len(path)-1], val)
		default:
			return nil, cur.Error(SyntaxError)
		}
		if err := expectLineEnd(cur); err != nil {
			return nil, err
		}
	}
}

// readKeyPath reads `key(.key)*` starting at tok, followed by the terminator.
func readKeyPath(cur *Tokens, tok Token, terminator TokenKind) ([]string, error) {
	var path []string
	for {
		switch tok.Kind {
		case TokenVariable, TokenString, TokenKeyword:
			path = append(path, tok.Value)
		case TokenNewLine:
			return nil, cur.Error(Unclosed)
		default:
			return nil, cur.Error(SyntaxError)
		}
		next, ok := cur.NextNoWS(false)
		if !ok {
			return nil, cur.Error(Unclosed)
		}
		switch next.Kind {
		case TokenDot:
			if tok, ok = cur.NextNoWS(false); !ok {
				return nil, cur.Error(Unclosed)
			}
			continue
		case terminator:
			return path, nil
		case TokenNewLine:
			return nil, cur.Error(Unclosed)
		default:
			return nil, cur.Error(SyntaxError)
		}
	}
}

// moveIn walks path from tbl, creating missing tables. A path step that
// holds a non-table value is a syntax error.
func moveIn(cur *Tokens, tbl *attrs.Table, path []string) (*attrs.Table, error) {
	for _, key := range path {
		v, ok := tbl.Get(key)
		if !ok {
			next := attrs.NewTable()
			tbl.Set(key, attrs.TableValue(next))
			tbl = next
			continue
		}
		if v.Kind != attrs.KindTable {
			return nil, cur.Error(SyntaxError)
		}
		tbl = v.Table
	}
	return tbl, nil
}

// expectLineEnd consumes trailing blanks and comments up to the newline.
func expectLineEnd(cur *Tokens) error {
	tok, ok := cur.NextNoWS(false)
	if !ok || tok.Kind == TokenNewLine {
		return nil
	}
	return cur.Error(SyntaxError)
}
