package parser

import "strings"

// Tokens is a cursor over a materialized token slice. Grammars use it to look
// ahead without consuming and to build positioned errors.
type Tokens struct {
	toks []Token
	pos  int // index of the next token
}

// NewTokens wraps a token slice in a cursor.
func NewTokens(toks []Token) *Tokens {
	return &Tokens{toks: toks}
}

// Next consumes and returns the next token.
func (c *Tokens) Next() (Token, bool) {
	if c.pos >= len(c.toks) {
		return Token{}, false
	}
	tok := c.toks[c.pos]
	c.pos++
	return tok, true
}

// Peek returns the next token without consuming it.
func (c *Tokens) Peek() (Token, bool) {
	if c.pos >= len(c.toks) {
		return Token{}, false
	}
	return c.toks[c.pos], true
}

// NextNoWS consumes whitespace and comments, and newlines when newline is
// true, then consumes and returns the next token.
func (c *Tokens) NextNoWS(newline bool) (Token, bool) {
	for {
		tok, ok := c.Next()
		if !ok || !tok.IsSpace(newline) {
			return tok, ok
		}
	}
}

// PeekNoWS returns the next token that NextNoWS would return, consuming nothing.
func (c *Tokens) PeekNoWS(newline bool) (Token, bool) {
	for i := c.pos; i < len(c.toks); i++ {
		if !c.toks[i].IsSpace(newline) {
			return c.toks[i], true
		}
	}
	return Token{}, false
}

// NextIf consumes the next token only if it has the given kind.
func (c *Tokens) NextIf(kind TokenKind) (Token, bool) {
	tok, ok := c.Peek()
	if !ok || tok.Kind != kind {
		return Token{}, false
	}
	return c.Next()
}

// NextNoWSIf consumes up to and including the next non-blank token only if
// that token has the given kind.
func (c *Tokens) NextNoWSIf(newline bool, kind TokenKind) (Token, bool) {
	tok, ok := c.PeekNoWS(newline)
	if !ok || tok.Kind != kind {
		return Token{}, false
	}
	return c.NextNoWS(newline)
}

// current returns the most recently consumed token.
func (c *Tokens) current() (Token, bool) {
	if c.pos == 0 {
		return Token{}, false
	}
	return c.toks[c.pos-1], true
}

// LineStr reconstructs the full source line of the most recently consumed token.
func (c *Tokens) LineStr() string {
	cur, ok := c.current()
	if !ok {
		if len(c.toks) == 0 {
			return ""
		}
		cur = c.toks[0]
	}
	var sb strings.Builder
	for _, tok := range c.toks {
		if tok.Kind == TokenNewLine {
			if tok.Pos.Line == cur.Pos.Line {
				break
			}
			continue
		}
		if tok.Pos.Line == cur.Pos.Line {
			sb.WriteString(tok.Text)
		}
	}
	return sb.String()
}

// Error builds a ParseError positioned at the most recently consumed token.
func (c *Tokens) Error(kind ErrorKind) *ParseError {
	pos := Position{Line: 1, Column: 1}
	if cur, ok := c.current(); ok {
		pos = cur.Pos
	}
	return &ParseError{Kind: kind, Pos: pos, LineStr: c.LineStr()}
}

// ValueError builds a ValueError with the given reason.
func (c *Tokens) ValueError(reason string, cause error) *ParseError {
	err := c.Error(ValueError)
	err.Reason = reason
	err.Cause = cause
	return err
}

// LogicalError reports a state the grammar should never reach.
func (c *Tokens) LogicalError(reason string) *ParseError {
	err := c.Error(LogicalError)
	err.Reason = reason
	return err
}
