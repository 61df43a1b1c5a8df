package parser

import (
	"strconv"
	"strings"
)

// Lexer splits task, attribute and network source text into tokens. Unlike a
// skipping lexer it keeps whitespace, newlines and comments, so the token
// stream covers the input without gaps.
type Lexer struct {
	src  string
	pos  int // current byte offset
	line int // current line (1-based)
	col  int // current column (1-based)
}

// NewLexer creates a new Lexer for the given source.
func NewLexer(src string) *Lexer {
	return &Lexer{src: src, line: 1, col: 1}
}

// Tokenize converts src into its full token slice, or returns a *TokenError
// at the first byte that starts no token.
func Tokenize(src string) ([]Token, error) {
	lex := NewLexer(src)
	var tokens []Token
	for !lex.atEnd() {
		tok, err := lex.Next()
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, tok)
	}
	return tokens, nil
}

// Next scans one token. Rules are tried in priority order; the first that
// matches wins.
func (l *Lexer) Next() (Token, error) {
	rules := []func() (TokenKind, int, bool){
		l.matchWhiteSpace,
		l.matchNewLine,
		l.matchComment,
		l.matchDateTime,
		l.matchDate,
		l.matchTime,
		l.matchBool,
		l.matchFloat,
		l.matchInteger,
	}

	if l.peek() == '"' {
		return l.scanString()
	}
	for _, rule := range rules {
		if kind, n, ok := rule(); ok {
			return l.emit(kind, n), nil
		}
	}
	if isIdentStart(l.peek()) {
		return l.scanIdentifier(), nil
	}
	if kind, n, ok := l.matchSymbol(); ok {
		return l.emit(kind, n), nil
	}
	return Token{}, l.errorHere()
}

func (l *Lexer) currentPos() Position {
	return Position{Line: l.line, Column: l.col, Offset: l.pos}
}

func (l *Lexer) atEnd() bool {
	return l.pos >= len(l.src)
}

func (l *Lexer) peek() byte {
	return l.byteAt(l.pos)
}

func (l *Lexer) byteAt(i int) byte {
	if i >= len(l.src) {
		return 0
	}
	return l.src[i]
}

func (l *Lexer) advance() byte {
	ch := l.src[l.pos]
	l.pos++
	if ch == '\n' {
		l.line++
		l.col = 1
	} else {
		l.col++
	}
	return ch
}

// emit consumes n bytes as a token of the given kind.
func (l *Lexer) emit(kind TokenKind, n int) Token {
	pos := l.currentPos()
	start := l.pos
	for range n {
		l.advance()
	}
	text := l.src[start:l.pos]
	return Token{Kind: kind, Text: text, Value: text, Pos: pos}
}

func (l *Lexer) errorHere() *TokenError {
	return &TokenError{Pos: l.currentPos(), LineStr: sourceLine(l.src, l.pos)}
}

// sourceLine returns the full line of src that contains offset.
func sourceLine(src string, offset int) string {
	start := strings.LastIndexByte(src[:offset], '\n') + 1
	end := strings.IndexAny(src[offset:], "\r\n")
	if end < 0 {
		return src[start:]
	}
	return src[start : offset+end]
}

func (l *Lexer) matchWhiteSpace() (TokenKind, int, bool) {
	n := 0
	for c := l.byteAt(l.pos + n); c == ' ' || c == '\t'; c = l.byteAt(l.pos + n) {
		n++
	}
	return TokenWhiteSpace, n, n > 0
}

func (l *Lexer) matchNewLine() (TokenKind, int, bool) {
	rest := l.src[l.pos:]
	switch {
	case strings.HasPrefix(rest, "\n\r"), strings.HasPrefix(rest, "\r\n"):
		return TokenNewLine, 2, true
	case strings.HasPrefix(rest, "\n"):
		return TokenNewLine, 1, true
	}
	return TokenNewLine, 0, false
}

func (l *Lexer) matchComment() (TokenKind, int, bool) {
	if l.peek() != '#' {
		return TokenComment, 0, false
	}
	n := strings.IndexAny(l.src[l.pos:], "\r\n")
	if n < 0 {
		n = len(l.src) - l.pos
	}
	return TokenComment, n, true
}

// digitGroups matches digit runs joined by sep, requiring at least two groups.
func (l *Lexer) digitGroups(at int, sep byte) int {
	n := digitRun(l.src, at)
	if n == 0 {
		return 0
	}
	groups := 1
	for l.byteAt(at+n) == sep {
		m := digitRun(l.src, at+n+1)
		if m == 0 {
			break
		}
		n += 1 + m
		groups++
	}
	if groups < 2 {
		return 0
	}
	return n
}

func (l *Lexer) matchDate() (TokenKind, int, bool) {
	n := l.digitGroups(l.pos, '-')
	return TokenDate, n, n > 0
}

func (l *Lexer) matchTime() (TokenKind, int, bool) {
	n := l.timeLen(l.pos)
	return TokenTime, n, n > 0
}

// timeLen matches HH:MM[:SS][.fraction] style digit groups.
func (l *Lexer) timeLen(at int) int {
	n := l.digitGroups(at, ':')
	if n == 0 {
		return 0
	}
	if l.byteAt(at+n) == '.' {
		if m := digitRun(l.src, at+n+1); m > 0 {
			n += 1 + m
		}
	}
	return n
}

func (l *Lexer) matchDateTime() (TokenKind, int, bool) {
	d := l.digitGroups(l.pos, '-')
	if d == 0 {
		return TokenDateTime, 0, false
	}
	if sep := l.byteAt(l.pos + d); sep != ' ' && sep != 'T' {
		return TokenDateTime, 0, false
	}
	t := l.timeLen(l.pos + d + 1)
	if t == 0 {
		return TokenDateTime, 0, false
	}
	n := d + 1 + t
	n += l.offsetLen(l.pos + n)
	return TokenDateTime, n, true
}

// offsetLen matches a trailing Z or ±HH:MM UTC offset.
func (l *Lexer) offsetLen(at int) int {
	switch c := l.byteAt(at); {
	case c == 'Z' && !isIdentPart(l.byteAt(at+1)):
		return 1
	case c == '+' || c == '-':
		h := digitRun(l.src, at+1)
		if h == 2 && l.byteAt(at+3) == ':' && digitRun(l.src, at+4) == 2 {
			return 6
		}
	}
	return 0
}

func (l *Lexer) matchBool() (TokenKind, int, bool) {
	for _, word := range []string{"true", "false"} {
		if strings.HasPrefix(l.src[l.pos:], word) && !l.identContinues(l.pos+len(word)) {
			return TokenBool, len(word), true
		}
	}
	return TokenBool, 0, false
}

// identContinues reports whether an identifier would keep going at offset i.
func (l *Lexer) identContinues(i int) bool {
	c := l.byteAt(i)
	return isIdentPart(c) || (c == '-' && isIdentPart(l.byteAt(i+1)))
}

// integerLen matches [+-]?digits(_digits)*.
func (l *Lexer) integerLen(at int) int {
	n := 0
	if c := l.byteAt(at); c == '+' || c == '-' {
		n++
	}
	d := digitRun(l.src, at+n)
	if d == 0 {
		return 0
	}
	n += d
	for l.byteAt(at+n) == '_' {
		m := digitRun(l.src, at+n+1)
		if m == 0 {
			break
		}
		n += 1 + m
	}
	return n
}

func (l *Lexer) matchInteger() (TokenKind, int, bool) {
	n := l.integerLen(l.pos)
	return TokenInteger, n, n > 0
}

// matchFloat requires a fractional part or an exponent; "1." is not a float
// and leaves the dot for the next token.
func (l *Lexer) matchFloat() (TokenKind, int, bool) {
	n := l.integerLen(l.pos)
	if n == 0 {
		return TokenFloat, 0, false
	}
	isFloat := false
	if l.byteAt(l.pos+n) == '.' {
		if m := digitRun(l.src, l.pos+n+1); m > 0 {
			n += 1 + m
			isFloat = true
		}
	}
	if c := l.byteAt(l.pos + n); c == 'e' || c == 'E' {
		if m := l.integerLen(l.pos + n + 1); m > 0 {
			n += 1 + m
			isFloat = true
		}
	}
	return TokenFloat, n, isFloat
}

func (l *Lexer) matchSymbol() (TokenKind, int, bool) {
	if strings.HasPrefix(l.src[l.pos:], "->") {
		return TokenPathSep, 2, true
	}
	switch l.peek() {
	case '<':
		return TokenAngleStart, 1, true
	case '>':
		return TokenAngleEnd, 1, true
	case '(':
		return TokenParenStart, 1, true
	case ')':
		return TokenParenEnd, 1, true
	case '[':
		return TokenBracketStart, 1, true
	case ']':
		return TokenBracketEnd, 1, true
	case '{':
		return TokenBraceStart, 1, true
	case '}':
		return TokenBraceEnd, 1, true
	case '.':
		return TokenDot, 1, true
	case ',':
		return TokenComma, 1, true
	case '=':
		return TokenAssignment, 1, true
	case '&':
		return TokenAnd, 1, true
	case '|':
		return TokenOr, 1, true
	case '!':
		return TokenNot, 1, true
	}
	return 0, 0, false
}

// identLen matches [A-Za-z_] followed by alphanumeric runs that may be joined
// by single hyphens.
func (l *Lexer) identLen(at int) int {
	if !isIdentStart(l.byteAt(at)) {
		return 0
	}
	n := 1
	for {
		c := l.byteAt(at + n)
		switch {
		case isIdentPart(c):
			n++
		case c == '-' && isIdentPart(l.byteAt(at+n+1)):
			n += 2
		default:
			return n
		}
	}
}

// scanIdentifier classifies an identifier as a keyword, a function (the next
// non-blank character is '(' possibly after one ".segment" qualifier) or a
// variable. A qualifier that does not lead to '(' is left for the next tokens.
func (l *Lexer) scanIdentifier() Token {
	n := l.identLen(l.pos)
	word := l.src[l.pos : l.pos+n]
	if kw, ok := keywords[word]; ok {
		tok := l.emit(TokenKeyword, n)
		tok.Keyword = kw
		return tok
	}
	if l.parenFollows(l.pos + n) {
		return l.emit(TokenFunction, n)
	}
	if l.byteAt(l.pos+n) == '.' {
		if m := l.identLen(l.pos + n + 1); m > 0 && l.parenFollows(l.pos+n+1+m) {
			return l.emit(TokenFunction, n+1+m)
		}
	}
	return l.emit(TokenVariable, n)
}

func (l *Lexer) parenFollows(i int) bool {
	for c := l.byteAt(i); c == ' ' || c == '\t'; c = l.byteAt(i) {
		i++
	}
	return l.byteAt(i) == '('
}

func (l *Lexer) scanString() (Token, error) {
	pos := l.currentPos()
	start := l.pos
	l.advance() // consume opening "

	var sb strings.Builder
	for {
		if l.atEnd() {
			return Token{}, &TokenError{Pos: pos, LineStr: sourceLine(l.src, start)}
		}
		chPos := l.currentPos()
		ch := l.advance()
		if ch == '"' {
			return Token{Kind: TokenString, Text: l.src[start:l.pos], Value: sb.String(), Pos: pos}, nil
		}
		if ch != '\\' {
			sb.WriteByte(ch)
			continue
		}
		if l.atEnd() {
			return Token{}, &TokenError{Pos: pos, LineStr: sourceLine(l.src, start)}
		}
		esc := l.advance()
		switch esc {
		case '"':
			sb.WriteByte('"')
		case '\\':
			sb.WriteByte('\\')
		case '/':
			sb.WriteByte('/')
		case 'n':
			sb.WriteByte('\n')
		case 't':
			sb.WriteByte('\t')
		case 'r':
			sb.WriteByte('\r')
		case 'b':
			sb.WriteByte('\b')
		case 'f':
			sb.WriteByte('\f')
		case 'u':
			r, ok := l.scanUnicodeEscape()
			if !ok {
				return Token{}, &TokenError{Pos: chPos, LineStr: sourceLine(l.src, chPos.Offset)}
			}
			sb.WriteRune(r)
		case ' ', '\t', '\n', '\r':
			// An escaped line break or blank swallows the following blanks.
			for !l.atEnd() && strings.IndexByte(" \t\r\n", l.peek()) >= 0 {
				l.advance()
			}
		default:
			// Preserve unknown escapes as-is
			sb.WriteByte('\\')
			sb.WriteByte(esc)
		}
	}
}

// scanUnicodeEscape reads the hex digits after \u, either {1-6 digits} or
// exactly four digits.
func (l *Lexer) scanUnicodeEscape() (rune, bool) {
	var hex string
	if l.peek() == '{' {
		end := strings.IndexByte(l.src[l.pos:], '}')
		if end < 2 || end > 7 {
			return 0, false
		}
		hex = l.src[l.pos+1 : l.pos+end]
		for range end + 1 {
			l.advance()
		}
	} else {
		if l.pos+4 > len(l.src) {
			return 0, false
		}
		hex = l.src[l.pos : l.pos+4]
		for range 4 {
			l.advance()
		}
	}
	n, err := strconv.ParseUint(hex, 16, 32)
	if err != nil || n > 0x10FFFF {
		return 0, false
	}
	return rune(n), true
}

func digitRun(s string, at int) int {
	n := 0
	for at+n < len(s) && isDigit(s[at+n]) {
		n++
	}
	return n
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

func isIdentStart(ch byte) bool {
	return (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') || ch == '_'
}

func isIdentPart(ch byte) bool {
	return isIdentStart(ch) || isDigit(ch)
}
