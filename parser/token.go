package parser

// TokenKind identifies the type of a lexical token.
type TokenKind int

const (
	TokenNewLine      TokenKind = iota // \n, \r\n or \n\r
	TokenWhiteSpace                    // spaces and tabs
	TokenComment                       // # to end of line
	TokenKeyword                       // node, network, env, exit, help
	TokenAngleStart                    // <
	TokenAngleEnd                      // >
	TokenParenStart                    // (
	TokenParenEnd                      // )
	TokenBraceStart                    // {
	TokenBraceEnd                      // }
	TokenBracketStart                  // [
	TokenBracketEnd                    // ]
	TokenPathSep                       // ->
	TokenComma                         // ,
	TokenDot                           // .
	TokenAnd                           // &
	TokenOr                            // |
	TokenNot                           // !
	TokenVariable                      // identifier not followed by (
	TokenFunction                      // identifier, optionally plugin-qualified, followed by (
	TokenAssignment                    // =
	TokenBool                          // true | false
	TokenString                        // "..." with escape processing
	TokenInteger                       // [+-]?[0-9]+(_[0-9]+)*
	TokenFloat                         // integer with fraction and/or exponent
	TokenDate                          // 2024-01-31
	TokenTime                          // 10:30[:00[.5]]
	TokenDateTime                      // date, space or T, time
	TokenQuote                         // lone "; Tokenize reports unterminated strings instead
)

var tokenNames = map[TokenKind]string{
	TokenNewLine:      "newline",
	TokenWhiteSpace:   "whitespace",
	TokenComment:      "comment",
	TokenKeyword:      "keyword",
	TokenAngleStart:   "'<'",
	TokenAngleEnd:     "'>'",
	TokenParenStart:   "'('",
	TokenParenEnd:     "')'",
	TokenBraceStart:   "'{'",
	TokenBraceEnd:     "'}'",
	TokenBracketStart: "'['",
	TokenBracketEnd:   "']'",
	TokenPathSep:      "'->'",
	TokenComma:        "','",
	TokenDot:          "'.'",
	TokenAnd:          "'&'",
	TokenOr:           "'|'",
	TokenNot:          "'!'",
	TokenVariable:     "variable",
	TokenFunction:     "function",
	TokenAssignment:   "'='",
	TokenBool:         "bool",
	TokenString:       "string",
	TokenInteger:      "integer",
	TokenFloat:        "float",
	TokenDate:         "date",
	TokenTime:         "time",
	TokenDateTime:     "datetime",
	TokenQuote:        "'\"'",
}

func (k TokenKind) String() string {
	if name, ok := tokenNames[k]; ok {
		return name
	}
	return "unknown"
}

// IsLiteral reports whether tokens of this kind carry a scalar attribute value.
func (k TokenKind) IsLiteral() bool {
	switch k {
	case TokenBool, TokenString, TokenInteger, TokenFloat, TokenDate, TokenTime, TokenDateTime:
		return true
	}
	return false
}

// Keyword is one of the reserved statement words of the task language.
type Keyword int

const (
	KeywordNone Keyword = iota
	KeywordNode
	KeywordNetwork
	KeywordEnv
	KeywordExit
	KeywordHelp
)

var keywords = map[string]Keyword{
	"node":    KeywordNode,
	"network": KeywordNetwork,
	"env":     KeywordEnv,
	"exit":    KeywordExit,
	"help":    KeywordHelp,
}

func (k Keyword) String() string {
	for name, kw := range keywords {
		if kw == k {
			return name
		}
	}
	return ""
}

// Position is a location in the source text. Line and Column are 1-based.
type Position struct {
	Line   int
	Column int
	Offset int
}

// Token is a single lexical unit produced by Tokenize. Text is the exact
// source slice; Value holds the decoded content of string tokens and the
// qualified name of function tokens.
type Token struct {
	Kind    TokenKind
	Keyword Keyword // populated when Kind == TokenKeyword
	Text    string
	Value   string
	Pos     Position
}

// Is reports whether the token is the given keyword.
func (t Token) Is(kw Keyword) bool {
	return t.Kind == TokenKeyword && t.Keyword == kw
}

// IsSpace reports whether the token is whitespace or a comment, and also a
// newline when newline is true.
func (t Token) IsSpace(newline bool) bool {
	switch t.Kind {
	case TokenWhiteSpace, TokenComment:
		return true
	case TokenNewLine:
		return newline
	}
	return false
}
