package parser

import (
	"fmt"
	"strings"
)

// TokenError reports input that matches no token rule.
type TokenError struct {
	Pos     Position
	LineStr string
}

func (e *TokenError) Error() string {
	return fmt.Sprintf("line %d, col %d: invalid token", e.Pos.Line, e.Pos.Column)
}

// UserMessage renders the error with the offending line and a caret.
func (e *TokenError) UserMessage(filename string) string {
	return userMessage("Invalid Token", "Invalid Token", filename, e.Pos, e.LineStr)
}

// ErrorKind classifies a ParseError.
type ErrorKind int

const (
	SyntaxError ErrorKind = iota
	Unclosed
	InvalidToken
	ValueError
	InvalidPropagation
	InvalidLineStart
	LogicalError
)

var errorKindNames = map[ErrorKind]string{
	SyntaxError:        "SyntaxError",
	Unclosed:           "Unclosed",
	InvalidToken:       "InvalidToken",
	ValueError:         "ValueError",
	InvalidPropagation: "InvalidPropagation",
	InvalidLineStart:   "InvalidLineStart",
	LogicalError:       "LogicalError",
}

func (k ErrorKind) String() string {
	if name, ok := errorKindNames[k]; ok {
		return name
	}
	return "unknown"
}

// ParseError reports a token that is not valid where it appears.
type ParseError struct {
	Kind    ErrorKind
	Reason  string // detail for ValueError and LogicalError
	Pos     Position
	LineStr string
	Cause   error
}

// Message returns the user-facing description of the error kind.
func (e *ParseError) Message() string {
	switch e.Kind {
	case LogicalError:
		return fmt.Sprintf("Unexpected Logic problem: %s, please contact dev", e.Reason)
	case ValueError:
		return fmt.Sprintf("Invalid Value: %s", e.Reason)
	case InvalidLineStart:
		return "Lines should start with a keyword"
	case Unclosed:
		return "Incomplete Input"
	case InvalidPropagation:
		return "Invalid propagation value"
	case InvalidToken:
		return "Invalid Token"
	}
	return "Invalid Syntax"
}

func (e *ParseError) Error() string {
	if e.Pos.Line > 0 {
		return fmt.Sprintf("line %d, col %d: %s", e.Pos.Line, e.Pos.Column, e.Message())
	}
	return e.Message()
}

func (e *ParseError) Unwrap() error { return e.Cause }

// UserMessage renders the error with the offending line and a caret under
// the column, prefixed with filename when it is not empty.
func (e *ParseError) UserMessage(filename string) string {
	return userMessage("Parse Error", e.Message(), filename, e.Pos, e.LineStr)
}

func userMessage(title, msg, filename string, pos Position, linestr string) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Error: %s at Line %d Column %d\n", title, pos.Line, pos.Column)
	if filename != "" {
		fmt.Fprintf(&sb, "  -> %s:%d:%d\n", filename, pos.Line, pos.Column)
	}
	fmt.Fprintf(&sb, "  %s\n", linestr)
	col := max(pos.Column, 1)
	fmt.Fprintf(&sb, "  %s^ %s", strings.Repeat(" ", col-1), msg)
	return sb.String()
}
