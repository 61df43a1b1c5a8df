// Package parser implements the text formats of nadi: attribute values and
// attribute files, network topology files, and task scripts.
//
// All grammars share one tokenizer. Unlike a skipping lexer it keeps
// whitespace, newlines and comments in the token stream so that errors can
// reconstruct the offending source line. The layers are:
//
//   - Lexer: converts source text into a complete token slice.
//   - Tokens: a cursor with lookahead and conditional consumption.
//   - Grammars: ParseAttribute, ParseAttrFile, ParseNetwork, ParseTasks and
//     ParsePropagation.
//   - AST types: Task, TaskInput, FunctionCall, Propagation, Condition.
//
// The task grammar is an explicit state machine. Nested function calls are
// kept on a stack of call frames, so a call used as an argument resumes its
// parent's argument list when it closes.
//
// Usage:
//
//	tasks, err := parser.ParseTasks(`node<inverse>.area = 1.5`)
//	if err != nil {
//	    var perr *parser.ParseError
//	    if errors.As(err, &perr) {
//	        fmt.Println(perr.UserMessage("tasks.nadi"))
//	    }
//	    return err
//	}
//
// Lexical errors are reported as *TokenError and grammar errors as
// *ParseError.
package parser
