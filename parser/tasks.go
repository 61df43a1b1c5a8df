package parser

import (
	"strings"

	"github.com/Nadi-System/nadi-core-sub000/attrs"
)

// ParseTasks parses a task script into its statements. The first error
// aborts the parse. An exit statement ends the script; nothing after it is
// parsed.
func ParseTasks(src string) ([]Task, error) {
	if !strings.HasSuffix(src, "\n") {
		src += "\n"
	}
	toks, err := Tokenize(src)
	if err != nil {
		return nil, err
	}
	p := newTaskParser(toks)
	for {
		tok, ok := p.cur.NextNoWS(false)
		if !ok {
			return p.finish()
		}
		if err := p.step(tok); err != nil {
			return nil, err
		}
		if p.exited {
			return p.tasks, nil
		}
	}
}

// ParsePropagation parses a stand-alone node selector: a bare name such as
// "inverse", or one of "<inverse>", "[a, b]", "[a -> b]" and "(cond)".
func ParsePropagation(src string) (Propagation, error) {
	toks, err := Tokenize(src)
	if err != nil {
		return Propagation{}, err
	}
	p := newTaskParser(toks)
	p.keyword = KeywordNode
	p.state = statePropagation

	first, ok := p.cur.NextNoWS(true)
	if !ok {
		return Propagation{}, p.cur.Error(Unclosed)
	}
	switch first.Kind {
	case TokenVariable:
		kind, ok := namedPropagations[first.Value]
		if !ok {
			return Propagation{}, p.cur.Error(InvalidPropagation)
		}
		p.prop = Propagation{Kind: kind}
		p.propSet = true
	case TokenAngleStart, TokenParenStart, TokenBracketStart:
		if err := p.step(first); err != nil {
			return Propagation{}, err
		}
	default:
		return Propagation{}, p.cur.Error(SyntaxError)
	}
	for p.state != statePropagation || !p.propSet {
		tok, ok := p.cur.NextNoWS(true)
		if !ok {
			return Propagation{}, p.cur.Error(Unclosed)
		}
		if err := p.step(tok); err != nil {
			return Propagation{}, err
		}
	}
	if _, ok := p.cur.NextNoWS(true); ok {
		return Propagation{}, p.cur.Error(SyntaxError)
	}
	return p.prop, nil
}

// ValidVariableName reports whether s can be used as a dotted variable or
// attribute name in a task script.
func ValidVariableName(s string) bool {
	for _, part := range strings.Split(s, ".") {
		if !attrs.IsIdentifier(part) || attrs.TableKey(part) != part {
			return false
		}
	}
	return true
}

type parseState int

const (
	stateNone            parseState = iota
	stateHelp                       // after help, optionally with a keyword
	statePropagation                // after node or network
	statePropagationList            // inside [a, b
	statePropagationPath            // inside [a ->
	stateAttribute                  // expecting an attribute name
	stateAssignment                 // have a target, expecting = or line end
	stateRhs                        // after =
	stateFunction                   // have a function name, expecting (
	stateFuncArgs                   // inside a call's argument list
	stateFuncKeyArgs                // after key= inside an argument list
)

// callFrame is a function call whose argument list is being read.
type callFrame struct {
	call      *FunctionCall
	key       string // pending keyword argument name
	needComma bool
}

type taskParser struct {
	cur    *Tokens
	state  parseState
	tasks  []Task
	exited bool

	keyword  Keyword // statement keyword
	helpKw   Keyword
	prop     Propagation
	propSet  bool
	dot      bool // the '.' before the attribute name was read
	attr     string
	names    []string // propagation list
	listSep  bool     // a comma was read inside the propagation list
	funcName string
	frames   []*callFrame
}

func newTaskParser(toks []Token) *taskParser {
	return &taskParser{cur: NewTokens(toks)}
}

// reset prepares for the next statement.
func (p *taskParser) reset() {
	p.state = stateNone
	p.keyword = KeywordNone
	p.helpKw = KeywordNone
	p.prop = Propagation{}
	p.propSet = false
	p.dot = false
	p.attr = ""
	p.names = nil
	p.listSep = false
	p.funcName = ""
	p.frames = nil
}

// emit finishes the current statement with the given input.
func (p *taskParser) emit(in TaskInput) {
	t := Task{Attribute: p.attr, Input: in}
	switch p.keyword {
	case KeywordNode:
		t.Kind = TaskNode
		t.Propagation = p.prop
	case KeywordNetwork:
		t.Kind = TaskNetwork
		t.Propagation = p.prop
	case KeywordEnv:
		t.Kind = TaskEnv
	}
	p.tasks = append(p.tasks, t)
	p.reset()
}

func (p *taskParser) emitHelp(name string) {
	p.tasks = append(p.tasks, HelpTask(p.helpKw, name))
	p.reset()
}

func (p *taskParser) finish() ([]Task, error) {
	switch p.state {
	case stateNone:
		return p.tasks, nil
	case stateAttribute, stateAssignment:
		if p.keyword != KeywordNone {
			p.emit(TaskInput{})
			return p.tasks, nil
		}
	case stateHelp:
		p.emitHelp("")
		return p.tasks, nil
	}
	return nil, p.cur.Error(Unclosed)
}

func (p *taskParser) step(tok Token) error {
	if tok.Kind == TokenQuote {
		return p.cur.Error(InvalidToken)
	}
	switch p.state {
	case stateNone:
		return p.stepNone(tok)
	case stateHelp:
		return p.stepHelp(tok)
	case statePropagation:
		return p.stepPropagation(tok)
	case statePropagationList, statePropagationPath:
		return p.stepPropagationList(tok)
	case stateAttribute:
		return p.stepAttribute(tok)
	case stateAssignment:
		return p.stepAssignment(tok)
	case stateRhs:
		return p.stepRhs(tok)
	case stateFunction:
		return p.stepFunction(tok)
	case stateFuncArgs:
		return p.stepFuncArgs(tok)
	case stateFuncKeyArgs:
		return p.stepFuncKeyArgs(tok)
	}
	return p.cur.LogicalError("unknown parser state")
}

func (p *taskParser) stepNone(tok Token) error {
	switch tok.Kind {
	case TokenNewLine:
		return nil
	case TokenKeyword:
		return p.startKeyword(tok)
	}
	return p.cur.Error(InvalidLineStart)
}

func (p *taskParser) startKeyword(tok Token) error {
	p.reset()
	p.keyword = tok.Keyword
	switch tok.Keyword {
	case KeywordNode, KeywordNetwork:
		p.state = statePropagation
	case KeywordEnv:
		p.state = stateAttribute
	case KeywordHelp:
		p.keyword = KeywordNone
		p.state = stateHelp
	case KeywordExit:
		p.tasks = append(p.tasks, ExitTask())
		p.exited = true
	default:
		return p.cur.LogicalError("unknown keyword " + tok.Text)
	}
	return nil
}

// flush ends a statement that has no input and starts a new one at tok.
func (p *taskParser) flush(tok Token) error {
	p.emit(TaskInput{})
	return p.startKeyword(tok)
}

func (p *taskParser) stepHelp(tok Token) error {
	switch tok.Kind {
	case TokenNewLine:
		p.emitHelp("")
		return nil
	case TokenKeyword:
		if p.helpKw == KeywordNone {
			switch tok.Keyword {
			case KeywordNode, KeywordNetwork, KeywordEnv:
				p.helpKw = tok.Keyword
				return nil
			}
		}
		p.emitHelp("")
		return p.startKeyword(tok)
	case TokenVariable, TokenString:
		name, err := p.readDottedName(tok)
		if err != nil {
			return err
		}
		p.emitHelp(name)
		return nil
	}
	return p.cur.Error(SyntaxError)
}

func (p *taskParser) stepPropagation(tok Token) error {
	switch tok.Kind {
	case TokenAngleStart, TokenParenStart, TokenBracketStart:
		if p.propSet {
			return p.cur.Error(SyntaxError)
		}
		switch tok.Kind {
		case TokenAngleStart:
			kind, err := readNamedPropagation(p.cur)
			if err != nil {
				return err
			}
			p.prop = Propagation{Kind: kind}
			p.propSet = true
		case TokenParenStart:
			kind, cond, err := readConditional(p.cur)
			if err != nil {
				return err
			}
			p.prop = Propagation{Kind: kind, Condition: cond}
			p.propSet = true
		default:
			p.state = statePropagationList
		}
		return nil
	case TokenDot:
		p.dot = true
		p.state = stateAttribute
		return nil
	case TokenFunction:
		p.funcName = tok.Text
		p.state = stateFunction
		return nil
	case TokenNewLine:
		p.emit(TaskInput{})
		return nil
	case TokenKeyword:
		return p.flush(tok)
	}
	return p.cur.Error(SyntaxError)
}

func (p *taskParser) stepPropagationList(tok Token) error {
	switch tok.Kind {
	case TokenVariable, TokenString, TokenKeyword:
		if len(p.names) > 0 && (p.state == statePropagationList && !p.listSep ||
			p.state == statePropagationPath && len(p.names) == 2) {
			return p.cur.Error(SyntaxError)
		}
		p.names = append(p.names, tok.Value)
		p.listSep = false
		return nil
	case TokenComma:
		if p.state != statePropagationList || len(p.names) == 0 || p.listSep {
			return p.cur.Error(SyntaxError)
		}
		p.listSep = true
		return nil
	case TokenPathSep:
		if p.state != statePropagationList || len(p.names) != 1 || p.listSep {
			return p.cur.Error(SyntaxError)
		}
		p.state = statePropagationPath
		return nil
	case TokenBracketEnd:
		return p.closePropagationList()
	case TokenNewLine:
		if p.state == statePropagationPath && len(p.names) == 2 {
			if err := p.closePropagationList(); err != nil {
				return err
			}
			p.emit(TaskInput{})
			return nil
		}
		return p.cur.Error(Unclosed)
	}
	return p.cur.Error(SyntaxError)
}

func (p *taskParser) closePropagationList() error {
	if p.state == statePropagationPath {
		if len(p.names) != 2 {
			return p.cur.Error(SyntaxError)
		}
		p.prop = Propagation{Kind: PropPath, Path: Path{Start: p.names[0], End: p.names[1]}}
	} else {
		p.prop = Propagation{Kind: PropList, Names: p.names}
	}
	p.names = nil
	p.listSep = false
	p.propSet = true
	p.state = statePropagation
	return nil
}

func (p *taskParser) stepAttribute(tok Token) error {
	switch tok.Kind {
	case TokenDot:
		if p.dot {
			return p.cur.Error(SyntaxError)
		}
		p.dot = true
		return nil
	case TokenVariable:
		if !p.dot {
			return p.cur.Error(SyntaxError)
		}
		name, err := p.readDottedName(tok)
		if err != nil {
			return err
		}
		p.attr = name
		p.state = stateAssignment
		return nil
	case TokenFunction:
		if p.dot {
			return p.cur.Error(SyntaxError)
		}
		p.funcName = tok.Text
		p.state = stateFunction
		return nil
	case TokenNewLine:
		if p.dot {
			return p.cur.Error(Unclosed)
		}
		p.emit(TaskInput{})
		return nil
	case TokenKeyword:
		if p.dot {
			return p.cur.Error(SyntaxError)
		}
		return p.flush(tok)
	}
	return p.cur.Error(SyntaxError)
}

func (p *taskParser) stepAssignment(tok Token) error {
	switch tok.Kind {
	case TokenAssignment:
		p.state = stateRhs
		return nil
	case TokenNewLine:
		p.emit(TaskInput{})
		return nil
	case TokenKeyword:
		return p.flush(tok)
	}
	return p.cur.Error(SyntaxError)
}

func (p *taskParser) stepRhs(tok Token) error {
	switch tok.Kind {
	case TokenNewLine:
		return p.cur.Error(Unclosed)
	case TokenFunction:
		p.funcName = tok.Text
		p.state = stateFunction
		return nil
	}
	in, err := p.readValue(tok)
	if err != nil {
		return err
	}
	p.emit(in)
	return nil
}

func (p *taskParser) stepFunction(tok Token) error {
	if tok.Kind != TokenParenStart {
		return p.cur.LogicalError("function name without argument list")
	}
	p.frames = append(p.frames, &callFrame{call: NewFunctionCall(p.funcName)})
	p.funcName = ""
	p.state = stateFuncArgs
	return nil
}

func (p *taskParser) frame() *callFrame {
	return p.frames[len(p.frames)-1]
}

func (p *taskParser) stepFuncArgs(tok Token) error {
	if len(p.frames) == 0 {
		return p.cur.LogicalError("argument list without a call")
	}
	f := p.frame()
	switch tok.Kind {
	case TokenNewLine:
		return nil
	case TokenParenEnd:
		return p.closeCall()
	case TokenComma:
		if !f.needComma {
			return p.cur.Error(SyntaxError)
		}
		f.needComma = false
		return nil
	}
	if f.needComma {
		return p.cur.Error(SyntaxError)
	}

	switch tok.Kind {
	case TokenFunction:
		p.funcName = tok.Text
		p.state = stateFunction
		return nil
	case TokenVariable, TokenString, TokenKeyword:
		if _, ok := p.cur.NextNoWSIf(false, TokenAssignment); ok {
			if _, dup := f.call.Kwargs[tok.Value]; dup {
				return p.cur.ValueError("duplicate keyword argument "+tok.Value, nil)
			}
			f.key = tok.Value
			p.state = stateFuncKeyArgs
			return nil
		}
	}
	in, err := p.readValue(tok)
	if err != nil {
		return err
	}
	f.call.Args = append(f.call.Args, in)
	f.needComma = true
	return nil
}

func (p *taskParser) stepFuncKeyArgs(tok Token) error {
	if len(p.frames) == 0 {
		return p.cur.LogicalError("keyword argument without a call")
	}
	switch tok.Kind {
	case TokenNewLine:
		return nil
	case TokenFunction:
		p.funcName = tok.Text
		p.state = stateFunction
		return nil
	}
	in, err := p.readValue(tok)
	if err != nil {
		return err
	}
	p.attach(in)
	return nil
}

// attach stores a finished argument in the innermost open call.
func (p *taskParser) attach(in TaskInput) {
	f := p.frame()
	if f.key != "" {
		f.call.Kwargs[f.key] = in
		f.key = ""
	} else {
		f.call.Args = append(f.call.Args, in)
	}
	f.needComma = true
	p.state = stateFuncArgs
}

func (p *taskParser) closeCall() error {
	f := p.frame()
	if f.key != "" {
		return p.cur.Error(SyntaxError)
	}
	p.frames = p.frames[:len(p.frames)-1]
	in := FunctionInput(f.call)
	if len(p.frames) == 0 {
		p.emit(in)
		return nil
	}
	p.attach(in)
	return nil
}

// readValue reads a variable reference or literal value starting at tok.
func (p *taskParser) readValue(tok Token) (TaskInput, error) {
	switch tok.Kind {
	case TokenVariable:
		name, err := p.readDottedName(tok)
		if err != nil {
			return TaskInput{}, err
		}
		return VariableInput(name), nil
	case TokenKeyword:
		if next, ok := p.cur.Peek(); !ok || next.Kind != TokenDot || tok.Is(KeywordExit) || tok.Is(KeywordHelp) {
			return TaskInput{}, p.cur.Error(SyntaxError)
		}
		name, err := p.readDottedName(tok)
		if err != nil {
			return TaskInput{}, err
		}
		return VariableInput(name), nil
	case TokenBracketStart, TokenBraceStart:
	default:
		if !tok.Kind.IsLiteral() {
			return TaskInput{}, p.cur.Error(SyntaxError)
		}
	}
	val, err := readAttribute(tok, p.cur)
	if err != nil {
		return TaskInput{}, err
	}
	return LiteralInput(val), nil
}

// readDottedName reads name(.name)* starting at tok. The dots must be
// adjacent to the names.
func (p *taskParser) readDottedName(tok Token) (string, error) {
	return readDottedName(p.cur, tok)
}

func readDottedName(cur *Tokens, tok Token) (string, error) {
	parts := []string{tok.Value}
	for {
		if _, ok := cur.NextIf(TokenDot); !ok {
			return strings.Join(parts, "."), nil
		}
		next, ok := cur.Next()
		if !ok {
			return "", cur.Error(Unclosed)
		}
		switch next.Kind {
		case TokenVariable, TokenKeyword:
			parts = append(parts, next.Value)
		case TokenNewLine:
			return "", cur.Error(Unclosed)
		default:
			return "", cur.Error(SyntaxError)
		}
	}
}

// readNamedPropagation reads `name>` after a '<'.
func readNamedPropagation(cur *Tokens) (PropagationKind, error) {
	tok, ok := cur.NextNoWS(false)
	if !ok || tok.Kind == TokenNewLine {
		return 0, cur.Error(Unclosed)
	}
	if tok.Kind != TokenVariable {
		return 0, cur.Error(SyntaxError)
	}
	kind, ok := namedPropagations[tok.Value]
	if !ok {
		return 0, cur.Error(InvalidPropagation)
	}
	end, ok := cur.NextNoWS(false)
	if !ok || end.Kind == TokenNewLine {
		return 0, cur.Error(Unclosed)
	}
	if end.Kind != TokenAngleEnd {
		return 0, cur.Error(SyntaxError)
	}
	return kind, nil
}

// readConditional reads a condition after '(' up to and including the
// closing ')'. Leading '=' tokens select the strictness.
func readConditional(cur *Tokens) (PropagationKind, *Condition, error) {
	strict := 0
	for {
		if _, ok := cur.NextNoWSIf(false, TokenAssignment); !ok {
			break
		}
		strict++
	}
	kind := PropConditional
	switch {
	case strict == 1:
		kind = PropConditionalStrict
	case strict >= 2:
		kind = PropConditionalSuperStrict
	}

	compared := false
	cond, err := readConditionTerm(cur, &compared)
	if err != nil {
		return 0, nil, err
	}
	for {
		tok, ok := cur.NextNoWS(false)
		if !ok || tok.Kind == TokenNewLine {
			return 0, nil, cur.Error(Unclosed)
		}
		var op ConditionKind
		switch tok.Kind {
		case TokenParenEnd:
			return kind, cond, nil
		case TokenAnd:
			op = CondAnd
		case TokenOr:
			op = CondOr
		default:
			return 0, nil, cur.Error(SyntaxError)
		}
		right, err := readConditionTerm(cur, &compared)
		if err != nil {
			return 0, nil, err
		}
		cond = &Condition{Kind: op, Left: cond, Right: right}
	}
}

// readConditionTerm reads `!term`, `variable`, `variable op literal` or a
// literal. Only one comparison is allowed per condition.
func readConditionTerm(cur *Tokens, compared *bool) (*Condition, error) {
	tok, ok := cur.NextNoWS(false)
	if !ok || tok.Kind == TokenNewLine {
		return nil, cur.Error(Unclosed)
	}
	switch tok.Kind {
	case TokenNot:
		inner, err := readConditionTerm(cur, compared)
		if err != nil {
			return nil, err
		}
		return &Condition{Kind: CondNot, Left: inner}, nil

	case TokenVariable, TokenKeyword:
		name, err := readDottedName(cur, tok)
		if err != nil {
			return nil, err
		}
		var op ConditionKind
		switch next, _ := cur.PeekNoWS(false); next.Kind {
		case TokenAssignment:
			op = CondEq
		case TokenAngleStart:
			op = CondLt
		case TokenAngleEnd:
			op = CondGt
		default:
			return &Condition{Kind: CondVariable, Variable: name}, nil
		}
		cur.NextNoWS(false)
		if *compared {
			return nil, cur.Error(SyntaxError)
		}
		*compared = true
		lit, ok := cur.NextNoWS(false)
		if !ok || lit.Kind == TokenNewLine {
			return nil, cur.Error(Unclosed)
		}
		val, err := readAttribute(lit, cur)
		if err != nil {
			return nil, err
		}
		return &Condition{Kind: op, Variable: name, Literal: val}, nil
	}

	if tok.Kind.IsLiteral() {
		val, err := tok.Attribute()
		if err != nil {
			return nil, cur.ValueError(err.Error(), err)
		}
		return &Condition{Kind: CondLiteral, Literal: val}, nil
	}
	return nil, cur.Error(SyntaxError)
}
