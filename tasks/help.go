package tasks

import (
	"strings"

	"github.com/Nadi-System/nadi-core-sub000/functions"
	"github.com/Nadi-System/nadi-core-sub000/parser"
)

const generalHelp = `Statements:
  node[<propagation>][.attr] [= value | function(args)]
  network[<propagation>][.attr] [= value | function(args)]
  env[.name] [= value | function(args)]
  help [node | network | env] [function]
  exit

Propagation: <sequential>, <inverse>, <inputsfirst>, <outputfirst>,
[a, b, c], [start -> end], (condition), (=strict), (==superstrict)`

const envHelp = `Env variables are shared by every statement:
  env.name = value   set a variable
  env.name           show a variable
  env                list all variables
Use env.name inside node and network statements to read one.`

func scopeOf(kw parser.Keyword) functions.Scope {
	switch kw {
	case parser.KeywordNetwork:
		return functions.ScopeNetwork
	case parser.KeywordEnv:
		return functions.ScopeEnv
	}
	return functions.ScopeNode
}

func (c *Context) help(kw parser.Keyword, name string) (string, error) {
	switch {
	case kw == parser.KeywordNone && name == "":
		return generalHelp, nil
	case kw == parser.KeywordNone:
		return c.Registry.HelpAny(name)
	case name != "":
		return c.Registry.Help(scopeOf(kw), name)
	case kw == parser.KeywordEnv:
		return envHelp + "\n\n" + strings.TrimSuffix(c.Registry.List(functions.ScopeEnv), "\n"), nil
	}
	return strings.TrimSuffix(c.Registry.List(scopeOf(kw)), "\n"), nil
}
