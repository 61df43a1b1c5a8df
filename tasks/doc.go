// Package tasks executes parsed task statements against a network.
//
// A Context ties together the network, a function registry and the env
// variable store. Execute runs one task and returns the text to show:
//
//   - env statements set, show or list env variables, or call env functions.
//   - network statements do the same with network attributes and network
//     functions.
//   - node statements select nodes through their propagation and run once
//     per selected node. Failures on individual nodes are collected and
//     returned together.
//
// Variables on the right hand side resolve in the statement's own scope
// first and then in the env; the env., network. and node. prefixes pick a
// scope explicitly.
//
// Usage:
//
//	ctx := tasks.NewContext(net, functions.NewDefaultRegistry(logger), logger)
//	ctx.Out = os.Stdout
//	script, err := parser.ParseTasks(src)
//	if err != nil {
//	    return err
//	}
//	return ctx.Run(script)
package tasks
