// Package functions holds the function registry the task engine dispatches
// to.
//
// Functions come in three scopes. Node functions run once per node selected
// by a propagation, network functions run once on the network, and env
// functions only see their arguments, which lets them appear nested inside
// any call. A network function may still honour its statement's propagation
// through Ctx.Select. Every function belongs to a plugin and is registered
// under "plugin.name"; the bare name is an alias for the latest registration.
//
// Arguments reach a function through Ctx. ArgKwarg and its variants look an
// argument up by keyword first and position second, converting it with the
// strict or relaxed rules of the attrs package.
//
// Usage:
//
//	reg := functions.NewDefaultRegistry(logger)
//	fn, err := reg.Lookup(functions.ScopeEnv, "int")
//	if err != nil {
//	    return err // *NotFoundError with suggestions
//	}
//	ret, err := fn.(functions.EnvFunction).Call(functions.NewCtx(args, nil))
package functions
