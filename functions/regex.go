package functions

import (
	"fmt"

	"github.com/grafana/regexp"

	"github.com/Nadi-System/nadi-core-sub000/attrs"
)

func registerRegex(r *Registry) {
	r.RegisterEnv("regex", EnvFunc{Info{"str_match",
		"Check if the pattern matches the value",
		"(pattern: String, attr: String)"}, strMatch})
	r.RegisterEnv("regex", EnvFunc{Info{"str_replace",
		"Replace every match of the pattern\n\nrep may refer to groups as $1 or ${name}.",
		"(pattern: String, attr: String, rep: String)"}, strReplace})
	r.RegisterEnv("regex", EnvFunc{Info{"str_find",
		"Return the first match of the pattern, or nothing",
		"(pattern: String, attr: String)"}, strFind})
	r.RegisterEnv("regex", EnvFunc{Info{"str_find_all",
		"Return every match of the pattern as an array of strings",
		"(pattern: String, attr: String)"}, strFindAll})
	r.RegisterEnv("regex", EnvFunc{Info{"str_count",
		"Count the matches of the pattern",
		"(pattern: String, attr: String)"}, strCount})
}

// patternArgs reads the compiled pattern and the string it applies to.
func patternArgs(ctx *Ctx) (*regexp.Regexp, string, error) {
	pattern, err := Required[string](ctx, 0, "pattern")
	if err != nil {
		return nil, "", err
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, "", fmt.Errorf("Argument 1 (pattern [String]): %w", err)
	}
	s, err := RequiredRelaxed[string](ctx, 1, "attr")
	if err != nil {
		return nil, "", err
	}
	return re, s, nil
}

func strMatch(ctx *Ctx) (Ret, error) {
	re, s, err := patternArgs(ctx)
	if err != nil {
		return Ret{}, err
	}
	return Return(attrs.Bool(re.MatchString(s))), nil
}

func strReplace(ctx *Ctx) (Ret, error) {
	re, s, err := patternArgs(ctx)
	if err != nil {
		return Ret{}, err
	}
	rep, err := RequiredRelaxed[string](ctx, 2, "rep")
	if err != nil {
		return Ret{}, err
	}
	return Return(attrs.String(re.ReplaceAllString(s, rep))), nil
}

func strFind(ctx *Ctx) (Ret, error) {
	re, s, err := patternArgs(ctx)
	if err != nil {
		return Ret{}, err
	}
	loc := re.FindStringIndex(s)
	if loc == nil {
		return Ret{}, nil
	}
	return Return(attrs.String(s[loc[0]:loc[1]])), nil
}

func strFindAll(ctx *Ctx) (Ret, error) {
	re, s, err := patternArgs(ctx)
	if err != nil {
		return Ret{}, err
	}
	found := re.FindAllString(s, -1)
	out := make([]attrs.Attribute, len(found))
	for i, m := range found {
		out[i] = attrs.String(m)
	}
	return Return(attrs.Array(out...)), nil
}

func strCount(ctx *Ctx) (Ret, error) {
	re, s, err := patternArgs(ctx)
	if err != nil {
		return Ret{}, err
	}
	return Return(attrs.Int(int64(len(re.FindAllStringIndex(s, -1))))), nil
}
