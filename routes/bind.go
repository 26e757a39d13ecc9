package routes

// bind fills a handler's declared parameters from the leading path segments
// and the named-value bag of the resolution context. It returns the bound
// arguments and the number of leading segments consumed positionally.
//
// The binding order is fixed:
//
//  1. Positional parameters fill from leading segments first, then from
//     named values matching the parameter name.
//  2. Keyword-only parameters fill from named values only.
//  3. A parameter with a default may stay unfilled; one without a default
//     that stays unfilled fails the binding.
//  4. A segment and a named value competing for the same parameter is a
//     conflict, not a precedence question: the binding fails.
//  5. Named values no parameter consumes are ignored, unless a RestNamed
//     parameter collects them.
//
// With exact set, leftover leading segments not taken by any parameter fail
// the binding; without it (sub-resource handlers) they are left for deeper
// traversal. Every binding failure is ErrNotFound so that malformed input
// is indistinguishable from a nonexistent route. Only injector errors
// propagate as application errors.
func bind(params []Param, leading []string, rc *Context, exact bool) (Args, int, error) {
	bound := make(map[string]any, len(params))
	used := make(map[string]bool)
	varKeyword := ""
	pos := 0

	for _, p := range params {
		switch p.kind {
		case paramInjected:
			v, err := p.inject(rc)
			if err != nil {
				return Args{}, 0, err
			}
			bound[p.name] = v

		case paramVarPositional:
			tail := make([]string, len(leading)-pos)
			copy(tail, leading[pos:])
			bound[p.name] = tail
			pos = len(leading)

		case paramVarKeyword:
			// Collected after all other parameters have claimed
			// their named values.
			varKeyword = p.name

		case paramPositional, paramKeywordOnly:
			if p.kind == paramPositional && pos < len(leading) {
				if _, clash := rc.values[p.name]; clash {
					rc.tracef("binding %q: segment and named value conflict", p.name)
					return Args{}, 0, ErrNotFound
				}
				v, err := p.value(leading[pos])
				if err != nil {
					rc.tracef("binding %q: invalid segment %q", p.name, leading[pos])
					return Args{}, 0, ErrNotFound
				}
				bound[p.name] = v
				pos++
				break
			}
			if raw, ok := rc.values[p.name]; ok {
				v, err := p.value(raw)
				if err != nil {
					rc.tracef("binding %q: invalid value %q", p.name, raw)
					return Args{}, 0, ErrNotFound
				}
				bound[p.name] = v
				used[p.name] = true
				break
			}
			if p.hasDefault {
				bound[p.name] = p.defValue
				break
			}
			rc.tracef("binding %q: required parameter missing", p.name)
			return Args{}, 0, ErrNotFound
		}
	}

	if exact && pos < len(leading) {
		rc.tracef("binding: %d excess path segment(s)", len(leading)-pos)
		return Args{}, 0, ErrNotFound
	}

	if varKeyword != "" {
		rest := make(map[string]string)
		for k, v := range rc.values {
			if !used[k] {
				rest[k] = v
			}
		}
		bound[varKeyword] = rest
	}

	return Args{values: bound}, pos, nil
}
