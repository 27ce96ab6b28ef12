package shorthand

import "strings"

// Result is the nested mapping a successful Match produces: a disjoint union
// of {string, bool, sub-mapping} per key, modelled as a tagged variant rather
// than a bare map[string]interface{} so PathConflict surfaces as a typed
// mismatch instead of a cast failure downstream.
type Result struct {
	values map[string]interface{} // each value is string, bool, or *Result
}

func newResult() *Result {
	return &Result{values: map[string]interface{}{}}
}

func (r *Result) clone() *Result {
	out := newResult()
	for k, v := range r.values {
		if sub, ok := v.(*Result); ok {
			out.values[k] = sub.clone()
		} else {
			out.values[k] = v
		}
	}
	return out
}

func (r *Result) setBool(name string, value bool) {
	r.values[name] = value
}

// setPath assigns value at the dotted path, creating or reusing sub-mappings
// at each intermediate key. It fails if an intermediate is already bound to
// a non-mapping value.
func (r *Result) setPath(path []string, value string) *Error {
	cur := r
	for _, k := range path[:len(path)-1] {
		existing, ok := cur.values[k]
		if !ok {
			sub := newResult()
			cur.values[k] = sub
			cur = sub
			continue
		}
		sub, ok := existing.(*Result)
		if !ok {
			return newError(PathConflict,
				"Cannot process shorthand for [%s] because entry '%s' is not a map (%v)",
				strings.Join(path, "."), k, existing)
		}
		cur = sub
	}
	last := path[len(path)-1]
	if existing, ok := cur.values[last]; ok {
		if _, isMap := existing.(*Result); isMap {
			return newError(PathConflict,
				"Cannot process shorthand for [%s] because entry '%s' is already a map",
				strings.Join(path, "."), last)
		}
	}
	cur.values[last] = value
	return nil
}

// ToMap converts the Result into a plain map[string]interface{}, recursively
// converting sub-mappings the same way.
func (r *Result) ToMap() map[string]interface{} {
	out := make(map[string]interface{}, len(r.values))
	for k, v := range r.values {
		if sub, ok := v.(*Result); ok {
			out[k] = sub.ToMap()
		} else {
			out[k] = v
		}
	}
	return out
}

// Get looks up a top-level key, for callers that don't want the whole map.
func (r *Result) Get(name string) (interface{}, bool) {
	v, ok := r.values[name]
	return v, ok
}
