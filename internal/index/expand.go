package index

import "fmt"

// CycleError reports a cyclic group reference. Name is the name at which the
// cycle closed.
type CycleError struct {
	Name string
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("index: cyclic group reference detected at %q", e.Name)
}

// TraceFunc is called once per expanded group with its direct members.
type TraceFunc func(group string, members []string)

// Expand resolves the requested names into an ordered list of leaf resource
// names. Groups are expanded depth-first, left to right; the result contains
// each leaf once, ordered by first appearance. Leaves are not validated
// against the resource table here; unknown names surface at lookup time.
//
// A name re-entered while still on the current expansion path yields a
// *CycleError and no partial result.
func (ix *Index) Expand(names []string, trace TraceFunc) ([]string, error) {
	var leaves []string
	visiting := make(map[string]bool)

	for _, name := range names {
		var err error
		leaves, err = ix.expand(name, visiting, leaves, trace)
		if err != nil {
			return nil, err
		}
	}

	return Dedup(leaves), nil
}

// expand walks one name. The visiting set and accumulator travel as explicit
// parameters so the recursion carries no hidden shared state.
func (ix *Index) expand(name string, visiting map[string]bool, acc []string, trace TraceFunc) ([]string, error) {
	if visiting[name] {
		return nil, &CycleError{Name: name}
	}

	// Group table membership decides semantics; a name that is both group
	// and resource expands as a group.
	members, ok := ix.Groups[name]
	if !ok {
		return append(acc, name), nil
	}

	if trace != nil {
		trace(name, members)
	}

	visiting[name] = true
	for _, m := range members {
		var err error
		acc, err = ix.expand(m, visiting, acc, trace)
		if err != nil {
			return nil, err
		}
	}
	delete(visiting, name)

	return acc, nil
}

// Dedup removes duplicates preserving first occurrence.
func Dedup(names []string) []string {
	seen := make(map[string]bool, len(names))
	result := make([]string, 0, len(names))
	for _, n := range names {
		if !seen[n] {
			seen[n] = true
			result = append(result, n)
		}
	}
	return result
}
