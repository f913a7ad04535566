// Package merge applies key/value additions to ARB dictionaries.
//
// Merging is purely additive: keys are added or updated, never removed.
// The policy decides what happens when a key already exists.
package merge

import (
	"fmt"
	"strings"

	"github.com/minios-linux/arbkit/arbfile"
)

// Policy selects how additions treat existing keys.
type Policy int

const (
	// Overwrite replaces the value of an existing key.
	Overwrite Policy = iota
	// AddIfAbsent leaves existing keys untouched.
	AddIfAbsent
)

func (p Policy) String() string {
	switch p {
	case Overwrite:
		return "overwrite"
	case AddIfAbsent:
		return "add-if-absent"
	}
	return fmt.Sprintf("Policy(%d)", int(p))
}

// ParsePolicy accepts "overwrite" and "add-if-absent" (alias "keep").
func ParsePolicy(s string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "overwrite", "replace":
		return Overwrite, nil
	case "add-if-absent", "add_if_absent", "keep":
		return AddIfAbsent, nil
	}
	return 0, fmt.Errorf("unknown merge policy %q (valid: overwrite, add-if-absent)", s)
}

// Pair is a single addition.
type Pair struct {
	Key   string
	Value string
}

// Result records what Apply did, key by key.
type Result struct {
	Added     []string
	Updated   []string
	Unchanged []string
	// Skipped are existing keys left alone under AddIfAbsent.
	Skipped []string
}

// Changed reports whether the file was modified.
func (r Result) Changed() bool { return len(r.Added) > 0 || len(r.Updated) > 0 }

// String returns a one-line summary.
func (r Result) String() string {
	return fmt.Sprintf("%d added, %d updated, %d unchanged, %d skipped",
		len(r.Added), len(r.Updated), len(r.Unchanged), len(r.Skipped))
}

// Apply merges additions into f under policy p, in order. New keys are
// appended after the existing ones. Metadata keys are rejected.
func Apply(f *arbfile.File, additions []Pair, p Policy) (Result, error) {
	var res Result
	for _, a := range additions {
		if arbfile.IsMetaKey(a.Key) {
			return res, fmt.Errorf("addition %q: metadata keys cannot be merged", a.Key)
		}
		if a.Key == "" {
			return res, fmt.Errorf("addition with empty key")
		}

		old, exists := f.Get(a.Key)
		switch {
		case !exists:
			f.Add(a.Key, a.Value)
			res.Added = append(res.Added, a.Key)
		case p == AddIfAbsent:
			res.Skipped = append(res.Skipped, a.Key)
		case old == a.Value:
			res.Unchanged = append(res.Unchanged, a.Key)
		default:
			f.Set(a.Key, a.Value)
			res.Updated = append(res.Updated, a.Key)
		}
	}
	return res, nil
}
