// Copyright 2026 © The Telos Authors
// SPDX-License-Identifier: Apache-2.0

package planner

import (
	"fmt"
	"sort"

	"github.com/mitchellh/copystructure"
)

// Facts is the world state used by declarative domains.
type Facts map[string]any

// Clone returns a deep copy of f, nested maps and slices included.
func (f Facts) Clone() Facts {
	if f == nil {
		return Facts{}
	}
	out, err := copystructure.Copy(map[string]any(f))
	if err != nil {
		// copystructure only fails on types it cannot walk, such as
		// channels; fall back to a shallow copy.
		shallow := make(Facts, len(f))
		for k, v := range f {
			shallow[k] = v
		}
		return shallow
	}
	return Facts(out.(map[string]any))
}

// Keys returns the fact names in lexical order.
func (f Facts) Keys() []string {
	keys := make([]string, 0, len(f))
	for k := range f {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// String renders the facts deterministically.
func (f Facts) String() string {
	out := "{"
	for i, k := range f.Keys() {
		if i > 0 {
			out += ", "
		}
		out += fmt.Sprintf("%s: %v", k, f[k])
	}
	return out + "}"
}
