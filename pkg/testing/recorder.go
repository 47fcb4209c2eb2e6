// Copyright 2026 © The Telos Authors
// SPDX-License-Identifier: Apache-2.0

package testing

import (
	"fmt"
	"strings"
	"sync"

	"github.com/jllopis/telos/pkg/planner"
)

// HookKind names one kind of search notification.
type HookKind string

const (
	HookExpand    HookKind = "expand"
	HookTry       HookKind = "try"
	HookBacktrack HookKind = "backtrack"
	HookApply     HookKind = "apply"
)

// TraceEntry is one recorded search notification. Task is the operator
// name for HookApply entries.
type TraceEntry struct {
	Kind   HookKind `json:"kind"`
	Task   string   `json:"task"`
	Method string   `json:"method,omitempty"`
	Depth  int      `json:"depth"`
}

// String renders the entry as "kind task[/method]".
func (e TraceEntry) String() string {
	if e.Method != "" {
		return fmt.Sprintf("%s %s/%s", e.Kind, e.Task, e.Method)
	}
	return fmt.Sprintf("%s %s", e.Kind, e.Task)
}

// Recorder collects hook notifications in order.
type Recorder[S any] struct {
	mu      sync.Mutex
	entries []TraceEntry
}

// NewRecorder creates an empty recorder.
func NewRecorder[S any]() *Recorder[S] {
	return &Recorder[S]{}
}

// Hooks returns a hook set feeding the recorder.
func (r *Recorder[S]) Hooks() *planner.Hooks[S] {
	return &planner.Hooks[S]{
		OnExpand: func(task string, depth int) {
			r.add(TraceEntry{Kind: HookExpand, Task: task, Depth: depth})
		},
		OnMethodTry: func(task string, m *planner.Method[S], depth int) {
			r.add(TraceEntry{Kind: HookTry, Task: task, Method: m.Name, Depth: depth})
		},
		OnBacktrack: func(task string, m *planner.Method[S], depth int) {
			r.add(TraceEntry{Kind: HookBacktrack, Task: task, Method: m.Name, Depth: depth})
		},
		OnApply: func(op *planner.Operator[S], _, _ S, depth int) {
			r.add(TraceEntry{Kind: HookApply, Task: op.Name, Depth: depth})
		},
	}
}

func (r *Recorder[S]) add(e TraceEntry) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, e)
}

// Entries returns a copy of the recorded notifications.
func (r *Recorder[S]) Entries() []TraceEntry {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]TraceEntry(nil), r.entries...)
}

// Count returns how many notifications of kind were recorded.
func (r *Recorder[S]) Count(kind HookKind) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, e := range r.entries {
		if e.Kind == kind {
			n++
		}
	}
	return n
}

// Reset drops every recorded notification.
func (r *Recorder[S]) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = nil
}

// FormatTrace renders entries one per line, indented two spaces per depth.
func FormatTrace(entries []TraceEntry) string {
	var b strings.Builder
	for _, e := range entries {
		b.WriteString(strings.Repeat("  ", e.Depth))
		b.WriteString(e.String())
		b.WriteByte('\n')
	}
	return b.String()
}
