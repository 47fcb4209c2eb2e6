// Copyright 2026 © The Telos Authors
// SPDX-License-Identifier: Apache-2.0

package planner

import (
	"errors"
	"reflect"
	"testing"
)

func TestRegistryValidateReportsFirstDanglingReference(t *testing.T) {
	reg := NewRegistry[counter]()
	reg.RegisterOperator(NewOperator[counter]("Op", nil, nil))
	reg.RegisterMethod("First", NewMethod[counter]("ok", nil, "Op"))
	reg.RegisterMethod("First", NewMethod[counter]("broken", nil, "Op", "MissingA", "MissingB"))
	reg.RegisterMethod("Second", NewMethod[counter]("broken", nil, "MissingC"))

	for i := 0; i < 20; i++ {
		err := reg.Validate()
		if !errors.Is(err, ErrDomainValidation) {
			t.Fatalf("expected ErrDomainValidation, got %v", err)
		}
		var verr *ValidationError
		if !errors.As(err, &verr) {
			t.Fatalf("expected *ValidationError, got %T", err)
		}
		if verr.Name != "MissingA" || verr.Task != "First" || verr.Method != "broken" {
			t.Fatalf("unexpected validation error: %+v", verr)
		}
	}
}

func TestRegistryValidateOK(t *testing.T) {
	if err := coffeeRegistry().Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}
	if err := NewRegistry[counter]().Validate(); err != nil {
		t.Fatalf("empty registry should validate: %v", err)
	}
}

func TestRegistryLookups(t *testing.T) {
	reg := coffeeRegistry()
	if op, ok := reg.Operator("PourCoffee"); !ok || op.Name != "PourCoffee" {
		t.Fatalf("expected PourCoffee operator")
	}
	if _, ok := reg.Operator("FetchCoffee"); ok {
		t.Fatalf("compound task must not resolve as operator")
	}
	if m, ok := reg.Method("fetch"); !ok || len(m.Subtasks) != 3 {
		t.Fatalf("expected fetch method")
	}
	if _, ok := reg.Method("missing"); ok {
		t.Fatalf("unexpected method")
	}

	domain := reg.Domain()
	cases := map[string]TaskKind{
		"MoveToKitchen": KindOperator,
		"FetchCoffee":   KindCompound,
		"toString":      KindUnknown,
		"":              KindUnknown,
	}
	for name, want := range cases {
		if got := domain.Lookup(name).Kind; got != want {
			t.Fatalf("Lookup(%q) = %s, want %s", name, got, want)
		}
	}
}

func TestRegistryOrderingAndReplacement(t *testing.T) {
	reg := NewRegistry[counter]()
	first := NewOperator[counter]("A", nil, nil)
	reg.RegisterOperator(first)
	reg.RegisterOperator(NewOperator[counter]("B", nil, nil))
	replacement := NewOperator[counter]("A", nil, nil)
	reg.RegisterOperator(replacement)

	if got := reg.Domain().OperatorNames(); !reflect.DeepEqual(got, []string{"A", "B"}) {
		t.Fatalf("operator order = %v", got)
	}
	if op, _ := reg.Operator("A"); op != replacement {
		t.Fatalf("expected replacement operator")
	}

	reg.RegisterMethod("T2", NewMethod[counter]("x", nil))
	reg.RegisterMethod("T1", NewMethod[counter]("y", nil))
	reg.RegisterMethod("T2", NewMethod[counter]("z", nil))
	if got := reg.Domain().TaskNames(); !reflect.DeepEqual(got, []string{"T2", "T1"}) {
		t.Fatalf("task order = %v", got)
	}
	task, _ := reg.Domain().CompoundTask("T2")
	if len(task.Methods) != 2 || task.Methods[0].Name != "x" || task.Methods[1].Name != "z" {
		t.Fatalf("unexpected methods for T2")
	}
}

func TestRegistryAmbiguousNamesResolveToOperator(t *testing.T) {
	reg := NewRegistry[counter]()
	reg.RegisterOperator(NewOperator[counter]("Both", nil, func(s counter) counter { s.A = 1; return s }))
	reg.RegisterMethod("Both", NewMethod("m", func(counter) bool { return false }))

	if got := reg.Domain().Ambiguous(); !reflect.DeepEqual(got, []string{"Both"}) {
		t.Fatalf("ambiguous = %v", got)
	}
	res, err := New(reg.Domain()).Plan([]string{"Both"}, counter{})
	if err != nil {
		t.Fatalf("plan: %v", err)
	}
	if got := OperatorNames(res.Plan); !reflect.DeepEqual(got, []string{"Both"}) {
		t.Fatalf("plan = %v", got)
	}
}

func TestRegistryPanicsOnNil(t *testing.T) {
	cases := map[string]func(){
		"operator": func() { NewRegistry[counter]().RegisterOperator(nil) },
		"method":   func() { NewRegistry[counter]().RegisterMethod("T", nil) },
	}
	for name, fn := range cases {
		t.Run(name, func(t *testing.T) {
			defer func() {
				if recover() == nil {
					t.Fatalf("expected panic")
				}
			}()
			fn()
		})
	}
}

func TestFindUnresolved(t *testing.T) {
	reg := NewRegistry[counter]()
	reg.RegisterOperator(NewOperator[counter]("Op", nil, nil))
	reg.RegisterMethod("Cycle", NewMethod[counter]("self", nil, "Cycle", "Op"))
	reg.RegisterMethod("Wide", NewMethod[counter]("a", nil, "Cycle", "Deep"))
	reg.RegisterMethod("Deep", NewMethod[counter]("b", nil, "Gone"))
	domain := reg.Domain()

	cases := []struct {
		name  string
		roots []string
		want  string
		found bool
	}{
		{name: "cycle terminates", roots: []string{"Cycle"}},
		{name: "nested", roots: []string{"Wide"}, want: "Gone", found: true},
		{name: "top level", roots: []string{"Op", "Nope"}, want: "Nope", found: true},
		{name: "breadth first", roots: []string{"Deep", "Shallow"}, want: "Shallow", found: true},
		{name: "empty", roots: nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, found := FindUnresolved(domain, tc.roots)
			if got != tc.want || found != tc.found {
				t.Fatalf("FindUnresolved = (%q, %v), want (%q, %v)", got, found, tc.want, tc.found)
			}
		})
	}
}

func TestChainHooks(t *testing.T) {
	var calls []string
	a := &Hooks[counter]{OnExpand: func(task string, _ int) { calls = append(calls, "a:"+task) }}
	b := &Hooks[counter]{
		OnExpand: func(task string, _ int) { calls = append(calls, "b:"+task) },
		OnApply:  func(op *Operator[counter], _, _ counter, _ int) { calls = append(calls, "b:apply:"+op.Name) },
	}
	if ChainHooks[counter]() != nil || ChainHooks[counter](nil, nil) != nil {
		t.Fatalf("empty chain should be nil")
	}
	if ChainHooks(nil, a) != a {
		t.Fatalf("single hook set should be returned as is")
	}

	reg := NewRegistry[counter]()
	reg.RegisterOperator(NewOperator[counter]("Op", nil, nil))
	if _, err := New(reg.Domain(), WithHooks(ChainHooks(a, b))).Plan([]string{"Op"}, counter{}); err != nil {
		t.Fatalf("plan: %v", err)
	}
	want := []string{"a:Op", "b:Op", "b:apply:Op"}
	if !reflect.DeepEqual(calls, want) {
		t.Fatalf("calls = %v, want %v", calls, want)
	}
}
