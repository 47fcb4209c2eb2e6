// Copyright 2026 © The Telos Authors
// SPDX-License-Identifier: Apache-2.0

package planner_test

import (
	"fmt"

	"github.com/jllopis/telos/pkg/planner"
)

type car struct {
	Gas     bool
	Arrived bool
}

func Example() {
	reg := planner.NewRegistry[car]()
	reg.RegisterOperator(planner.NewOperator("FastRefuel",
		func(s car) bool { return !s.Gas },
		func(s car) car { s.Gas = true; return s },
	))
	reg.RegisterOperator(planner.NewOperator[car]("SlowRefuel", nil,
		func(s car) car { s.Gas = true; return s },
	))
	reg.RegisterOperator(planner.NewOperator("Drive",
		func(s car) bool { return s.Gas },
		func(s car) car { s.Arrived = true; return s },
	))
	reg.RegisterMethod("Travel", planner.NewMethod("fast", func(s car) bool { return !s.Gas }, "FastRefuel", "Drive"))
	reg.RegisterMethod("Travel", planner.NewMethod[car]("slow", nil, "SlowRefuel", "Drive"))
	if err := reg.Validate(); err != nil {
		fmt.Println(err)
		return
	}

	res, err := planner.New(reg.Domain()).Plan([]string{"Travel"}, car{Gas: true})
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println(planner.OperatorNames(res.Plan), res.FinalState.Arrived)
	// Output: [SlowRefuel Drive] true
}

func ExampleCompile() {
	def, err := planner.ParseYAML([]byte(`
id: door
operators:
  - name: Open
    when: "!open"
    set: { open: "true" }
  - name: Walk
    when: open
    set: { inside: "true" }
tasks:
  - name: Enter
    methods:
      - name: through-door
        subtasks: [Open, Walk]
`))
	if err != nil {
		fmt.Println(err)
		return
	}
	reg, err := planner.Compile(def)
	if err != nil {
		fmt.Println(err)
		return
	}
	res, _ := planner.New(reg.Domain()).Plan([]string{"Enter"}, planner.Facts{"open": false})
	fmt.Println(planner.OperatorNames(res.Plan), res.FinalState)
	// Output: [Open Walk] {inside: true, open: true}
}
