// Copyright 2026 © The Telos Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jllopis/telos/pkg/planner"
)

type graphResult struct {
	Format   string `json:"format"`
	Content  string `json:"content"`
	DomainID string `json:"domain_id,omitempty"`
	Nodes    int    `json:"nodes"`
	Edges    int    `json:"edges"`
}

// graphEdge links a compound task to one subtask through a method.
type graphEdge struct {
	From   string
	To     string
	Method string
	Order  int
}

// decompositionGraph is the task network of a document: compound tasks,
// operators and any name referenced but never declared.
type decompositionGraph struct {
	Tasks      []string
	Operators  []string
	Unresolved []string
	Edges      []graphEdge
}

func newDecompositionGraph(def *planner.DomainDefinition) decompositionGraph {
	var g decompositionGraph
	declared := make(map[string]struct{})
	for _, op := range def.Operators {
		g.Operators = append(g.Operators, op.Name)
		declared[op.Name] = struct{}{}
	}
	for _, task := range def.Tasks {
		g.Tasks = append(g.Tasks, task.Name)
		declared[task.Name] = struct{}{}
	}
	unresolved := make(map[string]struct{})
	for _, task := range def.Tasks {
		for _, m := range task.Methods {
			for i, sub := range m.Subtasks {
				g.Edges = append(g.Edges, graphEdge{From: task.Name, To: sub, Method: m.Name, Order: i + 1})
				if _, ok := declared[sub]; ok {
					continue
				}
				if _, seen := unresolved[sub]; !seen {
					unresolved[sub] = struct{}{}
					g.Unresolved = append(g.Unresolved, sub)
				}
			}
		}
	}
	return g
}

func (g decompositionGraph) nodeCount() int {
	return len(g.Tasks) + len(g.Operators) + len(g.Unresolved)
}

func (a *App) newGraphCmd() *cobra.Command {
	var (
		domainPath string
		output     string
	)
	cmd := &cobra.Command{
		Use:   "graph",
		Short: "Render the decomposition graph of a domain document",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireDomain(domainPath); err != nil {
				return err
			}
			def, err := planner.LoadDefinition(domainPath)
			if err != nil {
				return NewDomainError(err, domainPath)
			}

			g := newDecompositionGraph(def)
			result := graphResult{
				Format:   output,
				DomainID: def.ID,
				Nodes:    g.nodeCount(),
				Edges:    len(g.Edges),
			}
			switch output {
			case "mermaid":
				result.Content = toMermaid(g)
			case "dot":
				result.Content = toDot(def.ID, g)
			case "json":
				payload, err := planner.MarshalJSON(def, true)
				if err != nil {
					return err
				}
				result.Content = string(payload)
			default:
				return NewInvalidArgumentError("--output", fmt.Sprintf("unknown format %q; use mermaid, dot, or json", output))
			}

			if a.opts.json {
				return a.printJSON(result)
			}
			fmt.Fprintln(a.stdout, strings.TrimRight(result.Content, "\n"))
			return nil
		},
	}
	bindDomainFlag(cmd, &domainPath)
	cmd.Flags().StringVar(&output, "output", "mermaid", "Output format: mermaid, dot, json")
	return cmd
}

// mermaidID makes a name safe to use as a mermaid node id.
func mermaidID(name string) string {
	var sb strings.Builder
	for _, r := range name {
		if r == '_' || r >= '0' && r <= '9' || r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' {
			sb.WriteRune(r)
		} else {
			sb.WriteRune('_')
		}
	}
	return sb.String()
}

func toMermaid(g decompositionGraph) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")

	for _, name := range g.Tasks {
		sb.WriteString(fmt.Sprintf("    %s[%s]\n", mermaidID(name), name))
	}
	for _, name := range g.Operators {
		sb.WriteString(fmt.Sprintf("    %s([%s])\n", mermaidID(name), name))
	}
	for _, name := range g.Unresolved {
		sb.WriteString(fmt.Sprintf("    %s{{%s?}}\n", mermaidID(name), name))
	}

	for _, e := range g.Edges {
		sb.WriteString(fmt.Sprintf("    %s -->|%s %d| %s\n", mermaidID(e.From), e.Method, e.Order, mermaidID(e.To)))
	}

	for _, name := range g.Operators {
		sb.WriteString(fmt.Sprintf("    style %s fill:#90EE90\n", mermaidID(name)))
	}
	for _, name := range g.Unresolved {
		sb.WriteString(fmt.Sprintf("    style %s fill:#FFB6C1\n", mermaidID(name)))
	}
	return sb.String()
}

func toDot(id string, g decompositionGraph) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("digraph %q {\n", id))
	sb.WriteString("    rankdir=TB;\n")
	sb.WriteString("    node [shape=box, style=rounded];\n")

	for _, name := range g.Tasks {
		sb.WriteString(fmt.Sprintf("    %q;\n", name))
	}
	for _, name := range g.Operators {
		sb.WriteString(fmt.Sprintf("    %q [shape=ellipse, style=filled, fillcolor=\"#90EE90\"];\n", name))
	}
	for _, name := range g.Unresolved {
		sb.WriteString(fmt.Sprintf("    %q [style=\"rounded,dashed\", color=red];\n", name))
	}

	for _, e := range g.Edges {
		sb.WriteString(fmt.Sprintf("    %q -> %q [label=\"%s %d\"];\n", e.From, e.To, e.Method, e.Order))
	}

	sb.WriteString("}\n")
	return sb.String()
}
