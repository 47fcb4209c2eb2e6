// Copyright 2026 © The Telos Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jllopis/telos/pkg/planner"
)

type validateResult struct {
	Domain  string        `json:"domain,omitempty"`
	Checks  []checkResult `json:"checks"`
	Overall string        `json:"overall"`
}

type checkResult struct {
	Name    string `json:"name"`
	Status  string `json:"status"` // "ok", "warn", "error", "skip"
	Message string `json:"message,omitempty"`
}

func (a *App) newValidateCmd() *cobra.Command {
	var domainPath string
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check a domain document for structural and referential errors",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireDomain(domainPath); err != nil {
				return err
			}
			result, failure := a.validateDomain(domainPath)

			if a.opts.json {
				if err := a.printJSON(result); err != nil {
					return err
				}
			} else {
				a.printValidate(result)
			}
			if failure != nil {
				return &reportedError{err: failure}
			}
			return nil
		},
	}
	bindDomainFlag(cmd, &domainPath)
	return cmd
}

// validateDomain runs the checks in order; a failing check skips the ones
// that depend on it. The returned error carries the exit status.
func (a *App) validateDomain(path string) (validateResult, error) {
	var result validateResult
	add := func(r checkResult) { result.Checks = append(result.Checks, r) }
	skipRest := func(names ...string) {
		for _, name := range names {
			add(checkResult{Name: name, Status: "skip", Message: "previous check failed"})
		}
	}

	def, err := planner.LoadDefinition(path)
	if err != nil {
		add(checkResult{Name: "document", Status: "error", Message: err.Error()})
		skipRest("compile", "references", "ambiguity", "problems")
		result.Overall = "error"
		return result, NewDomainError(err, path)
	}
	result.Domain = def.ID
	add(checkResult{Name: "document", Status: "ok", Message: fmt.Sprintf("%d operators, %d tasks, %d problems", len(def.Operators), len(def.Tasks), len(def.Problems))})

	reg, err := planner.Compile(def, planner.WithExprLogger(a.logger))
	if err != nil {
		add(checkResult{Name: "compile", Status: "error", Message: err.Error()})
		skipRest("references", "ambiguity", "problems")
		result.Overall = "error"
		return result, NewDomainError(err, path)
	}
	add(checkResult{Name: "compile", Status: "ok"})

	var failure error
	if err := reg.Validate(); err != nil {
		add(checkResult{Name: "references", Status: "error", Message: err.Error()})
		failure = planner.WrapError(err)
	} else {
		add(checkResult{Name: "references", Status: "ok"})
	}

	domain := reg.Domain()
	if names := domain.Ambiguous(); len(names) > 0 {
		add(checkResult{
			Name:    "ambiguity",
			Status:  "warn",
			Message: fmt.Sprintf("registered as operator and compound task (operator wins): %s", strings.Join(names, ", ")),
		})
	} else {
		add(checkResult{Name: "ambiguity", Status: "ok"})
	}

	if len(def.Problems) == 0 {
		add(checkResult{Name: "problems", Status: "skip", Message: "no problems declared"})
	}
	for _, pb := range def.Problems {
		name := "problem " + pb.Name
		if missing, found := planner.FindUnresolved(domain, pb.Goals); found {
			add(checkResult{Name: name, Status: "warn", Message: fmt.Sprintf("references unknown task %q", missing)})
			continue
		}
		add(checkResult{Name: name, Status: "ok"})
	}

	result.Overall = "ok"
	for _, c := range result.Checks {
		if c.Status == "error" {
			result.Overall = "error"
			break
		}
		if c.Status == "warn" {
			result.Overall = "warn"
		}
	}
	return result, failure
}

func (a *App) printValidate(result validateResult) {
	icons := map[string]string{
		"ok":    "✓",
		"warn":  "⚠",
		"error": "✗",
		"skip":  "○",
	}
	if result.Domain != "" {
		fmt.Fprintf(a.stdout, "Domain %s\n\n", result.Domain)
	}
	for _, c := range result.Checks {
		if c.Message != "" {
			fmt.Fprintf(a.stdout, "%s %s: %s\n", icons[c.Status], c.Name, c.Message)
		} else {
			fmt.Fprintf(a.stdout, "%s %s\n", icons[c.Status], c.Name)
		}
	}
	fmt.Fprintf(a.stdout, "\nOverall: %s\n", result.Overall)
}
