// Copyright 2026 © The Telos Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/jllopis/telos/pkg/audit"
	"github.com/jllopis/telos/pkg/errors"
)

func (a *App) newAuditCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "audit",
		Short: "Inspect recorded planning runs",
	}
	cmd.AddCommand(a.newAuditListCmd())
	return cmd
}

func (a *App) newAuditListCmd() *cobra.Command {
	var filter audit.Filter
	var status string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List audit records from the configured backend",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if a.store == nil {
				te := errors.New(errors.CodeConfig, "audit backend is disabled", nil).
					WithContext("backend", a.cfg.Audit.Backend).
					WithRecoverable(false)
				return NewCLIError(te, "set audit.backend to memory, sqlite or badger (for example --set audit.backend=sqlite --set audit.path=telos.db)")
			}
			if status != "" {
				switch s := audit.Status(status); s {
				case audit.StatusSucceeded, audit.StatusFailed, audit.StatusFatal:
					filter.Status = s
				default:
					return NewInvalidArgumentError("--status", fmt.Sprintf("unknown status %q; use succeeded, failed or fatal", status))
				}
			}
			if filter.Limit < 0 {
				return NewInvalidArgumentError("--limit", "must not be negative")
			}

			records, err := a.store.List(cmd.Context(), filter)
			if err != nil {
				return NewCLIError(errors.New(errors.CodeAudit, "cannot list audit records", err), "")
			}
			if a.opts.json {
				if records == nil {
					records = []audit.Record{}
				}
				return a.printJSON(records)
			}
			a.printAuditRecords(records)
			return nil
		},
	}
	cmd.Flags().StringVar(&filter.DomainID, "domain", "", "Only runs against this domain id")
	cmd.Flags().StringVar(&filter.RunID, "run", "", "Only the run with this id")
	cmd.Flags().StringVar(&status, "status", "", "Only runs with this status: succeeded, failed, fatal")
	cmd.Flags().IntVar(&filter.Limit, "limit", 0, "Maximum number of records (0 = all)")
	return cmd
}

func (a *App) printAuditRecords(records []audit.Record) {
	if len(records) == 0 {
		fmt.Fprintln(a.stdout, "No audit records.")
		return
	}
	w := a.newTabWriter()
	writeRow(w, "RUN", "DOMAIN", "GOALS", "STATUS", "RESULT", "STARTED", "DURATION")
	for _, rec := range records {
		result := strings.Join(rec.Plan, " → ")
		switch rec.Status {
		case audit.StatusFailed:
			result = rec.Reason + ": " + rec.Task
		case audit.StatusFatal:
			result = rec.Error
		}
		writeRow(w,
			rec.RunID,
			rec.DomainID,
			strings.Join(rec.Goals, ","),
			string(rec.Status),
			result,
			formatTime(rec.StartedAt),
			strconv.FormatInt(rec.Duration().Milliseconds(), 10)+"ms",
		)
	}
	_ = w.Flush()
}

func formatTime(value time.Time) string {
	if value.IsZero() {
		return ""
	}
	return value.Format(time.RFC3339)
}
