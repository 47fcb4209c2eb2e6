// Copyright 2026 © The Telos Authors
// SPDX-License-Identifier: Apache-2.0

// Command telos plans against declarative HTN domain documents.
package main

import (
	"context"
	stderrors "errors"
	"os"
)

func main() {
	app := NewApp()
	if err := app.Execute(context.Background()); err != nil {
		var reported *reportedError
		if !stderrors.As(err, &reported) {
			app.reportError(err)
		}
		os.Exit(exitCode(err))
	}
}
