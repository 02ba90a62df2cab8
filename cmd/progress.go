// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package cmd

import (
	"github.com/azure/azure-ops-cli/pkg/output"
)

// progressMode selects how a long-running command reports its progress on
// stdout.
type progressMode int

const (
	// progressSilent suppresses progress output entirely.
	progressSilent progressMode = iota
	// progressLines emits one plain line per unit of work.
	progressLines
	// progressSpinner animates a spinner with a percent-complete message.
	progressSpinner
)

// pickProgressMode keeps machine-readable output clean: JSON output gets no
// progress at all (the formatted document must be the only thing on stdout),
// and a non-terminal stdout downgrades the spinner to plain lines so CI logs
// are not filled with animation control characters.
func pickProgressMode(kind output.Format, verbose bool, stdoutIsTerminal bool) progressMode {
	switch {
	case kind == output.JsonFormat:
		return progressSilent
	case verbose || !stdoutIsTerminal:
		return progressLines
	default:
		return progressSpinner
	}
}
