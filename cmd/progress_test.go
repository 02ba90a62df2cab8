// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package cmd

import (
	"testing"

	"github.com/azure/azure-ops-cli/pkg/output"
	"github.com/stretchr/testify/require"
)

func TestPickProgressMode(t *testing.T) {
	tests := []struct {
		name       string
		kind       output.Format
		verbose    bool
		isTerminal bool
		expected   progressMode
	}{
		{
			// progress lines on stdout would corrupt the JSON document
			name:       "json output is silent even on a terminal",
			kind:       output.JsonFormat,
			isTerminal: true,
			expected:   progressSilent,
		},
		{
			name:     "json output is silent in a pipe",
			kind:     output.JsonFormat,
			expected: progressSilent,
		},
		{
			name:       "json output is silent even with verbose",
			kind:       output.JsonFormat,
			verbose:    true,
			isTerminal: true,
			expected:   progressSilent,
		},
		{
			name:       "verbose prints lines",
			kind:       output.NoneFormat,
			verbose:    true,
			isTerminal: true,
			expected:   progressLines,
		},
		{
			name:     "non-terminal stdout prints lines",
			kind:     output.NoneFormat,
			expected: progressLines,
		},
		{
			name:       "interactive terminal gets the spinner",
			kind:       output.NoneFormat,
			isTerminal: true,
			expected:   progressSpinner,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.expected, pickProgressMode(tt.kind, tt.verbose, tt.isTerminal))
		})
	}
}
