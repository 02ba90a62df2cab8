// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package spin

import (
	"github.com/theckman/yacspin"
)

// Run executes fn while a spinner with the given title animates. The final
// functions are called with the underlying spinner before it stops, whether
// or not fn succeeded, so callers can set stop messages.
func Run(title string, fn func() error, finalFuncs ...func(s *yacspin.Spinner)) error {
	spinner := New(title)

	_ = spinner.Start()
	err := fn()

	for _, finalFn := range finalFuncs {
		finalFn(spinner.spinner)
	}

	_ = spinner.Stop()
	return err
}
