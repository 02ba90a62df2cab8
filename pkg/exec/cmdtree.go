// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package exec

import (
	"os/exec"
)

// Settings to modify the way CmdTree is executed
type CmdTreeOptions struct {
	Interactive bool
}

// CmdTree represents an `exec.Cmd` run by a CommandRunner, plus the options it
// was started with.
type CmdTree struct {
	CmdTreeOptions
	*exec.Cmd
}

// Kill terminates the underlying process if it is still running. Errors from
// the kill itself are ignored; the caller observes the outcome through Wait.
func (o *CmdTree) Kill() {
	if o.Process == nil {
		return
	}

	_ = o.Process.Kill()
}
