// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/azure/azure-ops-cli/cmd"
	"github.com/azure/azure-ops-cli/pkg/output"
	"github.com/mattn/go-colorable"
	"github.com/spf13/pflag"
)

func main() {
	ctx := context.Background()

	restoreColorMode := colorable.EnableColorsStdout(nil)
	defer restoreColorMode()

	log.SetFlags(log.LstdFlags | log.Lshortfile)

	if !isDebugEnabled() {
		log.SetOutput(io.Discard)
	}

	cmdErr := cmd.NewRootCmd().ExecuteContext(ctx)
	if cmdErr != nil {
		// this includes the dry-run "cleanup pending" signal, which
		// pipelines detect through the exit code
		fmt.Fprintln(os.Stderr, output.WithErrorFormat("ERROR: %v", cmdErr))
		restoreColorMode()
		os.Exit(1)
	}
}

// isDebugEnabled checks to see if `--debug` was passed with a truthy value,
// before the command tree has parsed anything.
func isDebugEnabled() bool {
	debug := false
	flags := pflag.NewFlagSet("debug", pflag.ContinueOnError)
	flags.ParseErrorsWhitelist.UnknownFlags = true
	flags.BoolVar(&debug, "debug", false, "")

	// if flag `-h` of `--help` is within the command, the usage is automatically shown.
	// Setting `Usage` to a no-op will hide this extra unwanted output.
	flags.Usage = func() {}

	_ = flags.Parse(os.Args[1:])
	return debug
}
