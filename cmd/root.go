// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package cmd

import (
	"fmt"
	"io"
	"log"
	"os"

	"github.com/azure/azure-ops-cli/internal"
	"github.com/spf13/cobra"
)

// NewRootCmd builds the `azops` command tree.
func NewRootCmd() *cobra.Command {
	prevDir := ""
	opts := &internal.GlobalCommandOptions{}

	cmd := &cobra.Command{
		Use:   "azops",
		Short: "Operational utilities for Azure-based development workflows",
		Long: `Operational utilities for Azure-based development workflows.

azops bundles the recurring maintenance chores around our function apps,
template specs and wiki attachments:

	$ azops settings sync --app my-func-app
	$ azops templatespec prune --subscription <id> --dry-run
	$ azops attachments clean --attachments ./attachments --docs ./wiki`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if opts.Cwd != "" {
				current, err := os.Getwd()

				if err != nil {
					return err
				}

				prevDir = current

				if err := os.Chdir(opts.Cwd); err != nil {
					return fmt.Errorf("failed to change directory to %s: %w", opts.Cwd, err)
				}
			}

			log.SetFlags(log.LstdFlags | log.Lshortfile)

			if !opts.EnableDebugLogging {
				log.SetOutput(io.Discard)
			}

			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			// This is just for cleanliness and making writing tests simpler since
			// we can just remove the entire project folder afterwards.
			// In practical execution, this wouldn't affect much, since the CLI is exiting.
			if prevDir != "" {
				return os.Chdir(prevDir)
			}

			return nil
		},
		// errors are printed by main with error formatting applied
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	cmd.CompletionOptions.HiddenDefaultCmd = true
	cmd.Flags().BoolP("help", "h", false, "Help for "+cmd.Name())
	cmd.PersistentFlags().StringVarP(&opts.Cwd, "cwd", "C", "", "Set the current working directory")
	cmd.PersistentFlags().BoolVar(&opts.EnableDebugLogging, "debug", false, "Enables debug/diagnostic logging")

	cmd.AddCommand(settingsCmd(opts))
	cmd.AddCommand(templateSpecCmd(opts))
	cmd.AddCommand(attachmentsCmd(opts))
	cmd.AddCommand(versionCmd(opts))

	return cmd
}
