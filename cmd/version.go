// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package cmd

import (
	"fmt"

	"github.com/azure/azure-ops-cli/internal"
	"github.com/azure/azure-ops-cli/pkg/output"
	"github.com/spf13/cobra"
)

func versionCmd(global *internal.GlobalCommandOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print the version number of azops.",
		RunE: func(cmd *cobra.Command, args []string) error {
			writer := cmd.OutOrStdout()

			formatter, err := output.GetFormatter(cmd)
			if err != nil {
				return err
			}

			switch formatter.Kind() {
			case output.JsonFormat:
				return formatter.Format(internal.GetVersionSpec(), writer, nil)
			default:
				fmt.Fprintf(writer, "azops version %s\n", internal.Version)
			}

			return nil
		},
	}

	output.AddOutputParam(cmd, []output.Format{output.JsonFormat, output.NoneFormat}, output.NoneFormat)

	return cmd
}
