// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package cmd

import (
	"fmt"

	"github.com/azure/azure-ops-cli/internal"
	"github.com/azure/azure-ops-cli/pkg/attachments"
	"github.com/azure/azure-ops-cli/pkg/output"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

func attachmentsCmd(global *internal.GlobalCommandOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "attachments",
		Short: "Manage documentation attachments.",
	}

	cmd.AddCommand(attachmentsCleanCmd(global))

	return cmd
}

type attachmentsCleanFlags struct {
	attachmentsDir string
	docsDir        string
	docsExt        string
	dryRun         bool
}

func (f *attachmentsCleanFlags) Bind(local *pflag.FlagSet) {
	local.StringVar(&f.attachmentsDir, "attachments", "", "Directory containing attachment files")
	local.StringVar(&f.docsDir, "docs", "", "Root of the documentation tree to search for references")
	local.StringVar(&f.docsExt, "docs-ext", ".md", "Extension of documentation files to search")
	local.BoolVar(&f.dryRun, "dry-run", false, "Report orphans without deleting them (exits 1 when orphans exist)")
}

func attachmentsCleanCmd(global *internal.GlobalCommandOptions) *cobra.Command {
	flags := &attachmentsCleanFlags{}

	cmd := &cobra.Command{
		Use:   "clean",
		Short: "Delete attachments no longer referenced by any documentation page.",
		Long: `Delete attachments no longer referenced by any documentation page.

An attachment is kept if its URL-encoded filename (spaces become %20) appears
anywhere in a documentation file. With --dry-run the command only reports
orphans and exits with code 1 when any are found, so pipelines can flag
pending cleanup without performing it.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			writer := cmd.OutOrStdout()

			cleaner := attachments.NewCleaner(func(format string, a ...any) {
				fmt.Fprintf(writer, format+"\n", a...)
			})

			result, err := cleaner.Clean(attachments.Options{
				AttachmentsDir: flags.attachmentsDir,
				DocsDir:        flags.docsDir,
				DocsExt:        flags.docsExt,
				DryRun:         flags.dryRun,
			})
			if err != nil {
				return err
			}

			switch result.Status {
			case attachments.StatusNoActionNeeded:
				fmt.Fprintln(writer, output.WithSuccessFormat(
					"No orphaned attachments (%d attachment(s), %d documentation file(s) checked)",
					result.Attachments, result.DocFiles))
			case attachments.StatusCompleted:
				fmt.Fprintln(writer, output.WithSuccessFormat(
					"Deleted %d orphaned attachment(s)", len(result.Orphans)))
			case attachments.StatusCleanupPending:
				fmt.Fprintln(writer, output.WithGrayFormat(
					"Run %s without --dry-run to delete them.",
					output.WithBackticks("azops attachments clean")))
				return fmt.Errorf("%w: %d orphaned attachment(s) would be deleted",
					attachments.ErrCleanupPending, len(result.Orphans))
			}

			return nil
		},
	}

	flags.Bind(cmd.Flags())
	_ = cmd.MarkFlagRequired("attachments")
	_ = cmd.MarkFlagRequired("docs")

	return cmd
}
