// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package cmd

import (
	"fmt"
	"os"

	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
	"github.com/azure/azure-ops-cli/internal"
	"github.com/azure/azure-ops-cli/pkg/azapi"
	"github.com/azure/azure-ops-cli/pkg/output"
	"github.com/azure/azure-ops-cli/pkg/spin"
	"github.com/azure/azure-ops-cli/pkg/templatespec"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

func templateSpecCmd(global *internal.GlobalCommandOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "templatespec",
		Short: "Manage template specs.",
	}

	cmd.AddCommand(templateSpecPruneCmd(global))

	return cmd
}

type templateSpecPruneFlags struct {
	subscriptionId string
	keep           int
	dryRun         bool
	verbose        bool
}

func (f *templateSpecPruneFlags) Bind(local *pflag.FlagSet) {
	local.StringVar(&f.subscriptionId, "subscription", "", "Subscription to prune template spec versions in")
	local.IntVar(
		&f.keep,
		"keep",
		templatespec.DefaultKeep,
		"Maximum number of versions to retain per template spec",
	)
	local.BoolVar(&f.dryRun, "dry-run", false, "Report the versions that would be deleted without deleting them")
	local.BoolVar(&f.verbose, "verbose", false, "Log each deletion instead of showing a progress indicator")
}

func templateSpecPruneCmd(global *internal.GlobalCommandOptions) *cobra.Command {
	flags := &templateSpecPruneFlags{}

	cmd := &cobra.Command{
		Use:   "prune",
		Short: "Delete the oldest template spec versions above the retention threshold.",
		Long: `Delete the oldest template spec versions above the retention threshold.

ARM limits each template spec to 800 versions. Pipelines that publish a
version per run hit that quota; pruning keeps the newest versions and deletes
the rest, oldest first. Deletion is permanent.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			writer := cmd.OutOrStdout()

			formatter, err := output.GetFormatter(cmd)
			if err != nil {
				return err
			}

			credential, err := azidentity.NewAzureCLICredential(nil)
			if err != nil {
				return fmt.Errorf("creating credential: %w", err)
			}

			service := azapi.NewTemplateSpecService(credential, nil)

			verb := "Deleted"
			if flags.dryRun {
				verb = "Would delete"
			}

			pruneOpts := templatespec.Options{
				SubscriptionId: flags.subscriptionId,
				Keep:           flags.keep,
				DryRun:         flags.dryRun,
			}

			var report *templatespec.Report
			switch pickProgressMode(formatter.Kind(), flags.verbose, isatty.IsTerminal(os.Stdout.Fd())) {
			case progressSilent:
				pruner := templatespec.NewPruner(service, nil)
				report, err = pruner.Prune(ctx, pruneOpts)
			case progressLines:
				pruner := templatespec.NewPruner(service, func(d templatespec.Deletion, done int, total int) {
					fmt.Fprintf(writer, "%s version %s of %s (%s) [%d/%d]\n",
						verb, d.Version, d.TemplateSpec, d.ResourceGroup, done, total)
				})
				report, err = pruner.Prune(ctx, pruneOpts)
			default:
				spinner := spin.New("Pruning template spec versions")
				pruner := templatespec.NewPruner(service, func(d templatespec.Deletion, done int, total int) {
					spinner.UpdateText(fmt.Sprintf("Pruning template spec versions (%d/%d, %d%%)",
						done, total, done*100/total))
				})

				err = spinner.Run(func() error {
					report, err = pruner.Prune(ctx, pruneOpts)
					return err
				})
			}
			if err != nil {
				return err
			}

			if formatter.Kind() == output.JsonFormat {
				return formatter.Format(report, writer, nil)
			}

			if len(report.Deletions) == 0 {
				fmt.Fprintln(writer, output.WithSuccessFormat(
					"All %d template spec(s) are within the retention threshold of %d versions",
					report.TemplateSpecs, flags.keep))
				return nil
			}

			fmt.Fprintln(writer, output.WithSuccessFormat("%s %d version(s) across %d template spec(s)",
				verb, len(report.Deletions), report.TemplateSpecs))

			return nil
		},
	}

	flags.Bind(cmd.Flags())
	_ = cmd.MarkFlagRequired("subscription")
	output.AddOutputParam(cmd, []output.Format{output.JsonFormat, output.NoneFormat}, output.NoneFormat)

	return cmd
}
