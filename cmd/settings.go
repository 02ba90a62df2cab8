// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package cmd

import (
	"fmt"
	"os"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
	"github.com/azure/azure-ops-cli/internal"
	"github.com/azure/azure-ops-cli/pkg/exec"
	"github.com/azure/azure-ops-cli/pkg/keyvault"
	"github.com/azure/azure-ops-cli/pkg/output"
	"github.com/azure/azure-ops-cli/pkg/settings"
	"github.com/azure/azure-ops-cli/pkg/spin"
	"github.com/azure/azure-ops-cli/pkg/tools/funccli"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

func settingsCmd(global *internal.GlobalCommandOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Manage local settings files for function apps.",
	}

	cmd.AddCommand(settingsSyncCmd(global))

	return cmd
}

type settingsSyncFlags struct {
	appName        string
	outputDir      string
	useDevStorage  bool
	leaveDecrypted bool
	force          bool
}

func (f *settingsSyncFlags) Bind(local *pflag.FlagSet) {
	local.StringVar(&f.appName, "app", "", "Name of the deployed function app to fetch settings from")
	local.StringVar(&f.outputDir, "output-dir", ".", "Directory that receives local.settings.json")
	local.BoolVar(
		&f.useDevStorage,
		"use-dev-storage",
		false,
		"Replace storage connection strings with "+settings.DevelopmentStorage,
	)
	local.BoolVar(&f.leaveDecrypted, "leave-decrypted", false, "Skip the final re-encryption of the settings file")
	local.BoolVar(&f.force, "force", false, "Overwrite an existing local.settings.json")
}

func settingsSyncCmd(global *internal.GlobalCommandOptions) *cobra.Command {
	flags := &settingsSyncFlags{}

	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Rebuild local.settings.json from a deployed function app.",
		Long: `Rebuild local.settings.json from a deployed function app.

Fetches the app's configuration with the Azure Functions Core Tools, decrypts
it, resolves Key Vault references to literal secret values and re-encrypts
the result. Requires the ` + "`func`" + ` CLI and an ` + "`az login`" + ` session.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			writer := cmd.OutOrStdout()

			formatter, err := output.GetFormatter(cmd)
			if err != nil {
				return err
			}

			runner := exec.NewCommandRunner(&exec.RunnerOptions{
				DebugLogging: global.EnableDebugLogging,
			})
			funcCli := funccli.NewFuncCli(runner)

			if err := funcCli.CheckInstalled(ctx); err != nil {
				return fmt.Errorf("%s is required: %w (install: %s)", funcCli.Name(), err, funcCli.InstallUrl())
			}

			credential, err := azidentity.NewAzureCLICredential(nil)
			if err != nil {
				return fmt.Errorf("creating credential: %w", err)
			}

			resolver := keyvault.NewSecretResolver(credential, &azcore.ClientOptions{})
			reconciler := settings.NewReconciler(funcCli, resolver)

			syncOpts := settings.SyncOptions{
				AppName:        flags.appName,
				OutputDir:      flags.outputDir,
				UseDevStorage:  flags.useDevStorage,
				LeaveDecrypted: flags.leaveDecrypted,
				Overwrite:      flags.force,
			}

			var result *settings.SyncResult
			if pickProgressMode(formatter.Kind(), false, isatty.IsTerminal(os.Stdout.Fd())) == progressSpinner {
				err = spin.Run(fmt.Sprintf("Syncing settings for %s", flags.appName), func() error {
					result, err = reconciler.Sync(ctx, syncOpts)
					return err
				})
			} else {
				result, err = reconciler.Sync(ctx, syncOpts)
			}
			if err != nil {
				return err
			}

			if formatter.Kind() == output.JsonFormat {
				return formatter.Format(result, writer, nil)
			}

			fmt.Fprintln(writer, output.WithSuccessFormat("Synced settings for %s", flags.appName))
			fmt.Fprintf(writer, "  Settings file: %s\n", output.WithHighLightFormat(result.Path))
			fmt.Fprintln(writer, output.WithGrayFormat("  Key vault references resolved: %d", result.SecretsResolved))
			if flags.useDevStorage {
				fmt.Fprintln(writer, output.WithGrayFormat(
					"  Storage connections replaced: %d", result.StorageConnReplaced))
			}
			if !result.Encrypted {
				fmt.Fprintln(writer, output.WithWarningFormat(
					"  The settings file was left decrypted and contains literal secrets"))
			}

			return nil
		},
	}

	flags.Bind(cmd.Flags())
	_ = cmd.MarkFlagRequired("app")
	output.AddOutputParam(cmd, []output.Format{output.JsonFormat, output.NoneFormat}, output.NoneFormat)

	return cmd
}
