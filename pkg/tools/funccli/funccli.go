// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

// Package funccli wraps the Azure Functions Core Tools (`func`) CLI.
package funccli

import (
	"context"
	"fmt"
	"log"

	"github.com/azure/azure-ops-cli/pkg/exec"
	"github.com/azure/azure-ops-cli/pkg/tools"
	"github.com/blang/semver/v4"
)

type FuncCli interface {
	tools.ExternalTool
	// FetchAppSettings downloads the application settings of the named
	// function app into `local.settings.json` within dir.
	FetchAppSettings(ctx context.Context, dir string, appName string) error
	// DecryptSettings decrypts `local.settings.json` within dir, in place.
	DecryptSettings(ctx context.Context, dir string) error
	// EncryptSettings encrypts `local.settings.json` within dir, in place.
	EncryptSettings(ctx context.Context, dir string) error
}

type funcCli struct {
	commandRunner exec.CommandRunner
}

func NewFuncCli(commandRunner exec.CommandRunner) FuncCli {
	return &funcCli{
		commandRunner: commandRunner,
	}
}

func (cli *funcCli) versionInfo() tools.VersionInfo {
	return tools.VersionInfo{
		// fetch-app-settings and settings encrypt/decrypt have been stable
		// since the v4 line.
		MinimumVersion: semver.Version{
			Major: 4,
			Minor: 0,
			Patch: 0},
		UpdateCommand: "Run `npm install -g azure-functions-core-tools@4` to upgrade",
	}
}

func (cli *funcCli) CheckInstalled(ctx context.Context) error {
	err := tools.ToolInPath("func")
	if err != nil {
		return err
	}
	funcRes, err := tools.ExecuteCommand(ctx, cli.commandRunner, "func", "--version")
	if err != nil {
		return fmt.Errorf("checking %s version: %w", cli.Name(), err)
	}
	log.Printf("func version: %s", funcRes)
	funcSemver, err := tools.ExtractVersion(funcRes)
	if err != nil {
		return fmt.Errorf("converting to semver version fails: %w", err)
	}
	updateDetail := cli.versionInfo()
	if funcSemver.LT(updateDetail.MinimumVersion) {
		return &tools.ErrSemver{ToolName: cli.Name(), VersionInfo: updateDetail}
	}
	return nil
}

func (cli *funcCli) InstallUrl() string {
	return "https://learn.microsoft.com/azure/azure-functions/functions-run-local"
}

func (cli *funcCli) Name() string {
	return "Azure Functions Core Tools"
}

func (cli *funcCli) FetchAppSettings(ctx context.Context, dir string, appName string) error {
	// `func` writes local.settings.json into the current working directory,
	// so the target directory is supplied as cwd rather than as an argument.
	runArgs := exec.NewRunArgs("func", "azure", "functionapp", "fetch-app-settings", appName).
		WithCwd(dir)

	res, err := cli.commandRunner.Run(ctx, runArgs)
	if err != nil {
		return fmt.Errorf("fetching app settings for %s: %s: %w", appName, res.String(), err)
	}

	return nil
}

func (cli *funcCli) DecryptSettings(ctx context.Context, dir string) error {
	return cli.runSettingsCommand(ctx, dir, "decrypt")
}

func (cli *funcCli) EncryptSettings(ctx context.Context, dir string) error {
	return cli.runSettingsCommand(ctx, dir, "encrypt")
}

func (cli *funcCli) runSettingsCommand(ctx context.Context, dir string, verb string) error {
	runArgs := exec.NewRunArgs("func", "settings", verb).
		WithCwd(dir)

	res, err := cli.commandRunner.Run(ctx, runArgs)
	if err != nil {
		return fmt.Errorf("func settings %s: %s: %w", verb, res.String(), err)
	}

	return nil
}
