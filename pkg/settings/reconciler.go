// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package settings

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/azure/azure-ops-cli/pkg/keyvault"
	"github.com/azure/azure-ops-cli/pkg/tools/funccli"
)

// ErrOutputExists is returned when the target settings file already exists
// and overwriting was not requested.
var ErrOutputExists = errors.New("settings file already exists")

type SyncOptions struct {
	// AppName is the deployed function app whose settings are fetched.
	AppName string
	// OutputDir receives the reconstructed local.settings.json.
	OutputDir string
	// UseDevStorage rewrites storage connection strings to the local
	// development storage sentinel.
	UseDevStorage bool
	// LeaveDecrypted skips the final re-encryption of the settings file.
	LeaveDecrypted bool
	// Overwrite allows replacing an existing settings file.
	Overwrite bool
}

type SyncResult struct {
	Path                string `json:"path"`
	SecretsResolved     int    `json:"secretsResolved"`
	StorageConnReplaced int    `json:"storageConnectionsReplaced"`
	Encrypted           bool   `json:"encrypted"`
}

// Reconciler rebuilds a local settings file from a deployed function app's
// configuration: fetch, decrypt, resolve Key Vault references, optionally
// swap storage connections for the emulator, then re-encrypt.
type Reconciler struct {
	funcCli funccli.FuncCli
	secrets keyvault.SecretResolver
}

func NewReconciler(funcCli funccli.FuncCli, secrets keyvault.SecretResolver) *Reconciler {
	return &Reconciler{
		funcCli: funcCli,
		secrets: secrets,
	}
}

// Sync performs the full reconciliation. The first failing step aborts the
// run; a partially rewritten settings file is left in place for inspection.
func (r *Reconciler) Sync(ctx context.Context, opts SyncOptions) (*SyncResult, error) {
	outputPath := filepath.Join(opts.OutputDir, FileName)

	if _, err := os.Stat(outputPath); err == nil && !opts.Overwrite {
		return nil, fmt.Errorf("%w: %s (pass --force to overwrite)", ErrOutputExists, outputPath)
	}

	if err := r.funcCli.FetchAppSettings(ctx, opts.OutputDir, opts.AppName); err != nil {
		return nil, err
	}

	if err := r.funcCli.DecryptSettings(ctx, opts.OutputDir); err != nil {
		return nil, err
	}

	doc, err := Load(outputPath)
	if err != nil {
		return nil, err
	}

	resolved, err := ResolveSecretRefs(ctx, doc, r.secrets)
	if err != nil {
		return nil, err
	}
	log.Printf("resolved %d key vault reference(s) for %s", resolved, opts.AppName)

	replaced := 0
	if opts.UseDevStorage {
		replaced = ReplaceStorageConnections(doc)
		log.Printf("replaced %d storage connection string(s)", replaced)
	}

	if err := doc.Save(outputPath); err != nil {
		return nil, err
	}

	encrypted := false
	if !opts.LeaveDecrypted {
		if err := r.funcCli.EncryptSettings(ctx, opts.OutputDir); err != nil {
			return nil, err
		}
		encrypted = true
	}

	return &SyncResult{
		Path:                outputPath,
		SecretsResolved:     resolved,
		StorageConnReplaced: replaced,
		Encrypted:           encrypted,
	}, nil
}
