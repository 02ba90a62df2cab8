// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package settings

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/azure/azure-ops-cli/pkg/keyvault"
)

// DevelopmentStorage is the local storage emulator sentinel understood by the
// Functions host and the Azure Storage SDKs.
const DevelopmentStorage = "UseDevelopmentStorage=true"

// secretRefRegex matches app service Key Vault references of the
// VaultName/SecretName form, e.g. `@Microsoft.KeyVault(VaultName=kv;SecretName=db-password)`.
var secretRefRegex = regexp.MustCompile(`@Microsoft\.KeyVault\(VaultName=([^;()]+);SecretName=([^;()]+)\)`)

// storageConnRegex matches a full storage account connection string. A value
// without an AccountKey segment (for example an identity-based connection) is
// deliberately not matched.
var storageConnRegex = regexp.MustCompile(
	`DefaultEndpointsProtocol=(http|https);AccountName=[^;]+;AccountKey=[^;]+(;EndpointSuffix=[^;]+)?`)

// ResolveSecretRefs replaces every Key Vault reference in the document with
// the literal secret value, returning the number of references resolved.
//
// Each regex match triggers its own vault lookup, even when the same
// reference token appears more than once.
func ResolveSecretRefs(ctx context.Context, doc *Document, resolver keyvault.SecretResolver) (int, error) {
	resolved := 0
	var resolveErr error

	doc.eachValue(func(current string) string {
		if resolveErr != nil {
			return current
		}

		for _, match := range secretRefRegex.FindAllStringSubmatch(current, -1) {
			token, vaultName, secretName := match[0], match[1], match[2]

			secret, err := resolver.GetSecret(ctx, vaultName, secretName)
			if err != nil {
				resolveErr = fmt.Errorf("resolving secret '%s' from vault '%s': %w", secretName, vaultName, err)
				return current
			}

			current = strings.ReplaceAll(current, token, secret.Value)
			resolved++
		}

		return current
	})

	return resolved, resolveErr
}

// ReplaceStorageConnections rewrites every value that contains a full storage
// connection string to the development storage sentinel, returning the number
// of values rewritten.
func ReplaceStorageConnections(doc *Document) int {
	replaced := 0

	doc.eachValue(func(current string) string {
		if !storageConnRegex.MatchString(current) {
			return current
		}

		replaced++
		return storageConnRegex.ReplaceAllString(current, DevelopmentStorage)
	})

	return replaced
}
