// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package settings

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/azure/azure-ops-cli/pkg/keyvault"
	"github.com/stretchr/testify/require"
)

type fakeResolver struct {
	lookups []string
	err     error
}

func (f *fakeResolver) GetSecret(ctx context.Context, vaultName string, secretName string) (*keyvault.Secret, error) {
	f.lookups = append(f.lookups, vaultName+"/"+secretName)
	if f.err != nil {
		return nil, f.err
	}
	return &keyvault.Secret{
		Name:  secretName,
		Value: fmt.Sprintf("resolved(%s/%s)", vaultName, secretName),
	}, nil
}

func TestResolveSecretRefs(t *testing.T) {
	doc := &Document{
		Values: map[string]string{
			"DbPassword": "@Microsoft.KeyVault(VaultName=kv1;SecretName=db-password)",
			"Plain":      "no secrets here",
		},
	}
	resolver := &fakeResolver{}

	resolved, err := ResolveSecretRefs(context.Background(), doc, resolver)

	require.NoError(t, err)
	require.Equal(t, 1, resolved)
	require.Equal(t, "resolved(kv1/db-password)", doc.Values["DbPassword"])
	require.Equal(t, "no secrets here", doc.Values["Plain"])
	require.Equal(t, []string{"kv1/db-password"}, resolver.lookups)
}

func TestResolveSecretRefsEmbedded(t *testing.T) {
	doc := &Document{
		Values: map[string]string{
			"Conn": "Server=db;Password=@Microsoft.KeyVault(VaultName=kv1;SecretName=s1);Timeout=30",
		},
	}
	resolver := &fakeResolver{}

	resolved, err := ResolveSecretRefs(context.Background(), doc, resolver)

	require.NoError(t, err)
	require.Equal(t, 1, resolved)
	require.Equal(t, "Server=db;Password=resolved(kv1/s1);Timeout=30", doc.Values["Conn"])
}

func TestResolveSecretRefsLookupPerMatch(t *testing.T) {
	// the same reference appearing twice triggers two lookups, mirroring the
	// per-match resolution behavior rather than deduplicating tokens
	doc := &Document{
		Values: map[string]string{
			"A": "@Microsoft.KeyVault(VaultName=kv1;SecretName=s1)",
			"B": "@Microsoft.KeyVault(VaultName=kv1;SecretName=s1)",
		},
	}
	resolver := &fakeResolver{}

	resolved, err := ResolveSecretRefs(context.Background(), doc, resolver)

	require.NoError(t, err)
	require.Equal(t, 2, resolved)
	require.Len(t, resolver.lookups, 2)
	require.Equal(t, "resolved(kv1/s1)", doc.Values["A"])
	require.Equal(t, "resolved(kv1/s1)", doc.Values["B"])
}

func TestResolveSecretRefsConnectionStrings(t *testing.T) {
	doc := &Document{
		ConnectionStrings: map[string]string{
			"Sql": "@Microsoft.KeyVault(VaultName=kv1;SecretName=sql-conn)",
		},
	}
	resolver := &fakeResolver{}

	resolved, err := ResolveSecretRefs(context.Background(), doc, resolver)

	require.NoError(t, err)
	require.Equal(t, 1, resolved)
	require.Equal(t, "resolved(kv1/sql-conn)", doc.ConnectionStrings["Sql"])
}

func TestResolveSecretRefsError(t *testing.T) {
	doc := &Document{
		Values: map[string]string{
			"DbPassword": "@Microsoft.KeyVault(VaultName=kv1;SecretName=missing)",
		},
	}
	resolver := &fakeResolver{err: errors.New("secret not found")}

	_, err := ResolveSecretRefs(context.Background(), doc, resolver)

	require.ErrorContains(t, err, "missing")
	require.ErrorContains(t, err, "kv1")
}

func TestReplaceStorageConnections(t *testing.T) {
	tests := []struct {
		name     string
		value    string
		expected string
	}{
		{
			"https with endpoint suffix",
			"DefaultEndpointsProtocol=https;AccountName=stdev;AccountKey=abc123==;EndpointSuffix=core.windows.net",
			DevelopmentStorage,
		},
		{
			"http without endpoint suffix",
			"DefaultEndpointsProtocol=http;AccountName=stdev;AccountKey=abc123==",
			DevelopmentStorage,
		},
		{
			"missing account key left untouched",
			"DefaultEndpointsProtocol=https;AccountName=stdev",
			"DefaultEndpointsProtocol=https;AccountName=stdev",
		},
		{
			"non storage value left untouched",
			"Endpoint=sb://bus.servicebus.windows.net/;SharedAccessKeyName=root",
			"Endpoint=sb://bus.servicebus.windows.net/;SharedAccessKeyName=root",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := &Document{Values: map[string]string{"Storage": tt.value}}
			ReplaceStorageConnections(doc)
			require.Equal(t, tt.expected, doc.Values["Storage"])
		})
	}
}

func TestReplaceStorageConnectionsCount(t *testing.T) {
	doc := &Document{
		Values: map[string]string{
			"AzureWebJobsStorage": "DefaultEndpointsProtocol=https;AccountName=a;AccountKey=k1==",
			"DataStorage":         "DefaultEndpointsProtocol=https;AccountName=b;AccountKey=k2==;EndpointSuffix=core.windows.net",
			"Plain":               "value",
		},
	}

	replaced := ReplaceStorageConnections(doc)

	require.Equal(t, 2, replaced)
	require.Equal(t, DevelopmentStorage, doc.Values["AzureWebJobsStorage"])
	require.Equal(t, DevelopmentStorage, doc.Values["DataStorage"])
}
