// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package keyvault

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/security/keyvault/azsecrets"
)

var ErrSecretNotFound = errors.New("secret not found")

type Secret struct {
	Id    string `json:"id"`
	Name  string `json:"name"`
	Value string `json:"value"`
}

// SecretResolver reads secret values from the Key Vault data plane.
type SecretResolver interface {
	GetSecret(
		ctx context.Context,
		vaultName string,
		secretName string,
	) (*Secret, error)
}

type secretResolver struct {
	credential        azcore.TokenCredential
	coreClientOptions *azcore.ClientOptions

	mu      sync.Mutex
	clients map[string]*azsecrets.Client
}

// NewSecretResolver creates a new Key Vault secret resolver
func NewSecretResolver(
	credential azcore.TokenCredential,
	coreClientOptions *azcore.ClientOptions,
) SecretResolver {
	return &secretResolver{
		credential:        credential,
		coreClientOptions: coreClientOptions,
		clients:           map[string]*azsecrets.Client{},
	}
}

func (sr *secretResolver) GetSecret(
	ctx context.Context,
	vaultName string,
	secretName string,
) (*Secret, error) {
	vaultUrl := vaultName
	if !strings.Contains(strings.ToLower(vaultName), "https://") {
		vaultUrl = fmt.Sprintf("https://%s.vault.azure.net", vaultName)
	}

	client, err := sr.createSecretsDataClient(vaultUrl)
	if err != nil {
		return nil, err
	}

	response, err := client.GetSecret(ctx, secretName, "", nil)
	if err != nil {
		var httpErr *azcore.ResponseError
		if errors.As(err, &httpErr) && httpErr.StatusCode == http.StatusNotFound {
			return nil, ErrSecretNotFound
		}
		return nil, fmt.Errorf("getting key vault secret: %w", err)
	}

	return &Secret{
		Id:    response.Secret.ID.Version(),
		Name:  response.Secret.ID.Name(),
		Value: *response.Secret.Value,
	}, nil
}

// Creates a KeyVault client for data plane operations.
// Data plane clients are able to fetch secret values. ARM control plane clients never return secret values.
func (sr *secretResolver) createSecretsDataClient(vaultUrl string) (*azsecrets.Client, error) {
	sr.mu.Lock()
	defer sr.mu.Unlock()

	if client, has := sr.clients[vaultUrl]; has {
		return client, nil
	}

	options := &azsecrets.ClientOptions{
		ClientOptions:                        *sr.coreClientOptions,
		DisableChallengeResourceVerification: false,
	}

	client, err := azsecrets.NewClient(vaultUrl, sr.credential, options)
	if err != nil {
		return nil, fmt.Errorf("creating secrets client: %w", err)
	}

	sr.clients[vaultUrl] = client
	return client, nil
}
