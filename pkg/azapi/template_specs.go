// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package azapi

import (
	"context"
	"fmt"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/arm"
	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/resources/armtemplatespecs"
)

type TemplateSpec struct {
	Id            string `json:"id"`
	Name          string `json:"name"`
	ResourceGroup string `json:"resourceGroup"`
	Location      string `json:"location"`
}

type TemplateSpecVersion struct {
	Name         string    `json:"name"`
	CreationTime time.Time `json:"creationTime"`
}

// TemplateSpecService exposes the ARM control plane operations needed to
// enumerate and delete template spec versions within a subscription.
type TemplateSpecService struct {
	credential       azcore.TokenCredential
	armClientOptions *arm.ClientOptions
}

func NewTemplateSpecService(
	credential azcore.TokenCredential,
	armClientOptions *arm.ClientOptions,
) *TemplateSpecService {
	return &TemplateSpecService{
		credential:       credential,
		armClientOptions: armClientOptions,
	}
}

func (ts *TemplateSpecService) ListTemplateSpecs(
	ctx context.Context, subscriptionId string) ([]*TemplateSpec, error) {
	client, err := ts.createTemplateSpecsClient(subscriptionId)
	if err != nil {
		return nil, err
	}

	specs := []*TemplateSpec{}
	pager := client.NewListBySubscriptionPager(nil)
	for pager.More() {
		page, err := pager.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("listing template specs: %w", err)
		}

		for _, spec := range page.Value {
			resourceId, err := arm.ParseResourceID(*spec.ID)
			if err != nil {
				return nil, fmt.Errorf("parsing template spec id '%s': %w", *spec.ID, err)
			}

			specs = append(specs, &TemplateSpec{
				Id:            *spec.ID,
				Name:          *spec.Name,
				ResourceGroup: resourceId.ResourceGroupName,
				Location:      *spec.Location,
			})
		}
	}

	return specs, nil
}

func (ts *TemplateSpecService) ListVersions(
	ctx context.Context,
	subscriptionId string,
	resourceGroup string,
	specName string,
) ([]*TemplateSpecVersion, error) {
	client, err := ts.createVersionsClient(subscriptionId)
	if err != nil {
		return nil, err
	}

	versions := []*TemplateSpecVersion{}
	pager := client.NewListPager(resourceGroup, specName, nil)
	for pager.More() {
		page, err := pager.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("listing versions of template spec '%s': %w", specName, err)
		}

		for _, version := range page.Value {
			// systemData is populated by ARM on every write; treat a missing
			// timestamp as the zero time so ordering stays total.
			var created time.Time
			if version.SystemData != nil && version.SystemData.CreatedAt != nil {
				created = *version.SystemData.CreatedAt
			}

			versions = append(versions, &TemplateSpecVersion{
				Name:         *version.Name,
				CreationTime: created,
			})
		}
	}

	return versions, nil
}

func (ts *TemplateSpecService) DeleteVersion(
	ctx context.Context,
	subscriptionId string,
	resourceGroup string,
	specName string,
	versionName string,
) error {
	client, err := ts.createVersionsClient(subscriptionId)
	if err != nil {
		return err
	}

	_, err = client.Delete(ctx, resourceGroup, specName, versionName, nil)
	if err != nil {
		return fmt.Errorf("deleting version '%s' of template spec '%s': %w", versionName, specName, err)
	}

	return nil
}

func (ts *TemplateSpecService) createTemplateSpecsClient(
	subscriptionId string) (*armtemplatespecs.Client, error) {
	client, err := armtemplatespecs.NewClient(subscriptionId, ts.credential, ts.armClientOptions)
	if err != nil {
		return nil, fmt.Errorf("creating TemplateSpecs client: %w", err)
	}

	return client, nil
}

func (ts *TemplateSpecService) createVersionsClient(
	subscriptionId string) (*armtemplatespecs.TemplateSpecVersionsClient, error) {
	client, err := armtemplatespecs.NewTemplateSpecVersionsClient(subscriptionId, ts.credential, ts.armClientOptions)
	if err != nil {
		return nil, fmt.Errorf("creating TemplateSpecVersions client: %w", err)
	}

	return client, nil
}
