// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package templatespec

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/azure/azure-ops-cli/pkg/azapi"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	specs     []*azapi.TemplateSpec
	versions  map[string][]*azapi.TemplateSpecVersion
	deleted   []string
	deleteErr error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		versions: map[string][]*azapi.TemplateSpecVersion{},
	}
}

func (f *fakeStore) addSpec(rg string, name string, versions ...*azapi.TemplateSpecVersion) {
	f.specs = append(f.specs, &azapi.TemplateSpec{
		Id:            fmt.Sprintf("/subscriptions/sub/resourceGroups/%s/providers/Microsoft.Resources/templateSpecs/%s", rg, name),
		Name:          name,
		ResourceGroup: rg,
	})
	f.versions[rg+"/"+name] = versions
}

func (f *fakeStore) ListTemplateSpecs(ctx context.Context, subscriptionId string) ([]*azapi.TemplateSpec, error) {
	return f.specs, nil
}

func (f *fakeStore) ListVersions(
	ctx context.Context, subscriptionId string, resourceGroup string, specName string,
) ([]*azapi.TemplateSpecVersion, error) {
	return f.versions[resourceGroup+"/"+specName], nil
}

func (f *fakeStore) DeleteVersion(
	ctx context.Context, subscriptionId string, resourceGroup string, specName string, versionName string,
) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}

	f.deleted = append(f.deleted, fmt.Sprintf("%s/%s/%s", resourceGroup, specName, versionName))

	key := resourceGroup + "/" + specName
	remaining := []*azapi.TemplateSpecVersion{}
	for _, v := range f.versions[key] {
		if v.Name != versionName {
			remaining = append(remaining, v)
		}
	}
	f.versions[key] = remaining
	return nil
}

func version(name string, created time.Time) *azapi.TemplateSpecVersion {
	return &azapi.TemplateSpecVersion{Name: name, CreationTime: created}
}

var t0 = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func TestPruneUnderThreshold(t *testing.T) {
	store := newFakeStore()
	store.addSpec("rg1", "app-infra",
		version("1", t0),
		version("2", t0.Add(time.Hour)),
	)

	pruner := NewPruner(store, nil)
	report, err := pruner.Prune(context.Background(), Options{SubscriptionId: "sub", Keep: 2})

	require.NoError(t, err)
	require.Empty(t, report.Deletions)
	require.Empty(t, store.deleted)
	require.Equal(t, 1, report.TemplateSpecs)
}

func TestPruneDeletesOldestFirst(t *testing.T) {
	store := newFakeStore()
	store.addSpec("rg1", "app-infra",
		version("3", t0.Add(2*time.Hour)),
		version("1", t0),
		version("5", t0.Add(4*time.Hour)),
		version("2", t0.Add(time.Hour)),
		version("4", t0.Add(3*time.Hour)),
	)

	pruner := NewPruner(store, nil)
	report, err := pruner.Prune(context.Background(), Options{SubscriptionId: "sub", Keep: 2})

	require.NoError(t, err)
	require.Len(t, report.Deletions, 3)
	require.Equal(t, []string{
		"rg1/app-infra/1",
		"rg1/app-infra/2",
		"rg1/app-infra/3",
	}, store.deleted)
}

func TestPruneTieBreaksByName(t *testing.T) {
	store := newFakeStore()
	store.addSpec("rg1", "app-infra",
		version("b", t0),
		version("a", t0),
		version("c", t0),
	)

	pruner := NewPruner(store, nil)
	_, err := pruner.Prune(context.Background(), Options{SubscriptionId: "sub", Keep: 1})

	require.NoError(t, err)
	require.Equal(t, []string{"rg1/app-infra/a", "rg1/app-infra/b"}, store.deleted)
}

func TestPruneDryRun(t *testing.T) {
	store := newFakeStore()
	store.addSpec("rg1", "app-infra",
		version("1", t0),
		version("2", t0.Add(time.Hour)),
		version("3", t0.Add(2*time.Hour)),
	)

	pruner := NewPruner(store, nil)
	report, err := pruner.Prune(context.Background(), Options{SubscriptionId: "sub", Keep: 1, DryRun: true})

	require.NoError(t, err)
	require.True(t, report.DryRun)
	// the reported set matches what a live run would delete
	require.Len(t, report.Deletions, 2)
	require.Equal(t, "1", report.Deletions[0].Version)
	require.Equal(t, "2", report.Deletions[1].Version)
	// but nothing was deleted
	require.Empty(t, store.deleted)
	require.Len(t, store.versions["rg1/app-infra"], 3)
}

func TestPruneIsIdempotent(t *testing.T) {
	store := newFakeStore()
	store.addSpec("rg1", "app-infra",
		version("1", t0),
		version("2", t0.Add(time.Hour)),
		version("3", t0.Add(2*time.Hour)),
	)

	pruner := NewPruner(store, nil)
	opts := Options{SubscriptionId: "sub", Keep: 2}

	first, err := pruner.Prune(context.Background(), opts)
	require.NoError(t, err)
	require.Len(t, first.Deletions, 1)

	second, err := pruner.Prune(context.Background(), opts)
	require.NoError(t, err)
	require.Empty(t, second.Deletions)
}

func TestPruneMultipleSpecs(t *testing.T) {
	store := newFakeStore()
	store.addSpec("rg1", "app-infra",
		version("1", t0),
		version("2", t0.Add(time.Hour)),
	)
	store.addSpec("rg2", "db-infra",
		version("1", t0),
		version("2", t0.Add(time.Hour)),
		version("3", t0.Add(2*time.Hour)),
	)

	var calls []int
	pruner := NewPruner(store, func(d Deletion, done int, total int) {
		require.Equal(t, 2, total)
		calls = append(calls, done)
	})
	report, err := pruner.Prune(context.Background(), Options{SubscriptionId: "sub", Keep: 1})

	require.NoError(t, err)
	require.Len(t, report.Deletions, 2)
	require.Equal(t, 2, report.TemplateSpecs)
	require.Equal(t, []int{1, 2}, calls)
}

func TestPruneAbortsOnDeleteError(t *testing.T) {
	store := newFakeStore()
	store.addSpec("rg1", "app-infra",
		version("1", t0),
		version("2", t0.Add(time.Hour)),
		version("3", t0.Add(2*time.Hour)),
	)
	store.deleteErr = errors.New("conflict")

	pruner := NewPruner(store, nil)
	_, err := pruner.Prune(context.Background(), Options{SubscriptionId: "sub", Keep: 1})

	require.ErrorContains(t, err, "conflict")
}

func TestPruneRejectsNegativeKeep(t *testing.T) {
	pruner := NewPruner(newFakeStore(), nil)
	_, err := pruner.Prune(context.Background(), Options{SubscriptionId: "sub", Keep: -1})
	require.Error(t, err)
}
