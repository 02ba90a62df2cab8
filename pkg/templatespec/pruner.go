// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

// Package templatespec prunes old template spec versions so each template
// spec stays under the per-resource version quota.
package templatespec

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/azure/azure-ops-cli/pkg/azapi"
)

// DefaultKeep is the number of versions retained per template spec when no
// override is given. ARM caps template specs at 800 versions; 400 leaves
// enough headroom between pruning runs.
const DefaultKeep = 400

// VersionStore is the cloud boundary the pruner operates against.
type VersionStore interface {
	ListTemplateSpecs(ctx context.Context, subscriptionId string) ([]*azapi.TemplateSpec, error)
	ListVersions(
		ctx context.Context,
		subscriptionId string,
		resourceGroup string,
		specName string,
	) ([]*azapi.TemplateSpecVersion, error)
	DeleteVersion(
		ctx context.Context,
		subscriptionId string,
		resourceGroup string,
		specName string,
		versionName string,
	) error
}

type Options struct {
	SubscriptionId string
	// Keep is the maximum number of versions retained per template spec.
	Keep int
	// DryRun computes and reports the deletion set without deleting anything.
	DryRun bool
}

// Deletion identifies one version that was (or would be) deleted.
type Deletion struct {
	TemplateSpec  string    `json:"templateSpec"`
	ResourceGroup string    `json:"resourceGroup"`
	Version       string    `json:"version"`
	CreationTime  time.Time `json:"creationTime"`
}

type Report struct {
	TemplateSpecs int        `json:"templateSpecs"`
	Deletions     []Deletion `json:"deletions"`
	DryRun        bool       `json:"dryRun"`
}

// ProgressFunc is invoked after each deletion (or, under dry-run, after each
// version is added to the report), with the count of processed deletions and
// the precomputed total.
type ProgressFunc func(deleted Deletion, done int, total int)

type Pruner struct {
	store    VersionStore
	progress ProgressFunc
}

func NewPruner(store VersionStore, progress ProgressFunc) *Pruner {
	return &Pruner{
		store:    store,
		progress: progress,
	}
}

// Prune trims every template spec in the subscription down to opts.Keep
// versions, deleting the oldest versions first. Any error listing or deleting
// aborts the run; deletions already performed are not rolled back.
func (p *Pruner) Prune(ctx context.Context, opts Options) (*Report, error) {
	if opts.Keep < 0 {
		return nil, fmt.Errorf("keep count must be non-negative, got %d", opts.Keep)
	}

	specs, err := p.store.ListTemplateSpecs(ctx, opts.SubscriptionId)
	if err != nil {
		return nil, err
	}

	// First pass computes the full deletion set so the total is known before
	// the first delete and the dry-run report matches a live run exactly.
	pending := []Deletion{}
	for _, spec := range specs {
		versions, err := p.store.ListVersions(ctx, opts.SubscriptionId, spec.ResourceGroup, spec.Name)
		if err != nil {
			return nil, err
		}

		if len(versions) <= opts.Keep {
			continue
		}

		sortVersions(versions)

		toDelete := len(versions) - opts.Keep
		for _, version := range versions[:toDelete] {
			pending = append(pending, Deletion{
				TemplateSpec:  spec.Name,
				ResourceGroup: spec.ResourceGroup,
				Version:       version.Name,
				CreationTime:  version.CreationTime,
			})
		}
	}

	report := &Report{
		TemplateSpecs: len(specs),
		Deletions:     []Deletion{},
		DryRun:        opts.DryRun,
	}

	for i, deletion := range pending {
		if !opts.DryRun {
			err := p.store.DeleteVersion(
				ctx,
				opts.SubscriptionId,
				deletion.ResourceGroup,
				deletion.TemplateSpec,
				deletion.Version,
			)
			if err != nil {
				return nil, err
			}
		}

		report.Deletions = append(report.Deletions, deletion)
		if p.progress != nil {
			p.progress(deletion, i+1, len(pending))
		}
	}

	return report, nil
}

// sortVersions orders oldest first. Creation timestamps can collide when
// versions are published by the same pipeline run, so the version name is the
// secondary key to keep the order deterministic.
func sortVersions(versions []*azapi.TemplateSpecVersion) {
	sort.Slice(versions, func(i, j int) bool {
		if versions[i].CreationTime.Equal(versions[j].CreationTime) {
			return versions[i].Name < versions[j].Name
		}
		return versions[i].CreationTime.Before(versions[j].CreationTime)
	})
}
