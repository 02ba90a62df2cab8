// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

// Package attachments deletes attachment files no longer referenced by any
// documentation page.
package attachments

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// ErrCleanupPending signals that a dry run found orphans. The command
// boundary turns it into a non-zero exit code so pipelines can detect
// "cleanup needed" without performing it.
var ErrCleanupPending = errors.New("cleanup pending")

// Status describes the outcome of a cleanup run. It is translated to a
// process exit code at the command boundary so pipelines can detect pending
// cleanup without performing it.
type Status string

const (
	// StatusNoActionNeeded means no orphaned attachments were found.
	StatusNoActionNeeded Status = "noActionNeeded"
	// StatusCompleted means orphans were found and deleted.
	StatusCompleted Status = "completed"
	// StatusCleanupPending means a dry run found orphans that a live run
	// would delete.
	StatusCleanupPending Status = "cleanupPending"
)

type Options struct {
	// AttachmentsDir is scanned for attachment files, non-recursively.
	AttachmentsDir string
	// DocsDir is searched recursively for documentation files.
	DocsDir string
	// DocsExt filters which documentation files are searched, e.g. ".md".
	DocsExt string
	// DryRun reports orphans without deleting them.
	DryRun bool
}

type Orphan struct {
	Name string `json:"name"`
	Path string `json:"path"`
}

type Result struct {
	Status      Status   `json:"status"`
	Orphans     []Orphan `json:"orphans"`
	Attachments int      `json:"attachments"`
	DocFiles    int      `json:"docFiles"`
}

// Cleaner reports orphaned attachments through reportFn, one line per orphan.
type Cleaner struct {
	reportFn func(format string, a ...any)
}

func NewCleaner(reportFn func(format string, a ...any)) *Cleaner {
	if reportFn == nil {
		reportFn = log.Printf
	}
	return &Cleaner{reportFn: reportFn}
}

// Clean deletes every attachment whose encoded filename appears in no
// documentation file. The reference check is an exact substring match on the
// URL-encoded name; an attachment is only deleted when zero matches exist.
func (c *Cleaner) Clean(opts Options) (*Result, error) {
	entries, err := os.ReadDir(opts.AttachmentsDir)
	if err != nil {
		return nil, fmt.Errorf("reading attachments directory: %w", err)
	}

	docs, err := loadDocs(opts.DocsDir, opts.DocsExt)
	if err != nil {
		return nil, err
	}

	result := &Result{
		Status:   StatusNoActionNeeded,
		Orphans:  []Orphan{},
		DocFiles: len(docs),
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		result.Attachments++

		encoded := encodeName(entry.Name())
		if referenced(docs, encoded) {
			continue
		}

		orphan := Orphan{
			Name: entry.Name(),
			Path: filepath.Join(opts.AttachmentsDir, entry.Name()),
		}

		if opts.DryRun {
			c.reportFn("orphaned attachment: %s (not deleted, dry run)", orphan.Path)
		} else {
			if err := os.Remove(orphan.Path); err != nil {
				return nil, fmt.Errorf("deleting attachment %s: %w", orphan.Path, err)
			}
			c.reportFn("deleted orphaned attachment: %s", orphan.Path)
		}

		result.Orphans = append(result.Orphans, orphan)
	}

	if len(result.Orphans) > 0 {
		if opts.DryRun {
			result.Status = StatusCleanupPending
		} else {
			result.Status = StatusCompleted
		}
	}

	return result, nil
}

func loadDocs(root string, ext string) ([]string, error) {
	pattern := filepath.Join(root, "**", "*"+ext)
	paths, err := doublestar.FilepathGlob(pattern)
	if err != nil {
		return nil, fmt.Errorf("globbing documentation files: %w", err)
	}

	docs := make([]string, 0, len(paths))
	for _, path := range paths {
		content, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading documentation file %s: %w", path, err)
		}
		docs = append(docs, string(content))
	}

	return docs, nil
}

func referenced(docs []string, encoded string) bool {
	for _, doc := range docs {
		if strings.Contains(doc, encoded) {
			return true
		}
	}
	return false
}

// encodeName encodes whitespace the way wiki links do, so `my file.png`
// matches documentation text containing `my%20file.png`.
func encodeName(name string) string {
	return strings.ReplaceAll(name, " ", "%20")
}
