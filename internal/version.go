// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package internal

import (
	"log"
	"strings"

	"github.com/blang/semver/v4"
)

// Version is the version string printed by `azops version`.
// It is substituted at build time with the real release number and commit,
// e.g. `0.3.0 (commit 7644c9f7ca36b4388b0b0b6fdb3b312bcd2fcab5)`.
var Version = "0.0.0-dev.0 (commit 0000000000000000000000000000000000000000)"

type VersionSpec struct {
	Version string `json:"version"`
	Commit  string `json:"commit"`
}

// GetVersionNumber returns the semver portion of Version, or "unknown" when
// the build-time substitution produced something unparseable.
func GetVersionNumber() string {
	pieces := strings.SplitN(Version, " ", 2)
	if len(pieces) == 0 {
		return "unknown"
	}

	if _, err := semver.Parse(pieces[0]); err != nil {
		log.Printf("failed to parse version '%s': %v", pieces[0], err)
		return "unknown"
	}

	return pieces[0]
}

// GetVersionSpec splits Version into its semver and commit components.
func GetVersionSpec() VersionSpec {
	spec := VersionSpec{
		Version: GetVersionNumber(),
		Commit:  "unknown",
	}

	start := strings.Index(Version, "(commit ")
	end := strings.LastIndex(Version, ")")
	if start >= 0 && end > start {
		spec.Commit = Version[start+len("(commit ") : end]
	}

	return spec
}
