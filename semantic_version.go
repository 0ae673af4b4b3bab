// Copyright 2025 Contriboss
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package pubgrub

import (
	"fmt"
	"strings"

	mmsemver "github.com/Masterminds/semver/v3"
)

// SemanticVersion represents a semantic version (major.minor.patch[-prerelease][+build]).
//
// Parsing and ordering delegate to github.com/Masterminds/semver/v3, the
// same library golang-dep vendors for its own resolver, rather than
// hand-rolling precedence rules a second time. SemanticVersion stays a
// plain struct so the rest of the engine (interval bounds, VersionSet, the
// range parser) keeps working against the Version interface without
// depending on the third-party type directly.
type SemanticVersion struct {
	Major      int
	Minor      int
	Patch      int
	Prerelease string
	Build      string
}

// ParseSemanticVersion parses a semantic version string via
// Masterminds/semver (which tolerates a leading "v" and 1- or 2-component
// versions), copying the result into our own struct.
func ParseSemanticVersion(s string) (*SemanticVersion, error) {
	v, err := mmsemver.NewVersion(s)
	if err != nil {
		return nil, fmt.Errorf("invalid version format: %s: %w", s, err)
	}

	return &SemanticVersion{
		Major:      int(v.Major()),
		Minor:      int(v.Minor()),
		Patch:      int(v.Patch()),
		Prerelease: v.Prerelease(),
		Build:      v.Metadata(),
	}, nil
}

// String returns the string representation of the semantic version
func (sv *SemanticVersion) String() string {
	s := fmt.Sprintf("%d.%d.%d", sv.Major, sv.Minor, sv.Patch)

	if sv.Prerelease != "" {
		s += "-" + sv.Prerelease
	}

	if sv.Build != "" {
		s += "+" + sv.Build
	}

	return s
}

// toMastermindsVersion re-parses the version this struct represents so
// Sort can reuse Masterminds/semver's Compare, including its dot-separated
// prerelease precedence rule, instead of duplicating it.
func (sv *SemanticVersion) toMastermindsVersion() *mmsemver.Version {
	v, err := mmsemver.NewVersion(sv.String())
	if err != nil {
		panic(fmt.Sprintf("pubgrub: invalid semantic version %q: %v", sv.String(), err))
	}
	return v
}

// Sort implements Version.Sort
// Returns:
//
//	-1 if sv < other
//	 0 if sv == other
//	 1 if sv > other
//
// Comparison follows semantic versioning precedence (major, minor, patch
// numerically; release before prerelease; prerelease identifiers compared
// per semver §11; build metadata ignored), via Masterminds/semver.Compare.
func (sv *SemanticVersion) Sort(other Version) int {
	otherSV, ok := other.(*SemanticVersion)
	if !ok {
		// Fallback to string comparison if types don't match
		return strings.Compare(sv.String(), other.String())
	}

	return sv.toMastermindsVersion().Compare(otherSV.toMastermindsVersion())
}

// NewSemanticVersion creates a new SemanticVersion with the given major, minor, and patch versions
func NewSemanticVersion(major, minor, patch int) *SemanticVersion {
	return &SemanticVersion{
		Major: major,
		Minor: minor,
		Patch: patch,
	}
}

// NewSemanticVersionWithPrerelease creates a new SemanticVersion with prerelease info
func NewSemanticVersionWithPrerelease(major, minor, patch int, prerelease string) *SemanticVersion {
	return &SemanticVersion{
		Major:      major,
		Minor:      minor,
		Patch:      patch,
		Prerelease: prerelease,
	}
}

// Verify interface compliance
var (
	_ Version = (*SemanticVersion)(nil)
)
