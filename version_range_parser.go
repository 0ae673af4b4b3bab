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
	"strconv"
	"strings"
)

// ParseVersionRange parses a version range string and returns a VersionSet.
//
// Supported syntax:
//   - Comparison operators: >=, >, <=, <, ==, !=, =
//   - Caret ranges: "^1.2.3" (compatible-with, the npm/cargo/Masterminds/semver convention)
//   - Tilde ranges: "~1.2.3" (approximately-equivalent-to)
//   - Comma-separated conjunctions (AND): ">=1.0.0, <2.0.0"
//   - Double-pipe disjunctions (OR): ">=1.0.0 || >=2.0.0"
//   - Wildcard "*" for any version
//
// Examples:
//
//	ParseVersionRange(">=1.0.0, <2.0.0")     // [1.0.0, 2.0.0)
//	ParseVersionRange(">=1.0.0 || >=3.0.0")  // >=1.0.0 OR >=3.0.0
//	ParseVersionRange("^1.2.3")              // [1.2.3, 2.0.0)
//	ParseVersionRange("~1.2.3")              // [1.2.3, 1.3.0)
//	ParseVersionRange("*")                   // Any version
//	ParseVersionRange("==1.5.0")             // Exactly 1.5.0
//	ParseVersionRange("!=1.5.0")             // Not 1.5.0
//
// The parser tries to interpret versions as SemanticVersion first,
// falling back to SimpleVersion if parsing fails. This allows mixing
// version types within a constraint string.
func ParseVersionRange(s string) (VersionSet, error) {
	s = strings.TrimSpace(s)

	if s == "" || s == "*" {
		return (&VersionIntervalSet{}).Full(), nil
	}

	// Split by OR operator (||)
	orParts := strings.Split(s, "||")
	result := (&VersionIntervalSet{}).Empty()

	for _, orPart := range orParts {
		orPart = strings.TrimSpace(orPart)
		if orPart == "" {
			return nil, fmt.Errorf("invalid empty range in %q", s)
		}

		// Start with full set for this OR branch
		current := (&VersionIntervalSet{}).Full()

		// Split by AND operator (,)
		andParts := strings.Split(orPart, ",")

		for _, andPart := range andParts {
			token := strings.TrimSpace(andPart)
			if token == "" {
				return nil, fmt.Errorf("invalid empty constraint in %q", orPart)
			}

			set, err := parseRangeExpression(token)
			if err != nil {
				return nil, err
			}

			current = current.Intersection(set)
			if current.IsEmpty() {
				break
			}
		}

		result = result.Union(current)
	}

	return result, nil
}

// parseRangeExpression parses a single range expression like ">=1.0.0" or "!=2.0.0"
func parseRangeExpression(expr string) (VersionSet, error) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return nil, fmt.Errorf("empty range expression")
	}

	// Helper to parse version string (try SemanticVersion first, fallback to SimpleVersion)
	parseVersion := func(raw string) (Version, error) {
		if raw == "" {
			return nil, fmt.Errorf("missing version in range expression")
		}

		if sv, err := ParseSemanticVersion(raw); err == nil {
			return sv, nil
		}

		return SimpleVersion(raw), nil
	}

	if strings.HasPrefix(expr, "^") {
		return parseCaretRange(strings.TrimSpace(expr[1:]))
	}
	if strings.HasPrefix(expr, "~") {
		return parseTildeRange(strings.TrimSpace(expr[1:]))
	}

	// Define operators and their VersionSet builders
	operators := []struct {
		prefix  string
		builder func(Version) VersionSet
	}{
		{
			prefix: ">=",
			builder: func(v Version) VersionSet {
				return intervalSetFromBounds(newLowerBound(v, true), positiveInfinityBound())
			},
		},
		{
			prefix: ">",
			builder: func(v Version) VersionSet {
				return intervalSetFromBounds(newLowerBound(v, false), positiveInfinityBound())
			},
		},
		{
			prefix: "<=",
			builder: func(v Version) VersionSet {
				return intervalSetFromBounds(negativeInfinityBound(), newUpperBound(v, true))
			},
		},
		{
			prefix: "<",
			builder: func(v Version) VersionSet {
				return intervalSetFromBounds(negativeInfinityBound(), newUpperBound(v, false))
			},
		},
		{
			prefix: "==",
			builder: func(v Version) VersionSet {
				return intervalSetFromBounds(newLowerBound(v, true), newUpperBound(v, true))
			},
		},
		{
			prefix: "!=",
			builder: func(v Version) VersionSet {
				eq := intervalSetFromBounds(newLowerBound(v, true), newUpperBound(v, true))
				return eq.Complement()
			},
		},
		{
			prefix: "=",
			builder: func(v Version) VersionSet {
				return intervalSetFromBounds(newLowerBound(v, true), newUpperBound(v, true))
			},
		},
	}

	// Try each operator in order
	for _, op := range operators {
		if strings.HasPrefix(expr, op.prefix) {
			versionStr := strings.TrimSpace(expr[len(op.prefix):])
			version, err := parseVersion(versionStr)
			if err != nil {
				return nil, err
			}
			return op.builder(version), nil
		}
	}

	// No operator found, treat as exact version match
	version, err := parseVersion(expr)
	if err != nil {
		return nil, err
	}
	return intervalSetFromBounds(newLowerBound(version, true), newUpperBound(version, true)), nil
}

// versionComponents splits the numeric core of a version string (prerelease
// and build metadata stripped) into its major/minor/patch parts, reporting
// how many were actually written so caret/tilde expansion can tell "^1" from
// "^1.0.0" apart, the way Masterminds/semver's constraint parser does.
func versionComponents(raw string) (major, minor, patch, count int, err error) {
	core := raw
	if i := strings.IndexAny(core, "-+"); i >= 0 {
		core = core[:i]
	}

	parts := strings.Split(core, ".")
	if len(parts) == 0 || len(parts) > 3 {
		return 0, 0, 0, 0, fmt.Errorf("invalid version format: %s", raw)
	}

	nums := make([]int, len(parts))
	for i, p := range parts {
		n, convErr := strconv.Atoi(p)
		if convErr != nil {
			return 0, 0, 0, 0, fmt.Errorf("invalid version component %q in %s", p, raw)
		}
		nums[i] = n
	}

	switch len(nums) {
	case 1:
		return nums[0], 0, 0, 1, nil
	case 2:
		return nums[0], nums[1], 0, 2, nil
	default:
		return nums[0], nums[1], nums[2], 3, nil
	}
}

// parseCaretRange implements cargo/npm-style caret ranges: the leftmost
// nonzero component is held fixed and the next one up is free, except that
// an all-zero prefix (^0, ^0.0) narrows to keep 0.x.y from matching the
// entire 0.x series. Mirrors the table Masterminds/semver/v3 documents for
// NewConstraint's "^" operator.
func parseCaretRange(raw string) (VersionSet, error) {
	major, minor, patch, count, err := versionComponents(raw)
	if err != nil {
		return nil, err
	}

	lower := NewSemanticVersion(major, minor, patch)

	var upperMajor, upperMinor, upperPatch int
	switch {
	case major > 0:
		upperMajor, upperMinor, upperPatch = major+1, 0, 0
	case minor > 0:
		upperMajor, upperMinor, upperPatch = 0, minor+1, 0
	case count == 3 && patch > 0:
		upperMajor, upperMinor, upperPatch = 0, 0, patch+1
	case count == 3:
		upperMajor, upperMinor, upperPatch = 0, 0, 1
	case count == 2:
		upperMajor, upperMinor, upperPatch = 0, 1, 0
	default:
		upperMajor, upperMinor, upperPatch = 1, 0, 0
	}

	upper := NewSemanticVersion(upperMajor, upperMinor, upperPatch)
	return intervalSetFromBounds(newLowerBound(lower, true), newUpperBound(upper, false)), nil
}

// parseTildeRange implements tilde ranges: patch-level changes are allowed
// when a minor is specified (~1.2 and ~1.2.3 stay below 1.3.0), otherwise
// minor-level changes are allowed (~1 stays below 2.0.0).
func parseTildeRange(raw string) (VersionSet, error) {
	major, minor, patch, count, err := versionComponents(raw)
	if err != nil {
		return nil, err
	}

	lower := NewSemanticVersion(major, minor, patch)

	var upper *SemanticVersion
	if count >= 2 {
		upper = NewSemanticVersion(major, minor+1, 0)
	} else {
		upper = NewSemanticVersion(major+1, 0, 0)
	}

	return intervalSetFromBounds(newLowerBound(lower, true), newUpperBound(upper, false)), nil
}
