// Copyright 2024 The University of Queensland
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
)

// Reporter is an interface for formatting incompatibilities into error messages
type Reporter interface {
	// Report generates a human-readable error message from an incompatibility
	Report(incomp *Incompatibility) string
}

// DefaultReporter produces readable error messages with hierarchical structure
type DefaultReporter struct{}

// Report implements Reporter
func (r *DefaultReporter) Report(incomp *Incompatibility) string {
	if incomp == nil {
		return "no solution found"
	}

	var lines []string
	r.reportIncompatibility(incomp, &lines, 0, make(map[*Incompatibility]bool))
	return strings.Join(lines, "\n")
}

func (r *DefaultReporter) reportIncompatibility(incomp *Incompatibility, lines *[]string, depth int, visited map[*Incompatibility]bool) {
	if visited[incomp] {
		return
	}
	visited[incomp] = true

	indent := strings.Repeat("  ", depth)

	switch cause := incomp.Cause.(type) {
	case NoVersionsCause:
		if len(incomp.Terms) > 0 {
			*lines = append(*lines, fmt.Sprintf("%sNo versions of %s satisfy the constraint", indent, incomp.Terms[0]))
		}

	case DependencyCause:
		if len(incomp.Terms) == 2 {
			dep := incomp.Terms[1]
			if !dep.Positive {
				dep = dep.Negate()
			}
			*lines = append(*lines, fmt.Sprintf("%sBecause %s %s depends on %s",
				indent, incomp.Package.Value(), incomp.Version, dep))
		}

	case ConflictCause:
		if cause.Conflict != nil && cause.Other != nil {
			*lines = append(*lines, fmt.Sprintf("%sBecause:", indent))
			r.reportIncompatibility(cause.Conflict, lines, depth+1, visited)
			*lines = append(*lines, fmt.Sprintf("%sand:", indent))
			r.reportIncompatibility(cause.Other, lines, depth+1, visited)

			if len(incomp.Terms) == 0 {
				*lines = append(*lines, fmt.Sprintf("%sversion solving has failed.", indent))
			} else if len(incomp.Terms) == 1 {
				*lines = append(*lines, fmt.Sprintf("%s%s is forbidden.", indent, incomp.Terms[0]))
			} else {
				var termStrs []string
				for _, term := range incomp.Terms {
					termStrs = append(termStrs, term.String())
				}
				*lines = append(*lines, fmt.Sprintf("%sthese constraints conflict: %s",
					indent, strings.Join(termStrs, " and ")))
			}
		}

	default:
		*lines = append(*lines, fmt.Sprintf("%s%s", indent, incomp.String()))
	}
}

// CollapsedReporter produces a more compact error format
type CollapsedReporter struct{}

// Report implements Reporter with a collapsed format
func (r *CollapsedReporter) Report(incomp *Incompatibility) string {
	if incomp == nil {
		return "no solution found"
	}

	var lines []string
	r.collectLines(incomp, &lines, make(map[*Incompatibility]bool))

	if len(lines) == 0 {
		return "version solving failed"
	}

	result := lines[0]
	for i := 1; i < len(lines); i++ {
		result += "\nAnd because " + lines[i]
	}
	return result
}

func (r *CollapsedReporter) collectLines(incomp *Incompatibility, lines *[]string, visited map[*Incompatibility]bool) {
	if visited[incomp] {
		return
	}
	visited[incomp] = true

	switch cause := incomp.Cause.(type) {
	case NoVersionsCause:
		if len(incomp.Terms) > 0 {
			*lines = append(*lines, fmt.Sprintf("no versions of %s satisfy the constraint", incomp.Terms[0]))
		}

	case DependencyCause:
		if len(incomp.Terms) == 2 {
			dep := incomp.Terms[1]
			if !dep.Positive {
				dep = dep.Negate()
			}
			*lines = append(*lines, fmt.Sprintf("%s %s depends on %s",
				incomp.Package.Value(), incomp.Version, dep))
		}

	case ConflictCause:
		if cause.Conflict != nil && cause.Other != nil {
			r.collectLines(cause.Conflict, lines, visited)
			r.collectLines(cause.Other, lines, visited)

			if len(incomp.Terms) == 1 {
				*lines = append(*lines, fmt.Sprintf("%s is forbidden", incomp.Terms[0]))
			} else if len(incomp.Terms) > 1 {
				var termStrs []string
				for _, term := range incomp.Terms {
					termStrs = append(termStrs, term.String())
				}
				*lines = append(*lines, fmt.Sprintf("these constraints conflict: %s",
					strings.Join(termStrs, " and ")))
			}
		}

	default:
		*lines = append(*lines, incomp.String())
	}
}

// NumberedReporter renders the numbered, citation-based derivation proof
// spec §4.G requires: a post-order walk of the conflict DAG that assigns
// each internal ConflictCause node a line number the first time it is
// emitted, combines each node's two parents with Incompatibility.AndToString
// (passing whichever parent line numbers have already been assigned), and
// finishes with "So, because ..., version solving failed." Grounded on the
// well-known PubGrub presentation this spec names, as implemented by
// original_source/src/poetry/mixology (see incompatibility.py's
// and_to_string/_try_requires_* and the reporter that drives it).
type NumberedReporter struct{}

type reportLine struct {
	incomp *Incompatibility
	text   string
}

// Report implements Reporter.
func (r *NumberedReporter) Report(incomp *Incompatibility) string {
	if incomp == nil {
		return "no solution found"
	}

	lineNumbers := make(map[*Incompatibility]int)
	var lines []reportLine

	var visit func(*Incompatibility) int
	visit = func(i *Incompatibility) int {
		if n, ok := lineNumbers[i]; ok {
			return n
		}

		cause, ok := i.Cause.(ConflictCause)
		if !ok {
			// Leaves are not numbered on their own; they're rendered inline
			// by the parent that first needs them.
			return 0
		}

		var conflictLine, otherLine int
		if cause.Conflict != nil {
			conflictLine = visit(cause.Conflict)
		}
		if cause.Other != nil {
			otherLine = visit(cause.Other)
		}

		var text string
		if cause.Conflict != nil && cause.Other != nil {
			text = cause.Conflict.AndToString(cause.Other, conflictLine, otherLine)
		} else {
			text = i.String()
		}

		lines = append(lines, reportLine{incomp: i, text: text})
		n := len(lines)
		lineNumbers[i] = n
		return n
	}

	visit(incomp)

	if len(lines) == 0 {
		return incomp.String()
	}

	var b strings.Builder
	for idx, ln := range lines {
		n := idx + 1
		if idx == len(lines)-1 {
			fmt.Fprintf(&b, "%d. So, because %s, version solving failed.", n, ln.text)
		} else {
			fmt.Fprintf(&b, "%d. %s\n", n, ln.text)
		}
	}
	return b.String()
}
