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
	"iter"
	"strings"
)

// IncompatibilityCause tags the origin of an Incompatibility. It is a
// closed set of seven variants, each a distinct Go type implementing this
// marker interface — exhaustive dispatch via type switch, not a subclass
// hierarchy.
type IncompatibilityCause interface {
	incompatibilityCause()
}

// RootCause seeds the solve: the root package is exactly its own version.
type RootCause struct{}

func (RootCause) incompatibilityCause() {}

// DependencyCause says package A in range Ra implies B in range Rb.
type DependencyCause struct{}

func (DependencyCause) incompatibilityCause() {}

// NoVersionsCause says no version of a package matches a given range.
type NoVersionsCause struct{}

func (NoVersionsCause) incompatibilityCause() {}

// PackageNotFoundCause says the provider denies the package exists.
type PackageNotFoundCause struct{}

func (PackageNotFoundCause) incompatibilityCause() {}

// PythonCause says a package requires a Python version the environment
// doesn't provide. Kept as a general environment-predicate cause so a
// caller's provider can surface its own ecosystem's equivalent.
type PythonCause struct {
	PythonVersion string
}

func (PythonCause) incompatibilityCause() {}

// PlatformCause says a package requires a platform the environment
// doesn't provide.
type PlatformCause struct {
	Platform string
}

func (PlatformCause) incompatibilityCause() {}

// ConflictCause is learned by resolution: it retains both parent
// incompatibilities so the derivation DAG can be walked for proof
// rendering.
type ConflictCause struct {
	Conflict *Incompatibility
	Other    *Incompatibility
}

func (ConflictCause) incompatibilityCause() {}

// Incompatibility is an ordered list of terms whose conjunction is
// impossible, plus a cause. It is the unit of learning in the solver.
type Incompatibility struct {
	Terms []Term
	Cause IncompatibilityCause

	// Package and Version are populated for DependencyCause incompatibilities,
	// naming the depender; they drive the "Pkg ver depends on ..." rendering.
	Package Name
	Version Version

	// line is assigned by the failure reporter the first time a
	// ConflictCause node is emitted; zero means unassigned.
	line int
}

// newIncompatibility builds and normalizes an Incompatibility per the
// coalescing rules in original_source/src/poetry/mixology/incompatibility.py:
// the root package is stripped from multi-term conflict incompatibilities,
// and multiple terms about the same package are coalesced (positives
// intersected together; if only negatives remain, they are kept
// individually after intersecting terms that share a package ref).
func newIncompatibility(terms []Term, cause IncompatibilityCause) *Incompatibility {
	if _, isConflict := cause.(ConflictCause); isConflict && len(terms) != 1 {
		hasRootPositive := false
		for _, t := range terms {
			if t.Positive && t.Name == RootName() {
				hasRootPositive = true
				break
			}
		}
		if hasRootPositive {
			filtered := make([]Term, 0, len(terms))
			for _, t := range terms {
				if t.Positive && t.Name == RootName() {
					continue
				}
				filtered = append(filtered, t)
			}
			terms = filtered
		}
	}

	terms = coalesceTerms(terms)

	return &Incompatibility{Terms: terms, Cause: cause}
}

// coalesceTerms merges terms that share a package ref, in first-seen
// order, preferring positive terms when any are present for a ref.
func coalesceTerms(terms []Term) []Term {
	if len(terms) <= 1 {
		return terms
	}
	if len(terms) == 2 && terms[0].Name != terms[1].Name {
		return terms
	}

	order := make([]Name, 0, len(terms))
	byName := make(map[Name][]Term)
	for _, t := range terms {
		if _, ok := byName[t.Name]; !ok {
			order = append(order, t.Name)
		}
		byName[t.Name] = append(byName[t.Name], t)
	}

	result := make([]Term, 0, len(order))
	for _, name := range order {
		group := byName[name]
		combined := group[0]
		for _, t := range group[1:] {
			combined = combined.Intersect(t)
		}

		result = append(result, combined)
	}
	return result
}

// NewIncompatibilityRoot creates the seed incompatibility: ¬(root is
// exactly its own version).
func NewIncompatibilityRoot(term Term) *Incompatibility {
	return newIncompatibility([]Term{term.Negate()}, RootCause{})
}

// NewIncompatibilityNoVersions creates an incompatibility for when no
// versions satisfy a constraint.
func NewIncompatibilityNoVersions(term Term) *Incompatibility {
	return newIncompatibility([]Term{term}, NoVersionsCause{})
}

// NewIncompatibilityPackageNotFound creates an incompatibility for when the
// provider denies the package exists.
func NewIncompatibilityPackageNotFound(term Term) *Incompatibility {
	return newIncompatibility([]Term{term}, PackageNotFoundCause{})
}

// NewIncompatibilityPython creates an environment-predicate incompatibility
// for an unmet Python requirement.
func NewIncompatibilityPython(term Term, pythonVersion string) *Incompatibility {
	return newIncompatibility([]Term{term}, PythonCause{PythonVersion: pythonVersion})
}

// NewIncompatibilityPlatform creates an environment-predicate incompatibility
// for an unmet platform requirement.
func NewIncompatibilityPlatform(term Term, platform string) *Incompatibility {
	return newIncompatibility([]Term{term}, PlatformCause{Platform: platform})
}

// NewIncompatibilityFromDependency creates an incompatibility from a
// dependency: package@version depends on dependency. Per PubGrub,
// "foo ^1.0.0 depends on bar ^2.0.0" becomes {foo ^1.0.0, ¬bar ^2.0.0}.
func NewIncompatibilityFromDependency(pkg Name, ver Version, dependency Term) *Incompatibility {
	base := NewTerm(pkg, EqualsCondition{Version: ver})
	inc := newIncompatibility([]Term{base, dependency.Negate()}, DependencyCause{})
	inc.Package = pkg
	inc.Version = ver
	return inc
}

// NewIncompatibilityConflict creates a derived incompatibility recording
// both parents, learned during conflict resolution.
func NewIncompatibilityConflict(terms []Term, cause1, cause2 *Incompatibility) *Incompatibility {
	return newIncompatibility(terms, ConflictCause{Conflict: cause1, Other: cause2})
}

// IsFailure reports whether this incompatibility represents an
// unconditional failure: no terms, or a single negative term on the root
// package (which is always true, so its negation can never hold).
func (inc *Incompatibility) IsFailure() bool {
	if len(inc.Terms) == 0 {
		return true
	}
	return len(inc.Terms) == 1 && !inc.Terms[0].Positive && inc.Terms[0].Name == RootName()
}

// ExternalCauses lazily walks the derivation DAG, yielding every leaf
// (non-Conflict-caused) incompatibility reachable through ConflictCause
// nodes — the external_incompatibilities traversal from
// original_source/src/poetry/mixology/incompatibility.py.
func (inc *Incompatibility) ExternalCauses() iter.Seq[*Incompatibility] {
	return func(yield func(*Incompatibility) bool) {
		var walk func(*Incompatibility) bool
		walk = func(i *Incompatibility) bool {
			if cc, ok := i.Cause.(ConflictCause); ok {
				if cc.Conflict != nil && !walk(cc.Conflict) {
					return false
				}
				if cc.Other != nil && !walk(cc.Other) {
					return false
				}
				return true
			}
			return yield(i)
		}
		walk(inc)
	}
}

func (inc *Incompatibility) singleTermWhere(pred func(Term) bool) (Term, bool) {
	var found Term
	ok := false
	for _, t := range inc.Terms {
		if !pred(t) {
			continue
		}
		if ok {
			return Term{}, false
		}
		found, ok = t, true
	}
	return found, ok
}

func terse(t Term, allowEvery bool) string {
	if allowEvery {
		if set := conditionSet(t.Condition); set.IsSubset(FullVersionSet()) && FullVersionSet().IsSubset(set) {
			return fmt.Sprintf("every version of %s", t.Name.Value())
		}
	}
	if t.Name == RootName() {
		return t.Name.Value()
	}
	cond := "*"
	if t.Condition != nil {
		cond = t.Condition.String()
	}
	if cond == "*" {
		return t.Name.Value()
	}
	return fmt.Sprintf("%s (%s)", t.Name.Value(), cond)
}

// String renders a single-line description of the incompatibility, keyed
// on its cause shape, following
// original_source/src/poetry/mixology/incompatibility.py's __str__.
func (inc *Incompatibility) String() string {
	switch cause := inc.Cause.(type) {
	case DependencyCause:
		dependee := inc.Terms[1]
		if !dependee.Positive {
			dependee = dependee.Negate()
		}
		return fmt.Sprintf("%s %s depends on %s", inc.Package.Value(), inc.Version, dependee.String())
	case PythonCause:
		return fmt.Sprintf("%s requires Python %s", terse(inc.Terms[0], true), cause.PythonVersion)
	case PlatformCause:
		return fmt.Sprintf("%s requires platform %s", terse(inc.Terms[0], true), cause.Platform)
	case NoVersionsCause:
		t := inc.Terms[0]
		cond := "*"
		if t.Condition != nil {
			cond = t.Condition.String()
		}
		return fmt.Sprintf("no versions of %s match %s", t.Name.Value(), cond)
	case PackageNotFoundCause:
		return fmt.Sprintf("%s doesn't exist", inc.Terms[0].Name.Value())
	case RootCause:
		t := inc.Terms[0]
		cond := "*"
		if t.Condition != nil {
			cond = t.Condition.String()
		}
		return fmt.Sprintf("%s is %s", t.Name.Value(), cond)
	}

	if inc.IsFailure() {
		return "version solving failed"
	}

	if len(inc.Terms) == 1 {
		t := inc.Terms[0]
		if t.Positive {
			return fmt.Sprintf("%s is forbidden", t.String())
		}
		return fmt.Sprintf("%s is required", t.Negate().String())
	}

	if len(inc.Terms) == 2 {
		t1, t2 := inc.Terms[0], inc.Terms[1]
		if t1.Positive == t2.Positive {
			if t1.Positive {
				return fmt.Sprintf("%s is incompatible with %s", t1.String(), t2.String())
			}
			return fmt.Sprintf("either %s or %s", t1.Negate().String(), t2.Negate().String())
		}
	}

	var positive, negative []string
	for _, t := range inc.Terms {
		if t.Positive {
			positive = append(positive, t.String())
		} else {
			negative = append(negative, t.Negate().String())
		}
	}

	switch {
	case len(positive) > 0 && len(negative) > 0:
		if len(positive) == 1 {
			var positiveTerm Term
			for _, t := range inc.Terms {
				if t.Positive {
					positiveTerm = t
					break
				}
			}
			return fmt.Sprintf("%s requires %s", terse(positiveTerm, true), strings.Join(negative, " or "))
		}
		return fmt.Sprintf("if %s then %s", strings.Join(positive, " and "), strings.Join(negative, " or "))
	case len(positive) > 0:
		return fmt.Sprintf("one of %s must be false", strings.Join(positive, " or "))
	default:
		return fmt.Sprintf("one of %s must be true", strings.Join(negative, " or "))
	}
}

// AndToString renders how inc and other combine, trying the requires-both,
// requires-through, and requires-forbidden templates in order before
// falling back to plain concatenation — the three templates spec §4.C
// names, grounded on and_to_string/_try_requires_* in
// original_source/src/poetry/mixology/incompatibility.py.
func (inc *Incompatibility) AndToString(other *Incompatibility, thisLine, otherLine int) string {
	if s, ok := inc.tryRequiresBoth(other, thisLine, otherLine); ok {
		return s
	}
	if s, ok := inc.tryRequiresThrough(other, thisLine, otherLine); ok {
		return s
	}
	if s, ok := inc.tryRequiresForbidden(other, thisLine, otherLine); ok {
		return s
	}

	var b strings.Builder
	b.WriteString(inc.String())
	if thisLine > 0 {
		fmt.Fprintf(&b, " (%d)", thisLine)
	}
	fmt.Fprintf(&b, " and %s", other.String())
	if otherLine > 0 {
		fmt.Fprintf(&b, " (%d)", otherLine)
	}
	return b.String()
}

func verbFor(cause IncompatibilityCause) string {
	if _, ok := cause.(DependencyCause); ok {
		return "depends on"
	}
	return "requires"
}

func (inc *Incompatibility) tryRequiresBoth(other *Incompatibility, thisLine, otherLine int) (string, bool) {
	if len(inc.Terms) == 1 || len(other.Terms) == 1 {
		return "", false
	}

	thisPositive, ok := inc.singleTermWhere(func(t Term) bool { return t.Positive })
	if !ok {
		return "", false
	}
	otherPositive, ok := other.singleTermWhere(func(t Term) bool { return t.Positive })
	if !ok {
		return "", false
	}
	if thisPositive.Name != otherPositive.Name {
		return "", false
	}

	var thisNeg, otherNeg []string
	for _, t := range inc.Terms {
		if !t.Positive {
			thisNeg = append(thisNeg, terse(t, false))
		}
	}
	for _, t := range other.Terms {
		if !t.Positive {
			otherNeg = append(otherNeg, terse(t, false))
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s %s both %s", terse(thisPositive, true), verbFor(inc.Cause), strings.Join(thisNeg, " or "))
	if thisLine > 0 {
		fmt.Fprintf(&b, " (%d)", thisLine)
	}
	fmt.Fprintf(&b, " and %s", strings.Join(otherNeg, " or "))
	if otherLine > 0 {
		fmt.Fprintf(&b, " (%d)", otherLine)
	}
	return b.String(), true
}

func (inc *Incompatibility) tryRequiresThrough(other *Incompatibility, thisLine, otherLine int) (string, bool) {
	if len(inc.Terms) == 1 || len(other.Terms) == 1 {
		return "", false
	}

	thisNegative, _ := inc.singleTermWhere(func(t Term) bool { return !t.Positive })
	otherNegative, _ := other.singleTermWhere(func(t Term) bool { return !t.Positive })
	if thisNegative.Name == (Name{}) && otherNegative.Name == (Name{}) {
		return "", false
	}

	thisPositive, _ := inc.singleTermWhere(func(t Term) bool { return t.Positive })
	otherPositive, _ := other.singleTermWhere(func(t Term) bool { return t.Positive })

	var prior, latter *Incompatibility
	var priorNegative Term
	var priorLine, latterLine int

	switch {
	case thisNegative.Name != (Name{}) && otherPositive.Name != (Name{}) &&
		thisNegative.Name == otherPositive.Name && thisNegative.Negate().Satisfies(otherPositive):
		prior, priorNegative, priorLine = inc, thisNegative, thisLine
		latter, latterLine = other, otherLine
	case otherNegative.Name != (Name{}) && thisPositive.Name != (Name{}) &&
		otherNegative.Name == thisPositive.Name && otherNegative.Negate().Satisfies(thisPositive):
		prior, priorNegative, priorLine = other, otherNegative, otherLine
		latter, latterLine = inc, thisLine
	default:
		return "", false
	}

	var priorPositives []Term
	for _, t := range prior.Terms {
		if t.Positive {
			priorPositives = append(priorPositives, t)
		}
	}

	var b strings.Builder
	if len(priorPositives) > 1 {
		var parts []string
		for _, t := range priorPositives {
			parts = append(parts, terse(t, false))
		}
		fmt.Fprintf(&b, "if %s then ", strings.Join(parts, " or "))
	} else {
		fmt.Fprintf(&b, "%s %s ", terse(priorPositives[0], true), verbFor(prior.Cause))
	}

	b.WriteString(terse(priorNegative, false))
	if priorLine > 0 {
		fmt.Fprintf(&b, " (%d)", priorLine)
	}
	fmt.Fprintf(&b, " which %s ", verbFor(latter.Cause))

	var latterNeg []string
	for _, t := range latter.Terms {
		if !t.Positive {
			latterNeg = append(latterNeg, terse(t, false))
		}
	}
	b.WriteString(strings.Join(latterNeg, " or "))
	if latterLine > 0 {
		fmt.Fprintf(&b, " (%d)", latterLine)
	}
	return b.String(), true
}

func (inc *Incompatibility) tryRequiresForbidden(other *Incompatibility, thisLine, otherLine int) (string, bool) {
	if len(inc.Terms) != 1 && len(other.Terms) != 1 {
		return "", false
	}

	var prior, latter *Incompatibility
	var priorLine, latterLine int
	if len(inc.Terms) == 1 {
		prior, latter = other, inc
		priorLine, latterLine = otherLine, thisLine
	} else {
		prior, latter = inc, other
		priorLine, latterLine = thisLine, otherLine
	}

	negative, ok := prior.singleTermWhere(func(t Term) bool { return !t.Positive })
	if !ok {
		return "", false
	}
	if !negative.Negate().Satisfies(latter.Terms[0]) {
		return "", false
	}

	var positives []Term
	for _, t := range prior.Terms {
		if t.Positive {
			positives = append(positives, t)
		}
	}

	var b strings.Builder
	if len(positives) > 1 {
		var parts []string
		for _, t := range positives {
			parts = append(parts, terse(t, false))
		}
		fmt.Fprintf(&b, "if %s then ", strings.Join(parts, " or "))
	} else {
		fmt.Fprintf(&b, "%s %s ", terse(positives[0], true), verbFor(prior.Cause))
	}

	fmt.Fprintf(&b, "%s ", terse(latter.Terms[0], false))
	if priorLine > 0 {
		fmt.Fprintf(&b, "(%d) ", priorLine)
	}

	switch c := latter.Cause.(type) {
	case PythonCause:
		fmt.Fprintf(&b, "which requires Python %s", c.PythonVersion)
	case NoVersionsCause:
		b.WriteString("which doesn't match any versions")
	case PackageNotFoundCause:
		b.WriteString("which doesn't exist")
	default:
		b.WriteString("which is forbidden")
	}

	if latterLine > 0 {
		fmt.Fprintf(&b, " (%d)", latterLine)
	}
	return b.String(), true
}
