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

import "unique"

// Name represents a package name using value interning for memory efficiency.
// Multiple instances of the same package name share the same underlying memory.
//
// Name uses Go's unique.Handle for efficient string interning, enabling:
//   - Fast equality comparisons (pointer comparison instead of string comparison)
//   - Reduced memory usage when the same package names appear frequently
//   - Safe concurrent access (interning is thread-safe)
type Name = unique.Handle[string]

// MakeName creates an interned Name from a string.
// Equal strings will return the same Name value, enabling fast comparisons.
//
// Example:
//
//	pkg1 := MakeName("lodash")
//	pkg2 := MakeName("lodash")
//	// pkg1 == pkg2 (fast pointer comparison)
func MakeName(s string) Name {
	return unique.Make(s)
}

// EmptyName returns an empty name (interned empty string).
// Useful for creating placeholder or root package names.
func EmptyName() Name {
	return unique.Make("")
}

// rootNameValue is the interned name of the virtual root package. It is
// unexported because callers identify the root through RootRef, not by
// guessing the string.
const rootNameValue = "$$root"

// RootName returns the interned name of the virtual root package.
func RootName() Name {
	return MakeName(rootNameValue)
}

// PackageRef identifies a package by name plus an optional source
// qualifier — a registry URL, a VCS URL, or a local path. Two refs are
// equal iff both components are equal; an empty Source means "the default
// registry" and is distinct from any named source.
//
// PackageRef composes Name rather than replacing it: bare-name comparisons
// (the common case inside the solver, where most dependencies resolve
// against the default registry) stay as cheap as before, while multi-source
// resolution gets a real identity.
type PackageRef struct {
	Name   Name
	Source string
}

// NewPackageRef builds a ref against the default source.
func NewPackageRef(name Name) PackageRef {
	return PackageRef{Name: name}
}

// NewQualifiedRef builds a ref against an explicit source qualifier.
func NewQualifiedRef(name Name, source string) PackageRef {
	return PackageRef{Name: name, Source: source}
}

// RootRef is the distinguished ref naming the virtual root package.
var RootRef = PackageRef{Name: RootName()}

// IsRoot reports whether the ref names the virtual root package.
func (r PackageRef) IsRoot() bool {
	return r.Name == RootName()
}

// String renders the ref for diagnostics: "name" for the default source,
// "name (source)" when a qualifier is present.
func (r PackageRef) String() string {
	if r.Source == "" {
		return r.Name.Value()
	}
	return r.Name.Value() + " (" + r.Source + ")"
}
