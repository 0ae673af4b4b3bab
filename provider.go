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

// Provider is the narrow interface the engine depends on for external
// package metadata: candidate versions and their dependencies, named
// rendering, and root detection. It composes a Source (the backend
// implementations actually write against — see InMemorySource,
// CombinedSource, RootSource, CachedSource) with the range-filtering and
// newest-first ordering a caller shouldn't have to reimplement per backend.
//
// The engine never caches across invocations; a Provider backed by
// CachedSource is free to.
type Provider interface {
	// VersionsFor returns versions of pkg that satisfy rng, newest first.
	// An empty result (not an error) means no matching version exists.
	VersionsFor(pkg Name, rng VersionSet) ([]Version, error)

	// DependenciesOf returns the dependencies of pkg at version as terms,
	// or a *PackageNotFoundError / *PackageVersionNotFoundError.
	DependenciesOf(pkg Name, version Version) ([]Term, error)

	// CompleteName renders pkg for diagnostics (e.g. with a source
	// qualifier), matching PackageRef.String for qualified refs.
	CompleteName(pkg Name) string

	// IsRoot reports whether pkg names the virtual root package.
	IsRoot(pkg Name) bool
}

// sourceProvider adapts a Source to the Provider interface: it asks the
// source for every version (the contract Source already has, ascending),
// then filters to rng and reverses to newest-first.
type sourceProvider struct {
	source Source
}

// NewProvider wraps a Source as a Provider.
func NewProvider(source Source) Provider {
	return &sourceProvider{source: source}
}

// VersionsFor implements Provider.
func (p *sourceProvider) VersionsFor(pkg Name, rng VersionSet) ([]Version, error) {
	all, err := p.source.GetVersions(pkg)
	if err != nil {
		return nil, err
	}

	if rng == nil {
		rng = FullVersionSet()
	}

	matched := make([]Version, 0, len(all))
	for _, v := range all {
		if rng.Contains(v) {
			matched = append(matched, v)
		}
	}

	// all is ascending (Source's contract); reverse in place for
	// newest-first, per spec §4.F.
	for i, j := 0, len(matched)-1; i < j; i, j = i+1, j-1 {
		matched[i], matched[j] = matched[j], matched[i]
	}
	return matched, nil
}

// DependenciesOf implements Provider.
func (p *sourceProvider) DependenciesOf(pkg Name, version Version) ([]Term, error) {
	return p.source.GetDependencies(pkg, version)
}

// CompleteName implements Provider.
func (p *sourceProvider) CompleteName(pkg Name) string {
	return pkg.Value()
}

// IsRoot implements Provider.
func (p *sourceProvider) IsRoot(pkg Name) bool {
	return pkg == RootName()
}

var _ Provider = (*sourceProvider)(nil)
