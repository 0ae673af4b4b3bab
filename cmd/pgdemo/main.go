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

// Command pgdemo walks the resolver through the six worked scenarios the
// engine is expected to handle, printing both the solution and (on
// failure) the derivation proof in more than one reporter format. It has
// no flags and no configuration; it exists to exercise the engine the way
// the teacher's demo_errors.go did, as runnable code instead of a scratch
// file.
package main

import (
	"fmt"

	"github.com/contriboss/pvresolve"
)

func caretRange(expr string) pubgrub.Condition {
	set, err := pubgrub.ParseVersionRange(expr)
	if err != nil {
		panic(err)
	}
	return pubgrub.NewVersionSetCondition(set)
}

func printSolution(solution pubgrub.Solution) {
	for _, nv := range solution {
		if nv.Name == pubgrub.RootName() {
			continue
		}
		fmt.Printf("  - %s %s\n", nv.Name.Value(), nv.Version)
	}
}

func section(title string) {
	fmt.Printf("\n=== %s ===\n", title)
}

func trivial() {
	section("1. Trivial")

	source := &pubgrub.InMemorySource{}
	source.AddPackage(pubgrub.MakeName("a"), pubgrub.SimpleVersion("1.0.0"), nil)

	root := pubgrub.NewRootSource()
	root.AddPackage(pubgrub.MakeName("a"), caretRange("^1.0"))

	solver := pubgrub.NewSolver(root, source)
	solution, err := solver.Solve(root.Term())
	if err != nil {
		fmt.Println("unexpected failure:", err)
		return
	}
	printSolution(solution)
}

func backtracking() {
	section("2. Backtracking")

	source := &pubgrub.InMemorySource{}
	source.AddPackage(pubgrub.MakeName("a"), pubgrub.SimpleVersion("1.1.0"), []pubgrub.Term{
		pubgrub.NewTerm(pubgrub.MakeName("b"), caretRange("^2.0")),
	})
	source.AddPackage(pubgrub.MakeName("a"), pubgrub.SimpleVersion("1.0.0"), nil)
	source.AddPackage(pubgrub.MakeName("b"), pubgrub.SimpleVersion("1.0.0"), nil)

	root := pubgrub.NewRootSource()
	root.AddPackage(pubgrub.MakeName("a"), caretRange("^1.0"))
	root.AddPackage(pubgrub.MakeName("b"), caretRange("^1.0"))

	solver := pubgrub.NewSolver(root, source)
	solution, err := solver.Solve(root.Term())
	if err != nil {
		fmt.Println("unexpected failure:", err)
		return
	}
	printSolution(solution)
}

func unsatisfiable() {
	section("3. Unsatisfiable")

	source := &pubgrub.InMemorySource{}
	source.AddPackage(pubgrub.MakeName("a"), pubgrub.SimpleVersion("1.0.0"), []pubgrub.Term{
		pubgrub.NewTerm(pubgrub.MakeName("b"), caretRange("^2.0")),
	})
	source.AddPackage(pubgrub.MakeName("b"), pubgrub.SimpleVersion("1.0.0"), nil)

	root := pubgrub.NewRootSource()
	root.AddPackage(pubgrub.MakeName("a"), caretRange("^1.0"))
	root.AddPackage(pubgrub.MakeName("b"), caretRange("^1.0"))

	solver := pubgrub.NewSolver(root, source).EnableIncompatibilityTracking()
	_, err := solver.Solve(root.Term())
	reportFailure(err)
}

func noVersions() {
	section("4. No versions")

	source := &pubgrub.InMemorySource{}
	source.AddPackage(pubgrub.MakeName("a"), pubgrub.SimpleVersion("1.0.0"), nil)

	root := pubgrub.NewRootSource()
	root.AddPackage(pubgrub.MakeName("a"), caretRange(">=5.0.0"))

	solver := pubgrub.NewSolver(root, source).EnableIncompatibilityTracking()
	_, err := solver.Solve(root.Term())
	reportFailure(err)
}

func packageNotFound() {
	section("5. Package not found")

	source := &pubgrub.InMemorySource{}

	root := pubgrub.NewRootSource()
	root.AddPackage(pubgrub.MakeName("ghost"), nil)

	solver := pubgrub.NewSolver(root, source).EnableIncompatibilityTracking()
	_, err := solver.Solve(root.Term())
	reportFailure(err)
}

func diamond() {
	section("6. Diamond")

	source := &pubgrub.InMemorySource{}
	source.AddPackage(pubgrub.MakeName("a"), pubgrub.SimpleVersion("1.0.0"), []pubgrub.Term{
		pubgrub.NewTerm(pubgrub.MakeName("c"), caretRange("^1.0")),
	})
	source.AddPackage(pubgrub.MakeName("b"), pubgrub.SimpleVersion("1.0.0"), []pubgrub.Term{
		pubgrub.NewTerm(pubgrub.MakeName("c"), caretRange("^1.0")),
	})
	source.AddPackage(pubgrub.MakeName("c"), pubgrub.SimpleVersion("1.0.0"), nil)
	source.AddPackage(pubgrub.MakeName("c"), pubgrub.SimpleVersion("1.1.0"), nil)

	root := pubgrub.NewRootSource()
	root.AddPackage(pubgrub.MakeName("a"), nil)
	root.AddPackage(pubgrub.MakeName("b"), nil)

	solver := pubgrub.NewSolver(root, source)
	solution, err := solver.Solve(root.Term())
	if err != nil {
		fmt.Println("unexpected failure:", err)
		return
	}
	printSolution(solution)
}

func reportFailure(err error) {
	if err == nil {
		fmt.Println("expected failure, got a solution")
		return
	}

	nsErr, ok := err.(*pubgrub.NoSolutionError)
	if !ok {
		fmt.Println("failure (no derivation tracked):", err)
		return
	}

	fmt.Println("numbered proof:")
	fmt.Println(nsErr.Error())

	fmt.Println("collapsed:")
	fmt.Println(nsErr.WithReporter(&pubgrub.CollapsedReporter{}).Error())
}

func main() {
	trivial()
	backtracking()
	unsatisfiable()
	noVersions()
	packageNotFound()
	diamond()
}
