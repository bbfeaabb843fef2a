// Package graph builds the page graph of a form and computes the
// reachability sets used to detect where conditional branches rejoin.
//
// A form is a directed graph: each page lists the pages that may follow it,
// optionally guarded by a condition. Forms are small (tens of pages), so the
// reachability sets are computed eagerly for every page with O(P²) worst-case
// cost.
//
// Design decision: Transitive closures are computed with an explicit visited
// accumulator rather than memoized recursion. A page already present in the
// accumulator is never expanded again, which makes termination on cyclic
// forms explicit and testable.
package graph
