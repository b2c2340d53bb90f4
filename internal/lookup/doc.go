// Package lookup connects the matcher to the works databases. It fronts
// every search with a response cache, paces network requests with a jittered
// gap, retries transient failures, and degrades to empty results when a
// source stays unreachable.
package lookup
