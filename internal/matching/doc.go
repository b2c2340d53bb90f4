// Package matching links catalog recordings to registered works. Two
// strategies run in a fixed order: an authoritative identifier comparison,
// then a normalized-title similarity fallback that only fires when identifier
// results leave a recording under-matched. All evaluation is deterministic;
// the Engine adds lookup orchestration and optional concurrency on top.
package matching
