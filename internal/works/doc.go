// Package works defines the musical-work entity shared by every rights
// database integration, plus the parser contract those integrations
// implement. Concrete clients and payload adapters live in subpackages
// (works/mlc, works/songview).
package works
