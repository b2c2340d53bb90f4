// Package catalog defines the recorded-catalog entities and the provider
// contract the rest of the pipeline consumes. Concrete providers live in
// subpackages (catalog/spotify).
package catalog
