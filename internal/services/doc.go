// Package services defines shared utilities consumed by the matching
// pipeline and external integrations.
//
// Key responsibilities:
//   - Context helpers that stamp run IDs, artist names, recording titles, and
//     rights-database sources for logging and tracing.
//   - Structured error markers plus the Wrap helper that keep failure
//     classification (transient vs validation vs configuration) consistent
//     across clients.
//
// Use these helpers when wiring new lookup or reporting logic so operational
// behaviour (error handling, observability, retries) stays uniform.
package services
