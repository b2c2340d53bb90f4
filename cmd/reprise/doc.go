// Package main hosts the reprise CLI entrypoint and command graph.
//
// The Cobra-based command tree turns terminal invocations into catalog
// analyses: fetching an artist's recordings, matching them against the
// public works databases, writing the CSV report set, and recording each
// run so reports can be regenerated later without touching the network. It
// centralizes configuration resolution and logger setup so subcommands can
// focus on user experience instead of wiring.
//
// Keep this package lean: add new functionality by extending the internal
// packages first, then surface it through dedicated commands or flags here.
package main
