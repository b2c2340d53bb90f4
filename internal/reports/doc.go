// Package reports renders a matched catalog into the CSV artifact set and
// the A&R text summary that analysts actually read.
package reports
