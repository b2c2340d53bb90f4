// Package logs reads the process log file for the logs command.
//
// Tail serves the trailing backlog with bounded memory; Follow polls for
// appended lines so `reprise logs --follow` streams without holding the file
// open. Callers cancel the context to stop following.
package logs
