// Package runstore persists catalog analyses in SQLite so reports can be
// listed and regenerated without refetching anything.
package runstore
