// Package mlc implements the works-database client for The MLC public
// search API: first-page title and identifier searches for the matcher, and
// a paginated full dump of one publisher's registrations for catalog
// exports.
package mlc
