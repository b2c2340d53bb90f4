// Package analysis turns a matched catalog into A&R intelligence: coverage
// of the registration databases, the publisher landscape behind the matched
// works, and a scored signing-opportunity verdict.
package analysis
