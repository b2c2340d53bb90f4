// Package songview implements a best-effort client for the public
// ASCAP/BMI repertory searches. The endpoints serve browsers first and
// programs reluctantly; anything that is not usable JSON degrades to an
// empty result so the matcher can treat Songview as a bonus source.
package songview
