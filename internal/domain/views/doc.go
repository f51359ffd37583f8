// Package views derives read-only projections from an owner's task set:
// the today list, upcoming date buckets, free-text search results and the
// dashboard aggregates.
//
// Every function is pure and synchronous. Inputs are never mutated and an
// empty input always yields a zeroed result rather than an error.
package views
