// Package extractor flattens a parsed document into an ordered list of
// operations, one per (path, method) pair.
//
// Operations keep document order: paths in the order they appear, and methods
// in the order they appear under each path. Parameters declared on the path
// item are inherited by every method; a method-level parameter with the same
// name and location replaces the inherited one.
//
// Operations without an operationId receive one built from the method and
// path, so GET /pets/{id} becomes getPetsById. The rule can be replaced with
// [WithIDSynthesizer].
//
// Keys under a path item that are not HTTP methods (vendor extensions, typos)
// are skipped and reported as [oaserrors.UnsupportedOperationError] values in
// [Result.Skipped]. They never abort extraction.
package extractor
