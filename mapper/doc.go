// Package mapper converts resolved schemas into configuration-field
// descriptor trees used to render connector forms and validation shapes.
//
// The type policy is:
//
//   - a scalar with enum values becomes a select field
//   - an object with properties becomes a group of mapped child fields
//   - an array becomes a list wrapping the mapped item schema
//   - a oneOf/anyOf union becomes a union of mapped variants
//   - anything unconstrained (or of an unknown type) becomes an opaque field
//
// A child field is required exactly when its name is in the parent schema's
// required set.
//
// Schemas are shared pointers and may form cycles. The mapper tracks the
// schemas on the current path together with an explicit depth counter;
// reaching a schema already on the path, or going deeper than MaxDepth,
// yields an opaque field with Truncated set instead of failing.
package mapper
