// Package parser loads OpenAPI Specification documents into a normalized,
// version-neutral model.
//
// Both OAS 2.0 (Swagger) and OAS 3.x documents are accepted, in YAML or JSON.
// The document is decoded into a yaml.Node tree so that paths, methods,
// properties and components keep their document order, then converted into a
// [Document] in which every $ref has been resolved.
//
// # Quick Start
//
//	result, err := parser.ParseWithOptions(
//		parser.WithFilePath("openapi.yaml"),
//	)
//	if err != nil {
//		log.Fatal(err)
//	}
//	for _, item := range result.Document.Paths {
//		fmt.Println(item.Path, len(item.Operations))
//	}
//
// # References
//
// Only local references ("#/...") are supported; external ones fail with a
// [oaserrors.SpecFormatError], as do references that point nowhere.
//
// Schemas are memoized by their target node. A component referenced from
// several places is one *Schema value, and a component that refers back to
// itself through a property or items forms a pointer cycle. Walkers must keep
// a visited set.
//
// A chain of references that loops without reaching a concrete node
// (A refers to B which refers back to A), or an allOf that composes a schema
// with itself, can never be completed and fails with
// [oaserrors.CyclicReferenceError].
//
// # Normalization
//
//   - OAS 2.0 definitions and OAS 3.x components.schemas become Document.Schemas
//   - formData parameters are located in the body with Parameter.Form set
//   - OAS 3.x request bodies and responses prefer JSON media types
//   - allOf members are merged into one object schema; oneOf/anyOf become unions
//   - cookie parameters are skipped with a warning
package parser
