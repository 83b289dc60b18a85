// Package oasconnect turns OpenAPI Specification (OAS) documents into scaffolded
// integration-connector source packages.
//
// A connector package contains one source module per API operation, a fixed plugin
// contract every module implements, a component.json descriptor listing triggers,
// actions and credentials, plus a go.mod, README and default logo.
//
// # Overview
//
// Generation is a linear pipeline of small packages:
//
//   - parser: load and normalize an OAS 2.0 or 3.x document, resolving $ref
//   - extractor: flatten the path x method matrix into ordered operations
//   - mapper: turn request and response schemas into configuration-field trees
//   - generator: render every file from embedded templates and write the tree
//
// Around the pipeline sit thin collaborators that mirror the command line flow:
// download fetches the document, validator checks it and writes a validated copy,
// and publish pushes the result to GitHub and registers it with a catalog.
//
// # Quick Start
//
//	result, err := generator.GenerateWithOptions(
//		generator.WithFilePath("petstore.yaml"),
//		generator.WithPackageName("petstore-connector"),
//	)
//	if err != nil {
//		log.Fatal(err)
//	}
//	if _, err := result.WriteFiles("out/petstore-connector"); err != nil {
//		log.Fatal(err)
//	}
//
// # Errors
//
// All fatal conditions are typed (see package oaserrors) and can be inspected
// with [errors.Is] and [errors.As].
//
// # Command Line
//
// The oasconnect command wraps the same flow:
//
//	oasconnect generate https://example.com/openapi.json -o ./out
//	oasconnect publish github petstore-connector ./out/generated --org acme
//	oasconnect mcp
package oasconnect
