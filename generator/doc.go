// Package generator assembles connector packages from OpenAPI 2.0 and 3.x
// documents.
//
// A run is one linear pipeline: the document is loaded and normalized
// (package parser), flattened into operations (package extractor), every
// operation is given a unique module name, its parameters and schemas are
// mapped to configuration fields (package mapper), and each file is rendered
// from an embedded template with a typed context.
//
// # Quick Start
//
//	result, err := generator.GenerateWithOptions(
//		generator.WithFilePath("openapi.yaml"),
//		generator.WithPackageName("petstore-connector"),
//	)
//	if err != nil {
//		log.Fatal(err)
//	}
//	dir, err := result.WriteFiles("./generated")
//	if err != nil {
//		log.Fatal(err)
//	}
//	fmt.Println(dir)
//
// Or in one step, checking the destination before anything is generated:
//
//	dir, err := generator.RunWithOptions("./generated",
//		generator.WithFilePath("openapi.yaml"),
//	)
//
// # Generated Files
//
//	component.json      catalog descriptor, always present
//	logo.png            default logo
//	go.mod
//	README.md
//	main.go             module registry, credentials and auth rules
//	plugin/plugin.go    runtime contract shared by every module
//	triggers/<name>.go  one per GET or HEAD operation
//	actions/<name>.go   one per other operation
//
// Module names are kebab-case operation ids made unique in document order:
// two operations both named getItem become get-item and get-item-2. The
// trigger/action split can be replaced with [WithKindPolicy].
//
// # Failure Model
//
// Malformed documents ([oaserrors.SpecFormatError]), unresolvable $ref chains
// ([oaserrors.CyclicReferenceError]) and template binding failures
// ([oaserrors.TemplateBindingError]) abort the run. Path entries that are not
// operations are skipped and reported in [GenerateResult.Skipped].
//
// [GenerateResult.WriteFiles] refuses a destination that is a file or a
// non-empty directory ([oaserrors.DestinationExistsError]) and writes through
// a staging directory, so a failed write leaves nothing behind.
//
// Independent runs into distinct directories may execute concurrently.
package generator
