// Package oaserrors provides structured error types for oasconnect.
//
// Import path: github.com/erraggy/oasconnect/oaserrors
//
// Every fatal condition in the generation pipeline has its own type, so callers
// can tell a broken input document from a broken template or an occupied output
// directory with [errors.Is] and [errors.As].
//
// # Error Types
//
//   - [SpecFormatError]: undecodable input, missing required sections, dangling $ref
//   - [CyclicReferenceError]: a $ref chain that loops back on itself
//   - [UnsupportedOperationError]: a non-operation key under a path (skipped, not fatal)
//   - [TemplateBindingError]: a template that references data its context lacks
//   - [DestinationExistsError]: the output directory already holds content
//   - [ValidationError]: structural violations found by the validate stage
//   - [ConfigError]: invalid configuration or input options
//
// # Sentinel Errors
//
// Each error type has a corresponding sentinel error for use with errors.Is():
//
//   - [ErrSpecFormat]: Matches any [SpecFormatError]
//   - [ErrCyclicReference]: Matches any [CyclicReferenceError]
//   - [ErrUnsupportedOperation]: Matches any [UnsupportedOperationError]
//   - [ErrTemplateBinding]: Matches any [TemplateBindingError]
//   - [ErrDestinationExists]: Matches any [DestinationExistsError]
//   - [ErrValidation]: Matches any [ValidationError]
//   - [ErrConfig]: Matches any [ConfigError]
//
// # Usage Examples
//
//	_, err := generator.GenerateWithOptions(generator.WithFilePath("api.yaml"))
//	if errors.Is(err, oaserrors.ErrDestinationExists) {
//	    // pick another directory
//	}
//
//	var cyc *oaserrors.CyclicReferenceError
//	if errors.As(err, &cyc) {
//	    fmt.Println(strings.Join(cyc.Chain, " -> "))
//	}
package oaserrors
