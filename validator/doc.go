// Package validator checks the structure of a downloaded OpenAPI document
// before a connector is generated from it.
//
// The checks work on the decoded document tree, so they run before the
// loader normalizes anything and report every problem rather than stopping
// at the first one:
//
//   - a supported version: swagger "2.0" or openapi "3.x"
//   - an info object with a title and a version
//   - a paths object whose keys are well-formed templates starting with "/"
//   - operations with unique operationIds and a responses object
//   - parameters with a name and a valid location; path parameters required
//   - local $ref values that resolve
//
// Warnings flag documents that will generate but need attention, such as a
// missing server or description. Strict mode adds warnings for missing
// operationIds and unknown path item fields.
//
// # Output
//
// A valid document can be written back as JSON with its keys in source
// order. When a swagger URL is configured it is recorded under
// info.x-origin, as a list of {format, url, version} entries:
//
//	result, err := validator.ValidateFile("openapi-original.json",
//	    "openapi-validated.json", "https://example.com/openapi.json")
//	if err != nil {
//	    var verr *oaserrors.ValidationError
//	    if errors.As(err, &verr) {
//	        for _, p := range verr.Problems {
//	            fmt.Println(p)
//	        }
//	    }
//	}
//
// ValidationResult.Err returns nil for a valid document and a
// *oaserrors.ValidationError listing every error otherwise.
package validator
