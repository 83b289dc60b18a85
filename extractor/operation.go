package extractor

import (
	"strings"

	"github.com/erraggy/oasconnect/internal/httputil"
	"github.com/erraggy/oasconnect/internal/naming"
	"github.com/erraggy/oasconnect/parser"
)

// Operation is one (path, method) pair with inherited parameters merged in.
type Operation struct {
	// ID is the declared operationId, or a synthesised one when Synthesized is set
	ID          string
	Synthesized bool
	// Method is the lower-case HTTP method
	Method      string
	Path        string
	Summary     string
	Description string
	Tags        []string
	Deprecated  bool
	// Parameters are path-level parameters overridden by method-level ones,
	// excluding the OAS 2.0 body parameter (see RequestBody)
	Parameters  []*parser.Parameter
	RequestBody *parser.RequestBody
	Responses   []*parser.Response
	// Security lists the scheme names the operation requires
	Security []string
}

// String returns "METHOD /path".
func (o *Operation) String() string {
	return strings.ToUpper(o.Method) + " " + o.Path
}

// SuccessResponse returns the first 2xx response, falling back to "default".
func (o *Operation) SuccessResponse() *parser.Response {
	var fallback *parser.Response
	for _, r := range o.Responses {
		if httputil.IsSuccessCode(r.Code) {
			return r
		}
		if r.Code == "default" && fallback == nil {
			fallback = r
		}
	}
	return fallback
}

// ParametersIn returns the parameters carried in loc, in order.
func (o *Operation) ParametersIn(loc parser.Location) []*parser.Parameter {
	var out []*parser.Parameter
	for _, p := range o.Parameters {
		if p.In == loc {
			out = append(out, p)
		}
	}
	return out
}

// IDSynthesizer derives an operation id for operations that declare none.
type IDSynthesizer func(method, path string) string

// SynthesizeOperationID builds a camelCase id from the method and path, with
// each placeholder becoming a "By<Name>" segment.
// Example: ("get", "/pets/{id}") -> "getPetsById"
func SynthesizeOperationID(method, path string) string {
	p := strings.ReplaceAll(path, "/", " ")
	p = strings.ReplaceAll(p, "{", " By ")
	p = strings.ReplaceAll(p, "}", " ")
	return naming.ToCamelCase(strings.ToLower(method) + " " + p)
}
