// This file implements the structural checks applied to a decoded document:
// version, info, servers, paths, operations, parameters and references.

package validator

import (
	"fmt"
	"slices"
	"strings"

	"github.com/erraggy/oasconnect/internal/httputil"
	"github.com/erraggy/oasconnect/internal/stringutil"
	"github.com/erraggy/oasconnect/internal/yamlnode"
	"github.com/erraggy/oasconnect/parser"
	"go.yaml.in/yaml/v4"
)

var (
	oas2ParameterLocations = []string{"query", "header", "path", "formData", "body"}
	oas3ParameterLocations = []string{"query", "header", "path", "cookie"}

	// pathItemFields are the non-operation fields a path item may carry.
	pathItemFields = map[string]bool{
		"$ref":        true,
		"summary":     true,
		"description": true,
		"servers":     true,
		"parameters":  true,
	}
)

type checker struct {
	v            *Validator
	result       *ValidationResult
	root         *yaml.Node
	major        int
	semver       parser.Semver
	operationIDs map[string]string
}

func (c *checker) errorf(path, format string, args ...any) {
	c.v.addError(c.result, path, fmt.Sprintf(format, args...))
}

func (c *checker) warnf(path, format string, args ...any) {
	c.v.addWarning(c.result, path, fmt.Sprintf(format, args...))
}

func (c *checker) check() {
	c.checkVersion()
	c.checkInfo()
	c.checkServers()
	c.checkPaths()
	c.checkRefs(c.root, "")
}

func (c *checker) checkVersion() {
	if v := yamlnode.String(yamlnode.Get(c.root, "swagger")); v != "" {
		c.result.Version = v
		if v != "2.0" {
			c.errorf("/swagger", "unsupported swagger version %q", v)
			return
		}
		c.major = 2
		c.result.OASVersion = parser.OASVersion20
		return
	}
	if v := yamlnode.String(yamlnode.Get(c.root, "openapi")); v != "" {
		c.result.Version = v
		sv, err := parser.ParseSemver(v)
		if err != nil || sv.Major != 3 {
			c.errorf("/openapi", "unsupported openapi version %q", v)
			return
		}
		c.major = 3
		c.semver = sv
		c.result.OASVersion = parser.OASVersion3x
		return
	}
	c.errorf("", "missing required field 'swagger' or 'openapi'")
}

func (c *checker) checkInfo() {
	info := yamlnode.Get(c.root, "info")
	switch {
	case info == nil:
		c.errorf("/info", "missing required field")
		return
	case !yamlnode.IsMapping(info):
		c.errorf("/info", "must be an object")
		return
	}
	if yamlnode.String(yamlnode.Get(info, "title")) == "" {
		c.errorf("/info/title", "missing required field")
	}
	if yamlnode.String(yamlnode.Get(info, "version")) == "" {
		c.errorf("/info/version", "missing required field")
	}
	if yamlnode.String(yamlnode.Get(info, "description")) == "" {
		c.warnf("/info/description", "no description; the connector description will be empty")
	}
	if email := yamlnode.String(yamlnode.Get(yamlnode.Get(info, "contact"), "email")); email != "" && !stringutil.IsValidEmail(email) {
		c.warnf("/info/contact/email", "invalid email address %q", email)
	}
}

func (c *checker) checkServers() {
	if c.major == 2 {
		if yamlnode.String(yamlnode.Get(c.root, "host")) == "" {
			c.warnf("/host", "no host declared; the connector will require a base URL credential")
		}
		return
	}
	servers := yamlnode.Get(c.root, "servers")
	if servers == nil {
		c.warnf("/servers", "no servers declared; the connector will require a base URL credential")
		return
	}
	if !yamlnode.IsSequence(servers) {
		c.errorf("/servers", "must be an array")
		return
	}
	for i, s := range servers.Content {
		at := pointer("/servers", fmt.Sprint(i))
		if !yamlnode.IsMapping(s) {
			c.errorf(at, "must be an object")
			continue
		}
		if yamlnode.String(yamlnode.Get(s, "url")) == "" {
			c.errorf(at+"/url", "missing required field")
		}
	}
}

func (c *checker) checkPaths() {
	paths := yamlnode.Get(c.root, "paths")
	switch {
	case paths == nil:
		c.errorf("/paths", "missing required field")
		return
	case !yamlnode.IsMapping(paths):
		c.errorf("/paths", "must be an object")
		return
	}

	for _, p := range yamlnode.Pairs(paths) {
		if strings.HasPrefix(p.Key, "x-") {
			continue
		}
		at := pointer("/paths", p.Key)
		if !strings.HasPrefix(p.Key, "/") {
			c.errorf(at, "path must begin with '/'")
			continue
		}
		if err := validatePathTemplate(p.Key); err != nil {
			c.errorf(at, "invalid path template: %v", err)
		}
		if len(p.Key) > 1 && strings.HasSuffix(p.Key, "/") {
			c.warnf(at, "path has a trailing slash")
		}
		c.checkPathItem(p.Key, p.Value, at)
	}
}

func (c *checker) checkPathItem(path string, item *yaml.Node, at string) {
	if !yamlnode.IsMapping(item) {
		c.errorf(at, "path item must be an object")
		return
	}
	for _, p := range yamlnode.Pairs(item) {
		switch {
		case p.Key == "parameters":
			c.checkParameters(p.Value, pointer(at, p.Key))
		case httputil.IsMethod(p.Key, c.major):
			c.checkOperation(path, p.Key, p.Value, pointer(at, p.Key))
		case pathItemFields[p.Key], strings.HasPrefix(p.Key, "x-"):
		default:
			if c.v.StrictMode {
				c.warnf(pointer(at, p.Key), "unknown path item field %q", p.Key)
			}
		}
	}
}

func (c *checker) checkOperation(path, method string, op *yaml.Node, at string) {
	if !yamlnode.IsMapping(op) {
		c.errorf(at, "operation must be an object")
		return
	}
	where := strings.ToUpper(method) + " " + path

	switch id := yamlnode.String(yamlnode.Get(op, "operationId")); {
	case id == "":
		if c.v.StrictMode {
			c.warnf(at, "operation has no operationId")
		}
	case c.operationIDs[id] != "":
		c.errorf(at+"/operationId", "duplicate operationId %q (first used by %s)", id, c.operationIDs[id])
	default:
		c.operationIDs[id] = where
	}

	if params := yamlnode.Get(op, "parameters"); params != nil {
		c.checkParameters(params, at+"/parameters")
	}

	responses := yamlnode.Get(op, "responses")
	switch {
	case responses == nil:
		if c.responsesOptional() {
			c.warnf(at+"/responses", "operation declares no responses")
		} else {
			c.errorf(at+"/responses", "missing required field")
		}
		return
	case !yamlnode.IsMapping(responses):
		c.errorf(at+"/responses", "must be an object")
		return
	}
	for _, r := range yamlnode.Pairs(responses) {
		if strings.HasPrefix(r.Key, "x-") {
			continue
		}
		if !httputil.ValidateStatusCode(r.Key) {
			c.errorf(pointer(at+"/responses", r.Key), "invalid response status code %q", r.Key)
		}
	}
}

// responsesOptional reports whether the document version allows operations
// without a responses object (OAS 3.1 and later).
func (c *checker) responsesOptional() bool {
	return c.major == 3 && c.semver.AtLeast(3, 1)
}

func (c *checker) checkParameters(seq *yaml.Node, at string) {
	if !yamlnode.IsSequence(seq) {
		c.errorf(at, "must be an array")
		return
	}
	locations := oas3ParameterLocations
	if c.major == 2 {
		locations = oas2ParameterLocations
	}
	for i, p := range seq.Content {
		pat := pointer(at, fmt.Sprint(i))
		if !yamlnode.IsMapping(p) {
			c.errorf(pat, "parameter must be an object")
			continue
		}
		if yamlnode.Has(p, "$ref") {
			continue
		}
		if yamlnode.String(yamlnode.Get(p, "name")) == "" {
			c.errorf(pat+"/name", "missing required field")
		}
		in := yamlnode.String(yamlnode.Get(p, "in"))
		switch {
		case in == "":
			c.errorf(pat+"/in", "missing required field")
		case !slices.Contains(locations, in):
			c.errorf(pat+"/in", "invalid parameter location %q", in)
		case in == "path" && !yamlnode.Bool(yamlnode.Get(p, "required")):
			c.errorf(pat+"/required", "path parameters must be required")
		}
	}
}

// checkRefs walks the whole tree and reports malformed or dangling local
// references.
func (c *checker) checkRefs(n *yaml.Node, at string) {
	n = yamlnode.Unalias(n)
	if n == nil {
		return
	}
	switch n.Kind {
	case yaml.MappingNode:
		for _, p := range yamlnode.Pairs(n) {
			child := pointer(at, p.Key)
			if p.Key == "$ref" {
				c.checkRef(p.Value, child)
				continue
			}
			c.checkRefs(p.Value, child)
		}
	case yaml.SequenceNode:
		for i, item := range n.Content {
			c.checkRefs(item, pointer(at, fmt.Sprint(i)))
		}
	}
}

func (c *checker) checkRef(v *yaml.Node, at string) {
	ref := yamlnode.String(v)
	if ref == "" {
		c.errorf(at, "$ref must be a non-empty string")
		return
	}
	if !strings.HasPrefix(ref, "#") {
		c.warnf(at, "external reference %q is not resolved", ref)
		return
	}
	if _, err := yamlnode.Pointer(c.root, ref); err != nil {
		c.errorf(at, "unresolved reference %q: %v", ref, err)
	}
}
