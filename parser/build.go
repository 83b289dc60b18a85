package parser

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/erraggy/oasconnect/internal/httputil"
	"github.com/erraggy/oasconnect/internal/issues"
	"github.com/erraggy/oasconnect/internal/yamlnode"
	"github.com/erraggy/oasconnect/oaserrors"
	"go.yaml.in/yaml/v4"
)

// pathItemFields are the non-operation keys a path item may carry.
var pathItemFields = map[string]bool{
	"$ref":        true,
	"summary":     true,
	"description": true,
	"servers":     true,
	"parameters":  true,
}

// builder converts a decoded node tree into a Document.
type builder struct {
	root    *yaml.Node
	version OASVersion
	source  string
	refs    *refResolver
	log     Logger

	// schemas memoizes built schemas by their concrete node, which is what
	// turns recursive components into pointer cycles.
	schemas map[*yaml.Node]*Schema
	// names maps component schema nodes to their component names.
	names map[*yaml.Node]string
	// building holds the nesting level at which each in-progress schema started.
	building map[*yaml.Node]int
	// level counts structural edges (properties, items, variants) on the current path.
	level int

	warnings []issues.Issue
}

func newBuilder(root *yaml.Node, version OASVersion, source string, maxRefDepth int, log Logger) *builder {
	return &builder{
		root:     root,
		version:  version,
		source:   source,
		refs:     newRefResolver(root, source, maxRefDepth),
		log:      log,
		schemas:  make(map[*yaml.Node]*Schema),
		names:    make(map[*yaml.Node]string),
		building: make(map[*yaml.Node]int),
	}
}

func (b *builder) warn(at, msg string, cause error) {
	b.log.Warn(msg, "pointer", at)
	b.warnings = append(b.warnings, issues.Warning(at, msg, cause))
}

func (b *builder) formatError(at, msg string) error {
	return &oaserrors.SpecFormatError{Path: b.source, Pointer: at, Message: msg}
}

func (b *builder) build() (*Document, error) {
	doc := &Document{OASVersion: b.version}
	if b.version == OASVersion20 {
		doc.Version = yamlnode.String(yamlnode.Get(b.root, "swagger"))
	} else {
		doc.Version = yamlnode.String(yamlnode.Get(b.root, "openapi"))
	}

	info := yamlnode.Get(b.root, "info")
	if !yamlnode.IsMapping(info) {
		return nil, b.formatError("/info", "missing required field 'info'")
	}
	doc.Info = Info{
		Title:       strings.TrimSpace(yamlnode.String(yamlnode.Get(info, "title"))),
		Version:     yamlnode.String(yamlnode.Get(info, "version")),
		Description: yamlnode.String(yamlnode.Get(info, "description")),
	}
	if doc.Info.Title == "" {
		return nil, b.formatError("/info/title", "missing required field 'info.title'")
	}

	paths := yamlnode.Get(b.root, "paths")
	if !yamlnode.IsMapping(paths) {
		return nil, b.formatError("/paths", "missing required field 'paths'")
	}

	schemas, err := b.componentSchemas()
	if err != nil {
		return nil, err
	}
	doc.Schemas = schemas

	if doc.SecuritySchemes, err = b.securitySchemes(); err != nil {
		return nil, err
	}
	doc.Security = securityRequirement(yamlnode.Get(b.root, "security"))
	doc.BaseURL = b.baseURL()

	for _, p := range yamlnode.Pairs(paths) {
		if !strings.HasPrefix(p.Key, "/") {
			if !strings.HasPrefix(p.Key, "x-") {
				b.warn(pointer("/paths", p.Key), "path does not start with '/', skipped", nil)
			}
			continue
		}
		item, err := b.pathItem(p.Key, p.Value)
		if err != nil {
			return nil, err
		}
		doc.Paths = append(doc.Paths, item)
	}

	b.log.Debug("built document",
		"version", doc.Version,
		"paths", len(doc.Paths),
		"schemas", len(doc.Schemas))
	return doc, nil
}

// componentSchemas indexes component names first so that schemas reached
// through properties before their own entry still carry their name.
func (b *builder) componentSchemas() ([]*NamedSchema, error) {
	base := "/components/schemas"
	node := yamlnode.Get(yamlnode.Get(b.root, "components"), "schemas")
	if b.version == OASVersion20 {
		base = "/definitions"
		node = yamlnode.Get(b.root, "definitions")
	}
	pairs := yamlnode.Pairs(node)
	for _, p := range pairs {
		target, _, err := b.refs.follow(p.Value, pointer(base, p.Key))
		if err != nil {
			return nil, err
		}
		if _, taken := b.names[target]; !taken {
			b.names[target] = p.Key
		}
	}
	out := make([]*NamedSchema, 0, len(pairs))
	for _, p := range pairs {
		s, err := b.schema(p.Value, pointer(base, p.Key))
		if err != nil {
			return nil, err
		}
		out = append(out, &NamedSchema{Name: p.Key, Schema: s})
	}
	return out, nil
}

func (b *builder) pathItem(path string, n *yaml.Node) (*PathItem, error) {
	at := pointer("/paths", path)
	item := &PathItem{Path: path}
	target, _, err := b.refs.follow(n, at)
	if err != nil {
		return nil, err
	}
	if !yamlnode.IsMapping(target) {
		b.warn(at, "path item is not an object, skipped", nil)
		return item, nil
	}
	if item.Parameters, err = b.parameters(yamlnode.Get(target, "parameters"), pointer(at, "parameters")); err != nil {
		return nil, err
	}
	for _, p := range yamlnode.Pairs(target) {
		switch {
		case httputil.IsMethod(p.Key, int(b.version)):
			op, err := b.operation(p.Key, p.Value, pointer(at, p.Key))
			if err != nil {
				return nil, err
			}
			item.Operations = append(item.Operations, op)
		case pathItemFields[p.Key]:
		default:
			item.Unsupported = append(item.Unsupported, p.Key)
		}
	}
	return item, nil
}

func (b *builder) operation(method string, n *yaml.Node, at string) (*OperationDef, error) {
	op := &OperationDef{Method: method}
	if !yamlnode.IsMapping(n) {
		b.warn(at, "operation is not an object", nil)
		return op, nil
	}
	op.OperationID = strings.TrimSpace(yamlnode.String(yamlnode.Get(n, "operationId")))
	op.Summary = yamlnode.String(yamlnode.Get(n, "summary"))
	op.Description = yamlnode.String(yamlnode.Get(n, "description"))
	op.Tags = yamlnode.Strings(yamlnode.Get(n, "tags"))
	op.Deprecated = yamlnode.Bool(yamlnode.Get(n, "deprecated"))

	var err error
	if op.Parameters, err = b.parameters(yamlnode.Get(n, "parameters"), pointer(at, "parameters")); err != nil {
		return nil, err
	}
	if rb := yamlnode.Get(n, "requestBody"); rb != nil && b.version == OASVersion3x {
		if op.RequestBody, err = b.requestBody(rb, pointer(at, "requestBody")); err != nil {
			return nil, err
		}
	}
	for _, p := range yamlnode.Pairs(yamlnode.Get(n, "responses")) {
		rat := pointer(at, "responses", p.Key)
		if strings.HasPrefix(p.Key, "x-") {
			continue
		}
		if !httputil.ValidateStatusCode(p.Key) {
			b.warn(rat, "invalid response code "+strconv.Quote(p.Key)+", skipped", nil)
			continue
		}
		resp, err := b.response(p.Key, p.Value, rat)
		if err != nil {
			return nil, err
		}
		op.Responses = append(op.Responses, resp)
	}
	if sec := yamlnode.Get(n, "security"); sec != nil {
		op.HasSecurity = true
		op.Security = securityRequirement(sec)
	}
	return op, nil
}

func (b *builder) parameters(seq *yaml.Node, at string) ([]*Parameter, error) {
	if !yamlnode.IsSequence(seq) {
		return nil, nil
	}
	var out []*Parameter
	for i, item := range seq.Content {
		pat := pointer(at, strconv.Itoa(i))
		target, _, err := b.refs.follow(item, pat)
		if err != nil {
			return nil, err
		}
		name := yamlnode.String(yamlnode.Get(target, "name"))
		in := yamlnode.String(yamlnode.Get(target, "in"))
		if name == "" {
			b.warn(pat, "parameter without a name, skipped", nil)
			continue
		}
		p := &Parameter{
			Name:        name,
			Description: yamlnode.String(yamlnode.Get(target, "description")),
			Required:    yamlnode.Bool(yamlnode.Get(target, "required")),
		}
		switch in {
		case "path":
			p.In = LocationPath
			p.Required = true
		case "query":
			p.In = LocationQuery
		case "header":
			p.In = LocationHeader
		case "body":
			p.In = LocationBody
		case "formData":
			p.In = LocationBody
			p.Form = true
		case "cookie":
			b.warn(pat, "cookie parameter "+strconv.Quote(name)+" is not supported, skipped", nil)
			continue
		default:
			b.warn(pat, "unknown parameter location "+strconv.Quote(in)+", skipped", nil)
			continue
		}
		if p.Schema, err = b.parameterSchema(target, in, pat); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

func (b *builder) parameterSchema(n *yaml.Node, in, at string) (*Schema, error) {
	if s := yamlnode.Get(n, "schema"); s != nil {
		return b.schema(s, pointer(at, "schema"))
	}
	if content := yamlnode.Get(n, "content"); content != nil {
		_, media := pickMedia(content)
		if s := yamlnode.Get(media, "schema"); s != nil {
			return b.schema(s, pointer(at, "content"))
		}
	}
	// OAS 2.0 non-body parameters carry their type inline.
	if b.version == OASVersion20 && in != "body" && yamlnode.Has(n, "type") {
		return b.schema(n, at)
	}
	return &Schema{Kind: KindAny}, nil
}

func (b *builder) requestBody(n *yaml.Node, at string) (*RequestBody, error) {
	target, _, err := b.refs.follow(n, at)
	if err != nil {
		return nil, err
	}
	rb := &RequestBody{
		Description: yamlnode.String(yamlnode.Get(target, "description")),
		Required:    yamlnode.Bool(yamlnode.Get(target, "required")),
	}
	ct, media := pickMedia(yamlnode.Get(target, "content"))
	rb.ContentType = ct
	if s := yamlnode.Get(media, "schema"); s != nil {
		if rb.Schema, err = b.schema(s, pointer(at, "content", ct, "schema")); err != nil {
			return nil, err
		}
	}
	return rb, nil
}

func (b *builder) response(code string, n *yaml.Node, at string) (*Response, error) {
	target, _, err := b.refs.follow(n, at)
	if err != nil {
		return nil, err
	}
	resp := &Response{
		Code:        code,
		Description: yamlnode.String(yamlnode.Get(target, "description")),
	}
	if b.version == OASVersion20 {
		if s := yamlnode.Get(target, "schema"); s != nil {
			resp.ContentType = "application/json"
			resp.Schema, err = b.schema(s, pointer(at, "schema"))
		}
		return resp, err
	}
	ct, media := pickMedia(yamlnode.Get(target, "content"))
	resp.ContentType = ct
	if s := yamlnode.Get(media, "schema"); s != nil {
		resp.Schema, err = b.schema(s, pointer(at, "content", ct, "schema"))
	}
	return resp, err
}

// pickMedia prefers the first JSON media type, then the first entry.
func pickMedia(content *yaml.Node) (string, *yaml.Node) {
	pairs := yamlnode.Pairs(content)
	for _, p := range pairs {
		if httputil.IsJSONMediaType(p.Key) {
			return p.Key, p.Value
		}
	}
	if len(pairs) > 0 {
		return pairs[0].Key, pairs[0].Value
	}
	return "", nil
}

func (b *builder) securitySchemes() ([]*SecurityScheme, error) {
	base := "/components/securitySchemes"
	node := yamlnode.Get(yamlnode.Get(b.root, "components"), "securitySchemes")
	if b.version == OASVersion20 {
		base = "/securityDefinitions"
		node = yamlnode.Get(b.root, "securityDefinitions")
	}
	var out []*SecurityScheme
	for _, p := range yamlnode.Pairs(node) {
		target, _, err := b.refs.follow(p.Value, pointer(base, p.Key))
		if err != nil {
			return nil, err
		}
		s := &SecurityScheme{
			Name:         p.Key,
			Type:         yamlnode.String(yamlnode.Get(target, "type")),
			Description:  yamlnode.String(yamlnode.Get(target, "description")),
			Scheme:       strings.ToLower(yamlnode.String(yamlnode.Get(target, "scheme"))),
			BearerFormat: yamlnode.String(yamlnode.Get(target, "bearerFormat")),
			In:           yamlnode.String(yamlnode.Get(target, "in")),
			ParamName:    yamlnode.String(yamlnode.Get(target, "name")),
		}
		if s.Type == "basic" {
			s.Type, s.Scheme = "http", "basic"
		}
		out = append(out, s)
	}
	return out, nil
}

// securityRequirement flattens a security requirement list into the scheme
// names it mentions, first occurrence first.
func securityRequirement(seq *yaml.Node) []string {
	var names []string
	seen := make(map[string]bool)
	if !yamlnode.IsSequence(seq) {
		return names
	}
	for _, req := range seq.Content {
		for _, p := range yamlnode.Pairs(req) {
			if !seen[p.Key] {
				seen[p.Key] = true
				names = append(names, p.Key)
			}
		}
	}
	return names
}

var serverVariable = regexp.MustCompile(`\{([^}]+)\}`)

func (b *builder) baseURL() string {
	if b.version == OASVersion3x {
		servers := yamlnode.Get(b.root, "servers")
		if !yamlnode.IsSequence(servers) || len(servers.Content) == 0 {
			return ""
		}
		first := servers.Content[0]
		vars := yamlnode.Get(first, "variables")
		return serverVariable.ReplaceAllStringFunc(yamlnode.String(yamlnode.Get(first, "url")), func(m string) string {
			name := m[1 : len(m)-1]
			if def := yamlnode.String(yamlnode.Get(yamlnode.Get(vars, name), "default")); def != "" {
				return def
			}
			return m
		})
	}
	host := yamlnode.String(yamlnode.Get(b.root, "host"))
	basePath := yamlnode.String(yamlnode.Get(b.root, "basePath"))
	if host == "" {
		return basePath
	}
	scheme := "https"
	if schemes := yamlnode.Strings(yamlnode.Get(b.root, "schemes")); len(schemes) > 0 {
		scheme = schemes[0]
	}
	return scheme + "://" + host + basePath
}
