package extractor

import (
	"fmt"

	"github.com/erraggy/oasconnect/internal/issues"
	"github.com/erraggy/oasconnect/internal/pathutil"
	"github.com/erraggy/oasconnect/internal/severity"
	"github.com/erraggy/oasconnect/oaserrors"
	"github.com/erraggy/oasconnect/parser"
)

// Result holds the extracted operations in document order.
type Result struct {
	Operations []*Operation
	// Skipped lists path entries that are not operations
	Skipped []*oaserrors.UnsupportedOperationError
	// Issues lists warnings and notes raised during extraction
	Issues []issues.Issue
}

// Option is a function that configures an extraction
type Option func(*extractConfig) error

type extractConfig struct {
	synthesize IDSynthesizer
	logger     parser.Logger
}

// WithIDSynthesizer replaces the operation id synthesis rule
func WithIDSynthesizer(fn IDSynthesizer) Option {
	return func(cfg *extractConfig) error {
		if fn == nil {
			return &oaserrors.ConfigError{Option: "idSynthesizer", Message: "must not be nil"}
		}
		cfg.synthesize = fn
		return nil
	}
}

// WithLogger sets the structured logger
func WithLogger(l parser.Logger) Option {
	return func(cfg *extractConfig) error {
		cfg.logger = l
		return nil
	}
}

const (
	issueInfo    = severity.SeverityInfo
	issueWarning = severity.SeverityWarning
)

// Extract flattens the document's path x method matrix into operations.
// Entries that are not HTTP operations are skipped and reported, never fatal.
func Extract(doc *parser.Document, opts ...Option) (*Result, error) {
	cfg := &extractConfig{synthesize: SynthesizeOperationID}
	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, fmt.Errorf("extractor: invalid options: %w", err)
		}
	}
	if doc == nil {
		return nil, &oaserrors.ConfigError{Option: "document", Message: "extractor: document is nil"}
	}
	log := parser.OrNop(cfg.logger)

	res := &Result{}
	seenIDs := make(map[string]string)
	for _, item := range doc.Paths {
		for _, key := range item.Unsupported {
			skipped := &oaserrors.UnsupportedOperationError{
				Path:    item.Path,
				Method:  key,
				Message: "not an HTTP method",
			}
			log.Warn("skipping path entry", "path", item.Path, "key", key)
			res.Skipped = append(res.Skipped, skipped)
			res.Issues = append(res.Issues, issues.Warning(item.Path, skipped.Error(), skipped))
		}

		for _, def := range item.Operations {
			op := extractOne(doc, item, def, cfg, res)
			if prev, dup := seenIDs[op.ID]; dup {
				res.Issues = append(res.Issues, issues.Issue{
					Operation: op.String(),
					Message:   fmt.Sprintf("operationId %q already used by %s", op.ID, prev),
					Severity:  issueInfo,
				})
			} else {
				seenIDs[op.ID] = op.String()
			}
			log.Debug("extracted operation", "operation", op.String(), "id", op.ID)
			res.Operations = append(res.Operations, op)
		}
	}
	return res, nil
}

func extractOne(doc *parser.Document, item *parser.PathItem, def *parser.OperationDef, cfg *extractConfig, res *Result) *Operation {
	op := &Operation{
		ID:          def.OperationID,
		Method:      def.Method,
		Path:        item.Path,
		Summary:     def.Summary,
		Description: def.Description,
		Tags:        def.Tags,
		Deprecated:  def.Deprecated,
		RequestBody: def.RequestBody,
		Responses:   def.Responses,
		Security:    doc.Security,
	}
	if def.HasSecurity {
		op.Security = def.Security
	}
	if op.ID == "" {
		op.ID = cfg.synthesize(def.Method, item.Path)
		op.Synthesized = true
		res.Issues = append(res.Issues, issues.Issue{
			Operation: op.String(),
			Message:   fmt.Sprintf("synthesised operationId %q", op.ID),
			Severity:  issueInfo,
		})
	}

	merged := mergeParameters(item.Parameters, def.Parameters)
	for _, p := range merged {
		if p.In == parser.LocationBody && !p.Form {
			if op.RequestBody != nil {
				res.Issues = append(res.Issues, issues.Issue{
					Operation: op.String(),
					Message:   fmt.Sprintf("extra body parameter %q ignored", p.Name),
					Severity:  issueWarning,
				})
				continue
			}
			op.RequestBody = &parser.RequestBody{
				Description: p.Description,
				Required:    p.Required,
				ContentType: "application/json",
				Schema:      p.Schema,
			}
			continue
		}
		op.Parameters = append(op.Parameters, p)
	}
	op.Parameters = reconcilePathParameters(op, res)
	return op
}

// mergeParameters applies method-level parameters over path-level ones.
// A method-level parameter with the same (name, location) replaces the
// path-level entry in place; others are appended.
func mergeParameters(pathLevel, methodLevel []*parser.Parameter) []*parser.Parameter {
	merged := make([]*parser.Parameter, 0, len(pathLevel)+len(methodLevel))
	index := make(map[string]int)
	for _, p := range pathLevel {
		if i, ok := index[p.Key()]; ok {
			merged[i] = p
			continue
		}
		index[p.Key()] = len(merged)
		merged = append(merged, p)
	}
	for _, p := range methodLevel {
		if i, ok := index[p.Key()]; ok {
			merged[i] = p
			continue
		}
		index[p.Key()] = len(merged)
		merged = append(merged, p)
	}
	return merged
}

// reconcilePathParameters makes the declared path parameters match the
// template placeholders exactly.
func reconcilePathParameters(op *Operation, res *Result) []*parser.Parameter {
	order := pathutil.Params(op.Path)
	placeholders := make(map[string]bool, len(order))
	for _, name := range order {
		placeholders[name] = true
	}

	declared := make(map[string]bool)
	out := make([]*parser.Parameter, 0, len(op.Parameters))
	for _, p := range op.Parameters {
		if p.In != parser.LocationPath {
			out = append(out, p)
			continue
		}
		if !placeholders[p.Name] {
			res.Issues = append(res.Issues, issues.Issue{
				Operation: op.String(),
				Message:   fmt.Sprintf("path parameter %q has no placeholder, dropped", p.Name),
				Severity:  issueWarning,
			})
			continue
		}
		declared[p.Name] = true
		out = append(out, p)
	}

	for _, name := range order {
		if declared[name] {
			continue
		}
		res.Issues = append(res.Issues, issues.Issue{
			Operation: op.String(),
			Message:   fmt.Sprintf("path parameter %q is not declared, added as string", name),
			Severity:  issueWarning,
		})
		out = append(out, &parser.Parameter{
			Name:     name,
			In:       parser.LocationPath,
			Required: true,
			Schema:   &parser.Schema{Kind: parser.KindString},
		})
	}
	return out
}
