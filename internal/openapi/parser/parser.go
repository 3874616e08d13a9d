package parser

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-formquery/internal/logging"
	pkgopenapi "github.com/goliatone/go-formquery/pkg/openapi"
)

const extensionNamespace = "x-formquery"

// Parser implements pkgopenapi.Parser using kin-openapi.
type Parser struct {
	options pkgopenapi.ParserOptions
}

var _ pkgopenapi.Parser = (*Parser)(nil)

// New constructs a Parser with the given options.
func New(options pkgopenapi.ParserOptions) pkgopenapi.Parser {
	return &Parser{options: options}
}

// Operations converts a Document into a map keyed by operationId. Operations
// without an id are keyed "<method>:<path>".
func (p *Parser) Operations(ctx context.Context, doc pkgopenapi.Document) (map[string]pkgopenapi.Operation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	raw := doc.Raw()
	if len(raw) == 0 {
		return nil, errors.New("openapi parser: document payload is empty")
	}

	loader := &openapi3.Loader{
		Context:               ctx,
		IsExternalRefsAllowed: p.options.AllowExternalRefs,
	}
	spec, err := loader.LoadFromData(raw)
	if err != nil {
		return nil, fmt.Errorf("openapi parser: load document: %w", err)
	}
	if p.options.ValidateDocument {
		if err := spec.Validate(ctx, openapi3.DisableExamplesValidation()); err != nil {
			return nil, fmt.Errorf("openapi parser: validate: %w", err)
		}
	}
	if spec.Paths == nil || spec.Paths.Len() == 0 {
		return nil, errors.New("openapi parser: document does not contain any paths")
	}

	operations := make(map[string]pkgopenapi.Operation)
	for path, item := range spec.Paths.Map() {
		if item == nil {
			continue
		}
		for _, entry := range []struct {
			method string
			op     *openapi3.Operation
		}{
			{"GET", item.Get},
			{"HEAD", item.Head},
			{"POST", item.Post},
			{"PUT", item.Put},
			{"PATCH", item.Patch},
			{"DELETE", item.Delete},
			{"OPTIONS", item.Options},
			{"TRACE", item.Trace},
		} {
			if entry.op == nil {
				continue
			}
			op := convertOperation(entry.method, path, item.Parameters, entry.op)
			operations[op.ID] = op
		}
	}
	logging.Debug("openapi parser: %s yielded %d operations", doc.Location(), len(operations))
	return operations, nil
}

func convertOperation(method, path string, shared openapi3.Parameters, operation *openapi3.Operation) pkgopenapi.Operation {
	id := operation.OperationID
	if id == "" {
		id = strings.ToLower(method) + ":" + path
	}
	return pkgopenapi.Operation{
		ID:          id,
		Method:      method,
		Path:        path,
		Summary:     operation.Summary,
		Description: operation.Description,
		Parameters:  mergeParameters(shared, operation.Parameters),
		Extensions:  extractExtensions(operation.Extensions),
	}
}

// mergeParameters lists path level parameters first; an operation parameter
// with the same name and location replaces the shared one in place.
func mergeParameters(shared, own openapi3.Parameters) []pkgopenapi.Parameter {
	var out []pkgopenapi.Parameter
	index := make(map[string]int)
	for _, list := range []openapi3.Parameters{shared, own} {
		for _, ref := range list {
			if ref == nil || ref.Value == nil {
				continue
			}
			param := convertParameter(ref.Value)
			key := param.In + ":" + param.Name
			if i, ok := index[key]; ok {
				out[i] = param
				continue
			}
			index[key] = len(out)
			out = append(out, param)
		}
	}
	return out
}

func convertParameter(src *openapi3.Parameter) pkgopenapi.Parameter {
	return pkgopenapi.Parameter{
		Name:        src.Name,
		In:          src.In,
		Description: src.Description,
		Required:    src.Required,
		Schema:      convertSchema(src.Schema),
		Extensions:  extractExtensions(src.Extensions),
	}
}

func convertSchema(ref *openapi3.SchemaRef) pkgopenapi.Schema {
	if ref == nil || ref.Value == nil {
		return pkgopenapi.Schema{}
	}
	src := ref.Value
	out := pkgopenapi.Schema{
		Type:        firstSchemaType(src.Type),
		Format:      src.Format,
		Title:       src.Title,
		Description: src.Description,
		Default:     src.Default,
		Extensions:  extractExtensions(src.Extensions),
	}
	if len(src.Enum) > 0 {
		out.Enum = append([]any(nil), src.Enum...)
	}
	if src.Min != nil {
		v := *src.Min
		out.Minimum = &v
	}
	if src.Max != nil {
		v := *src.Max
		out.Maximum = &v
	}
	if src.Items != nil {
		items := convertSchema(src.Items)
		out.Items = &items
	}
	return out
}

func firstSchemaType(types *openapi3.Types) string {
	if types == nil {
		return ""
	}
	values := types.Slice()
	if len(values) == 0 {
		return ""
	}
	return values[0]
}

func extractExtensions(raw map[string]any) map[string]any {
	result := make(map[string]any)
	for key, value := range raw {
		if strings.HasPrefix(key, extensionNamespace+"-") {
			result[key] = value
		}
	}
	if len(result) == 0 {
		return nil
	}
	return result
}
