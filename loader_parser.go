package formquery

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	internalLoader "github.com/goliatone/go-formquery/internal/openapi/loader"
	internalParser "github.com/goliatone/go-formquery/internal/openapi/parser"
	pkgopenapi "github.com/goliatone/go-formquery/pkg/openapi"
	"github.com/goliatone/go-formquery/pkg/schema"
)

const remoteTimeout = 15 * time.Second

// NewLoader constructs an OpenAPI loader using the internal implementation
// while keeping the concrete type hidden from consumers.
func NewLoader(options ...pkgopenapi.LoaderOption) pkgopenapi.Loader {
	return internalLoader.New(pkgopenapi.NewLoaderOptions(options...))
}

// NewParser constructs an OpenAPI parser backed by kin-openapi.
func NewParser(options ...pkgopenapi.ParserOption) pkgopenapi.Parser {
	return internalParser.New(pkgopenapi.NewParserOptions(options...))
}

// LoadOpenAPISchema derives a compiled schema from the query parameters of
// operationID in the document at src.
func LoadOpenAPISchema(ctx context.Context, src pkgopenapi.Source, operationID string, options ...pkgopenapi.LoaderOption) (*schema.Config, error) {
	doc, err := NewLoader(options...).Load(ctx, src)
	if err != nil {
		return nil, err
	}
	return compileOperation(ctx, doc, operationID)
}

// LoadSchema reads a schema from path. Directories and plain schema files go
// through schema.LoadFile; an OpenAPI document is converted from the query
// parameters of operationID.
func LoadSchema(ctx context.Context, path, operationID string) (*schema.Config, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("formquery: stat %s: %w", path, err)
	}
	if info.IsDir() {
		return schema.LoadFile(path)
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("formquery: read %s: %w", path, err)
	}
	if !pkgopenapi.Detect(raw) {
		return schema.LoadFile(path)
	}
	doc, err := pkgopenapi.NewDocument(pkgopenapi.SourceFromFile(path), raw)
	if err != nil {
		return nil, err
	}
	return compileOperation(ctx, doc, operationID)
}

// ResolveSchema loads the schema named by ref: the bundled film listing
// schema when ref is empty, a remote OpenAPI document for http(s) URLs and
// LoadSchema otherwise.
func ResolveSchema(ctx context.Context, ref, operationID string) (*schema.Config, error) {
	ref = strings.TrimSpace(ref)
	switch {
	case ref == "":
		return schema.Default()
	case strings.HasPrefix(ref, "http://"), strings.HasPrefix(ref, "https://"):
		src, err := pkgopenapi.SourceFromURL(ref)
		if err != nil {
			return nil, err
		}
		return LoadOpenAPISchema(ctx, src, operationID, pkgopenapi.WithHTTPFallback(remoteTimeout))
	}
	return LoadSchema(ctx, ref, operationID)
}

func compileOperation(ctx context.Context, doc pkgopenapi.Document, operationID string) (*schema.Config, error) {
	if operationID == "" {
		return nil, fmt.Errorf("formquery: %s is an OpenAPI document; an operation id is required", doc.Location())
	}
	ops, err := NewParser().Operations(ctx, doc)
	if err != nil {
		return nil, err
	}
	op, ok := ops[operationID]
	if !ok {
		return nil, fmt.Errorf("formquery: operation %q not found in %s", operationID, doc.Location())
	}
	controls, err := pkgopenapi.Controls(op)
	if err != nil {
		return nil, err
	}
	return schema.Compile(controls)
}
