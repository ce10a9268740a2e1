package loader

import (
	"fmt"
	"net/http"
	"slices"
	"strconv"
	"strings"

	"github.com/kolah/endpointgen/internal/golang"
	"github.com/kolah/endpointgen/internal/model"
	"github.com/pb33f/libopenapi"
	validator "github.com/pb33f/libopenapi-validator"
	"github.com/pb33f/libopenapi/datamodel"
	"github.com/pb33f/libopenapi/datamodel/high/base"
	v3 "github.com/pb33f/libopenapi/datamodel/high/v3"
	"github.com/pb33f/libopenapi/orderedmap"
	"go.yaml.in/yaml/v4"
)

// Extensions recognized on OpenAPI documents.
const (
	extNamespace = "x-endpointgen-namespace"
	extVariant   = "x-endpointgen-error"
	extHandler   = "x-endpointgen-handler"
	extEnv       = "x-endpointgen-environment"
)

func loadOpenAPI(data []byte, basePath string) (*Result, error) {
	var (
		doc libopenapi.Document
		err error
	)
	if basePath != "" {
		doc, err = libopenapi.NewDocumentWithConfiguration(data, &datamodel.DocumentConfiguration{
			BasePath:            basePath,
			AllowFileReferences: true,
		})
	} else {
		doc, err = libopenapi.NewDocument(data)
	}
	if err != nil {
		return nil, fmt.Errorf("parsing OpenAPI document: %w", err)
	}

	version := doc.GetVersion()
	if !strings.HasPrefix(version, "3.") {
		return nil, fmt.Errorf("unsupported OpenAPI version: %s (only 3.x supported)", version)
	}

	docModel, err := doc.BuildV3Model()
	if err != nil {
		return nil, fmt.Errorf("building OpenAPI model: %w", err)
	}

	result := &Result{Format: FormatOpenAPI + " " + version}
	result.Warnings = append(result.Warnings, documentWarnings(doc)...)

	t := &openapiTransformer{namespaces: make(map[string]int)}
	result.Catalog = t.transform(&docModel.Model)
	result.Warnings = append(result.Warnings, t.warnings...)

	if len(result.Catalog.Namespaces) == 0 {
		return nil, fmt.Errorf("OpenAPI document declares no operations")
	}
	return result, nil
}

// documentWarnings reports schema violations of the document itself. They
// do not stop generation.
func documentWarnings(doc libopenapi.Document) []string {
	v, errs := validator.NewValidator(doc)
	if len(errs) > 0 {
		warnings := make([]string, 0, len(errs))
		for _, err := range errs {
			warnings = append(warnings, "document validator: "+err.Error())
		}
		return warnings
	}

	valid, verrs := v.ValidateDocument()
	if valid {
		return nil
	}
	warnings := make([]string, 0, len(verrs))
	for _, e := range verrs {
		msg := e.Message
		if e.Reason != "" {
			msg += ": " + e.Reason
		}
		warnings = append(warnings, "invalid OpenAPI document: "+msg)
	}
	return warnings
}

type openapiTransformer struct {
	catalog    *model.Catalog
	namespaces map[string]int
	warnings   []string
}

func (t *openapiTransformer) warnf(format string, args ...any) {
	t.warnings = append(t.warnings, fmt.Sprintf(format, args...))
}

func (t *openapiTransformer) transform(doc *v3.Document) *model.Catalog {
	t.catalog = &model.Catalog{}
	if doc.Info != nil {
		t.catalog.Title = doc.Info.Title
	}

	for i, srv := range doc.Servers {
		name := extensionString(srv.Extensions, extEnv)
		if name == "" {
			name = golang.CamelCase(srv.Description)
		}
		if !isIdentifier(name) {
			name = "server" + strconv.Itoa(i+1)
		}
		t.catalog.Environments = append(t.catalog.Environments, model.Environment{
			Name:    name,
			BaseURL: strings.TrimSuffix(srv.URL, "/"),
		})
	}

	if doc.Paths == nil {
		return t.catalog
	}

	for path, item := range doc.Paths.PathItems.FromOldest() {
		ops := []struct {
			method model.Method
			op     *v3.Operation
		}{
			{model.MethodGet, item.Get},
			{model.MethodPost, item.Post},
			{model.MethodPut, item.Put},
			{model.MethodPatch, item.Patch},
			{model.MethodDelete, item.Delete},
		}
		for _, o := range ops {
			if o.op == nil {
				continue
			}
			ep := t.transformOperation(o.method, path, item.Parameters, o.op)
			t.add(ep)
		}
	}

	return t.catalog
}

func (t *openapiTransformer) add(ep model.Endpoint) {
	idx, ok := t.namespaces[ep.Namespace]
	if !ok {
		idx = len(t.catalog.Namespaces)
		t.namespaces[ep.Namespace] = idx
		t.catalog.Namespaces = append(t.catalog.Namespaces, model.Namespace{Name: ep.Namespace})
	}
	t.catalog.Namespaces[idx].Endpoints = append(t.catalog.Namespaces[idx].Endpoints, ep)
}

func (t *openapiTransformer) transformOperation(method model.Method, path string, shared []*v3.Parameter, op *v3.Operation) model.Endpoint {
	ep := model.Endpoint{
		Namespace: operationNamespace(op),
		Name:      golang.SnakeCase(op.OperationId),
		Method:    method,
		Path:      colonPath(path),
		Summary:   op.Summary,
	}
	if ep.Name == "" {
		ep.Name = golang.SnakeCase(strings.ToLower(string(method)) + " " + strings.NewReplacer("/", " ", "{", "", "}", "").Replace(path))
	}

	var pathParams, queryParams []model.Parameter
	for _, p := range append(append([]*v3.Parameter{}, shared...), op.Parameters...) {
		param := model.Parameter{Name: golang.SnakeCase(p.Name), Type: t.goType(p.Schema)}
		switch strings.ToLower(p.In) {
		case "path":
			pathParams = append(pathParams, param)
		case "query":
			if p.Required == nil || !*p.Required {
				param.Type = golang.Optional(param.Type)
			}
			queryParams = append(queryParams, param)
		default:
			t.warnf("%s: %s parameter %s is not supported", ep.Name, p.In, p.Name)
		}
	}

	bodyParams, hasBody := t.requestBodyParams(ep.Name, op.RequestBody)
	switch {
	case hasBody:
		ep.Kind = model.KindJSON
		ep.Parameters = bodyParams
		if len(pathParams)+len(queryParams) > 0 {
			t.warnf("%s: path and query parameters are dropped for a JSON body", ep.Name)
		}
	case len(queryParams) > 0:
		ep.Kind = model.KindQuerystring
		ep.Parameters = queryParams
		if len(pathParams) > 0 {
			t.warnf("%s: path parameters are dropped for a querystring endpoint", ep.Name)
		}
	case len(pathParams) > 0:
		ep.Kind = model.KindPath
		ep.Parameters = pathParams
	default:
		ep.Kind = model.KindNothing
	}

	t.transformResponses(&ep, op.Responses)
	return ep
}

func (t *openapiTransformer) requestBodyParams(name string, rb *v3.RequestBody) ([]model.Parameter, bool) {
	if rb == nil || rb.Content == nil {
		return nil, false
	}
	media, ok := rb.Content.Get("application/json")
	if !ok || media.Schema == nil {
		t.warnf("%s: only application/json request bodies are supported", name)
		return nil, false
	}

	schema := media.Schema.Schema()
	if schema == nil || schema.Properties == nil {
		t.warnf("%s: request body is not an object; it is wrapped in a \"body\" field", name)
		return []model.Parameter{{Name: "body", Type: t.goType(media.Schema)}}, true
	}

	var params []model.Parameter
	for prop, proxy := range schema.Properties.FromOldest() {
		typ := t.goType(proxy)
		if !slices.Contains(schema.Required, prop) {
			typ = golang.Optional(typ)
		}
		params = append(params, model.Parameter{Name: golang.SnakeCase(prop), Type: typ})
	}
	return params, true
}

func (t *openapiTransformer) transformResponses(ep *model.Endpoint, responses *v3.Responses) {
	ep.SuccessStatus = http.StatusOK
	if responses == nil || responses.Codes == nil {
		return
	}

	foundSuccess := false
	for code, resp := range responses.Codes.FromOldest() {
		status, err := strconv.Atoi(code)
		if err != nil {
			t.warnf("%s: response %q is not a status code", ep.Name, code)
			continue
		}

		if status >= 200 && status < 300 {
			if foundSuccess {
				t.warnf("%s: only the first success response (%d) is decoded", ep.Name, ep.SuccessStatus)
				continue
			}
			foundSuccess = true
			ep.SuccessStatus = status
			ep.Response = t.responseGoType(resp)
			continue
		}

		switch status {
		case http.StatusBadRequest, http.StatusUnauthorized, http.StatusForbidden:
			// Handled by the base error.
			continue
		}

		if handler := extensionString(resp.Extensions, extHandler); handler != "" {
			ep.StatusHandlers = append(ep.StatusHandlers, model.StatusHandler{Status: status, Handler: handler})
			continue
		}

		variant := extensionString(resp.Extensions, extVariant)
		if variant == "" {
			variant = golang.PascalCase(resp.Description)
		}
		if !isIdentifier(variant) {
			variant = golang.PascalCase(http.StatusText(status))
		}
		if !isIdentifier(variant) {
			variant = "Status" + code
		}

		message := resp.Description
		if message == "" {
			message = http.StatusText(status)
		}

		if _, dup := ep.Variant(variant); !dup {
			ep.Errors = append(ep.Errors, model.ErrorVariant{Name: variant, Message: message})
		}
		ep.StatusHandlers = append(ep.StatusHandlers, model.StatusHandler{Status: status, Variant: variant})
	}
}

func operationNamespace(op *v3.Operation) string {
	if ns := extensionString(op.Extensions, extNamespace); ns != "" {
		return ns
	}
	if len(op.Tags) > 0 {
		if ns := golang.CamelCase(op.Tags[0]); isIdentifier(ns) {
			return ns
		}
	}
	return "default"
}

// colonPath converts "/books/{book_id}" into "/books/:book_id".
func colonPath(path string) string {
	var b strings.Builder
	for {
		open := strings.IndexByte(path, '{')
		if open < 0 {
			break
		}
		end := strings.IndexByte(path[open:], '}')
		if end < 0 {
			break
		}
		b.WriteString(path[:open])
		b.WriteByte(':')
		b.WriteString(golang.SnakeCase(path[open+1 : open+end]))
		path = path[open+end+1:]
	}
	b.WriteString(path)
	return b.String()
}

func (t *openapiTransformer) responseGoType(resp *v3.Response) string {
	if resp == nil || resp.Content == nil || resp.Content.Len() == 0 {
		return ""
	}
	if media, ok := resp.Content.Get("application/json"); ok {
		if media.Schema == nil {
			return "json.RawMessage"
		}
		return t.goType(media.Schema)
	}
	return "[]byte"
}

func (t *openapiTransformer) goType(proxy *base.SchemaProxy) string {
	if proxy == nil {
		return "any"
	}
	if ref := proxy.GetReference(); ref != "" {
		return golang.RefToTypeName(ref)
	}

	s := proxy.Schema()
	if s == nil || len(s.Type) == 0 {
		return "any"
	}

	switch s.Type[0] {
	case "array":
		if s.Items != nil && s.Items.IsA() {
			return "[]" + t.goType(s.Items.A)
		}
		return "[]any"
	case "object":
		if s.AdditionalProperties != nil && s.AdditionalProperties.IsA() {
			return "map[string]" + t.goType(s.AdditionalProperties.A)
		}
		return "map[string]any"
	case "integer":
		if s.Format == "" && s.Minimum != nil && *s.Minimum >= 0 {
			return "uint64"
		}
	}

	typ, imp := golang.ScalarType(s.Type[0], s.Format)
	t.addImport(imp)
	return typ
}

func (t *openapiTransformer) addImport(path string) {
	// The standard library is resolved when the output is formatted.
	if path == "" || !strings.Contains(path, ".") {
		return
	}
	for _, imp := range t.catalog.Imports {
		if imp.Path == path {
			return
		}
	}
	t.catalog.Imports = append(t.catalog.Imports, model.Import{Path: path})
}

func extensionString(ext *orderedmap.Map[string, *yaml.Node], key string) string {
	if ext == nil {
		return ""
	}
	node, ok := ext.Get(key)
	if !ok || node == nil || node.Kind != yaml.ScalarNode {
		return ""
	}
	return node.Value
}
