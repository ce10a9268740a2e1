// Package endpoints expands the endpoints of one namespace into Go source:
// parameter structs, request execution, status dispatch and error types.
package endpoints

import (
	"fmt"

	"github.com/kolah/endpointgen/internal/golang"
	"github.com/kolah/endpointgen/internal/model"
	"github.com/kolah/endpointgen/internal/templates"
)

const templateName = "go/endpoints.tmpl"

type Target struct{}

func New() *Target {
	return &Target{}
}

func (t *Target) Name() string {
	return "endpoints"
}

// Header carries what every generated file of a package shares.
type Header struct {
	Package string
	Runtime string
	Imports []model.Import
}

type NamespaceData struct {
	Header
	Name      string
	Type      string
	Endpoints []EndpointData
}

type EndpointData struct {
	Name          string
	GoName        string
	FuncName      string
	Method        string
	Path          string
	Kind          string
	RuntimeKind   string
	Summary       string
	Params        []ParamData
	ParamsType    string
	Errors        []VariantData
	ErrorType     string
	Handlers      []HandlerData
	SuccessStatus int
	Response      string
	Results       string
	Unit          bool
	Raw           bool
}

type ParamData struct {
	Name  string
	Field string
	Arg   string
	Type  string
}

type VariantData struct {
	Const   string
	Message string
}

// HandlerData is one case of the status switch: either the constant of an
// error variant or the function that builds the error from the response.
type HandlerData struct {
	Status int
	Const  string
	Func   string
}

// reserved are the identifiers generated functions declare themselves.
var reserved = map[string]bool{
	"ctx": true, "doer": true, "baseURL": true, "token": true,
	"req": true, "resp": true, "err": true, "out": true,
	"params": true, "path": true, "n": true, "apiclient": true,
	"http": true, "context": true,
}

var runtimeKinds = map[model.ParameterKind]string{
	model.KindPath:        "apiclient.Path",
	model.KindQuerystring: "apiclient.Querystring",
	model.KindJSON:        "apiclient.JSON",
	model.KindNothing:     "apiclient.Nothing",
}

// Generate renders the file of one namespace.
func (t *Target) Generate(engine templates.Engine, header Header, ns *model.Namespace) (string, error) {
	data := NamespaceData{
		Header: header,
		Name:   ns.Name,
		Type:   golang.PascalCase(ns.Name),
	}
	for i := range ns.Endpoints {
		ep, err := BuildEndpoint(&ns.Endpoints[i])
		if err != nil {
			return "", fmt.Errorf("%s.%s: %w", ns.Name, ns.Endpoints[i].Name, err)
		}
		data.Endpoints = append(data.Endpoints, ep)
	}

	return engine.Execute(templateName, data)
}

// BuildEndpoint computes the names and shapes the templates need for ep.
func BuildEndpoint(ep *model.Endpoint) (EndpointData, error) {
	goName := golang.PascalCase(ep.Name)
	d := EndpointData{
		Name:          ep.Name,
		GoName:        goName,
		FuncName:      golang.EscapeKeyword(golang.CamelCase(ep.Name)),
		Method:        string(ep.Method),
		Path:          ep.Path,
		Kind:          string(ep.Kind),
		RuntimeKind:   runtimeKinds[ep.Kind],
		Summary:       ep.Summary,
		SuccessStatus: ep.SuccessStatus,
		Response:      ep.Response,
		Unit:          ep.IsUnit(),
		Raw:           ep.IsRawBody(),
	}
	if d.RuntimeKind == "" {
		return d, fmt.Errorf("unknown parameter kind %q", ep.Kind)
	}

	switch ep.Kind {
	case model.KindQuerystring:
		d.ParamsType = goName + "Query"
	case model.KindJSON:
		d.ParamsType = goName + "Body"
	}

	if d.Unit {
		d.Results = "(err error)"
	} else {
		d.Results = fmt.Sprintf("(out %s, err error)", ep.Response)
	}

	for _, p := range ep.Parameters {
		arg := golang.ArgName(p.Name)
		if reserved[arg] {
			arg += "Param"
		}
		d.Params = append(d.Params, ParamData{
			Name:  p.Name,
			Field: golang.ToGoIdentifier(p.Name),
			Arg:   arg,
			Type:  p.Type,
		})
	}

	if len(ep.Errors) > 0 {
		d.ErrorType = goName + "Error"
	}
	consts := make(map[string]string, len(ep.Errors))
	for _, v := range ep.Errors {
		c := goName + v.Name
		consts[v.Name] = c
		d.Errors = append(d.Errors, VariantData{Const: c, Message: v.Message})
	}

	for _, h := range ep.StatusHandlers {
		if h.Handler != "" {
			d.Handlers = append(d.Handlers, HandlerData{Status: h.Status, Func: h.Handler})
			continue
		}
		c, ok := consts[h.Variant]
		if !ok {
			return d, fmt.Errorf("status %d maps to undeclared error %q", h.Status, h.Variant)
		}
		d.Handlers = append(d.Handlers, HandlerData{Status: h.Status, Const: c})
	}

	return d, nil
}
