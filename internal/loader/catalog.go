package loader

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/kolah/endpointgen/internal/model"
	"go.yaml.in/yaml/v4"
)

type catalogFile struct {
	Title          string            `yaml:"title" validate:"required"`
	Imports        []importFile      `yaml:"imports" validate:"dive"`
	Cookies        cookiesFile       `yaml:"cookies"`
	InternalHeader string            `yaml:"internal-header" validate:"omitempty,header"`
	Environments   []environmentFile `yaml:"environments" validate:"unique=Name,dive"`
	Namespaces     []namespaceFile   `yaml:"namespaces" validate:"required,min=1,unique=Name,dive"`
}

type importFile struct {
	Path  string `yaml:"path" validate:"required"`
	Alias string `yaml:"alias" validate:"omitempty,identifier"`
}

type cookiesFile struct {
	Access  string `yaml:"access"`
	Refresh string `yaml:"refresh"`
}

type environmentFile struct {
	Name      string            `yaml:"name" validate:"required,identifier"`
	BaseURL   string            `yaml:"base-url" validate:"required,url"`
	Overrides map[string]string `yaml:"overrides" validate:"dive,keys,identifier,endkeys,url"`
}

type namespaceFile struct {
	Name      string         `yaml:"name" validate:"required,identifier"`
	Endpoints []endpointFile `yaml:"endpoints" validate:"required,min=1,unique=Name,dive"`
}

type endpointFile struct {
	Name           string          `yaml:"name" validate:"required,identifier"`
	Method         string          `yaml:"method" validate:"required,oneof=GET POST PUT PATCH DELETE"`
	Path           string          `yaml:"path" validate:"required,startswith=/"`
	ParameterKind  string          `yaml:"parameter-kind" validate:"required,oneof=path querystring json nothing"`
	Summary        string          `yaml:"summary"`
	Parameters     []parameterFile `yaml:"parameters" validate:"dive"`
	Errors         []errorFile     `yaml:"errors" validate:"unique=Variant,dive"`
	StatusHandlers []handlerFile   `yaml:"status-handlers" validate:"dive"`
	SuccessStatus  int             `yaml:"success-status" validate:"omitempty,gte=200,lte=299"`
	Response       string          `yaml:"response"`
}

type parameterFile struct {
	Name string `yaml:"name" validate:"required,identifier"`
	Type string `yaml:"type" validate:"required"`
}

type errorFile struct {
	Variant string `yaml:"variant" validate:"required,identifier"`
	Message string `yaml:"message" validate:"required"`
}

type handlerFile struct {
	Status  int    `yaml:"status" validate:"required,gte=100,lte=599"`
	Error   string `yaml:"error" validate:"required_without=Handler,excluded_with=Handler"`
	Handler string `yaml:"handler"`
}

func loadCatalog(data []byte) (*Result, error) {
	var file catalogFile
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parsing catalog: %w", err)
	}

	for i := range file.Namespaces {
		for j := range file.Namespaces[i].Endpoints {
			ep := &file.Namespaces[i].Endpoints[j]
			ep.Method = strings.ToUpper(ep.Method)
		}
	}

	if err := validateStruct(&file); err != nil {
		return nil, fmt.Errorf("invalid catalog: %w", err)
	}

	return &Result{Catalog: file.toModel(), Format: FormatCatalog}, nil
}

func (f *catalogFile) toModel() *model.Catalog {
	c := &model.Catalog{
		Title:          f.Title,
		InternalHeader: f.InternalHeader,
		Cookies: model.Cookies{
			Access:  f.Cookies.Access,
			Refresh: f.Cookies.Refresh,
		},
	}

	for _, imp := range f.Imports {
		c.Imports = append(c.Imports, model.Import{Path: imp.Path, Alias: imp.Alias})
	}

	for _, env := range f.Environments {
		c.Environments = append(c.Environments, model.Environment{
			Name:      env.Name,
			BaseURL:   strings.TrimSuffix(env.BaseURL, "/"),
			Overrides: trimOverrides(env.Overrides),
		})
	}

	for _, ns := range f.Namespaces {
		namespace := model.Namespace{Name: ns.Name}
		for _, ep := range ns.Endpoints {
			namespace.Endpoints = append(namespace.Endpoints, ep.toModel(ns.Name))
		}
		c.Namespaces = append(c.Namespaces, namespace)
	}

	return c
}

func (e *endpointFile) toModel(namespace string) model.Endpoint {
	ep := model.Endpoint{
		Namespace:     namespace,
		Name:          e.Name,
		Method:        model.Method(e.Method),
		Path:          e.Path,
		Kind:          model.ParameterKind(e.ParameterKind),
		Summary:       e.Summary,
		SuccessStatus: e.SuccessStatus,
		Response:      strings.TrimSpace(e.Response),
	}
	if ep.SuccessStatus == 0 {
		ep.SuccessStatus = http.StatusOK
	}

	for _, p := range e.Parameters {
		ep.Parameters = append(ep.Parameters, model.Parameter{Name: p.Name, Type: strings.TrimSpace(p.Type)})
	}
	for _, v := range e.Errors {
		ep.Errors = append(ep.Errors, model.ErrorVariant{Name: v.Variant, Message: v.Message})
	}
	for _, h := range e.StatusHandlers {
		ep.StatusHandlers = append(ep.StatusHandlers, model.StatusHandler{
			Status:  h.Status,
			Variant: h.Error,
			Handler: strings.TrimSpace(h.Handler),
		})
	}
	return ep
}

func trimOverrides(overrides map[string]string) map[string]string {
	if len(overrides) == 0 {
		return nil
	}
	out := make(map[string]string, len(overrides))
	for ns, u := range overrides {
		out[ns] = strings.TrimSuffix(u, "/")
	}
	return out
}
