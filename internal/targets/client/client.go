package client

import (
	"fmt"

	"github.com/kolah/endpointgen/internal/golang"
	"github.com/kolah/endpointgen/internal/model"
	"github.com/kolah/endpointgen/internal/targets/endpoints"
	"github.com/kolah/endpointgen/internal/templates"
)

type Target struct{}

func New() *Target {
	return &Target{}
}

func (t *Target) Name() string {
	return "client"
}

type templateData struct {
	endpoints.Header
	Title          string
	Cookies        model.Cookies
	InternalHeader string
	Environments   []environmentData
	Namespaces     []namespaceData
}

type environmentData struct {
	Name string
	Type string
	URLs []namespaceURL
}

type namespaceURL struct {
	Field string
	URL   string
}

type namespaceData struct {
	Name      string
	Type      string
	Endpoints []endpoints.EndpointData
}

func (t *Target) Generate(engine templates.Engine, header endpoints.Header, catalog *model.Catalog) (string, error) {
	data := templateData{
		Header:         header,
		Title:          catalog.Title,
		Cookies:        catalog.Cookies,
		InternalHeader: catalog.InternalHeader,
	}

	for _, ns := range catalog.Namespaces {
		nd := namespaceData{Name: ns.Name, Type: golang.PascalCase(ns.Name)}
		for i := range ns.Endpoints {
			ep, err := endpoints.BuildEndpoint(&ns.Endpoints[i])
			if err != nil {
				return "", fmt.Errorf("%s.%s: %w", ns.Name, ns.Endpoints[i].Name, err)
			}
			nd.Endpoints = append(nd.Endpoints, ep)
		}
		data.Namespaces = append(data.Namespaces, nd)
	}

	for i := range catalog.Environments {
		env := &catalog.Environments[i]
		ed := environmentData{Name: env.Name, Type: golang.PascalCase(env.Name)}
		for _, ns := range catalog.Namespaces {
			ed.URLs = append(ed.URLs, namespaceURL{
				Field: golang.PascalCase(ns.Name),
				URL:   env.NamespaceURL(ns.Name),
			})
		}
		data.Environments = append(data.Environments, ed)
	}

	return engine.Execute("go/client.tmpl", data)
}
