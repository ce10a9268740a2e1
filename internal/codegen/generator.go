package codegen

import (
	"fmt"
	"log/slog"

	"github.com/kolah/endpointgen/internal/config"
	"github.com/kolah/endpointgen/internal/golang"
	"github.com/kolah/endpointgen/internal/model"
	"github.com/kolah/endpointgen/internal/signature"
	"github.com/kolah/endpointgen/internal/targets/client"
	"github.com/kolah/endpointgen/internal/targets/endpoints"
	"github.com/kolah/endpointgen/internal/templates"
	embeddedtmpl "github.com/kolah/endpointgen/templates"
)

// runtimeName is the name generated files import the runtime package under.
const runtimeName = "apiclient"

type Generator struct {
	config *config.Config
	engine templates.Engine
}

type Output struct {
	Filename string
	Content  string
}

func New(cfg *config.Config) (*Generator, error) {
	if len(cfg.Go.OutputOptions.AdditionalInitialisms) > 0 {
		golang.SetAdditionalInitialisms(cfg.Go.OutputOptions.AdditionalInitialisms)
	}

	engine, err := templates.NewEngine(embeddedtmpl.FS, cfg.Templates.Dir, golang.TemplateFuncs())
	if err != nil {
		return nil, fmt.Errorf("creating template engine: %w", err)
	}

	return &Generator{
		config: cfg,
		engine: engine,
	}, nil
}

// Generate renders one file per namespace for the endpoints target and
// client.go for the client target.
func (g *Generator) Generate(catalog *model.Catalog) ([]Output, error) {
	header := endpoints.Header{
		Package: g.config.Go.Package,
		Runtime: g.config.Go.RuntimeImport,
		Imports: catalog.Imports,
	}

	var outputs []Output

	if g.config.HasTarget("endpoints") {
		target := endpoints.New()
		for i := range catalog.Namespaces {
			ns := &catalog.Namespaces[i]
			content, err := target.Generate(g.engine, header, ns)
			if err != nil {
				return nil, fmt.Errorf("generating endpoints: %w", err)
			}
			out, err := g.finish(golang.SnakeCase(ns.Name)+".go", content)
			if err != nil {
				return nil, err
			}
			outputs = append(outputs, out)
		}
	}

	if g.config.HasTarget("client") {
		target := client.New()
		content, err := target.Generate(g.engine, header, catalog)
		if err != nil {
			return nil, fmt.Errorf("generating client: %w", err)
		}
		out, err := g.finish("client.go", content)
		if err != nil {
			return nil, err
		}
		outputs = append(outputs, out)
	}

	return outputs, nil
}

// finish applies the signature rewrites and formats the file.
func (g *Generator) finish(filename, content string) (Output, error) {
	src := []byte(content)

	if !g.config.Go.OutputOptions.SkipNormalize {
		rewritten, err := signature.Rewrite(src, signature.Options{
			IntoQualifier: runtimeName,
		})
		if err != nil {
			return Output{}, fmt.Errorf("normalizing %s: %w", filename, err)
		}
		src = rewritten
	}

	formatted, err := golang.Format(src)
	if err != nil {
		return Output{}, fmt.Errorf("formatting %s: %w", filename, err)
	}

	slog.Debug("generated file", "file", filename, "bytes", len(formatted))
	return Output{
		Filename: filename,
		Content:  string(formatted),
	}, nil
}
