package loader

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/kolah/endpointgen/internal/model"
	"go.yaml.in/yaml/v4"
)

type Result struct {
	Catalog  *model.Catalog
	Format   string
	Warnings []string
	RawData  []byte
}

const (
	FormatCatalog = "catalog"
	FormatOpenAPI = "openapi"
)

// LoadFile reads an endpoint catalog. Both the native catalog format and
// OpenAPI 3.x documents are accepted; the latter is recognized by its
// top-level "openapi" key.
func LoadFile(path string) (*Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading catalog file: %w", err)
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolving absolute path: %w", err)
	}

	return Load(data, filepath.Dir(absPath))
}

// Load parses catalog data. basePath resolves relative file references in
// OpenAPI documents and may be empty.
func Load(data []byte, basePath string) (*Result, error) {
	var probe struct {
		OpenAPI string `yaml:"openapi"`
	}
	if err := yaml.Unmarshal(data, &probe); err != nil {
		return nil, fmt.Errorf("parsing catalog: %w", err)
	}

	var (
		result *Result
		err    error
	)
	if probe.OpenAPI != "" {
		result, err = loadOpenAPI(data, basePath)
	} else {
		result, err = loadCatalog(data)
	}
	if err != nil {
		return nil, err
	}

	warnings, err := Check(result.Catalog)
	if err != nil {
		return nil, err
	}
	result.Warnings = append(result.Warnings, warnings...)
	result.RawData = data
	return result, nil
}
