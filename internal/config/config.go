package config

import (
	"fmt"
	"go/token"
	"os"
	"slices"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/cobra"
)

// DefaultFile is read when no --config flag is given and it exists in the
// working directory.
const DefaultFile = "endpointgen.yaml"

const DefaultRuntimeImport = "github.com/kolah/endpointgen/apiclient"

// Targets lists the generation targets.
var Targets = []string{"endpoints", "client"}

var logLevels = []string{"debug", "info", "warn", "error"}

type Config struct {
	Spec      string         `koanf:"spec"`
	Templates TemplateConfig `koanf:"templates"`
	LogLevel  string         `koanf:"log-level"`
	Go        GoConfig       `koanf:"go"`
}

type GoConfig struct {
	OutputDir     string        `koanf:"output-dir"`
	Package       string        `koanf:"package"`
	RuntimeImport string        `koanf:"runtime-import"`
	OutputOptions OutputOptions `koanf:"output-options"`
	Targets       []string      `koanf:"targets"`
}

type TemplateConfig struct {
	Dir string `koanf:"dir"`
}

type OutputOptions struct {
	AdditionalInitialisms []string `koanf:"additional-initialisms"`
	// SkipNormalize leaves the rewrite directives in the generated source.
	SkipNormalize bool `koanf:"skip-normalize"`
}

// BindCommonFlags binds language-agnostic flags to the generate command
func BindCommonFlags(cmd *cobra.Command) {
	flags := cmd.PersistentFlags()

	flags.StringP("config", "c", "", "Config file path (default: "+DefaultFile+")")
	flags.StringP("spec", "s", "", "Endpoint catalog or OpenAPI file path")
	flags.String("templates", "", "Custom templates directory")
	flags.Bool("dry-run", false, "Print output without writing files")
	flags.Bool("watch", false, "Regenerate when the catalog or templates change")
}

func Load(cmd *cobra.Command, targets []string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(map[string]any{
		"log-level":         "info",
		"go.runtime-import": DefaultRuntimeImport,
	}, "."), nil); err != nil {
		return nil, fmt.Errorf("loading defaults: %w", err)
	}

	configFile := lookupString(cmd, "config")
	if configFile == "" {
		if _, err := os.Stat(DefaultFile); err == nil {
			configFile = DefaultFile
		}
	}

	if configFile != "" {
		if err := k.Load(file.Provider(configFile), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	flagsMap := buildFlagsMap(cmd)
	if len(flagsMap) > 0 {
		if err := k.Load(confmap.Provider(flagsMap, "."), nil); err != nil {
			return nil, fmt.Errorf("loading flags: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	// CLI targets override config file targets
	if len(targets) > 0 {
		cfg.Go.Targets = targets
	}
	if len(cfg.Go.Targets) == 0 {
		cfg.Go.Targets = []string{"all"}
	}
	cfg.Go.Targets = expandTargets(cfg.Go.Targets)

	return &cfg, nil
}

func expandTargets(targets []string) []string {
	var result []string
	for _, t := range targets {
		if t == "all" {
			result = append(result, Targets...)
		} else {
			result = append(result, t)
		}
	}
	slices.Sort(result)
	return slices.Compact(result)
}

func lookupString(cmd *cobra.Command, name string) string {
	if v, err := cmd.Flags().GetString(name); err == nil && v != "" {
		return v
	}
	if v, err := cmd.PersistentFlags().GetString(name); err == nil && v != "" {
		return v
	}
	if v, err := cmd.InheritedFlags().GetString(name); err == nil && v != "" {
		return v
	}
	return ""
}

func buildFlagsMap(cmd *cobra.Command) map[string]any {
	m := make(map[string]any)

	getStringSlice := func(name string) []string {
		if v, err := cmd.Flags().GetStringSlice(name); err == nil && len(v) > 0 {
			return v
		}
		if v, err := cmd.PersistentFlags().GetStringSlice(name); err == nil && len(v) > 0 {
			return v
		}
		return nil
	}

	flagChanged := func(name string) bool {
		return cmd.Flags().Changed(name) || cmd.PersistentFlags().Changed(name)
	}

	getBool := func(name string) bool {
		if v, err := cmd.Flags().GetBool(name); err == nil {
			return v
		}
		if v, err := cmd.PersistentFlags().GetBool(name); err == nil {
			return v
		}
		return false
	}

	stringFlags := map[string]string{
		"spec":           "spec",
		"templates":      "templates.dir",
		"log-level":      "log-level",
		"output-dir":     "go.output-dir",
		"package":        "go.package",
		"runtime-import": "go.runtime-import",
	}
	for flag, key := range stringFlags {
		if v := lookupString(cmd, flag); v != "" {
			m[key] = v
		}
	}

	if v := getStringSlice("additional-initialisms"); len(v) > 0 {
		m["go.output-options.additional-initialisms"] = v
	}
	if flagChanged("skip-normalize") {
		m["go.output-options.skip-normalize"] = getBool("skip-normalize")
	}

	return m
}

// ValidateCatalog checks the settings needed to read a catalog.
func (c *Config) ValidateCatalog() error {
	if c.Spec == "" {
		return fmt.Errorf("spec file is required")
	}
	if c.LogLevel != "" && !slices.Contains(logLevels, strings.ToLower(c.LogLevel)) {
		return fmt.Errorf("invalid log level: %s (valid: %s)", c.LogLevel, strings.Join(logLevels, ", "))
	}
	return nil
}

func (c *Config) Validate() error {
	if err := c.ValidateCatalog(); err != nil {
		return err
	}
	if c.Go.Package == "" {
		return fmt.Errorf("package name is required")
	}
	if !token.IsIdentifier(c.Go.Package) {
		return fmt.Errorf("invalid package name: %s", c.Go.Package)
	}
	if c.Go.OutputDir == "" {
		return fmt.Errorf("output directory is required")
	}
	if c.Go.RuntimeImport == "" {
		return fmt.Errorf("runtime import path is required")
	}

	for _, t := range c.Go.Targets {
		if !slices.Contains(Targets, t) {
			return fmt.Errorf("invalid target: %s (valid: %s, all)", t, strings.Join(Targets, ", "))
		}
	}

	return nil
}

// HasTarget checks if a specific target should be generated
func (c *Config) HasTarget(target string) bool {
	return slices.Contains(c.Go.Targets, target)
}
