package cli

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/kolah/endpointgen/internal/codegen"
	"github.com/kolah/endpointgen/internal/config"
	"github.com/kolah/endpointgen/internal/loader"
	"github.com/spf13/cobra"
)

func NewGoCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "go",
		Short: "Generate a Go client from an endpoint catalog",
	}

	flags := cmd.PersistentFlags()
	flags.StringP("output-dir", "o", "", "Output directory for generated Go code")
	flags.StringP("package", "p", "", "Go package name")
	flags.String("runtime-import", "", "Import path of the apiclient runtime (default: "+config.DefaultRuntimeImport+")")
	flags.StringSlice("additional-initialisms", nil, "Additional initialisms")
	flags.Bool("skip-normalize", false, "Keep rewrite directives instead of applying them")

	cmd.AddCommand(
		newGoEndpointsCmd(),
		newGoClientCmd(),
		newGoAllCmd(),
	)

	return cmd
}

func newGoEndpointsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "endpoints",
		Short: "Generate one file of endpoint functions per namespace",
		RunE:  runGoGenerate("endpoints"),
	}
}

func newGoClientCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "client",
		Short: "Generate the client facade",
		RunE:  runGoGenerate("client"),
	}
}

func newGoAllCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "all",
		Short: "Generate all Go targets (endpoints, client)",
		RunE:  runGoGenerate("all"),
	}
}

func runGoGenerate(target string) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cmd, []string{target})
		if err != nil {
			return err
		}
		if err := cfg.Validate(); err != nil {
			return err
		}
		initLogging(cfg.LogLevel)

		watch, _ := cmd.Flags().GetBool("watch")
		if !watch {
			return generateGo(cmd, cfg)
		}

		paths := []string{cfg.Spec}
		if cfg.Templates.Dir != "" {
			paths = append(paths, cfg.Templates.Dir)
		}
		return watchFiles(cmd.Context(), paths, func() error {
			return generateGo(cmd, cfg)
		})
	}
}

func generateGo(cmd *cobra.Command, cfg *config.Config) error {
	result, err := loader.LoadFile(cfg.Spec)
	if err != nil {
		return fmt.Errorf("loading catalog: %w", err)
	}

	for _, w := range result.Warnings {
		cmd.PrintErrf("Warning: %s\n", w)
	}

	c := result.Catalog
	slog.Info("loaded catalog", "format", result.Format, "title", c.Title,
		"namespaces", len(c.Namespaces), "endpoints", len(c.Endpoints()))

	gen, err := codegen.New(cfg)
	if err != nil {
		return fmt.Errorf("creating generator: %w", err)
	}

	outputs, err := gen.Generate(c)
	if err != nil {
		return fmt.Errorf("generating code: %w", err)
	}

	dryRun, _ := cmd.Flags().GetBool("dry-run")
	if dryRun {
		for _, out := range outputs {
			cmd.Printf("// %s\n%s\n", out.Filename, out.Content)
		}
		return nil
	}

	if err := os.MkdirAll(cfg.Go.OutputDir, 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	for _, out := range outputs {
		path := filepath.Join(cfg.Go.OutputDir, out.Filename)
		if err := os.WriteFile(path, []byte(out.Content), 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", path, err)
		}
		cmd.PrintErrf("Written: %s\n", path)
	}

	return nil
}
