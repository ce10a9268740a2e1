package cli

import (
	"fmt"

	"github.com/kolah/endpointgen/internal/config"
	"github.com/kolah/endpointgen/internal/loader"
	"github.com/spf13/cobra"
)

// CheckCommand loads and validates a catalog without generating anything.
func CheckCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check [catalog]",
		Short: "Validate an endpoint catalog",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				if err := cmd.Flags().Set("spec", args[0]); err != nil {
					return err
				}
			}

			cfg, err := config.Load(cmd, nil)
			if err != nil {
				return err
			}
			if err := cfg.ValidateCatalog(); err != nil {
				return err
			}

			result, err := loader.LoadFile(cfg.Spec)
			if err != nil {
				return fmt.Errorf("loading catalog: %w", err)
			}
			for _, w := range result.Warnings {
				cmd.PrintErrf("Warning: %s\n", w)
			}

			c := result.Catalog
			cmd.Printf("%s: %s catalog %q, %d namespaces, %d endpoints, %d warnings\n",
				cfg.Spec, result.Format, c.Title, len(c.Namespaces), len(c.Endpoints()), len(result.Warnings))
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringP("config", "c", "", "Config file path (default: "+config.DefaultFile+")")
	flags.StringP("spec", "s", "", "Endpoint catalog or OpenAPI file path")

	return cmd
}
