package cli

import (
	"github.com/kolah/endpointgen/internal/config"
	"github.com/spf13/cobra"
)

func GenerateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate code from an endpoint catalog",
	}

	config.BindCommonFlags(cmd)
	cmd.AddCommand(NewGoCmd())

	return cmd
}
