package cli

import "github.com/spf13/cobra"

func RootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:     "endpointgen",
		Short:   "endpointgen - typed Go HTTP clients from endpoint catalogs",
		Version: "1.0.0",

		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level, _ := cmd.Flags().GetString("log-level")
			initLogging(level)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	root.PersistentFlags().String("log-level", "", "Log level: debug, info, warn, error")

	root.AddCommand(GenerateCommand(), CheckCommand())

	return root
}
