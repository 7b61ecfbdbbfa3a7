package cmd

import "github.com/spf13/cobra"

func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "pairline",
		Short:         "Pairline: two-player matchmaking server",
		Long:          "pairline runs a websocket lobby that pairs players in arrival order, and ships the client and operator commands to talk to it.",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	app := wireApp()
	rootCmd.PersistentFlags().StringVar(&app.configPath, "config", "", "Config file (default ~/.pairline/config.toml)")

	rootCmd.AddCommand(
		newVersionCmd(),
		newServeCmd(app),
		newJoinCmd(app),
		newStatusCmd(app),
		newConfigCmd(app),
	)

	return rootCmd
}
