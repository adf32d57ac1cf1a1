package cli

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:          "tripbtoz",
	Short:        "Search stays by dates and guests, backed by a mock REST server",
	SilenceUsage: true,
}

func init() {
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(roomsCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(completionCmd)
	rootCmd.AddCommand(versionCmd)
	registerFlagCompletions()
}

func Execute() error {
	return rootCmd.Execute()
}
