package cmd

import (
	"untangle/app/cli/cmd/client"

	"github.com/spf13/cobra"
)

// NewRootCommand returns a new instance of an untangle command
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:          "untangle",
		Short:        "untangle is the command line interface to Untangle",
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringVar(&client.Server, "server", "", "server URI, defaults to $"+client.EnvServer+" or "+client.DefaultServer)

	rootCmd.AddCommand(NewAnalyzeCommand())
	rootCmd.AddCommand(NewSubmitCommand())
	rootCmd.AddCommand(NewWatchCommand())
	rootCmd.AddCommand(NewGetCommand())
	rootCmd.AddCommand(NewListCommand())
	rootCmd.AddCommand(NewCancelCommand())
	rootCmd.AddCommand(NewGraphCommand())
	return rootCmd
}
