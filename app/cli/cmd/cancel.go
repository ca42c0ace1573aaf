package cmd

import (
	"context"
	"fmt"
	"untangle/app/cli/cmd/client"

	"github.com/spf13/cobra"
)

// NewCancelCommand returns a new instance of an untangle command
func NewCancelCommand() *cobra.Command {
	command := &cobra.Command{
		Use:   "cancel <processID>",
		Short: "cancel a running run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cli, err := client.New()
			if err != nil {
				return err
			}
			if err := cli.Cancel(context.Background(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Run %s cancelled\n", args[0])
			return nil
		},
	}
	return command
}
