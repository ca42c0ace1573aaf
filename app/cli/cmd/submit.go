package cmd

import (
	"context"
	"fmt"
	"untangle/app/cli/cmd/client"

	"github.com/spf13/cobra"
)

type submitOpts struct {
	requestOpts
	watch bool // --watch
}

// NewSubmitCommand returns a new instance of an untangle command
func NewSubmitCommand() *cobra.Command {
	var submitOpts submitOpts
	command := &cobra.Command{
		Use:   "submit [document]",
		Short: "submit a document to the server",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cli, err := client.New()
			if err != nil {
				return err
			}
			req, err := submitOpts.request(documentArg(args))
			if err != nil {
				return err
			}

			ctx := context.Background()
			resp, err := cli.Submit(ctx, req)
			if err != nil {
				return err
			}

			if submitOpts.watch {
				return watch(ctx, resp.ProcessID)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Pipeline %s submitted with process ID %s\n", resp.Pipeline, resp.ProcessID)
			return nil
		},
	}
	submitOpts.addFlags(command)
	command.Flags().BoolVarP(&submitOpts.watch, "watch", "w", false, "watch the run until it completes")

	return command
}
