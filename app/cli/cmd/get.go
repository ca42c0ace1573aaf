package cmd

import (
	"context"
	"os"
	"untangle/app/cli/cmd/client"
	"untangle/app/cli/cmd/common"
	"untangle/pkg/api"

	"github.com/spf13/cobra"
)

type getOpts struct {
	result bool // --result
}

// NewGetCommand returns a new instance of an untangle command
func NewGetCommand() *cobra.Command {
	var opts getOpts
	command := &cobra.Command{
		Use:   "get <processID>",
		Short: "print the state, or the result, of a run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cli, err := client.New()
			if err != nil {
				return err
			}
			ctx := context.Background()

			if opts.result {
				res, err := cli.RunResult(ctx, args[0])
				if err != nil {
					return err
				}
				return common.PrintResult(os.Stdout, api.RunResult(res))
			}

			state, err := cli.RunState(ctx, args[0])
			if err != nil {
				return err
			}
			common.PrintRun(os.Stdout, api.PipelineState(state), common.PrintOptions{Errors: true})
			return nil
		},
	}
	command.Flags().BoolVarP(&opts.result, "result", "r", false, "print the report or the failure of the run")
	return command
}
