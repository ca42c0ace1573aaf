package cmd

import (
	"context"
	"fmt"
	"text/tabwriter"
	"untangle/app/cli/cmd/client"

	"github.com/spf13/cobra"
)

// NewListCommand returns a new instance of an untangle command
func NewListCommand() *cobra.Command {
	command := &cobra.Command{
		Use:   "list",
		Short: "list the runs of the server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cli, err := client.New()
			if err != nil {
				return err
			}
			runs, err := cli.ListRuns(context.Background())
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 3, ' ', 0)
			fmt.Fprintln(tw, "PROCESS ID\tPIPELINE\tSTATUS")
			for _, r := range runs {
				fmt.Fprintf(tw, "%s\t%s\t%s\n", r.ProcessID, r.Name, r.Status)
			}
			return tw.Flush()
		},
	}
	return command
}
