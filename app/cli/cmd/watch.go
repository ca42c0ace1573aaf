package cmd

import (
	"context"
	"time"
	"untangle/app/cli/cmd/client"
	"untangle/app/cli/cmd/common"
	"untangle/pkg/api"

	tm "github.com/buger/goterm"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

// NewWatchCommand returns a new instance of an untangle command
func NewWatchCommand() *cobra.Command {
	command := &cobra.Command{
		Use:   "watch <processID>",
		Short: "watch a run until it completes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return watch(context.Background(), args[0])
		},
	}
	return command
}

func watch(ctx context.Context, pid string) error {
	cli, err := client.New()
	if err != nil {
		return errors.Wrap(err, "cannot create untangle client")
	}
	tm.Clear()
	for {
		state, err := cli.RunState(ctx, pid)
		if err != nil {
			return errors.Wrapf(err, "cannot get state of run with processID %s", pid)
		}
		tm.MoveCursor(1, 1)
		common.PrintRun(tm.Screen, api.PipelineState(state), common.PrintOptions{})
		tm.Flush()
		if state.Status.Finished() {
			break
		}
		time.Sleep(1 * time.Second)
	}

	res, err := cli.RunResult(ctx, pid)
	if err != nil {
		return errors.Wrapf(err, "cannot get result of run with processID %s", pid)
	}
	tm.Println()
	if err := common.PrintResult(tm.Screen, api.RunResult(res)); err != nil {
		return err
	}
	tm.Flush()
	return nil
}
