package cmd

import (
	gocontext "context"
	"untangle/app/cli/cmd/client"
	"untangle/pkg/api"
	"untangle/pkg/demistifier"
	"untangle/pkg/executor"
	"untangle/pkg/pipeline"
	"untangle/pkg/router"
	"untangle/pkg/util/context"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

type graphOpts struct {
	pipeline string // --pipeline
}

// NewGraphCommand returns a new instance of an untangle command
func NewGraphCommand() *cobra.Command {
	var opts graphOpts
	command := &cobra.Command{
		Use:   "graph [processID]",
		Short: "print a pipeline as a DOT graph, colored with the task statuses of a run when a process ID is given",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := opts.pipeline
			var statuses map[string]api.Status
			if len(args) == 1 {
				cli, err := client.New()
				if err != nil {
					return err
				}
				state, err := cli.RunState(gocontext.Background(), args[0])
				if err != nil {
					return err
				}
				name = state.Name
				statuses = make(map[string]api.Status, len(state.Tasks))
				for _, t := range state.Tasks {
					statuses[t.Name] = t.Status
				}
			}

			r, err := describe(name)
			if err != nil {
				return err
			}
			return r.DOT(cmd.OutOrStdout(), statuses)
		},
	}
	command.Flags().StringVarP(&opts.pipeline, "pipeline", "p", string(router.RouteDemistifier), "built-in pipeline to print")
	return command
}

// describe returns a runner of the built-in pipeline. Its tasks cannot be invoked.
func describe(name string) (*pipeline.Runner, error) {
	route, err := router.Parse(name)
	if err != nil {
		return nil, errors.Wrapf(err, "cannot draw pipeline %s", name)
	}
	e := executor.Func(func(ctx context.Context, req executor.Request) (interface{}, error) {
		return nil, errors.Errorf("pipeline %s is only described, task %s cannot run", name, req.Task)
	})
	if route == router.RouteConversation {
		return pipeline.New(demistifier.ConversationPipeline(e), pipeline.WithSeed(demistifier.UserKey, nil))
	}
	return pipeline.New(demistifier.Pipeline(e))
}
