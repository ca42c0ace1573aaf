package cmd

import (
	"os"
	"untangle/app/cli/cmd/common"
	"untangle/pkg/engine"
	"untangle/pkg/memory"
	"untangle/pkg/store"
	"untangle/pkg/util/config"
	"untangle/pkg/util/context"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

type analyzeOpts struct {
	requestOpts
	config string // --config
	state  bool   // --state
}

// NewAnalyzeCommand returns a new instance of an untangle command
func NewAnalyzeCommand() *cobra.Command {
	var opts analyzeOpts
	command := &cobra.Command{
		Use:   "analyze [document]",
		Short: "analyze a document in process, without server",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.config != "" {
				config.SetConfigFile(opts.config)
			}
			cfg, err := engine.LoadConfig()
			if err != nil {
				return err
			}
			req, err := opts.request(documentArg(args))
			if err != nil {
				return err
			}

			registry, err := store.NewInMemoryRegistry()
			if err != nil {
				return errors.Wrap(err, "cannot create registry")
			}
			sc, err := engine.NewScheduler(cfg, registry, memory.NewInMemory())
			if err != nil {
				return err
			}

			ctx := context.Background()
			resp, res, err := sc.Run(ctx, req)
			if err != nil {
				return err
			}
			if opts.state {
				state, err := registry.RunState(ctx, resp.ProcessID)
				if err != nil {
					return err
				}
				common.PrintRun(os.Stderr, state, common.PrintOptions{Errors: true})
			}
			if err := common.PrintResult(cmd.OutOrStdout(), res.API()); err != nil {
				return err
			}
			if !res.Succeeded() {
				return errors.Errorf("%s pipeline failed", resp.Pipeline)
			}
			return nil
		},
	}
	opts.addFlags(command)
	command.Flags().StringVarP(&opts.config, "config", "c", "", "configuration file")
	command.Flags().BoolVar(&opts.state, "state", false, "print the state of the run on stderr")
	return command
}
