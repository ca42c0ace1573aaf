package cmd

import (
	"encoding/json"
	"io"
	"os"
	"untangle/pkg/api"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

type requestOpts struct {
	user     string // --user
	message  string // --message
	pipeline string // --pipeline
	spec     string // --spec
}

func (o *requestOpts) addFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&o.user, "user", "u", "", "user whose memory is used and updated")
	cmd.Flags().StringVarP(&o.message, "message", "m", "", "message sent along the document, used to route the request")
	cmd.Flags().StringVarP(&o.pipeline, "pipeline", "p", "", "pipeline to run (demistifier or conversation), bypassing the router")
	cmd.Flags().StringVar(&o.spec, "spec", "", "file holding a custom pipeline specification")
}

// request builds the run request of the document file. "-" reads the document from stdin.
func (o *requestOpts) request(file string) (api.RunRequest, error) {
	req := api.RunRequest{
		UserID:   o.user,
		Message:  o.message,
		Pipeline: o.pipeline,
	}
	if file != "" {
		doc, err := readFile(file)
		if err != nil {
			return api.RunRequest{}, err
		}
		req.Document = string(doc)
	}
	if o.spec != "" {
		b, err := readFile(o.spec)
		if err != nil {
			return api.RunRequest{}, err
		}
		var spec api.PipelineSpec
		if err := json.Unmarshal(b, &spec); err != nil {
			return api.RunRequest{}, errors.Wrapf(err, "cannot decode file %s as Pipeline Specification", o.spec)
		}
		req.Spec = &spec
	}
	return req, nil
}

func readFile(file string) ([]byte, error) {
	if file == "-" {
		b, err := io.ReadAll(os.Stdin)
		return b, errors.Wrap(err, "cannot read stdin")
	}
	b, err := os.ReadFile(file)
	if err != nil {
		return nil, errors.Errorf("cannot open file %s", file)
	}
	return b, nil
}

// documentArg returns the optional document file argument.
func documentArg(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}
