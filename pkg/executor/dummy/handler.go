package dummy

import (
	"time"
	"untangle/pkg/util/context"

	"github.com/mitchellh/mapstructure"
	"github.com/pkg/errors"
)

type request struct {
	Error   bool        `mapstructure:"error"`
	Payload interface{} `mapstructure:"payload"`
	Delay   string      `mapstructure:"delay"`
}

func handle(ctx context.Context, req interface{}) (interface{}, error) {
	m, isMap := req.(map[string]interface{})
	if !isMap || !isRequest(m) {
		return req, nil
	}

	var r request
	err := mapstructure.Decode(m, &r)
	if err != nil {
		return nil, errors.Wrap(err, "cannot decode dummy request")
	}

	if r.Delay != "" {
		d, err := time.ParseDuration(r.Delay)
		if err != nil {
			return nil, errors.Wrapf(err, "cannot parse delay '%s'", r.Delay)
		}
		ctx.Logger().Infof("sleeping for %s", d.String())
		select {
		case <-time.After(d):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	if r.Error {
		return nil, errors.New("dummy error")
	}

	return r.Payload, nil
}

// isRequest reports whether m only holds request keys, with a payload.
func isRequest(m map[string]interface{}) bool {
	if _, exists := m["payload"]; !exists {
		return false
	}
	for k := range m {
		switch k {
		case "payload", "delay", "error":
		default:
			return false
		}
	}
	return true
}
