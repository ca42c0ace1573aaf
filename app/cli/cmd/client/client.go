package client

import (
	"os"
	"untangle/pkg/client"
)

// EnvServer is the environment variable holding the server URI.
const EnvServer = "UNTANGLE_SERVER"

// DefaultServer is the server URI used when none is set.
const DefaultServer = "http://127.0.0.1:8080"

// Server is the server URI set with the --server flag.
var Server string

// New returns a new untangle client
func New() (client.Client, error) {
	uri := Server
	if uri == "" {
		uri = os.Getenv(EnvServer)
	}
	if uri == "" {
		uri = DefaultServer
	}
	return client.NewClient(uri)
}
