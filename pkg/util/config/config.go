package config

import (
	"encoding/json"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/caarlos0/env/v6"
	"github.com/mitchellh/mapstructure"
	"github.com/pkg/errors"
)

// EnvConfigFile is the environment variable holding the config file path.
const EnvConfigFile = "UNTANGLE_CONFIG"

var (
	config     = make(map[string]interface{})
	configFile string
	mutex      = &sync.RWMutex{}
)

// SetConfigFile sets the config file path to be read
func SetConfigFile(path string) {
	mutex.Lock()
	defer mutex.Unlock()
	configFile = path
}

// ReadInConfig reads the config file previously set, or the one designated by UNTANGLE_CONFIG.
// If no config file was set, does nothing
func ReadInConfig() error {
	mutex.RLock()
	path := configFile
	mutex.RUnlock()
	if path == "" {
		path = os.Getenv(EnvConfigFile)
	}
	if path == "" {
		//No config file set, just return
		return nil
	}

	f, err := os.Open(path)
	if err != nil {
		return errors.Wrapf(err, "cannot open file %s", path)
	}
	defer f.Close()

	return ReadConfig(f)
}

// ReadConfig read config from the given reader
func ReadConfig(in io.Reader) error {
	c := make(map[string]interface{})
	if err := json.NewDecoder(in).Decode(&c); err != nil {
		return errors.Wrap(err, "cannot decode config")
	}
	mutex.Lock()
	defer mutex.Unlock()
	config = c
	return nil
}

// Reset drops every value read so far.
func Reset() {
	mutex.Lock()
	defer mutex.Unlock()
	config = make(map[string]interface{})
	configFile = ""
}

// Get returns the value for the given key
func Get(key string) interface{} {
	mutex.RLock()
	defer mutex.RUnlock()

	var obj interface{} = config
	var val interface{} = nil

	parts := strings.Split(key, ".")
	for _, p := range parts {
		if v, ok := obj.(map[string]interface{}); ok {
			obj = v[p]
			val = obj
		} else {
			return nil
		}
	}
	return val
}

// Unmarshal parses the config data for the given key and stores the result in the value pointed to by v.
// Environment variables declared with `env` tags override the file values.
func Unmarshal(key string, v interface{}) error {
	in := Get(key)
	//Decode from config data
	if in != nil {
		dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
			TagName:          "json",
			WeaklyTypedInput: true,
			DecodeHook:       mapstructure.StringToTimeDurationHookFunc(),
			Result:           v,
		})
		if err != nil {
			return errors.Wrap(err, "cannot create config decoder")
		}
		if err := dec.Decode(in); err != nil {
			return errors.Wrapf(err, "cannot decode config for key %s", key)
		}
	}
	// Parse env variables
	if err := env.Parse(v); err != nil {
		return errors.Wrap(err, "cannot parse env")
	}
	return nil
}
