package maps

import (
	"strings"

	"github.com/mitchellh/mapstructure"
	"github.com/pkg/errors"
)

// Get returns the value for the given dotted key, nil if any part of the path is missing.
func Get(m interface{}, key string) interface{} {
	val, _ := Lookup(m, key)
	return val
}

// Lookup returns the value for the given dotted key and whether the full path exists.
func Lookup(m interface{}, key string) (interface{}, bool) {
	var obj interface{} = m

	parts := strings.Split(key, ".")
	for _, p := range parts {
		v, ok := obj.(map[string]interface{})
		if !ok {
			return nil, false
		}
		obj, ok = v[p]
		if !ok {
			return nil, false
		}
	}
	return obj, true
}

// Decode takes an input structure and uses reflection to translate it to the output structure. output must be a pointer to a map or struct.
func Decode(in, out interface{}) error {
	return mapstructure.Decode(in, out)
}

// DecodeJSON is Decode using the json struct tags of the output structure.
// Unknown keys are an error.
func DecodeJSON(in, out interface{}) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "json",
		ErrorUnused:      true,
		WeaklyTypedInput: false,
		Result:           out,
	})
	if err != nil {
		return errors.Wrap(err, "cannot create decoder")
	}
	return dec.Decode(in)
}
