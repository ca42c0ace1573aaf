package schema

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// SchemaError reports a value that does not match its schema.
type SchemaError struct {
	// Field is the path of the offending value, such as phrases[2].risk_type. Empty for the root value.
	Field    string
	Expected string
	Actual   string
}

func (e *SchemaError) Error() string {
	field := e.Field
	if field == "" {
		field = "<root>"
	}
	return fmt.Sprintf("invalid value for field %s: expected %s, got %s", field, e.Expected, e.Actual)
}

// Normalize turns a raw executor output into JSON-like values: map[string]interface{}, []interface{},
// string, float64, bool and nil.
// Byte slices are decoded as JSON. Strings are decoded as JSON when they hold a JSON document,
// optionally wrapped in a markdown code fence; any other string, including text that only starts
// like a document, is kept as is.
func Normalize(raw interface{}) (interface{}, error) {
	switch v := raw.(type) {
	case nil, string, bool, float64:
		if s, isString := v.(string); isString {
			if doc, isDoc := jsonDocument(s); isDoc {
				if out, err := decode([]byte(doc)); err == nil {
					return out, nil
				}
			}
		}
		return v, nil
	case []byte:
		return decode(v)
	case json.RawMessage:
		return decode(v)
	}
	b, err := json.Marshal(raw)
	if err != nil {
		return nil, errors.Wrap(err, "cannot marshal output")
	}
	return decode(b)
}

func decode(b []byte) (interface{}, error) {
	var out interface{}
	if err := json.Unmarshal(bytes.TrimSpace(b), &out); err != nil {
		return nil, errors.Wrap(err, "cannot decode output")
	}
	return out, nil
}

// jsonDocument returns the JSON object or array held by s, stripping a surrounding code fence.
func jsonDocument(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		s = strings.TrimSuffix(strings.TrimSpace(s), "```")
		s = strings.TrimSpace(s)
	}
	if strings.HasPrefix(s, "{") || strings.HasPrefix(s, "[") {
		return s, true
	}
	return "", false
}

// Validate normalizes raw and checks it against s.
// Required properties must be present with the expected shape; undeclared properties are kept.
// The returned value is normalized so that validating it again against s never fails.
func Validate(s *Schema, raw interface{}) (interface{}, error) {
	if s == nil {
		return nil, errors.New("schema is required")
	}
	v, err := Normalize(raw)
	if err != nil {
		return nil, &SchemaError{Expected: string(s.Type), Actual: err.Error()}
	}
	if err := check(s, v, ""); err != nil {
		return nil, err
	}
	return v, nil
}

func check(s *Schema, v interface{}, path string) error {
	switch s.Type {
	case TypeObject:
		m, isMap := v.(map[string]interface{})
		if !isMap {
			return mismatch(s, v, path)
		}
		for _, p := range s.Properties {
			pv, exists := m[p.Name]
			if !exists || pv == nil {
				if p.Required {
					return &SchemaError{Field: join(path, p.Name), Expected: describe(p.Schema), Actual: "missing"}
				}
				continue
			}
			if err := check(p.Schema, pv, join(path, p.Name)); err != nil {
				return err
			}
		}
	case TypeArray:
		a, isArray := v.([]interface{})
		if !isArray {
			return mismatch(s, v, path)
		}
		if s.Items == nil {
			return nil
		}
		for i, item := range a {
			if err := check(s.Items, item, path+"["+strconv.Itoa(i)+"]"); err != nil {
				return err
			}
		}
	case TypeString:
		str, isString := v.(string)
		if !isString {
			return mismatch(s, v, path)
		}
		if len(s.Enum) == 0 {
			return nil
		}
		for _, allowed := range s.Enum {
			if str == allowed {
				return nil
			}
		}
		return &SchemaError{Field: path, Expected: describe(s), Actual: strconv.Quote(str)}
	case TypeNumber:
		if _, isNumber := v.(float64); !isNumber {
			return mismatch(s, v, path)
		}
	case TypeBoolean:
		if _, isBool := v.(bool); !isBool {
			return mismatch(s, v, path)
		}
	default:
		return &SchemaError{Field: path, Expected: "a known schema type", Actual: string(s.Type)}
	}
	return nil
}

func mismatch(s *Schema, v interface{}, path string) error {
	return &SchemaError{Field: path, Expected: describe(s), Actual: kindOf(v)}
}

func join(path, name string) string {
	if path == "" {
		return name
	}
	return path + "." + name
}

func describe(s *Schema) string {
	switch {
	case s.Type == TypeString && len(s.Enum) > 0:
		return "one of [" + strings.Join(s.Enum, ", ") + "]"
	case s.Type == TypeArray && s.Items != nil:
		return "array of " + describe(s.Items)
	}
	return string(s.Type)
}

func kindOf(v interface{}) string {
	switch v.(type) {
	case nil:
		return "null"
	case map[string]interface{}:
		return "object"
	case []interface{}:
		return "array"
	case string:
		return "string"
	case float64:
		return "number"
	case bool:
		return "boolean"
	}
	return fmt.Sprintf("%T", v)
}
