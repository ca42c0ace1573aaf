// Package schema describes the structural contract of a task output and validates raw outputs against it.
//
// A Schema is plain data: a type tag, the ordered properties of an object, the items of an array and the
// allowed values of an enum-like string. It can be built in Go with the constructors of this package or
// decoded from a JSON Schema subset, and emitted back as a strict JSON Schema for executors supporting
// structured outputs.
package schema

import (
	"encoding/json"
	"sort"

	"github.com/pkg/errors"
)

// Type is the shape of a value.
type Type string

const (
	// TypeObject is a JSON object with named properties.
	TypeObject Type = "object"
	// TypeArray is a JSON array whose items share a schema.
	TypeArray Type = "array"
	// TypeString is a JSON string, optionally restricted to an enumeration.
	TypeString Type = "string"
	// TypeNumber is a JSON number.
	TypeNumber Type = "number"
	// TypeBoolean is a JSON boolean.
	TypeBoolean Type = "boolean"
)

// Schema is the declarative description of a value.
type Schema struct {
	Type        Type
	Description string
	Properties  []Property
	Items       *Schema
	Enum        []string
}

// Property is a named object field.
type Property struct {
	Name     string
	Schema   *Schema
	Required bool
}

// Object returns an object schema with the given properties.
func Object(props ...Property) *Schema {
	return &Schema{Type: TypeObject, Properties: props}
}

// Array returns an array schema whose items follow the given schema.
func Array(items *Schema) *Schema {
	return &Schema{Type: TypeArray, Items: items}
}

// String returns a string schema.
func String() *Schema {
	return &Schema{Type: TypeString}
}

// Enum returns a string schema restricted to the given values.
func Enum(values ...string) *Schema {
	return &Schema{Type: TypeString, Enum: values}
}

// Number returns a number schema.
func Number() *Schema {
	return &Schema{Type: TypeNumber}
}

// Boolean returns a boolean schema.
func Boolean() *Schema {
	return &Schema{Type: TypeBoolean}
}

// Field returns a required property.
func Field(name string, s *Schema) Property {
	return Property{Name: name, Schema: s, Required: true}
}

// Optional returns a property that may be absent.
func Optional(name string, s *Schema) Property {
	return Property{Name: name, Schema: s}
}

// Describe sets the description of the schema and returns it.
func (s *Schema) Describe(description string) *Schema {
	s.Description = description
	return s
}

// Property returns the property with the given name.
func (s *Schema) Property(name string) (Property, bool) {
	for _, p := range s.Properties {
		if p.Name == name {
			return p, true
		}
	}
	return Property{}, false
}

// JSONSchema returns the strict JSON Schema representation used for structured outputs:
// every object forbids additional properties and lists all of its properties as required, recursively.
func (s *Schema) JSONSchema() map[string]interface{} {
	return s.document(true)
}

func (s *Schema) document(strict bool) map[string]interface{} {
	out := map[string]interface{}{
		"type": string(s.Type),
	}
	if s.Description != "" {
		out["description"] = s.Description
	}
	switch s.Type {
	case TypeObject:
		props := make(map[string]interface{}, len(s.Properties))
		required := make([]string, 0, len(s.Properties))
		for _, p := range s.Properties {
			props[p.Name] = p.Schema.document(strict)
			if strict || p.Required {
				required = append(required, p.Name)
			}
		}
		out["properties"] = props
		out["required"] = required
		out["additionalProperties"] = false
	case TypeArray:
		if s.Items != nil {
			out["items"] = s.Items.document(strict)
		}
	case TypeString:
		if len(s.Enum) > 0 {
			out["enum"] = append([]string(nil), s.Enum...)
		}
	}
	return out
}

// MarshalJSON encodes the schema as JSON Schema, keeping optional properties out of required.
func (s *Schema) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.document(false))
}

type jsonSchema struct {
	Type                 Type                       `json:"type"`
	Description          string                     `json:"description"`
	Properties           map[string]json.RawMessage `json:"properties"`
	Required             []string                   `json:"required"`
	Items                json.RawMessage            `json:"items"`
	Enum                 []string                   `json:"enum"`
	AdditionalProperties interface{}                `json:"additionalProperties"`
}

// UnmarshalJSON decodes the JSON Schema subset made of type, description, properties, required, items and enum.
// Properties are ordered by name.
func (s *Schema) UnmarshalJSON(data []byte) error {
	var js jsonSchema
	if err := json.Unmarshal(data, &js); err != nil {
		return errors.Wrap(err, "cannot decode schema")
	}
	switch js.Type {
	case TypeObject, TypeArray, TypeString, TypeNumber, TypeBoolean:
	case "integer":
		js.Type = TypeNumber
	case "":
		return errors.New("schema type is required")
	default:
		return errors.Errorf("unsupported schema type %s", js.Type)
	}

	res := Schema{
		Type:        js.Type,
		Description: js.Description,
		Enum:        js.Enum,
	}

	required := make(map[string]bool, len(js.Required))
	for _, r := range js.Required {
		if _, exists := js.Properties[r]; !exists {
			return errors.Errorf("required property %s is not declared", r)
		}
		required[r] = true
	}
	names := make([]string, 0, len(js.Properties))
	for name := range js.Properties {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		var child Schema
		if err := json.Unmarshal(js.Properties[name], &child); err != nil {
			return errors.Wrapf(err, "cannot decode property %s", name)
		}
		res.Properties = append(res.Properties, Property{Name: name, Schema: &child, Required: required[name]})
	}

	if len(js.Items) > 0 {
		var items Schema
		if err := json.Unmarshal(js.Items, &items); err != nil {
			return errors.Wrap(err, "cannot decode items")
		}
		res.Items = &items
	}
	if res.Type == TypeArray && res.Items == nil {
		return errors.New("array schema requires items")
	}

	*s = res
	return nil
}
