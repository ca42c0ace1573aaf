package template

import (
	"encoding/json"
	"fmt"

	"untangle/pkg/util/maps"

	"github.com/pkg/errors"
)

// ResolveFunc specifies how a template should be resolved
type ResolveFunc func(expr Expression) (interface{}, error)

// ErrUnresolved is returned when an expression refers to a missing value.
type ErrUnresolved struct {
	Expression Expression
}

func (err ErrUnresolved) Error() string {
	return fmt.Sprintf("expression %s cannot be resolved", err.Expression)
}

// ResolveWithMap returns a ResolveFunc that performs resolution from a map
func ResolveWithMap(m map[string]interface{}) ResolveFunc {
	return func(expr Expression) (interface{}, error) {
		res, exists := maps.Lookup(m, expr.Text)
		if !exists || res == nil {
			return nil, ErrUnresolved{expr}
		}
		return res, nil
	}
}

// Resolve resolves template using the given resolver
func (tpl *Template) Resolve(resolver ResolveFunc) (interface{}, error) {
	if len(tpl.FindAll()) == 0 {
		// No input dependencies
		return tpl.input, nil
	}
	return resolve(tpl.input, resolver)
}

// Render resolves a string template and returns the rendered string.
func Render(in string, resolver ResolveFunc) (string, error) {
	return resolveFromString(in, resolver)
}

func resolve(input interface{}, resolver ResolveFunc) (interface{}, error) {
	switch v := input.(type) {
	case string:
		if exprs := findExpressions(v); len(exprs) == 1 && len(v) == len(exprs[0].String()) {
			//If the input string is only a template expresion, it can be resolved as any type
			val, err := resolver(exprs[0])
			if err != nil {
				return nil, errors.Wrapf(err, "cannot resolve template expression %s", exprs[0])
			}
			return val, nil
		}
		return resolveFromString(v, resolver)
	case map[string]interface{}:
		m := make(map[string]interface{}, len(v))
		for k, elem := range v {
			newVal, err := resolve(elem, resolver)
			if err != nil {
				return nil, err
			}
			m[k] = newVal
		}
		return m, nil
	case []interface{}:
		a := make([]interface{}, 0, len(v))
		for _, elem := range v {
			newVal, err := resolve(elem, resolver)
			if err != nil {
				return nil, err
			}
			a = append(a, newVal)
		}
		return a, nil
	}
	return input, nil
}

// resolveFromString replaces every expression of the input with its textual value.
// Strings are inserted as is, any other value as JSON.
func resolveFromString(input string, resolver ResolveFunc) (string, error) {
	var rerr error
	res := tplRegexp.ReplaceAllStringFunc(input, func(matched string) string {
		if rerr != nil {
			return ""
		}
		e := asExpression(matched)
		if e.Text == "" {
			return matched
		}
		val, err := resolver(e)
		if err != nil {
			rerr = errors.Wrapf(err, "cannot resolve template expression %s", e)
			return ""
		}
		str, err := text(val)
		if err != nil {
			rerr = errors.Wrapf(err, "cannot render template expression %s", e)
			return ""
		}
		return str
	})
	if rerr != nil {
		return "", rerr
	}
	return res, nil
}

func text(val interface{}) (string, error) {
	switch v := val.(type) {
	case string:
		return v, nil
	case fmt.Stringer:
		return v.String(), nil
	}
	b, err := json.Marshal(val)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
