package template

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/pkg/errors"
)

const prefix = "@"

var (
	// tplRegexp is compiled regexp for templates in input structure
	tplRegexp *regexp.Regexp
)

func init() {
	r, err := regexp.Compile(`@\{[^}]*\}`)
	if err != nil {
		panic(errors.Wrap(err, "cannot compile template regexp"))
	}
	tplRegexp = r
}

// Template is a representation of the template.
type Template struct {
	input interface{}
}

// New returns a new Template from the given structure
func New(in interface{}) *Template {
	return &Template{
		input: in,
	}
}

// Expression is a template element to be resolved, such as @{risk_evaluator.risk_level}.
type Expression struct {
	Text string
}

func (expr Expression) String() string {
	return fmt.Sprintf("%s{%s}", prefix, expr.Text)
}

// Key returns the state key the expression refers to, i.e. the first part of its path.
func (expr Expression) Key() string {
	return strings.SplitN(expr.Text, ".", 2)[0]
}

// FindAll finds all expression within the given template
func (tpl *Template) FindAll() []Expression {
	var exprs []Expression
	find(&exprs, tpl.input)
	return exprs
}

// Keys returns the distinct state keys referenced by the template, sorted.
func (tpl *Template) Keys() []string {
	set := make(map[string]struct{})
	for _, e := range tpl.FindAll() {
		set[e.Key()] = struct{}{}
	}
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func find(expressions *[]Expression, in interface{}) {
	switch v := in.(type) {
	case map[string]interface{}:
		for _, elem := range v {
			find(expressions, elem)
		}
	case []interface{}:
		for _, elem := range v {
			find(expressions, elem)
		}
	case string:
		*expressions = append(*expressions, findExpressions(v)...)
	}
}

// findExpressions finds the template expression from the string
func findExpressions(in string) []Expression {
	var exprs []Expression
	strExprs := tplRegexp.FindAllString(in, -1)
	for _, str := range strExprs {
		e := asExpression(str)
		if e.Text != "" {
			exprs = append(exprs, e)
		}
	}
	return exprs
}

// asExpression create a template expression struct from a string.
func asExpression(in string) Expression {
	if !strings.HasPrefix(in, prefix+"{") || !strings.HasSuffix(in, "}") {
		return Expression{}
	}
	return Expression{
		Text: strings.TrimSpace(in[len(prefix)+1 : len(in)-1]),
	}
}
