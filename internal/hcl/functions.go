package hcl

import (
	"fmt"

	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/function"
)

// functions returns the functions available to recipe expressions.
func functions(lookup func(string) (string, bool)) map[string]function.Function {
	return map[string]function.Function{
		"env": function.New(&function.Spec{
			Description: "Returns the value of an environment variable, or the optional default when it is unset.",
			Params: []function.Parameter{
				{Name: "name", Type: cty.String},
			},
			VarParam: &function.Parameter{Name: "default", Type: cty.String},
			Type:     function.StaticReturnType(cty.String),
			Impl: func(args []cty.Value, _ cty.Type) (cty.Value, error) {
				name := args[0].AsString()
				if v, ok := lookup(name); ok {
					return cty.StringVal(v), nil
				}
				if len(args) > 1 {
					return args[1], nil
				}
				return cty.NilVal, fmt.Errorf("environment variable %s is not set", name)
			},
		}),
	}
}
