package anim

import (
	"context"
	"fmt"
	"time"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
)

// ExpressionCurve evaluates a tengo expression of the curve time `t`. The
// expression must produce a number or an array of up to MaxComponents
// numbers.
type ExpressionCurve struct {
	Source   string
	compiled *tengo.Compiled
}

const expressionPrelude = "math := import(\"math\")\n__value := "

// ExpressionTimeout bounds one evaluation. A script that runs longer is
// aborted and treated as a runtime failure.
var ExpressionTimeout = 50 * time.Millisecond

// expressionMaxAllocs caps the objects one evaluation may allocate.
const expressionMaxAllocs = 1 << 16

// NewExpressionCurve compiles src once. Each evaluation runs on a clone of
// the compiled program so concurrent calls never share VM state.
func NewExpressionCurve(src string) (*ExpressionCurve, error) {
	script := tengo.NewScript([]byte(expressionPrelude + "(" + src + ")\n"))
	if err := script.Add("t", 0.0); err != nil {
		return nil, err
	}
	script.SetImports(stdlib.GetModuleMap("math"))
	script.SetMaxAllocs(expressionMaxAllocs)

	compiled, err := script.Compile()
	if err != nil {
		return nil, fmt.Errorf("expression %q: %w", src, err)
	}
	return &ExpressionCurve{Source: src, compiled: compiled}, nil
}

// Value returns a zero-length Animatable when the script fails at runtime or
// produces something that is not numeric.
func (c *ExpressionCurve) Value(t float32) Animatable {
	v, err := c.Eval(t)
	if err != nil {
		return Animatable{}
	}
	return v
}

// Eval is Value with the failure reported.
func (c *ExpressionCurve) Eval(t float32) (Animatable, error) {
	if c == nil || c.compiled == nil {
		return Animatable{}, fmt.Errorf("expression: not compiled")
	}
	run := c.compiled.Clone()
	if err := run.Set("t", float64(t)); err != nil {
		return Animatable{}, err
	}
	ctx, cancel := context.WithTimeout(context.Background(), ExpressionTimeout)
	defer cancel()
	if err := run.RunContext(ctx); err != nil {
		return Animatable{}, fmt.Errorf("expression %q: %w", c.Source, err)
	}
	return scriptValue(run.Get("__value"))
}

func scriptValue(v *tengo.Variable) (Animatable, error) {
	switch v.ValueType() {
	case "int", "float":
		return Float(float32(v.Float())), nil
	case "array", "immutable-array":
		items := v.Array()
		if len(items) == 0 || len(items) > MaxComponents {
			return Animatable{}, fmt.Errorf("expression: array of %d values, want 1..%d", len(items), MaxComponents)
		}
		out := make([]float32, len(items))
		for i, item := range items {
			switch n := item.(type) {
			case float64:
				out[i] = float32(n)
			case int64:
				out[i] = float32(n)
			default:
				return Animatable{}, fmt.Errorf("expression: element %d is %T, want number", i, item)
			}
		}
		return NewAnimatable(out...), nil
	default:
		return Animatable{}, fmt.Errorf("expression: result is %s, want number or array", v.ValueType())
	}
}
