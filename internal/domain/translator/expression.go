package translator

import (
	"fmt"

	"github.com/Knetic/govaluate"
)

var expressionVars = map[string]bool{"intensity": true, "route": true}

type expression struct {
	src  string
	eval *govaluate.EvaluableExpression
}

// compileExpression accepts formulas like "intensity != 'off' || route == 'deep'".
func compileExpression(src string) (*expression, error) {
	eval, err := govaluate.NewEvaluableExpression(src)
	if err != nil {
		return nil, fmt.Errorf("mop active expression %q: %w", src, err)
	}
	for _, v := range eval.Vars() {
		if !expressionVars[v] {
			return nil, fmt.Errorf("mop active expression %q: unknown variable %q", src, v)
		}
	}
	return &expression{src: src, eval: eval}, nil
}

func (e *expression) evalBool(params map[string]interface{}) (bool, error) {
	result, err := e.eval.Evaluate(params)
	if err != nil {
		return false, fmt.Errorf("evaluate %q: %w", e.src, err)
	}
	b, ok := result.(bool)
	if !ok {
		return false, fmt.Errorf("evaluate %q: result %v is not a boolean", e.src, result)
	}
	return b, nil
}
