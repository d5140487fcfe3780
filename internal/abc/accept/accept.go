// Package accept validates and evaluates acceptance predicates for
// rejection sampling. A predicate is a boolean expression over the summary
// variables of a finished run, e.g.
//
//	abs(r0_hat - 1.7) < 0.3 && !capped
//
// Comparisons against NaN summaries evaluate to false, so predicates on
// degenerate runs reject rather than fail.
package accept

import (
	"fmt"
	"strings"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// Predicate is a compiled acceptance expression.
type Predicate struct {
	src     string
	program *vm.Program
}

// Compile validates cond against the given variable names and compiles it.
func Compile(cond string, vars []string) (*Predicate, error) {
	cond = strings.TrimSpace(cond)
	if err := Validate(cond, vars); err != nil {
		return nil, fmt.Errorf("invalid predicate: %w", err)
	}

	program, err := expr.Compile(cond)
	if err != nil {
		return nil, fmt.Errorf("failed to compile predicate: %w", err)
	}

	return &Predicate{src: cond, program: program}, nil
}

// Eval runs the predicate against one set of summary variables.
func (p *Predicate) Eval(vars map[string]any) (bool, error) {
	out, err := expr.Run(p.program, vars)
	if err != nil {
		return false, err
	}

	b, ok := out.(bool)
	if !ok {
		return false, fmt.Errorf("predicate must evaluate to bool (got %T)", out)
	}

	return b, nil
}

func (p *Predicate) String() string { return p.src }
