package pointcut

import (
	"github.com/antonmedv/expr"
	"github.com/antonmedv/expr/vm"

	"github.com/glimte/weave-go/contracts"
)

// ExprPointcut evaluates a compiled expression predicate against the static
// (type, method) pair. The expression sees:
//
//	type    - the target type name
//	method  - the method name
//	numArgs - the number of declared parameters, receiver and context excluded
//
// Example: `method startsWith "Set" && type == "Account"`.
type ExprPointcut struct {
	source  string
	program *vm.Program
}

// Expr compiles an expression predicate into a pointcut. Compile failures
// are assembly-time configuration errors.
func Expr(source string) (*ExprPointcut, error) {
	program, err := expr.Compile(source, expr.AllowUndefinedVariables(), expr.AsBool())
	if err != nil {
		return nil, &contracts.ConfigError{Op: "pointcut", Reason: "invalid expression " + source, Err: err}
	}
	return &ExprPointcut{source: source, program: program}, nil
}

// MatchesType implements Pointcut; the expression is evaluated per method.
func (p *ExprPointcut) MatchesType(t *contracts.TypeInfo) bool {
	return true
}

// MatchesMethod implements Pointcut. Evaluation failures reject the method:
// a predicate that cannot be answered must not attach advice.
func (p *ExprPointcut) MatchesMethod(t *contracts.TypeInfo, m *contracts.Method) bool {
	numArgs := m.Type.NumIn()
	if !m.Introduced {
		numArgs-- // receiver
	}
	if m.WantsContext() {
		numArgs--
	}
	env := map[string]any{
		"type":    t.Name(),
		"method":  m.Name,
		"numArgs": numArgs,
	}
	out, err := vm.Run(p.program, env)
	if err != nil {
		return false
	}
	result, ok := out.(bool)
	return ok && result
}

// String returns the expression source.
func (p *ExprPointcut) String() string {
	return p.source
}
