package service

import (
	"fmt"
	"strings"

	"welfare-cms/internal/content/domain/model"

	"github.com/google/cel-go/cel"
	"github.com/google/cel-go/checker/decls"
)

// SubmissionRule is a compiled CEL expression that marks a submission as rejected
// when it evaluates to true. The expression sees name, email, subject and message.
type SubmissionRule struct {
	expression string
	program    cel.Program
}

func newSubmissionEnv() (*cel.Env, error) {
	return cel.NewEnv(
		cel.Declarations(
			decls.NewVar("name", decls.String),
			decls.NewVar("email", decls.String),
			decls.NewVar("subject", decls.String),
			decls.NewVar("message", decls.String),
		),
	)
}

// CompileSubmissionRule compiles expression. An empty expression yields a nil rule
// that accepts everything.
func CompileSubmissionRule(expression string) (*SubmissionRule, error) {
	expression = strings.TrimSpace(expression)
	if expression == "" {
		return nil, nil
	}

	env, err := newSubmissionEnv()
	if err != nil {
		return nil, fmt.Errorf("failed to create CEL environment: %w", err)
	}
	ast, issues := env.Compile(expression)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("CEL compilation error: %w", issues.Err())
	}
	if !ast.OutputType().IsExactType(cel.BoolType) {
		return nil, fmt.Errorf("submission rule must evaluate to a bool, got %s", ast.OutputType())
	}
	program, err := env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("failed to create CEL program: %w", err)
	}
	return &SubmissionRule{expression: expression, program: program}, nil
}

// Rejects reports whether the submission matches the rule. A nil rule rejects nothing.
func (r *SubmissionRule) Rejects(in model.SubmissionInput) (bool, error) {
	if r == nil {
		return false, nil
	}
	out, _, err := r.program.Eval(map[string]interface{}{
		"name":    in.Name,
		"email":   in.Email,
		"subject": in.Subject,
		"message": in.Message,
	})
	if err != nil {
		return false, fmt.Errorf("CEL evaluation error: %w", err)
	}
	result, ok := out.Value().(bool)
	if !ok {
		return false, fmt.Errorf("CEL expression did not return boolean value")
	}
	return result, nil
}

// String returns the source expression.
func (r *SubmissionRule) String() string {
	if r == nil {
		return ""
	}
	return r.expression
}
