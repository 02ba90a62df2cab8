// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package mockexec

import (
	"context"
	"fmt"
	"strings"

	"github.com/azure/azure-ops-cli/pkg/exec"
)

type CommandWhenPredicate func(args exec.RunArgs, command string) bool

// MockCommandRunner is used to register and implement mock calls and responses out to dependent CLI applications
type MockCommandRunner struct {
	expressions []*CommandExpression
}

func NewMockCommandRunner() *MockCommandRunner {
	return &MockCommandRunner{
		expressions: []*CommandExpression{},
	}
}

func (m *MockCommandRunner) Run(ctx context.Context, args exec.RunArgs) (exec.RunResult, error) {
	var match *CommandExpression

	command := strings.TrimSpace(fmt.Sprintf("%s %s", args.Cmd, strings.Join(args.Args, " ")))

	for _, expr := range m.expressions {
		if expr.predicateFn(args, command) {
			match = expr
			break
		}
	}

	if match == nil {
		panic(fmt.Sprintf("No mock found for command: '%s'", command))
	}

	if match.responseFn != nil {
		return match.responseFn(args)
	}

	return match.response, match.err
}

// When registers a mock response for any command matched by the predicate.
func (m *MockCommandRunner) When(predicate CommandWhenPredicate) *CommandExpression {
	expr := CommandExpression{
		runner:      m,
		predicateFn: predicate,
	}

	m.expressions = append(m.expressions, &expr)
	return &expr
}

type CommandExpression struct {
	runner      *MockCommandRunner
	predicateFn CommandWhenPredicate
	response    exec.RunResult
	responseFn  func(args exec.RunArgs) (exec.RunResult, error)
	err         error
}

func (e *CommandExpression) Respond(response exec.RunResult) *CommandExpression {
	e.response = response
	return e
}

func (e *CommandExpression) RespondFn(fn func(args exec.RunArgs) (exec.RunResult, error)) *MockCommandRunner {
	e.responseFn = fn
	return e.runner
}

func (e *CommandExpression) SetError(err error) *MockCommandRunner {
	e.err = err
	return e.runner
}
