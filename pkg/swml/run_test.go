package swml

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runTestAgent(t *testing.T) *Agent {
	t.Helper()

	agent := NewAgent("run-test")
	err := agent.DefineFunction("greet",
		func(args map[string]any) (*FunctionResult, error) {
			return NewFunctionResult("hello " + args["name"].(string)), nil
		},
		WithParameters(greetSchema()),
	)
	require.NoError(t, err)

	return agent
}

func TestRunDumpSWML(t *testing.T) {
	agent := runTestAgent(t)

	var out bytes.Buffer
	require.NoError(t, Run(agent, []string{"--dump-swml"}, &out))

	doc, err := Read(out.Bytes())
	require.NoError(t, err)
	assert.Equal(t, Version, doc.Version)

	_, ok := doc.FindFunction("greet")
	assert.True(t, ok)
}

func TestRunExec(t *testing.T) {
	agent := runTestAgent(t)

	args, err := json.Marshal(map[string]any{"name": "Alice"})
	require.NoError(t, err)

	var out bytes.Buffer
	require.NoError(t, Run(agent, []string{"--exec", "greet", "--args", string(args)}, &out))

	result, err := ReadFunctionResult(out.Bytes())
	require.NoError(t, err)
	assert.Equal(t, "hello Alice", result.Response)
}

func TestRunErrors(t *testing.T) {
	agent := runTestAgent(t)

	tt := map[string]struct {
		args      []string
		expectErr string
	}{
		"no arguments":          {args: nil},
		"unknown flag":          {args: []string{"--serve"}},
		"exec without function": {args: []string{"--exec"}},
		"exec with bad args":    {args: []string{"--exec", "greet", "--args", "{bad"}},
		"exec args without value": {
			args:      []string{"--exec", "greet", "--args"},
			expectErr: "--args requires a JSON value",
		},
		"exec with unknown flag": {
			args:      []string{"--exec", "greet", "--serve"},
			expectErr: "unknown argument",
		},
		"exec unknown function": {args: []string{"--exec", "missing"}},
	}

	for tn, tc := range tt {
		t.Run(tn, func(t *testing.T) {
			var out bytes.Buffer
			err := Run(agent, tc.args, &out)
			require.Error(t, err)
			if tc.expectErr != "" {
				assert.Contains(t, err.Error(), tc.expectErr)
			}
		})
	}
}
