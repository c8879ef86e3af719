package swml

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFunctionResultActions(t *testing.T) {
	result := NewFunctionResult("Connecting you now.").
		WithPostProcess().
		SetGlobalData(map[string]any{"caller_name": "Alice"}).
		Connect("+15552222222", true)

	assert.True(t, result.PostProcess)
	assert.True(t, result.HasAction(ActionConnect))
	assert.True(t, result.HasAction(ActionSetGlobalData))
	assert.False(t, result.HasAction("play"))

	connect, ok := result.ConnectTarget()
	require.True(t, ok)
	assert.Equal(t, "+15552222222", connect.To)
	assert.True(t, connect.Final)

	data, ok := result.GlobalData()
	require.True(t, ok)
	assert.Equal(t, "Alice", data["caller_name"])
}

func TestFunctionResultJSON(t *testing.T) {
	result := NewFunctionResult("ok").Connect("+15551111111", false)

	raw, err := json.Marshal(result)
	require.NoError(t, err)

	parsed, err := ReadFunctionResult(raw)
	require.NoError(t, err)

	assert.Equal(t, "ok", parsed.Response)
	require.Len(t, parsed.Actions, 1)

	actionType, err := parsed.Actions[0].Type()
	require.NoError(t, err)
	assert.Equal(t, ActionConnect, actionType)

	connect, ok := parsed.ConnectTarget()
	require.True(t, ok)
	assert.Equal(t, "+15551111111", connect.To)
	assert.False(t, connect.Final)
}

func TestActionType(t *testing.T) {
	tt := map[string]struct {
		action    Action
		expect    string
		expectErr bool
	}{
		"single key": {
			action: Action{"connect": json.RawMessage(`{}`)},
			expect: "connect",
		},
		"empty action": {
			action:    Action{},
			expectErr: true,
		},
		"multiple keys": {
			action: Action{
				"connect": json.RawMessage(`{}`),
				"play":    json.RawMessage(`{}`),
			},
			expectErr: true,
		},
	}

	for tn, tc := range tt {
		t.Run(tn, func(t *testing.T) {
			actionType, err := tc.action.Type()

			if tc.expectErr {
				assert.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tc.expect, actionType)
		})
	}
}

func TestReadFunctionResultInvalid(t *testing.T) {
	_, err := ReadFunctionResult([]byte("not json"))
	assert.Error(t, err)
}
