package swml

import (
	"encoding/json"
	"fmt"
)

const (
	ActionConnect       = "connect"
	ActionSetGlobalData = "set_global_data"
)

// Action is a single entry in a function result's action list. Each action
// has exactly one key naming its type.
type Action map[string]json.RawMessage

// Type returns the action's type name, or an error when the action does not
// have exactly one key.
func (a Action) Type() (string, error) {
	if len(a) != 1 {
		return "", fmt.Errorf("action must have exactly one type, got %d", len(a))
	}

	for name := range a {
		return name, nil
	}

	return "", fmt.Errorf("no action type found")
}

// ConnectAction transfers the call to another number. Final connects replace
// the current agent rather than returning to it.
type ConnectAction struct {
	To    string `json:"to"`
	Final bool   `json:"final,omitempty"`
}

// FunctionResult is what a SWAIG function returns: a spoken response plus an
// ordered list of actions for the runtime to perform.
type FunctionResult struct {
	Response    string   `json:"response"`
	Actions     []Action `json:"action,omitempty"`
	PostProcess bool     `json:"post_process,omitempty"`
}

// NewFunctionResult creates a function result with the given spoken response.
func NewFunctionResult(response string) *FunctionResult {
	return &FunctionResult{Response: response}
}

// WithPostProcess marks the result for post-processing: the response is
// spoken before the actions run.
func (r *FunctionResult) WithPostProcess() *FunctionResult {
	r.PostProcess = true
	return r
}

// Connect appends a connect action transferring the call to the given number.
func (r *FunctionResult) Connect(to string, final bool) *FunctionResult {
	raw, _ := json.Marshal(ConnectAction{To: to, Final: final})
	r.Actions = append(r.Actions, Action{ActionConnect: raw})
	return r
}

// SetGlobalData appends an action storing data for the receiving agent.
func (r *FunctionResult) SetGlobalData(data map[string]any) *FunctionResult {
	raw, _ := json.Marshal(data)
	r.Actions = append(r.Actions, Action{ActionSetGlobalData: raw})
	return r
}

// HasAction reports whether the result includes an action of the given type.
func (r *FunctionResult) HasAction(actionType string) bool {
	for _, action := range r.Actions {
		if _, ok := action[actionType]; ok {
			return true
		}
	}
	return false
}

// ConnectTarget returns the first connect action in the result, if any.
func (r *FunctionResult) ConnectTarget() (*ConnectAction, bool) {
	for _, action := range r.Actions {
		raw, ok := action[ActionConnect]
		if !ok {
			continue
		}

		connect := &ConnectAction{}
		if err := json.Unmarshal(raw, connect); err != nil {
			continue
		}
		return connect, true
	}

	return nil, false
}

// GlobalData returns the payload of the first set_global_data action, if any.
func (r *FunctionResult) GlobalData() (map[string]any, bool) {
	for _, action := range r.Actions {
		raw, ok := action[ActionSetGlobalData]
		if !ok {
			continue
		}

		data := map[string]any{}
		if err := json.Unmarshal(raw, &data); err != nil {
			continue
		}
		return data, true
	}

	return nil, false
}

// ReadFunctionResult parses a function result from JSON.
func ReadFunctionResult(data []byte) (*FunctionResult, error) {
	result := &FunctionResult{}
	if err := json.Unmarshal(data, result); err != nil {
		return nil, fmt.Errorf("failed to parse function result: %w", err)
	}

	return result, nil
}
