package rubric

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"slices"

	"github.com/swaigcheck/swaigcheck/pkg/submission"
)

const (
	checkTypeAgentLoads     = "agentLoads"
	checkTypeValidDocument  = "validDocument"
	checkTypeHasFunction    = "hasFunction"
	checkTypeUsesAction     = "usesAction"
	checkTypeFunctionResult = "functionResult"
)

// Outcome is the result of a single rubric check.
type Outcome struct {
	Passed  bool     `json:"passed"`
	Reason  string   `json:"reason,omitempty"`
	Details []string `json:"details,omitempty"`
}

// Check evaluates one rubric predicate against a submission. Checks never
// return errors: a check that cannot evaluate reports a failed outcome with
// the reason, so the remaining items still run.
type Check interface {
	Evaluate(ctx context.Context, sub *submission.Submission) *Outcome
}

func failed(format string, args ...any) *Outcome {
	return &Outcome{
		Passed: false,
		Reason: fmt.Sprintf(format, args...),
	}
}

func passed() *Outcome {
	return &Outcome{Passed: true}
}

// agentLoadsCheck verifies the submission instantiates: it produces a
// parseable SWML document at all.
type agentLoadsCheck struct{}

var _ Check = &agentLoadsCheck{}

func ParseAgentLoadsCheck(raw json.RawMessage) (Check, error) {
	return &agentLoadsCheck{}, nil
}

func (c *agentLoadsCheck) Evaluate(ctx context.Context, sub *submission.Submission) *Outcome {
	if _, err := sub.Document(ctx); err != nil {
		return failed("submission failed to load: %v", err)
	}

	return passed()
}

// validDocumentCheck verifies the rendered document is structurally valid.
type validDocumentCheck struct{}

var _ Check = &validDocumentCheck{}

func ParseValidDocumentCheck(raw json.RawMessage) (Check, error) {
	return &validDocumentCheck{}, nil
}

func (c *validDocumentCheck) Evaluate(ctx context.Context, sub *submission.Submission) *Outcome {
	doc, err := sub.Document(ctx)
	if err != nil {
		return failed("submission failed to load: %v", err)
	}

	if err := doc.Validate(); err != nil {
		return failed("document is not valid SWML: %v", err)
	}

	return passed()
}

// hasFunctionCheck verifies the submission declares a function with the
// expected signature: the named required arguments must be marked required in
// the function's parameter schema.
type hasFunctionCheck struct {
	Name         string   `json:"name"`
	RequiredArgs []string `json:"requiredArgs,omitempty"`
}

var _ Check = &hasFunctionCheck{}

func ParseHasFunctionCheck(raw json.RawMessage) (Check, error) {
	check := &hasFunctionCheck{}
	if err := json.Unmarshal(raw, check); err != nil {
		return nil, err
	}

	if check.Name == "" {
		return nil, fmt.Errorf("'name' must be set on hasFunction check")
	}

	return check, nil
}

func (c *hasFunctionCheck) Evaluate(ctx context.Context, sub *submission.Submission) *Outcome {
	doc, err := sub.Document(ctx)
	if err != nil {
		return failed("submission failed to load: %v", err)
	}

	fn, ok := doc.FindFunction(c.Name)
	if !ok {
		return failed("function '%s' is not declared", c.Name)
	}

	if _, err := fn.GetParameters(); err != nil {
		return failed("function '%s' has an invalid parameters schema: %v", c.Name, err)
	}

	required := fn.RequiredArgs()
	outcome := passed()
	for _, arg := range c.RequiredArgs {
		if !slices.Contains(required, arg) {
			outcome.Passed = false
			outcome.Reason = fmt.Sprintf("function '%s' signature mismatch", c.Name)
			outcome.Details = append(outcome.Details,
				fmt.Sprintf("argument '%s' must be required, schema requires %v", arg, required))
		}
	}

	return outcome
}

// usesActionCheck executes a function and verifies its result carries an
// action of the expected type, e.g. that a transfer emits a connect action.
type usesActionCheck struct {
	Function string         `json:"function"`
	Args     map[string]any `json:"args,omitempty"`
	Action   string         `json:"action"`
}

var _ Check = &usesActionCheck{}

func ParseUsesActionCheck(raw json.RawMessage) (Check, error) {
	check := &usesActionCheck{}
	if err := json.Unmarshal(raw, check); err != nil {
		return nil, err
	}

	if check.Function == "" || check.Action == "" {
		return nil, fmt.Errorf("both 'function' and 'action' must be set on usesAction check")
	}

	return check, nil
}

func (c *usesActionCheck) Evaluate(ctx context.Context, sub *submission.Submission) *Outcome {
	result, err := sub.ExecFunction(ctx, c.Function, c.Args)
	if err != nil {
		return failed("failed to execute function '%s': %v", c.Function, err)
	}

	if !result.HasAction(c.Action) {
		outcome := failed("function '%s' did not produce a '%s' action", c.Function, c.Action)
		for _, action := range result.Actions {
			if actionType, typeErr := action.Type(); typeErr == nil {
				outcome.Details = append(outcome.Details, fmt.Sprintf("produced action: %s", actionType))
			}
		}
		return outcome
	}

	return passed()
}

// functionResultCheck executes a function and matches its spoken response and
// produced actions.
type functionResultCheck struct {
	Function string         `json:"function"`
	Args     map[string]any `json:"args,omitempty"`

	// ResponseMatches is a regex the response must match; empty means the
	// response only has to be non-empty
	ResponseMatches string `json:"responseMatches,omitempty"`

	// Actions are action types that must all be present on the result
	Actions []string `json:"actions,omitempty"`
}

var _ Check = &functionResultCheck{}

func ParseFunctionResultCheck(raw json.RawMessage) (Check, error) {
	check := &functionResultCheck{}
	if err := json.Unmarshal(raw, check); err != nil {
		return nil, err
	}

	if check.Function == "" {
		return nil, fmt.Errorf("'function' must be set on functionResult check")
	}

	if check.ResponseMatches != "" {
		if _, err := regexp.Compile(check.ResponseMatches); err != nil {
			return nil, fmt.Errorf("invalid responseMatches pattern: %w", err)
		}
	}

	return check, nil
}

func (c *functionResultCheck) Evaluate(ctx context.Context, sub *submission.Submission) *Outcome {
	result, err := sub.ExecFunction(ctx, c.Function, c.Args)
	if err != nil {
		return failed("failed to execute function '%s': %v", c.Function, err)
	}

	if result.Response == "" {
		return failed("function '%s' returned an empty response", c.Function)
	}

	if c.ResponseMatches != "" {
		matched, err := regexp.MatchString(c.ResponseMatches, result.Response)
		if err != nil {
			return failed("invalid responseMatches pattern: %v", err)
		}
		if !matched {
			return failed("response from '%s' did not match pattern '%s'", c.Function, c.ResponseMatches)
		}
	}

	outcome := passed()
	for _, actionType := range c.Actions {
		if !result.HasAction(actionType) {
			outcome.Passed = false
			outcome.Reason = fmt.Sprintf("function '%s' is missing expected actions", c.Function)
			outcome.Details = append(outcome.Details, fmt.Sprintf("missing action: %s", actionType))
		}
	}

	return outcome
}
