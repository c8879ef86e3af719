package swml

import (
	"fmt"

	"github.com/google/jsonschema-go/jsonschema"
)

// Handler executes a SWAIG function with its (already validated) arguments.
type Handler func(args map[string]any) (*FunctionResult, error)

type registeredFunction struct {
	fn      *Function
	handler Handler
}

// Agent builds an SWML document incrementally: prompt sections, languages,
// and SWAIG functions with their handlers. It is the submission-side
// counterpart of the document model the grader inspects.
type Agent struct {
	name      string
	prompt    []PromptSection
	languages []Language
	functions []*registeredFunction
}

// NewAgent creates an agent with the given name.
func NewAgent(name string) *Agent {
	return &Agent{name: name}
}

// Name returns the agent's name.
func (a *Agent) Name() string {
	return a.name
}

// AddPromptSection appends a section to the agent's prompt.
func (a *Agent) AddPromptSection(title, body string, bullets ...string) *Agent {
	a.prompt = append(a.prompt, PromptSection{
		Title:   title,
		Body:    body,
		Bullets: bullets,
	})
	return a
}

// AddLanguage appends a language with the given voice.
func (a *Agent) AddLanguage(name, code, voice string) *Agent {
	a.languages = append(a.languages, Language{
		Name:  name,
		Code:  code,
		Voice: voice,
	})
	return a
}

// FunctionOption is a functional option for configuring a Function.
type FunctionOption func(*Function)

// WithDescription sets the description for the function.
func WithDescription(desc string) FunctionOption {
	return func(f *Function) {
		f.Description = desc
	}
}

// WithParameters sets the JSON schema for the function arguments.
func WithParameters(schema *jsonschema.Schema) FunctionOption {
	return func(f *Function) {
		f.Parameters = schema
	}
}

// DefineFunction registers a SWAIG function and its handler. Function names
// must be unique within an agent.
func (a *Agent) DefineFunction(name string, handler Handler, opts ...FunctionOption) error {
	if name == "" {
		return fmt.Errorf("function name must not be empty")
	}
	if handler == nil {
		return fmt.Errorf("function '%s' must have a handler", name)
	}

	for _, reg := range a.functions {
		if reg.fn.Name == name {
			return fmt.Errorf("a function named '%s' is already defined", name)
		}
	}

	fn := &Function{Name: name}
	for _, opt := range opts {
		opt(fn)
	}

	a.functions = append(a.functions, &registeredFunction{fn: fn, handler: handler})

	return nil
}

// Document renders the agent as an SWML document.
func (a *Agent) Document() *Document {
	ai := &AIVerb{
		Languages: a.languages,
	}

	if len(a.prompt) > 0 {
		ai.Prompt = &Prompt{POM: a.prompt}
	}

	if len(a.functions) > 0 {
		swaig := &SWAIG{}
		for _, reg := range a.functions {
			swaig.Functions = append(swaig.Functions, reg.fn)
		}
		ai.SWAIG = swaig
	}

	return &Document{
		Version: Version,
		Sections: map[string][]Verb{
			MainSection: {{AI: ai}},
		},
	}
}

// Execute validates args against the function's parameter schema and runs its
// handler.
func (a *Agent) Execute(name string, args map[string]any) (*FunctionResult, error) {
	var reg *registeredFunction
	for _, candidate := range a.functions {
		if candidate.fn.Name == name {
			reg = candidate
			break
		}
	}
	if reg == nil {
		return nil, fmt.Errorf("no function named '%s' is defined", name)
	}

	params, err := reg.fn.GetParameters()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve parameters for '%s': %w", name, err)
	}

	if args == nil {
		args = map[string]any{}
	}

	if err := params.Validate(args); err != nil {
		return nil, fmt.Errorf("invalid arguments for '%s': %w", name, err)
	}

	return reg.handler(args)
}
