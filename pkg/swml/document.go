// Package swml models SWML voice-agent documents: the prompt, language, and
// SWAIG function declarations a submission renders, plus the function results
// and actions produced when a declared function is executed.
package swml

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/google/jsonschema-go/jsonschema"
)

const Version = "1.0.0"

// MainSection is the section every document is expected to define.
const MainSection = "main"

type Document struct {
	Version  string            `json:"version"`
	Sections map[string][]Verb `json:"sections"`
}

// Verb is a single entry in a document section. Only the ai verb is modeled;
// other verbs are ignored when loading documents produced by richer runtimes.
type Verb struct {
	AI *AIVerb `json:"ai,omitempty"`
}

type AIVerb struct {
	Prompt    *Prompt    `json:"prompt,omitempty"`
	Languages []Language `json:"languages,omitempty"`
	SWAIG     *SWAIG     `json:"SWAIG,omitempty"`
}

type Prompt struct {
	// POM holds the ordered prompt sections (prompt object model)
	POM []PromptSection `json:"pom,omitempty"`

	// Text is an alternative flat prompt body
	Text string `json:"text,omitempty"`
}

type PromptSection struct {
	Title   string   `json:"title"`
	Body    string   `json:"body,omitempty"`
	Bullets []string `json:"bullets,omitempty"`
}

type Language struct {
	Name  string `json:"name"`
	Code  string `json:"code"`
	Voice string `json:"voice,omitempty"`
}

type SWAIG struct {
	Functions []*Function `json:"functions,omitempty"`
}

// Function declares a SWAIG function: its name, description, and the JSON
// schema for its arguments.
type Function struct {
	Name        string             `json:"function"`
	Description string             `json:"description,omitempty"`
	Parameters  *jsonschema.Schema `json:"parameters,omitempty"`

	mu       sync.Mutex
	resolved *jsonschema.Resolved
}

// GetParameters returns the resolved parameter schema for the function.
// The result is cached after the first successful call.
// This method is safe for concurrent use.
func (f *Function) GetParameters() (*jsonschema.Resolved, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.resolved != nil {
		return f.resolved, nil
	}

	if f.Parameters == nil {
		// No declared parameters means the function takes an empty object
		f.Parameters = &jsonschema.Schema{Type: "object"}
	}

	resolved, err := f.Parameters.Resolve(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve parameters schema: %w", err)
	}

	f.resolved = resolved

	return f.resolved, nil
}

// RequiredArgs returns the argument names the function's schema marks required.
func (f *Function) RequiredArgs() []string {
	if f.Parameters == nil {
		return nil
	}
	return f.Parameters.Required
}

// Functions returns every SWAIG function declared in the document, in section
// and declaration order.
func (d *Document) Functions() []*Function {
	var fns []*Function

	appendSection := func(verbs []Verb) {
		for _, verb := range verbs {
			if verb.AI == nil || verb.AI.SWAIG == nil {
				continue
			}
			fns = append(fns, verb.AI.SWAIG.Functions...)
		}
	}

	// main first, then any other sections
	if verbs, ok := d.Sections[MainSection]; ok {
		appendSection(verbs)
	}
	for name, verbs := range d.Sections {
		if name == MainSection {
			continue
		}
		appendSection(verbs)
	}

	return fns
}

// FindFunction returns the declared function with the given name, if any.
func (d *Document) FindFunction(name string) (*Function, bool) {
	for _, fn := range d.Functions() {
		if fn.Name == name {
			return fn, true
		}
	}
	return nil, false
}

// Validate checks that the document is structurally sound: a version is set,
// at least one ai verb exists, and every declared function has a name and a
// resolvable parameter schema.
func (d *Document) Validate() error {
	var err error

	if d.Version == "" {
		err = errors.Join(err, errors.New("document version must be set"))
	}

	if _, ok := d.Sections[MainSection]; !ok {
		err = errors.Join(err, fmt.Errorf("document must define a '%s' section", MainSection))
	}

	hasAI := false
	for _, verbs := range d.Sections {
		for _, verb := range verbs {
			if verb.AI != nil {
				hasAI = true
			}
		}
	}
	if !hasAI {
		err = errors.Join(err, errors.New("document must contain an ai verb"))
	}

	for _, fn := range d.Functions() {
		if fn.Name == "" {
			err = errors.Join(err, errors.New("declared function is missing a name"))
			continue
		}
		if _, resolveErr := fn.GetParameters(); resolveErr != nil {
			err = errors.Join(err, fmt.Errorf("function '%s': %w", fn.Name, resolveErr))
		}
	}

	return err
}

// Read parses a rendered SWML document from JSON.
func Read(data []byte) (*Document, error) {
	doc := &Document{}
	if err := json.Unmarshal(data, doc); err != nil {
		return nil, fmt.Errorf("failed to parse SWML document: %w", err)
	}

	return doc, nil
}

// FromFile reads a rendered SWML document from a JSON file.
func FromFile(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file '%s' for SWML document: %w", path, err)
	}

	return Read(data)
}
