// Package submission loads student submission artifacts and drives them
// through the invoker contract: dump the rendered SWML document, execute a
// declared function, collect the result.
package submission

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"sigs.k8s.io/yaml"

	"github.com/swaigcheck/swaigcheck/pkg/util"
)

const (
	KindSubmission = "Submission"
)

type Spec struct {
	util.TypeMeta `json:",inline"`
	Metadata      Metadata `json:"metadata"`
	Source        Source   `json:"source"`
}

type Metadata struct {
	// Name of the submission, e.g. the student identifier
	Name string `json:"name"`
}

type Source struct {
	// Document is a path to a pre-rendered SWML JSON document.
	// Document submissions cannot execute functions.
	Document string `json:"document,omitempty"`

	// Command is an executable (plus arguments) implementing the invoker
	// contract: --dump-swml and --exec <function> --args <json>
	Command []string `json:"command,omitempty"`

	// Timeout bounds each invocation of the command, e.g. "30s"
	Timeout string `json:"timeout,omitempty"`
}

func (s *Source) Validate() error {
	numDefined := 0
	if s.Document != "" {
		numDefined++
	}
	if len(s.Command) > 0 {
		numDefined++
	}

	if numDefined != 1 {
		return fmt.Errorf("exactly one of 'document' or 'command' must be defined on submission source")
	}

	return nil
}

// Read parses a submission spec from YAML, resolving relative source paths
// against basePath.
func Read(data []byte, basePath string) (*Spec, error) {
	spec := &Spec{}

	err := yaml.Unmarshal(data, spec)
	if err != nil {
		return nil, err
	}

	if err := spec.TypeMeta.Validate(KindSubmission); err != nil {
		return nil, err
	}

	if err := spec.Source.Validate(); err != nil {
		return nil, err
	}

	if err := resolveFilePath(&spec.Source.Document, basePath); err != nil {
		return nil, fmt.Errorf("failed to resolve document path: %w", err)
	}
	if len(spec.Source.Command) > 0 && strings.ContainsRune(spec.Source.Command[0], os.PathSeparator) {
		// Resolve the executable itself; bare names stay on $PATH lookup and
		// arguments are left untouched
		if err := resolveFilePath(&spec.Source.Command[0], basePath); err != nil {
			return nil, fmt.Errorf("failed to resolve command path: %w", err)
		}
	}

	return spec, nil
}

// FromFile loads a submission spec from a YAML file.
func FromFile(path string) (*Spec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file '%s' for submission spec: %w", path, err)
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to get absolute path for '%s': %w", path, err)
	}

	return Read(data, filepath.Dir(absPath))
}

// SpecForPath builds a submission spec for a bare path: YAML files are loaded
// as specs, JSON files are treated as pre-rendered documents, and anything
// else is treated as an executable implementing the invoker contract.
func SpecForPath(path string) (*Spec, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FromFile(path)
	case ".json":
		return &Spec{
			Metadata: Metadata{Name: submissionName(path)},
			Source:   Source{Document: path},
		}, nil
	default:
		return &Spec{
			Metadata: Metadata{Name: submissionName(path)},
			Source:   Source{Command: []string{path}},
		}, nil
	}
}

func submissionName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func resolveFilePath(filePath *string, basePath string) error {
	if filePath == nil || *filePath == "" {
		return nil
	}

	if filepath.IsAbs(*filePath) {
		return nil
	}

	*filePath = filepath.Join(basePath, *filePath)

	return nil
}
