// Package rubric defines weighted grading rubrics and evaluates them against
// submissions. Every check is a pure function of the submission artifact;
// a check that cannot evaluate is recorded as failed, never as a fatal error,
// so a partially broken submission still yields a complete grading result.
package rubric

import (
	"errors"
	"fmt"
	"os"

	"sigs.k8s.io/yaml"

	"github.com/swaigcheck/swaigcheck/pkg/util"
)

const (
	KindRubric = "Rubric"

	// DefaultThreshold is the minimum score fraction required to pass
	DefaultThreshold = 0.70
)

type Spec struct {
	util.TypeMeta `json:",inline"`
	Metadata      Metadata `json:"metadata"`

	// Threshold overrides the default pass threshold (0.0-1.0)
	Threshold *float64 `json:"threshold,omitempty"`

	Items []ItemConfig `json:"items"`
}

type Metadata struct {
	Name string `json:"name"`
}

type ItemConfig struct {
	Name   string      `json:"name"`
	Points int         `json:"points"`
	Check  CheckConfig `json:"check"`
}

func (s *Spec) Validate() error {
	var err error

	if len(s.Items) == 0 {
		err = errors.Join(err, errors.New("rubric must define at least one item"))
	}

	for i, item := range s.Items {
		if item.Name == "" {
			err = errors.Join(err, fmt.Errorf("item at index %d must have a name", i))
		}
		if item.Points < 0 {
			err = errors.Join(err, fmt.Errorf("item '%s' must not have negative points", item.Name))
		}
	}

	if s.Threshold != nil && (*s.Threshold < 0 || *s.Threshold > 1) {
		err = errors.Join(err, fmt.Errorf("threshold must be between 0.0 and 1.0, got %v", *s.Threshold))
	}

	return err
}

// Read parses a rubric spec from YAML.
func Read(data []byte) (*Spec, error) {
	spec := &Spec{}

	err := yaml.Unmarshal(data, spec)
	if err != nil {
		return nil, err
	}

	if err := spec.TypeMeta.Validate(KindRubric); err != nil {
		return nil, err
	}

	if err := spec.Validate(); err != nil {
		return nil, err
	}

	return spec, nil
}

// FromFile loads a rubric spec from a YAML file.
func FromFile(path string) (*Spec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file '%s' for rubric spec: %w", path, err)
	}

	return Read(data)
}
