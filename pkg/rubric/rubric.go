package rubric

import (
	"context"
	"fmt"

	"github.com/swaigcheck/swaigcheck/pkg/submission"
)

// Item is one weighted rubric entry.
type Item struct {
	Name   string
	Points int
	check  Check
}

// Rubric is an ordered, immutable set of weighted checks with a pass
// threshold.
type Rubric struct {
	Name      string
	Threshold float64
	Items     []Item
}

// New builds a rubric from its spec, parsing each item's check through the
// default registry.
func New(spec *Spec) (*Rubric, error) {
	threshold := DefaultThreshold
	if spec.Threshold != nil {
		threshold = *spec.Threshold
	}

	rubric := &Rubric{
		Name:      spec.Metadata.Name,
		Threshold: threshold,
	}

	for _, item := range spec.Items {
		check, err := DefaultRegistry.Parse(item.Check)
		if err != nil {
			return nil, fmt.Errorf("failed to parse check for item '%s': %w", item.Name, err)
		}

		rubric.Items = append(rubric.Items, Item{
			Name:   item.Name,
			Points: item.Points,
			check:  check,
		})
	}

	return rubric, nil
}

// MaxPoints returns the sum of all item points.
func (r *Rubric) MaxPoints() int {
	total := 0
	for _, item := range r.Items {
		total += item.Points
	}
	return total
}

// ItemResult records one rubric item's outcome.
type ItemResult struct {
	Name    string   `json:"name"`
	Points  int      `json:"points"`
	Passed  bool     `json:"passed"`
	Reason  string   `json:"reason,omitempty"`
	Details []string `json:"details,omitempty"`
}

// GradingResult is the immutable outcome of grading one submission.
type GradingResult struct {
	Submission   string       `json:"submission"`
	Rubric       string       `json:"rubric"`
	Items        []ItemResult `json:"items"`
	Total        int          `json:"total"`
	MaxPoints    int          `json:"maxPoints"`
	ScorePercent float64      `json:"scorePercent"`
	Passed       bool         `json:"passed"`
}

// Evaluate runs every rubric item against the submission, in order. Checks
// are independent of each other, so ordering has no effect on the final
// score. Nothing a check does is fatal to the grading run.
func (r *Rubric) Evaluate(ctx context.Context, sub *submission.Submission) *GradingResult {
	result := &GradingResult{
		Submission: sub.Name(),
		Rubric:     r.Name,
		MaxPoints:  r.MaxPoints(),
	}

	for _, item := range r.Items {
		outcome := item.check.Evaluate(ctx, sub)

		result.Items = append(result.Items, ItemResult{
			Name:    item.Name,
			Points:  item.Points,
			Passed:  outcome.Passed,
			Reason:  outcome.Reason,
			Details: outcome.Details,
		})

		if outcome.Passed {
			result.Total += item.Points
		}
	}

	if result.MaxPoints > 0 {
		result.ScorePercent = float64(result.Total) / float64(result.MaxPoints)
	}
	// Threshold is inclusive: scoring exactly the threshold passes
	result.Passed = result.ScorePercent >= r.Threshold

	return result
}

// Default returns the builtin receptionist-lab rubric. Its points sum to 100
// and the pass threshold is 70%.
func Default() *Rubric {
	return &Rubric{
		Name:      "receptionist-lab",
		Threshold: DefaultThreshold,
		Items: []Item{
			{
				Name:   "Agent instantiates",
				Points: 20,
				check:  &agentLoadsCheck{},
			},
			{
				Name:   "Generates valid SWML",
				Points: 20,
				check:  &validDocumentCheck{},
			},
			{
				Name:   "transfer_to_department function",
				Points: 15,
				check: &hasFunctionCheck{
					Name:         "transfer_to_department",
					RequiredArgs: []string{"department"},
				},
			},
			{
				Name:   "check_availability function",
				Points: 15,
				check: &hasFunctionCheck{
					Name:         "check_availability",
					RequiredArgs: []string{"department"},
				},
			},
			{
				Name:   "transfer_with_context function",
				Points: 10,
				check: &hasFunctionCheck{
					Name:         "transfer_with_context",
					RequiredArgs: []string{"department", "reason"},
				},
			},
			{
				Name:   "Transfer uses connect action",
				Points: 20,
				check: &usesActionCheck{
					Function: "transfer_to_department",
					Args:     map[string]any{"department": "support"},
					Action:   "connect",
				},
			},
		},
	}
}

// Load returns the rubric at path, or the builtin default when path is empty.
func Load(path string) (*Rubric, error) {
	if path == "" {
		return Default(), nil
	}

	spec, err := FromFile(path)
	if err != nil {
		return nil, err
	}

	return New(spec)
}
