// Package results provides utilities for loading, filtering, and analyzing
// saved grading results.
package results

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/swaigcheck/swaigcheck/pkg/rubric"
)

// Stats holds computed statistics from grading results.
type Stats struct {
	ResultsFile       string  `json:"resultsFile"`
	SubmissionsTotal  int     `json:"submissionsTotal"`
	SubmissionsPassed int     `json:"submissionsPassed"`
	PassRate          float64 `json:"passRate"`
	PointsTotal       int     `json:"pointsTotal"`
	PointsEarned      int     `json:"pointsEarned"`
	ScoreRate         float64 `json:"scoreRate"`
	ItemsTotal        int     `json:"itemsTotal"`
	ItemsPassed       int     `json:"itemsPassed"`
	ItemPassRate      float64 `json:"itemPassRate"`
}

// Load reads a JSON results file and returns the parsed grading results.
func Load(path string) ([]*rubric.GradingResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read results file: %w", err)
	}

	var results []*rubric.GradingResult
	if err := json.Unmarshal(data, &results); err != nil {
		return nil, fmt.Errorf("failed to parse results JSON: %w", err)
	}

	return results, nil
}

// Save writes grading results to a JSON file.
func Save(results []*rubric.GradingResult, path string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create results file: %w", err)
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(results); err != nil {
		return fmt.Errorf("failed to encode results: %w", err)
	}

	return nil
}

// Filter returns the subset of results whose submission names contain the
// filter substring.
func Filter(results []*rubric.GradingResult, filter string) []*rubric.GradingResult {
	if filter == "" {
		return results
	}

	filter = strings.ToLower(filter)
	filtered := make([]*rubric.GradingResult, 0, len(results))
	for _, r := range results {
		if strings.Contains(strings.ToLower(r.Submission), filter) {
			filtered = append(filtered, r)
		}
	}
	return filtered
}

// CalculateStats computes statistics from grading results.
func CalculateStats(resultsFile string, results []*rubric.GradingResult) Stats {
	stats := Stats{
		ResultsFile:      resultsFile,
		SubmissionsTotal: len(results),
	}

	for _, result := range results {
		if result.Passed {
			stats.SubmissionsPassed++
		}

		stats.PointsTotal += result.MaxPoints
		stats.PointsEarned += result.Total

		for _, item := range result.Items {
			stats.ItemsTotal++
			if item.Passed {
				stats.ItemsPassed++
			}
		}
	}

	if stats.SubmissionsTotal > 0 {
		stats.PassRate = float64(stats.SubmissionsPassed) / float64(stats.SubmissionsTotal)
	}
	if stats.PointsTotal > 0 {
		stats.ScoreRate = float64(stats.PointsEarned) / float64(stats.PointsTotal)
	}
	if stats.ItemsTotal > 0 {
		stats.ItemPassRate = float64(stats.ItemsPassed) / float64(stats.ItemsTotal)
	}

	return stats
}

// FailedItems returns formatted failure messages for a grading result.
func FailedItems(result *rubric.GradingResult) []string {
	var failures []string

	for _, item := range result.Items {
		if item.Passed {
			continue
		}
		if item.Reason != "" {
			failures = append(failures, fmt.Sprintf("%s: %s", item.Name, item.Reason))
		} else {
			failures = append(failures, item.Name)
		}
	}

	return failures
}
