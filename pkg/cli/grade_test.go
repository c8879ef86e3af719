package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/swaigcheck/swaigcheck/pkg/results"
)

const gradeTestDocument = `{
  "version": "1.0.0",
  "sections": {
    "main": [
      {
        "ai": {
          "prompt": {"pom": [{"title": "Role", "body": "Receptionist."}]},
          "SWAIG": {
            "functions": [
              {
                "function": "transfer_to_department",
                "parameters": {
                  "type": "object",
                  "properties": {"department": {"type": "string"}},
                  "required": ["department"]
                }
              }
            ]
          }
        }
      }
    ]
  }
}`

const gradeTestRubric = `
apiVersion: swaigcheck/v1alpha1
kind: Rubric
metadata:
  name: grade-test
threshold: 0.70
items:
  - name: Agent instantiates
    points: 40
    check:
      agentLoads: {}
  - name: Document is valid
    points: 30
    check:
      validDocument: {}
  - name: Transfer function declared
    points: 30
    check:
      hasFunction:
        name: transfer_to_department
        requiredArgs: [department]
`

// writeGradeFixtures writes a document submission and a rubric into a temp
// directory and chdirs into it so the results file lands there too.
func writeGradeFixtures(t *testing.T) (documentPath, rubricPath string) {
	t.Helper()

	tmpDir := t.TempDir()
	t.Chdir(tmpDir)

	documentPath = filepath.Join(tmpDir, "alice.json")
	if err := os.WriteFile(documentPath, []byte(gradeTestDocument), 0644); err != nil {
		t.Fatalf("failed to write document: %v", err)
	}

	rubricPath = filepath.Join(tmpDir, "rubric.yaml")
	if err := os.WriteFile(rubricPath, []byte(gradeTestRubric), 0644); err != nil {
		t.Fatalf("failed to write rubric: %v", err)
	}

	return documentPath, rubricPath
}

func TestGradeCommand(t *testing.T) {
	documentPath, rubricPath := writeGradeFixtures(t)

	cmd := NewGradeCmd()
	cmd.SetArgs([]string{documentPath, "--rubric", rubricPath})

	buf := new(bytes.Buffer)
	cmd.SetOut(buf)

	if err := cmd.Execute(); err != nil {
		t.Fatalf("grade command failed: %v", err)
	}

	loaded, err := results.Load("swaigcheck-grade-test-out.json")
	if err != nil {
		t.Fatalf("failed to load results file: %v", err)
	}

	if len(loaded) != 1 {
		t.Fatalf("expected 1 result, got %d", len(loaded))
	}
	if loaded[0].Submission != "alice" {
		t.Errorf("expected submission 'alice', got %q", loaded[0].Submission)
	}
	if loaded[0].Total != 100 {
		t.Errorf("expected total 100, got %d", loaded[0].Total)
	}
	if !loaded[0].Passed {
		t.Error("expected submission to pass")
	}
}

func TestGradeCommandFailingScoreIsNotAnError(t *testing.T) {
	documentPath, rubricPath := writeGradeFixtures(t)

	// A document submission cannot execute functions, so this item fails
	// and the score drops below the threshold.
	failing := gradeTestRubric + `
  - name: Transfer connects support
    points: 100
    check:
      usesAction:
        function: transfer_to_department
        args:
          department: support
        action: connect
`
	if err := os.WriteFile(rubricPath, []byte(failing), 0644); err != nil {
		t.Fatalf("failed to write rubric: %v", err)
	}

	cmd := NewGradeCmd()
	cmd.SetArgs([]string{documentPath, "--rubric", rubricPath})

	buf := new(bytes.Buffer)
	cmd.SetOut(buf)

	if err := cmd.Execute(); err != nil {
		t.Fatalf("grade command should report a failing score, not error: %v", err)
	}

	loaded, err := results.Load("swaigcheck-grade-test-out.json")
	if err != nil {
		t.Fatalf("failed to load results file: %v", err)
	}

	if loaded[0].Passed {
		t.Error("expected submission to fail the threshold")
	}
	if loaded[0].Total != 100 || loaded[0].MaxPoints != 200 {
		t.Errorf("expected 100/200, got %d/%d", loaded[0].Total, loaded[0].MaxPoints)
	}
}

func TestGradeCommandRecordsRuns(t *testing.T) {
	documentPath, rubricPath := writeGradeFixtures(t)
	dbPath := filepath.Join(t.TempDir(), "gradebook.db")

	cmd := NewGradeCmd()
	cmd.SetArgs([]string{documentPath, "--rubric", rubricPath, "--record", dbPath})

	buf := new(bytes.Buffer)
	cmd.SetOut(buf)

	if err := cmd.Execute(); err != nil {
		t.Fatalf("grade command failed: %v", err)
	}

	if _, err := os.Stat(dbPath); err != nil {
		t.Errorf("expected gradebook database to be created: %v", err)
	}
}

func TestGradeCommandMissingSubmission(t *testing.T) {
	_, rubricPath := writeGradeFixtures(t)

	cmd := NewGradeCmd()
	cmd.SetArgs([]string{"does-not-exist.yaml", "--rubric", rubricPath})

	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)

	if err := cmd.Execute(); err == nil {
		t.Error("grade command should fail when the submission spec cannot be loaded")
	}
}

func TestGradeCommandUnknownOutputFormat(t *testing.T) {
	documentPath, rubricPath := writeGradeFixtures(t)

	cmd := NewGradeCmd()
	cmd.SetArgs([]string{documentPath, "--rubric", rubricPath, "--output", "xml"})

	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)

	if err := cmd.Execute(); err == nil {
		t.Error("grade command should reject unknown output formats")
	}
}
