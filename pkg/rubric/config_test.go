package rubric

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"k8s.io/utils/ptr"
)

const validRubricYAML = `
apiVersion: swaigcheck/v1alpha1
kind: Rubric
metadata:
  name: receptionist-lab
threshold: 0.70
items:
  - name: Agent instantiates
    points: 20
    check:
      agentLoads: {}
  - name: transfer function
    points: 80
    check:
      hasFunction:
        name: transfer_to_department
        requiredArgs: [department]
`

func TestReadRubricSpec(t *testing.T) {
	spec, err := Read([]byte(validRubricYAML))
	require.NoError(t, err)

	assert.Equal(t, "receptionist-lab", spec.Metadata.Name)
	assert.Equal(t, ptr.To(0.70), spec.Threshold)
	require.Len(t, spec.Items, 2)
	assert.Equal(t, 20, spec.Items[0].Points)
}

func TestReadRubricSpecErrors(t *testing.T) {
	tt := map[string]struct {
		yaml      string
		expectErr string
	}{
		"wrong kind": {
			yaml: `
kind: Submission
metadata:
  name: x
items:
  - name: a
    points: 1
    check:
      agentLoads: {}
`,
			expectErr: "invalid kind",
		},
		"no items": {
			yaml: `
kind: Rubric
metadata:
  name: x
items: []
`,
			expectErr: "at least one item",
		},
		"negative points": {
			yaml: `
kind: Rubric
metadata:
  name: x
items:
  - name: a
    points: -5
    check:
      agentLoads: {}
`,
			expectErr: "negative points",
		},
		"item missing name": {
			yaml: `
kind: Rubric
metadata:
  name: x
items:
  - points: 5
    check:
      agentLoads: {}
`,
			expectErr: "must have a name",
		},
		"threshold out of range": {
			yaml: `
kind: Rubric
metadata:
  name: x
threshold: 1.5
items:
  - name: a
    points: 5
    check:
      agentLoads: {}
`,
			expectErr: "between 0.0 and 1.0",
		},
	}

	for tn, tc := range tt {
		t.Run(tn, func(t *testing.T) {
			_, err := Read([]byte(tc.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.expectErr)
		})
	}
}

func TestNewFromSpec(t *testing.T) {
	spec, err := Read([]byte(validRubricYAML))
	require.NoError(t, err)

	rubric, err := New(spec)
	require.NoError(t, err)

	assert.Equal(t, "receptionist-lab", rubric.Name)
	assert.Equal(t, 0.70, rubric.Threshold)
	assert.Equal(t, 100, rubric.MaxPoints())
}

func TestNewFromSpecDefaultThreshold(t *testing.T) {
	spec := &Spec{
		Metadata: Metadata{Name: "x"},
		Items: []ItemConfig{
			{Name: "a", Points: 10, Check: CheckConfig{"agentLoads": []byte(`{}`)}},
		},
	}

	rubric, err := New(spec)
	require.NoError(t, err)
	assert.Equal(t, DefaultThreshold, rubric.Threshold)
}

func TestNewFromSpecBadCheck(t *testing.T) {
	spec := &Spec{
		Metadata: Metadata{Name: "x"},
		Items: []ItemConfig{
			{Name: "a", Points: 10, Check: CheckConfig{"nonsense": []byte(`{}`)}},
		},
	}

	_, err := New(spec)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse check for item 'a'")
}
