package swml

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleDocument = `{
  "version": "1.0.0",
  "sections": {
    "main": [
      {
        "ai": {
          "prompt": {
            "pom": [{"title": "Role", "body": "Receptionist."}]
          },
          "SWAIG": {
            "functions": [
              {
                "function": "transfer_to_department",
                "description": "Transfer to a department",
                "parameters": {
                  "type": "object",
                  "properties": {
                    "department": {"type": "string"}
                  },
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

func TestReadDocument(t *testing.T) {
	doc, err := Read([]byte(sampleDocument))
	require.NoError(t, err)

	assert.Equal(t, "1.0.0", doc.Version)
	require.Len(t, doc.Functions(), 1)

	fn, ok := doc.FindFunction("transfer_to_department")
	require.True(t, ok)
	assert.Equal(t, []string{"department"}, fn.RequiredArgs())

	_, ok = doc.FindFunction("missing")
	assert.False(t, ok)

	assert.NoError(t, doc.Validate())
}

func TestReadDocumentInvalidJSON(t *testing.T) {
	_, err := Read([]byte("{not json"))
	assert.Error(t, err)
}

func TestFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "doc.json")
	require.NoError(t, os.WriteFile(path, []byte(sampleDocument), 0644))

	doc, err := FromFile(path)
	require.NoError(t, err)
	assert.Equal(t, "1.0.0", doc.Version)

	_, err = FromFile(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

func TestDocumentValidate(t *testing.T) {
	tt := map[string]struct {
		doc       *Document
		expectErr string
	}{
		"missing version": {
			doc: &Document{
				Sections: map[string][]Verb{
					MainSection: {{AI: &AIVerb{}}},
				},
			},
			expectErr: "version must be set",
		},
		"missing main section": {
			doc: &Document{
				Version: Version,
				Sections: map[string][]Verb{
					"other": {{AI: &AIVerb{}}},
				},
			},
			expectErr: "must define a 'main' section",
		},
		"missing ai verb": {
			doc: &Document{
				Version: Version,
				Sections: map[string][]Verb{
					MainSection: {{}},
				},
			},
			expectErr: "must contain an ai verb",
		},
		"function missing name": {
			doc: &Document{
				Version: Version,
				Sections: map[string][]Verb{
					MainSection: {{AI: &AIVerb{
						SWAIG: &SWAIG{Functions: []*Function{{}}},
					}}},
				},
			},
			expectErr: "missing a name",
		},
	}

	for tn, tc := range tt {
		t.Run(tn, func(t *testing.T) {
			err := tc.doc.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.expectErr)
		})
	}
}

func TestFunctionGetParameters(t *testing.T) {
	// No declared parameters resolves to an empty object schema
	fn := &Function{Name: "noop"}

	resolved, err := fn.GetParameters()
	require.NoError(t, err)
	assert.NoError(t, resolved.Validate(map[string]any{}))

	// Cached resolution returns the same value
	again, err := fn.GetParameters()
	require.NoError(t, err)
	assert.Same(t, resolved, again)
}
