package retainer

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderTemplateMergeFields(t *testing.T) {
	out := RenderTemplate(MergeFieldRenderer{})

	assert.Contains(t, out, "<<CF:ClientFullName>>")
	assert.Contains(t, out, "<<CF:AccidentDate>>")
	assert.Contains(t, out, "<<CF:DefendantName>>")
	assert.Contains(t, out, "<<CF:AccidentLocation>>")
	assert.Contains(t, out, "<<CF:ClientPlateNumber>>")
	assert.Contains(t, out, "<<CF:StatuteOfLimitationsDate>>")

	// Pronouns become conditionals on the stored gender label
	assert.Contains(t, out, "<<CF:ClientGender=Male?his:her>>")
	assert.Contains(t, out, "<<CF:ClientGender=Male?he:she>>")

	// Both injury variants stay in the template, gated on the count
	assert.Contains(t, out, "<<CF:NumberInjured!=0?")
	assert.Contains(t, out, "<<CF:NumberInjured=0?")

	// Signature scaffolding
	assert.Contains(t, out, "ACCEPTED BY:")
	assert.Contains(t, out, "<<Matter.ResponsibleAttorney.Name>>")
}

func TestRenderTemplatePaths(t *testing.T) {
	out := RenderTemplate(PathTokenRenderer{})

	assert.Contains(t, out, "{{fields.client_full_name}}")
	assert.Contains(t, out, "{{fields.accident_date}}")
	assert.Contains(t, out, "{{fields.defendant_name}}")
	assert.Contains(t, out, "{{fields.client_plate_number}}")
	assert.Contains(t, out, "{{fields.statute_of_limitations_date}}")
	assert.Contains(t, out, "{{fields.client_pronoun_possessive}}")
	assert.Contains(t, out, "{{fields.client_pronoun_subject}}")

	// No conditionals in this syntax; the operator gets an instruction
	assert.Contains(t, out, "[KEEP THIS PARAGRAPH ONLY IF ANY INJURIES WERE REPORTED; DELETE OTHERWISE]")
	assert.Contains(t, out, "[KEEP THIS PARAGRAPH ONLY IF NO INJURIES WERE REPORTED; DELETE OTHERWISE]")
	assert.NotContains(t, out, "<<CF:")
}

// Every field the template references must be supplied by the field map, or
// the merge engine would render a blank.
func TestTemplateTokensCoveredByFieldMap(t *testing.T) {
	tokens := TemplateTokens()
	require.NotEmpty(t, tokens)

	e := pedestrianExtraction()
	fields, err := Derive(e, time.Date(2026, time.February, 10, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	m := FieldMap(e, fields)

	for _, token := range tokens {
		assert.Contains(t, m, string(token), "template references field the deriver never supplies")
	}
}

func TestTemplateTokensDeduplicated(t *testing.T) {
	tokens := TemplateTokens()
	seen := make(map[Field]bool)
	for _, token := range tokens {
		assert.False(t, seen[token], "duplicate token %s", token)
		seen[token] = true
	}
}
