package retainer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resolvedText(blocks []ResolvedBlock) string {
	var b strings.Builder
	for _, block := range blocks {
		b.WriteString(block.Text)
		b.WriteString("\n")
	}
	return b.String()
}

func TestResolveInjuryBranch(t *testing.T) {
	tests := []struct {
		name       string
		numInjured int
		wantPhrase string
		dropPhrase string
	}{
		{
			name:       "injured selects the bodily injury paragraph",
			numInjured: 1,
			wantPhrase: "involved an injured person",
			dropPhrase: "involved no reported injured people",
		},
		{
			name:       "not injured selects the property damage paragraph",
			numInjured: 0,
			wantPhrase: "involved no reported injured people",
			dropPhrase: "involved an injured person",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fields := &DerivedFields{
				ClientFullName:   "FAUSTO CASTILLO",
				DefendantName:    "CHIMIE DORJEE",
				ClientPossessive: "his",
				ClientSubject:    "he",
				NumInjured:       tt.numInjured,
			}
			text := resolvedText(Resolve(fields))
			assert.Contains(t, text, tt.wantPhrase)
			assert.NotContains(t, text, tt.dropPhrase)
		})
	}
}

func TestResolveSubstitutions(t *testing.T) {
	fields := &DerivedFields{
		ClientFullName:   "DARSHAME NOEL",
		DefendantName:    "NICOLE FREESE",
		ClientPossessive: "her",
		ClientSubject:    "she",
		AccidentDateLong: "December 15, 2019",
		Location:         "FLATBUSH AVENUE at AVENUE H, KINGS",
		PlateNumber:      "JKR4830",
		SOLExtendedLong:  "December 15, 2027",
		NumInjured:       0,
	}

	blocks := Resolve(fields)
	require.NotEmpty(t, blocks)

	// Firm header first, signature block last
	assert.Equal(t, Title, blocks[0].Kind)
	assert.Equal(t, "RICHARDS & LAW", blocks[0].Text)
	assert.Equal(t, Signature, blocks[len(blocks)-1].Kind)
	assert.Equal(t, "DARSHAME NOEL", blocks[len(blocks)-1].Text)

	text := resolvedText(blocks)
	assert.Contains(t, text, "entered into between DARSHAME NOEL")
	assert.Contains(t, text, "litigate claims for damages against NICOLE FREESE")
	assert.Contains(t, text, "incident that occurred on December 15, 2019")
	assert.Contains(t, text, "occurred at FLATBUSH AVENUE at AVENUE H, KINGS")
	assert.Contains(t, text, "registration plate number JKR4830")
	assert.Contains(t, text, "statute of limitations for this matter is December 15, 2027")
	assert.Contains(t, text, "as a result of her accident")
	assert.Contains(t, text, "responsibilities remain her own")
}

func TestResolvePlaceholdersSurvive(t *testing.T) {
	fields := &DerivedFields{
		ClientFullName:   "JANE ROE",
		DefendantName:    "JOHN DOE",
		ClientPossessive: "her",
		ClientSubject:    "she",
		AccidentDateLong: PlaceholderAccidentDate,
		Location:         PlaceholderLocation,
		PlateNumber:      PlaceholderPlateNumber,
		SOLExtendedLong:  PlaceholderSOLDate,
	}

	text := resolvedText(Resolve(fields))
	assert.Contains(t, text, PlaceholderAccidentDate)
	assert.Contains(t, text, PlaceholderLocation)
	assert.Contains(t, text, PlaceholderPlateNumber)
	assert.Contains(t, text, PlaceholderSOLDate)
}

func TestResolveItalicFlag(t *testing.T) {
	fields := &DerivedFields{ClientFullName: "X", DefendantName: "Y", NumInjured: 2}
	var found bool
	for _, block := range Resolve(fields) {
		if strings.Contains(block.Text, "involved an injured person") {
			found = true
			assert.True(t, block.Italic)
			assert.Equal(t, Paragraph, block.Kind)
		}
	}
	assert.True(t, found)
}
