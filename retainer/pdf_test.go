package retainer

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComposePDF(t *testing.T) {
	fields, err := Derive(driverExtraction(), time.Date(2026, time.July, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	creation := time.Date(2026, time.July, 1, 12, 0, 0, 0, time.UTC)
	pdf, filename, err := ComposePDF(fields, creation)
	require.NoError(t, err)

	assert.Equal(t, "GABRIEL REYES [Retainer Agreement].pdf", filename)
	require.NotEmpty(t, pdf)
	assert.True(t, bytes.HasPrefix(pdf, []byte("%PDF")), "output is not a PDF")
}

func TestComposePDFDeterministic(t *testing.T) {
	fields, err := Derive(pedestrianExtraction(), time.Date(2026, time.February, 10, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	creation := time.Date(2026, time.February, 10, 12, 0, 0, 0, time.UTC)
	first, _, err := ComposePDF(fields, creation)
	require.NoError(t, err)

	// Map-ordered resource dictionaries make instability intermittent, so
	// one rerun is not enough to trust.
	for i := 0; i < 20; i++ {
		again, _, err := ComposePDF(fields, creation)
		require.NoError(t, err)
		require.Equal(t, first, again, "same fields and creation date must produce identical bytes")
	}
}

func TestComposePDFWithPlaceholders(t *testing.T) {
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

	pdf, _, err := ComposePDF(fields, time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.NotEmpty(t, pdf)
}
