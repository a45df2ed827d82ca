package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsVehicleOccupant(t *testing.T) {
	assert.True(t, RoleVehicle1Driver.IsVehicleOccupant())
	assert.True(t, RoleVehicle2Driver.IsVehicleOccupant())
	assert.False(t, RolePedestrian.IsVehicleOccupant())
	assert.False(t, RoleBicyclist.IsVehicleOccupant())
}

func TestCaseExtractionScan(t *testing.T) {
	name := "FAUSTO CASTILLO"
	src := CaseExtraction{
		Confidence:  ConfidenceHigh,
		ClientParty: &Party{Role: RolePedestrian, FullName: &name},
	}

	value, err := src.Value()
	require.NoError(t, err)

	var dst CaseExtraction
	require.NoError(t, dst.Scan(value))
	assert.Equal(t, ConfidenceHigh, dst.Confidence)
	require.NotNil(t, dst.ClientParty)
	assert.Equal(t, RolePedestrian, dst.ClientParty.Role)

	// NULL column leaves the destination untouched
	var empty CaseExtraction
	require.NoError(t, empty.Scan(nil))
	assert.Nil(t, empty.ClientParty)

	// pgx may hand the JSONB over as a string
	var fromString CaseExtraction
	require.NoError(t, fromString.Scan(`{"extraction_confidence":"low"}`))
	assert.Equal(t, ConfidenceLow, fromString.Confidence)
}
