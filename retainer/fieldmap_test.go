package retainer

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"caseintake-backend/models"
)

func TestFieldMapDriver(t *testing.T) {
	e := driverExtraction()
	fields, err := Derive(e, time.Date(2026, time.July, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	m := FieldMap(e, fields)

	assert.Equal(t, "GABRIEL REYES", m["ClientFullName"])
	assert.Equal(t, "Male", m["ClientGender"])
	assert.Equal(t, "LIONEL FRANCOIS", m["DefendantName"])
	assert.Equal(t, "0", m["NumberInjured"])
	assert.Equal(t, "XCGY85", m["ClientPlateNumber"])
	assert.Equal(t, "195 ILLINOIS AVE, PATERSON, NJ, 07503", m["ClientAddress"])
	assert.Equal(t, "2018-12-06", m["AccidentDate"])
	assert.Equal(t, "2026-12-06", m["StatuteOfLimitationsDate"])

	// Missing data is omitted, not written as an empty string
	assert.NotContains(t, m, "ClientDOB")
	assert.NotContains(t, m, "InjuriesDescription")
	assert.NotContains(t, m, "DefendantAddress")
	assert.NotContains(t, m, "PoliceReportNumber")
}

func TestFieldMapPedestrian(t *testing.T) {
	e := pedestrianExtraction()
	fields, err := Derive(e, time.Date(2026, time.February, 10, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	m := FieldMap(e, fields)

	// Non-occupant roles keep the explanatory plate value
	assert.Equal(t, "N/A (client was a pedestrian)", m["ClientPlateNumber"])
	assert.Equal(t, "1", m["NumberInjured"])
	assert.Equal(t, "PAIN TO HEAD, JAW, AND RIGHT KNEE", m["InjuriesDescription"])
	assert.Equal(t, "2022-024-07221", m["PoliceReportNumber"])
	assert.Equal(t, "024", m["Precinct"])
	assert.Equal(t, "RODRIGUEZ", m["OfficerName"])
	assert.Equal(t, "Vehicle vs Pedestrian", m["AccidentType"])
}

func TestFieldMapDriverWithoutPlate(t *testing.T) {
	e := driverExtraction()
	e.ClientParty.PlateNumber = nil
	fields, err := Derive(e, time.Now())
	require.NoError(t, err)

	m := FieldMap(e, fields)

	// A driver with no extracted plate is omitted; the bracketed document
	// placeholder never leaks into the downstream record
	assert.NotContains(t, m, "ClientPlateNumber")
}

func TestFieldMapNoSOL(t *testing.T) {
	e := &models.CaseExtraction{
		ClientParty:  &models.Party{Role: models.RoleVehicle1Driver, FullName: strPtr("JANE ROE")},
		AdverseParty: &models.Party{Role: models.RoleVehicle2Driver, FullName: strPtr("JOHN DOE")},
	}
	fields, err := Derive(e, time.Now())
	require.NoError(t, err)

	m := FieldMap(e, fields)
	assert.NotContains(t, m, "StatuteOfLimitationsDate")
	assert.NotContains(t, m, "AccidentDate")
	assert.Equal(t, "0", m["NumberInjured"])
}
