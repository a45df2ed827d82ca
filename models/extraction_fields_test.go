package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetFieldStrings(t *testing.T) {
	tests := []struct {
		name  string
		path  string
		value string
		check func(t *testing.T, e *CaseExtraction)
	}{
		{
			name:  "client plate number",
			path:  "client_party.plate_number",
			value: "XCGY85",
			check: func(t *testing.T, e *CaseExtraction) {
				require.NotNil(t, e.ClientParty.PlateNumber)
				assert.Equal(t, "XCGY85", *e.ClientParty.PlateNumber)
			},
		},
		{
			name:  "adverse party full name",
			path:  "adverse_party.full_name",
			value: "LIONEL FRANCOIS",
			check: func(t *testing.T, e *CaseExtraction) {
				require.NotNil(t, e.AdverseParty.FullName)
				assert.Equal(t, "LIONEL FRANCOIS", *e.AdverseParty.FullName)
			},
		},
		{
			name:  "accident date",
			path:  "accident_details.date",
			value: "2022-11-16",
			check: func(t *testing.T, e *CaseExtraction) {
				require.NotNil(t, e.AccidentDetails.Date)
				assert.Equal(t, "2022-11-16", *e.AccidentDetails.Date)
			},
		},
		{
			name:  "report number",
			path:  "report_metadata.report_number",
			value: "2022-024-07221",
			check: func(t *testing.T, e *CaseExtraction) {
				require.NotNil(t, e.ReportMetadata.ReportNumber)
				assert.Equal(t, "2022-024-07221", *e.ReportMetadata.ReportNumber)
			},
		},
		{
			name:  "statute of limitations override",
			path:  "statute_of_limitations_date_8yr",
			value: "2030-11-16",
			check: func(t *testing.T, e *CaseExtraction) {
				require.NotNil(t, e.StatuteOfLimitations8Yr)
				assert.Equal(t, "2030-11-16", *e.StatuteOfLimitations8Yr)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := &CaseExtraction{}
			require.NoError(t, e.SetField(tt.path, tt.value))
			tt.check(t, e)
		})
	}
}

func TestSetFieldEmptyClears(t *testing.T) {
	plate := "XCGY85"
	e := &CaseExtraction{ClientParty: &Party{PlateNumber: &plate}}

	require.NoError(t, e.SetField("client_party.plate_number", ""))
	assert.Nil(t, e.ClientParty.PlateNumber)
}

func TestSetFieldIntegers(t *testing.T) {
	e := &CaseExtraction{}

	require.NoError(t, e.SetField("accident_details.num_injured", "2"))
	assert.Equal(t, 2, e.AccidentDetails.NumInjured)

	err := e.SetField("accident_details.num_injured", "-1")
	assert.Error(t, err)
	assert.Equal(t, 2, e.AccidentDetails.NumInjured, "rejected value must not be applied")

	err = e.SetField("accident_details.num_vehicles", "two")
	assert.Error(t, err)
}

func TestSetFieldRole(t *testing.T) {
	e := &CaseExtraction{}

	require.NoError(t, e.SetField("client_party.role", "pedestrian"))
	assert.Equal(t, RolePedestrian, e.ClientParty.Role)

	err := e.SetField("client_party.role", "passenger")
	assert.Error(t, err)
	assert.Equal(t, RolePedestrian, e.ClientParty.Role)
}

func TestSetFieldUnknownPath(t *testing.T) {
	e := &CaseExtraction{}

	err := e.SetField("client_party.favorite_color", "blue")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unknown extraction field")

	err = e.SetField("", "x")
	assert.Error(t, err)
}

func TestSetFieldInitializesOnlyTargetedParty(t *testing.T) {
	e := &CaseExtraction{}
	require.Nil(t, e.ClientParty)

	require.NoError(t, e.SetField("client_party.first_name", "FAUSTO"))
	require.NotNil(t, e.ClientParty)
	assert.Equal(t, "FAUSTO", *e.ClientParty.FirstName)
	assert.Nil(t, e.AdverseParty, "correcting one party must not create the other")

	e = &CaseExtraction{}
	require.NoError(t, e.SetField("adverse_party.last_name", "DORJEE"))
	require.NotNil(t, e.AdverseParty)
	assert.Nil(t, e.ClientParty)
}

func TestSetFieldNonPartyPathLeavesPartiesNil(t *testing.T) {
	e := &CaseExtraction{}

	require.NoError(t, e.SetField("accident_details.date", "2022-11-16"))
	assert.Nil(t, e.ClientParty, "a missing party must stay visibly missing")
	assert.Nil(t, e.AdverseParty)
}
