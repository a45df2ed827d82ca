package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"caseintake-backend/models"
	"caseintake-backend/retainer"
)

func strPtr(s string) *string { return &s }

func verifiedMatter() (*models.Matter, *retainer.DerivedFields) {
	e := &models.CaseExtraction{
		AccidentDetails: models.AccidentDetails{Date: strPtr("2018-12-06")},
		ClientParty:     &models.Party{Role: models.RoleVehicle1Driver, FullName: strPtr("GABRIEL REYES")},
		AdverseParty:    &models.Party{Role: models.RoleVehicle2Driver, FullName: strPtr("LIONEL FRANCOIS")},
	}
	fields, err := retainer.Derive(e, time.Date(2026, time.July, 1, 0, 0, 0, 0, time.UTC))
	if err != nil {
		panic(err)
	}
	return &models.Matter{Status: models.MatterStatusVerified, Extraction: e}, fields
}

func TestWebhookPayload(t *testing.T) {
	matter, fields := verifiedMatter()
	matter.ClioMatterID = strPtr("12345")

	payload := webhookPayload(matter, fields)

	assert.Equal(t, "12345", payload["matter_id"])
	assert.Equal(t, matter.Extraction, payload["extraction"])
	require.NotNil(t, payload["sol_8yr"])
	assert.Equal(t, "2026-12-06", *payload["sol_8yr"].(*string))
	require.NotNil(t, payload["sol_3yr"])
	assert.Equal(t, "2021-12-06", *payload["sol_3yr"].(*string))
}

func TestWebhookPayloadOmitsMissingMatterID(t *testing.T) {
	matter, fields := verifiedMatter()
	require.Nil(t, matter.ClioMatterID)

	payload := webhookPayload(matter, fields)

	// The key is absent, not an empty string the receiver would store
	_, present := payload["matter_id"]
	assert.False(t, present)
}
