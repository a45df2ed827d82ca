package retainer

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"caseintake-backend/models"
)

func TestComposeClientEmail(t *testing.T) {
	e := pedestrianExtraction()
	fields, err := Derive(e, time.Date(2026, time.February, 10, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	email := ComposeClientEmail(e, fields)

	assert.Equal(t, "Retainer Agreement for Your Review – Richards & Law", email.Subject)
	assert.Equal(t, "FAUSTO CASTILLO [Retainer Agreement].pdf", email.AttachmentName)

	assert.Contains(t, email.Body, "Hello FAUSTO,")
	assert.Contains(t, email.Body, "your vehicle vs pedestrian on November 16, 2022")
	assert.Contains(t, email.Body, "involving CHIMIE DORJEE")
	assert.Contains(t, email.Body, SchedulingLinkVirtual)
	assert.Contains(t, email.Body, AttorneyName)
}

func TestComposeClientEmailIncidentPhrase(t *testing.T) {
	tests := []struct {
		name string
		role models.PartyRole
		want string
	}{
		{name: "pedestrian", role: models.RolePedestrian, want: "the aftermath of an accident"},
		{name: "bicyclist", role: models.RoleBicyclist, want: "the aftermath of a cycling incident"},
		{name: "driver", role: models.RoleVehicle1Driver, want: "the aftermath of a crash"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := driverExtraction()
			e.ClientParty.Role = tt.role
			fields, err := Derive(e, time.Now())
			require.NoError(t, err)

			email := ComposeClientEmail(e, fields)
			assert.Contains(t, email.Body, tt.want)
		})
	}
}

func TestComposeClientEmailGreetingFallback(t *testing.T) {
	e := driverExtraction()
	e.ClientParty.FirstName = nil
	fields, err := Derive(e, time.Now())
	require.NoError(t, err)

	email := ComposeClientEmail(e, fields)
	assert.Contains(t, email.Body, "Hello GABRIEL REYES,")
}

func TestComposeClientEmailDefaultAccidentType(t *testing.T) {
	e := driverExtraction()
	e.AccidentDetails.AccidentType = nil
	fields, err := Derive(e, time.Now())
	require.NoError(t, err)

	email := ComposeClientEmail(e, fields)
	assert.Contains(t, email.Body, "your accident on December 6, 2018")
	assert.Contains(t, email.Body, "Our records show a motor vehicle accident at")
}
