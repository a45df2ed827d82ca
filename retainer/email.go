package retainer

import (
	"fmt"
	"strings"

	"caseintake-backend/models"
)

// ClientEmail is the cover email sent with the generated agreement
type ClientEmail struct {
	Subject        string
	Body           string
	AttachmentName string
}

// incidentPhrase softens the accident reference by the client's role
func incidentPhrase(role models.PartyRole) string {
	switch role {
	case models.RolePedestrian:
		return "an accident"
	case models.RoleBicyclist:
		return "a cycling incident"
	default:
		return "a crash"
	}
}

// accidentSummary is a one-sentence recap of the incident for the email body
func accidentSummary(e *models.CaseExtraction, fields *DerivedFields) string {
	kind := "motor vehicle accident"
	if e.AccidentDetails.AccidentType != nil && *e.AccidentDetails.AccidentType != "" {
		kind = strings.ToLower(*e.AccidentDetails.AccidentType)
	}
	return fmt.Sprintf("Our records show a %s at %s on %s involving %s.",
		kind, fields.Location, fields.AccidentDateLong, fields.DefendantName)
}

// ComposeClientEmail builds the retainer cover email. The scheduling link is
// the seasonal one already selected by the deriver.
func ComposeClientEmail(e *models.CaseExtraction, fields *DerivedFields) ClientEmail {
	greeting := fields.ClientFirstName
	if greeting == "" {
		greeting = fields.ClientFullName
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Hello %s,\n\n", greeting)
	fmt.Fprintf(&b,
		"I hope you're doing well. I wanted to follow up regarding your %s on %s. "+
			"I know dealing with the aftermath of %s is stressful, and I want to make sure "+
			"we move things forward as smoothly as possible for you.\n\n",
		accidentTypeOrDefault(e), fields.AccidentDateLong, incidentPhrase(e.ClientParty.Role))
	fmt.Fprintf(&b, "%s\n\n", accidentSummary(e, fields))
	b.WriteString(
		"Attached is your Retainer Agreement, which sets the foundation for our partnership. " +
			"It details the specific legal services we will provide and the mutual responsibilities " +
			"needed to move your claim forward effectively. Please take a moment to review it before we meet.\n\n")
	fmt.Fprintf(&b,
		"When you're ready, you can book an appointment with us using this link: %s. "+
			"At that meeting, we'll go through the agreement in detail and discuss next steps.\n\n",
		fields.SchedulingLink)
	fmt.Fprintf(&b, "%s\n", AttorneyName)

	return ClientEmail{
		Subject:        fmt.Sprintf("Retainer Agreement for Your Review – %s", FirmName),
		Body:           b.String(),
		AttachmentName: fields.Filename(),
	}
}

func accidentTypeOrDefault(e *models.CaseExtraction) string {
	if e.AccidentDetails.AccidentType != nil && *e.AccidentDetails.AccidentType != "" {
		return strings.ToLower(*e.AccidentDetails.AccidentType)
	}
	return "accident"
}
