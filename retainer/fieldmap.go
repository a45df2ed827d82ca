package retainer

import (
	"strconv"

	"caseintake-backend/models"
)

// FieldMap flattens a verified extraction into the practice-management
// system's custom-field keys. Every value is a string (numbers decimal,
// dates ISO). Fields with no data are omitted rather than written as
// empty strings, so the downstream record never shows misleading blanks.
func FieldMap(e *models.CaseExtraction, fields *DerivedFields) map[string]string {
	cp := e.ClientParty
	ap := e.AdverseParty
	ad := e.AccidentDetails

	m := map[string]string{
		"ClientFullName": fields.ClientFullName,
		"ClientGender":   fields.ClientGender,
		"DefendantName":  fields.DefendantName,
		"NumberInjured":  strconv.Itoa(ad.NumInjured),
	}

	put := func(key string, value string) {
		if value != "" {
			m[key] = value
		}
	}
	putPtr := func(key string, value *string) {
		if value != nil && *value != "" {
			m[key] = *value
		}
	}

	put("ClientAddress", fields.ClientAddress)
	putPtr("ClientDOB", cp.DateOfBirth)
	putPtr("ClientDriversLicense", cp.DriversLicense)
	putPtr("ClientVehicle", cp.VehicleYearMakeModel)
	putPtr("InjuriesDescription", cp.Injuries)

	// The plate field keeps the role explanation for non-occupants; a
	// driver with no extracted plate is simply omitted.
	if !cp.Role.IsVehicleOccupant() {
		m["ClientPlateNumber"] = fields.PlateNumber
	} else {
		putPtr("ClientPlateNumber", cp.PlateNumber)
	}

	put("DefendantAddress", fields.DefendantAddress)
	putPtr("DefendantVehicle", ap.VehicleYearMakeModel)

	putPtr("AccidentDate", ad.Date)
	putPtr("AccidentLocation", ad.FullLocation)
	putPtr("AccidentDescription", ad.DescriptionVerbatim)
	putPtr("AccidentType", ad.AccidentType)

	putPtr("PoliceReportNumber", e.ReportMetadata.ReportNumber)
	putPtr("OfficerName", e.ReportMetadata.OfficerName)
	putPtr("Precinct", e.ReportMetadata.Precinct)

	putPtr("StatuteOfLimitationsDate", fields.SOLExtendedISO)

	return m
}
