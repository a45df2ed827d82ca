package models

import (
	"fmt"
	"strconv"
	"strings"
)

// fieldSetter applies a reviewer-supplied string value to one named field.
// An empty value clears optional fields rather than storing "".
type fieldSetter func(e *CaseExtraction, value string) error

func setString(target func(e *CaseExtraction) **string) fieldSetter {
	return func(e *CaseExtraction, value string) error {
		p := target(e)
		if value == "" {
			*p = nil
			return nil
		}
		v := value
		*p = &v
		return nil
	}
}

func setInt(target func(e *CaseExtraction) *int) fieldSetter {
	return func(e *CaseExtraction, value string) error {
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("not an integer: %q", value)
		}
		if n < 0 {
			return fmt.Errorf("must be >= 0: %d", n)
		}
		*target(e) = n
		return nil
	}
}

func partySetters(prefix string, party func(e *CaseExtraction) *Party, setters map[string]fieldSetter) {
	field := func(pick func(p *Party) **string) func(e *CaseExtraction) **string {
		return func(e *CaseExtraction) **string {
			return pick(party(e))
		}
	}

	setters[prefix+".role"] = func(e *CaseExtraction, value string) error {
		switch PartyRole(value) {
		case RoleVehicle1Driver, RoleVehicle2Driver, RolePedestrian, RoleBicyclist:
			party(e).Role = PartyRole(value)
			return nil
		}
		return fmt.Errorf("unknown role: %q", value)
	}
	setters[prefix+".first_name"] = setString(field(func(p *Party) **string { return &p.FirstName }))
	setters[prefix+".last_name"] = setString(field(func(p *Party) **string { return &p.LastName }))
	setters[prefix+".full_name"] = setString(field(func(p *Party) **string { return &p.FullName }))
	setters[prefix+".sex"] = setString(field(func(p *Party) **string { return &p.Sex }))
	setters[prefix+".date_of_birth"] = setString(field(func(p *Party) **string { return &p.DateOfBirth }))
	setters[prefix+".address"] = setString(field(func(p *Party) **string { return &p.Address }))
	setters[prefix+".city"] = setString(field(func(p *Party) **string { return &p.City }))
	setters[prefix+".state"] = setString(field(func(p *Party) **string { return &p.State }))
	setters[prefix+".zip"] = setString(field(func(p *Party) **string { return &p.Zip }))
	setters[prefix+".drivers_license"] = setString(field(func(p *Party) **string { return &p.DriversLicense }))
	setters[prefix+".plate_number"] = setString(field(func(p *Party) **string { return &p.PlateNumber }))
	setters[prefix+".vehicle_year_make_model"] = setString(field(func(p *Party) **string { return &p.VehicleYearMakeModel }))
	setters[prefix+".vehicle_type"] = setString(field(func(p *Party) **string { return &p.VehicleType }))
	setters[prefix+".registration_name"] = setString(field(func(p *Party) **string { return &p.RegistrationName }))
	setters[prefix+".insurance_code"] = setString(field(func(p *Party) **string { return &p.InsuranceCode }))
	setters[prefix+".injuries"] = setString(field(func(p *Party) **string { return &p.Injuries }))
}

// extractionSetters maps every reviewer-editable field path to its setter.
// The table is fixed at compile time; unknown paths are rejected rather than
// walked reflectively.
var extractionSetters = buildExtractionSetters()

func buildExtractionSetters() map[string]fieldSetter {
	setters := map[string]fieldSetter{
		"report_metadata.accident_number":      setString(func(e *CaseExtraction) **string { return &e.ReportMetadata.AccidentNumber }),
		"report_metadata.report_number":        setString(func(e *CaseExtraction) **string { return &e.ReportMetadata.ReportNumber }),
		"report_metadata.precinct":             setString(func(e *CaseExtraction) **string { return &e.ReportMetadata.Precinct }),
		"report_metadata.officer_name":         setString(func(e *CaseExtraction) **string { return &e.ReportMetadata.OfficerName }),
		"report_metadata.officer_badge_tax_id": setString(func(e *CaseExtraction) **string { return &e.ReportMetadata.OfficerBadgeTaxID }),
		"report_metadata.reviewing_officer":    setString(func(e *CaseExtraction) **string { return &e.ReportMetadata.ReviewingOfficer }),
		"report_metadata.date_filed":           setString(func(e *CaseExtraction) **string { return &e.ReportMetadata.DateFiled }),

		"accident_details.date":                  setString(func(e *CaseExtraction) **string { return &e.AccidentDetails.Date }),
		"accident_details.day_of_week":           setString(func(e *CaseExtraction) **string { return &e.AccidentDetails.DayOfWeek }),
		"accident_details.time":                  setString(func(e *CaseExtraction) **string { return &e.AccidentDetails.Time }),
		"accident_details.location_road":         setString(func(e *CaseExtraction) **string { return &e.AccidentDetails.LocationRoad }),
		"accident_details.location_cross_street": setString(func(e *CaseExtraction) **string { return &e.AccidentDetails.LocationCrossStreet }),
		"accident_details.location_borough":      setString(func(e *CaseExtraction) **string { return &e.AccidentDetails.LocationBorough }),
		"accident_details.full_location":         setString(func(e *CaseExtraction) **string { return &e.AccidentDetails.FullLocation }),
		"accident_details.description_verbatim":  setString(func(e *CaseExtraction) **string { return &e.AccidentDetails.DescriptionVerbatim }),
		"accident_details.accident_type":         setString(func(e *CaseExtraction) **string { return &e.AccidentDetails.AccidentType }),
		"accident_details.num_vehicles":          setInt(func(e *CaseExtraction) *int { return &e.AccidentDetails.NumVehicles }),
		"accident_details.num_injured":           setInt(func(e *CaseExtraction) *int { return &e.AccidentDetails.NumInjured }),
		"accident_details.num_killed":            setInt(func(e *CaseExtraction) *int { return &e.AccidentDetails.NumKilled }),

		"statute_of_limitations_date_8yr": setString(func(e *CaseExtraction) **string { return &e.StatuteOfLimitations8Yr }),
	}

	partySetters("client_party", func(e *CaseExtraction) *Party { return e.ClientParty }, setters)
	partySetters("adverse_party", func(e *CaseExtraction) *Party { return e.AdverseParty }, setters)

	return setters
}

// SetField applies a reviewer correction to the field named by path
// (e.g. "client_party.plate_number"). Unknown paths are an error. Only the
// party the path targets is initialized; a correction elsewhere must not
// conjure a party record out of nothing.
func (e *CaseExtraction) SetField(path, value string) error {
	setter, ok := extractionSetters[path]
	if !ok {
		return fmt.Errorf("unknown extraction field: %q", path)
	}
	if strings.HasPrefix(path, "client_party.") && e.ClientParty == nil {
		e.ClientParty = &Party{}
	}
	if strings.HasPrefix(path, "adverse_party.") && e.AdverseParty == nil {
		e.AdverseParty = &Party{}
	}
	return setter(e, value)
}
