package models

import (
	"database/sql/driver"
	"encoding/json"
)

// ExtractionConfidence represents the overall confidence of an extraction
type ExtractionConfidence string

const (
	ConfidenceHigh   ExtractionConfidence = "high"
	ConfidenceMedium ExtractionConfidence = "medium"
	ConfidenceLow    ExtractionConfidence = "low"
)

// PartyRole represents a party's role in the accident
type PartyRole string

const (
	RoleVehicle1Driver PartyRole = "vehicle_1_driver"
	RoleVehicle2Driver PartyRole = "vehicle_2_driver"
	RolePedestrian     PartyRole = "pedestrian"
	RoleBicyclist      PartyRole = "bicyclist"
)

// IsVehicleOccupant reports whether plate/vehicle fields apply to this role
func (r PartyRole) IsVehicleOccupant() bool {
	return r != RolePedestrian && r != RoleBicyclist
}

// ReportMetadata holds the identifying fields of the police report itself
type ReportMetadata struct {
	AccidentNumber    *string `json:"accident_number"`
	ReportNumber      *string `json:"report_number"`
	Precinct          *string `json:"precinct"`
	OfficerName       *string `json:"officer_name"`
	OfficerBadgeTaxID *string `json:"officer_badge_tax_id"`
	ReviewingOfficer  *string `json:"reviewing_officer"`
	DateFiled         *string `json:"date_filed"`
}

// AccidentDetails holds the when/where/what of the accident
type AccidentDetails struct {
	Date                *string `json:"date"`
	DayOfWeek           *string `json:"day_of_week"`
	Time                *string `json:"time"`
	LocationRoad        *string `json:"location_road"`
	LocationCrossStreet *string `json:"location_cross_street"`
	LocationBorough     *string `json:"location_borough"`
	FullLocation        *string `json:"full_location"`
	NumVehicles         int     `json:"num_vehicles"`
	NumInjured          int     `json:"num_injured"`
	NumKilled           int     `json:"num_killed"`
	DescriptionVerbatim *string `json:"description_verbatim"`
	AccidentType        *string `json:"accident_type"`
}

// Party represents either side of the accident. Vehicle fields are only
// meaningful when Role is a driver role; for pedestrians and bicyclists the
// composer renders an explanatory fallback instead.
type Party struct {
	Role                 PartyRole `json:"role"`
	FirstName            *string   `json:"first_name"`
	LastName             *string   `json:"last_name"`
	FullName             *string   `json:"full_name"`
	Sex                  *string   `json:"sex"`
	DateOfBirth          *string   `json:"date_of_birth"`
	Address              *string   `json:"address"`
	City                 *string   `json:"city"`
	State                *string   `json:"state"`
	Zip                  *string   `json:"zip"`
	DriversLicense       *string   `json:"drivers_license"`
	PlateNumber          *string   `json:"plate_number"`
	VehicleYearMakeModel *string   `json:"vehicle_year_make_model"`
	VehicleType          *string   `json:"vehicle_type"`
	RegistrationName     *string   `json:"registration_name"`
	InsuranceCode        *string   `json:"insurance_code"`
	Injuries             *string   `json:"injuries,omitempty"`
}

// OtherPerson is a witness or passenger named on the report.
// Informational only; never used in document composition.
type OtherPerson struct {
	Name string `json:"name"`
	Age  int    `json:"age"`
	Sex  string `json:"sex"`
	Role string `json:"role"`
}

// UncertainField flags a field the extractor was not confident about
type UncertainField struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

// CaseExtraction is the structured record pulled from a police accident
// report. It is created by the extraction step, corrected by the human
// reviewer, and read-only once submitted for processing.
type CaseExtraction struct {
	Confidence              ExtractionConfidence `json:"extraction_confidence"`
	ReportMetadata          ReportMetadata       `json:"report_metadata"`
	AccidentDetails         AccidentDetails      `json:"accident_details"`
	ClientParty             *Party               `json:"client_party"`
	AdverseParty            *Party               `json:"adverse_party"`
	OtherPersons            []OtherPerson        `json:"other_involved_persons"`
	UncertainFields         []UncertainField     `json:"uncertain_fields"`
	StatuteOfLimitations8Yr *string              `json:"statute_of_limitations_date_8yr"`
}

// Value implements driver.Valuer for JSONB
func (e CaseExtraction) Value() (driver.Value, error) {
	return json.Marshal(e)
}

// Scan implements sql.Scanner for JSONB
func (e *CaseExtraction) Scan(value interface{}) error {
	if value == nil {
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return nil
	}

	if len(bytes) == 0 {
		return nil
	}

	return json.Unmarshal(bytes, e)
}
