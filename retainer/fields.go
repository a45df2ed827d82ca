// Package retainer derives the downstream field set from a verified case
// extraction and composes the retainer agreement from it. Everything here is
// pure: no I/O, no shared state, and (apart from the missing-party
// precondition) no error paths. Missing input degrades to a visible
// bracketed placeholder so the document always renders and a reviewer can
// spot the gaps.
package retainer

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"caseintake-backend/models"
)

const (
	FirmName     = "Richards & Law"
	AttorneyName = "Andrew Richards"

	// Seasonal consultation-booking links. March through August the firm
	// books in-office meetings; the rest of the year is virtual.
	SchedulingLinkInPerson = "https://calendly.com/swans-santiago-p/summer-spring?month=2026-03"
	SchedulingLinkVirtual  = "https://calendly.com/swans-santiago-p/winter-autumn?month=2026-02"
)

// Placeholders rendered in place of missing data
const (
	PlaceholderAccidentDate = "[Date of Accident]"
	PlaceholderSOLDate      = "[Statute of Limitations Date]"
	PlaceholderLocation     = "[Accident Location]"
	PlaceholderPlateNumber  = "[Registration Plate Number]"
)

// ErrMissingParty is returned when an extraction lacks one of the two
// required parties. Composition cannot proceed without both.
var ErrMissingParty = errors.New("extraction is missing a required party")

// PronounKind selects which pronoun form to derive
type PronounKind int

const (
	Possessive PronounKind = iota // his / her
	Subject                       // he / she
)

const isoDate = "2006-01-02"

// Pronoun maps a recorded sex to a pronoun. The rule is binary by policy:
// "F" or "female" (any case) is feminine; everything else, including nil,
// empty, and unrecognized values, is masculine.
func Pronoun(sex *string, kind PronounKind) string {
	female := sex != nil && (strings.EqualFold(*sex, "F") || strings.EqualFold(*sex, "female"))
	if kind == Possessive {
		if female {
			return "her"
		}
		return "his"
	}
	if female {
		return "she"
	}
	return "he"
}

// GenderLabel is the practice-management system's coarse label for the
// same binary rule Pronoun applies.
func GenderLabel(sex *string) string {
	if sex != nil && (strings.EqualFold(*sex, "F") || strings.EqualFold(*sex, "female")) {
		return "Female"
	}
	return "Male"
}

// FullName returns the party's full name, building it from first and last
// when no full name was extracted. Empty components are concatenated as-is;
// awkward output beats a crash here.
func FullName(p *models.Party) string {
	if p.FullName != nil && *p.FullName != "" {
		return *p.FullName
	}
	return fmt.Sprintf("%s %s", deref(p.FirstName), deref(p.LastName))
}

// FormatLongDate turns an ISO calendar date into its long form
// ("March 4, 2022"). The time of day is pinned to midday before formatting
// so a bare calendar date cannot shift across a timezone boundary. A nil or
// unparseable input yields the placeholder.
func FormatLongDate(iso *string, placeholder string) string {
	t, ok := parseMidday(iso)
	if !ok {
		return placeholder
	}
	return t.Format("January 2, 2006")
}

// StatuteOfLimitations computes a filing deadline. An explicit override wins
// verbatim; otherwise the deadline is the accident date plus yearsOffset
// years, same calendar day and month. Returns nil when neither input exists.
func StatuteOfLimitations(accidentDate, override *string, yearsOffset int) *string {
	if override != nil && *override != "" {
		v := *override
		return &v
	}
	t, ok := parseMidday(accidentDate)
	if !ok {
		return nil
	}
	v := t.AddDate(yearsOffset, 0, 0).Format(isoDate)
	return &v
}

// PlateOrFallback returns the party's plate number, or an explanatory
// fallback for roles that have no vehicle. A stray plate value on a
// pedestrian or bicyclist record is deliberately ignored.
func PlateOrFallback(p *models.Party) string {
	if !p.Role.IsVehicleOccupant() {
		return fmt.Sprintf("N/A (client was a %s)", p.Role)
	}
	if p.PlateNumber != nil && *p.PlateNumber != "" {
		return *p.PlateNumber
	}
	return PlaceholderPlateNumber
}

// SeasonalSchedulingLink picks the booking link for a calendar month:
// March through August is in-person season, September through February is
// virtual.
func SeasonalSchedulingLink(month time.Month, inPerson, virtual string) string {
	if month >= time.March && month <= time.August {
		return inPerson
	}
	return virtual
}

// JoinAddressParts joins the non-empty parts with ", ", preserving order and
// skipping nil and empty entries without leaving stray separators.
func JoinAddressParts(parts ...*string) string {
	kept := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != nil && *p != "" {
			kept = append(kept, *p)
		}
	}
	return strings.Join(kept, ", ")
}

// DerivedFields is everything the composer, the field map, and the email
// need beyond the raw extraction. Two parallel SOL deadlines are tracked on
// purpose: the client-requested 8-year date drives the document, and the
// jurisdiction-standard 3-year date is calendared alongside it.
type DerivedFields struct {
	ClientFullName   string
	DefendantName    string
	ClientPossessive string // his / her
	ClientSubject    string // he / she
	ClientGender     string // Male / Female
	ClientFirstName  string

	AccidentDateISO  *string
	AccidentDateLong string
	Location         string
	PlateNumber      string
	NumInjured       int

	SOLExtendedISO *string // accident + 8y, or the extraction's override
	SOLStandardISO *string // accident + 3y
	SOLExtendedLong string

	ClientAddress    string
	DefendantAddress string
	SchedulingLink   string
}

// Filename is the deterministic name for the generated agreement
func (f *DerivedFields) Filename() string {
	return fmt.Sprintf("%s [Retainer Agreement].pdf", f.ClientFullName)
}

// Derive computes all derived fields from a verified extraction. The only
// failure mode is a missing party; every other gap becomes a placeholder.
// The month of now selects the seasonal scheduling link.
func Derive(e *models.CaseExtraction, now time.Time) (*DerivedFields, error) {
	if e.ClientParty == nil || e.AdverseParty == nil {
		return nil, ErrMissingParty
	}

	cp := e.ClientParty
	ap := e.AdverseParty
	ad := e.AccidentDetails

	solExtended := StatuteOfLimitations(ad.Date, e.StatuteOfLimitations8Yr, 8)
	solStandard := StatuteOfLimitations(ad.Date, nil, 3)

	location := PlaceholderLocation
	if ad.FullLocation != nil && *ad.FullLocation != "" {
		location = *ad.FullLocation
	}

	return &DerivedFields{
		ClientFullName:   FullName(cp),
		DefendantName:    FullName(ap),
		ClientPossessive: Pronoun(cp.Sex, Possessive),
		ClientSubject:    Pronoun(cp.Sex, Subject),
		ClientGender:     GenderLabel(cp.Sex),
		ClientFirstName:  deref(cp.FirstName),

		AccidentDateISO:  ad.Date,
		AccidentDateLong: FormatLongDate(ad.Date, PlaceholderAccidentDate),
		Location:         location,
		PlateNumber:      PlateOrFallback(cp),
		NumInjured:       ad.NumInjured,

		SOLExtendedISO:  solExtended,
		SOLStandardISO:  solStandard,
		SOLExtendedLong: FormatLongDate(solExtended, PlaceholderSOLDate),

		ClientAddress:    JoinAddressParts(cp.Address, cp.City, cp.State, cp.Zip),
		DefendantAddress: JoinAddressParts(ap.Address, ap.City, ap.State, ap.Zip),
		SchedulingLink:   SeasonalSchedulingLink(now.Month(), SchedulingLinkInPerson, SchedulingLinkVirtual),
	}, nil
}

func parseMidday(iso *string) (time.Time, bool) {
	if iso == nil || *iso == "" {
		return time.Time{}, false
	}
	t, err := time.Parse(isoDate, *iso)
	if err != nil {
		return time.Time{}, false
	}
	return time.Date(t.Year(), t.Month(), t.Day(), 12, 0, 0, 0, time.UTC), true
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
