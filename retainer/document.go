package retainer

// Field names the canonical placeholder vocabulary shared by every
// rendering of the agreement. Each field corresponds 1:1 to a key the
// practice-management field map supplies.
type Field string

const (
	FieldClientFullName           Field = "ClientFullName"
	FieldClientGender             Field = "ClientGender"
	FieldDefendantName            Field = "DefendantName"
	FieldAccidentDate             Field = "AccidentDate"
	FieldAccidentLocation         Field = "AccidentLocation"
	FieldClientPlateNumber        Field = "ClientPlateNumber"
	FieldNumberInjured            Field = "NumberInjured"
	FieldStatuteOfLimitationsDate Field = "StatuteOfLimitationsDate"
)

// TokenKind distinguishes plain field substitution from pronoun
// substitution, which the merge-field syntax expresses as a conditional on
// the client's gender rather than as a stored value.
type TokenKind int

const (
	FieldToken TokenKind = iota
	PronounToken
)

// Token is one placeholder in the canonical skeleton
type Token struct {
	Kind    TokenKind
	Field   Field       // for FieldToken
	Pronoun PronounKind // for PronounToken
}

// Segment is a run of literal text or a single token
type Segment struct {
	Text  string
	Token *Token
}

func lit(s string) Segment { return Segment{Text: s} }
func fld(f Field) Segment  { return Segment{Token: &Token{Kind: FieldToken, Field: f}} }
func pro(k PronounKind) Segment {
	return Segment{Token: &Token{Kind: PronounToken, Pronoun: k}}
}

// BlockKind determines a block's layout treatment
type BlockKind int

const (
	Title     BlockKind = iota // centered firm header
	Heading                    // centered, underlined section heading
	Paragraph                  // wrapped body text
	Signature                  // signature block at the document end
)

// Condition gates the single content branch in the agreement
type Condition int

const (
	Always Condition = iota
	IfInjured
	IfNotInjured
)

// Block is one unit of the fixed paragraph sequence
type Block struct {
	Kind      BlockKind
	Condition Condition
	Italic    bool
	Segments  []Segment
}

// agreementSkeleton is the fixed, ordered paragraph sequence of the retainer
// agreement. It is not configurable at runtime; the only branch point is the
// injured/not-injured paragraph pair.
var agreementSkeleton = []Block{
	{Kind: Title, Segments: []Segment{lit("RICHARDS & LAW")}},
	{Kind: Heading, Segments: []Segment{lit("CONTRACT FOR EMPLOYMENT OF ATTORNEYS")}},

	{Kind: Paragraph, Segments: []Segment{
		lit(`This Retainer Agreement ("Agreement") is entered into between `),
		fld(FieldClientFullName),
		lit(` ("Client") and Richards & Law ("Attorney"), for the purpose of providing legal representation related to the damages sustained in an incident that occurred on `),
		fld(FieldAccidentDate),
		lit(". By executing this Agreement, Client employs Attorney to investigate, pursue, negotiate, and, if necessary, litigate claims for damages against "),
		fld(FieldDefendantName),
		lit(" who may be responsible for such damages suffered by Client as a result of "),
		pro(Possessive),
		lit(" accident."),
	}},

	{Kind: Paragraph, Segments: []Segment{
		lit(`Representation under this Agreement is expressly limited to the matter described herein ("the Claim") and does not extend to any other legal issues unless separately agreed to in writing by both Client and Attorney. Attorney does not provide tax, accounting, or financial advisory services, and any such issues are outside the scope of this representation. Client is encouraged to consult separate professionals for such matters, as those responsibilities remain `),
		pro(Possessive),
		lit(" own."),
	}},

	{Kind: Heading, Segments: []Segment{lit("Scope of Representation")}},

	{Kind: Paragraph, Segments: []Segment{
		lit("Attorney shall undertake all reasonable and necessary legal efforts to diligently protect and advance Client's interests in the Claim, extending to both settlement negotiations and litigation proceedings where appropriate. Client agrees to cooperate fully by providing truthful information, timely responses, and all relevant documents or records as requested. Client acknowledges that "),
		pro(Possessive),
		lit(" cooperation is essential to the effective handling of the Claim."),
	}},

	{Kind: Heading, Segments: []Segment{lit("Accident Details & Insurance")}},

	{Kind: Paragraph, Segments: []Segment{
		lit("The incident giving rise to this Claim occurred at "),
		fld(FieldAccidentLocation),
		lit(". At the time of the accident, Client was operating or occupying a vehicle bearing registration plate number "),
		fld(FieldClientPlateNumber),
		lit(". The circumstances surrounding the incident, including the actions of the involved parties and any contributing factors, will be further investigated by Attorney as part of the representation under this Agreement."),
	}},

	{Kind: Paragraph, Segments: []Segment{
		lit("Attorney is authorized to investigate the liability aspects of the incident, including the collection of police reports, witness statements, and property damage appraisals to determine the full extent of recoverable damages. Client understands that preserving evidence and providing truthful disclosures regarding the events leading to the loss are material obligations under this Agreement. This investigation will serve as the basis for identifying all applicable insurance coverage and responsible parties."),
	}},

	{Kind: Paragraph, Condition: IfInjured, Italic: true, Segments: []Segment{
		lit("Additionally, since the motor vehicle accident involved an injured person, Attorney will also investigate potential bodily injury claims and review relevant medical records to substantiate non-economic damages."),
	}},

	{Kind: Paragraph, Condition: IfNotInjured, Italic: true, Segments: []Segment{
		lit("However, since the motor vehicle accident involved no reported injured people, the scope of this engagement is strictly limited to the recovery of property damage and loss of use."),
	}},

	{Kind: Heading, Segments: []Segment{lit("Litigation Expenses")}},

	{Kind: Paragraph, Segments: []Segment{
		lit(`Attorney will advance all reasonable costs and expenses necessary for the proper handling of the Claim ("Litigation Expenses"). Such expenses may include, but are not limited to, court filing fees, deposition costs, expert witness fees, medical record retrieval, travel expenses, investigative services, and administrative charges associated with case management.`),
	}},

	{Kind: Paragraph, Segments: []Segment{
		lit("These Litigation Expenses will be reimbursed to Attorney from Client's share of the recovery in addition to the contingency fee. Client understands that these expenses are separate from medical bills, liens, or other financial obligations for which "),
		pro(Subject),
		lit(" may remain personally responsible."),
	}},

	{Kind: Heading, Segments: []Segment{lit("Liens, Subrogation, and Other Obligations")}},

	{Kind: Paragraph, Segments: []Segment{
		lit("Client understands that certain parties, such as healthcare providers, insurers, or government agencies (including Medicare or Medicaid), may have a legal right to reimbursement for payments made on Client's behalf. These are commonly referred to as liens or subrogation claims, and may affect the final amount received by Client from "),
		pro(Possessive),
		lit(" settlement or judgment."),
	}},

	{Kind: Paragraph, Segments: []Segment{
		lit("Client hereby authorizes Attorney to negotiate, settle, and satisfy such claims from the proceeds of any recovery. Attorney may engage specialized lien resolution services or other professionals to assist in this process, and the cost of such services shall be treated as a Litigation Expense."),
	}},

	{Kind: Heading, Segments: []Segment{lit("Statute of Limitations")}},

	{Kind: Paragraph, Segments: []Segment{
		lit("Attorney will monitor and calculate the deadline for filing the Claim in accordance with applicable law. Based on current information, the statute of limitations for this matter is "),
		fld(FieldStatuteOfLimitationsDate),
		lit(". Client acknowledges the importance of timely cooperation in providing documents, records, and information necessary for Attorney to meet all legal deadlines."),
	}},

	{Kind: Heading, Segments: []Segment{lit("Termination of Representation")}},

	{Kind: Paragraph, Segments: []Segment{
		lit("Either party may terminate this Agreement upon reasonable written notice. If Client terminates this Agreement after substantial work has been performed, Attorney may assert a claim for attorney's fees based on the reasonable value of services rendered, payable from any eventual recovery. Client agrees that "),
		pro(Possessive),
		lit(" obligation to compensate Attorney in such cases shall be limited to the reasonable value of the services rendered up to the point of termination."),
	}},

	{Kind: Signature, Segments: []Segment{fld(FieldClientFullName)}},
}

// Skeleton returns the canonical block sequence. Callers must not mutate it.
func Skeleton() []Block {
	return agreementSkeleton
}

// documentFieldValues resolves the canonical fields against derived values
// for the laid-out document. Dates render in long form here; the flat field
// map keeps them ISO.
func documentFieldValue(f Field, fields *DerivedFields) string {
	switch f {
	case FieldClientFullName:
		return fields.ClientFullName
	case FieldClientGender:
		return fields.ClientGender
	case FieldDefendantName:
		return fields.DefendantName
	case FieldAccidentDate:
		return fields.AccidentDateLong
	case FieldAccidentLocation:
		return fields.Location
	case FieldClientPlateNumber:
		return fields.PlateNumber
	case FieldStatuteOfLimitationsDate:
		return fields.SOLExtendedLong
	default:
		return ""
	}
}

// ResolvedBlock is a block with every token substituted and the injury
// branch decided
type ResolvedBlock struct {
	Kind   BlockKind
	Italic bool
	Text   string
}

// Resolve substitutes derived fields into the skeleton and selects the
// injury branch: any reported injury picks the bodily-injury paragraph,
// zero picks the property-damage-only paragraph.
func Resolve(fields *DerivedFields) []ResolvedBlock {
	injured := fields.NumInjured > 0

	resolved := make([]ResolvedBlock, 0, len(agreementSkeleton))
	for _, b := range agreementSkeleton {
		if b.Condition == IfInjured && !injured {
			continue
		}
		if b.Condition == IfNotInjured && injured {
			continue
		}

		var text string
		for _, seg := range b.Segments {
			if seg.Token == nil {
				text += seg.Text
				continue
			}
			switch seg.Token.Kind {
			case PronounToken:
				if seg.Token.Pronoun == Possessive {
					text += fields.ClientPossessive
				} else {
					text += fields.ClientSubject
				}
			case FieldToken:
				text += documentFieldValue(seg.Token.Field, fields)
			}
		}

		resolved = append(resolved, ResolvedBlock{Kind: b.Kind, Italic: b.Italic, Text: text})
	}

	return resolved
}
