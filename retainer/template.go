package retainer

import (
	"fmt"
	"strings"
)

// The agreement template exists in two placeholder syntaxes for two
// different merge engines. Both are serializations of the same canonical
// skeleton; neither re-derives any field logic.
//
// The merge-field syntax is the practice-management document engine's
// native one: <<CF:Field>> for substitution and <<CF:Field=V?a:b>> /
// <<CF:Field!=0?...>> for conditionals, so the injury branch and pronouns
// stay conditional inside the template itself.
//
// The dotted-path syntax ({{fields.client_full_name}}) targets automation
// platforms whose merge step has no conditionals; for those, both injury
// variants are emitted with an explicit keep/delete instruction for the
// operator.

// TemplateRenderer serializes one token into one placeholder syntax
type TemplateRenderer interface {
	// FieldToken renders the placeholder for a canonical field
	FieldToken(f Field) string
	// PronounTokenFor renders the placeholder for a client pronoun
	PronounTokenFor(kind PronounKind) string
	// ConditionalBlock wraps a fully rendered paragraph in the syntax's
	// conditional construct (or its documented fallback)
	ConditionalBlock(cond Condition, text string) string
}

// MergeFieldRenderer emits the practice-management merge-field syntax
type MergeFieldRenderer struct{}

func (MergeFieldRenderer) FieldToken(f Field) string {
	return fmt.Sprintf("<<CF:%s>>", f)
}

func (MergeFieldRenderer) PronounTokenFor(kind PronounKind) string {
	if kind == Possessive {
		return fmt.Sprintf("<<CF:%s=Male?his:her>>", FieldClientGender)
	}
	return fmt.Sprintf("<<CF:%s=Male?he:she>>", FieldClientGender)
}

func (MergeFieldRenderer) ConditionalBlock(cond Condition, text string) string {
	switch cond {
	case IfInjured:
		return fmt.Sprintf("<<CF:%s!=0?%s>>", FieldNumberInjured, text)
	case IfNotInjured:
		return fmt.Sprintf("<<CF:%s=0?%s>>", FieldNumberInjured, text)
	default:
		return text
	}
}

// PathTokenRenderer emits the dotted-path syntax. Its target engine has no
// conditionals, so conditional paragraphs carry an operator instruction.
type PathTokenRenderer struct{}

// pathNames maps canonical fields to their dotted paths. Every entry must
// name a field the deriver supplies.
var pathNames = map[Field]string{
	FieldClientFullName:           "fields.client_full_name",
	FieldClientGender:             "fields.client_gender",
	FieldDefendantName:            "fields.defendant_name",
	FieldAccidentDate:             "fields.accident_date",
	FieldAccidentLocation:         "fields.accident_location",
	FieldClientPlateNumber:        "fields.client_plate_number",
	FieldNumberInjured:            "fields.number_injured",
	FieldStatuteOfLimitationsDate: "fields.statute_of_limitations_date",
}

func (PathTokenRenderer) FieldToken(f Field) string {
	return fmt.Sprintf("{{%s}}", pathNames[f])
}

func (PathTokenRenderer) PronounTokenFor(kind PronounKind) string {
	if kind == Possessive {
		return "{{fields.client_pronoun_possessive}}"
	}
	return "{{fields.client_pronoun_subject}}"
}

func (PathTokenRenderer) ConditionalBlock(cond Condition, text string) string {
	switch cond {
	case IfInjured:
		return "[KEEP THIS PARAGRAPH ONLY IF ANY INJURIES WERE REPORTED; DELETE OTHERWISE]\n" + text
	case IfNotInjured:
		return "[KEEP THIS PARAGRAPH ONLY IF NO INJURIES WERE REPORTED; DELETE OTHERWISE]\n" + text
	default:
		return text
	}
}

// RenderTemplate serializes the canonical skeleton with the given renderer.
// Headings are kept on their own lines; paragraphs are separated by blank
// lines. The output is the static template handed to the merge engine, not
// a rendered document.
func RenderTemplate(r TemplateRenderer) string {
	var b strings.Builder

	for _, block := range Skeleton() {
		var text strings.Builder
		for _, seg := range block.Segments {
			if seg.Token == nil {
				text.WriteString(seg.Text)
				continue
			}
			switch seg.Token.Kind {
			case FieldToken:
				text.WriteString(r.FieldToken(seg.Token.Field))
			case PronounToken:
				text.WriteString(r.PronounTokenFor(seg.Token.Pronoun))
			}
		}

		switch block.Kind {
		case Title, Heading:
			b.WriteString(text.String())
			b.WriteString("\n\n")
		case Paragraph:
			b.WriteString(r.ConditionalBlock(block.Condition, text.String()))
			b.WriteString("\n\n")
		case Signature:
			b.WriteString("ACCEPTED BY:\n\n")
			b.WriteString("CLIENT ___________________________ Date: _____________________\n")
			b.WriteString(text.String())
			b.WriteString("\n\n")
			b.WriteString("Richards & Law Attorney _________________________ Date: _____________________\n")
			b.WriteString("<<Matter.ResponsibleAttorney.Name>>\n")
		}
	}

	return b.String()
}

// TemplateTokens lists the canonical fields referenced by the skeleton, in
// order of first appearance. Used to verify the template never references a
// field the deriver cannot supply.
func TemplateTokens() []Field {
	seen := make(map[Field]bool)
	var out []Field

	add := func(f Field) {
		if !seen[f] {
			seen[f] = true
			out = append(out, f)
		}
	}

	for _, block := range Skeleton() {
		if block.Condition != Always {
			add(FieldNumberInjured)
		}
		for _, seg := range block.Segments {
			if seg.Token == nil {
				continue
			}
			switch seg.Token.Kind {
			case FieldToken:
				add(seg.Token.Field)
			case PronounToken:
				add(FieldClientGender)
			}
		}
	}

	return out
}
