package retainer

import (
	"bytes"
	"strings"
	"time"

	"github.com/go-pdf/fpdf"
)

// Letter page, 1-inch margins, all in points
const (
	pageWidth    = 612.0
	pageHeight   = 792.0
	pageMargin   = 72.0
	contentWidth = pageWidth - 2*pageMargin

	bodySize    = 11.0
	headingSize = 12.0
	titleSize   = 20.0

	bodyLineHeight = bodySize * 1.5
	paragraphGap   = 8.0
)

// headingKeepWith is the space a heading must share a page with: the heading
// itself plus enough of the following paragraph that a section never opens
// at the very bottom of a page.
const headingKeepWith = headingSize*2.5 + 3*bodyLineHeight

type pdfLayout struct {
	pdf *fpdf.Fpdf
	y   float64
}

func (l *pdfLayout) addPage() {
	l.pdf.AddPage()
	l.y = pageMargin
}

// ensure starts a new page when fewer than needed points remain
func (l *pdfLayout) ensure(needed float64) {
	if l.y+needed > pageHeight-pageMargin {
		l.addPage()
	}
}

// wrap splits text into lines by greedy word-packing: words accumulate while
// the measured line width stays under the budget; the overflowing word opens
// the next line. Measurement uses the currently selected font.
func (l *pdfLayout) wrap(text string, maxWidth float64) []string {
	words := strings.Split(text, " ")
	var lines []string
	var current string

	for _, word := range words {
		test := word
		if current != "" {
			test = current + " " + word
		}
		if l.pdf.GetStringWidth(test) > maxWidth && current != "" {
			lines = append(lines, current)
			current = word
		} else {
			current = test
		}
	}
	if current != "" {
		lines = append(lines, current)
	}
	return lines
}

func (l *pdfLayout) drawCentered(text string, size float64) {
	l.ensure(size * 2)
	w := l.pdf.GetStringWidth(text)
	l.pdf.Text((pageWidth-w)/2, l.y+size, text)
	l.y += size * 2
}

// drawHeading centers the heading and draws the underline as a separate rule
func (l *pdfLayout) drawHeading(text string) {
	l.ensure(headingKeepWith)
	l.pdf.SetFont("Times", "B", headingSize)
	l.pdf.SetTextColor(15, 41, 66)
	w := l.pdf.GetStringWidth(text)
	x := (pageWidth - w) / 2
	baseline := l.y + headingSize
	l.pdf.Text(x, baseline, text)
	l.pdf.SetDrawColor(15, 41, 66)
	l.pdf.SetLineWidth(0.5)
	l.pdf.Line(x, baseline+2, x+w, baseline+2)
	l.y += headingSize * 2.5
}

func (l *pdfLayout) drawParagraph(text string, italic bool) {
	style := ""
	if italic {
		style = "I"
	}
	l.pdf.SetFont("Times", style, bodySize)
	l.pdf.SetTextColor(0, 0, 0)

	lines := l.wrap(text, contentWidth)
	l.ensure(float64(len(lines))*bodyLineHeight + paragraphGap)
	for _, line := range lines {
		if l.y+bodyLineHeight > pageHeight-pageMargin {
			l.addPage()
		}
		l.pdf.Text(pageMargin, l.y+bodySize, line)
		l.y += bodyLineHeight
	}
	l.y += paragraphGap
}

func (l *pdfLayout) drawSignature(clientName string) {
	l.y += 20
	l.ensure(120)

	l.pdf.SetFont("Times", "B", bodySize)
	l.pdf.SetTextColor(0, 0, 0)
	l.pdf.Text(pageMargin, l.y+bodySize, "ACCEPTED BY:")
	l.y += 30

	l.pdf.SetFont("Times", "", bodySize)
	l.pdf.Text(pageMargin, l.y+bodySize, "CLIENT ___________________________")
	l.pdf.Text(pageWidth-pageMargin-150, l.y+bodySize, "Date: _______________")
	l.y += 18
	l.pdf.SetFont("Times", "B", bodySize)
	l.pdf.Text(pageMargin, l.y+bodySize, clientName)
	l.y += 30

	l.pdf.SetFont("Times", "", bodySize)
	l.pdf.Text(pageMargin, l.y+bodySize, "Richards & Law Attorney ___________________________")
	l.pdf.Text(pageWidth-pageMargin-150, l.y+bodySize, "Date: _______________")
	l.y += 18
	l.pdf.SetFont("Times", "B", bodySize)
	l.pdf.Text(pageMargin, l.y+bodySize, AttorneyName)
}

// ComposePDF renders the laid-out agreement and returns the document bytes
// with the suggested filename. Output is a pure function of fields and
// creationDate; pass a fixed creationDate for byte-identical reruns.
func ComposePDF(fields *DerivedFields, creationDate time.Time) ([]byte, string, error) {
	pdf := fpdf.New("P", "pt", "Letter", "")
	pdf.SetCreationDate(creationDate)
	// Resource dictionaries are emitted in map order unless sorted; sorting
	// keeps reruns byte-identical.
	pdf.SetCatalogSort(true)
	pdf.SetAutoPageBreak(false, 0)

	layout := &pdfLayout{pdf: pdf}
	layout.addPage()

	for i, block := range Resolve(fields) {
		switch block.Kind {
		case Title:
			pdf.SetFont("Times", "B", titleSize)
			pdf.SetTextColor(15, 41, 66)
			layout.drawCentered(block.Text, titleSize)
			layout.y += 4
		case Heading:
			if i > 1 {
				layout.y += paragraphGap
			}
			layout.drawHeading(block.Text)
			if i == 1 {
				// Extra air between the document title and the opening paragraph
				layout.y += 12
			}
		case Paragraph:
			layout.drawParagraph(block.Text, block.Italic)
		case Signature:
			layout.drawSignature(block.Text)
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, "", err
	}

	return buf.Bytes(), fields.Filename(), nil
}
