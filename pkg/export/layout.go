package export

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"
)

// Geometry holds the page measurements, in millimetres, that the layout
// engine paginates against.
type Geometry struct {
	PageWidth     float64
	PageHeight    float64
	MarginLeft    float64
	MarginTop     float64
	MarginRight   float64
	BottomReserve float64
}

// A4Portrait is the geometry every accomplishment report renders with.
func A4Portrait() Geometry {
	return Geometry{
		PageWidth:     210,
		PageHeight:    297,
		MarginLeft:    16,
		MarginTop:     25,
		MarginRight:   16,
		BottomReserve: 30,
	}
}

// PrintableBottom is the lowest Y a content line may start at.
func (g Geometry) PrintableBottom() float64 {
	return g.PageHeight - g.BottomReserve
}

// ContentWidth is the full printable column width.
func (g Geometry) ContentWidth() float64 {
	return g.PageWidth - g.MarginLeft - g.MarginRight
}

// Cursor tracks the write position during layout. Page is 1-based.
type Cursor struct {
	Page int
	Y    float64
}

// BlockKind selects how a Block is rendered.
type BlockKind int

const (
	BlockHeading BlockKind = iota
	BlockKeyValue
	BlockBullets
	BlockParagraph
)

// Block is one unit of flowable report content. Label carries the heading or
// key text, Text the value or paragraph body, Items the bullet strings.
type Block struct {
	Kind  BlockKind
	Label string
	Text  string
	Items []string
}

const (
	lineHeight     = 5
	headingAdvance = 6
	blockGap       = 3
	keyColumnX     = 40
	bulletIndent   = 4
	bulletTextGap  = 6
)

// Doc wraps a PDF document with explicit cursor-driven pagination. Automatic
// page breaking is disabled; every write goes through an overflow check so a
// line never lands below PrintableBottom.
type Doc struct {
	pdf      *gofpdf.Fpdf
	geo      Geometry
	images   map[*Asset]string
	imageSeq int
}

// NewDoc creates an empty document with the given geometry.
func NewDoc(geo Geometry) *Doc {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetMargins(geo.MarginLeft, geo.MarginTop, geo.MarginRight)
	return &Doc{
		pdf:    pdf,
		geo:    geo,
		images: make(map[*Asset]string),
	}
}

// Geometry returns the document geometry.
func (d *Doc) Geometry() Geometry {
	return d.geo
}

// PDF exposes the underlying document for direct drawing (covers, separators,
// footers). Flowable content should go through WriteBlock instead.
func (d *Doc) PDF() *gofpdf.Fpdf {
	return d.pdf
}

// AddPage starts a fresh page and returns a cursor at the top margin.
func (d *Doc) AddPage() Cursor {
	d.pdf.AddPage()
	return Cursor{Page: d.pdf.PageNo(), Y: d.geo.MarginTop}
}

// PageCount reports the number of pages emitted so far.
func (d *Doc) PageCount() int {
	return d.pdf.PageCount()
}

// EnsureRoom breaks to a new page when fewer than needed millimetres remain
// below the cursor.
func (d *Doc) EnsureRoom(cur Cursor, needed float64) Cursor {
	if cur.Y+needed > d.geo.PrintableBottom() {
		return d.AddPage()
	}
	return cur
}

// WriteBlock renders a block at the cursor, wrapping text to colWidth and
// breaking pages line by line. It returns the advanced cursor.
func (d *Doc) WriteBlock(cur Cursor, b Block, colWidth float64) Cursor {
	switch b.Kind {
	case BlockHeading:
		return d.writeHeading(cur, b.Label)
	case BlockKeyValue:
		return d.writeKeyValue(cur, b.Label, b.Text, colWidth)
	case BlockBullets:
		return d.writeBullets(cur, b.Items, colWidth)
	case BlockParagraph:
		return d.writeParagraph(cur, b.Text, colWidth)
	default:
		return cur
	}
}

func (d *Doc) writeHeading(cur Cursor, label string) Cursor {
	cur = d.EnsureRoom(cur, headingAdvance)
	d.pdf.SetFont("Helvetica", "B", 10)
	d.pdf.SetTextColor(0, 100, 0)
	d.pdf.Text(d.geo.MarginLeft, cur.Y, label)
	cur.Y += headingAdvance
	return cur
}

func (d *Doc) writeKeyValue(cur Cursor, label, value string, colWidth float64) Cursor {
	cur = d.EnsureRoom(cur, lineHeight)
	d.pdf.SetFont("Helvetica", "B", 10)
	d.pdf.SetTextColor(0, 0, 0)
	d.pdf.Text(d.geo.MarginLeft, cur.Y, label)

	valueWidth := colWidth - (keyColumnX - d.geo.MarginLeft)
	if valueWidth < 10 {
		valueWidth = 10
	}
	d.pdf.SetFont("Helvetica", "", 10)
	lines := d.pdf.SplitText(value, valueWidth)
	if len(lines) == 0 {
		lines = []string{""}
	}
	for i, line := range lines {
		if i > 0 {
			cur = d.EnsureRoom(cur, lineHeight)
			// Font resets on page break carry-over.
			d.pdf.SetFont("Helvetica", "", 10)
		}
		d.pdf.Text(keyColumnX, cur.Y, line)
		cur.Y += lineHeight
	}
	if len(lines) == 1 && headingAdvance > lineHeight {
		cur.Y += headingAdvance - lineHeight
	}
	return cur
}

func (d *Doc) writeBullets(cur Cursor, items []string, colWidth float64) Cursor {
	d.pdf.SetFont("Helvetica", "", 10)
	d.pdf.SetTextColor(40, 40, 40)
	textWidth := colWidth - bulletIndent - bulletTextGap
	if textWidth < 10 {
		textWidth = 10
	}
	for _, item := range items {
		lines := d.pdf.SplitText(item, textWidth)
		for i, line := range lines {
			cur = d.EnsureRoom(cur, lineHeight)
			d.pdf.SetFont("Helvetica", "", 10)
			if i == 0 {
				d.pdf.Text(d.geo.MarginLeft+bulletIndent, cur.Y, "•")
			}
			d.pdf.Text(d.geo.MarginLeft+bulletIndent+bulletTextGap, cur.Y, line)
			cur.Y += lineHeight
		}
	}
	cur.Y += blockGap
	return cur
}

func (d *Doc) writeParagraph(cur Cursor, text string, colWidth float64) Cursor {
	d.pdf.SetFont("Helvetica", "", 10)
	d.pdf.SetTextColor(40, 40, 40)
	lines := d.pdf.SplitText(text, colWidth)
	for _, line := range lines {
		cur = d.EnsureRoom(cur, lineHeight)
		d.pdf.SetFont("Helvetica", "", 10)
		d.pdf.Text(d.geo.MarginLeft, cur.Y, line)
		cur.Y += lineHeight
	}
	cur.Y += blockGap
	return cur
}

// PlaceImage draws an asset at the given box, preserving aspect ratio. The
// name registration is cached per asset so repeated placements (watermarks)
// embed the image once.
func (d *Doc) PlaceImage(a *Asset, x, y, maxW, maxH float64) (w, h float64, ok bool) {
	if a == nil || len(a.Data) == 0 {
		return 0, 0, false
	}
	name, err := d.registerAsset(a)
	if err != nil {
		return 0, 0, false
	}
	w, h = FitBox(float64(a.Width), float64(a.Height), maxW, maxH)
	d.pdf.ImageOptions(name, x, y, w, h, false, gofpdf.ImageOptions{ImageType: a.Format}, 0, "")
	return w, h, true
}

// PlaceImageAlpha draws the asset with the given opacity, restoring full
// opacity afterwards.
func (d *Doc) PlaceImageAlpha(a *Asset, x, y, maxW, maxH, alpha float64) (w, h float64, ok bool) {
	d.pdf.SetAlpha(alpha, "Normal")
	w, h, ok = d.PlaceImage(a, x, y, maxW, maxH)
	d.pdf.SetAlpha(1.0, "Normal")
	return w, h, ok
}

func (d *Doc) registerAsset(a *Asset) (string, error) {
	if name, found := d.images[a]; found {
		return name, nil
	}
	d.imageSeq++
	name := fmt.Sprintf("asset-%d", d.imageSeq)
	opts := gofpdf.ImageOptions{ImageType: a.Format}
	d.pdf.RegisterImageOptionsReader(name, opts, bytes.NewReader(a.Data))
	if d.pdf.Err() {
		return "", d.pdf.Error()
	}
	d.images[a] = name
	return name, nil
}

// Output serialises the document.
func (d *Doc) Output() ([]byte, error) {
	var buf bytes.Buffer
	if err := d.pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("serialize pdf: %w", err)
	}
	return buf.Bytes(), nil
}
