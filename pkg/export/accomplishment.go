package export

import (
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
)

// ReportKind distinguishes the two accomplishment report scopes.
type ReportKind string

const (
	ReportAnnual  ReportKind = "Annual"
	ReportMonthly ReportKind = "Monthly"
)

// OrgHeader carries the organization identity shown on the cover page.
type OrgHeader struct {
	Name string
	Logo *Asset
}

// Summary aggregates the headline counts shown in the cover overview box.
type Summary struct {
	TotalEvents        int
	Completed          int
	Ongoing            int
	Upcoming           int
	UniqueParticipants int
	NewApplications    int
}

// Engagement summarises volunteer sign-ups for a single event.
type Engagement struct {
	Total    int
	Approved int
	Pending  int
	Rejected int
}

// EventPage is everything rendered for one event. Times are raw 24-hour
// "HH:MM" strings; formatting happens at render time.
type EventPage struct {
	ID            string
	Title         string
	Status        string
	Location      string
	Date          time.Time
	StartTime     string
	EndTime       string
	CallTime      string
	Objectives    string
	Description   string
	Expectations  string
	Guidelines    string
	Opportunities string
	Image         *Asset
	Engagement    *Engagement
}

// MonthSection groups events under one calendar month, in render order.
type MonthSection struct {
	Month  time.Month
	Events []EventPage
}

// Report is the fully resolved input to the renderer: all data fetched, all
// assets prefetched, nothing left to block on during layout.
type Report struct {
	Org         OrgHeader
	Kind        ReportKind
	Year        int
	Month       time.Month
	PeriodLabel string
	Sections    []MonthSection
	Summary     Summary
	GeneratedAt time.Time
}

// Filename derives the canonical download name for the rendered PDF.
func (r Report) Filename() string {
	return ReportFilename(r.Org.Name, r.Kind, r.Year, r.Month, "pdf")
}

// ReportFilename derives the canonical download name for a report artifact.
// The month segment is intentionally unpadded.
func ReportFilename(orgName string, kind ReportKind, year int, month time.Month, ext string) string {
	base := sanitizeName(orgName)
	if base == "" {
		base = "NGO"
	}
	if kind == ReportAnnual {
		return fmt.Sprintf("%s_Annual_Report_%d.%s", base, year, ext)
	}
	return fmt.Sprintf("%s_Monthly_Report_%d-%d.%s", base, year, int(month), ext)
}

func sanitizeName(name string) string {
	joined := strings.Join(strings.Fields(strings.TrimSpace(name)), "_")
	var b strings.Builder
	for _, r := range joined {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_', r == '-':
			b.WriteRune(r)
		}
	}
	return b.String()
}

const (
	eventImageMaxW   = 60
	eventImageMaxH   = 60
	watermarkBox     = 30
	watermarkAlpha   = 0.08
	coverLogoBox     = 70
	summaryBoxHeight = 62
)

// AccomplishmentPDF renders organization accomplishment reports.
type AccomplishmentPDF struct {
	logger *zap.Logger
}

// NewAccomplishmentPDF constructs a renderer.
func NewAccomplishmentPDF(logger *zap.Logger) *AccomplishmentPDF {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AccomplishmentPDF{logger: logger}
}

// Render lays out the full report and returns the PDF bytes and page count.
// Layout is single-pass and depends only on the Report value, so identical
// input always produces identical output.
func (a *AccomplishmentPDF) Render(rep Report) ([]byte, int, error) {
	doc := NewDoc(A4Portrait())
	if !rep.GeneratedAt.IsZero() {
		doc.PDF().SetCreationDate(rep.GeneratedAt)
	}

	a.renderCover(doc, rep)

	for _, section := range rep.Sections {
		if rep.Kind == ReportAnnual {
			a.renderMonthSeparator(doc, rep, section.Month)
		}
		for i := range section.Events {
			a.renderEvent(doc, rep, &section.Events[i])
		}
	}

	a.renderFooters(doc, rep)

	data, err := doc.Output()
	if err != nil {
		return nil, 0, err
	}
	a.logger.Debug("report rendered",
		zap.String("org", rep.Org.Name),
		zap.String("kind", string(rep.Kind)),
		zap.Int("pages", doc.PageCount()),
	)
	return data, doc.PageCount(), nil
}

func (a *AccomplishmentPDF) renderCover(doc *Doc, rep Report) {
	geo := doc.Geometry()
	pdf := doc.PDF()
	doc.AddPage()

	if rep.Org.Logo != nil {
		w, h := FitBox(float64(rep.Org.Logo.Width), float64(rep.Org.Logo.Height), coverLogoBox, coverLogoBox)
		x := (geo.PageWidth - w) / 2
		y := 20 + (coverLogoBox-h)/2
		doc.PlaceImage(rep.Org.Logo, x, y, coverLogoBox, coverLogoBox)
	}

	pdf.SetFont("Helvetica", "B", 22)
	pdf.SetTextColor(0, 100, 0)
	a.centerText(doc, 108, rep.Org.Name)

	pdf.SetFont("Helvetica", "B", 18)
	pdf.SetTextColor(0, 0, 0)
	a.centerText(doc, 120, "Organization Accomplishment Report")

	pdf.SetFont("Helvetica", "", 14)
	pdf.SetTextColor(80, 80, 80)
	a.centerText(doc, 132, "Period: "+rep.PeriodLabel)

	boxY := 152.0
	pdf.SetFillColor(245, 250, 245)
	pdf.SetDrawColor(0, 100, 0)
	pdf.SetLineWidth(0.4)
	pdf.RoundedRect(20, boxY, geo.PageWidth-40, summaryBoxHeight, 3, "1234", "FD")

	pdf.SetFont("Helvetica", "B", 14)
	pdf.SetTextColor(0, 100, 0)
	pdf.Text(26, boxY+10, "Summary Overview")

	pdf.SetFont("Helvetica", "", 11)
	pdf.SetTextColor(40, 40, 40)
	lines := []string{
		fmt.Sprintf("Total Events: %d", rep.Summary.TotalEvents),
		fmt.Sprintf("Completed: %d    Ongoing: %d    Upcoming: %d",
			rep.Summary.Completed, rep.Summary.Ongoing, rep.Summary.Upcoming),
		fmt.Sprintf("Unique Participants: %d", rep.Summary.UniqueParticipants),
		fmt.Sprintf("New Volunteer Applications: %d", rep.Summary.NewApplications),
	}
	y := boxY + 20
	for _, line := range lines {
		pdf.Text(26, y, line)
		y += 8
	}
}

func (a *AccomplishmentPDF) renderMonthSeparator(doc *Doc, rep Report, month time.Month) {
	geo := doc.Geometry()
	pdf := doc.PDF()
	doc.AddPage()
	a.renderWatermark(doc, rep)

	midY := geo.PageHeight/2 - 10
	pdf.SetFont("Helvetica", "B", 36)
	pdf.SetTextColor(0, 100, 0)
	a.centerText(doc, midY, month.String())

	pdf.SetFont("Helvetica", "", 24)
	pdf.SetTextColor(120, 120, 120)
	a.centerText(doc, midY+14, fmt.Sprintf("%d", rep.Year))

	pdf.SetDrawColor(0, 100, 0)
	pdf.SetLineWidth(0.6)
	pdf.Line(40, midY+24, geo.PageWidth-40, midY+24)
}

func (a *AccomplishmentPDF) renderEvent(doc *Doc, rep Report, ev *EventPage) {
	geo := doc.Geometry()
	pdf := doc.PDF()
	cur := doc.AddPage()
	a.renderWatermark(doc, rep)

	// Title bar.
	pdf.SetFillColor(235, 247, 235)
	pdf.Rect(14, cur.Y-6, geo.PageWidth-28, 9, "F")
	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetTextColor(0, 100, 0)
	pdf.Text(geo.MarginLeft, cur.Y, ev.Title)
	cur.Y += 10

	// Event image floats on the right; skipped when it cannot fit above the
	// printable bottom on this page.
	imagePlaced := false
	imagePage := cur.Page
	imageBottom := 0.0
	if ev.Image != nil {
		w, h := FitBox(float64(ev.Image.Width), float64(ev.Image.Height), eventImageMaxW, eventImageMaxH)
		if cur.Y+h+10 <= geo.PrintableBottom() {
			x := geo.PageWidth - geo.MarginRight - w
			if _, _, ok := doc.PlaceImage(ev.Image, x, cur.Y, eventImageMaxW, eventImageMaxH); ok {
				pdf.SetDrawColor(200, 200, 200)
				pdf.SetLineWidth(0.2)
				pdf.Rect(x-1, cur.Y-1, w+2, h+2, "D")
				imagePlaced = true
				imageBottom = cur.Y + h
			}
		}
	}

	keyColWidth := geo.ContentWidth()
	if imagePlaced {
		keyColWidth = geo.PageWidth - 90
	}

	timeText := fmt.Sprintf("%s - %s", FormatTime(ev.StartTime), FormatTime(ev.EndTime))
	if d := Duration(ev.StartTime, ev.EndTime); d != "" {
		timeText += fmt.Sprintf(" (%s)", d)
	}

	facts := []Block{
		{Kind: BlockKeyValue, Label: "Event ID:", Text: ev.ID},
		{Kind: BlockKeyValue, Label: "Status:", Text: ev.Status},
		{Kind: BlockKeyValue, Label: "Date:", Text: FormatDate(ev.Date)},
		{Kind: BlockKeyValue, Label: "Time:", Text: timeText},
		{Kind: BlockKeyValue, Label: "Call Time:", Text: FormatTime(ev.CallTime)},
		{Kind: BlockKeyValue, Label: "Location:", Text: fallback(ev.Location, "TBA")},
	}
	for _, b := range facts {
		cur = doc.WriteBlock(cur, b, keyColWidth)
	}

	// Drop below the image before full-width sections start.
	if imagePlaced && cur.Page == imagePage && cur.Y < imageBottom+5 {
		cur.Y = imageBottom + 5
	}
	cur.Y += blockGap

	fullWidth := geo.ContentWidth()
	for _, s := range eventSections(ev) {
		if len(s.Items) == 0 {
			continue
		}
		cur = doc.WriteBlock(cur, Block{Kind: BlockHeading, Label: s.Label}, fullWidth)
		cur = doc.WriteBlock(cur, Block{Kind: BlockBullets, Items: s.Items}, fullWidth)
	}

	if ev.Engagement != nil {
		cur = doc.WriteBlock(cur, Block{Kind: BlockHeading, Label: "Volunteer Engagement:"}, fullWidth)
		doc.WriteBlock(cur, Block{Kind: BlockBullets, Items: []string{
			fmt.Sprintf("Total Registered: %d", ev.Engagement.Total),
			fmt.Sprintf("Approved: %d", ev.Engagement.Approved),
			fmt.Sprintf("Pending: %d", ev.Engagement.Pending),
			fmt.Sprintf("Rejected: %d", ev.Engagement.Rejected),
		}}, fullWidth)
	}
}

// renderFooters stamps page numbers and the generation timestamp on every
// page once the total count is known.
func (a *AccomplishmentPDF) renderFooters(doc *Doc, rep Report) {
	geo := doc.Geometry()
	pdf := doc.PDF()
	total := doc.PageCount()
	stamp := rep.GeneratedAt.Format("January 2, 2006, 3:04 PM")
	for page := 1; page <= total; page++ {
		pdf.SetPage(page)
		pdf.SetFont("Helvetica", "", 8)
		pdf.SetTextColor(100, 100, 100)
		pdf.Text(14, geo.PageHeight-10, "Generated: "+stamp)
		label := fmt.Sprintf("Page %d of %d", page, total)
		x := (geo.PageWidth - pdf.GetStringWidth(label)) / 2
		pdf.Text(x, geo.PageHeight-10, label)
	}
	pdf.SetPage(total)
}

func (a *AccomplishmentPDF) renderWatermark(doc *Doc, rep Report) {
	if rep.Org.Logo == nil {
		return
	}
	geo := doc.Geometry()
	doc.PlaceImageAlpha(rep.Org.Logo,
		geo.PageWidth-geo.MarginRight-watermarkBox,
		geo.PageHeight-46,
		watermarkBox, watermarkBox, watermarkAlpha)
}

func (a *AccomplishmentPDF) centerText(doc *Doc, y float64, text string) {
	geo := doc.Geometry()
	pdf := doc.PDF()
	x := (geo.PageWidth - pdf.GetStringWidth(text)) / 2
	pdf.Text(x, y, text)
}

func fallback(value, def string) string {
	if strings.TrimSpace(value) == "" {
		return def
	}
	return value
}

func paragraphItems(text string) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	return []string{text}
}

type eventSection struct {
	Label string
	Items []string
}

// eventSections lists the free-text sections in their fixed render order.
// The description stays a single paragraph; everything else bullet-splits.
func eventSections(ev *EventPage) []eventSection {
	return []eventSection{
		{"Event Objectives:", SplitBullets(ev.Objectives)},
		{"Event Description:", paragraphItems(ev.Description)},
		{"What to Expect:", SplitBullets(ev.Expectations)},
		{"Volunteer Guidelines:", SplitBullets(ev.Guidelines)},
		{"Volunteer Opportunities:", SplitBullets(ev.Opportunities)},
	}
}
