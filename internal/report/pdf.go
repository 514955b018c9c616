package report

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"regexp"
	"strings"

	"report-forge/internal/model"

	"github.com/jung-kurt/gofpdf"
)

// A4 portrait, millimeter units. Content that would cross pageBottomY
// starts a new page; the footer band below it is reserved on every page.
const (
	pageBottomY = 250.0
	contentTopY = 20.0
	footerY     = 285.0

	// Where the page count starts in the footer. The prefix before it is
	// right-aligned to this x, keeping the footer stable regardless of how
	// many digits the final count has.
	footerCountX = 196.0

	logoBoxX = 145.0
	logoBoxY = 15.0
	logoBoxW = 45.0
	logoBoxH = 20.0
)

const footerAttribution = "Generated by Report Forge"

type badgeStyle struct {
	fg [3]int
	bg [3]int
}

// statusBadges maps every task status to its badge colors. Exhaustiveness
// over model.Statuses is asserted in tests.
var statusBadges = map[model.Status]badgeStyle{
	model.StatusDone:       {fg: [3]int{16, 185, 129}, bg: [3]int{235, 253, 245}}, // emerald
	model.StatusInProgress: {fg: [3]int{37, 99, 235}, bg: [3]int{239, 246, 255}},  // blue
	model.StatusPending:    {fg: [3]int{217, 119, 6}, bg: [3]int{255, 251, 235}},  // amber
	model.StatusCancelled:  {fg: [3]int{100, 116, 139}, bg: [3]int{241, 245, 249}}, // slate
}

var whitespaceRun = regexp.MustCompile(`\s+`)

// FileName builds the download name: Report_<date>_<employee>.pdf with
// whitespace in the name replaced by underscores.
func FileName(rep model.ReportData) string {
	name := whitespaceRun.ReplaceAllString(strings.TrimSpace(rep.Employee.Name), "_")
	return fmt.Sprintf("Report_%s_%s.pdf", rep.Date, name)
}

// RenderPDF lays the report out as a paginated A4 document and returns the
// document bytes together with the download file name.
func RenderPDF(rep model.ReportData, company model.CompanyInfo) ([]byte, string, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(false, 0)
	pdf.AliasNbPages("")
	pdf.SetFooterFunc(func() {
		pdf.SetFont("Helvetica", "", 8)
		pdf.SetTextColor(180, 180, 180)
		textCentered(pdf, 105, footerY, footerAttribution)
		// The {nb} token is substituted after layout, so its literal width
		// must not drive the placement. Anchor the prefix to end at a fixed
		// x and let the substituted count run rightward from there.
		prefix := fmt.Sprintf("Page %d of ", pdf.PageNo())
		pdf.Text(footerCountX-pdf.GetStringWidth(prefix), footerY, prefix+"{nb}")
	})
	pdf.AddPage()

	brandColor := company.BrandColor
	if brandColor == "" {
		brandColor = model.DefaultBrandColor
	}
	br, bg, bb := hexToRGB(brandColor)

	// Header pill, tinted with the brand color.
	pdf.SetFillColor(br, bg, bb)
	pdf.RoundedRect(15, 15, 45, 6, 2, "1234", "F")
	pdf.SetTextColor(255, 255, 255)
	pdf.SetFont("Helvetica", "B", 7)
	textCentered(pdf, 37.5, 19, "OFFICIAL DOCUMENTATION")

	pdf.SetTextColor(15, 23, 42)
	pdf.SetFont("Helvetica", "B", 24)
	pdf.Text(15, 32, Clean(company.Name))

	pdf.SetTextColor(150, 150, 150)
	pdf.SetFont("Helvetica", "B", 9)
	pdf.Text(15, 38, "DAILY WORK REPORT")

	drawLogo(pdf, company)

	pdf.SetDrawColor(240, 240, 240)
	pdf.SetLineWidth(0.2)
	pdf.Line(15, 50, 195, 50)

	// Personnel grid.
	const gridY = 60.0
	pdf.SetFont("Helvetica", "B", 8)
	pdf.SetTextColor(180, 180, 180)
	pdf.Text(15, gridY, "NAME")
	pdf.Text(75, gridY, "DATE")
	pdf.Text(135, gridY, "PROJECT")

	pdf.SetFont("Helvetica", "", 10)
	pdf.SetTextColor(15, 23, 42)
	if name := Clean(rep.Employee.Name); IsMeaningful(name) {
		pdf.Text(15, gridY+6, name)
	}
	pdf.Text(75, gridY+6, longDate(rep.Date))
	if project := Clean(rep.Project); IsMeaningful(project) {
		pdf.Text(135, gridY+6, project)
	}
	if role := Clean(rep.Employee.Role); IsMeaningful(role) {
		pdf.SetFont("Helvetica", "", 8)
		pdf.SetTextColor(180, 180, 180)
		pdf.Text(15, gridY+11, role)
	}

	currentY := gridY + 25

	// Executive summary.
	var bullets []string
	for _, b := range rep.SummaryBullets {
		if c := Clean(b); IsMeaningful(c) {
			bullets = append(bullets, c)
		}
	}
	if len(bullets) > 0 {
		pdf.SetFont("Helvetica", "B", 8)
		pdf.SetTextColor(15, 23, 42)
		pdf.Text(15, currentY, "• EXECUTIVE SUMMARY")
		currentY += 8

		pdf.SetFont("Helvetica", "", 10)
		pdf.SetTextColor(80, 80, 80)
		for _, bullet := range bullets {
			lines := pdf.SplitText(bullet, 170)
			pdf.SetDrawColor(240, 240, 240)
			pdf.SetLineWidth(0.5)
			pdf.Line(15, currentY-2, 15, currentY+float64(len(lines))*6-2)
			for i, ln := range lines {
				pdf.Text(20, currentY+float64(i)*6, ln)
			}
			currentY += float64(len(lines))*6 + 4
		}
	}

	// Task documentation.
	var tasks []model.Task
	for _, t := range rep.Tasks {
		if IsMeaningful(Clean(t.Task)) {
			tasks = append(tasks, t)
		}
	}
	if len(tasks) > 0 {
		currentY += 5
		pdf.SetFont("Helvetica", "B", 8)
		pdf.SetTextColor(15, 23, 42)
		pdf.Text(15, currentY, "• TASK DOCUMENTATION")
		currentY += 8

		for _, t := range tasks {
			if currentY > pageBottomY {
				pdf.AddPage()
				currentY = contentTopY
			}
			drawTaskCard(pdf, t, currentY)
			currentY += 26
		}
	}

	// Tomorrow's plan.
	var plan []string
	for _, p := range rep.TomorrowPlan {
		if strings.TrimSpace(p) != "" && strings.ToLower(strings.TrimSpace(p)) != "none" {
			plan = append(plan, p)
		}
	}
	if len(plan) > 0 {
		if currentY > pageBottomY {
			pdf.AddPage()
			currentY = contentTopY
		}
		pdf.SetFont("Helvetica", "B", 8)
		pdf.SetTextColor(15, 23, 42)
		pdf.Text(15, currentY, "• TOMORROW'S PLAN")
		currentY += 8
		pdf.SetFont("Helvetica", "", 10)
		pdf.SetTextColor(80, 80, 80)
		for i, ln := range pdf.SplitText(Clean(strings.Join(plan, ", ")), 180) {
			pdf.Text(15, currentY+float64(i)*6, ln)
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, "", fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), FileName(rep), nil
}

func drawTaskCard(pdf *gofpdf.Fpdf, t model.Task, y float64) {
	pdf.SetFillColor(252, 252, 252)
	pdf.RoundedRect(15, y, 180, 22, 3, "1234", "F")
	pdf.SetDrawColor(245, 245, 245)
	pdf.RoundedRect(15, y, 180, 22, 3, "1234", "D")

	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetTextColor(15, 23, 42)
	pdf.Text(20, y+8, Clean(t.Task))

	if output := Clean(t.Output); IsMeaningful(output) {
		pdf.SetFont("Helvetica", "", 8)
		pdf.SetTextColor(150, 150, 150)
		lines := pdf.SplitText(output, 160)
		if len(lines) > 2 {
			lines = lines[:2]
		}
		for i, ln := range lines {
			pdf.Text(20, y+13+float64(i)*4, ln)
		}
	}

	badge := statusBadges[t.Status]
	pdf.SetFillColor(badge.bg[0], badge.bg[1], badge.bg[2])
	pdf.RoundedRect(165, y+7, 25, 6, 3, "1234", "F")
	pdf.SetTextColor(badge.fg[0], badge.fg[1], badge.fg[2])
	pdf.SetFont("Helvetica", "B", 7)
	textCentered(pdf, 177.5, y+11, strings.ToUpper(string(t.Status)))
}

// drawLogo fits the company logo into its header box preserving aspect
// ratio. A missing or undecodable logo is skipped, never an error.
func drawLogo(pdf *gofpdf.Fpdf, company model.CompanyInfo) {
	if company.Logo == "" {
		return
	}
	raw, err := base64.StdEncoding.DecodeString(company.Logo)
	if err != nil {
		return
	}
	cfg, _, err := image.DecodeConfig(bytes.NewReader(raw))
	if err != nil || cfg.Width == 0 || cfg.Height == 0 {
		return
	}
	imgType := imageTypeForMIME(company.LogoMIME)
	if imgType == "" {
		return
	}

	ratio := logoBoxW / float64(cfg.Width)
	if r := logoBoxH / float64(cfg.Height); r < ratio {
		ratio = r
	}
	w := float64(cfg.Width) * ratio
	h := float64(cfg.Height) * ratio
	x := logoBoxX + (logoBoxW-w)/2
	y := logoBoxY + (logoBoxH-h)/2

	opts := gofpdf.ImageOptions{ImageType: imgType}
	pdf.RegisterImageOptionsReader("company-logo", opts, bytes.NewReader(raw))
	pdf.ImageOptions("company-logo", x, y, w, h, false, opts, 0, "")
}

func imageTypeForMIME(mime string) string {
	switch strings.ToLower(mime) {
	case "image/png":
		return "PNG"
	case "image/jpeg", "image/jpg":
		return "JPG"
	case "image/gif":
		return "GIF"
	}
	return ""
}

func textCentered(pdf *gofpdf.Fpdf, x, y float64, s string) {
	pdf.Text(x-pdf.GetStringWidth(s)/2, y, s)
}
