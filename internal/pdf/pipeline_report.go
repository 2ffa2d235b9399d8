package pdf

import (
	"bytes"
	"fmt"
	"os"
	"time"

	"github.com/jung-kurt/gofpdf"

	"github.com/versin01/vertical-systems-crm/internal/pipeline"
)

// Generator renders reports (handy to mock in tests).
type Generator interface {
	PipelineReport(data PipelineReportData) ([]byte, error)
}

type PipelineReportData struct {
	GeneratedAt time.Time
	Metrics     pipeline.Metrics
	Board       pipeline.Board
	Owners      []pipeline.OwnerPerformance
}

// ReportGenerator draws A4 reports. With no readable TTF it falls back to Helvetica.
type ReportGenerator struct {
	FontPath string
	fontName string
}

func NewReportGenerator(fontPath string) *ReportGenerator {
	return &ReportGenerator{FontPath: fontPath, fontName: "DejaVu"}
}

func (g *ReportGenerator) PipelineReport(data PipelineReportData) ([]byte, error) {
	doc := gofpdf.New("P", "mm", "A4", "")
	doc.SetTitle("Pipeline report", false)
	doc.SetAuthor("Vertical Systems CRM", false)
	doc.SetMargins(20, 20, 20)
	doc.SetAutoPageBreak(true, 20)

	font := g.setupFont(doc)
	doc.AliasNbPages("")
	doc.SetFooterFunc(func() {
		doc.SetY(-15)
		doc.SetFont(font, "", 9)
		doc.CellFormat(0, 10, fmt.Sprintf("Page %d/{nb}", doc.PageNo()), "", 0, "C", false, 0, "")
	})
	doc.AddPage()

	doc.SetFont(font, "B", 18)
	doc.CellFormat(0, 10, "PIPELINE REPORT", "", 1, "C", false, 0, "")
	doc.SetFont(font, "", 11)
	doc.CellFormat(0, 7, "Generated "+data.GeneratedAt.Format("02.01.2006 15:04"), "", 1, "C", false, 0, "")
	hr(doc)

	sectionTitle(doc, font, "Summary")
	m := data.Metrics
	kvLine(doc, font, "Deals", fmt.Sprintf("%d", m.TotalDeals))
	kvLine(doc, font, "Total value", money(m.TotalValue))
	kvLine(doc, font, "Weighted value", money(m.WeightedValue))
	kvLine(doc, font, "Average deal", money(m.AverageDealSize))
	kvLine(doc, font, "Conversion", fmt.Sprintf("%.1f%%", m.ConversionRate))
	doc.Ln(2)
	hr(doc)

	sectionTitle(doc, font, "Stages")
	widths := []float64{70, 25, 45, 30}
	tableRow(doc, font, "B", widths, "Stage", "Deals", "Value", "Avg prob.")
	for _, col := range data.Board.Columns {
		tableRow(doc, font, "", widths,
			col.Stage.Label,
			fmt.Sprintf("%d", col.Count),
			money(col.TotalValue),
			fmt.Sprintf("%.0f%%", col.AverageProbability),
		)
	}

	if len(data.Owners) > 0 {
		doc.Ln(4)
		sectionTitle(doc, font, "Owners")
		widths := []float64{60, 20, 20, 40, 30}
		tableRow(doc, font, "B", widths, "Owner", "Won", "Lost", "Won value", "Win rate")
		for _, o := range data.Owners {
			tableRow(doc, font, "", widths,
				o.OwnerID,
				fmt.Sprintf("%d", o.Won),
				fmt.Sprintf("%d", o.Lost),
				money(o.WonValue),
				fmt.Sprintf("%.0f%%", o.WinRate),
			)
		}
	}

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, fmt.Errorf("render pipeline report: %w", err)
	}
	return buf.Bytes(), nil
}

func (g *ReportGenerator) setupFont(doc *gofpdf.Fpdf) string {
	if g.FontPath == "" {
		return "Helvetica"
	}
	if _, err := os.Stat(g.FontPath); err != nil {
		return "Helvetica"
	}
	doc.AddUTF8Font(g.fontName, "", g.FontPath)
	doc.AddUTF8Font(g.fontName, "B", g.FontPath)
	return g.fontName
}

func money(v float64) string {
	return fmt.Sprintf("%.2f", v)
}

func sectionTitle(doc *gofpdf.Fpdf, font, s string) {
	doc.SetFont(font, "B", 12)
	doc.CellFormat(0, 7, s, "", 1, "L", false, 0, "")
	doc.SetFont(font, "", 11)
}

func kvLine(doc *gofpdf.Fpdf, font, key, val string) {
	doc.SetFont(font, "B", 11)
	doc.CellFormat(45, 6, key+":", "", 0, "L", false, 0, "")
	doc.SetFont(font, "", 11)
	doc.CellFormat(0, 6, val, "", 1, "L", false, 0, "")
}

func tableRow(doc *gofpdf.Fpdf, font, style string, widths []float64, cells ...string) {
	doc.SetFont(font, style, 10)
	for i, c := range cells {
		align := "R"
		if i == 0 {
			align = "L"
		}
		ln := 0
		if i == len(cells)-1 {
			ln = 1
		}
		doc.CellFormat(widths[i], 6, c, "B", ln, align, false, 0, "")
	}
}

func hr(doc *gofpdf.Fpdf) {
	y := doc.GetY() + 1.5
	doc.SetLineWidth(0.2)
	doc.Line(20, y, 190, y)
	doc.SetY(y + 2)
}
