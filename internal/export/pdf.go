package export

import (
	"fmt"
	"io"
	"time"

	"github.com/go-pdf/fpdf"

	"app/internal/domain/model"
)

// 在庫一覧のPDFエクスポート。A4横、表形式。

var pdfColumns = []struct {
	Title string
	Width float64
}{
	{"ID", 15},
	{"Name", 90},
	{"Brand", 35},
	{"Grade", 18},
	{"Storage", 25},
	{"Price", 30},
	{"Stock", 20},
	{"Updated", 40},
}

// WriteDevicesPDF は端末一覧をPDFとしてwへ書き出す。
func WriteDevicesPDF(w io.Writer, devices []model.Device, generatedAt time.Time) error {
	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.SetTitle("Device Inventory", false)
	pdf.SetAutoPageBreak(true, 15)

	pdf.SetHeaderFunc(func() {
		pdf.SetFont("Helvetica", "B", 14)
		pdf.Cell(0, 10, "Device Inventory")
		pdf.Ln(8)
		pdf.SetFont("Helvetica", "", 8)
		pdf.Cell(0, 6, "generated at "+generatedAt.Format(time.RFC3339))
		pdf.Ln(8)
		writePDFTableHeader(pdf)
	})
	pdf.SetFooterFunc(func() {
		pdf.SetY(-12)
		pdf.SetFont("Helvetica", "", 8)
		pdf.CellFormat(0, 8, fmt.Sprintf("page %d", pdf.PageNo()), "", 0, "C", false, 0, "")
	})

	pdf.AddPage()
	pdf.SetFont("Helvetica", "", 9)

	for _, d := range devices {
		pdf.CellFormat(pdfColumns[0].Width, 7, fmt.Sprintf("%d", d.ID), "1", 0, "R", false, 0, "")
		pdf.CellFormat(pdfColumns[1].Width, 7, truncatePDF(d.Name, 52), "1", 0, "L", false, 0, "")
		pdf.CellFormat(pdfColumns[2].Width, 7, truncatePDF(d.Brand, 20), "1", 0, "L", false, 0, "")
		pdf.CellFormat(pdfColumns[3].Width, 7, string(d.Grade), "1", 0, "C", false, 0, "")
		pdf.CellFormat(pdfColumns[4].Width, 7, d.Storage, "1", 0, "C", false, 0, "")
		pdf.CellFormat(pdfColumns[5].Width, 7, fmt.Sprintf("%d", d.Price), "1", 0, "R", false, 0, "")
		pdf.CellFormat(pdfColumns[6].Width, 7, fmt.Sprintf("%d", d.Stock), "1", 0, "R", false, 0, "")
		pdf.CellFormat(pdfColumns[7].Width, 7, d.UpdatedAt.Format("2006-01-02 15:04"), "1", 0, "C", false, 0, "")
		pdf.Ln(-1)
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}

func writePDFTableHeader(pdf *fpdf.Fpdf) {
	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetFillColor(221, 235, 247)
	for _, c := range pdfColumns {
		pdf.CellFormat(c.Width, 7, c.Title, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)
	pdf.SetFont("Helvetica", "", 9)
}

func truncatePDF(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-3]) + "..."
}
