// Package pdf renders the product inventory report with go-pdf/fpdf.
package pdf

import (
	"bytes"
	"fmt"
	"time"

	"github.com/go-pdf/fpdf"
	"github.com/stockroomd/stockroom/internal/core/domain"
	"github.com/stockroomd/stockroom/internal/core/ports"
)

type Renderer struct{}

func NewRenderer() *Renderer {
	return &Renderer{}
}

var _ ports.ReportRenderer = (*Renderer)(nil)

var columns = []struct {
	title string
	width float64
}{
	{"ID", 15},
	{"Name", 40},
	{"Description", 55},
	{"Price", 25},
	{"Qty", 15},
	{"Revenue", 30},
}

// Render produces the inventory table. An empty product list still yields
// a valid document with the title and column headers.
func (r *Renderer) Render(products []domain.ProductSummary) ([]byte, error) {
	doc := fpdf.New("P", "mm", "A4", "")
	doc.SetTitle("Product Inventory Report", false)
	doc.AddPage()

	doc.SetFont("Helvetica", "B", 16)
	doc.Cell(0, 10, "Product Inventory Report")
	doc.Ln(8)
	doc.SetFont("Helvetica", "", 9)
	doc.Cell(0, 6, "Generated "+time.Now().UTC().Format(time.RFC1123))
	doc.Ln(10)

	doc.SetFont("Helvetica", "B", 10)
	doc.SetFillColor(230, 230, 230)
	for _, col := range columns {
		doc.CellFormat(col.width, 8, col.title, "1", 0, "C", true, 0, "")
	}
	doc.Ln(-1)

	doc.SetFont("Helvetica", "", 9)
	var total float64
	for _, p := range products {
		total += p.Revenue
		doc.CellFormat(columns[0].width, 7, fmt.Sprintf("%d", p.ID), "1", 0, "R", false, 0, "")
		doc.CellFormat(columns[1].width, 7, p.Name, "1", 0, "L", false, 0, "")
		doc.CellFormat(columns[2].width, 7, p.Description, "1", 0, "L", false, 0, "")
		doc.CellFormat(columns[3].width, 7, fmt.Sprintf("%.2f", p.Price), "1", 0, "R", false, 0, "")
		doc.CellFormat(columns[4].width, 7, fmt.Sprintf("%d", p.Quantity), "1", 0, "R", false, 0, "")
		doc.CellFormat(columns[5].width, 7, fmt.Sprintf("%.2f", p.Revenue), "1", 0, "R", false, 0, "")
		doc.Ln(-1)
	}

	doc.Ln(4)
	doc.SetFont("Helvetica", "B", 10)
	doc.Cell(0, 8, fmt.Sprintf("Total revenue: %.2f", total))

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}
