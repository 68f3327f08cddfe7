// Package pdf рендерит PDF-представление квитанции об оплате аренды.
// Рендеринг выполняется по запросу, без сохранения состояния.
package pdf

import (
	"fmt"
	"io"

	"github.com/jung-kurt/gofpdf"

	"github.com/renteaseone/rentease-backend/internal/models"
)

// RenderReceipt записывает PDF-представление квитанции в w.
func RenderReceipt(w io.Writer, receipt *models.Receipt, ownerName, ownerEmail string) error {
	const op = "pdf.RenderReceipt"

	doc := gofpdf.New("P", "mm", "A4", "")
	doc.SetTitle(fmt.Sprintf("Rent receipt #%d", receipt.ID), true)
	doc.AddPage()

	doc.SetFont("Helvetica", "B", 20)
	doc.Cell(0, 12, "RentEase — Rent Receipt")
	doc.Ln(16)

	doc.SetFont("Helvetica", "", 12)
	line := func(label, value string) {
		doc.SetFont("Helvetica", "B", 12)
		doc.CellFormat(50, 8, label, "", 0, "L", false, 0, "")
		doc.SetFont("Helvetica", "", 12)
		doc.CellFormat(0, 8, value, "", 1, "L", false, 0, "")
	}

	line("Receipt no.", fmt.Sprintf("%d", receipt.ID))
	line("Paid by", ownerName)
	line("Email", ownerEmail)
	line("Rent amount", fmt.Sprintf("%d", receipt.RentAmount))
	line("Service fee", fmt.Sprintf("%d", receipt.ServiceFee))
	line("Total paid", fmt.Sprintf("%d", receipt.TotalPaid))
	if receipt.Reference != nil {
		line("Reference", *receipt.Reference)
	}
	if receipt.Channel != nil {
		line("Channel", *receipt.Channel)
	}
	if receipt.PaidAt != nil {
		line("Paid at", receipt.PaidAt.Format("02 Jan 2006 15:04 MST"))
	}
	line("Issued", receipt.CreatedAt.Format("02 Jan 2006 15:04 MST"))

	doc.Ln(8)
	doc.SetFont("Helvetica", "I", 10)
	doc.Cell(0, 6, "This receipt was generated automatically and is valid without a signature.")

	if err := doc.Output(w); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
