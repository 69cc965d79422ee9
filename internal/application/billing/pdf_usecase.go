package billing

import (
	"context"
	"fmt"

	"github.com/datalization1/roberts-lackwerk/internal/domain"
	"github.com/datalization1/roberts-lackwerk/internal/domain/entity"
	"github.com/datalization1/roberts-lackwerk/internal/domain/repository"
)

// PDFUseCase genera la representación gráfica (PDF) de una factura.
// Solo facturas finalizadas: un draft aún no tiene número.
type PDFUseCase struct {
	invoiceRepo  repository.InvoiceRepository
	customerRepo repository.CustomerRepository
	generator    InvoicePDFGenerator
}

// NewPDFUseCase construye el caso de uso.
func NewPDFUseCase(
	invoiceRepo repository.InvoiceRepository,
	customerRepo repository.CustomerRepository,
	generator InvoicePDFGenerator,
) *PDFUseCase {
	return &PDFUseCase{
		invoiceRepo:  invoiceRepo,
		customerRepo: customerRepo,
		generator:    generator,
	}
}

// DownloadInvoicePDF recupera factura, cliente y líneas y genera el PDF.
//
// Retorna:
//   - (pdfBytes, filename, nil)  si todo sale bien.
//   - domain.ErrNotFound         si la factura no existe.
//   - domain.ErrInvalidInput     si la factura sigue en draft.
func (uc *PDFUseCase) DownloadInvoicePDF(ctx context.Context, invoiceID string) (pdfBytes []byte, filename string, err error) {
	inv, err := uc.invoiceRepo.GetByID(ctx, invoiceID)
	if err != nil {
		return nil, "", err
	}
	if inv.Status == entity.InvoiceStatusDraft || inv.Number == "" {
		return nil, "", fmt.Errorf("%w: la factura sigue en borrador, finalícela antes de descargar el PDF", domain.ErrInvalidInput)
	}

	customer, err := uc.customerRepo.GetByID(ctx, inv.CustomerID)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: cliente de la factura: %w", err)
	}
	items, err := uc.invoiceRepo.GetLineItems(ctx, inv.ID)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: líneas de la factura: %w", err)
	}

	pdfBytes, err = uc.generator.GenerateInvoicePDF(ctx, inv, customer, items)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: generación fallida: %w", err)
	}
	return pdfBytes, fmt.Sprintf("factura_%s.pdf", inv.Number), nil
}
