package export

import (
	"bytes"
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"

	"cargoflow/internal/domain"
	"cargoflow/internal/port"
)

const ledgerSheet = "Ledger"

// LedgerWriter renders a supplier's payment ledger as an xlsx workbook.
type LedgerWriter struct {
	suppliers port.SupplierRepository
	payments  port.PaymentRepository
}

func NewLedgerWriter(suppliers port.SupplierRepository, payments port.PaymentRepository) *LedgerWriter {
	return &LedgerWriter{suppliers: suppliers, payments: payments}
}

// WriteSupplierLedger builds the workbook for one supplier: a header block
// with the name and current balance, then one row per scheduled payment.
func (w *LedgerWriter) WriteSupplierLedger(ctx context.Context, supplierID uuid.UUID) ([]byte, string, error) {
	supplier, err := w.suppliers.GetByID(ctx, supplierID)
	if err != nil {
		return nil, "", fmt.Errorf("load supplier: %w", err)
	}
	payments, err := w.payments.ListBySupplier(ctx, supplierID)
	if err != nil {
		return nil, "", fmt.Errorf("load payments: %w", err)
	}

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	index, err := f.NewSheet(ledgerSheet)
	if err != nil {
		return nil, "", fmt.Errorf("create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, "", fmt.Errorf("delete default sheet: %w", err)
	}

	setRow := func(row int, values []any) error {
		cell, err := excelize.CoordinatesToCellName(1, row)
		if err != nil {
			return err
		}
		return f.SetSheetRow(ledgerSheet, cell, &values)
	}

	rows := [][]any{
		{"Supplier", supplier.Name},
		{"Currency", supplier.Currency},
		{"Current Balance", supplier.CurrentBalance},
		{},
		{"Description", "Amount", "Currency", "Payment Date", "Status"},
	}
	for _, p := range payments {
		rows = append(rows, paymentRow(p))
	}
	for i, values := range rows {
		if err := setRow(i+1, values); err != nil {
			return nil, "", fmt.Errorf("write row %d: %w", i+1, err)
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, "", fmt.Errorf("serialize workbook: %w", err)
	}
	filename := fmt.Sprintf("supplier-ledger-%s.xlsx", supplierID)
	return buf.Bytes(), filename, nil
}

func paymentRow(p domain.PaymentSchedule) []any {
	return []any{
		p.Description,
		p.Amount,
		p.Currency,
		p.PaymentDate.Format("2006-01-02"),
		p.Status,
	}
}
