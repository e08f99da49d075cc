package dto

import (
	"barback/internal/core/types"
	"barback/internal/domain/sales"
)

// SaleLineRequest is one scanned item in a sale request.
type SaleLineRequest struct {
	UPC      string `json:"upc" binding:"required"`
	Quantity int    `json:"quantity" binding:"required,min=1"`
}

// RecordSaleRequest is a completed cart to record.
type RecordSaleRequest struct {
	Lines        []SaleLineRequest `json:"lines" binding:"required,min=1,dive"`
	PaymentType  string            `json:"paymentType" binding:"required"`
	CashTendered *types.Money      `json:"cashTendered"`
	CreatedBy    string            `json:"createdBy"`
}

// ToInput converts the request into the domain sale input.
func (r *RecordSaleRequest) ToInput() sales.SaleInput {
	lines := make([]sales.CartLine, len(r.Lines))
	for i, l := range r.Lines {
		lines[i] = sales.CartLine{UPC: l.UPC, Quantity: l.Quantity}
	}
	return sales.SaleInput{
		Lines:        lines,
		PaymentType:  sales.PaymentType(r.PaymentType),
		CashTendered: r.CashTendered,
		CreatedBy:    r.CreatedBy,
	}
}

// ReceiptResponse carries the archived receipt text.
type ReceiptResponse struct {
	TransactionID string `json:"transactionId"`
	Receipt       string `json:"receipt"`
}
