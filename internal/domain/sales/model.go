// Package sales provides transaction recording and the line-item wire
// contract consumed by the reporting engine.
package sales

import (
	"encoding/json"
	"fmt"
	"time"

	"barback/internal/core/id"
	"barback/internal/core/types"
)

// PaymentType is the tender used for a sale.
type PaymentType string

const (
	PaymentCash   PaymentType = "cash"
	PaymentDebit  PaymentType = "debit"
	PaymentCredit PaymentType = "credit"
)

// ValidPaymentType reports whether t is a known tender.
func ValidPaymentType(t PaymentType) bool {
	switch t {
	case PaymentCash, PaymentDebit, PaymentCredit:
		return true
	}
	return false
}

// LineItem is one product entry within a transaction's item list.
type LineItem struct {
	UPC         string      `json:"upc"`
	Description string      `json:"description"`
	Quantity    int         `json:"quantity"`
	Price       types.Money `json:"price"`
	Total       types.Money `json:"total"`
}

// Transaction is an immutable sale record. Items are stored as a
// serialized line-item list; RawItems is the payload exactly as persisted.
// Records are append-only: created at sale completion, never mutated.
type Transaction struct {
	ID           id.ID        `db:"id" json:"id"`
	RawItems     []byte       `db:"items" json:"-"`
	Subtotal     types.Money  `db:"subtotal" json:"subtotal"`
	Tax          types.Money  `db:"tax" json:"tax"`
	Total        types.Money  `db:"total" json:"total"`
	PaymentType  PaymentType  `db:"payment_type" json:"paymentType"`
	CashTendered *types.Money `db:"cash_tendered" json:"cashTendered,omitempty"`
	ChangeGiven  *types.Money `db:"change_given" json:"changeGiven,omitempty"`
	CreatedBy    *string      `db:"created_by" json:"createdBy,omitempty"`
	CreatedAt    time.Time    `db:"created_at" json:"createdAt"`
}

// Items decodes the serialized line items with validation.
func (t *Transaction) Items() ([]LineItem, error) {
	return DecodeLineItems(t.RawItems)
}

// lineItemWire carries required fields as pointers so absent keys are
// distinguishable from zero values.
type lineItemWire struct {
	UPC         *string      `json:"upc"`
	Description *string      `json:"description"`
	Quantity    *int         `json:"quantity"`
	Price       *types.Money `json:"price"`
	Total       *types.Money `json:"total"`
}

// DecodeLineItems parses a serialized line-item list, validating the wire
// contract: every item needs a product identifier, description, integer
// quantity >= 1, non-negative unit price and an extended total. Any
// deviation fails the whole payload; callers skip the transaction's
// contribution and report it rather than aborting aggregation.
func DecodeLineItems(payload []byte) ([]LineItem, error) {
	if len(payload) == 0 {
		return nil, fmt.Errorf("empty line item payload")
	}

	var wire []lineItemWire
	if err := json.Unmarshal(payload, &wire); err != nil {
		return nil, fmt.Errorf("parse line items: %w", err)
	}

	items := make([]LineItem, 0, len(wire))
	for i, w := range wire {
		switch {
		case w.UPC == nil || *w.UPC == "":
			return nil, fmt.Errorf("line item %d: missing upc", i)
		case w.Description == nil:
			return nil, fmt.Errorf("line item %d: missing description", i)
		case w.Quantity == nil:
			return nil, fmt.Errorf("line item %d: missing quantity", i)
		case *w.Quantity < 1:
			return nil, fmt.Errorf("line item %d: quantity %d below 1", i, *w.Quantity)
		case w.Price == nil:
			return nil, fmt.Errorf("line item %d: missing price", i)
		case w.Price.IsNegative():
			return nil, fmt.Errorf("line item %d: negative price", i)
		case w.Total == nil:
			return nil, fmt.Errorf("line item %d: missing total", i)
		}
		items = append(items, LineItem{
			UPC:         *w.UPC,
			Description: *w.Description,
			Quantity:    *w.Quantity,
			Price:       *w.Price,
			Total:       *w.Total,
		})
	}
	return items, nil
}

// EncodeLineItems serializes line items into the stored wire format.
func EncodeLineItems(items []LineItem) ([]byte, error) {
	return json.Marshal(items)
}
