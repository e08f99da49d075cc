package sales

import (
	"fmt"
	"strings"

	"github.com/klauspost/compress/zstd"
)

const receiptWidth = 40

// ReceiptPrinter renders plain-text receipts and handles the zstd
// compression used by the archive.
type ReceiptPrinter struct {
	storeName    string
	storeAddress string
	encoder      *zstd.Encoder
	decoder      *zstd.Decoder
}

// NewReceiptPrinter creates a printer with shared zstd codec state.
func NewReceiptPrinter(storeName, storeAddress string) (*ReceiptPrinter, error) {
	encoder, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return nil, fmt.Errorf("create zstd encoder: %w", err)
	}
	decoder, err := zstd.NewReader(nil)
	if err != nil {
		return nil, fmt.Errorf("create zstd decoder: %w", err)
	}
	return &ReceiptPrinter{
		storeName:    storeName,
		storeAddress: storeAddress,
		encoder:      encoder,
		decoder:      decoder,
	}, nil
}

// Render produces the fixed-width receipt text for a transaction.
func (p *ReceiptPrinter) Render(tx *Transaction, items []LineItem) string {
	var b strings.Builder

	center := func(s string) {
		if pad := (receiptWidth - len(s)) / 2; pad > 0 {
			b.WriteString(strings.Repeat(" ", pad))
		}
		b.WriteString(s)
		b.WriteByte('\n')
	}
	row := func(left, right string) {
		gap := receiptWidth - len(left) - len(right)
		if gap < 1 {
			gap = 1
		}
		b.WriteString(left)
		b.WriteString(strings.Repeat(" ", gap))
		b.WriteString(right)
		b.WriteByte('\n')
	}
	rule := func() { b.WriteString(strings.Repeat("-", receiptWidth) + "\n") }

	center(p.storeName)
	if p.storeAddress != "" {
		center(p.storeAddress)
	}
	center(tx.CreatedAt.Format("2006-01-02 15:04:05"))
	rule()

	for _, item := range items {
		b.WriteString(item.Description)
		b.WriteByte('\n')
		row(fmt.Sprintf("  %d @ %s", item.Quantity, item.Price.StringFixed(2)), item.Total.StringFixed(2))
	}

	rule()
	row("SUBTOTAL", tx.Subtotal.StringFixed(2))
	row("TAX", tx.Tax.StringFixed(2))
	row("TOTAL", tx.Total.StringFixed(2))
	row(strings.ToUpper(string(tx.PaymentType)), tx.Total.StringFixed(2))
	if tx.CashTendered != nil {
		row("TENDERED", tx.CashTendered.StringFixed(2))
	}
	if tx.ChangeGiven != nil {
		row("CHANGE", tx.ChangeGiven.StringFixed(2))
	}
	rule()
	center("THANK YOU")
	center(fmt.Sprintf("TXN %s", tx.ID))

	return b.String()
}

// Compress encodes receipt text for archival.
func (p *ReceiptPrinter) Compress(text string) []byte {
	return p.encoder.EncodeAll([]byte(text), nil)
}

// Decompress restores archived receipt text.
func (p *ReceiptPrinter) Decompress(compressed []byte) (string, error) {
	raw, err := p.decoder.DecodeAll(compressed, nil)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}
