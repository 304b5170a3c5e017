package bills

import (
	"log/slog"
	"time"

	"github.com/frahmantamala/billed/internal/core/datamodel/bill"
)

// DisplayBill is a bill ready to be shown in the list.
type DisplayBill struct {
	ID         string      `json:"id,omitempty"`
	Email      string      `json:"email,omitempty"`
	Type       string      `json:"type,omitempty"`
	Name       string      `json:"name,omitempty"`
	Amount     *int        `json:"amount"`
	Date       string      `json:"date"`
	VAT        string      `json:"vat,omitempty"`
	Pct        int         `json:"pct,omitempty"`
	Commentary string      `json:"commentary,omitempty"`
	FileURL    string      `json:"fileUrl,omitempty"`
	FileName   string      `json:"fileName,omitempty"`
	Status     string      `json:"status"`
	RawStatus  bill.Status `json:"-"`

	// zero when the raw date could not be parsed
	parsedDate time.Time
}

// Normalize formats one record. It never fails: an unparseable date is logged and kept raw.
func Normalize(r bill.Record, logger *slog.Logger) DisplayBill {
	d := DisplayBill{
		ID:         r.ID,
		Email:      r.Email,
		Type:       r.Type,
		Name:       r.Name,
		Amount:     r.Amount,
		Date:       r.Date,
		VAT:        r.VAT,
		Pct:        r.Pct,
		Commentary: r.Commentary,
		FileURL:    r.FileURL,
		FileName:   r.FileName,
		Status:     FormatStatus(r.Status),
		RawStatus:  r.Status,
	}

	formatted, err := FormatDate(r.Date)
	if err != nil {
		logger.Warn("keeping raw bill date", "bill_id", r.ID, "date", r.Date, "error", err)
		return d
	}

	d.Date = formatted
	d.parsedDate, _ = ParseDate(r.Date)
	return d
}

// NormalizeAll formats every record, preserving order.
func NormalizeAll(records []bill.Record, logger *slog.Logger) []DisplayBill {
	out := make([]DisplayBill, len(records))
	for i, r := range records {
		out[i] = Normalize(r, logger)
	}
	return out
}
