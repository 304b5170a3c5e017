package bills

import (
	"fmt"
	"time"

	"github.com/frahmantamala/billed/internal"
	"github.com/frahmantamala/billed/internal/core/datamodel/bill"
)

// Three-letter French month abbreviations, capitalized.
var months = [12]string{"Jan", "Fév", "Mar", "Avr", "Mai", "Jui", "Jui", "Aoû", "Sep", "Oct", "Nov", "Déc"}

var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

// ParseDate accepts ISO dates, with or without a time part.
func ParseDate(raw string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, nil
		}
	}
	return time.Time{}, internal.NewDataAnomaly(fmt.Sprintf("unparseable date %q", raw), internal.ErrCodeInvalidDate, nil)
}

// FormatDate renders an ISO date as "<day> <Mon>. <yy>", e.g. "2023-04-10" becomes "10 Avr. 23".
// On error the caller keeps the raw value.
func FormatDate(raw string) (string, error) {
	t, err := ParseDate(raw)
	if err != nil {
		return raw, err
	}
	return fmt.Sprintf("%d %s. %02d", t.Day(), months[t.Month()-1], t.Year()%100), nil
}

// FormatStatus maps a status to its label. Unknown statuses are shown as they are.
func FormatStatus(status bill.Status) string {
	switch status {
	case bill.StatusPending:
		return "En attente"
	case bill.StatusAccepted:
		return "Accepté"
	case bill.StatusRefused:
		return "Refusé"
	default:
		return string(status)
	}
}
