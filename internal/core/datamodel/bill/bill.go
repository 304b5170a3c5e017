package bill

type Status string

const (
	StatusPending  Status = "pending"
	StatusAccepted Status = "accepted"
	StatusRefused  Status = "refused"
)

// Record is a bill as returned by the Store.
type Record struct {
	ID           string `json:"id,omitempty"`
	Email        string `json:"email,omitempty"`
	Type         string `json:"type,omitempty"`
	Name         string `json:"name,omitempty"`
	Amount       *int   `json:"amount"`
	Date         string `json:"date"`
	VAT          string `json:"vat,omitempty"`
	Pct          int    `json:"pct,omitempty"`
	Commentary   string `json:"commentary,omitempty"`
	CommentAdmin string `json:"commentAdmin,omitempty"`
	FileURL      string `json:"fileUrl,omitempty"`
	FileName     string `json:"fileName,omitempty"`
	Status       Status `json:"status"`
}

// Upload is the Store's answer to a receipt upload.
type Upload struct {
	FileURL string `json:"fileUrl"`
	Key     string `json:"key"`
}
