package events

import (
	"time"

	"github.com/google/uuid"
)

const (
	EventTypeSessionOpened   = "session.opened"
	EventTypeReceiptUploaded = "bill.receipt_uploaded"
	EventTypeBillSubmitted   = "bill.submitted"
)

type SessionOpenedEvent struct {
	BaseEvent
	Email string `json:"email"`
	Role  string `json:"role"`
}

func NewSessionOpenedEvent(email, role string) *SessionOpenedEvent {
	return &SessionOpenedEvent{
		BaseEvent: newBase(EventTypeSessionOpened, map[string]interface{}{
			"email": email,
			"role":  role,
		}),
		Email: email,
		Role:  role,
	}
}

type ReceiptUploadedEvent struct {
	BaseEvent
	BillID   string `json:"bill_id"`
	FileName string `json:"file_name"`
	FileURL  string `json:"file_url"`
}

func NewReceiptUploadedEvent(billID, fileName, fileURL string) *ReceiptUploadedEvent {
	return &ReceiptUploadedEvent{
		BaseEvent: newBase(EventTypeReceiptUploaded, map[string]interface{}{
			"bill_id":   billID,
			"file_name": fileName,
			"file_url":  fileURL,
		}),
		BillID:   billID,
		FileName: fileName,
		FileURL:  fileURL,
	}
}

type BillSubmittedEvent struct {
	BaseEvent
	BillID string `json:"bill_id"`
	Email  string `json:"email"`
	Name   string `json:"name"`
}

func NewBillSubmittedEvent(billID, email, name string) *BillSubmittedEvent {
	return &BillSubmittedEvent{
		BaseEvent: newBase(EventTypeBillSubmitted, map[string]interface{}{
			"bill_id": billID,
			"email":   email,
			"name":    name,
		}),
		BillID: billID,
		Email:  email,
		Name:   name,
	}
}

func newBase(eventType string, data map[string]interface{}) BaseEvent {
	return BaseEvent{
		ID:        uuid.New().String(),
		Type:      eventType,
		Timestamp: time.Now(),
		Data:      data,
	}
}
