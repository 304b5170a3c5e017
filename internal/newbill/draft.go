package newbill

import (
	"encoding/json"
	"log/slog"
	"strconv"
	"strings"

	"github.com/frahmantamala/billed/internal"
	"github.com/frahmantamala/billed/internal/core/common/validation"
	"github.com/frahmantamala/billed/internal/core/datamodel/bill"
	"github.com/frahmantamala/billed/internal/routes"
	"github.com/frahmantamala/billed/internal/ui"
	"github.com/frahmantamala/billed/internal/workflow"
)

const (
	LogInvalidFormat    = "Format de fichier non valide. Seuls .jpg, .jpeg, .png sont acceptés."
	AlertInvalidFormat  = "Veuillez sélectionner un fichier au format .jpg, .jpeg ou .png."
	AlertMissingReceipt = "Veuillez téléverser un justificatif valide (.jpg, .jpeg, .png) avant de soumettre."
)

const DefaultPct = 20

var AllowedExtensions = []string{".jpg", ".jpeg", ".png"}

var (
	ErrInvalidFormat  = internal.NewValidationError(AlertInvalidFormat, internal.ErrCodeInvalidFileFormat)
	ErrMissingReceipt = internal.NewValidationError(AlertMissingReceipt, internal.ErrCodeMissingReceipt)
)

// Field ids of the new bill form.
const (
	FieldType       = "expense-type"
	FieldName       = "expense-name"
	FieldDate       = "datepicker"
	FieldAmount     = "amount"
	FieldVAT        = "vat"
	FieldPct        = "pct"
	FieldCommentary = "commentary"
)

type State int

const (
	StateEmpty State = iota
	StateFileValidated
	StateSubmitted
)

func (s State) String() string {
	switch s {
	case StateEmpty:
		return "empty"
	case StateFileValidated:
		return "file_validated"
	case StateSubmitted:
		return "submitted"
	default:
		return "unknown"
	}
}

// Draft is the bill being written. Its zero value is the empty draft.
type Draft struct {
	State    State
	FileName string
	FileURL  string
	BillID   string
}

// HasFile reports whether a receipt was uploaded.
func (d Draft) HasFile() bool {
	return d.FileURL != "" && d.FileName != ""
}

// ValidateFileName accepts receipt images only, judged by extension.
func ValidateFileName(name string) error {
	v := validation.NewValidator()
	v.Field("file", name).Required().Extension(internal.ErrCodeInvalidFileFormat, AllowedExtensions...)
	if err := v.Validate(); err != nil {
		return ErrInvalidFormat
	}
	return nil
}

// SelectFile is the step taken when the user picks a file.
// upload is true when the file must be sent to the Store; err is ErrInvalidFormat for a rejected file.
func (d Draft) SelectFile(name string) (next Draft, effects []workflow.Effect, upload bool, err error) {
	if d.State == StateSubmitted {
		return d, []workflow.Effect{workflow.Log(slog.LevelWarn, "bill already submitted, file ignored", nil)}, false, nil
	}
	if err := ValidateFileName(name); err != nil {
		return d, []workflow.Effect{
			workflow.Log(slog.LevelError, LogInvalidFormat, nil),
			workflow.Alert(AlertInvalidFormat),
			workflow.ResetFileInput(),
		}, false, err
	}
	return d, nil, true, nil
}

// UploadSucceeded records the uploaded receipt.
func (d Draft) UploadSucceeded(fileName string, upload bill.Upload) (Draft, []workflow.Effect) {
	d.FileName = fileName
	d.FileURL = upload.FileURL
	d.BillID = upload.Key
	d.State = StateFileValidated
	return d, nil
}

// UploadFailed only logs: the draft keeps whatever file it had.
func (d Draft) UploadFailed(err error) (Draft, []workflow.Effect) {
	return d, []workflow.Effect{workflow.Log(slog.LevelError, "receipt upload failed", err)}
}

// Submit builds the bill to send. The bill is nil when the draft has no receipt.
func (d Draft) Submit(email string, form ui.Form) (Draft, []workflow.Effect, *bill.Record) {
	if d.State == StateSubmitted {
		return d, []workflow.Effect{workflow.Log(slog.LevelWarn, "bill already submitted", nil)}, nil
	}
	if !d.HasFile() {
		return d, []workflow.Effect{workflow.Alert(AlertMissingReceipt)}, nil
	}

	record := &bill.Record{
		Email:      email,
		Type:       form.Value(FieldType),
		Name:       form.Value(FieldName),
		Amount:     parseInt(form.Value(FieldAmount)),
		Date:       form.Value(FieldDate),
		VAT:        form.Value(FieldVAT),
		Pct:        DefaultPct,
		Commentary: form.Value(FieldCommentary),
		FileURL:    d.FileURL,
		FileName:   d.FileName,
		Status:     bill.StatusPending,
	}
	if pct := parseInt(form.Value(FieldPct)); pct != nil && *pct != 0 {
		record.Pct = *pct
	}
	return d, nil, record
}

// UpdateSucceeded closes the draft and goes back to the list.
func (d Draft) UpdateSucceeded() (Draft, []workflow.Effect) {
	d.State = StateSubmitted
	return d, []workflow.Effect{workflow.Navigate(routes.Bills)}
}

// UpdateFailed keeps the draft so the user can submit again.
func (d Draft) UpdateFailed(err error) (Draft, []workflow.Effect) {
	return d, []workflow.Effect{workflow.Log(slog.LevelError, "bill update failed", err)}
}

// Encode serializes the bill sent to the Store.
func Encode(record *bill.Record) (json.RawMessage, error) {
	data, err := json.Marshal(record)
	if err != nil {
		return nil, internal.NewInternalError("failed to encode bill", err)
	}
	return data, nil
}

// parseInt reads a leading integer the way form inputs are read: "348€" is 348, "" is nil.
func parseInt(s string) *int {
	s = strings.TrimSpace(s)
	end := 0
	for end < len(s) && (s[end] >= '0' && s[end] <= '9' || end == 0 && (s[end] == '-' || s[end] == '+')) {
		end++
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return nil
	}
	return &n
}
