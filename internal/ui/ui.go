// Package ui declares the page capabilities the workflows drive.
// Workflows never touch a concrete page; the CLI and the tests provide implementations.
package ui

// Form exposes the current values of a form's fields by field id.
type Form interface {
	Value(field string) string
}

// Values is a Form backed by a map.
type Values map[string]string

func (v Values) Value(field string) string { return v[field] }

// Element is a page element carrying data attributes, such as the receipt preview icon.
type Element interface {
	Attribute(name string) string
}

// Attributes is an Element backed by a map.
type Attributes map[string]string

func (a Attributes) Attribute(name string) string { return a[name] }

// ErrorSlot is the inline error container under a form.
type ErrorSlot interface {
	SetText(text string)
}

type Alerter interface {
	Alert(message string)
}

// FileInput is the receipt file picker.
type FileInput interface {
	Reset()
}

// Modal is the receipt preview dialog.
type Modal interface {
	Width() int
	SetImage(src string, width int)
	Show()
}
