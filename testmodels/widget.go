package testmodels

import (
	"encoding/json"

	"github.com/go-openapi/strfmt"
	"github.com/google/uuid"
)

// Widget is the fixture record used by the backend test suites and the
// qsctl demo. All fields project to strings so the plain-data map survives
// every backend's storage round-trip unchanged.
type Widget struct {

	// Unique identifier for the widget.
	// Required: true
	ID string `json:"id"`

	// Name of the widget.
	Name string `json:"name"`

	// Free-form payload field.
	Data string `json:"data"`

	// Timestamp when the widget was created.
	// Format: date-time
	CreatedAt strfmt.DateTime `json:"created_at"`
}

// NewWidget returns a widget with a random identifier.
func NewWidget(name string) *Widget {
	return &Widget{
		ID:   uuid.NewString(),
		Name: name,
	}
}

// Identifier returns the widget's identifier field.
func (w *Widget) Identifier() string {
	return w.ID
}

// PlainData returns the widget projected to a field-name → value map.
func (w *Widget) PlainData() map[string]any {
	return map[string]any{
		"id":         w.ID,
		"name":       w.Name,
		"data":       w.Data,
		"created_at": w.CreatedAt.String(),
	}
}

// SerializedForm returns the widget's plain data as JSON.
func (w *Widget) SerializedForm() ([]byte, error) {
	return json.Marshal(w.PlainData())
}
