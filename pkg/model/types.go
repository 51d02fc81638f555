package model

// FieldType enumerates the input kinds a Swellforms form can declare.
type FieldType string

const (
	FieldTypeText     FieldType = "text"
	FieldTypeEmail    FieldType = "email"
	FieldTypeTextarea FieldType = "textarea"
	FieldTypePassword FieldType = "password"
	FieldTypeNumber   FieldType = "number"
	FieldTypeSelect   FieldType = "select"
	FieldTypeCheckbox FieldType = "checkbox"
	FieldTypeRadio    FieldType = "radio"
)

// Option is one choice of a select/radio style field.
type Option struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// FieldDefinition is the server-declared metadata for one form field. Name is
// the key used in value maps and error bags. Definitions are immutable once
// fetched and replaced wholesale on re-fetch.
type FieldDefinition struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Label       string    `json:"label,omitempty"`
	Type        FieldType `json:"type"`
	Required    bool      `json:"required"`
	Placeholder string    `json:"placeholder,omitempty"`
	Options     []Option  `json:"options,omitempty"`
}

// IsChoice reports whether the field type carries an options list.
func (t FieldType) IsChoice() bool {
	switch t {
	case FieldTypeSelect, FieldTypeCheckbox, FieldTypeRadio:
		return true
	default:
		return false
	}
}
