package model

import "github.com/swellforms/swellforms-go/pkg/codec"

// DecodeDefinitions converts a fields-endpoint response body into field
// definitions. Two shapes are accepted: a bare array, or an object carrying a
// "fields" array. Anything else, including elements that fail to decode,
// yields an empty sequence rather than an error.
func DecodeDefinitions(body any, cdc codec.Codec) []FieldDefinition {
	if cdc == nil {
		cdc = codec.Default
	}

	var list []any
	switch shape := body.(type) {
	case []any:
		list = shape
	case map[string]any:
		list, _ = shape["fields"].([]any)
	}
	if len(list) == 0 {
		return []FieldDefinition{}
	}

	data, err := cdc.Marshal(list)
	if err != nil {
		return []FieldDefinition{}
	}
	defs := make([]FieldDefinition, 0, len(list))
	if err := cdc.Unmarshal(data, &defs); err != nil {
		return []FieldDefinition{}
	}
	return defs
}
