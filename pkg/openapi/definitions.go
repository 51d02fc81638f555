// Package openapi derives Swellforms field definitions from an OpenAPI
// document, so local required-field validation can run without a successful
// fields fetch (offline or air-gapped clients).
package openapi

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sort"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/swellforms/swellforms-go/pkg/model"
)

var errOperationNotFound = errors.New("openapi: operation not found")

// DefinitionsFromFile loads an OpenAPI document from disk and derives field
// definitions for the named operation's JSON request body.
func DefinitionsFromFile(ctx context.Context, path, operationID string) ([]model.FieldDefinition, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("openapi: read document: %w", err)
	}
	return DefinitionsFromData(ctx, raw, operationID)
}

// DefinitionsFromData parses an OpenAPI document and derives field
// definitions for the named operation's JSON request body. Properties become
// fields in sorted name order; required-ness follows the schema's required
// list.
func DefinitionsFromData(ctx context.Context, raw []byte, operationID string) ([]model.FieldDefinition, error) {
	if len(raw) == 0 {
		return nil, errors.New("openapi: document payload is empty")
	}

	loader := &openapi3.Loader{Context: ctx}
	doc, err := loader.LoadFromData(raw)
	if err != nil {
		return nil, fmt.Errorf("openapi: load document: %w", err)
	}

	operation := findOperation(doc, operationID)
	if operation == nil {
		return nil, fmt.Errorf("%w: %q", errOperationNotFound, operationID)
	}

	schema := requestSchema(operation)
	if schema == nil {
		return []model.FieldDefinition{}, nil
	}
	return definitionsFromSchema(schema), nil
}

func findOperation(doc *openapi3.T, operationID string) *openapi3.Operation {
	if doc.Paths == nil {
		return nil
	}
	for _, item := range doc.Paths.Map() {
		if item == nil {
			continue
		}
		for _, operation := range item.Operations() {
			if operation != nil && operation.OperationID == operationID {
				return operation
			}
		}
	}
	return nil
}

func requestSchema(operation *openapi3.Operation) *openapi3.Schema {
	if operation.RequestBody == nil || operation.RequestBody.Value == nil {
		return nil
	}
	mt, ok := operation.RequestBody.Value.Content["application/json"]
	if !ok || mt.Schema == nil {
		return nil
	}
	return mt.Schema.Value
}

func definitionsFromSchema(schema *openapi3.Schema) []model.FieldDefinition {
	required := make(map[string]bool, len(schema.Required))
	for _, name := range schema.Required {
		required[name] = true
	}

	names := make([]string, 0, len(schema.Properties))
	for name := range schema.Properties {
		names = append(names, name)
	}
	sort.Strings(names)

	defs := make([]model.FieldDefinition, 0, len(names))
	for _, name := range names {
		ref := schema.Properties[name]
		if ref == nil || ref.Value == nil {
			continue
		}
		defs = append(defs, fieldDefinition(name, ref.Value, required[name]))
	}
	return defs
}

func fieldDefinition(name string, prop *openapi3.Schema, required bool) model.FieldDefinition {
	def := model.FieldDefinition{
		ID:       name,
		Name:     name,
		Label:    prop.Title,
		Type:     fieldType(prop),
		Required: required,
	}
	if placeholder, ok := prop.Extensions["x-placeholder"].(string); ok {
		def.Placeholder = placeholder
	}
	if len(prop.Enum) > 0 {
		def.Options = make([]model.Option, 0, len(prop.Enum))
		for _, value := range prop.Enum {
			text := fmt.Sprint(value)
			def.Options = append(def.Options, model.Option{Value: text, Label: text})
		}
	}
	return def
}

func fieldType(prop *openapi3.Schema) model.FieldType {
	if len(prop.Enum) > 0 {
		return model.FieldTypeSelect
	}
	types := prop.Type
	switch {
	case types.Is(openapi3.TypeBoolean):
		return model.FieldTypeCheckbox
	case types.Is(openapi3.TypeInteger), types.Is(openapi3.TypeNumber):
		return model.FieldTypeNumber
	default:
		switch prop.Format {
		case "email":
			return model.FieldTypeEmail
		case "password":
			return model.FieldTypePassword
		case "textarea":
			return model.FieldTypeTextarea
		default:
			return model.FieldTypeText
		}
	}
}
