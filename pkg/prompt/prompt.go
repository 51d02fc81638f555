// Package prompt collects form field values interactively, mapping each
// Swellforms field type onto a terminal prompt.
package prompt

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/swellforms/swellforms-go/pkg/model"
)

// Fill prompts for every definition in order and returns the collected value
// map, keyed by field name. Required fields reject empty input at the prompt;
// optional fields left empty are omitted from the result.
func Fill(ctx context.Context, defs []model.FieldDefinition, driver Driver) (map[string]any, error) {
	if driver == nil {
		return nil, errors.New("prompt: driver is required")
	}

	values := make(map[string]any, len(defs))
	for _, def := range defs {
		value, ok, err := promptField(ctx, def, driver)
		if err != nil {
			return nil, err
		}
		if ok {
			values[def.Name] = value
		}
	}
	return values, nil
}

func promptField(ctx context.Context, def model.FieldDefinition, driver Driver) (any, bool, error) {
	switch def.Type {
	case model.FieldTypePassword:
		text, err := driver.Password(ctx, inputConfig(def))
		if err != nil {
			return nil, false, err
		}
		return text, text != "", nil
	case model.FieldTypeTextarea:
		text, err := driver.TextArea(ctx, inputConfig(def))
		if err != nil {
			return nil, false, err
		}
		return text, text != "", nil
	case model.FieldTypeNumber:
		return promptNumber(ctx, def, driver)
	case model.FieldTypeSelect, model.FieldTypeRadio:
		return promptSelect(ctx, def, driver)
	case model.FieldTypeCheckbox:
		return promptCheckbox(ctx, def, driver)
	default:
		text, err := driver.Input(ctx, inputConfig(def))
		if err != nil {
			return nil, false, err
		}
		return text, text != "", nil
	}
}

func promptNumber(ctx context.Context, def model.FieldDefinition, driver Driver) (any, bool, error) {
	cfg := inputConfig(def)
	baseValidator := cfg.Validator
	cfg.Validator = func(text string) error {
		if baseValidator != nil {
			if err := baseValidator(text); err != nil {
				return err
			}
		}
		if strings.TrimSpace(text) == "" {
			return nil
		}
		if _, err := strconv.ParseFloat(strings.TrimSpace(text), 64); err != nil {
			return fmt.Errorf("%q is not a number", text)
		}
		return nil
	}

	text, err := driver.Input(ctx, cfg)
	if err != nil {
		return nil, false, err
	}
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return nil, false, nil
	}
	number, err := strconv.ParseFloat(trimmed, 64)
	if err != nil {
		return nil, false, fmt.Errorf("prompt: field %s: %w", def.Name, err)
	}
	return number, true, nil
}

func promptSelect(ctx context.Context, def model.FieldDefinition, driver Driver) (any, bool, error) {
	if len(def.Options) == 0 {
		text, err := driver.Input(ctx, inputConfig(def))
		if err != nil {
			return nil, false, err
		}
		return text, text != "", nil
	}
	index, err := driver.Select(ctx, SelectConfig{
		Message: fieldMessage(def),
		Options: optionLabels(def.Options),
		Help:    sanitizeText(def.Placeholder),
	})
	if err != nil {
		return nil, false, err
	}
	if index < 0 || index >= len(def.Options) {
		return nil, false, fmt.Errorf("prompt: field %s: option index %d out of range", def.Name, index)
	}
	return def.Options[index].Value, true, nil
}

// promptCheckbox treats a checkbox with options as a multi-select and a bare
// checkbox as a yes/no toggle.
func promptCheckbox(ctx context.Context, def model.FieldDefinition, driver Driver) (any, bool, error) {
	if len(def.Options) == 0 {
		checked, err := driver.Confirm(ctx, ConfirmConfig{Message: fieldMessage(def)})
		if err != nil {
			return nil, false, err
		}
		return checked, true, nil
	}
	indices, err := driver.MultiSelect(ctx, SelectConfig{
		Message: fieldMessage(def),
		Options: optionLabels(def.Options),
		Help:    sanitizeText(def.Placeholder),
	})
	if err != nil {
		return nil, false, err
	}
	if len(indices) == 0 {
		return nil, false, nil
	}
	selected := make([]any, 0, len(indices))
	for _, index := range indices {
		if index < 0 || index >= len(def.Options) {
			return nil, false, fmt.Errorf("prompt: field %s: option index %d out of range", def.Name, index)
		}
		selected = append(selected, def.Options[index].Value)
	}
	return selected, true, nil
}

func inputConfig(def model.FieldDefinition) InputConfig {
	cfg := InputConfig{
		Message: fieldMessage(def),
		Help:    sanitizeText(def.Placeholder),
	}
	if def.Required {
		name := def.Name
		cfg.Validator = func(text string) error {
			if strings.TrimSpace(text) == "" {
				return fmt.Errorf("%s is required", name)
			}
			return nil
		}
	}
	return cfg
}

func fieldMessage(def model.FieldDefinition) string {
	label := sanitizeText(def.Label)
	if label == "" {
		label = def.Name
	}
	return label
}

func optionLabels(options []model.Option) []string {
	labels := make([]string, len(options))
	for i, option := range options {
		label := sanitizeText(option.Label)
		if label == "" {
			label = option.Value
		}
		labels[i] = label
	}
	return labels
}
