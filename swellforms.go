// Package swellforms is the Go client SDK for the Swellforms forms API. It
// manages the state of one remote form resource — field values, fetched field
// definitions, and server-reported validation errors — and synchronizes it
// over the fields, validate, and submit endpoints with progressive
// local-then-remote validation.
package swellforms

import (
	"context"

	"github.com/swellforms/swellforms-go/pkg/apierror"
	"github.com/swellforms/swellforms-go/pkg/errbag"
	"github.com/swellforms/swellforms-go/pkg/form"
	"github.com/swellforms/swellforms-go/pkg/model"
	"github.com/swellforms/swellforms-go/pkg/transport"
)

// Form re-exports the form state machine.
type Form = form.Form

// ValidationResult re-exports the structured Validate outcome.
type ValidationResult = form.ValidationResult

// SubmitResult re-exports the structured Submit outcome.
type SubmitResult = form.SubmitResult

// FieldDefinition re-exports the server-declared field metadata.
type FieldDefinition = model.FieldDefinition

// FieldType re-exports the field type enumeration.
type FieldType = model.FieldType

// ErrorBag re-exports the canonical field-error mapping.
type ErrorBag = errbag.Bag

// Error re-exports the typed API failure surfaced by network operations.
type Error = apierror.Error

const (
	CodeTimeout      = apierror.CodeTimeout
	CodeNetwork      = apierror.CodeNetwork
	CodeNotFound     = apierror.CodeNotFound
	CodeUnauthorized = apierror.CodeUnauthorized
	CodeRateLimited  = apierror.CodeRateLimited
	CodeConflict     = apierror.CodeConflict
	CodeServer       = apierror.CodeServer
	CodeUnexpected   = apierror.CodeUnexpected
)

// New constructs a Form bound to the given form identifier.
func New(formID string, options ...form.Option) *Form {
	return form.New(formID, options...)
}

// WithBaseURL re-exports the base URL option.
func WithBaseURL(baseURL string) form.Option {
	return form.WithBaseURL(baseURL)
}

// WithTransport re-exports the transport injection option.
func WithTransport(doer transport.Doer) form.Option {
	return form.WithTransport(doer)
}

// WithValues re-exports the initial values option.
func WithValues(values map[string]any) form.Option {
	return form.WithValues(values)
}

// WithEnv re-exports the environment metadata option.
func WithEnv(env form.Env) form.Option {
	return form.WithEnv(env)
}

// Payload describes a one-shot validate or submit: the target form and the
// field values to send.
type Payload struct {
	FormID string
	Fields map[string]any
}

// SubmitForm constructs a throwaway Form from the payload, submits it once,
// and returns the result. No state survives the call.
func SubmitForm(ctx context.Context, payload Payload, options ...form.Option) (*SubmitResult, error) {
	f := form.New(payload.FormID, append(options, form.WithValues(payload.Fields))...)
	return f.Submit(ctx, nil)
}

// ValidateForm constructs a throwaway Form from the payload, validates it
// once, and returns the result. No state survives the call.
func ValidateForm(ctx context.Context, payload Payload, options ...form.Option) (*ValidationResult, error) {
	f := form.New(payload.FormID, append(options, form.WithValues(payload.Fields))...)
	return f.Validate(ctx)
}
