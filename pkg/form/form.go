package form

import (
	"context"
	"net/http"
	"net/url"
	"reflect"
	"sync"

	"github.com/swellforms/swellforms-go/pkg/apierror"
	"github.com/swellforms/swellforms-go/pkg/codec"
	"github.com/swellforms/swellforms-go/pkg/errbag"
	"github.com/swellforms/swellforms-go/pkg/model"
	"github.com/swellforms/swellforms-go/pkg/transport"
)

// DefaultBaseURL is the production Swellforms API host.
const DefaultBaseURL = "https://api.swellforms.com"

const (
	apiPrefix       = "/api/v1/forms/"
	requiredMessage = "This field is required."
	invalidMessage  = "Validation failed."
)

// Form owns the state of one remote form session: local field values,
// optionally fetched field definitions, the last known error bag, and an
// in-flight flag. It is created per logical form session and holds state only
// in memory.
//
// A mutex guards the internal maps so reads stay memory-safe, but Validate
// and Submit are not serialized against each other: invoking both
// concurrently leaves the processing flag and the error bag reflecting
// whichever continuation ran last.
type Form struct {
	formID  string
	baseURL string
	env     Env
	codec   codec.Codec
	client  *transport.Client

	transportOpts []transport.Option

	mu                 sync.Mutex
	values             map[string]any
	definitions        []model.FieldDefinition
	errors             errbag.Bag
	processing         bool
	definitionsFetched bool
}

// New constructs a Form bound to the given form identifier.
func New(formID string, options ...Option) *Form {
	f := &Form{
		formID:  formID,
		baseURL: DefaultBaseURL,
		env:     noopEnv{},
		codec:   codec.Default,
		values:  make(map[string]any),
		errors:  errbag.Bag{},
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(f)
	}
	f.client = transport.New(f.transportOpts...)
	return f
}

// FormID returns the immutable form identifier.
func (f *Form) FormID() string {
	return f.formID
}

// SetField records a field value and clears any error previously recorded for
// that field.
func (f *Form) SetField(name string, value any) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.values[name] = value
	delete(f.errors, name)
}

// SetFields merges the given values field by field. Unlike SetField it does
// not clear per-field errors; the asymmetry is preserved for compatibility.
func (f *Form) SetFields(values map[string]any) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for name, value := range values {
		f.values[name] = value
	}
}

// Field returns the current value for name, nil when unset.
func (f *Form) Field(name string) any {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.values[name]
}

// Fields returns an independently mutable copy of the current values.
func (f *Form) Fields() map[string]any {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make(map[string]any, len(f.values))
	for name, value := range f.values {
		out[name] = value
	}
	return out
}

// FieldError returns the messages recorded for name, nil when the field is
// clean.
func (f *Form) FieldError(name string) []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	messages := f.errors.Field(name)
	if len(messages) == 0 {
		return nil
	}
	out := make([]string, len(messages))
	copy(out, messages)
	return out
}

// Errors returns an independently mutable copy of the current error bag.
func (f *Form) Errors() errbag.Bag {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.errors.Clone()
}

// HasError reports whether name carries at least one message.
func (f *Form) HasError(name string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.errors.Has(name)
}

// HasErrors reports whether any field carries a message.
func (f *Form) HasErrors() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.errors.Any()
}

// IsValid reports whether the whole form is free of recorded errors.
func (f *Form) IsValid() bool {
	return !f.HasErrors()
}

// IsFieldValid reports whether one field is free of recorded errors.
func (f *Form) IsFieldValid(name string) bool {
	return !f.HasError(name)
}

// IsProcessing reports whether a validate or submit call is in flight.
func (f *Form) IsProcessing() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.processing
}

// DefinitionsFetched reports whether field definitions are available, either
// from a successful FetchFields or preloaded via WithDefinitions.
func (f *Form) DefinitionsFetched() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.definitionsFetched
}

// Definitions returns a copy of the current field definitions.
func (f *Form) Definitions() []model.FieldDefinition {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]model.FieldDefinition(nil), f.definitions...)
}

// FetchFields retrieves the form's field definitions. On success they replace
// any previously held definitions and enable the local validation pass.
// Failures map to NOT_FOUND (404), UNAUTHORIZED (401/403), or UNEXPECTED, all
// carrying the HTTP status; none of them touch the error bag.
func (f *Form) FetchFields(ctx context.Context) ([]model.FieldDefinition, error) {
	resp, err := f.client.DoJSON(ctx, http.MethodGet, f.endpoint("fields"), nil)
	if err != nil {
		return nil, err
	}
	if resp.Status < 200 || resp.Status >= 300 {
		switch resp.Status {
		case 404:
			return nil, apierror.New("form not found", resp.Status, apierror.CodeNotFound)
		case 401, 403:
			return nil, apierror.New("not authorized to read form fields", resp.Status, apierror.CodeUnauthorized)
		default:
			return nil, apierror.Unexpected(resp.Status)
		}
	}

	defs := model.DecodeDefinitions(resp.Body, f.codec)

	f.mu.Lock()
	f.definitions = defs
	f.definitionsFetched = true
	f.mu.Unlock()

	return append([]model.FieldDefinition(nil), defs...), nil
}

// ValidationResult is the structured outcome of a Validate call. Recoverable
// validation failures are reported here, never as an error.
type ValidationResult struct {
	Valid   bool       `json:"valid"`
	Message string     `json:"message,omitempty"`
	Errors  errbag.Bag `json:"errors,omitempty"`
}

// Validate checks the current values, locally first when definitions are
// available and remotely otherwise, optionally restricted to the named
// fields. A local required-field failure short-circuits the network call.
// HTTP 422 responses are normalized into the error bag and returned as an
// invalid result; any other non-200 status is returned as an UNEXPECTED
// error. The processing flag is held for the duration of the call.
func (f *Form) Validate(ctx context.Context, only ...string) (*ValidationResult, error) {
	f.setProcessing(true)
	defer f.setProcessing(false)

	if bag := f.localErrors(only); bag.Any() {
		f.storeErrors(bag)
		return &ValidationResult{Valid: false, Message: invalidMessage, Errors: bag.Clone()}, nil
	}

	payload := f.requestBody(nil)
	if len(only) > 0 {
		payload["only"] = only
	}

	resp, err := f.client.DoJSON(ctx, http.MethodPost, f.endpoint("validate"), payload)
	if err != nil {
		return nil, err
	}

	switch {
	case resp.Status == 200 && isValidBody(resp.Body):
		f.storeErrors(errbag.Bag{})
		return &ValidationResult{Valid: true, Message: errbag.Message(resp.Body)}, nil
	case resp.Status == 422:
		bag := errbag.Normalize(resp.Body).Compact()
		f.storeErrors(bag)
		message := errbag.Message(resp.Body)
		if message == "" {
			message = invalidMessage
		}
		return &ValidationResult{Valid: false, Message: message, Errors: bag.Clone()}, nil
	default:
		return nil, apierror.Unexpected(resp.Status)
	}
}

// ValidateField validates a single field, equivalent to Validate restricted
// to that name.
func (f *Form) ValidateField(ctx context.Context, name string) (*ValidationResult, error) {
	return f.Validate(ctx, name)
}

// SubmitResult is the structured outcome of a Submit call. Status carries the
// HTTP status (422 for both local and remote validation failures); Data holds
// the parsed response body when the server returned one.
type SubmitResult struct {
	OK      bool           `json:"ok"`
	Status  int            `json:"status"`
	Message string         `json:"message,omitempty"`
	Data    map[string]any `json:"data,omitempty"`
	Errors  errbag.Bag     `json:"errors,omitempty"`
}

// Submit sends the current values, with overrides merged on top (overrides
// win on key collision), to the submit endpoint. When definitions are
// available, a failing local required-field pass over the current values
// short-circuits the network call and yields a non-ok result with status 422.
// Remote 422 responses become non-ok results carrying the normalized bag and
// the raw body; any 2xx clears the error bag and returns ok. 429, 409, and
// 5xx map to RATE_LIMITED, CONFLICT, and SERVER errors; anything else
// non-2xx to UNEXPECTED. The processing flag is held for the duration.
func (f *Form) Submit(ctx context.Context, overrides map[string]any) (*SubmitResult, error) {
	f.setProcessing(true)
	defer f.setProcessing(false)

	if bag := f.localErrors(nil); bag.Any() {
		f.storeErrors(bag)
		return &SubmitResult{OK: false, Status: 422, Message: invalidMessage, Errors: bag.Clone()}, nil
	}

	payload := f.requestBody(overrides)
	resp, err := f.client.DoJSON(ctx, http.MethodPost, f.endpoint("submit"), payload)
	if err != nil {
		return nil, err
	}

	switch {
	case resp.Status == 422:
		bag := errbag.Normalize(resp.Body).Compact()
		f.storeErrors(bag)
		message := errbag.Message(resp.Body)
		if message == "" {
			message = invalidMessage
		}
		body, _ := resp.Body.(map[string]any)
		return &SubmitResult{OK: false, Status: 422, Message: message, Data: body, Errors: bag.Clone()}, nil
	case resp.Status >= 200 && resp.Status < 300:
		f.storeErrors(errbag.Bag{})
		body, _ := resp.Body.(map[string]any)
		return &SubmitResult{OK: true, Status: resp.Status, Message: errbag.Message(resp.Body), Data: body}, nil
	case resp.Status == 429:
		return nil, apierror.New("rate limited", resp.Status, apierror.CodeRateLimited)
	case resp.Status == 409:
		return nil, apierror.New("submission conflict", resp.Status, apierror.CodeConflict)
	case resp.Status >= 500:
		return nil, apierror.New("server error", resp.Status, apierror.CodeServer)
	default:
		return nil, apierror.Unexpected(resp.Status)
	}
}

func (f *Form) endpoint(operation string) string {
	return f.baseURL + apiPrefix + url.PathEscape(f.formID) + "/" + operation
}

// requestBody snapshots the current values, merges overrides on top, and
// wraps them with the fixed request metadata.
func (f *Form) requestBody(overrides map[string]any) map[string]any {
	merged := f.Fields()
	for name, value := range overrides {
		merged[name] = value
	}
	return map[string]any{
		"formId":    f.formID,
		"fields":    codec.ToPlain(merged),
		"originUrl": f.env.Origin(),
		"fullUrl":   f.env.FullURL(),
	}
}

// localErrors runs the required-field pass over the current values. It
// returns an empty bag when definitions were never fetched.
func (f *Form) localErrors(only []string) errbag.Bag {
	f.mu.Lock()
	defer f.mu.Unlock()

	bag := errbag.Bag{}
	if !f.definitionsFetched {
		return bag
	}
	for _, def := range f.definitions {
		if len(only) > 0 && !containsName(only, def.Name) {
			continue
		}
		if def.Required && isEmptyValue(f.values[def.Name]) {
			bag[def.Name] = []string{requiredMessage}
		}
	}
	return bag
}

func (f *Form) storeErrors(bag errbag.Bag) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.errors = bag.Compact()
}

func (f *Form) setProcessing(active bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.processing = active
}

func containsName(names []string, name string) bool {
	for _, candidate := range names {
		if candidate == name {
			return true
		}
	}
	return false
}

func isValidBody(body any) bool {
	obj, ok := body.(map[string]any)
	if !ok {
		return false
	}
	valid, _ := obj["valid"].(bool)
	return valid
}

// isEmptyValue implements the required-field emptiness rule: nil, the absent
// sentinel, the empty string, and empty arrays count as empty.
func isEmptyValue(value any) bool {
	switch t := value.(type) {
	case nil:
		return true
	case string:
		return t == ""
	case []any:
		return len(t) == 0
	}
	if value == codec.Undefined {
		return true
	}
	rv := reflect.ValueOf(value)
	if rv.Kind() == reflect.Slice || rv.Kind() == reflect.Array {
		return rv.Len() == 0
	}
	return false
}
