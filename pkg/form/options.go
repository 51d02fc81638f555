package form

import (
	"time"

	"github.com/swellforms/swellforms-go/pkg/codec"
	"github.com/swellforms/swellforms-go/pkg/model"
	"github.com/swellforms/swellforms-go/pkg/transport"
)

// Option customises a Form at construction time.
type Option func(*Form)

// WithBaseURL overrides the API host the form talks to.
func WithBaseURL(baseURL string) Option {
	return func(f *Form) {
		if baseURL != "" {
			f.baseURL = baseURL
		}
	}
}

// WithTransport injects the underlying HTTP transport. Defaults to the
// ambient http.DefaultClient.
func WithTransport(doer transport.Doer) Option {
	return func(f *Form) {
		f.transportOpts = append(f.transportOpts, transport.WithDoer(doer))
	}
}

// WithTimeout overrides the per-request deadline.
func WithTimeout(timeout time.Duration) Option {
	return func(f *Form) {
		f.transportOpts = append(f.transportOpts, transport.WithTimeout(timeout))
	}
}

// WithCodec injects the JSON codec used for request and response bodies.
func WithCodec(cdc codec.Codec) Option {
	return func(f *Form) {
		if cdc != nil {
			f.codec = cdc
			f.transportOpts = append(f.transportOpts, transport.WithCodec(cdc))
		}
	}
}

// WithEnv injects the environment metadata capability.
func WithEnv(env Env) Option {
	return func(f *Form) {
		if env != nil {
			f.env = env
		}
	}
}

// WithValues seeds initial field values.
func WithValues(values map[string]any) Option {
	return func(f *Form) {
		for name, value := range values {
			f.values[name] = value
		}
	}
}

// WithDefinitions preloads field definitions, enabling local validation
// without a FetchFields round-trip (for example, definitions derived from an
// OpenAPI document).
func WithDefinitions(defs []model.FieldDefinition) Option {
	return func(f *Form) {
		f.definitions = append([]model.FieldDefinition(nil), defs...)
		f.definitionsFetched = true
	}
}
