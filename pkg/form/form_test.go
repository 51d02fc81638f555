package form_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/swellforms/swellforms-go/pkg/apierror"
	"github.com/swellforms/swellforms-go/pkg/codec"
	"github.com/swellforms/swellforms-go/pkg/errbag"
	"github.com/swellforms/swellforms-go/pkg/form"
	"github.com/swellforms/swellforms-go/pkg/model"
)

type doerFunc func(*http.Request) (*http.Response, error)

func (f doerFunc) Do(req *http.Request) (*http.Response, error) {
	return f(req)
}

func jsonResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(strings.NewReader(body)),
		Header:     http.Header{"Content-Type": []string{"application/json"}},
	}
}

func decodeBody(t *testing.T, req *http.Request) map[string]any {
	t.Helper()
	raw, err := io.ReadAll(req.Body)
	if err != nil {
		t.Fatalf("read request body: %v", err)
	}
	var out map[string]any
	if err := codec.Default.Unmarshal(raw, &out); err != nil {
		t.Fatalf("decode request body: %v", err)
	}
	return out
}

func requiredEmail() []model.FieldDefinition {
	return []model.FieldDefinition{
		{ID: "1", Name: "email", Type: model.FieldTypeEmail, Required: true},
		{ID: "2", Name: "note", Type: model.FieldTypeTextarea},
	}
}

func TestFields_ReturnsIndependentCopies(t *testing.T) {
	f := form.New("contact", form.WithValues(map[string]any{"name": "Ada"}))

	first := f.Fields()
	second := f.Fields()
	first["name"] = "mutated"
	first["extra"] = true

	if diff := cmp.Diff(map[string]any{"name": "Ada"}, second); diff != "" {
		t.Fatalf("second read mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(map[string]any{"name": "Ada"}, f.Fields()); diff != "" {
		t.Fatalf("internal values mismatch after caller mutation (-want +got):\n%s", diff)
	}
}

func TestErrors_ReturnsIndependentCopies(t *testing.T) {
	f := newFormWithErrors(t, errbag.Bag{"email": {"bad"}})

	bag := f.Errors()
	bag["email"][0] = "mutated"
	bag["other"] = []string{"added"}

	if diff := cmp.Diff(errbag.Bag{"email": {"bad"}}, f.Errors()); diff != "" {
		t.Fatalf("error bag mismatch after caller mutation (-want +got):\n%s", diff)
	}
}

func TestSetField_ClearsFieldError(t *testing.T) {
	f := newFormWithErrors(t, errbag.Bag{"email": {"bad"}, "name": {"also bad"}})

	f.SetField("email", "ada@example.com")

	if f.HasError("email") {
		t.Fatal("expected SetField to clear the field error")
	}
	if !f.HasError("name") {
		t.Fatal("expected other field errors to survive")
	}
}

func TestSetFields_DoesNotClearErrors(t *testing.T) {
	f := newFormWithErrors(t, errbag.Bag{"email": {"bad"}})

	f.SetFields(map[string]any{"email": "ada@example.com", "name": "Ada"})

	if !f.HasError("email") {
		t.Fatal("expected bulk merge to leave the error bag untouched")
	}
	if got := f.Field("name"); got != "Ada" {
		t.Fatalf("expected merged value, got %v", got)
	}
}

func TestSubmit_LocalFailureShortCircuitsTransport(t *testing.T) {
	var calls atomic.Int32
	counting := doerFunc(func(req *http.Request) (*http.Response, error) {
		calls.Add(1)
		return jsonResponse(200, `{}`), nil
	})

	f := form.New("contact",
		form.WithTransport(counting),
		form.WithDefinitions(requiredEmail()),
	)

	result, err := f.Submit(context.Background(), nil)
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}

	if result.OK || result.Status != 422 {
		t.Fatalf("expected {ok:false status:422}, got ok=%v status=%d", result.OK, result.Status)
	}
	if diff := cmp.Diff(errbag.Bag{"email": {"This field is required."}}, result.Errors); diff != "" {
		t.Fatalf("local error bag mismatch (-want +got):\n%s", diff)
	}
	if calls.Load() != 0 {
		t.Fatalf("expected no transport calls, got %d", calls.Load())
	}
	if !f.HasError("email") {
		t.Fatal("expected local errors mirrored into instance state")
	}
}

func TestValidate_LocalFailureShortCircuitsTransport(t *testing.T) {
	var calls atomic.Int32
	counting := doerFunc(func(req *http.Request) (*http.Response, error) {
		calls.Add(1)
		return jsonResponse(200, `{"valid":true}`), nil
	})

	f := form.New("contact",
		form.WithTransport(counting),
		form.WithDefinitions(requiredEmail()),
	)

	result, err := f.Validate(context.Background())
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if result.Valid {
		t.Fatal("expected invalid result")
	}
	if calls.Load() != 0 {
		t.Fatalf("expected no transport calls, got %d", calls.Load())
	}
}

func TestValidate_OnlyFilterSkipsOtherFields(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body := decodeBody(t, r)
		if diff := cmp.Diff([]any{"note"}, body["only"]); diff != "" {
			t.Errorf("only filter mismatch (-want +got):\n%s", diff)
		}
		_, _ = w.Write([]byte(`{"valid":true}`))
	}))
	defer server.Close()

	// email is required and empty, but the only filter excludes it, so the
	// local pass finds nothing and the remote call proceeds.
	f := form.New("contact",
		form.WithBaseURL(server.URL),
		form.WithDefinitions(requiredEmail()),
	)

	result, err := f.Validate(context.Background(), "note")
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if !result.Valid {
		t.Fatalf("expected valid result, got %+v", result)
	}
}

func TestValidate_RemoteInvalidStoresNormalizedBag(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"message":"Check the form","errors":{"fields.email":["is invalid"]}}`))
	}))
	defer server.Close()

	f := form.New("contact", form.WithBaseURL(server.URL))
	f.SetField("email", "nope")

	result, err := f.Validate(context.Background())
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}

	if result.Valid {
		t.Fatal("expected invalid result")
	}
	if result.Message != "Check the form" {
		t.Fatalf("message mismatch: got %q", result.Message)
	}
	want := errbag.Bag{"email": {"is invalid"}}
	if diff := cmp.Diff(want, result.Errors); diff != "" {
		t.Fatalf("result bag mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(want, f.Errors()); diff != "" {
		t.Fatalf("stored bag mismatch (-want +got):\n%s", diff)
	}
}

func TestValidate_SuccessClearsErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"valid":true}`))
	}))
	defer server.Close()

	f := newFormWithErrors(t, errbag.Bag{"email": {"stale"}}, form.WithBaseURL(server.URL))

	result, err := f.Validate(context.Background())
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if !result.Valid {
		t.Fatal("expected valid result")
	}
	if f.HasErrors() {
		t.Fatalf("expected error bag cleared, got %v", f.Errors())
	}
}

func TestValidate_UnexpectedStatus(t *testing.T) {
	stub := doerFunc(func(req *http.Request) (*http.Response, error) {
		return jsonResponse(500, `{}`), nil
	})

	f := form.New("contact", form.WithTransport(stub))
	_, err := f.Validate(context.Background())

	var apiErr *apierror.Error
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected apierror.Error, got %v", err)
	}
	if apiErr.Code != apierror.CodeUnexpected || apiErr.Status != 500 {
		t.Fatalf("expected UNEXPECTED 500, got code %s status %d", apiErr.Code, apiErr.Status)
	}
	if f.HasErrors() {
		t.Fatal("expected error bag untouched on exceptional failure")
	}
}

func TestValidateField_RestrictsToName(t *testing.T) {
	var calls atomic.Int32
	counting := doerFunc(func(req *http.Request) (*http.Response, error) {
		calls.Add(1)
		return jsonResponse(200, `{"valid":true}`), nil
	})

	f := form.New("contact",
		form.WithTransport(counting),
		form.WithDefinitions(requiredEmail()),
	)

	result, err := f.ValidateField(context.Background(), "email")
	if err != nil {
		t.Fatalf("ValidateField: %v", err)
	}
	if result.Valid {
		t.Fatal("expected local required failure for email")
	}
	if calls.Load() != 0 {
		t.Fatalf("expected no transport calls, got %d", calls.Load())
	}
}

func TestRequestMetadata(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body := decodeBody(t, r)
		want := map[string]any{
			"formId":    "contact",
			"fields":    map[string]any{"name": "Ada"},
			"originUrl": "forms.example.com",
			"fullUrl":   "https://forms.example.com/signup",
		}
		if diff := cmp.Diff(want, body); diff != "" {
			t.Errorf("request body mismatch (-want +got):\n%s", diff)
		}
		_, _ = w.Write([]byte(`{"id":1}`))
	}))
	defer server.Close()

	f := form.New("contact",
		form.WithBaseURL(server.URL),
		form.WithEnv(form.StaticEnv("forms.example.com", "https://forms.example.com/signup")),
		form.WithValues(map[string]any{"name": "Ada"}),
	)

	if _, err := f.Submit(context.Background(), nil); err != nil {
		t.Fatalf("Submit: %v", err)
	}
}

func TestSubmit_OverridesWinOnCollision(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body := decodeBody(t, r)
		fields, _ := body["fields"].(map[string]any)
		want := map[string]any{"name": "Override", "note": "kept"}
		if diff := cmp.Diff(want, fields); diff != "" {
			t.Errorf("merged fields mismatch (-want +got):\n%s", diff)
		}
		_, _ = w.Write([]byte(`{}`))
	}))
	defer server.Close()

	f := form.New("contact",
		form.WithBaseURL(server.URL),
		form.WithValues(map[string]any{"name": "Ada", "note": "kept"}),
	)

	if _, err := f.Submit(context.Background(), map[string]any{"name": "Override"}); err != nil {
		t.Fatalf("Submit: %v", err)
	}

	// The merge is request-only: instance values stay as set.
	if got := f.Field("name"); got != "Ada" {
		t.Fatalf("expected instance value untouched, got %v", got)
	}
}

func TestIsProcessing_HeldDuringCall(t *testing.T) {
	release := make(chan struct{})
	observed := make(chan bool, 1)

	var f *form.Form
	blocking := doerFunc(func(req *http.Request) (*http.Response, error) {
		observed <- f.IsProcessing()
		<-release
		return jsonResponse(200, `{"valid":true}`), nil
	})
	f = form.New("contact", form.WithTransport(blocking))

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = f.Validate(context.Background())
	}()

	observe := func(t *testing.T) {
		t.Helper()
		mid := <-observed
		if !mid {
			t.Fatal("expected processing=true while the call is in flight")
		}
	}
	observe(t)
	close(release)
	<-done

	if f.IsProcessing() {
		t.Fatal("expected processing reset after completion")
	}
}

func TestProcessing_ResetOnFailure(t *testing.T) {
	failing := doerFunc(func(req *http.Request) (*http.Response, error) {
		return nil, errors.New("boom")
	})

	f := form.New("contact", form.WithTransport(failing))
	if _, err := f.Submit(context.Background(), nil); err == nil {
		t.Fatal("expected transport failure")
	}
	if f.IsProcessing() {
		t.Fatal("expected processing reset after a signaled failure")
	}
}

// newFormWithErrors seeds a form's error bag through a remote 422 validate,
// then rebinds the form to the given options for the test body.
func newFormWithErrors(t *testing.T, bag errbag.Bag, options ...form.Option) *form.Form {
	t.Helper()

	payload := map[string]any{"errors": map[string]any{}}
	for name, messages := range bag {
		list := make([]any, len(messages))
		for i, msg := range messages {
			list[i] = msg
		}
		payload["errors"].(map[string]any)[name] = list
	}
	raw, err := codec.Default.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal seed payload: %v", err)
	}

	// The first validate call seeds the bag; later requests pass through to
	// the real client so tests can pair this helper with an httptest server.
	var seedDone atomic.Bool
	seeded := doerFunc(func(req *http.Request) (*http.Response, error) {
		if seedDone.CompareAndSwap(false, true) {
			return jsonResponse(422, string(raw)), nil
		}
		return http.DefaultClient.Do(req)
	})

	f := form.New("contact", append([]form.Option{form.WithTransport(seeded)}, options...)...)
	if _, err := f.Validate(context.Background()); err != nil {
		t.Fatalf("seed validate: %v", err)
	}
	if diff := cmp.Diff(bag, f.Errors()); diff != "" {
		t.Fatalf("seeded bag mismatch (-want +got):\n%s", diff)
	}
	return f
}
