package errbag_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/swellforms/swellforms-go/pkg/errbag"
)

func TestNormalize_StripsFieldPrefix(t *testing.T) {
	body := map[string]any{
		"errors": map[string]any{
			"fields.emailAddress": []any{"bad"},
		},
	}

	got := errbag.Normalize(body)

	want := errbag.Bag{"emailAddress": {"bad"}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("normalized bag mismatch (-want +got):\n%s", diff)
	}
}

func TestNormalize_BodyWithoutNestedErrors(t *testing.T) {
	body := map[string]any{
		"name": []any{"required", "too short"},
	}

	got := errbag.Normalize(body)

	want := errbag.Bag{"name": {"required", "too short"}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("normalized bag mismatch (-want +got):\n%s", diff)
	}
}

func TestNormalize_NonObjectSources(t *testing.T) {
	for _, body := range []any{nil, "oops", 42, []any{"a"}} {
		got := errbag.Normalize(body)
		if diff := cmp.Diff(errbag.Bag{}, got); diff != "" {
			t.Fatalf("normalized bag for %v mismatch (-want +got):\n%s", body, diff)
		}
	}
}

func TestNormalize_CoercesMessageLists(t *testing.T) {
	body := map[string]any{
		"notAList":  "just a string",
		"mixed":     []any{"keep", 7, true, "also keep"},
		"wellTyped": []string{"typed"},
	}

	got := errbag.Normalize(body)

	want := errbag.Bag{
		"notAList":  {},
		"mixed":     {"keep", "also keep"},
		"wellTyped": {"typed"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("normalized bag mismatch (-want +got):\n%s", diff)
	}
}

func TestNormalize_ConcatenatesCollidingKeys(t *testing.T) {
	body := map[string]any{
		"fields.name": []any{"from prefixed"},
		"name":        []any{"from bare"},
	}

	got := errbag.Normalize(body)

	// Source keys are visited in sorted order, so "fields.name" contributes
	// before "name".
	want := errbag.Bag{"name": {"from prefixed", "from bare"}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("normalized bag mismatch (-want +got):\n%s", diff)
	}
}

func TestBag_CompactDropsEmptyLists(t *testing.T) {
	bag := errbag.Bag{
		"empty": {},
		"kept":  {"msg"},
	}

	got := bag.Compact()

	want := errbag.Bag{"kept": {"msg"}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("compacted bag mismatch (-want +got):\n%s", diff)
	}
}

func TestBag_CloneIsIndependent(t *testing.T) {
	bag := errbag.Bag{"name": {"msg"}}

	clone := bag.Clone()
	clone["name"][0] = "mutated"
	clone["other"] = []string{"added"}

	want := errbag.Bag{"name": {"msg"}}
	if diff := cmp.Diff(want, bag); diff != "" {
		t.Fatalf("original bag mismatch after clone mutation (-want +got):\n%s", diff)
	}
}

func TestBag_Accessors(t *testing.T) {
	bag := errbag.Bag{"name": {"msg"}, "empty": {}}

	if !bag.Has("name") {
		t.Fatal("expected Has(name) to be true")
	}
	if bag.Has("empty") {
		t.Fatal("expected Has(empty) to be false for an empty list")
	}
	if bag.Has("missing") {
		t.Fatal("expected Has(missing) to be false")
	}
	if !bag.Any() {
		t.Fatal("expected Any to be true")
	}

	var nilBag errbag.Bag
	if nilBag.Any() || nilBag.Has("name") || nilBag.Field("name") != nil {
		t.Fatal("expected nil bag to behave as empty")
	}
}

func TestMessage(t *testing.T) {
	if got := errbag.Message(map[string]any{"message": "Server says no"}); got != "Server says no" {
		t.Fatalf("message mismatch: got %q", got)
	}
	if got := errbag.Message(nil); got != "" {
		t.Fatalf("expected empty message for nil body, got %q", got)
	}
	if got := errbag.Message(map[string]any{"message": 7}); got != "" {
		t.Fatalf("expected empty message for non-string, got %q", got)
	}
}
