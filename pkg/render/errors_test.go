package render_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-contactform/pkg/render"
	"github.com/goliatone/go-contactform/pkg/validation"
)

func TestMapErrorPayload_ResolvesContactFields(t *testing.T) {
	payload := map[string][]string{
		"/body/name":          {"Name is required."},
		"body.email":          {" Email invalid ", "Email invalid"},
		"#/contact-message":   {"Message is required."},
		"$.payload.name[0]":   {"Name too short"},
		"non_field_errors":    {"Form level error"},
		"request/body/phone":  {"Should fall back to form errors"},
		"":                    {"Unscoped form error"},
		"properties/email/~1": {"  "},
	}

	mapped := render.MapErrorPayload(payload)

	wantFields := map[validation.FieldID][]string{
		validation.FieldName:    {"Name too short", "Name is required."},
		validation.FieldEmail:   {"Email invalid"},
		validation.FieldMessage: {"Message is required."},
	}
	if diff := cmp.Diff(wantFields, mapped.Fields); diff != "" {
		t.Fatalf("field errors mismatch (-want +got):\n%s", diff)
	}

	wantForm := []string{"Unscoped form error", "Form level error", "Should fall back to form errors"}
	if diff := cmp.Diff(wantForm, mapped.Form); diff != "" {
		t.Fatalf("form errors mismatch (-want +got):\n%s", diff)
	}

	wantResults := []validation.Result{
		validation.Fail(validation.FieldName, "Name too short"),
		validation.Fail(validation.FieldEmail, "Email invalid"),
		validation.Fail(validation.FieldMessage, "Message is required."),
	}
	if diff := cmp.Diff(wantResults, mapped.Results()); diff != "" {
		t.Fatalf("results mismatch (-want +got):\n%s", diff)
	}
}

func TestIssuesPayload(t *testing.T) {
	issues := validation.New().Issues(validation.NewSnapshot("", "bad", "short"))
	got := render.IssuesPayload(issues...)
	want := map[string][]string{
		"name":    {"Name is required."},
		"email":   {"Please enter a valid email address."},
		"message": {"Message must be at least 10 characters long."},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("issues payload mismatch (-want +got):\n%s", diff)
	}

	if render.IssuesPayload(validation.Pass()) != nil {
		t.Fatalf("expected nil payload for passing results")
	}

	roundTrip := render.MapErrorPayload(got)
	if diff := cmp.Diff(issues, roundTrip.Results()); diff != "" {
		t.Fatalf("mapping issues back mismatch (-want +got):\n%s", diff)
	}
}

func TestMergeFormErrors(t *testing.T) {
	merged := render.MergeFormErrors([]string{" First ", "Second"}, "Second", "third", "  ")
	want := []string{"First", "Second", "third"}

	if diff := cmp.Diff(want, merged); diff != "" {
		t.Fatalf("merged form errors mismatch (-want +got):\n%s", diff)
	}
}
