package contact

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-contactform/internal/contract"
	"github.com/goliatone/go-contactform/pkg/form"
	"github.com/goliatone/go-contactform/pkg/render"
)

func newTestHandler(t *testing.T, fns ...OptionFn) http.Handler {
	t.Helper()
	base := []OptionFn{WithSubmitDelay(0)}
	h, err := NewHandler(append(base, fns...)...)
	if err != nil {
		t.Fatalf("new handler: %v", err)
	}
	return h
}

func loadContract(t *testing.T) *contract.Contract {
	t.Helper()
	c, err := contract.Load(context.Background())
	if err != nil {
		t.Fatalf("load contract: %v", err)
	}
	return c
}

func serve(h http.Handler, req *http.Request) (*http.Response, string) {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	res := rec.Result()
	body, _ := io.ReadAll(res.Body)
	return res, string(body)
}

func postJSON(path, body string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func postForm(path string, values url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func TestSubmitJSON_ValidSubmission(t *testing.T) {
	h := newTestHandler(t)
	res, body := serve(h, postJSON(DefaultAPIPath, `{"name":"Al","email":"al@x.io","message":"Hello, this works!"}`))

	if res.StatusCode != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", res.StatusCode, body)
	}
	if ct := res.Header.Get("Content-Type"); !strings.HasPrefix(ct, "application/json") {
		t.Fatalf("expected JSON content-type, got %q", ct)
	}
	if res.Header.Get(requestIDHeader) == "" {
		t.Fatalf("expected a request id header")
	}
	if err := loadContract(t).ValidateResponse(contract.OpSubmit, res.StatusCode, []byte(body)); err != nil {
		t.Fatalf("response violates contract: %v", err)
	}

	var payload map[string]any
	if err := json.Unmarshal([]byte(body), &payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	want := map[string]any{
		"isValid": true,
		"message": nil,
		"notification": map[string]any{
			"kind": "success",
			"text": form.DefaultSuccessText,
		},
	}
	if diff := cmp.Diff(want, payload); diff != "" {
		t.Fatalf("payload mismatch (-want +got):\n%s", diff)
	}
}

func TestSubmitJSON_InvalidSubmission(t *testing.T) {
	h := newTestHandler(t)
	res, body := serve(h, postJSON(DefaultAPIPath, `{"name":"","email":"nope","message":"short"}`))

	if res.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("expected status 422, got %d: %s", res.StatusCode, body)
	}
	if err := loadContract(t).ValidateResponse(contract.OpSubmit, res.StatusCode, []byte(body)); err != nil {
		t.Fatalf("response violates contract: %v", err)
	}

	var payload submitResponse
	if err := json.Unmarshal([]byte(body), &payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if payload.Valid || payload.Message == nil || *payload.Message != "Please enter your name." {
		t.Fatalf("unexpected verdict: %+v", payload)
	}
	wantErrors := map[string][]string{
		"name":    {"Name is required."},
		"email":   {"Please enter a valid email address."},
		"message": {"Message must be at least 10 characters long."},
	}
	if diff := cmp.Diff(wantErrors, payload.Errors); diff != "" {
		t.Fatalf("errors mismatch (-want +got):\n%s", diff)
	}
	if payload.Notification == nil || payload.Notification.Kind != "error" || payload.Notification.Text != "Please enter your name." {
		t.Fatalf("unexpected notification: %+v", payload.Notification)
	}
}

func TestSubmitJSON_ContractViolation(t *testing.T) {
	h := newTestHandler(t)
	res, body := serve(h, postJSON(DefaultAPIPath, `{"name":42,"email":"al@x.io"}`))

	if res.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d: %s", res.StatusCode, body)
	}
	if err := loadContract(t).ValidateResponse(contract.OpSubmit, res.StatusCode, []byte(body)); err != nil {
		t.Fatalf("response violates contract: %v", err)
	}
	var payload problemResponse
	if err := json.Unmarshal([]byte(body), &payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(payload.Errors["name"]) == 0 {
		t.Fatalf("expected the violation to map onto the name field, got %+v", payload.Errors)
	}

	res, body = serve(h, postJSON(DefaultAPIPath, `{"name":`))
	if res.StatusCode != http.StatusBadRequest || !strings.Contains(body, "body must be valid JSON") {
		t.Fatalf("expected malformed JSON to be rejected, got %d: %s", res.StatusCode, body)
	}
}

func TestSubmitJSON_Honeypot(t *testing.T) {
	h := newTestHandler(t, WithSubmitDelay(time.Hour))
	res, body := serve(h, postJSON(DefaultAPIPath, `{"name":"","website":"http://spam.example"}`))

	if res.StatusCode != http.StatusOK || !strings.Contains(body, `"isValid":true`) {
		t.Fatalf("expected a silent success, got %d: %s", res.StatusCode, body)
	}
}

func TestSubmitJSON_BodyTooLarge(t *testing.T) {
	h := newTestHandler(t, WithMaxBodyBytes(16))
	res, _ := serve(h, postJSON(DefaultAPIPath, `{"name":"`+strings.Repeat("a", 64)+`"}`))
	if res.StatusCode != http.StatusRequestEntityTooLarge {
		t.Fatalf("expected status 413, got %d", res.StatusCode)
	}
}

func TestSubmitJSON_AbandonedRequestStopsWaiting(t *testing.T) {
	h := newTestHandler(t, WithSubmitDelay(time.Hour))
	ctx, cancel := context.WithCancel(context.Background())
	req := postJSON(DefaultAPIPath, `{"name":"Al","email":"al@x.io","message":"Hello, this works!"}`).WithContext(ctx)

	done := make(chan struct{})
	rec := httptest.NewRecorder()
	go func() {
		h.ServeHTTP(rec, req)
		close(done)
	}()
	cancel()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatalf("handler kept waiting after the request was cancelled")
	}
	if rec.Body.Len() != 0 {
		t.Fatalf("expected no body for an abandoned request, got %q", rec.Body.String())
	}
}

func TestValidateField(t *testing.T) {
	h := newTestHandler(t)
	c := loadContract(t)

	cases := []struct {
		name    string
		body    string
		wantMsg string
	}{
		{name: "incomplete email", body: `{"field":"contact-email","value":"al@"}`, wantMsg: "Please enter a valid email address."},
		{name: "empty name", body: `{"field":"name","value":"  "}`, wantMsg: "Name is required."},
		{name: "valid message", body: `{"field":"message","value":"Hello, this works!"}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res, body := serve(h, postJSON(DefaultValidatePath, tc.body))
			if res.StatusCode != http.StatusOK {
				t.Fatalf("expected status 200, got %d: %s", res.StatusCode, body)
			}
			if err := c.ValidateResponse(contract.OpValidateField, res.StatusCode, []byte(body)); err != nil {
				t.Fatalf("response violates contract: %v", err)
			}
			var got fieldCheckResponse
			if err := json.Unmarshal([]byte(body), &got); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if got.Result.Valid != (tc.wantMsg == "") || got.Result.Message != tc.wantMsg {
				t.Fatalf("unexpected result: %+v", got.Result)
			}
		})
	}

	res, _ := serve(h, postJSON(DefaultValidatePath, `{"field":"phone","value":"1"}`))
	if res.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected unknown fields to be rejected, got %d", res.StatusCode)
	}
}

func TestValidateField_ReportsLiveHint(t *testing.T) {
	h := newTestHandler(t)
	_, body := serve(h, postJSON(DefaultValidatePath, `{"field":"email","value":"al@x.io"}`))
	if !strings.Contains(body, `"hint":"success"`) {
		t.Fatalf("expected success hint, got %s", body)
	}
	_, body = serve(h, postJSON(DefaultValidatePath, `{"field":"email","value":"al@"}`))
	if !strings.Contains(body, `"hint":"warning"`) {
		t.Fatalf("expected warning hint, got %s", body)
	}
}

func TestPage_Get(t *testing.T) {
	h := newTestHandler(t, WithHiddenFields(func(*http.Request) []render.HiddenField {
		return []render.HiddenField{render.CSRFToken("_csrf", "tok")}
	}))
	res, body := serve(h, httptest.NewRequest(http.MethodGet, DefaultRoutePath, nil))

	if res.StatusCode != http.StatusOK {
		t.Fatalf("expected status 200, got %d", res.StatusCode)
	}
	if ct := res.Header.Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Fatalf("expected HTML content-type, got %q", ct)
	}
	for _, fragment := range []string{
		`action="/contact"`,
		`data-validate-url="/api/contact/validate"`,
		`href="/assets/contactform/contactform.css"`,
		`<input type="hidden" name="_csrf" value="tok">`,
		`name="website"`,
	} {
		if !strings.Contains(body, fragment) {
			t.Fatalf("expected page to contain %q\n%s", fragment, body)
		}
	}
}

func TestPage_PostInvalidKeepsValues(t *testing.T) {
	h := newTestHandler(t)
	res, body := serve(h, postForm(DefaultRoutePath, url.Values{
		"name":    {"A"},
		"email":   {"al@x.io"},
		"message": {"Hello, this works!"},
	}))

	if res.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("expected status 422, got %d", res.StatusCode)
	}
	for _, fragment := range []string{
		`notification--error`,
		"Name must be at least 2 characters long.",
		`value="al@x.io"`,
		">Hello, this works!</textarea>",
		`aria-invalid`,
	} {
		if !strings.Contains(body, fragment) {
			t.Fatalf("expected page to contain %q\n%s", fragment, body)
		}
	}
}

func TestPage_PostValidClearsFields(t *testing.T) {
	h := newTestHandler(t)
	res, body := serve(h, postForm(DefaultRoutePath, url.Values{
		"name":    {"Al"},
		"email":   {"al@x.io"},
		"message": {"Hello, this works!"},
	}))

	if res.StatusCode != http.StatusOK {
		t.Fatalf("expected status 200, got %d", res.StatusCode)
	}
	if !strings.Contains(body, "notification--success") || !strings.Contains(body, "Thank you for reaching out!") {
		t.Fatalf("expected success banner\n%s", body)
	}
	if strings.Contains(body, `value="al@x.io"`) {
		t.Fatalf("expected fields to be cleared after success\n%s", body)
	}
	if !strings.Contains(body, ">Send Message</button>") {
		t.Fatalf("expected the button to be restored\n%s", body)
	}
}

func TestHandler_MethodNotAllowed(t *testing.T) {
	h := newTestHandler(t)
	res, _ := serve(h, httptest.NewRequest(http.MethodGet, DefaultAPIPath, nil))
	if res.StatusCode != http.StatusMethodNotAllowed {
		t.Fatalf("expected status 405, got %d", res.StatusCode)
	}
	if allow := res.Header.Get("Allow"); allow != http.MethodPost {
		t.Fatalf("unexpected Allow header: %q", allow)
	}
}

func TestHandler_GuardRejects(t *testing.T) {
	h := newTestHandler(t, WithGuard(func(*http.Request) error {
		return StatusError{Code: http.StatusTooManyRequests, Err: errors.New("slow down")}
	}))
	res, _ := serve(h, postJSON(DefaultAPIPath, `{}`))
	if res.StatusCode != http.StatusTooManyRequests {
		t.Fatalf("expected guard status, got %d", res.StatusCode)
	}

	h = newTestHandler(t, WithGuard(func(*http.Request) error { return errors.New("nope") }))
	res, _ = serve(h, httptest.NewRequest(http.MethodGet, DefaultRoutePath, nil))
	if res.StatusCode != http.StatusForbidden {
		t.Fatalf("expected 403 for plain guard errors, got %d", res.StatusCode)
	}
}

func TestHandler_ServesSpecAndAssets(t *testing.T) {
	h := newTestHandler(t)

	res, body := serve(h, httptest.NewRequest(http.MethodGet, DefaultSpecPath, nil))
	if res.StatusCode != http.StatusOK || !strings.Contains(body, `"submitContact"`) {
		t.Fatalf("expected the OpenAPI document, got %d", res.StatusCode)
	}

	res, body = serve(h, httptest.NewRequest(http.MethodGet, DefaultAssetsPath+"contactform.js", nil))
	if res.StatusCode != http.StatusOK || !strings.Contains(body, "data-validate-url") {
		t.Fatalf("expected the page script, got %d", res.StatusCode)
	}
}

func TestStatusError(t *testing.T) {
	if got := (StatusError{}).StatusCode(); got != http.StatusInternalServerError {
		t.Fatalf("expected 500 for zero code, got %d", got)
	}
	if got := (StatusError{Code: http.StatusTeapot}).Error(); got != http.StatusText(http.StatusTeapot) {
		t.Fatalf("unexpected message: %q", got)
	}
	cause := errors.New("boom")
	if !errors.Is(StatusError{Code: 400, Err: cause}, cause) {
		t.Fatalf("expected StatusError to unwrap its cause")
	}
}
