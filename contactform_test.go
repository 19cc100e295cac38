package contactform_test

import (
	"context"
	"io/fs"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	contactform "github.com/goliatone/go-contactform"
	"github.com/goliatone/go-contactform/components/contact"
)

func TestValidate(t *testing.T) {
	if res := contactform.Validate("Al", "al@x.io", "Hello, this works!"); !res.Valid {
		t.Fatalf("expected valid submission, got %+v", res)
	}
	if res := contactform.Validate("", "", ""); res.Message != "Please enter your name." {
		t.Fatalf("unexpected first failure: %+v", res)
	}
}

func TestRenderHTML_AnnotatesTouchedFields(t *testing.T) {
	out, err := contactform.RenderHTML(context.Background(), contactform.Snapshot{Email: "al@"}, contactform.RenderOptions{})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	html := string(out)
	if !strings.Contains(html, "Please enter a valid email address.") {
		t.Fatalf("expected email annotation\n%s", html)
	}
	if strings.Contains(html, "Name is required.") {
		t.Fatalf("untouched fields must not be annotated\n%s", html)
	}
}

func TestEmbeddedFilesystems(t *testing.T) {
	for _, name := range []string{"contact.tpl", "form.tpl", "notification.tpl"} {
		if _, err := fs.Stat(contactform.EmbeddedTemplates(), name); err != nil {
			t.Fatalf("expected template %s: %v", name, err)
		}
	}
	for _, name := range []string{"contactform.css", "contactform.js"} {
		if _, err := fs.Stat(contactform.AssetsFS(), name); err != nil {
			t.Fatalf("expected asset %s: %v", name, err)
		}
	}
}

func TestContract(t *testing.T) {
	if !strings.Contains(string(contactform.ContractYAML()), "submitContact") {
		t.Fatalf("expected the embedded contract")
	}
	data, err := contactform.ContractJSON(context.Background())
	if err != nil || !strings.Contains(string(data), `"validateField"`) {
		t.Fatalf("contract json: %v", err)
	}
}

func TestNewHandler(t *testing.T) {
	h, err := contactform.NewHandler(contact.WithSubmitDelay(0))
	if err != nil {
		t.Fatalf("handler: %v", err)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/contact", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
}
