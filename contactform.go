// Package contactform is the top-level entry point of the portfolio contact
// form: validation, the HTML page and the HTTP component, re-exported so
// callers can get started without importing the sub-packages.
package contactform

import (
	"context"
	"net/http"

	"github.com/goliatone/go-contactform/components/contact"
	"github.com/goliatone/go-contactform/pkg/form"
	"github.com/goliatone/go-contactform/pkg/render"
	"github.com/goliatone/go-contactform/pkg/renderers/web"
	"github.com/goliatone/go-contactform/pkg/validation"
)

// Snapshot aliases validation.Snapshot.
type Snapshot = validation.Snapshot

// Result aliases validation.Result.
type Result = validation.Result

// RenderOptions describes per-request overrides (hidden inputs, honeypot,
// theme variant) used when rendering the page.
type RenderOptions = render.RenderOptions

// Validate checks a submission with the default rules and returns the first
// failure, or a passing result.
func Validate(name, email, message string) Result {
	return validation.ValidateForm(validation.NewSnapshot(name, email, message))
}

// RenderHTML renders the contact page with snapshot's values. Fields that
// hold a value and fail their rule carry an inline error, the way they would
// after a blur.
func RenderHTML(ctx context.Context, snapshot Snapshot, opts RenderOptions, options ...web.Option) ([]byte, error) {
	renderer, err := web.New(options...)
	if err != nil {
		return nil, err
	}

	f := form.NewForm()
	f.Fill(snapshot)
	var touched []validation.Result
	for _, res := range validation.New().Issues(snapshot) {
		if snapshot.Value(res.Field) != "" {
			touched = append(touched, res)
		}
	}
	form.Annotate(f, touched...)

	view := form.BuildView(f, form.SubmitButton{}, form.StateIdle, nil)
	return renderer.Render(ctx, view, opts)
}

// NewHandler returns an http.Handler serving the contact page, JSON API,
// validation endpoint, contract and assets from the root path.
func NewHandler(fns ...contact.OptionFn) (http.Handler, error) {
	return contact.NewHandler(fns...)
}
