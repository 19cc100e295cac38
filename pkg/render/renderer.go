// Package render defines the contract page renderers implement and the helpers
// they share: hidden inputs and mapping of error payloads onto contact fields.
package render

import (
	"context"

	"github.com/goliatone/go-contactform/pkg/form"
)

// Renderer turns a form view into a byte representation (HTML, plain text).
type Renderer interface {
	Name() string
	ContentType() string
	Render(ctx context.Context, view form.View, options RenderOptions) ([]byte, error)
}
