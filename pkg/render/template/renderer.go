package template

import (
	"io"
)

// FilterFunc transforms a template value. param is nil when the filter is
// used without an argument.
type FilterFunc func(input any, param any) (any, error)

// TemplateRenderer is the seam between the page renderer and a template
// engine. Render looks a template up by name; RenderString compiles inline
// content. Both also copy the output to every writer in out.
type TemplateRenderer interface {
	Render(name string, data any, out ...io.Writer) (string, error)
	RenderString(templateContent string, data any, out ...io.Writer) (string, error)
	RegisterFilter(name string, fn FilterFunc) error
	GlobalContext(data any) error
}
