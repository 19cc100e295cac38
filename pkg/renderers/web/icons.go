package web

import (
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	iconPolicyOnce sync.Once
	iconPolicy     *bluemonday.Policy
)

// SanitizeIcon strips everything but inline SVG drawing markup from a
// theme-supplied notification icon. Scripts, event handlers and foreign
// elements are removed; an icon that sanitises to nothing returns "".
func SanitizeIcon(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}
	return strings.TrimSpace(iconSanitizer().Sanitize(trimmed))
}

func iconSanitizer() *bluemonday.Policy {
	iconPolicyOnce.Do(func() {
		policy := bluemonday.StrictPolicy()
		shapes := []string{"path", "circle", "rect", "line", "polyline", "polygon"}
		policy.AllowElements(append([]string{"svg", "g", "title"}, shapes...)...)

		policy.AllowAttrs(
			"xmlns", "viewBox", "width", "height", "fill", "stroke",
			"stroke-width", "stroke-linecap", "stroke-linejoin",
			"aria-hidden", "role", "focusable", "class",
		).OnElements("svg")
		policy.AllowAttrs("fill", "stroke", "class").OnElements("g")
		policy.AllowAttrs(
			"d", "cx", "cy", "r", "x", "y", "x1", "y1", "x2", "y2",
			"points", "rx", "ry", "fill", "stroke", "stroke-width",
			"stroke-linecap", "stroke-linejoin",
		).OnElements(shapes...)

		iconPolicy = policy
	})
	return iconPolicy
}
