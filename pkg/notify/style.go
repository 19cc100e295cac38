package notify

import (
	"strings"

	theme "github.com/goliatone/go-theme"
)

// Kind categorises a notification.
type Kind string

const (
	KindSuccess Kind = "success"
	KindError   Kind = "error"
	KindInfo    Kind = "info"
)

// ParseKind maps raw onto a known kind; anything unrecognised is info.
func ParseKind(raw string) Kind {
	switch Kind(strings.ToLower(strings.TrimSpace(raw))) {
	case KindSuccess:
		return KindSuccess
	case KindError:
		return KindError
	default:
		return KindInfo
	}
}

// Style is the presentation attached to a kind.
type Style struct {
	Kind       Kind
	Class      string
	Icon       string
	IconMarkup string
	Background string
	Foreground string
	Border     string
}

// Styles maps each kind to its style.
type Styles map[Kind]Style

// For returns the style for kind, falling back to info.
func (s Styles) For(kind Kind) Style {
	if style, ok := s[kind]; ok {
		return style
	}
	if style, ok := s[KindInfo]; ok {
		return style
	}
	return defaultStyles[KindInfo]
}

var defaultStyles = Styles{
	KindSuccess: {
		Kind:       KindSuccess,
		Class:      "notification notification--success",
		Icon:       "✓",
		Background: "rgba(34, 197, 94, 0.9)",
		Foreground: "#ffffff",
		Border:     "1px solid rgba(34, 197, 94, 0.3)",
	},
	KindError: {
		Kind:       KindError,
		Class:      "notification notification--error",
		Icon:       "✗",
		Background: "rgba(239, 68, 68, 0.9)",
		Foreground: "#ffffff",
		Border:     "1px solid rgba(239, 68, 68, 0.3)",
	},
	KindInfo: {
		Kind:       KindInfo,
		Class:      "notification notification--info",
		Icon:       "ℹ",
		Background: "rgba(59, 130, 246, 0.9)",
		Foreground: "#ffffff",
		Border:     "1px solid rgba(59, 130, 246, 0.3)",
	},
}

// DefaultStyles returns a copy of the built-in palette.
func DefaultStyles() Styles {
	out := make(Styles, len(defaultStyles))
	for kind, style := range defaultStyles {
		out[kind] = style
	}
	return out
}

// Token names read from a theme manifest, one set per kind:
//
//	notification.<kind>.background
//	notification.<kind>.foreground
//	notification.<kind>.border
//	notification.<kind>.icon
//	notification.<kind>.icon_svg
const tokenPrefix = "notification."

// DefaultManifest describes the built-in palette as a go-theme manifest with a
// dark variant.
func DefaultManifest() *theme.Manifest {
	tokens := make(map[string]string)
	for kind, style := range defaultStyles {
		prefix := tokenPrefix + string(kind) + "."
		tokens[prefix+"background"] = style.Background
		tokens[prefix+"foreground"] = style.Foreground
		tokens[prefix+"border"] = style.Border
		tokens[prefix+"icon"] = style.Icon
	}
	return &theme.Manifest{
		Name:    "contactform",
		Version: "1.0.0",
		Tokens:  tokens,
		Variants: map[string]theme.Variant{
			"dark": {
				Tokens: map[string]string{
					"notification.success.background": "rgba(21, 128, 61, 0.95)",
					"notification.error.background":   "rgba(185, 28, 28, 0.95)",
					"notification.info.background":    "rgba(29, 78, 216, 0.95)",
				},
			},
		},
	}
}

// ResolveTokens merges the manifest tokens with the variant overrides.
func ResolveTokens(manifest *theme.Manifest, variant string) map[string]string {
	if manifest == nil {
		manifest = DefaultManifest()
	}
	out := make(map[string]string, len(manifest.Tokens))
	for key, value := range manifest.Tokens {
		out[key] = value
	}
	if v, ok := manifest.Variants[strings.TrimSpace(variant)]; ok {
		for key, value := range v.Tokens {
			out[key] = value
		}
	}
	return out
}

// StylesFromManifest builds the kind palette from manifest tokens. Missing
// tokens keep the built-in values.
func StylesFromManifest(manifest *theme.Manifest, variant string) Styles {
	tokens := ResolveTokens(manifest, variant)
	styles := DefaultStyles()
	for kind, style := range styles {
		prefix := tokenPrefix + string(kind) + "."
		if v := strings.TrimSpace(tokens[prefix+"background"]); v != "" {
			style.Background = v
		}
		if v := strings.TrimSpace(tokens[prefix+"foreground"]); v != "" {
			style.Foreground = v
		}
		if v := strings.TrimSpace(tokens[prefix+"border"]); v != "" {
			style.Border = v
		}
		if v := strings.TrimSpace(tokens[prefix+"icon"]); v != "" {
			style.Icon = v
		}
		if v := strings.TrimSpace(tokens[prefix+"icon_svg"]); v != "" {
			style.IconMarkup = v
		}
		styles[kind] = style
	}
	return styles
}

// RendererConfig exposes the resolved tokens as a go-theme renderer config so
// page renderers can emit CSS custom properties.
func RendererConfig(manifest *theme.Manifest, variant string) *theme.RendererConfig {
	if manifest == nil {
		manifest = DefaultManifest()
	}
	tokens := ResolveTokens(manifest, variant)
	vars := make(map[string]string, len(tokens))
	for key, value := range tokens {
		if strings.HasSuffix(key, ".icon") || strings.HasSuffix(key, ".icon_svg") {
			continue
		}
		vars["--"+strings.ReplaceAll(key, ".", "-")] = value
	}
	return &theme.RendererConfig{
		Theme:   manifest.Name,
		Variant: variant,
		Tokens:  tokens,
		CSSVars: vars,
	}
}
