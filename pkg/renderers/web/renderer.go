// Package web renders the contact section as server-side HTML: the form with
// inline errors, the submit control and the notification banner.
package web

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"sort"
	"strings"

	theme "github.com/goliatone/go-theme"
	"github.com/samber/lo"
	"go.uber.org/zap"

	"github.com/goliatone/go-contactform/pkg/form"
	"github.com/goliatone/go-contactform/pkg/notify"
	"github.com/goliatone/go-contactform/pkg/render"
	rendertemplate "github.com/goliatone/go-contactform/pkg/render/template"
	"github.com/goliatone/go-contactform/pkg/render/template/pongo"
	"github.com/goliatone/go-contactform/pkg/validation"
)

// Page carries the static page chrome.
type Page struct {
	Title       string
	Heading     string
	Stylesheet  string
	Script      string
	ValidateURL string
}

// DefaultPage is used when no page chrome is configured.
var DefaultPage = Page{
	Title:   "Contact",
	Heading: "Get In Touch",
}

type Option func(*config)

type config struct {
	templateFS fs.FS
	templates  rendertemplate.TemplateRenderer
	manifest   *theme.Manifest
	page       Page
	visibleMS  int64
	exitMS     int64
	logger     *zap.Logger
}

// WithTemplatesFS supplies an alternate template bundle.
func WithTemplatesFS(files fs.FS) Option {
	return func(cfg *config) {
		cfg.templateFS = files
	}
}

// WithTemplatesDir loads templates from a directory on disk.
func WithTemplatesDir(path string) Option {
	return func(cfg *config) {
		if strings.TrimSpace(path) == "" {
			return
		}
		cfg.templateFS = os.DirFS(path)
	}
}

// WithTemplateRenderer injects a custom template engine.
func WithTemplateRenderer(renderer rendertemplate.TemplateRenderer) Option {
	return func(cfg *config) {
		if renderer != nil {
			cfg.templates = renderer
		}
	}
}

// WithManifest sets the theme manifest used for CSS custom properties.
func WithManifest(manifest *theme.Manifest) Option {
	return func(cfg *config) {
		if manifest != nil {
			cfg.manifest = manifest
		}
	}
}

// WithPage sets the page chrome. Empty title and heading keep the defaults.
func WithPage(page Page) Option {
	return func(cfg *config) {
		if page.Title == "" {
			page.Title = DefaultPage.Title
		}
		if page.Heading == "" {
			page.Heading = DefaultPage.Heading
		}
		cfg.page = page
	}
}

// WithDismissTiming publishes the banner timings, in milliseconds, for the
// client script.
func WithDismissTiming(visibleMS, exitMS int64) Option {
	return func(cfg *config) {
		if visibleMS > 0 {
			cfg.visibleMS = visibleMS
		}
		if exitMS > 0 {
			cfg.exitMS = exitMS
		}
	}
}

// WithLogger attaches a logger.
func WithLogger(logger *zap.Logger) Option {
	return func(cfg *config) {
		if logger != nil {
			cfg.logger = logger
		}
	}
}

// Renderer produces the contact page HTML.
type Renderer struct {
	templates rendertemplate.TemplateRenderer
	manifest  *theme.Manifest
	page      Page
	visibleMS int64
	exitMS    int64
	logger    *zap.Logger
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs the renderer.
func New(options ...Option) (*Renderer, error) {
	cfg := config{
		templateFS: TemplatesFS(),
		manifest:   notify.DefaultManifest(),
		page:       DefaultPage,
		visibleMS:  notify.DefaultVisibleFor.Milliseconds(),
		exitMS:     notify.DefaultExitFor.Milliseconds(),
		logger:     zap.NewNop(),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}

	templates := cfg.templates
	if templates == nil {
		engine, err := pongo.New(pongo.WithFS(cfg.templateFS), pongo.WithLogger(cfg.logger))
		if err != nil {
			return nil, fmt.Errorf("web renderer: configure template renderer: %w", err)
		}
		templates = engine
	}

	return &Renderer{
		templates: templates,
		manifest:  cfg.manifest,
		page:      cfg.page,
		visibleMS: cfg.visibleMS,
		exitMS:    cfg.exitMS,
		logger:    cfg.logger,
	}, nil
}

func (r *Renderer) Name() string {
	return "web"
}

func (r *Renderer) ContentType() string {
	return "text/html; charset=utf-8"
}

// Render writes the full contact page for view.
func (r *Renderer) Render(ctx context.Context, view form.View, options render.RenderOptions) ([]byte, error) {
	if r == nil || r.templates == nil {
		return nil, fmt.Errorf("web renderer: template renderer is nil")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	result, err := r.templates.Render("contact", r.context(view, options))
	if err != nil {
		return nil, fmt.Errorf("web renderer: render template: %w", err)
	}
	return []byte(result), nil
}

// RenderNotification renders only the banner, for hosts that swap it in place.
func (r *Renderer) RenderNotification(n notify.Notification) ([]byte, error) {
	if r == nil || r.templates == nil {
		return nil, fmt.Errorf("web renderer: template renderer is nil")
	}
	result, err := r.templates.Render("notification", map[string]any{
		"notification": r.notification(&n),
	})
	if err != nil {
		return nil, fmt.Errorf("web renderer: render notification: %w", err)
	}
	return []byte(result), nil
}

func (r *Renderer) context(view form.View, options render.RenderOptions) map[string]any {
	themeCfg := notify.RendererConfig(r.manifest, options.Variant)

	return map[string]any{
		"page": map[string]any{
			"title":        r.page.Title,
			"heading":      r.page.Heading,
			"stylesheet":   r.page.Stylesheet,
			"script":       r.page.Script,
			"validate_url": r.page.ValidateURL,
			"action":       options.Action,
			"theme":        themeCfg.Theme,
			"variant":      themeCfg.Variant,
			"css_vars":     cssVars(themeCfg),
		},
		"state":        view.State.String(),
		"fields":       lo.Map(view.Fields, func(f form.FieldView, _ int) map[string]any { return fieldContext(f) }),
		"submit":       map[string]any{"label": view.Submit.Label, "disabled": view.Submit.Disabled, "loading": view.Submit.Loading},
		"notification": r.notification(view.Notification),
		"hidden":       hiddenContext(options.Hidden),
		"honeypot":     strings.TrimSpace(options.Honeypot),
		"form_errors":  render.MergeFormErrors(nil, options.FormErrors...),
	}
}

func fieldContext(f form.FieldView) map[string]any {
	inputType := "text"
	if f.ID == validation.FieldEmail {
		inputType = "email"
	}
	return map[string]any{
		"id":         string(f.ID),
		"dom_id":     f.DOMID,
		"label":      f.Label,
		"value":      f.Value,
		"annotation": f.Annotation,
		"error":      f.Error,
		"multiline":  f.Multiline,
		"class":      f.Class,
		"input_type": inputType,
	}
}

func hiddenContext(fields []render.HiddenField) []map[string]any {
	merged := render.SortedHiddenFields(render.MergeHiddenFields(nil, fields...))
	return lo.Map(merged, func(h render.HiddenField, _ int) map[string]any {
		return map[string]any{"name": h.Name, "value": h.Value}
	})
}

func (r *Renderer) notification(n *notify.Notification) map[string]any {
	if n == nil || n.Phase == notify.PhaseRemoved {
		return nil
	}
	style := n.Style
	return map[string]any{
		"id":            n.ID,
		"kind":          string(n.Kind),
		"text":          n.Text,
		"phase":         string(n.Phase),
		"class":         style.Class,
		"icon":          style.Icon,
		"icon_markup":   SanitizeIcon(style.IconMarkup),
		"style":         inlineStyle(style),
		"dismiss_after": r.visibleMS,
		"exit_after":    r.exitMS,
	}
}

func inlineStyle(style notify.Style) string {
	var parts []string
	if style.Background != "" {
		parts = append(parts, "background: "+style.Background)
	}
	if style.Foreground != "" {
		parts = append(parts, "color: "+style.Foreground)
	}
	if style.Border != "" {
		parts = append(parts, "border: "+style.Border)
	}
	return strings.Join(parts, "; ")
}

func cssVars(cfg *theme.RendererConfig) string {
	if cfg == nil || len(cfg.CSSVars) == 0 {
		return ""
	}
	names := lo.Keys(cfg.CSSVars)
	sort.Strings(names)
	return strings.Join(lo.Map(names, func(name string, _ int) string {
		return name + ": " + cfg.CSSVars[name] + ";"
	}), " ")
}
