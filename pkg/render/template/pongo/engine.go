// Package pongo implements template.TemplateRenderer on top of pongo2.
package pongo

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"reflect"
	"strings"
	"sync"

	"github.com/flosch/pongo2/v6"
	"go.uber.org/zap"

	"github.com/goliatone/go-contactform/pkg/render/template"
)

// ErrNoSource is returned when an engine has neither a directory nor an fs.FS
// to load templates from.
var ErrNoSource = errors.New("pongo: need to provide either base dir or fs.FS")

// Option configures the engine before construction.
type Option func(*config)

type config struct {
	baseDir    string
	templates  fs.FS
	extension  string
	globalData map[string]any
	logger     *zap.Logger
}

// WithBaseDir loads templates from a directory on disk. Entries found there
// win over the embedded set, which lets deployments override single files.
func WithBaseDir(dir string) Option {
	return func(cfg *config) {
		cfg.baseDir = strings.TrimSpace(dir)
	}
}

// WithFS loads templates from an fs.FS.
func WithFS(files fs.FS) Option {
	return func(cfg *config) {
		cfg.templates = files
	}
}

// WithExtension overrides the template extension (default ".tpl").
func WithExtension(ext string) Option {
	return func(cfg *config) {
		trimmed := strings.TrimSpace(ext)
		if trimmed == "" {
			return
		}
		if !strings.HasPrefix(trimmed, ".") {
			trimmed = "." + trimmed
		}
		cfg.extension = trimmed
	}
}

// WithGlobalData seeds values available to every template.
func WithGlobalData(data map[string]any) Option {
	return func(cfg *config) {
		if len(data) == 0 {
			return
		}
		if cfg.globalData == nil {
			cfg.globalData = make(map[string]any, len(data))
		}
		for key, value := range data {
			cfg.globalData[strings.TrimSpace(key)] = value
		}
	}
}

// WithLogger attaches a logger used for template cache misses.
func WithLogger(logger *zap.Logger) Option {
	return func(cfg *config) {
		if logger != nil {
			cfg.logger = logger
		}
	}
}

// Engine is a pongo2 template set with a compiled-template cache.
type Engine struct {
	mu sync.RWMutex

	set       *pongo2.TemplateSet
	templates map[string]*pongo2.Template
	ext       string
	logger    *zap.Logger
}

var _ template.TemplateRenderer = (*Engine)(nil)

// New constructs an Engine.
func New(options ...Option) (*Engine, error) {
	cfg := &config{extension: ".tpl", logger: zap.NewNop()}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(cfg)
	}
	if cfg.baseDir == "" && cfg.templates == nil {
		return nil, ErrNoSource
	}

	var loaders []pongo2.TemplateLoader
	if cfg.baseDir != "" {
		loader, err := pongo2.NewLocalFileSystemLoader(cfg.baseDir)
		if err != nil {
			return nil, fmt.Errorf("pongo: create local loader: %w", err)
		}
		loaders = append(loaders, loader)
	}
	if cfg.templates != nil {
		loaders = append(loaders, pongo2.NewFSLoader(cfg.templates))
	}

	engine := &Engine{
		set:       pongo2.NewSet("contactform", loaders...),
		templates: make(map[string]*pongo2.Template),
		ext:       cfg.extension,
		logger:    cfg.logger,
	}
	registerDefaultFilters()

	if err := engine.GlobalContext(cfg.globalData); err != nil {
		return nil, fmt.Errorf("pongo: apply global data: %w", err)
	}
	return engine, nil
}

// Render executes the named template. Inline template source (anything that
// contains a tag or variable block) is rendered directly.
func (e *Engine) Render(name string, data any, out ...io.Writer) (string, error) {
	if isTemplateContent(name) {
		return e.RenderString(name, data, out...)
	}
	if e == nil || e.set == nil {
		return "", errors.New("pongo: engine is nil")
	}
	path := name
	if !strings.HasSuffix(path, e.ext) {
		path += e.ext
	}
	tmpl, err := e.lookup(path)
	if err != nil {
		return "", err
	}
	return e.execute(tmpl, path, data, out)
}

// RenderString compiles and executes templateContent.
func (e *Engine) RenderString(templateContent string, data any, out ...io.Writer) (string, error) {
	if e == nil || e.set == nil {
		return "", errors.New("pongo: engine is nil")
	}
	tmpl, err := e.set.FromString(templateContent)
	if err != nil {
		return "", fmt.Errorf("pongo: parse template string: %w", err)
	}
	return e.execute(tmpl, "inline", data, out)
}

// RegisterFilter adds a filter. pongo2 filters are process-wide, so a name
// that already exists is rejected.
func (e *Engine) RegisterFilter(name string, fn template.FilterFunc) error {
	name = strings.TrimSpace(name)
	if name == "" || fn == nil {
		return errors.New("pongo: filter name and function required")
	}
	if pongo2.FilterExists(name) {
		return fmt.Errorf("pongo: filter %q already exists", name)
	}
	return pongo2.RegisterFilter(name, func(in *pongo2.Value, param *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
		var paramVal any
		if param != nil {
			paramVal = param.Interface()
		}
		result, err := fn(in.Interface(), paramVal)
		if err != nil {
			return nil, &pongo2.Error{Sender: "filter:" + name, OrigError: err}
		}
		return pongo2.AsValue(result), nil
	})
}

// GlobalContext merges data into the values every template sees.
func (e *Engine) GlobalContext(data any) error {
	if e == nil || e.set == nil {
		return errors.New("pongo: engine is nil")
	}
	if data == nil {
		return nil
	}
	ctx, err := toContext(data)
	if err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.set.Globals == nil {
		e.set.Globals = make(pongo2.Context)
	}
	e.set.Globals.Update(ctx)
	return nil
}

func (e *Engine) execute(tmpl *pongo2.Template, label string, data any, out []io.Writer) (string, error) {
	ctx, err := toContext(data)
	if err != nil {
		return "", fmt.Errorf("pongo: convert data: %w", err)
	}

	var buf bytes.Buffer
	e.mu.RLock()
	err = tmpl.ExecuteWriter(ctx, &buf)
	e.mu.RUnlock()
	if err != nil {
		return "", fmt.Errorf("pongo: execute template %q: %w", label, err)
	}

	rendered := buf.String()
	for _, w := range out {
		if w == nil {
			continue
		}
		if _, err := io.WriteString(w, rendered); err != nil {
			return "", err
		}
	}
	return rendered, nil
}

func (e *Engine) lookup(path string) (*pongo2.Template, error) {
	e.mu.RLock()
	tmpl, ok := e.templates[path]
	e.mu.RUnlock()
	if ok {
		return tmpl, nil
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if tmpl, ok := e.templates[path]; ok {
		return tmpl, nil
	}
	tmpl, err := e.set.FromFile(path)
	if err != nil {
		return nil, fmt.Errorf("pongo: load template %q: %w", path, err)
	}
	e.logger.Debug("template compiled", zap.String("path", path))
	e.templates[path] = tmpl
	return tmpl, nil
}

func isTemplateContent(s string) bool {
	return strings.Contains(s, "{{") || strings.Contains(s, "{%")
}

// toContext turns maps and structs into a pongo2.Context. Structs go through
// their JSON encoding so templates address them by JSON field names, at any
// depth.
func toContext(data any) (pongo2.Context, error) {
	var in map[string]any
	switch v := data.(type) {
	case nil:
		return pongo2.Context{}, nil
	case pongo2.Context:
		in = v
	case map[string]any:
		in = v
	default:
		raw, err := json.Marshal(v)
		if err != nil {
			return nil, err
		}
		if err := json.Unmarshal(raw, &in); err != nil {
			return nil, err
		}
	}

	out := make(pongo2.Context, len(in))
	for key, value := range in {
		key = strings.TrimSpace(key)
		if key == "" {
			continue
		}
		norm, err := normalizeValue(value)
		if err != nil {
			return nil, fmt.Errorf("pongo: context key %q: %w", key, err)
		}
		out[key] = norm
	}
	return out, nil
}

// normalizeValue rewrites structs, and containers holding them, into plain
// maps and slices keyed by JSON names. Scalars and functions pass through.
func normalizeValue(value any) (any, error) {
	switch v := value.(type) {
	case nil, string, bool, int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64, float32, float64,
		json.Number, *pongo2.Value:
		return v, nil
	case map[string]any:
		out := make(map[string]any, len(v))
		for key, item := range v {
			norm, err := normalizeValue(item)
			if err != nil {
				return nil, err
			}
			out[key] = norm
		}
		return out, nil
	case []any:
		out := make([]any, len(v))
		for i, item := range v {
			norm, err := normalizeValue(item)
			if err != nil {
				return nil, err
			}
			out[i] = norm
		}
		return out, nil
	}

	rv := reflect.ValueOf(value)
	kind := rv.Kind()
	if kind == reflect.Pointer {
		if rv.IsNil() {
			return value, nil
		}
		kind = rv.Elem().Kind()
	}
	switch kind {
	case reflect.Struct, reflect.Map, reflect.Slice, reflect.Array:
	default:
		return value, nil
	}

	raw, err := json.Marshal(value)
	if err != nil {
		return nil, err
	}
	var out any
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func registerDefaultFilters() {
	if !pongo2.FilterExists("trim") {
		_ = pongo2.RegisterFilter("trim", filterTrim)
	}
	if !pongo2.FilterExists("attr") {
		_ = pongo2.RegisterFilter("attr", filterAttr)
	}
}

func filterTrim(in *pongo2.Value, _ *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
	if in.Len() <= 0 {
		return pongo2.AsValue(""), nil
	}
	return pongo2.AsValue(strings.TrimSpace(in.String())), nil
}

// filterAttr emits a boolean attribute ("disabled", "aria-invalid") when the
// input is truthy.
func filterAttr(in *pongo2.Value, param *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
	if !in.IsTrue() || param == nil {
		return pongo2.AsValue(""), nil
	}
	name := strings.TrimSpace(param.String())
	if name == "" || strings.ContainsAny(name, " \"'<>=") {
		return pongo2.AsValue(""), nil
	}
	return pongo2.AsSafeValue(" " + name), nil
}
