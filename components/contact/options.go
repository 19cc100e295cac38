package contact

import (
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/goliatone/go-contactform/internal/contract"
	"github.com/goliatone/go-contactform/pkg/form"
	"github.com/goliatone/go-contactform/pkg/notify"
	"github.com/goliatone/go-contactform/pkg/render"
	"github.com/goliatone/go-contactform/pkg/validation"
)

// GuardFunc may reject a request before any work is done. Returning a
// StatusError picks the response code; other errors map to 403.
type GuardFunc func(r *http.Request) error

// HiddenFieldsFunc supplies per-request hidden inputs such as a CSRF token.
type HiddenFieldsFunc func(r *http.Request) []render.HiddenField

const (
	DefaultRoutePath    = "/contact"
	DefaultAPIPath      = "/api/contact"
	DefaultValidatePath = "/api/contact/validate"
	DefaultSpecPath     = "/api/contact/openapi.json"
	DefaultAssetsPath   = "/assets/contactform/"
	DefaultHoneypot     = "website"
	DefaultMaxBodyBytes = 64 << 10
)

type Options struct {
	RoutePath    string
	APIPath      string
	ValidatePath string
	SpecPath     string
	AssetsPath   string

	SubmitDelay  time.Duration
	SuccessText  string
	Honeypot     string
	MaxBodyBytes int64
	Variant      string

	Guard        GuardFunc
	HiddenFields HiddenFieldsFunc

	Engine   *validation.Engine
	Styles   notify.Styles
	Renderer render.Renderer
	Contract *contract.Contract
	Logger   *zap.Logger
}

type OptionFn func(*Options)

func DefaultOptions() Options {
	return Options{
		RoutePath:    DefaultRoutePath,
		APIPath:      DefaultAPIPath,
		ValidatePath: DefaultValidatePath,
		SpecPath:     DefaultSpecPath,
		AssetsPath:   DefaultAssetsPath,
		SubmitDelay:  form.DefaultSubmitDelay,
		SuccessText:  form.DefaultSuccessText,
		Honeypot:     DefaultHoneypot,
		MaxBodyBytes: DefaultMaxBodyBytes,
	}
}

func NewOptions(fns ...OptionFn) Options {
	opts := DefaultOptions()
	for _, fn := range fns {
		if fn == nil {
			continue
		}
		fn(&opts)
	}
	defaults := DefaultOptions()
	if opts.RoutePath == "" {
		opts.RoutePath = defaults.RoutePath
	}
	if opts.APIPath == "" {
		opts.APIPath = defaults.APIPath
	}
	if opts.ValidatePath == "" {
		opts.ValidatePath = defaults.ValidatePath
	}
	if opts.SpecPath == "" {
		opts.SpecPath = defaults.SpecPath
	}
	if opts.AssetsPath == "" {
		opts.AssetsPath = defaults.AssetsPath
	}
	if opts.SubmitDelay < 0 {
		opts.SubmitDelay = 0
	}
	if opts.SuccessText == "" {
		opts.SuccessText = defaults.SuccessText
	}
	if opts.MaxBodyBytes <= 0 {
		opts.MaxBodyBytes = defaults.MaxBodyBytes
	}
	if opts.Engine == nil {
		opts.Engine = validation.New()
	}
	if opts.Styles == nil {
		opts.Styles = notify.DefaultStyles()
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	return opts
}

func WithRoutePath(path string) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.RoutePath = path
	}
}

func WithAPIPath(path string) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.APIPath = path
	}
}

func WithValidatePath(path string) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.ValidatePath = path
	}
}

func WithSpecPath(path string) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.SpecPath = path
	}
}

func WithAssetsPath(path string) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.AssetsPath = path
	}
}

// WithSubmitDelay sets the simulated submission time. Zero answers at once.
func WithSubmitDelay(delay time.Duration) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.SubmitDelay = delay
	}
}

func WithSuccessText(text string) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.SuccessText = text
	}
}

// WithHoneypot names the trap input. An empty name disables the trap.
func WithHoneypot(name string) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.Honeypot = name
	}
}

func WithMaxBodyBytes(n int64) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.MaxBodyBytes = n
	}
}

// WithVariant selects the theme variant used for notification colours.
func WithVariant(variant string) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.Variant = variant
	}
}

func WithGuard(guard GuardFunc) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.Guard = guard
	}
}

func WithHiddenFields(fn HiddenFieldsFunc) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.HiddenFields = fn
	}
}

func WithEngine(engine *validation.Engine) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.Engine = engine
	}
}

func WithStyles(styles notify.Styles) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.Styles = styles
	}
}

func WithRenderer(renderer render.Renderer) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.Renderer = renderer
	}
}

func WithContract(c *contract.Contract) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.Contract = c
	}
}

func WithLogger(logger *zap.Logger) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.Logger = logger
	}
}
