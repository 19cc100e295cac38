package contact

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/goliatone/go-contactform/internal/contract"
	"github.com/goliatone/go-contactform/pkg/form"
	"github.com/goliatone/go-contactform/pkg/notify"
	"github.com/goliatone/go-contactform/pkg/render"
	"github.com/goliatone/go-contactform/pkg/renderers/web"
	"github.com/goliatone/go-contactform/pkg/schedule"
	"github.com/goliatone/go-contactform/pkg/validation"
)

const requestIDHeader = "X-Request-ID"

type HTTPError interface {
	error
	StatusCode() int
}

type StatusError struct {
	Code int
	Err  error
}

func (e StatusError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return http.StatusText(e.Code)
}

func (e StatusError) Unwrap() error { return e.Err }

func (e StatusError) StatusCode() int {
	if e.Code <= 0 {
		return http.StatusInternalServerError
	}
	return e.Code
}

type notificationPayload struct {
	Kind notify.Kind `json:"kind"`
	Text string      `json:"text"`
}

type submitResponse struct {
	Valid        bool                 `json:"isValid"`
	Message      *string              `json:"message"`
	Errors       map[string][]string  `json:"errors,omitempty"`
	Notification *notificationPayload `json:"notification,omitempty"`
}

type fieldCheckRequest struct {
	Field string `json:"field"`
	Value string `json:"value"`
}

type fieldCheckResponse struct {
	Result validation.Result `json:"result"`
	Hint   validation.Hint   `json:"hint"`
}

type problemResponse struct {
	Message string              `json:"message"`
	Errors  map[string][]string `json:"errors,omitempty"`
}

// Routes lists the patterns a handler set answers on.
type Routes struct {
	Page     string
	Submit   string
	Validate string
	Spec     string
	Assets   string
}

// Patterns returns the routes in registration order.
func (r Routes) Patterns() []string {
	return []string{r.Page, r.Submit, r.Validate, r.Spec, r.Assets}
}

// Handlers groups the component's endpoints.
type Handlers struct {
	Routes   Routes
	Page     http.Handler
	Submit   http.Handler
	Validate http.Handler
	Spec     http.Handler
	Assets   http.Handler
}

// Handler builds a net/http handler serving every route with default options
// plus any overrides.
func Handler(fns ...OptionFn) (http.Handler, error) {
	return NewHandler(fns...)
}

func NewHandler(fns ...OptionFn) (http.Handler, error) {
	opts := NewOptions(fns...)
	return HandlerWithOptions(opts)
}

// HandlerWithOptions builds a handler mounted at the root from a pre-built
// Options value.
func HandlerWithOptions(opts Options) (http.Handler, error) {
	handlers, err := NewHandlers("", opts)
	if err != nil {
		return nil, err
	}
	mux := http.NewServeMux()
	handlers.register(mux)
	return mux, nil
}

// NewHandlers builds the endpoints for routes mounted under basePath.
func NewHandlers(basePath string, opts Options) (Handlers, error) {
	opts = NewOptions(func(o *Options) { *o = opts })
	s, err := newServer(basePath, opts)
	if err != nil {
		return Handlers{}, err
	}
	return Handlers{
		Routes:   s.routes,
		Page:     s.guarded(s.page, http.MethodGet, http.MethodHead, http.MethodPost),
		Submit:   s.guarded(s.submitJSON, http.MethodPost),
		Validate: s.guarded(s.validateField, http.MethodPost),
		Spec:     s.guarded(s.spec, http.MethodGet, http.MethodHead),
		Assets:   http.StripPrefix(s.routes.Assets, http.FileServer(http.FS(web.AssetsFS()))),
	}, nil
}

func (h Handlers) register(mux Mux) {
	mux.Handle(h.Routes.Page, h.Page)
	mux.Handle(h.Routes.Submit, h.Submit)
	mux.Handle(h.Routes.Validate, h.Validate)
	mux.Handle(h.Routes.Spec, h.Spec)
	mux.Handle(h.Routes.Assets, h.Assets)
}

type server struct {
	opts     Options
	routes   Routes
	renderer render.Renderer
	contract *contract.Contract
	logger   *zap.Logger
}

func newServer(basePath string, opts Options) (*server, error) {
	routes := Routes{
		Page:     mountPath(basePath, opts.RoutePath),
		Submit:   mountPath(basePath, opts.APIPath),
		Validate: mountPath(basePath, opts.ValidatePath),
		Spec:     mountPath(basePath, opts.SpecPath),
		Assets:   assetsPath(basePath, opts.AssetsPath),
	}

	renderer := opts.Renderer
	if renderer == nil {
		built, err := web.New(
			web.WithPage(web.Page{
				Stylesheet:  routes.Assets + web.StylesheetName,
				Script:      routes.Assets + web.ScriptName,
				ValidateURL: routes.Validate,
			}),
			web.WithLogger(opts.Logger),
		)
		if err != nil {
			return nil, fmt.Errorf("contact: build renderer: %w", err)
		}
		renderer = built
	}

	c := opts.Contract
	if c == nil {
		loaded, err := contract.Load(context.Background())
		if err != nil {
			return nil, fmt.Errorf("contact: load contract: %w", err)
		}
		c = loaded
	}

	return &server{
		opts:     opts,
		routes:   routes,
		renderer: renderer,
		contract: c,
		logger:   opts.Logger,
	}, nil
}

type handlerFunc func(w http.ResponseWriter, r *http.Request, logger *zap.Logger)

func (s *server) guarded(next handlerFunc, methods ...string) http.Handler {
	allow := strings.Join(methods, ", ")
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r == nil {
			http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
			return
		}
		if !allowed(r.Method, methods) {
			w.Header().Set("Allow", allow)
			http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
			return
		}
		if s.opts.Guard != nil {
			if err := s.opts.Guard(r); err != nil {
				writeGuardError(w, err)
				return
			}
		}

		requestID := strings.TrimSpace(r.Header.Get(requestIDHeader))
		if requestID == "" {
			requestID = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, requestID)
		next(w, r, s.logger.With(zap.String("request_id", requestID), zap.String("path", r.URL.Path)))
	})
}

func allowed(method string, methods []string) bool {
	for _, m := range methods {
		if m == method {
			return true
		}
	}
	return false
}

func (s *server) page(w http.ResponseWriter, r *http.Request, logger *zap.Logger) {
	if r.Method != http.MethodPost {
		view := form.BuildView(form.NewForm(), form.SubmitButton{}, form.StateIdle, nil)
		s.writePage(w, r, logger, http.StatusOK, view, nil)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, s.opts.MaxBodyBytes)
	if err := r.ParseForm(); err != nil {
		logger.Warn("contact form unreadable", zap.Error(err))
		view := form.BuildView(form.NewForm(), form.SubmitButton{}, form.StateIdle, nil)
		s.writePage(w, r, logger, bodyErrorStatus(err), view, []string{"We could not read your submission. Please try again."})
		return
	}

	snapshot := validation.Snapshot{
		Name:    r.PostForm.Get(string(validation.FieldName)),
		Email:   r.PostForm.Get(string(validation.FieldEmail)),
		Message: r.PostForm.Get(string(validation.FieldMessage)),
	}
	if s.trapped(r.PostForm.Get(s.opts.Honeypot)) {
		logger.Info("contact honeypot triggered")
		n := s.successNotification()
		view := form.BuildView(form.NewForm(), form.SubmitButton{}, form.StateIdle, &n)
		s.writePage(w, r, logger, http.StatusOK, view, nil)
		return
	}

	out, err := s.run(r.Context(), snapshot, logger)
	if err != nil {
		logger.Info("contact submission abandoned", zap.Error(err))
		return
	}
	status := http.StatusOK
	if !out.result.Valid {
		status = http.StatusUnprocessableEntity
	}
	s.writePage(w, r, logger, status, out.view, nil)
}

func (s *server) writePage(w http.ResponseWriter, r *http.Request, logger *zap.Logger, status int, view form.View, formErrors []string) {
	var hidden []render.HiddenField
	if s.opts.HiddenFields != nil {
		hidden = s.opts.HiddenFields(r)
	}
	body, err := s.renderer.Render(r.Context(), view, render.RenderOptions{
		Action:     s.routes.Page,
		Hidden:     hidden,
		Honeypot:   s.opts.Honeypot,
		Variant:    s.opts.Variant,
		FormErrors: formErrors,
	})
	if err != nil {
		logger.Error("contact page render failed", zap.Error(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", s.renderer.ContentType())
	w.WriteHeader(status)
	if r.Method == http.MethodHead {
		return
	}
	_, _ = w.Write(body)
}

func (s *server) submitJSON(w http.ResponseWriter, r *http.Request, logger *zap.Logger) {
	body, ok := s.readBody(w, r, logger)
	if !ok {
		return
	}
	if !s.checkContract(w, contract.OpSubmit, body) {
		return
	}

	var payload map[string]any
	_ = json.Unmarshal(body, &payload)
	str := func(key string) string {
		value, _ := payload[key].(string)
		return value
	}

	if s.trapped(str(s.opts.Honeypot)) {
		logger.Info("contact honeypot triggered")
		n := s.successNotification()
		writeJSON(w, http.StatusOK, submitResponse{Valid: true, Notification: &notificationPayload{Kind: n.Kind, Text: n.Text}})
		return
	}

	snapshot := validation.Snapshot{
		Name:    str(string(validation.FieldName)),
		Email:   str(string(validation.FieldEmail)),
		Message: str(string(validation.FieldMessage)),
	}
	out, err := s.run(r.Context(), snapshot, logger)
	if err != nil {
		logger.Info("contact submission abandoned", zap.Error(err))
		return
	}

	resp := submitResponse{Valid: out.result.Valid}
	if n := out.view.Notification; n != nil {
		resp.Notification = &notificationPayload{Kind: n.Kind, Text: n.Text}
	}
	if !out.result.Valid {
		msg := out.result.Message
		resp.Message = &msg
		resp.Errors = render.IssuesPayload(out.issues...)
		writeJSON(w, http.StatusUnprocessableEntity, resp)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *server) validateField(w http.ResponseWriter, r *http.Request, logger *zap.Logger) {
	body, ok := s.readBody(w, r, logger)
	if !ok {
		return
	}
	if !s.checkContract(w, contract.OpValidateField, body) {
		return
	}

	var req fieldCheckRequest
	if err := json.Unmarshal(body, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, problemResponse{Message: "body must be valid JSON"})
		return
	}
	id, ok := validation.ParseFieldID(req.Field)
	if !ok {
		writeJSON(w, http.StatusBadRequest, problemResponse{
			Message: "unknown field",
			Errors:  map[string][]string{"field": {fmt.Sprintf("%q is not a contact field", req.Field)}},
		})
		return
	}

	engine := s.opts.Engine
	writeJSON(w, http.StatusOK, fieldCheckResponse{
		Result: engine.ValidateField(id, req.Value),
		Hint:   engine.ValidateFieldLive(id, req.Value),
	})
}

func (s *server) spec(w http.ResponseWriter, r *http.Request, logger *zap.Logger) {
	data, err := s.contract.JSON()
	if err != nil {
		logger.Error("contact contract unavailable", zap.Error(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if r.Method == http.MethodHead {
		return
	}
	_, _ = w.Write(data)
}

func (s *server) readBody(w http.ResponseWriter, r *http.Request, logger *zap.Logger) ([]byte, bool) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.opts.MaxBodyBytes))
	if err != nil {
		logger.Warn("contact request unreadable", zap.Error(err))
		writeJSON(w, bodyErrorStatus(err), problemResponse{Message: "request body could not be read"})
		return nil, false
	}
	return body, true
}

func (s *server) checkContract(w http.ResponseWriter, operationID string, body []byte) bool {
	err := s.contract.ValidateRequest(operationID, body)
	if err == nil {
		return true
	}
	resp := problemResponse{Message: "request does not match the contact API contract"}
	var violation *contract.ViolationError
	if errors.As(err, &violation) {
		mapping := render.MapErrorPayload(violation.Violations)
		resp.Errors = map[string][]string{}
		for id, messages := range mapping.Fields {
			resp.Errors[string(id)] = messages
		}
		if len(mapping.Form) > 0 {
			resp.Errors[""] = mapping.Form
		}
	}
	writeJSON(w, http.StatusBadRequest, resp)
	return false
}

func (s *server) trapped(value string) bool {
	return s.opts.Honeypot != "" && strings.TrimSpace(value) != ""
}

func (s *server) successNotification() notify.Notification {
	return notify.Notification{
		ID:    uuid.NewString(),
		Kind:  notify.KindSuccess,
		Text:  s.opts.SuccessText,
		Style: s.opts.Styles.For(notify.KindSuccess),
		Phase: notify.PhaseVisible,
	}
}

type outcome struct {
	view   form.View
	result validation.Result
	issues []validation.Result
}

// run replays one submission on a fresh session. The session's timers run on
// a virtual clock; the only real wait is the submit delay, bound to ctx.
func (s *server) run(ctx context.Context, snapshot validation.Snapshot, logger *zap.Logger) (outcome, error) {
	clock := schedule.NewManual()
	presenter, err := notify.New(clock, notify.NewBoard(),
		notify.WithStyles(s.opts.Styles),
		notify.WithLogger(logger),
		notify.WithIDGenerator(uuid.NewString),
	)
	if err != nil {
		return outcome{}, err
	}

	delay := s.opts.SubmitDelay
	virtual := delay
	if virtual <= 0 {
		virtual = time.Nanosecond
	}
	session := form.NewSession(form.Config{
		Engine:      s.opts.Engine,
		Scheduler:   clock,
		Notifier:    presenter,
		Logger:      logger,
		SubmitDelay: virtual,
		SuccessText: s.opts.SuccessText,
	})
	for _, id := range validation.Fields {
		session.Input(id, snapshot.Value(id))
	}

	out := outcome{result: session.Submit()}
	if !out.result.Valid {
		out.issues = s.opts.Engine.Issues(session.Form().Snapshot())
		form.Annotate(session.Form(), out.issues...)
		logger.Info("contact submission rejected", zap.String("field", string(out.result.Field)))
		out.view = session.View()
		return out, nil
	}

	if err := sleep(ctx, delay); err != nil {
		session.Close()
		return outcome{}, err
	}
	clock.Advance(virtual)
	logger.Info("contact submission accepted")
	out.view = session.View()
	return out, nil
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func bodyErrorStatus(err error) int {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return http.StatusRequestEntityTooLarge
	}
	return http.StatusBadRequest
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(true)
	_ = enc.Encode(payload)
}

func writeGuardError(w http.ResponseWriter, err error) {
	if w == nil {
		return
	}
	if err == nil {
		http.Error(w, http.StatusText(http.StatusForbidden), http.StatusForbidden)
		return
	}
	code := http.StatusForbidden
	var httpErr HTTPError
	if errors.As(err, &httpErr) && httpErr != nil {
		code = httpErr.StatusCode()
		if code <= 0 {
			code = http.StatusForbidden
		}
	}
	http.Error(w, http.StatusText(code), code)
}
