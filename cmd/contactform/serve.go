package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/goliatone/go-contactform/components/contact"
)

func newServeCmd(a *app) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the contact page and JSON API over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if addr != "" {
				a.cfg.Server.Addr = addr
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			ln, err := net.Listen("tcp", a.cfg.Server.Addr)
			if err != nil {
				return fmt.Errorf("serve: listen: %w", err)
			}
			return a.serve(ctx, ln)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides config)")
	return cmd
}

func (a *app) handler() (http.Handler, contact.Routes, error) {
	component := contact.New(
		contact.WithSubmitDelay(a.cfg.Form.SubmitDelay),
		contact.WithSuccessText(a.cfg.Form.SuccessText),
		contact.WithHoneypot(a.cfg.Form.Honeypot),
		contact.WithMaxBodyBytes(a.cfg.Server.MaxBodyBytes),
		contact.WithVariant(a.cfg.Theme.Variant),
		contact.WithEngine(a.engine()),
		contact.WithStyles(a.styles()),
		contact.WithLogger(a.logger),
	)

	mux := http.NewServeMux()
	routes, err := component.RegisterRoutes(mux, a.cfg.Server.BasePath)
	if err != nil {
		return nil, contact.Routes{}, err
	}
	if routes.Page != "/" {
		mux.Handle("GET /{$}", http.RedirectHandler(routes.Page, http.StatusFound))
	}
	return mux, routes, nil
}

// serve runs the HTTP server on ln until ctx ends, then drains in-flight
// requests for at most the configured shutdown timeout.
func (a *app) serve(ctx context.Context, ln net.Listener) error {
	handler, routes, err := a.handler()
	if err != nil {
		_ = ln.Close()
		return err
	}

	srv := &http.Server{
		Handler:      handler,
		ReadTimeout:  a.cfg.Server.ReadTimeout,
		WriteTimeout: a.cfg.Server.WriteTimeout,
		ErrorLog:     zap.NewStdLog(a.logger),
	}

	errc := make(chan error, 1)
	go func() {
		a.logger.Info("contact server listening",
			zap.String("addr", ln.Addr().String()),
			zap.String("page", routes.Page),
		)
		errc <- srv.Serve(ln)
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
	defer cancel()
	a.logger.Info("contact server shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("serve: shutdown: %w", err)
	}
	return nil
}
