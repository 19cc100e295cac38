package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/goliatone/go-contactform/internal/config"
	"github.com/goliatone/go-contactform/internal/logging"
	"github.com/goliatone/go-contactform/pkg/notify"
	"github.com/goliatone/go-contactform/pkg/renderers/tui"
	"github.com/goliatone/go-contactform/pkg/validation"
)

type app struct {
	configPath string
	verbose    bool

	cfg    config.Config
	logger *zap.Logger

	// promptDriver replaces the survey driver in tests.
	promptDriver tui.PromptDriver
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:           "contactform",
		Short:         "Serve, prompt and check portfolio contact form submissions",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup()
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}
	root.PersistentFlags().StringVarP(&a.configPath, "config", "c", "", "path to a YAML config file")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(newServeCmd(a), newPromptCmd(a), newCheckCmd(a))
	return root
}

func (a *app) setup() error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	level := cfg.Log.Level
	if a.verbose {
		level = "debug"
	}
	logger, err := logging.New(level, cfg.Log.Development || a.verbose)
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.logger = logger
	return nil
}

func (a *app) engine() *validation.Engine {
	return validation.New(
		validation.WithMinLength(validation.FieldName, a.cfg.Form.NameMinLength),
		validation.WithMinLength(validation.FieldMessage, a.cfg.Form.MessageMinLength),
	)
}

func (a *app) styles() notify.Styles {
	return notify.StylesFromManifest(notify.DefaultManifest(), a.cfg.Theme.Variant)
}
