package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-contactform/pkg/renderers/tui"
)

func newPromptCmd(a *app) *cobra.Command {
	var (
		format  string
		noColor bool
		quiet   bool
	)
	cmd := &cobra.Command{
		Use:   "prompt",
		Short: "Fill in and submit the contact form in the terminal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			outputFormat := tui.OutputFormat(format)
			if outputFormat != tui.OutputFormatJSON && outputFormat != tui.OutputFormatPrettyText {
				return fmt.Errorf("prompt: unknown format %q", format)
			}

			options := []tui.Option{
				tui.WithOutput(cmd.OutOrStdout()),
				tui.WithOutputFormat(outputFormat),
				tui.WithColor(!noColor),
				tui.WithStyles(a.styles()),
				tui.WithEngine(a.engine()),
				tui.WithSubmission(a.cfg.Form.SubmitDelay, a.cfg.Form.SuccessText),
				tui.WithMaxAttempts(a.cfg.Form.MaxAttempts),
				tui.WithCelebration(!quiet),
				tui.WithLogger(a.logger),
			}
			if a.promptDriver != nil {
				options = append(options, tui.WithPromptDriver(a.promptDriver))
			}
			session := tui.New(options...)

			outcome, err := session.Run(cmd.Context())
			if err != nil {
				return err
			}
			data, err := session.Encode(outcome)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
	cmd.Flags().StringVar(&format, "format", string(tui.OutputFormatJSON), "outcome format: json or pretty")
	cmd.Flags().BoolVar(&noColor, "no-color", false, "disable coloured output")
	cmd.Flags().BoolVar(&quiet, "quiet", false, "skip the confetti")
	return cmd
}
