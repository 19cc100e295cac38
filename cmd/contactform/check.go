package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/goliatone/go-contactform/pkg/render"
	"github.com/goliatone/go-contactform/pkg/validation"
)

type checkReport struct {
	Result validation.Result   `json:"result"`
	Errors map[string][]string `json:"errors,omitempty"`
}

func newCheckCmd(a *app) *cobra.Command {
	var snapshot validation.Snapshot
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Validate a submission and print the result as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			engine := a.engine()
			res := engine.ValidateForm(snapshot)
			report := checkReport{Result: res}
			if !res.Valid {
				report.Errors = render.IssuesPayload(engine.Issues(snapshot)...)
			}

			data, err := json.MarshalIndent(report, "", "  ")
			if err != nil {
				return fmt.Errorf("check: encode result: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(data))

			if !res.Valid {
				a.logger.Debug("submission rejected", zap.String("field", string(res.Field)))
				return exitError{code: 1}
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&snapshot.Name, "name", "", "sender name")
	cmd.Flags().StringVar(&snapshot.Email, "email", "", "sender email address")
	cmd.Flags().StringVar(&snapshot.Message, "message", "", "message body")
	return cmd
}
