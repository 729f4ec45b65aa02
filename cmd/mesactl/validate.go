package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/Gunvolt24/mesasync/internal/exportcheck"
	"github.com/Gunvolt24/mesasync/pkg/validate"
)

// validate — проверка выгрузки листа Reservas (JSON/JSONL): валидные брони в stdout,
// отклонённые записи и дубли id в stderr.
func newValidateCmd() *cobra.Command {
	var (
		inputPath    string
		formatStr    string
		restaurantID string
		timezone     string
	)

	c := &cobra.Command{
		Use:   "validate",
		Short: "Validate a reservation export (.json/.jsonl, canonical records or sheet rows)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			loc, err := time.LoadLocation(timezone)
			if err != nil {
				return fmt.Errorf("timezone %q: %w", timezone, err)
			}
			format := exportcheck.Format(formatStr)

			// без --in читаем stdin построчно
			path := inputPath
			if path == "" {
				path = "/dev/stdin"
				if format == exportcheck.FormatAuto {
					format = exportcheck.FormatJSONL
				}
			}

			checker := exportcheck.New(restaurantID, loc, time.Now(), validate.NewRecordValidator())
			rep, err := checker.CheckFile(cmd.Context(), path, format, out(cmd))
			if err != nil {
				return fmt.Errorf("validation: %w", err)
			}

			stderr := cmd.ErrOrStderr()
			for _, is := range rep.Issues {
				if is.SameAs > 0 {
					fmt.Fprintf(stderr, "record %d: %s %s (first at record %d)\n", is.Line, is.Reason, is.ID, is.SameAs)
					continue
				}
				fmt.Fprintf(stderr, "record %d: %s\n", is.Line, is.Reason)
			}
			if !rep.OK() {
				return fmt.Errorf("validation failed (%s)", rep.Summary())
			}
			fmt.Fprintf(stderr, "validation ok (%s)\n", rep.Summary())
			return nil
		},
	}
	c.Flags().StringVar(&inputPath, "in", "", "path to input (.json or .jsonl); empty reads stdin")
	c.Flags().StringVar(&formatStr, "format", "auto", "input format: auto|json|jsonl")
	c.Flags().StringVar(&restaurantID, "restaurant", "", "restaurant id; required for sheet rows without an id column")
	c.Flags().StringVar(&timezone, "tz", "Europe/Madrid", "restaurant timezone (IANA)")
	return c
}
