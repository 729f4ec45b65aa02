package main

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/Gunvolt24/mesasync/internal/dateparse"
)

func newResolveDateCmd() *cobra.Command {
	var (
		timezone  string
		reference string
	)

	c := &cobra.Command{
		Use:   "resolve-date <expression>",
		Short: "Resolve a Spanish date expression (hoy, mañana, el viernes, 15/10) to YYYY-MM-DD",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			loc, err := time.LoadLocation(timezone)
			if err != nil {
				return fmt.Errorf("timezone %q: %w", timezone, err)
			}
			ref := time.Now()
			if reference != "" {
				ref, err = time.ParseInLocation("2006-01-02", reference, loc)
				if err != nil {
					return fmt.Errorf("reference %q: want YYYY-MM-DD", reference)
				}
			}

			expr, err := dateparse.New(loc).Resolve(args[0], ref)
			enc := json.NewEncoder(out(cmd))
			enc.SetIndent("", "  ")
			if encErr := enc.Encode(expr); encErr != nil {
				return encErr
			}
			return err
		},
	}
	c.Flags().StringVar(&timezone, "tz", "Europe/Madrid", "restaurant timezone (IANA)")
	c.Flags().StringVar(&reference, "ref", "", "reference date YYYY-MM-DD (default: today)")
	return c
}
