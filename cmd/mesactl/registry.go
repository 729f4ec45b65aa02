package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Gunvolt24/mesasync/internal/registry"
)

func newRegistryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "registry",
		Short: "Inspect the restaurant registry file",
	}
	cmd.AddCommand(newRegistryCheckCmd())
	return cmd
}

func newRegistryCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check <file>",
		Short: "Load the registry and print the effective settings per restaurant",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := registry.Load(args[0])
			if err != nil {
				return err
			}
			for _, id := range reg.IDs() {
				s, _ := reg.Settings(id)
				fmt.Fprintf(out(cmd), "%s\tsheet=%s\ttz=%s\twindow=%s\thold=%s\tmin_sync=%s\tcache_ttl=%s\n",
					s.ID, s.SpreadsheetID, s.Location, s.OccupationWindow, s.ReservationHold, s.MinSyncInterval, s.CacheTTL)
			}
			return nil
		},
	}
}
