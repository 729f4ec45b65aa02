package main

import (
	"fmt"
	"io"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// NewRootCmd — корневая команда mesactl.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "mesactl",
		Short:         "Operator CLI for the restaurant table sync service",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(*cobra.Command, []string) {
			_ = godotenv.Load(".env.local")
		},
	}

	root.AddCommand(newResolveDateCmd())
	root.AddCommand(newValidateCmd())
	root.AddCommand(newRegistryCmd())
	root.AddCommand(newSyncCmd())
	root.AddCommand(newReleaseCmd())

	return root
}

func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func out(cmd *cobra.Command) io.Writer { return cmd.OutOrStdout() }
