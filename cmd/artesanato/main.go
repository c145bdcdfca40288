// Artesanato is the terminal client of the Artesanato de Mirage marketplace.
//
// It lets artisans log in, register, publish products and browse the
// catalog, either through an interactive interface or through direct
// commands suited to scripting.
//
// Usage:
//
//	artesanato [command] [flags]
//
// Running without arguments launches the interactive interface.
// See 'artesanato --help' for available commands.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/mirage/artesanato/internal/version"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()

	if err != nil {
		// Failures already shown in a result box only set the exit status.
		if !errors.Is(err, errReported) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "artesanato",
	Short: "Artesanato de Mirage marketplace client",
	Long: `Terminal client for the Artesanato de Mirage handcraft marketplace.

Artisans can log in, register, publish products and browse the catalog.
Every form is validated locally before anything is sent to the backend.

If no command is specified, the interactive interface will launch automatically.`,
	Version:       version.Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runTUI,
}

func init() {
	// Disable automatic completion command generation
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	// No configuration is needed to print the version.
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
	PersistentPostRun: func(cmd *cobra.Command, args []string) {},
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("artesanato %s\n", version.Full())
	},
}
