package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

const banner = `
  ┌─┐┬┬  ┌─┐┌┬┐┌─┐┌┐┌┌┬┐
  ├┤ ││  ├─┤│││├┤ │││ │
  └  ┴┴─┘┴ ┴┴ ┴└─┘┘└┘ ┴
`

func main() {
	rootCmd := &cobra.Command{
		Use:   "filament",
		Short: "Fine-grained reactive UI runtime for Go",
		Long: `Filament renders description trees into live output trees with
fine-grained reactive updates: signals drive surgical backend
mutations instead of whole-tree diffs.

  • In-memory, wire, and custom output backends
  • Keyed list reconciliation with minimal moves
  • Live sessions over WebSocket with binary patch frames
  • Static HTML export and S3 publishing`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(
		serveCmd(),
		benchCmd(),
		exportCmd(),
		versionCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "\033[31mError:\033[0m %s\n", err)
		os.Exit(1)
	}
}

// printBanner prints the ASCII art banner.
func printBanner() {
	fmt.Print(banner)
}

// success prints a success message.
func success(format string, args ...any) {
	fmt.Printf("\033[32m✓\033[0m %s\n", fmt.Sprintf(format, args...))
}

// info prints an info message.
func info(format string, args ...any) {
	fmt.Printf("  %s\n", fmt.Sprintf(format, args...))
}
