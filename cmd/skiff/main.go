package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/skiff-dev/skiff/internal/errors"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

const banner = `
  ╔═╗┬┌─┬┌─┐┌─┐
  ╚═╗├┴┐│├┤ ├┤
  ╚═╝┴ ┴┴└  └
`

func main() {
	rootCmd := &cobra.Command{
		Use:   "skiff",
		Short: "Tooling for Skiff single-page apps",
		Long: `Skiff is a minimal client-side navigation router.

This CLI serves, validates, and deploys Skiff apps:

  • Dev server with SPA fallback and live reload
  • Manifest (skiff.yaml) validation
  • Static deploy to S3`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(
		serveCmd(),
		validateCmd(),
		deployCmd(),
		versionCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		errors.PrintError(err)
		os.Exit(1)
	}
}

// printBanner prints the Skiff ASCII art banner.
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

// warn prints a warning message.
func warn(format string, args ...any) {
	fmt.Printf("\033[33m⚠\033[0m %s\n", fmt.Sprintf(format, args...))
}
