package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/recera/ncc/cmd/ncc/internal/build"
	"github.com/recera/ncc/cmd/ncc/internal/config"
	"github.com/recera/ncc/cmd/ncc/internal/diag"
)

var (
	version = "0.1.0-preview"
	commit  = "dev"
	date    = "unknown"
)

func main() {
	var rootCmd = &cobra.Command{
		Use:   "ncc",
		Short: "ncc - the Nucleus template compiler",
		Long: `ncc compiles .ncl view templates into a Go server module: page and
action handlers, a route table, model declarations and content-addressed
static assets.`,
		Version:       fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(newBuildCommand())
	rootCmd.AddCommand(newCheckCommand())
	rootCmd.AddCommand(newNIRCommand())
	rootCmd.AddCommand(newWatchCommand())
	rootCmd.AddCommand(newNewCommand())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, report(err))
		stop()
		os.Exit(1)
	}
}

// loadConfig loads nucleus.json or nucleus.yaml from dir, falling back to
// the defaults.
func loadConfig(dir string) *config.Config {
	cfg, err := config.Load(dir)
	if err != nil {
		log.Printf("⚠️  Failed to load configuration: %v (using defaults)", err)
		cfg = config.DefaultConfig()
	}
	return cfg
}

// report renders err for the terminal. Errors carrying a source span are
// shown with the offending excerpt highlighted.
func report(err error) string {
	var shower diag.Shower
	if !errors.As(err, &shower) {
		return "❌ " + err.Error()
	}
	header := "❌ Build failed"
	var fileErr *build.FileError
	if errors.As(err, &fileErr) {
		header += " in " + fileErr.Path
	}
	return header + "\n  " + shower.Show("  ")
}
