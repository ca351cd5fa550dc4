package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/recera/ncc/cmd/ncc/internal/build"
	"github.com/recera/ncc/cmd/ncc/internal/config"
)

func newBuildCommand() *cobra.Command {
	var cwd string
	var workers int
	var noBundle bool

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Compile all templates",
		Long: `Compiles every template under the views directory into the generated
server module, writes extracted assets and bundles staged TypeScript.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cwd != "" {
				if err := os.Chdir(cwd); err != nil {
					return fmt.Errorf("failed to change directory to %s: %w", cwd, err)
				}
			}
			cfg := loadConfig(".")
			if workers > 0 {
				cfg.Build.Workers = workers
			}
			if noBundle {
				cfg.Build.Bundle = false
			}
			_, err := runBuild(cmd.Context(), cfg, "")
			return err
		},
	}

	cmd.Flags().StringVar(&cwd, "cwd", "", "Project directory (defaults to current)")
	cmd.Flags().IntVarP(&workers, "workers", "j", 0, "Number of files compiled in parallel")
	cmd.Flags().BoolVar(&noBundle, "no-bundle", false, "Skip the TypeScript bundle step")

	return cmd
}

// runBuild builds and bundles the project. A non-empty reloadScript is
// loaded by every page.
func runBuild(ctx context.Context, cfg *config.Config, reloadScript string) (*build.Result, error) {
	log.Println("🚀 Building Nucleus application...")

	b := build.New(cfg, log.Default())
	b.ReloadScript = reloadScript
	res, err := b.Run(ctx)
	if err != nil {
		return nil, err
	}

	if cfg.Build.Bundle && len(res.Staged) > 0 {
		outDir := filepath.Join(cfg.Output.StaticDir, "js")
		if err := build.Bundle(ctx, res.Staged, outDir, log.Default()); err != nil {
			return nil, err
		}
	}
	return res, nil
}
