package main

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"github.com/recera/ncc/cmd/ncc/internal/build"
)

func newCheckCommand() *cobra.Command {
	var strict bool

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Parse and validate templates without writing output",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := loadConfig(".")
			res, err := build.New(cfg, log.Default()).Check(cmd.Context())
			if err != nil {
				return err
			}
			if strict && len(res.Warnings) > 0 {
				return fmt.Errorf("check failed with %d warnings", len(res.Warnings))
			}
			log.Printf("✅ %d routes OK, %d warnings", len(res.Routes), len(res.Warnings))
			return nil
		},
	}

	cmd.Flags().BoolVar(&strict, "strict", false, "Treat warnings as errors")

	return cmd
}
