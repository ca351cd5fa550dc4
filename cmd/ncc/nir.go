package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/recera/ncc/cmd/ncc/internal/template"
)

func newNIRCommand() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "nir <file.ncl>",
		Short: "Print the parsed node tree of a template",
		Long:  `Parses a single template and prints its node tree (NIR) as JSON or YAML.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", args[0], err)
			}
			nodes, err := template.Parse(args[0], string(src))
			if err != nil {
				return err
			}
			data, err := template.Dump(nodes, format)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
			return err
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "json", "Output format (json or yaml)")

	return cmd
}
