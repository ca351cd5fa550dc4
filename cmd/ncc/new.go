package main

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"github.com/recera/ncc/cmd/ncc/internal/scaffold"
	"github.com/recera/ncc/cmd/ncc/internal/ui"
)

func newNewCommand() *cobra.Command {
	var (
		module      string
		siteURL     string
		interactive bool
	)

	cmd := &cobra.Command{
		Use:   "new [name]",
		Short: "Create a new project",
		Long: `Creates a project with a layout, a few pages, a component and a main
package that serves the generated handlers. Without a name an interactive
prompt asks for the settings.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p := scaffold.ProjectConfig{Module: module, SiteURL: siteURL}
			if len(args) > 0 {
				p.Name = args[0]
			}

			if interactive || p.Name == "" {
				entered, err := ui.Run(p.Name)
				if err != nil {
					return err
				}
				if module != "" {
					entered.Module = module
				}
				p = entered
			}

			p, err := scaffold.Generate(p)
			if err != nil {
				return err
			}

			log.Printf("✅ Created %s in %s", p.Name, p.Directory)
			fmt.Printf("\nNext steps:\n  cd %s\n  ncc build\n  go run .\n", p.Directory)
			return nil
		},
	}

	cmd.Flags().StringVar(&module, "module", "", "Go module path (default example.com/<name>)")
	cmd.Flags().StringVar(&siteURL, "site-url", scaffold.DefaultSiteURL, "Base URL used in sitemap.xml")
	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "Prompt for settings even when a name is given")

	return cmd
}
