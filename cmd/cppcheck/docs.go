package main

import (
	_ "embed"
	"fmt"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"
)

//go:embed manual.md
var manual string

var docsCmd = &cobra.Command{
	Use:   "docs",
	Short: "Show the manual",
	RunE: func(cmd *cobra.Command, args []string) error {
		rendered, err := glamour.Render(manual, "auto")
		if err != nil {
			// Fall back to the raw markdown on rendering problems.
			fmt.Fprint(cmd.OutOrStdout(), manual)
			return nil
		}
		fmt.Fprint(cmd.OutOrStdout(), rendered)
		return nil
	},
}
