package main

import (
	"encoding/json"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/rhuss/llm-1min/pkg/models"
)

func modelsCmd(a *app) *cobra.Command {
	var asJSON bool
	var vendor string

	cmd := &cobra.Command{
		Use:   "models",
		Short: "List available 1min.ai models",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			list := models.All()
			if vendor != "" {
				list = models.ByVendor(vendor)
				if len(list) == 0 {
					return fmt.Errorf("unknown vendor %q (known: %v)", vendor, models.Vendors())
				}
			}

			if asJSON {
				enc := json.NewEncoder(a.out)
				enc.SetIndent("", "  ")
				return enc.Encode(list)
			}

			fmt.Fprintln(a.out, "Available 1min.ai models:")
			current := ""
			for _, m := range list {
				if m.Vendor != current {
					current = m.Vendor
					fmt.Fprintf(a.out, "\n%s\n", color.New(color.Bold).Sprint(current))
				}
				fmt.Fprintf(a.out, "  %s: %s - %s\n", color.CyanString(m.ID), m.Name, m.Description)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")
	cmd.Flags().StringVar(&vendor, "vendor", "", "Only list models of this vendor")
	return cmd
}
