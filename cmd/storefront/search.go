package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"storefront/internal/service"
)

var searchCategory string

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Filter the catalog shelves",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := loadStore()
		if err != nil {
			return err
		}
		query := strings.Join(args, " ")
		view, err := service.NewCatalogService(store).Search(cmd.Context(), query, searchCategory)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if !view.Shelves.HasResults() {
			fmt.Fprintln(out, "No products found")
			return nil
		}
		for _, shelf := range view.Shelves {
			marker := ""
			if shelf.Name == view.Focus {
				marker = " *"
			}
			fmt.Fprintf(out, "%s (%d)%s\n", shelf.Name, len(shelf.Products), marker)
			for _, p := range shelf.Products {
				fmt.Fprintf(out, "  #%-3d %-32s %s\n", p.ID, p.Name, p.EffectivePrice())
			}
		}
		return nil
	},
}

func init() {
	searchCmd.Flags().StringVar(&searchCategory, "category", "", "category filter; takes precedence over the query")
}
