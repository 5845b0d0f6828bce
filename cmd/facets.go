package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var facetsCmd = &cobra.Command{
	Use:   "facets:refresh",
	Short: "Drop the cached facet lists and re-discover them",
	Run: func(cmd *cobra.Command, args []string) {
		c, err := buildComponents()
		if err != nil {
			fmt.Printf("Wiring failed: %v\n", err)
			os.Exit(1)
		}
		c.options.Invalidate()
		opts := c.options.Load(context.Background())

		fmt.Println("Categories:")
		for _, cat := range opts.Categories {
			fmt.Printf("  - %s\n", cat)
		}
		fmt.Println("Brands:")
		for _, b := range opts.Brands {
			fmt.Printf("  - %s\n", b)
		}
	},
}

func init() {
	rootCmd.AddCommand(facetsCmd)
}
