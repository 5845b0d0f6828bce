package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var flushClear bool

var flushCmd = &cobra.Command{
	Use:   "selection:flush",
	Short: "Compact the persisted cart and quotation rows",
	Run: func(cmd *cobra.Command, args []string) {
		c, err := buildComponents()
		if err != nil {
			fmt.Printf("Wiring failed: %v\n", err)
			os.Exit(1)
		}
		if flushClear {
			c.cart.Clear()
			c.quote.Clear()
		}
		c.repo.FlushAll(c.cart, c.quote)
		fmt.Printf("cartItems:      %d line items (%d units)\n", c.cart.Len(), c.cart.Count())
		fmt.Printf("quotationItems: %d line items (%d units)\n", c.quote.Len(), c.quote.Count())
	},
}

func init() {
	flushCmd.Flags().BoolVar(&flushClear, "clear", false, "Empty both selections instead of compacting them")
	rootCmd.AddCommand(flushCmd)
}
