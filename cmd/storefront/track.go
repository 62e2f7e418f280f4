package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"storefront/internal/service"
)

var trackCmd = &cobra.Command{
	Use:   "track [order-id]",
	Short: "Show the tracking status of an order",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := loadStore()
		if err != nil {
			return err
		}
		rec, err := service.NewTrackingService(store).TrackOrder(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("track %s: %w", args[0], err)
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Order %s: %s (%d%%)\n", rec.OrderID, rec.Status, rec.ProgressPercentage)
		fmt.Fprintf(out, "Placed %s, estimated delivery %s\n", rec.OrderDate, rec.EstimatedDelivery)
		fmt.Fprintf(out, "Current location: %s\n", rec.CurrentLocation)
		for _, it := range rec.Items {
			fmt.Fprintf(out, "  %dx %s  %s\n", it.Quantity, it.Name, it.Price)
		}
		for _, ev := range rec.Events {
			mark := " "
			if ev.Completed {
				mark = "x"
			}
			fmt.Fprintf(out, "  [%s] %s  %s\n", mark, ev.Date, ev.Status)
		}
		return nil
	},
}
