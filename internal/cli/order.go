package cli

import (
	"strconv"

	"github.com/spf13/cobra"

	apperrors "fyers-trader/internal/errors"
	"fyers-trader/internal/logging"
	"fyers-trader/pkg/fyers"
)

// addOrderCommands adds order placement and cancellation.
func addOrderCommands(rootCmd *cobra.Command, app *App) {
	cmd := &cobra.Command{
		Use:   "order",
		Short: "Place and cancel orders",
	}
	cmd.AddCommand(newOrderPlaceCmd(app))
	cmd.AddCommand(newOrderCancelCmd(app))
	rootCmd.AddCommand(cmd)
}

func newOrderPlaceCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "place <symbol> <quantity>",
		Short: "Place an order",
		Long: `Place a single order.

Order types are limit, market, stop (SL-M) and stoplimit (SL-L). Limit and
stop-limit orders need --limit, stop and stop-limit orders need --stop.
Cover orders need --stop-loss; bracket orders need --stop-loss and
--take-profit.`,
		Example: `  fyers order place NSE:SBIN-EQ 1 --side buy --type market
  fyers order place NSE:IDEA-EQ 10 --side sell --type limit --limit 15.5 --product CNC
  fyers order place NSE:JIOFIN-EQ 1 --type limit --limit 300 --offline --tag strat1`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)

			order, err := buildOrder(cmd, args)
			if err != nil {
				output.Error("%v", err)
				return err
			}

			client, err := app.Client()
			if err != nil {
				output.Error("%v", err)
				return err
			}

			if !output.IsJSON() {
				showOrderPreview(output, order)
			}

			result, err := client.PlaceOrder(cmd.Context(), order)
			if err != nil {
				output.Error("Order failed: %v", err)
				return err
			}
			logging.LogOrder(logging.FromContext(cmd.Context()), result.ID, order.Symbol(), order.Side().String(), "placed")

			if output.IsJSON() {
				return output.JSON(result)
			}
			output.Success("✓ Order placed successfully!")
			output.Printf("  Order ID: %s\n", result.ID)
			return nil
		},
	}

	cmd.Flags().String("side", "buy", "Order side (buy, sell)")
	cmd.Flags().String("type", "market", "Order type (limit, market, stop, stoplimit)")
	cmd.Flags().String("product", "INTRADAY", "Product type (CNC, INTRADAY, MARGIN, CO, BO, MTF)")
	cmd.Flags().String("validity", "DAY", "Validity (DAY, IOC)")
	cmd.Flags().Float64("limit", 0, "Limit price")
	cmd.Flags().Float64("stop", 0, "Stop (trigger) price")
	cmd.Flags().Uint32("disclosed", 0, "Disclosed quantity")
	cmd.Flags().Bool("offline", false, "After-market order")
	cmd.Flags().Float64("stop-loss", 0, "Stop-loss for CO/BO")
	cmd.Flags().Float64("take-profit", 0, "Take-profit for BO")
	cmd.Flags().String("tag", "", "Order tag")
	cmd.Flags().Bool("slice", false, "Let the broker slice quantities above the freeze limit")

	return cmd
}

// buildOrder turns the command arguments and flags into an order request.
func buildOrder(cmd *cobra.Command, args []string) (fyers.OrderRequest, error) {
	qty, err := parseQuantity(args[1])
	if err != nil {
		return fyers.OrderRequest{}, err
	}

	sideName, _ := cmd.Flags().GetString("side")
	side, err := fyers.ParseSide(sideName)
	if err != nil {
		return fyers.OrderRequest{}, apperrors.NewValidationError("side", sideName, err.Error())
	}
	typeName, _ := cmd.Flags().GetString("type")
	orderType, err := fyers.ParseOrderType(typeName)
	if err != nil {
		return fyers.OrderRequest{}, apperrors.NewValidationError("type", typeName, err.Error())
	}
	productName, _ := cmd.Flags().GetString("product")
	product, err := fyers.ParseProductType(productName)
	if err != nil {
		return fyers.OrderRequest{}, apperrors.NewValidationError("product", productName, err.Error())
	}
	validityName, _ := cmd.Flags().GetString("validity")
	validity, err := fyers.ParseValidity(validityName)
	if err != nil {
		return fyers.OrderRequest{}, apperrors.NewValidationError("validity", validityName, err.Error())
	}

	limit, _ := cmd.Flags().GetFloat64("limit")
	stop, _ := cmd.Flags().GetFloat64("stop")
	disclosed, _ := cmd.Flags().GetUint32("disclosed")
	offline, _ := cmd.Flags().GetBool("offline")
	stopLoss, _ := cmd.Flags().GetFloat64("stop-loss")
	takeProfit, _ := cmd.Flags().GetFloat64("take-profit")
	slice, _ := cmd.Flags().GetBool("slice")

	b := fyers.NewOrderBuilder(args[0], qty, orderType, side, product, validity).
		WithLimitPrice(limit).
		WithStopPrice(stop).
		WithDisclosedQty(disclosed).
		WithOfflineOrder(offline).
		WithStopLoss(stopLoss).
		WithTakeProfit(takeProfit).
		WithSliceOrder(slice)
	if tag, _ := cmd.Flags().GetString("tag"); tag != "" {
		b = b.WithTag(tag)
	}
	return b.Build(), nil
}

func parseQuantity(s string) (uint32, error) {
	qty, err := strconv.ParseUint(s, 10, 32)
	if err != nil || qty == 0 {
		return 0, apperrors.NewValidationError("quantity", s, "must be a positive integer")
	}
	return uint32(qty), nil
}

func showOrderPreview(output *Output, order fyers.OrderRequest) {
	side := output.Green("BUY")
	if order.Side() == fyers.SideSell {
		side = output.Red("SELL")
	}
	output.Bold("Order Preview")
	output.Printf("  Symbol:   %s\n", order.Symbol())
	output.Printf("  Side:     %s\n", side)
	output.Printf("  Quantity: %d\n", order.Qty())
	output.Printf("  Type:     %s\n", order.Type())
	output.Printf("  Product:  %s\n", order.Product())
	output.Printf("  Validity: %s\n", order.Validity())
	for _, p := range []struct {
		label string
		value float64
	}{
		{"Limit:   ", order.LimitPrice()},
		{"Stop:    ", order.StopPrice()},
		{"SL:      ", order.StopLoss()},
		{"Target:  ", order.TakeProfit()},
	} {
		if p.value != 0 {
			output.Printf("  %s %s\n", p.label, FormatIndianCurrency(p.value))
		}
	}
	if tag, ok := order.Tag(); ok {
		output.Printf("  Tag:      %s\n", tag)
	}
	output.Println()
}

func newOrderCancelCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "cancel <order-id>",
		Short:   "Cancel a pending order",
		Example: `  fyers order cancel 24100800123456`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			client, err := app.Client()
			if err != nil {
				output.Error("%v", err)
				return err
			}

			if err := client.CancelOrder(cmd.Context(), args[0]); err != nil {
				output.Error("Cancel failed: %v", err)
				return err
			}
			logging.LogOrder(logging.FromContext(cmd.Context()), args[0], "", "", "cancelled")

			if output.IsJSON() {
				return output.JSON(map[string]any{"id": args[0], "cancelled": true})
			}
			output.Success("✓ Order %s cancelled", args[0])
			return nil
		},
	}
}
