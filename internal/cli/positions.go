package cli

import (
	"bufio"
	"strings"

	"github.com/spf13/cobra"

	"fyers-trader/internal/logging"
	"fyers-trader/pkg/fyers"
)

func addPositionCommands(rootCmd *cobra.Command, app *App) {
	cmd := &cobra.Command{
		Use:   "positions",
		Short: "Exit positions and cancel their pending orders",
	}
	cmd.AddCommand(newExitAllCmd(app))
	cmd.AddCommand(newCancelPendingCmd(app))
	rootCmd.AddCommand(cmd)
}

func newExitAllCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "exit-all",
		Short: "Exit every open position",
		Long: `Exit every open position at market.

The broker either closes the positions outright or places counter orders
that are still pending; both outcomes are reported.`,
		Example: `  fyers positions exit-all --yes`,
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			client, err := app.Client()
			if err != nil {
				output.Error("%v", err)
				return err
			}

			if yes, _ := cmd.Flags().GetBool("yes"); !yes {
				output.Warning("This will exit ALL open positions.")
				output.Printf("Continue? [y/N] ")
				answer, _ := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
				if a := strings.ToLower(strings.TrimSpace(answer)); a != "y" && a != "yes" {
					output.Info("Aborted")
					return nil
				}
			}

			result, err := client.ExitAllPositions(cmd.Context())
			if err != nil {
				output.Error("Exit failed: %v", err)
				return err
			}
			log := logging.FromContext(cmd.Context())
			log.Info().Str("event", "exit_all").Stringer("result", result).Msg("Positions exited")

			if output.IsJSON() {
				return output.JSON(map[string]string{"result": result.String()})
			}
			switch result {
			case fyers.PositionsClosed:
				output.Success("✓ All positions closed")
			default:
				output.Warning("Exit orders placed, counter orders still pending")
			}
			return nil
		},
	}
	cmd.Flags().BoolP("yes", "y", false, "skip confirmation")
	return cmd
}

func newCancelPendingCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "cancel-pending <position-id>",
		Short: "Cancel pending orders of one position",
		Long: `Cancel every pending order belonging to a position. The position id is
the symbol followed by the product type.`,
		Example: `  fyers positions cancel-pending NSE:SBIN-EQ-INTRADAY`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			client, err := app.Client()
			if err != nil {
				output.Error("%v", err)
				return err
			}

			if err := client.CancelPendingOrders(cmd.Context(), args[0]); err != nil {
				output.Error("Cancel failed: %v", err)
				return err
			}

			if output.IsJSON() {
				return output.JSON(map[string]any{"id": args[0], "cancelled": true})
			}
			output.Success("✓ Pending orders cancelled for %s", args[0])
			return nil
		},
	}
}
