package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	apperrors "fyers-trader/internal/errors"
	"fyers-trader/internal/logging"
	"fyers-trader/pkg/fyers"
)

func addHistoryCommands(rootCmd *cobra.Command, app *App) {
	rootCmd.AddCommand(newHistoryCmd(app))
}

func newHistoryCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history <symbol>",
		Short: "Fetch historical candles",
		Long: `Fetch OHLCV candles for a symbol. Times are read as IST.

Resolutions: D, 5S, 10S, 15S, 30S, 45S and minute counts 1, 2, 3, 5, 10,
15, 20, 30, 60, 120, 240. Open interest is only available for futures and
options.

With --cached the local store is read instead of the broker; --save writes
fetched candles to it.`,
		Example: `  fyers history NSE:SBIN-EQ --from 2024-10-08 --to 2024-10-09
  fyers history NSE:NIFTY24OCTFUT --from "2024-10-08 09:15" --to "2024-10-08 15:30" -r 1 --oi
  fyers history NSE:SBIN-EQ --from 2024-10-01 --to 2024-10-08 -r D --save`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)

			req, err := buildHistoryRequest(cmd, args[0])
			if err != nil {
				output.Error("%v", err)
				return err
			}

			save, _ := cmd.Flags().GetBool("save")
			cached, _ := cmd.Flags().GetBool("cached")

			var candles []fyers.Candle
			if cached {
				var latest time.Time
				candles, latest, err = loadCandles(cmd, app, req)
				if err == nil && !output.IsJSON() && latest.Before(req.To()) {
					output.Warning("Stored candles end at %s, before the requested %s. Fetch with --save to update.",
						FormatDateTime(latest), FormatDateTime(req.To()))
				}
			} else {
				candles, err = fetchCandles(cmd, app, req, save)
			}
			if err != nil {
				output.Error("%v", err)
				return err
			}

			if output.IsJSON() {
				return output.JSON(candles)
			}
			showCandles(output, candles, req.OpenInterest())
			return nil
		},
	}

	cmd.Flags().String("from", "", "range start, YYYY-MM-DD[ HH:MM] IST (required)")
	cmd.Flags().String("to", "", "range end, YYYY-MM-DD[ HH:MM] IST (default: now)")
	cmd.Flags().StringP("resolution", "r", string(fyers.ResolutionMinute5), "candle resolution")
	cmd.Flags().Bool("oi", false, "include open interest")
	cmd.Flags().Bool("save", false, "store fetched candles locally")
	cmd.Flags().Bool("cached", false, "read candles from the local store")
	cmd.MarkFlagRequired("from")

	return cmd
}

func buildHistoryRequest(cmd *cobra.Command, symbol string) (fyers.HistoryRequest, error) {
	fromText, _ := cmd.Flags().GetString("from")
	from, err := ParseISTTime(fromText)
	if err != nil {
		return fyers.HistoryRequest{}, apperrors.NewValidationError("from", fromText, err.Error())
	}
	to := time.Now()
	if toText, _ := cmd.Flags().GetString("to"); toText != "" {
		if to, err = ParseISTTime(toText); err != nil {
			return fyers.HistoryRequest{}, apperrors.NewValidationError("to", toText, err.Error())
		}
	}
	resText, _ := cmd.Flags().GetString("resolution")
	res, err := fyers.ParseCandleResolution(resText)
	if err != nil {
		return fyers.HistoryRequest{}, apperrors.NewValidationError("resolution", resText, err.Error())
	}
	oi, _ := cmd.Flags().GetBool("oi")

	return fyers.NewHistoryBuilder(symbol, from, to).
		WithResolution(res).
		WithOpenInterest(oi).
		Build(), nil
}

func fetchCandles(cmd *cobra.Command, app *App, req fyers.HistoryRequest, save bool) ([]fyers.Candle, error) {
	client, err := app.Client()
	if err != nil {
		return nil, err
	}
	candles, err := client.History(cmd.Context(), req)
	if err != nil {
		return nil, fmt.Errorf("fetching history: %w", err)
	}
	if !save {
		return candles, nil
	}

	s, err := app.OpenStore()
	if err != nil {
		return nil, err
	}
	defer s.Close()
	if err := s.SaveCandles(cmd.Context(), req.Symbol(), req.Resolution(), candles); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrDatabaseError, err.Error())
	}
	log := logging.FromContext(cmd.Context())
	log.Debug().Str("symbol", req.Symbol()).Int("count", len(candles)).Msg("Candles saved")
	return candles, nil
}

// loadCandles reads candles from the local store along with the time of the
// newest stored candle for the symbol and resolution.
func loadCandles(cmd *cobra.Command, app *App, req fyers.HistoryRequest) ([]fyers.Candle, time.Time, error) {
	s, err := app.OpenStore()
	if err != nil {
		return nil, time.Time{}, err
	}
	defer s.Close()
	candles, err := s.GetCandles(cmd.Context(), req.Symbol(), req.Resolution(), req.From(), req.To())
	if err != nil {
		return nil, time.Time{}, apperrors.Wrap(apperrors.ErrDatabaseError, err.Error())
	}
	if len(candles) == 0 {
		return nil, time.Time{}, apperrors.Wrapf(apperrors.ErrDataNotFound, "no stored candles for %s", req.Symbol())
	}
	latest, err := s.GetCandlesFreshness(cmd.Context(), req.Symbol(), req.Resolution())
	if err != nil {
		return nil, time.Time{}, err
	}
	return candles, latest, nil
}

func showCandles(output *Output, candles []fyers.Candle, withOI bool) {
	headers := []string{"Time (IST)", "Open", "High", "Low", "Close", "Volume"}
	if withOI {
		headers = append(headers, "OI")
	}
	table := NewTable(output, headers...)
	for _, c := range candles {
		row := []string{
			FormatDateTime(c.Time),
			FormatPrice(c.Open),
			FormatPrice(c.High),
			FormatPrice(c.Low),
			FormatPrice(c.Close),
			FormatVolume(c.Volume),
		}
		if withOI {
			oi := "-"
			if c.OpenInterest != nil {
				oi = fmt.Sprintf("%.0f", *c.OpenInterest)
			}
			row = append(row, oi)
		}
		table.AddRow(row...)
	}
	table.Render()
	output.Dim("%d candles", len(candles))
}
