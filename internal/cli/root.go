// Package cli provides the command-line interface for the fyers client.
package cli

import (
	"fmt"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"fyers-trader/internal/config"
	"fyers-trader/internal/logging"
	"fyers-trader/internal/store"
	"fyers-trader/pkg/fyers"
	"fyers-trader/pkg/fyers/auth"
)

// Version information
const (
	Version   = "0.1.0"
	BuildDate = "2026-10-01"
)

// App holds the application dependencies. Config and Logger are set once the
// persistent flags have been parsed.
type App struct {
	Config *config.Config
	Logger zerolog.Logger
}

// Client returns an authenticated broker client built from the loaded config.
func (a *App) Client() (*fyers.Client, error) {
	if err := a.Config.RequireSession(); err != nil {
		return nil, err
	}
	fc := a.Config.Credentials.Fyers
	return fyers.New(fyers.Credentials{
		ClientID:    fc.ClientID,
		AccessToken: fc.AccessToken,
	}, &fyers.Options{
		APIBaseURL:        a.Config.API.BaseURL,
		DataBaseURL:       a.Config.API.DataBaseURL,
		HTTPClientTimeout: a.Config.API.Timeout,
		UserAgent:         a.Config.API.UserAgent,
		Logger:            &a.Logger,
	})
}

// AuthClient returns a client for the login and token endpoints.
func (a *App) AuthClient() *auth.Client {
	return auth.New(&auth.Options{
		BaseURL:           a.Config.API.AuthBaseURL,
		HTTPClientTimeout: a.Config.API.Timeout,
		Logger:            &a.Logger,
	})
}

// OpenStore opens the local candle store.
func (a *App) OpenStore() (store.CandleStore, error) {
	s, err := store.NewSQLiteStore(a.Config.Store.Path)
	if err != nil {
		return nil, fmt.Errorf("opening candle store: %w", err)
	}
	a.Logger.Debug().Str("path", a.Config.Store.Path).Msg("SQLite store initialized")
	return s, nil
}

// NewRootCmd creates the root command for the CLI.
func NewRootCmd() *cobra.Command {
	app := &App{Logger: zerolog.Nop()}

	rootCmd := &cobra.Command{
		Use:   "fyers",
		Short: "Fyers trading API client",
		Long: `fyers is a command line client for the Fyers trading REST API.

It covers the login flow, the account profile, order placement and
cancellation, position exits and historical candles.

Credentials are read from credentials.toml in the config directory or from
FYERS_* environment variables.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			dir, _ := cmd.Flags().GetString("config")
			cfg, err := config.Load(dir)
			if err != nil {
				return err
			}
			app.Config = cfg

			logCfg := logging.DefaultLogConfig()
			logCfg.Level = cfg.Log.Level
			logCfg.File = cfg.Log.File
			logCfg.FilePath = cfg.Log.FilePath
			if debug, _ := cmd.Flags().GetBool("debug"); debug {
				logCfg.Level = "debug"
			}
			app.Logger = logging.NewLoggerWithConfig(logCfg)
			cmd.SetContext(logging.WithLogger(cmd.Context(), app.Logger))
			return nil
		},
	}

	rootCmd.PersistentFlags().String("config", "", "config directory (default: ~/.config/fyers-trader)")
	rootCmd.PersistentFlags().Bool("json", false, "output in JSON format")
	rootCmd.PersistentFlags().Bool("debug", false, "enable debug logging")

	addCoreCommands(rootCmd, app)
	addAuthCommands(rootCmd, app)
	addAccountCommands(rootCmd, app)
	addOrderCommands(rootCmd, app)
	addPositionCommands(rootCmd, app)
	addHistoryCommands(rootCmd, app)

	return rootCmd
}

// addCoreCommands adds core utility commands.
func addCoreCommands(rootCmd *cobra.Command, app *App) {
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newConfigCmd(app))
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			output := NewOutput(cmd)
			if output.IsJSON() {
				output.JSON(map[string]string{
					"version":    Version,
					"build_date": BuildDate,
				})
			} else {
				output.Printf("fyers v%s\n", Version)
				output.Dim("Build date: %s", BuildDate)
			}
		},
	}
}

func newConfigCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration management",
		Long:  "View and validate application configuration.",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if output.IsJSON() {
				return output.JSON(map[string]any{
					"api":   app.Config.API,
					"log":   app.Config.Log,
					"store": app.Config.Store,
				})
			}
			showConfig(output, app.Config)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show configuration directory path",
		Run: func(cmd *cobra.Command, args []string) {
			output := NewOutput(cmd)
			if output.IsJSON() {
				output.JSON(map[string]string{"path": app.Config.Dir()})
			} else {
				output.Println(app.Config.Dir())
			}
		},
	})

	return cmd
}

func showConfig(output *Output, cfg *config.Config) {
	output.Bold("API")
	output.Printf("  Base URL:      %s\n", cfg.API.BaseURL)
	output.Printf("  Data Base URL: %s\n", cfg.API.DataBaseURL)
	output.Printf("  Auth Base URL: %s\n", cfg.API.AuthBaseURL)
	output.Printf("  Timeout:       %s\n", cfg.API.Timeout)
	output.Println()

	output.Bold("Credentials")
	fc := cfg.Credentials.Fyers
	output.Printf("  Client ID:     %s\n", fc.ClientID)
	output.Printf("  Access Token:  %s\n", mask(fc.AccessToken))
	output.Printf("  Refresh Token: %s\n", mask(fc.RefreshToken))
	output.Println()

	output.Bold("Storage")
	output.Printf("  Candle Store:  %s\n", cfg.Store.Path)
	output.Printf("  Log Level:     %s\n", cfg.Log.Level)
}

// mask hides all but the last four characters of a secret.
func mask(s string) string {
	if s == "" {
		return "(not set)"
	}
	if len(s) <= 4 {
		return "****"
	}
	return "****" + s[len(s)-4:]
}
