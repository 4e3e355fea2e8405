package cli

import (
	"bufio"
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"fyers-trader/internal/logging"
)

// addAuthCommands adds authentication commands.
func addAuthCommands(rootCmd *cobra.Command, app *App) {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Login and token management",
		Long: `Obtain and refresh Fyers access tokens.

The login flow has two steps. The login URL is opened in a browser; after
signing in the broker redirects to the app's redirect URI with an auth_code
query parameter. That full redirect URL is exchanged for an access token and
a refresh token, which are saved to credentials.toml.`,
	}

	cmd.AddCommand(newAuthURLCmd(app))
	cmd.AddCommand(newAuthLoginCmd(app))
	cmd.AddCommand(newAuthExchangeCmd(app))
	cmd.AddCommand(newAuthRefreshCmd(app))
	cmd.AddCommand(newAuthStatusCmd(app))
	rootCmd.AddCommand(cmd)
}

func newAuthURLCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "url",
		Short: "Print the login URL",
		Example: `  fyers auth url
  fyers auth url --state my-state`,
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			state, _ := cmd.Flags().GetString("state")
			loginURL, state, err := loginURL(app, state)
			if err != nil {
				output.Error("Could not build login URL: %v", err)
				return err
			}
			if output.IsJSON() {
				return output.JSON(map[string]string{"url": loginURL, "state": state})
			}
			output.Println(loginURL)
			return nil
		},
	}
	cmd.Flags().String("state", "", "opaque state echoed back on redirect (default: random UUID)")
	return cmd
}

func newAuthLoginCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "login",
		Short: "Interactive browser login",
		Long: `Open the login page, then paste the URL the browser was redirected to.
The resulting tokens are saved to credentials.toml.`,
		Example: `  fyers auth login`,
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			loginURL, state, err := loginURL(app, "")
			if err != nil {
				output.Error("Could not build login URL: %v", err)
				return err
			}

			output.Info("Opening Fyers login page...")
			output.Println()
			output.Bold("Login URL:")
			output.Println(loginURL)
			output.Println()

			if err := openURL(loginURL); err != nil {
				output.Warning("Could not open browser automatically")
			}

			output.Info("After logging in, you'll be redirected to a URL like:")
			output.Dim("  https://your-redirect-url.com/?s=ok&code=200&auth_code=XXXXXX&state=%s", state)
			output.Println()
			output.Bold("Paste the full redirect URL here:")

			reader := bufio.NewReader(cmd.InOrStdin())
			output.Printf("> ")
			redirect, _ := reader.ReadString('\n')
			redirect = strings.TrimSpace(redirect)
			if redirect == "" {
				output.Error("No redirect URL provided")
				return fmt.Errorf("no redirect URL provided")
			}

			return exchange(cmd, app, output, redirect)
		},
	}
}

func newAuthExchangeCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "exchange <redirect-url>",
		Short:   "Exchange a redirect URL for tokens",
		Example: `  fyers auth exchange 'https://example.com/callback?auth_code=XXXX&state=abc'`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return exchange(cmd, app, NewOutput(cmd), args[0])
		},
	}
}

func exchange(cmd *cobra.Command, app *App, output *Output, redirect string) error {
	if err := app.Config.RequireApp(); err != nil {
		output.Error("%v", err)
		return err
	}
	fc := app.Config.Credentials.Fyers

	tokens, err := app.AuthClient().GenerateTokens(cmd.Context(), fc.ClientID, fc.SecretKey, redirect)
	if err != nil {
		output.Error("Token exchange failed: %v", err)
		return err
	}
	if err := app.Config.SaveTokens(tokens.AccessToken, tokens.RefreshToken); err != nil {
		output.Error("Could not save tokens: %v", err)
		return err
	}
	log := logging.FromContext(cmd.Context())
	log.Info().Str("client_id", fc.ClientID).Msg("Access token issued")

	if output.IsJSON() {
		return output.JSON(map[string]bool{"authenticated": true})
	}
	output.Success("✓ Login successful!")
	output.Dim("Tokens saved to %s/credentials.toml", app.Config.Dir())
	return nil
}

func newAuthRefreshCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "refresh",
		Short: "Refresh the access token",
		Long: `Obtain a new access token using the stored refresh token and the
account PIN. The refresh token stays valid for about 15 days.`,
		Example: `  fyers auth refresh
  fyers auth refresh --pin 1234`,
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if err := app.Config.RequireApp(); err != nil {
				output.Error("%v", err)
				return err
			}
			fc := app.Config.Credentials.Fyers
			if fc.RefreshToken == "" {
				output.Error("No refresh token stored. Run 'fyers auth login' first.")
				return fmt.Errorf("no refresh token")
			}
			pin, _ := cmd.Flags().GetString("pin")
			if pin == "" {
				pin = fc.Pin
			}

			tokens, err := app.AuthClient().RefreshTokens(cmd.Context(), fc.ClientID, fc.SecretKey, fc.RefreshToken, pin)
			if err != nil {
				output.Error("Token refresh failed: %v", err)
				return err
			}
			if err := app.Config.SaveTokens(tokens.AccessToken, tokens.RefreshToken); err != nil {
				output.Error("Could not save tokens: %v", err)
				return err
			}

			if output.IsJSON() {
				return output.JSON(map[string]bool{"refreshed": true})
			}
			output.Success("✓ Access token refreshed")
			return nil
		},
	}
	cmd.Flags().String("pin", "", "account PIN (default: pin from credentials.toml)")
	return cmd
}

func newAuthStatusCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show stored credentials",
		Run: func(cmd *cobra.Command, args []string) {
			output := NewOutput(cmd)
			fc := app.Config.Credentials.Fyers
			if output.IsJSON() {
				output.JSON(map[string]any{
					"client_id":         fc.ClientID,
					"has_access_token":  fc.AccessToken != "",
					"has_refresh_token": fc.RefreshToken != "",
				})
				return
			}
			output.Printf("  Client ID:     %s\n", fc.ClientID)
			output.Printf("  Access Token:  %s\n", mask(fc.AccessToken))
			output.Printf("  Refresh Token: %s\n", mask(fc.RefreshToken))
		},
	}
}

// loginURL returns the login URL and the state it carries. An empty state is
// replaced by a random UUID.
func loginURL(app *App, state string) (string, string, error) {
	fc := app.Config.Credentials.Fyers
	if fc.ClientID == "" || fc.RedirectURI == "" {
		return "", "", fmt.Errorf("client_id and redirect_uri are required in credentials.toml")
	}
	if state == "" {
		state = uuid.NewString()
	}
	u, err := app.AuthClient().GenerateURL(fc.ClientID, fc.RedirectURI, state)
	if err != nil {
		return "", "", err
	}
	return u.String(), state, nil
}

func openURL(url string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "linux":
		cmd = exec.Command("xdg-open", url)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	default:
		return fmt.Errorf("unsupported platform")
	}
	cmd.Stdout = os.Stderr
	return cmd.Start()
}
