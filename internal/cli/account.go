package cli

import (
	"github.com/spf13/cobra"
)

func addAccountCommands(rootCmd *cobra.Command, app *App) {
	rootCmd.AddCommand(newProfileCmd(app))
}

func newProfileCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "profile",
		Short:   "Show the account profile",
		Example: `  fyers profile --json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			client, err := app.Client()
			if err != nil {
				output.Error("%v", err)
				return err
			}

			p, err := client.Profile(cmd.Context())
			if err != nil {
				output.Error("Failed to fetch profile: %v", err)
				return err
			}

			if output.IsJSON() {
				return output.JSON(p)
			}

			output.Bold("Profile")
			output.Printf("  Name:      %s\n", p.Name)
			if p.DisplayName != nil {
				output.Printf("  Display:   %s\n", *p.DisplayName)
			}
			output.Printf("  Client ID: %s\n", p.ClientID)
			output.Printf("  Email:     %s\n", p.Email)
			output.Printf("  Mobile:    %s\n", p.MobileNumber)
			output.Printf("  TOTP:      %v\n", p.TOTP)
			output.Printf("  DDPI:      %v\n", p.DDPIEnabled)
			output.Printf("  MTF:       %v\n", p.MTFEnabled)
			if p.PwdToExpire > 0 {
				output.Dim("Password expires in %d days", p.PwdToExpire)
			}
			return nil
		},
	}
}
