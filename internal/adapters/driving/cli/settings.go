package cli

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/wbedit/internal/core/domain"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "View and change client settings",
	Long: `Shows or changes the settings stored in ~/.wbedit/config.toml.

Settings can also be given through environment variables, e.g.
WBEDIT_AUTH_PASSWORD for auth.password.`,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	Args:  cobra.NoArgs,
	RunE:  runSettingsShow,
}

var settingsSetCmd = &cobra.Command{
	Use:   "set KEY VALUE",
	Short: "Change a setting",
	Example: `  wbedit settings set api.url https://test.wikidata.org/w/api.php
  wbedit settings set auth.username "Example@wbedit"`,
	Args: cobra.ExactArgs(2),
	RunE: runSettingsSet,
}

var settingsUnsetCmd = &cobra.Command{
	Use:   "unset KEY",
	Short: "Reset a setting to its default",
	Args:  cobra.ExactArgs(1),
	RunE:  runSettingsUnset,
}

func init() {
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsSetCmd)
	settingsCmd.AddCommand(settingsUnsetCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	cmd.Println("Site")
	cmd.Printf("  API URL:       %s\n", settings.APIURL)
	cmd.Printf("  Entity IRI:    %s\n", settings.SiteIRI)
	cmd.Printf("  User agent:    %s\n", settings.UserAgent)
	cmd.Printf("  Maxlag:        %s\n", formatMaxlag(settings.Maxlag))
	cmd.Printf("  Rate limit:    %g requests/s\n", settings.RequestsPerSecond)
	cmd.Println()

	auth := settings.Auth
	cmd.Println("Authentication")
	switch {
	case auth.UsesOAuth():
		cmd.Printf("  OAuth token:   %s\n", maskSecret(auth.AccessToken))
	case auth.HasLogin():
		cmd.Printf("  Username:      %s\n", auth.Username)
		if auth.Password != "" {
			cmd.Printf("  Password:      %s\n", maskSecret(auth.Password))
		} else {
			cmd.Println("  Password:      (prompted)")
		}
	default:
		cmd.Println("  Not configured (anonymous edits)")
	}
	return nil
}

func runSettingsSet(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	key, value := args[0], args[1]
	if !slices.Contains(settingsService.Keys(), key) {
		return fmt.Errorf("%w: unknown setting %q (valid: %s)",
			domain.ErrInvalidInput, key, strings.Join(settingsService.Keys(), ", "))
	}

	if err := settingsService.Set(key, value); err != nil {
		return fmt.Errorf("failed to save setting: %w", err)
	}
	cmd.Printf("Set %s\n", key)
	return nil
}

func runSettingsUnset(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	if err := settingsService.Unset(args[0]); err != nil {
		return fmt.Errorf("failed to unset setting: %w", err)
	}
	cmd.Printf("Unset %s\n", args[0])
	return nil
}

func formatMaxlag(seconds int) string {
	if seconds <= 0 {
		return "disabled"
	}
	return fmt.Sprintf("%ds", seconds)
}

// maskSecret masks a secret for display, showing only first and last 4 chars.
func maskSecret(s string) string {
	if len(s) <= 8 {
		return "****"
	}
	return s[:4] + "..." + s[len(s)-4:]
}
