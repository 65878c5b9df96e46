package cli

import (
	"github.com/spf13/cobra"

	"github.com/custodia-labs/wbedit/internal/core/ports/driving"
	"github.com/custodia-labs/wbedit/internal/logger"
)

// version is set at build time.
var version = "dev"

var verbose bool

// Services used by the commands. Set by SetServices before Execute.
var (
	entityEditor    driving.EntityEditor
	editHistory     driving.EditHistory
	sessionService  driving.SessionService
	changesService  driving.RecentChangesService
	settingsService driving.SettingsService
)

// Services holds the driving ports the CLI needs.
type Services struct {
	Editor   driving.EntityEditor
	History  driving.EditHistory
	Session  driving.SessionService
	Changes  driving.RecentChangesService
	Settings driving.SettingsService
}

var rootCmd = &cobra.Command{
	Use:   "wbedit",
	Short: "Edit Wikibase entities from the command line",
	Long: `wbedit writes entity data to a Wikibase site such as Wikidata using the
wbeditentity API action, and reads the site's recent changes.

Configure the site and credentials with "wbedit settings".`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Print debug output to stderr")
}

// SetServices wires the services used by the commands.
func SetServices(s Services) {
	entityEditor = s.Editor
	editHistory = s.History
	sessionService = s.Session
	changesService = s.Changes
	settingsService = s.Settings
}

// SetVersion sets the version printed by the version command.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
