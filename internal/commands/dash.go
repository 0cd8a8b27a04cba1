package commands

import (
	"github.com/spf13/cobra"

	"github.com/balkashynov/bankroll/internal/app"
	"github.com/balkashynov/bankroll/internal/tui"
)

var dashCmd = &cobra.Command{
	Use:     "dash",
	Aliases: []string{"dashboard"},
	Short:   "Open the interactive dashboard",
	Long: `Open the dashboard: headline metrics, profit by weekday, the bankroll
trend and recent sessions. Tab cycles cash/tournament, y cycles years.`,
	RunE: withApp(runDash),
}

func runDash(cmd *cobra.Command, args []string, a *app.App) error {
	return tui.RunDashboardTUI(a.Store.Sessions(), a.Store.Locations(), a.Config.Currency)
}
