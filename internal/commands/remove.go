package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/balkashynov/bankroll/internal/app"
	"github.com/balkashynov/bankroll/internal/format"
)

var removeCmd = &cobra.Command{
	Use:     "rm <session-id>...",
	Aliases: []string{"delete"},
	Short:   "Delete sessions",
	Args:    cobra.MinimumNArgs(1),
	RunE: withApp(func(cmd *cobra.Command, args []string, a *app.App) error {
		out := cmd.OutOrStdout()
		for _, id := range args {
			session, err := resolveSessionID(a.Store, id)
			if err != nil {
				return err
			}
			if _, err := a.Store.DeleteSession(cmd.Context(), session.ID); err != nil {
				return fmt.Errorf("failed to delete session %s: %w", shortID(session.ID), err)
			}
			fmt.Fprintf(out, "🗑️  Deleted session %s (%s on %s)\n",
				shortID(session.ID),
				format.SignedCurrency(session.Profit, a.Config.Currency),
				session.Date.Format("02/01/2006"))
		}
		return nil
	}),
}
