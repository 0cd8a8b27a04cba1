package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/balkashynov/bankroll/internal/app"
	"github.com/balkashynov/bankroll/internal/export"
	"github.com/balkashynov/bankroll/internal/format"
	"github.com/balkashynov/bankroll/internal/parser"
)

var editCmd = &cobra.Command{
	Use:   "edit <session-id>",
	Short: "Edit an existing session",
	Long: `Edit an existing session. Only the flags you pass change; the session
is then saved as a whole.

Usage:
  bankroll edit 3f2a9c1d --profit 420
  bankroll edit 3f2a --location Foxwoods --notes "final table"`,
	Args: cobra.ExactArgs(1),
	RunE: withApp(runEdit),
}

func runEdit(cmd *cobra.Command, args []string, a *app.App) error {
	session, err := resolveSessionID(a.Store, args[0])
	if err != nil {
		return err
	}
	flags := cmd.Flags()

	if v, _ := flags.GetString("location"); v != "" {
		loc, _, err := resolveLocation(cmd.Context(), a.Store, v, false)
		if err != nil {
			return err
		}
		session.LocationID = loc.ID
		session.LocationName = ""
	}
	if v, _ := flags.GetString("game"); v != "" {
		session.Game = v
	}
	if flags.Changed("stakes") {
		session.Stakes, _ = flags.GetString("stakes")
	}
	if flags.Changed("profit") {
		session.Profit, _ = flags.GetInt("profit")
	}
	if flags.Changed("expenses") {
		session.Expenses, _ = flags.GetInt("expenses")
	}
	if flags.Changed("notes") {
		session.Notes, _ = flags.GetString("notes")
	}
	if flags.Changed("buyin") {
		session.BuyIn, _ = flags.GetInt("buyin")
		session.IsTournament = session.BuyIn > 0
	}
	if flags.Changed("entrants") {
		session.Entrants, _ = flags.GetInt("entrants")
	}
	if v, _ := flags.GetString("date"); v != "" {
		d, err := parser.ParseSessionDate(v, now())
		if err != nil {
			return fmt.Errorf("invalid date '%s': %w", v, err)
		}
		// Move the whole session to the new day
		shift := d.Sub(startOfDay(session.Date))
		session.Date = d
		session.StartTime = session.StartTime.Add(shift)
		session.EndTime = session.EndTime.Add(shift)
	}
	if v, _ := flags.GetString("duration"); v != "" {
		d, err := export.ParseDuration(v)
		if err != nil {
			return err
		}
		session.EndTime = session.StartTime.Add(d)
	}

	if err := a.Store.ReplaceSession(cmd.Context(), session); err != nil {
		return fmt.Errorf("failed to update session: %w", err)
	}

	hours, mins := session.HourMinute()
	fmt.Fprintf(cmd.OutOrStdout(), "Updated session %s: %s, %s\n",
		shortID(session.ID),
		format.SignedCurrency(session.Profit, a.Config.Currency),
		format.Duration(hours, mins))
	return nil
}

func init() {
	editCmd.Flags().StringP("location", "l", "", "Location name")
	editCmd.Flags().StringP("game", "g", "", "Game")
	editCmd.Flags().StringP("stakes", "s", "", "Stakes")
	editCmd.Flags().IntP("profit", "p", 0, "Profit, negative for a loss")
	editCmd.Flags().StringP("duration", "d", "", "Time played: 4h30m, 90m")
	editCmd.Flags().String("date", "", "Date played")
	editCmd.Flags().Int("expenses", 0, "Expenses")
	editCmd.Flags().Int("buyin", 0, "Tournament buy-in, 0 turns it into a cash session")
	editCmd.Flags().Int("entrants", 0, "Tournament entrants")
	editCmd.Flags().StringP("notes", "n", "", "Notes")
}
