package commands

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/balkashynov/bankroll/internal/app"
	"github.com/balkashynov/bankroll/internal/format"
	"github.com/balkashynov/bankroll/internal/models"
)

var listCmd = &cobra.Command{
	Use:     "ls",
	Aliases: []string{"list"},
	Short:   "List sessions",
	Long:    "List sessions, most recent first, with optional filters for year, location, stakes, game and kind",
	RunE:    withApp(runList),
}

func runList(cmd *cobra.Command, args []string, a *app.App) error {
	filter, err := filterFromFlags(cmd, a.Store)
	if err != nil {
		return err
	}
	sessions := a.Store.SessionsFiltered(filter)

	if query, _ := cmd.Flags().GetString("search"); query != "" {
		sessions = searchSessions(sessions, query, locationNamer(a.Store))
	}
	if limit, _ := cmd.Flags().GetInt("limit"); limit > 0 && len(sessions) > limit {
		sessions = sessions[:limit]
	}

	if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
		return renderSessionsJSON(cmd, sessions, locationNamer(a.Store))
	}
	renderSessionsTable(cmd, sessions, locationNamer(a.Store), a.Config.Currency)
	return nil
}

// searchSessions keeps sessions whose game, notes or venue contain query
func searchSessions(sessions []models.Session, query string, name func(models.Session) string) []models.Session {
	query = strings.ToLower(strings.TrimSpace(query))
	out := make([]models.Session, 0, len(sessions))
	for _, s := range sessions {
		haystack := strings.ToLower(strings.Join([]string{s.Game, s.Notes, s.Stakes, name(s)}, " "))
		if strings.Contains(haystack, query) {
			out = append(out, s)
		}
	}
	return out
}

// renderSessionsJSON outputs sessions as JSON
func renderSessionsJSON(cmd *cobra.Command, sessions []models.Session, name func(models.Session) string) error {
	type jsonSession struct {
		ID           string    `json:"id"`
		Location     string    `json:"location"`
		Game         string    `json:"game"`
		Stakes       string    `json:"stakes,omitempty"`
		IsTournament bool      `json:"is_tournament"`
		BuyIn        int       `json:"buy_in,omitempty"`
		Entrants     int       `json:"entrants,omitempty"`
		Date         string    `json:"date"`
		StartTime    time.Time `json:"start_time"`
		EndTime      time.Time `json:"end_time"`
		Minutes      int       `json:"minutes"`
		Profit       int       `json:"profit"`
		Expenses     int       `json:"expenses,omitempty"`
		Notes        string    `json:"notes,omitempty"`
	}

	out := make([]jsonSession, 0, len(sessions))
	for _, s := range sessions {
		out = append(out, jsonSession{
			ID:           s.ID,
			Location:     name(s),
			Game:         s.Game,
			Stakes:       s.Stakes,
			IsTournament: s.IsTournament,
			BuyIn:        s.BuyIn,
			Entrants:     s.Entrants,
			Date:         s.Date.Format("2006-01-02"),
			StartTime:    s.StartTime,
			EndTime:      s.EndTime,
			Minutes:      int(s.Duration().Minutes()),
			Profit:       s.Profit,
			Expenses:     s.Expenses,
			Notes:        s.Notes,
		})
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("error marshaling JSON: %w", err)
	}
	return nil
}

// renderSessionsTable outputs sessions as a formatted table
func renderSessionsTable(cmd *cobra.Command, sessions []models.Session, name func(models.Session) string, currency string) {
	out := cmd.OutOrStdout()
	if len(sessions) == 0 {
		fmt.Fprintln(out, "No sessions found. Use 'bankroll add \"NL @Encore 1/3 +200 4h\"' to record your first one.")
		return
	}

	// Fixed column widths for 90-character terminals
	fmt.Fprintf(out, "%-8s %-10s %-22s %-16s %-7s %-8s %10s\n", "ID", "DATE", "LOCATION", "GAME", "STAKES", "TIME", "PROFIT")
	fmt.Fprintln(out, strings.Repeat("-", 87))

	for _, s := range sessions {
		stakes := s.Stakes
		if s.IsTournament {
			stakes = "MTT"
		}
		hours, mins := s.HourMinute()
		fmt.Fprintf(out, "%-8s %-10s %-22s %-16s %-7s %-8s %10s\n",
			shortID(s.ID),
			s.Date.Format("02/01/2006"),
			truncate(name(s), 22),
			truncate(s.Game, 16),
			truncate(stakes, 7),
			format.Duration(hours, mins),
			format.SignedCurrency(s.Profit, currency))
	}
}

func init() {
	addFilterFlags(listCmd)
	listCmd.Flags().String("search", "", "Only sessions whose game, notes or location contain this text")
	listCmd.Flags().IntP("limit", "n", 0, "Limit number of results")
	listCmd.Flags().Bool("json", false, "Output as JSON")
}
