package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/balkashynov/bankroll/internal/app"
	"github.com/balkashynov/bankroll/internal/format"
	"github.com/balkashynov/bankroll/internal/metrics"
	"github.com/balkashynov/bankroll/internal/models"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show bankroll metrics",
	Long: `Show bankroll, hourly rate, win rate and the rest of the headline metrics
for all sessions or a filtered subset.

Examples:
  bankroll stats
  bankroll stats --year 2024 --kind cash
  bankroll stats --location Encore --stakes 1/3`,
	RunE: withApp(runStats),
}

func runStats(cmd *cobra.Command, args []string, a *app.App) error {
	filter, err := filterFromFlags(cmd, a.Store)
	if err != nil {
		return err
	}
	sessions := a.Store.SessionsFiltered(filter)
	cur := a.Config.Currency
	out := cmd.OutOrStdout()

	fmt.Fprintf(out, "📊 %s\n\n", describeFilter(filter, a.Store.Locations()))
	if len(sessions) == 0 {
		fmt.Fprintln(out, "No sessions match.")
		return nil
	}

	totalH, totalM := metrics.TotalPlayed(sessions)
	avgH, avgM := metrics.AverageDuration(sessions)
	best := metrics.BestLocation(sessions, a.Store.Locations(), filter.Year)

	rows := [][2]string{
		{"Bankroll", format.Currency(metrics.TotalBankroll(sessions), cur)},
		{"Hourly rate", format.Currency(metrics.HourlyRate(sessions), cur) + "/hr"},
		{"Per session", format.Currency(metrics.AverageProfit(sessions), cur)},
		{"Win rate", metrics.WinRate(sessions)},
		{"Sessions", fmt.Sprint(len(sessions))},
		{"Cashes", fmt.Sprint(metrics.NumCashes(sessions))},
		{"Best session", format.Currency(metrics.BestSession(sessions), cur)},
		{"Last session", format.SignedCurrency(metrics.LastSessionProfit(sessions), cur)},
		{"Time played", format.Duration(totalH, totalM)},
		{"Avg duration", format.Duration(avgH, avgM)},
		{"Best location", best.Name},
	}
	if stakes := metrics.UniqueStakes(sessions); len(stakes) > 0 {
		rows = append(rows, [2]string{"Stakes played", strings.Join(stakes, ", ")})
	}
	if roi, ok := metrics.ROIRatio(sessions); ok {
		rows = append(rows,
			[2]string{"Buy-ins", format.Currency(metrics.TotalBuyIns(sessions), cur)},
			[2]string{"ROI", format.Percent(roi)},
		)
	}
	if expenses := metrics.TotalExpenses(sessions); expenses > 0 {
		rows = append(rows, [2]string{"Expenses", format.Currency(expenses, cur)})
	}

	for _, r := range rows {
		fmt.Fprintf(out, "  %-14s %s\n", r[0], r[1])
	}
	return nil
}

// describeFilter names the active filter for headings
func describeFilter(f metrics.Filter, locations []models.Location) string {
	parts := []string{strings.ToUpper(f.Kind.String()[:1]) + f.Kind.String()[1:]}
	if f.Year != 0 {
		parts = append(parts, fmt.Sprint(f.Year))
	} else {
		parts = append(parts, "all years")
	}
	if f.LocationID != "" {
		parts = append(parts, "at "+metrics.ResolveLocation(models.Session{LocationID: f.LocationID}, locations).Name)
	}
	if f.Stakes != "" {
		parts = append(parts, f.Stakes)
	}
	if f.Game != "" {
		parts = append(parts, f.Game)
	}
	return strings.Join(parts, " · ")
}

var breakdownCmd = &cobra.Command{
	Use:   "breakdown",
	Short: "Compare profit by stakes, location or game",
	Long: `Group sessions and compare profit, hourly rate and win rate per group,
highest profit first.

Examples:
  bankroll breakdown --by stakes
  bankroll breakdown --by location --year 2024`,
	RunE: withApp(runBreakdown),
}

func runBreakdown(cmd *cobra.Command, args []string, a *app.App) error {
	filter, err := filterFromFlags(cmd, a.Store)
	if err != nil {
		return err
	}
	sessions := a.Store.SessionsFiltered(filter)
	by, _ := cmd.Flags().GetString("by")
	locations := a.Store.Locations()

	var groups []metrics.Group
	label := func(g metrics.Group) string { return g.Key }
	switch strings.ToLower(by) {
	case "stakes":
		groups = metrics.ByStakes(sessions)
	case "game":
		groups = metrics.ByGame(sessions)
	case "location":
		groups = metrics.ByLocation(sessions)
		label = func(g metrics.Group) string {
			if name, ok := strings.CutPrefix(g.Key, "name:"); ok {
				return name
			}
			return metrics.ResolveLocation(models.Session{LocationID: g.Key}, locations).Name
		}
	default:
		return fmt.Errorf("invalid grouping '%s'. Use: stakes, location, or game", by)
	}

	out := cmd.OutOrStdout()
	if len(groups) == 0 {
		fmt.Fprintln(out, "No sessions match.")
		return nil
	}

	cur := a.Config.Currency
	fmt.Fprintf(out, "%-24s %8s %12s %12s %8s\n", strings.ToUpper(by), "SESSIONS", "PROFIT", "HOURLY", "WIN")
	fmt.Fprintln(out, strings.Repeat("-", 68))
	for _, g := range groups {
		fmt.Fprintf(out, "%-24s %8d %12s %12s %8s\n",
			truncate(label(g), 24),
			g.Sessions,
			format.SignedCurrency(g.Profit, cur),
			format.Currency(g.HourlyRate, cur),
			g.WinRate)
	}
	return nil
}

func init() {
	addFilterFlags(statsCmd)
	addFilterFlags(breakdownCmd)
	breakdownCmd.Flags().StringP("by", "b", "stakes", "Group by: stakes, location, or game")
}
