package commands

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/balkashynov/bankroll/internal/app"
	"github.com/balkashynov/bankroll/internal/format"
	"github.com/balkashynov/bankroll/internal/metrics"
)

var daysCmd = &cobra.Command{
	Use:   "days",
	Short: "Show profit by weekday",
	Long: `Show profit booked on each day of the week, Sunday first.

Example output:
  Su  ████████████          $1,250
  M   ███                    $300
  T                            $0
  W   ████                  -$420`,
	RunE: withApp(runDays),
}

func runDays(cmd *cobra.Command, args []string, a *app.App) error {
	filter, err := filterFromFlags(cmd, a.Store)
	if err != nil {
		return err
	}
	days := metrics.DailyTotals(a.Store.SessionsFiltered(filter))

	maxAbs := 0
	for _, d := range days {
		maxAbs = max(maxAbs, abs(d.Profit))
	}

	const barWidth = 24
	out := cmd.OutOrStdout()
	for _, d := range days {
		n := 0
		if maxAbs > 0 {
			n = abs(d.Profit) * barWidth / maxAbs
		}
		fmt.Fprintf(out, "%-3s %-*s %10s\n", d.Label, barWidth, strings.Repeat("█", n), format.Currency(d.Profit, a.Config.Currency))
	}
	return nil
}

var chartCmd = &cobra.Command{
	Use:   "chart",
	Short: "Show the cumulative bankroll chart",
	Long: `Show the bankroll over time as a sparkline. Long histories are thinned
the same way the widget chart is. Use --json for the raw points.`,
	RunE: withApp(runChart),
}

func runChart(cmd *cobra.Command, args []string, a *app.App) error {
	filter, err := filterFromFlags(cmd, a.Store)
	if err != nil {
		return err
	}
	sessions := a.Store.SessionsFiltered(filter)
	points := metrics.ChartCoordinates(sessions)
	out := cmd.OutOrStdout()

	if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(points)
	}

	if len(sessions) == 0 {
		fmt.Fprintln(out, "No sessions match.")
		return nil
	}
	width, _ := cmd.Flags().GetInt("width")
	fmt.Fprintln(out, format.Sparkline(metrics.Values(points), width))
	fmt.Fprintf(out, "%d sessions · now %s\n", len(sessions), format.Currency(metrics.TotalBankroll(sessions), a.Config.Currency))
	return nil
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

func init() {
	addFilterFlags(daysCmd)
	addFilterFlags(chartCmd)
	chartCmd.Flags().Bool("json", false, "Output chart points as JSON")
	chartCmd.Flags().IntP("width", "w", 60, "Chart width in characters")
}
