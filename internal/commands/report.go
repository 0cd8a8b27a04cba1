package commands

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/balkashynov/bankroll/internal/app"
	"github.com/balkashynov/bankroll/internal/format"
	"github.com/balkashynov/bankroll/internal/metrics"
	"github.com/balkashynov/bankroll/internal/models"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Annual income report (premium)",
	Long: `Print an income statement for a year: gross winnings, expenses, net
profit, buy-ins, rates and deposits/withdrawals.

Examples:
  bankroll report --year 2024
  bankroll report --year 2024 --kind tournament`,
	RunE: withApp(requirePremium(runReport)),
}

func runReport(cmd *cobra.Command, args []string, a *app.App) error {
	filter, err := filterFromFlags(cmd, a.Store)
	if err != nil {
		return err
	}
	if filter.Year == 0 {
		filter.Year = now().Year()
	}

	r := metrics.BuildReport(a.Store.SessionsFiltered(filter))
	flow := metrics.TransactionTotals(transactionsInYear(a.Store.Transactions(), filter.Year))
	cur := a.Config.Currency
	out := cmd.OutOrStdout()

	fmt.Fprintf(out, "📄 Income report %d\n", filter.Year)
	fmt.Fprintln(out, strings.Repeat("=", 36))

	line := func(label, value string) {
		fmt.Fprintf(out, "%-20s %15s\n", label, value)
	}
	line("Gross income", format.Currency(r.GrossIncome, cur))
	line("Expenses", format.Currency(r.Expenses, cur))
	line("Net profit", format.Currency(r.NetProfit, cur))
	if r.BuyIns > 0 {
		line("Tournament buy-ins", format.Currency(r.BuyIns, cur))
		line("ROI", r.ROI)
	}
	fmt.Fprintln(out, strings.Repeat("-", 36))
	line("Sessions", fmt.Sprint(r.Sessions))
	if all := metrics.SessionsPerYear(a.Store.Sessions(), filter.Year); all != r.Sessions {
		line("All sessions", fmt.Sprint(all))
	}
	line("Time played", format.Duration(r.HoursPlayed, r.MinutesPlayed))
	line("Hourly rate", format.Currency(r.HourlyRate, cur))
	line("Per session", format.Currency(r.ProfitPerSession, cur))
	line("Biggest session", format.Currency(r.BiggestSession, cur))
	line("Win rate", r.WinRate)
	fmt.Fprintln(out, strings.Repeat("-", 36))
	line("Deposits", format.Currency(flow.Deposits, cur))
	line("Withdrawals", format.Currency(flow.Withdrawals, cur))
	line("Net cash flow", format.SignedCurrency(flow.Net, cur))

	fmt.Fprintln(out, strings.Repeat("-", 36))
	for i, profit := range metrics.ProfitByMonth(a.Store.SessionsFiltered(filter)) {
		if profit != 0 {
			line(time.Month(i+1).String(), format.SignedCurrency(profit, cur))
		}
	}
	return nil
}

func transactionsInYear(transactions []models.Transaction, year int) []models.Transaction {
	out := make([]models.Transaction, 0, len(transactions))
	for _, t := range transactions {
		if t.Date.Year() == year {
			out = append(out, t)
		}
	}
	return out
}

func init() {
	addFilterFlags(reportCmd)
}
