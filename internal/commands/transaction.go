package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/balkashynov/bankroll/internal/app"
	"github.com/balkashynov/bankroll/internal/format"
	"github.com/balkashynov/bankroll/internal/metrics"
	"github.com/balkashynov/bankroll/internal/models"
	"github.com/balkashynov/bankroll/internal/parser"
)

var transactionCmd = &cobra.Command{
	Use:     "tx",
	Aliases: []string{"transaction", "transactions"},
	Short:   "Record deposits and withdrawals",
}

var transactionAddCmd = &cobra.Command{
	Use:   "add <deposit|withdrawal> <amount>",
	Short: "Record a deposit or withdrawal",
	Long: `Record money moved into or out of the bankroll outside a session.

Examples:
  bankroll tx add deposit 500
  bankroll tx add withdrawal 1200 --date 01/03/2024 --notes "rent"`,
	Args: cobra.ExactArgs(2),
	RunE: withApp(runTransactionAdd),
}

var transactionListCmd = &cobra.Command{
	Use:     "ls",
	Aliases: []string{"list"},
	Short:   "List transactions",
	RunE:    withApp(runTransactionList),
}

var transactionRemoveCmd = &cobra.Command{
	Use:     "rm <id>",
	Aliases: []string{"delete"},
	Short:   "Remove a transaction",
	Args:    cobra.ExactArgs(1),
	RunE:    withApp(runTransactionRemove),
}

func runTransactionAdd(cmd *cobra.Command, args []string, a *app.App) error {
	kind := models.TransactionType(strings.ToLower(args[0]))
	amount, err := parseAmount(args[1])
	if err != nil {
		return err
	}

	date := now()
	if raw, _ := cmd.Flags().GetString("date"); raw != "" {
		if date, err = parser.ParseSessionDate(raw, now()); err != nil {
			return err
		}
	}
	notes, _ := cmd.Flags().GetString("notes")

	tx, err := a.Store.AddTransaction(cmd.Context(), models.Transaction{
		Type:   kind,
		Amount: amount,
		Date:   date,
		Notes:  notes,
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "💵 Recorded %s of %s (%s)\n", tx.Type, format.Currency(tx.Amount, a.Config.Currency), shortID(tx.ID))
	return nil
}

func runTransactionList(cmd *cobra.Command, args []string, a *app.App) error {
	transactions := a.Store.Transactions()
	out := cmd.OutOrStdout()
	if len(transactions) == 0 {
		fmt.Fprintln(out, "No transactions recorded.")
		return nil
	}

	cur := a.Config.Currency
	fmt.Fprintf(out, "%-10s %-12s %-11s %12s  %s\n", "ID", "DATE", "TYPE", "AMOUNT", "NOTES")
	fmt.Fprintln(out, strings.Repeat("-", 64))
	for _, t := range transactions {
		fmt.Fprintf(out, "%-10s %-12s %-11s %12s  %s\n",
			shortID(t.ID), t.Date.Format("02/01/2006"), t.Type, format.SignedCurrency(t.Signed(), cur), truncate(t.Notes, 24))
	}
	flow := metrics.TransactionTotals(transactions)
	fmt.Fprintf(out, "\nNet: %s\n", format.SignedCurrency(flow.Net, cur))
	return nil
}

func runTransactionRemove(cmd *cobra.Command, args []string, a *app.App) error {
	var target *models.Transaction
	for _, t := range a.Store.Transactions() {
		if t.ID == args[0] || (len(args[0]) >= 4 && strings.HasPrefix(t.ID, args[0])) {
			if target != nil {
				return fmt.Errorf("transaction id '%s' is ambiguous, use more characters", args[0])
			}
			t := t
			target = &t
		}
	}
	if target == nil {
		return fmt.Errorf("transaction '%s' not found", args[0])
	}
	if _, err := a.Store.DeleteTransaction(cmd.Context(), target.ID); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "🗑️  Removed transaction %s\n", shortID(target.ID))
	return nil
}

func init() {
	transactionAddCmd.Flags().String("date", "", "Date: dd/mm/yyyy, today, yesterday, 3d")
	transactionAddCmd.Flags().StringP("notes", "n", "", "Notes")

	transactionCmd.AddCommand(transactionAddCmd)
	transactionCmd.AddCommand(transactionListCmd)
	transactionCmd.AddCommand(transactionRemoveCmd)
}
