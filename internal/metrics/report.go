package metrics

import "github.com/balkashynov/bankroll/internal/models"

// Report is the annual income statement for one filtered session set
type Report struct {
	GrossIncome      int
	Expenses         int
	NetProfit        int
	BuyIns           int
	HourlyRate       int
	ProfitPerSession int
	BiggestSession   int
	WinRate          string
	Sessions         int
	ROI              string
	HoursPlayed      int
	MinutesPlayed    int
}

// BuildReport computes every report line for sessions
func BuildReport(sessions []models.Session) Report {
	gross := TotalBankroll(sessions)
	expenses := TotalExpenses(sessions)
	hours, minutes := TotalPlayed(sessions)
	return Report{
		GrossIncome:      gross,
		Expenses:         expenses,
		NetProfit:        gross - expenses,
		BuyIns:           TotalBuyIns(sessions),
		HourlyRate:       HourlyRate(sessions),
		ProfitPerSession: AverageProfit(sessions),
		BiggestSession:   BestSession(sessions),
		WinRate:          WinRate(sessions),
		Sessions:         len(sessions),
		ROI:              ROI(sessions),
		HoursPlayed:      hours,
		MinutesPlayed:    minutes,
	}
}

// CashFlow totals deposits and withdrawals
type CashFlow struct {
	Deposits    int
	Withdrawals int
	Net         int
}

// TransactionTotals sums a transaction list
func TransactionTotals(transactions []models.Transaction) CashFlow {
	var flow CashFlow
	for _, t := range transactions {
		switch t.Type {
		case models.Deposit:
			flow.Deposits += t.Amount
		case models.Withdrawal:
			flow.Withdrawals += t.Amount
		}
	}
	flow.Net = flow.Deposits - flow.Withdrawals
	return flow
}
