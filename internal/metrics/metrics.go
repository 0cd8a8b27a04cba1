// Package metrics computes bankroll statistics from session slices.
//
// Every function is pure: it only reads its arguments. Session slices are
// expected most recent first, the order the store keeps them in. Empty
// input always produces a zero or default result.
package metrics

import (
	"github.com/balkashynov/bankroll/internal/format"
	"github.com/balkashynov/bankroll/internal/models"
)

// TotalBankroll sums profit over all sessions
func TotalBankroll(sessions []models.Session) int {
	total := 0
	for _, s := range sessions {
		total += s.Profit
	}
	return total
}

// CumulativeSeries returns the running bankroll in chronological order,
// starting at 0. It has len(sessions)+1 elements.
func CumulativeSeries(sessions []models.Session) []int {
	series := make([]int, 0, len(sessions)+1)
	series = append(series, 0)

	running := 0
	for i := len(sessions) - 1; i >= 0; i-- {
		running += sessions[i].Profit
		series = append(series, running)
	}
	return series
}

// HourlyRate divides the bankroll by whole hours played. When no session
// reached a full hour the summed minute components are used instead.
func HourlyRate(sessions []models.Session) int {
	if len(sessions) == 0 {
		return 0
	}

	hours, minutes := 0, 0
	for _, s := range sessions {
		h, m := s.HourMinute()
		hours += h
		minutes += m
	}

	bankroll := TotalBankroll(sessions)
	if hours >= 1 {
		return bankroll / hours
	}
	if minutes == 0 {
		return 0
	}
	return int(float64(bankroll) / (float64(minutes) / 60))
}

// AverageProfit is the bankroll divided by the number of sessions
func AverageProfit(sessions []models.Session) int {
	if len(sessions) == 0 {
		return 0
	}
	return TotalBankroll(sessions) / len(sessions)
}

// NumCashes counts profitable sessions
func NumCashes(sessions []models.Session) int {
	n := 0
	for _, s := range sessions {
		if s.Profit > 0 {
			n++
		}
	}
	return n
}

// WinRate formats the share of profitable sessions, "0%" for no sessions
func WinRate(sessions []models.Session) string {
	if len(sessions) == 0 {
		return "0%"
	}
	return format.PercentOf(NumCashes(sessions), len(sessions))
}

// ROIRatio is tournament net profit over total tournament buy-ins.
// ok is false when nothing was bought into.
func ROIRatio(sessions []models.Session) (ratio float64, ok bool) {
	net, buyIns := tournamentTotals(sessions)
	if buyIns == 0 {
		return 0, false
	}
	return float64(net) / float64(buyIns), true
}

// ROI formats the tournament return on investment, "0%" without buy-ins
func ROI(sessions []models.Session) string {
	net, buyIns := tournamentTotals(sessions)
	if buyIns == 0 {
		return "0%"
	}
	return format.PercentOf(net, buyIns)
}

func tournamentTotals(sessions []models.Session) (net, buyIns int) {
	for _, s := range sessions {
		if !s.IsTournament {
			continue
		}
		net += s.Profit
		buyIns += s.BuyIn
	}
	return net, buyIns
}

// TotalBuyIns sums tournament buy-ins
func TotalBuyIns(sessions []models.Session) int {
	_, buyIns := tournamentTotals(sessions)
	return buyIns
}

// TotalExpenses sums session expenses
func TotalExpenses(sessions []models.Session) int {
	total := 0
	for _, s := range sessions {
		total += s.Expenses
	}
	return total
}

// BestSession returns the single largest profit, 0 for no sessions
func BestSession(sessions []models.Session) int {
	if len(sessions) == 0 {
		return 0
	}
	best := sessions[0].Profit
	for _, s := range sessions[1:] {
		if s.Profit > best {
			best = s.Profit
		}
	}
	return best
}

// TotalPlayed sums time played, normalised to hours and minutes under 60
func TotalPlayed(sessions []models.Session) (hours, minutes int) {
	for _, s := range sessions {
		h, m := s.HourMinute()
		hours += h
		minutes += m
	}
	return hours + minutes/60, minutes % 60
}

// AverageDuration averages the hour and minute components separately
func AverageDuration(sessions []models.Session) (hours, minutes int) {
	if len(sessions) == 0 {
		return 0, 0
	}
	for _, s := range sessions {
		h, m := s.HourMinute()
		hours += h
		minutes += m
	}
	return hours / len(sessions), minutes / len(sessions)
}

// LastSessionProfit is the profit of the most recent session, 0 when empty
func LastSessionProfit(sessions []models.Session) int {
	if len(sessions) == 0 {
		return 0
	}
	return sessions[0].Profit
}
