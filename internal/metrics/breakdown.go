package metrics

import (
	"sort"
	"strings"
	"time"

	"github.com/balkashynov/bankroll/internal/models"
)

// DayTotal is the profit booked on one weekday
type DayTotal struct {
	Day    time.Weekday
	Label  string
	Profit int
}

var dayLabels = [7]string{"Su", "M", "T", "W", "Th", "F", "S"}

// DailyTotals buckets profit by weekday, Sunday first. Every day is present.
func DailyTotals(sessions []models.Session) [7]DayTotal {
	var totals [7]DayTotal
	for d := range totals {
		totals[d] = DayTotal{Day: time.Weekday(d), Label: dayLabels[d]}
	}
	for _, s := range sessions {
		totals[s.Date.Weekday()].Profit += s.Profit
	}
	return totals
}

// ProfitByMonth buckets profit by calendar month, January first
func ProfitByMonth(sessions []models.Session) [12]int {
	var months [12]int
	for _, s := range sessions {
		months[s.Date.Month()-1] += s.Profit
	}
	return months
}

// Group summarises the sessions sharing one key
type Group struct {
	Key        string
	Profit     int
	Sessions   int
	HourlyRate int
	WinRate    string
}

// locationKey groups by location id, falling back to the venue name for
// legacy sessions that were never linked to a location
func locationKey(s models.Session) string {
	if s.LocationID != "" {
		return s.LocationID
	}
	return "name:" + strings.ToLower(strings.TrimSpace(s.LocationName))
}

// groupBy collects sessions per key in first-seen order
func groupBy(sessions []models.Session, key func(models.Session) string) (keys []string, members map[string][]models.Session) {
	members = make(map[string][]models.Session)
	for _, s := range sessions {
		k := key(s)
		if _, seen := members[k]; !seen {
			keys = append(keys, k)
		}
		members[k] = append(members[k], s)
	}
	return keys, members
}

func summarise(keys []string, members map[string][]models.Session) []Group {
	groups := make([]Group, 0, len(keys))
	for _, k := range keys {
		m := members[k]
		groups = append(groups, Group{
			Key:        k,
			Profit:     TotalBankroll(m),
			Sessions:   len(m),
			HourlyRate: HourlyRate(m),
			WinRate:    WinRate(m),
		})
	}
	// Highest profit first; equal profits keep first-seen order.
	sort.SliceStable(groups, func(i, j int) bool { return groups[i].Profit > groups[j].Profit })
	return groups
}

// ByLocation summarises sessions per location
func ByLocation(sessions []models.Session) []Group {
	return summarise(groupBy(sessions, locationKey))
}

// ByStakes summarises cash sessions per stakes label
func ByStakes(sessions []models.Session) []Group {
	return summarise(groupBy(Filter{Kind: KindCash}.Apply(sessions), func(s models.Session) string {
		return strings.TrimSpace(s.Stakes)
	}))
}

// ByGame summarises sessions per game label
func ByGame(sessions []models.Session) []Group {
	return summarise(groupBy(sessions, func(s models.Session) string {
		return strings.TrimSpace(s.Game)
	}))
}

// BestLocation returns the location with the highest summed profit. A year
// of 0 means all years. Equal totals go to whichever location was reached
// first walking the sessions. With nothing to rank it returns
// models.DefaultLocation.
func BestLocation(sessions []models.Session, locations []models.Location, year int) models.Location {
	if year != 0 {
		sessions = Filter{Year: year}.Apply(sessions)
	}
	if len(sessions) == 0 {
		return models.DefaultLocation
	}

	keys, members := groupBy(sessions, locationKey)
	bestKey := keys[0]
	bestProfit := TotalBankroll(members[bestKey])
	for _, k := range keys[1:] {
		if p := TotalBankroll(members[k]); p > bestProfit {
			bestKey, bestProfit = k, p
		}
	}
	return ResolveLocation(members[bestKey][0], locations)
}

// ResolveLocation finds the location a session points at. Dangling
// references come back with the id or legacy name the session carries.
func ResolveLocation(s models.Session, locations []models.Location) models.Location {
	for _, l := range locations {
		if s.LocationID != "" && l.ID == s.LocationID {
			return l
		}
	}
	if s.LocationID == "" {
		for _, l := range locations {
			if strings.EqualFold(l.Name, strings.TrimSpace(s.LocationName)) {
				return l
			}
		}
	}
	name := s.LocationName
	if name == "" {
		name = "Unknown Location"
	}
	return models.Location{ID: s.LocationID, Name: name}
}

// UniqueStakes lists the stakes of cash sessions in first-seen order
func UniqueStakes(sessions []models.Session) []string {
	var stakes []string
	seen := make(map[string]bool)
	for _, s := range sessions {
		st := strings.TrimSpace(s.Stakes)
		if s.IsTournament || st == "" || seen[st] {
			continue
		}
		seen[st] = true
		stakes = append(stakes, st)
	}
	return stakes
}

// Years lists the distinct years played, most recent first
func Years(sessions []models.Session) []int {
	seen := make(map[int]bool)
	var years []int
	for _, s := range sessions {
		if y := s.Year(); !seen[y] {
			seen[y] = true
			years = append(years, y)
		}
	}
	sort.Sort(sort.Reverse(sort.IntSlice(years)))
	return years
}

// LocationSessionCount counts sessions played at a location
func LocationSessionCount(sessions []models.Session, locationID string) int {
	n := 0
	for _, s := range sessions {
		if s.LocationID == locationID {
			n++
		}
	}
	return n
}

// SessionsPerYear counts sessions played in year
func SessionsPerYear(sessions []models.Session, year int) int {
	return len(Filter{Year: year}.Apply(sessions))
}
