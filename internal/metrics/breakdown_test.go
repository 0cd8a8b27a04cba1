package metrics

import (
	"reflect"
	"testing"
	"time"

	"github.com/balkashynov/bankroll/internal/models"
)

func at(s models.Session, locationID string) models.Session {
	s.LocationID = locationID
	return s
}

func TestBestLocation(t *testing.T) {
	locations := []models.Location{{ID: "A", Name: "Alpha"}, {ID: "B", Name: "Beta"}}
	sessions := []models.Session{
		at(cash(0, 100, time.Hour), "A"),
		at(cash(1, 50, time.Hour), "B"),
		at(cash(2, -20, time.Hour), "A"),
	}

	if got := BestLocation(sessions, locations, 0); got.ID != "A" {
		t.Errorf("BestLocation = %+v, want A", got)
	}
}

func TestBestLocationTieGoesToFirstSeen(t *testing.T) {
	locations := []models.Location{{ID: "A", Name: "Alpha"}, {ID: "B", Name: "Beta"}}
	sessions := []models.Session{
		at(cash(0, 50, time.Hour), "B"),
		at(cash(1, 50, time.Hour), "A"),
	}

	if got := BestLocation(sessions, locations, 0); got.ID != "B" {
		t.Errorf("BestLocation = %+v, want B", got)
	}
}

func TestBestLocationYearFilter(t *testing.T) {
	locations := []models.Location{{ID: "A", Name: "Alpha"}, {ID: "B", Name: "Beta"}}
	sessions := []models.Session{
		at(cash(0, 10, time.Hour), "A"),
		at(cash(400, 1000, time.Hour), "B"),
	}

	if got := BestLocation(sessions, locations, 2024); got.ID != "A" {
		t.Errorf("BestLocation(2024) = %+v, want A", got)
	}
	if got := BestLocation(sessions, locations, 1999); got != models.DefaultLocation {
		t.Errorf("BestLocation(1999) = %+v, want default", got)
	}
}

func TestBestLocationDangling(t *testing.T) {
	legacy := cash(0, 80, time.Hour)
	legacy.LocationID = ""
	legacy.LocationName = "Old Card Room"

	got := BestLocation([]models.Session{legacy}, nil, 0)
	if got.Name != "Old Card Room" || got.ID != "" {
		t.Errorf("BestLocation = %+v", got)
	}
}

func TestDailyTotals(t *testing.T) {
	// base is a Sunday
	sessions := []models.Session{cash(0, 100, time.Hour), cash(7, 50, time.Hour), cash(1, -30, time.Hour)}

	days := DailyTotals(sessions)
	if days[time.Sunday].Profit != 150 || days[time.Sunday].Label != "Su" {
		t.Errorf("Sunday = %+v", days[time.Sunday])
	}
	if days[time.Saturday].Profit != -30 || days[time.Saturday].Label != "S" {
		t.Errorf("Saturday = %+v", days[time.Saturday])
	}
	if days[time.Thursday].Label != "Th" || days[time.Thursday].Profit != 0 {
		t.Errorf("Thursday = %+v", days[time.Thursday])
	}
}

func TestProfitByMonth(t *testing.T) {
	months := ProfitByMonth([]models.Session{cash(0, 100, time.Hour), cash(20, 40, time.Hour)})
	if months[time.March-1] != 100 || months[time.February-1] != 40 {
		t.Errorf("ProfitByMonth = %v", months)
	}
}

func TestByStakes(t *testing.T) {
	low := cash(0, 100, 2*time.Hour)
	high := cash(1, 300, 3*time.Hour)
	high.Stakes = "2/5"
	lowAgain := cash(2, -40, time.Hour)

	groups := ByStakes([]models.Session{low, high, lowAgain, tournament(3, 900, 100)})
	if len(groups) != 2 {
		t.Fatalf("groups = %+v", groups)
	}
	if groups[0].Key != "2/5" || groups[0].Profit != 300 || groups[0].HourlyRate != 100 {
		t.Errorf("first group = %+v", groups[0])
	}
	if groups[1].Key != "1/2" || groups[1].Sessions != 2 || groups[1].WinRate != "50%" {
		t.Errorf("second group = %+v", groups[1])
	}
}

func TestByLocationLegacyNames(t *testing.T) {
	a := cash(0, 10, time.Hour)
	a.LocationID, a.LocationName = "", "Foxwoods"
	b := cash(1, 20, time.Hour)
	b.LocationID, b.LocationName = "", " foxwoods "

	groups := ByLocation([]models.Session{a, b})
	if len(groups) != 1 || groups[0].Profit != 30 {
		t.Errorf("ByLocation = %+v", groups)
	}
}

func TestUniqueStakesAndYears(t *testing.T) {
	a := cash(0, 0, time.Hour)
	b := cash(400, 0, time.Hour)
	b.Stakes = "2/5"
	c := cash(700, 0, time.Hour)

	if got := UniqueStakes([]models.Session{a, b, c, tournament(1, 0, 10)}); !reflect.DeepEqual(got, []string{"1/2", "2/5"}) {
		t.Errorf("UniqueStakes = %v", got)
	}
	if got := Years([]models.Session{c, a, b}); !reflect.DeepEqual(got, []int{2024, 2023, 2022}) {
		t.Errorf("Years = %v", got)
	}
	if got := LocationSessionCount([]models.Session{a, b, at(c, "x")}, "loc-a"); got != 2 {
		t.Errorf("LocationSessionCount = %d", got)
	}
	if got := SessionsPerYear([]models.Session{a, b, c}, 2023); got != 1 {
		t.Errorf("SessionsPerYear = %d", got)
	}
}

func TestBuildReport(t *testing.T) {
	s1 := cash(0, 500, 4*time.Hour)
	s1.Expenses = 40
	s2 := tournament(1, -100, 100)

	r := BuildReport([]models.Session{s1, s2})
	if r.GrossIncome != 400 || r.Expenses != 40 || r.NetProfit != 360 {
		t.Errorf("income = %+v", r)
	}
	if r.Sessions != 2 || r.BiggestSession != 500 || r.WinRate != "50%" {
		t.Errorf("counts = %+v", r)
	}
	if r.ROI != "-100%" || r.BuyIns != 100 {
		t.Errorf("roi = %q buyins %d", r.ROI, r.BuyIns)
	}
	if r.HoursPlayed != 7 || r.MinutesPlayed != 0 || r.HourlyRate != 57 {
		t.Errorf("time = %+v", r)
	}
}

func TestTransactionTotals(t *testing.T) {
	flow := TransactionTotals([]models.Transaction{
		{Type: models.Deposit, Amount: 1000},
		{Type: models.Withdrawal, Amount: 300},
		{Type: models.Deposit, Amount: 50},
	})
	if flow.Deposits != 1050 || flow.Withdrawals != 300 || flow.Net != 750 {
		t.Errorf("TransactionTotals = %+v", flow)
	}
}
