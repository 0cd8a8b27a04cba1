package models

import (
	"errors"
	"testing"
	"time"
)

func validCash() Session {
	start := time.Date(2024, 3, 8, 19, 0, 0, 0, time.UTC)
	return Session{
		ID:         "s1",
		LocationID: "loc",
		Game:       "NL Texas Hold Em",
		Stakes:     "1/2",
		Date:       start,
		StartTime:  start,
		EndTime:    start.Add(4*time.Hour + 30*time.Minute),
		Profit:     -120,
	}
}

func TestSessionValidate(t *testing.T) {
	if err := validCash().Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	cases := []struct {
		name   string
		mutate func(*Session)
		want   error
	}{
		{"no location", func(s *Session) { s.LocationID = "" }, ErrMissingLocation},
		{"no game", func(s *Session) { s.Game = " " }, ErrMissingGame},
		{"no stakes", func(s *Session) { s.Stakes = "" }, ErrMissingStakes},
		{"tournament without buy-in", func(s *Session) { s.IsTournament = true; s.Stakes = "" }, ErrInvalidBuyIn},
		{"no date", func(s *Session) { s.Date = time.Time{} }, ErrMissingDate},
		{"end before start", func(s *Session) { s.EndTime = s.StartTime.Add(-time.Minute) }, ErrEndBeforeStart},
		{"negative expenses", func(s *Session) { s.Expenses = -1 }, ErrNegativeExpenses},
	}
	for _, tc := range cases {
		s := validCash()
		tc.mutate(&s)
		if err := s.Validate(); !errors.Is(err, tc.want) {
			t.Fatalf("%s: expected %v, got %v", tc.name, tc.want, err)
		}
	}
}

func TestSessionLegacyLocationNameIsEnough(t *testing.T) {
	s := validCash()
	s.LocationID = ""
	s.LocationName = "Encore Boston Harbor"
	if err := s.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
}

func TestSessionHourMinute(t *testing.T) {
	h, m := validCash().HourMinute()
	if h != 4 || m != 30 {
		t.Fatalf("expected 4h 30m, got %dh %dm", h, m)
	}
}

func TestTransactionValidate(t *testing.T) {
	good := Transaction{Type: Deposit, Amount: 500, Date: time.Now()}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	bads := []Transaction{
		{Type: "transfer", Amount: 1, Date: time.Now()},
		{Type: Withdrawal, Amount: 0, Date: time.Now()},
		{Type: Withdrawal, Amount: 10},
	}
	for i, tx := range bads {
		if err := tx.Validate(); err == nil {
			t.Fatalf("case %d expected error", i)
		}
	}
	if got := (Transaction{Type: Withdrawal, Amount: 40}).Signed(); got != -40 {
		t.Fatalf("expected -40, got %d", got)
	}
}

func TestDefaultLocationIDsAreStable(t *testing.T) {
	a := DefaultLocations()
	b := DefaultLocations()
	for i := range a {
		if a[i].ID != b[i].ID {
			t.Fatalf("default location %q changed id", a[i].Name)
		}
		if a[i].ID != DefaultLocationID(a[i].Name) {
			t.Fatalf("default location %q id mismatch", a[i].Name)
		}
	}
}

func TestLiveSessionFinish(t *testing.T) {
	start := time.Date(2024, 5, 1, 20, 0, 0, 0, time.UTC)
	live := LiveSession{
		LocationID: "loc",
		Game:       "NL Texas Hold Em",
		Stakes:     "1/3",
		StartedAt:  start,
		BuyIns:     []int{300, 200},
	}
	if live.Rebuys() != 1 {
		t.Fatalf("expected 1 rebuy, got %d", live.Rebuys())
	}

	s, err := live.Finish("id", 750, start.Add(3*time.Hour))
	if err != nil {
		t.Fatalf("finish: %v", err)
	}
	if s.Profit != 250 {
		t.Fatalf("expected profit 250, got %d", s.Profit)
	}
	if err := s.Validate(); err != nil {
		t.Fatalf("finished session invalid: %v", err)
	}

	if _, err := (LiveSession{StartedAt: start}).Finish("id", 0, start); !errors.Is(err, ErrNoBuyIn) {
		t.Fatalf("expected ErrNoBuyIn, got %v", err)
	}
}
