package export

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/balkashynov/bankroll/internal/models"
)

func sample() []models.Session {
	date := time.Date(2024, 4, 12, 0, 0, 0, 0, time.UTC)
	return []models.Session{
		{
			ID: "a", LocationID: "enc", Game: "NL Texas Hold Em", Stakes: "1/3",
			Date: date, StartTime: date, EndTime: date.Add(4*time.Hour + 30*time.Minute),
			Profit: -120, Expenses: 15, Notes: "tough table, lost flip",
		},
		{
			ID: "b", LocationID: "fox", Game: "PLO", Stakes: "2/5",
			Date: date.AddDate(0, 0, -3), StartTime: date, EndTime: date.Add(45 * time.Minute),
			Profit: 1200,
		},
	}
}

func namer(s models.Session) string {
	return map[string]string{"enc": "Encore Boston Harbor", "fox": "Foxwoods Resort Casino"}[s.LocationID]
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, sample(), namer); err != nil {
		t.Fatal(err)
	}

	want := "Location,Game,Stakes,Date,Profit,Notes,Duration,Expenses,Buy In,Entrants\n" +
		"Encore Boston Harbor,NL Texas Hold Em,1/3,2024-04-12,-120,\"tough table, lost flip\",4h 30m,15,,\n" +
		"Foxwoods Resort Casino,PLO,2/5,2024-04-09,1200,,0h 45m,0,,\n"
	if got := buf.String(); got != want {
		t.Errorf("WriteCSV =\n%s\nwant\n%s", got, want)
	}
}

func TestWriteCSVEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, nil, nil); err != nil {
		t.Fatal(err)
	}
	if got := buf.String(); got != strings.Join(Header, ",")+",Buy In,Entrants\n" {
		t.Errorf("WriteCSV(nil) = %q", got)
	}
}

func TestRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, sample(), namer); err != nil {
		t.Fatal(err)
	}

	got, err := ReadCSV(&buf, time.UTC)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}

	first := got[0]
	if first.LocationName != "Encore Boston Harbor" || first.Profit != -120 || first.Expenses != 15 {
		t.Errorf("first = %+v", first)
	}
	if first.Notes != "tough table, lost flip" {
		t.Errorf("notes = %q", first.Notes)
	}
	if h, m := first.HourMinute(); h != 4 || m != 30 {
		t.Errorf("duration = %dh %dm", h, m)
	}
	if !first.Date.Equal(time.Date(2024, 4, 12, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("date = %v", first.Date)
	}
}

func TestTournamentRoundTrip(t *testing.T) {
	date := time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)
	in := []models.Session{{
		ID: "t", LocationID: "fox", Game: "Deepstack", IsTournament: true, BuyIn: 150, Entrants: 88,
		Date: date, StartTime: date, EndTime: date.Add(6 * time.Hour), Profit: -150,
	}}

	var buf bytes.Buffer
	if err := WriteCSV(&buf, in, namer); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), ",150,88\n") {
		t.Errorf("tournament columns missing:\n%s", buf.String())
	}

	got, err := ReadCSV(&buf, time.UTC)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || !got[0].IsTournament || got[0].BuyIn != 150 || got[0].Entrants != 88 || got[0].Stakes != "" {
		t.Errorf("round trip = %+v", got)
	}
}

func TestReadCSVTournamentColumns(t *testing.T) {
	in := "Game,Location,Date,Profit,Buy In,Entrants\n" +
		"NLH Deepstack,MGM Springfield,2024-01-05,450,150,88\n"

	got, err := ReadCSV(strings.NewReader(in), time.UTC)
	if err != nil {
		t.Fatal(err)
	}
	if !got[0].IsTournament || got[0].BuyIn != 150 || got[0].Entrants != 88 {
		t.Errorf("tournament = %+v", got[0])
	}
}

func TestReadCSVRowErrors(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		row     int
		wantErr error
	}{
		{"missing column", "Location,Game,Date\n", 1, ErrMissingColumn},
		{"bad date", strings.Join(Header, ",") + "\nA,NL,1/3,12/04/2024,10,,1h 0m,0\n", 2, nil},
		{"bad profit", strings.Join(Header, ",") + "\nA,NL,1/3,2024-04-12,ten,,1h 0m,0\n", 2, nil},
		{"bad duration", strings.Join(Header, ",") + "\nA,NL,1/3,2024-04-12,10,,soon,0\n", 2, nil},
		{"validation", strings.Join(Header, ",") + "\nA,NL,1/3,2024-04-12,10,,1h 0m,0\nA,,1/3,2024-04-12,10,,1h 0m,0\n", 3, models.ErrMissingGame},
		{"negative expenses", strings.Join(Header, ",") + "\nA,NL,1/3,2024-04-12,10,,1h 0m,-5\n", 2, models.ErrNegativeExpenses},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadCSV(strings.NewReader(tt.in), time.UTC)
			var rowErr *RowError
			if !errors.As(err, &rowErr) {
				t.Fatalf("err = %v, want *RowError", err)
			}
			if rowErr.Row != tt.row {
				t.Errorf("row = %d, want %d", rowErr.Row, tt.row)
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("err = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestReadCSVEmptyInput(t *testing.T) {
	got, err := ReadCSV(strings.NewReader(""), nil)
	if err != nil || len(got) != 0 {
		t.Errorf("ReadCSV(empty) = %v, %v", got, err)
	}
}

func TestParseDuration(t *testing.T) {
	tests := []struct {
		in   string
		want time.Duration
		ok   bool
	}{
		{"4h 30m", 4*time.Hour + 30*time.Minute, true},
		{"4h30m", 4*time.Hour + 30*time.Minute, true},
		{"90m", 90 * time.Minute, true},
		{"2h", 2 * time.Hour, true},
		{"", 0, true},
		{"h", 0, false},
		{"later", 0, false},
	}

	for _, tt := range tests {
		got, err := ParseDuration(tt.in)
		if (err == nil) != tt.ok || got != tt.want {
			t.Errorf("ParseDuration(%q) = %v, %v", tt.in, got, err)
		}
	}
}
