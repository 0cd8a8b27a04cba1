// Package export writes sessions to CSV and reads them back.
package export

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"regexp"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/balkashynov/bankroll/internal/format"
	"github.com/balkashynov/bankroll/internal/models"
)

// DateLayout is the date format used in the Date column
const DateLayout = "2006-01-02"

// Header is the base column set. WriteCSV appends the tournament columns
// after it; cash rows leave them empty.
var Header = []string{"Location", "Game", "Stakes", "Date", "Profit", "Notes", "Duration", "Expenses"}

var ErrMissingColumn = errors.New("missing required column")

// trailing tournament columns, optional on import
const (
	colBuyIn    = "Buy In"
	colEntrants = "Entrants"
)

var durationRegex = regexp.MustCompile(`^(?:(\d+)h)?\s*(?:(\d+)m)?$`)

// LocationNamer resolves the venue name printed for a session
type LocationNamer func(models.Session) string

// WriteCSV writes a header row and one row per session
func WriteCSV(w io.Writer, sessions []models.Session, locationName LocationNamer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(append(slices.Clone(Header), colBuyIn, colEntrants)); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for _, s := range sessions {
		name := s.LocationName
		if locationName != nil {
			name = locationName(s)
		}
		h, m := s.HourMinute()
		row := []string{
			name,
			s.Game,
			s.Stakes,
			s.Date.Format(DateLayout),
			strconv.Itoa(s.Profit),
			s.Notes,
			format.Duration(h, m),
			strconv.Itoa(s.Expenses),
			"",
			"",
		}
		if s.IsTournament {
			row[8] = strconv.Itoa(s.BuyIn)
			row[9] = strconv.Itoa(s.Entrants)
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write session %s: %w", s.ID, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// RowError points at the CSV line that failed to import
type RowError struct {
	Row int // 1-based, header is row 1
	Err error
}

func (e *RowError) Error() string {
	return fmt.Sprintf("row %d: %v", e.Row, e.Err)
}

func (e *RowError) Unwrap() error {
	return e.Err
}

// ReadCSV parses sessions written by WriteCSV. Columns are matched by header
// name so their order may differ. Sessions carry the venue in LocationName
// and are validated; the first bad row aborts with a *RowError.
func ReadCSV(r io.Reader, loc *time.Location) ([]models.Session, error) {
	if loc == nil {
		loc = time.Local
	}

	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err == io.EOF {
		return []models.Session{}, nil
	}
	if err != nil {
		return nil, &RowError{Row: 1, Err: err}
	}

	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))] = i
	}
	for _, required := range []string{"Location", "Game", "Date", "Profit"} {
		if _, ok := cols[required]; !ok {
			return nil, &RowError{Row: 1, Err: fmt.Errorf("%w %q", ErrMissingColumn, required)}
		}
	}
	cr.FieldsPerRecord = len(header)

	sessions := []models.Session{}
	for row := 2; ; row++ {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, &RowError{Row: row, Err: err}
		}

		s, err := parseRow(record, cols, loc)
		if err == nil {
			err = s.Validate()
		}
		if err != nil {
			return nil, &RowError{Row: row, Err: err}
		}
		sessions = append(sessions, s)
	}
	return sessions, nil
}

func parseRow(record []string, cols map[string]int, loc *time.Location) (models.Session, error) {
	field := func(name string) string {
		if i, ok := cols[name]; ok {
			return strings.TrimSpace(record[i])
		}
		return ""
	}

	date, err := time.ParseInLocation(DateLayout, field("Date"), loc)
	if err != nil {
		return models.Session{}, fmt.Errorf("invalid date %q, use yyyy-mm-dd", field("Date"))
	}

	profit, err := strconv.Atoi(field("Profit"))
	if err != nil {
		return models.Session{}, fmt.Errorf("invalid profit %q", field("Profit"))
	}

	expenses, err := atoiOrZero(field("Expenses"))
	if err != nil {
		return models.Session{}, fmt.Errorf("invalid expenses %q", field("Expenses"))
	}

	played, err := ParseDuration(field("Duration"))
	if err != nil {
		return models.Session{}, err
	}

	s := models.Session{
		LocationName: field("Location"),
		Game:         field("Game"),
		Stakes:       field("Stakes"),
		Date:         date,
		StartTime:    date,
		EndTime:      date.Add(played),
		Profit:       profit,
		Expenses:     expenses,
		Notes:        field("Notes"),
	}

	buyIn, err := atoiOrZero(field(colBuyIn))
	if err != nil {
		return models.Session{}, fmt.Errorf("invalid buy-in %q", field(colBuyIn))
	}
	entrants, err := atoiOrZero(field(colEntrants))
	if err != nil {
		return models.Session{}, fmt.Errorf("invalid entrants %q", field(colEntrants))
	}
	if buyIn > 0 {
		s.IsTournament = true
		s.BuyIn = buyIn
		s.Entrants = entrants
	}
	return s, nil
}

// ParseDuration reads the "Xh Ym" form written by format.Duration.
// Either part may be left out; empty input is zero.
func ParseDuration(input string) (time.Duration, error) {
	input = strings.ToLower(strings.TrimSpace(input))
	if input == "" {
		return 0, nil
	}
	matches := durationRegex.FindStringSubmatch(input)
	if matches == nil || (matches[1] == "" && matches[2] == "") {
		return 0, fmt.Errorf("invalid duration %q, use Xh Ym", input)
	}
	hours, _ := atoiOrZero(matches[1])
	minutes, _ := atoiOrZero(matches[2])
	return time.Duration(hours)*time.Hour + time.Duration(minutes)*time.Minute, nil
}

func atoiOrZero(s string) (int, error) {
	if s == "" {
		return 0, nil
	}
	return strconv.Atoi(s)
}
