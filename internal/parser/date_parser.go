package parser

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	dayMonthYearRegex = regexp.MustCompile(`^(\d{1,2})/(\d{1,2})/(\d{4})$`)
	isoDateRegex      = regexp.MustCompile(`^(\d{4})-(\d{1,2})-(\d{1,2})$`)
	daysAgoRegex      = regexp.MustCompile(`^(\d+)\s*(?:d|day|days)(?:\s+ago)?$`)
)

// ParseSessionDate parses the day a session was played
// Supported formats:
// - dd/mm/yyyy (e.g., "12/04/2024")
// - yyyy-mm-dd (e.g., "2024-04-12")
// - today, yesterday
// - X days ago (e.g., "3 days ago", "3d")
//
// The result is midnight in now's location. Future days are rejected.
func ParseSessionDate(input string, now time.Time) (time.Time, error) {
	input = strings.ToLower(strings.TrimSpace(input))
	today := startOfDay(now)

	var date time.Time
	switch {
	case input == "":
		return time.Time{}, fmt.Errorf("date is empty")
	case input == "today":
		date = today
	case input == "yesterday":
		date = today.AddDate(0, 0, -1)
	default:
		var err error
		date, err = parseCalendarDate(input, now.Location())
		if err != nil {
			days, relErr := parseDaysAgo(input)
			if relErr != nil {
				return time.Time{}, fmt.Errorf("invalid date format. Use: dd/mm/yyyy, yyyy-mm-dd, today, yesterday, or X days ago")
			}
			date = today.AddDate(0, 0, -days)
		}
	}

	if date.After(today) {
		return time.Time{}, fmt.Errorf("date cannot be in the future")
	}
	return date, nil
}

// parseCalendarDate parses dd/mm/yyyy or yyyy-mm-dd
func parseCalendarDate(input string, loc *time.Location) (time.Time, error) {
	var day, month, year int
	if m := dayMonthYearRegex.FindStringSubmatch(input); len(m) == 4 {
		day, _ = strconv.Atoi(m[1])
		month, _ = strconv.Atoi(m[2])
		year, _ = strconv.Atoi(m[3])
	} else if m := isoDateRegex.FindStringSubmatch(input); len(m) == 4 {
		year, _ = strconv.Atoi(m[1])
		month, _ = strconv.Atoi(m[2])
		day, _ = strconv.Atoi(m[3])
	} else {
		return time.Time{}, fmt.Errorf("invalid date format")
	}

	if month < 1 || month > 12 {
		return time.Time{}, fmt.Errorf("month must be between 1 and 12")
	}
	if year < 1970 || year > 2100 {
		return time.Time{}, fmt.Errorf("year must be between 1970 and 2100")
	}

	date := time.Date(year, time.Month(month), day, 0, 0, 0, 0, loc)

	// Check if date is valid (handles leap years, etc.)
	if date.Day() != day || date.Month() != time.Month(month) {
		return time.Time{}, fmt.Errorf("invalid date")
	}
	return date, nil
}

// parseDaysAgo parses "3 days ago", "1 day", "3d"
func parseDaysAgo(input string) (int, error) {
	m := daysAgoRegex.FindStringSubmatch(input)
	if len(m) != 2 {
		return 0, fmt.Errorf("invalid relative date")
	}
	days, err := strconv.Atoi(m[1])
	if err != nil || days > 3650 {
		return 0, fmt.Errorf("days must be between 0 and 3650")
	}
	return days, nil
}

// FormatSessionDate formats a session date relative to now for display
func FormatSessionDate(date, now time.Time) string {
	daysDiff := int(startOfDay(now).Sub(startOfDay(date)).Hours() / 24)

	// Always show the actual date to avoid confusion
	dateStr := date.Format("02/01/2006")

	switch {
	case daysDiff == 0:
		return fmt.Sprintf("Today (%s)", dateStr)
	case daysDiff == 1:
		return fmt.Sprintf("Yesterday (%s)", dateStr)
	case daysDiff > 1 && daysDiff <= 7:
		return fmt.Sprintf("%s (%d days ago)", dateStr, daysDiff)
	default:
		return dateStr
	}
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
