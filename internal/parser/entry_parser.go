package parser

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// ParsedSession represents a session parsed from a quick-entry line
type ParsedSession struct {
	Location string
	Game     string
	Stakes   string
	Profit   *int
	Duration time.Duration
	Expenses int
	BuyIn    int
	Entrants int
	Date     *time.Time
	Errors   []string
}

var (
	dateTokenRegex     = regexp.MustCompile(`\bon:(\S+)`)
	expensesRegex      = regexp.MustCompile(`\bexp:(\S+)`)
	buyInRegex         = regexp.MustCompile(`\bbuyin:(\S+)`)
	entrantsRegex      = regexp.MustCompile(`\bentrants:(\S+)`)
	locationRegex      = regexp.MustCompile(`@([\p{L}0-9_'&.-]+)`)
	stakesRegex        = regexp.MustCompile(`\b(\d+/\d+(?:/\d+)?)\b`)
	durationTokenRegex = regexp.MustCompile(`\b((\d+)h(?:(\d+)m)?|(\d+)m)\b`)
	profitRegex        = regexp.MustCompile(`(?:^|\s)([+-]\d+)\b`)
)

// ParseEntry extracts session fields from a quick-entry line
// Syntax: "NL Hold Em @Encore 1/3 +350 4h30m exp:20 on:12/04/2024"
// Tournaments: "Deepstack @Foxwoods buyin:150 entrants:88 +450 6h"
func ParseEntry(input string, now time.Time) ParsedSession {
	result := ParsedSession{Errors: []string{}}

	// Date first, its slashes would otherwise read as stakes
	if m := dateTokenRegex.FindStringSubmatch(input); len(m) > 1 {
		date, err := ParseSessionDate(m[1], now)
		if err != nil {
			result.Errors = append(result.Errors, "Invalid date '"+m[1]+"': "+err.Error())
		} else {
			result.Date = &date
		}
		input = dateTokenRegex.ReplaceAllString(input, "")
	}

	// Keyed amounts (exp:20, buyin:150, entrants:88)
	input = extractAmount(input, expensesRegex, "expenses", &result.Expenses, &result.Errors)
	input = extractAmount(input, buyInRegex, "buy-in", &result.BuyIn, &result.Errors)
	input = extractAmount(input, entrantsRegex, "entrants", &result.Entrants, &result.Errors)

	// Location (@Encore_Boston_Harbor), underscores become spaces
	if m := locationRegex.FindStringSubmatch(input); len(m) > 1 {
		result.Location = strings.ReplaceAll(m[1], "_", " ")
		input = locationRegex.ReplaceAllString(input, "")
	}

	// Stakes (1/3, 2/5/10)
	if m := stakesRegex.FindStringSubmatch(input); len(m) > 1 {
		result.Stakes = m[1]
		input = stakesRegex.ReplaceAllString(input, "")
	}

	// Duration (4h30m, 4h, 90m)
	if m := durationTokenRegex.FindStringSubmatch(input); len(m) > 1 {
		hours, _ := strconv.Atoi(m[2])
		minutes, _ := strconv.Atoi(m[3])
		if m[4] != "" {
			minutes, _ = strconv.Atoi(m[4])
		}
		result.Duration = time.Duration(hours)*time.Hour + time.Duration(minutes)*time.Minute
		input = durationTokenRegex.ReplaceAllString(input, "")
	}

	// Signed profit (+350, -120)
	if matches := profitRegex.FindAllStringSubmatch(input, -1); len(matches) > 0 {
		if len(matches) > 1 {
			result.Errors = append(result.Errors, "More than one profit amount, using the first")
		}
		profit, err := strconv.Atoi(matches[0][1])
		if err != nil {
			result.Errors = append(result.Errors, "Invalid profit '"+matches[0][1]+"'")
		} else {
			result.Profit = &profit
		}
		input = profitRegex.ReplaceAllString(input, " ")
	}

	// Whatever is left is the game
	result.Game = strings.Join(strings.Fields(input), " ")

	return result
}

// IsTournament reports whether the entry carried a buy-in
func (p ParsedSession) IsTournament() bool {
	return p.BuyIn > 0
}

func extractAmount(input string, re *regexp.Regexp, name string, dst *int, errs *[]string) string {
	m := re.FindStringSubmatch(input)
	if len(m) < 2 {
		return input
	}
	n, err := strconv.Atoi(m[1])
	if err != nil || n < 0 {
		*errs = append(*errs, "Invalid "+name+" '"+m[1]+"'. Use a whole non-negative number")
	} else {
		*dst = n
	}
	return re.ReplaceAllString(input, "")
}
