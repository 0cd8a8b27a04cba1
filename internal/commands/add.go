package commands

import (
	"context"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/balkashynov/bankroll/internal/app"
	"github.com/balkashynov/bankroll/internal/export"
	"github.com/balkashynov/bankroll/internal/format"
	"github.com/balkashynov/bankroll/internal/models"
	"github.com/balkashynov/bankroll/internal/parser"
	"github.com/balkashynov/bankroll/internal/tui"
)

// now is the clock commands read, swapped in tests
var now = time.Now

var clockRegex = regexp.MustCompile(`^(\d{1,2}):(\d{2})$`)

var addCmd = &cobra.Command{
	Use:   "add [quick entry]",
	Short: "Record a finished session",
	Long: `Record a finished session from a quick-entry line, flags, or both.
With no arguments, or when the entry cannot be parsed, an interactive form
opens pre-filled with whatever was understood.

Quick-entry syntax:
  @location     Venue (underscores become spaces, prefixes are fine)
  1/3           Stakes for cash games
  +350 / -120   Profit or loss
  4h30m, 90m    Time played
  exp:20        Expenses (tips, food, travel)
  buyin:150     Tournament buy-in, makes the session a tournament
  entrants:88   Tournament field size
  on:12/04/2024 Date played (dd/mm/yyyy, yesterday, 3 days ago)
  Anything else is the game.

Examples:
  bankroll add "NL Hold Em @Encore 1/3 +350 4h30m exp:20"
  bankroll add "Deepstack @Foxwoods buyin:150 entrants:88 -150 6h on:yesterday"
  bankroll add --location Encore --game PLO --stakes 2/5 --profit -400 --duration 3h
  bankroll add`,
	Args: cobra.ArbitraryArgs,
	RunE: withApp(runAdd),
}

func runAdd(cmd *cobra.Command, args []string, a *app.App) error {
	out := cmd.OutOrStdout()
	noUI, _ := cmd.Flags().GetBool("no-ui")

	parsed := parser.ParseEntry(strings.Join(args, " "), now())
	if err := applyAddFlags(cmd, &parsed); err != nil {
		return err
	}

	switch {
	case len(parsed.Errors) > 0 && noUI:
		return fmt.Errorf("could not parse entry: %s", strings.Join(parsed.Errors, "; "))
	case len(parsed.Errors) > 0:
		fmt.Fprintf(out, "⚠️  Found issues with parsing: %s\n", strings.Join(parsed.Errors, ", "))
		fmt.Fprintln(out, "Opening interactive mode for confirmation...")
		return runAddForm(cmd, a, parsed)
	case len(args) == 0 && !addFlagsChanged(cmd):
		return runAddForm(cmd, a, parsed)
	}

	loc, created, err := resolveLocation(cmd.Context(), a.Store, parsed.Location, true)
	if err != nil {
		return err
	}
	if parsed.Profit == nil {
		return fmt.Errorf("profit is required, e.g. +350 or --profit -120")
	}

	notes, _ := cmd.Flags().GetString("notes")
	startClock, _ := cmd.Flags().GetString("start")
	start, end, err := sessionTimes(parsed, startClock)
	if err != nil {
		return err
	}

	session := models.Session{
		LocationID:   loc.ID,
		Game:         parsed.Game,
		Stakes:       parsed.Stakes,
		IsTournament: parsed.IsTournament(),
		BuyIn:        parsed.BuyIn,
		Entrants:     parsed.Entrants,
		Date:         start,
		StartTime:    start,
		EndTime:      end,
		Profit:       *parsed.Profit,
		Expenses:     parsed.Expenses,
		Notes:        notes,
	}
	if parsed.Date != nil {
		session.Date = *parsed.Date
	}

	session, err = a.Store.AddSession(cmd.Context(), session)
	if err != nil {
		return fmt.Errorf("failed to add session: %w", err)
	}

	printAdded(out, session, loc, created, a.Config.Currency)
	return nil
}

// runAddForm opens the interactive add form, pre-filled with what was parsed
func runAddForm(cmd *cobra.Command, a *app.App, parsed parser.ParsedSession) error {
	notes, _ := cmd.Flags().GetString("notes")
	saver := &sessionSaver{ctx: cmd.Context(), a: a}

	session, err := tui.RunAddSessionTUI(addFormPrefill(parsed, notes), a.Config.Currency, saver)
	if err != nil {
		return err
	}
	if session != nil {
		printAdded(cmd.OutOrStdout(), *session, saver.location, saver.created, a.Config.Currency)
	}
	return nil
}

// sessionSaver stores sessions from the add form, creating unknown venues
type sessionSaver struct {
	ctx context.Context
	a   *app.App

	location models.Location
	created  bool
}

// SaveSession resolves the session's venue by name and stores it
func (s *sessionSaver) SaveSession(session models.Session) (models.Session, error) {
	loc, created, err := resolveLocation(s.ctx, s.a.Store, session.LocationName, true)
	if err != nil {
		return models.Session{}, err
	}
	session.LocationID = loc.ID
	session.LocationName = ""

	saved, err := s.a.Store.AddSession(s.ctx, session)
	if err != nil {
		return models.Session{}, fmt.Errorf("failed to add session: %w", err)
	}
	s.location, s.created = loc, created
	return saved, nil
}

// addFormPrefill maps parsed values onto the add form's fields
func addFormPrefill(parsed parser.ParsedSession, notes string) map[string]string {
	prefilled := map[string]string{
		"location": parsed.Location,
		"game":     parsed.Game,
		"stakes":   parsed.Stakes,
		"notes":    notes,
	}
	if parsed.Profit != nil {
		prefilled["profit"] = fmt.Sprintf("%+d", *parsed.Profit)
	}
	if parsed.Duration > 0 {
		prefilled["duration"] = format.Duration(int(parsed.Duration.Hours()), int(parsed.Duration.Minutes())%60)
	}
	if parsed.Date != nil {
		prefilled["date"] = parsed.Date.Format("02/01/2006")
	}
	for key, n := range map[string]int{"buyin": parsed.BuyIn, "entrants": parsed.Entrants, "expenses": parsed.Expenses} {
		if n > 0 {
			prefilled[key] = strconv.Itoa(n)
		}
	}
	return prefilled
}

// addFlagsChanged reports whether any of add's own flags were given
func addFlagsChanged(cmd *cobra.Command) bool {
	changed := false
	cmd.LocalNonPersistentFlags().VisitAll(func(f *pflag.Flag) {
		changed = changed || f.Changed
	})
	return changed
}

func printAdded(out io.Writer, session models.Session, loc models.Location, created bool, currency string) {
	if created {
		fmt.Fprintf(out, "📍 Created location: %s\n", loc.Name)
	}
	hours, mins := session.HourMinute()
	fmt.Fprintf(out, "Added session %s: %s at %s\n", shortID(session.ID), format.SignedCurrency(session.Profit, currency), loc.Name)
	fmt.Fprintf(out, "  Game: %s", session.Game)
	if session.IsTournament {
		fmt.Fprintf(out, " (buy-in %s", format.Currency(session.BuyIn, currency))
		if session.Entrants > 0 {
			fmt.Fprintf(out, ", %d entrants", session.Entrants)
		}
		fmt.Fprint(out, ")")
	} else {
		fmt.Fprintf(out, " %s", session.Stakes)
	}
	fmt.Fprintf(out, "\n  Played: %s on %s\n", format.Duration(hours, mins), parser.FormatSessionDate(session.Date, now()))
	if session.Expenses > 0 {
		fmt.Fprintf(out, "  Expenses: %s\n", format.Currency(session.Expenses, currency))
	}
}

// applyAddFlags overrides parsed values with explicit flags (flags take precedence)
func applyAddFlags(cmd *cobra.Command, parsed *parser.ParsedSession) error {
	flags := cmd.Flags()

	if v, _ := flags.GetString("location"); v != "" {
		parsed.Location = v
	}
	if v, _ := flags.GetString("game"); v != "" {
		parsed.Game = v
	}
	if v, _ := flags.GetString("stakes"); v != "" {
		parsed.Stakes = v
	}
	if flags.Changed("profit") {
		v, _ := flags.GetInt("profit")
		parsed.Profit = &v
	}
	if v, _ := flags.GetString("duration"); v != "" {
		d, err := export.ParseDuration(v)
		if err != nil {
			return err
		}
		parsed.Duration = d
	}
	if v, _ := flags.GetString("date"); v != "" {
		d, err := parser.ParseSessionDate(v, now())
		if err != nil {
			return fmt.Errorf("invalid date '%s': %w", v, err)
		}
		parsed.Date = &d
	}
	if flags.Changed("expenses") {
		parsed.Expenses, _ = flags.GetInt("expenses")
	}
	if flags.Changed("buyin") {
		parsed.BuyIn, _ = flags.GetInt("buyin")
	}
	if flags.Changed("entrants") {
		parsed.Entrants, _ = flags.GetInt("entrants")
	}
	return nil
}

// sessionTimes works out start and end. With a start clock the session
// begins then on the session day; otherwise a session dated today ends now
// and older ones start at midnight.
func sessionTimes(parsed parser.ParsedSession, startClock string) (start, end time.Time, err error) {
	current := now()
	day := time.Date(current.Year(), current.Month(), current.Day(), 0, 0, 0, 0, current.Location())
	if parsed.Date != nil {
		day = *parsed.Date
	}

	switch {
	case startClock != "":
		m := clockRegex.FindStringSubmatch(startClock)
		if m == nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid start time '%s', use HH:MM", startClock)
		}
		h, _ := strconv.Atoi(m[1])
		minute, _ := strconv.Atoi(m[2])
		if h > 23 || minute > 59 {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid start time '%s', use HH:MM", startClock)
		}
		start = day.Add(time.Duration(h)*time.Hour + time.Duration(minute)*time.Minute)
		end = start.Add(parsed.Duration)
	case parsed.Date == nil:
		end = current.Truncate(time.Minute)
		start = end.Add(-parsed.Duration)
	default:
		start = day
		end = day.Add(parsed.Duration)
	}
	return start, end, nil
}

func init() {
	addCmd.Flags().StringP("location", "l", "", "Location name")
	addCmd.Flags().StringP("game", "g", "", "Game, e.g. NL Texas Hold Em")
	addCmd.Flags().StringP("stakes", "s", "", "Stakes for cash games, e.g. 1/3")
	addCmd.Flags().IntP("profit", "p", 0, "Profit, negative for a loss")
	addCmd.Flags().StringP("duration", "d", "", "Time played: 4h30m, 90m")
	addCmd.Flags().String("date", "", "Date played: dd/mm/yyyy, yesterday, 3 days ago")
	addCmd.Flags().String("start", "", "Start time HH:MM")
	addCmd.Flags().Int("expenses", 0, "Expenses")
	addCmd.Flags().Int("buyin", 0, "Tournament buy-in")
	addCmd.Flags().Int("entrants", 0, "Tournament entrants")
	addCmd.Flags().StringP("notes", "n", "", "Notes")
	addCmd.Flags().Bool("no-ui", false, "Never open the interactive form; fail on incomplete entries")
}
