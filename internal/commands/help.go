package commands

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

var helpCmd = &cobra.Command{
	Use:   "help",
	Short: "Show comprehensive help for bankroll",
	Long:  `Display detailed help for all bankroll commands and flags.`,
	Run: func(cmd *cobra.Command, args []string) {
		showCustomHelp(cmd.OutOrStdout())
	},
}

func showCustomHelp(w io.Writer) {
	fmt.Fprint(w, `
bankroll - poker session and bankroll tracker

SESSIONS:

  add [entry]             Record a finished session
    -l, --location        Venue (created when unknown)
    -g, --game            Game name
    -s, --stakes          Cash game stakes, e.g. 1/3
    -p, --profit          Signed profit or loss
    -d, --duration        Time played: 4h30m, 90m
    --date                dd/mm/yyyy, yyyy-mm-dd, today, yesterday, 3d
    --start               Start clock time HH:MM
    --expenses            Tips, food, travel
    --buyin               Tournament buy-in (makes it a tournament)
    --entrants            Tournament field size
    -n, --notes           Notes

    Quick-entry syntax:
      @location     Venue
      1/3           Stakes
      +350 / -120   Profit or loss
      4h30m         Duration
      exp:20        Expenses
      buyin:150     Tournament buy-in
      entrants:88   Field size
      on:yesterday  Date played

    Example:
      bankroll add "NL Hold Em @Encore 1/3 +350 4h30m exp:20"

  edit <id>               Change a recorded session (same flags as add)
  rm <id>...              Delete sessions
  ls                      List sessions, most recent first
    --search              Match game, notes, stakes or venue
    -n, --limit           Show at most N sessions
    --json                JSON output

LIVE:

  start                   Start the live clock
    --buyin, --stakes, --location, --tournament, --no-ui
  rebuy <amount>          Add a rebuy
  stop <cash-out>         Cash out and record the session
  status                  Show the running session

    Live clock keys:
      r             Rebuy
      s             Stop and cash out
      esc/q         Leave the clock running in the background

STATS:

  stats                   Bankroll, hourly, win rate, ROI and more
  breakdown --by X        Compare stakes, location or game
  days                    Profit by weekday
  chart                   Bankroll over time (--json for points)
  report --year YYYY      Income report (premium)
  dash                    Interactive dashboard

  Filter flags for stats, breakdown, days, chart, report, export and ls:
    -y, --year            Year played
    -l, --location        Venue
    -s, --stakes          Stakes
    -g, --game            Game
    -k, --kind            all, cash, or tournament

DATA:

  loc ls|add|rm|merge-defaults   Manage locations
  tx add|ls|rm                   Deposits and withdrawals
  export [--out file]            CSV export (premium)
  import <file.csv>              CSV import
  widget [refresh]               Inspect or republish the widget snapshot
  version                        Version information

ENVIRONMENT:

  BANKROLL_DATA_DIR       Data directory (default ~/.bankroll)
  BANKROLL_BACKEND        json or sqlite
  BANKROLL_CURRENCY       Display currency, ISO code
  BANKROLL_WIDGET         Publish the widget snapshot (default true)
  BANKROLL_SHARED_STORE   Widget store path
  BANKROLL_PREMIUM        Unlock premium commands
  BANKROLL_LOG_LEVEL      debug, info, warn, error

`)
}
