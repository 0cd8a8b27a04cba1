package commands

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/balkashynov/bankroll/internal/app"
	"github.com/balkashynov/bankroll/internal/format"
	"github.com/balkashynov/bankroll/internal/metrics"
	"github.com/balkashynov/bankroll/internal/models"
	"github.com/balkashynov/bankroll/internal/tui"
)

var errNoLiveSession = errors.New("no session in progress. Start one with 'bankroll start'")

var startCmd = &cobra.Command{
	Use:   "start [quick entry]",
	Short: "Start a live session",
	Long: `Start the clock on a session you are playing now. The session survives
closing the terminal; finish it with 'bankroll stop <cash-out>'.

Examples:
  bankroll start --location Encore --stakes 1/3 --buyin 300
  bankroll start --location Foxwoods --game "Deepstack" --tournament --buyin 150
  bankroll start --location Encore --stakes 2/5 --buyin 1000 --no-ui`,
	RunE: withApp(runStart),
}

var rebuyCmd = &cobra.Command{
	Use:   "rebuy <amount>",
	Short: "Add a rebuy to the live session",
	Args:  cobra.ExactArgs(1),
	RunE:  withApp(runRebuy),
}

var stopCmd = &cobra.Command{
	Use:   "stop <cash-out>",
	Short: "Cash out and record the live session",
	Args:  cobra.ExactArgs(1),
	RunE:  withApp(runStop),
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the live session",
	RunE:  withApp(runStatus),
}

// liveController applies live session actions through the app
type liveController struct {
	ctx context.Context
	a   *app.App
}

// Rebuy records another buy-in on the running session
func (c liveController) Rebuy(amount int) (models.LiveSession, error) {
	live, err := c.load()
	if err != nil {
		return models.LiveSession{}, err
	}
	if amount <= 0 {
		return models.LiveSession{}, models.ErrInvalidAmount
	}
	live.BuyIns = append(live.BuyIns, amount)
	if err := c.a.Live.Save(live); err != nil {
		return models.LiveSession{}, err
	}
	c.a.Log.WithComponent("commands").Info("rebuy", "amount", amount, "total", live.TotalBuyIn())
	return live, nil
}

// Stop turns the running session into a stored one and clears it
func (c liveController) Stop(cashOut int) (models.Session, error) {
	live, err := c.load()
	if err != nil {
		return models.Session{}, err
	}
	if cashOut < 0 {
		return models.Session{}, fmt.Errorf("cash-out cannot be negative")
	}
	session, err := live.Finish("", cashOut, now())
	if err != nil {
		return models.Session{}, err
	}
	session, err = c.a.Store.AddSession(c.ctx, session)
	if err != nil {
		return models.Session{}, err
	}
	if err := c.a.Live.Clear(); err != nil {
		return session, err
	}
	return session, nil
}

func (c liveController) load() (models.LiveSession, error) {
	live, err := c.a.Live.Load()
	if err != nil {
		return models.LiveSession{}, err
	}
	if live == nil {
		return models.LiveSession{}, errNoLiveSession
	}
	return *live, nil
}

func runStart(cmd *cobra.Command, args []string, a *app.App) error {
	if existing, err := a.Live.Load(); err != nil {
		return err
	} else if existing != nil {
		return fmt.Errorf("a session is already running since %s. Stop it first", existing.StartedAt.Format("15:04"))
	}

	locationName, _ := cmd.Flags().GetString("location")
	game, _ := cmd.Flags().GetString("game")
	stakes, _ := cmd.Flags().GetString("stakes")
	buyIn, _ := cmd.Flags().GetInt("buyin")
	tournament, _ := cmd.Flags().GetBool("tournament")
	if len(args) > 0 && game == "" {
		game = strings.Join(args, " ")
	}
	if game == "" {
		game = "NL Hold Em"
	}
	if buyIn <= 0 {
		return models.ErrNoBuyIn
	}
	if !tournament && strings.TrimSpace(stakes) == "" {
		return models.ErrMissingStakes
	}

	loc, _, err := resolveLocation(cmd.Context(), a.Store, locationName, true)
	if err != nil {
		return err
	}

	live := models.LiveSession{
		LocationID:   loc.ID,
		Game:         game,
		Stakes:       stakes,
		IsTournament: tournament,
		StartedAt:    now(),
		BuyIns:       []int{buyIn},
	}
	if err := a.Live.Save(live); err != nil {
		return err
	}

	if noUI, _ := cmd.Flags().GetBool("no-ui"); noUI {
		fmt.Fprintf(cmd.OutOrStdout(), "▶️  Started %s at %s for %s\n", game, loc.Name, format.Currency(buyIn, a.Config.Currency))
		return nil
	}
	return tui.RunLiveTUI(live, loc.Name, a.Config.Currency, liveController{ctx: cmd.Context(), a: a})
}

func runRebuy(cmd *cobra.Command, args []string, a *app.App) error {
	amount, err := parseAmount(args[0])
	if err != nil {
		return err
	}
	live, err := liveController{ctx: cmd.Context(), a: a}.Rebuy(amount)
	if err != nil {
		return err
	}
	cur := a.Config.Currency
	fmt.Fprintf(cmd.OutOrStdout(), "🔁 Rebuy %s, total in %s\n", format.Currency(amount, cur), format.Currency(live.TotalBuyIn(), cur))
	return nil
}

func runStop(cmd *cobra.Command, args []string, a *app.App) error {
	cashOut, err := parseAmount(args[0])
	if err != nil {
		return err
	}
	session, err := liveController{ctx: cmd.Context(), a: a}.Stop(cashOut)
	if err != nil {
		return err
	}
	hours, mins := session.HourMinute()
	fmt.Fprintf(cmd.OutOrStdout(), "⏹️  Session saved: %s over %s (%s)\n",
		format.SignedCurrency(session.Profit, a.Config.Currency), format.Duration(hours, mins), shortID(session.ID))
	return nil
}

func runStatus(cmd *cobra.Command, args []string, a *app.App) error {
	live, err := a.Live.Load()
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if live == nil {
		fmt.Fprintln(out, "No session in progress.")
		return nil
	}

	loc, ok := a.Store.Location(live.LocationID)
	if !ok {
		loc = metrics.ResolveLocation(models.Session{LocationID: live.LocationID}, a.Store.Locations())
	}
	elapsed := now().Sub(live.StartedAt)
	cur := a.Config.Currency

	fmt.Fprintf(out, "🟢 %s at %s\n", live.Game, loc.Name)
	if live.IsTournament {
		fmt.Fprintln(out, "   Tournament")
	} else {
		fmt.Fprintf(out, "   Stakes:  %s\n", live.Stakes)
	}
	fmt.Fprintf(out, "   Started: %s (%s ago)\n", live.StartedAt.Format("15:04"), format.Duration(int(elapsed.Hours()), int(elapsed.Minutes())%60))
	fmt.Fprintf(out, "   Buy-in:  %s", format.Currency(live.TotalBuyIn(), cur))
	if n := live.Rebuys(); n > 0 {
		fmt.Fprintf(out, " (%d rebuys)", n)
	}
	fmt.Fprintln(out)
	return nil
}

// parseAmount reads a whole, non-negative currency amount
func parseAmount(raw string) (int, error) {
	amount, err := strconv.Atoi(strings.TrimPrefix(strings.TrimSpace(raw), "$"))
	if err != nil || amount < 0 {
		return 0, fmt.Errorf("invalid amount '%s'", raw)
	}
	return amount, nil
}

func init() {
	startCmd.Flags().StringP("location", "l", "", "Venue")
	startCmd.Flags().StringP("game", "g", "", "Game (default NL Hold Em)")
	startCmd.Flags().StringP("stakes", "s", "", "Stakes, e.g. 1/3")
	startCmd.Flags().IntP("buyin", "b", 0, "Initial buy-in")
	startCmd.Flags().BoolP("tournament", "t", false, "Tournament instead of a cash game")
	startCmd.Flags().Bool("no-ui", false, "Don't open the live clock")
}
