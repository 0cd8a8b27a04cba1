package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/balkashynov/bankroll/internal/app"
	"github.com/balkashynov/bankroll/internal/format"
	"github.com/balkashynov/bankroll/internal/metrics"
	"github.com/balkashynov/bankroll/internal/widget"
)

var errWidgetDisabled = errors.New("widget is disabled (BANKROLL_WIDGET=false) or its store could not be opened")

var widgetCmd = &cobra.Command{
	Use:   "widget",
	Short: "Show what the home screen widget displays",
	RunE:  withApp(runWidget),
}

var widgetRefreshCmd = &cobra.Command{
	Use:   "refresh",
	Short: "Republish the widget snapshot now",
	RunE:  withApp(runWidgetRefresh),
}

func runWidget(cmd *cobra.Command, args []string, a *app.App) error {
	if a.Shared == nil {
		return errWidgetDisabled
	}
	values, err := a.Shared.All(cmd.Context())
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if len(values) == 0 {
		fmt.Fprintln(out, "Nothing published yet. Run 'bankroll widget refresh'.")
		return nil
	}
	snap, err := widget.Parse(values)
	if err != nil {
		return fmt.Errorf("widget store is unreadable: %w", err)
	}

	cur := a.Config.Currency
	fmt.Fprintf(out, "Bankroll      %s\n", format.Currency(snap.Bankroll, cur))
	fmt.Fprintf(out, "Last session  %s\n", format.SignedCurrency(snap.LastSession, cur))
	fmt.Fprintf(out, "Hourly        %s/hr\n", format.Currency(snap.Hourly, cur))
	fmt.Fprintf(out, "Sessions      %d\n", snap.TotalSessions)
	if len(snap.Chart) > 0 {
		fmt.Fprintf(out, "Chart         %s\n", format.Sparkline(metrics.Values(snap.Chart), 40))
	}
	if !snap.UpdatedAt.IsZero() {
		fmt.Fprintf(out, "Updated       %s\n", snap.UpdatedAt.Local().Format("02/01/2006 15:04"))
	}
	return nil
}

func runWidgetRefresh(cmd *cobra.Command, args []string, a *app.App) error {
	if a.Widget == nil {
		return errWidgetDisabled
	}
	if err := a.Widget.Refresh(); err != nil {
		return fmt.Errorf("failed to publish widget: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), "🔄 Widget updated")
	return nil
}

func init() {
	widgetCmd.AddCommand(widgetRefreshCmd)
}
