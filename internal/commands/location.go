package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/balkashynov/bankroll/internal/app"
	"github.com/balkashynov/bankroll/internal/metrics"
	"github.com/balkashynov/bankroll/internal/models"
)

var locationCmd = &cobra.Command{
	Use:     "loc",
	Aliases: []string{"location", "locations"},
	Short:   "Manage locations",
}

var locationListCmd = &cobra.Command{
	Use:     "ls",
	Aliases: []string{"list"},
	Short:   "List locations with session counts",
	RunE:    withApp(runLocationList),
}

var locationAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Add a location",
	Args:  cobra.MinimumNArgs(1),
	RunE:  withApp(runLocationAdd),
}

var locationRemoveCmd = &cobra.Command{
	Use:     "rm <name>",
	Aliases: []string{"delete"},
	Short:   "Remove a location",
	Long: `Remove a location. Sessions played there are kept and show up as an
unknown location afterwards.`,
	Args: cobra.MinimumNArgs(1),
	RunE: withApp(runLocationRemove),
}

var locationMergeCmd = &cobra.Command{
	Use:   "merge-defaults",
	Short: "Add any missing built-in locations",
	RunE:  withApp(runLocationMerge),
}

func runLocationList(cmd *cobra.Command, args []string, a *app.App) error {
	locations := a.Store.Locations()
	out := cmd.OutOrStdout()
	if len(locations) == 0 {
		fmt.Fprintln(out, "No locations yet. Add one with 'bankroll loc add <name>'.")
		return nil
	}

	sessions := a.Store.Sessions()
	fmt.Fprintf(out, "%-10s %-32s %s\n", "ID", "NAME", "SESSIONS")
	fmt.Fprintln(out, strings.Repeat("-", 52))
	for _, l := range locations {
		fmt.Fprintf(out, "%-10s %-32s %d\n", shortID(l.ID), truncate(l.Name, 32), metrics.LocationSessionCount(sessions, l.ID))
	}
	return nil
}

func runLocationAdd(cmd *cobra.Command, args []string, a *app.App) error {
	name := strings.TrimSpace(strings.Join(args, " "))
	if existing, ok := a.Store.LocationByName(name); ok {
		return fmt.Errorf("location '%s' already exists", existing.Name)
	}
	loc, err := a.Store.AddLocation(cmd.Context(), models.Location{Name: name})
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "📍 Added location %s (%s)\n", loc.Name, shortID(loc.ID))
	return nil
}

func runLocationRemove(cmd *cobra.Command, args []string, a *app.App) error {
	loc, _, err := resolveLocation(cmd.Context(), a.Store, strings.Join(args, " "), false)
	if err != nil {
		return err
	}
	count := metrics.LocationSessionCount(a.Store.Sessions(), loc.ID)
	if _, err := a.Store.DeleteLocation(cmd.Context(), loc.ID); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "🗑️  Removed location %s\n", loc.Name)
	if count > 0 {
		fmt.Fprintf(cmd.OutOrStdout(), "   %d sessions still reference it\n", count)
	}
	return nil
}

func runLocationMerge(cmd *cobra.Command, args []string, a *app.App) error {
	added, err := a.Store.MergeDefaultLocations(cmd.Context())
	if err != nil {
		return err
	}
	if added == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "All built-in locations are already present.")
		return nil
	}
	fmt.Fprintf(cmd.OutOrStdout(), "📍 Added %d built-in locations\n", added)
	return nil
}

func init() {
	locationCmd.AddCommand(locationListCmd)
	locationCmd.AddCommand(locationAddCmd)
	locationCmd.AddCommand(locationRemoveCmd)
	locationCmd.AddCommand(locationMergeCmd)
}
