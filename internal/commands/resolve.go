package commands

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"

	"github.com/balkashynov/bankroll/internal/metrics"
	"github.com/balkashynov/bankroll/internal/models"
	"github.com/balkashynov/bankroll/internal/store"
)

// resolveLocation finds a location by exact name, then by unique prefix.
// Unknown names are created when create is set.
func resolveLocation(ctx context.Context, st *store.Store, name string, create bool) (loc models.Location, created bool, err error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return models.Location{}, false, models.ErrMissingLocation
	}
	if loc, ok := st.LocationByName(name); ok {
		return loc, false, nil
	}

	var matches []models.Location
	for _, l := range st.Locations() {
		if strings.HasPrefix(strings.ToLower(l.Name), strings.ToLower(name)) {
			matches = append(matches, l)
		}
	}
	switch {
	case len(matches) == 1:
		return matches[0], false, nil
	case len(matches) > 1:
		names := make([]string, len(matches))
		for i, m := range matches {
			names[i] = m.Name
		}
		return models.Location{}, false, fmt.Errorf("location '%s' is ambiguous: %s", name, strings.Join(names, ", "))
	case !create:
		return models.Location{}, false, fmt.Errorf("unknown location '%s'. Use 'bankroll loc add' first", name)
	}

	loc, err = st.AddLocation(ctx, models.Location{Name: name})
	if err != nil {
		return models.Location{}, false, err
	}
	return loc, true, nil
}

// resolveSessionID accepts a full id or a unique prefix of at least 4 characters
func resolveSessionID(st *store.Store, idOrPrefix string) (models.Session, error) {
	if s, ok := st.Session(idOrPrefix); ok {
		return s, nil
	}
	if len(idOrPrefix) < 4 {
		return models.Session{}, fmt.Errorf("session '%s' not found", idOrPrefix)
	}

	var found []models.Session
	for _, s := range st.Sessions() {
		if strings.HasPrefix(s.ID, idOrPrefix) {
			found = append(found, s)
		}
	}
	switch len(found) {
	case 0:
		return models.Session{}, fmt.Errorf("session '%s' not found", idOrPrefix)
	case 1:
		return found[0], nil
	default:
		return models.Session{}, fmt.Errorf("session id '%s' matches %d sessions, use more characters", idOrPrefix, len(found))
	}
}

// shortID is the id prefix shown in tables
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// addFilterFlags registers the standard session filter flags
func addFilterFlags(cmd *cobra.Command) {
	cmd.Flags().IntP("year", "y", 0, "Only sessions played in this year")
	cmd.Flags().StringP("location", "l", "", "Only sessions at this location")
	cmd.Flags().StringP("stakes", "s", "", "Only sessions at these stakes, e.g. 1/3")
	cmd.Flags().StringP("game", "g", "", "Only sessions of this game")
	cmd.Flags().StringP("kind", "k", "all", "Session kind: all, cash, or tournament")
}

// filterFromFlags builds a metrics filter from the standard flags
func filterFromFlags(cmd *cobra.Command, st *store.Store) (metrics.Filter, error) {
	var f metrics.Filter
	var err error

	f.Year, _ = cmd.Flags().GetInt("year")
	f.Stakes, _ = cmd.Flags().GetString("stakes")
	f.Game, _ = cmd.Flags().GetString("game")

	kind, _ := cmd.Flags().GetString("kind")
	if f.Kind, err = metrics.ParseKind(kind); err != nil {
		return metrics.Filter{}, err
	}

	if name, _ := cmd.Flags().GetString("location"); name != "" {
		loc, _, err := resolveLocation(cmd.Context(), st, name, false)
		if err != nil {
			return metrics.Filter{}, err
		}
		f.LocationID = loc.ID
	}
	return f, nil
}

// locationNamer resolves session venues against the store's locations
func locationNamer(st *store.Store) func(models.Session) string {
	locations := st.Locations()
	return func(s models.Session) string {
		return metrics.ResolveLocation(s, locations).Name
	}
}

// truncate cuts s to width terminal cells, adding an ellipsis
func truncate(s string, width int) string {
	if width <= 3 {
		return runewidth.Truncate(s, width, "")
	}
	return runewidth.Truncate(s, width, "...")
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
