package commands

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/balkashynov/bankroll/internal/app"
	"github.com/balkashynov/bankroll/internal/export"
	"github.com/balkashynov/bankroll/internal/models"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export sessions to CSV (premium)",
	Long: `Write sessions as CSV with the columns
Location, Game, Stakes, Date, Profit, Notes, Duration, Expenses.

Examples:
  bankroll export > sessions.csv
  bankroll export --year 2024 --out 2024.csv`,
	RunE: withApp(requirePremium(runExport)),
}

var importCmd = &cobra.Command{
	Use:   "import <file.csv>",
	Short: "Import sessions from CSV",
	Long: `Import sessions from a CSV file with at least Location, Game, Date and
Profit columns. Unknown venues are created. Nothing is imported when any
row is invalid.`,
	Args: cobra.ExactArgs(1),
	RunE: withApp(runImport),
}

func runExport(cmd *cobra.Command, args []string, a *app.App) (err error) {
	filter, err := filterFromFlags(cmd, a.Store)
	if err != nil {
		return err
	}
	sessions := a.Store.SessionsFiltered(filter)

	var w io.Writer = cmd.OutOrStdout()
	path, _ := cmd.Flags().GetString("out")
	if path != "" {
		f, createErr := os.Create(path)
		if createErr != nil {
			return fmt.Errorf("failed to create %s: %w", path, createErr)
		}
		defer func() {
			if closeErr := f.Close(); closeErr != nil && err == nil {
				err = closeErr
			}
		}()
		w = f
	}

	if err := export.WriteCSV(w, sessions, locationNamer(a.Store)); err != nil {
		return fmt.Errorf("failed to export sessions: %w", err)
	}
	if path != "" {
		fmt.Fprintf(cmd.ErrOrStderr(), "📤 Exported %d sessions to %s\n", len(sessions), path)
	}
	return nil
}

func runImport(cmd *cobra.Command, args []string, a *app.App) error {
	f, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", args[0], err)
	}
	defer f.Close()

	sessions, err := export.ReadCSV(f, time.Local)
	if err != nil {
		var rowErr *export.RowError
		if errors.As(err, &rowErr) {
			return fmt.Errorf("%s: %w", args[0], rowErr)
		}
		return err
	}

	locations, err := importLocations(a.Store.Locations(), sessions)
	if err != nil {
		return err
	}
	if _, err := a.Store.Import(cmd.Context(), locations, sessions); err != nil {
		return fmt.Errorf("import failed, nothing was stored: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "📥 Imported %d sessions", len(sessions))
	if len(locations) > 0 {
		fmt.Fprintf(cmd.OutOrStdout(), ", added %d locations", len(locations))
	}
	fmt.Fprintln(cmd.OutOrStdout())
	return nil
}

// importLocations points every imported session at a venue by exact,
// case-insensitive name. Names with no match get one new location each.
func importLocations(known []models.Location, sessions []models.Session) ([]models.Location, error) {
	byName := make(map[string]string, len(known))
	for _, l := range known {
		key := strings.ToLower(strings.TrimSpace(l.Name))
		if _, ok := byName[key]; !ok {
			byName[key] = l.ID
		}
	}

	var created []models.Location
	for i := range sessions {
		name := strings.TrimSpace(sessions[i].LocationName)
		if name == "" {
			return nil, fmt.Errorf("row %d: %w", i+2, models.ErrMissingLocation)
		}
		key := strings.ToLower(name)
		id, ok := byName[key]
		if !ok {
			id = uuid.NewString()
			byName[key] = id
			created = append(created, models.Location{ID: id, Name: name})
		}
		sessions[i].LocationID = id
		sessions[i].LocationName = ""
	}
	return created, nil
}

func init() {
	addFilterFlags(exportCmd)
	exportCmd.Flags().StringP("out", "o", "", "Write to this file instead of stdout")
}
