package tui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/balkashynov/bankroll/internal/format"
	"github.com/balkashynov/bankroll/internal/models"
)

// RunDashboardTUI starts the interactive dashboard
func RunDashboardTUI(sessions []models.Session, locations []models.Location, currency string) error {
	p := tea.NewProgram(NewDashboardModel(sessions, locations, currency), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

// RunLiveTUI runs the live session clock until the player cashes out or leaves
func RunLiveTUI(live models.LiveSession, locationName, currency string, ctrl LiveController) error {
	p := tea.NewProgram(NewLiveModel(live, locationName, currency, ctrl), tea.WithAltScreen())

	finalModel, err := p.Run()
	if err != nil {
		return err
	}

	m := finalModel.(LiveModel)
	if s := m.Finished(); s != nil {
		hours, mins := s.HourMinute()
		fmt.Printf("⏹️  Session saved: %s over %s\n", format.SignedCurrency(s.Profit, currency), format.Duration(hours, mins))
	} else if m.exiting {
		fmt.Printf("\n💡 Session is still running at %s.\n", locationName)
		fmt.Printf("   Use 'bankroll status' to check it or 'bankroll stop <cash-out>' to finish it.\n")
	}
	return nil
}

// RunAddSessionTUI runs the add form and returns the stored session, or nil
// when the form was left without saving
func RunAddSessionTUI(prefilled map[string]string, currency string, saver SessionSaver) (*models.Session, error) {
	p := tea.NewProgram(NewAddSessionModel(prefilled, currency, saver), tea.WithAltScreen())

	finalModel, err := p.Run()
	if err != nil {
		return nil, err
	}

	m := finalModel.(AddSessionModel)
	if m.Cancelled() {
		fmt.Println("Session not saved.")
	}
	return m.Saved(), nil
}
