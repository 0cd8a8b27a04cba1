package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/balkashynov/bankroll/internal/format"
	"github.com/balkashynov/bankroll/internal/metrics"
	"github.com/balkashynov/bankroll/internal/models"
)

// DashboardModel shows the headline metrics for a filtered session set
type DashboardModel struct {
	width  int
	height int

	// Data
	sessions  []models.Session // most recent first
	locations []models.Location
	currency  string

	// Filter state
	kind    metrics.Kind
	years   []int // most recent first
	yearIdx int   // 0 means all years, otherwise years[yearIdx-1]

	// Session list
	list  viewport.Model
	ready bool
}

// NewDashboardModel creates a dashboard over a store snapshot
func NewDashboardModel(sessions []models.Session, locations []models.Location, currency string) DashboardModel {
	return DashboardModel{
		sessions:  sessions,
		locations: locations,
		currency:  currency,
		years:     metrics.Years(sessions),
	}
}

// Init initializes the model
func (m DashboardModel) Init() tea.Cmd {
	return nil
}

// Filter returns the filter currently applied
func (m DashboardModel) Filter() metrics.Filter {
	f := metrics.Filter{Kind: m.kind}
	if m.yearIdx > 0 {
		f.Year = m.years[m.yearIdx-1]
	}
	return f
}

func (m DashboardModel) filtered() []models.Session {
	return m.Filter().Apply(m.sessions)
}

// Update handles messages
func (m DashboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		// Height - header(2) - cards(5) - charts(11) - help(1) = list height
		listHeight := max(m.height-19, 3)
		if !m.ready {
			m.list = viewport.New(m.width-4, listHeight)
			m.ready = true
		} else {
			m.list.Width = m.width - 4
			m.list.Height = listHeight
		}
		m.list.SetContent(m.renderSessionRows())
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			return m, tea.Quit

		case "tab":
			// all → cash → tournaments → all
			m.kind = (m.kind + 1) % 3
			m.refreshList()
			return m, nil

		case "y":
			m.yearIdx = (m.yearIdx + 1) % (len(m.years) + 1)
			m.refreshList()
			return m, nil
		}
	}

	if m.ready {
		var cmd tea.Cmd
		m.list, cmd = m.list.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *DashboardModel) refreshList() {
	if m.ready {
		m.list.SetContent(m.renderSessionRows())
		m.list.GotoTop()
	}
}

// View renders the dashboard
func (m DashboardModel) View() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	sessions := m.filtered()

	sections := []string{
		m.renderHeader(),
		m.renderCards(sessions),
		lipgloss.JoinHorizontal(
			lipgloss.Top,
			m.renderWeekdays(sessions, m.width/2-1),
			" ",
			m.renderTrend(sessions, m.width-m.width/2-1),
		),
	}
	if m.ready {
		sections = append(sections, lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(ColorBorder)).
			Render(m.list.View()))
	}
	sections = append(sections, m.renderHelpBar())

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// renderHeader renders the title and the active filter
func (m DashboardModel) renderHeader() string {
	titleStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorAccentMain)).
		Bold(true)
	filterStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorSecondaryText)).
		Italic(true)

	year := "all years"
	if f := m.Filter(); f.Year != 0 {
		year = fmt.Sprint(f.Year)
	}
	return titleStyle.Render("♠ BANKROLL") + "  " + filterStyle.Render(fmt.Sprintf("%s · %s", m.kind, year)) + "\n"
}

// renderCards renders the metric tiles
func (m DashboardModel) renderCards(sessions []models.Session) string {
	bankroll := metrics.TotalBankroll(sessions)
	hourly := metrics.HourlyRate(sessions)
	best := metrics.BestLocation(sessions, m.locations, 0)

	cards := []string{
		m.renderCard("Bankroll", format.Currency(bankroll, m.currency), moneyColor(bankroll)),
		m.renderCard("Hourly", format.Currency(hourly, m.currency)+"/hr", moneyColor(hourly)),
		m.renderCard("Win rate", metrics.WinRate(sessions), ColorPrimaryText),
		m.renderCard("Sessions", fmt.Sprint(len(sessions)), ColorPrimaryText),
	}
	if m.kind == metrics.KindTournament {
		roi := "N/A"
		if ratio, ok := metrics.ROIRatio(sessions); ok {
			roi = format.Percent(ratio)
		}
		cards = append(cards, m.renderCard("ROI", roi, ColorPrimaryText))
	} else {
		cards = append(cards, m.renderCard("Best location", best.Name, ColorAccentBright))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cards...)
}

func (m DashboardModel) renderCard(label, value, color string) string {
	width := max(m.width/5-2, 14)

	labelStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(ColorSecondaryText))
	valueStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(color)).Bold(true)
	value = runewidth.Truncate(value, width-2, "...")

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(ColorBorder)).
		Width(width).
		Padding(0, 1).
		Render(labelStyle.Render(label) + "\n" + valueStyle.Render(value))
}

// renderWeekdays renders a horizontal bar per weekday
func (m DashboardModel) renderWeekdays(sessions []models.Session, width int) string {
	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(ColorAccentBright)).Render("By weekday"))
	b.WriteString("\n")

	days := metrics.DailyTotals(sessions)
	maxAbs := 0
	for _, d := range days {
		maxAbs = max(maxAbs, abs(d.Profit))
	}

	barWidth := max(width-20, 5)
	for _, d := range days {
		n := 0
		if maxAbs > 0 {
			n = abs(d.Profit) * barWidth / maxAbs
		}
		bar := lipgloss.NewStyle().Foreground(lipgloss.Color(moneyColor(d.Profit))).Render(strings.Repeat("█", n))
		b.WriteString(fmt.Sprintf("%-3s %s%s %s\n", d.Label, bar, strings.Repeat(" ", barWidth-n), format.Currency(d.Profit, m.currency)))
	}

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(ColorBorder)).
		Width(width).
		Render(strings.TrimRight(b.String(), "\n"))
}

// renderTrend renders the cumulative bankroll sparkline
func (m DashboardModel) renderTrend(sessions []models.Session, width int) string {
	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(ColorAccentBright)).Render("Bankroll trend"))
	b.WriteString("\n\n")

	if len(sessions) == 0 {
		b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(ColorDisabledText)).Italic(true).Render("No sessions yet"))
	} else {
		points := metrics.ChartCoordinates(sessions)
		line := format.Sparkline(metrics.Values(points), width-4)
		b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(ColorAccentBright)).Render(line))
		b.WriteString("\n\n")

		hours, mins := metrics.TotalPlayed(sessions)
		b.WriteString(fmt.Sprintf("Played %s · best session %s",
			format.Duration(hours, mins),
			format.Currency(metrics.BestSession(sessions), m.currency)))
	}

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(ColorBorder)).
		Width(width).
		Height(9).
		Render(b.String())
}

// renderSessionRows renders the scrollable session list
func (m DashboardModel) renderSessionRows() string {
	sessions := m.filtered()
	if len(sessions) == 0 {
		return lipgloss.NewStyle().Foreground(lipgloss.Color(ColorDisabledText)).Italic(true).Render("No sessions match this filter")
	}

	headerStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(ColorAccentBright))

	var b strings.Builder
	b.WriteString(headerStyle.Render(fmt.Sprintf("%-10s %-24s %-18s %-8s %-8s %10s", "DATE", "LOCATION", "GAME", "STAKES", "TIME", "PROFIT")))
	b.WriteString("\n")
	for _, s := range sessions {
		location := runewidth.Truncate(metrics.ResolveLocation(s, m.locations).Name, 23, "...")
		game := runewidth.Truncate(s.Game, 17, "...")
		stakes := s.Stakes
		if s.IsTournament {
			stakes = "MTT"
		}
		hours, mins := s.HourMinute()
		profit := fmt.Sprintf("%10s", format.SignedCurrency(s.Profit, m.currency))

		b.WriteString(fmt.Sprintf("%-10s %-24s %-18s %-8s %-8s ",
			s.Date.Format("02/01/2006"), location, game, stakes, format.Duration(hours, mins)))
		b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(moneyColor(s.Profit))).Render(profit))
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

// renderHelpBar renders the help bar at the bottom
func (m DashboardModel) renderHelpBar() string {
	helpStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorHelpText)).
		Italic(true).
		Align(lipgloss.Center).
		Width(m.width)

	return helpStyle.Render("tab cash/tournaments · y year · ↑/↓ scroll · q quit")
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
