package tui

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/balkashynov/bankroll/internal/format"
	"github.com/balkashynov/bankroll/internal/models"
)

// LiveController applies live session actions to persistent state
type LiveController interface {
	Rebuy(amount int) (models.LiveSession, error)
	Stop(cashOut int) (models.Session, error)
}

type inputMode int

const (
	inputNone inputMode = iota
	inputRebuy
	inputCashOut
)

// LiveModel represents the TUI model for a session in progress
type LiveModel struct {
	width  int
	height int

	live         models.LiveSession
	locationName string
	currency     string
	ctrl         LiveController
	now          func() time.Time

	// Timer state
	elapsed time.Duration

	// Amount entry
	mode  inputMode
	input textinput.Model
	err   error

	// Exit state
	finished *models.Session // set when the session was cashed out
	exiting  bool            // left without stopping
}

// liveTickMsg is sent every second to update the clock
type liveTickMsg struct{}

// NewLiveModel creates a live session TUI model
func NewLiveModel(live models.LiveSession, locationName, currency string, ctrl LiveController) LiveModel {
	input := textinput.New()
	input.CharLimit = 9
	input.Width = 12
	input.Prompt = format.Symbol(currency)

	return LiveModel{
		live:         live,
		locationName: locationName,
		currency:     currency,
		ctrl:         ctrl,
		now:          time.Now,
		elapsed:      time.Since(live.StartedAt),
		input:        input,
	}
}

// Init starts the clock
func (m LiveModel) Init() tea.Cmd {
	return liveTick()
}

func liveTick() tea.Cmd {
	return tea.Tick(time.Second, func(time.Time) tea.Msg {
		return liveTickMsg{}
	})
}

// Finished returns the recorded session once the player cashed out
func (m LiveModel) Finished() *models.Session {
	return m.finished
}

// Update handles messages
func (m LiveModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case liveTickMsg:
		m.elapsed = m.now().Sub(m.live.StartedAt)
		if m.finished == nil && !m.exiting {
			return m, liveTick()
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		if m.mode != inputNone {
			return m.handleInputKeys(msg)
		}

		switch msg.String() {
		case "r", "R":
			return m.startInput(inputRebuy, "rebuy amount")
		case "s", "S":
			return m.startInput(inputCashOut, "cash-out amount")
		case "ctrl+c", "esc", "q":
			// Exit without stopping
			m.exiting = true
			return m, tea.Quit
		}
	}

	return m, nil
}

func (m LiveModel) startInput(mode inputMode, placeholder string) (tea.Model, tea.Cmd) {
	m.mode = mode
	m.err = nil
	m.input.Placeholder = placeholder
	m.input.SetValue("")
	return m, m.input.Focus()
}

// handleInputKeys handles keys while an amount is being typed
func (m LiveModel) handleInputKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.mode = inputNone
		m.input.Blur()
		return m, nil

	case tea.KeyCtrlC:
		m.exiting = true
		return m, tea.Quit

	case tea.KeyEnter:
		amount, err := strconv.Atoi(strings.TrimSpace(m.input.Value()))
		if err != nil || amount < 0 {
			m.err = fmt.Errorf("enter a whole, non-negative amount")
			return m, nil
		}

		mode := m.mode
		m.mode = inputNone
		m.input.Blur()

		if mode == inputRebuy {
			live, err := m.ctrl.Rebuy(amount)
			if err != nil {
				m.err = err
				return m, nil
			}
			m.live = live
			return m, nil
		}

		session, err := m.ctrl.Stop(amount)
		if err != nil {
			m.err = err
			return m, nil
		}
		m.finished = &session
		return m, tea.Quit
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// View renders the live session TUI
func (m LiveModel) View() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	helpBar := m.renderHelpBar()
	contentHeight := m.height - 2

	// Narrow view: just the clock panel
	if m.width < 90 {
		return lipgloss.JoinVertical(lipgloss.Left, m.renderClockPanel(m.width, contentHeight), helpBar)
	}

	leftWidth := m.width / 2
	rightWidth := m.width - leftWidth - 2

	content := lipgloss.JoinHorizontal(
		lipgloss.Top,
		m.renderClockPanel(leftWidth, contentHeight),
		"  ",
		m.renderSessionPanel(rightWidth, contentHeight),
	)
	return lipgloss.JoinVertical(lipgloss.Left, content, helpBar)
}

// renderClockPanel renders the elapsed time and the amount prompt
func (m LiveModel) renderClockPanel(width, height int) string {
	center := lipgloss.NewStyle().Align(lipgloss.Center).Width(width)
	var components []string

	headerStyle := center.
		Foreground(lipgloss.Color(ColorAccentBright)).
		Bold(true)
	components = append(components, headerStyle.Render("♠  SESSION IN PROGRESS  ♠"))

	var clock []string
	for _, line := range strings.Split(renderBigClock(m.elapsed), "\n") {
		clock = append(clock, center.Render(line))
	}
	components = append(components, strings.Join(clock, "\n"))

	startStyle := center.
		Foreground(lipgloss.Color(ColorSecondaryText)).
		Italic(true)
	components = append(components, startStyle.Render("Started at "+m.live.StartedAt.Format("15:04")))

	if m.mode != inputNone {
		label := "Rebuy"
		if m.mode == inputCashOut {
			label = "Cash out"
		}
		prompt := lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(ColorAccentMain)).
			Padding(0, 1).
			Render(label + ": " + m.input.View())
		components = append(components, center.Render(prompt))
	}

	if m.err != nil {
		errStyle := center.Foreground(lipgloss.Color(ColorLoss))
		components = append(components, errStyle.Render("✗ "+m.err.Error()))
	}

	return lipgloss.NewStyle().
		Width(width).
		Height(height).
		Align(lipgloss.Center, lipgloss.Center).
		Render(strings.Join(components, "\n\n"))
}

// renderSessionPanel renders the session details
func (m LiveModel) renderSessionPanel(width, height int) string {
	labelStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(ColorSecondaryText))
	valueStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(ColorPrimaryText)).Bold(true)
	line := func(label, value string) string {
		return labelStyle.Render(fmt.Sprintf("%-12s", label)) + valueStyle.Render(value)
	}

	game := m.live.Game
	if m.live.IsTournament {
		game += " (tournament)"
	} else if m.live.Stakes != "" {
		game += " " + m.live.Stakes
	}

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(ColorPrimaryText)).
		Align(lipgloss.Center).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(ColorAccentMain)).
		Width(width-4).
		Padding(0, 1)

	rows := []string{
		titleStyle.Render(m.locationName),
		"",
		line("Game", game),
		line("Buy-in", format.Currency(m.live.TotalBuyIn(), m.currency)),
		line("Rebuys", fmt.Sprint(m.live.Rebuys())),
	}

	return lipgloss.NewStyle().
		Width(width).
		Height(height).
		AlignVertical(lipgloss.Center).
		Render(strings.Join(rows, "\n"))
}

// renderHelpBar renders the help bar at the bottom
func (m LiveModel) renderHelpBar() string {
	helpStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorHelpText)).
		Italic(true).
		Align(lipgloss.Center).
		Width(m.width)

	helpText := "r rebuy · s cash out & save · esc/q exit (keep running)"
	if m.mode != inputNone {
		helpText = "enter confirm · esc cancel"
	}
	return helpStyle.Render(helpText)
}

// bigDigits holds 5x5 glyphs for the clock
var bigDigits = map[rune][5]string{
	'0': {" ███ ", "█   █", "█   █", "█   █", " ███ "},
	'1': {"  █  ", " ██  ", "  █  ", "  █  ", "█████"},
	'2': {" ███ ", "█   █", "   █ ", "  █  ", "█████"},
	'3': {" ███ ", "█   █", "  ██ ", "█   █", " ███ "},
	'4': {"█   █", "█   █", "█████", "    █", "    █"},
	'5': {"█████", "█    ", "████ ", "    █", "████ "},
	'6': {" ███ ", "█    ", "████ ", "█   █", " ███ "},
	'7': {"█████", "    █", "   █ ", "  █  ", " █   "},
	'8': {" ███ ", "█   █", " ███ ", "█   █", " ███ "},
	'9': {" ███ ", "█   █", " ████", "    █", " ███ "},
	':': {"     ", "  █  ", "     ", "  █  ", "     "},
}

// renderBigClock renders hh:mm:ss in block digits
func renderBigClock(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	timeStr := fmt.Sprintf("%02d:%02d:%02d", int(d.Hours()), int(d.Minutes())%60, int(d.Seconds())%60)

	var lines [5]strings.Builder
	for _, char := range timeStr {
		glyph := bigDigits[char]
		for i := range lines {
			lines[i].WriteString(glyph[i])
			lines[i].WriteString(" ")
		}
	}

	clockStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorAccentBright)).
		Bold(true)

	rendered := make([]string, len(lines))
	for i := range lines {
		rendered[i] = clockStyle.Render(lines[i].String())
	}
	return strings.Join(rendered, "\n")
}
