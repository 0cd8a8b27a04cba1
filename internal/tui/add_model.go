package tui

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/balkashynov/bankroll/internal/export"
	"github.com/balkashynov/bankroll/internal/format"
	"github.com/balkashynov/bankroll/internal/models"
	"github.com/balkashynov/bankroll/internal/parser"
)

// SessionSaver stores a session built by the add form. The session names its
// venue through LocationName; the saver resolves it.
type SessionSaver interface {
	SaveSession(s models.Session) (models.Session, error)
}

// Step represents the current step in the wizard
type Step int

const (
	StepLocation Step = iota
	StepGame
	StepStakes
	StepBuyIn
	StepEntrants
	StepProfit
	StepDuration
	StepDate
	StepExpenses
	StepNotes
	StepSave
)

// Keys of the prefilled map, one per input step
var stepKeys = [...]string{"location", "game", "stakes", "buyin", "entrants", "profit", "duration", "date", "expenses", "notes"}

var stepLabels = [...]string{"Location", "Game", "Stakes", "Buy-in", "Entrants", "Profit", "Duration", "Date", "Expenses", "Notes", "Save"}

var stepPlaceholders = [...]string{
	"Venue name (required)",
	"e.g. NL Hold Em (required)",
	"e.g. 1/3, required for cash games",
	"Tournament buy-in (Enter to skip for cash games)",
	"Tournament field size (Enter to skip)",
	"e.g. +350 or -120 (required)",
	"e.g. 4h30m, 90m (Enter to skip)",
	"dd/mm/yyyy, yesterday, 3 days ago (Enter for today)",
	"Tips, food, travel (Enter to skip)",
	"Notes (Enter to skip)",
}

var errMissingProfit = errors.New("profit is required, e.g. +350 or -120")

// AddSessionModel represents the TUI model for recording a finished session
type AddSessionModel struct {
	currentStep Step
	inputs      []textinput.Model
	width       int
	height      int

	currency string
	saver    SessionSaver
	now      func() time.Time

	// Pre-filled data from flags or parsing
	prefilled map[string]string

	// State
	validationErr string
	saved         *models.Session
	cancelled     bool

	// Save confirmation modal
	showSaveModal   bool
	saveModalChoice bool // true for Yes, false for No
}

// NewAddSessionModel creates the add form. Keys of prefilled not set by the
// caller start empty.
func NewAddSessionModel(prefilled map[string]string, currency string, saver SessionSaver) AddSessionModel {
	inputs := make([]textinput.Model, len(stepKeys))
	for i := range inputs {
		inputs[i] = textinput.New()
		inputs[i].Width = 60
		inputs[i].CharLimit = 100
		inputs[i].Placeholder = stepPlaceholders[i]
		inputs[i].TextStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorPrimaryText))
		inputs[i].PlaceholderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorDisabledText))
		inputs[i].Cursor.Style = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorAccentBright))
		inputs[i].SetValue(prefilled[stepKeys[i]])
	}
	inputs[StepNotes].CharLimit = 500
	inputs[StepLocation].Focus()

	return AddSessionModel{
		currentStep: StepLocation,
		inputs:      inputs,
		currency:    currency,
		saver:       saver,
		now:         time.Now,
		prefilled:   prefilled,
	}
}

// Saved returns the stored session, or nil if the form was left without saving
func (m AddSessionModel) Saved() *models.Session {
	return m.saved
}

// Cancelled reports whether the form was left without saving
func (m AddSessionModel) Cancelled() bool {
	return m.cancelled
}

// Init initializes the model
func (m AddSessionModel) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages
func (m AddSessionModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		inputWidth := min(max(m.width*2/3-10, 30), 80)
		for i := range m.inputs {
			m.inputs[i].Width = inputWidth
		}
		return m, nil

	case tea.KeyMsg:
		if m.showSaveModal {
			switch msg.String() {
			case "left", "right":
				m.saveModalChoice = !m.saveModalChoice
				return m, nil
			case "y", "Y":
				m.saveModalChoice = true
				return m.handleSaveChoice()
			case "n", "N":
				m.saveModalChoice = false
				return m.handleSaveChoice()
			case "enter":
				return m.handleSaveChoice()
			case "esc":
				m.showSaveModal = false
				return m, nil
			case "ctrl+c":
				m.cancelled = true
				return m, tea.Quit
			}
			return m, nil
		}

		switch msg.String() {
		case "ctrl+c":
			m.cancelled = true
			return m, tea.Quit

		case "esc":
			if m.currentStep == StepSave {
				return m.prevStep()
			}
			if !m.hasChanges() {
				m.cancelled = true
				return m, tea.Quit
			}
			m.showSaveModal = true
			m.saveModalChoice = true
			return m, nil

		case "enter":
			return m.handleEnter()

		case "tab", "down":
			if m.currentStep == StepLocation && m.value(StepLocation) == "" {
				m.validationErr = models.ErrMissingLocation.Error()
				return m, nil
			}
			return m.nextStep()

		case "shift+tab", "up":
			return m.prevStep()
		}
	}

	var cmd tea.Cmd
	if m.currentStep < StepSave {
		m.inputs[m.currentStep], cmd = m.inputs[m.currentStep].Update(msg)
	}
	return m, cmd
}

func (m AddSessionModel) value(step Step) string {
	return strings.TrimSpace(m.inputs[step].Value())
}

// hasChanges reports whether any field differs from what the form opened with
func (m AddSessionModel) hasChanges() bool {
	for i, key := range stepKeys {
		if m.value(Step(i)) != strings.TrimSpace(m.prefilled[key]) {
			return true
		}
	}
	return false
}

// checkStep validates the value typed into one step
func (m AddSessionModel) checkStep(step Step) error {
	v := m.value(step)
	switch step {
	case StepLocation:
		if v == "" {
			return models.ErrMissingLocation
		}
	case StepGame:
		if v == "" {
			return models.ErrMissingGame
		}
	case StepBuyIn, StepEntrants, StepExpenses:
		if _, err := parseCount(v); err != nil {
			return fmt.Errorf("%s must be a whole, non-negative amount", strings.ToLower(stepLabels[step]))
		}
	case StepProfit:
		if v == "" {
			return errMissingProfit
		}
		if _, err := strconv.Atoi(v); err != nil {
			return fmt.Errorf("invalid profit '%s', use a whole amount like +350 or -120", v)
		}
	case StepDuration:
		if _, err := export.ParseDuration(v); err != nil {
			return err
		}
	case StepDate:
		if v == "" {
			return nil
		}
		if _, err := parser.ParseSessionDate(v, m.now()); err != nil {
			return fmt.Errorf("invalid date '%s': %w", v, err)
		}
	}
	return nil
}

func parseCount(v string) (int, error) {
	if v == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, err
	}
	if n < 0 {
		return 0, models.ErrInvalidAmount
	}
	return n, nil
}

// build turns the form into a session and validates it. A session dated
// today ends now; older ones start at midnight.
func (m AddSessionModel) build() (models.Session, Step, error) {
	for step := StepLocation; step < StepSave; step++ {
		if err := m.checkStep(step); err != nil {
			return models.Session{}, step, err
		}
	}

	buyIn, _ := parseCount(m.value(StepBuyIn))
	entrants, _ := parseCount(m.value(StepEntrants))
	expenses, _ := parseCount(m.value(StepExpenses))
	profit, _ := strconv.Atoi(m.value(StepProfit))
	duration, _ := export.ParseDuration(m.value(StepDuration))

	current := m.now()
	end := current.Truncate(time.Minute)
	start := end.Add(-duration)
	date := start
	if v := m.value(StepDate); v != "" {
		day, _ := parser.ParseSessionDate(v, current)
		date, start, end = day, day, day.Add(duration)
	}

	s := models.Session{
		LocationName: m.value(StepLocation),
		Game:         m.value(StepGame),
		Stakes:       m.value(StepStakes),
		IsTournament: buyIn > 0,
		BuyIn:        buyIn,
		Entrants:     entrants,
		Date:         date,
		StartTime:    start,
		EndTime:      end,
		Profit:       profit,
		Expenses:     expenses,
		Notes:        m.value(StepNotes),
	}
	if err := s.Validate(); err != nil {
		failed := StepSave
		switch {
		case errors.Is(err, models.ErrMissingStakes):
			failed = StepStakes
		case errors.Is(err, models.ErrInvalidEntrants):
			failed = StepEntrants
		}
		return models.Session{}, failed, err
	}
	return s, StepSave, nil
}

func (m AddSessionModel) handleEnter() (AddSessionModel, tea.Cmd) {
	m.validationErr = ""

	if m.currentStep == StepSave {
		return m.saveSession()
	}
	if err := m.checkStep(m.currentStep); err != nil {
		m.validationErr = err.Error()
		return m, nil
	}
	return m.nextStep()
}

// nextStep moves to the next step
func (m AddSessionModel) nextStep() (AddSessionModel, tea.Cmd) {
	return m.gotoStep(m.currentStep + 1)
}

// prevStep moves to the previous step
func (m AddSessionModel) prevStep() (AddSessionModel, tea.Cmd) {
	return m.gotoStep(m.currentStep - 1)
}

func (m AddSessionModel) gotoStep(step Step) (AddSessionModel, tea.Cmd) {
	if step < StepLocation || step > StepSave {
		return m, nil
	}
	if m.currentStep < StepSave {
		m.inputs[m.currentStep].Blur()
	}
	m.currentStep = step
	if step < StepSave {
		m.inputs[step].Focus()
	}
	return m, textinput.Blink
}

// saveSession validates the whole form and hands the session to the saver
func (m AddSessionModel) saveSession() (AddSessionModel, tea.Cmd) {
	session, failed, err := m.build()
	if err != nil {
		m, _ = m.gotoStep(failed)
		m.validationErr = err.Error()
		return m, nil
	}

	saved, err := m.saver.SaveSession(session)
	if err != nil {
		m.validationErr = err.Error()
		return m, nil
	}
	m.saved = &saved
	return m, tea.Quit
}

// handleSaveChoice handles the save confirmation modal response
func (m AddSessionModel) handleSaveChoice() (AddSessionModel, tea.Cmd) {
	m.showSaveModal = false
	if m.saveModalChoice {
		return m.saveSession()
	}
	m.cancelled = true
	return m, tea.Quit
}

// View renders the TUI
func (m AddSessionModel) View() string {
	if m.cancelled || m.saved != nil {
		return ""
	}
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	if m.width < 85 {
		return lipgloss.NewStyle().Padding(1).Render(m.renderWizard())
	}

	rightWidth := 44
	leftWidth := m.width - rightWidth - 4

	leftPanel := lipgloss.NewStyle().
		Width(leftWidth).
		Height(m.height - 2).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(ColorBorder)).
		Padding(1).
		Render(m.renderWizard())
	rightPanel := lipgloss.NewStyle().
		Width(rightWidth).
		Height(m.height - 2).
		Padding(1).
		Render(m.renderPreview(rightWidth - 2))

	mainView := lipgloss.JoinHorizontal(lipgloss.Top, leftPanel, " ", rightPanel)
	if m.showSaveModal {
		return m.renderSaveModal()
	}
	return mainView
}

// renderWizard renders the step list and the current input
func (m AddSessionModel) renderWizard() string {
	var b strings.Builder

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(ColorAccentBright))
	b.WriteString(titleStyle.Render("🃏 Record Session"))
	b.WriteString("\n\n")

	current := lipgloss.NewStyle().Foreground(lipgloss.Color(ColorAccentBright)).Bold(true)
	done := lipgloss.NewStyle().Foreground(lipgloss.Color(ColorProfit))
	skipped := lipgloss.NewStyle().Foreground(lipgloss.Color(ColorDisabledText))
	future := lipgloss.NewStyle().Foreground(lipgloss.Color(ColorSecondaryText))

	for i, label := range stepLabels {
		step := Step(i)
		if step == StepSave {
			b.WriteString("\n")
			label = "💾 " + label
		}
		switch {
		case step == m.currentStep:
			b.WriteString(current.Render("▶ " + label))
		case step < m.currentStep && m.value(step) != "":
			b.WriteString(done.Render("✓ " + label))
		case step < m.currentStep:
			b.WriteString(skipped.Render("  " + label))
		default:
			b.WriteString(future.Render("  " + label))
		}
		b.WriteString("\n")
	}
	b.WriteString("\n")

	labelStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(ColorPrimaryText))
	if m.currentStep == StepSave {
		b.WriteString(labelStyle.Render("💾 Save Session") + "\n")
		b.WriteString("Press Enter to save the session")
	} else {
		b.WriteString(labelStyle.Render(stepLabels[m.currentStep]) + "\n")
		b.WriteString(m.inputs[m.currentStep].View())
	}

	if m.validationErr != "" {
		errStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(ColorLoss)).Bold(true).MarginTop(1)
		b.WriteString("\n")
		b.WriteString(errStyle.Render("✗ " + m.validationErr))
	}
	b.WriteString("\n\n")

	helpStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(ColorHelpText)).Italic(true)
	b.WriteString(helpStyle.Render("Enter: Next | Tab/↓: Next | Shift+Tab/↑: Back | Esc: Cancel"))
	return b.String()
}

// renderPreview renders a card of the session as typed so far
func (m AddSessionModel) renderPreview(width int) string {
	labelStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(ColorSecondaryText))
	valueStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(ColorPrimaryText)).Bold(true)
	emptyStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(ColorDisabledText)).Italic(true)
	line := func(label, value string) string {
		if value == "" {
			return labelStyle.Render(fmt.Sprintf("%-10s", label)) + emptyStyle.Render("none")
		}
		return labelStyle.Render(fmt.Sprintf("%-10s", label)) + valueStyle.Render(value)
	}

	location := m.value(StepLocation)
	if location == "" {
		location = "New session"
	}
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(ColorPrimaryText)).
		Align(lipgloss.Center).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(ColorAccentMain)).
		Width(width-4).
		Padding(0, 1)

	game := m.value(StepGame)
	if buyIn, err := parseCount(m.value(StepBuyIn)); err == nil && buyIn > 0 {
		game = strings.TrimSpace(game + " (tournament)")
	} else if stakes := m.value(StepStakes); stakes != "" {
		game = strings.TrimSpace(game + " " + stakes)
	}

	profit := labelStyle.Render(fmt.Sprintf("%-10s", "Profit")) + emptyStyle.Render("none")
	if n, err := strconv.Atoi(m.value(StepProfit)); err == nil {
		profit = labelStyle.Render(fmt.Sprintf("%-10s", "Profit")) +
			lipgloss.NewStyle().Foreground(lipgloss.Color(moneyColor(n))).Bold(true).Render(format.SignedCurrency(n, m.currency))
	}

	played := ""
	if d, err := export.ParseDuration(m.value(StepDuration)); err == nil && d > 0 {
		played = format.Duration(int(d.Hours()), int(d.Minutes())%60)
	}

	date := "today"
	if v := m.value(StepDate); v != "" {
		date = v
		if d, err := parser.ParseSessionDate(v, m.now()); err == nil {
			date = parser.FormatSessionDate(d, m.now())
		}
	}

	expenses := ""
	if n, err := parseCount(m.value(StepExpenses)); err == nil && n > 0 {
		expenses = format.Currency(n, m.currency)
	}

	rows := []string{
		titleStyle.Render(location),
		"",
		line("Game", game),
		profit,
		line("Played", played),
		line("Date", date),
		line("Expenses", expenses),
	}
	if notes := m.value(StepNotes); notes != "" {
		rows = append(rows, "", emptyStyle.Render(notes))
	}
	return strings.Join(rows, "\n")
}

// renderSaveModal renders the save confirmation modal
func (m AddSessionModel) renderSaveModal() string {
	yesStyle := lipgloss.NewStyle().Padding(0, 2)
	noStyle := lipgloss.NewStyle().Padding(0, 2)
	if m.saveModalChoice {
		yesStyle = yesStyle.
			Background(lipgloss.Color(ColorAccentBright)).
			Foreground(lipgloss.Color("#000000")).
			Bold(true)
	} else {
		noStyle = noStyle.
			Background(lipgloss.Color(ColorLoss)).
			Foreground(lipgloss.Color("#FFFFFF")).
			Bold(true)
	}

	var content strings.Builder
	content.WriteString("Save this session?\n\n")
	content.WriteString(lipgloss.JoinHorizontal(lipgloss.Center, yesStyle.Render("Yes"), "   ", noStyle.Render("No")))
	content.WriteString("\n\n← → or Y/N to choose, Enter to confirm\nEsc to keep editing")

	modal := lipgloss.NewStyle().
		Width(50).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(ColorAccentBright)).
		Background(lipgloss.Color(ColorCardBackground)).
		Padding(1).
		Align(lipgloss.Center).
		Render(content.String())

	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, modal)
}
