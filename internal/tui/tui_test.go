package tui

import (
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/balkashynov/bankroll/internal/metrics"
	"github.com/balkashynov/bankroll/internal/models"
)

func keys(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func dashboardSessions() []models.Session {
	d1 := time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC)
	d2 := time.Date(2023, 8, 9, 0, 0, 0, 0, time.UTC)
	return []models.Session{
		{ID: "a", LocationID: "l1", Game: "NLH", Stakes: "1/2", Date: d1, StartTime: d1, EndTime: d1.Add(2 * time.Hour), Profit: 300},
		{ID: "b", LocationID: "l1", Game: "NLH", IsTournament: true, BuyIn: 100, Date: d2, StartTime: d2, EndTime: d2.Add(5 * time.Hour), Profit: -100},
	}
}

func TestDashboardFilterCycling(t *testing.T) {
	var m tea.Model = NewDashboardModel(dashboardSessions(), []models.Location{{ID: "l1", Name: "Encore"}}, "USD")
	m, _ = m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyTab})
	if got := m.(DashboardModel).Filter().Kind; got != metrics.KindCash {
		t.Errorf("kind after tab = %v, want cash", got)
	}
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyTab})
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyTab})
	if got := m.(DashboardModel).Filter().Kind; got != metrics.KindAll {
		t.Errorf("kind after three tabs = %v, want all", got)
	}

	m, _ = m.Update(keys("y"))
	if got := m.(DashboardModel).Filter().Year; got != 2024 {
		t.Errorf("year = %d, want 2024", got)
	}
	m, _ = m.Update(keys("y"))
	m, _ = m.Update(keys("y"))
	if got := m.(DashboardModel).Filter().Year; got != 0 {
		t.Errorf("year after full cycle = %d, want 0", got)
	}
}

func TestDashboardView(t *testing.T) {
	var m tea.Model = NewDashboardModel(dashboardSessions(), []models.Location{{ID: "l1", Name: "Encore"}}, "USD")
	if got := m.View(); got != "Loading..." {
		t.Errorf("view before size = %q", got)
	}

	m, _ = m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	view := m.View()
	for _, want := range []string{"BANKROLL", "$200", "50%", "Encore"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}

	_, cmd := m.Update(keys("q"))
	if cmd == nil {
		t.Error("q should quit")
	}
}

func TestDashboardROICard(t *testing.T) {
	var m tea.Model = NewDashboardModel(dashboardSessions(), []models.Location{{ID: "l1", Name: "Encore"}}, "USD")
	m, _ = m.Update(tea.WindowSizeMsg{Width: 160, Height: 40})
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyTab})
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyTab})
	if !strings.Contains(m.View(), "-100%") {
		t.Error("tournament view should show the ROI")
	}

	cashOnly := dashboardSessions()[:1]
	m = NewDashboardModel(cashOnly, []models.Location{{ID: "l1", Name: "Encore"}}, "USD")
	m, _ = m.Update(tea.WindowSizeMsg{Width: 160, Height: 40})
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyTab})
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyTab})
	if !strings.Contains(m.View(), "N/A") {
		t.Error("ROI without tournament buy-ins should read N/A")
	}
}

type fakeController struct {
	live    models.LiveSession
	rebuys  []int
	cashOut int
	err     error
}

func (c *fakeController) Rebuy(amount int) (models.LiveSession, error) {
	if c.err != nil {
		return models.LiveSession{}, c.err
	}
	c.rebuys = append(c.rebuys, amount)
	c.live.BuyIns = append(c.live.BuyIns, amount)
	return c.live, nil
}

func (c *fakeController) Stop(cashOut int) (models.Session, error) {
	if c.err != nil {
		return models.Session{}, c.err
	}
	c.cashOut = cashOut
	return c.live.Finish("done", cashOut, c.live.StartedAt.Add(3*time.Hour))
}

func newLive(ctrl *fakeController) tea.Model {
	var m tea.Model = NewLiveModel(ctrl.live, "Encore", "USD", ctrl)
	m, _ = m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return m
}

func typeAmount(m tea.Model, amount string) tea.Model {
	for _, r := range amount {
		m, _ = m.Update(keys(string(r)))
	}
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	return m
}

func liveSession() models.LiveSession {
	return models.LiveSession{
		LocationID: "l1",
		Game:       "NLH",
		Stakes:     "1/3",
		StartedAt:  time.Now().Add(-90 * time.Minute),
		BuyIns:     []int{300},
	}
}

func TestLiveRebuyAndCashOut(t *testing.T) {
	ctrl := &fakeController{live: liveSession()}
	m := newLive(ctrl)

	m, _ = m.Update(keys("r"))
	m = typeAmount(m, "200")
	if len(ctrl.rebuys) != 1 || ctrl.rebuys[0] != 200 {
		t.Fatalf("rebuys = %v", ctrl.rebuys)
	}
	if !strings.Contains(m.View(), "$500") {
		t.Error("view should show the new total buy-in")
	}

	m, _ = m.Update(keys("s"))
	m = typeAmount(m, "800")
	finished := m.(LiveModel).Finished()
	if finished == nil || finished.Profit != 300 {
		t.Fatalf("finished = %+v", finished)
	}
}

func TestLiveRejectsBadAmount(t *testing.T) {
	ctrl := &fakeController{live: liveSession()}
	m := newLive(ctrl)

	m, _ = m.Update(keys("s"))
	m = typeAmount(m, "-5")
	if m.(LiveModel).Finished() != nil || ctrl.cashOut != 0 {
		t.Fatal("negative cash-out should not stop the session")
	}
	if !strings.Contains(m.View(), "non-negative") {
		t.Error("view should show the validation error")
	}

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if m.(LiveModel).mode != inputNone {
		t.Error("esc should cancel the prompt")
	}
}

func TestLiveControllerError(t *testing.T) {
	ctrl := &fakeController{live: liveSession(), err: errors.New("disk full")}
	m := newLive(ctrl)

	m, _ = m.Update(keys("r"))
	m = typeAmount(m, "100")
	if !strings.Contains(m.View(), "disk full") {
		t.Error("controller error should be shown")
	}
}

func TestLiveQuitKeepsRunning(t *testing.T) {
	m := newLive(&fakeController{live: liveSession()})
	m, cmd := m.Update(keys("q"))
	if cmd == nil || !m.(LiveModel).exiting {
		t.Error("q should exit without stopping")
	}
}

func TestRenderBigClock(t *testing.T) {
	clock := renderBigClock(90*time.Minute + 5*time.Second)
	if lines := strings.Split(clock, "\n"); len(lines) != 5 {
		t.Errorf("clock has %d lines, want 5", len(lines))
	}
}

type fakeSaver struct {
	sessions []models.Session
	err      error
}

func (s *fakeSaver) SaveSession(session models.Session) (models.Session, error) {
	if s.err != nil {
		return models.Session{}, s.err
	}
	session.ID = "new"
	s.sessions = append(s.sessions, session)
	return session, nil
}

var addNow = time.Date(2024, 4, 15, 21, 30, 0, 0, time.UTC)

func newAddForm(prefilled map[string]string, saver *fakeSaver) tea.Model {
	m := NewAddSessionModel(prefilled, "USD", saver)
	m.now = func() time.Time { return addNow }
	var model tea.Model = m
	model, _ = model.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return model
}

func press(m tea.Model, key tea.KeyType, times int) tea.Model {
	for range times {
		m, _ = m.Update(tea.KeyMsg{Type: key})
	}
	return m
}

func TestAddFormRequiresLocation(t *testing.T) {
	m := newAddForm(nil, &fakeSaver{})

	m = press(m, tea.KeyEnter, 1)
	form := m.(AddSessionModel)
	if form.currentStep != StepLocation {
		t.Errorf("step = %v, want the location step", form.currentStep)
	}
	if form.validationErr != models.ErrMissingLocation.Error() {
		t.Errorf("validationErr = %q", form.validationErr)
	}

	m, _ = m.Update(keys("Encore"))
	m = press(m, tea.KeyEnter, 1)
	if got := m.(AddSessionModel).currentStep; got != StepGame {
		t.Errorf("step = %v, want the game step", got)
	}
}

func TestAddFormSavesSession(t *testing.T) {
	saver := &fakeSaver{}
	m := newAddForm(map[string]string{
		"location": "Encore",
		"game":     "NL Hold Em",
		"stakes":   "1/3",
		"profit":   "+350",
		"duration": "4h30m",
		"date":     "12/04/2024",
		"expenses": "20",
	}, saver)

	if !strings.Contains(m.View(), "+$350") {
		t.Error("preview should show the profit")
	}

	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	for m.(AddSessionModel).currentStep != StepSave {
		m, cmd = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
		if m.(AddSessionModel).validationErr != "" {
			t.Fatalf("unexpected validation error: %s", m.(AddSessionModel).validationErr)
		}
	}
	m, cmd = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil {
		t.Error("saving should quit")
	}

	if len(saver.sessions) != 1 {
		t.Fatalf("saved %d sessions, want 1", len(saver.sessions))
	}
	got := saver.sessions[0]
	day := time.Date(2024, 4, 12, 0, 0, 0, 0, time.UTC)
	if got.LocationName != "Encore" || got.Stakes != "1/3" || got.Profit != 350 || got.Expenses != 20 {
		t.Errorf("session = %+v", got)
	}
	if got.IsTournament {
		t.Error("session without a buy-in should be a cash game")
	}
	if !got.Date.Equal(day) || got.Duration() != 4*time.Hour+30*time.Minute {
		t.Errorf("date = %v duration = %v", got.Date, got.Duration())
	}
	if s := m.(AddSessionModel).Saved(); s == nil || s.ID != "new" {
		t.Errorf("Saved() = %+v", s)
	}
}

func TestAddFormShowsSessionValidation(t *testing.T) {
	saver := &fakeSaver{}
	m := newAddForm(map[string]string{
		"location": "Encore",
		"game":     "NLH",
		"profit":   "100",
	}, saver)

	m = press(m, tea.KeyTab, int(StepSave))
	m = press(m, tea.KeyEnter, 1)

	form := m.(AddSessionModel)
	if form.validationErr != models.ErrMissingStakes.Error() {
		t.Errorf("validationErr = %q, want the stakes error", form.validationErr)
	}
	if form.currentStep != StepStakes {
		t.Errorf("step = %v, want the stakes step", form.currentStep)
	}
	if len(saver.sessions) != 0 {
		t.Error("an invalid session should not be saved")
	}
}

func TestAddFormRejectsBadValues(t *testing.T) {
	tests := []struct {
		name string
		step Step
		key  string
		in   string
	}{
		{"profit", StepProfit, "profit", "lots"},
		{"buy-in", StepBuyIn, "buyin", "-5"},
		{"duration", StepDuration, "duration", "forever"},
		{"future date", StepDate, "date", "01/01/2030"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newAddForm(map[string]string{"location": "Encore", "game": "NLH", tt.key: tt.in}, &fakeSaver{})
			m = press(m, tea.KeyTab, int(tt.step))
			m = press(m, tea.KeyEnter, 1)

			form := m.(AddSessionModel)
			if form.validationErr == "" || form.currentStep != tt.step {
				t.Errorf("step = %v err = %q, want an error on %s", form.currentStep, form.validationErr, tt.name)
			}
		})
	}
}

func TestAddFormSaverError(t *testing.T) {
	saver := &fakeSaver{err: errors.New("disk full")}
	m := newAddForm(map[string]string{
		"location": "Foxwoods",
		"game":     "Deepstack",
		"buyin":    "150",
		"profit":   "-150",
	}, saver)

	m = press(m, tea.KeyTab, int(StepSave))
	m = press(m, tea.KeyEnter, 1)
	form := m.(AddSessionModel)
	if form.validationErr != "disk full" || form.Saved() != nil {
		t.Errorf("validationErr = %q saved = %v", form.validationErr, form.Saved())
	}
}

func TestAddFormEscape(t *testing.T) {
	m := newAddForm(nil, &fakeSaver{})
	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if cmd == nil || !m.(AddSessionModel).Cancelled() {
		t.Error("esc on an untouched form should leave")
	}

	saver := &fakeSaver{}
	m = newAddForm(nil, saver)
	m, _ = m.Update(keys("Encore"))
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if !m.(AddSessionModel).showSaveModal {
		t.Fatal("esc with changes should ask to save")
	}
	m, _ = m.Update(keys("n"))
	if !m.(AddSessionModel).Cancelled() || len(saver.sessions) != 0 {
		t.Error("answering no should leave without saving")
	}
}
