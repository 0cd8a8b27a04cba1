package models

import (
	"errors"
	"strings"
	"time"
)

var (
	ErrMissingLocation  = errors.New("location is required")
	ErrMissingGame      = errors.New("game is required")
	ErrMissingStakes    = errors.New("stakes are required for cash games")
	ErrInvalidBuyIn     = errors.New("tournament buy-in must be greater than zero")
	ErrInvalidEntrants  = errors.New("entrants cannot be negative")
	ErrEndBeforeStart   = errors.New("end time must not be before start time")
	ErrNegativeExpenses = errors.New("expenses cannot be negative")
	ErrMissingDate      = errors.New("date is required")
)

// Session represents one completed poker session
type Session struct {
	ID           string `gorm:"primaryKey" json:"id"`
	LocationID   string `gorm:"index" json:"location_id"`
	LocationName string `json:"location_name,omitempty"` // legacy/imported records reference venues by name

	Game         string `gorm:"not null" json:"game"`
	Stakes       string `json:"stakes,omitempty"`
	IsTournament bool   `gorm:"default:false" json:"is_tournament"`
	BuyIn        int    `json:"buy_in,omitempty"`
	Entrants     int    `json:"entrants,omitempty"`

	Date      time.Time `gorm:"index;not null" json:"date"`
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`

	Profit   int    `json:"profit"` // signed, whole currency units
	Expenses int    `json:"expenses,omitempty"`
	Notes    string `json:"notes,omitempty"`
}

// Validate checks the fields a session needs before it can be stored
func (s Session) Validate() error {
	if strings.TrimSpace(s.LocationID) == "" && strings.TrimSpace(s.LocationName) == "" {
		return ErrMissingLocation
	}
	if strings.TrimSpace(s.Game) == "" {
		return ErrMissingGame
	}
	if s.IsTournament {
		if s.BuyIn <= 0 {
			return ErrInvalidBuyIn
		}
		if s.Entrants < 0 {
			return ErrInvalidEntrants
		}
	} else if strings.TrimSpace(s.Stakes) == "" {
		return ErrMissingStakes
	}
	if s.Date.IsZero() {
		return ErrMissingDate
	}
	if s.EndTime.Before(s.StartTime) {
		return ErrEndBeforeStart
	}
	if s.Expenses < 0 {
		return ErrNegativeExpenses
	}
	return nil
}

// Duration returns the time played
func (s Session) Duration() time.Duration {
	if s.EndTime.Before(s.StartTime) {
		return 0
	}
	return s.EndTime.Sub(s.StartTime)
}

// HourMinute splits the duration into whole hours and the remaining minutes
func (s Session) HourMinute() (hours, minutes int) {
	d := s.Duration()
	return int(d.Hours()), int(d.Minutes()) % 60
}

// Year returns the calendar year the session was played in
func (s Session) Year() int {
	return s.Date.Year()
}
