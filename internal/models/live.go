package models

import (
	"errors"
	"time"
)

var ErrNoBuyIn = errors.New("live session needs at least one buy-in")

// LiveSession is a session that is still being played
type LiveSession struct {
	LocationID   string    `json:"location_id"`
	Game         string    `json:"game"`
	Stakes       string    `json:"stakes,omitempty"`
	IsTournament bool      `json:"is_tournament"`
	StartedAt    time.Time `json:"started_at"`
	BuyIns       []int     `json:"buy_ins"` // initial buy-in followed by rebuys
}

// TotalBuyIn sums the initial buy-in and every rebuy
func (l LiveSession) TotalBuyIn() int {
	total := 0
	for _, b := range l.BuyIns {
		total += b
	}
	return total
}

// Rebuys returns how many times the player bought in again
func (l LiveSession) Rebuys() int {
	if len(l.BuyIns) == 0 {
		return 0
	}
	return len(l.BuyIns) - 1
}

// Finish turns the live session into a completed one cashed out for cashOut
func (l LiveSession) Finish(id string, cashOut int, endedAt time.Time) (Session, error) {
	if len(l.BuyIns) == 0 {
		return Session{}, ErrNoBuyIn
	}
	if endedAt.Before(l.StartedAt) {
		return Session{}, ErrEndBeforeStart
	}

	session := Session{
		ID:           id,
		LocationID:   l.LocationID,
		Game:         l.Game,
		Stakes:       l.Stakes,
		IsTournament: l.IsTournament,
		Date:         l.StartedAt,
		StartTime:    l.StartedAt,
		EndTime:      endedAt,
		Profit:       cashOut - l.TotalBuyIn(),
	}
	if l.IsTournament {
		session.BuyIn = l.TotalBuyIn()
	}
	return session, nil
}
