package metrics

import (
	"fmt"
	"strings"

	"github.com/balkashynov/bankroll/internal/models"
)

// Kind selects cash games, tournaments or both
type Kind int

const (
	KindAll Kind = iota
	KindCash
	KindTournament
)

func (k Kind) String() string {
	switch k {
	case KindCash:
		return "cash"
	case KindTournament:
		return "tournaments"
	default:
		return "all"
	}
}

// ParseKind accepts all, cash, tournament or tournaments
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "all":
		return KindAll, nil
	case "cash":
		return KindCash, nil
	case "tournament", "tournaments", "mtt":
		return KindTournament, nil
	default:
		return KindAll, fmt.Errorf("invalid session kind '%s'. Use: all, cash, or tournament", s)
	}
}

// Filter narrows a session set. The zero value matches everything.
type Filter struct {
	Year       int
	LocationID string
	Stakes     string
	Game       string
	Kind       Kind
}

// Match reports whether s passes every set criterion
func (f Filter) Match(s models.Session) bool {
	if f.Year != 0 && s.Year() != f.Year {
		return false
	}
	if f.LocationID != "" && s.LocationID != f.LocationID {
		return false
	}
	if f.Stakes != "" && !strings.EqualFold(strings.TrimSpace(s.Stakes), strings.TrimSpace(f.Stakes)) {
		return false
	}
	if f.Game != "" && !strings.EqualFold(strings.TrimSpace(s.Game), strings.TrimSpace(f.Game)) {
		return false
	}
	switch f.Kind {
	case KindCash:
		return !s.IsTournament
	case KindTournament:
		return s.IsTournament
	}
	return true
}

// Apply returns the matching sessions in their original order
func (f Filter) Apply(sessions []models.Session) []models.Session {
	out := make([]models.Session, 0, len(sessions))
	for _, s := range sessions {
		if f.Match(s) {
			out = append(out, s)
		}
	}
	return out
}

// IsZero reports whether the filter matches everything
func (f Filter) IsZero() bool {
	return f == Filter{}
}
