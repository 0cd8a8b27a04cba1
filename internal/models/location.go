package models

import (
	"errors"
	"strings"

	"github.com/google/uuid"
)

var ErrMissingLocationName = errors.New("location name is required")

// Location represents a venue sessions are played at
type Location struct {
	ID         string `gorm:"primaryKey" json:"id"`
	Name       string `gorm:"not null" json:"name"`
	LocalImage string `json:"local_image,omitempty"`
	ImageURL   string `json:"image_url,omitempty"`
}

// Validate checks that the location can be stored
func (l Location) Validate() error {
	if strings.TrimSpace(l.Name) == "" {
		return ErrMissingLocationName
	}
	return nil
}

// DefaultLocation is returned when there is nothing to rank
var DefaultLocation = Location{
	ID:   uuid.Nil.String(),
	Name: "No Location",
}

// DefaultLocations is the built-in venue set seeded on first launch.
// IDs are derived from the name so merging stays idempotent.
func DefaultLocations() []Location {
	return []Location{
		defaultLocation("Chaser's Poker Room", "chasers-header"),
		defaultLocation("Encore Boston Harbor", "encore-header"),
		defaultLocation("Boston Billiard's Club", "boston-billiards-header"),
		defaultLocation("MGM Springfield", "mgmspringfield-header"),
		defaultLocation("Foxwoods Resort Casino", "foxwoods-header"),
		defaultLocation("Mohegan Sun Casino", "mohegan-sun-header"),
	}
}

// DefaultLocationID returns the stable ID for a built-in venue name
func DefaultLocationID(name string) string {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte("bankroll:location:"+name)).String()
}

func defaultLocation(name, image string) Location {
	return Location{
		ID:         DefaultLocationID(name),
		Name:       name,
		LocalImage: image,
	}
}
