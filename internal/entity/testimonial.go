package domain

import (
	"fmt"
	"time"
)

// Testimonial is administrative content shown on the storefront. No
// lifecycle beyond create/update/delete and the active toggle.
type Testimonial struct {
	ID        string
	Name      string
	Location  string
	Review    string
	Rating    int
	AvatarURL string
	Verified  bool
	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (t Testimonial) CheckRating() error {
	if t.Rating < 1 || t.Rating > 5 {
		return fmt.Errorf("rating must be between 1 and 5, got %d", t.Rating)
	}
	return nil
}
