package scheduler

import (
	"time"

	"github.com/Ezzerof/smart-invoice-backend/internal/models"
)

// SystemClock reads the wall clock. Implements ports.Clock.
type SystemClock struct{}

// Today returns the current day at UTC midnight.
func (SystemClock) Today() time.Time {
	return models.DateOnly(time.Now())
}

// FixedClock always returns the same day. Test helper.
type FixedClock struct {
	Day time.Time
}

func (c FixedClock) Today() time.Time {
	return models.DateOnly(c.Day)
}
