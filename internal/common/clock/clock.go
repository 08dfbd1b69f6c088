// Package clock abstracts time.Now so cooldown windows and reminder
// due-times can be driven deterministically in tests.
package clock

import "time"

//go:generate mockgen -package=mocks -destination=mocks/mock_clock.go github.com/chatterous/chatterous/internal/common/clock Clock
type Clock interface {
	Now() time.Time
}

// DefaultClock reads the real system time.
type DefaultClock struct{}

func (c *DefaultClock) Now() time.Time {
	return time.Now()
}
