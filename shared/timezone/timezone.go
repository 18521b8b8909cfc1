package timezone

import (
	"sync"
	"time"

	"lodge/config"

	"github.com/rs/zerolog/log"
)

var (
	location     *time.Location
	locationOnce sync.Once
)

func load(name string) *time.Location {
	if name == "" {
		log.Warn().Msg("No timezone configured, using UTC")

		return time.UTC
	}

	loc, err := time.LoadLocation(name)
	if err != nil {
		log.Error().Err(err).Str("timezone", name).Msg("Unknown timezone, falling back to UTC")

		return time.UTC
	}

	log.Info().Str("timezone", loc.String()).Msg("Application timezone initialized")

	return loc
}

// Location is the application timezone, read from APP_TIMEZONE on first use.
func Location() *time.Location {
	locationOnce.Do(func() {
		location = load(config.Get().App.Timezone)
	})

	return location
}

// Now is the wall clock in the application timezone.
func Now() time.Time {
	return time.Now().In(Location())
}

func Format(t time.Time, layout string) string {
	return t.In(Location()).Format(layout)
}

// Clock supplies the current instant. Booking lead times and past check-in checks read it
// so they can be pinned in tests.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return Now() }

func NewClock() Clock {
	return systemClock{}
}

type fixedClock struct {
	at time.Time
}

func (f fixedClock) Now() time.Time { return f.at }

// Fixed returns a Clock that always reports at.
func Fixed(at time.Time) Clock {
	return fixedClock{at: at}
}
