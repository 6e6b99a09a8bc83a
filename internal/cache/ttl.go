package cache

import (
	"time"

	"github.com/Abduqodir7007/fitness-crm/internal/clock"
)

const minTTL = time.Second

// TTLPolicy derives an entry lifetime from the moment it is written.
type TTLPolicy func(now time.Time) time.Duration

// UntilMidnight expires the entry at the next day boundary in now's location.
func UntilMidnight(now time.Time) time.Duration {
	return atLeast(clock.NextMidnight(now).Sub(now))
}

// UntilMonthEnd expires the entry when the month rolls over.
func UntilMonthEnd(now time.Time) time.Duration {
	return atLeast(clock.NextMonth(now).Sub(now))
}

func Fixed(d time.Duration) TTLPolicy {
	return func(time.Time) time.Duration {
		return atLeast(d)
	}
}

// Capped bounds p by max.
func Capped(p TTLPolicy, max time.Duration) TTLPolicy {
	return func(now time.Time) time.Duration {
		ttl := p(now)
		if max > 0 && ttl > max {
			ttl = max
		}
		return atLeast(ttl)
	}
}

func atLeast(d time.Duration) time.Duration {
	if d < minTTL {
		return minTTL
	}
	return d
}
