package httputil

import (
	"math"

	"golang.org/x/time/rate"
)

// NewLimiter returns a limiter allowing perSecond requests per second with
// the given burst. A non-positive perSecond yields an unlimited limiter.
func NewLimiter(perSecond float64, burst int) *rate.Limiter {
	if perSecond <= 0 || math.IsInf(perSecond, 1) {
		return rate.NewLimiter(rate.Inf, 0)
	}
	return rate.NewLimiter(rate.Limit(perSecond), max(burst, 1))
}
