package services

import (
	"context"
	"fmt"
	"time"

	"flottapool/internal/models"
	"flottapool/internal/repositories/interfaces"
	"flottapool/internal/utils"
	"flottapool/pkg/logger"
)

// SequenceService mints trip identifiers: monotonically increasing,
// zero-padded, issued exactly once per checkout.
type SequenceService interface {
	// NextTripID returns the next identifier. When the atomic counter cannot
	// be reached it returns a clearly-marked fallback derived from wall-clock
	// time and degraded=true, so a checkout is never blocked; the caller
	// records the flag for manual reconciliation.
	NextTripID(ctx context.Context) (id string, degraded bool)
}

type sequenceService struct {
	counters interfaces.CounterRepository
	logger   *logger.Logger
}

func NewSequenceService(counters interfaces.CounterRepository, log *logger.Logger) SequenceService {
	return &sequenceService{
		counters: counters,
		logger:   log,
	}
}

func (s *sequenceService) NextTripID(ctx context.Context) (string, bool) {
	n, err := s.counters.NextValue(ctx, models.CounterTrips)
	if err != nil {
		s.logger.WithError(err).Error("Trip counter unavailable, issuing degraded trip id")
		return DegradedTripID(time.Now()), true
	}

	return FormatTripID(n), false
}

// FormatTripID renders a counter value as a zero-padded trip identifier
// ("00042").
func FormatTripID(n int64) string {
	return fmt.Sprintf("%0*d", utils.TripIDPadding, n)
}

// DegradedTripID builds the fallback identifier used when the counter store
// is unreachable: the degraded prefix plus the last four digits of the
// unix-millisecond clock.
func DegradedTripID(now time.Time) string {
	return fmt.Sprintf("%s%0*d", utils.DegradedTripPrefix, utils.DegradedTripDigits,
		now.UnixMilli()%10000)
}
