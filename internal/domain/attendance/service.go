package attendance

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"leavehub/internal/domain/geo"
)

var (
	ErrAlreadyClockedIn  = errors.New("already clocked in today")
	ErrAlreadyClockedOut = errors.New("already clocked out today")
	ErrClockOutMissingIn = errors.New("no clock in found for today")
	ErrGeoOutOfRange     = errors.New("location is outside the allowed area")
	ErrInvalidSource     = errors.New("invalid source")
)

type Service struct {
	Store *Store
	Fence geo.Fence
	Now   func() time.Time
}

func NewService(store *Store, fence geo.Fence) *Service {
	return &Service{Store: store, Fence: fence, Now: time.Now}
}

func (s *Service) ClockIn(ctx context.Context, userID string, lat, lng *float64, source string) (Log, error) {
	if source == "" {
		source = SourceMobile
	}
	if !ValidSource(source) {
		return Log{}, ErrInvalidSource
	}

	now := s.Now().UTC()

	// One attendance session per day: a closed log blocks a second
	// clock-in just like an open one. The open-row unique index covers
	// the concurrent case this read cannot.
	if _, found, err := s.Store.TodayLog(ctx, userID, now); err != nil {
		return Log{}, err
	} else if found {
		return Log{}, ErrAlreadyClockedIn
	}

	if lat != nil && lng != nil {
		result := s.Fence.Check(*lat, *lng)
		if !result.Valid {
			slog.Warn("clock-in rejected by geo fence",
				"userId", userID,
				"distanceMeters", result.DistanceMeters,
				"radiusMeters", s.Fence.RadiusMeters,
			)
			return Log{}, ErrGeoOutOfRange
		}
	}

	log, err := s.Store.InsertClockIn(ctx, Log{
		UserID:  userID,
		ClockIn: now,
		Lat:     lat,
		Lng:     lng,
		Source:  source,
	})
	if err != nil {
		return Log{}, err
	}

	slog.Info("user clocked in", "userId", userID, "logId", log.ID, "source", source)
	return log, nil
}

func (s *Service) ClockOut(ctx context.Context, userID string) (Log, error) {
	now := s.Now().UTC()

	log, found, err := s.Store.TodayLog(ctx, userID, now)
	if err != nil {
		return Log{}, err
	}
	if !found {
		return Log{}, ErrClockOutMissingIn
	}
	if log.ClockOut != nil {
		return Log{}, ErrAlreadyClockedOut
	}

	minutes := DurationMinutes(log.ClockIn, now)
	if err := s.Store.CloseLog(ctx, log.ID, now, minutes); err != nil {
		return Log{}, err
	}

	log.ClockOut = &now
	log.DurationMinutes = &minutes
	slog.Info("user clocked out", "userId", userID, "logId", log.ID, "durationMinutes", minutes)
	return log, nil
}

func (s *Service) TodayStatus(ctx context.Context, userID string) (TodayStatus, error) {
	log, found, err := s.Store.TodayLog(ctx, userID, s.Now().UTC())
	if err != nil {
		return TodayStatus{}, err
	}
	if !found {
		return TodayStatus{Status: StatusNotStarted}, nil
	}
	if log.ClockOut != nil {
		return TodayStatus{Status: StatusClockedOut, Log: &log}, nil
	}
	return TodayStatus{Status: StatusClockedIn, Log: &log}, nil
}

func (s *Service) Logs(ctx context.Context, filter LogFilter) (LogList, error) {
	return s.Store.ListLogs(ctx, filter)
}

// DurationMinutes is the whole-minute span between clock-in and clock-out.
// Clock skew can put clockOut before clockIn; the duration clamps to zero
// rather than going negative.
func DurationMinutes(clockIn, clockOut time.Time) int {
	minutes := int(clockOut.Sub(clockIn) / time.Minute)
	if minutes < 0 {
		slog.Warn("clock-out before clock-in, clamping duration",
			"clockIn", clockIn, "clockOut", clockOut)
		return 0
	}
	return minutes
}
