package attendance

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{DB: pool}
}

const uniqueViolation = "23505"

// InsertClockIn creates the day's log. The partial unique index on open rows
// turns a concurrent double clock-in into a constraint violation, which is
// surfaced as ErrAlreadyClockedIn.
func (s *Store) InsertClockIn(ctx context.Context, log Log) (Log, error) {
	err := s.DB.QueryRow(ctx, `
    INSERT INTO attendance_logs (user_id, clock_in, lat, lng, source)
    VALUES ($1, $2, $3, $4, $5)
    RETURNING id, created_at
  `, log.UserID, log.ClockIn, log.Lat, log.Lng, log.Source).Scan(&log.ID, &log.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return Log{}, ErrAlreadyClockedIn
		}
		return Log{}, err
	}
	return log, nil
}

// TodayLog returns the user's log for the UTC day containing `at`, if any.
func (s *Store) TodayLog(ctx context.Context, userID string, at time.Time) (Log, bool, error) {
	dayStart := at.UTC().Truncate(24 * time.Hour)
	dayEnd := dayStart.Add(24 * time.Hour)

	var log Log
	err := s.DB.QueryRow(ctx, `
    SELECT id, user_id, clock_in, clock_out, duration_minutes, lat, lng, source, created_at
    FROM attendance_logs
    WHERE user_id = $1 AND clock_in >= $2 AND clock_in < $3
    ORDER BY clock_in DESC
    LIMIT 1
  `, userID, dayStart, dayEnd).Scan(&log.ID, &log.UserID, &log.ClockIn, &log.ClockOut,
		&log.DurationMinutes, &log.Lat, &log.Lng, &log.Source, &log.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Log{}, false, nil
	}
	if err != nil {
		return Log{}, false, err
	}
	return log, true, nil
}

func (s *Store) CloseLog(ctx context.Context, logID string, clockOut time.Time, durationMinutes int) error {
	tag, err := s.DB.Exec(ctx, `
    UPDATE attendance_logs
    SET clock_out = $1, duration_minutes = $2
    WHERE id = $3 AND clock_out IS NULL
  `, clockOut, durationMinutes, logID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrAlreadyClockedOut
	}
	return nil
}

func (s *Store) ListLogs(ctx context.Context, filter LogFilter) (LogList, error) {
	where := "WHERE 1=1"
	args := []any{}
	if filter.UserID != "" {
		args = append(args, filter.UserID)
		where += fmt.Sprintf(" AND user_id = $%d", len(args))
	}
	if !filter.From.IsZero() {
		args = append(args, filter.From)
		where += fmt.Sprintf(" AND clock_in >= $%d", len(args))
	}
	if !filter.To.IsZero() {
		args = append(args, filter.To)
		where += fmt.Sprintf(" AND clock_in < $%d", len(args))
	}

	var total int
	if err := s.DB.QueryRow(ctx, "SELECT COUNT(1) FROM attendance_logs "+where, args...).Scan(&total); err != nil {
		return LogList{}, err
	}

	args = append(args, filter.Limit, filter.Offset)
	query := fmt.Sprintf(`
    SELECT id, user_id, clock_in, clock_out, duration_minutes, lat, lng, source, created_at
    FROM attendance_logs
    %s
    ORDER BY clock_in DESC
    LIMIT $%d OFFSET $%d
  `, where, len(args)-1, len(args))

	rows, err := s.DB.Query(ctx, query, args...)
	if err != nil {
		return LogList{}, err
	}
	defer rows.Close()

	logs := make([]Log, 0)
	for rows.Next() {
		var log Log
		if err := rows.Scan(&log.ID, &log.UserID, &log.ClockIn, &log.ClockOut,
			&log.DurationMinutes, &log.Lat, &log.Lng, &log.Source, &log.CreatedAt); err != nil {
			return LogList{}, err
		}
		logs = append(logs, log)
	}
	if err := rows.Err(); err != nil {
		return LogList{}, err
	}
	return LogList{Logs: logs, Total: total}, nil
}
