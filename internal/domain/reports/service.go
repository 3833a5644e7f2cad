package reports

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type Service struct {
	Store *Store
}

func NewService(store *Store) *Service {
	return &Service{Store: store}
}

type LeaveSummary struct {
	From          time.Time       `json:"from"`
	TotalRequests int             `json:"totalRequests"`
	ApprovedCount int             `json:"approvedCount"`
	RejectedCount int             `json:"rejectedCount"`
	PendingCount  int             `json:"pendingCount"`
	TotalDays     decimal.Decimal `json:"totalDays"`
	ApprovalRate  float64         `json:"approvalRate"`
	ByStatus      []StatusRow     `json:"byStatus"`
}

type StatusRow struct {
	Status    string          `json:"status"`
	Count     int             `json:"count"`
	TotalDays decimal.Decimal `json:"totalDays"`
}

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{DB: pool}
}

// LeaveSummary aggregates requests created since `from`, grouped by status.
// The approval rate is approved over total, as a percentage.
func (s *Service) LeaveSummary(ctx context.Context, from time.Time) (LeaveSummary, error) {
	rows, err := s.Store.DB.Query(ctx, `
    SELECT status,
           COUNT(1),
           COALESCE(SUM(CASE
             WHEN start_date = end_date AND half_day IS NOT NULL THEN 0.5
             WHEN start_date = end_date THEN 1
             WHEN half_day IS NOT NULL THEN (end_date - start_date + 1) - 0.5
             ELSE end_date - start_date + 1
           END), 0)
    FROM leave_requests
    WHERE created_at >= $1
    GROUP BY status
    ORDER BY status
  `, from)
	if err != nil {
		return LeaveSummary{}, err
	}
	defer rows.Close()

	summary := LeaveSummary{From: from, TotalDays: decimal.Zero}
	for rows.Next() {
		var row StatusRow
		if err := rows.Scan(&row.Status, &row.Count, &row.TotalDays); err != nil {
			return LeaveSummary{}, err
		}
		summary.ByStatus = append(summary.ByStatus, row)
		summary.TotalRequests += row.Count
		summary.TotalDays = summary.TotalDays.Add(row.TotalDays)
		switch row.Status {
		case "APPROVED":
			summary.ApprovedCount = row.Count
		case "REJECTED":
			summary.RejectedCount = row.Count
		case "PENDING":
			summary.PendingCount = row.Count
		}
	}
	if err := rows.Err(); err != nil {
		return LeaveSummary{}, err
	}

	if summary.TotalRequests > 0 {
		summary.ApprovalRate = float64(summary.ApprovedCount) / float64(summary.TotalRequests) * 100
	}
	return summary, nil
}
