package leave

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"leavehub/internal/platform/db"
)

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{DB: pool}
}

func (s *Store) BeginTx(ctx context.Context) (pgx.Tx, error) {
	return s.DB.BeginTx(ctx, pgx.TxOptions{})
}

func (s *Store) GetPolicy(ctx context.Context, policyID string) (Policy, error) {
	var p Policy
	err := s.DB.QueryRow(ctx, `
    SELECT id, type, max_days, carry_forward, accrual, min_notice_days, created_at
    FROM leave_policies
    WHERE id = $1
  `, policyID).Scan(&p.ID, &p.Type, &p.MaxDays, &p.CarryForward, &p.Accrual, &p.MinNoticeDays, &p.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Policy{}, ErrInvalidPolicy
	}
	if err != nil {
		return Policy{}, err
	}
	return p, nil
}

func (s *Store) ListPolicies(ctx context.Context) ([]Policy, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, type, max_days, carry_forward, accrual, min_notice_days, created_at
    FROM leave_policies
    ORDER BY type
  `)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var policies []Policy
	for rows.Next() {
		var p Policy
		if err := rows.Scan(&p.ID, &p.Type, &p.MaxDays, &p.CarryForward, &p.Accrual, &p.MinNoticeDays, &p.CreatedAt); err != nil {
			return nil, err
		}
		policies = append(policies, p)
	}
	return policies, rows.Err()
}

func (s *Store) GetBalance(ctx context.Context, userID, policyID string) (Balance, bool, error) {
	var b Balance
	err := s.DB.QueryRow(ctx, `
    SELECT lb.id, lb.user_id, lb.policy_id, lp.type, lb.balance_days, lb.updated_at
    FROM leave_balances lb
    JOIN leave_policies lp ON lb.policy_id = lp.id
    WHERE lb.user_id = $1 AND lb.policy_id = $2
  `, userID, policyID).Scan(&b.ID, &b.UserID, &b.PolicyID, &b.PolicyType, &b.BalanceDays, &b.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Balance{}, false, nil
	}
	if err != nil {
		return Balance{}, false, err
	}
	return b, true, nil
}

func (s *Store) ListBalances(ctx context.Context, userID string) ([]Balance, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT lb.id, lb.user_id, lb.policy_id, lp.type, lb.balance_days, lb.updated_at
    FROM leave_balances lb
    JOIN leave_policies lp ON lb.policy_id = lp.id
    WHERE lb.user_id = $1
    ORDER BY lp.type
  `, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var balances []Balance
	for rows.Next() {
		var b Balance
		if err := rows.Scan(&b.ID, &b.UserID, &b.PolicyID, &b.PolicyType, &b.BalanceDays, &b.UpdatedAt); err != nil {
			return nil, err
		}
		balances = append(balances, b)
	}
	return balances, rows.Err()
}

func (s *Store) HasOverlap(ctx context.Context, userID string, start, end time.Time, excludeRequestID string) (bool, error) {
	query := `
    SELECT COUNT(1)
    FROM leave_requests
    WHERE user_id = $1
      AND status IN ('PENDING', 'APPROVED')
      AND start_date <= $3 AND end_date >= $2
  `
	args := []any{userID, start, end}
	if excludeRequestID != "" {
		query += " AND id != $4"
		args = append(args, excludeRequestID)
	}

	var count int
	if err := s.DB.QueryRow(ctx, query, args...).Scan(&count); err != nil {
		return false, err
	}
	return count > 0, nil
}

func (s *Store) CreateRequest(ctx context.Context, q db.Querier, req Request) (Request, error) {
	err := q.QueryRow(ctx, `
    INSERT INTO leave_requests (user_id, user_email, policy_id, status, start_date, end_date, half_day, reason)
    VALUES ($1, $2, $3, $4, $5, $6, NULLIF($7, ''), $8)
    RETURNING id, created_at, updated_at
  `, req.UserID, req.UserEmail, req.PolicyID, req.Status, req.StartDate, req.EndDate, req.HalfDay, req.Reason).
		Scan(&req.ID, &req.CreatedAt, &req.UpdatedAt)
	if err != nil {
		return Request{}, err
	}
	return req, nil
}

func (s *Store) GetRequest(ctx context.Context, requestID string) (Request, error) {
	var req Request
	var halfDay, approvedBy *string
	err := s.DB.QueryRow(ctx, `
    SELECT lr.id, lr.user_id, lr.user_email, lr.policy_id, lp.type, lr.status,
           lr.start_date, lr.end_date, lr.half_day, lr.reason,
           lr.approved_by, lr.approved_at, lr.created_at, lr.updated_at
    FROM leave_requests lr
    JOIN leave_policies lp ON lr.policy_id = lp.id
    WHERE lr.id = $1
  `, requestID).Scan(&req.ID, &req.UserID, &req.UserEmail, &req.PolicyID, &req.PolicyType, &req.Status,
		&req.StartDate, &req.EndDate, &halfDay, &req.Reason,
		&approvedBy, &req.ApprovedAt, &req.CreatedAt, &req.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Request{}, ErrRequestNotFound
	}
	if err != nil {
		return Request{}, err
	}
	if halfDay != nil {
		req.HalfDay = *halfDay
	}
	if approvedBy != nil {
		req.ApprovedBy = *approvedBy
	}
	req.Days = CountDays(req.StartDate, req.EndDate, req.HalfDay)
	return req, nil
}

func (s *Store) ListRequests(ctx context.Context, filter RequestFilter) (RequestList, error) {
	where := "WHERE 1=1"
	args := []any{}
	if filter.UserID != "" {
		args = append(args, filter.UserID)
		where += fmt.Sprintf(" AND lr.user_id = $%d", len(args))
	}
	if filter.Status != "" {
		args = append(args, filter.Status)
		where += fmt.Sprintf(" AND lr.status = $%d", len(args))
	}
	if !filter.From.IsZero() {
		args = append(args, filter.From)
		where += fmt.Sprintf(" AND lr.end_date >= $%d", len(args))
	}
	if !filter.To.IsZero() {
		args = append(args, filter.To)
		where += fmt.Sprintf(" AND lr.start_date <= $%d", len(args))
	}

	var total int
	countQuery := "SELECT COUNT(1) FROM leave_requests lr " + where
	if err := s.DB.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return RequestList{}, err
	}

	args = append(args, filter.Limit, filter.Offset)
	query := fmt.Sprintf(`
    SELECT lr.id, lr.user_id, lr.user_email, lr.policy_id, lp.type, lr.status,
           lr.start_date, lr.end_date, lr.half_day, lr.reason,
           lr.approved_by, lr.approved_at, lr.created_at, lr.updated_at
    FROM leave_requests lr
    JOIN leave_policies lp ON lr.policy_id = lp.id
    %s
    ORDER BY lr.created_at DESC
    LIMIT $%d OFFSET $%d
  `, where, len(args)-1, len(args))

	rows, err := s.DB.Query(ctx, query, args...)
	if err != nil {
		return RequestList{}, err
	}
	defer rows.Close()

	requests := make([]Request, 0)
	for rows.Next() {
		var req Request
		var halfDay, approvedBy *string
		if err := rows.Scan(&req.ID, &req.UserID, &req.UserEmail, &req.PolicyID, &req.PolicyType, &req.Status,
			&req.StartDate, &req.EndDate, &halfDay, &req.Reason,
			&approvedBy, &req.ApprovedAt, &req.CreatedAt, &req.UpdatedAt); err != nil {
			return RequestList{}, err
		}
		if halfDay != nil {
			req.HalfDay = *halfDay
		}
		if approvedBy != nil {
			req.ApprovedBy = *approvedBy
		}
		req.Days = CountDays(req.StartDate, req.EndDate, req.HalfDay)
		requests = append(requests, req)
	}
	if err := rows.Err(); err != nil {
		return RequestList{}, err
	}
	return RequestList{Requests: requests, Total: total}, nil
}

// TransitionIfPending flips a request out of PENDING. The WHERE clause is the
// state machine guard: a request already in a terminal state matches no rows.
func (s *Store) TransitionIfPending(ctx context.Context, q db.Querier, requestID, status, actorID string, at time.Time) (bool, error) {
	tag, err := q.Exec(ctx, `
    UPDATE leave_requests
    SET status = $1, approved_by = $2, approved_at = $3, updated_at = now()
    WHERE id = $4 AND status = 'PENDING'
  `, status, actorID, at, requestID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (s *Store) InsertAudit(ctx context.Context, q db.Querier, entry AuditEntry) error {
	_, err := q.Exec(ctx, `
    INSERT INTO leave_audit (request_id, action, actor_id, notes)
    VALUES ($1, $2, $3, $4)
  `, entry.RequestID, entry.Action, entry.ActorID, entry.Notes)
	return err
}

func (s *Store) ListAudit(ctx context.Context, requestID string) ([]AuditEntry, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, request_id, action, actor_id, COALESCE(notes, ''), created_at
    FROM leave_audit
    WHERE request_id = $1
    ORDER BY created_at
  `, requestID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []AuditEntry
	for rows.Next() {
		var entry AuditEntry
		if err := rows.Scan(&entry.ID, &entry.RequestID, &entry.Action, &entry.ActorID, &entry.Notes, &entry.CreatedAt); err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}
