package leave

import (
	"context"
	"time"
)

// Notifier delivers leave lifecycle emails. Failures are the notifier's
// problem; the lifecycle never blocks or fails on notification delivery.
type Notifier interface {
	LeaveRequested(req Request)
	LeaveDecided(req Request, notes string)
}

type Service struct {
	Store     *Store
	Ledger    *Ledger
	Validator *Validator
	Notify    Notifier
}

func NewService(store *Store, ledger *Ledger, validator *Validator) *Service {
	return &Service{Store: store, Ledger: ledger, Validator: validator}
}

type CreateRequestInput struct {
	UserID    string
	UserEmail string
	PolicyID  string
	StartDate time.Time
	EndDate   time.Time
	HalfDay   string
	Reason    string
}

func (s *Service) CreateRequest(ctx context.Context, input CreateRequestInput) (Request, error) {
	days, err := s.Validator.Validate(ctx, input.UserID, input.PolicyID, input.StartDate, input.EndDate, input.HalfDay, "")
	if err != nil {
		return Request{}, err
	}

	tx, err := s.Store.BeginTx(ctx)
	if err != nil {
		return Request{}, err
	}
	defer tx.Rollback(ctx)

	req, err := s.Store.CreateRequest(ctx, tx, Request{
		UserID:    input.UserID,
		UserEmail: input.UserEmail,
		PolicyID:  input.PolicyID,
		Status:    StatusPending,
		StartDate: input.StartDate,
		EndDate:   input.EndDate,
		HalfDay:   input.HalfDay,
		Reason:    input.Reason,
	})
	if err != nil {
		return Request{}, err
	}
	req.Days = days

	if err := s.Store.InsertAudit(ctx, tx, AuditEntry{
		RequestID: req.ID,
		Action:    "CREATED",
		ActorID:   input.UserID,
	}); err != nil {
		return Request{}, err
	}

	if err := tx.Commit(ctx); err != nil {
		return Request{}, err
	}

	if s.Notify != nil {
		s.Notify.LeaveRequested(req)
	}
	return req, nil
}

// Transition moves a pending request to a terminal state. Approval deducts
// the balance in the same transaction as the status flip, so a request can
// never end up approved without its days deducted (or vice versa).
func (s *Service) Transition(ctx context.Context, requestID, status, actorID, notes string) (Request, error) {
	switch status {
	case StatusApproved, StatusRejected, StatusCancelled:
	default:
		return Request{}, ErrInvalidStatus
	}

	req, err := s.Store.GetRequest(ctx, requestID)
	if err != nil {
		return Request{}, err
	}

	tx, err := s.Store.BeginTx(ctx)
	if err != nil {
		return Request{}, err
	}
	defer tx.Rollback(ctx)

	now := time.Now().UTC()
	moved, err := s.Store.TransitionIfPending(ctx, tx, requestID, status, actorID, now)
	if err != nil {
		return Request{}, err
	}
	if !moved {
		return Request{}, ErrNotPending
	}

	if err := s.Store.InsertAudit(ctx, tx, AuditEntry{
		RequestID: requestID,
		Action:    status,
		ActorID:   actorID,
		Notes:     notes,
	}); err != nil {
		return Request{}, err
	}

	if status == StatusApproved {
		days := CountDays(req.StartDate, req.EndDate, req.HalfDay)
		if _, err := s.Ledger.Deduct(ctx, tx, req.UserID, req.PolicyID, days); err != nil {
			return Request{}, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return Request{}, err
	}

	req.Status = status
	req.ApprovedBy = actorID
	req.ApprovedAt = &now

	if s.Notify != nil {
		s.Notify.LeaveDecided(req, notes)
	}
	return req, nil
}

func (s *Service) ListPolicies(ctx context.Context) ([]Policy, error) {
	return s.Store.ListPolicies(ctx)
}

func (s *Service) ListBalances(ctx context.Context, userID string) ([]Balance, error) {
	return s.Store.ListBalances(ctx, userID)
}

func (s *Service) ListRequests(ctx context.Context, filter RequestFilter) (RequestList, error) {
	return s.Store.ListRequests(ctx, filter)
}

func (s *Service) GetRequest(ctx context.Context, requestID string) (Request, error) {
	return s.Store.GetRequest(ctx, requestID)
}
