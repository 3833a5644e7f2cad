package leave

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

type ValidationStore interface {
	GetPolicy(ctx context.Context, policyID string) (Policy, error)
	HasOverlap(ctx context.Context, userID string, start, end time.Time, excludeRequestID string) (bool, error)
	GetBalance(ctx context.Context, userID, policyID string) (Balance, bool, error)
}

// Validator runs the policy checks for a proposed leave request, in a fixed
// order, stopping at the first failure.
type Validator struct {
	Store ValidationStore
	Now   func() time.Time
}

func NewValidator(store ValidationStore) *Validator {
	return &Validator{Store: store, Now: time.Now}
}

// Validate returns the day count the request would consume, or the first
// rule violation: ErrInvalidPolicy, ErrInvalidDateRange, ErrInsufficientNotice,
// ErrLeaveOverlap, ErrBalanceNotFound or ErrInsufficientBalance.
func (v *Validator) Validate(ctx context.Context, userID, policyID string, start, end time.Time, halfDay, excludeRequestID string) (decimal.Decimal, error) {
	policy, err := v.Store.GetPolicy(ctx, policyID)
	if err != nil {
		return decimal.Zero, err
	}

	if truncateDay(end).Before(truncateDay(start)) {
		return decimal.Zero, ErrInvalidDateRange
	}

	// A span that covers no business days consumes nothing and is rejected
	// outright rather than stored as a zero-day request.
	days := CountDays(start, end, halfDay)
	if !days.IsPositive() {
		return decimal.Zero, ErrInvalidDateRange
	}

	if NoticeBusinessDays(v.Now().UTC(), start) < policy.MinNoticeDays {
		return decimal.Zero, ErrInsufficientNotice
	}

	overlap, err := v.Store.HasOverlap(ctx, userID, start, end, excludeRequestID)
	if err != nil {
		return decimal.Zero, err
	}
	if overlap {
		return decimal.Zero, ErrLeaveOverlap
	}

	balance, found, err := v.Store.GetBalance(ctx, userID, policyID)
	if err != nil {
		return decimal.Zero, err
	}
	if !found {
		return decimal.Zero, ErrBalanceNotFound
	}

	if days.GreaterThan(balance.BalanceDays) {
		return decimal.Zero, ErrInsufficientBalance
	}

	return days, nil
}
