package leave

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"leavehub/internal/platform/db"
)

// Ledger is the only writer of leave_balances. Deductions are guarded in SQL
// so a balance can never go negative, even under concurrent approvals.
type Ledger struct {
	DB *pgxpool.Pool
}

func NewLedger(pool *pgxpool.Pool) *Ledger {
	return &Ledger{DB: pool}
}

func (l *Ledger) Deduct(ctx context.Context, q db.Querier, userID, policyID string, days decimal.Decimal) (decimal.Decimal, error) {
	var remaining decimal.Decimal
	err := q.QueryRow(ctx, `
    UPDATE leave_balances
    SET balance_days = balance_days - $3, updated_at = now()
    WHERE user_id = $1 AND policy_id = $2 AND balance_days >= $3
    RETURNING balance_days
  `, userID, policyID, days).Scan(&remaining)
	if errors.Is(err, pgx.ErrNoRows) {
		var exists bool
		checkErr := q.QueryRow(ctx,
			"SELECT EXISTS (SELECT 1 FROM leave_balances WHERE user_id = $1 AND policy_id = $2)",
			userID, policyID).Scan(&exists)
		if checkErr != nil {
			return decimal.Zero, checkErr
		}
		if !exists {
			return decimal.Zero, ErrBalanceNotFound
		}
		return decimal.Zero, ErrInsufficientBalance
	}
	if err != nil {
		return decimal.Zero, err
	}
	return remaining, nil
}

func (l *Ledger) Accrue(ctx context.Context, q db.Querier, userID, policyID string, days decimal.Decimal) (decimal.Decimal, error) {
	var balance decimal.Decimal
	err := q.QueryRow(ctx, `
    INSERT INTO leave_balances (user_id, policy_id, balance_days)
    VALUES ($1, $2, $3)
    ON CONFLICT (user_id, policy_id)
    DO UPDATE SET balance_days = leave_balances.balance_days + EXCLUDED.balance_days, updated_at = now()
    RETURNING balance_days
  `, userID, policyID, days).Scan(&balance)
	if err != nil {
		return decimal.Zero, err
	}
	return balance, nil
}

// AccrueCapped accrues but never lifts the balance above the policy cap,
// used for policies without carry-forward.
func (l *Ledger) AccrueCapped(ctx context.Context, q db.Querier, userID, policyID string, days, cap decimal.Decimal) (decimal.Decimal, error) {
	var balance decimal.Decimal
	err := q.QueryRow(ctx, `
    INSERT INTO leave_balances (user_id, policy_id, balance_days)
    VALUES ($1, $2, LEAST($3::numeric, $4::numeric))
    ON CONFLICT (user_id, policy_id)
    DO UPDATE SET balance_days = LEAST(leave_balances.balance_days + EXCLUDED.balance_days, $4::numeric), updated_at = now()
    RETURNING balance_days
  `, userID, policyID, days, cap).Scan(&balance)
	if err != nil {
		return decimal.Zero, err
	}
	return balance, nil
}
