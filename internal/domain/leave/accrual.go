package leave

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"leavehub/internal/platform/db"
)

type AccrualSummary struct {
	PoliciesProcessed int `json:"policiesProcessed"`
	BalancesAccrued   int `json:"balancesAccrued"`
}

var monthsPerYear = decimal.NewFromInt(12)

// ApplyAccruals credits every known balance once per accrual period. A run
// for a (policy, period) pair is recorded first; a conflict on the record
// means another instance already handled it, so the policy is skipped.
func (s *Service) ApplyAccruals(ctx context.Context, now time.Time) (AccrualSummary, error) {
	var summary AccrualSummary

	policies, err := s.Store.ListPolicies(ctx)
	if err != nil {
		return summary, err
	}

	for _, policy := range policies {
		periodStart := accrualPeriodStart(now, policy.Accrual)
		if periodStart.IsZero() {
			continue
		}

		amount := policy.MaxDays
		if policy.Accrual == "MONTHLY" {
			amount = policy.MaxDays.Div(monthsPerYear).Round(1)
		}
		if !amount.IsPositive() {
			continue
		}

		tx, err := s.Store.BeginTx(ctx)
		if err != nil {
			return summary, err
		}

		tag, err := tx.Exec(ctx, `
      INSERT INTO leave_accrual_runs (policy_id, period_start)
      VALUES ($1, $2)
      ON CONFLICT (policy_id, period_start) DO NOTHING
    `, policy.ID, periodStart)
		if err != nil {
			_ = tx.Rollback(ctx)
			return summary, err
		}
		if tag.RowsAffected() == 0 {
			_ = tx.Rollback(ctx)
			continue
		}

		userIDs, err := balanceHolders(ctx, tx, policy.ID)
		if err != nil {
			_ = tx.Rollback(ctx)
			return summary, err
		}

		for _, userID := range userIDs {
			if policy.CarryForward {
				_, err = s.Ledger.Accrue(ctx, tx, userID, policy.ID, amount)
			} else {
				_, err = s.Ledger.AccrueCapped(ctx, tx, userID, policy.ID, amount, policy.MaxDays)
			}
			if err != nil {
				_ = tx.Rollback(ctx)
				return summary, err
			}
			summary.BalancesAccrued++
		}

		if err := tx.Commit(ctx); err != nil {
			return summary, err
		}
		summary.PoliciesProcessed++
	}

	return summary, nil
}

func balanceHolders(ctx context.Context, q db.Querier, policyID string) ([]string, error) {
	rows, err := q.Query(ctx, "SELECT user_id FROM leave_balances WHERE policy_id = $1", policyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func accrualPeriodStart(now time.Time, cadence string) time.Time {
	switch cadence {
	case "MONTHLY":
		return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	case "YEARLY":
		return time.Date(now.Year(), 1, 1, 0, 0, 0, 0, time.UTC)
	}
	return time.Time{}
}
