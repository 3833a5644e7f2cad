package db

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

type seedPolicy struct {
	Type          string
	MaxDays       string
	CarryForward  bool
	Accrual       string
	MinNoticeDays int
}

var defaultPolicies = []seedPolicy{
	{Type: "ANNUAL", MaxDays: "20", CarryForward: true, Accrual: "MONTHLY", MinNoticeDays: 7},
	{Type: "CASUAL", MaxDays: "10", CarryForward: false, Accrual: "YEARLY", MinNoticeDays: 1},
	{Type: "SICK", MaxDays: "12", CarryForward: false, Accrual: "MONTHLY", MinNoticeDays: 0},
	{Type: "UNPAID", MaxDays: "30", CarryForward: false, Accrual: "YEARLY", MinNoticeDays: 3},
}

func Seed(ctx context.Context, pool *pgxpool.Pool) error {
	for _, policy := range defaultPolicies {
		if err := ensurePolicy(ctx, pool, policy); err != nil {
			return err
		}
	}
	return nil
}

func ensurePolicy(ctx context.Context, pool *pgxpool.Pool, policy seedPolicy) error {
	var id string
	err := pool.QueryRow(ctx, "SELECT id FROM leave_policies WHERE type = $1", policy.Type).Scan(&id)
	if err == nil {
		return nil
	}

	_, err = pool.Exec(ctx,
		"INSERT INTO leave_policies (type, max_days, carry_forward, accrual, min_notice_days) VALUES ($1, $2, $3, $4, $5) ON CONFLICT (type) DO NOTHING",
		policy.Type, policy.MaxDays, policy.CarryForward, policy.Accrual, policy.MinNoticeDays)
	return err
}
