package leave

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	StatusPending   = "PENDING"
	StatusApproved  = "APPROVED"
	StatusRejected  = "REJECTED"
	StatusCancelled = "CANCELLED"
)

const (
	HalfDayAM = "AM"
	HalfDayPM = "PM"
)

type Policy struct {
	ID            string          `json:"id"`
	Type          string          `json:"type"`
	MaxDays       decimal.Decimal `json:"maxDays"`
	CarryForward  bool            `json:"carryForward"`
	Accrual       string          `json:"accrual"`
	MinNoticeDays int             `json:"minNoticeDays"`
	CreatedAt     time.Time       `json:"createdAt"`
}

type Balance struct {
	ID          string          `json:"id"`
	UserID      string          `json:"userId"`
	PolicyID    string          `json:"policyId"`
	PolicyType  string          `json:"policyType"`
	BalanceDays decimal.Decimal `json:"balanceDays"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

type Request struct {
	ID         string          `json:"id"`
	UserID     string          `json:"userId"`
	UserEmail  string          `json:"userEmail,omitempty"`
	PolicyID   string          `json:"policyId"`
	PolicyType string          `json:"policyType,omitempty"`
	Status     string          `json:"status"`
	StartDate  time.Time       `json:"startDate"`
	EndDate    time.Time       `json:"endDate"`
	HalfDay    string          `json:"halfDay,omitempty"`
	Days       decimal.Decimal `json:"days"`
	Reason     string          `json:"reason,omitempty"`
	ApprovedBy string          `json:"approvedBy,omitempty"`
	ApprovedAt *time.Time      `json:"approvedAt,omitempty"`
	CreatedAt  time.Time       `json:"createdAt"`
	UpdatedAt  time.Time       `json:"updatedAt"`
}

type AuditEntry struct {
	ID        string    `json:"id"`
	RequestID string    `json:"requestId"`
	Action    string    `json:"action"`
	ActorID   string    `json:"actorId"`
	Notes     string    `json:"notes,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

type RequestFilter struct {
	UserID string
	Status string
	From   time.Time
	To     time.Time
	Limit  int
	Offset int
}

type RequestList struct {
	Requests []Request `json:"requests"`
	Total    int       `json:"total"`
}

func ValidStatus(status string) bool {
	switch status {
	case StatusPending, StatusApproved, StatusRejected, StatusCancelled:
		return true
	}
	return false
}

func ValidHalfDay(marker string) bool {
	return marker == "" || marker == HalfDayAM || marker == HalfDayPM
}
