package leave

import "errors"

var (
	ErrInvalidPolicy       = errors.New("invalid policy")
	ErrInvalidDateRange    = errors.New("end date must be on or after start date")
	ErrInsufficientNotice  = errors.New("minimum notice period not met")
	ErrLeaveOverlap        = errors.New("leave request overlaps an existing pending or approved request")
	ErrBalanceNotFound     = errors.New("leave balance not found")
	ErrInsufficientBalance = errors.New("insufficient leave balance")
	ErrRequestNotFound     = errors.New("leave request not found")
	ErrInvalidStatus       = errors.New("invalid status")
	ErrNotPending          = errors.New("request is not pending")
)
