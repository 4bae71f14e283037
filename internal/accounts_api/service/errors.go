package service

import "errors"

var (
	ErrSameAccountTransfer  = errors.New("source and destination accounts must differ")
	ErrInvalidDateRange     = errors.New("start date must not be after end date")
	ErrNoCommissionActivity = errors.New("no accounts with maintenance fee activity in range")
)
