package dto

import (
	"barback/internal/domain/till"
)

// OpenTillRequest opens a drawer session with a counted opening float.
type OpenTillRequest struct {
	OpenedBy string             `json:"openedBy" binding:"required"`
	Counts   till.Denominations `json:"counts"`
}

// CloseTillRequest counts down the open session.
type CloseTillRequest struct {
	Counts till.Denominations `json:"counts"`
}
