package models

import (
	"time"
)

// Feedback statuses. New feedback always starts in StatusReviewing; only
// admins move it forward.
const (
	StatusReviewing  = "reviewing"
	StatusInProgress = "in_progress"
	StatusShipped    = "shipped"
)

// ValidFeedbackStatus reports whether status is one of the three known states.
func ValidFeedbackStatus(status string) bool {
	switch status {
	case StatusReviewing, StatusInProgress, StatusShipped:
		return true
	}
	return false
}

type Feedback struct {
	ID        int64
	Title     string
	Body      string
	Author    string // display name captured at submission time
	Status    string
	UserID    int64
	CreatedAt time.Time
}
