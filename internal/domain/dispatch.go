package domain

import "time"

// DispatchReport summarises one fan-out of a published notification.
type DispatchReport struct {
	ReportID       string    `json:"id"`
	NotificationID string    `json:"notificationId"`
	Devices        int       `json:"devices"`
	Skipped        int       `json:"skipped"` // tokens that failed the format check
	Batches        int       `json:"batches"`
	FailedBatches  int       `json:"failedBatches"`
	Accepted       int       `json:"accepted"`
	Rejected       int       `json:"rejected"`
	Pruned         int       `json:"pruned"`
	PruneFailures  int       `json:"pruneFailures"`
	StartedAt      time.Time `json:"startedAt"`
	FinishedAt     time.Time `json:"finishedAt"`
}
