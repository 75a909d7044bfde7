package complaint

import (
	"slices"
	"time"

	"facilitydesk/backend/internal/config"
	"facilitydesk/backend/internal/models"
)

// NextJobSlipStatus derives the stored status and completion time of a job
// slip update. Supervisor approval wins over everything; otherwise a picture
// marks the slip Resolved; otherwise the requested status is kept. A picture
// stamps completedAt with now unless the caller already supplied one.
func NextJobSlipStatus(requested string, picture models.RefList, supervisorApproval bool, completedAt *time.Time, now time.Time) (string, *time.Time) {
	status := requested

	if len(picture) > 0 {
		status = config.JobSlipResolved
		if completedAt == nil {
			stamp := now
			completedAt = &stamp
		}
	}
	if supervisorApproval {
		status = config.JobSlipVerifiedClosed
	}

	return status, completedAt
}

// AllCompleted reports whether a complaint's job slips warrant resolving it:
// there is at least one and every one is Completed.
func AllCompleted(statuses []string) bool {
	if len(statuses) == 0 {
		return false
	}
	for _, s := range statuses {
		if s != config.JobSlipCompleted {
			return false
		}
	}
	return true
}

func validComplaintStatus(s string) bool {
	return slices.Contains(config.ComplaintStatuses, s)
}

func validJobSlipStatus(s string) bool {
	return slices.Contains(config.JobSlipStatuses, s)
}
