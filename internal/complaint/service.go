// Package complaint owns the lifecycle of feedback complaints and the job
// slips raised against them.
package complaint

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"facilitydesk/backend/internal/config"
	"facilitydesk/backend/internal/logger"
	"facilitydesk/backend/internal/models"
	"facilitydesk/backend/internal/notify"
	"facilitydesk/backend/internal/storage"

	"github.com/sirupsen/logrus"
)

type Service struct {
	Storage    storage.Storage
	Dispatcher notify.Dispatcher
	Now        func() time.Time
}

func NewService(s storage.Storage, d notify.Dispatcher) *Service {
	return &Service{Storage: s, Dispatcher: d, Now: time.Now}
}

// CreateComplaint assigns a fresh complaint number and stores c. Two creates
// in the same millisecond collide on the unique index and the second fails
// with storage.ErrDuplicate.
func (s *Service) CreateComplaint(ctx context.Context, c *models.FeedbackComplain) error {
	if c.Status != "" && !validComplaintStatus(c.Status) {
		return invalid("status", fmt.Sprintf("unknown status %q", c.Status))
	}
	c.ID = 0
	c.ComplainNo = GenerateComplainNo(s.Now())
	return s.Storage.CreateComplaint(ctx, c)
}

// UpdateComplaint overwrites the editable fields of an existing complaint.
// The complaint number never changes.
func (s *Service) UpdateComplaint(ctx context.Context, c *models.FeedbackComplain) (*models.FeedbackComplain, error) {
	if strings.TrimSpace(c.Complain) == "" {
		return nil, invalid("complain", "is required")
	}
	if c.Date.IsZero() {
		return nil, invalid("date", "is required")
	}
	if !validComplaintStatus(c.Status) {
		return nil, invalid("status", fmt.Sprintf("unknown status %q", c.Status))
	}

	if err := s.Storage.UpdateComplaint(ctx, c); err != nil {
		return nil, err
	}
	return s.Storage.GetComplaint(ctx, c.ID)
}

// CreateJobSlip stores a new Pending job slip under an existing complaint and
// moves that complaint to In Progress in the same transaction. Notifications
// are dispatched once the transaction has committed.
func (s *Service) CreateJobSlip(ctx context.Context, actorID uint, in *models.JobSlip) (*models.JobSlip, error) {
	if strings.TrimSpace(in.ComplainNo) == "" {
		return nil, invalid("complainNo", "is required")
	}
	if strings.TrimSpace(in.ComplaintDesc) == "" {
		return nil, invalid("complaintDesc", "is required")
	}

	slip := *in
	slip.ID = 0
	slip.Status = config.JobSlipPending
	slip.CompletedAt = nil

	err := s.Storage.Transaction(ctx, func(tx storage.Storage) error {
		if _, err := tx.GetComplaintByNo(ctx, slip.ComplainNo); err != nil {
			return dependency("complaint "+slip.ComplainNo, err)
		}
		dept, err := tx.GetDepartment(ctx, slip.DepartmentID)
		if err != nil {
			return dependency(fmt.Sprintf("department %d", slip.DepartmentID), err)
		}

		slip.JobID, err = GenerateJobSlipID(dept.Code, slip.Area, s.Now())
		if err != nil {
			return fmt.Errorf("%w: department %d: %v", storage.ErrDependencyNotFound, dept.ID, err)
		}
		if err := tx.CreateJobSlip(ctx, &slip); err != nil {
			return err
		}
		return tx.SetComplaintStatus(ctx, slip.ComplainNo, config.ComplaintInProgress)
	})
	if err != nil {
		return nil, err
	}

	logger.Log.WithFields(logrus.Fields{
		"job_id":      slip.JobID,
		"complain_no": slip.ComplainNo,
		"actor_id":    actorID,
	}).Info("job slip created")

	if s.Dispatcher != nil {
		s.Dispatcher.Dispatch(ctx, notify.NewEvent(notify.JobSlipCreated, slip.ID, actorID))
	}
	return &slip, nil
}

// UpdateJobSlip applies a job slip edit, derives its status and, when every
// slip of the complaint is Completed, resolves the complaint. Both writes
// share one transaction.
func (s *Service) UpdateJobSlip(ctx context.Context, in *models.JobSlip) (*models.JobSlip, error) {
	if strings.TrimSpace(in.JobID) == "" {
		return nil, invalid("jobId", "is required")
	}
	if strings.TrimSpace(in.ComplainNo) == "" {
		return nil, invalid("complainNo", "is required")
	}
	if !validJobSlipStatus(in.Status) {
		return nil, invalid("status", fmt.Sprintf("unknown status %q", in.Status))
	}

	var updated *models.JobSlip
	err := s.Storage.Transaction(ctx, func(tx storage.Storage) error {
		slip, err := tx.GetJobSlip(ctx, in.ID)
		if err != nil {
			return err
		}

		slip.JobID = in.JobID
		slip.ComplainNo = in.ComplainNo
		slip.MaterialReq = in.MaterialReq
		slip.ActionTaken = in.ActionTaken
		slip.AttendedBy = in.AttendedBy
		slip.Remarks = in.Remarks
		slip.SupervisorApproval = in.SupervisorApproval
		slip.ManagementApproval = in.ManagementApproval
		slip.Picture = in.Picture
		slip.Status, slip.CompletedAt = NextJobSlipStatus(in.Status, in.Picture, in.SupervisorApproval, in.CompletedAt, s.Now())

		if err := tx.UpdateJobSlip(ctx, slip); err != nil {
			return err
		}
		if _, err := recompute(ctx, tx, slip.ComplainNo); err != nil {
			return err
		}
		updated = slip
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// RecomputeComplaint re-runs the completion cascade for one complaint and
// reports whether it was resolved.
func (s *Service) RecomputeComplaint(ctx context.Context, complainNo string) (bool, error) {
	var resolved bool
	err := s.Storage.Transaction(ctx, func(tx storage.Storage) error {
		var err error
		resolved, err = recompute(ctx, tx, complainNo)
		return err
	})
	return resolved, err
}

func recompute(ctx context.Context, st storage.Storage, complainNo string) (bool, error) {
	statuses, err := st.JobSlipStatuses(ctx, complainNo)
	if err != nil {
		return false, err
	}
	if !AllCompleted(statuses) {
		return false, nil
	}

	err = st.SetComplaintStatus(ctx, complainNo, config.ComplaintResolved)
	if errors.Is(err, storage.ErrNotFound) {
		// slips filed under a complaint that no longer exists
		return false, nil
	}
	return err == nil, err
}

func dependency(what string, err error) error {
	if errors.Is(err, storage.ErrNotFound) {
		return fmt.Errorf("%w: %s", storage.ErrDependencyNotFound, what)
	}
	return err
}
