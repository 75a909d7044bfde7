// Package janitorial manages janitorial inspection reports and their
// per-floor sub-reports.
package janitorial

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"facilitydesk/backend/internal/logger"
	"facilitydesk/backend/internal/models"
	"facilitydesk/backend/internal/notify"
	"facilitydesk/backend/internal/storage"

	"github.com/sirupsen/logrus"
)

var ErrInvalid = errors.New("invalid janitorial report")

type Service struct {
	Storage    storage.Storage
	Dispatcher notify.Dispatcher
}

func NewService(s storage.Storage, d notify.Dispatcher) *Service {
	return &Service{Storage: s, Dispatcher: d}
}

// CreateReport stores a report with its sub-reports and announces it.
func (s *Service) CreateReport(ctx context.Context, actorID uint, r *models.JanitorialReport) error {
	if err := validate(r); err != nil {
		return err
	}
	r.ID = 0
	for i := range r.SubReports {
		r.SubReports[i].ID = 0
		r.SubReports[i].JanitorialReportID = 0
	}

	if err := s.Storage.CreateReport(ctx, r); err != nil {
		return err
	}

	logger.Log.WithFields(logrus.Fields{
		"report_id": r.ID,
		"actor_id":  actorID,
	}).Info("janitorial report created")

	if s.Dispatcher != nil {
		s.Dispatcher.Dispatch(ctx, notify.NewEvent(notify.JanitorialCreated, r.ID, actorID))
	}
	return nil
}

// UpdateReport rewrites the report header and reconciles its sub-reports by
// id in one transaction: rows missing from r are deleted, known rows are
// updated in place, and the rest are inserted.
func (s *Service) UpdateReport(ctx context.Context, r *models.JanitorialReport) (*models.JanitorialReport, error) {
	if err := validate(r); err != nil {
		return nil, err
	}

	err := s.Storage.Transaction(ctx, func(tx storage.Storage) error {
		if err := tx.UpdateReportFields(ctx, r); err != nil {
			return err
		}
		existing, err := tx.SubReportIDs(ctx, r.ID)
		if err != nil {
			return err
		}

		plan := Diff(existing, r.SubReports)
		if err := tx.DeleteSubReports(ctx, plan.Delete); err != nil {
			return err
		}
		for i := range plan.Update {
			plan.Update[i].JanitorialReportID = r.ID
			if err := tx.UpdateSubReport(ctx, &plan.Update[i]); err != nil {
				return err
			}
		}
		for i := range plan.Create {
			plan.Create[i].ID = 0
			plan.Create[i].JanitorialReportID = r.ID
			if err := tx.CreateSubReport(ctx, &plan.Create[i]); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.Storage.GetReport(ctx, r.ID)
}

func validate(r *models.JanitorialReport) error {
	if strings.TrimSpace(r.Supervisor) == "" || strings.TrimSpace(r.Tenant) == "" {
		return fmt.Errorf("%w: supervisor and tenant are required", ErrInvalid)
	}
	if len(r.SubReports) == 0 {
		return fmt.Errorf("%w: at least one sub-report is required", ErrInvalid)
	}
	return nil
}

// Plan is the set of writes that turns the stored sub-reports into the
// submitted ones.
type Plan struct {
	Delete []uint
	Update []models.SubJanReport
	Create []models.SubJanReport
}

// Diff compares stored sub-report ids with a submitted list. Submitted rows
// whose id is zero or not owned by the report become inserts.
func Diff(existing []uint, submitted []models.SubJanReport) Plan {
	owned := make(map[uint]bool, len(existing))
	for _, id := range existing {
		owned[id] = true
	}

	var plan Plan
	kept := make(map[uint]bool, len(submitted))
	for _, sub := range submitted {
		if sub.ID != 0 && owned[sub.ID] && !kept[sub.ID] {
			kept[sub.ID] = true
			plan.Update = append(plan.Update, sub)
			continue
		}
		plan.Create = append(plan.Create, sub)
	}
	for _, id := range existing {
		if !kept[id] {
			plan.Delete = append(plan.Delete, id)
		}
	}
	return plan
}
