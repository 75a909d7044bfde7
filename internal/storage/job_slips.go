package storage

import (
	"context"

	"facilitydesk/backend/internal/models"

	"gorm.io/gorm"
)

// jobSlipColumns are the fields a job slip update may overwrite.
var jobSlipColumns = []string{
	"job_id", "complain_no", "material_req", "action_taken", "attended_by",
	"remarks", "status", "supervisor_approval", "management_approval",
	"completed_at", "picture", "updated_at",
}

func (f JobSlipFilter) apply(db *gorm.DB) *gorm.DB {
	if f.JobID != "" {
		db = db.Where("job_id LIKE ?", contains(f.JobID))
	}
	if f.ComplainNo != "" {
		db = db.Where("complain_no LIKE ?", contains(f.ComplainNo))
	}
	if f.ComplainBy != "" {
		db = db.Where("complain_by LIKE ?", contains(f.ComplainBy))
	}
	if f.FloorNo != "" {
		db = db.Where("floor_no LIKE ?", contains(f.FloorNo))
	}
	if f.Status != "" {
		db = db.Where("status = ?", f.Status)
	}
	if f.DateFrom != nil {
		db = db.Where("date >= ?", *f.DateFrom)
	}
	if f.DateTo != nil {
		db = db.Where("date <= ?", *f.DateTo)
	}
	return db
}

func (s *Service) ListJobSlips(ctx context.Context, f JobSlipFilter, page Page) ([]models.JobSlip, int64, error) {
	var (
		items []models.JobSlip
		total int64
	)
	q := f.apply(s.DB.WithContext(ctx).Model(&models.JobSlip{})).Session(&gorm.Session{})
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := q.Order("date DESC").Order("id DESC").
		Offset(page.Offset()).Limit(page.Limit()).
		Find(&items).Error
	return items, total, err
}

func (s *Service) GetJobSlip(ctx context.Context, id uint) (*models.JobSlip, error) {
	var j models.JobSlip
	if err := s.DB.WithContext(ctx).First(&j, id).Error; err != nil {
		return nil, translate(err)
	}
	return &j, nil
}

func (s *Service) CreateJobSlip(ctx context.Context, j *models.JobSlip) error {
	return translate(s.DB.WithContext(ctx).Create(j).Error)
}

// UpdateJobSlip writes the mutable columns of j, zero values included.
func (s *Service) UpdateJobSlip(ctx context.Context, j *models.JobSlip) error {
	res := s.DB.WithContext(ctx).
		Model(&models.JobSlip{ID: j.ID}).
		Select(jobSlipColumns).
		Updates(j)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Service) DeleteJobSlip(ctx context.Context, id uint) error {
	res := s.DB.WithContext(ctx).Delete(&models.JobSlip{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// JobSlipStatuses returns the status of every job slip filed under complainNo.
func (s *Service) JobSlipStatuses(ctx context.Context, complainNo string) ([]string, error) {
	var statuses []string
	err := s.DB.WithContext(ctx).
		Model(&models.JobSlip{}).
		Where("complain_no = ?", complainNo).
		Pluck("status", &statuses).Error
	return statuses, err
}
