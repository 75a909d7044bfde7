package storage

import (
	"context"

	"facilitydesk/backend/internal/models"

	"gorm.io/gorm"
)

// complaintColumns are the fields a complaint update may overwrite.
var complaintColumns = []string{
	"complain", "date", "complain_by", "floor_no", "area", "location", "locations",
	"list_services", "material_req", "action_taken", "attended_by", "remarks",
	"status", "tenant_id", "updated_at",
}

func (s *Service) ListComplaints(ctx context.Context, page Page) ([]models.FeedbackComplain, int64, error) {
	var (
		items []models.FeedbackComplain
		total int64
	)
	q := s.DB.WithContext(ctx).Model(&models.FeedbackComplain{}).Session(&gorm.Session{})
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := q.Preload("Tenant").
		Order("date DESC").Order("id DESC").
		Offset(page.Offset()).Limit(page.Limit()).
		Find(&items).Error
	return items, total, err
}

// GetComplaint loads a complaint with its tenant and job slips.
func (s *Service) GetComplaint(ctx context.Context, id uint) (*models.FeedbackComplain, error) {
	var c models.FeedbackComplain
	err := s.DB.WithContext(ctx).
		Preload("Tenant").
		Preload("JobSlips", func(db *gorm.DB) *gorm.DB { return db.Order("date DESC") }).
		First(&c, id).Error
	if err != nil {
		return nil, translate(err)
	}
	return &c, nil
}

func (s *Service) GetComplaintByNo(ctx context.Context, complainNo string) (*models.FeedbackComplain, error) {
	var c models.FeedbackComplain
	if err := s.DB.WithContext(ctx).Where("complain_no = ?", complainNo).First(&c).Error; err != nil {
		return nil, translate(err)
	}
	return &c, nil
}

func (s *Service) CreateComplaint(ctx context.Context, c *models.FeedbackComplain) error {
	return translate(s.DB.WithContext(ctx).Create(c).Error)
}

// UpdateComplaint writes every editable column of c. ComplainNo is immutable.
func (s *Service) UpdateComplaint(ctx context.Context, c *models.FeedbackComplain) error {
	res := s.DB.WithContext(ctx).
		Model(&models.FeedbackComplain{ID: c.ID}).
		Select(complaintColumns).
		Updates(c)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteComplaint removes a complaint and the job slips filed under it.
func (s *Service) DeleteComplaint(ctx context.Context, id uint) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var c models.FeedbackComplain
		if err := tx.First(&c, id).Error; err != nil {
			return translate(err)
		}
		if err := tx.Where("complain_no = ?", c.ComplainNo).Delete(&models.JobSlip{}).Error; err != nil {
			return err
		}
		return tx.Delete(&c).Error
	})
}

func (s *Service) SetComplaintStatus(ctx context.Context, complainNo, status string) error {
	res := s.DB.WithContext(ctx).
		Model(&models.FeedbackComplain{}).
		Where("complain_no = ?", complainNo).
		Update("status", status)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
