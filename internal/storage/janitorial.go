package storage

import (
	"context"

	"facilitydesk/backend/internal/models"

	"gorm.io/gorm"
)

func (f ReportFilter) apply(db *gorm.DB) *gorm.DB {
	if f.Supervisor != "" {
		db = db.Where("LOWER(supervisor) LIKE LOWER(?)", contains(f.Supervisor))
	}
	if f.DateFrom != nil {
		db = db.Where("date >= ?", *f.DateFrom)
	}
	if f.DateTo != nil {
		db = db.Where("date <= ?", *f.DateTo)
	}
	return db
}

func (s *Service) ListReports(ctx context.Context, f ReportFilter, page Page) ([]models.JanitorialReport, int64, error) {
	var (
		items []models.JanitorialReport
		total int64
	)
	q := f.apply(s.DB.WithContext(ctx).Model(&models.JanitorialReport{})).Session(&gorm.Session{})
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := q.Preload("SubReports", func(db *gorm.DB) *gorm.DB { return db.Order("id") }).
		Order("date DESC").Order("id DESC").
		Offset(page.Offset()).Limit(page.Limit()).
		Find(&items).Error
	return items, total, err
}

func (s *Service) GetReport(ctx context.Context, id uint) (*models.JanitorialReport, error) {
	var r models.JanitorialReport
	err := s.DB.WithContext(ctx).
		Preload("SubReports", func(db *gorm.DB) *gorm.DB { return db.Order("id") }).
		First(&r, id).Error
	if err != nil {
		return nil, translate(err)
	}
	return &r, nil
}

// CreateReport inserts the report and its sub-reports.
func (s *Service) CreateReport(ctx context.Context, r *models.JanitorialReport) error {
	return translate(s.DB.WithContext(ctx).Create(r).Error)
}

// UpdateReportFields writes the header columns only; sub-reports are left alone.
func (s *Service) UpdateReportFields(ctx context.Context, r *models.JanitorialReport) error {
	res := s.DB.WithContext(ctx).
		Model(&models.JanitorialReport{ID: r.ID}).
		Updates(map[string]any{
			"date":       r.Date,
			"supervisor": r.Supervisor,
			"tenant":     r.Tenant,
			"remarks":    r.Remarks,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Service) DeleteReport(ctx context.Context, id uint) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("janitorial_report_id = ?", id).Delete(&models.SubJanReport{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.JanitorialReport{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}

func (s *Service) SubReportIDs(ctx context.Context, reportID uint) ([]uint, error) {
	var ids []uint
	err := s.DB.WithContext(ctx).
		Model(&models.SubJanReport{}).
		Where("janitorial_report_id = ?", reportID).
		Order("id").
		Pluck("id", &ids).Error
	return ids, err
}

func (s *Service) DeleteSubReports(ctx context.Context, ids []uint) error {
	if len(ids) == 0 {
		return nil
	}
	return s.DB.WithContext(ctx).Delete(&models.SubJanReport{}, ids).Error
}

func (s *Service) UpdateSubReport(ctx context.Context, sub *models.SubJanReport) error {
	res := s.DB.WithContext(ctx).
		Model(&models.SubJanReport{ID: sub.ID}).
		Select("floor_no", "toilet", "lobby", "staircase").
		Updates(sub)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Service) CreateSubReport(ctx context.Context, sub *models.SubJanReport) error {
	return s.DB.WithContext(ctx).Create(sub).Error
}
