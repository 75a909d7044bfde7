package storage

import (
	"context"

	"facilitydesk/backend/internal/models"

	"gorm.io/gorm"
)

func (s *Service) ListTenants(ctx context.Context) ([]models.Tenant, error) {
	var tenants []models.Tenant
	err := s.DB.WithContext(ctx).Preload("Areas").Order("id").Find(&tenants).Error
	return tenants, err
}

func (s *Service) ListTenantSummaries(ctx context.Context) ([]TenantSummary, error) {
	var out []TenantSummary
	err := s.DB.WithContext(ctx).Model(&models.Tenant{}).
		Select("id", "tenant_name").
		Order("id").
		Scan(&out).Error
	return out, err
}

func (s *Service) TenantNames(ctx context.Context, ids []uint) (map[uint]string, error) {
	names := make(map[uint]string, len(ids))
	if len(ids) == 0 {
		return names, nil
	}
	var tenants []models.Tenant
	if err := s.DB.WithContext(ctx).Where("id IN ?", ids).Find(&tenants).Error; err != nil {
		return nil, err
	}
	for _, t := range tenants {
		names[t.ID] = t.TenantName
	}
	return names, nil
}

func (s *Service) GetTenant(ctx context.Context, id uint) (*models.Tenant, error) {
	var tenant models.Tenant
	if err := s.DB.WithContext(ctx).Preload("Areas").First(&tenant, id).Error; err != nil {
		return nil, translate(err)
	}
	return &tenant, nil
}

// CreateTenant inserts the tenant together with its areas.
func (s *Service) CreateTenant(ctx context.Context, t *models.Tenant) error {
	return translate(s.DB.WithContext(ctx).Create(t).Error)
}

// ReplaceTenant overwrites the tenant fields and swaps its whole area set.
func (s *Service) ReplaceTenant(ctx context.Context, t *models.Tenant) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing models.Tenant
		if err := tx.First(&existing, t.ID).Error; err != nil {
			return translate(err)
		}

		err := tx.Model(&existing).
			Select("tenant_name", "total_area_sq").
			Updates(models.Tenant{TenantName: t.TenantName, TotalAreaSq: t.TotalAreaSq}).Error
		if err != nil {
			return translate(err)
		}

		if err := tx.Where("tenant_id = ?", t.ID).Delete(&models.Area{}).Error; err != nil {
			return err
		}
		for i := range t.Areas {
			t.Areas[i].ID = 0
			t.Areas[i].TenantID = t.ID
		}
		if len(t.Areas) > 0 {
			if err := tx.Create(&t.Areas).Error; err != nil {
				return translate(err)
			}
		}

		t.CreatedAt = existing.CreatedAt
		t.UpdatedAt = existing.UpdatedAt
		return nil
	})
}

func (s *Service) DeleteTenant(ctx context.Context, id uint) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("tenant_id = ?", id).Delete(&models.Area{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.Tenant{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}
