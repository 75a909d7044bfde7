package storage

import (
	"context"

	"facilitydesk/backend/internal/models"

	"gorm.io/gorm"
)

func (s *Service) GetUser(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := s.DB.WithContext(ctx).Preload("Role").First(&user, id).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

// UsersByIDs returns the users that exist among ids, ordered by id.
func (s *Service) UsersByIDs(ctx context.Context, ids []uint) ([]models.User, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var users []models.User
	err := s.DB.WithContext(ctx).Where("id IN ?", ids).Order("id").Find(&users).Error
	return users, err
}

func (s *Service) UserNames(ctx context.Context, ids []uint) (map[uint]string, error) {
	users, err := s.UsersByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	names := make(map[uint]string, len(users))
	for _, u := range users {
		names[u.ID] = u.Name
	}
	return names, nil
}

func (s *Service) byRole(ctx context.Context, role string) *gorm.DB {
	return s.DB.WithContext(ctx).
		Select("users.*").
		Joins("JOIN roles ON roles.id = users.role_id").
		Where("roles.name = ?", role).
		Order("users.id")
}

func (s *Service) UsersByRole(ctx context.Context, role string) ([]models.User, error) {
	var users []models.User
	err := s.byRole(ctx, role).Find(&users).Error
	return users, err
}

func (s *Service) UsersByRoleInDepartment(ctx context.Context, role string, departmentID uint) ([]models.User, error) {
	var users []models.User
	err := s.byRole(ctx, role).Where("users.department_id = ?", departmentID).Find(&users).Error
	return users, err
}

// UsersByRoleInDepartmentNames matches departments by name, e.g. the
// supervisors of "Building" and "Janitorial".
func (s *Service) UsersByRoleInDepartmentNames(ctx context.Context, role string, names []string) ([]models.User, error) {
	if len(names) == 0 {
		return nil, nil
	}
	var users []models.User
	err := s.byRole(ctx, role).
		Joins("JOIN departments ON departments.id = users.department_id").
		Where("departments.name IN ?", names).
		Find(&users).Error
	return users, err
}

// FirstUserByRole returns the lowest-id user holding role.
func (s *Service) FirstUserByRole(ctx context.Context, role string) (*models.User, error) {
	var user models.User
	if err := s.byRole(ctx, role).Limit(1).Take(&user).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (s *Service) GetDepartment(ctx context.Context, id uint) (*models.Department, error) {
	var dept models.Department
	if err := s.DB.WithContext(ctx).First(&dept, id).Error; err != nil {
		return nil, translate(err)
	}
	return &dept, nil
}

func (s *Service) DepartmentNames(ctx context.Context, ids []uint) (map[uint]string, error) {
	names := make(map[uint]string, len(ids))
	if len(ids) == 0 {
		return names, nil
	}
	var depts []models.Department
	if err := s.DB.WithContext(ctx).Where("id IN ?", ids).Find(&depts).Error; err != nil {
		return nil, err
	}
	for _, d := range depts {
		names[d.ID] = d.Name
	}
	return names, nil
}

func (s *Service) GetTemplateByName(ctx context.Context, name string) (*models.NotificationTemplate, error) {
	var tpl models.NotificationTemplate
	if err := s.DB.WithContext(ctx).Where("name = ?", name).First(&tpl).Error; err != nil {
		return nil, translate(err)
	}
	return &tpl, nil
}

// EnsureRole, EnsureDepartment and EnsureTemplate back the seed command.

func (s *Service) EnsureRole(ctx context.Context, name string) (*models.Role, error) {
	role := models.Role{Name: name}
	err := s.DB.WithContext(ctx).Where(models.Role{Name: name}).FirstOrCreate(&role).Error
	return &role, err
}

func (s *Service) EnsureDepartment(ctx context.Context, name, code string) (*models.Department, error) {
	dept := models.Department{Name: name, Code: code}
	err := s.DB.WithContext(ctx).Where(models.Department{Code: code}).FirstOrCreate(&dept).Error
	return &dept, err
}

func (s *Service) EnsureTemplate(ctx context.Context, name, description string) (*models.NotificationTemplate, error) {
	tpl := models.NotificationTemplate{Name: name, Description: description}
	err := s.DB.WithContext(ctx).Where(models.NotificationTemplate{Name: name}).FirstOrCreate(&tpl).Error
	return &tpl, err
}

func (s *Service) CreateUser(ctx context.Context, user *models.User) error {
	return translate(s.DB.WithContext(ctx).Create(user).Error)
}
