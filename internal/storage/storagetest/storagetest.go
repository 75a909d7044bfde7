// Package storagetest opens throwaway sqlite databases seeded with a small,
// fixed staff directory for package tests.
package storagetest

import (
	"context"
	"fmt"
	"testing"

	"facilitydesk/backend/internal/config"
	"facilitydesk/backend/internal/models"
	"facilitydesk/backend/internal/storage"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Fixture ids. Technicians sit at 3, 7 and 9 so "3,7,abc,9" resolves to all of them.
const (
	AdminID       uint = 1
	ManagerID     uint = 2
	TechAID       uint = 3
	JanSupAID     uint = 4
	JanSupBID     uint = 5
	BookkeeperID  uint = 6
	TechBID       uint = 7
	MEPSupID      uint = 8
	TechCID       uint = 9
	Bookkeeper2ID uint = 10
	TenantUserID  uint = 11

	DeptMEP        uint = 1
	DeptJanitorial uint = 2
	DeptBuilding   uint = 3
)

// Open returns a migrated, empty store backed by a private in-memory database.
func Open(t *testing.T) *storage.Service {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, storage.Migrate(db))
	return storage.NewStorageService(db, nil)
}

// OpenSeeded is Open plus Seed.
func OpenSeeded(t *testing.T) *storage.Service {
	t.Helper()
	s := Open(t)
	Seed(t, s)
	return s
}

// Seed inserts roles, departments, notification templates and the fixture users.
func Seed(t *testing.T, s *storage.Service) {
	t.Helper()
	ctx := context.Background()

	roles := map[string]uint{}
	for _, name := range []string{
		config.RoleAdmin, config.RoleManager, config.RoleSupervisor,
		config.RoleBookkeeper, config.RoleTechnician, config.RoleTenant,
	} {
		r, err := s.EnsureRole(ctx, name)
		require.NoError(t, err)
		roles[name] = r.ID
	}

	for _, d := range []models.Department{
		{ID: DeptMEP, Name: "MEP", Code: "MEP"},
		{ID: DeptJanitorial, Name: "Janitorial", Code: "JAN"},
		{ID: DeptBuilding, Name: "Building", Code: "BLD"},
	} {
		require.NoError(t, s.DB.Create(&d).Error)
	}

	_, err := s.EnsureTemplate(ctx, config.TemplateJobSlipCreated, "job slip created")
	require.NoError(t, err)
	_, err = s.EnsureTemplate(ctx, config.TemplateJanitorialCreated, "janitorial report created")
	require.NoError(t, err)

	users := []struct {
		id   uint
		name string
		role string
		dept uint
	}{
		{AdminID, "Ada Admin", config.RoleAdmin, 0},
		{ManagerID, "Mark Manager", config.RoleManager, DeptMEP},
		{TechAID, "Tom Tech", config.RoleTechnician, DeptMEP},
		{JanSupAID, "Sue Super", config.RoleSupervisor, DeptJanitorial},
		{JanSupBID, "Sam Super", config.RoleSupervisor, DeptJanitorial},
		{BookkeeperID, "Bea Books", config.RoleBookkeeper, 0},
		{TechBID, "Tia Tech", config.RoleTechnician, DeptMEP},
		{MEPSupID, "Max Super", config.RoleSupervisor, DeptMEP},
		{TechCID, "Ted Tech", config.RoleTechnician, DeptMEP},
		{Bookkeeper2ID, "Bob Books", config.RoleBookkeeper, 0},
		{TenantUserID, "Acme Ltd", config.RoleTenant, 0},
	}
	for _, u := range users {
		roleID := roles[u.role]
		user := models.User{
			ID:     u.id,
			Name:   u.name,
			Email:  fmt.Sprintf("user%d@example.com", u.id),
			RoleID: &roleID,
		}
		if u.dept != 0 {
			dept := u.dept
			user.DepartmentID = &dept
		}
		require.NoError(t, s.CreateUser(ctx, &user))
	}
}
