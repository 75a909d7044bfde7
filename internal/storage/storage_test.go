package storage_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"facilitydesk/backend/internal/config"
	"facilitydesk/backend/internal/models"
	"facilitydesk/backend/internal/storage"
	"facilitydesk/backend/internal/storage/storagetest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPage(t *testing.T) {
	assert.Equal(t, 0, storage.Page{Number: 1}.Offset())
	assert.Equal(t, 0, storage.Page{Number: 0}.Offset())
	assert.Equal(t, 20, storage.Page{Number: 3}.Offset())

	assert.True(t, storage.Page{Number: 1}.HasNext(11))
	assert.False(t, storage.Page{Number: 1}.HasNext(10))
	assert.False(t, storage.Page{Number: 2}.HasNext(15))
}

func TestRecipientQueries(t *testing.T) {
	s := storagetest.OpenSeeded(t)
	ctx := context.Background()

	managers, err := s.UsersByRole(ctx, config.RoleManager)
	require.NoError(t, err)
	require.Len(t, managers, 1)
	assert.Equal(t, "Mark Manager", managers[0].Name)

	sups, err := s.UsersByRoleInDepartmentNames(ctx, config.RoleSupervisor, config.JanitorialDepartments)
	require.NoError(t, err)
	assert.Len(t, sups, 2, "the MEP supervisor must not be included")

	deptManagers, err := s.UsersByRoleInDepartment(ctx, config.RoleManager, storagetest.DeptJanitorial)
	require.NoError(t, err)
	assert.Empty(t, deptManagers)

	first, err := s.FirstUserByRole(ctx, config.RoleBookkeeper)
	require.NoError(t, err)
	assert.Equal(t, storagetest.BookkeeperID, first.ID)

	_, err = s.FirstUserByRole(ctx, "Nobody")
	assert.ErrorIs(t, err, storage.ErrNotFound)

	names, err := s.UserNames(ctx, []uint{storagetest.TechAID, 999})
	require.NoError(t, err)
	assert.Equal(t, map[uint]string{storagetest.TechAID: "Tom Tech"}, names)
}

func TestComplaint_DuplicateNumber(t *testing.T) {
	s := storagetest.Open(t)
	ctx := context.Background()

	require.NoError(t, s.CreateComplaint(ctx, &models.FeedbackComplain{ComplainNo: "CMP-1", Complain: "leak"}))
	err := s.CreateComplaint(ctx, &models.FeedbackComplain{ComplainNo: "CMP-1", Complain: "other"})

	assert.True(t, errors.Is(err, storage.ErrDuplicate), "got %v", err)
}

func TestComplaint_StatusAndDelete(t *testing.T) {
	s := storagetest.Open(t)
	ctx := context.Background()

	c := &models.FeedbackComplain{ComplainNo: "CMP-2", Complain: "noise", Status: config.ComplaintPending}
	require.NoError(t, s.CreateComplaint(ctx, c))
	require.NoError(t, s.CreateJobSlip(ctx, &models.JobSlip{JobID: "MEP-GEN-1", ComplainNo: "CMP-2"}))

	require.NoError(t, s.SetComplaintStatus(ctx, "CMP-2", config.ComplaintInProgress))
	assert.ErrorIs(t, s.SetComplaintStatus(ctx, "CMP-404", config.ComplaintResolved), storage.ErrNotFound)

	got, err := s.GetComplaint(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, config.ComplaintInProgress, got.Status)
	require.Len(t, got.JobSlips, 1)

	require.NoError(t, s.DeleteComplaint(ctx, c.ID))
	statuses, err := s.JobSlipStatuses(ctx, "CMP-2")
	require.NoError(t, err)
	assert.Empty(t, statuses)
}

func TestJobSlip_UpdateWritesZeroValues(t *testing.T) {
	s := storagetest.Open(t)
	ctx := context.Background()

	j := &models.JobSlip{JobID: "MEP-LOB-1", ComplainNo: "CMP-3", SupervisorApproval: true, Remarks: "x"}
	require.NoError(t, s.CreateJobSlip(ctx, j))

	j.SupervisorApproval = false
	j.Remarks = ""
	j.AttendedBy = models.IDList{3, 9}
	require.NoError(t, s.UpdateJobSlip(ctx, j))

	got, err := s.GetJobSlip(ctx, j.ID)
	require.NoError(t, err)
	assert.False(t, got.SupervisorApproval)
	assert.Empty(t, got.Remarks)
	assert.Equal(t, models.IDList{3, 9}, got.AttendedBy)
	assert.Nil(t, got.Picture)

	assert.ErrorIs(t, s.UpdateJobSlip(ctx, &models.JobSlip{ID: 999, JobID: "x"}), storage.ErrNotFound)
}

func TestListJobSlips_Filters(t *testing.T) {
	s := storagetest.Open(t)
	ctx := context.Background()

	day := func(d int) time.Time { return time.Date(2024, 3, d, 10, 0, 0, 0, time.UTC) }
	for i, j := range []models.JobSlip{
		{JobID: "MEP-LOB-1", ComplainNo: "CMP-10", FloorNo: "2", Date: day(1)},
		{JobID: "MEP-LOB-2", ComplainNo: "CMP-10", FloorNo: "12", Date: day(5), Status: config.JobSlipResolved},
		{JobID: "BLD-ROO-3", ComplainNo: "CMP-11", FloorNo: "3", Date: day(9)},
	} {
		j := j
		require.NoError(t, s.CreateJobSlip(ctx, &j), "slip %d", i)
	}

	items, total, err := s.ListJobSlips(ctx, storage.JobSlipFilter{JobID: "MEP"}, storage.Page{Number: 1})
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.Equal(t, "MEP-LOB-2", items[0].JobID, "newest first")

	_, total, err = s.ListJobSlips(ctx, storage.JobSlipFilter{Status: config.JobSlipPending}, storage.Page{Number: 1})
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)

	from, to := day(2), day(6)
	items, total, err = s.ListJobSlips(ctx, storage.JobSlipFilter{DateFrom: &from, DateTo: &to}, storage.Page{Number: 1})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total, "both date bounds apply")
	assert.Equal(t, "MEP-LOB-2", items[0].JobID)
}

func TestReplaceTenant_SwapsAreas(t *testing.T) {
	s := storagetest.Open(t)
	ctx := context.Background()

	tenant := &models.Tenant{
		TenantName:  "11",
		TotalAreaSq: 100,
		Areas:       []models.Area{{Floor: "1", OccupiedArea: 60}, {Floor: "2", OccupiedArea: 40}},
	}
	require.NoError(t, s.CreateTenant(ctx, tenant))

	require.NoError(t, s.ReplaceTenant(ctx, &models.Tenant{
		ID:          tenant.ID,
		TenantName:  "11",
		TotalAreaSq: 80,
		Areas:       []models.Area{{Floor: "5", OccupiedArea: 80, Location: "east"}},
	}))

	got, err := s.GetTenant(ctx, tenant.ID)
	require.NoError(t, err)
	assert.Equal(t, 80.0, got.TotalAreaSq)
	require.Len(t, got.Areas, 1)
	assert.Equal(t, "5", got.Areas[0].Floor)

	var areaCount int64
	require.NoError(t, s.DB.Model(&models.Area{}).Count(&areaCount).Error)
	assert.EqualValues(t, 1, areaCount)

	assert.ErrorIs(t, s.ReplaceTenant(ctx, &models.Tenant{ID: 999}), storage.ErrNotFound)

	require.NoError(t, s.DeleteTenant(ctx, tenant.ID))
	assert.ErrorIs(t, s.DeleteTenant(ctx, tenant.ID), storage.ErrNotFound)
}

func TestTransaction_RollsBack(t *testing.T) {
	s := storagetest.Open(t)
	ctx := context.Background()
	boom := errors.New("boom")

	err := s.Transaction(ctx, func(tx storage.Storage) error {
		if err := tx.CreateComplaint(ctx, &models.FeedbackComplain{ComplainNo: "CMP-RB"}); err != nil {
			return err
		}
		return boom
	})

	assert.ErrorIs(t, err, boom)
	_, err = s.GetComplaintByNo(ctx, "CMP-RB")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestNotifications_ListAndMarkRead(t *testing.T) {
	s := storagetest.OpenSeeded(t)
	ctx := context.Background()

	ns := []models.Notification{
		{UserID: storagetest.TechAID, CreatedByID: storagetest.AdminID, AltText: "a", Link: "/x/1"},
		{UserID: storagetest.TechAID, CreatedByID: storagetest.AdminID, AltText: "b", Link: "/x/2"},
		{UserID: storagetest.TechBID, CreatedByID: storagetest.AdminID, AltText: "c", Link: "/x/3"},
	}
	require.NoError(t, s.CreateNotifications(ctx, ns))
	assert.NotZero(t, ns[0].ID, "ids are written back into the slice")

	items, total, err := s.ListNotifications(ctx, storagetest.TechAID, storage.Page{Number: 1})
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.Len(t, items, 2)

	require.NoError(t, s.MarkNotificationRead(ctx, ns[0].ID, storagetest.TechAID))
	assert.ErrorIs(t, s.MarkNotificationRead(ctx, ns[2].ID, storagetest.TechAID), storage.ErrNotFound,
		"users cannot mark someone else's notification")
}

func TestRedisHelpers_WithoutRedis(t *testing.T) {
	s := storage.NewStorageService(nil, nil)

	assert.ErrorIs(t, s.PushEvent(context.Background(), "k", []byte("x")), storage.ErrRedisDisabled)
	assert.ErrorIs(t, s.Publish(context.Background(), "c", []byte("x")), storage.ErrRedisDisabled)
	assert.Nil(t, s.Subscribe(context.Background(), "c"))
}

func TestOpenRedis_Disabled(t *testing.T) {
	rdb, err := storage.OpenRedis(context.Background(), &config.Config{})
	assert.NoError(t, err)
	assert.Nil(t, rdb)
}
