package notify_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"facilitydesk/backend/internal/mailer"
	"facilitydesk/backend/internal/models"
	"facilitydesk/backend/internal/notify"
	"facilitydesk/backend/internal/storage"
	"facilitydesk/backend/internal/storage/storagetest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func email(id uint) string {
	return fmt.Sprintf("user%d@example.com", id)
}

func notificationsFor(t *testing.T, s *storage.Service) []models.Notification {
	t.Helper()
	var ns []models.Notification
	require.NoError(t, s.DB.Order("id").Find(&ns).Error)
	return ns
}

func createSlip(t *testing.T, s *storage.Service, attendedBy string) *models.JobSlip {
	t.Helper()
	slip := &models.JobSlip{
		JobID:        "MEP-LOB-240301100000000",
		ComplainNo:   "CMP-1",
		AttendedBy:   models.ParseIDList(attendedBy),
		DepartmentID: storagetest.DeptMEP,
	}
	require.NoError(t, s.CreateJobSlip(context.Background(), slip))
	return slip
}

// TestJobSlipCreated_LossyAttendedBy covers "3,7,abc,9": the bad token is
// dropped and exactly the three technicians are emailed.
func TestJobSlipCreated_LossyAttendedBy(t *testing.T) {
	s := storagetest.OpenSeeded(t)
	m := new(MockMailer)
	m.On("Send", mock.Anything).Return(nil)
	live := &recordingPublisher{}
	svc := notify.NewService(s, m, live, "https://fm.example.com")

	slip := createSlip(t, s, "3,7,abc,9")
	require.Equal(t, models.IDList{3, 7, 9}, slip.AttendedBy)

	err := svc.Process(context.Background(), notify.NewEvent(notify.JobSlipCreated, slip.ID, storagetest.AdminID))
	require.NoError(t, err)

	techEmails := map[string]bool{
		email(storagetest.TechAID): true,
		email(storagetest.TechBID): true,
		email(storagetest.TechCID): true,
	}
	var techCount int
	for _, to := range m.sentTo() {
		if techEmails[to] {
			techCount++
		}
	}
	assert.Equal(t, 3, techCount)
	assert.ElementsMatch(t, []string{
		email(storagetest.TechAID), email(storagetest.TechBID), email(storagetest.TechCID),
		email(storagetest.BookkeeperID), email(storagetest.ManagerID),
	}, m.sentTo())

	ns := notificationsFor(t, s)
	require.Len(t, ns, 5)
	wantLink := fmt.Sprintf("/customer-relation/job-slip/view/%d", slip.ID)
	for _, n := range ns {
		assert.Equal(t, wantLink, n.Link)
		assert.Equal(t, storagetest.AdminID, n.CreatedByID)
		assert.False(t, n.IsRead)
	}
	assert.Equal(t, "Hello Tom Tech, Jobslip MEP-LOB-240301100000000 has been created by Ada Admin.", ns[0].AltText)
	assert.Len(t, live.sent, 5)
}

func TestJobSlipCreated_Wording(t *testing.T) {
	s := storagetest.OpenSeeded(t)
	m := new(MockMailer)
	m.On("Send", mock.Anything).Return(nil)
	svc := notify.NewService(s, m, nil, "https://fm.example.com")

	slip := createSlip(t, s, "")
	require.NoError(t, svc.Process(context.Background(), notify.NewEvent(notify.JobSlipCreated, slip.ID, storagetest.AdminID)))

	m.AssertCalled(t, "Send", mailer.Message{
		ToName:  "Mark Manager",
		ToEmail: email(storagetest.ManagerID),
		Subject: "New Jobslip Created in Your Department: MEP-LOB-240301100000000",
		Text: fmt.Sprintf("Hello Mark Manager,\n\nA new jobslip (MEP-LOB-240301100000000) has been created by Ada Admin. "+
			"Please review it at the following link:\n\nhttps://fm.example.com/customer-relation/job-slip/view/%d\n\nThank you.", slip.ID),
	})
	m.AssertNumberOfCalls(t, "Send", 2)

	var alt []string
	for _, n := range notificationsFor(t, s) {
		alt = append(alt, n.AltText)
	}
	assert.ElementsMatch(t, []string{
		"Hello Bea Books, Jobslip MEP-LOB-240301100000000 has been created.",
		"Hello Mark Manager, Jobslip MEP-LOB-240301100000000 has been created in your department.",
	}, alt)
}

func TestJobSlipCreated_EmailFailureDoesNotStopOthers(t *testing.T) {
	s := storagetest.OpenSeeded(t)
	m := new(MockMailer)
	m.On("Send", mock.MatchedBy(func(msg mailer.Message) bool { return msg.ToEmail == email(storagetest.TechBID) })).
		Return(errors.New("smtp down"))
	m.On("Send", mock.Anything).Return(nil)
	svc := notify.NewService(s, m, nil, "")

	slip := createSlip(t, s, "3,7,9")
	err := svc.Process(context.Background(), notify.NewEvent(notify.JobSlipCreated, slip.ID, storagetest.AdminID))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "smtp down")
	m.AssertNumberOfCalls(t, "Send", 5)
	assert.Len(t, notificationsFor(t, s), 5)
}

func TestJobSlipCreated_UnknownCreator(t *testing.T) {
	s := storagetest.OpenSeeded(t)
	m := new(MockMailer)
	svc := notify.NewService(s, m, nil, "")

	slip := createSlip(t, s, "3")
	err := svc.Process(context.Background(), notify.NewEvent(notify.JobSlipCreated, slip.ID, 999))

	assert.ErrorIs(t, err, storage.ErrNotFound)
	assert.Empty(t, notificationsFor(t, s))
	m.AssertNotCalled(t, "Send", mock.Anything)
}

// TestJanitorialCreated_FourRecipients: 1 manager, 2 janitorial supervisors
// and 1 admin; the MEP supervisor is left out.
func TestJanitorialCreated_FourRecipients(t *testing.T) {
	s := storagetest.OpenSeeded(t)
	m := new(MockMailer)
	m.On("Send", mock.Anything).Return(nil)
	svc := notify.NewService(s, m, nil, "https://fm.example.com")

	report := &models.JanitorialReport{
		Supervisor: fmt.Sprint(storagetest.JanSupAID),
		Tenant:     "1",
		SubReports: []models.SubJanReport{{FloorNo: "1", Toilet: "ok"}},
	}
	require.NoError(t, s.CreateReport(context.Background(), report))

	err := svc.Process(context.Background(), notify.NewEvent(notify.JanitorialCreated, report.ID, storagetest.JanSupAID))
	require.NoError(t, err)

	ns := notificationsFor(t, s)
	require.Len(t, ns, 4)
	var users []uint
	for _, n := range ns {
		assert.Equal(t, fmt.Sprintf("/janitorial/report/view/%d", report.ID), n.Link)
		users = append(users, n.UserID)
	}
	assert.ElementsMatch(t, []uint{storagetest.ManagerID, storagetest.JanSupAID, storagetest.JanSupBID, storagetest.AdminID}, users)
	assert.Equal(t, "Hello Mark Manager, Janitorial inspection report created by Sue Super", ns[0].AltText)
	m.AssertNumberOfCalls(t, "Send", 4)
}

func TestProcess_UnknownKind(t *testing.T) {
	svc := notify.NewService(storagetest.Open(t), new(MockMailer), nil, "")
	assert.Error(t, svc.Process(context.Background(), notify.Event{Kind: "bogus"}))
}
