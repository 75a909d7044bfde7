package complaint_test

import (
	"testing"
	"time"

	"facilitydesk/backend/internal/complaint"
	"facilitydesk/backend/internal/config"
	"facilitydesk/backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNextJobSlipStatus(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	supplied := time.Date(2024, 5, 30, 8, 0, 0, 0, time.UTC)
	pic := models.RefList{"after.jpg"}

	tests := []struct {
		name          string
		requested     string
		picture       models.RefList
		approval      bool
		completedAt   *time.Time
		wantStatus    string
		wantCompleted *time.Time
	}{
		{"picture without approval resolves", config.JobSlipPending, pic, false, nil, config.JobSlipResolved, &now},
		{"picture keeps supplied completion", config.JobSlipPending, pic, false, &supplied, config.JobSlipResolved, &supplied},
		{"approval with picture closes", config.JobSlipPending, pic, true, nil, config.JobSlipVerifiedClosed, &now},
		{"approval without picture closes", config.JobSlipCompleted, nil, true, nil, config.JobSlipVerifiedClosed, nil},
		{"no picture no approval keeps requested", config.JobSlipCompleted, nil, false, nil, config.JobSlipCompleted, nil},
		{"requested pending untouched", config.JobSlipPending, nil, false, &supplied, config.JobSlipPending, &supplied},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, completed := complaint.NextJobSlipStatus(tt.requested, tt.picture, tt.approval, tt.completedAt, now)
			assert.Equal(t, tt.wantStatus, status)
			if tt.wantCompleted == nil {
				assert.Nil(t, completed)
				return
			}
			require.NotNil(t, completed)
			assert.True(t, tt.wantCompleted.Equal(*completed))
		})
	}
}

// Every picture-bearing update without approval ends Resolved with a
// completion time, whatever status was requested.
func TestNextJobSlipStatus_PictureAlwaysCompletes(t *testing.T) {
	now := time.Now()
	for _, requested := range append([]string{""}, config.JobSlipStatuses...) {
		status, completed := complaint.NextJobSlipStatus(requested, models.RefList{"a.png"}, false, nil, now)
		assert.Equal(t, config.JobSlipResolved, status, requested)
		assert.NotNil(t, completed, requested)
	}
}

func TestAllCompleted(t *testing.T) {
	assert.False(t, complaint.AllCompleted(nil))
	assert.True(t, complaint.AllCompleted([]string{config.JobSlipCompleted, config.JobSlipCompleted}))
	assert.False(t, complaint.AllCompleted([]string{config.JobSlipCompleted, config.JobSlipVerifiedClosed}))
}
