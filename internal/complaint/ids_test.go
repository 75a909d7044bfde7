package complaint_test

import (
	"testing"
	"time"

	"facilitydesk/backend/internal/complaint"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateJobSlipID(t *testing.T) {
	now := time.Date(2024, 3, 7, 9, 5, 4, 42*int(time.Millisecond), time.UTC)

	tests := []struct {
		name string
		code string
		area string
		want string
	}{
		{"area prefix", "mep", "Lobby", "MEP-LOB-240307090504042"},
		{"skips punctuation", " BLD ", "2/F - toilet", "BLD-2FT-240307090504042"},
		{"short area", "JAN", "b1", "JAN-B1-240307090504042"},
		{"no usable area", "JAN", " -- ", "JAN-GEN-240307090504042"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := complaint.GenerateJobSlipID(tt.code, tt.area, now)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := complaint.GenerateJobSlipID("  ", "Lobby", now)
	assert.ErrorIs(t, err, complaint.ErrEmptyDepartmentCode)
}

func TestGenerateComplainNo(t *testing.T) {
	now := time.UnixMilli(1717243200123)
	assert.Equal(t, "CMP-1717243200123", complaint.GenerateComplainNo(now))
}
