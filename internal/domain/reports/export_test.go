package reports

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleSummary() LeaveSummary {
	return LeaveSummary{
		From:          time.Date(2025, 10, 15, 0, 0, 0, 0, time.UTC),
		TotalRequests: 5,
		ApprovedCount: 3,
		RejectedCount: 1,
		PendingCount:  1,
		TotalDays:     decimal.NewFromFloat(12.5),
		ApprovalRate:  60,
		ByStatus: []StatusRow{
			{Status: "APPROVED", Count: 3, TotalDays: decimal.NewFromInt(9)},
			{Status: "PENDING", Count: 1, TotalDays: decimal.NewFromFloat(0.5)},
			{Status: "REJECTED", Count: 1, TotalDays: decimal.NewFromInt(3)},
		},
	}
}

func TestSummaryCSV(t *testing.T) {
	data, err := sampleSummary().CSV()
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 5)
	assert.Equal(t, "status,count,total_days", lines[0])
	assert.Equal(t, "APPROVED,3,9", lines[1])
	assert.Equal(t, "PENDING,1,0.5", lines[2])
	assert.Equal(t, "TOTAL,5,12.5", lines[4])
}

func TestSummaryPDF(t *testing.T) {
	data, err := sampleSummary().PDF()
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF")), "expected PDF magic bytes")
	assert.Greater(t, len(data), 500)
}
