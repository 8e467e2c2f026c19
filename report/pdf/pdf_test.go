package pdf_test

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/timesheet-engine/generic"
	"github.com/warp/timesheet-engine/report/pdf"
	"github.com/warp/timesheet-engine/timesheet"
)

func TestRender_AllKinds(t *testing.T) {
	lines := []timesheet.ReportLine{
		{UserID: "u1", UserName: "Zoë", ProjectID: "p1", ProjectName: "Apollo", Status: timesheet.StatusAccepted, Date: generic.NewTimePoint(2024, 12, 2), Hours: "8"},
		{UserID: "u1", UserName: "Zoë", ProjectID: "p2", ProjectName: "Zephyr", Status: timesheet.StatusSaved, Date: generic.NewTimePoint(2024, 12, 3), Hours: "2.5"},
	}
	rng := generic.MonthPeriod(2024, time.December)

	for _, kind := range timesheet.ReportKinds {
		t.Run(string(kind), func(t *testing.T) {
			r := timesheet.Aggregate(kind, rng, lines, timesheet.ApprovedStrict)

			var buf bytes.Buffer
			require.NoError(t, pdf.Render(&buf, r, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)))
			assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))
			assert.Greater(t, buf.Len(), 500)
		})
	}
}

func TestRender_EmptyReport(t *testing.T) {
	r := timesheet.Aggregate(timesheet.ReportProjectSummary, generic.MonthPeriod(2024, time.February), nil, timesheet.ApprovedStrict)

	var buf bytes.Buffer
	require.NoError(t, pdf.Render(&buf, r, time.Now()))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))
}

func TestTitle(t *testing.T) {
	assert.Equal(t, "Employee Detail Report", pdf.Title(timesheet.Report{Kind: timesheet.ReportEmployeeDetail}))
	assert.Equal(t, "Project Summary Report", pdf.Title(timesheet.Report{}))
}
