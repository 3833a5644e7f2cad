package reports

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"

	"github.com/jung-kurt/gofpdf"
)

func (s LeaveSummary) CSV() ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	if err := writer.Write([]string{"status", "count", "total_days"}); err != nil {
		return nil, err
	}
	for _, row := range s.ByStatus {
		record := []string{row.Status, strconv.Itoa(row.Count), row.TotalDays.String()}
		if err := writer.Write(record); err != nil {
			return nil, err
		}
	}
	if err := writer.Write([]string{"TOTAL", strconv.Itoa(s.TotalRequests), s.TotalDays.String()}); err != nil {
		return nil, err
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (s LeaveSummary) PDF() ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(40, 10, "Leave Summary")
	pdf.Ln(12)
	pdf.SetFont("Helvetica", "", 12)
	pdf.Cell(0, 8, fmt.Sprintf("Since: %s", s.From.Format("2006-01-02")))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Total requests: %d", s.TotalRequests))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Approved: %d  Rejected: %d  Pending: %d", s.ApprovedCount, s.RejectedCount, s.PendingCount))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Total days: %s", s.TotalDays.String()))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Approval rate: %.1f%%", s.ApprovalRate))
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(60, 8, "Status")
	pdf.Cell(40, 8, "Count")
	pdf.Cell(40, 8, "Days")
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "", 12)
	for _, row := range s.ByStatus {
		pdf.Cell(60, 8, row.Status)
		pdf.Cell(40, 8, strconv.Itoa(row.Count))
		pdf.Cell(40, 8, row.TotalDays.String())
		pdf.Ln(8)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
