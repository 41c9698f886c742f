package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/HackGhosT04/sccs-library-db/internal/models"
	appErrors "github.com/HackGhosT04/sccs-library-db/pkg/errors"
)

type mockOverdueLister struct {
	rows []models.OverdueLoanRow
}

func (m *mockOverdueLister) ListOverdueLoans(ctx context.Context, before time.Time) ([]models.OverdueLoanRow, error) {
	return m.rows, nil
}

func newReportService(rows []models.OverdueLoanRow) *ReportService {
	svc := NewReportService(&mockOverdueLister{rows: rows}, zap.NewNop())
	svc.now = func() time.Time { return time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC) }
	return svc
}

func TestReportServiceOverdueLoansCSV(t *testing.T) {
	svc := newReportService([]models.OverdueLoanRow{
		{LoanID: 7, UserName: "Thandi M", Email: "thandi@school.example", Title: "Go", ISBN: "978-1", DueDate: time.Date(2026, 3, 7, 0, 0, 0, 0, time.UTC)},
	})

	report, err := svc.OverdueLoans(context.Background(), staffUser(), FormatCSV)
	require.NoError(t, err)
	assert.Equal(t, "text/csv", report.ContentType)
	assert.Equal(t, "overdue-loans-20260310.csv", report.FileName)

	content := string(report.Content)
	assert.True(t, strings.HasPrefix(content, "Loan ID,Borrower,Email,Title,ISBN,Due Date,Days Overdue"))
	assert.Contains(t, content, "7,Thandi M,thandi@school.example,Go,978-1,2026-03-07,3")
}

func TestReportServiceOverdueLoansPDF(t *testing.T) {
	svc := newReportService(nil)

	report, err := svc.OverdueLoans(context.Background(), staffUser(), FormatPDF)
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", report.ContentType)
	assert.Equal(t, "overdue-loans-20260310.pdf", report.FileName)
	assert.NotEmpty(t, report.Content)
}

func TestReportServiceOverdueLoansGuards(t *testing.T) {
	svc := newReportService(nil)

	var apiErr *appErrors.Error
	_, err := svc.OverdueLoans(context.Background(), student(9), FormatCSV)
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, appErrors.ErrForbidden.Code, apiErr.Code)

	_, err = svc.OverdueLoans(context.Background(), staffUser(), "xlsx")
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, appErrors.ErrValidation.Code, apiErr.Code)
}
