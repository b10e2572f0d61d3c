package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/result-processing-api/internal/dto"
	"github.com/noah-isme/result-processing-api/internal/models"
	appErrors "github.com/noah-isme/result-processing-api/pkg/errors"
)

type auditReaderStub struct {
	filter models.AuditLogFilter
	logs   []models.AuditLog
	total  int
	err    error
}

func (s *auditReaderStub) List(ctx context.Context, filter models.AuditLogFilter) ([]models.AuditLog, int, error) {
	s.filter = filter
	return s.logs, s.total, s.err
}

func TestAuditLogServiceListBuildsFilter(t *testing.T) {
	repo := &auditReaderStub{logs: []models.AuditLog{{ID: "log-1", Action: models.AuditActionLockSemester}}, total: 7}
	svc := NewAuditLogService(repo, nil)

	logs, page, err := svc.List(context.Background(), dto.AuditLogQuery{
		Action:   " lock_semester ",
		Resource: "session",
		From:     "2024-03-01",
		To:       "2024-03-31",
		Page:     2,
		PageSize: 5,
	})
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, models.AuditActionLockSemester, repo.filter.Action)
	assert.Equal(t, "session", repo.filter.Resource)
	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), repo.filter.From)
	assert.Equal(t, time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC), repo.filter.To)
	assert.Equal(t, models.Pagination{Page: 2, PageSize: 5, TotalCount: 7}, *page)
}

func TestAuditLogServiceListDefaultsAndEmpty(t *testing.T) {
	repo := &auditReaderStub{}
	svc := NewAuditLogService(repo, nil)

	logs, page, err := svc.List(context.Background(), dto.AuditLogQuery{PageSize: 1000})
	require.NoError(t, err)
	assert.NotNil(t, logs)
	assert.Empty(t, logs)
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, 50, page.PageSize)
	assert.True(t, repo.filter.From.IsZero())
}

func TestAuditLogServiceListRejectsBadRange(t *testing.T) {
	svc := NewAuditLogService(&auditReaderStub{}, nil)

	_, _, err := svc.List(context.Background(), dto.AuditLogQuery{From: "01/03/2024"})
	assert.True(t, appErrors.Is(err, appErrors.ErrValidation))

	_, _, err = svc.List(context.Background(), dto.AuditLogQuery{From: "2024-04-02", To: "2024-04-01"})
	assert.True(t, appErrors.Is(err, appErrors.ErrValidation))
}

func TestAuditLogServiceListWrapsStoreFailure(t *testing.T) {
	svc := NewAuditLogService(&auditReaderStub{err: errors.New("connection reset")}, nil)

	_, _, err := svc.List(context.Background(), dto.AuditLogQuery{})
	assert.True(t, appErrors.Is(err, appErrors.ErrInternal))
}
