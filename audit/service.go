// api/audit/service.go
package audit

import (
	"context"
	"encoding/json"
	"time"
)

type Service interface {
	LogAccess(ctx context.Context, log AuditLog) error
	QueryLogs(ctx context.Context, from, to time.Time, userID, resourceID string) ([]AuditLog, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) LogAccess(ctx context.Context, log AuditLog) error {
	if log.Timestamp.IsZero() {
		log.Timestamp = time.Now().UTC()
	}
	return s.repo.LogAccess(ctx, log)
}

func (s *service) QueryLogs(ctx context.Context, from, to time.Time, userID, resourceID string) ([]AuditLog, error) {
	return s.repo.QueryLogs(ctx, from, to, userID, resourceID)
}

// ChangeDetails marshals a before/after pair for an audit entry.
func ChangeDetails(before, after interface{}) json.RawMessage {
	data, err := json.Marshal(map[string]interface{}{
		"before": before,
		"after":  after,
	})
	if err != nil {
		return nil
	}
	return data
}

// NopService discards audit entries. It is used when no audit backend is
// configured.
type NopService struct{}

func (NopService) LogAccess(ctx context.Context, log AuditLog) error { return nil }

func (NopService) QueryLogs(ctx context.Context, from, to time.Time, userID, resourceID string) ([]AuditLog, error) {
	return nil, nil
}
