package repository

import (
	"context"
	"sync"
	"time"

	"github.com/turndownhq/turndown/internal/domain"
)

type auditRepository struct {
	logs []domain.BoardAuditLog
	mu   *sync.RWMutex
}

func NewAuditRepository() domain.BoardAuditRepository {
	return &auditRepository{
		mu: &sync.RWMutex{},
	}
}

func (r *auditRepository) Log(ctx context.Context, log *domain.BoardAuditLog) error {
	if log == nil || log.PropertyCode == "" {
		return domain.ErrInvalidInput
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.logs = append(r.logs, *log)

	return nil
}

func (r *auditRepository) GetByProperty(ctx context.Context, code string, limit int) ([]domain.BoardAuditLog, error) {
	if code == "" {
		return nil, domain.ErrInvalidInput
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	// Newest first
	var out []domain.BoardAuditLog
	for i := len(r.logs) - 1; i >= 0; i-- {
		if r.logs[i].PropertyCode != code {
			continue
		}
		out = append(out, r.logs[i])
		if limit > 0 && len(out) >= limit {
			break
		}
	}

	return out, nil
}

func (r *auditRepository) DeleteOlderThan(ctx context.Context, before time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	kept := r.logs[:0]
	for _, log := range r.logs {
		if !log.Timestamp.Before(before) {
			kept = append(kept, log)
		}
	}
	r.logs = kept

	return nil
}

func (r *auditRepository) EnsureIndexes(ctx context.Context) error {
	return nil // nothing to index in memory
}
