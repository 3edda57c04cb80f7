package service

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"socialnet/internal/model"
	"socialnet/internal/repository"
)

const (
	auditBatchSize     = 10
	auditFlushInterval = time.Second
	auditBufferSize    = 100
)

// AuditWriter persists administrative audit entries asynchronously, batching
// writes to keep moderation endpoints off the audit-table write path.
type AuditWriter struct {
	repo    repository.AuditLogRepository
	entries chan model.AuditLog

	closeOnce sync.Once
	done      chan struct{}
}

// NewAuditWriter creates the writer and starts its background worker.
func NewAuditWriter(repo repository.AuditLogRepository) *AuditWriter {
	w := &AuditWriter{
		repo:    repo,
		entries: make(chan model.AuditLog, auditBufferSize),
		done:    make(chan struct{}),
	}
	go w.worker(context.Background())
	return w
}

// Record queues an audit entry. When the buffer is full the entry is written
// synchronously instead of being dropped.
func (w *AuditWriter) Record(actorID uuid.UUID, action, targetType, targetID, detail string) {
	entry := model.AuditLog{
		ActorID:    actorID,
		Action:     action,
		TargetType: targetType,
		TargetID:   targetID,
		Detail:     detail,
	}

	select {
	case w.entries <- entry:
	default:
		_ = w.repo.Create(context.Background(), &entry)
	}
}

// Close stops the worker after flushing queued entries.
func (w *AuditWriter) Close() {
	w.closeOnce.Do(func() {
		close(w.entries)
		<-w.done
	})
}

func (w *AuditWriter) worker(ctx context.Context) {
	defer close(w.done)

	batch := make([]model.AuditLog, 0, auditBatchSize)
	ticker := time.NewTicker(auditFlushInterval)
	defer ticker.Stop()

	for {
		select {
		case entry, ok := <-w.entries:
			if !ok {
				if len(batch) > 0 {
					_ = w.repo.CreateBatch(ctx, batch)
				}
				return
			}
			batch = append(batch, entry)
			if len(batch) >= auditBatchSize {
				_ = w.repo.CreateBatch(ctx, batch)
				batch = batch[:0]
			}
		case <-ticker.C:
			if len(batch) > 0 {
				_ = w.repo.CreateBatch(ctx, batch)
				batch = batch[:0]
			}
		}
	}
}
