package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/slms-api/internal/models"
	"github.com/noah-isme/slms-api/pkg/config"
	"github.com/noah-isme/slms-api/pkg/jobs"
)

const auditJobType = "audit_log"

type auditLogger interface {
	CreateAuditLog(ctx context.Context, log *models.AuditLog) error
}

// AuditDispatcher writes audit logs off the request path through a job queue.
type AuditDispatcher struct {
	repo   auditLogger
	queue  *jobs.Queue
	logger *zap.Logger
}

// NewAuditDispatcher builds the dispatcher and its worker queue. Call Start before use.
func NewAuditDispatcher(repo auditLogger, cfg config.JobsConfig, logger *zap.Logger) *AuditDispatcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	d := &AuditDispatcher{repo: repo, logger: logger}
	d.queue = jobs.NewQueue("audit", d.handle, jobs.QueueConfig{
		Workers:    cfg.AuditWorkers,
		BufferSize: cfg.AuditBuffer,
		MaxRetries: cfg.AuditRetries,
		RetryDelay: 500 * time.Millisecond,
		Logger:     logger,
	})
	return d
}

// Start launches the audit workers.
func (d *AuditDispatcher) Start(ctx context.Context) {
	d.queue.Start(ctx)
}

// Stop halts the workers. Entries still buffered are dropped and logged by the queue.
func (d *AuditDispatcher) Stop() {
	d.queue.Stop()
}

// CreateAuditLog enqueues the log without blocking. A full or stopped queue drops the entry.
func (d *AuditDispatcher) CreateAuditLog(ctx context.Context, log *models.AuditLog) error {
	if log == nil {
		return nil
	}
	if log.ID == "" {
		log.ID = uuid.NewString()
	}
	if log.CreatedAt.IsZero() {
		log.CreatedAt = time.Now().UTC()
	}
	err := d.queue.TryEnqueue(jobs.Job{ID: log.ID, Type: auditJobType, Payload: log})
	if err != nil {
		d.logger.Warn("audit log dropped", zap.String("action", log.Action), zap.Error(err))
	}
	return err
}

func (d *AuditDispatcher) handle(ctx context.Context, job jobs.Job) error {
	log, ok := job.Payload.(*models.AuditLog)
	if !ok {
		return fmt.Errorf("unexpected audit payload %T", job.Payload)
	}
	return d.repo.CreateAuditLog(ctx, log)
}

// emitAudit records a log entry best-effort; failures are logged and swallowed.
func emitAudit(ctx context.Context, audit auditLogger, logger *zap.Logger, entry *models.AuditLog) {
	if audit == nil || entry == nil {
		return
	}
	if err := audit.CreateAuditLog(ctx, entry); err != nil && !errors.Is(err, jobs.ErrQueueFull) && logger != nil {
		logger.Warn("failed to record audit log", zap.String("action", entry.Action), zap.Error(err))
	}
}

func auditEntry(actorID, action, resource, resourceID string, values interface{}) *models.AuditLog {
	entry := &models.AuditLog{
		Action:   action,
		Resource: resource,
	}
	if actorID != "" {
		entry.UserID = &actorID
	}
	if resourceID != "" {
		entry.ResourceID = &resourceID
	}
	if values != nil {
		if data, err := json.Marshal(values); err == nil {
			entry.NewValues = data
		}
	}
	return entry
}
