package jobs

import (
	"context"
	"errors"
	"log/slog"

	"github.com/hibiken/asynq"
)

// SessionPruner removes session rows whose expiry has passed.
type SessionPruner interface {
	PruneSessions(ctx context.Context) (int64, error)
}

// SessionCleanupJob deletes expired session records from Postgres. The Redis
// copies expire on their own TTL; this keeps the audit mirror from growing
// without bound.
type SessionCleanupJob struct {
	Pruner SessionPruner
	Logger *slog.Logger
}

// NewSessionCleanupJob initialises the cleanup handler.
func NewSessionCleanupJob(pruner SessionPruner, logger *slog.Logger) *SessionCleanupJob {
	return &SessionCleanupJob{Pruner: pruner, Logger: logger}
}

// Handle executes the cleanup.
func (j *SessionCleanupJob) Handle(ctx context.Context, _ *asynq.Task) error {
	if j == nil || j.Pruner == nil {
		return errors.New("session cleanup: handler not configured")
	}
	removed, err := j.Pruner.PruneSessions(ctx)
	logger := j.logger()
	if err != nil {
		logger.Error("cleanup failed", slog.Any("error", err))
		return err
	}
	logger.Info("expired sessions removed", slog.Int64("count", removed))
	return nil
}

func (j *SessionCleanupJob) logger() *slog.Logger {
	if j.Logger != nil {
		return j.Logger.With(slog.String("job", TaskSessionCleanup))
	}
	return slog.Default().With(slog.String("job", TaskSessionCleanup))
}
