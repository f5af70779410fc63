package task

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	qport "school-app-backend/internal/infrastructure/queue/port"
	chat "school-app-backend/internal/pkg/chat/application/domain"
	"school-app-backend/internal/pkg/chat/application/usecase"
	repository "school-app-backend/internal/pkg/chat/persistence/repository/port"
)

// SweepThreadsTaskType is the queue task name for the administrative
// duplicate-thread sweep.
const SweepThreadsTaskType = "chat:sweep_threads"

// SweepThreadsPayload selects which thread kind to scan.
type SweepThreadsPayload struct {
	Kind chat.ThreadKind `json:"kind"`
}

// RegisterSweepThreadsTask binds the duplicate-sweep handler to the worker.
// Per-group merge outcomes are logged individually; one group's failure never
// aborts the rest.
func RegisterSweepThreadsTask(srv qport.Server, threads repository.ThreadRepository, log *zap.Logger) {
	srv.Register(SweepThreadsTaskType, func(ctx context.Context, t qport.Task) error {
		var p SweepThreadsPayload
		if err := json.Unmarshal(t.Payload, &p); err != nil {
			return nil
		}
		if !p.Kind.IsValid() {
			return nil
		}

		ctx, cancel := context.WithTimeout(ctx, 60*time.Second)
		defer cancel()

		uc := usecase.NewSweepThreadsUseCase(threads, log)
		report, err := uc.Execute(ctx, usecase.SweepThreadsInput{Kind: p.Kind})
		if err != nil {
			return err
		}
		log.Info("sweep: completed",
			zap.String("kind", string(p.Kind)),
			zap.Int("duplicate_groups", report.GroupCount),
			zap.Int("merged", report.Merged),
			zap.Int("failed", report.Failed))
		return nil
	})
}
