package adapter

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"

	"school-app-backend/internal/infrastructure/logger"
	"school-app-backend/internal/infrastructure/queue/port"
)

// AsynqClient implements port.Client on github.com/hibiken/asynq with Redis
// as the backing store.
type AsynqClient struct {
	client *asynq.Client
}

// NewAsynqClientFromEnv constructs a client from the REDIS_URL env var.
func NewAsynqClientFromEnv() (*AsynqClient, error) {
	redisURL := os.Getenv("REDIS_URL")
	if redisURL == "" {
		return nil, errors.New("asynq: REDIS_URL environment variable is not set")
	}
	opt, err := asynq.ParseRedisURI(redisURL)
	if err != nil {
		return nil, fmt.Errorf("asynq: parse REDIS_URL: %w", err)
	}
	return &AsynqClient{client: asynq.NewClient(opt)}, nil
}

var _ port.Client = (*AsynqClient)(nil)

func (a *AsynqClient) Enqueue(ctx context.Context, t port.Task, opts ...port.EnqueueOption) (string, error) {
	if t.Type == "" {
		return "", errors.New("asynq: task type is required")
	}
	var asynqOpts []asynq.Option
	if len(opts) > 0 {
		// One consolidated option per call keeps the port small.
		op := opts[0]
		if op.Queue != "" {
			asynqOpts = append(asynqOpts, asynq.Queue(op.Queue))
		}
		if op.ProcessIn > 0 {
			asynqOpts = append(asynqOpts, asynq.ProcessIn(op.ProcessIn))
		}
		if op.MaxRetry > 0 {
			asynqOpts = append(asynqOpts, asynq.MaxRetry(op.MaxRetry))
		}
		if op.UniqueTTL > 0 {
			asynqOpts = append(asynqOpts, asynq.Unique(op.UniqueTTL))
		}
	}
	info, err := a.client.EnqueueContext(ctx, asynq.NewTask(t.Type, t.Payload), asynqOpts...)
	if err != nil {
		return "", err
	}
	return info.ID, nil
}

func (a *AsynqClient) Close() error {
	return a.client.Close()
}

// AsynqServer implements port.Server.
type AsynqServer struct {
	server *asynq.Server
	mux    *asynq.ServeMux
}

// NewAsynqServer constructs a worker server from REDIS_URL plus optional
// tuning:
//   - ASYNQ_CONCURRENCY: int (default 10)
//   - ASYNQ_QUEUES: CSV like "default=1,push=2"
func NewAsynqServer() (*AsynqServer, error) {
	redisURL := os.Getenv("REDIS_URL")
	if redisURL == "" {
		return nil, errors.New("asynq: REDIS_URL environment variable is not set")
	}
	opt, err := asynq.ParseRedisURI(redisURL)
	if err != nil {
		return nil, fmt.Errorf("asynq: parse REDIS_URL: %w", err)
	}

	concurrency := 10
	if v := strings.TrimSpace(os.Getenv("ASYNQ_CONCURRENCY")); v != "" {
		if i, err := strconv.Atoi(v); err == nil && i > 0 {
			concurrency = i
		}
	}

	// Consume both queues out of the box so push delivery and sweep jobs
	// run without extra configuration.
	queues := map[string]int{"default": 1, "push": 2}
	if v := strings.TrimSpace(os.Getenv("ASYNQ_QUEUES")); v != "" {
		if parsed := parseQueueWeights(v); len(parsed) > 0 {
			queues = parsed
		}
	}

	srv := asynq.NewServer(opt, asynq.Config{
		Concurrency: concurrency,
		Queues:      queues,
		ErrorHandler: asynq.ErrorHandlerFunc(func(ctx context.Context, task *asynq.Task, err error) {
			logger.Error("asynq: task failed", zap.String("type", task.Type()), zap.Error(err))
		}),
	})
	return &AsynqServer{server: srv, mux: asynq.NewServeMux()}, nil
}

var _ port.Server = (*AsynqServer)(nil)

func (s *AsynqServer) Register(taskType string, h port.Handler) {
	s.mux.HandleFunc(taskType, func(ctx context.Context, t *asynq.Task) error {
		return h(ctx, port.Task{Type: t.Type(), Payload: t.Payload()})
	})
}

// Run starts the server and blocks until the context is canceled, then
// shuts down gracefully.
func (s *AsynqServer) Run(ctx context.Context) error {
	if err := s.server.Start(s.mux); err != nil {
		return err
	}
	<-ctx.Done()
	s.server.Shutdown()
	return nil
}

func (s *AsynqServer) Stop(ctx context.Context) error {
	_ = ctx // asynq's Shutdown takes no context
	s.server.Shutdown()
	return nil
}

// parseQueueWeights parses "default=1,push=2" into a weight map.
func parseQueueWeights(s string) map[string]int {
	res := make(map[string]int)
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		kv := strings.SplitN(part, "=", 2)
		name := strings.TrimSpace(kv[0])
		if name == "" {
			continue
		}
		w := 1
		if len(kv) == 2 {
			if i, err := strconv.Atoi(strings.TrimSpace(kv[1])); err == nil && i > 0 {
				w = i
			}
		}
		res[name] = w
	}
	return res
}
