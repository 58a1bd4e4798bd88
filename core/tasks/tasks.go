package tasks

import (
	"interviewhub/core/config"
	"interviewhub/core/logger"

	"github.com/hibiken/asynq"
)

// NewClient returns an asynq client bound to the configured redis instance.
// The client is used to enqueue fire-and-forget work (notification fan-out).
func NewClient(cfg config.RedisConfig) *asynq.Client {
	return asynq.NewClient(asynq.RedisClientOpt{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
}

// NewServer returns an asynq worker server. Handlers are registered by the
// caller on the returned mux before Run.
func NewServer(cfg config.RedisConfig, concurrency int) (*asynq.Server, *asynq.ServeMux) {
	srv := asynq.NewServer(
		asynq.RedisClientOpt{
			Addr:     cfg.Addr,
			Password: cfg.Password,
			DB:       cfg.DB,
		},
		asynq.Config{
			Concurrency: concurrency,
		},
	)
	return srv, asynq.NewServeMux()
}

// RunWorker starts the worker loop in a goroutine. Worker failure is logged
// but never takes the API down: notification delivery is best-effort.
func RunWorker(srv *asynq.Server, mux *asynq.ServeMux) {
	go func() {
		if err := srv.Run(mux); err != nil {
			logger.Error("Tasks:RunWorker", err)
		}
	}()
}
