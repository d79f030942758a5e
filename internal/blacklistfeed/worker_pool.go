package blacklistfeed

import (
	"context"
	"log/slog"

	"github.com/panjf2000/ants/v2"
)

// Handler processes a single blacklist event
type Handler interface {
	HandleMessage(ctx context.Context, key []byte, value []byte) error
}

// WorkerPoolHandler runs blacklist event handling on a bounded worker pool.
// The caller still sees synchronous semantics: HandleMessage waits for the
// worker's result so offset commits stay tied to processing outcomes.
type WorkerPoolHandler struct {
	base   Handler
	pool   *ants.Pool
	logger *slog.Logger
}

type WorkerPoolConfig struct {
	Size int
}

func NewWorkerPoolHandler(base Handler, config WorkerPoolConfig, logger *slog.Logger) (*WorkerPoolHandler, error) {
	pool, err := ants.NewPool(config.Size)
	if err != nil {
		return nil, err
	}

	return &WorkerPoolHandler{
		base:   base,
		pool:   pool,
		logger: logger,
	}, nil
}

// HandleMessage submits the event to the worker pool and waits for the result.
func (h *WorkerPoolHandler) HandleMessage(ctx context.Context, key []byte, value []byte) error {
	resultChan := make(chan error, 1)

	err := h.pool.Submit(func() {
		resultChan <- h.base.HandleMessage(ctx, key, value)
		close(resultChan)
	})
	if err != nil {
		h.logger.Error("Failed to submit blacklist event to worker pool",
			"message_key", string(key),
			"error", err,
		)
		return err
	}

	return <-resultChan
}

// Shutdown gracefully shuts down the worker pool.
func (h *WorkerPoolHandler) Shutdown() {
	h.logger.Info("Shutting down blacklist worker pool", "running_workers", h.pool.Running())
	h.pool.Release()
}

// Running returns the number of running workers in the pool.
func (h *WorkerPoolHandler) Running() int {
	return h.pool.Running()
}

// Capacity returns the capacity of the worker pool.
func (h *WorkerPoolHandler) Capacity() int {
	return h.pool.Cap()
}
