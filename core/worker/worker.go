package worker

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"

	"github.com/legacy-sukawarna/rsvp-app/core/constants"
	"github.com/legacy-sukawarna/rsvp-app/core/logger"
	"github.com/legacy-sukawarna/rsvp-app/core/storage"
	"github.com/legacy-sukawarna/rsvp-app/core/tasks"
)

// Worker runs the asynq server alongside the HTTP server in the same
// process. Currently the only task is S3 image cleanup.
type Worker struct {
	server  *asynq.Server
	storage storage.Storage
}

func New(redisAddr string, redisPassword string, redisDB int, store storage.Storage) *Worker {
	server := asynq.NewServer(
		asynq.RedisClientOpt{Addr: redisAddr, Password: redisPassword, DB: redisDB},
		asynq.Config{
			Concurrency: 5,
		},
	)
	return &Worker{server: server, storage: store}
}

// Start runs the worker loop in a goroutine.
func (w *Worker) Start() error {
	mux := asynq.NewServeMux()
	mux.HandleFunc(constants.TaskTypeImageCleanup, w.handleImageCleanup)

	go func() {
		if err := w.server.Run(mux); err != nil {
			logger.Error("Worker:Run:Error", "error", err)
		}
	}()
	return nil
}

func (w *Worker) Shutdown() {
	w.server.Shutdown()
}

func (w *Worker) handleImageCleanup(ctx context.Context, t *asynq.Task) error {
	var payload tasks.ImageCleanupPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("image cleanup: bad payload: %w: %w", err, asynq.SkipRetry)
	}

	key, ok := w.storage.KeyFromURL(payload.ImageURL)
	if !ok {
		// Image was hosted elsewhere; nothing for us to delete.
		logger.Warn("Worker:ImageCleanup:ForeignURL", "url", payload.ImageURL)
		return nil
	}

	if err := w.storage.Delete(ctx, key); err != nil {
		return fmt.Errorf("image cleanup: delete %s: %w", key, err)
	}

	logger.Info("Worker:ImageCleanup:Deleted", "key", key)
	return nil
}
