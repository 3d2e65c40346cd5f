package tasks

import (
	"encoding/json"

	"github.com/hibiken/asynq"

	"github.com/legacy-sukawarna/rsvp-app/core/constants"
)

// Enqueuer is the slice of asynq.Client the services need. Kept small so
// tests can fake it.
type Enqueuer interface {
	Enqueue(task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// ImageCleanupPayload names the blob to remove after an event is deleted or
// its image replaced.
type ImageCleanupPayload struct {
	ImageURL string `json:"image_url"`
}

func NewImageCleanupTask(imageURL string) (*asynq.Task, error) {
	payload, err := json.Marshal(ImageCleanupPayload{ImageURL: imageURL})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(constants.TaskTypeImageCleanup, payload, asynq.MaxRetry(5)), nil
}
