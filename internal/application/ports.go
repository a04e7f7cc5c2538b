package application

import "context"

// JobPublisher enqueues background jobs (emails). *helpers.RabbitPublisher satisfies it.
type JobPublisher interface {
	PublishJSON(ctx context.Context, body any) error
}
