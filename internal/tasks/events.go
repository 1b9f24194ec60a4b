package tasks

import (
	"context"
	"time"

	"catalogapi/internal/model"
)

// ProductEvents turns product lifecycle changes into webhook deliveries
// executed on the runner. When no webhook is configured it does nothing.
type ProductEvents struct {
	runner   *Runner
	notifier *WebhookNotifier
}

// NewProductEvents wires product notifications onto the given runner.
func NewProductEvents(runner *Runner, notifier *WebhookNotifier) *ProductEvents {
	return &ProductEvents{runner: runner, notifier: notifier}
}

// ProductCreated enqueues a product.created delivery with the full record.
func (e *ProductEvents) ProductCreated(p model.Product) {
	e.deliver("product.created", p)
}

// ProductDeleted enqueues a product.deleted delivery carrying only the ID.
func (e *ProductEvents) ProductDeleted(id string) {
	e.deliver("product.deleted", map[string]string{"id": id})
}

func (e *ProductEvents) deliver(eventType string, payload any) {
	if !e.notifier.Enabled() {
		return
	}
	ev := Event{Type: eventType, OccurredAt: time.Now().UTC(), Payload: payload}
	e.runner.Enqueue(Task{
		Name: eventType,
		Run: func(ctx context.Context) error {
			return e.notifier.Send(ctx, ev)
		},
	})
}
