// Package eventbus publishes schedule lifecycle events (a schedule was
// generated, a push to the calendar failed, a habit was materialized) so
// other processes — a notifier, an audit log — can react without the
// scheduler itself knowing they exist.
package eventbus

import "context"

// Publisher sends a message to the event bus under a routing key.
type Publisher interface {
	Publish(ctx context.Context, routingKey string, payload []byte) error
	Close() error
}

// Routing keys for the events this module emits.
const (
	RoutingKeyScheduleGenerated = "schedule.generated"
	RoutingKeySyncFailed        = "calendar.sync_failed"
	RoutingKeyHabitMaterialized = "habit.materialized"
)
