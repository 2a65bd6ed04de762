package pubsubextender

import (
	"context"
	"time"

	"gocloud.dev/pubsub"
)

// noopDriver is used for subscriptions whose messages need no extension.
type noopDriver struct{}

// ExtendMessageDeadline implements the driver interface.
func (d *noopDriver) ExtendMessageDeadline(context.Context, *pubsub.Message, time.Duration) error {
	return nil
}

// GetSubscriptionDeadline implements the driver interface.
func (d *noopDriver) GetSubscriptionDeadline(context.Context) (time.Duration, error) {
	return 0, nil
}
