package pubsubextender

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"path"
	"regexp"
	"strings"
	"time"

	api "cloud.google.com/go/pubsub/apiv1"
	pb "cloud.google.com/go/pubsub/apiv1/pubsubpb"
	"gocloud.dev/pubsub"
	"gocloud.dev/pubsub/gcppubsub"
)

// Ack deadline bounds accepted by Cloud Pub/Sub.
const (
	gcpMinAckDeadline = 10 * time.Second
	gcpMaxAckDeadline = 600 * time.Second
)

var (
	ErrUnsupportedScheme  = errors.New("unsupported scheme")
	ErrNotGCPSubscription = errors.New("not a GCP subscription")
	ErrNotGCPMessage      = errors.New("not a GCP message")
)

var subscriptionPathRE = regexp.MustCompile("^projects/.+/subscriptions/.+$")

// subscriptionPath returns the full resource name of the subscription in u.
// Both gcppubsub://projects/p/subscriptions/s and gcppubsub://p/s are accepted.
func subscriptionPath(u *url.URL) string {
	p := path.Join(u.Host, u.Path)
	if subscriptionPathRE.MatchString(p) {
		return p
	}
	return fmt.Sprintf("projects/%s/subscriptions/%s", u.Host, strings.TrimPrefix(u.Path, "/"))
}

type gcpDriver struct {
	client *api.SubscriberClient
	path   string
}

func newGCPDriver(u *url.URL, sub *pubsub.Subscription) (driver, error) {
	if u.Scheme != gcppubsub.Scheme {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedScheme, u.Scheme)
	}

	var c *api.SubscriberClient
	if sub == nil || !sub.As(&c) {
		return nil, ErrNotGCPSubscription
	}
	return &gcpDriver{client: c, path: subscriptionPath(u)}, nil
}

// ExtendMessageDeadline implements the driver interface. The deadline is
// clamped to the range accepted by the service.
func (d *gcpDriver) ExtendMessageDeadline(ctx context.Context, msg *pubsub.Message, deadline time.Duration) error {
	deadline = min(max(deadline, gcpMinAckDeadline), gcpMaxAckDeadline)

	var rm *pb.ReceivedMessage
	if !msg.As(&rm) {
		return ErrNotGCPMessage
	}

	if err := d.client.ModifyAckDeadline(ctx, &pb.ModifyAckDeadlineRequest{
		Subscription:       d.path,
		AckIds:             []string{rm.AckId},
		AckDeadlineSeconds: int32(deadline / time.Second),
	}); err != nil {
		return fmt.Errorf("failed to extend message deadline: %w", err)
	}
	return nil
}

// GetSubscriptionDeadline implements the driver interface.
func (d *gcpDriver) GetSubscriptionDeadline(ctx context.Context) (time.Duration, error) {
	resp, err := d.client.GetSubscription(ctx, &pb.GetSubscriptionRequest{Subscription: d.path})
	if err != nil {
		return 0, err
	}
	return time.Duration(resp.GetAckDeadlineSeconds()) * time.Second, nil
}
