package service

import (
	"context"
	"time"

	"github.com/khoahotran/devfolio/pkg/logger"
	"go.uber.org/zap"
)

// GenerationKey holds the counter every cached listing key is prefixed with.
// Bumping it makes all cached pages unreachable at once.
const GenerationKey = "devfolio:generation"

const publishTimeout = 5 * time.Second

// Notifier runs the side effects of a successful owner write: it retires the
// cached listings and publishes the event in the background. Failures are
// logged, never returned.
type Notifier struct {
	cache  Cache
	events EventPublisher
	logger logger.Logger
}

func NewNotifier(cache Cache, events EventPublisher, log logger.Logger) *Notifier {
	return &Notifier{cache: cache, events: events, logger: log}
}

func (n *Notifier) OwnerChanged(ctx context.Context, evt OwnerEvent) {
	if evt.OccurredAt.IsZero() {
		evt.OccurredAt = time.Now().UTC()
	}

	if _, err := n.cache.Incr(ctx, GenerationKey); err != nil {
		n.logger.Warn("Failed to bump listing cache generation", zap.Error(err))
	}

	go func() {
		pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
		defer cancel()
		if err := n.events.Publish(pubCtx, evt); err != nil {
			n.logger.Error("Failed to publish owner event", err,
				zap.String("type", evt.Type), zap.String("owner_id", evt.OwnerID.String()))
		}
	}()
}
