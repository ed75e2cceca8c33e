package service

import (
	"context"
	"time"

	"github.com/google/uuid"
)

const (
	EventOwnerSignedUp        = "owner.signed_up"
	EventOwnerProfileComplete = "owner.profile_completed"
)

// OwnerEvent is published after a write to an owner document succeeded.
type OwnerEvent struct {
	Type       string     `json:"type"`
	OwnerID    uuid.UUID  `json:"owner_id"`
	ItemID     *uuid.UUID `json:"item_id,omitempty"`
	OccurredAt time.Time  `json:"occurred_at"`
}

type EventPublisher interface {
	Publish(ctx context.Context, evt OwnerEvent) error
}
