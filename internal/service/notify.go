package service

import (
	"context"
	"fmt"
	"log"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"socialnet/internal/model"
	"socialnet/internal/repository"
)

// notify writes a fan-out row for recipient. Self-notifications are dropped;
// an encode failure is logged and swallowed so it never aborts the action
// that produced it.
func notify(ctx context.Context, tx repository.Repos, recipient, actor uuid.UUID, target *uuid.UUID, payload model.NotificationPayload) error {
	if recipient == actor || recipient == uuid.Nil {
		return nil
	}

	raw, err := model.EncodePayload(payload)
	if err != nil {
		log.Printf("encode %s payload: %v", payload.Kind(), err)
		return nil
	}

	return tx.Notifications.Create(ctx, &model.Notification{
		UserID:   recipient,
		ActorID:  &actor,
		TargetID: target,
		Type:     payload.Kind(),
		Payload:  raw,
	})
}

// isAcceptedFollower reports whether viewer has an accepted follow edge to
// author. Pending requests don't count.
func isAcceptedFollower(ctx context.Context, repos repository.Repos, viewerID, authorID uuid.UUID) (bool, error) {
	if viewerID == uuid.Nil || viewerID == authorID {
		return false, nil
	}
	follow, err := repos.Follows.Find(ctx, viewerID, authorID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return false, nil
		}
		return false, fmt.Errorf("check follow: %w", err)
	}
	return follow.Status == model.FollowAccepted, nil
}
