package server

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"recipebox/internal/middleware"
	"recipebox/internal/notifications"
)

// publishUserEvent delivers an activity event to userID. With Redis the
// event fans out to every instance; without it only local sockets receive it.
func (s *Server) publishUserEvent(ctx context.Context, userID, eventType string, payload map[string]any) {
	if userID == "" {
		return
	}
	if s.notifier != nil {
		if err := s.notifier.NotifyUser(context.WithoutCancel(ctx), userID, eventType, payload); err != nil {
			middleware.Logger.WarnContext(ctx, "failed to publish event",
				slog.String("type", eventType),
				slog.String("target_user", userID),
				slog.String("error", err.Error()),
			)
		}
		return
	}
	if s.hub == nil {
		return
	}
	message, err := json.Marshal(notifications.Event{Type: eventType, Payload: payload, Timestamp: time.Now().UTC()})
	if err != nil {
		middleware.Logger.WarnContext(ctx, "failed to marshal event", slog.String("type", eventType), slog.String("error", err.Error()))
		return
	}
	s.hub.Broadcast(userID, string(message))
}

// notifyOwner publishes to ownerID unless the actor is the owner.
func (s *Server) notifyOwner(ctx context.Context, ownerID, actorID, eventType string, payload map[string]any) {
	if ownerID == actorID {
		return
	}
	s.publishUserEvent(ctx, ownerID, eventType, payload)
}

// publishBroadcast delivers an event to every connected client.
func (s *Server) publishBroadcast(ctx context.Context, eventType string, payload map[string]any) {
	message, err := json.Marshal(notifications.Event{Type: eventType, Payload: payload, Timestamp: time.Now().UTC()})
	if err != nil {
		middleware.Logger.WarnContext(ctx, "failed to marshal event", slog.String("type", eventType), slog.String("error", err.Error()))
		return
	}
	if s.notifier != nil {
		if err := s.notifier.PublishBroadcast(context.WithoutCancel(ctx), string(message)); err != nil {
			middleware.Logger.WarnContext(ctx, "failed to publish broadcast", slog.String("type", eventType), slog.String("error", err.Error()))
		}
		return
	}
	s.hub.BroadcastAll(string(message))
}
