package consumer

import (
	"context"
	"encoding/json"
	"errors"
	"io"

	"github.com/redis/go-redis/v9"
	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/rthunborg/Masterdata-sub001/internal/events"
	"github.com/rthunborg/Masterdata-sub001/internal/notify"
)

// Notification is what gets published on the per-user channel.
type Notification struct {
	Kind       string `json:"kind"`
	EmployeeID string `json:"employee_id"`
	Message    string `json:"message"`
}

// ConsumeEmployeeChanges reads the employee change feed and fans each event
// out to every registered session whose view it affects. Offsets are
// committed only after the event has been classified and published.
func ConsumeEmployeeChanges(
	ctx context.Context,
	reader *kafkago.Reader,
	registry *notify.SessionRegistry,
	rdb *redis.Client,
	logger *zap.Logger,
) {
	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, io.EOF) {
				return
			}
			logger.Error("fetch message failed", zap.Error(err))
			continue
		}

		var event events.EmployeeChangedEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			logger.Error("unmarshal employee change failed",
				zap.String("topic", msg.Topic),
				zap.Int64("offset", msg.Offset),
				zap.Error(err),
			)
			// Poison message, skip it.
			if err := reader.CommitMessages(ctx, msg); err != nil {
				logger.Error("commit failed", zap.Error(err))
			}
			continue
		}

		fanOut(ctx, event, registry, rdb, logger)

		if err := reader.CommitMessages(ctx, msg); err != nil {
			logger.Error("commit failed", zap.Error(err))
		}
	}
}

func fanOut(
	ctx context.Context,
	event events.EmployeeChangedEvent,
	registry *notify.SessionRegistry,
	rdb *redis.Client,
	logger *zap.Logger,
) {
	updated := snapshotFor(event)

	for sessionID, session := range registry.Snapshot() {
		kind := notify.ClassifyChange(event.Old, updated, session.View)
		if event.New == nil {
			// A hard delete is a removal for anyone who had the row on
			// screen and nothing for everyone else, whatever the filters say.
			kind = notify.ChangeNone
			if _, visible := session.View.VisibleIDs[event.EmployeeID]; visible {
				kind = notify.ChangeRemoved
			}
		}
		if kind == notify.ChangeNone {
			continue
		}

		n := Notification{
			Kind:       string(kind),
			EmployeeID: event.EmployeeID,
			Message:    notify.FormatNotification(kind, updated),
		}
		payload, err := json.Marshal(n)
		if err != nil {
			logger.Error("marshal notification failed", zap.Error(err))
			continue
		}

		if err := rdb.Publish(ctx, notify.UserChannel(session.UserID), payload).Err(); err != nil {
			logger.Warn("publish notification failed",
				zap.String("session_id", sessionID),
				zap.String("user_id", session.UserID),
				zap.Error(err),
			)
		}
	}
}

// snapshotFor picks the post-change record. Deletes carry no New snapshot,
// so the old one stands in for the notification text.
func snapshotFor(event events.EmployeeChangedEvent) events.EmployeeSnapshot {
	if event.New != nil {
		return *event.New
	}
	if event.Old != nil {
		return *event.Old
	}
	return events.EmployeeSnapshot{ID: event.EmployeeID}
}

// ListenSessionUpdates keeps the in-memory registry in sync with the
// view-state updates the API publishes.
func ListenSessionUpdates(
	ctx context.Context,
	rdb *redis.Client,
	registry *notify.SessionRegistry,
	logger *zap.Logger,
) {
	pubsub := rdb.Subscribe(ctx, notify.SessionUpdatesChannel)
	defer pubsub.Close()

	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}

			var update notify.SessionUpdate
			if err := json.Unmarshal([]byte(msg.Payload), &update); err != nil {
				logger.Error("unmarshal session update failed", zap.Error(err))
				continue
			}

			if update.Removed {
				registry.Remove(update.SessionID)
				continue
			}
			registry.Put(update.SessionID, notify.Session{
				UserID: update.UserID,
				View:   update.View.ToViewState(),
			})
		}
	}
}
