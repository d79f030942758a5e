// Package blacklistfeed consumes suspicious IP and stolen card updates from
// the blacklist Kafka topic and applies them through the blacklist service.
// Malformed or unprocessable events are routed to the dead letter topic.
package blacklistfeed

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/antifraud-service/internal/domain/blacklist"
	"github.com/antifraud-service/internal/platform/messaging/producers"
	"github.com/antifraud-service/internal/service"
	"github.com/antifraud-service/internal/validation"
)

// Event kinds and actions accepted on the blacklist topic
const (
	KindSuspiciousIP = "suspicious_ip"
	KindStolenCard   = "stolen_card"

	ActionAdd    = "add"
	ActionRemove = "remove"
)

// Event is a blacklist update published by an upstream fraud intelligence feed
type Event struct {
	Kind          string `json:"kind"`
	Action        string `json:"action"`
	Value         string `json:"value"`
	CorrelationID string `json:"correlation_id,omitempty"`
}

// EventHandler applies blacklist update events
type EventHandler struct {
	blacklistService service.BlacklistService
	dlq              producers.DeadLetterPublisher
	logger           *slog.Logger
}

// NewEventHandler creates a new blacklist event handler
func NewEventHandler(logger *slog.Logger, blacklistService service.BlacklistService, dlq producers.DeadLetterPublisher) *EventHandler {
	return &EventHandler{
		blacklistService: blacklistService,
		dlq:              dlq,
		logger:           logger,
	}
}

// HandleMessage processes a single blacklist update from Kafka. Events that
// can never succeed (bad JSON, unknown kind or action, malformed values) go
// to the DLQ and commit; infrastructure failures are returned so the offset
// stays uncommitted and the event is retried.
func (h *EventHandler) HandleMessage(ctx context.Context, key []byte, value []byte) error {
	var event Event
	if err := json.Unmarshal(value, &event); err != nil {
		return h.deadLetter(ctx, key, value, fmt.Sprintf("failed to unmarshal blacklist event: %s", err), err)
	}

	logger := h.logger
	if event.CorrelationID != "" {
		logger = h.logger.With("correlation_id", event.CorrelationID)
	}

	logger.Info("Received blacklist update",
		"kind", event.Kind,
		"action", event.Action,
		"value", event.Value,
	)

	err := h.apply(ctx, event)
	if err == nil {
		logger.Info("Applied blacklist update", "kind", event.Kind, "action", event.Action)
		return nil
	}

	// Already-applied updates are duplicates from the feed, not failures
	var (
		ipExists     blacklist.ErrIPExists
		ipNotFound   blacklist.ErrIPNotFound
		cardExists   blacklist.ErrCardExists
		cardNotFound blacklist.ErrCardNotFound
	)
	if errors.As(err, &ipExists) || errors.As(err, &ipNotFound) ||
		errors.As(err, &cardExists) || errors.As(err, &cardNotFound) {
		logger.Info("Blacklist update already applied", "kind", event.Kind, "action", event.Action, "reason", err.Error())
		return nil
	}

	var formatErr validation.FormatError
	if errors.As(err, &formatErr) {
		return h.deadLetter(ctx, key, value, fmt.Sprintf("malformed blacklist event value: %s", formatErr), err)
	}

	logger.Error("Failed to apply blacklist update",
		"kind", event.Kind,
		"action", event.Action,
		"error", err,
	)
	return fmt.Errorf("applying blacklist update failed: %w", err)
}

func (h *EventHandler) apply(ctx context.Context, event Event) error {
	switch event.Kind {
	case KindSuspiciousIP:
		switch event.Action {
		case ActionAdd:
			_, err := h.blacklistService.AddSuspiciousIP(ctx, event.Value)
			return err
		case ActionRemove:
			return h.blacklistService.RemoveSuspiciousIP(ctx, event.Value)
		}
	case KindStolenCard:
		switch event.Action {
		case ActionAdd:
			_, err := h.blacklistService.AddStolenCard(ctx, event.Value)
			return err
		case ActionRemove:
			return h.blacklistService.RemoveStolenCard(ctx, event.Value)
		}
	default:
		return validation.FormatError{Field: "kind", Reason: "unknown blacklist event kind " + event.Kind}
	}
	return validation.FormatError{Field: "action", Reason: "unknown blacklist event action " + event.Action}
}

// deadLetter publishes an unprocessable event to the DLQ. A successful DLQ
// write commits the offset; a failed one returns the original error so the
// event is retried.
func (h *EventHandler) deadLetter(ctx context.Context, key, value []byte, reason string, cause error) error {
	h.logger.Error("Unprocessable blacklist event",
		"message_key", string(key),
		"reason", reason,
	)

	if h.dlq != nil {
		if dlqErr := h.dlq.PublishToDLQ(ctx, string(key), value, reason); dlqErr != nil {
			h.logger.Error("Failed to publish blacklist event to DLQ",
				"dlq_error", dlqErr,
				"original_error", cause,
				"message_key", string(key),
			)
		} else {
			return nil
		}
	}
	return fmt.Errorf("unprocessable blacklist event: %w", cause)
}
