package handler

import (
	"context"
	"encoding/json"

	"github.com/pricofy/bedrock-translator/internal/domain"
	"github.com/pricofy/bedrock-translator/internal/warmup"
)

// EventHandler handles a decoded invocation event.
type EventHandler func(ctx context.Context, event domain.Event) (domain.Envelope, error)

// LambdaFunc is the signature passed to lambda.Start.
type LambdaFunc func(ctx context.Context, raw json.RawMessage) (domain.Envelope, error)

// Lambda wraps next with warmup detection and event decoding.
// A payload that does not decode is treated as carrying no arguments.
func Lambda(warmer *warmup.Warmer, next EventHandler) LambdaFunc {
	return func(ctx context.Context, raw json.RawMessage) (domain.Envelope, error) {
		// Warmup detection (MUST be first - before any other processing)
		if event, ok := warmup.IsWarmupEvent(raw); ok {
			return warmer.Handle(ctx, event), nil
		}

		var event domain.Event
		if err := json.Unmarshal(raw, &event); err != nil {
			event = domain.Event{}
		}

		return next(ctx, event)
	}
}
