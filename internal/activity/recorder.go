// Package activity records shopper activities emitted by carts.
package activity

import (
	"context"
	"errors"

	"kart-engine/internal/cart"

	"github.com/rs/zerolog"
)

// LogRecorder writes every activity as a structured log event.
type LogRecorder struct {
	logger zerolog.Logger
}

// NewLogRecorder creates a recorder logging at info level.
func NewLogRecorder(logger zerolog.Logger) *LogRecorder {
	return &LogRecorder{logger: logger.With().Str("component", "activity").Logger()}
}

func (r *LogRecorder) Record(ctx context.Context, activity cart.Activity) error {
	event := r.logger.Info().
		Str("activity", string(activity.Type)).
		Str("cart_id", activity.CartID.String()).
		Str("product_id", activity.ItemID).
		Str("title", activity.Title).
		Str("value", activity.Value).
		Time("occurred_at", activity.OccurredAt)
	if activity.UserID != nil {
		event = event.Str("user_id", activity.UserID.String())
	}
	event.Msg("shopper activity")
	return nil
}

// Multi fans an activity out to several recorders. Every recorder is called;
// their errors are joined.
type Multi []cart.ActivityRecorder

func (m Multi) Record(ctx context.Context, activity cart.Activity) error {
	var errs []error
	for _, r := range m {
		if err := r.Record(ctx, activity); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
