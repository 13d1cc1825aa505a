package postgres

import (
	"context"
	"time"

	"github.com/iho/autosave/internal/domain"
	"github.com/iho/autosave/internal/usecase"
)

var _ usecase.OutboxRepository = (*NullOutboxRepository)(nil)

// NullOutboxRepository drops every event. The server uses it when OUTBOX_ENABLED is false,
// so writes still succeed and the publisher never has anything to send.
type NullOutboxRepository struct{}

// NewNullOutboxRepository creates a new NullOutboxRepository.
func NewNullOutboxRepository() *NullOutboxRepository {
	return &NullOutboxRepository{}
}

// Create accepts the event and forgets it.
func (*NullOutboxRepository) Create(context.Context, usecase.Transaction, *domain.OutboxEvent) error {
	return nil
}

// GetUnpublished always reports an empty outbox.
func (*NullOutboxRepository) GetUnpublished(context.Context, int) ([]*domain.OutboxEvent, error) {
	return nil, nil
}

func (*NullOutboxRepository) MarkPublished(context.Context, string, time.Time) error { return nil }

func (*NullOutboxRepository) DeletePublished(context.Context, time.Time) error { return nil }
