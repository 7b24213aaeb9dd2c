package calendar

import (
	"context"

	domain "studio/internal/domain/calendar"
)

// Store is the append-only calendar item log.
// Items come back in append order; there is no update or delete.
type Store interface {
	Append(ctx context.Context, item domain.Item) error
	List(ctx context.Context) ([]domain.Item, error)
	ListOverlapping(ctx context.Context, from, to string) ([]domain.Item, error)
}
