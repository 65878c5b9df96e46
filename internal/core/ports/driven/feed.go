package driven

import (
	"context"

	"github.com/custodia-labs/wbedit/internal/core/domain"
)

// ChangeFeed reads the recent changes feed of a site.
type ChangeFeed interface {
	// Fetch returns the entries currently in the feed, in feed order.
	Fetch(ctx context.Context) ([]domain.RecentChange, error)
}
