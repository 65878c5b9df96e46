package driving

import (
	"context"
	"time"

	"github.com/custodia-labs/wbedit/internal/core/domain"
)

// RecentChangesService reads the recent changes of a site.
type RecentChangesService interface {
	// RecentChanges returns changes newest first. A zero since returns
	// every change in the feed.
	RecentChanges(ctx context.Context, since time.Time) ([]domain.RecentChange, error)

	// ChangedTitles returns the sorted set of recently changed page titles.
	ChangedTitles(ctx context.Context) ([]string, error)
}
