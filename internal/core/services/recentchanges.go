package services

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sort"
	"time"

	"github.com/custodia-labs/wbedit/internal/core/domain"
	"github.com/custodia-labs/wbedit/internal/core/ports/driven"
	"github.com/custodia-labs/wbedit/internal/core/ports/driving"
)

// Ensure RecentChangesService implements the interface.
var _ driving.RecentChangesService = (*RecentChangesService)(nil)

// RecentChangesService reads the recent changes feed.
type RecentChangesService struct {
	feed driven.ChangeFeed
}

// NewRecentChangesService creates a new recent changes service.
func NewRecentChangesService(feed driven.ChangeFeed) *RecentChangesService {
	return &RecentChangesService{feed: feed}
}

// RecentChanges returns the feed entries newest first. When since is not
// zero only entries dated after it are returned.
func (s *RecentChangesService) RecentChanges(ctx context.Context, since time.Time) ([]domain.RecentChange, error) {
	if s.feed == nil {
		return nil, errors.New("recent changes feed not configured")
	}

	entries, err := s.feed.Fetch(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch recent changes: %w", err)
	}

	changes := make([]domain.RecentChange, 0, len(entries))
	for _, entry := range entries {
		if !since.IsZero() && !entry.Date.After(since) {
			continue
		}
		changes = append(changes, entry)
	}

	sort.SliceStable(changes, func(i, j int) bool {
		return changes[i].Date.After(changes[j].Date)
	})

	return changes, nil
}

// ChangedTitles returns the sorted, deduplicated titles in the feed.
func (s *RecentChangesService) ChangedTitles(ctx context.Context) ([]string, error) {
	changes, err := s.RecentChanges(ctx, time.Time{})
	if err != nil {
		return nil, err
	}

	titles := make([]string, 0, len(changes))
	for _, c := range changes {
		if c.Title != "" {
			titles = append(titles, c.Title)
		}
	}

	slices.Sort(titles)
	return slices.Compact(titles), nil
}
