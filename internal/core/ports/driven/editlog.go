package driven

import (
	"context"

	"github.com/custodia-labs/wbedit/internal/core/domain"
)

// EditLogStore persists the journal of edits applied through this client.
type EditLogStore interface {
	// Append stores a record.
	Append(ctx context.Context, record domain.EditRecord) error

	// List returns records newest first. An empty entityID lists all
	// entities; a limit of 0 or less returns every record.
	List(ctx context.Context, entityID string, limit int) ([]domain.EditRecord, error)
}
